package cli

import (
	"errors"
	"reflect"
	"testing"
)

type recordingCloser struct {
	name   string
	err    error
	closed *[]string
}

func (r recordingCloser) Close() error {
	*r.closed = append(*r.closed, r.name)
	return r.err
}

func TestClosers(t *testing.T) {
	errCache := errors.New("cache flush failed")

	tests := []struct {
		name      string
		errs      map[string]error
		wantOrder []string
		wantErr   error
	}{
		{"reverse order", nil, []string{"cache", "store"}, nil},
		{"failure does not stop the rest", map[string]error{"cache": errCache}, []string{"cache", "store"}, errCache},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var closed []string
			var c Closers
			c.Add(recordingCloser{name: "store", err: tt.errs["store"], closed: &closed})
			c.Add(recordingCloser{name: "cache", err: tt.errs["cache"], closed: &closed})

			err := c.Close()
			if !reflect.DeepEqual(closed, tt.wantOrder) {
				t.Errorf("close order = %v, want %v", closed, tt.wantOrder)
			}
			if tt.wantErr == nil && err != nil {
				t.Errorf("Close() = %v, want nil", err)
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Errorf("Close() = %v, want %v", err, tt.wantErr)
			}

			if err := c.Close(); err != nil || len(closed) != 2 {
				t.Errorf("second Close closed again: %v, %v", closed, err)
			}
		})
	}
}
