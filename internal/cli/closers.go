package cli

import (
	"errors"
	"io"
)

// Closers releases resources in reverse order of Add. main closes them
// itself before exiting, because os.Exit skips deferred calls.
type Closers []io.Closer

func (c *Closers) Add(cl io.Closer) {
	*c = append(*c, cl)
}

// Close closes every resource once, even after an earlier failure, and
// returns the joined errors.
func (c *Closers) Close() error {
	var errs []error
	for i := len(*c) - 1; i >= 0; i-- {
		if err := (*c)[i].Close(); err != nil {
			errs = append(errs, err)
		}
	}
	*c = nil
	return errors.Join(errs...)
}
