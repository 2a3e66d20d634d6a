package errors

import (
	"bytes"
	stderrors "errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"testing"
)

func TestFormat(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected string
	}{
		{
			name:     "nil error",
			err:      nil,
			expected: "",
		},
		{
			name:     "not found error",
			err:      NotFound("habit", "water-123"),
			expected: "Error: habit not found: water-123",
		},
		{
			name:     "validation error",
			err:      Validation("trackingType", "unknown value \"bool\""),
			expected: "Error: invalid trackingType: unknown value \"bool\"",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Format(tt.err)
			if result != tt.expected {
				t.Errorf("Format(%v) = %q, want %q", tt.err, result, tt.expected)
			}
		})
	}
}

func TestTypedErrorsUnwrap(t *testing.T) {
	cause := stderrors.New("disk full")
	wrapped := fmt.Errorf("save habit: %w", Persistence("save", cause))

	if !IsPersistence(wrapped) {
		t.Error("expected wrapped error to be a persistence error")
	}
	if !stderrors.Is(wrapped, cause) {
		t.Error("expected persistence error to unwrap to its cause")
	}
	if IsNotFound(wrapped) || IsValidation(wrapped) {
		t.Error("persistence error misclassified")
	}

	nf := fmt.Errorf("check in: %w", NotFound("node", "n1"))
	var target *NotFoundError
	if !stderrors.As(nf, &target) {
		t.Fatal("expected NotFoundError via As")
	}
	if target.Kind != "node" || target.ID != "n1" {
		t.Errorf("unexpected NotFoundError fields: %+v", target)
	}

	if Persistence("noop", nil) != nil {
		t.Error("Persistence(nil) should be nil")
	}

	conflict := fmt.Errorf("save: %w", ErrConflict)
	if !Is(conflict, ErrConflict) {
		t.Error("expected ErrConflict to survive wrapping")
	}
}

// TestFatal tests the Fatal function using exec helper process
func TestFatal(t *testing.T) {
	if os.Getenv("GO_TEST_FATAL") == "1" {
		Fatal(stderrors.New("test error"))
		return
	}

	cmd := exec.Command(os.Args[0], "-test.run=TestFatal$")
	cmd.Env = append(os.Environ(), "GO_TEST_FATAL=1")
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	err := cmd.Run()
	if e, ok := err.(*exec.ExitError); ok && !e.Success() {
		if e.ExitCode() != 1 {
			t.Errorf("Fatal() exit code = %d, want 1", e.ExitCode())
		}
		if !strings.Contains(stderr.String(), "Error: test error") {
			t.Errorf("Fatal() stderr = %q, want to contain %q", stderr.String(), "Error: test error")
		}
	} else {
		t.Errorf("Fatal() did not exit with error: %v", err)
	}
}

// TestFatal_NilError tests that Fatal does nothing when passed a nil error
func TestFatal_NilError(t *testing.T) {
	if os.Getenv("GO_TEST_FATAL_NIL") == "1" {
		Fatal(nil)
		os.Exit(0)
	}

	cmd := exec.Command(os.Args[0], "-test.run=TestFatal_NilError")
	cmd.Env = append(os.Environ(), "GO_TEST_FATAL_NIL=1")

	if err := cmd.Run(); err != nil {
		t.Errorf("Fatal(nil) should not exit, but got error: %v", err)
	}
}
