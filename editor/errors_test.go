package editor

import (
	"errors"
	"testing"
)

func TestOperationError_Error(t *testing.T) {
	err := NewOperationError("load-snapshot", "", ErrInvalidSnapshot)
	if got := err.Error(); got != "load-snapshot: invalid snapshot" {
		t.Errorf("Error() = %q", got)
	}

	err = NewOperationError("watch-options", "opts.toml", ErrWatchActive).
		WithContext("second call")
	want := "watch-options opts.toml (second call): options watch already active"
	if got := err.Error(); got != want {
		t.Errorf("Error() = %q, expected %q", got, want)
	}
}

func TestOperationError_Unwrap(t *testing.T) {
	err := NewOperationError("load-snapshot", "", ErrInvalidSnapshot)
	if !errors.Is(err, ErrInvalidSnapshot) {
		t.Error("expected errors.Is to see the wrapped sentinel")
	}
}

func TestOperationError_NilReceiver(t *testing.T) {
	var err *OperationError
	if err.WithContext("ignored") != nil {
		t.Error("WithContext on nil receiver should return nil")
	}
	if err.Error() != "" {
		t.Error("Error on nil receiver should be empty")
	}
	if err.Unwrap() != nil {
		t.Error("Unwrap on nil receiver should be nil")
	}
}
