package editor

import (
	"errors"
	"fmt"
)

// Editor errors.
var (
	// ErrClosed indicates use of an editor after Close.
	ErrClosed = errors.New("editor closed")

	// ErrInvalidSnapshot indicates a snapshot that was not produced by
	// this editor and cannot be loaded. The document is unchanged.
	ErrInvalidSnapshot = errors.New("invalid snapshot")

	// ErrWatchActive indicates an options watch is already running.
	ErrWatchActive = errors.New("options watch already active")
)

// OperationError represents an error that occurred during a specific
// editor operation.
type OperationError struct {
	Op      string // Operation name (e.g., "load-snapshot", "watch-options")
	Target  string // Target of the operation (e.g., file path, link id)
	Context string // Additional context
	Err     error  // Underlying error
}

// NewOperationError creates a new OperationError.
func NewOperationError(op, target string, err error) *OperationError {
	return &OperationError{
		Op:     op,
		Target: target,
		Err:    err,
	}
}

// WithContext adds context to the error.
// Safe to call on nil receiver - returns nil.
func (e *OperationError) WithContext(ctx string) *OperationError {
	if e == nil {
		return nil
	}
	e.Context = ctx
	return e
}

func (e *OperationError) Error() string {
	if e == nil {
		return ""
	}

	var msg string
	if e.Target != "" {
		msg = fmt.Sprintf("%s %s", e.Op, e.Target)
	} else {
		msg = e.Op
	}

	if e.Context != "" {
		msg = fmt.Sprintf("%s (%s)", msg, e.Context)
	}

	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}

	return msg
}

func (e *OperationError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}
