package service

import (
	"fmt"

	"github.com/pkg/errors"
)

var (
	ErrNotFound = errors.New("not found")
)

type (
	// ValidationError marks malformed or missing input. 400 at the boundary.
	ValidationError struct {
		Message string
	}

	// UpstreamError marks a third-party source that stayed down through all
	// retries. 502 at the boundary.
	UpstreamError struct {
		Err error
	}

	// PersistenceError marks a storage write failure after rollback. 500 at
	// the boundary.
	PersistenceError struct {
		Err error
	}
)

func (e *ValidationError) Error() string { return e.Message }

func NewValidationError(format string, args ...interface{}) *ValidationError {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

func (e *UpstreamError) Error() string { return e.Err.Error() }
func (e *UpstreamError) Unwrap() error { return e.Err }

func (e *PersistenceError) Error() string { return e.Err.Error() }
func (e *PersistenceError) Unwrap() error { return e.Err }
