// Package errors defines the error taxonomy of RxIo and small helpers to
// wrap errors with context. Wrapped errors carry a stack trace and stay
// compatible with errors.Is and errors.As.
package errors

import (
	"errors"
	"fmt"
	"io/fs"
	"syscall"

	pkgerrors "github.com/pkg/errors"
)

// Sentinel errors for common error conditions
var (
	// File/IO errors
	ErrFileNotFound     = errors.New("file not found")
	ErrPermissionDenied = errors.New("permission denied")
	ErrClosed           = errors.New("file already closed")

	// Decoding errors
	ErrMalformedEncoding = errors.New("malformed input encoding")

	// Protocol errors
	ErrInvalidDemand = errors.New("non-positive demand request")

	// Subscriber errors
	ErrSubscriberPanic = errors.New("subscriber panicked")

	// General errors
	ErrInvalidArgument = errors.New("invalid argument")
	ErrInternal        = errors.New("internal consistency violation")
)

// Wrap wraps an error with additional context
func Wrap(err error, msg string) error {
	return pkgerrors.Wrap(err, msg)
}

// Wrapf wraps an error with formatted context
func Wrapf(err error, format string, args ...interface{}) error {
	return pkgerrors.Wrapf(err, format, args...)
}

// New creates a new error with formatted message
func New(format string, args ...interface{}) error {
	return pkgerrors.Errorf(format, args...)
}

// Is checks if an error is of a specific type
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As attempts to extract a specific error type
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}

// Cause returns the innermost error of a wrapped chain.
func Cause(err error) error {
	return pkgerrors.Cause(err)
}

// Classify maps an operating system error onto the taxonomy. The original
// error stays in the chain, so errors.Is(err, fs.ErrNotExist) still holds.
func Classify(err error) error {
	if err == nil {
		return nil
	}
	switch {
	case errors.Is(err, ErrFileNotFound), errors.Is(err, ErrPermissionDenied):
		return err
	case errors.Is(err, fs.ErrNotExist):
		return &classified{kind: ErrFileNotFound, err: err}
	case errors.Is(err, fs.ErrPermission),
		errors.Is(err, syscall.EAGAIN),
		errors.Is(err, syscall.EBUSY):
		// Lock conflicts on a shared file surface as EAGAIN/EBUSY.
		return &classified{kind: ErrPermissionDenied, err: err}
	}
	return err
}

type classified struct {
	kind error
	err  error
}

func (c *classified) Error() string {
	return fmt.Sprintf("%s: %s", c.kind, c.err)
}

func (c *classified) Unwrap() []error {
	return []error{c.kind, c.err}
}

// MultiError represents multiple errors
type MultiError struct {
	errors []error
}

// NewMultiError creates a new MultiError
func NewMultiError() *MultiError {
	return &MultiError{
		errors: make([]error, 0),
	}
}

// Add adds an error to the MultiError
func (m *MultiError) Add(err error) {
	if err != nil {
		m.errors = append(m.errors, err)
	}
}

// HasErrors returns true if there are any errors
func (m *MultiError) HasErrors() bool {
	return len(m.errors) > 0
}

// Error implements the error interface
func (m *MultiError) Error() string {
	if len(m.errors) == 0 {
		return ""
	}
	if len(m.errors) == 1 {
		return m.errors[0].Error()
	}
	return fmt.Sprintf("multiple errors occurred: %v", m.errors)
}

// Unwrap exposes the collected errors to errors.Is and errors.As.
func (m *MultiError) Unwrap() []error {
	return m.errors
}

// Errors returns all collected errors
func (m *MultiError) Errors() []error {
	return m.errors
}

// ErrorOrNil returns nil if no errors, otherwise returns the MultiError
func (m *MultiError) ErrorOrNil() error {
	if m.HasErrors() {
		return m
	}
	return nil
}
