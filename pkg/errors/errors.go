// Package errors defines structured error types for the GRC policy core.
// Policy "not applicable" outcomes are never modeled as errors; this package
// covers collaborator failures and programmer errors that cross boundaries.
package errors

import (
	stderrors "errors"
	"fmt"
)

// Code classifies an application error.
type Code string

const (
	// CodeInvalidArgument indicates a caller-supplied argument is invalid.
	CodeInvalidArgument Code = "invalid_argument"
	// CodeNotFound indicates a resource was not found.
	CodeNotFound Code = "not_found"
	// CodeConflict indicates a conflict with the current state of a resource.
	CodeConflict Code = "conflict"
	// CodeUnavailable indicates a collaborator is temporarily unavailable.
	CodeUnavailable Code = "unavailable"
	// CodeInternal indicates an unexpected internal failure.
	CodeInternal Code = "internal"
)

// AppError is a structured application error with a code, a message, an
// optional cause, and free-form metadata for logging.
type AppError struct {
	code     Code
	message  string
	cause    error
	metadata map[string]interface{}
}

// Error implements the error interface.
func (e *AppError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.message, e.cause)
	}
	return e.message
}

// Code returns the error classification.
func (e *AppError) Code() Code {
	return e.code
}

// Unwrap returns the underlying cause for error-chain support.
func (e *AppError) Unwrap() error {
	return e.cause
}

// WithMetadata attaches a key/value pair to the error.
func (e *AppError) WithMetadata(key string, value interface{}) *AppError {
	if e.metadata == nil {
		e.metadata = make(map[string]interface{})
	}
	e.metadata[key] = value
	return e
}

// Metadata returns all attached metadata.
func (e *AppError) Metadata() map[string]interface{} {
	return e.metadata
}

// New creates a new AppError.
func New(code Code, message string) *AppError {
	return &AppError{code: code, message: message}
}

// Newf creates a new AppError with a formatted message.
func Newf(code Code, format string, args ...interface{}) *AppError {
	return &AppError{code: code, message: fmt.Sprintf(format, args...)}
}

// Wrap wraps an existing error with a code and message. A nil err yields nil.
func Wrap(err error, code Code, message string) *AppError {
	if err == nil {
		return nil
	}
	return &AppError{code: code, message: message, cause: err}
}

// CodeOf extracts the Code from an error chain; unknown errors map to
// CodeInternal.
func CodeOf(err error) Code {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr.code
	}
	return CodeInternal
}

// IsNotFound reports whether an error chain carries CodeNotFound.
func IsNotFound(err error) bool {
	return err != nil && CodeOf(err) == CodeNotFound
}

// IsConflict reports whether an error chain carries CodeConflict.
func IsConflict(err error) bool {
	return err != nil && CodeOf(err) == CodeConflict
}

// IsUnavailable reports whether an error chain carries CodeUnavailable.
func IsUnavailable(err error) bool {
	return err != nil && CodeOf(err) == CodeUnavailable
}
