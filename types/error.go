package types

import (
	"errors"
	"fmt"
)

// ErrorCode represents a unified error code across the library.
type ErrorCode string

const (
	// ErrBackendUnavailable means a backend could not be reached or opened
	// at construction time. It triggers fallback to the next backend in the
	// chain and is never surfaced to cache callers.
	ErrBackendUnavailable ErrorCode = "BACKEND_UNAVAILABLE"
	// ErrBackendOperation means an individual backend call failed. Callers
	// treat it as a miss (Get) or a no-op (Set/Delete).
	ErrBackendOperation ErrorCode = "BACKEND_OPERATION"
	// ErrSerializationFailed means an entry could not be encoded or decoded.
	ErrSerializationFailed ErrorCode = "SERIALIZATION_FAILED"
	// ErrMalformedInput means delta encoder input could not be interpreted
	// for its declared content class.
	ErrMalformedInput ErrorCode = "MALFORMED_INPUT"
)

// Error is a structured error with a code, message and optional cause.
// Cache call sites use the code to distinguish "degraded, continue" from
// genuine logic bugs while keeping fail-open external behavior.
type Error struct {
	Code      ErrorCode `json:"code"`
	Message   string    `json:"message"`
	Retryable bool      `json:"retryable"`
	Cause     error     `json:"-"`
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Cause
}

// NewError creates a new Error with the given code and message.
func NewError(code ErrorCode, message string) *Error {
	return &Error{Code: code, Message: message}
}

// WithCause adds a cause to the error.
func (e *Error) WithCause(cause error) *Error {
	e.Cause = cause
	return e
}

// WithRetryable marks the error as retryable.
func (e *Error) WithRetryable(retryable bool) *Error {
	e.Retryable = retryable
	return e
}

// CodeOf extracts the ErrorCode from err, or "" if err is not a *Error.
func CodeOf(err error) ErrorCode {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}
