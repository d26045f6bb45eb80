// Package api
// Author: momentics <momentics@gmail.com>
//
// Common error types and error handling utilities for hioload-slab.

package api

import (
	"errors"
	"fmt"
)

// Common errors used across the library.
var (
	// ErrInvalidArgument rejects zero or overflowing pool dimensions.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrAllocationFailure reports that arena memory could not be obtained.
	ErrAllocationFailure = errors.New("arena allocation failure")

	// ErrExhausted signals that no free slot exists. This is flow control,
	// not a fault: retry, apply backpressure, or fail the request upstream.
	ErrExhausted = errors.New("pool exhausted")

	// ErrUsage is the root of all protocol-violation errors below.
	ErrUsage = errors.New("pool usage error")

	// ErrForeignBuffer rejects a checkin of memory this pool does not own,
	// or of a pointer not on a slot boundary.
	ErrForeignBuffer = fmt.Errorf("%w: buffer does not belong to pool", ErrUsage)

	// ErrDoubleFree rejects a checkin of a slot that is already free.
	ErrDoubleFree = fmt.Errorf("%w: buffer already checked in", ErrUsage)

	// ErrOutstandingBuffers rejects Close while slots remain checked out.
	ErrOutstandingBuffers = fmt.Errorf("%w: outstanding buffers", ErrUsage)

	// ErrPoolClosed rejects operations on a closed pool.
	ErrPoolClosed = fmt.Errorf("%w: pool is closed", ErrUsage)
)

// ErrorCode represents specific error conditions in the library.
type ErrorCode int

const (
	ErrCodeOK ErrorCode = iota
	ErrCodeInvalidArgument
	ErrCodeAllocationFailure
	ErrCodeExhausted
	ErrCodeUsage
	ErrCodeInternal
)

// Error represents a structured error with code, cause and context.
type Error struct {
	Code    ErrorCode
	Message string
	Cause   error
	Context map[string]any
}

// Error implements the error interface.
func (e *Error) Error() string {
	if len(e.Context) == 0 {
		return e.Message
	}
	return fmt.Sprintf("%s (context: %+v)", e.Message, e.Context)
}

// Unwrap exposes the cause so errors.Is matches the sentinels above.
func (e *Error) Unwrap() error { return e.Cause }

// NewError creates a new structured error wrapping a sentinel cause.
func NewError(code ErrorCode, cause error, message string) *Error {
	return &Error{
		Code:    code,
		Message: message,
		Cause:   cause,
		Context: make(map[string]any),
	}
}

// WithContext adds context information to the error.
func (e *Error) WithContext(key string, value any) *Error {
	if e.Context == nil {
		e.Context = make(map[string]any)
	}
	e.Context[key] = value
	return e
}
