// Package errors provides structured error types for branchtime.
//
// This package defines error codes and types that enable:
//   - Consistent handling of topology, parameter and numerical failures
//   - Machine-readable error codes for programmatic handling
//   - Error wrapping with context preservation
//
// # Error Codes
//
// Error codes follow a hierarchical naming convention:
//   - INVALID_*: Input validation failures, raised before any computation
//   - NUMERICAL_*: Failures detected while the dynamic program runs
//   - INTERNAL_*: Unexpected internal errors
//
// # Usage
//
//	err := errors.New(errors.ErrCodeInvalidParameter, "lambda must be positive, got %g", lam)
//	if errors.Is(err, errors.ErrCodeInvalidParameter) {
//	    // Handle validation error
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeInvalidTopology, tree.ErrMultipleParents, "node %d", v)
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Input validation errors
	ErrCodeInvalidTopology  Code = "INVALID_TOPOLOGY"
	ErrCodeInvalidParameter Code = "INVALID_PARAMETER"

	// Computation errors
	ErrCodeNumericalInstability Code = "NUMERICAL_INSTABILITY"
	ErrCodeCanceled             Code = "CANCELED"

	// Internal errors
	ErrCodeInternal Code = "INTERNAL_ERROR"
)

// Error is a structured error with a code and optional cause.
type Error struct {
	Code    Code   // Machine-readable error code
	Message string // Human-readable message
	Cause   error  // Underlying error (optional)
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause for errors.Is/As compatibility.
func (e *Error) Unwrap() error {
	return e.Cause
}

// New creates a new Error with the given code and formatted message.
func New(code Code, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// Wrap creates a new Error wrapping an existing error.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Cause:   cause,
	}
}

// Is reports whether err has the given error code.
// It unwraps the error chain looking for an *Error with a matching code.
func Is(err error, code Code) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == code
	}
	return false
}

// GetCode extracts the error code from an error, if available.
// Returns empty string if the error is not an *Error.
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// UserMessage returns a user-friendly message for the error.
// For *Error types, returns the message without the code prefix.
// For other errors, returns the error string as-is.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}

// NumericalError locates a non-finite value produced by one of the passes.
// It is always delivered wrapped in an *Error with
// [ErrCodeNumericalInstability]; use errors.As to reach it.
type NumericalError struct {
	Pass      string  // "upward", "downward" or "posterior"
	Node      int     // Offending node id
	TimeIndex int     // Grid index, or -1 when every grid point is impossible
	Value     float64 // The offending value
}

// Error implements the error interface.
func (e *NumericalError) Error() string {
	if e.TimeIndex < 0 {
		return fmt.Sprintf("%s pass: node %d has zero probability at every grid point", e.Pass, e.Node)
	}
	return fmt.Sprintf("%s pass: node %d, time index %d: non-finite value %v", e.Pass, e.Node, e.TimeIndex, e.Value)
}

// Code returns the error code for this error type.
func (e *NumericalError) Code() Code {
	return ErrCodeNumericalInstability
}

// Numerical wraps a NumericalError in a coded *Error.
func Numerical(pass string, node, timeIndex int, value float64) *Error {
	msg := "log-sum-exp received no finite input"
	if timeIndex >= 0 {
		msg = "computed vector is not finite"
	}
	return Wrap(ErrCodeNumericalInstability,
		&NumericalError{Pass: pass, Node: node, TimeIndex: timeIndex, Value: value}, "%s", msg)
}
