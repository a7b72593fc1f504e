// Package errors provides structured error types for docgraph.
//
// Every failure that crosses a package boundary carries a machine-readable
// [Code] so that the CLI, the HTTP service and the live WebSocket endpoint
// can report the same condition the same way.
//
// # Error Codes
//
// Codes follow a coarse naming convention:
//   - INVALID_*: the caller handed us something unusable
//   - *_NOT_FOUND: a referenced resource does not exist
//   - DEPTH_EXCEEDED: a document nests deeper than the configured guard
//   - INTERNAL_ERROR: an engine invariant was violated (a bug, not bad input)
//
// # Usage
//
//	err := errors.New(errors.ErrCodeInvalidFormat, "unknown document format %q", name)
//	if errors.Is(err, errors.ErrCodeInvalidFormat) {
//	    // show usage
//	}
//
//	// Wrap parser failures
//	err := errors.Wrap(errors.ErrCodeInvalidDocument, parseErr, "parse %s", path)
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
	ErrCodeInvalidInput    Code = "INVALID_INPUT"
	ErrCodeInvalidDocument Code = "INVALID_DOCUMENT"
	ErrCodeInvalidFormat   Code = "INVALID_FORMAT"
	ErrCodeInvalidOptions  Code = "INVALID_OPTIONS"
	ErrCodeInvalidPath     Code = "INVALID_PATH"
	ErrCodeTooLarge        Code = "DOCUMENT_TOO_LARGE"

	// Resource not found errors
	ErrCodeNotFound     Code = "NOT_FOUND"
	ErrCodeFileNotFound Code = "FILE_NOT_FOUND"

	// Engine limits
	ErrCodeDepthExceeded Code = "DEPTH_EXCEEDED"

	// Network errors
	ErrCodeNetwork Code = "NETWORK_ERROR"
	ErrCodeTimeout Code = "TIMEOUT"

	// Internal errors
	ErrCodeInternal    Code = "INTERNAL_ERROR"
	ErrCodeUnsupported Code = "UNSUPPORTED"
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

// HTTPStatus maps an error code to the status the service answers with.
func HTTPStatus(err error) int {
	switch GetCode(err) {
	case ErrCodeInvalidDocument, ErrCodeDepthExceeded:
		return 422
	case ErrCodeInvalidInput, ErrCodeInvalidFormat, ErrCodeInvalidOptions, ErrCodeInvalidPath:
		return 400
	case ErrCodeTooLarge:
		return 413
	case ErrCodeNotFound, ErrCodeFileNotFound:
		return 404
	case ErrCodeUnsupported:
		return 501
	case ErrCodeTimeout:
		return 504
	default:
		return 500
	}
}
