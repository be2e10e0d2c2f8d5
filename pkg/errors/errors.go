// Package errors provides structured error types for the threadtree CLI and
// HTTP API.
//
// Library packages report failures with sentinel errors (see package tree).
// At the boundaries those are wrapped into an [*Error] carrying a
// machine-readable [Code], so that callers can branch on the category and
// the API can pick a status code:
//
//   - INVALID_*: input that cannot be processed (bad file, bad order, not a tree)
//   - NOT_FOUND: unknown stored graph
//   - INTERNAL_ERROR: anything unexpected
//
// # Usage
//
//	err := errors.New(errors.ErrCodeInvalidOrder, "unknown order: %s", s)
//	if errors.Is(err, errors.ErrCodeInvalidOrder) {
//	    // Handle validation error
//	}
//
//	// Classify a tree build failure
//	err := errors.FromTree(buildErr)
package errors

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/matzehuels/threadtree/pkg/tree"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Input validation errors
	ErrCodeInvalidInput  Code = "INVALID_INPUT"
	ErrCodeInvalidFormat Code = "INVALID_FORMAT"
	ErrCodeInvalidOrder  Code = "INVALID_ORDER"
	ErrCodeInvalidTree   Code = "INVALID_TREE"
	ErrCodeNotBinary     Code = "NOT_BINARY"

	// Resource not found errors
	ErrCodeNotFound     Code = "NOT_FOUND"
	ErrCodeFileNotFound Code = "FILE_NOT_FOUND"

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
// For *Error types, returns the message followed by the cause, without the
// code prefix. For other errors, returns the error string as-is.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		if e.Cause != nil {
			return fmt.Sprintf("%s: %v", e.Message, e.Cause)
		}
		return e.Message
	}
	return err.Error()
}

// FromTree classifies an error returned by package tree. Errors that are
// already coded, and nil, are returned unchanged.
func FromTree(err error) error {
	if err == nil || GetCode(err) != "" {
		return err
	}
	switch {
	case errors.Is(err, tree.ErrTooManyChildren):
		return Wrap(ErrCodeNotBinary, err, "graph is not a binary tree")
	case errors.Is(err, tree.ErrMultipleParents),
		errors.Is(err, tree.ErrNoRoot),
		errors.Is(err, tree.ErrMultipleRoots),
		errors.Is(err, tree.ErrCycleDetected):
		return Wrap(ErrCodeInvalidTree, err, "graph is not a rooted tree")
	}
	return Wrap(ErrCodeInternal, err, "tree operation failed")
}

// HTTPStatus maps an error to the HTTP status the API responds with.
func HTTPStatus(err error) int {
	switch GetCode(err) {
	case ErrCodeInvalidInput, ErrCodeInvalidFormat, ErrCodeInvalidOrder:
		return http.StatusBadRequest
	case ErrCodeInvalidTree, ErrCodeNotBinary:
		return http.StatusUnprocessableEntity
	case ErrCodeNotFound, ErrCodeFileNotFound:
		return http.StatusNotFound
	case ErrCodeUnsupported:
		return http.StatusNotImplemented
	}
	return http.StatusInternalServerError
}
