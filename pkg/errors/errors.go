// Package errors provides structured error types for Folio.
//
// This package defines error codes and types that enable:
//   - Consistent error handling across the library and CLI
//   - Machine-readable error codes for programmatic handling
//   - Recursion errors that carry the offending document chain
//
// # Error Codes
//
// Error codes follow a hierarchical naming convention:
//   - INVALID_*: Input and configuration validation failures
//   - NOT_FOUND / FILE_NOT_FOUND: Resource not found
//   - CYCLE_DETECTED / DEPTH_EXCEEDED: Fatal publication walk failures
//   - UNRESOLVED_REFERENCE / INVALID_ROOT_REMOVAL: Non-fatal, logged conditions
//   - INTERNAL_*: Unexpected internal errors
//
// # Usage
//
//	err := errors.New(errors.ErrCodeInvalidConfig, "unknown numeral style: %s", s)
//	if errors.Is(err, errors.ErrCodeInvalidConfig) {
//	    // Handle configuration error
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeFileNotFound, origErr, "open %s", path)
package errors

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Input validation errors
	ErrCodeInvalidInput    Code = "INVALID_INPUT"
	ErrCodeInvalidConfig   Code = "INVALID_CONFIG"
	ErrCodeInvalidFormat   Code = "INVALID_FORMAT"
	ErrCodeInvalidFragment Code = "INVALID_FRAGMENT"
	ErrCodeInvalidPath     Code = "INVALID_PATH"

	// Resource not found errors
	ErrCodeNotFound     Code = "NOT_FOUND"
	ErrCodeFileNotFound Code = "FILE_NOT_FOUND"

	// Publication walk errors
	ErrCodeCycleDetected       Code = "CYCLE_DETECTED"
	ErrCodeDepthExceeded       Code = "DEPTH_EXCEEDED"
	ErrCodeUnresolvedReference Code = "UNRESOLVED_REFERENCE"
	ErrCodeInvalidRootRemoval  Code = "INVALID_ROOT_REMOVAL"

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

// ErrorCode returns the error code.
func (e *Error) ErrorCode() Code { return e.Code }

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

// coded is implemented by every error type in this package.
type coded interface {
	error
	ErrorCode() Code
}

// Is reports whether err has the given error code.
// It unwraps the error chain looking for an error of this package with a
// matching code.
func Is(err error, code Code) bool {
	return GetCode(err) == code
}

// GetCode extracts the error code from an error, if available.
// Returns empty string if the chain holds no coded error.
func GetCode(err error) Code {
	var c coded
	if errors.As(err, &c) {
		return c.ErrorCode()
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

// Visit identifies one step of a publication walk: a document, optionally
// narrowed to a single fragment.
type Visit struct {
	DocumentID int64
	Fragment   string
}

// String renders the visit as "id" or "id#fragment".
func (v Visit) String() string {
	if v.Fragment == "" {
		return strconv.FormatInt(v.DocumentID, 10)
	}
	return strconv.FormatInt(v.DocumentID, 10) + "#" + v.Fragment
}

// RecursionError aborts a publication walk. Chain lists the visits from the
// walk root to the visit that failed, inclusive.
type RecursionError struct {
	Code  Code
	Chain []Visit
}

// Error implements the error interface.
func (e *RecursionError) Error() string {
	parts := make([]string, len(e.Chain))
	for i, v := range e.Chain {
		parts[i] = v.String()
	}
	switch e.Code {
	case ErrCodeCycleDetected:
		return fmt.Sprintf("%s: reference loop: %s", e.Code, strings.Join(parts, " -> "))
	case ErrCodeDepthExceeded:
		return fmt.Sprintf("%s: references nested %d deep: %s", e.Code, len(e.Chain), strings.Join(parts, " -> "))
	}
	return fmt.Sprintf("%s: %s", e.Code, strings.Join(parts, " -> "))
}

// ErrorCode returns the error code for this error type.
func (e *RecursionError) ErrorCode() Code { return e.Code }

// IDs returns the document ids along the chain.
func (e *RecursionError) IDs() []int64 {
	ids := make([]int64, len(e.Chain))
	for i, v := range e.Chain {
		ids[i] = v.DocumentID
	}
	return ids
}
