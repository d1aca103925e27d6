// Package errors provides structured error types for node-graph documents.
//
// Every problem the core detects in a graph or a persisted document is
// reported as an [*Error] carrying a machine-readable [Code] and a human
// message. Validation and deserialization return lists of these values
// instead of failing, so hosts can show all problems at once.
//
// # Error Codes
//
// Codes are grouped by where the problem is found:
//   - INVALID_* / DUPLICATE_* / UNKNOWN_*: graph structure and semantics
//   - AUTOMATION_*: automation lanes, regions and curves
//   - PARSE_ERROR, *_VERSION, INVALID_FORMAT: the persisted envelope
//
// # Usage
//
//	err := errors.New(errors.ErrCodeDuplicateID, "Duplicate node ID %q", id)
//	if errors.Is(err, errors.ErrCodeDuplicateID) {
//	    // Handle duplicate
//	}
//
//	// Wrap Go-level failures (I/O, encoding)
//	err := errors.Wrap(errors.ErrCodeParse, cause, "invalid JSON")
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for graph and document problems.
const (
	// Graph structure
	ErrCodeInvalidGraph      Code = "INVALID_GRAPH"
	ErrCodeDuplicateID       Code = "DUPLICATE_ID"
	ErrCodeUnknownNodeType   Code = "UNKNOWN_NODE_TYPE"
	ErrCodeInvalidParameter  Code = "INVALID_PARAMETER"
	ErrCodeOutOfRange        Code = "OUT_OF_RANGE"
	ErrCodeInvalidConnection Code = "INVALID_CONNECTION"
	ErrCodeDuplicateConn     Code = "DUPLICATE_CONNECTION"

	// Automation
	ErrCodeInvalidAutomation Code = "INVALID_AUTOMATION"
	ErrCodeAutomationType    Code = "AUTOMATION_TYPE"

	// Persisted document
	ErrCodeParse              Code = "PARSE_ERROR"
	ErrCodeInvalidFormat      Code = "INVALID_FORMAT"
	ErrCodeMissingVersion     Code = "MISSING_VERSION"
	ErrCodeUnsupportedVersion Code = "UNSUPPORTED_VERSION"

	// Host tooling
	ErrCodeFileNotFound Code = "FILE_NOT_FOUND"
	ErrCodeInternal     Code = "INTERNAL_ERROR"
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

// Messages returns the user messages of a list of issues, in order.
func Messages(list []*Error) []string {
	out := make([]string, len(list))
	for i, e := range list {
		out[i] = e.Message
	}
	return out
}

// HasCode reports whether any issue in list carries code.
func HasCode(list []*Error, code Code) bool {
	for _, e := range list {
		if e.Code == code {
			return true
		}
	}
	return false
}
