// Package errors provides structured error types for latfig.
//
// This package defines error codes that map onto the batch error taxonomy:
//   - MISSING_INPUT: a dataset or trajectory file does not exist (item is skipped)
//   - MALFORMED_INPUT: a file exists but cannot be parsed (item fails, batch continues)
//   - EMPTY_RESULT: trimming removed every row and column (item is skipped)
//   - OUTPUT_WRITE: an output could not be written (the whole run stops)
//
// # Usage
//
//	err := errors.New(errors.ErrCodeMalformedInput, "line %d: expected %d values", line, n)
//	if errors.Is(err, errors.ErrCodeMalformedInput) {
//	    // report and continue with the next dataset
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeOutputWrite, origErr, "write %s", path)
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Input errors
	ErrCodeMissingInput   Code = "MISSING_INPUT"
	ErrCodeMalformedInput Code = "MALFORMED_INPUT"
	ErrCodeEmptyResult    Code = "EMPTY_RESULT"

	// Option validation errors
	ErrCodeInvalidFormat Code = "INVALID_FORMAT"
	ErrCodeInvalidConfig Code = "INVALID_CONFIG"
	ErrCodeInvalidName   Code = "INVALID_NAME"
	ErrCodeInvalidPath   Code = "INVALID_PATH"

	// Output errors
	ErrCodeOutputWrite Code = "OUTPUT_WRITE"

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
		if e.Cause != nil {
			return e.Message + ": " + UserMessage(e.Cause)
		}
		return e.Message
	}
	return err.Error()
}

// Fatal reports whether err should stop the whole batch rather than a single item.
// Output failures and an invalid configuration are fatal; every input problem
// is local to its item.
func Fatal(err error) bool {
	return Is(err, ErrCodeOutputWrite) || Is(err, ErrCodeInvalidConfig)
}
