// Package errors provides structured error types for the funnel tooling.
//
// The label layout engine itself never fails: malformed enum values fall back
// to defaults and degenerate geometry is handled by policy. Errors only appear
// at the edges, when chart files are read, validated, or rendered to a sink.
//
// # Error Codes
//
//   - INVALID_*: the chart definition or a request argument is wrong
//   - *NOT_FOUND: a file or resource is missing
//   - INTERNAL_ERROR, UNSUPPORTED: everything else
//
// Validation errors may name the chart key they concern:
//
//	err := errors.New(errors.ErrCodeInvalidInput, "negative value %g", v).At("segments[2].value")
//	errors.Field(err) // "segments[2].value"
package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Code represents a machine-readable error code.
type Code string

const (
	ErrCodeInvalidInput    Code = "INVALID_INPUT"
	ErrCodeInvalidConfig   Code = "INVALID_CONFIG"
	ErrCodeInvalidFormat   Code = "INVALID_FORMAT"
	ErrCodeInvalidGeometry Code = "INVALID_GEOMETRY"

	ErrCodeNotFound     Code = "NOT_FOUND"
	ErrCodeFileNotFound Code = "FILE_NOT_FOUND"

	ErrCodeInternal    Code = "INTERNAL_ERROR"
	ErrCodeUnsupported Code = "UNSUPPORTED"
)

// Invalid reports whether c is one of the INVALID_* codes.
func (c Code) Invalid() bool {
	return strings.HasPrefix(string(c), "INVALID_")
}

// Error is a structured error with a code and optional cause.
type Error struct {
	Code    Code
	Field   string // chart key, e.g. "label.format"; empty when not tied to one
	Message string
	Cause   error
}

func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString(string(e.Code))
	b.WriteString(": ")
	if e.Field != "" {
		b.WriteString(e.Field)
		b.WriteString(": ")
	}
	b.WriteString(e.Message)
	if e.Cause != nil {
		fmt.Fprintf(&b, ": %v", e.Cause)
	}
	return b.String()
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// At sets the chart key the error concerns and returns e.
func (e *Error) At(field string) *Error {
	e.Field = field
	return e
}

// New creates a new Error with the given code and formatted message.
func New(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap creates a new Error wrapping cause.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...), Cause: cause}
}

// Is reports whether the outermost *Error in err's chain has code.
func Is(err error, code Code) bool {
	return GetCode(err) == code && code != ""
}

// IsInvalid reports whether err carries an INVALID_* code.
func IsInvalid(err error) bool {
	return GetCode(err).Invalid()
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

// Field returns the chart key attached to err, if any.
func Field(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Field
	}
	return ""
}

// UserMessage returns the message without the code prefix, led by the
// field when one is set. Other errors are returned as-is.
func UserMessage(err error) string {
	var e *Error
	if !errors.As(err, &e) {
		return err.Error()
	}
	if e.Field != "" {
		return e.Field + ": " + e.Message
	}
	return e.Message
}
