// Package apperrors carries coded errors across the service boundary so
// callers can tell failure kinds apart instead of parsing messages.
package apperrors

import (
	"errors"
	"fmt"
)

type Code string

const (
	// CodeValidation rejects bad input before any persistence attempt.
	CodeValidation Code = "VALIDATION"
	// CodeAvailability means a requested quantity exceeded availability
	// at commit time; the whole order was rolled back.
	CodeAvailability Code = "AVAILABILITY"
	// CodeNotFound means a referenced row does not exist.
	CodeNotFound Code = "NOT_FOUND"
	// CodeDatabase covers connectivity and constraint faults.
	CodeDatabase Code = "DATABASE"
	// CodeUnauthorized means credentials did not match an active user.
	CodeUnauthorized Code = "UNAUTHORIZED"
)

type Error struct {
	Code    Code
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// New creates a coded error without an underlying cause.
func New(code Code, message string) error {
	return &Error{Code: code, Message: message}
}

// Newf creates a coded error with a formatted message.
func Newf(code Code, format string, args ...any) error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap attaches a code and message to an underlying error.
func Wrap(code Code, message string, cause error) error {
	return &Error{Code: code, Message: message, Cause: cause}
}

// IsCode reports whether err (or anything it wraps) carries the given code.
func IsCode(err error, code Code) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == code
	}
	return false
}

// CodeOf returns the error's code, or CodeDatabase for uncoded errors
// reaching the boundary.
func CodeOf(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return CodeDatabase
}
