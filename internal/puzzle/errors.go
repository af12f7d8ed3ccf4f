package puzzle

import (
	"errors"
	"fmt"
)

// ErrorCode categorizes domain errors so callers (CLI, HTTP) can map them
// to exit codes and status codes without string matching.
type ErrorCode string

const (
	// CodeNotFound indicates a referenced day or word does not exist.
	CodeNotFound ErrorCode = "NOT_FOUND"

	// CodeValidation indicates a malformed or rule-violating input:
	// bad letter set, word too short, pangram letter mismatch, etc.
	CodeValidation ErrorCode = "VALIDATION"

	// CodeConflict indicates a uniqueness violation (duplicate day date).
	CodeConflict ErrorCode = "CONFLICT"

	// CodeInvalidState indicates an operation attempted in the wrong stage,
	// e.g. advancing the backfill cursor while the day is in pre-pangram.
	CodeInvalidState ErrorCode = "INVALID_STATE"

	// CodeInvalidTransition indicates an illegal stage change (backward
	// or skipping a stage).
	CodeInvalidTransition ErrorCode = "INVALID_TRANSITION"
)

// Error is the domain error type surfaced by the store and engine.
type Error struct {
	Code    ErrorCode
	Message string
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// NotFoundf creates a NOT_FOUND error.
func NotFoundf(format string, args ...any) *Error {
	return &Error{Code: CodeNotFound, Message: fmt.Sprintf(format, args...)}
}

// Validationf creates a VALIDATION error.
func Validationf(format string, args ...any) *Error {
	return &Error{Code: CodeValidation, Message: fmt.Sprintf(format, args...)}
}

// Conflictf creates a CONFLICT error.
func Conflictf(format string, args ...any) *Error {
	return &Error{Code: CodeConflict, Message: fmt.Sprintf(format, args...)}
}

// InvalidStatef creates an INVALID_STATE error.
func InvalidStatef(format string, args ...any) *Error {
	return &Error{Code: CodeInvalidState, Message: fmt.Sprintf(format, args...)}
}

// InvalidTransitionf creates an INVALID_TRANSITION error.
func InvalidTransitionf(format string, args ...any) *Error {
	return &Error{Code: CodeInvalidTransition, Message: fmt.Sprintf(format, args...)}
}

// CodeOf extracts the ErrorCode from an error, unwrapping as needed.
// Returns "" if the error is not a domain Error.
func CodeOf(err error) ErrorCode {
	var de *Error
	if errors.As(err, &de) {
		return de.Code
	}
	return ""
}

// IsNotFound reports whether err is a NOT_FOUND domain error.
func IsNotFound(err error) bool { return CodeOf(err) == CodeNotFound }

// IsValidation reports whether err is a VALIDATION domain error.
func IsValidation(err error) bool { return CodeOf(err) == CodeValidation }

// IsConflict reports whether err is a CONFLICT domain error.
func IsConflict(err error) bool { return CodeOf(err) == CodeConflict }

// IsInvalidState reports whether err is an INVALID_STATE domain error.
func IsInvalidState(err error) bool { return CodeOf(err) == CodeInvalidState }

// IsInvalidTransition reports whether err is an INVALID_TRANSITION domain error.
func IsInvalidTransition(err error) bool { return CodeOf(err) == CodeInvalidTransition }
