package verify

import (
	"errors"
	"fmt"
)

// ErrorCode is a stable machine-readable failure kind.
type ErrorCode string

const (
	CodeNotFound        ErrorCode = "NOT_FOUND"
	CodeMissingInput    ErrorCode = "MISSING_INPUT"
	CodeUnsupportedType ErrorCode = "UNSUPPORTED_TYPE"
)

// Error is a user-visible failure with a code and a human message.
type Error struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Is matches any *Error carrying the same code, so callers can compare
// against the sentinels below with errors.Is.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return e.Code == t.Code
}

// NewError returns an *Error with the given code and message.
func NewError(code ErrorCode, message string) *Error {
	return &Error{Code: code, Message: message}
}

var (
	ErrNotFound        = &Error{Code: CodeNotFound}
	ErrMissingInput    = &Error{Code: CodeMissingInput}
	ErrUnsupportedType = &Error{Code: CodeUnsupportedType}
)

// AsError extracts the *Error in err's chain, if any.
func AsError(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}
