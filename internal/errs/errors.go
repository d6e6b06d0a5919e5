// Package errs holds the domain error taxonomy of the tower game.
package errs

import (
	"errors"
	"fmt"
	"net/http"
)

// Code identifies a class of domain error.
type Code string

const (
	CodeInsufficientFunds          Code = "INSUFFICIENT_FUNDS"
	CodeInvalidAmount              Code = "INVALID_AMOUNT"
	CodeInvalidProfile             Code = "INVALID_PROFILE"
	CodeInvalidAction              Code = "INVALID_ACTION"
	CodeStaleLevel                 Code = "STALE_LEVEL"
	CodeSessionNotFound            Code = "SESSION_NOT_FOUND"
	CodeNotYourSession             Code = "NOT_YOUR_SESSION"
	CodeTerminalSession            Code = "TERMINAL_SESSION"
	CodeInternalInvariantViolation Code = "INTERNAL_INVARIANT_VIOLATION"
	CodeUnknown                    Code = "UNKNOWN"
)

// HTTPStatus maps the code to the status used outside of action results.
func (c Code) HTTPStatus() int {
	switch c {
	case CodeInsufficientFunds, CodeInvalidAmount, CodeInvalidProfile, CodeInvalidAction:
		return http.StatusUnprocessableEntity
	case CodeStaleLevel, CodeTerminalSession:
		return http.StatusConflict
	case CodeSessionNotFound:
		return http.StatusNotFound
	case CodeNotYourSession:
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}

// Error is a domain error carrying a stable code.
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

// Is matches any *Error with the same code.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

func New(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

func Newf(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

func Wrap(code Code, message string, cause error) *Error {
	return &Error{Code: code, Message: message, Cause: cause}
}

// Sentinels for errors.Is checks. Matching is by code only.
var (
	ErrInsufficientFunds          = New(CodeInsufficientFunds, "insufficient funds")
	ErrInvalidAmount              = New(CodeInvalidAmount, "invalid amount")
	ErrInvalidProfile             = New(CodeInvalidProfile, "invalid difficulty profile")
	ErrInvalidAction              = New(CodeInvalidAction, "action not allowed in the current state")
	ErrStaleLevel                 = New(CodeStaleLevel, "stale level")
	ErrSessionNotFound            = New(CodeSessionNotFound, "session not found")
	ErrNotYourSession             = New(CodeNotYourSession, "you cannot interact with this game")
	ErrTerminalSession            = New(CodeTerminalSession, "game is already over")
	ErrInternalInvariantViolation = New(CodeInternalInvariantViolation, "internal invariant violation")
)

// As extracts the domain error from err, if any.
func As(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

// CodeOf returns the code carried by err or CodeUnknown.
func CodeOf(err error) Code {
	if e, ok := As(err); ok {
		return e.Code
	}
	return CodeUnknown
}
