// Package httperr attaches HTTP status codes and user-facing messages to
// errors, so handlers can just return an error.
package httperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Error is an error with a status code. The underlying error is for logs, the
// message is what gets shown to the user.
type Error struct {
	code    int
	err     error
	userMsg string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%d: %v", e.code, e.err)
}

func (e *Error) Unwrap() error {
	return e.err
}

// WithMessage sets the message shown to the user, which defaults to the
// status text for the code.
func (e *Error) WithMessage(msg string) *Error {
	e.userMsg = msg
	return e
}

// Code returns the HTTP status code.
func (e *Error) Code() int {
	return e.code
}

// New returns an error with the given status code.
func New(code int, format string, args ...interface{}) *Error {
	return &Error{code: code, err: fmt.Errorf(format, args...)}
}

// Wrap attaches a status code to an existing error.
func Wrap(code int, err error) *Error {
	return &Error{code: code, err: err}
}

func BadRequest(format string, args ...interface{}) *Error {
	return New(http.StatusBadRequest, format, args...)
}

func Unauthorized(format string, args ...interface{}) *Error {
	return New(http.StatusUnauthorized, format, args...)
}

func Forbidden(format string, args ...interface{}) *Error {
	return New(http.StatusForbidden, format, args...)
}

func NotFound(format string, args ...interface{}) *Error {
	return New(http.StatusNotFound, format, args...)
}

func MethodNotAllowed(format string, args ...interface{}) *Error {
	return New(http.StatusMethodNotAllowed, format, args...)
}

func Conflict(format string, args ...interface{}) *Error {
	return New(http.StatusConflict, format, args...)
}

func Internal(format string, args ...interface{}) *Error {
	return New(http.StatusInternalServerError, format, args...)
}

// Extract returns the status code and user message for err. Errors that
// didn't come from this package are internal server errors, and their details
// aren't shown to the user.
func Extract(err error) (int, string) {
	var herr *Error
	if !errors.As(err, &herr) {
		return http.StatusInternalServerError, http.StatusText(http.StatusInternalServerError)
	}
	if herr.userMsg != "" {
		return herr.code, herr.userMsg
	}
	return herr.code, http.StatusText(herr.code)
}
