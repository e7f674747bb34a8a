// Package apperr carries errors across the service boundary together with
// the HTTP status they translate to. Services return these directly;
// anything else reaching the HTTP layer becomes a generic 500.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

type Error struct {
	StatusCode int
	Message    string
}

func (e *Error) Error() string { return e.Message }

func BadRequest(format string, args ...any) *Error {
	return &Error{StatusCode: http.StatusBadRequest, Message: fmt.Sprintf(format, args...)}
}

func Unauthorized(format string, args ...any) *Error {
	return &Error{StatusCode: http.StatusUnauthorized, Message: fmt.Sprintf(format, args...)}
}

func NotFound(format string, args ...any) *Error {
	return &Error{StatusCode: http.StatusNotFound, Message: fmt.Sprintf(format, args...)}
}

func Conflict(format string, args ...any) *Error {
	return &Error{StatusCode: http.StatusConflict, Message: fmt.Sprintf(format, args...)}
}

func Internal(format string, args ...any) *Error {
	return &Error{StatusCode: http.StatusInternalServerError, Message: fmt.Sprintf(format, args...)}
}

// From returns the *Error wrapped in err, or nil when err is not one.
func From(err error) *Error {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr
	}
	return nil
}
