// Package apperr defines the error kinds the catalog services return.
// Services build errors with the *f constructors; transport handlers map
// them back to status codes with errors.Is.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Sentinel kinds. Every error returned by a service wraps exactly one of these.
var (
	ErrBadRequest = errors.New("bad request")
	ErrNotFound   = errors.New("not found")
	ErrConflict   = errors.New("conflict")
	ErrInternal   = errors.New("internal error")
)

// Error carries a caller-facing message, the kind it belongs to, and an
// optional underlying cause (kept for boundary logging, matched by errors.Is).
type Error struct {
	kind  error
	cause error
	msg   string
}

func (e *Error) Error() string {
	if e.cause != nil {
		return e.msg + ": " + e.cause.Error()
	}
	return e.msg
}

// Message returns the caller-facing message without the underlying cause.
func (e *Error) Message() string { return e.msg }

func (e *Error) Unwrap() []error {
	if e.cause != nil {
		return []error{e.kind, e.cause}
	}
	return []error{e.kind}
}

// BadRequestf returns a BadRequest error with a formatted message.
func BadRequestf(format string, args ...any) error {
	return &Error{kind: ErrBadRequest, msg: fmt.Sprintf(format, args...)}
}

// NotFoundf returns a NotFound error with a formatted message.
func NotFoundf(format string, args ...any) error {
	return &Error{kind: ErrNotFound, msg: fmt.Sprintf(format, args...)}
}

// Conflictf returns a Conflict error with a formatted message.
func Conflictf(format string, args ...any) error {
	return &Error{kind: ErrConflict, msg: fmt.Sprintf(format, args...)}
}

// Internalf returns an Internal error with a formatted message.
func Internalf(format string, args ...any) error {
	return &Error{kind: ErrInternal, msg: fmt.Sprintf(format, args...)}
}

// Internalw returns an Internal error that records cause for boundary logging.
// The formatted message names the failing operation; cause stays out of the
// caller-facing Message.
func Internalw(cause error, format string, args ...any) error {
	return &Error{kind: ErrInternal, cause: cause, msg: fmt.Sprintf(format, args...)}
}

// Message returns the caller-facing message for err: the Error message without
// its cause when err is an apperr.Error, err.Error() otherwise.
func Message(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message()
	}
	return err.Error()
}

// HTTPStatus maps an error to its HTTP status code. Unclassified errors
// (including raw storage failures) map to 500.
func HTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrBadRequest):
		return http.StatusBadRequest
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrConflict):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
