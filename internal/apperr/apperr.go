// Package apperr defines the error taxonomy shared by the access guard,
// the complaint lifecycle engine and the HTTP layer. Every failure is
// classified before any mutation is applied, so callers can rely on the
// kind to decide how to respond.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

type Kind int

const (
	NotFound Kind = iota + 1
	Unauthorized
	Forbidden
	InvalidTransition
	Validation
	Conflict
	Internal
)

func (k Kind) String() string {
	switch k {
	case NotFound:
		return "not_found"
	case Unauthorized:
		return "unauthorized"
	case Forbidden:
		return "forbidden"
	case InvalidTransition:
		return "invalid_transition"
	case Validation:
		return "validation"
	case Conflict:
		return "conflict"
	default:
		return "internal"
	}
}

// HTTPStatus maps a kind to the status code the API responds with.
func (k Kind) HTTPStatus() int {
	switch k {
	case NotFound:
		return http.StatusNotFound
	case Unauthorized:
		return http.StatusUnauthorized
	case Forbidden:
		return http.StatusForbidden
	case InvalidTransition, Validation:
		return http.StatusBadRequest
	case Conflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

func New(k Kind, msg string) *Error {
	return &Error{Kind: k, Message: msg}
}

func Newf(k Kind, format string, args ...any) *Error {
	return &Error{Kind: k, Message: fmt.Sprintf(format, args...)}
}

// Wrap keeps the underlying cause reachable via errors.Unwrap while
// presenting the caller-facing message and kind.
func Wrap(k Kind, msg string, err error) *Error {
	return &Error{Kind: k, Message: msg, Err: err}
}

// KindOf extracts the taxonomy kind from err, defaulting to Internal for
// anything that was not classified on the way up.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return Internal
}

// MessageOf returns the caller-facing message, hiding internals for
// unclassified errors.
func MessageOf(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return "internal server error"
}
