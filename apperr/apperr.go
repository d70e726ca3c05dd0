// Package apperr defines the error kinds handlers report and the HTTP status
// each one maps to.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

type Kind int

const (
	KindInternal Kind = iota
	KindBadRequest
	KindUnauthorized
	KindForbidden
	KindNotFound
	KindConflict
)

// Status returns the HTTP status code for the kind. Conflicts answer 400 to
// stay compatible with existing clients.
func (k Kind) Status() int {
	switch k {
	case KindBadRequest, KindConflict:
		return http.StatusBadRequest
	case KindUnauthorized:
		return http.StatusUnauthorized
	case KindForbidden:
		return http.StatusForbidden
	case KindNotFound:
		return http.StatusNotFound
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
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches errors of the same kind and message so the named errors below
// work with errors.Is even after wrapping.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind && t.Message == e.Message
}

func New(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

func Wrap(err error, kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

func BadRequest(format string, args ...any) *Error {
	return New(KindBadRequest, format, args...)
}

func Unauthorized(format string, args ...any) *Error {
	return New(KindUnauthorized, format, args...)
}

func Forbidden(format string, args ...any) *Error {
	return New(KindForbidden, format, args...)
}

func NotFound(format string, args ...any) *Error {
	return New(KindNotFound, format, args...)
}

func Internal(format string, args ...any) *Error {
	return New(KindInternal, format, args...)
}

var (
	ErrInvalidCredentials    = Unauthorized("Invalid credentials")
	ErrInvalidToken          = Unauthorized("Not authorized to access this route")
	ErrInvalidOrExpiredToken = BadRequest("Invalid or expired token")
	ErrAlreadyLiked          = BadRequest("Post already liked")
	ErrNotLiked              = BadRequest("Post has not yet been liked")
	ErrDuplicateField        = New(KindConflict, "Duplicate field value entered")
	ErrProfileExists         = BadRequest("You have already created a profile")
	ErrProfileMissing        = NotFound("There is no profile for this user")
	ErrNoProfileYet          = BadRequest("You have not created a profile yet")
	ErrIncorrectPassword     = Unauthorized("Password is incorrect")
	ErrEmailNotSent          = Internal("Email could not be sent")
	ErrResourceNotFound      = NotFound("Resource not found")
	ErrServer                = Internal("Server error")
)

// KindOf returns the kind of the first *Error in err's chain, or
// KindInternal when there is none.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}
