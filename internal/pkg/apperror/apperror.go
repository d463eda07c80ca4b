package apperror

import (
	"errors"
	"net/http"
)

// Kind classifies an application error independently of its message.
type Kind int

const (
	KindInternal Kind = iota
	KindNotFound
	KindValidation
	KindConflict
)

// String returns the lower-case name of the kind.
func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "not_found"
	case KindValidation:
		return "validation"
	case KindConflict:
		return "conflict"
	default:
		return "internal"
	}
}

// Status maps the kind to the HTTP status code used by the transport layer.
func (k Kind) Status() int {
	switch k {
	case KindNotFound:
		return http.StatusNotFound
	case KindValidation:
		return http.StatusBadRequest
	case KindConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// AppError is a custom error type that carries a kind, a user-facing message and an optional cause.
type AppError struct {
	Kind    Kind
	Message string // User-facing error message
	Err     error  // The underlying error, if any (not exposed to user)
}

func (e *AppError) Error() string {
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Is reports whether target is the same sentinel, or an AppError of the same kind and message.
// This lets formatted errors built with Wrap match their sentinel via errors.Is.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return e.Kind == t.Kind && e.Message == t.Message
}

// Code returns the HTTP status code for the error.
func (e *AppError) Code() int {
	return e.Kind.Status()
}

// New creates a new AppError with a kind and message.
func New(kind Kind, message string) *AppError {
	return &AppError{
		Kind:    kind,
		Message: message,
	}
}

// NotFound creates a NotFound error.
func NotFound(message string) *AppError {
	return New(KindNotFound, message)
}

// Validation creates a Validation error.
func Validation(message string) *AppError {
	return New(KindValidation, message)
}

// Conflict creates a Conflict error.
func Conflict(message string) *AppError {
	return New(KindConflict, message)
}

// Wrap creates a new AppError wrapping an existing error.
func Wrap(err error, kind Kind, message string) *AppError {
	return &AppError{
		Kind:    kind,
		Message: message,
		Err:     err,
	}
}

// KindOf returns the kind of err, or KindInternal if err is not an AppError.
func KindOf(err error) Kind {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindInternal
}
