package domain

import "errors"

// ErrNotFound is returned by repo and service functions when the requested
// listing, profile, or rating does not exist in the database.
// Handlers should map this to HTTP 404.
var ErrNotFound = errors.New("not found")

// ErrValidation is returned by service functions when input fails business
// rule validation (e.g. unknown location, seats out of range, malformed date).
// Handlers should map this to HTTP 422 Unprocessable Entity.
var ErrValidation = errors.New("validation error")

// ErrAuth is the parent of every identity failure. Test for it with errors.Is
// when the distinction between "no identity" and "wrong identity" does not matter.
var ErrAuth = errors.New("auth error")

// ErrUnauthenticated means the operation needs a caller identity and none was
// supplied. Handlers should map this to HTTP 401.
var ErrUnauthenticated = authError("unauthenticated")

// ErrForbidden means the caller is authenticated but does not own the listing.
// Handlers should map this to HTTP 403.
var ErrForbidden = authError("forbidden")

// ErrInvalidState is returned when a listing cannot be mutated in its current
// lifecycle state: it has expired, or it sits in a terminal status.
var ErrInvalidState = errors.New("invalid state")

// ErrInvalidTransition is returned when a status change is not an edge of the
// listing kind's transition table (e.g. completed -> active).
var ErrInvalidTransition = errors.New("invalid transition")

// ErrDuplicate is returned when a rater tries to rate the same interaction twice.
var ErrDuplicate = errors.New("duplicate")

// ErrorKind is the stable, enumerable name of a failure category.
type ErrorKind string

const (
	KindValidation        ErrorKind = "validation_error"
	KindUnauthenticated   ErrorKind = "unauthenticated"
	KindForbidden         ErrorKind = "forbidden"
	KindNotFound          ErrorKind = "not_found"
	KindInvalidState      ErrorKind = "invalid_state"
	KindInvalidTransition ErrorKind = "invalid_transition"
	KindDuplicate         ErrorKind = "duplicate"
	KindInternal          ErrorKind = "internal"
)

// KindOf classifies err into one of the ErrorKind values.
// Errors that wrap none of the sentinels are reported as KindInternal.
func KindOf(err error) ErrorKind {
	switch {
	case errors.Is(err, ErrValidation):
		return KindValidation
	case errors.Is(err, ErrUnauthenticated):
		return KindUnauthenticated
	case errors.Is(err, ErrForbidden):
		return KindForbidden
	case errors.Is(err, ErrNotFound):
		return KindNotFound
	case errors.Is(err, ErrInvalidTransition):
		return KindInvalidTransition
	case errors.Is(err, ErrInvalidState):
		return KindInvalidState
	case errors.Is(err, ErrDuplicate):
		return KindDuplicate
	default:
		return KindInternal
	}
}

// authIdentityError is a leaf sentinel that also matches ErrAuth.
type authIdentityError struct{ msg string }

func authError(msg string) error { return &authIdentityError{msg: msg} }

func (e *authIdentityError) Error() string { return e.msg }

func (e *authIdentityError) Unwrap() error { return ErrAuth }
