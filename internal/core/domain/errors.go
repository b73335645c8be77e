package domain

import "errors"

// Error kinds. Every error surfaced to a client unwraps to exactly one of
// these; the HTTP error handler maps the kind to a status code.
var (
	ErrValidation      = errors.New("validation error")
	ErrUnauthenticated = errors.New("unauthenticated")
	ErrForbidden       = errors.New("forbidden")
	ErrConflict        = errors.New("conflict")
	ErrNotFound        = errors.New("not found")
	ErrInternal        = errors.New("internal error")
)

// Error is a domain failure carrying the message shown to the client.
// It unwraps to its kind and, when wrapped with WithCause, to the cause.
type Error struct {
	kind  error
	msg   string
	cause error
}

func newError(kind error, msg string) *Error {
	return &Error{kind: kind, msg: msg}
}

func (e *Error) Error() string { return e.msg }

// Kind returns the taxonomy kind this error belongs to.
func (e *Error) Kind() error { return e.kind }

// Cause returns the underlying failure, if any.
func (e *Error) Cause() error { return e.cause }

func (e *Error) Unwrap() []error {
	if e.cause == nil {
		return []error{e.kind}
	}
	return []error{e.kind, e.cause}
}

// Is matches another *Error with the same kind and message, so a value
// returned by WithCause still satisfies errors.Is against its template.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.kind == e.kind && t.msg == e.msg
}

// WithCause returns a copy of e that also unwraps to cause.
func (e *Error) WithCause(cause error) error {
	return &Error{kind: e.kind, msg: e.msg, cause: cause}
}

// Auth errors.
var (
	ErrRegisterFieldsRequired = newError(ErrValidation, "Username and password are required")
	ErrLoginFieldsRequired    = newError(ErrValidation, "Username and password required")
	ErrPasswordTooLong        = newError(ErrValidation, "Password must be at most 72 bytes")
	ErrUsernameTaken          = newError(ErrConflict, "Username already exists")
	ErrInvalidCredentials     = newError(ErrUnauthenticated, "Invalid credentials")
)

// Account errors.
var (
	ErrAccountNotFound    = newError(ErrNotFound, "User not found")
	ErrAdminNotDeletable  = newError(ErrForbidden, "Cannot delete admin users")
	ErrMissingAuthContext = newError(ErrInternal, "Internal Server Error")
)

// Explanation errors.
var (
	ErrCodeRequired        = newError(ErrValidation, "Code is required")
	ErrExplanationNotFound = newError(ErrNotFound, "Explanation not found")
	ErrExplanationNotOwned = newError(ErrNotFound, "Explanation not found or not owned by you")
	ErrEmptyExplanation    = newError(ErrInternal, "Failed to get explanation from AI model")
)

// Generic internal failures, differing only in the client-facing message.
var (
	ErrDatabase = newError(ErrInternal, "Database error")
	ErrServer   = newError(ErrInternal, "Internal Server Error")
)
