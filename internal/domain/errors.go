package domain

import (
	"errors"
	"fmt"
)

// Error kinds. Every error returned by the services unwraps to one of these.
var (
	ErrValidation   = errors.New("validation failed")
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
	ErrAuthRequired = errors.New("authentication required")
	ErrStore        = errors.New("store failure")
)

var (
	ErrDuplicateReview    = newKindError(ErrConflict, "You have already reviewed this property")
	ErrHousingExists      = newKindError(ErrConflict, "This property already exists in the database")
	ErrAlreadyFavorited   = newKindError(ErrConflict, "Already favorited")
	ErrEmailTaken         = newKindError(ErrConflict, "An account with this email already exists")
	ErrHousingNotFound    = newKindError(ErrNotFound, "Housing not found")
	ErrFavoriteNotFound   = newKindError(ErrNotFound, "Favorite not found")
	ErrUserNotFound       = newKindError(ErrNotFound, "User not found")
	ErrInvalidCredentials = newKindError(ErrAuthRequired, "Invalid email or password")
	ErrUnauthorized       = newKindError(ErrAuthRequired, "Unauthorized. Please sign in.")
)

// KindError is an error with a stable user-facing message that unwraps to
// one of the kinds above.
type KindError struct {
	kind error
	msg  string
}

func newKindError(kind error, msg string) *KindError {
	return &KindError{kind: kind, msg: msg}
}

func (e *KindError) Error() string { return e.msg }

func (e *KindError) Unwrap() error { return e.kind }

// Validationf builds a ValidationError with a message the caller can act on.
func Validationf(format string, args ...any) error {
	return newKindError(ErrValidation, fmt.Sprintf(format, args...))
}

// StoreError wraps an opaque persistence failure.
func StoreError(op string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%w: %s: %w", ErrStore, op, err)
}

// Message returns the text safe to show a user for err.
func Message(err error) string {
	var ke *KindError
	if errors.As(err, &ke) {
		return ke.msg
	}
	return "Something went wrong. Please try again."
}
