package accounts

import (
	"errors"
	"fmt"

	"github.com/dalemusser/fishnet/internal/app/system/auth"
)

var (
	// ErrValidation is matched by every input rejection; use errors.Is.
	ErrValidation = errors.New("validation failed")
	// ErrDuplicateEmail means another account already uses the email.
	ErrDuplicateEmail = errors.New("user with this email already exists")
	// ErrDuplicateLicense means another account already holds the license id.
	ErrDuplicateLicense = errors.New("license id already registered")
	// ErrInvalidCredentials is returned for both unknown emails and wrong
	// passwords so callers cannot tell which.
	ErrInvalidCredentials = errors.New("invalid email or password")
	// ErrAccountDeactivated is shared with the resolver so both paths map the same way.
	ErrAccountDeactivated = auth.ErrAccountDeactivated
	// ErrUserNotFound is shared with the resolver.
	ErrUserNotFound = auth.ErrUserNotFound
)

// ValidationError carries a client-facing message and matches ErrValidation.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

func invalid(msg string) error { return &ValidationError{Msg: msg} }

// InsufficientTokensError reports a spend that the balance could not cover.
type InsufficientTokensError struct {
	Current  int64
	Required int64
}

func (e *InsufficientTokensError) Error() string {
	return fmt.Sprintf("insufficient tokens: have %d, need %d", e.Current, e.Required)
}
