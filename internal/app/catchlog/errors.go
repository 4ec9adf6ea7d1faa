package catchlog

import "errors"

var (
	// ErrValidation is matched by every input rejection; use errors.Is.
	ErrValidation = errors.New("validation failed")
	// ErrInvalidID means the catch id is not a well-formed ObjectID.
	ErrInvalidID = errors.New("invalid catch id")
	// ErrNotFound means no catch has the id.
	ErrNotFound = errors.New("catch not found")
	// ErrForbidden means the caller does not own the catch.
	ErrForbidden = errors.New("not authorized to modify this catch")
)

// ValidationError carries a client-facing message and matches ErrValidation.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

func invalid(msg string) error { return &ValidationError{Msg: msg} }
