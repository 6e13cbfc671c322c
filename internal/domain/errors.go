package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors shared by services and repositories. Controllers map them to
// HTTP status codes with errors.Is, so wrap them with %w rather than replacing them.
var (
	ErrNotFound         = errors.New("not found")
	ErrForbidden        = errors.New("forbidden")
	ErrInvalidInput     = errors.New("invalid input")
	ErrInvalidState     = errors.New("invalid state")
	ErrAlreadyCheckedIn = errors.New("already checked in")
	ErrInvalidToken     = errors.New("invalid token")
)

// InvalidInputf returns an error wrapping ErrInvalidInput with a formatted reason.
func InvalidInputf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, fmt.Sprintf(format, args...))
}
