// Package apperror holds the error kinds shared by the scheduling and
// financial layers. Concrete errors unwrap to exactly one kind so callers can
// branch with errors.Is without knowing every concrete value.
package apperror

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound           = errors.New("not found")
	ErrInactiveEntity     = errors.New("inactive entity")
	ErrSchedulingConflict = errors.New("scheduling conflict")
	ErrValidation         = errors.New("validation error")
	ErrAccessDenied       = errors.New("access denied")
	ErrInfrastructure     = errors.New("infrastructure error")
)

// Error is a business-rule failure tagged with its kind.
type Error struct {
	kind error
	msg  string
}

func New(kind error, msg string) *Error {
	return &Error{kind: kind, msg: msg}
}

func (e *Error) Error() string { return e.msg }

func (e *Error) Unwrap() error { return e.kind }

// Kind returns the kind sentinel the error belongs to.
func (e *Error) Kind() error { return e.kind }

// Validation builds a one-off validation error.
func Validation(format string, args ...any) error {
	return New(ErrValidation, fmt.Sprintf(format, args...))
}

// IsBusiness reports whether err carries one of the business-rule kinds.
func IsBusiness(err error) bool {
	return errors.Is(err, ErrNotFound) ||
		errors.Is(err, ErrInactiveEntity) ||
		errors.Is(err, ErrSchedulingConflict) ||
		errors.Is(err, ErrValidation) ||
		errors.Is(err, ErrAccessDenied)
}

// Wrap tags a storage or lookup failure as infrastructure. Errors that
// already carry a business kind pass through untouched.
func Wrap(op string, err error) error {
	if err == nil {
		return nil
	}
	if IsBusiness(err) || errors.Is(err, ErrInfrastructure) {
		return err
	}
	return fmt.Errorf("%s: %w: %w", op, ErrInfrastructure, err)
}
