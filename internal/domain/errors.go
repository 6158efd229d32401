package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrValidation marks malformed or missing request input. No write
	// has happened when it is returned.
	ErrValidation = errors.New("validation failed")

	// ErrNotFound covers both "does not exist" and "not owned by the
	// caller" so order ids cannot be probed across users.
	ErrNotFound = errors.New("not found")

	// ErrOrderNumberTaken is returned by the order store when the
	// unique constraint on order_number rejects an insert.
	ErrOrderNumberTaken = errors.New("order number already taken")

	// ErrOrderNumberExhausted means no free order number was found
	// within the retry budget. Safe to retry the whole request.
	ErrOrderNumberExhausted = errors.New("order number generation exhausted")

	ErrDuplicateEmail     = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserInactive       = errors.New("user is deactivated")
)

func validationf(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}
