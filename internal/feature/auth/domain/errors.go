// Package domain defines domain-level errors for the auth feature.
package domain

import (
	"errors"
	"fmt"
)

// Domain errors for authentication operations.
// These errors represent business logic failures and should be handled appropriately by upper layers.
var (
	// ErrInvalidInput indicates a malformed caller-supplied primitive, such as an empty password.
	// It is a caller bug and is never retried.
	ErrInvalidInput = errors.New("invalid input")

	// ErrInvalidCredentials indicates that the provided credentials are incorrect.
	// The same error is returned for an unknown email and for a wrong password.
	ErrInvalidCredentials = errors.New("invalid email or password")

	// ErrEmailAlreadyExists indicates that a user with the given email already exists.
	ErrEmailAlreadyExists = errors.New("email already exists")

	// ErrUserNotFound indicates that no user was found with the given criteria.
	ErrUserNotFound = errors.New("user not found")
)

// EmailAlreadyExistsError carries the offending email for logging.
// errors.Is(err, ErrEmailAlreadyExists) reports true for it.
type EmailAlreadyExistsError struct {
	Email string
}

func (e *EmailAlreadyExistsError) Error() string {
	return fmt.Sprintf("%s: %s", ErrEmailAlreadyExists, e.Email)
}

// Is makes EmailAlreadyExistsError match ErrEmailAlreadyExists.
func (e *EmailAlreadyExistsError) Is(target error) bool {
	return target == ErrEmailAlreadyExists
}
