// Package password provides one-way password hashing backed by bcrypt.
package password

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"money_backend/internal/feature/auth/domain"
)

// MaxPasswordBytes is the longest input bcrypt accepts.
const MaxPasswordBytes = 72

// BcryptHasher hashes and verifies passwords with bcrypt.
// The produced hash embeds algorithm version, cost and salt.
type BcryptHasher struct {
	cost int
}

// NewBcryptHasher creates a hasher with the given work factor.
// A cost outside bcrypt's supported range falls back to bcrypt.DefaultCost.
func NewBcryptHasher(cost int) *BcryptHasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &BcryptHasher{cost: cost}
}

// Hash returns the bcrypt hash of rawPassword.
// Empty passwords and passwords longer than 72 bytes are rejected with domain.ErrInvalidInput
// rather than silently truncated.
func (h *BcryptHasher) Hash(rawPassword string) (string, error) {
	if rawPassword == "" {
		return "", fmt.Errorf("%w: raw password cannot be empty", domain.ErrInvalidInput)
	}
	if len(rawPassword) > MaxPasswordBytes {
		return "", fmt.Errorf("%w: raw password exceeds %d bytes", domain.ErrInvalidInput, MaxPasswordBytes)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(rawPassword), h.cost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hashed), nil
}

// Matches reports whether rawPassword matches hashedPassword.
// A mismatch is (false, nil). An empty or unparsable hash is domain.ErrInvalidInput.
// The comparison itself is bcrypt's constant-time comparison.
func (h *BcryptHasher) Matches(rawPassword, hashedPassword string) (bool, error) {
	if hashedPassword == "" {
		return false, fmt.Errorf("%w: hashed password cannot be empty", domain.ErrInvalidInput)
	}

	err := bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(rawPassword))
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword), errors.Is(err, bcrypt.ErrPasswordTooLong):
		// No stored hash can come from a password over 72 bytes.
		return false, nil
	default:
		return false, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
}
