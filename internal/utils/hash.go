package utils

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// ErrMalformedHash is returned by [PasswordHasher.Compare] when the stored
// value is not a bcrypt encoded hash.
var ErrMalformedHash = errors.New("malformed password hash")

// PasswordHasher hashes and verifies passwords with bcrypt.
// It stores the work factor so every hash produced by one hasher
// carries the same cost.
type PasswordHasher struct {
	cost int
}

// NewPasswordHasher creates a hasher with the given bcrypt cost.
//
// The cost is not validated here: an out-of-range value makes [Hash]
// fail, which callers report as a hashing failure.
//
// Example usage:
//
//	hasher := utils.NewPasswordHasher(bcrypt.DefaultCost)
func NewPasswordHasher(cost int) *PasswordHasher {
	return &PasswordHasher{cost: cost}
}

// Cost returns the configured work factor.
func (h *PasswordHasher) Cost() int {
	return h.cost
}

// Hash derives a salted bcrypt hash of password.
//
// Behavior:
//   - A fresh random salt is drawn on every call, so hashing the same
//     password twice yields different strings.
//   - The returned string embeds algorithm version, cost, salt and digest.
//
// Returns an error if the cost is above bcrypt.MaxCost or the password is
// longer than 72 bytes.
func (h *PasswordHasher) Hash(password string) (string, error) {
	if h.cost < bcrypt.MinCost || h.cost > bcrypt.MaxCost {
		return "", fmt.Errorf("bcrypt cost %d outside [%d, %d]: %w", h.cost, bcrypt.MinCost, bcrypt.MaxCost, bcrypt.InvalidCostError(h.cost))
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}

	return string(hash), nil
}

// Compare checks password against an encoded hash in constant time.
//
// Returns:
//
//	true,  nil - password matches
//	false, nil - password does not match
//	false, err - hash is not a valid bcrypt string
func (h *PasswordHasher) Compare(hash, password string) (bool, error) {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
		return false, nil
	default:
		return false, fmt.Errorf("%w: %w", ErrMalformedHash, err)
	}
}
