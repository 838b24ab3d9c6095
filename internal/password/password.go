// Package password hashes and verifies user passwords with bcrypt.
// The work factor depends on the environment profile: production pays
// the full cost, everything else uses the minimum so test cycles stay
// fast.
package password

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"pulse/internal/config"
)

// productionCost is the bcrypt work factor used in production.
const productionCost = 14

// ErrHashFormat is returned when a stored digest cannot be parsed.
// Digests are only ever read back from the database, so this signals
// data corruption rather than bad user input.
var ErrHashFormat = errors.New("malformed password digest")

// Hash computes a salted bcrypt digest of the plaintext. The salt is
// generated per call, so hashing the same input twice yields different
// digests.
func Hash(plaintext string) (string, error) {
	digest, err := bcrypt.GenerateFromPassword([]byte(plaintext), cost())
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(digest), nil
}

// Compare reports whether the plaintext matches the stored digest.
// The comparison runs in constant time relative to where a mismatch
// occurs. A digest that cannot be parsed yields ErrHashFormat.
func Compare(plaintext, digest string) (bool, error) {
	err := bcrypt.CompareHashAndPassword([]byte(digest), []byte(plaintext))
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
		return false, nil
	default:
		return false, fmt.Errorf("%w: %v", ErrHashFormat, err)
	}
}

func cost() int {
	if config.IsProduction() {
		return productionCost
	}
	return bcrypt.MinCost
}
