package password

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// ErrMismatch is returned when a password does not match its stored hash.
var ErrMismatch = errors.New("password mismatch")

// DefaultCost balances login latency against brute-force resistance.
// bcrypt.DefaultCost (10) is fine for this workload; raise via Hash-time
// benchmarks if hardware allows.
const DefaultCost = bcrypt.DefaultCost

// Hash returns the bcrypt hash of a plaintext password.
// The salt is generated internally; the returned string embeds cost and salt.
func Hash(plaintext string) (string, error) {
	if plaintext == "" {
		return "", errors.New("password is required")
	}
	b, err := bcrypt.GenerateFromPassword([]byte(plaintext), DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(b), nil
}

// Verify compares a plaintext password against a stored hash.
// Returns ErrMismatch on mismatch so callers can collapse it with
// unknown-user lookups into a single invalid-credentials outcome.
func Verify(plaintext, hash string) error {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(plaintext))
	if err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return ErrMismatch
		}
		return fmt.Errorf("verify password: %w", err)
	}
	return nil
}
