// Package auth provides password hashing and JWT issuance/verification.
package auth

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// defaultCost is the bcrypt work factor for new hashes. The digest embeds
// the cost and salt, so old hashes keep verifying if this changes later.
const defaultCost = 12

// PasswordService hashes and verifies passwords with bcrypt.
//
// It's a struct rather than free functions so the cost can be injected —
// tests use the bcrypt minimum to avoid ~250ms per hash.
type PasswordService struct {
	cost int
}

// NewPasswordService creates a PasswordService with the default cost.
func NewPasswordService() *PasswordService {
	return &PasswordService{cost: defaultCost}
}

// NewPasswordServiceWithCost creates a PasswordService with a custom cost.
// Intended for tests with bcrypt.MinCost; do not lower the cost in production.
func NewPasswordServiceWithCost(cost int) *PasswordService {
	return &PasswordService{cost: cost}
}

// Hash produces a self-describing bcrypt digest (algorithm version, cost,
// and salt are all embedded) suitable for direct storage.
//
// bcrypt silently truncates inputs beyond 72 bytes, so longer passwords are
// rejected explicitly instead.
func (p *PasswordService) Hash(plaintext string) (string, error) {
	if len(plaintext) > 72 {
		return "", fmt.Errorf("auth: password must be 72 bytes or fewer")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(plaintext), p.cost)
	if err != nil {
		return "", fmt.Errorf("auth: hashing password: %w", err)
	}

	return string(hashed), nil
}

// Verify reports whether plaintext matches the stored digest.
//
// The comparison is constant-time inside bcrypt. Any failure — mismatch,
// malformed digest, foreign digest format — returns false; a digest that
// cannot be recomputed must never authenticate, and the caller cannot tell
// the causes apart.
func (p *PasswordService) Verify(hash, plaintext string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plaintext)) == nil
}
