// Package password hashes credentials with bcrypt. Plaintext never leaves
// this package in any form other than the salted hash.
package password

import (
	"errors"
	"fmt"

	"github.com/Samuel-soita/project-tracker-backend/internal/domain"
	"golang.org/x/crypto/bcrypt"
)

type Hasher struct {
	cost int
}

// NewHasher returns a bcrypt hasher. Costs below bcrypt.MinCost fall back to
// bcrypt.DefaultCost; tests pass bcrypt.MinCost to stay fast.
func NewHasher(cost int) *Hasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &Hasher{cost: cost}
}

func (h *Hasher) Hash(plain string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(plain), h.cost)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return "", domain.NewValidationError("Password must be at most 72 bytes")
		}
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

// Verify compares in constant time. A malformed hash is a mismatch.
func (h *Hasher) Verify(hash, plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}
