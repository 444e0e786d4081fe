package security

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/codeclannigeria/codeclannigeria.dev/internal/core/port"
)

// DefaultBcryptCost matches the work factor the platform has always used.
const DefaultBcryptCost = 10

// BcryptHasher hashes credentials with bcrypt. The salt is embedded in the
// produced digest, so Hash never returns the same digest twice for one input.
type BcryptHasher struct {
	cost int
}

// NewBcryptHasher validates the cost once at construction. A zero cost
// selects DefaultBcryptCost.
func NewBcryptHasher(cost int) (*BcryptHasher, error) {
	if cost == 0 {
		cost = DefaultBcryptCost
	}
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		return nil, fmt.Errorf("bcrypt cost %d outside [%d, %d]", cost, bcrypt.MinCost, bcrypt.MaxCost)
	}
	return &BcryptHasher{cost: cost}, nil
}

// Cost returns the configured work factor.
func (h *BcryptHasher) Cost() int {
	return h.cost
}

// Hash produces a bcrypt digest of the plaintext.
func (h *BcryptHasher) Hash(plaintext string) (string, error) {
	digest, err := bcrypt.GenerateFromPassword([]byte(plaintext), h.cost)
	if err != nil {
		return "", fmt.Errorf("bcrypt hash: %w", err)
	}
	return string(digest), nil
}

// Verify reports whether plaintext matches the digest. A mismatch, a
// malformed digest, and an oversized input all read as "no match" so the
// caller cannot tell them apart.
func (h *BcryptHasher) Verify(plaintext string, encoded string) (bool, error) {
	if err := bcrypt.CompareHashAndPassword([]byte(encoded), []byte(plaintext)); err != nil {
		return false, nil
	}
	return true, nil
}

var _ port.PasswordHasher = (*BcryptHasher)(nil)
