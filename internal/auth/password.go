package auth

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

const (
	// DefaultBcryptCost is the work factor used when none is configured.
	DefaultBcryptCost = 10
	// MaxPasswordBytes is the longest input bcrypt accepts.
	MaxPasswordBytes = 72
)

// PasswordHasher produces and checks one-way salted password digests.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(hash, password string) bool
}

// BcryptHasher implements PasswordHasher with bcrypt.
type BcryptHasher struct {
	Cost int
}

// NewBcryptHasher returns a hasher with the given cost, falling back to
// DefaultBcryptCost when cost is out of bcrypt's range.
func NewBcryptHasher(cost int) BcryptHasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = DefaultBcryptCost
	}
	return BcryptHasher{Cost: cost}
}

// Hash returns a bcrypt digest with a fresh salt.
func (b BcryptHasher) Hash(password string) (string, error) {
	cost := b.Cost
	if cost == 0 {
		cost = DefaultBcryptCost
	}
	h, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(h), nil
}

// Verify reports whether password matches the digest.
func (b BcryptHasher) Verify(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
