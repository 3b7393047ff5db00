// Package service provides Argon2id password hashing for the user directory.
package service

import (
	"github.com/allisson/go-pwdhash"

	apperrors "github.com/ryuqq/authhub/internal/errors"
)

// PasswordService hashes and verifies user passwords.
type PasswordService interface {
	// Hash hashes a plaintext password with Argon2id.
	Hash(plainPassword string) (string, error)

	// Compare performs a constant-time comparison of a plaintext password
	// against its stored hash.
	Compare(plainPassword, passwordHash string) bool
}

// passwordService implements PasswordService using Argon2id.
type passwordService struct {
	hasher *pwdhash.PasswordHasher
}

// NewPasswordService creates a PasswordService with the Moderate policy,
// balancing security and login latency.
func NewPasswordService() PasswordService {
	hasher, err := pwdhash.New(
		pwdhash.WithPolicy(pwdhash.PolicyModerate),
	)
	if err != nil {
		// This should never happen with valid policy
		panic(err)
	}

	return &passwordService{hasher: hasher}
}

// Hash hashes a plaintext password.
func (p *passwordService) Hash(plainPassword string) (string, error) {
	hash, err := p.hasher.Hash([]byte(plainPassword))
	if err != nil {
		return "", apperrors.Wrap(err, "failed to hash password")
	}
	return hash, nil
}

// Compare verifies a plaintext password against its hash.
func (p *passwordService) Compare(plainPassword, passwordHash string) bool {
	ok, err := p.hasher.Verify([]byte(plainPassword), passwordHash)
	if err != nil {
		return false
	}
	return ok
}
