// Package service provides JWT signing and verification for the token lifecycle.
package service

import (
	"time"

	tokenDomain "github.com/ryuqq/authhub/internal/token/domain"
)

// Identity is the resolved subject a token is issued for.
type Identity struct {
	UserID         string
	TenantID       string
	OrganizationID string
	Roles          []string
	Permissions    []string
}

// TokenService signs and verifies tokens. Implementations generate a fresh
// JTI for every issued token.
type TokenService interface {
	// Issue signs a token of the given type and lifetime for the identity.
	Issue(identity *Identity, tokenType tokenDomain.TokenType, lifetime time.Duration) (string, *tokenDomain.Claims, error)

	// Verify validates the signature and standard claims of a token and
	// returns its payload. Returns ErrInvalidToken for anything unverifiable.
	Verify(token string) (*tokenDomain.Claims, error)

	// ExtractJTI verifies the token and returns its identifier. Used by the
	// revocation check, which needs the JTI before full authentication runs.
	ExtractJTI(token string) (string, error)
}
