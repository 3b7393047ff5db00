// Package usecase defines business logic for the token lifecycle.
package usecase

import (
	"context"

	policyDomain "github.com/ryuqq/authhub/internal/policy/domain"
	tokenDomain "github.com/ryuqq/authhub/internal/token/domain"
)

// TokenUseCase issues, rotates, and retires token pairs.
type TokenUseCase interface {
	// Login verifies credentials and issues a fresh access/refresh pair.
	Login(ctx context.Context, input *tokenDomain.LoginInput) (*tokenDomain.Pair, error)

	// Refresh rotates a refresh token: the presented token is revoked and a new
	// pair is issued with the user's current roles and permissions. Each refresh
	// token works exactly once; a replayed token reports ErrInvalidRefreshToken.
	Refresh(ctx context.Context, input *tokenDomain.RefreshInput) (*tokenDomain.Pair, error)

	// Logout revokes the presented access token. An unverifiable token is a
	// silent success so the endpoint leaks nothing about token validity.
	Logout(ctx context.Context, accessToken string) error

	// Authenticate verifies an access token and returns the caller identity
	// carried by it. Refresh tokens are rejected here.
	Authenticate(ctx context.Context, accessToken string) (*policyDomain.AccessContext, error)
}
