package usecase

import (
	"context"
	"log/slog"
	"time"

	identityUseCase "github.com/ryuqq/authhub/internal/identity/usecase"
	policyDomain "github.com/ryuqq/authhub/internal/policy/domain"
	revocationUseCase "github.com/ryuqq/authhub/internal/revocation/usecase"
	tokenDomain "github.com/ryuqq/authhub/internal/token/domain"
	tokenService "github.com/ryuqq/authhub/internal/token/service"
)

// tokenUseCase implements TokenUseCase.
type tokenUseCase struct {
	identity        identityUseCase.IdentityUseCase
	tokens          tokenService.TokenService
	revocation      revocationUseCase.RevocationUseCase
	accessLifetime  time.Duration
	refreshLifetime time.Duration
	logger          *slog.Logger
}

// NewTokenUseCase creates a TokenUseCase.
func NewTokenUseCase(
	identity identityUseCase.IdentityUseCase,
	tokens tokenService.TokenService,
	revocation revocationUseCase.RevocationUseCase,
	accessLifetime time.Duration,
	refreshLifetime time.Duration,
	logger *slog.Logger,
) TokenUseCase {
	return &tokenUseCase{
		identity:        identity,
		tokens:          tokens,
		revocation:      revocation,
		accessLifetime:  accessLifetime,
		refreshLifetime: refreshLifetime,
		logger:          logger,
	}
}

// Login verifies credentials and issues a fresh token pair.
func (t *tokenUseCase) Login(
	ctx context.Context,
	input *tokenDomain.LoginInput,
) (*tokenDomain.Pair, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}

	user, err := t.identity.VerifyCredentials(ctx, input.Username, input.Password)
	if err != nil {
		return nil, err
	}

	pair, err := t.issuePair(&tokenService.Identity{
		UserID:         user.ID.String(),
		TenantID:       user.TenantID,
		OrganizationID: user.OrganizationID,
		Roles:          user.Roles,
		Permissions:    user.Permissions,
	})
	if err != nil {
		return nil, err
	}

	t.logger.Info("user logged in",
		slog.String("user_id", user.ID.String()),
		slog.String("tenant_id", user.TenantID))

	return pair, nil
}

// Refresh rotates a refresh token. The presented token is revoked before the
// new pair is issued, so each refresh token works exactly once. The new pair
// carries the user's current roles and permissions, not the ones captured at
// the previous issuance.
func (t *tokenUseCase) Refresh(
	ctx context.Context,
	input *tokenDomain.RefreshInput,
) (*tokenDomain.Pair, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}

	claims, err := t.tokens.Verify(input.RefreshToken)
	if err != nil {
		return nil, tokenDomain.ErrInvalidRefreshToken
	}
	if claims.Type != tokenDomain.RefreshToken {
		return nil, tokenDomain.ErrInvalidRefreshToken
	}

	revoked, err := t.revocation.IsRevoked(ctx, claims.JTI)
	if err != nil {
		return nil, err
	}
	if revoked {
		t.logger.Warn("refresh token replay detected",
			slog.String("jti", claims.JTI),
			slog.String("subject", claims.Subject))
		return nil, tokenDomain.ErrInvalidRefreshToken
	}

	if err := t.revocation.Revoke(ctx, claims.JTI, claims.ExpiresAt); err != nil {
		return nil, err
	}

	user, err := t.identity.Get(ctx, claims.Subject)
	if err != nil {
		return nil, tokenDomain.ErrInvalidRefreshToken
	}

	return t.issuePair(&tokenService.Identity{
		UserID:         user.ID.String(),
		TenantID:       user.TenantID,
		OrganizationID: user.OrganizationID,
		Roles:          user.Roles,
		Permissions:    user.Permissions,
	})
}

// Logout revokes the presented access token. Unverifiable tokens are ignored
// so the response does not reveal whether the token was ever valid.
func (t *tokenUseCase) Logout(ctx context.Context, accessToken string) error {
	claims, err := t.tokens.Verify(accessToken)
	if err != nil {
		return nil
	}

	if err := t.revocation.Revoke(ctx, claims.JTI, claims.ExpiresAt); err != nil {
		return err
	}

	t.logger.Info("user logged out",
		slog.String("jti", claims.JTI),
		slog.String("subject", claims.Subject))

	return nil
}

// Authenticate verifies an access token and maps its claims to an access context.
func (t *tokenUseCase) Authenticate(
	ctx context.Context,
	accessToken string,
) (*policyDomain.AccessContext, error) {
	claims, err := t.tokens.Verify(accessToken)
	if err != nil {
		return nil, err
	}
	if claims.Type != tokenDomain.AccessToken {
		return nil, tokenDomain.ErrInvalidToken
	}

	return &policyDomain.AccessContext{
		UserID:         claims.Subject,
		TenantID:       claims.TenantID,
		OrganizationID: claims.OrganizationID,
		TokenID:        claims.JTI,
		Roles:          claims.Roles,
		Permissions:    claims.Permissions,
	}, nil
}

// issuePair signs an access and a refresh token for the identity.
func (t *tokenUseCase) issuePair(identity *tokenService.Identity) (*tokenDomain.Pair, error) {
	accessToken, _, err := t.tokens.Issue(identity, tokenDomain.AccessToken, t.accessLifetime)
	if err != nil {
		return nil, err
	}

	refreshToken, _, err := t.tokens.Issue(identity, tokenDomain.RefreshToken, t.refreshLifetime)
	if err != nil {
		return nil, err
	}

	return &tokenDomain.Pair{
		AccessToken:      accessToken,
		RefreshToken:     refreshToken,
		TokenType:        "Bearer",
		ExpiresIn:        int64(t.accessLifetime.Seconds()),
		RefreshExpiresIn: int64(t.refreshLifetime.Seconds()),
	}, nil
}
