package usecase

import (
	"context"
	"log/slog"
	"time"

	revocationDomain "github.com/ryuqq/authhub/internal/revocation/domain"
)

// revocationUseCase implements RevocationUseCase over a shared store.
type revocationUseCase struct {
	repository RevocationRepository
	logger     *slog.Logger
}

// NewRevocationUseCase creates a RevocationUseCase.
func NewRevocationUseCase(repository RevocationRepository, logger *slog.Logger) RevocationUseCase {
	return &revocationUseCase{
		repository: repository,
		logger:     logger,
	}
}

// Revoke records the JTI until the token's original expiry.
// A token already past its expiry needs no entry: it cannot authenticate
// anyway, and storing it would violate the entry lifetime invariant.
func (r *revocationUseCase) Revoke(ctx context.Context, jti string, expiresAt time.Time) error {
	now := time.Now()
	if !now.Before(expiresAt) {
		return nil
	}

	entry := &revocationDomain.Entry{
		JTI:       jti,
		RevokedAt: now,
		ExpiresAt: expiresAt,
	}

	if err := r.repository.Revoke(ctx, entry); err != nil {
		return err
	}

	r.logger.Info("token revoked",
		slog.String("jti", jti),
		slog.Time("expires_at", expiresAt))
	return nil
}

// IsRevoked reports whether the JTI is on the revocation list.
func (r *revocationUseCase) IsRevoked(ctx context.Context, jti string) (bool, error) {
	return r.repository.IsRevoked(ctx, jti)
}
