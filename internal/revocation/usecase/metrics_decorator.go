package usecase

import (
	"context"
	"time"

	"github.com/ryuqq/authhub/internal/metrics"
)

// revocationUseCaseWithMetrics decorates RevocationUseCase with metrics instrumentation.
type revocationUseCaseWithMetrics struct {
	next    RevocationUseCase
	metrics metrics.BusinessMetrics
}

// NewRevocationUseCaseWithMetrics wraps a RevocationUseCase with metrics recording.
func NewRevocationUseCaseWithMetrics(useCase RevocationUseCase, m metrics.BusinessMetrics) RevocationUseCase {
	return &revocationUseCaseWithMetrics{
		next:    useCase,
		metrics: m,
	}
}

// Revoke records metrics for revocation writes.
func (r *revocationUseCaseWithMetrics) Revoke(
	ctx context.Context,
	jti string,
	expiresAt time.Time,
) error {
	start := time.Now()
	err := r.next.Revoke(ctx, jti, expiresAt)

	status := "success"
	if err != nil {
		status = "error"
	}

	r.metrics.RecordOperation(ctx, "revocation", "revoke", status)
	r.metrics.RecordDuration(ctx, "revocation", "revoke", time.Since(start), status)

	return err
}

// IsRevoked records metrics for membership checks. The status label
// distinguishes hits from clean lookups so revoked-token pressure is visible.
func (r *revocationUseCaseWithMetrics) IsRevoked(ctx context.Context, jti string) (bool, error) {
	start := time.Now()
	revoked, err := r.next.IsRevoked(ctx, jti)

	status := "clean"
	switch {
	case err != nil:
		status = "error"
	case revoked:
		status = "revoked"
	}

	r.metrics.RecordOperation(ctx, "revocation", "is_revoked", status)
	r.metrics.RecordDuration(ctx, "revocation", "is_revoked", time.Since(start), status)

	return revoked, err
}
