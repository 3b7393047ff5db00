package usecase

import (
	"context"
	"time"

	"github.com/ryuqq/authhub/internal/metrics"
	rateLimitDomain "github.com/ryuqq/authhub/internal/ratelimit/domain"
)

// rateLimitUseCaseWithMetrics decorates RateLimitUseCase with metrics instrumentation.
type rateLimitUseCaseWithMetrics struct {
	next    RateLimitUseCase
	metrics metrics.BusinessMetrics
}

// NewRateLimitUseCaseWithMetrics wraps a RateLimitUseCase with metrics recording.
func NewRateLimitUseCaseWithMetrics(useCase RateLimitUseCase, m metrics.BusinessMetrics) RateLimitUseCase {
	return &rateLimitUseCaseWithMetrics{
		next:    useCase,
		metrics: m,
	}
}

// TryAcquire records metrics for acquisition attempts. The status label
// distinguishes admitted, rejected, and store-error outcomes.
func (r *rateLimitUseCaseWithMetrics) TryAcquire(
	ctx context.Context,
	clientKey, endpoint string,
	limitType rateLimitDomain.LimitType,
) (*rateLimitDomain.Result, error) {
	start := time.Now()
	result, err := r.next.TryAcquire(ctx, clientKey, endpoint, limitType)

	status := "allowed"
	switch {
	case err != nil:
		status = "error"
	case !result.Allowed:
		status = "rejected"
	}

	r.metrics.RecordOperation(ctx, "ratelimit", "try_acquire", status)
	r.metrics.RecordDuration(ctx, "ratelimit", "try_acquire", time.Since(start), status)

	return result, err
}
