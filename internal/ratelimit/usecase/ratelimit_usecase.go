package usecase

import (
	"context"
	"log/slog"
	"time"

	rateLimitDomain "github.com/ryuqq/authhub/internal/ratelimit/domain"
)

// rateLimitUseCase implements RateLimitUseCase over a shared counter store.
type rateLimitUseCase struct {
	counters CounterRepository
	logger   *slog.Logger
}

// NewRateLimitUseCase creates a RateLimitUseCase.
func NewRateLimitUseCase(counters CounterRepository, logger *slog.Logger) RateLimitUseCase {
	return &rateLimitUseCase{
		counters: counters,
		logger:   logger,
	}
}

// TryAcquire counts the request and compares against the rule's quota.
//
// The counter keeps incrementing past the limit for rejected requests; only
// the first `limit` increments within a window are admitted, so concurrent
// callers on the same key can never jointly exceed the quota. Remaining is
// clamped at zero and ResetAt is recomputed from the store's own expiry on
// every call.
func (r *rateLimitUseCase) TryAcquire(
	ctx context.Context,
	clientKey, endpoint string,
	limitType rateLimitDomain.LimitType,
) (*rateLimitDomain.Result, error) {
	rule := rateLimitDomain.RuleFor(limitType)
	key := rule.Key(clientKey, endpoint)

	count, expiresIn, err := r.counters.Increment(ctx, key, rule.Window)
	if err != nil {
		return nil, err
	}

	result := &rateLimitDomain.Result{
		Allowed:   count <= rule.Limit,
		Limit:     rule.Limit,
		Remaining: max(0, rule.Limit-count),
		ResetAt:   time.Now().Add(expiresIn),
	}

	if !result.Allowed {
		r.logger.Debug("rate limit exceeded",
			slog.String("key", key),
			slog.Int64("count", count),
			slog.Int64("limit", rule.Limit))
	}

	return result, nil
}
