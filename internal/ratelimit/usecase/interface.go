// Package usecase defines business logic for fixed-window rate limiting.
package usecase

import (
	"context"
	"time"

	rateLimitDomain "github.com/ryuqq/authhub/internal/ratelimit/domain"
)

// CounterRepository defines the shared fixed-window counter store.
// Implementations must make Increment atomic with respect to concurrent
// callers of the same key: two concurrent increments must observe distinct
// counts. A store that cannot be reached within its deadline returns
// ErrStoreUnavailable.
type CounterRepository interface {
	// Increment adds one to the key's counter, creating it with the window's
	// expiry on first use, and returns the post-increment count along with the
	// time left until the counter expires.
	Increment(ctx context.Context, key string, window time.Duration) (count int64, expiresIn time.Duration, err error)
}

// RateLimitUseCase decides whether a request may proceed under its quota.
type RateLimitUseCase interface {
	// TryAcquire counts the request against the (clientKey, endpoint) window
	// for the given limit type and reports whether it is admitted, the quota
	// left, and when the window resets. A request over quota is rejected with
	// Allowed=false and Remaining=0; no error is returned for that case.
	TryAcquire(
		ctx context.Context,
		clientKey, endpoint string,
		limitType rateLimitDomain.LimitType,
	) (*rateLimitDomain.Result, error)
}
