// Package repository implements fixed-window counter stores.
//
// The Redis implementation is shared across service replicas; the in-memory
// implementation serves single-node deployments and tests.
package repository

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	apperrors "github.com/ryuqq/authhub/internal/errors"
)

// RedisCounterRepository implements CounterRepository on Redis INCR counters.
// Counters are created with the window's TTL on first increment, so a window
// expires exactly windowSeconds after its first request.
type RedisCounterRepository struct {
	client  *redis.Client
	timeout time.Duration
}

// NewRedisCounterRepository creates a Redis-backed counter repository.
// Every call is bounded by timeout; exceeding it reports ErrStoreUnavailable.
func NewRedisCounterRepository(client *redis.Client, timeout time.Duration) *RedisCounterRepository {
	return &RedisCounterRepository{
		client:  client,
		timeout: timeout,
	}
}

// Increment atomically increments the key's counter and returns the
// post-increment count with the time left until the window expires.
func (r *RedisCounterRepository) Increment(
	ctx context.Context,
	key string,
	window time.Duration,
) (int64, time.Duration, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	count, err := r.client.Incr(ctx, key).Result()
	if err != nil {
		return 0, 0, apperrors.Wrap(apperrors.ErrStoreUnavailable, err.Error())
	}

	// First request of a new window: attach the expiry.
	if count == 1 {
		if err := r.client.Expire(ctx, key, window).Err(); err != nil {
			return 0, 0, apperrors.Wrap(apperrors.ErrStoreUnavailable, err.Error())
		}
		return count, window, nil
	}

	expiresIn, err := r.client.TTL(ctx, key).Result()
	if err != nil {
		return 0, 0, apperrors.Wrap(apperrors.ErrStoreUnavailable, err.Error())
	}
	// A counter without TTL (expiry lost between INCR and EXPIRE of the first
	// request) is repaired rather than left immortal.
	if expiresIn < 0 {
		if err := r.client.Expire(ctx, key, window).Err(); err != nil {
			return 0, 0, apperrors.Wrap(apperrors.ErrStoreUnavailable, err.Error())
		}
		expiresIn = window
	}

	return count, expiresIn, nil
}
