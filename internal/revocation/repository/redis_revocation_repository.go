// Package repository implements revocation stores.
//
// The Redis implementation is shared across service replicas and relies on
// native per-key TTL for eviction; the in-memory implementation runs its own
// background sweep and serves single-node deployments and tests.
package repository

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	apperrors "github.com/ryuqq/authhub/internal/errors"
	revocationDomain "github.com/ryuqq/authhub/internal/revocation/domain"
)

// revocationKeyPrefix namespaces revocation entries in Redis.
const revocationKeyPrefix = "revoked:"

// RedisRevocationRepository implements RevocationRepository on Redis keys with
// native per-entry TTL, so an entry disappears exactly when the token it
// guards would have expired.
type RedisRevocationRepository struct {
	client  *redis.Client
	timeout time.Duration
}

// NewRedisRevocationRepository creates a Redis-backed revocation repository.
// Every call is bounded by timeout; exceeding it reports ErrStoreUnavailable.
func NewRedisRevocationRepository(client *redis.Client, timeout time.Duration) *RedisRevocationRepository {
	return &RedisRevocationRepository{
		client:  client,
		timeout: timeout,
	}
}

// Revoke stores the entry with a TTL matching the token's remaining lifetime.
// SET is idempotent: re-revoking refreshes the same key with the same expiry.
func (r *RedisRevocationRepository) Revoke(
	ctx context.Context,
	entry *revocationDomain.Entry,
) error {
	ttl := time.Until(entry.ExpiresAt)
	if ttl <= 0 {
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	err := r.client.Set(ctx, revocationKeyPrefix+entry.JTI, entry.RevokedAt.Unix(), ttl).Err()
	if err != nil {
		return apperrors.Wrap(apperrors.ErrStoreUnavailable, err.Error())
	}
	return nil
}

// IsRevoked checks key existence, O(1) in Redis.
func (r *RedisRevocationRepository) IsRevoked(ctx context.Context, jti string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	exists, err := r.client.Exists(ctx, revocationKeyPrefix+jti).Result()
	if err != nil {
		return false, apperrors.Wrap(apperrors.ErrStoreUnavailable, err.Error())
	}
	return exists > 0, nil
}
