// Package usecase defines business logic for token revocation.
package usecase

import (
	"context"
	"time"

	revocationDomain "github.com/ryuqq/authhub/internal/revocation/domain"
)

// RevocationRepository defines the shared revocation store.
// Implementations guarantee an entry stays queryable until exactly its
// ExpiresAt: no premature eviction, no immortal entries. A store that cannot
// be reached within its deadline returns ErrStoreUnavailable.
type RevocationRepository interface {
	// Revoke stores an entry. Revoking an already-revoked JTI is a no-op success.
	Revoke(ctx context.Context, entry *revocationDomain.Entry) error

	// IsRevoked answers the membership query in O(1) expected time.
	IsRevoked(ctx context.Context, jti string) (bool, error)
}

// RevocationUseCase manages the revocation list.
type RevocationUseCase interface {
	// Revoke marks a token identifier revoked until expiresAt. Idempotent;
	// revoking an already-expired token is a no-op success.
	Revoke(ctx context.Context, jti string, expiresAt time.Time) error

	// IsRevoked reports whether the JTI is on the revocation list.
	IsRevoked(ctx context.Context, jti string) (bool, error)
}
