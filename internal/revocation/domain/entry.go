// Package domain defines the token revocation model. Revoked token
// identifiers (JTIs) are tracked until the token they guard would have
// expired anyway, then garbage-collected.
package domain

import "time"

// Entry records one revoked token identifier.
//
// ExpiresAt must equal the original token's expiry: the entry may never be
// evicted before it (a revoked token would look valid again) and never
// outlive it (the token is dead regardless).
type Entry struct {
	// JTI is the unique identifier of the revoked token instance.
	JTI string
	// RevokedAt is when the revocation was recorded.
	RevokedAt time.Time
	// ExpiresAt is the original token's expiry and the entry's eviction time.
	ExpiresAt time.Time
}

// Expired reports whether the entry is past its eviction time.
func (e *Entry) Expired(now time.Time) bool {
	return !now.Before(e.ExpiresAt)
}
