package repository

import (
	"context"
	"sync"
	"time"

	revocationDomain "github.com/ryuqq/authhub/internal/revocation/domain"
)

// MemoryRevocationRepository implements RevocationRepository with an
// in-process map and a background sweep. IsRevoked also checks entry expiry
// directly, so an expired entry is never reported revoked even between sweeps.
type MemoryRevocationRepository struct {
	mu      sync.RWMutex
	entries map[string]time.Time

	stopOnce sync.Once
	stop     chan struct{}
	done     chan struct{}
}

// NewMemoryRevocationRepository creates an in-memory revocation repository and
// starts its eviction sweep. Call Close to stop the sweep goroutine.
func NewMemoryRevocationRepository(sweepInterval time.Duration) *MemoryRevocationRepository {
	m := &MemoryRevocationRepository{
		entries: make(map[string]time.Time),
		stop:    make(chan struct{}),
		done:    make(chan struct{}),
	}
	go m.sweep(sweepInterval)
	return m
}

// Revoke stores the entry's expiry, keyed by JTI. Idempotent.
func (m *MemoryRevocationRepository) Revoke(
	_ context.Context,
	entry *revocationDomain.Entry,
) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[entry.JTI] = entry.ExpiresAt
	return nil
}

// IsRevoked reports membership, treating expired entries as absent.
func (m *MemoryRevocationRepository) IsRevoked(_ context.Context, jti string) (bool, error) {
	m.mu.RLock()
	expiresAt, ok := m.entries[jti]
	m.mu.RUnlock()

	return ok && time.Now().Before(expiresAt), nil
}

// Close stops the background sweep. Safe to call more than once.
func (m *MemoryRevocationRepository) Close() {
	m.stopOnce.Do(func() {
		close(m.stop)
	})
	<-m.done
}

// sweep evicts expired entries periodically.
func (m *MemoryRevocationRepository) sweep(interval time.Duration) {
	defer close(m.done)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-m.stop:
			return
		case <-ticker.C:
			now := time.Now()
			m.mu.Lock()
			for jti, expiresAt := range m.entries {
				if !now.Before(expiresAt) {
					delete(m.entries, jti)
				}
			}
			m.mu.Unlock()
		}
	}
}
