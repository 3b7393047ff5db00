package repository

import (
	"context"
	"sync"
	"time"
)

// counterWindow is one in-memory fixed window.
type counterWindow struct {
	count     int64
	expiresAt time.Time
}

// MemoryCounterRepository implements CounterRepository with an in-process map.
// Suitable for tests and single-node deployments; counters are not shared
// across replicas.
type MemoryCounterRepository struct {
	mu      sync.Mutex
	windows map[string]*counterWindow
}

// NewMemoryCounterRepository creates an in-memory counter repository.
func NewMemoryCounterRepository() *MemoryCounterRepository {
	return &MemoryCounterRepository{
		windows: make(map[string]*counterWindow),
	}
}

// Increment adds one to the key's counter under a single lock, which makes
// concurrent increments linearizable.
func (m *MemoryCounterRepository) Increment(
	ctx context.Context,
	key string,
	window time.Duration,
) (int64, time.Duration, error) {
	now := time.Now()

	m.mu.Lock()
	defer m.mu.Unlock()

	current, ok := m.windows[key]
	if !ok || !now.Before(current.expiresAt) {
		current = &counterWindow{expiresAt: now.Add(window)}
		m.windows[key] = current
	}
	current.count++

	return current.count, current.expiresAt.Sub(now), nil
}

// Len returns the number of live windows, expired ones included until reuse.
func (m *MemoryCounterRepository) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.windows)
}
