package repository

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryCounterRepository_Increment(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryCounterRepository()

	count, expiresIn, err := repo.Increment(ctx, "key", time.Minute)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
	assert.Greater(t, expiresIn, 59*time.Second)

	count, _, err = repo.Increment(ctx, "key", time.Minute)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
}

func TestMemoryCounterRepository_IndependentKeys(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryCounterRepository()

	for range 5 {
		_, _, err := repo.Increment(ctx, "a", time.Minute)
		require.NoError(t, err)
	}
	count, _, err := repo.Increment(ctx, "b", time.Minute)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
	assert.Equal(t, 2, repo.Len())
}

func TestMemoryCounterRepository_WindowReset(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryCounterRepository()

	count, _, err := repo.Increment(ctx, "key", 10*time.Millisecond)
	require.NoError(t, err)
	require.Equal(t, int64(1), count)

	time.Sleep(20 * time.Millisecond)

	count, expiresIn, err := repo.Increment(ctx, "key", 10*time.Millisecond)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
	assert.LessOrEqual(t, expiresIn, 10*time.Millisecond)
}

// The admission property: under concurrent callers on one key, at most
// `limit` increments observe a count within the quota.
func TestMemoryCounterRepository_ConcurrentAdmissionNeverExceedsLimit(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryCounterRepository()

	const limit = int64(100)
	const callers = 250

	var admitted atomic.Int64
	var wg sync.WaitGroup
	wg.Add(callers)

	for range callers {
		go func() {
			defer wg.Done()
			count, _, err := repo.Increment(ctx, "shared", time.Minute)
			if err == nil && count <= limit {
				admitted.Add(1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, limit, admitted.Load())
}
