package errors

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWrap(t *testing.T) {
	t.Run("wraps error with context", func(t *testing.T) {
		wrapped := Wrap(ErrNotFound, "failed to load policy")
		require.Error(t, wrapped)
		assert.True(t, Is(wrapped, ErrNotFound))
		assert.Equal(t, "failed to load policy: not found", wrapped.Error())
	})

	t.Run("nil error returns nil", func(t *testing.T) {
		assert.NoError(t, Wrap(nil, "context"))
	})

	t.Run("preserves chain across layers", func(t *testing.T) {
		inner := Wrap(ErrStoreUnavailable, "redis ping")
		outer := Wrap(inner, "revocation check")
		assert.True(t, Is(outer, ErrStoreUnavailable))
	})
}

func TestIs(t *testing.T) {
	err := fmt.Errorf("outer: %w", ErrTokenRevoked)
	assert.True(t, Is(err, ErrTokenRevoked))
	assert.False(t, Is(err, ErrTooManyRequests))
}

func TestSentinelsAreDistinct(t *testing.T) {
	sentinels := []error{
		ErrNotFound, ErrConflict, ErrInvalidInput, ErrUnauthorized,
		ErrForbidden, ErrTokenRevoked, ErrTooManyRequests, ErrStoreUnavailable,
	}
	for i, a := range sentinels {
		for j, b := range sentinels {
			if i == j {
				continue
			}
			assert.False(t, Is(a, b), "%v should not match %v", a, b)
		}
	}
}
