package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryRunLock_Acquire(t *testing.T) {
	t.Run("first acquire wins", func(t *testing.T) {
		lock := NewMemoryRunLock()

		ok, err := lock.Acquire(context.Background(), "report:123", time.Minute)
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("second acquire on a held key loses", func(t *testing.T) {
		lock := NewMemoryRunLock()

		ok, err := lock.Acquire(context.Background(), "report:123", time.Minute)
		require.NoError(t, err)
		require.True(t, ok)

		ok, err = lock.Acquire(context.Background(), "report:123", time.Minute)
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("different keys do not contend", func(t *testing.T) {
		lock := NewMemoryRunLock()

		ok, err := lock.Acquire(context.Background(), "report:123", time.Minute)
		require.NoError(t, err)
		require.True(t, ok)

		ok, err = lock.Acquire(context.Background(), "report:456", time.Minute)
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("expired hold can be retaken", func(t *testing.T) {
		lock := NewMemoryRunLock()
		now := time.Now()
		lock.clock = func() time.Time { return now }

		ok, err := lock.Acquire(context.Background(), "report:123", time.Minute)
		require.NoError(t, err)
		require.True(t, ok)

		lock.clock = func() time.Time { return now.Add(2 * time.Minute) }

		ok, err = lock.Acquire(context.Background(), "report:123", time.Minute)
		require.NoError(t, err)
		assert.True(t, ok)
	})
}

func TestMemoryRunLock_Release(t *testing.T) {
	t.Run("released key can be acquired again", func(t *testing.T) {
		lock := NewMemoryRunLock()

		ok, err := lock.Acquire(context.Background(), "report:123", time.Minute)
		require.NoError(t, err)
		require.True(t, ok)

		require.NoError(t, lock.Release(context.Background(), "report:123"))

		ok, err = lock.Acquire(context.Background(), "report:123", time.Minute)
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("releasing an unheld key is not an error", func(t *testing.T) {
		lock := NewMemoryRunLock()
		assert.NoError(t, lock.Release(context.Background(), "report:999"))
	})
}
