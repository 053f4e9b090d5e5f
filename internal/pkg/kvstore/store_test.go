package kvstore

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testStoreContract exercises behavior every Store must share.
func testStoreContract(t *testing.T, s Store) {
	t.Helper()
	ctx := context.Background()

	t.Run("incr creates then increments", func(t *testing.T) {
		n, err := s.Incr(ctx, "c:incr")
		require.NoError(t, err)
		assert.Equal(t, int64(1), n)

		n, err = s.Incr(ctx, "c:incr")
		require.NoError(t, err)
		assert.Equal(t, int64(2), n)
	})

	t.Run("ttl reports missing expiry", func(t *testing.T) {
		_, err := s.Incr(ctx, "c:noexp")
		require.NoError(t, err)

		_, ok, err := s.TTL(ctx, "c:noexp")
		require.NoError(t, err)
		assert.False(t, ok)

		_, ok, err = s.TTL(ctx, "c:absent")
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("expire attaches ttl", func(t *testing.T) {
		_, err := s.Incr(ctx, "c:exp")
		require.NoError(t, err)

		set, err := s.Expire(ctx, "c:exp", time.Minute)
		require.NoError(t, err)
		assert.True(t, set)

		ttl, ok, err := s.TTL(ctx, "c:exp")
		require.NoError(t, err)
		assert.True(t, ok)
		assert.LessOrEqual(t, ttl, time.Minute)
		assert.Greater(t, ttl, 50*time.Second)

		set, err = s.Expire(ctx, "c:exp-absent", time.Minute)
		require.NoError(t, err)
		assert.False(t, set)
	})

	t.Run("get returns ErrNil when absent", func(t *testing.T) {
		_, err := s.Get(ctx, "c:get-absent")
		assert.ErrorIs(t, err, ErrNil)

		require.NoError(t, s.SetEX(ctx, "c:get", "000042", time.Minute))
		v, err := s.Get(ctx, "c:get")
		require.NoError(t, err)
		assert.Equal(t, "000042", v)
	})

	t.Run("setnx only when absent", func(t *testing.T) {
		ok, err := s.SetNX(ctx, "c:nx", "1", time.Minute)
		require.NoError(t, err)
		assert.True(t, ok)

		ok, err = s.SetNX(ctx, "c:nx", "2", time.Minute)
		require.NoError(t, err)
		assert.False(t, ok)

		v, err := s.Get(ctx, "c:nx")
		require.NoError(t, err)
		assert.Equal(t, "1", v)
	})

	t.Run("del counts removed keys", func(t *testing.T) {
		require.NoError(t, s.SetEX(ctx, "c:del1", "x", time.Minute))
		require.NoError(t, s.SetEX(ctx, "c:del2", "y", time.Minute))

		n, err := s.Del(ctx, "c:del1", "c:del2", "c:del3")
		require.NoError(t, err)
		assert.Equal(t, int64(2), n)

		n, err = s.Del(ctx, "c:del1")
		require.NoError(t, err)
		assert.Zero(t, n)

		exists, err := s.Exists(ctx, "c:del2")
		require.NoError(t, err)
		assert.False(t, exists)
	})

	t.Run("ping", func(t *testing.T) {
		assert.NoError(t, s.Ping(ctx))
	})
}
