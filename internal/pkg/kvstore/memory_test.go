package kvstore

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/shandysiswandi/mailotp/internal/pkg/clock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestMemory() (*Memory, *clock.Fake) {
	fc := clock.NewFake(time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC))
	return NewMemory(fc), fc
}

func TestMemory_Contract(t *testing.T) {
	m, _ := newTestMemory()
	testStoreContract(t, m)
}

func TestMemory_Expiry(t *testing.T) {
	ctx := context.Background()
	m, fc := newTestMemory()

	require.NoError(t, m.SetEX(ctx, "k", "v", 30*time.Second))

	fc.Advance(29 * time.Second)
	ttl, ok, err := m.TTL(ctx, "k")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, time.Second, ttl)

	fc.Advance(time.Second)
	_, err = m.Get(ctx, "k")
	assert.ErrorIs(t, err, ErrNil)

	ok, err = m.SetNX(ctx, "k", "again", time.Second)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestMemory_IncrKeepsExpiry(t *testing.T) {
	ctx := context.Background()
	m, fc := newTestMemory()

	_, err := m.Incr(ctx, "count")
	require.NoError(t, err)
	_, err = m.Expire(ctx, "count", time.Minute)
	require.NoError(t, err)

	fc.Advance(40 * time.Second)
	n, err := m.Incr(ctx, "count")
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	ttl, ok, err := m.TTL(ctx, "count")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 20*time.Second, ttl)

	fc.Advance(20 * time.Second)
	n, err = m.Incr(ctx, "count")
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestMemory_IncrNotInteger(t *testing.T) {
	ctx := context.Background()
	m, _ := newTestMemory()

	require.NoError(t, m.SetEX(ctx, "code", "abc", 0))
	_, err := m.Incr(ctx, "code")
	assert.ErrorIs(t, err, ErrNotInteger)
}

func TestMemory_SetNXConcurrent(t *testing.T) {
	ctx := context.Background()
	m, _ := newTestMemory()

	var (
		wg  sync.WaitGroup
		mu  sync.Mutex
		won int
	)
	for range 50 {
		wg.Go(func() {
			ok, err := m.SetNX(ctx, "cooldown", "1", time.Minute)
			if err == nil && ok {
				mu.Lock()
				won++
				mu.Unlock()
			}
		})
	}
	wg.Wait()

	assert.Equal(t, 1, won)
}

func TestMemory_CanceledContext(t *testing.T) {
	m, _ := newTestMemory()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := m.Incr(ctx, "k")
	assert.ErrorIs(t, err, context.Canceled)
	assert.ErrorIs(t, m.Ping(ctx), context.Canceled)
}

func TestNewFromDriver(t *testing.T) {
	s, err := NewFromDriver(context.Background(), "memory", FactoryOptions{})
	require.NoError(t, err)
	assert.IsType(t, &Memory{}, s)
	assert.NoError(t, s.Close())

	_, err = NewFromDriver(context.Background(), "etcd", FactoryOptions{})
	assert.ErrorIs(t, err, ErrUnknownDriver)

	_, err = NewFromDriver(context.Background(), "redis", FactoryOptions{})
	assert.ErrorIs(t, err, ErrRedisURLRequired)
}
