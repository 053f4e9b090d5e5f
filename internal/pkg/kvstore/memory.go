package kvstore

import (
	"context"
	"errors"
	"strconv"
	"sync"
	"time"

	"github.com/shandysiswandi/mailotp/internal/pkg/clock"
)

// ErrNotInteger is returned by Incr when the stored value is not an integer.
var ErrNotInteger = errors.New("kvstore: value is not an integer")

type memoryItem struct {
	value     string
	expiresAt time.Time // zero means no expiry
}

// Memory is a process-local Store. Expired keys are dropped lazily on access.
type Memory struct {
	mu    sync.Mutex
	clock clock.Clocker
	items map[string]memoryItem
}

// NewMemory returns an empty Memory store reading time from c.
func NewMemory(c clock.Clocker) *Memory {
	if c == nil {
		c = clock.New()
	}
	return &Memory{clock: c, items: make(map[string]memoryItem)}
}

// lookup must be called with mu held.
func (m *Memory) lookup(key string) (memoryItem, bool) {
	item, ok := m.items[key]
	if !ok {
		return memoryItem{}, false
	}
	if !item.expiresAt.IsZero() && !m.clock.Now().Before(item.expiresAt) {
		delete(m.items, key)
		return memoryItem{}, false
	}
	return item, true
}

func (m *Memory) Incr(ctx context.Context, key string) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	item, ok := m.lookup(key)
	var n int64
	if ok {
		v, err := strconv.ParseInt(item.value, 10, 64)
		if err != nil {
			return 0, ErrNotInteger
		}
		n = v
	}
	n++
	item.value = strconv.FormatInt(n, 10)
	m.items[key] = item
	return n, nil
}

func (m *Memory) Expire(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	item, ok := m.lookup(key)
	if !ok {
		return false, nil
	}
	if ttl <= 0 {
		delete(m.items, key)
		return true, nil
	}
	item.expiresAt = m.clock.Now().Add(ttl)
	m.items[key] = item
	return true, nil
}

func (m *Memory) TTL(ctx context.Context, key string) (time.Duration, bool, error) {
	if err := ctx.Err(); err != nil {
		return 0, false, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	item, ok := m.lookup(key)
	if !ok || item.expiresAt.IsZero() {
		return 0, false, nil
	}
	return item.expiresAt.Sub(m.clock.Now()), true, nil
}

func (m *Memory) Exists(ctx context.Context, key string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	_, ok := m.lookup(key)
	return ok, nil
}

func (m *Memory) Get(ctx context.Context, key string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	item, ok := m.lookup(key)
	if !ok {
		return "", ErrNil
	}
	return item.value, nil
}

func (m *Memory) SetEX(ctx context.Context, key, value string, ttl time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	m.items[key] = m.newItem(value, ttl)
	return nil
}

func (m *Memory) SetNX(ctx context.Context, key, value string, ttl time.Duration) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.lookup(key); ok {
		return false, nil
	}
	m.items[key] = m.newItem(value, ttl)
	return true, nil
}

func (m *Memory) Del(ctx context.Context, keys ...string) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	var n int64
	for _, key := range keys {
		if _, ok := m.lookup(key); ok {
			delete(m.items, key)
			n++
		}
	}
	return n, nil
}

func (m *Memory) Ping(ctx context.Context) error {
	return ctx.Err()
}

func (m *Memory) Close() error {
	m.mu.Lock()
	m.items = make(map[string]memoryItem)
	m.mu.Unlock()
	return nil
}

func (m *Memory) newItem(value string, ttl time.Duration) memoryItem {
	item := memoryItem{value: value}
	if ttl > 0 {
		item.expiresAt = m.clock.Now().Add(ttl)
	}
	return item
}
