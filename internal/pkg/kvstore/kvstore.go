package kvstore

import (
	"context"
	"errors"
	"io"
	"time"
)

// ErrNil is returned by Get when the key does not exist.
var ErrNil = errors.New("kvstore: nil")

// Store is the subset of key-value primitives the service relies on.
//
// Every single-key operation must be atomic. No cross-key transaction is
// implied.
type Store interface {
	io.Closer

	// Incr increments the integer at key, creating it at 1 when absent.
	Incr(ctx context.Context, key string) (int64, error)
	// Expire attaches or overwrites the time-to-live of an existing key.
	// It reports false when the key does not exist.
	Expire(ctx context.Context, key string, ttl time.Duration) (bool, error)
	// TTL returns the remaining time-to-live. ok is false when the key is
	// absent or has no expiry attached.
	TTL(ctx context.Context, key string) (ttl time.Duration, ok bool, err error)
	Exists(ctx context.Context, key string) (bool, error)
	// Get returns ErrNil when the key does not exist.
	Get(ctx context.Context, key string) (string, error)
	SetEX(ctx context.Context, key, value string, ttl time.Duration) error
	// SetNX stores value with ttl only when key is absent and reports
	// whether it did.
	SetNX(ctx context.Context, key, value string, ttl time.Duration) (bool, error)
	// Del removes keys and returns how many existed.
	Del(ctx context.Context, keys ...string) (int64, error)
	Ping(ctx context.Context) error
}
