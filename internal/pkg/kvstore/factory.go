package kvstore

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/shandysiswandi/mailotp/internal/pkg/clock"
)

const (
	// DriverRedis selects the Redis backend.
	DriverRedis = "redis"
	// DriverMemory selects the in-process backend.
	DriverMemory = "memory"
)

var (
	// ErrUnknownDriver indicates an unsupported store driver.
	ErrUnknownDriver = errors.New("kvstore: unknown driver")
	// ErrRedisURLRequired is returned when the redis driver has no URL.
	ErrRedisURLRequired = errors.New("kvstore: redis url is required")
)

// RedisOptions configures the Redis driver.
type RedisOptions struct {
	// URL is a redis:// or rediss:// connection string.
	URL string
	// PingTimeout bounds the connectivity check done on construction.
	PingTimeout time.Duration
}

// FactoryOptions groups config for supported store backends.
type FactoryOptions struct {
	Redis RedisOptions
	Clock clock.Clocker
}

// NewFromDriver constructs a Store by driver name.
func NewFromDriver(ctx context.Context, driver string, opts FactoryOptions) (Store, error) {
	switch strings.TrimSpace(driver) {
	case DriverRedis:
		return newRedisFromURL(ctx, opts.Redis)
	case DriverMemory:
		return NewMemory(opts.Clock), nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownDriver, driver)
	}
}

func newRedisFromURL(ctx context.Context, opts RedisOptions) (*Redis, error) {
	if strings.TrimSpace(opts.URL) == "" {
		return nil, ErrRedisURLRequired
	}

	ropt, err := redis.ParseURL(opts.URL)
	if err != nil {
		return nil, fmt.Errorf("kvstore: parse redis url: %w", err)
	}

	client := redis.NewClient(ropt)

	timeout := opts.PingTimeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	pingCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		return nil, errors.Join(fmt.Errorf("kvstore: ping redis: %w", err), client.Close())
	}

	return NewRedis(client), nil
}
