package cache

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/shandysiswandi/mailotp/internal/otp/entity"
	"github.com/shandysiswandi/mailotp/internal/pkg/goerror"
	"github.com/shandysiswandi/mailotp/internal/pkg/instrument"
	"github.com/shandysiswandi/mailotp/internal/pkg/kvstore"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const cooldownMarker = "1"

// Cache maps OTP state onto key-value primitives. Emails must already be normalized.
type Cache struct {
	store kvstore.Store
	ins   instrument.Instrumentation
}

func New(store kvstore.Store, ins instrument.Instrumentation) *Cache {
	return &Cache{store: store, ins: ins}
}

func (c *Cache) startSpan(ctx context.Context, name, key string) (context.Context, trace.Span) {
	return c.ins.Tracer("otp.outbound.cache").Start(ctx, name, trace.WithAttributes(attribute.String("db.key", key)))
}

func (c *Cache) endSpan(span trace.Span, err error) {
	if err != nil && !errors.Is(err, goerror.ErrNotFound) {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}

func (c *Cache) IncrRequestCount(ctx context.Context, email string) (n int64, err error) {
	key := entity.CountKey(email)
	ctx, span := c.startSpan(ctx, "IncrRequestCount", key)
	defer func() { c.endSpan(span, err) }()

	return c.store.Incr(ctx, key)
}

func (c *Cache) ExpireRequestCount(ctx context.Context, email string, ttl time.Duration) (err error) {
	key := entity.CountKey(email)
	ctx, span := c.startSpan(ctx, "ExpireRequestCount", key)
	defer func() { c.endSpan(span, err) }()

	_, err = c.store.Expire(ctx, key, ttl)
	return err
}

func (c *Cache) RequestCountTTL(ctx context.Context, email string) (ttl time.Duration, ok bool, err error) {
	key := entity.CountKey(email)
	ctx, span := c.startSpan(ctx, "RequestCountTTL", key)
	defer func() { c.endSpan(span, err) }()

	return c.store.TTL(ctx, key)
}

// AcquireCooldown sets the cooldown marker only if none exists.
func (c *Cache) AcquireCooldown(ctx context.Context, email string, ttl time.Duration) (ok bool, err error) {
	key := entity.CooldownKey(email)
	ctx, span := c.startSpan(ctx, "AcquireCooldown", key)
	defer func() { c.endSpan(span, err) }()

	return c.store.SetNX(ctx, key, cooldownMarker, ttl)
}

func (c *Cache) CooldownTTL(ctx context.Context, email string) (ttl time.Duration, ok bool, err error) {
	key := entity.CooldownKey(email)
	ctx, span := c.startSpan(ctx, "CooldownTTL", key)
	defer func() { c.endSpan(span, err) }()

	return c.store.TTL(ctx, key)
}

// SetCooldown restarts the cooldown window.
func (c *Cache) SetCooldown(ctx context.Context, email string, ttl time.Duration) (err error) {
	key := entity.CooldownKey(email)
	ctx, span := c.startSpan(ctx, "SetCooldown", key)
	defer func() { c.endSpan(span, err) }()

	return c.store.SetEX(ctx, key, cooldownMarker, ttl)
}

func (c *Cache) ReleaseCooldown(ctx context.Context, email string) (err error) {
	key := entity.CooldownKey(email)
	ctx, span := c.startSpan(ctx, "ReleaseCooldown", key)
	defer func() { c.endSpan(span, err) }()

	_, err = c.store.Del(ctx, key)
	return err
}

// GetCode returns goerror.ErrNotFound when no code is active.
func (c *Cache) GetCode(ctx context.Context, email string) (code string, err error) {
	key := entity.CodeKey(email)
	ctx, span := c.startSpan(ctx, "GetCode", key)
	defer func() { c.endSpan(span, err) }()

	code, err = c.store.Get(ctx, key)
	if errors.Is(err, kvstore.ErrNil) {
		return "", goerror.ErrNotFound
	}
	return code, err
}

func (c *Cache) SetCode(ctx context.Context, email, code string, ttl time.Duration) (err error) {
	key := entity.CodeKey(email)
	ctx, span := c.startSpan(ctx, "SetCode", key)
	defer func() { c.endSpan(span, err) }()

	return c.store.SetEX(ctx, key, code, ttl)
}

func (c *Cache) CodeTTL(ctx context.Context, email string) (ttl time.Duration, ok bool, err error) {
	key := entity.CodeKey(email)
	ctx, span := c.startSpan(ctx, "CodeTTL", key)
	defer func() { c.endSpan(span, err) }()

	return c.store.TTL(ctx, key)
}

// DeleteCode reports whether this call removed the code.
func (c *Cache) DeleteCode(ctx context.Context, email string) (deleted bool, err error) {
	key := entity.CodeKey(email)
	ctx, span := c.startSpan(ctx, "DeleteCode", key)
	defer func() { c.endSpan(span, err) }()

	n, err := c.store.Del(ctx, key)
	return n == 1, err
}

// GetAttempts returns 0 when no failed attempt was recorded.
func (c *Cache) GetAttempts(ctx context.Context, email string) (n int64, err error) {
	key := entity.AttemptKey(email)
	ctx, span := c.startSpan(ctx, "GetAttempts", key)
	defer func() { c.endSpan(span, err) }()

	raw, err := c.store.Get(ctx, key)
	if errors.Is(err, kvstore.ErrNil) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return strconv.ParseInt(raw, 10, 64)
}

func (c *Cache) IncrAttempts(ctx context.Context, email string) (n int64, err error) {
	key := entity.AttemptKey(email)
	ctx, span := c.startSpan(ctx, "IncrAttempts", key)
	defer func() { c.endSpan(span, err) }()

	return c.store.Incr(ctx, key)
}

func (c *Cache) ExpireAttempts(ctx context.Context, email string, ttl time.Duration) (err error) {
	key := entity.AttemptKey(email)
	ctx, span := c.startSpan(ctx, "ExpireAttempts", key)
	defer func() { c.endSpan(span, err) }()

	_, err = c.store.Expire(ctx, key, ttl)
	return err
}

func (c *Cache) DeleteAttempts(ctx context.Context, email string) (err error) {
	key := entity.AttemptKey(email)
	ctx, span := c.startSpan(ctx, "DeleteAttempts", key)
	defer func() { c.endSpan(span, err) }()

	_, err = c.store.Del(ctx, key)
	return err
}
