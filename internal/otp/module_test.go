package otp

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/shandysiswandi/mailotp/internal/otp/entity"
	"github.com/shandysiswandi/mailotp/internal/pkg/clock"
	"github.com/shandysiswandi/mailotp/internal/pkg/config"
	"github.com/shandysiswandi/mailotp/internal/pkg/goroutine"
	"github.com/shandysiswandi/mailotp/internal/pkg/instrument"
	"github.com/shandysiswandi/mailotp/internal/pkg/kvstore"
	"github.com/shandysiswandi/mailotp/internal/pkg/mail"
	"github.com/shandysiswandi/mailotp/internal/pkg/messaging"
	pkgotp "github.com/shandysiswandi/mailotp/internal/pkg/otp"
	"github.com/shandysiswandi/mailotp/internal/pkg/router"
	"github.com/shandysiswandi/mailotp/internal/pkg/uid"
	"github.com/shandysiswandi/mailotp/internal/pkg/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type captureMail struct {
	mu   sync.Mutex
	sent []mail.Message
}

func (c *captureMail) Send(_ context.Context, msg mail.Message) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sent = append(c.sent, msg)
	return nil
}

func (c *captureMail) Close() error { return nil }

func (c *captureMail) lastCode(t *testing.T) string {
	t.Helper()
	c.mu.Lock()
	defer c.mu.Unlock()
	require.NotEmpty(t, c.sent)

	_, rest, ok := strings.Cut(c.sent[len(c.sent)-1].TextBody, "is: ")
	require.True(t, ok)
	code, _, ok := strings.Cut(rest, ".")
	require.True(t, ok)
	return code
}

const moduleConfig = `
modules:
  otp:
    code_length: 4
    ttl_seconds: 120
    max_per_minute: 3
    cooldown_seconds: 10
    max_attempts: 2
messaging:
  retry:
    max_retries: 1
    base_delay_ms: 1
`

func TestPolicyFromConfig(t *testing.T) {
	cfg, err := config.NewViperFromBytes("yaml", []byte(moduleConfig))
	require.NoError(t, err)

	assert.Equal(t, entity.Policy{
		CodeLength:   4,
		TTL:          120 * time.Second,
		MaxPerWindow: 3,
		Cooldown:     10 * time.Second,
		MaxAttempts:  2,
	}, PolicyFromConfig(cfg))

	empty, err := config.NewViperFromBytes("yaml", []byte("app: {}"))
	require.NoError(t, err)
	assert.Equal(t, entity.DefaultPolicy(), PolicyFromConfig(empty))
}

func TestNew(t *testing.T) {
	v, err := validator.NewV10Validator()
	require.NoError(t, err)

	t.Run("missing dependencies", func(t *testing.T) {
		err := New(context.Background(), Dependency{Validator: v})
		assert.Error(t, err)
	})

	t.Run("send then verify over http", func(t *testing.T) {
		cfg, err := config.NewViperFromBytes("yaml", []byte(moduleConfig))
		require.NoError(t, err)

		sf, err := uid.NewSnowflake(1)
		require.NoError(t, err)

		clk := clock.NewFake(time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC))
		mailer := &captureMail{}
		gm := goroutine.NewManager(4)
		r := router.NewRouter(router.Config{Config: cfg, Instrument: instrument.NewNoop()})

		err = New(context.Background(), Dependency{
			Store:      kvstore.NewMemory(clk),
			Mail:       mailer,
			Messaging:  messaging.NewNoop(),
			Goroutine:  gm,
			Router:     r,
			Config:     cfg,
			Instrument: instrument.NewNoop(),
			UID:        sf,
			Clock:      clk,
			Generator:  pkgotp.NewNumeric(),
			Validator:  v,
		})
		require.NoError(t, err)

		post := func(path, body string) int {
			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, path, strings.NewReader(body)))
			return rec.Code
		}

		assert.Equal(t, http.StatusOK, post("/api/v1/otp/send", `{"email":"User@Example.com"}`))
		code := mailer.lastCode(t)
		assert.Len(t, code, 4)

		assert.Equal(t, http.StatusTooManyRequests, post("/api/v1/otp/send", `{"email":"user@example.com"}`))
		assert.Equal(t, http.StatusOK, post("/api/v1/otp/verify", `{"email":"user@example.com","otp":"`+code+`"}`))
		assert.Equal(t, http.StatusNotFound, post("/api/v1/otp/verify", `{"email":"user@example.com","otp":"`+code+`"}`))

		require.NoError(t, gm.Wait())
	})
}
