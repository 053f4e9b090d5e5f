package app

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shandysiswandi/mailotp/internal/pkg/clock"
	"github.com/shandysiswandi/mailotp/internal/pkg/goerror"
	"github.com/shandysiswandi/mailotp/internal/pkg/instrument"
	"github.com/shandysiswandi/mailotp/internal/pkg/kvstore"
	"github.com/shandysiswandi/mailotp/internal/pkg/router"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type pingFunc func(ctx context.Context) error

func (f pingFunc) Ping(ctx context.Context) error { return f(ctx) }

func TestCheckHealth(t *testing.T) {
	up := pingFunc(func(context.Context) error { return nil })
	down := pingFunc(func(context.Context) error { return errors.New("connection refused") })

	t.Run("all up", func(t *testing.T) {
		resp, err := checkHealth(context.Background(), map[string]pinger{"kvstore": up, "database": up})
		require.NoError(t, err)
		assert.Equal(t, healthResponse{Checks: map[string]string{"kvstore": "up", "database": "up"}}, resp)
	})

	t.Run("one down", func(t *testing.T) {
		resp, err := checkHealth(context.Background(), map[string]pinger{"kvstore": up, "database": down})
		assert.Nil(t, resp)

		var gerr *goerror.Error
		require.ErrorAs(t, err, &gerr)
		assert.Equal(t, goerror.CodeUnavailable, gerr.Code())
		assert.Equal(t, map[string]string{"database": "down"}, gerr.Fields())
	})

	t.Run("deadline is applied", func(t *testing.T) {
		var hasDeadline bool
		_, err := checkHealth(context.Background(), map[string]pinger{
			"kvstore": pingFunc(func(ctx context.Context) error {
				_, hasDeadline = ctx.Deadline()
				return nil
			}),
		})
		require.NoError(t, err)
		assert.True(t, hasDeadline)
	})
}

func TestApp_health(t *testing.T) {
	a := &App{store: kvstore.NewMemory(clock.New())}

	r := router.NewRouter(router.Config{Instrument: instrument.NewNoop()})
	r.GET("/health", a.health)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, rec.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "healthy", body["message"])
	assert.Equal(t, map[string]any{"checks": map[string]any{"kvstore": "up"}}, body["data"])
}
