package app

import (
	"context"
	"log/slog"
	"time"

	"github.com/shandysiswandi/mailotp/internal/pkg/goerror"
	"github.com/shandysiswandi/mailotp/internal/pkg/router"
)

const healthTimeout = 2 * time.Second

type pinger interface {
	Ping(ctx context.Context) error
}

type healthResponse struct {
	Checks map[string]string `json:"checks"`
}

func (healthResponse) Message() string { return "healthy" }

// health reports the reachability of the store and, when enabled, the database.
func (a *App) health(r *router.Request) (any, error) {
	deps := map[string]pinger{"kvstore": a.store}
	if a.dbConn != nil {
		deps["database"] = a.dbConn
	}

	return checkHealth(r.Context(), deps)
}

func checkHealth(ctx context.Context, deps map[string]pinger) (any, error) {
	ctx, cancel := context.WithTimeout(ctx, healthTimeout)
	defer cancel()

	checks := make(map[string]string, len(deps))
	var failed []string
	for name, dep := range deps {
		if err := dep.Ping(ctx); err != nil {
			slog.ErrorContext(ctx, "health check failed", "dependency", name, "error", err)
			checks[name] = "down"
			failed = append(failed, name, "down")
			continue
		}
		checks[name] = "up"
	}

	if len(failed) > 0 {
		return nil, goerror.NewBusiness("service unhealthy", goerror.CodeUnavailable, failed...)
	}

	return healthResponse{Checks: checks}, nil
}
