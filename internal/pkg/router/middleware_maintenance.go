package router

import (
	"net/http"

	"github.com/samber/lo"
	"github.com/shandysiswandi/mailotp/internal/pkg/config"
)

// middlewareMaintenance answers 503 for every route when app.maintenance.enabled
// is set, or for the matched routes listed in app.maintenance.endpoints.
func middlewareMaintenance(cfg config.Config) Middleware {
	if cfg == nil {
		return nil
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// read per request so a config reload takes effect immediately
			if cfg.GetBool("app.maintenance.enabled") ||
				lo.Contains(cfg.GetArray("app.maintenance.endpoints"), matchedRoutePath(r)) {
				writeJSON(w, errorResponse{Message: "service is under maintenance"}, http.StatusServiceUnavailable)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
