package router

import (
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/shandysiswandi/mailotp/internal/pkg/config"
	"golang.org/x/time/rate"
)

// idleLimiterTTL is how long an unused per-IP limiter is kept.
const idleLimiterTTL = 10 * time.Minute

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// ipLimiter hands out one token bucket per client IP. It protects the process
// from floods; the per-email policy lives in the store.
type ipLimiter struct {
	mu        sync.Mutex
	visitors  map[string]*visitor
	rps       rate.Limit
	burst     int
	lastSweep time.Time
	now       func() time.Time
}

func newIPLimiter(rps float64, burst int) *ipLimiter {
	if burst < 1 {
		burst = max(1, int(rps))
	}
	return &ipLimiter{
		visitors: map[string]*visitor{},
		rps:      rate.Limit(rps),
		burst:    burst,
		now:      time.Now,
	}
}

func (l *ipLimiter) allow(ip string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	if now.Sub(l.lastSweep) > idleLimiterTTL {
		for k, v := range l.visitors {
			if now.Sub(v.lastSeen) > idleLimiterTTL {
				delete(l.visitors, k)
			}
		}
		l.lastSweep = now
	}

	v, ok := l.visitors[ip]
	if !ok {
		v = &visitor{limiter: rate.NewLimiter(l.rps, l.burst)}
		l.visitors[ip] = v
	}
	v.lastSeen = now

	return v.limiter.AllowN(now, 1)
}

// middlewareRateLimit is disabled when app.server.rate_limit.rps is not positive.
func middlewareRateLimit(cfg config.Config) Middleware {
	if cfg == nil {
		return nil
	}
	rps := cfg.GetFloat64("app.server.rate_limit.rps")
	if rps <= 0 {
		return nil
	}
	limiter := newIPLimiter(rps, cfg.GetInt("app.server.rate_limit.burst"))

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !limiter.allow(clientIP(r)) {
				w.Header().Set("Retry-After", strconv.Itoa(1))
				writeJSON(w, errorResponse{Message: "too many requests"}, http.StatusTooManyRequests)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func clientIP(r *http.Request) string {
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}
