package router

import (
	"net/http"
	"strings"

	"github.com/shandysiswandi/mailotp/internal/pkg/instrument"
	"github.com/shandysiswandi/mailotp/internal/pkg/uid"
)

const (
	// HeaderCorrelationID carries the request correlation id in and out.
	HeaderCorrelationID = "X-Correlation-ID"
	// HeaderRequestID is accepted as a fallback from proxies that set it.
	HeaderRequestID = "X-Request-ID"

	maxCorrelationIDLen = 128
)

// sanitizeCID rejects header-injection attempts and caps the length.
func sanitizeCID(v string) string {
	if strings.ContainsAny(v, "\r\n") {
		return ""
	}
	v = strings.TrimSpace(v)
	if len(v) > maxCorrelationIDLen {
		v = v[:maxCorrelationIDLen]
	}
	return v
}

func middlewareCorrelationID(gen uid.StringID) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var cid string
			for _, h := range []string{HeaderCorrelationID, HeaderRequestID} {
				if cid = sanitizeCID(r.Header.Get(h)); cid != "" {
					break
				}
			}
			if cid == "" && gen != nil {
				cid = gen.Generate()
			}

			if cid != "" {
				w.Header().Set(HeaderCorrelationID, cid)
				r = r.WithContext(instrument.SetCorrelationID(r.Context(), cid))
			}

			next.ServeHTTP(w, r)
		})
	}
}
