package middleware

import (
	"net/http"
	"time"

	"github.com/angelmondragon/storefront/pkg/metrics"
)

// Metrics records request latency and status per chi route pattern. The
// pattern is read after routing so unmatched paths fall back to the raw path.
func Metrics(m *metrics.HTTPMetrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			rec := &statusRecorder{ResponseWriter: w}
			start := time.Now()

			next.ServeHTTP(rec, r)

			status := rec.status
			if status == 0 {
				status = http.StatusOK
			}
			m.Observe(r.Method, routePattern(r), status, time.Since(start))
		})
	}
}
