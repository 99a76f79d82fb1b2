// internal/middleware/logging.go
//
// Access log and request counter.
//
// Context
//   Runs inside chi's router so the matched route pattern ("/feedback",
//   "/form/field") is known once the handler returns.  The pattern, not the
//   raw path, labels feedback_http_requests_total to keep label cardinality
//   bounded.  Unmatched paths are counted under "unmatched".
//
//   Level follows status: 5xx → ERROR, 4xx → WARN, everything else DEBUG, so
//   production logs at INFO only carry failures.
//
//------------------------------------------------------------------------------

package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/yanizio/feedback/internal/logger"
	"github.com/yanizio/feedback/internal/metrics"
)

// Logging records one access-log line and one counter sample per request.
func Logging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		route := routePattern(r)
		metrics.HTTPRequestsTotal.WithLabelValues(r.Method, route, strconv.Itoa(status)).Inc()

		log := logger.FromContext(r.Context())
		kv := []any{
			"method", r.Method,
			"route", route,
			"path", r.URL.Path,
			"status", status,
			"bytes", ww.BytesWritten(),
			"duration", time.Since(start),
		}
		switch {
		case status >= 500:
			log.Errorw("http request", kv...)
		case status >= 400:
			log.Warnw("http request", kv...)
		default:
			log.Debugw("http request", kv...)
		}
	})
}

func routePattern(r *http.Request) string {
	if rc := chi.RouteContext(r.Context()); rc != nil {
		if p := rc.RoutePattern(); p != "" {
			return p
		}
	}
	return "unmatched"
}
