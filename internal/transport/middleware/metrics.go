package middleware

import (
	"net/http"
	"time"

	"github.com/frahmantamala/identity-access/internal/metrics"
	"github.com/go-chi/chi"
	chimw "github.com/go-chi/chi/middleware"
)

// Metrics records request count and latency per chi route pattern, so
// /users/{username} is one series no matter how many users exist.
func Metrics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		route := "unmatched"
		if rc := chi.RouteContext(r.Context()); rc != nil && rc.RoutePattern() != "" {
			route = rc.RoutePattern()
		}

		metrics.ObserveRequest(r.Method, route, status, time.Since(start))
	})
}
