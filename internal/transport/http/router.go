// Package httptransport assembles the HTTP surface: shared middleware, the
// domain route groups, and the operational endpoints.
package httptransport

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"campustrust/internal/platform/metrics"
	"campustrust/internal/platform/middleware"
	"campustrust/internal/transport/http/shared"
)

// Registrar is implemented by the domain handlers.
type Registrar interface {
	Register(r chi.Router)
}

// HealthChecker reports readiness of one backing dependency.
type HealthChecker interface {
	Health(ctx context.Context) error
}

// NewRouter wires the shared middleware chain, mounts every domain handler,
// and exposes /healthz and /metrics.
func NewRouter(logger *slog.Logger, m *metrics.Metrics, checks map[string]HealthChecker, handlers ...Registrar) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.RequestID)
	r.Use(middleware.RequestTime)
	r.Use(middleware.ClientMetadata)
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Timeout(30 * time.Second))
	r.Use(middleware.ContentTypeJSON)
	r.Use(middleware.Latency(m))

	for _, h := range handlers {
		h.Register(r)
	}

	r.Get("/healthz", handleHealth(checks))
	r.Handle("/metrics", promhttp.Handler())
	return r
}

func handleHealth(checks map[string]HealthChecker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		status := http.StatusOK
		detail := make(map[string]string, len(checks))
		for name, check := range checks {
			if err := check.Health(ctx); err != nil {
				status = http.StatusServiceUnavailable
				detail[name] = err.Error()
				continue
			}
			detail[name] = "ok"
		}
		shared.WriteJSON(w, status, map[string]any{
			"status":       http.StatusText(status),
			"dependencies": detail,
		})
	}
}
