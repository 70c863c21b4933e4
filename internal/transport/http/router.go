// Package httptransport assembles the HTTP surface: feature routes, the
// middleware chain, health and metrics endpoints.
package httptransport

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"rezo/internal/platform/metrics"
	"rezo/internal/platform/middleware"
	"rezo/internal/transport/respond"
)

const requestTimeout = 30 * time.Second

// HealthChecker reports whether a backing dependency is reachable.
type HealthChecker interface {
	Health(ctx context.Context) error
}

// RouteRegistrar mounts a feature's routes on the router.
type RouteRegistrar interface {
	Register(r chi.Router)
}

// Deps carries everything the router needs. Nil health checkers are skipped,
// so local setups without Redis or Postgres still serve /healthz.
type Deps struct {
	Logger  *slog.Logger
	Metrics *metrics.Metrics

	Registrant   RouteRegistrar
	Verification RouteRegistrar
	Mail         RouteRegistrar

	Postgres HealthChecker
	Redis    HealthChecker
}

// NewRouter wires all public endpoints behind the shared middleware chain.
func NewRouter(deps Deps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Recovery(deps.Logger))
	r.Use(middleware.RequestID)
	r.Use(middleware.ClientMetadata)
	r.Use(middleware.Logger(deps.Logger))
	r.Use(middleware.Timeout(requestTimeout))
	r.Use(middleware.Latency(deps.Metrics))

	// Registration mixes form-encoded and JSON endpoints, so it mounts
	// outside the JSON content-type guard.
	if deps.Registrant != nil {
		deps.Registrant.Register(r)
	}
	r.Group(func(r chi.Router) {
		r.Use(middleware.ContentTypeJSON)
		for _, registrar := range []RouteRegistrar{deps.Verification, deps.Mail} {
			if registrar != nil {
				registrar.Register(r)
			}
		}
	})

	r.Get("/healthz", handleHealth(deps))
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	return r
}

func handleHealth(deps Deps) http.HandlerFunc {
	checks := map[string]HealthChecker{
		"postgres": deps.Postgres,
		"redis":    deps.Redis,
	}
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		status := http.StatusOK
		result := make(map[string]string, len(checks))
		for name, check := range checks {
			if check == nil {
				continue
			}
			if err := check.Health(ctx); err != nil {
				result[name] = "down"
				status = http.StatusServiceUnavailable
				continue
			}
			result[name] = "up"
		}
		respond.JSON(w, status, map[string]any{
			"status":       httpStatusWord(status),
			"dependencies": result,
		})
	}
}

func httpStatusWord(status int) string {
	if status == http.StatusOK {
		return "ok"
	}
	return "degraded"
}
