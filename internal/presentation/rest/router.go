package rest

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// NewRouter assembles the HTTP surface: API routes, health probes and the
// metrics endpoint.
func NewRouter(verification *VerificationHandler, health *HealthHandler, metrics http.Handler) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	verification.RegisterRoutes(r)
	health.RegisterRoutes(r)
	r.Method(http.MethodGet, "/metrics", metrics)

	return r
}
