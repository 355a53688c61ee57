package rest

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
)

// ReadinessCheck probes one dependency. A nil error means ready.
type ReadinessCheck func(ctx context.Context) error

// HealthHandler provides HTTP health check endpoints.
type HealthHandler struct {
	logger    *slog.Logger
	startTime time.Time
	checks    map[string]ReadinessCheck
}

// NewHealthHandler creates a health handler with the given named readiness
// checks.
func NewHealthHandler(logger *slog.Logger, checks map[string]ReadinessCheck) *HealthHandler {
	return &HealthHandler{
		logger:    logger,
		startTime: time.Now(),
		checks:    checks,
	}
}

// HealthResponse is the JSON response for health checks.
type HealthResponse struct {
	Status  string `json:"status"`
	Service string `json:"service"`
	Uptime  string `json:"uptime"`
}

// ReadinessResponse is the JSON response for readiness checks.
type ReadinessResponse struct {
	Status  string            `json:"status"`
	Service string            `json:"service"`
	Checks  map[string]string `json:"checks"`
}

// RegisterRoutes registers health endpoints on the router.
func (h *HealthHandler) RegisterRoutes(r chi.Router) {
	r.Get("/healthz", h.Healthz)
	r.Get("/readyz", h.Readyz)
}

// Healthz handles liveness probe requests.
func (h *HealthHandler) Healthz(w http.ResponseWriter, r *http.Request) {
	resp := HealthResponse{
		Status:  "healthy",
		Service: "trustcheck-backend",
		Uptime:  time.Since(h.startTime).String(),
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(resp)
}

// Readyz handles readiness probe requests. Any failing check turns the
// response into a 503.
func (h *HealthHandler) Readyz(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	status := http.StatusOK
	results := make(map[string]string, len(h.checks))
	for name, check := range h.checks {
		if err := check(ctx); err != nil {
			results[name] = err.Error()
			status = http.StatusServiceUnavailable
			continue
		}
		results[name] = "ok"
	}

	resp := ReadinessResponse{
		Status:  "ready",
		Service: "trustcheck-backend",
		Checks:  results,
	}
	if status != http.StatusOK {
		resp.Status = "not ready"
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(resp)
}
