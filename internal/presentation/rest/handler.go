package rest

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/shreyanshbahuguna/trustcheck-backend/internal/application/dto"
	"github.com/shreyanshbahuguna/trustcheck-backend/internal/application/usecase"
	"github.com/shreyanshbahuguna/trustcheck-backend/internal/domain/model"
	"github.com/shreyanshbahuguna/trustcheck-backend/internal/domain/service"
	"github.com/shreyanshbahuguna/trustcheck-backend/internal/infrastructure/observability"
)

// VerificationHandler exposes the verification use cases over HTTP.
type VerificationHandler struct {
	verifyUC      *usecase.VerifyArtifact
	getArtifactUC *usecase.GetArtifact
	reportUC      *usecase.ReportArtifact
	signalReducer *service.SignalReducer
	logger        *slog.Logger
}

// NewVerificationHandler creates a new verification handler.
func NewVerificationHandler(
	verifyUC *usecase.VerifyArtifact,
	getArtifactUC *usecase.GetArtifact,
	reportUC *usecase.ReportArtifact,
	logger *slog.Logger,
) *VerificationHandler {
	return &VerificationHandler{
		verifyUC:      verifyUC,
		getArtifactUC: getArtifactUC,
		reportUC:      reportUC,
		signalReducer: service.NewSignalReducer(),
		logger:        logger,
	}
}

// RegisterRoutes mounts the API routes on the router.
func (h *VerificationHandler) RegisterRoutes(r chi.Router) {
	r.Post("/api/verify", h.Verify)
	r.Get("/api/artifacts", h.LookupArtifact)
	r.Get("/api/artifacts/{id}", h.GetArtifact)
	r.Post("/api/report", h.Report)
	r.Post("/api/signals/score", h.ScoreSignals)
}

// Verify runs a full verification for the submitted query.
func (h *VerificationHandler) Verify(w http.ResponseWriter, r *http.Request) {
	var req dto.VerifyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	resp, err := h.verifyUC.Execute(r.Context(), req)
	if err != nil {
		if errors.Is(err, model.ErrEmptyQuery) {
			h.respondError(w, http.StatusBadRequest, "query must not be empty")
			return
		}
		h.logger.ErrorContext(r.Context(), "verification failed",
			slog.String("query", req.Query),
			slog.String("error", err.Error()),
		)
		h.respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	observability.VerificationsTotal.WithLabelValues(resp.ArtifactKind, resp.Scoring.Label).Inc()
	h.respondJSON(w, http.StatusOK, resp)
}

// GetArtifact returns a persisted artifact with its evidence and score history.
func (h *VerificationHandler) GetArtifact(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		h.respondError(w, http.StatusBadRequest, "invalid artifact id")
		return
	}

	resp, err := h.getArtifactUC.Execute(r.Context(), id)
	if err != nil {
		if errors.Is(err, usecase.ErrArtifactNotFound) {
			h.respondError(w, http.StatusNotFound, "artifact not found")
			return
		}
		h.logger.ErrorContext(r.Context(), "artifact lookup failed",
			slog.String("artifact_id", id.String()),
			slog.String("error", err.Error()),
		)
		h.respondError(w, http.StatusInternalServerError, "internal error")
		return
	}

	h.respondJSON(w, http.StatusOK, resp)
}

// LookupArtifact returns a persisted artifact by its normalized value.
func (h *VerificationHandler) LookupArtifact(w http.ResponseWriter, r *http.Request) {
	value := r.URL.Query().Get("value")
	if value == "" {
		h.respondError(w, http.StatusBadRequest, "value query parameter required")
		return
	}

	resp, err := h.getArtifactUC.ExecuteByValue(r.Context(), model.NormalizeHost(value))
	if err != nil {
		if errors.Is(err, usecase.ErrArtifactNotFound) {
			h.respondError(w, http.StatusNotFound, "artifact not found")
			return
		}
		h.logger.ErrorContext(r.Context(), "artifact lookup failed",
			slog.String("artifact_value", value),
			slog.String("error", err.Error()),
		)
		h.respondError(w, http.StatusInternalServerError, "internal error")
		return
	}

	h.respondJSON(w, http.StatusOK, resp)
}

// Report stores a user-submitted scam report.
func (h *VerificationHandler) Report(w http.ResponseWriter, r *http.Request) {
	var req dto.ReportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	resp, err := h.reportUC.Execute(r.Context(), req)
	if err != nil {
		h.respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	h.respondJSON(w, http.StatusCreated, resp)
}

// ScoreSignals runs the standalone signal reducer over a pre-extracted
// snapshot, without touching any provider.
func (h *VerificationHandler) ScoreSignals(w http.ResponseWriter, r *http.Request) {
	var snapshot service.SignalSnapshot
	if err := json.NewDecoder(r.Body).Decode(&snapshot); err != nil {
		h.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	result := h.signalReducer.Reduce(snapshot)
	reasons := make([]dto.ReasonOut, 0, len(result.Reasons))
	for _, reason := range result.Reasons {
		reasons = append(reasons, dto.ReasonOut{
			RuleID:  reason.RuleID,
			Points:  reason.Points,
			Message: reason.Message,
		})
	}

	h.respondJSON(w, http.StatusOK, dto.ScoringOut{
		Score:   result.Score,
		Label:   result.Label,
		Reasons: reasons,
	})
}

func (h *VerificationHandler) respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		h.logger.Error("failed to encode response", slog.String("error", err.Error()))
	}
}

func (h *VerificationHandler) respondError(w http.ResponseWriter, status int, message string) {
	h.respondJSON(w, status, map[string]string{"error": message})
}
