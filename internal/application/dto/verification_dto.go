package dto

import (
	"time"

	"github.com/google/uuid"

	"github.com/shreyanshbahuguna/trustcheck-backend/internal/domain/model"
	"github.com/shreyanshbahuguna/trustcheck-backend/internal/domain/port"
)

// VerifyRequest is the input DTO for the VerifyArtifact use case. Type may be
// "auto" or empty to let the classifier decide.
type VerifyRequest struct {
	Query string `json:"query"`
	Type  string `json:"type,omitempty"`
}

// ReasonOut is one scored justification in a response.
type ReasonOut struct {
	RuleID  string `json:"rule_id"`
	Points  int    `json:"points"`
	Message string `json:"message"`
}

// EvidenceOut is one normalized evidence digest in a response.
type EvidenceOut struct {
	Source     string    `json:"source"`
	Data       any       `json:"data"`
	CapturedAt time.Time `json:"captured_at"`
}

// ScoringOut is the reduced scoring result in a response.
type ScoringOut struct {
	Score   int         `json:"score"`
	Label   string      `json:"label"`
	Reasons []ReasonOut `json:"reasons"`
}

// VerifyResponse is the output DTO returned after a verification run.
type VerifyResponse struct {
	ID            uuid.UUID         `json:"id"`
	ArtifactKind  string            `json:"artifact_kind"`
	ArtifactValue string            `json:"artifact_value"`
	Metadata      map[string]string `json:"metadata"`
	Evidences     []EvidenceOut     `json:"evidences"`
	Scoring       ScoringOut        `json:"scoring"`
	CompletedAt   time.Time         `json:"completed_at"`
}

// ArtifactResponse is the persisted artifact view with full history.
type ArtifactResponse struct {
	ID        uuid.UUID         `json:"id"`
	Kind      string            `json:"type"`
	Value     string            `json:"value"`
	Metadata  map[string]string `json:"metadata"`
	Evidences []EvidenceOut     `json:"evidences"`
	Scores    []ScoringOut      `json:"scores"`
}

// ReportRequest is the input DTO for submitting a user scam report.
type ReportRequest struct {
	ArtifactType  string `json:"artifact_type"`
	ArtifactValue string `json:"artifact_value"`
	Description   string `json:"description"`
	Contact       string `json:"contact,omitempty"`
}

// ReportResponse acknowledges a stored user report.
type ReportResponse struct {
	ID     uuid.UUID `json:"id"`
	Status string    `json:"status"`
}

// FromVerification maps a completed verification run to its response DTO.
func FromVerification(v *model.Verification) VerifyResponse {
	return VerifyResponse{
		ID:            v.ID(),
		ArtifactKind:  v.Kind().String(),
		ArtifactValue: v.Value(),
		Metadata:      v.Metadata(),
		Evidences:     evidencesOut(v.Evidences()),
		Scoring:       scoringOut(v.Scoring()),
		CompletedAt:   v.CompletedAt(),
	}
}

// FromArtifactRecord maps a persisted artifact to its response DTO.
func FromArtifactRecord(rec *port.ArtifactRecord) ArtifactResponse {
	scores := make([]ScoringOut, 0, len(rec.Scores))
	for _, s := range rec.Scores {
		scores = append(scores, scoringOut(s))
	}
	return ArtifactResponse{
		ID:        rec.ID,
		Kind:      rec.Kind,
		Value:     rec.Value,
		Metadata:  rec.Metadata,
		Evidences: evidencesOut(rec.Evidences),
		Scores:    scores,
	}
}

func evidencesOut(items []model.EvidenceItem) []EvidenceOut {
	out := make([]EvidenceOut, 0, len(items))
	for _, e := range items {
		out = append(out, EvidenceOut{Source: e.Source, Data: e.Data, CapturedAt: e.CapturedAt})
	}
	return out
}

func scoringOut(s model.ScoringResult) ScoringOut {
	reasons := make([]ReasonOut, 0, len(s.Reasons))
	for _, r := range s.Reasons {
		reasons = append(reasons, ReasonOut{RuleID: r.RuleID, Points: r.Points, Message: r.Message})
	}
	return ScoringOut{Score: s.Score, Label: s.Label, Reasons: reasons}
}
