package event

import (
	"time"

	"github.com/google/uuid"
)

const (
	// EventTypeVerificationCompleted is emitted when a verification run finishes.
	EventTypeVerificationCompleted = "trustcheck.verification.completed"

	// EventTypeHighRiskDetected is emitted when a run resolves to the high risk label.
	EventTypeHighRiskDetected = "trustcheck.high_risk.detected"
)

// DomainEvent is the contract all verification events implement.
type DomainEvent interface {
	EventType() string
	AggregateID() uuid.UUID
}

// VerificationCompleted is published when a verification run has produced a
// scoring result, regardless of outcome.
type VerificationCompleted struct {
	VerificationID uuid.UUID `json:"verification_id"`
	ArtifactKind   string    `json:"artifact_kind"`
	ArtifactValue  string    `json:"artifact_value"`
	Score          int       `json:"score"`
	Label          string    `json:"label"`
	ReasonCount    int       `json:"reason_count"`
	CompletedAt    time.Time `json:"completed_at"`
}

// NewVerificationCompleted creates a VerificationCompleted event.
func NewVerificationCompleted(id uuid.UUID, kind, value string, score int, label string, reasonCount int, completedAt time.Time) VerificationCompleted {
	return VerificationCompleted{
		VerificationID: id,
		ArtifactKind:   kind,
		ArtifactValue:  value,
		Score:          score,
		Label:          label,
		ReasonCount:    reasonCount,
		CompletedAt:    completedAt,
	}
}

// EventType returns the event type identifier.
func (e VerificationCompleted) EventType() string {
	return EventTypeVerificationCompleted
}

// AggregateID returns the verification ID as the aggregate identifier.
func (e VerificationCompleted) AggregateID() uuid.UUID {
	return e.VerificationID
}

// HighRiskDetected is published when a run is labeled high risk, for alerting
// and downstream blocklisting.
type HighRiskDetected struct {
	VerificationID uuid.UUID `json:"verification_id"`
	ArtifactKind   string    `json:"artifact_kind"`
	ArtifactValue  string    `json:"artifact_value"`
	Score          int       `json:"score"`
	DetectedAt     time.Time `json:"detected_at"`
}

// NewHighRiskDetected creates a HighRiskDetected event.
func NewHighRiskDetected(id uuid.UUID, kind, value string, score int, detectedAt time.Time) HighRiskDetected {
	return HighRiskDetected{
		VerificationID: id,
		ArtifactKind:   kind,
		ArtifactValue:  value,
		Score:          score,
		DetectedAt:     detectedAt,
	}
}

// EventType returns the event type identifier.
func (e HighRiskDetected) EventType() string {
	return EventTypeHighRiskDetected
}

// AggregateID returns the verification ID as the aggregate identifier.
func (e HighRiskDetected) AggregateID() uuid.UUID {
	return e.VerificationID
}
