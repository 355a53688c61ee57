package model

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/shreyanshbahuguna/trustcheck-backend/internal/domain/event"
	"github.com/shreyanshbahuguna/trustcheck-backend/internal/domain/valueobject"
)

// Verification is the aggregate root for one verification run: the classified
// artifact, the evidence gathered for it, and the reduced scoring result.
// Evidence is append-only and ordered by the canonical provider-invocation
// order for the artifact's kind.
type Verification struct {
	completedAt  time.Time
	createdAt    time.Time
	metadata     map[string]string
	value        string
	kind         valueobject.ArtifactKind
	label        valueobject.RiskLabel
	evidences    []EvidenceItem
	reasons      []Reason
	domainEvents []event.DomainEvent
	score        int
	id           uuid.UUID
}

// NewVerification starts a verification run for a classified identifier.
// The run starts unscored; call Complete with the reduced result.
func NewVerification(ident Identifier) (*Verification, error) {
	if ident.Value == "" {
		return nil, fmt.Errorf("artifact value is required")
	}
	if ident.Kind.IsZero() {
		return nil, fmt.Errorf("artifact kind is required")
	}

	return &Verification{
		id:           uuid.New(),
		kind:         ident.Kind,
		value:        ident.Value,
		metadata:     make(map[string]string),
		evidences:    make([]EvidenceItem, 0),
		reasons:      make([]Reason, 0),
		label:        valueobject.LabelLow,
		createdAt:    time.Now().UTC(),
		domainEvents: make([]event.DomainEvent, 0),
	}, nil
}

// SetMetadata records a metadata entry for the artifact (e.g. the registrable
// domain derived from the host).
func (v *Verification) SetMetadata(key, value string) {
	v.metadata[key] = value
}

// AppendEvidence appends evidence items in collection order.
func (v *Verification) AppendEvidence(items ...EvidenceItem) {
	v.evidences = append(v.evidences, items...)
}

// Complete applies the reduced scoring result to the run. This is the core
// domain operation: it fixes the score, label and ordered reasons, and emits
// the completion events.
func (v *Verification) Complete(result ScoringResult) error {
	if result.Score < 0 || result.Score > 100 {
		return fmt.Errorf("score must be between 0 and 100, got %d", result.Score)
	}

	label, err := valueobject.RiskLabelFromString(result.Label)
	if err != nil {
		return fmt.Errorf("invalid scoring result: %w", err)
	}

	v.score = result.Score
	v.label = label
	v.reasons = result.Reasons
	v.completedAt = time.Now().UTC()

	v.domainEvents = append(v.domainEvents, event.NewVerificationCompleted(
		v.id, v.kind.String(), v.value, v.score, v.label.String(), len(v.reasons), v.completedAt,
	))

	if v.label.Equal(valueobject.LabelHigh) {
		v.domainEvents = append(v.domainEvents, event.NewHighRiskDetected(
			v.id, v.kind.String(), v.value, v.score, v.completedAt,
		))
	}

	return nil
}

// Reconstruct rebuilds a Verification from persisted data (no validation, no events).
func Reconstruct(
	id uuid.UUID,
	kind valueobject.ArtifactKind,
	value string,
	metadata map[string]string,
	evidences []EvidenceItem,
	score int,
	label valueobject.RiskLabel,
	reasons []Reason,
	createdAt, completedAt time.Time,
) *Verification {
	if metadata == nil {
		metadata = make(map[string]string)
	}
	return &Verification{
		id:           id,
		kind:         kind,
		value:        value,
		metadata:     metadata,
		evidences:    evidences,
		score:        score,
		label:        label,
		reasons:      reasons,
		createdAt:    createdAt,
		completedAt:  completedAt,
		domainEvents: make([]event.DomainEvent, 0),
	}
}

// --- Accessors ---

func (v *Verification) ID() uuid.UUID                  { return v.id }
func (v *Verification) Kind() valueobject.ArtifactKind { return v.kind }
func (v *Verification) Value() string                  { return v.value }
func (v *Verification) Metadata() map[string]string    { return v.metadata }
func (v *Verification) Evidences() []EvidenceItem      { return v.evidences }
func (v *Verification) Score() int                     { return v.score }
func (v *Verification) Label() valueobject.RiskLabel   { return v.label }
func (v *Verification) Reasons() []Reason              { return v.reasons }
func (v *Verification) CreatedAt() time.Time           { return v.createdAt }
func (v *Verification) CompletedAt() time.Time         { return v.completedAt }

// Scoring returns the run's result in its wire shape.
func (v *Verification) Scoring() ScoringResult {
	return ScoringResult{Score: v.score, Label: v.label.String(), Reasons: v.reasons}
}

// DomainEvents returns all accumulated domain events and clears them.
func (v *Verification) DomainEvents() []event.DomainEvent {
	evts := v.domainEvents
	v.domainEvents = make([]event.DomainEvent, 0)
	return evts
}
