package port

import (
	"context"

	"github.com/google/uuid"

	"github.com/shreyanshbahuguna/trustcheck-backend/internal/domain/model"
)

// ArtifactRecord is the persisted view of an artifact with its evidence and
// score history. Artifacts are keyed by normalized value; evidence and scores
// are append-only.
type ArtifactRecord struct {
	ID        uuid.UUID
	Kind      string
	Value     string
	Metadata  map[string]string
	Evidences []model.EvidenceItem
	Scores    []model.ScoringResult
}

// UserReport is a user-submitted scam report, independent of automated scoring.
type UserReport struct {
	ID            uuid.UUID
	ArtifactKind  string
	ArtifactValue string
	Description   string
	Contact       string
	Status        string
}

// ArtifactRepository defines the persistence port for verification results.
// SaveVerification upserts the artifact by value and appends the run's
// evidence and score; it never mutates prior history.
type ArtifactRepository interface {
	SaveVerification(ctx context.Context, v *model.Verification) error

	FindByID(ctx context.Context, id uuid.UUID) (*ArtifactRecord, error)

	FindByValue(ctx context.Context, value string) (*ArtifactRecord, error)
}

// ReportRepository defines the persistence port for user scam reports.
type ReportRepository interface {
	CreateReport(ctx context.Context, report *UserReport) error
}

// EventPublisher defines the port for publishing domain events.
type EventPublisher interface {
	Publish(ctx context.Context, events ...interface{}) error
}
