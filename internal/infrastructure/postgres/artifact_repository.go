package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/shreyanshbahuguna/trustcheck-backend/internal/domain/model"
	"github.com/shreyanshbahuguna/trustcheck-backend/internal/domain/port"
)

// ArtifactRepository implements port.ArtifactRepository and
// port.ReportRepository using PostgreSQL. Artifacts are upserted by
// normalized value; evidence and scores are append-only history.
type ArtifactRepository struct {
	pool   *pgxpool.Pool
	logger *slog.Logger
}

// NewArtifactRepository creates a new PostgreSQL-backed artifact repository.
func NewArtifactRepository(pool *pgxpool.Pool, logger *slog.Logger) *ArtifactRepository {
	return &ArtifactRepository{pool: pool, logger: logger}
}

// SaveVerification upserts the artifact and appends the run's evidence items
// and scoring result. Individual evidence inserts are best-effort: a failed
// insert is logged and skipped so one bad payload cannot lose the run.
func (r *ArtifactRepository) SaveVerification(ctx context.Context, v *model.Verification) error {
	metadata, err := json.Marshal(v.Metadata())
	if err != nil {
		return fmt.Errorf("failed to marshal artifact metadata: %w", err)
	}

	var artifactID uuid.UUID
	err = r.pool.QueryRow(ctx, `
		INSERT INTO artifacts (id, type, value, metadata, created_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (value) DO UPDATE SET metadata = EXCLUDED.metadata
		RETURNING id
	`, v.ID(), v.Kind().String(), v.Value(), metadata, v.CreatedAt()).Scan(&artifactID)
	if err != nil {
		return fmt.Errorf("failed to upsert artifact: %w", err)
	}

	for _, ev := range v.Evidences() {
		payload, err := json.Marshal(ev.Data)
		if err == nil {
			_, err = r.pool.Exec(ctx, `
				INSERT INTO evidences (id, artifact_id, source, payload, captured_at)
				VALUES ($1, $2, $3, $4, $5)
			`, uuid.New(), artifactID, ev.Source, payload, ev.CapturedAt)
		}
		if err != nil {
			r.logger.Warn("skipping failed evidence insert",
				slog.String("artifact_value", v.Value()),
				slog.String("source", ev.Source),
				slog.String("error", err.Error()),
			)
		}
	}

	reasons, err := json.Marshal(v.Reasons())
	if err != nil {
		return fmt.Errorf("failed to marshal reasons: %w", err)
	}

	_, err = r.pool.Exec(ctx, `
		INSERT INTO risk_scores (id, artifact_id, score, label, reasons, computed_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, uuid.New(), artifactID, v.Score(), v.Label().String(), reasons, v.CompletedAt())
	if err != nil {
		return fmt.Errorf("failed to append risk score: %w", err)
	}

	return nil
}

// FindByID retrieves an artifact with its evidence and score history.
func (r *ArtifactRepository) FindByID(ctx context.Context, id uuid.UUID) (*port.ArtifactRecord, error) {
	return r.findArtifact(ctx, `SELECT id, type, value, metadata FROM artifacts WHERE id = $1`, id)
}

// FindByValue retrieves an artifact by its normalized value.
func (r *ArtifactRepository) FindByValue(ctx context.Context, value string) (*port.ArtifactRecord, error) {
	return r.findArtifact(ctx, `SELECT id, type, value, metadata FROM artifacts WHERE value = $1`, value)
}

func (r *ArtifactRepository) findArtifact(ctx context.Context, query string, arg any) (*port.ArtifactRecord, error) {
	var (
		record      port.ArtifactRecord
		metadataRaw []byte
	)

	err := r.pool.QueryRow(ctx, query, arg).Scan(&record.ID, &record.Kind, &record.Value, &metadataRaw)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to scan artifact: %w", err)
	}

	record.Metadata = make(map[string]string)
	if len(metadataRaw) > 0 {
		if err := json.Unmarshal(metadataRaw, &record.Metadata); err != nil {
			return nil, fmt.Errorf("failed to parse artifact metadata: %w", err)
		}
	}

	if record.Evidences, err = r.loadEvidences(ctx, record.ID); err != nil {
		return nil, err
	}
	if record.Scores, err = r.loadScores(ctx, record.ID); err != nil {
		return nil, err
	}

	return &record, nil
}

func (r *ArtifactRepository) loadEvidences(ctx context.Context, artifactID uuid.UUID) ([]model.EvidenceItem, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT source, payload, captured_at
		FROM evidences
		WHERE artifact_id = $1
		ORDER BY captured_at, id
	`, artifactID)
	if err != nil {
		return nil, fmt.Errorf("failed to query evidences: %w", err)
	}
	defer rows.Close()

	evidences := make([]model.EvidenceItem, 0)
	for rows.Next() {
		var (
			item       model.EvidenceItem
			payloadRaw []byte
			capturedAt time.Time
		)
		if err := rows.Scan(&item.Source, &payloadRaw, &capturedAt); err != nil {
			return nil, fmt.Errorf("failed to scan evidence: %w", err)
		}
		item.CapturedAt = capturedAt
		if len(payloadRaw) > 0 {
			var data any
			if err := json.Unmarshal(payloadRaw, &data); err != nil {
				return nil, fmt.Errorf("failed to parse evidence payload: %w", err)
			}
			item.Data = data
		}
		evidences = append(evidences, item)
	}

	return evidences, rows.Err()
}

func (r *ArtifactRepository) loadScores(ctx context.Context, artifactID uuid.UUID) ([]model.ScoringResult, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT score, label, reasons
		FROM risk_scores
		WHERE artifact_id = $1
		ORDER BY computed_at, id
	`, artifactID)
	if err != nil {
		return nil, fmt.Errorf("failed to query risk scores: %w", err)
	}
	defer rows.Close()

	scores := make([]model.ScoringResult, 0)
	for rows.Next() {
		var (
			result     model.ScoringResult
			reasonsRaw []byte
		)
		if err := rows.Scan(&result.Score, &result.Label, &reasonsRaw); err != nil {
			return nil, fmt.Errorf("failed to scan risk score: %w", err)
		}
		if len(reasonsRaw) > 0 {
			if err := json.Unmarshal(reasonsRaw, &result.Reasons); err != nil {
				return nil, fmt.Errorf("failed to parse score reasons: %w", err)
			}
		}
		scores = append(scores, result)
	}

	return scores, rows.Err()
}

// CreateReport stores a user-submitted scam report.
func (r *ArtifactRepository) CreateReport(ctx context.Context, report *port.UserReport) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO user_reports (id, artifact_type, artifact_value, description, contact, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, report.ID, report.ArtifactKind, report.ArtifactValue, report.Description, report.Contact, report.Status, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("failed to create user report: %w", err)
	}
	return nil
}
