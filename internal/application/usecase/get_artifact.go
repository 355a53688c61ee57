package usecase

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/shreyanshbahuguna/trustcheck-backend/internal/application/dto"
	"github.com/shreyanshbahuguna/trustcheck-backend/internal/domain/port"
)

// ErrArtifactNotFound is returned when no artifact exists for the given key.
var ErrArtifactNotFound = fmt.Errorf("artifact not found")

// GetArtifact is the use case for retrieving a persisted artifact with its
// evidence and score history.
type GetArtifact struct {
	repo port.ArtifactRepository
}

// NewGetArtifact creates a new GetArtifact use case.
func NewGetArtifact(repo port.ArtifactRepository) *GetArtifact {
	return &GetArtifact{repo: repo}
}

// Execute retrieves an artifact by its unique identifier.
func (uc *GetArtifact) Execute(ctx context.Context, id uuid.UUID) (dto.ArtifactResponse, error) {
	record, err := uc.repo.FindByID(ctx, id)
	if err != nil {
		return dto.ArtifactResponse{}, fmt.Errorf("failed to find artifact: %w", err)
	}
	if record == nil {
		return dto.ArtifactResponse{}, ErrArtifactNotFound
	}

	return dto.FromArtifactRecord(record), nil
}

// ExecuteByValue retrieves an artifact by its normalized value.
func (uc *GetArtifact) ExecuteByValue(ctx context.Context, value string) (dto.ArtifactResponse, error) {
	record, err := uc.repo.FindByValue(ctx, value)
	if err != nil {
		return dto.ArtifactResponse{}, fmt.Errorf("failed to find artifact: %w", err)
	}
	if record == nil {
		return dto.ArtifactResponse{}, ErrArtifactNotFound
	}

	return dto.FromArtifactRecord(record), nil
}
