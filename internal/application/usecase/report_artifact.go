package usecase

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/shreyanshbahuguna/trustcheck-backend/internal/application/dto"
	"github.com/shreyanshbahuguna/trustcheck-backend/internal/domain/port"
)

// ReportArtifact is the use case for user-submitted scam reports. Reports are
// intake only: they are stored for manual review and do not feed automated
// scoring.
type ReportArtifact struct {
	repo port.ReportRepository
}

// NewReportArtifact creates a new ReportArtifact use case.
func NewReportArtifact(repo port.ReportRepository) *ReportArtifact {
	return &ReportArtifact{repo: repo}
}

// Execute validates and stores a user report.
func (uc *ReportArtifact) Execute(ctx context.Context, req dto.ReportRequest) (dto.ReportResponse, error) {
	if req.ArtifactType == "" || req.ArtifactValue == "" || req.Description == "" {
		return dto.ReportResponse{}, fmt.Errorf("artifact_type, artifact_value and description required")
	}

	report := &port.UserReport{
		ID:            uuid.New(),
		ArtifactKind:  req.ArtifactType,
		ArtifactValue: req.ArtifactValue,
		Description:   req.Description,
		Contact:       req.Contact,
		Status:        "pending",
	}

	if err := uc.repo.CreateReport(ctx, report); err != nil {
		return dto.ReportResponse{}, fmt.Errorf("failed to create report: %w", err)
	}

	return dto.ReportResponse{ID: report.ID, Status: report.Status}, nil
}
