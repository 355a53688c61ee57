package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/shreyanshbahuguna/trustcheck-backend/internal/application/dto"
	"github.com/shreyanshbahuguna/trustcheck-backend/internal/domain/model"
	"github.com/shreyanshbahuguna/trustcheck-backend/internal/domain/port"
	"github.com/shreyanshbahuguna/trustcheck-backend/internal/domain/service"
	"github.com/shreyanshbahuguna/trustcheck-backend/internal/domain/valueobject"
)

// VerifyArtifact is the use case for running a full verification: classify,
// collect evidence, reduce to a score, persist and publish. The caller always
// receives a complete result for supported kinds, even under total provider
// outage; persistence and publishing failures are logged and never block the
// response.
type VerifyArtifact struct {
	collector  *service.Collector
	reducer    *service.Reducer
	redirector *service.Redirector
	repo       port.ArtifactRepository
	publisher  port.EventPublisher
	logger     *slog.Logger
}

// NewVerifyArtifact creates a new VerifyArtifact use case.
func NewVerifyArtifact(
	collector *service.Collector,
	reducer *service.Reducer,
	redirector *service.Redirector,
	repo port.ArtifactRepository,
	publisher port.EventPublisher,
	logger *slog.Logger,
) *VerifyArtifact {
	return &VerifyArtifact{
		collector:  collector,
		reducer:    reducer,
		redirector: redirector,
		repo:       repo,
		publisher:  publisher,
		logger:     logger,
	}
}

// Execute runs one verification. Classification or validation failures are
// terminal; provider failures are absorbed into the evidence.
func (uc *VerifyArtifact) Execute(ctx context.Context, req dto.VerifyRequest) (dto.VerifyResponse, error) {
	// 1. Resolve the requested kind, if the caller pinned one.
	var kind valueobject.ArtifactKind
	if req.Type != "" && req.Type != "auto" {
		k, err := valueobject.ArtifactKindFromString(req.Type)
		if err != nil {
			return dto.VerifyResponse{}, fmt.Errorf("invalid artifact type: %w", err)
		}
		kind = k
	}

	// 2. Classify and normalize the query.
	ident, err := model.NewIdentifier(req.Query, kind)
	if err != nil {
		return dto.VerifyResponse{}, err
	}

	// 3. Company runs may be superseded by a domain run when the slug-derived
	// domain resolves. Single level only: the redirector never yields another
	// company identifier, so re-entry cannot recurse.
	if ident.Kind.Equal(valueobject.KindCompany) {
		ident, _ = uc.redirector.MaybeRedirect(ctx, ident)
	}

	// 4. Open the run.
	verification, err := model.NewVerification(ident)
	if err != nil {
		return dto.VerifyResponse{}, fmt.Errorf("failed to create verification: %w", err)
	}
	if ident.Kind.Equal(valueobject.KindURL) || ident.Kind.Equal(valueobject.KindDomain) {
		verification.SetMetadata("registrable_domain", ident.RegistrableDomain())
	}

	// 5. Collect and reduce. Unsupported kinds get a zero-score placeholder
	// rather than an error.
	var result model.ScoringResult
	if ident.Kind.Scorable() {
		evidences, reasons := uc.collector.Collect(ctx, ident)
		verification.AppendEvidence(evidences...)
		result = uc.reducer.Reduce(reasons)
	} else {
		result = uc.reducer.Reduce([]model.Reason{{
			Points:  0,
			Message: fmt.Sprintf("Type '%s' not supported", ident.Kind.String()),
		}})
	}

	if err := verification.Complete(result); err != nil {
		return dto.VerifyResponse{}, fmt.Errorf("failed to complete verification: %w", err)
	}

	// 6. Persist best-effort; the scoring result is returned regardless.
	if err := uc.repo.SaveVerification(ctx, verification); err != nil {
		uc.logger.Warn("failed to persist verification",
			slog.String("artifact_value", verification.Value()),
			slog.String("error", err.Error()),
		)
	}

	// 7. Publish domain events best-effort.
	events := verification.DomainEvents()
	if len(events) > 0 {
		payload := make([]interface{}, 0, len(events))
		for _, evt := range events {
			payload = append(payload, evt)
		}
		if err := uc.publisher.Publish(ctx, payload...); err != nil {
			uc.logger.Warn("failed to publish verification events",
				slog.String("artifact_value", verification.Value()),
				slog.String("error", err.Error()),
			)
		}
	}

	return dto.FromVerification(verification), nil
}
