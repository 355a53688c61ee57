package providers

import (
	"context"
	"log/slog"
	"time"

	"github.com/shreyanshbahuguna/trustcheck-backend/internal/domain/port"
	"github.com/shreyanshbahuguna/trustcheck-backend/internal/domain/service"
	"github.com/shreyanshbahuguna/trustcheck-backend/internal/infrastructure/observability"
)

// BlacklistService implements port.BlacklistChecker. The commercial blacklist
// integration is not wired yet, so every check reports a clean miss; the
// collector still records the evidence so downstream consumers see the source
// was consulted.
type BlacklistService struct {
	logger *slog.Logger
}

func NewBlacklistService(logger *slog.Logger) *BlacklistService {
	return &BlacklistService{logger: logger}
}

func (s *BlacklistService) Check(ctx context.Context, domain string) (port.MembershipResult, error) {
	start := time.Now()
	s.logger.DebugContext(ctx, "blacklist check (stub)", "domain", domain)
	observability.ObserveProviderCall(service.SourceBlacklist, start, nil)
	return port.MembershipResult{Found: false}, nil
}
