package providers

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/shreyanshbahuguna/trustcheck-backend/internal/domain/port"
	"github.com/shreyanshbahuguna/trustcheck-backend/internal/domain/service"
	"github.com/shreyanshbahuguna/trustcheck-backend/internal/infrastructure/observability"
)

//go:embed rbi_list.json
var rbiListRaw []byte

// LenderRegistry implements port.LenderRegistry against an embedded snapshot
// of the RBI registered-NBFC list. Matching is a case-insensitive substring
// check in both directions so partial legal names still resolve.
type LenderRegistry struct {
	lenders []string
	logger  *slog.Logger
}

func NewLenderRegistry(logger *slog.Logger) (*LenderRegistry, error) {
	var payload struct {
		NBFCList []string `json:"nbfc_list"`
	}
	if err := json.Unmarshal(rbiListRaw, &payload); err != nil {
		return nil, fmt.Errorf("failed to parse lender list: %w", err)
	}
	return &LenderRegistry{lenders: payload.NBFCList, logger: logger}, nil
}

func (r *LenderRegistry) Check(ctx context.Context, company string) (port.LenderRegistryResult, error) {
	start := time.Now()
	needle := strings.ToLower(strings.TrimSpace(company))
	for _, lender := range r.lenders {
		candidate := strings.ToLower(lender)
		if strings.Contains(candidate, needle) || strings.Contains(needle, candidate) {
			observability.ObserveProviderCall(service.SourceLenderRegistry, start, nil)
			return port.LenderRegistryResult{Authorized: true, MatchedName: lender}, nil
		}
	}
	observability.ObserveProviderCall(service.SourceLenderRegistry, start, nil)
	return port.LenderRegistryResult{}, nil
}
