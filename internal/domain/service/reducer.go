package service

import (
	"strconv"

	"github.com/shreyanshbahuguna/trustcheck-backend/internal/domain/model"
	"github.com/shreyanshbahuguna/trustcheck-backend/internal/domain/valueobject"
)

// Per-signal point values for the verification pipeline. The collector
// attaches these to reasons as evidence is translated; the reducer only sums
// and clamps. Negative values are company-branch trust credits.
const (
	pointsReputationMalicious  = 60
	pointsReputationSuspicious = 30
	pointsNewsScamReported     = 50
	pointsAgeUnknown           = 25
	pointsAgeUnder30Days       = 40
	pointsAgeUnder90Days       = 30
	pointsAgeUnder1Year        = 20
	pointsAgeUnder5Years       = 10
	pointsRegistrarMissing     = 10
	pointsRegistrationErrored  = 15
	pointsBlacklistHit         = 70
	pointsPhishingFeedHit      = 80
	pointsRegistryFound        = -10
	pointsRegistryNotFound     = 30
	pointsLenderAuthorized     = -15
	pointsLenderNotListed      = 40
)

// Reducer folds a run's collected reasons into a ScoringResult. The
// reduction is pure and deterministic: points are summed in collection order,
// the sum is clamped to [0,100] once at the end (never per increment), the
// label is derived from the clamped score, and reasons are renumbered with
// 0-based ordinal rule IDs in collection order.
type Reducer struct{}

// NewReducer creates a new Reducer instance.
func NewReducer() *Reducer {
	return &Reducer{}
}

// Reduce computes the scoring result for the given reasons.
func (r *Reducer) Reduce(reasons []model.Reason) model.ScoringResult {
	total := 0
	for _, reason := range reasons {
		total += reason.Points
	}

	if total < 0 {
		total = 0
	}
	if total > 100 {
		total = 100
	}

	numbered := make([]model.Reason, len(reasons))
	for i, reason := range reasons {
		numbered[i] = model.Reason{
			RuleID:  strconv.Itoa(i),
			Points:  reason.Points,
			Message: reason.Message,
		}
	}

	return model.ScoringResult{
		Score:   total,
		Label:   valueobject.RiskLabelFromScore(total).String(),
		Reasons: numbered,
	}
}
