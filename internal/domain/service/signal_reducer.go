package service

import (
	"github.com/shreyanshbahuguna/trustcheck-backend/internal/domain/model"
)

// SignalSnapshot is the input to the standalone signal reducer: a flat set of
// pre-extracted signal values, independent of any provider invocation.
// Pointer fields distinguish "signal absent" from a negative outcome.
type SignalSnapshot struct {
	DomainAgeDays    *int  `json:"domain_age_days"`
	RegistryFound    *bool `json:"mca_found"`
	LenderAuthorized *bool `json:"rbi_authorized"`
	PhishingHit      bool  `json:"phishing_hit"`
	UsesFreeEmail    bool  `json:"uses_free_email"`
}

// SignalReducer is the standalone rule-based reducer over signal snapshots.
// It deliberately diverges from Reducer: different point values, different
// label thresholds (30/70 instead of 40/75), semantic rule IDs instead of
// ordinals, and an unclamped sum. The two reducers coexist; which one is
// canonical is an open product decision, so neither is changed to match the
// other.
type SignalReducer struct{}

// NewSignalReducer creates a new SignalReducer instance.
func NewSignalReducer() *SignalReducer {
	return &SignalReducer{}
}

// Reduce computes a risk score from a signal snapshot.
func (s *SignalReducer) Reduce(snapshot SignalSnapshot) model.ScoringResult {
	score := 0
	reasons := make([]model.Reason, 0)

	add := func(ruleID string, points int, message string) {
		score += points
		reasons = append(reasons, model.Reason{RuleID: ruleID, Points: points, Message: message})
	}

	switch age := snapshot.DomainAgeDays; {
	case age == nil:
		add("domain_age_missing", 10, "Domain age could not be determined.")
	case *age < 30:
		add("domain_too_new", 40, "Domain is less than 30 days old — high scam risk.")
	case *age < 180:
		add("domain_recent", 20, "Domain is less than 6 months old — moderately risky.")
	}

	if snapshot.RegistryFound != nil && !*snapshot.RegistryFound {
		add("mca_not_found", 25, "Company not found in MCA database.")
	}

	if snapshot.LenderAuthorized != nil && !*snapshot.LenderAuthorized {
		add("rbi_not_authorized", 15, "Company is NOT on RBI's authorized NBFC list.")
	}

	if snapshot.PhishingHit {
		add("phishing_blacklist", 50, "Domain appears on phishing blacklists.")
	}

	if snapshot.UsesFreeEmail {
		add("free_email_detected", 10, "Free email provider detected — lower trust factor.")
	}

	return model.ScoringResult{
		Score:   score,
		Label:   signalLabel(score),
		Reasons: reasons,
	}
}

// signalLabel applies this reducer's own thresholds; do not swap in
// valueobject.RiskLabelFromScore.
func signalLabel(score int) string {
	switch {
	case score < 30:
		return "low"
	case score < 70:
		return "medium"
	default:
		return "high"
	}
}
