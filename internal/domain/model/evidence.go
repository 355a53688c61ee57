package model

import "time"

// EvidenceItem is the normalized digest of one provider's response within a
// run. Evidence is append-only: items are created once by the collector and
// never mutated afterwards. Data holds one of the digest shapes from the
// port package, or ProviderUnavailable when the provider failed.
type EvidenceItem struct {
	Source     string    `json:"source"`
	Data       any       `json:"data"`
	CapturedAt time.Time `json:"captured_at"`
}

// ProviderUnavailable is the evidence payload recorded when a signal provider
// could not be queried (timeout, transport error, malformed response).
type ProviderUnavailable struct {
	Error string `json:"error"`
}

// Reason is a scored, human-readable justification for one signal outcome.
// RuleID is assigned by the reducer as a 0-based ordinal in collection order;
// the standalone signal reducer assigns semantic identifiers instead.
type Reason struct {
	RuleID  string `json:"rule_id"`
	Points  int    `json:"points"`
	Message string `json:"message"`
}

// ScoringResult is the deterministic reduction of a set of reasons. The
// verification reducer clamps Score to [0,100]; the standalone signal reducer
// reports the raw sum. Label is always a pure function of Score.
type ScoringResult struct {
	Score   int      `json:"score"`
	Label   string   `json:"label"`
	Reasons []Reason `json:"reasons"`
}
