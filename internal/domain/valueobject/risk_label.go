package valueobject

import "fmt"

// RiskLabel is an immutable value object bucketing a numeric risk score.
type RiskLabel struct {
	value string
}

var (
	LabelLow    = RiskLabel{value: "low"}
	LabelMedium = RiskLabel{value: "medium"}
	LabelHigh   = RiskLabel{value: "high"}
)

// RiskLabelFromString reconstructs a RiskLabel from its string representation.
func RiskLabelFromString(s string) (RiskLabel, error) {
	switch s {
	case "low":
		return LabelLow, nil
	case "medium":
		return LabelMedium, nil
	case "high":
		return LabelHigh, nil
	default:
		return RiskLabel{}, fmt.Errorf("invalid risk label: %s", s)
	}
}

// RiskLabelFromScore derives the RiskLabel for a clamped score (0-100).
// These thresholds belong to the verification pipeline's reducer; the
// standalone signal reducer uses a different set and the two are
// intentionally not unified.
func RiskLabelFromScore(score int) RiskLabel {
	switch {
	case score >= 75:
		return LabelHigh
	case score >= 40:
		return LabelMedium
	default:
		return LabelLow
	}
}

// String returns the string representation.
func (l RiskLabel) String() string {
	return l.value
}

// IsZero returns true if the label has not been set.
func (l RiskLabel) IsZero() bool {
	return l.value == ""
}

// Equal checks equality with another RiskLabel.
func (l RiskLabel) Equal(other RiskLabel) bool {
	return l.value == other.value
}
