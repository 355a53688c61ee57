package valueobject

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRiskLabelFromScore(t *testing.T) {
	tests := []struct {
		score int
		want  RiskLabel
	}{
		{0, LabelLow},
		{39, LabelLow},
		{40, LabelMedium},
		{74, LabelMedium},
		{75, LabelHigh},
		{100, LabelHigh},
	}

	for _, tt := range tests {
		assert.True(t, RiskLabelFromScore(tt.score).Equal(tt.want),
			"score %d should map to %s", tt.score, tt.want.String())
	}
}

func TestRiskLabelFromString(t *testing.T) {
	for _, s := range []string{"low", "medium", "high"} {
		label, err := RiskLabelFromString(s)
		require.NoError(t, err)
		assert.Equal(t, s, label.String())
	}

	_, err := RiskLabelFromString("critical")
	assert.Error(t, err)
}
