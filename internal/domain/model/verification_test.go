package model

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shreyanshbahuguna/trustcheck-backend/internal/domain/event"
	"github.com/shreyanshbahuguna/trustcheck-backend/internal/domain/valueobject"
)

func testIdentifier(t *testing.T, raw string) Identifier {
	t.Helper()
	ident, err := NewIdentifier(raw, valueobject.ArtifactKind{})
	require.NoError(t, err)
	return ident
}

func TestNewVerification(t *testing.T) {
	v, err := NewVerification(testIdentifier(t, "example.com"))
	require.NoError(t, err)

	assert.NotEqual(t, uuid.Nil, v.ID())
	assert.True(t, v.Kind().Equal(valueobject.KindDomain))
	assert.Equal(t, "example.com", v.Value())
	assert.Equal(t, 0, v.Score())
	assert.True(t, v.Label().Equal(valueobject.LabelLow))
	assert.Empty(t, v.DomainEvents())
}

func TestNewVerificationRequiresClassifiedIdentifier(t *testing.T) {
	_, err := NewVerification(Identifier{Value: "example.com"})
	assert.Error(t, err)

	_, err = NewVerification(Identifier{Kind: valueobject.KindDomain})
	assert.Error(t, err)
}

func TestCompleteAppliesResultAndEmitsEvent(t *testing.T) {
	v, err := NewVerification(testIdentifier(t, "example.com"))
	require.NoError(t, err)

	result := ScoringResult{
		Score: 55,
		Label: "medium",
		Reasons: []Reason{
			{RuleID: "0", Points: 30, Message: "suspicious"},
			{RuleID: "1", Points: 25, Message: "age unknown"},
		},
	}
	require.NoError(t, v.Complete(result))

	assert.Equal(t, 55, v.Score())
	assert.True(t, v.Label().Equal(valueobject.LabelMedium))
	assert.Len(t, v.Reasons(), 2)
	assert.False(t, v.CompletedAt().IsZero())

	events := v.DomainEvents()
	require.Len(t, events, 1)
	completed, ok := events[0].(event.VerificationCompleted)
	require.True(t, ok)
	assert.Equal(t, v.ID(), completed.AggregateID())
	assert.Equal(t, 55, completed.Score)

	// Events drain on read.
	assert.Empty(t, v.DomainEvents())
}

func TestCompleteHighRiskEmitsSecondEvent(t *testing.T) {
	v, err := NewVerification(testIdentifier(t, "https://phish.example.com"))
	require.NoError(t, err)

	require.NoError(t, v.Complete(ScoringResult{Score: 80, Label: "high"}))

	events := v.DomainEvents()
	require.Len(t, events, 2)
	assert.Equal(t, "trustcheck.verification.completed", events[0].EventType())
	assert.Equal(t, "trustcheck.high_risk.detected", events[1].EventType())
}

func TestCompleteRejectsInvalidResults(t *testing.T) {
	v, err := NewVerification(testIdentifier(t, "example.com"))
	require.NoError(t, err)

	assert.Error(t, v.Complete(ScoringResult{Score: -1, Label: "low"}))
	assert.Error(t, v.Complete(ScoringResult{Score: 101, Label: "high"}))
	assert.Error(t, v.Complete(ScoringResult{Score: 50, Label: "severe"}))
}

func TestAppendEvidencePreservesOrder(t *testing.T) {
	v, err := NewVerification(testIdentifier(t, "example.com"))
	require.NoError(t, err)

	now := time.Now().UTC()
	v.AppendEvidence(
		EvidenceItem{Source: "news_api", CapturedAt: now},
		EvidenceItem{Source: "whois", CapturedAt: now},
	)
	v.AppendEvidence(EvidenceItem{Source: "openphish", CapturedAt: now})

	evidences := v.Evidences()
	require.Len(t, evidences, 3)
	assert.Equal(t, "news_api", evidences[0].Source)
	assert.Equal(t, "whois", evidences[1].Source)
	assert.Equal(t, "openphish", evidences[2].Source)
}

func TestReconstructEmitsNoEvents(t *testing.T) {
	id := uuid.New()
	v := Reconstruct(
		id, valueobject.KindDomain, "example.com", nil, nil,
		70, valueobject.LabelMedium, nil,
		time.Now().UTC(), time.Now().UTC(),
	)

	assert.Equal(t, id, v.ID())
	assert.Equal(t, 70, v.Score())
	assert.NotNil(t, v.Metadata())
	assert.Empty(t, v.DomainEvents())
}
