package service

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shreyanshbahuguna/trustcheck-backend/internal/domain/model"
	"github.com/shreyanshbahuguna/trustcheck-backend/internal/domain/port"
	"github.com/shreyanshbahuguna/trustcheck-backend/internal/domain/valueobject"
)

// --- Mock providers ---

type mockURLScanner struct {
	report port.ReputationReport
	err    error
}

func (m *mockURLScanner) ScanURL(_ context.Context, _ string) (port.ReputationReport, error) {
	return m.report, m.err
}

type mockDomainScanner struct {
	report port.ReputationReport
	err    error
}

func (m *mockDomainScanner) ScanDomain(_ context.Context, _ string) (port.ReputationReport, error) {
	return m.report, m.err
}

type mockRegistrationLookup struct {
	record port.RegistrationRecord
	err    error
}

func (m *mockRegistrationLookup) Lookup(_ context.Context, _ string) (port.RegistrationRecord, error) {
	return m.record, m.err
}

type mockNewsSearcher struct {
	report port.NewsReport
	err    error
}

func (m *mockNewsSearcher) Search(_ context.Context, _ string) (port.NewsReport, error) {
	return m.report, m.err
}

type mockBlacklistChecker struct {
	result port.MembershipResult
	err    error
}

func (m *mockBlacklistChecker) Check(_ context.Context, _ string) (port.MembershipResult, error) {
	return m.result, m.err
}

type mockPhishingFeed struct {
	result port.MembershipResult
	err    error
}

func (m *mockPhishingFeed) Contains(_ context.Context, _ string) (port.MembershipResult, error) {
	return m.result, m.err
}

type mockCompanyRegistry struct {
	result port.RegistrySearchResult
	err    error
}

func (m *mockCompanyRegistry) Search(_ context.Context, _ string) (port.RegistrySearchResult, error) {
	return m.result, m.err
}

type mockLenderRegistry struct {
	result port.LenderRegistryResult
	err    error
}

func (m *mockLenderRegistry) Check(_ context.Context, _ string) (port.LenderRegistryResult, error) {
	return m.result, m.err
}

// --- Helpers ---

func intPtr(v int) *int { return &v }

func healthyProviders() Providers {
	return Providers{
		URLScanner:      &mockURLScanner{},
		News:            &mockNewsSearcher{},
		Registration:    &mockRegistrationLookup{record: port.RegistrationRecord{Registrar: "NameCheap", AgeDays: intPtr(4000)}},
		Blacklist:       &mockBlacklistChecker{},
		PhishingFeed:    &mockPhishingFeed{},
		DomainScanner:   &mockDomainScanner{},
		CompanyRegistry: &mockCompanyRegistry{},
		LenderRegistry:  &mockLenderRegistry{},
	}
}

func newTestCollector(t *testing.T, providers Providers) *Collector {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(testWriter{t}, &slog.HandlerOptions{Level: slog.LevelError}))
	return NewCollector(providers, nil, 2*time.Second, logger)
}

type testWriter struct{ t *testing.T }

func (w testWriter) Write(p []byte) (int, error) {
	w.t.Log(string(p))
	return len(p), nil
}

func mustIdentifier(t *testing.T, raw string, kind valueobject.ArtifactKind) model.Identifier {
	t.Helper()
	ident, err := model.NewIdentifier(raw, kind)
	require.NoError(t, err)
	return ident
}

// --- Tests ---

func TestCollectDomainRunProducesSixReasons(t *testing.T) {
	collector := newTestCollector(t, healthyProviders())
	ident := mustIdentifier(t, "example.com", valueobject.ArtifactKind{})

	evidences, reasons := collector.Collect(context.Background(), ident)

	// news, age, registrar, blacklist, feed, domain reputation.
	assert.Len(t, reasons, 6)
	assert.Len(t, evidences, 5)

	sources := make([]string, 0, len(evidences))
	for _, e := range evidences {
		sources = append(sources, e.Source)
	}
	assert.Equal(t, []string{
		SourceNews, SourceRegistration, SourceBlacklist, SourcePhishingFeed, SourceDomainReputation,
	}, sources)
}

func TestCollectURLRunProducesSevenReasons(t *testing.T) {
	collector := newTestCollector(t, healthyProviders())
	ident := mustIdentifier(t, "https://example.com/login", valueobject.ArtifactKind{})

	evidences, reasons := collector.Collect(context.Background(), ident)

	assert.Len(t, reasons, 7)
	require.Len(t, evidences, 6)
	assert.Equal(t, SourceURLReputation, evidences[0].Source)
}

func TestCollectRegistrationFailureScoresThreeReasons(t *testing.T) {
	providers := healthyProviders()
	providers.Registration = &mockRegistrationLookup{err: port.NewProviderError(SourceRegistration, "timeout")}
	collector := newTestCollector(t, providers)
	ident := mustIdentifier(t, "example.com", valueobject.ArtifactKind{})

	_, reasons := collector.Collect(context.Background(), ident)

	// The failed lookup contributes age-unknown, registrar-missing and the
	// lookup-error penalty; the run never shrinks below the healthy count.
	assert.Len(t, reasons, 7)

	total := 0
	for _, r := range reasons {
		total += r.Points
	}
	assert.Equal(t, 25+10+15, total)
}

func TestCollectPhishingFeedHitIsHighRisk(t *testing.T) {
	providers := healthyProviders()
	providers.PhishingFeed = &mockPhishingFeed{result: port.MembershipResult{Found: true}}
	collector := newTestCollector(t, providers)
	ident := mustIdentifier(t, "phish.example.com", valueobject.ArtifactKind{})

	_, reasons := collector.Collect(context.Background(), ident)
	result := NewReducer().Reduce(reasons)

	assert.GreaterOrEqual(t, result.Score, 75)
	assert.Equal(t, "high", result.Label)
}

func TestCollectProviderOutageNeverAbortsRun(t *testing.T) {
	providers := Providers{
		URLScanner:      &mockURLScanner{err: port.NewProviderError(SourceURLReputation, "down")},
		News:            &mockNewsSearcher{err: port.NewProviderError(SourceNews, "down")},
		Registration:    &mockRegistrationLookup{err: port.NewProviderError(SourceRegistration, "down")},
		Blacklist:       &mockBlacklistChecker{err: port.NewProviderError(SourceBlacklist, "down")},
		PhishingFeed:    &mockPhishingFeed{err: port.NewProviderError(SourcePhishingFeed, "down")},
		DomainScanner:   &mockDomainScanner{err: port.NewProviderError(SourceDomainReputation, "down")},
		CompanyRegistry: &mockCompanyRegistry{},
		LenderRegistry:  &mockLenderRegistry{},
	}
	collector := newTestCollector(t, providers)
	ident := mustIdentifier(t, "https://example.com", valueobject.ArtifactKind{})

	evidences, reasons := collector.Collect(context.Background(), ident)

	assert.NotEmpty(t, reasons)
	for _, e := range evidences {
		_, ok := e.Data.(model.ProviderUnavailable)
		assert.True(t, ok, "source %s should record unavailable evidence", e.Source)
	}
}

func TestCollectIsDeterministicAcrossRuns(t *testing.T) {
	providers := healthyProviders()
	providers.DomainScanner = &mockDomainScanner{report: port.ReputationReport{Suspicious: 2}}
	collector := newTestCollector(t, providers)
	ident := mustIdentifier(t, "https://example.com", valueobject.ArtifactKind{})

	_, first := collector.Collect(context.Background(), ident)
	for i := 0; i < 10; i++ {
		_, again := collector.Collect(context.Background(), ident)
		require.Equal(t, first, again)
	}
}

func TestCollectCompanyBranch(t *testing.T) {
	t.Run("non-financial name skips lender registry", func(t *testing.T) {
		collector := newTestCollector(t, healthyProviders())
		ident := mustIdentifier(t, "Acme Traders", valueobject.ArtifactKind{})

		evidences, reasons := collector.Collect(context.Background(), ident)

		assert.Len(t, reasons, 2)
		require.Len(t, evidences, 2)
		assert.Equal(t, SourceCompanyRegistry, evidences[0].Source)
		assert.Equal(t, SourceNews, evidences[1].Source)
	})

	t.Run("financial name runs lender registry", func(t *testing.T) {
		providers := healthyProviders()
		providers.CompanyRegistry = &mockCompanyRegistry{}
		providers.LenderRegistry = &mockLenderRegistry{}
		collector := newTestCollector(t, providers)
		ident := mustIdentifier(t, "XYZ Finance Pvt Ltd", valueobject.ArtifactKind{})

		evidences, reasons := collector.Collect(context.Background(), ident)

		require.Len(t, evidences, 3)
		assert.Equal(t, SourceLenderRegistry, evidences[1].Source)

		// Unregistered and unauthorized: 30 + 40 + 0 = 70, medium.
		result := NewReducer().Reduce(reasons)
		assert.Equal(t, 70, result.Score)
		assert.Equal(t, "medium", result.Label)
	})

	t.Run("registered authorized lender earns trust credits", func(t *testing.T) {
		providers := healthyProviders()
		providers.CompanyRegistry = &mockCompanyRegistry{result: port.RegistrySearchResult{Found: true}}
		providers.LenderRegistry = &mockLenderRegistry{result: port.LenderRegistryResult{Authorized: true, MatchedName: "Bajaj Finance Limited"}}
		collector := newTestCollector(t, providers)
		ident := mustIdentifier(t, "Bajaj Finance", valueobject.ArtifactKind{})

		_, reasons := collector.Collect(context.Background(), ident)
		result := NewReducer().Reduce(reasons)

		// -10 + -15 + 0 clamps to zero.
		assert.Equal(t, 0, result.Score)
		assert.Equal(t, "low", result.Label)
	})
}

func TestCollectUnsupportedKindYieldsNothing(t *testing.T) {
	collector := newTestCollector(t, healthyProviders())
	ident := mustIdentifier(t, "user@localhost", valueobject.ArtifactKind{})
	require.True(t, ident.Kind.Equal(valueobject.KindEmail))

	evidences, reasons := collector.Collect(context.Background(), ident)
	assert.Empty(t, evidences)
	assert.Empty(t, reasons)
}
