package usecase

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shreyanshbahuguna/trustcheck-backend/internal/application/dto"
	"github.com/shreyanshbahuguna/trustcheck-backend/internal/domain/model"
	"github.com/shreyanshbahuguna/trustcheck-backend/internal/domain/port"
	"github.com/shreyanshbahuguna/trustcheck-backend/internal/domain/service"
)

// --- Mock implementations ---

type mockArtifactRepo struct {
	saveErr error
	saved   []*model.Verification
	record  *port.ArtifactRecord
}

func (m *mockArtifactRepo) SaveVerification(_ context.Context, v *model.Verification) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.saved = append(m.saved, v)
	return nil
}

func (m *mockArtifactRepo) FindByID(_ context.Context, _ uuid.UUID) (*port.ArtifactRecord, error) {
	return m.record, nil
}

func (m *mockArtifactRepo) FindByValue(_ context.Context, _ string) (*port.ArtifactRecord, error) {
	return m.record, nil
}

func (m *mockArtifactRepo) CreateReport(_ context.Context, _ *port.UserReport) error {
	return nil
}

type mockPublisher struct {
	publishErr error
	published  []interface{}
}

func (m *mockPublisher) Publish(_ context.Context, events ...interface{}) error {
	if m.publishErr != nil {
		return m.publishErr
	}
	m.published = append(m.published, events...)
	return nil
}

type stubURLScanner struct{ report port.ReputationReport }

func (s *stubURLScanner) ScanURL(_ context.Context, _ string) (port.ReputationReport, error) {
	return s.report, nil
}

type stubDomainScanner struct{ report port.ReputationReport }

func (s *stubDomainScanner) ScanDomain(_ context.Context, _ string) (port.ReputationReport, error) {
	return s.report, nil
}

type stubRegistration struct{ record port.RegistrationRecord }

func (s *stubRegistration) Lookup(_ context.Context, _ string) (port.RegistrationRecord, error) {
	return s.record, nil
}

type stubNews struct{}

func (s *stubNews) Search(_ context.Context, _ string) (port.NewsReport, error) {
	return port.NewsReport{}, nil
}

type stubBlacklist struct{}

func (s *stubBlacklist) Check(_ context.Context, _ string) (port.MembershipResult, error) {
	return port.MembershipResult{}, nil
}

type stubFeed struct{ found bool }

func (s *stubFeed) Contains(_ context.Context, _ string) (port.MembershipResult, error) {
	return port.MembershipResult{Found: s.found}, nil
}

type stubRegistry struct{ found bool }

func (s *stubRegistry) Search(_ context.Context, _ string) (port.RegistrySearchResult, error) {
	return port.RegistrySearchResult{Found: s.found}, nil
}

type stubLender struct{ authorized bool }

func (s *stubLender) Check(_ context.Context, _ string) (port.LenderRegistryResult, error) {
	return port.LenderRegistryResult{Authorized: s.authorized}, nil
}

type stubResolver struct{ resolvable map[string]bool }

func (s *stubResolver) Resolve(_ context.Context, host string) error {
	if s.resolvable[host] {
		return nil
	}
	return fmt.Errorf("no such host: %s", host)
}

// --- Helpers ---

func intPtr(v int) *int { return &v }

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type deps struct {
	repo      *mockArtifactRepo
	publisher *mockPublisher
	resolver  *stubResolver
}

func newVerifyUC(t *testing.T, d deps) *VerifyArtifact {
	t.Helper()
	if d.repo == nil {
		d.repo = &mockArtifactRepo{}
	}
	if d.publisher == nil {
		d.publisher = &mockPublisher{}
	}
	if d.resolver == nil {
		d.resolver = &stubResolver{}
	}

	providers := service.Providers{
		URLScanner:      &stubURLScanner{},
		News:            &stubNews{},
		Registration:    &stubRegistration{record: port.RegistrationRecord{Registrar: "GoDaddy", AgeDays: intPtr(4000)}},
		Blacklist:       &stubBlacklist{},
		PhishingFeed:    &stubFeed{},
		DomainScanner:   &stubDomainScanner{},
		CompanyRegistry: &stubRegistry{},
		LenderRegistry:  &stubLender{},
	}

	logger := quietLogger()
	collector := service.NewCollector(providers, nil, time.Second, logger)
	redirector := service.NewRedirector(d.resolver, time.Second, logger)
	return NewVerifyArtifact(collector, service.NewReducer(), redirector, d.repo, d.publisher, logger)
}

// --- Tests ---

func TestVerifyDomainHappyPath(t *testing.T) {
	repo := &mockArtifactRepo{}
	publisher := &mockPublisher{}
	uc := newVerifyUC(t, deps{repo: repo, publisher: publisher})

	resp, err := uc.Execute(context.Background(), dto.VerifyRequest{Query: "example.com"})

	require.NoError(t, err)
	assert.Equal(t, "domain", resp.ArtifactKind)
	assert.Equal(t, "example.com", resp.ArtifactValue)
	assert.Equal(t, 0, resp.Scoring.Score)
	assert.Equal(t, "low", resp.Scoring.Label)
	assert.Len(t, resp.Scoring.Reasons, 6)
	assert.Equal(t, "example.com", resp.Metadata["registrable_domain"])

	require.Len(t, repo.saved, 1)
	require.Len(t, publisher.published, 1)
}

func TestVerifyEmptyQueryIsTerminal(t *testing.T) {
	uc := newVerifyUC(t, deps{})

	_, err := uc.Execute(context.Background(), dto.VerifyRequest{Query: "   "})
	assert.ErrorIs(t, err, model.ErrEmptyQuery)
}

func TestVerifyInvalidPinnedType(t *testing.T) {
	uc := newVerifyUC(t, deps{})

	_, err := uc.Execute(context.Background(), dto.VerifyRequest{Query: "example.com", Type: "ip"})
	assert.Error(t, err)
}

func TestVerifyCompanyRedirectsToResolvableDomain(t *testing.T) {
	uc := newVerifyUC(t, deps{resolver: &stubResolver{resolvable: map[string]bool{"acmetraders.com": true}}})

	resp, err := uc.Execute(context.Background(), dto.VerifyRequest{Query: "Acme Traders"})

	require.NoError(t, err)
	// The run proceeds as a domain verification for the slug-derived host.
	assert.Equal(t, "domain", resp.ArtifactKind)
	assert.Equal(t, "acmetraders.com", resp.ArtifactValue)
	assert.Len(t, resp.Scoring.Reasons, 6)
}

func TestVerifyUnresolvableFinancialCompany(t *testing.T) {
	uc := newVerifyUC(t, deps{})

	resp, err := uc.Execute(context.Background(), dto.VerifyRequest{Query: "XYZ Finance Pvt Ltd"})

	require.NoError(t, err)
	assert.Equal(t, "company", resp.ArtifactKind)
	// Not registered (30) and not an authorized lender (40), no scam news.
	assert.Equal(t, 70, resp.Scoring.Score)
	assert.Equal(t, "medium", resp.Scoring.Label)
}

func TestVerifyUnsupportedKindReturnsPlaceholder(t *testing.T) {
	uc := newVerifyUC(t, deps{})

	resp, err := uc.Execute(context.Background(), dto.VerifyRequest{Query: "9876543210"})

	require.NoError(t, err)
	assert.Equal(t, "phone", resp.ArtifactKind)
	assert.Equal(t, 0, resp.Scoring.Score)
	assert.Equal(t, "low", resp.Scoring.Label)
	require.Len(t, resp.Scoring.Reasons, 1)
	assert.Equal(t, "Type 'phone' not supported", resp.Scoring.Reasons[0].Message)
	assert.Empty(t, resp.Evidences)
}

func TestVerifyPinnedTypeOverridesClassification(t *testing.T) {
	uc := newVerifyUC(t, deps{})

	resp, err := uc.Execute(context.Background(), dto.VerifyRequest{Query: "Acme Traders", Type: "company"})
	require.NoError(t, err)
	assert.Equal(t, "company", resp.ArtifactKind)
}

func TestVerifyPersistenceFailureStillReturnsResult(t *testing.T) {
	repo := &mockArtifactRepo{saveErr: fmt.Errorf("connection refused")}
	uc := newVerifyUC(t, deps{repo: repo})

	resp, err := uc.Execute(context.Background(), dto.VerifyRequest{Query: "example.com"})

	require.NoError(t, err)
	assert.Equal(t, "low", resp.Scoring.Label)
}

func TestVerifyPublishFailureStillReturnsResult(t *testing.T) {
	publisher := &mockPublisher{publishErr: fmt.Errorf("broker down")}
	uc := newVerifyUC(t, deps{publisher: publisher})

	resp, err := uc.Execute(context.Background(), dto.VerifyRequest{Query: "example.com"})

	require.NoError(t, err)
	assert.Equal(t, "example.com", resp.ArtifactValue)
}
