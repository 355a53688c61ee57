package port

import (
	"context"
	"fmt"
	"time"
)

// ProviderError is the typed failure every signal provider must return in
// place of raising transport, timeout or parsing faults into the collector.
// The collector converts it into unavailable evidence; it never aborts a run.
type ProviderError struct {
	Source string
	Detail string
}

// NewProviderError creates a ProviderError for the given provider.
func NewProviderError(source, detail string) *ProviderError {
	return &ProviderError{Source: source, Detail: detail}
}

// WrapProviderError converts an arbitrary error into a ProviderError.
func WrapProviderError(source string, err error) *ProviderError {
	return &ProviderError{Source: source, Detail: err.Error()}
}

// Error implements the error interface.
func (e *ProviderError) Error() string {
	return fmt.Sprintf("%s: %s", e.Source, e.Detail)
}

// ReputationReport is the normalized digest of a reputation scan: detection
// counts only, never the vendor's full payload.
type ReputationReport struct {
	Malicious  int `json:"malicious"`
	Suspicious int `json:"suspicious"`
	Harmless   int `json:"harmless"`
	Undetected int `json:"undetected"`
}

// RegistrationRecord is the normalized digest of a domain-registration
// lookup. AgeDays is nil when the registration date could not be determined.
type RegistrationRecord struct {
	Domain    string     `json:"domain"`
	Registrar string     `json:"registrar"`
	CreatedAt *time.Time `json:"creation_date"`
	AgeDays   *int       `json:"age_days"`
}

// NewsReport is the normalized digest of a news search: article counts after
// strict local scam-keyword filtering, plus up to a few matched headlines.
type NewsReport struct {
	TotalArticles int      `json:"total_articles"`
	ScamRelated   int      `json:"scam_related"`
	Headlines     []string `json:"headlines,omitempty"`
}

// MembershipResult is the normalized digest of a blacklist or feed lookup.
type MembershipResult struct {
	Found bool `json:"found"`
}

// RegistrySearchResult is the normalized digest of a company-registry search.
type RegistrySearchResult struct {
	Found     bool   `json:"found"`
	RecordURL string `json:"record_url,omitempty"`
}

// LenderRegistryResult is the normalized digest of an authorized-lender
// registry check.
type LenderRegistryResult struct {
	Authorized  bool   `json:"authorized"`
	MatchedName string `json:"matched_name,omitempty"`
}

// URLScanner checks a full URL against a reputation service.
type URLScanner interface {
	ScanURL(ctx context.Context, rawURL string) (ReputationReport, error)
}

// DomainScanner checks a bare domain against a reputation service.
type DomainScanner interface {
	ScanDomain(ctx context.Context, domain string) (ReputationReport, error)
}

// RegistrationLookup fetches domain-registration data.
type RegistrationLookup interface {
	Lookup(ctx context.Context, domain string) (RegistrationRecord, error)
}

// NewsSearcher searches news coverage for scam reports about an entity.
type NewsSearcher interface {
	Search(ctx context.Context, entity string) (NewsReport, error)
}

// BlacklistChecker checks a domain against phishing/malware blacklists.
type BlacklistChecker interface {
	Check(ctx context.Context, domain string) (MembershipResult, error)
}

// PhishingFeed checks membership in a periodically refreshed phishing feed
// snapshot. Implementations serve stale data when a refresh fails.
type PhishingFeed interface {
	Contains(ctx context.Context, domain string) (MembershipResult, error)
}

// CompanyRegistry searches the corporate registry for a company name.
type CompanyRegistry interface {
	Search(ctx context.Context, name string) (RegistrySearchResult, error)
}

// LenderRegistry checks whether a financial company appears on the
// authorized-lender list.
type LenderRegistry interface {
	Check(ctx context.Context, name string) (LenderRegistryResult, error)
}

// HostResolver resolves a hostname via DNS. Used by the redirector to decide
// whether a company name maps to a live domain.
type HostResolver interface {
	Resolve(ctx context.Context, host string) error
}
