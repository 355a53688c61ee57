package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/shreyanshbahuguna/trustcheck-backend/internal/domain/model"
	"github.com/shreyanshbahuguna/trustcheck-backend/internal/domain/port"
	"github.com/shreyanshbahuguna/trustcheck-backend/internal/domain/valueobject"
)

// Evidence source identifiers, one per signal provider. Evidence items carry
// these so downstream consumers can tell signals apart without knowing
// provider schemas.
const (
	SourceURLReputation    = "virustotal_url"
	SourceNews             = "news_api"
	SourceRegistration     = "whois"
	SourceBlacklist        = "phishing"
	SourcePhishingFeed     = "openphish"
	SourceDomainReputation = "virustotal_domain"
	SourceCompanyRegistry  = "mca"
	SourceLenderRegistry   = "rbi"
)

// DefaultFinancialKeywords gates the authorized-lender registry check:
// the check only runs when a company name contains one of these
// (case-insensitive substring match).
var DefaultFinancialKeywords = []string{
	"finance", "capital", "nbfc", "bank", "credit", "loan", "securities",
	"asset", "fund", "mutual", "nidhi",
}

// Providers bundles the signal providers the collector can invoke.
type Providers struct {
	URLScanner      port.URLScanner
	News            port.NewsSearcher
	Registration    port.RegistrationLookup
	Blacklist       port.BlacklistChecker
	PhishingFeed    port.PhishingFeed
	DomainScanner   port.DomainScanner
	CompanyRegistry port.CompanyRegistry
	LenderRegistry  port.LenderRegistry
}

// Collector fans out to the provider set applicable to an identifier's kind
// and gathers evidence and reasons in the canonical provider order. Provider
// calls run concurrently, each bounded by its own timeout; a failing provider
// is recorded as unavailable evidence with its penalty reason and never
// aborts the batch. Results are re-assembled in declaration order so that
// evidence ordering and reason ordinals are reproducible across runs.
type Collector struct {
	providers         Providers
	financialKeywords []string
	callTimeout       time.Duration
	logger            *slog.Logger
	now               func() time.Time
}

// NewCollector creates a Collector. financialKeywords may be nil to use
// DefaultFinancialKeywords.
func NewCollector(providers Providers, financialKeywords []string, callTimeout time.Duration, logger *slog.Logger) *Collector {
	if len(financialKeywords) == 0 {
		financialKeywords = DefaultFinancialKeywords
	}
	if callTimeout <= 0 {
		callTimeout = 10 * time.Second
	}
	return &Collector{
		providers:         providers,
		financialKeywords: financialKeywords,
		callTimeout:       callTimeout,
		logger:            logger,
		now:               func() time.Time { return time.Now().UTC() },
	}
}

// signalResult holds one signal's contribution. The registration signal may
// produce more than one reason (age, registrar, lookup error); all others
// contribute exactly one.
type signalResult struct {
	evidences []model.EvidenceItem
	reasons   []model.Reason
}

type signalFunc func(ctx context.Context) signalResult

// Collect gathers evidence and scored reasons for the identifier. The caller
// is responsible for redirect handling; company identifiers reaching Collect
// run the company branch as-is.
func (c *Collector) Collect(ctx context.Context, ident model.Identifier) ([]model.EvidenceItem, []model.Reason) {
	var signals []signalFunc

	switch {
	case ident.Kind.Equal(valueobject.KindURL), ident.Kind.Equal(valueobject.KindDomain):
		signals = c.domainSignals(ident)
	case ident.Kind.Equal(valueobject.KindCompany):
		signals = c.companySignals(ident)
	default:
		return nil, nil
	}

	return c.run(ctx, signals)
}

// run executes the signals concurrently and flattens results back into the
// canonical declaration order.
func (c *Collector) run(ctx context.Context, signals []signalFunc) ([]model.EvidenceItem, []model.Reason) {
	results := make([]signalResult, len(signals))

	g, gctx := errgroup.WithContext(ctx)
	for i, sig := range signals {
		i, sig := i, sig
		g.Go(func() error {
			callCtx, cancel := context.WithTimeout(gctx, c.callTimeout)
			defer cancel()
			results[i] = sig(callCtx)
			return nil
		})
	}
	// Signal funcs never return errors; Wait only synchronizes completion.
	_ = g.Wait()

	var evidences []model.EvidenceItem
	var reasons []model.Reason
	for _, res := range results {
		evidences = append(evidences, res.evidences...)
		reasons = append(reasons, res.reasons...)
	}
	return evidences, reasons
}

// domainSignals is the canonical signal order for url and domain runs. The
// URL reputation scan runs only for url kind; everything else is shared.
func (c *Collector) domainSignals(ident model.Identifier) []signalFunc {
	domain := ident.Value

	var signals []signalFunc
	if ident.Kind.Equal(valueobject.KindURL) {
		signals = append(signals, c.urlReputationSignal(ident.Raw))
	}
	signals = append(signals,
		c.newsSignal(domain),
		c.registrationSignal(domain),
		c.blacklistSignal(domain),
		c.phishingFeedSignal(domain),
		c.domainReputationSignal(domain),
	)
	return signals
}

// companySignals is the canonical signal order for company runs. The lender
// registry check only applies when the name matches a financial keyword.
func (c *Collector) companySignals(ident model.Identifier) []signalFunc {
	name := ident.Value

	signals := []signalFunc{c.companyRegistrySignal(name)}
	if c.isFinancialName(name) {
		signals = append(signals, c.lenderRegistrySignal(name))
	}
	signals = append(signals, c.companyNewsSignal(name))
	return signals
}

func (c *Collector) isFinancialName(name string) bool {
	lower := strings.ToLower(name)
	for _, kw := range c.financialKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

// --- Domain/URL branch signals ---

func (c *Collector) urlReputationSignal(rawURL string) signalFunc {
	return func(ctx context.Context) signalResult {
		report, err := c.providers.URLScanner.ScanURL(ctx, rawURL)
		if err != nil {
			return c.unavailable(SourceURLReputation, err, "URL reputation scan unavailable")
		}

		var reason model.Reason
		switch {
		case report.Malicious > 0:
			reason = model.Reason{
				Points:  pointsReputationMalicious,
				Message: fmt.Sprintf("URL flagged malicious by %d engines.", report.Malicious),
			}
		case report.Suspicious > 0:
			reason = model.Reason{
				Points:  pointsReputationSuspicious,
				Message: fmt.Sprintf("URL flagged suspicious by %d engines.", report.Suspicious),
			}
		default:
			reason = model.Reason{Points: 0, Message: "URL reputation scan clean."}
		}

		return signalResult{
			evidences: []model.EvidenceItem{c.evidence(SourceURLReputation, report)},
			reasons:   []model.Reason{reason},
		}
	}
}

func (c *Collector) newsSignal(domain string) signalFunc {
	return func(ctx context.Context) signalResult {
		report, err := c.providers.News.Search(ctx, domain)
		if err != nil {
			return c.unavailable(SourceNews, err, "News search unavailable")
		}

		reason := model.Reason{Points: 0, Message: "No scam news detected."}
		if report.ScamRelated > 0 {
			reason = model.Reason{
				Points:  pointsNewsScamReported,
				Message: fmt.Sprintf("News reports indicate scam/fraud (%d articles).", report.ScamRelated),
			}
		}

		return signalResult{
			evidences: []model.EvidenceItem{c.evidence(SourceNews, report)},
			reasons:   []model.Reason{reason},
		}
	}
}

// registrationSignal always contributes an age reason and a registrar reason,
// plus a lookup-error reason when the provider failed. A failed lookup thus
// scores age-unknown, registrar-missing and the error penalty together.
func (c *Collector) registrationSignal(domain string) signalFunc {
	return func(ctx context.Context) signalResult {
		record, err := c.providers.Registration.Lookup(ctx, domain)
		if err != nil {
			return signalResult{
				evidences: []model.EvidenceItem{c.evidence(SourceRegistration, model.ProviderUnavailable{Error: err.Error()})},
				reasons: []model.Reason{
					{Points: pointsAgeUnknown, Message: "Cannot determine domain age."},
					{Points: pointsRegistrarMissing, Message: "Registrar missing."},
					{Points: pointsRegistrationErrored, Message: fmt.Sprintf("Registration lookup error: %s", err.Error())},
				},
			}
		}

		reasons := []model.Reason{ageReason(record.AgeDays)}
		if record.Registrar == "" {
			reasons = append(reasons, model.Reason{Points: pointsRegistrarMissing, Message: "Registrar missing."})
		} else {
			reasons = append(reasons, model.Reason{Points: 0, Message: "Registrar on record."})
		}

		return signalResult{
			evidences: []model.EvidenceItem{c.evidence(SourceRegistration, record)},
			reasons:   reasons,
		}
	}
}

func ageReason(ageDays *int) model.Reason {
	if ageDays == nil {
		return model.Reason{Points: pointsAgeUnknown, Message: "Cannot determine domain age."}
	}
	switch age := *ageDays; {
	case age < 30:
		return model.Reason{Points: pointsAgeUnder30Days, Message: "Domain <30 days old."}
	case age < 90:
		return model.Reason{Points: pointsAgeUnder90Days, Message: "Domain <3 months old."}
	case age < 365:
		return model.Reason{Points: pointsAgeUnder1Year, Message: "Domain <1 year old."}
	case age < 365*5:
		return model.Reason{Points: pointsAgeUnder5Years, Message: "Domain <5 years old."}
	default:
		return model.Reason{Points: 0, Message: "Domain >5 years old."}
	}
}

func (c *Collector) blacklistSignal(domain string) signalFunc {
	return func(ctx context.Context) signalResult {
		result, err := c.providers.Blacklist.Check(ctx, domain)
		if err != nil {
			return c.unavailable(SourceBlacklist, err, "Blacklist check unavailable")
		}

		reason := model.Reason{Points: 0, Message: "No phishing blacklist hits."}
		if result.Found {
			reason = model.Reason{Points: pointsBlacklistHit, Message: "Phishing blacklist match!"}
		}

		return signalResult{
			evidences: []model.EvidenceItem{c.evidence(SourceBlacklist, result)},
			reasons:   []model.Reason{reason},
		}
	}
}

func (c *Collector) phishingFeedSignal(domain string) signalFunc {
	return func(ctx context.Context) signalResult {
		result, err := c.providers.PhishingFeed.Contains(ctx, domain)
		if err != nil {
			return c.unavailable(SourcePhishingFeed, err, "Phishing feed unavailable")
		}

		reason := model.Reason{Points: 0, Message: "Not found in phishing feed."}
		if result.Found {
			reason = model.Reason{
				Points:  pointsPhishingFeedHit,
				Message: "Domain appears in phishing feed (confirmed phishing).",
			}
		}

		return signalResult{
			evidences: []model.EvidenceItem{c.evidence(SourcePhishingFeed, result)},
			reasons:   []model.Reason{reason},
		}
	}
}

func (c *Collector) domainReputationSignal(domain string) signalFunc {
	return func(ctx context.Context) signalResult {
		report, err := c.providers.DomainScanner.ScanDomain(ctx, domain)
		if err != nil {
			return c.unavailable(SourceDomainReputation, err, "Domain reputation scan unavailable")
		}

		var reason model.Reason
		switch {
		case report.Malicious > 0:
			reason = model.Reason{
				Points:  pointsReputationMalicious,
				Message: fmt.Sprintf("Domain flagged malicious by %d engines.", report.Malicious),
			}
		case report.Suspicious > 0:
			reason = model.Reason{
				Points:  pointsReputationSuspicious,
				Message: fmt.Sprintf("Domain flagged suspicious by %d engines.", report.Suspicious),
			}
		default:
			reason = model.Reason{Points: 0, Message: "Domain reputation scan clean."}
		}

		return signalResult{
			evidences: []model.EvidenceItem{c.evidence(SourceDomainReputation, report)},
			reasons:   []model.Reason{reason},
		}
	}
}

// --- Company branch signals ---

func (c *Collector) companyRegistrySignal(name string) signalFunc {
	return func(ctx context.Context) signalResult {
		result, err := c.providers.CompanyRegistry.Search(ctx, name)
		if err != nil {
			// An unreachable registry scores the same as an absent record.
			return signalResult{
				evidences: []model.EvidenceItem{c.evidence(SourceCompanyRegistry, model.ProviderUnavailable{Error: err.Error()})},
				reasons:   []model.Reason{{Points: pointsRegistryNotFound, Message: "Company not found in corporate registry."}},
			}
		}

		reason := model.Reason{Points: pointsRegistryNotFound, Message: "Company not found in corporate registry."}
		if result.Found {
			reason = model.Reason{Points: pointsRegistryFound, Message: "Company found in corporate registry."}
		}

		return signalResult{
			evidences: []model.EvidenceItem{c.evidence(SourceCompanyRegistry, result)},
			reasons:   []model.Reason{reason},
		}
	}
}

func (c *Collector) lenderRegistrySignal(name string) signalFunc {
	return func(ctx context.Context) signalResult {
		result, err := c.providers.LenderRegistry.Check(ctx, name)
		if err != nil {
			return signalResult{
				evidences: []model.EvidenceItem{c.evidence(SourceLenderRegistry, model.ProviderUnavailable{Error: err.Error()})},
				reasons:   []model.Reason{{Points: pointsLenderNotListed, Message: "Not in authorized-lender registry."}},
			}
		}

		reason := model.Reason{Points: pointsLenderNotListed, Message: "Not in authorized-lender registry."}
		if result.Authorized {
			reason = model.Reason{Points: pointsLenderAuthorized, Message: "Listed in authorized-lender registry."}
		}

		return signalResult{
			evidences: []model.EvidenceItem{c.evidence(SourceLenderRegistry, result)},
			reasons:   []model.Reason{reason},
		}
	}
}

func (c *Collector) companyNewsSignal(name string) signalFunc {
	return func(ctx context.Context) signalResult {
		report, err := c.providers.News.Search(ctx, name)
		if err != nil {
			return c.unavailable(SourceNews, err, "News search unavailable")
		}

		reason := model.Reason{Points: 0, Message: "No scam-related news."}
		if report.ScamRelated > 0 {
			reason = model.Reason{Points: pointsNewsScamReported, Message: "Scam-related news detected."}
		}

		return signalResult{
			evidences: []model.EvidenceItem{c.evidence(SourceNews, report)},
			reasons:   []model.Reason{reason},
		}
	}
}

// --- Helpers ---

func (c *Collector) evidence(source string, data any) model.EvidenceItem {
	return model.EvidenceItem{Source: source, Data: data, CapturedAt: c.now()}
}

// unavailable records a failed provider as evidence and a zero-point reason
// explaining the absence, so the signal is never silently omitted.
func (c *Collector) unavailable(source string, err error, message string) signalResult {
	c.logger.Warn("signal provider unavailable",
		slog.String("source", source),
		slog.String("error", err.Error()),
	)
	return signalResult{
		evidences: []model.EvidenceItem{c.evidence(source, model.ProviderUnavailable{Error: err.Error()})},
		reasons:   []model.Reason{{Points: 0, Message: fmt.Sprintf("%s: %s", message, err.Error())}},
	}
}
