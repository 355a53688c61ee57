package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/shreyanshbahuguna/trustcheck-backend/internal/domain/port"
	"github.com/shreyanshbahuguna/trustcheck-backend/internal/domain/service"
	"github.com/shreyanshbahuguna/trustcheck-backend/internal/infrastructure/observability"
)

// VirusTotalClient implements port.URLScanner and port.DomainScanner against
// the VirusTotal v3 API. Responses are reduced to detection counts at this
// boundary; the full vendor payload never leaves the client.
type VirusTotalClient struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	logger     *slog.Logger
}

// NewVirusTotalClient creates a VirusTotal client. timeout bounds each HTTP
// request; the URL scan flow performs two.
func NewVirusTotalClient(baseURL, apiKey string, timeout time.Duration, logger *slog.Logger) *VirusTotalClient {
	return &VirusTotalClient{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		logger:     logger,
	}
}

type vtAnalysisStats struct {
	Malicious  int `json:"malicious"`
	Suspicious int `json:"suspicious"`
	Harmless   int `json:"harmless"`
	Undetected int `json:"undetected"`
}

// ScanURL submits a URL for analysis and retrieves the detection stats.
func (c *VirusTotalClient) ScanURL(ctx context.Context, rawURL string) (port.ReputationReport, error) {
	start := time.Now()
	report, err := c.scanURL(ctx, rawURL)
	observability.ObserveProviderCall(service.SourceURLReputation, start, err)
	return report, err
}

func (c *VirusTotalClient) scanURL(ctx context.Context, rawURL string) (port.ReputationReport, error) {
	form := url.Values{"url": {rawURL}}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/urls", strings.NewReader(form.Encode()))
	if err != nil {
		return port.ReputationReport{}, port.WrapProviderError(service.SourceURLReputation, err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("x-apikey", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return port.ReputationReport{}, port.WrapProviderError(service.SourceURLReputation, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return port.ReputationReport{}, port.NewProviderError(service.SourceURLReputation,
			fmt.Sprintf("URL submission failed (%d)", resp.StatusCode))
	}

	var submission struct {
		Data struct {
			ID string `json:"id"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&submission); err != nil {
		return port.ReputationReport{}, port.WrapProviderError(service.SourceURLReputation, err)
	}
	if submission.Data.ID == "" {
		return port.ReputationReport{}, port.NewProviderError(service.SourceURLReputation, "missing analysis id")
	}

	return c.fetchAnalysis(ctx, submission.Data.ID)
}

func (c *VirusTotalClient) fetchAnalysis(ctx context.Context, analysisID string) (port.ReputationReport, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/analyses/"+url.PathEscape(analysisID), nil)
	if err != nil {
		return port.ReputationReport{}, port.WrapProviderError(service.SourceURLReputation, err)
	}
	req.Header.Set("x-apikey", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return port.ReputationReport{}, port.WrapProviderError(service.SourceURLReputation, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return port.ReputationReport{}, port.NewProviderError(service.SourceURLReputation,
			fmt.Sprintf("analysis fetch failed (%d)", resp.StatusCode))
	}

	var analysis struct {
		Data struct {
			Attributes struct {
				Stats vtAnalysisStats `json:"stats"`
			} `json:"attributes"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&analysis); err != nil {
		return port.ReputationReport{}, port.WrapProviderError(service.SourceURLReputation, err)
	}

	stats := analysis.Data.Attributes.Stats
	return port.ReputationReport{
		Malicious:  stats.Malicious,
		Suspicious: stats.Suspicious,
		Harmless:   stats.Harmless,
		Undetected: stats.Undetected,
	}, nil
}

// ScanDomain retrieves a domain's reputation stats.
func (c *VirusTotalClient) ScanDomain(ctx context.Context, domain string) (port.ReputationReport, error) {
	start := time.Now()
	report, err := c.scanDomain(ctx, domain)
	observability.ObserveProviderCall(service.SourceDomainReputation, start, err)
	return report, err
}

func (c *VirusTotalClient) scanDomain(ctx context.Context, domain string) (port.ReputationReport, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/domains/"+url.PathEscape(domain), nil)
	if err != nil {
		return port.ReputationReport{}, port.WrapProviderError(service.SourceDomainReputation, err)
	}
	req.Header.Set("x-apikey", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return port.ReputationReport{}, port.WrapProviderError(service.SourceDomainReputation, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return port.ReputationReport{}, port.NewProviderError(service.SourceDomainReputation,
			fmt.Sprintf("domain check failed (%d)", resp.StatusCode))
	}

	var domainReport struct {
		Data struct {
			Attributes struct {
				LastAnalysisStats vtAnalysisStats `json:"last_analysis_stats"`
			} `json:"attributes"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&domainReport); err != nil {
		return port.ReputationReport{}, port.WrapProviderError(service.SourceDomainReputation, err)
	}

	stats := domainReport.Data.Attributes.LastAnalysisStats
	return port.ReputationReport{
		Malicious:  stats.Malicious,
		Suspicious: stats.Suspicious,
		Harmless:   stats.Harmless,
		Undetected: stats.Undetected,
	}, nil
}
