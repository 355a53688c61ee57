package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/shreyanshbahuguna/trustcheck-backend/internal/domain/port"
	"github.com/shreyanshbahuguna/trustcheck-backend/internal/domain/service"
	"github.com/shreyanshbahuguna/trustcheck-backend/internal/infrastructure/observability"
)

// WhoisClient implements port.RegistrationLookup against the WHOISXML API.
type WhoisClient struct {
	httpClient *http.Client
	apiURL     string
	apiKey     string
	logger     *slog.Logger
	now        func() time.Time
}

func NewWhoisClient(apiURL, apiKey string, timeout time.Duration, logger *slog.Logger) *WhoisClient {
	return &WhoisClient{
		httpClient: &http.Client{Timeout: timeout},
		apiURL:     apiURL,
		apiKey:     apiKey,
		logger:     logger,
		now:        time.Now,
	}
}

// Lookup fetches the registration record for a domain. Creation timestamps
// come back in several vendor formats; only the date portion is trusted.
func (c *WhoisClient) Lookup(ctx context.Context, domain string) (port.RegistrationRecord, error) {
	start := time.Now()
	record, err := c.lookup(ctx, domain)
	observability.ObserveProviderCall(service.SourceRegistration, start, err)
	return record, err
}

func (c *WhoisClient) lookup(ctx context.Context, domain string) (port.RegistrationRecord, error) {
	query := url.Values{
		"apiKey":       {c.apiKey},
		"domainName":   {domain},
		"outputFormat": {"JSON"},
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.apiURL+"?"+query.Encode(), nil)
	if err != nil {
		return port.RegistrationRecord{}, port.WrapProviderError(service.SourceRegistration, err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return port.RegistrationRecord{}, port.WrapProviderError(service.SourceRegistration, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return port.RegistrationRecord{}, port.NewProviderError(service.SourceRegistration,
			fmt.Sprintf("whois lookup failed (%d)", resp.StatusCode))
	}

	var payload struct {
		WhoisRecord struct {
			RegistrarName string `json:"registrarName"`
			CreatedDate   string `json:"createdDate"`
			RegistryData  struct {
				CreatedDate string `json:"createdDate"`
			} `json:"registryData"`
		} `json:"WhoisRecord"`
		ErrorMessage string `json:"ErrorMessage"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return port.RegistrationRecord{}, port.WrapProviderError(service.SourceRegistration, err)
	}
	if payload.ErrorMessage != "" {
		return port.RegistrationRecord{}, port.NewProviderError(service.SourceRegistration, payload.ErrorMessage)
	}

	created := payload.WhoisRecord.CreatedDate
	if created == "" {
		created = payload.WhoisRecord.RegistryData.CreatedDate
	}

	record := port.RegistrationRecord{
		Domain:    domain,
		Registrar: payload.WhoisRecord.RegistrarName,
	}
	if len(created) >= 10 {
		if createdAt, err := time.Parse("2006-01-02", created[:10]); err == nil {
			age := int(c.now().UTC().Sub(createdAt).Hours() / 24)
			record.CreatedAt = &createdAt
			record.AgeDays = &age
		}
	}
	return record, nil
}
