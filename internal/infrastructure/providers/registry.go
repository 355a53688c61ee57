package providers

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/net/html"

	"github.com/shreyanshbahuguna/trustcheck-backend/internal/domain/port"
	"github.com/shreyanshbahuguna/trustcheck-backend/internal/domain/service"
	"github.com/shreyanshbahuguna/trustcheck-backend/internal/infrastructure/observability"
)

const (
	registrySearchURL  = "https://www.google.com/search"
	registryMarkerHref = "viewCompanyMasterData"
	registryUserAgent  = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36"
)

// CompanyRegistryClient implements port.CompanyRegistry. The MCA portal has no
// public search API, so presence is inferred from a scoped web search for the
// company's master-data page.
type CompanyRegistryClient struct {
	httpClient *http.Client
	logger     *slog.Logger
}

func NewCompanyRegistryClient(timeout time.Duration, logger *slog.Logger) *CompanyRegistryClient {
	return &CompanyRegistryClient{
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}
}

// Search looks for the company's registry record and, when found, returns the
// first master-data link.
func (c *CompanyRegistryClient) Search(ctx context.Context, company string) (port.RegistrySearchResult, error) {
	start := time.Now()
	result, err := c.search(ctx, company)
	observability.ObserveProviderCall(service.SourceCompanyRegistry, start, err)
	return result, err
}

func (c *CompanyRegistryClient) search(ctx context.Context, company string) (port.RegistrySearchResult, error) {
	query := url.Values{
		"q": {fmt.Sprintf(`site:mca.gov.in %q "Master Data"`, company)},
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, registrySearchURL+"?"+query.Encode(), nil)
	if err != nil {
		return port.RegistrySearchResult{}, port.WrapProviderError(service.SourceCompanyRegistry, err)
	}
	req.Header.Set("User-Agent", registryUserAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return port.RegistrySearchResult{}, port.WrapProviderError(service.SourceCompanyRegistry, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return port.RegistrySearchResult{}, port.NewProviderError(service.SourceCompanyRegistry,
			fmt.Sprintf("registry search failed (%d)", resp.StatusCode))
	}

	recordURL, found := findRegistryLink(resp.Body)
	return port.RegistrySearchResult{Found: found, RecordURL: recordURL}, nil
}

// findRegistryLink scans anchor hrefs for the master-data marker. Tokenizing
// is enough here; the result pages are not well-formed documents.
func findRegistryLink(r io.Reader) (string, bool) {
	tokenizer := html.NewTokenizer(r)
	for {
		switch tokenizer.Next() {
		case html.ErrorToken:
			return "", false
		case html.StartTagToken:
			name, hasAttr := tokenizer.TagName()
			if len(name) != 1 || name[0] != 'a' {
				continue
			}
			for hasAttr {
				var key, val []byte
				key, val, hasAttr = tokenizer.TagAttr()
				if string(key) == "href" && strings.Contains(string(val), registryMarkerHref) {
					return string(val), true
				}
			}
		}
	}
}
