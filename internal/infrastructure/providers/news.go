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

// DefaultScamKeywords is the strict local filter applied on top of the news
// API's own relevancy ranking. An article counts only when the entity name and
// at least one keyword both appear in its title or description.
var DefaultScamKeywords = []string{
	"scam", "fraud", "ponzi", "fake", "phishing", "cheat", "cheating",
	"money laundering", "scam alert", "fraud case", "fraudster", "fake investment",
}

const newsMaxHeadlines = 3

// NewsClient implements port.NewsSearcher against the NewsAPI everything
// endpoint.
type NewsClient struct {
	httpClient *http.Client
	apiURL     string
	apiKey     string
	keywords   []string
	logger     *slog.Logger
}

func NewNewsClient(apiURL, apiKey string, keywords []string, timeout time.Duration, logger *slog.Logger) *NewsClient {
	if len(keywords) == 0 {
		keywords = DefaultScamKeywords
	}
	return &NewsClient{
		httpClient: &http.Client{Timeout: timeout},
		apiURL:     apiURL,
		apiKey:     apiKey,
		keywords:   keywords,
		logger:     logger,
	}
}

// Search queries recent coverage for the entity and keeps only articles that
// name the entity alongside a scam keyword.
func (c *NewsClient) Search(ctx context.Context, entity string) (port.NewsReport, error) {
	start := time.Now()
	report, err := c.search(ctx, entity)
	observability.ObserveProviderCall(service.SourceNews, start, err)
	return report, err
}

func (c *NewsClient) search(ctx context.Context, entity string) (port.NewsReport, error) {
	query := url.Values{
		"q":        {fmt.Sprintf("%q fraud OR scam", entity)},
		"language": {"en"},
		"sortBy":   {"relevancy"},
		"pageSize": {"20"},
		"apiKey":   {c.apiKey},
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.apiURL+"?"+query.Encode(), nil)
	if err != nil {
		return port.NewsReport{}, port.WrapProviderError(service.SourceNews, err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return port.NewsReport{}, port.WrapProviderError(service.SourceNews, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return port.NewsReport{}, port.NewProviderError(service.SourceNews,
			fmt.Sprintf("news search failed (%d)", resp.StatusCode))
	}

	var payload struct {
		Status   string `json:"status"`
		Articles []struct {
			Title       string `json:"title"`
			Description string `json:"description"`
		} `json:"articles"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return port.NewsReport{}, port.WrapProviderError(service.SourceNews, err)
	}
	if payload.Status != "ok" {
		return port.NewsReport{}, port.NewProviderError(service.SourceNews, "news API status "+payload.Status)
	}

	report := port.NewsReport{TotalArticles: len(payload.Articles)}
	needle := strings.ToLower(entity)
	for _, article := range payload.Articles {
		text := strings.ToLower(article.Title + " " + article.Description)
		if !strings.Contains(text, needle) {
			continue
		}
		if !c.containsKeyword(text) {
			continue
		}
		report.ScamRelated++
		if len(report.Headlines) < newsMaxHeadlines {
			report.Headlines = append(report.Headlines, article.Title)
		}
	}
	return report, nil
}

func (c *NewsClient) containsKeyword(text string) bool {
	for _, keyword := range c.keywords {
		if strings.Contains(text, keyword) {
			return true
		}
	}
	return false
}
