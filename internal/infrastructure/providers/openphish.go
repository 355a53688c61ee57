package providers

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/shreyanshbahuguna/trustcheck-backend/internal/domain/port"
	"github.com/shreyanshbahuguna/trustcheck-backend/internal/domain/service"
	"github.com/shreyanshbahuguna/trustcheck-backend/internal/infrastructure/observability"
)

// FeedSnapshotStore persists a feed snapshot across restarts so a cold process
// can answer membership checks before its first successful feed fetch.
type FeedSnapshotStore interface {
	Load(ctx context.Context) ([]string, error)
	Store(ctx context.Context, domains []string) error
}

// FeedCacheConfig configures a FeedCache. Now may be nil, in which case
// time.Now is used.
type FeedCacheConfig struct {
	FeedURL         string
	RefreshInterval time.Duration
	HTTPClient      *http.Client
	Store           FeedSnapshotStore
	Logger          *slog.Logger
	Now             func() time.Time
}

// FeedCache implements port.PhishingFeed over the OpenPhish plaintext feed.
// The feed is fetched at most once per refresh interval regardless of request
// volume; concurrent refreshes collapse into a single fetch. A stale snapshot
// keeps serving when a refresh fails.
type FeedCache struct {
	feedURL         string
	refreshInterval time.Duration
	httpClient      *http.Client
	store           FeedSnapshotStore
	logger          *slog.Logger
	now             func() time.Time

	group singleflight.Group

	mu        sync.RWMutex
	domains   map[string]struct{}
	fetchedAt time.Time
}

func NewFeedCache(cfg FeedCacheConfig) *FeedCache {
	if cfg.HTTPClient == nil {
		cfg.HTTPClient = &http.Client{Timeout: 30 * time.Second}
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &FeedCache{
		feedURL:         cfg.FeedURL,
		refreshInterval: cfg.RefreshInterval,
		httpClient:      cfg.HTTPClient,
		store:           cfg.Store,
		logger:          cfg.Logger,
		now:             cfg.Now,
	}
}

// Contains reports whether the domain appears in the current feed snapshot.
func (c *FeedCache) Contains(ctx context.Context, domain string) (port.MembershipResult, error) {
	start := time.Now()
	result, err := c.contains(ctx, domain)
	observability.ObserveProviderCall(service.SourcePhishingFeed, start, err)
	return result, err
}

func (c *FeedCache) contains(ctx context.Context, domain string) (port.MembershipResult, error) {
	snapshot, err := c.snapshot(ctx)
	if err != nil {
		return port.MembershipResult{}, port.WrapProviderError(service.SourcePhishingFeed, err)
	}
	needle := strings.ToLower(strings.TrimSpace(domain))
	_, found := snapshot[needle]
	return port.MembershipResult{Found: found}, nil
}

// snapshot returns the current domain set, refreshing it when the interval has
// elapsed. Returns an error only when no snapshot is available at all.
func (c *FeedCache) snapshot(ctx context.Context) (map[string]struct{}, error) {
	c.mu.RLock()
	domains, fetchedAt := c.domains, c.fetchedAt
	c.mu.RUnlock()

	if domains != nil && c.now().Sub(fetchedAt) < c.refreshInterval {
		return domains, nil
	}

	refreshed, err, _ := c.group.Do("refresh", func() (interface{}, error) {
		return c.refresh(ctx)
	})
	if err != nil {
		return nil, err
	}
	return refreshed.(map[string]struct{}), nil
}

func (c *FeedCache) refresh(ctx context.Context) (map[string]struct{}, error) {
	// Re-check under the flight: another caller may have refreshed while we
	// waited on the singleflight key.
	c.mu.RLock()
	domains, fetchedAt := c.domains, c.fetchedAt
	c.mu.RUnlock()
	if domains != nil && c.now().Sub(fetchedAt) < c.refreshInterval {
		return domains, nil
	}

	fetched, err := c.fetch(ctx)
	if err != nil {
		if domains != nil {
			c.logger.WarnContext(ctx, "phishing feed refresh failed, serving stale snapshot",
				"error", err, "age", c.now().Sub(fetchedAt).String())
			return domains, nil
		}
		if c.store != nil {
			if warm, loadErr := c.loadWarmSnapshot(ctx); loadErr == nil {
				return warm, nil
			}
		}
		return nil, err
	}

	c.mu.Lock()
	c.domains = fetched
	c.fetchedAt = c.now()
	c.mu.Unlock()

	if c.store != nil {
		list := make([]string, 0, len(fetched))
		for domain := range fetched {
			list = append(list, domain)
		}
		if storeErr := c.store.Store(ctx, list); storeErr != nil {
			c.logger.WarnContext(ctx, "failed to persist feed snapshot", "error", storeErr)
		}
	}
	return fetched, nil
}

func (c *FeedCache) loadWarmSnapshot(ctx context.Context) (map[string]struct{}, error) {
	list, err := c.store.Load(ctx)
	if err != nil {
		return nil, err
	}
	warm := make(map[string]struct{}, len(list))
	for _, domain := range list {
		warm[domain] = struct{}{}
	}
	c.mu.Lock()
	c.domains = warm
	c.fetchedAt = c.now()
	c.mu.Unlock()
	c.logger.InfoContext(ctx, "phishing feed restored from warm snapshot", "domains", len(warm))
	return warm, nil
}

func (c *FeedCache) fetch(ctx context.Context) (map[string]struct{}, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.feedURL, nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("feed fetch failed (%d)", resp.StatusCode)
	}

	domains := parseFeed(resp.Body)
	c.logger.InfoContext(ctx, "phishing feed refreshed", "domains", len(domains))
	return domains, nil
}

// parseFeed reduces each feed line (one URL per line) to its bare lowercase
// hostname.
func parseFeed(r io.Reader) map[string]struct{} {
	domains := make(map[string]struct{})
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if idx := strings.Index(line, "://"); idx >= 0 {
			line = line[idx+3:]
		}
		if idx := strings.IndexByte(line, '/'); idx >= 0 {
			line = line[:idx]
		}
		if line == "" {
			continue
		}
		domains[strings.ToLower(line)] = struct{}{}
	}
	return domains
}
