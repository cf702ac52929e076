// Package ingest turns remote or local documents into the structural
// input the engine consumes: source items, chunks, and extractor
// proposals assembled into an extraction batch.
package ingest

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/factline/factline/internal/cache"
	"github.com/factline/factline/internal/model"
	"github.com/factline/factline/internal/util"
)

// Fetcher fetches document bodies over HTTP with robots.txt compliance,
// per-host rate limiting, and an optional fetch cache
type Fetcher struct {
	httpClient *http.Client
	userAgent  string
	maxBytes   int64
	robots     *RobotsChecker
	limiter    *util.HostLimiter
	cache      cache.Cache
}

// NewFetcher creates a fetcher from HTTP configuration. A nil cache
// disables caching.
func NewFetcher(cfg model.HTTPConfig, fetchCache cache.Cache) *Fetcher {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 2 * time.Minute
	}
	ratePerHost := cfg.RatePerHost
	if ratePerHost <= 0 {
		ratePerHost = 1.0
	}

	return &Fetcher{
		httpClient: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				Proxy: util.ProxyFunc(cfg.HTTPProxy, cfg.HTTPSProxy, cfg.NoProxy),
			},
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= 3 {
					return fmt.Errorf("stopped after 3 redirects")
				}
				return nil
			},
		},
		userAgent: cfg.UserAgent,
		maxBytes:  cfg.MaxBodyBytes,
		robots:    NewRobotsChecker(util.NormalizeUserAgent(cfg.UserAgent), timeout),
		limiter:   util.NewHostLimiter(ratePerHost, 3),
		cache:     fetchCache,
	}
}

// FetchResult is a fetched document body plus identity metadata
type FetchResult struct {
	Body        string
	FinalURL    string
	ContentType string
	DocumentID  string
	FromCache   bool
}

// Fetch retrieves a document, honoring robots.txt and the per-host rate
// limit. Cached bodies skip both.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) (*FetchResult, error) {
	if f.cache != nil {
		if body, found := f.cache.Get(cache.Key(rawURL)); found {
			return &FetchResult{
				Body:       string(body),
				FinalURL:   rawURL,
				DocumentID: DocumentID(rawURL),
				FromCache:  true,
			}, nil
		}
	}

	allowed, crawlDelay, err := f.robots.CanFetch(ctx, rawURL)
	if err != nil {
		return nil, fmt.Errorf("robots check: %w", err)
	}
	if !allowed {
		return nil, fmt.Errorf("robots.txt disallows fetching %s", rawURL)
	}

	if err := f.limiter.WaitWithDelay(ctx, rawURL, crawlDelay); err != nil {
		return nil, fmt.Errorf("rate limit: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("unexpected status: %d %s", resp.StatusCode, resp.Status)
	}

	maxBytes := f.maxBytes
	if maxBytes <= 0 {
		maxBytes = 2_000_000
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBytes))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}

	if f.cache != nil {
		_ = f.cache.Set(cache.Key(rawURL), body, 0)
	}

	finalURL := resp.Request.URL.String()
	return &FetchResult{
		Body:        string(body),
		FinalURL:    finalURL,
		ContentType: resp.Header.Get("Content-Type"),
		DocumentID:  DocumentID(finalURL),
	}, nil
}

// DocumentID derives a stable, readable document id from a URL
func DocumentID(rawURL string) string {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return slug(rawURL)
	}
	path := strings.Trim(parsed.Path, "/")
	if path == "" {
		return slug(parsed.Host)
	}
	return slug(parsed.Host + "_" + path)
}

func slug(s string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			return r
		case r >= 'A' && r <= 'Z':
			return r + ('a' - 'A')
		case r == '-' || r == '_' || r == '.':
			return r
		default:
			return '_'
		}
	}, s)
}
