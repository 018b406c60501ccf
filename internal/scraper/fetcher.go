package scraper

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math/rand/v2"
	"net/http"
	"net/url"
	"time"

	"github.com/ppiankov/crisiswatch/internal/cache"
	"github.com/ppiankov/crisiswatch/internal/model"
)

// fetchSleepFunc is swapped out in tests so retry backoff doesn't slow
// the suite down.
var fetchSleepFunc = time.Sleep

// maxCrawlDelay caps the robots.txt Crawl-delay we honor. Some sites
// declare delays of minutes, which would starve a refresh cycle.
const maxCrawlDelay = 10 * time.Second

// StatusError is a non-2xx HTTP response.
type StatusError struct {
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status: %d", e.Code)
}

// Permanent reports whether retrying is pointless: auth rejections never
// clear up within a refresh cycle.
func (e *StatusError) Permanent() bool {
	return e.Code == http.StatusUnauthorized || e.Code == http.StatusForbidden
}

// Fetcher is the shared HTTP helper used by every scraper variant:
// rotating User-Agent pool, fixed per-request timeout, bounded retries
// with a short fixed backoff, 401/403 short-circuit, per-host rate
// limiting, optional robots.txt compliance, and a brief response cache
// so two variants hitting the same URL within one refresh window share
// a single download.
type Fetcher struct {
	client     *http.Client
	cache      cache.Cache
	cacheTTL   time.Duration
	limiter    *HostLimiter
	robots     *RobotsChecker // nil when compliance is disabled
	userAgents []string
	maxRetries int
	backoff    time.Duration
	maxBytes   int64
	logger     *slog.Logger
	cacheEvent func(result string) // "hit" or "miss", nil when unobserved
}

// NewFetcher builds a Fetcher from the HTTP configuration. respCache may
// be nil to disable response caching (tests mostly do).
func NewFetcher(cfg model.HTTPConfig, respCache cache.Cache, cacheTTL time.Duration, logger *slog.Logger) *Fetcher {
	if logger == nil {
		logger = slog.Default()
	}
	f := &Fetcher{
		client: &http.Client{
			Timeout:   cfg.Timeout,
			Transport: &http.Transport{Proxy: proxyFunc(cfg.HTTPProxy, cfg.HTTPSProxy)},
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= 3 {
					return fmt.Errorf("stopped after 3 redirects")
				}
				return nil
			},
		},
		cache:      respCache,
		cacheTTL:   cacheTTL,
		userAgents: cfg.UserAgents,
		maxRetries: cfg.MaxRetries,
		backoff:    cfg.RetryBackoff,
		maxBytes:   cfg.MaxBodyBytes,
		logger:     logger,
	}
	if f.maxRetries <= 0 {
		f.maxRetries = 2
	}
	if f.backoff <= 0 {
		f.backoff = 500 * time.Millisecond
	}
	if f.maxBytes <= 0 {
		f.maxBytes = 4 << 20
	}
	if cfg.PerHostRPS > 0 {
		f.limiter = NewHostLimiter(cfg.PerHostRPS, cfg.PerHostBurst)
	}
	if cfg.RespectRobots {
		f.robots = NewRobotsChecker(f.userAgent(), cfg.Timeout)
	}
	return f
}

// OnCacheLookup registers a callback invoked with the result of every
// response-cache lookup. Used to feed the cache hit/miss counter.
func (f *Fetcher) OnCacheLookup(fn func(result string)) {
	f.cacheEvent = fn
}

func (f *Fetcher) observeCache(result string) {
	if f.cacheEvent != nil {
		f.cacheEvent(result)
	}
}

// Fetch retrieves the URL with the standard header set.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) ([]byte, error) {
	return f.FetchWithHeaders(ctx, rawURL, nil)
}

// FetchWithHeaders retrieves the URL, merging extra headers over the
// standard set. Responses are served from and stored into the shared
// response cache.
func (f *Fetcher) FetchWithHeaders(ctx context.Context, rawURL string, extra map[string]string) ([]byte, error) {
	key := cache.Key(rawURL)
	if f.cache != nil {
		if body, ok := f.cache.Get(key); ok {
			f.observeCache("hit")
			return body, nil
		}
		f.observeCache("miss")
	}

	if f.robots != nil {
		allowed, crawlDelay, err := f.robots.CanFetch(ctx, rawURL)
		if err == nil && !allowed {
			return nil, fmt.Errorf("disallowed by robots.txt: %s", rawURL)
		}
		if crawlDelay > maxCrawlDelay {
			crawlDelay = maxCrawlDelay
		}
		if crawlDelay > 0 {
			fetchSleepFunc(crawlDelay)
		}
	}
	if f.limiter != nil {
		if err := f.limiter.Wait(ctx, rawURL); err != nil {
			return nil, fmt.Errorf("rate limit wait: %w", err)
		}
	}

	var lastErr error
	for attempt := 1; attempt <= f.maxRetries; attempt++ {
		body, err := f.do(ctx, rawURL, extra)
		if err == nil {
			if f.cache != nil {
				f.cache.Set(key, body, f.cacheTTL)
			}
			return body, nil
		}
		lastErr = err

		var se *StatusError
		if errors.As(err, &se) && se.Permanent() {
			break
		}
		if ctx.Err() != nil {
			break
		}
		f.logger.Warn("fetch attempt failed",
			"url", rawURL, "attempt", attempt, "max", f.maxRetries, "error", err)
		if attempt < f.maxRetries {
			fetchSleepFunc(f.backoff)
		}
	}
	return nil, lastErr
}

func (f *Fetcher) do(ctx context.Context, rawURL string, extra map[string]string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("User-Agent", f.userAgent())
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")
	for k, v := range extra {
		req.Header.Set(k, v)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &StatusError{Code: resp.StatusCode}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBytes))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	return body, nil
}

// proxyFunc selects a per-scheme proxy, deferring to the environment
// when no explicit proxies are configured.
func proxyFunc(httpProxy, httpsProxy string) func(*http.Request) (*url.URL, error) {
	if httpProxy == "" && httpsProxy == "" {
		return http.ProxyFromEnvironment
	}
	return func(req *http.Request) (*url.URL, error) {
		if req.URL.Scheme == "https" && httpsProxy != "" {
			return url.Parse(httpsProxy)
		}
		if httpProxy != "" {
			return url.Parse(httpProxy)
		}
		return http.ProxyFromEnvironment(req)
	}
}

func (f *Fetcher) userAgent() string {
	if len(f.userAgents) == 0 {
		return "crisiswatch/1.0"
	}
	return f.userAgents[rand.IntN(len(f.userAgents))]
}
