package scraper

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/ppiankov/crisiswatch/internal/cache"
	"github.com/ppiankov/crisiswatch/internal/model"
)

func testFetcher(respCache cache.Cache, ttl time.Duration) *Fetcher {
	return NewFetcher(model.HTTPConfig{
		Timeout:      5 * time.Second,
		MaxRetries:   2,
		RetryBackoff: time.Millisecond,
		UserAgents:   []string{"test-agent"},
	}, respCache, ttl, nil)
}

func TestFetch_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("User-Agent") != "test-agent" {
			t.Errorf("expected rotated User-Agent, got %q", r.Header.Get("User-Agent"))
		}
		_, _ = fmt.Fprint(w, "<rss>OK</rss>")
	}))
	defer server.Close()

	body, err := testFetcher(nil, 0).Fetch(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if string(body) != "<rss>OK</rss>" {
		t.Errorf("unexpected body: %s", body)
	}
}

func TestFetch_TransientThenSuccess(t *testing.T) {
	var attempts atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if attempts.Add(1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = fmt.Fprint(w, "OK")
	}))
	defer server.Close()

	origSleep := fetchSleepFunc
	fetchSleepFunc = func(d time.Duration) {}
	defer func() { fetchSleepFunc = origSleep }()

	body, err := testFetcher(nil, 0).Fetch(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("expected success after retry, got %v", err)
	}
	if string(body) != "OK" {
		t.Errorf("unexpected body: %s", body)
	}
	if attempts.Load() != 2 {
		t.Errorf("expected 2 attempts, got %d", attempts.Load())
	}
}

func TestFetch_ExhaustsRetries(t *testing.T) {
	var attempts atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	origSleep := fetchSleepFunc
	fetchSleepFunc = func(d time.Duration) {}
	defer func() { fetchSleepFunc = origSleep }()

	_, err := testFetcher(nil, 0).Fetch(context.Background(), server.URL)
	if err == nil {
		t.Fatal("expected error after exhausted retries")
	}
	if attempts.Load() != 2 {
		t.Errorf("expected 2 attempts, got %d", attempts.Load())
	}
}

func TestFetch_PermanentRejectionShortCircuits(t *testing.T) {
	var attempts atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts.Add(1)
		w.WriteHeader(http.StatusForbidden)
	}))
	defer server.Close()

	_, err := testFetcher(nil, 0).Fetch(context.Background(), server.URL)
	if err == nil {
		t.Fatal("expected error on 403")
	}
	if attempts.Load() != 1 {
		t.Errorf("403 must not be retried; got %d attempts", attempts.Load())
	}
}

func TestFetch_ServesFromCache(t *testing.T) {
	var hits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		_, _ = fmt.Fprint(w, "cached content")
	}))
	defer server.Close()

	f := testFetcher(cache.NewMemoryCache(time.Minute, time.Minute), time.Minute)

	for i := 0; i < 3; i++ {
		body, err := f.Fetch(context.Background(), server.URL)
		if err != nil {
			t.Fatalf("fetch %d: %v", i, err)
		}
		if string(body) != "cached content" {
			t.Errorf("fetch %d: unexpected body %s", i, body)
		}
	}
	if hits.Load() != 1 {
		t.Errorf("expected a single upstream request, got %d", hits.Load())
	}
}

func robotsServer(t *testing.T, robotsTxt string) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/robots.txt" {
			_, _ = fmt.Fprint(w, robotsTxt)
			return
		}
		_, _ = fmt.Fprint(w, "page content")
	}))
	t.Cleanup(server.Close)
	return server
}

func TestFetch_RobotsDisallow(t *testing.T) {
	server := robotsServer(t, "User-agent: *\nDisallow: /blocked\n")

	f := NewFetcher(model.HTTPConfig{
		Timeout:       5 * time.Second,
		UserAgents:    []string{"test-agent"},
		RespectRobots: true,
	}, nil, 0, nil)

	if _, err := f.Fetch(context.Background(), server.URL+"/blocked"); err == nil {
		t.Fatal("expected disallowed path to be rejected")
	}
	body, err := f.Fetch(context.Background(), server.URL+"/open")
	if err != nil {
		t.Fatalf("allowed path rejected: %v", err)
	}
	if string(body) != "page content" {
		t.Errorf("unexpected body: %s", body)
	}
}

func TestFetch_HonorsCrawlDelay(t *testing.T) {
	server := robotsServer(t, "User-agent: *\nCrawl-delay: 2\n")

	var slept []time.Duration
	origSleep := fetchSleepFunc
	fetchSleepFunc = func(d time.Duration) { slept = append(slept, d) }
	defer func() { fetchSleepFunc = origSleep }()

	f := NewFetcher(model.HTTPConfig{
		Timeout:       5 * time.Second,
		UserAgents:    []string{"test-agent"},
		RespectRobots: true,
	}, nil, 0, nil)

	if _, err := f.Fetch(context.Background(), server.URL+"/page"); err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if len(slept) != 1 || slept[0] != 2*time.Second {
		t.Errorf("expected a single 2s crawl-delay wait, got %v", slept)
	}
}

func TestFetch_CrawlDelayCapped(t *testing.T) {
	server := robotsServer(t, "User-agent: *\nCrawl-delay: 120\n")

	var slept []time.Duration
	origSleep := fetchSleepFunc
	fetchSleepFunc = func(d time.Duration) { slept = append(slept, d) }
	defer func() { fetchSleepFunc = origSleep }()

	f := NewFetcher(model.HTTPConfig{
		Timeout:       5 * time.Second,
		UserAgents:    []string{"test-agent"},
		RespectRobots: true,
	}, nil, 0, nil)

	if _, err := f.Fetch(context.Background(), server.URL+"/page"); err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if len(slept) != 1 || slept[0] != maxCrawlDelay {
		t.Errorf("expected wait capped at %v, got %v", maxCrawlDelay, slept)
	}
}

func TestFetch_ReportsCacheLookups(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = fmt.Fprint(w, "cached content")
	}))
	defer server.Close()

	f := testFetcher(cache.NewMemoryCache(time.Minute, time.Minute), time.Minute)
	var lookups []string
	f.OnCacheLookup(func(result string) { lookups = append(lookups, result) })

	for i := 0; i < 2; i++ {
		if _, err := f.Fetch(context.Background(), server.URL); err != nil {
			t.Fatalf("fetch %d: %v", i, err)
		}
	}
	if len(lookups) != 2 || lookups[0] != "miss" || lookups[1] != "hit" {
		t.Errorf("expected [miss hit], got %v", lookups)
	}
}

func TestFetch_ContextCancellation(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer server.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := testFetcher(nil, 0).Fetch(ctx, server.URL)
	if err == nil {
		t.Fatal("expected error when context expires mid-fetch")
	}
}
