package scraper

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ppiankov/crisiswatch/internal/model"
)

const testFeed = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0">
<channel>
  <title>World Desk</title>
  <item>
    <title>Missile strike reported near Tehran refinery</title>
    <description>&lt;p&gt;Explosions were heard as a &lt;b&gt;missile&lt;/b&gt; hit an industrial area.&lt;/p&gt;</description>
    <link>https://example.com/strike</link>
    <pubDate>Mon, 16 Jun 2025 08:30:00 GMT</pubDate>
  </item>
  <item>
    <title>Local bakery wins pastry award</title>
    <description>A celebration of croissants.</description>
    <link>https://example.com/pastry</link>
    <pubDate>Mon, 16 Jun 2025 08:00:00 GMT</pubDate>
  </item>
  <item>
    <title>Sirens sound in Tel Aviv as interceptors launch</title>
    <description>Air raid alert across central Israel.</description>
    <link>https://example.com/sirens</link>
    <pubDate>Mon, 16 Jun 2025 07:45:00 GMT</pubDate>
  </item>
</channel>
</rss>`

func feedServer(t *testing.T, payload string) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/rss+xml")
		_, _ = fmt.Fprint(w, payload)
	}))
	t.Cleanup(server.Close)
	return server
}

func newTestScraper(t *testing.T, cfg model.SourceConfig) Scraper {
	t.Helper()
	s, err := New(cfg, Options{Fetcher: testFetcher(nil, 0), Cap: 50})
	require.NoError(t, err)
	return s
}

func TestFeedScraper_FiltersIrrelevantItems(t *testing.T) {
	server := feedServer(t, testFeed)
	s := newTestScraper(t, model.SourceConfig{
		Name:   "World Desk",
		URL:    server.URL,
		Format: model.FormatFeed,
	})

	events, err := s.Scrape(context.Background())
	require.NoError(t, err)
	require.Len(t, events, 2)

	titles := []string{events[0].Title, events[1].Title}
	assert.Contains(t, titles, "Missile strike reported near Tehran refinery")
	assert.Contains(t, titles, "Sirens sound in Tel Aviv as interceptors launch")
	assert.NotContains(t, titles, "Local bakery wins pastry award")
}

func TestFeedScraper_PrescopedKeepsAll(t *testing.T) {
	server := feedServer(t, testFeed)
	s := newTestScraper(t, model.SourceConfig{
		Name:      "Curated Wire",
		URL:       server.URL,
		Format:    model.FormatFeed,
		Prescoped: true,
	})

	events, err := s.Scrape(context.Background())
	require.NoError(t, err)
	assert.Len(t, events, 3)
}

func TestFeedScraper_EnrichesEvents(t *testing.T) {
	server := feedServer(t, testFeed)
	s := newTestScraper(t, model.SourceConfig{
		Name:   "World Desk",
		URL:    server.URL,
		Format: model.FormatFeed,
	})

	events, err := s.Scrape(context.Background())
	require.NoError(t, err)
	require.NotEmpty(t, events)

	var strike model.Event
	for _, ev := range events {
		if ev.SourceURL == "https://example.com/strike" {
			strike = ev
		}
	}
	require.NotEmpty(t, strike.ID)

	assert.Equal(t, model.TypeMissile, strike.Type)
	assert.Equal(t, "World Desk", strike.SourceName)
	assert.Equal(t, "Tehran", strike.LocationName)
	assert.True(t, strike.HasLocation())
	assert.GreaterOrEqual(t, strike.Severity, 1)
	assert.LessOrEqual(t, strike.Severity, 5)

	// HTML markup is stripped from summaries.
	assert.NotContains(t, strike.Summary, "<b>")
	assert.Contains(t, strike.Summary, "missile hit an industrial area")

	want := time.Date(2025, 6, 16, 8, 30, 0, 0, time.UTC)
	assert.True(t, strike.Timestamp.Equal(want), "timestamp %v", strike.Timestamp)
}

func TestFeedScraper_RespectsCap(t *testing.T) {
	server := feedServer(t, testFeed)
	s, err := New(model.SourceConfig{
		Name:      "Curated Wire",
		URL:       server.URL,
		Format:    model.FormatFeed,
		Prescoped: true,
	}, Options{Fetcher: testFetcher(nil, 0), Cap: 1})
	require.NoError(t, err)

	events, err := s.Scrape(context.Background())
	require.NoError(t, err)
	assert.Len(t, events, 1)
}

func TestFeedScraper_MalformedFeed(t *testing.T) {
	server := feedServer(t, "this is not xml at all")
	s := newTestScraper(t, model.SourceConfig{
		Name:   "Broken",
		URL:    server.URL,
		Format: model.FormatFeed,
	})

	_, err := s.Scrape(context.Background())
	assert.Error(t, err)
}
