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

const testAPIPayload = `[
  {"title": "Explosion reported in Isfahan province", "lat": 32.6546, "lng": 51.6680, "time": 1750070000},
  {"title": "", "description": "Sirens sound over Haifa bay", "lat": 32.7940, "lng": 34.9896}
]`

// hybridServer serves the ajax endpoint and a markup fallback page. The
// endpoint answers only when the act/lang query parameters are present,
// matching the upstream behavior the configured APIURL encodes.
func hybridServer(t *testing.T) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/ajax/do" {
			if r.URL.Query().Get("act") != "do" || r.URL.Query().Get("lang") != "en" {
				w.WriteHeader(http.StatusBadRequest)
				return
			}
			w.Header().Set("Content-Type", "application/json")
			_, _ = fmt.Fprint(w, testAPIPayload)
			return
		}
		_, _ = fmt.Fprint(w, `<html><body><article><h2>Missile fire reported near Tehran</h2></article></body></html>`)
	}))
	t.Cleanup(server.Close)
	return server
}

func TestHybridScraper_UsesAPIEndpoint(t *testing.T) {
	server := hybridServer(t)
	s := newTestScraper(t, model.SourceConfig{
		Name:      "Live Map",
		URL:       server.URL + "/",
		Format:    model.FormatHybrid,
		Prescoped: true,
		APIURL:    server.URL + "/ajax/do?act=do&lang=en",
	})

	events, err := s.Scrape(context.Background())
	require.NoError(t, err)
	require.Len(t, events, 2)

	first := events[0]
	assert.Equal(t, "Explosion reported in Isfahan province", first.Title)
	require.NotNil(t, first.Latitude)
	require.NotNil(t, first.Longitude)
	assert.InDelta(t, 32.6546, *first.Latitude, 0.0001)
	assert.InDelta(t, 51.6680, *first.Longitude, 0.0001)
	assert.Equal(t, "Isfahan", first.LocationName)
	assert.Equal(t, time.Unix(1750070000, 0).UTC(), first.Timestamp)
}

func TestHybridScraper_FallsBackToMarkupWithoutParams(t *testing.T) {
	server := hybridServer(t)
	s := newTestScraper(t, model.SourceConfig{
		Name:      "Live Map",
		URL:       server.URL + "/",
		Format:    model.FormatHybrid,
		Prescoped: true,
		APIURL:    server.URL + "/ajax/do",
	})

	events, err := s.Scrape(context.Background())
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "Missile fire reported near Tehran", events[0].Title)
}
