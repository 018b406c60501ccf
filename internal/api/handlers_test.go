package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ppiankov/crisiswatch/internal/model"
	"github.com/ppiankov/crisiswatch/internal/pipeline"
	"github.com/ppiankov/crisiswatch/internal/store"
)

func coord(v float64) *float64 { return &v }

func seedStore(t *testing.T) *store.Store {
	t.Helper()
	now := time.Now().UTC()
	st := store.New(100)
	st.AddMany([]model.Event{
		{
			ID: "a1", Title: "Missile intercepted over Tel Aviv", SourceName: "Wire",
			Timestamp: now.Add(-10 * time.Minute), Type: model.TypeMissile, Severity: 4,
			LocationName: "Tel Aviv", Latitude: coord(32.08), Longitude: coord(34.78),
		},
		{
			ID: "b2", Title: "Security council meets on ceasefire", SourceName: "Wire",
			Timestamp: now.Add(-20 * time.Minute), Type: model.TypePolitical, Severity: 2,
		},
		{
			ID: "c3", Title: "Explosion reported in Isfahan", SourceName: "Desk",
			Timestamp: now.Add(-30 * time.Minute), Type: model.TypeExplosion, Severity: 4,
			LocationName: "Isfahan", Latitude: coord(32.65), Longitude: coord(51.66),
		},
	})
	return st
}

func newTestServer(t *testing.T, st *store.Store) http.Handler {
	t.Helper()
	p := pipeline.New(nil, pipeline.Options{Store: st})
	sources := []model.SourceConfig{
		{Name: "Wire", URL: "https://wire.example.com/rss", Format: model.FormatFeed, Enabled: true},
		{Name: "Desk", URL: "https://desk.example.com/live", Format: model.FormatLivePage, Enabled: false},
	}
	return NewServer(NewHandler(st, p, sources, nil, 15*time.Minute, nil))
}

func doGet(t *testing.T, h http.Handler, path string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	h.ServeHTTP(w, req)

	var body map[string]any
	if w.Code == http.StatusOK {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	}
	return w, body
}

func TestGetEvents_All(t *testing.T) {
	h := newTestServer(t, seedStore(t))

	w, body := doGet(t, h, "/api/events")
	require.Equal(t, http.StatusOK, w.Code)
	assert.EqualValues(t, 3, body["count"])

	events := body["events"].([]any)
	first := events[0].(map[string]any)
	assert.Equal(t, "Missile intercepted over Tel Aviv", first["title"], "newest first")
	assert.Equal(t, true, first["recent"])
	assert.Greater(t, first["age_minutes"], 9.0)

	last := events[2].(map[string]any)
	assert.Equal(t, false, last["recent"])
}

func TestGetEvents_LocatedOnly(t *testing.T) {
	h := newTestServer(t, seedStore(t))

	w, body := doGet(t, h, "/api/events?located=1")
	require.Equal(t, http.StatusOK, w.Code)
	assert.EqualValues(t, 2, body["count"])
}

func TestGetEvents_TypeFilter(t *testing.T) {
	h := newTestServer(t, seedStore(t))

	w, body := doGet(t, h, "/api/events?type=political")
	require.Equal(t, http.StatusOK, w.Code)
	assert.EqualValues(t, 1, body["count"])

	events := body["events"].([]any)
	first := events[0].(map[string]any)
	assert.Equal(t, "political", first["type"])
}

func TestGetEvents_Limit(t *testing.T) {
	h := newTestServer(t, seedStore(t))

	w, body := doGet(t, h, "/api/events?limit=1")
	require.Equal(t, http.StatusOK, w.Code)
	assert.EqualValues(t, 1, body["count"])

	w, _ = doGet(t, h, "/api/events?limit=banana")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetEvents_EmptyStore(t *testing.T) {
	h := newTestServer(t, store.New(100))

	w, body := doGet(t, h, "/api/events")
	require.Equal(t, http.StatusOK, w.Code)
	assert.EqualValues(t, 0, body["count"])
	assert.NotNil(t, body["events"], "events must be an empty array, not null")
}

func TestGetSummary(t *testing.T) {
	h := newTestServer(t, seedStore(t))

	w, body := doGet(t, h, "/api/summary")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "heuristic", body["source"])
	assert.EqualValues(t, 3, body["event_count"])
	assert.Contains(t, body["summary"], "Active situation")

	counts := body["type_counts"].(map[string]any)
	assert.EqualValues(t, 1, counts["missile"])
	assert.EqualValues(t, 1, counts["political"])
}

func TestGetSources(t *testing.T) {
	h := newTestServer(t, seedStore(t))

	w, body := doGet(t, h, "/api/sources")
	require.Equal(t, http.StatusOK, w.Code)
	assert.EqualValues(t, 2, body["count"])

	sources := body["sources"].([]any)
	first := sources[0].(map[string]any)
	assert.Equal(t, "Wire", first["name"])
	assert.Equal(t, true, first["enabled"])
	second := sources[1].(map[string]any)
	assert.Equal(t, false, second["enabled"])
}

func TestHealthCheck(t *testing.T) {
	h := newTestServer(t, seedStore(t))

	w, body := doGet(t, h, "/health")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ok", body["status"])
	assert.EqualValues(t, 3, body["events"])
}

func TestCORSPreflight(t *testing.T) {
	h := newTestServer(t, seedStore(t))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodOptions, "/api/events", nil)
	h.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}
