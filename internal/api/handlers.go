package api

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ppiankov/crisiswatch/internal/model"
	"github.com/ppiankov/crisiswatch/internal/pipeline"
	"github.com/ppiankov/crisiswatch/internal/store"
	"github.com/ppiankov/crisiswatch/internal/summary"
)

// Handler serves the JSON API from the store and pipeline state.
type Handler struct {
	store        *store.Store
	pipeline     *pipeline.Pipeline
	sources      []model.SourceConfig
	digester     *summary.Digester // nil when no model is configured
	recentWindow time.Duration
	logger       *slog.Logger
	started      time.Time
}

// NewHandler creates an API handler. digester may be nil; recentWindow
// controls the freshness marker on served events.
func NewHandler(st *store.Store, p *pipeline.Pipeline, sources []model.SourceConfig,
	digester *summary.Digester, recentWindow time.Duration, logger *slog.Logger) *Handler {
	if recentWindow <= 0 {
		recentWindow = 10 * time.Minute
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		store:        st,
		pipeline:     p,
		sources:      sources,
		digester:     digester,
		recentWindow: recentWindow,
		logger:       logger,
		started:      model.Clock().Now().UTC(),
	}
}

// eventView is an Event plus freshness metadata for the presentation
// layer's pulse indicator.
type eventView struct {
	model.Event
	AgeMinutes float64 `json:"age_minutes"`
	Recent     bool    `json:"recent"`
}

// GetEvents returns stored events newest-first. Supports ?located=1,
// ?type=<event type> and ?limit=<n>.
func (h *Handler) GetEvents(c *gin.Context) {
	located := c.Query("located") == "1" || c.Query("located") == "true"
	events := h.store.GetAll(located)

	if typ := c.Query("type"); typ != "" {
		filtered := events[:0]
		for _, ev := range events {
			if string(ev.Type) == typ {
				filtered = append(filtered, ev)
			}
		}
		events = filtered
	}

	if raw := c.Query("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid limit"})
			return
		}
		if limit < len(events) {
			events = events[:limit]
		}
	}

	now := model.Clock().Now().UTC()
	views := make([]eventView, 0, len(events))
	for _, ev := range events {
		views = append(views, eventView{
			Event:      ev,
			AgeMinutes: ev.AgeMinutes(now),
			Recent:     now.Sub(ev.Timestamp) <= h.recentWindow,
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"events":       views,
		"count":        len(views),
		"generated_at": now,
	})
}

// GetSummary returns the situation summary over recent events. When a
// digester is configured its output is preferred, falling back to the
// heuristic text on any failure.
func (h *Handler) GetSummary(c *gin.Context) {
	events := h.store.GetAll(false)
	text := summary.Generate(events)
	source := "heuristic"

	if h.digester != nil {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 30*time.Second)
		defer cancel()
		if polished, err := h.digester.Digest(ctx, text, events); err == nil {
			text, source = polished, "model"
		} else {
			h.logger.Warn("digest failed, serving heuristic summary", "error", err)
		}
	}

	typeCounts := make(map[string]int)
	for _, ev := range events {
		typeCounts[string(ev.Type)]++
	}

	c.JSON(http.StatusOK, gin.H{
		"summary":      text,
		"source":       source,
		"event_count":  len(events),
		"type_counts":  typeCounts,
		"generated_at": model.Clock().Now().UTC(),
	})
}

type sourceInfo struct {
	Name      string `json:"name"`
	ShortName string `json:"short_name,omitempty"`
	URL       string `json:"url"`
	Website   string `json:"website,omitempty"`
	Color     string `json:"color,omitempty"`
	Format    string `json:"format"`
	Enabled   bool   `json:"enabled"`

	Events    int        `json:"events,omitempty"`
	LastError string     `json:"last_error,omitempty"`
	UpdatedAt *time.Time `json:"updated_at,omitempty"`
}

// GetSources returns the configured sources with their last scrape
// outcome.
func (h *Handler) GetSources(c *gin.Context) {
	statuses := make(map[string]pipeline.SourceStatus)
	for _, s := range h.pipeline.SourceStatuses() {
		statuses[s.Name] = s
	}

	out := make([]sourceInfo, 0, len(h.sources))
	for _, src := range h.sources {
		info := sourceInfo{
			Name:      src.Name,
			ShortName: src.ShortName,
			URL:       src.URL,
			Website:   src.WebsiteURL,
			Color:     src.Color,
			Format:    string(src.Format),
			Enabled:   src.Enabled,
		}
		if status, ok := statuses[src.Name]; ok && !status.UpdatedAt.IsZero() {
			info.Events = status.Events
			info.LastError = status.Error
			t := status.UpdatedAt
			info.UpdatedAt = &t
		}
		out = append(out, info)
	}

	c.JSON(http.StatusOK, gin.H{"sources": out, "count": len(out)})
}

// HealthCheck reports liveness plus basic refresh state.
func (h *Handler) HealthCheck(c *gin.Context) {
	now := model.Clock().Now().UTC()
	resp := gin.H{
		"status":  "ok",
		"uptime":  now.Sub(h.started).String(),
		"events":  h.store.Count(),
		"sources": len(h.sources),
	}
	if last := h.pipeline.LastRefresh(); last != nil {
		resp["last_refresh"] = last.Started
		resp["last_refresh_errors"] = len(last.Errors)
	}
	c.JSON(http.StatusOK, resp)
}
