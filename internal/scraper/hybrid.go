package scraper

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/ppiankov/crisiswatch/internal/geo"
	"github.com/ppiankov/crisiswatch/internal/model"
)

// HybridScraper handles sources that are too JS-heavy for plain markup
// scraping but expose an internal JSON endpoint. The endpoint is tried
// first (items there may carry their own coordinates and epoch times);
// on failure or an empty result the markup fallback runs.
type HybridScraper struct {
	cfg     model.SourceConfig
	fetcher *Fetcher
	live    *LivePageScraper
	cap     int
	logger  *slog.Logger
}

// NewHybridScraper creates a hybrid API/markup scraper for one source.
func NewHybridScraper(cfg model.SourceConfig, opts Options) *HybridScraper {
	return &HybridScraper{
		cfg:     cfg,
		fetcher: opts.Fetcher,
		live:    NewLivePageScraper(cfg, opts),
		cap:     opts.Cap,
		logger:  opts.Logger,
	}
}

func (s *HybridScraper) Name() string { return s.cfg.Name }

// Scrape tries the JSON endpoint, then falls back to markup.
func (s *HybridScraper) Scrape(ctx context.Context) (events []model.Event, err error) {
	defer func() {
		if r := recover(); r != nil {
			events, err = nil, fmt.Errorf("%s: recovered: %v", s.cfg.Name, r)
		}
	}()

	if s.cfg.APIURL != "" {
		apiEvents, apiErr := s.tryAPI(ctx)
		if apiErr == nil && len(apiEvents) > 0 {
			return apiEvents, nil
		}
		if apiErr != nil {
			s.logger.Debug("api attempt failed, falling back to markup",
				"source", s.cfg.Name, "error", apiErr)
		}
	}
	return s.live.Scrape(ctx)
}

// apiItem is the loose shape of one entry from the JSON endpoint. Field
// names vary between deployments, so alternates are folded in below.
type apiItem struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Lat         *float64 `json:"lat"`
	Lng         *float64 `json:"lng"`
	Lon         *float64 `json:"lon"`
	Time        *int64   `json:"time"`
	Date        *int64   `json:"date"`
}

func (s *HybridScraper) tryAPI(ctx context.Context) ([]model.Event, error) {
	body, err := s.fetcher.FetchWithHeaders(ctx, s.cfg.APIURL, map[string]string{
		"X-Requested-With": "XMLHttpRequest",
		"Referer":          s.cfg.URL,
		"Accept":           "application/json, text/javascript, */*; q=0.01",
	})
	if err != nil {
		return nil, fmt.Errorf("api fetch: %w", err)
	}

	var items []apiItem
	if err := json.Unmarshal(body, &items); err != nil {
		var wrapper struct {
			Events []apiItem `json:"events"`
		}
		if err := json.Unmarshal(body, &wrapper); err != nil {
			return nil, fmt.Errorf("decode api response: %w", err)
		}
		items = wrapper.Events
	}

	fetchedAt := model.Clock().Now().UTC()
	var events []model.Event
	for _, item := range items {
		if len(events) >= s.cap {
			break
		}
		cand, ok := s.itemToCandidate(item)
		if !ok {
			continue
		}
		Enrich(&cand, s.cfg.Name)
		events = append(events, cand.Resolve(fetchedAt))
	}
	return events, nil
}

func (s *HybridScraper) itemToCandidate(item apiItem) (model.Candidate, bool) {
	title := strings.TrimSpace(item.Title)
	if title == "" {
		title = strings.TrimSpace(cleanText(item.Description))
	}
	if title == "" {
		return model.Candidate{}, false
	}

	cand := model.Candidate{
		Title:      truncate(title, 200),
		SourceName: s.cfg.Name,
		SourceURL:  s.cfg.URL,
	}

	if epoch := firstInt64(item.Time, item.Date); epoch != nil {
		cand.Timestamp = time.Unix(*epoch, 0).UTC()
	}

	lon := firstFloat64(item.Lng, item.Lon)
	if item.Lat != nil && lon != nil {
		// The endpoint's own coordinates win; a recognized place name in
		// the title only labels them.
		loc := &model.Geo{Lat: *item.Lat, Lon: *lon}
		if m, ok := geo.ExtractPrimaryLocation(title); ok {
			loc.Name = m.Name
		}
		cand.Location = loc
	}
	return cand, true
}

func firstInt64(vals ...*int64) *int64 {
	for _, v := range vals {
		if v != nil {
			return v
		}
	}
	return nil
}

func firstFloat64(vals ...*float64) *float64 {
	for _, v := range vals {
		if v != nil {
			return v
		}
	}
	return nil
}
