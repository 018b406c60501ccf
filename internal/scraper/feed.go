package scraper

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/araddon/dateparse"
	"github.com/mmcdole/gofeed"

	"github.com/ppiankov/crisiswatch/internal/model"
)

// FeedScraper handles syndication (RSS/Atom) sources. Broad world-news
// feeds carry mostly irrelevant items, so entries must pass the crisis
// keyword filter unless the source is marked prescoped.
type FeedScraper struct {
	cfg      model.SourceConfig
	fetcher  *Fetcher
	parser   *gofeed.Parser
	cap      int
	keywords []string
	logger   *slog.Logger
}

// NewFeedScraper creates a syndication scraper for one source.
func NewFeedScraper(cfg model.SourceConfig, opts Options) *FeedScraper {
	keywords := opts.Keywords
	if keywords == nil {
		keywords = model.CrisisKeywords()
	}
	return &FeedScraper{
		cfg:      cfg,
		fetcher:  opts.Fetcher,
		parser:   gofeed.NewParser(),
		cap:      opts.Cap,
		keywords: keywords,
		logger:   opts.Logger,
	}
}

func (s *FeedScraper) Name() string { return s.cfg.Name }

// Scrape fetches and parses the feed, returning enriched events.
func (s *FeedScraper) Scrape(ctx context.Context) (events []model.Event, err error) {
	defer func() {
		if r := recover(); r != nil {
			events, err = nil, fmt.Errorf("%s: recovered: %v", s.cfg.Name, r)
		}
	}()

	body, err := s.fetcher.Fetch(ctx, s.cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("%s: fetch: %w", s.cfg.Name, err)
	}

	feed, err := s.parser.Parse(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("%s: parse feed: %w", s.cfg.Name, err)
	}

	fetchedAt := model.Clock().Now().UTC()
	for _, item := range feed.Items {
		if len(events) >= s.cap {
			break
		}
		if item == nil {
			continue
		}
		if !s.cfg.Prescoped && !s.relevant(item) {
			continue
		}
		cand, ok := s.itemToCandidate(item)
		if !ok {
			continue
		}
		Enrich(&cand, s.cfg.Name)
		events = append(events, cand.Resolve(fetchedAt))
	}

	s.logger.Info("feed parsed", "source", s.cfg.Name, "entries", len(feed.Items), "events", len(events))
	return events, nil
}

// relevant applies the keyword filter over title+summary.
func (s *FeedScraper) relevant(item *gofeed.Item) bool {
	text := strings.ToLower(item.Title + " " + item.Description)
	for _, kw := range s.keywords {
		if strings.Contains(text, kw) {
			return true
		}
	}
	return false
}

func (s *FeedScraper) itemToCandidate(item *gofeed.Item) (model.Candidate, bool) {
	title := strings.TrimSpace(item.Title)
	if title == "" {
		return model.Candidate{}, false
	}

	summary := item.Description
	if summary == "" {
		summary = item.Content
	}
	summary = truncate(cleanText(summary), 300)

	cand := model.Candidate{
		Title:      title,
		Summary:    summary,
		SourceName: s.cfg.Name,
		SourceURL:  item.Link,
		Timestamp:  s.itemTimestamp(item),
	}
	if cand.SourceURL == "" {
		cand.SourceURL = s.cfg.URL
	}
	return cand, true
}

// itemTimestamp extracts the publish time, trying the pre-parsed fields
// first and loose parsing second. Zero means "unknown" and Resolve will
// substitute the fetch time.
func (s *FeedScraper) itemTimestamp(item *gofeed.Item) (ts time.Time) {
	if item.PublishedParsed != nil {
		return item.PublishedParsed.UTC()
	}
	if item.UpdatedParsed != nil {
		return item.UpdatedParsed.UTC()
	}
	for _, raw := range []string{item.Published, item.Updated} {
		if raw == "" {
			continue
		}
		if t, err := dateparse.ParseAny(raw); err == nil {
			return t.UTC()
		}
	}
	return ts
}
