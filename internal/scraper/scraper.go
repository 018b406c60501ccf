// Package scraper turns configured news sources into normalized event
// records. Each source format gets its own variant behind the Scraper
// interface; all variants share the retrying Fetcher and the enrichment
// step, and none of them ever lets a panic escape Scrape.
package scraper

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ppiankov/crisiswatch/internal/model"
)

// Scraper is one configured source. Scrape returns zero or more enriched
// events; any internal failure is returned as an error, never a panic,
// so one failing source cannot abort a refresh cycle.
type Scraper interface {
	Name() string
	Scrape(ctx context.Context) ([]model.Event, error)
}

// Options carries the shared collaborators injected into every variant.
type Options struct {
	Fetcher  *Fetcher
	Cap      int      // max items taken per source per cycle
	Keywords []string // relevance filter for broad feeds
	Logger   *slog.Logger
}

// New selects the scraper variant for a source at configuration-load
// time.
func New(cfg model.SourceConfig, opts Options) (Scraper, error) {
	if opts.Cap <= 0 {
		opts.Cap = 50
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	switch cfg.Format {
	case model.FormatFeed:
		return NewFeedScraper(cfg, opts), nil
	case model.FormatLivePage:
		return NewLivePageScraper(cfg, opts), nil
	case model.FormatHybrid:
		return NewHybridScraper(cfg, opts), nil
	default:
		return nil, fmt.Errorf("source %s: unknown format %q", cfg.Name, cfg.Format)
	}
}
