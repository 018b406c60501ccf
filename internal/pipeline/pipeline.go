// Package pipeline runs the refresh cycle: fan out to every enabled
// source concurrently, gather whatever arrives before the overall
// deadline, deduplicate the batch against itself and against the store,
// and commit the remainder. A refresh never fails as a whole; individual
// source failures and stragglers are reported alongside the events that
// did make it.
package pipeline

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/ppiankov/crisiswatch/internal/dedup"
	"github.com/ppiankov/crisiswatch/internal/model"
	"github.com/ppiankov/crisiswatch/internal/observability"
	"github.com/ppiankov/crisiswatch/internal/store"
)

// Scraper is one configured source. The scraper package provides the
// production implementations.
type Scraper interface {
	Name() string
	Scrape(ctx context.Context) ([]model.Event, error)
}

// SourceStatus is the last known outcome for one source, exposed through
// the API.
type SourceStatus struct {
	Name      string        `json:"name"`
	Events    int           `json:"events"`
	Error     string        `json:"error,omitempty"`
	Duration  time.Duration `json:"-"`
	UpdatedAt time.Time     `json:"updated_at"`
}

// RefreshResult summarizes one completed refresh cycle.
type RefreshResult struct {
	Started  time.Time     `json:"started"`
	Duration time.Duration `json:"duration"`
	Fetched  int           `json:"fetched"` // raw events across all sources
	Unique   int           `json:"unique"`  // after in-batch deduplication
	Novel    int           `json:"novel"`   // after filtering against the store
	Added    int           `json:"added"`   // committed to the store
	Errors   []string      `json:"errors,omitempty"`
}

// Pipeline coordinates scrapers, deduplication and the store.
type Pipeline struct {
	scrapers []Scraper
	store    *store.Store
	metrics  *observability.Metrics
	logger   *slog.Logger
	timeout  time.Duration

	mu     sync.Mutex
	last   *RefreshResult
	status map[string]SourceStatus
}

// Options configures a Pipeline. Store is required; Metrics and Logger
// may be nil.
type Options struct {
	Store          *store.Store
	Metrics        *observability.Metrics
	Logger         *slog.Logger
	OverallTimeout time.Duration
}

// New creates a Pipeline over the given scrapers.
func New(scrapers []Scraper, opts Options) *Pipeline {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.OverallTimeout <= 0 {
		opts.OverallTimeout = 60 * time.Second
	}
	return &Pipeline{
		scrapers: scrapers,
		store:    opts.Store,
		metrics:  opts.Metrics,
		logger:   opts.Logger,
		timeout:  opts.OverallTimeout,
		status:   make(map[string]SourceStatus, len(scrapers)),
	}
}

type sourceResult struct {
	name     string
	events   []model.Event
	err      error
	duration time.Duration
}

// Refresh runs one full cycle and returns its summary. Sources that have
// not answered by the overall deadline are recorded as timed out; their
// results are dropped but everything already collected is kept.
func (p *Pipeline) Refresh(ctx context.Context) RefreshResult {
	started := model.Clock().Now().UTC()

	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	results := make(chan sourceResult, len(p.scrapers))
	for _, s := range p.scrapers {
		go func(s Scraper) {
			t0 := time.Now()
			events, err := s.Scrape(ctx)
			results <- sourceResult{
				name:     s.Name(),
				events:   events,
				err:      err,
				duration: time.Since(t0),
			}
		}(s)
	}

	collected, errs, answered := p.collect(ctx, results)
	for _, s := range p.scrapers {
		if !answered[s.Name()] {
			errs = append(errs, s.Name()+": timed out")
			p.recordTimeout(s.Name())
		}
	}

	unique := dedup.Deduplicate(collected)
	novel := dedup.FilterNovel(unique, p.store.GetAll(false))
	added := p.store.AddMany(novel)

	result := RefreshResult{
		Started:  started,
		Duration: model.Clock().Now().UTC().Sub(started),
		Fetched:  len(collected),
		Unique:   len(unique),
		Novel:    len(novel),
		Added:    added,
		Errors:   errs,
	}
	p.record(result)

	p.logger.Info("refresh complete",
		"fetched", result.Fetched,
		"unique", result.Unique,
		"novel", result.Novel,
		"added", result.Added,
		"errors", len(result.Errors),
		"duration", result.Duration)
	return result
}

// collect gathers source results until every scraper has answered or
// the deadline passes. The deadline can win the select race against a
// result already sitting in the channel buffer; the final drain keeps
// those instead of misreporting them as timed out.
func (p *Pipeline) collect(ctx context.Context, results <-chan sourceResult) (collected []model.Event, errs []string, answered map[string]bool) {
	answered = make(map[string]bool, len(p.scrapers))
	take := func(res sourceResult) {
		answered[res.name] = true
		p.recordSource(res)
		if res.err != nil {
			errs = append(errs, res.name+": "+res.err.Error())
			return
		}
		collected = append(collected, res.events...)
	}

gather:
	for range p.scrapers {
		select {
		case res := <-results:
			take(res)
		case <-ctx.Done():
			break gather
		}
	}
	for {
		select {
		case res := <-results:
			take(res)
		default:
			return collected, errs, answered
		}
	}
}

func (p *Pipeline) recordSource(res sourceResult) {
	status := SourceStatus{
		Name:      res.name,
		Events:    len(res.events),
		Duration:  res.duration,
		UpdatedAt: model.Clock().Now().UTC(),
	}
	outcome := "success"
	if res.err != nil {
		status.Error = res.err.Error()
		outcome = "error"
	}

	p.mu.Lock()
	p.status[res.name] = status
	p.mu.Unlock()

	if p.metrics != nil {
		p.metrics.SourceFetches.WithLabelValues(res.name, outcome).Inc()
		if res.err == nil {
			p.metrics.SourceEvents.WithLabelValues(res.name).Add(float64(len(res.events)))
		}
	}
	if res.err != nil {
		p.logger.Warn("source failed", "source", res.name, "error", res.err)
	} else {
		p.logger.Debug("source done", "source", res.name, "events", len(res.events), "duration", res.duration)
	}
}

func (p *Pipeline) recordTimeout(name string) {
	p.mu.Lock()
	p.status[name] = SourceStatus{
		Name:      name,
		Error:     "timed out",
		UpdatedAt: model.Clock().Now().UTC(),
	}
	p.mu.Unlock()

	if p.metrics != nil {
		p.metrics.SourceFetches.WithLabelValues(name, "timeout").Inc()
	}
	p.logger.Warn("source timed out", "source", name, "timeout", p.timeout)
}

func (p *Pipeline) record(result RefreshResult) {
	p.mu.Lock()
	p.last = &result
	p.mu.Unlock()

	if p.metrics != nil {
		p.metrics.RefreshCycles.Inc()
		p.metrics.EventsIngested.Add(float64(result.Added))
		p.metrics.DuplicateEvents.Add(float64(result.Fetched - result.Novel))
		p.metrics.StoreSize.Set(float64(p.store.Count()))
		p.metrics.FetchDuration.Observe(result.Duration.Seconds())
	}
}

// LastRefresh returns the most recent cycle summary, or nil before the
// first cycle finishes.
func (p *Pipeline) LastRefresh() *RefreshResult {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.last == nil {
		return nil
	}
	out := *p.last
	return &out
}

// SourceStatuses returns the last known outcome per source, in the
// scrapers' configured order.
func (p *Pipeline) SourceStatuses() []SourceStatus {
	p.mu.Lock()
	defer p.mu.Unlock()

	out := make([]SourceStatus, 0, len(p.scrapers))
	for _, s := range p.scrapers {
		if status, ok := p.status[s.Name()]; ok {
			out = append(out, status)
		} else {
			out = append(out, SourceStatus{Name: s.Name()})
		}
	}
	return out
}
