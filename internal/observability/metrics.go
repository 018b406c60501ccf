package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus instruments for the refresh pipeline.
type Metrics struct {
	RefreshCycles   prometheus.Counter
	EventsIngested  prometheus.Counter
	DuplicateEvents prometheus.Counter
	StoreSize       prometheus.Gauge

	SourceFetches *prometheus.CounterVec // labels: source, outcome={success,error,timeout}
	SourceEvents  *prometheus.CounterVec // labels: source
	FetchDuration prometheus.Histogram
	ResponseCache *prometheus.CounterVec // labels: result={hit,miss}
}

// NewMetrics creates and registers all instruments with the default
// Prometheus registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		RefreshCycles: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "crisiswatch",
			Name:      "refresh_cycles_total",
			Help:      "Total completed refresh cycles.",
		}),
		EventsIngested: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "crisiswatch",
			Name:      "events_ingested_total",
			Help:      "Novel events committed to the store.",
		}),
		DuplicateEvents: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "crisiswatch",
			Name:      "duplicate_events_total",
			Help:      "Events dropped by either deduplication pass.",
		}),
		StoreSize: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "crisiswatch",
			Name:      "store_size",
			Help:      "Events currently held in the store.",
		}),
		SourceFetches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "crisiswatch",
			Name:      "source_fetches_total",
			Help:      "Per-source scrape outcomes.",
		}, []string{"source", "outcome"}),
		SourceEvents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "crisiswatch",
			Name:      "source_events_total",
			Help:      "Raw events extracted per source before deduplication.",
		}, []string{"source"}),
		FetchDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "crisiswatch",
			Name:      "refresh_duration_seconds",
			Help:      "Duration of a full fan-out refresh cycle.",
			Buckets:   []float64{0.1, 0.5, 1, 2.5, 5, 10, 30, 60},
		}),
		ResponseCache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "crisiswatch",
			Name:      "response_cache_total",
			Help:      "HTTP response cache lookups by result.",
		}, []string{"result"}),
	}

	prometheus.MustRegister(
		m.RefreshCycles,
		m.EventsIngested,
		m.DuplicateEvents,
		m.StoreSize,
		m.SourceFetches,
		m.SourceEvents,
		m.FetchDuration,
		m.ResponseCache,
	)
	return m
}
