package cli

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/viper"

	"github.com/ppiankov/crisiswatch/internal/cache"
	"github.com/ppiankov/crisiswatch/internal/model"
	"github.com/ppiankov/crisiswatch/internal/observability"
	"github.com/ppiankov/crisiswatch/internal/pipeline"
	"github.com/ppiankov/crisiswatch/internal/scraper"
	"github.com/ppiankov/crisiswatch/internal/store"
	"github.com/ppiankov/crisiswatch/internal/summary"
)

// app holds the assembled long-lived components shared by the scan and
// serve commands.
type app struct {
	cfg      *model.Config
	logger   *slog.Logger
	store    *store.Store
	pipeline *pipeline.Pipeline
	digester *summary.Digester
}

// loadConfig builds the effective configuration: defaults, then config
// file values and CRISISWATCH_* environment variables, then the sources
// file when given.
func loadConfig() (*model.Config, error) {
	cfg := model.DefaultConfig()
	registerSettings(cfg)

	viper.SetEnvPrefix("CRISISWATCH")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	// The config structs carry yaml tags for the sources file; reuse
	// them here so viper keys and file keys stay one namespace.
	if err := viper.Unmarshal(cfg, func(dc *mapstructure.DecoderConfig) {
		dc.TagName = "yaml"
	}); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	if cfg.LLM.Provider != "" && cfg.LLM.APIKey == "" {
		cfg.LLM.APIKey = os.Getenv("OPENAI_API_KEY")
	}

	if sourcesFile != "" {
		if err := cfg.LoadSources(sourcesFile); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

// registerSettings seeds viper with the defaults for every scalar
// setting. Unmarshal only visits known keys, so unregistered settings
// would never pick up environment overrides.
func registerSettings(cfg *model.Config) {
	viper.SetDefault("http.timeout", cfg.HTTP.Timeout)
	viper.SetDefault("http.max_retries", cfg.HTTP.MaxRetries)
	viper.SetDefault("http.retry_backoff", cfg.HTTP.RetryBackoff)
	viper.SetDefault("http.max_body_bytes", cfg.HTTP.MaxBodyBytes)
	viper.SetDefault("http.user_agents", cfg.HTTP.UserAgents)
	viper.SetDefault("http.respect_robots", cfg.HTTP.RespectRobots)
	viper.SetDefault("http.per_host_rps", cfg.HTTP.PerHostRPS)
	viper.SetDefault("http.per_host_burst", cfg.HTTP.PerHostBurst)
	viper.SetDefault("http.http_proxy", cfg.HTTP.HTTPProxy)
	viper.SetDefault("http.https_proxy", cfg.HTTP.HTTPSProxy)
	viper.SetDefault("scrape.refresh_interval", cfg.Scrape.RefreshInterval)
	viper.SetDefault("scrape.overall_timeout", cfg.Scrape.OverallTimeout)
	viper.SetDefault("scrape.cache_ttl", cfg.Scrape.CacheTTL)
	viper.SetDefault("scrape.per_source_cap", cfg.Scrape.PerSourceCap)
	viper.SetDefault("scrape.recent_window", cfg.Scrape.RecentWindow)
	viper.SetDefault("store.max_events", cfg.Store.MaxEvents)
	viper.SetDefault("api.addr", cfg.API.Addr)
	viper.SetDefault("llm.provider", cfg.LLM.Provider)
	viper.SetDefault("llm.model", cfg.LLM.Model)
	viper.SetDefault("llm.max_tokens", cfg.LLM.MaxTokens)
	viper.SetDefault("llm.timeout", cfg.LLM.Timeout)
}

// newApp assembles the scrapers, pipeline and store from the
// configuration. withMetrics controls Prometheus registration; one-shot
// commands skip it.
func newApp(cfg *model.Config, withMetrics bool) (*app, error) {
	logger := newLogger()

	respCache := cache.NewMemoryCache(cfg.Scrape.CacheTTL, 5*time.Minute)
	fetcher := scraper.NewFetcher(cfg.HTTP, respCache, cfg.Scrape.CacheTTL, logger)

	enabled := cfg.EnabledSources()
	if len(enabled) == 0 {
		return nil, fmt.Errorf("no sources enabled")
	}
	scrapers := make([]pipeline.Scraper, 0, len(enabled))
	for _, src := range enabled {
		s, err := scraper.New(src, scraper.Options{
			Fetcher: fetcher,
			Cap:     cfg.Scrape.PerSourceCap,
			Logger:  logger,
		})
		if err != nil {
			return nil, err
		}
		scrapers = append(scrapers, s)
	}

	var metrics *observability.Metrics
	if withMetrics {
		metrics = observability.NewMetrics()
		fetcher.OnCacheLookup(func(result string) {
			metrics.ResponseCache.WithLabelValues(result).Inc()
		})
	}

	st := store.New(cfg.Store.MaxEvents)
	p := pipeline.New(scrapers, pipeline.Options{
		Store:          st,
		Metrics:        metrics,
		Logger:         logger,
		OverallTimeout: cfg.Scrape.OverallTimeout,
	})

	digester, err := summary.NewDigester(cfg.LLM)
	if err != nil {
		return nil, fmt.Errorf("configure digester: %w", err)
	}

	return &app{
		cfg:      cfg,
		logger:   logger,
		store:    st,
		pipeline: p,
		digester: digester,
	}, nil
}
