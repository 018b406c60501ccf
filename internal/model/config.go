package model

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// SourceFormat selects the fetch/parse variant for a source.
type SourceFormat string

const (
	FormatFeed     SourceFormat = "rss"  // syndication feed, parsed with gofeed
	FormatLivePage SourceFormat = "html" // live-updates page, parsed from markup
	FormatHybrid   SourceFormat = "api"  // JSON endpoint first, markup fallback
)

// SourceConfig describes one external news source.
type SourceConfig struct {
	Name       string       `yaml:"name" json:"name"`
	ShortName  string       `yaml:"short_name" json:"short_name"`
	URL        string       `yaml:"url" json:"url"`
	WebsiteURL string       `yaml:"website_url" json:"website_url"`
	Color      string       `yaml:"color" json:"color"`
	Format     SourceFormat `yaml:"format" json:"format"`
	Enabled    bool         `yaml:"enabled" json:"enabled"`

	// Prescoped feeds are already narrowed to the crisis topic and skip
	// the keyword relevance filter.
	Prescoped bool `yaml:"prescoped" json:"prescoped"`

	// APIURL is the JSON endpoint for hybrid sources.
	APIURL string `yaml:"api_url,omitempty" json:"api_url,omitempty"`
}

// HTTPConfig controls the shared fetch helper.
type HTTPConfig struct {
	Timeout       time.Duration `yaml:"timeout"`
	MaxRetries    int           `yaml:"max_retries"`
	RetryBackoff  time.Duration `yaml:"retry_backoff"`
	MaxBodyBytes  int64         `yaml:"max_body_bytes"`
	UserAgents    []string      `yaml:"user_agents"`
	RespectRobots bool          `yaml:"respect_robots"`
	PerHostRPS    float64       `yaml:"per_host_rps"`
	PerHostBurst  int           `yaml:"per_host_burst"`

	// Proxy URLs; when both are empty the standard environment
	// variables (HTTP_PROXY, HTTPS_PROXY, NO_PROXY) apply.
	HTTPProxy  string `yaml:"http_proxy"`
	HTTPSProxy string `yaml:"https_proxy"`
}

// ScrapeConfig controls the refresh cycle.
type ScrapeConfig struct {
	RefreshInterval time.Duration `yaml:"refresh_interval"`
	OverallTimeout  time.Duration `yaml:"overall_timeout"`
	CacheTTL        time.Duration `yaml:"cache_ttl"`
	PerSourceCap    int           `yaml:"per_source_cap"`
	RecentWindow    time.Duration `yaml:"recent_window"`
}

// StoreConfig bounds the in-memory event store.
type StoreConfig struct {
	MaxEvents int `yaml:"max_events"`
}

// APIConfig controls the HTTP server exposed to the presentation layer.
type APIConfig struct {
	Addr string `yaml:"addr"`
}

// LLMConfig enables the optional model-polished situation digest.
// Leave Provider empty to disable.
type LLMConfig struct {
	Provider  string        `yaml:"provider"`
	Model     string        `yaml:"model"`
	APIKey    string        `yaml:"api_key"`
	MaxTokens int           `yaml:"max_tokens"`
	Timeout   time.Duration `yaml:"timeout"`
}

// Config is the full application configuration.
type Config struct {
	HTTP    HTTPConfig     `yaml:"http"`
	Scrape  ScrapeConfig   `yaml:"scrape"`
	Store   StoreConfig    `yaml:"store"`
	API     APIConfig      `yaml:"api"`
	LLM     LLMConfig      `yaml:"llm"`
	Sources []SourceConfig `yaml:"sources"`
}

// crisisKeywords is the relevance filter applied to broad feeds. A feed
// entry must mention at least one of these to survive.
var crisisKeywords = []string{
	"iran", "israel", "tehran", "idf", "hamas", "hezbollah", "gaza",
	"strike", "missile", "airstrike", "bomb", "attack", "military",
	"nuclear", "irgc", "pentagon", "jerusalem", "netanyahu", "khamenei",
	"middle east", "war", "conflict", "ceasefire", "escalat",
}

// CrisisKeywords returns the default relevance keyword list.
func CrisisKeywords() []string {
	out := make([]string, len(crisisKeywords))
	copy(out, crisisKeywords)
	return out
}

// DefaultConfig returns the built-in configuration, including the full
// source registry. Disabled sources are kept so operators can flip them
// on from a sources file without hunting for URLs.
func DefaultConfig() *Config {
	return &Config{
		HTTP: HTTPConfig{
			Timeout:      15 * time.Second,
			MaxRetries:   2,
			RetryBackoff: 500 * time.Millisecond,
			MaxBodyBytes: 4 << 20,
			UserAgents: []string{
				"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/122.0.0.0 Safari/537.36",
				"Mozilla/5.0 (Macintosh; Intel Mac OS X 14_3) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.2 Safari/605.1.15",
				"Mozilla/5.0 (X11; Linux x86_64; rv:123.0) Gecko/20100101 Firefox/123.0",
				"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/121.0.0.0 Safari/537.36 Edg/121.0.0.0",
			},
			PerHostRPS:   1,
			PerHostBurst: 3,
		},
		Scrape: ScrapeConfig{
			RefreshInterval: 60 * time.Second,
			OverallTimeout:  60 * time.Second,
			CacheTTL:        55 * time.Second,
			PerSourceCap:    50,
			RecentWindow:    10 * time.Minute,
		},
		Store: StoreConfig{MaxEvents: 500},
		API:   APIConfig{Addr: ":8080"},
		LLM: LLMConfig{
			MaxTokens: 400,
			Timeout:   30 * time.Second,
		},
		Sources: []SourceConfig{
			{
				Name: "Al Jazeera", ShortName: "AJ",
				URL:        "https://www.aljazeera.com/xml/rss/all.xml",
				WebsiteURL: "https://www.aljazeera.com",
				Color:      "#fa9f1c", Format: FormatFeed, Enabled: true,
			},
			{
				Name: "AP News", ShortName: "AP",
				URL:        "https://apnews.com/hub/world-news?format=rss",
				WebsiteURL: "https://apnews.com",
				Color:      "#ee3024", Format: FormatFeed,
			},
			{
				Name: "Reuters", ShortName: "REU",
				URL:        "https://www.reuters.com/arc/outboundfeeds/world/?outputType=xml",
				WebsiteURL: "https://www.reuters.com",
				Color:      "#ff8000", Format: FormatFeed,
			},
			{
				Name: "Jerusalem Post", ShortName: "JPOST",
				URL:        "https://www.jpost.com/rss/rssfeedsiran",
				WebsiteURL: "https://www.jpost.com",
				Color:      "#003b6f", Format: FormatFeed, Enabled: true,
				Prescoped: true, // feed is already Iran-specific
			},
			{
				Name: "UN News", ShortName: "UN",
				URL:        "https://news.un.org/feed/subscribe/en/news/region/middle-east/feed/rss.xml",
				WebsiteURL: "https://news.un.org",
				Color:      "#009edb", Format: FormatFeed,
				Prescoped: true,
			},
			{
				Name: "BBC News", ShortName: "BBC",
				URL:        "http://feeds.bbci.co.uk/news/world/rss.xml",
				WebsiteURL: "https://www.bbc.com/news",
				Color:      "#bb1919", Format: FormatFeed, Enabled: true,
			},
			{
				Name: "CNN", ShortName: "CNN",
				URL:        "https://www.cnn.com/world/live-news/israel-iran-attack-02-28-26-hnk-intl",
				WebsiteURL: "https://www.cnn.com",
				Color:      "#cc0000", Format: FormatLivePage, Enabled: true,
			},
			{
				Name: "Liveuamap", ShortName: "LUA",
				URL:        "https://iran.liveuamap.com/",
				WebsiteURL: "https://iran.liveuamap.com",
				Color:      "#2d6a4f", Format: FormatHybrid,
				// The ajax endpoint returns an empty payload without act/lang.
			APIURL: "https://iran.liveuamap.com/ajax/do?act=do&lang=en",
			},
			{
				Name: "NPR", ShortName: "NPR",
				URL:        "https://feeds.npr.org/1004/rss.xml",
				WebsiteURL: "https://www.npr.org",
				Color:      "#1a1a2e", Format: FormatFeed, Enabled: true,
			},
		},
	}
}

// EnabledSources filters the registry down to sources the orchestrator
// should actually run.
func (c *Config) EnabledSources() []SourceConfig {
	var out []SourceConfig
	for _, s := range c.Sources {
		if s.Enabled {
			out = append(out, s)
		}
	}
	return out
}

// LoadSources replaces the built-in source registry with the contents of
// a YAML file.
func (c *Config) LoadSources(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read sources file: %w", err)
	}
	var wrapper struct {
		Sources []SourceConfig `yaml:"sources"`
	}
	if err := yaml.Unmarshal(data, &wrapper); err != nil {
		return fmt.Errorf("parse sources file: %w", err)
	}
	if len(wrapper.Sources) == 0 {
		return fmt.Errorf("sources file %s defines no sources", path)
	}
	c.Sources = wrapper.Sources
	return nil
}
