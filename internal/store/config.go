package store

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"

	"market-sentiment/internal/types"
)

type Config struct {
	Service struct {
		Name    string `yaml:"name"`
		Version string `yaml:"version"`
	} `yaml:"service"`
	Server struct {
		Addr                string `yaml:"addr"`
		ReadTimeoutSeconds  int    `yaml:"read_timeout_seconds"`
		WriteTimeoutSeconds int    `yaml:"write_timeout_seconds"`
	} `yaml:"server"`
	Quotes struct {
		Source             string  `yaml:"source"` // STATIC or LIVE
		Exchange           string  `yaml:"exchange"`
		CacheSeconds       int     `yaml:"cache_seconds"`
		HistoryDays        int     `yaml:"history_days"`
		AvgVolumeWindow    int     `yaml:"avg_volume_window"`
		Concurrency        int     `yaml:"concurrency"`
		RateLimitPerSecond float64 `yaml:"rate_limit_per_second"`
	} `yaml:"quotes"`
	News struct {
		Source                string `yaml:"source"` // STATIC or SCRAPE
		CacheMinutes          int    `yaml:"cache_minutes"`
		MaxArticles           int    `yaml:"max_articles"`
		ScraperTimeoutSeconds int    `yaml:"scraper_timeout_seconds"`
	} `yaml:"news"`
	Tracker struct {
		Capacity      int `yaml:"capacity"`
		WindowMinutes int `yaml:"window_minutes"`
	} `yaml:"tracker"`
	Universe []types.Stock `yaml:"universe"`

	// Kite credentials only come from the environment.
	Kite KiteCredentials `yaml:"-"`
}

type KiteCredentials struct {
	APIKey      string `envconfig:"KITE_API_KEY"`
	AccessToken string `envconfig:"KITE_ACCESS_TOKEN"`
}

// envOverrides are read with the SENTIMENT_ prefix, e.g. SENTIMENT_SERVER_ADDR.
type envOverrides struct {
	ServerAddr      string `envconfig:"SERVER_ADDR"`
	QuoteSource     string `envconfig:"QUOTE_SOURCE"`
	NewsSource      string `envconfig:"NEWS_SOURCE"`
	TrackerCapacity int    `envconfig:"TRACKER_CAPACITY"`
}

// Default returns a configuration with every default applied.
func Default() *Config {
	var c Config
	c.applyDefaults()
	return &c
}

func (c *Config) applyDefaults() {
	if c.Service.Name == "" {
		c.Service.Name = "market-sentiment"
	}
	if c.Service.Version == "" {
		c.Service.Version = "1.0.0"
	}
	if c.Server.Addr == "" {
		c.Server.Addr = ":8080"
	}
	if c.Server.ReadTimeoutSeconds == 0 {
		c.Server.ReadTimeoutSeconds = 15
	}
	if c.Server.WriteTimeoutSeconds == 0 {
		c.Server.WriteTimeoutSeconds = 30
	}
	if c.Quotes.Source == "" {
		c.Quotes.Source = "STATIC"
	}
	if c.Quotes.Exchange == "" {
		c.Quotes.Exchange = "NSE"
	}
	if c.Quotes.CacheSeconds == 0 {
		c.Quotes.CacheSeconds = 300
	}
	if c.Quotes.HistoryDays == 0 {
		c.Quotes.HistoryDays = 30
	}
	if c.Quotes.AvgVolumeWindow == 0 {
		c.Quotes.AvgVolumeWindow = 20
	}
	if c.Quotes.Concurrency == 0 {
		c.Quotes.Concurrency = 10
	}
	if c.Quotes.RateLimitPerSecond == 0 {
		c.Quotes.RateLimitPerSecond = 3
	}
	if c.News.Source == "" {
		c.News.Source = "STATIC"
	}
	if c.News.CacheMinutes == 0 {
		c.News.CacheMinutes = 10
	}
	if c.News.MaxArticles == 0 {
		c.News.MaxArticles = 15
	}
	if c.News.ScraperTimeoutSeconds == 0 {
		c.News.ScraperTimeoutSeconds = 30
	}
	if c.Tracker.Capacity == 0 {
		c.Tracker.Capacity = 1000
	}
	if c.Tracker.WindowMinutes == 0 {
		c.Tracker.WindowMinutes = 60
	}
	if len(c.Universe) == 0 {
		c.Universe = DefaultUniverse()
	}
}

func (c *Config) applyEnv() error {
	var o envOverrides
	if err := envconfig.Process("SENTIMENT", &o); err != nil {
		return fmt.Errorf("failed to process env overrides: %w", err)
	}
	if o.ServerAddr != "" {
		c.Server.Addr = o.ServerAddr
	}
	if o.QuoteSource != "" {
		c.Quotes.Source = strings.ToUpper(o.QuoteSource)
	}
	if o.NewsSource != "" {
		c.News.Source = strings.ToUpper(o.NewsSource)
	}
	if o.TrackerCapacity != 0 {
		c.Tracker.Capacity = o.TrackerCapacity
	}

	if err := envconfig.Process("", &c.Kite); err != nil {
		return fmt.Errorf("failed to process kite credentials: %w", err)
	}
	return nil
}

func (c *Config) Validate() error {
	if c.Quotes.Source != "STATIC" && c.Quotes.Source != "LIVE" {
		return fmt.Errorf("invalid quotes.source '%s': must be 'STATIC' or 'LIVE'", c.Quotes.Source)
	}
	if c.Quotes.Source == "LIVE" && (c.Kite.APIKey == "" || c.Kite.AccessToken == "") {
		return errors.New("quotes.source LIVE requires KITE_API_KEY and KITE_ACCESS_TOKEN")
	}
	if c.News.Source != "STATIC" && c.News.Source != "SCRAPE" {
		return fmt.Errorf("invalid news.source '%s': must be 'STATIC' or 'SCRAPE'", c.News.Source)
	}
	if c.Quotes.Concurrency < 1 {
		return fmt.Errorf("quotes.concurrency must be positive, got %d", c.Quotes.Concurrency)
	}
	if c.Quotes.RateLimitPerSecond <= 0 {
		return fmt.Errorf("quotes.rate_limit_per_second must be positive, got %.2f", c.Quotes.RateLimitPerSecond)
	}
	if c.Quotes.HistoryDays < 5 {
		return fmt.Errorf("quotes.history_days must be at least 5, got %d", c.Quotes.HistoryDays)
	}
	if c.Tracker.Capacity < 1 {
		return fmt.Errorf("tracker.capacity must be positive, got %d", c.Tracker.Capacity)
	}
	if c.Tracker.WindowMinutes < 1 {
		return fmt.Errorf("tracker.window_minutes must be positive, got %d", c.Tracker.WindowMinutes)
	}
	if len(c.Universe) == 0 {
		return errors.New("universe cannot be empty")
	}
	seen := make(map[string]bool, len(c.Universe))
	for _, s := range c.Universe {
		if s.Symbol == "" {
			return errors.New("universe entry with empty symbol")
		}
		if seen[s.Symbol] {
			return fmt.Errorf("duplicate universe symbol '%s'", s.Symbol)
		}
		seen[s.Symbol] = true
		if s.Weightage < 0 {
			return fmt.Errorf("universe symbol '%s' has negative weightage %.2f", s.Symbol, s.Weightage)
		}
	}
	return nil
}

func (c *Config) QuoteCacheTTL() time.Duration {
	return time.Duration(c.Quotes.CacheSeconds) * time.Second
}

func (c *Config) NewsCacheTTL() time.Duration {
	return time.Duration(c.News.CacheMinutes) * time.Minute
}

func (c *Config) ScraperTimeout() time.Duration {
	return time.Duration(c.News.ScraperTimeoutSeconds) * time.Second
}

func (c *Config) TrackerWindow() time.Duration {
	return time.Duration(c.Tracker.WindowMinutes) * time.Minute
}

func LoadConfig(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseConfig(b)
}

// ParseConfig decodes YAML, fills defaults, applies env overrides and validates.
func ParseConfig(b []byte) (*Config, error) {
	var c Config
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, err
	}

	c.Quotes.Source = strings.ToUpper(c.Quotes.Source)
	c.News.Source = strings.ToUpper(c.News.Source)
	c.applyDefaults()

	if err := c.applyEnv(); err != nil {
		return nil, err
	}

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &c, nil
}
