package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the news desk.
type Config struct {
	General   GeneralConfig   `mapstructure:"general"`
	Server    ServerConfig    `mapstructure:"server"`
	Crawler   CrawlerConfig   `mapstructure:"crawler"`
	Sources   SourcesConfig   `mapstructure:"sources"`
	Session   SessionConfig   `mapstructure:"session"`
	Storage   StorageConfig   `mapstructure:"storage"`
	Telemetry TelemetryConfig `mapstructure:"telemetry"`
	Security  SecurityConfig  `mapstructure:"security"`
}

// GeneralConfig contains general application settings. Debug keeps crawler
// and desk logs on stderr for the one-shot commands, which are quiet otherwise.
type GeneralConfig struct {
	Debug bool `mapstructure:"debug"`
}

// ServerConfig contains HTTP server settings
type ServerConfig struct {
	Address string `mapstructure:"address"`
}

// CrawlerConfig controls page retrieval and extraction.
type CrawlerConfig struct {
	Backend      string            `mapstructure:"backend"` // http or chromedp
	Timeout      time.Duration     `mapstructure:"timeout"`
	UserAgent    string            `mapstructure:"user_agent"`
	MaxBodyBytes int64             `mapstructure:"max_body_bytes"`
	Extraction   ExtractionWeights `mapstructure:"extraction"`
}

// ExtractionWeights tunes the heuristic body scorer.
type ExtractionWeights struct {
	LinkPenalty   float64 `mapstructure:"link_penalty"`
	NoisePenalty  float64 `mapstructure:"noise_penalty"`
	PositiveBonus float64 `mapstructure:"positive_bonus"`
	MinScore      float64 `mapstructure:"min_score"`
}

func (c CrawlerConfig) Validate() error {
	switch c.Backend {
	case "http", "chromedp":
	default:
		return fmt.Errorf("crawler.backend must be http or chromedp, got %q", c.Backend)
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("crawler.timeout must be > 0")
	}
	if c.Timeout > time.Minute {
		return fmt.Errorf("crawler.timeout must not exceed 1m, got %s", c.Timeout)
	}
	if strings.TrimSpace(c.UserAgent) == "" {
		return fmt.Errorf("crawler.user_agent required")
	}
	if c.MaxBodyBytes <= 0 {
		return fmt.Errorf("crawler.max_body_bytes must be > 0")
	}
	if c.Extraction.MinScore < 0 {
		return fmt.Errorf("crawler.extraction.min_score cannot be negative")
	}
	return nil
}

// SourcesConfig selects listing sources and declares extra ones.
type SourcesConfig struct {
	Enabled          []string       `mapstructure:"enabled"`
	DateFallbackDays int            `mapstructure:"date_fallback_days"`
	Extra            []SourceConfig `mapstructure:"extra"`
}

// SourceConfig declares an additional listing source.
type SourceConfig struct {
	ID     string `mapstructure:"id"`
	Name   string `mapstructure:"name"`
	Domain string `mapstructure:"domain"`
	Kind   string `mapstructure:"kind"` // rss or sitemap
	URL    string `mapstructure:"url"`
}

func (s SourcesConfig) Validate() error {
	if s.DateFallbackDays < 0 {
		return fmt.Errorf("sources.date_fallback_days cannot be negative")
	}
	seen := map[string]struct{}{}
	for i, src := range s.Extra {
		if strings.TrimSpace(src.ID) == "" {
			return fmt.Errorf("sources.extra[%d].id required", i)
		}
		if _, ok := seen[src.ID]; ok {
			return fmt.Errorf("sources.extra[%d]: duplicate id %q", i, src.ID)
		}
		seen[src.ID] = struct{}{}
		if src.Kind != "rss" && src.Kind != "sitemap" {
			return fmt.Errorf("sources.extra[%d].kind must be rss or sitemap", i)
		}
		if !strings.HasPrefix(src.URL, "http://") && !strings.HasPrefix(src.URL, "https://") {
			return fmt.Errorf("sources.extra[%d].url must be absolute", i)
		}
	}
	return nil
}

// SessionConfig selects where headline caches live.
type SessionConfig struct {
	Backend string        `mapstructure:"backend"` // inmemory or redis
	TTL     time.Duration `mapstructure:"ttl"`
}

func (s SessionConfig) Validate() error {
	if s.Backend != "inmemory" && s.Backend != "redis" {
		return fmt.Errorf("session.backend must be inmemory or redis, got %q", s.Backend)
	}
	if s.TTL <= 0 {
		return fmt.Errorf("session.ttl must be > 0")
	}
	return nil
}

// StorageConfig contains storage settings
type StorageConfig struct {
	Redis RedisConfig `mapstructure:"redis"`
}

// RedisConfig contains Redis connection settings
type RedisConfig struct {
	Host     string        `mapstructure:"host"`
	Port     string        `mapstructure:"port"`
	Password string        `mapstructure:"password"`
	DB       int           `mapstructure:"db"`
	Timeout  time.Duration `mapstructure:"timeout"`
}

func (r RedisConfig) Addr() string { return fmt.Sprintf("%s:%s", r.Host, r.Port) }

func (r RedisConfig) Validate() error {
	if strings.TrimSpace(r.Host) == "" {
		return fmt.Errorf("storage.redis.host required")
	}
	if strings.TrimSpace(r.Port) == "" {
		return fmt.Errorf("storage.redis.port required")
	}
	return nil
}

// TelemetryConfig contains monitoring settings
type TelemetryConfig struct {
	Enabled     bool   `mapstructure:"enabled"`
	MetricsPath string `mapstructure:"metrics_path"`
}

// SecurityConfig declares crawling restrictions.
type SecurityConfig struct {
	CrawlPolicy CrawlPolicyConfig `mapstructure:"crawl_policy"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("general.debug", false)
	v.SetDefault("server.address", ":10001")
	v.SetDefault("crawler.backend", "http")
	v.SetDefault("crawler.timeout", 8*time.Second)
	v.SetDefault("crawler.user_agent", DefaultUserAgent)
	v.SetDefault("crawler.max_body_bytes", 5<<20)
	v.SetDefault("crawler.extraction.link_penalty", 1.0)
	v.SetDefault("crawler.extraction.noise_penalty", 0.75)
	v.SetDefault("crawler.extraction.positive_bonus", 0.25)
	v.SetDefault("crawler.extraction.min_score", 100)
	v.SetDefault("sources.enabled", []string{"dailystar", "dhakatribune", "prothomalo", "jugantor"})
	v.SetDefault("sources.date_fallback_days", 3)
	v.SetDefault("session.backend", "inmemory")
	v.SetDefault("session.ttl", 24*time.Hour)
	v.SetDefault("storage.redis.host", "localhost")
	v.SetDefault("storage.redis.port", "6379")
	v.SetDefault("storage.redis.timeout", 5*time.Second)
	v.SetDefault("telemetry.enabled", true)
	v.SetDefault("telemetry.metrics_path", "/metrics")
	v.SetDefault("security.crawl_policy.disallow_paths", []string{"/cgi-bin/", "/cdn-cgi/", "/register/", "/login", "/api/"})
}

// DefaultUserAgent is a desktop Chrome identity; several publishers reject unknown clients.
const DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/127.0.0.0 Safari/537.36"

// LoadConfig loads config from file, environment (KHOBOR_*) and defaults.
// A missing config file is not an error when path is empty.
func LoadConfig(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("json")
	setDefaults(v)

	if path == "" {
		v.AddConfigPath("./config")
		v.AddConfigPath(".")
		exe, _ := os.Executable()
		exeDir := filepath.Dir(exe)
		v.AddConfigPath(exeDir)
		v.AddConfigPath(filepath.Join(exeDir, "..", "config"))
	} else {
		v.SetConfigFile(path)
	}

	v.SetEnvPrefix("KHOBOR")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	cfg.Security.CrawlPolicy = cfg.Security.CrawlPolicy.Normalize()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks every section.
func (c *Config) Validate() error {
	if err := c.Crawler.Validate(); err != nil {
		return err
	}
	if err := c.Sources.Validate(); err != nil {
		return err
	}
	if err := c.Session.Validate(); err != nil {
		return err
	}
	if c.Session.Backend == "redis" {
		if err := c.Storage.Redis.Validate(); err != nil {
			return err
		}
	}
	return c.Security.CrawlPolicy.Validate()
}
