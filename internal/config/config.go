// Package config loads and validates service configuration via Viper.
package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config captures all service configuration knobs loaded via Viper.
type Config struct {
	Server  ServerConfig  `mapstructure:"server"`
	Auth    AuthConfig    `mapstructure:"auth"`
	Crawler CrawlerConfig `mapstructure:"crawler"`
	Export  ExportConfig  `mapstructure:"export"`
	DB      DBConfig      `mapstructure:"db"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// ServerConfig controls HTTP server behavior.
type ServerConfig struct {
	Port int `mapstructure:"port"`
}

// AuthConfig defines API authentication toggles.
type AuthConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	APIKey  string `mapstructure:"api_key"`
}

// CrawlerConfig governs the pagination walk.
type CrawlerConfig struct {
	StartURL       string `mapstructure:"start_url"`
	UserAgent      string `mapstructure:"user_agent"`
	DelayMs        int    `mapstructure:"delay_ms"`
	MaxPages       int    `mapstructure:"max_pages"`
	TimeoutSeconds int    `mapstructure:"timeout_seconds"`
	RunOnStart     bool   `mapstructure:"run_on_start"`
}

// ExportConfig sets the flat export target.
type ExportConfig struct {
	Path string `mapstructure:"path"`
}

// DBConfig controls access to the relational database. An empty DSN runs
// the service with a no-op store.
type DBConfig struct {
	DSN                    string `mapstructure:"dsn"`
	Table                  string `mapstructure:"table"`
	MaxConns               int32  `mapstructure:"max_conns"`
	MinConns               int32  `mapstructure:"min_conns"`
	MaxConnLifetimeMinutes int    `mapstructure:"max_conn_lifetime_minutes"`
}

// LoggingConfig toggles zap development features.
type LoggingConfig struct {
	Development bool `mapstructure:"development"`
}

// Load builds a Config from disk/environment.
func Load(path string) (Config, error) {
	v := viper.New()
	v.SetEnvPrefix("BOOKCRAWLER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("crawler.start_url", "https://books.toscrape.com/catalogue/page-1.html")
	v.SetDefault("crawler.user_agent", "bookstore-crawler/0.1")
	v.SetDefault("crawler.delay_ms", 100)
	v.SetDefault("crawler.max_pages", 0)
	v.SetDefault("crawler.timeout_seconds", 15)
	v.SetDefault("crawler.run_on_start", false)
	v.SetDefault("export.path", "data/scraped_books.csv")
	v.SetDefault("db.table", "books")
	v.SetDefault("db.max_conns", 4)
	v.SetDefault("db.min_conns", 1)
	v.SetDefault("db.max_conn_lifetime_minutes", 30)
	v.SetDefault("logging.development", true)
}

// Validate enforces required values and reasonable limits.
func (c Config) Validate() error {
	if c.Server.Port <= 0 {
		return fmt.Errorf("server.port must be > 0")
	}
	if c.Crawler.StartURL == "" {
		return fmt.Errorf("crawler.start_url is required")
	}
	parsed, err := url.Parse(c.Crawler.StartURL)
	if err != nil {
		return fmt.Errorf("invalid crawler.start_url: %w", err)
	}
	if parsed.Host == "" {
		return fmt.Errorf("crawler.start_url must include a host")
	}
	if c.Crawler.DelayMs < 0 {
		return fmt.Errorf("crawler.delay_ms cannot be negative")
	}
	if c.Crawler.MaxPages < 0 {
		return fmt.Errorf("crawler.max_pages cannot be negative")
	}
	if c.Crawler.TimeoutSeconds <= 0 {
		return fmt.Errorf("crawler.timeout_seconds must be > 0")
	}
	if c.Export.Path == "" {
		return fmt.Errorf("export.path is required")
	}
	if c.Auth.Enabled && c.Auth.APIKey == "" {
		return fmt.Errorf("auth.api_key must be set when auth is enabled")
	}
	return nil
}

// Delay converts the configured inter-item pause into a duration.
func (c Config) Delay() time.Duration {
	return time.Duration(c.Crawler.DelayMs) * time.Millisecond
}

// FetchTimeout converts the configured HTTP timeout into a duration.
func (c Config) FetchTimeout() time.Duration {
	return time.Duration(c.Crawler.TimeoutSeconds) * time.Second
}

// ConnLifetime converts the configured pool lifetime into a duration.
func (c Config) ConnLifetime() time.Duration {
	return time.Duration(c.DB.MaxConnLifetimeMinutes) * time.Minute
}
