// Package config loads and validates scraper configuration via Viper.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config captures every knob the scraper reads, loaded via Viper.
type Config struct {
	Crawler  CrawlerConfig  `mapstructure:"crawler"`
	Extract  ExtractConfig  `mapstructure:"extract"`
	Language LanguageConfig `mapstructure:"language"`
	Temporal TemporalConfig `mapstructure:"temporal"`
	Visual   VisualConfig   `mapstructure:"visual"`
	Metrics  MetricsConfig  `mapstructure:"metrics"`
	Logging  LoggingConfig  `mapstructure:"logging"`
}

// CrawlerConfig governs fetching and politeness.
type CrawlerConfig struct {
	UserAgent      string  `mapstructure:"user_agent"`
	TimeoutSeconds int     `mapstructure:"timeout_seconds"`
	DelaySeconds   float64 `mapstructure:"delay_seconds"`
	MaxURLs        int     `mapstructure:"max_urls"`
	RespectRobots  bool    `mapstructure:"respect_robots"`
}

// ExtractConfig bounds page content extraction.
type ExtractConfig struct {
	VisibleTextLimit     int  `mapstructure:"visible_text_limit"`
	ProbeImageDimensions bool `mapstructure:"probe_image_dimensions"`
}

// LanguageConfig bounds the text slice handed to the detector.
type LanguageConfig struct {
	MinTextLength int `mapstructure:"min_text_length"`
	MaxTextLength int `mapstructure:"max_text_length"`
}

// TemporalConfig controls timestamp canonicalization.
type TemporalConfig struct {
	IncludeGMT bool `mapstructure:"include_gmt"`
}

// VisualConfig configures headless capture and palette extraction.
type VisualConfig struct {
	Colors            int `mapstructure:"colors"`
	ViewportWidth     int `mapstructure:"viewport_width"`
	ViewportHeight    int `mapstructure:"viewport_height"`
	NavTimeoutSeconds int `mapstructure:"nav_timeout_seconds"`
}

// MetricsConfig toggles the Prometheus listener.
type MetricsConfig struct {
	Enabled bool `mapstructure:"enabled"`
	Port    int  `mapstructure:"port"`
}

// LoggingConfig toggles zap development features.
type LoggingConfig struct {
	Development bool `mapstructure:"development"`
}

// Load builds a Config from disk/environment.
func Load(path string) (Config, error) {
	v := viper.New()
	v.SetEnvPrefix("INDIESCRAPER")
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
	v.SetDefault("crawler.user_agent", "indiescraper/1.0 (+https://indieweb-atlas.org)")
	v.SetDefault("crawler.timeout_seconds", 15)
	v.SetDefault("crawler.delay_seconds", 1.0)
	v.SetDefault("crawler.max_urls", 0)
	v.SetDefault("crawler.respect_robots", true)
	v.SetDefault("extract.visible_text_limit", 20000)
	v.SetDefault("extract.probe_image_dimensions", true)
	v.SetDefault("language.min_text_length", 50)
	v.SetDefault("language.max_text_length", 8000)
	v.SetDefault("temporal.include_gmt", true)
	v.SetDefault("visual.colors", 5)
	v.SetDefault("visual.viewport_width", 1920)
	v.SetDefault("visual.viewport_height", 1080)
	v.SetDefault("visual.nav_timeout_seconds", 60)
	v.SetDefault("metrics.enabled", false)
	v.SetDefault("metrics.port", 9090)
	v.SetDefault("logging.development", true)
}

// Validate enforces required values and reasonable limits.
func (c Config) Validate() error {
	if c.Crawler.UserAgent == "" {
		return fmt.Errorf("crawler.user_agent must be set")
	}
	if c.Crawler.TimeoutSeconds <= 0 {
		return fmt.Errorf("crawler.timeout_seconds must be > 0")
	}
	if c.Crawler.DelaySeconds < 0 {
		return fmt.Errorf("crawler.delay_seconds must be >= 0")
	}
	if c.Crawler.MaxURLs < 0 {
		return fmt.Errorf("crawler.max_urls must be >= 0")
	}
	if c.Language.MinTextLength <= 0 || c.Language.MaxTextLength < c.Language.MinTextLength {
		return fmt.Errorf("language text bounds must satisfy 0 < min <= max")
	}
	if c.Visual.Colors <= 0 {
		return fmt.Errorf("visual.colors must be > 0")
	}
	if c.Metrics.Enabled && c.Metrics.Port <= 0 {
		return fmt.Errorf("metrics.port must be > 0 when metrics are enabled")
	}
	return nil
}

// Timeout returns the per-request HTTP budget.
func (c Config) Timeout() time.Duration {
	return time.Duration(c.Crawler.TimeoutSeconds) * time.Second
}

// Delay returns the inter-URL politeness pause.
func (c Config) Delay() time.Duration {
	return time.Duration(c.Crawler.DelaySeconds * float64(time.Second))
}

// NavTimeout returns the headless navigation budget.
func (c Config) NavTimeout() time.Duration {
	return time.Duration(c.Visual.NavTimeoutSeconds) * time.Second
}
