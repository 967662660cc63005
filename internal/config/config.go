package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Adda-Baaj/khobor-corpus/internal/corpus"
	"github.com/Adda-Baaj/khobor-corpus/internal/logger"
)

// Config is the full runtime configuration of khobor-corpus.
type Config struct {
	Corpus     CorpusConfig     `mapstructure:"corpus"`
	Sites      SitesConfig      `mapstructure:"sites"`
	HTTP       HTTPConfig       `mapstructure:"http"`
	Scrape     ScrapeConfig     `mapstructure:"scrape"`
	Logging    LoggingConfig    `mapstructure:"logging"`
	Ledger     LedgerConfig     `mapstructure:"ledger"`
	Publishers PublishersConfig `mapstructure:"publishers"`
}

// CorpusConfig locates the output tree.
type CorpusConfig struct {
	Root          string   `mapstructure:"root"`
	TitleSuffixes []string `mapstructure:"title_suffixes"`
}

// SitesConfig points at an optional site registry file. Empty means built-in sites.
type SitesConfig struct {
	File string `mapstructure:"file"`
}

type HTTPConfig struct {
	TimeoutSeconds int    `mapstructure:"timeout_seconds"`
	UserAgent      string `mapstructure:"user_agent"`
}

type ScrapeConfig struct {
	Workers int `mapstructure:"workers"`
	// LegacyDates writes date directories exactly as the markup spelled them.
	LegacyDates bool `mapstructure:"legacy_dates"`
}

type LoggingConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"`
	File       string `mapstructure:"file"`
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups"`
}

type LedgerConfig struct {
	Path string `mapstructure:"path"`
}

// PublishersConfig points at an optional publishers file. Empty disables event publishing.
type PublishersConfig struct {
	File string `mapstructure:"file"`
}

// Default returns the configuration used when nothing overrides it.
func Default() *Config {
	return &Config{
		Corpus: CorpusConfig{
			Root:          "scraped",
			TitleSuffixes: append([]string(nil), corpus.DefaultTitleSuffixes...),
		},
		HTTP: HTTPConfig{
			TimeoutSeconds: 15,
			UserAgent:      "khobor-corpus/1.0 (news corpus harvester)",
		},
		Scrape: ScrapeConfig{
			Workers: 1,
		},
		Logging: LoggingConfig{
			Level:      "info",
			Format:     "json",
			MaxSizeMB:  50,
			MaxBackups: 3,
		},
		Ledger: LedgerConfig{
			Path: ".khobor/runs.db",
		},
	}
}

// Validate checks ranges and enumerations.
func (c *Config) Validate() error {
	var errs []error

	if strings.TrimSpace(c.Corpus.Root) == "" {
		errs = append(errs, errors.New("corpus.root is required"))
	}
	if c.HTTP.TimeoutSeconds < 1 || c.HTTP.TimeoutSeconds > 300 {
		errs = append(errs, fmt.Errorf("http.timeout_seconds must be between 1 and 300, got %d", c.HTTP.TimeoutSeconds))
	}
	if c.Scrape.Workers < 1 || c.Scrape.Workers > 32 {
		errs = append(errs, fmt.Errorf("scrape.workers must be between 1 and 32, got %d", c.Scrape.Workers))
	}
	switch strings.ToLower(c.Logging.Level) {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Errorf("logging.level %q is not one of debug, info, warn, error", c.Logging.Level))
	}
	switch strings.ToLower(c.Logging.Format) {
	case "json", "console":
	default:
		errs = append(errs, fmt.Errorf("logging.format %q must be json or console", c.Logging.Format))
	}
	if c.Logging.MaxSizeMB < 0 || c.Logging.MaxBackups < 0 {
		errs = append(errs, errors.New("logging rotation limits cannot be negative"))
	}
	if strings.TrimSpace(c.Ledger.Path) == "" {
		errs = append(errs, errors.New("ledger.path is required"))
	}

	return errors.Join(errs...)
}

// HTTPTimeout is the per-request timeout.
func (c *Config) HTTPTimeout() time.Duration {
	return time.Duration(c.HTTP.TimeoutSeconds) * time.Second
}

// LoggerOptions maps the logging section onto logger.Options.
func (c *Config) LoggerOptions() logger.Options {
	return logger.Options{
		Level:      c.Logging.Level,
		Format:     c.Logging.Format,
		File:       c.Logging.File,
		MaxSizeMB:  c.Logging.MaxSizeMB,
		MaxBackups: c.Logging.MaxBackups,
	}
}
