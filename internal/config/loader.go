package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix namespaces every environment override, e.g. KHOBOR_SCRAPE_WORKERS.
const EnvPrefix = "KHOBOR"

// Load reads configuration. Priority (highest to lowest): env vars (including a .env file in
// the working directory) > config file > defaults. CLI flags are applied by the caller.
// An explicit configPath must exist; without one, khobor-corpus.yaml is looked up in . and
// ./configs and may be absent.
func Load(configPath string) (*Config, error) {
	if err := loadDotEnv(".env"); err != nil {
		return nil, err
	}

	cfg := Default()

	v := viper.New()
	v.SetConfigType("yaml")
	setDefaults(v, cfg)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("khobor-corpus")
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configPath != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// loadDotEnv exports variables from path without overriding ones already set.
func loadDotEnv(path string) error {
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err := godotenv.Load(filepath.Clean(path)); err != nil {
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}

// setDefaults registers every key so that env overrides apply during Unmarshal.
func setDefaults(v *viper.Viper, cfg *Config) {
	v.SetDefault("corpus.root", cfg.Corpus.Root)
	v.SetDefault("corpus.title_suffixes", cfg.Corpus.TitleSuffixes)

	v.SetDefault("sites.file", cfg.Sites.File)

	v.SetDefault("http.timeout_seconds", cfg.HTTP.TimeoutSeconds)
	v.SetDefault("http.user_agent", cfg.HTTP.UserAgent)

	v.SetDefault("scrape.workers", cfg.Scrape.Workers)
	v.SetDefault("scrape.legacy_dates", cfg.Scrape.LegacyDates)

	v.SetDefault("logging.level", cfg.Logging.Level)
	v.SetDefault("logging.format", cfg.Logging.Format)
	v.SetDefault("logging.file", cfg.Logging.File)
	v.SetDefault("logging.max_size_mb", cfg.Logging.MaxSizeMB)
	v.SetDefault("logging.max_backups", cfg.Logging.MaxBackups)

	v.SetDefault("ledger.path", cfg.Ledger.Path)

	v.SetDefault("publishers.file", cfg.Publishers.File)
}
