// Package config handles configuration loading for EconPulse.
// It supports YAML config files with environment variable overrides.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config represents the complete application configuration.
type Config struct {
	Sources    SourcesConfig    `mapstructure:"sources"    yaml:"sources"`
	Classifier ClassifierConfig `mapstructure:"classifier" yaml:"classifier"`
	Store      StoreConfig      `mapstructure:"store"      yaml:"store"`
	API        APIConfig        `mapstructure:"api"        yaml:"api"`
	Logging    LoggingConfig    `mapstructure:"logging"    yaml:"logging"`
	Timezone   string           `mapstructure:"timezone"   yaml:"timezone"` // e.g. "Local", "UTC", "Europe/Rome"
}

// SourcesConfig holds the per-source listing URLs and shared fetch
// settings. The URLs are explicit configuration, not ambient constants,
// so tests can point the scrapers at fixtures.
type SourcesConfig struct {
	CNBCURL             string `mapstructure:"cnbc_url"              yaml:"cnbc_url"`
	ReutersURL          string `mapstructure:"reuters_url"           yaml:"reuters_url"`
	BusinessStandardURL string `mapstructure:"business_standard_url" yaml:"business_standard_url"`
	FetchTimeoutSec     int    `mapstructure:"fetch_timeout_sec"     yaml:"fetch_timeout_sec"`
	RequestsPerSecond   int    `mapstructure:"requests_per_second"   yaml:"requests_per_second"`
}

// FetchTimeout returns the per-source fetch timeout as a duration.
func (s SourcesConfig) FetchTimeout() time.Duration {
	return time.Duration(s.FetchTimeoutSec) * time.Second
}

// ClassifierConfig holds the sentiment inference service settings.
type ClassifierConfig struct {
	URL        string `mapstructure:"url"         yaml:"url"`
	TimeoutSec int    `mapstructure:"timeout_sec" yaml:"timeout_sec"`
}

// Timeout returns the classifier request timeout as a duration.
func (c ClassifierConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSec) * time.Second
}

// StoreConfig holds the historical series store settings.
// Driver is "elasticsearch" for the real document store or "memory"
// for offline runs and tests.
type StoreConfig struct {
	Driver     string `mapstructure:"driver"      yaml:"driver"`
	Address    string `mapstructure:"address"     yaml:"address"`
	Index      string `mapstructure:"index"       yaml:"index"`
	DocumentID string `mapstructure:"document_id" yaml:"document_id"`
	APIKey     string `mapstructure:"api_key"     yaml:"api_key"`
}

// APIConfig holds HTTP API server settings.
type APIConfig struct {
	Host        string   `mapstructure:"host"         yaml:"host"`
	Port        int      `mapstructure:"port"         yaml:"port"`
	CORSOrigins []string `mapstructure:"cors_origins" yaml:"cors_origins"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"  yaml:"level"`  // "debug", "info", "warn", "error"
	Format string `mapstructure:"format" yaml:"format"` // "text" or "json"
}

// Load reads the configuration from file and environment variables.
// Config file search order:
//  1. ./config/config.yaml (project root)
//  2. ~/.econpulse/config.yaml (home directory)
//  3. /etc/econpulse/config.yaml (system)
//
// Environment variables override config file values.
// Format: ECONPULSE_<SECTION>_<KEY>, e.g., ECONPULSE_STORE_ADDRESS
func Load() (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./config")
	v.AddConfigPath(filepath.Join(homeDir(), ".econpulse"))
	v.AddConfigPath("/etc/econpulse")

	v.SetEnvPrefix("ECONPULSE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found — that's fine, use defaults + env vars
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	overrideFromEnv(&cfg)
	return &cfg, nil
}

// LoadFromFile reads configuration from a specific file path.
func LoadFromFile(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigFile(path)
	v.SetEnvPrefix("ECONPULSE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file %s: %w", path, err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	overrideFromEnv(&cfg)
	return &cfg, nil
}

// setDefaults sets sensible defaults for all config values.
func setDefaults(v *viper.Viper) {
	// Source defaults: the three listing pages the scrapers understand.
	v.SetDefault("sources.cnbc_url", "https://www.cnbc.com/world-economy/")
	v.SetDefault("sources.reuters_url", "https://www.reuters.com/news/archive/economicNews")
	v.SetDefault("sources.business_standard_url", "https://www.business-standard.com/category/international-news-economy-1160102.htm")
	v.SetDefault("sources.fetch_timeout_sec", 15)
	v.SetDefault("sources.requests_per_second", 2)

	// Classifier defaults
	v.SetDefault("classifier.url", "http://localhost:8501")
	v.SetDefault("classifier.timeout_sec", 60)

	// Store defaults
	v.SetDefault("store.driver", "elasticsearch")
	v.SetDefault("store.address", "http://localhost:9200")
	v.SetDefault("store.index", "news-history")
	v.SetDefault("store.document_id", "date-points")

	// API defaults
	v.SetDefault("api.host", "0.0.0.0")
	v.SetDefault("api.port", 8080)
	v.SetDefault("api.cors_origins", []string{"http://localhost:3000"})

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "text")

	v.SetDefault("timezone", "Local")
}

// overrideFromEnv explicitly reads sensitive keys from environment variables.
func overrideFromEnv(cfg *Config) {
	if key := os.Getenv("ECONPULSE_STORE_API_KEY"); key != "" {
		cfg.Store.APIKey = key
	}
}

// homeDir returns the user's home directory.
func homeDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return home
}
