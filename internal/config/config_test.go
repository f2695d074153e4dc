package config

import (
	"os"
	"path/filepath"
	"testing"
)

// ── Load / Defaults ──

func TestLoadReturnsDefaults(t *testing.T) {
	os.Unsetenv("ECONPULSE_STORE_API_KEY")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.Sources.CNBCURL != "https://www.cnbc.com/world-economy/" {
		t.Errorf("Sources.CNBCURL: got %q", cfg.Sources.CNBCURL)
	}
	if cfg.Sources.FetchTimeoutSec != 15 {
		t.Errorf("Sources.FetchTimeoutSec: got %d, want 15", cfg.Sources.FetchTimeoutSec)
	}
	if cfg.Sources.RequestsPerSecond != 2 {
		t.Errorf("Sources.RequestsPerSecond: got %d, want 2", cfg.Sources.RequestsPerSecond)
	}

	if cfg.Classifier.URL != "http://localhost:8501" {
		t.Errorf("Classifier.URL: got %q", cfg.Classifier.URL)
	}
	if cfg.Classifier.TimeoutSec != 60 {
		t.Errorf("Classifier.TimeoutSec: got %d, want 60", cfg.Classifier.TimeoutSec)
	}

	if cfg.Store.Driver != "elasticsearch" {
		t.Errorf("Store.Driver: got %q, want elasticsearch", cfg.Store.Driver)
	}
	if cfg.Store.Index != "news-history" {
		t.Errorf("Store.Index: got %q, want news-history", cfg.Store.Index)
	}
	if cfg.Store.DocumentID != "date-points" {
		t.Errorf("Store.DocumentID: got %q, want date-points", cfg.Store.DocumentID)
	}

	if cfg.API.Port != 8080 {
		t.Errorf("API.Port: got %d, want 8080", cfg.API.Port)
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("Logging.Level: got %q, want info", cfg.Logging.Level)
	}
	if cfg.Timezone != "Local" {
		t.Errorf("Timezone: got %q, want Local", cfg.Timezone)
	}
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")

	content := `
sources:
  cnbc_url: "http://fixtures.local/cnbc"
  fetch_timeout_sec: 3
store:
  driver: memory
  document_id: test-doc
logging:
  level: debug
  format: json
timezone: UTC
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write temp config: %v", err)
	}

	cfg, err := LoadFromFile(path)
	if err != nil {
		t.Fatalf("LoadFromFile() error: %v", err)
	}

	if cfg.Sources.CNBCURL != "http://fixtures.local/cnbc" {
		t.Errorf("Sources.CNBCURL: got %q", cfg.Sources.CNBCURL)
	}
	if cfg.Sources.FetchTimeoutSec != 3 {
		t.Errorf("Sources.FetchTimeoutSec: got %d, want 3", cfg.Sources.FetchTimeoutSec)
	}
	// Values absent from the file keep their defaults.
	if cfg.Sources.ReutersURL != "https://www.reuters.com/news/archive/economicNews" {
		t.Errorf("Sources.ReutersURL: got %q", cfg.Sources.ReutersURL)
	}
	if cfg.Store.Driver != "memory" {
		t.Errorf("Store.Driver: got %q, want memory", cfg.Store.Driver)
	}
	if cfg.Store.DocumentID != "test-doc" {
		t.Errorf("Store.DocumentID: got %q, want test-doc", cfg.Store.DocumentID)
	}
	if cfg.Logging.Format != "json" {
		t.Errorf("Logging.Format: got %q, want json", cfg.Logging.Format)
	}
	if cfg.Timezone != "UTC" {
		t.Errorf("Timezone: got %q, want UTC", cfg.Timezone)
	}
}

func TestLoadFromFileMissing(t *testing.T) {
	if _, err := LoadFromFile("/nonexistent/config.yaml"); err == nil {
		t.Fatal("expected error for missing config file")
	}
}

func TestStoreAPIKeyFromEnv(t *testing.T) {
	t.Setenv("ECONPULSE_STORE_API_KEY", "secret-key")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Store.APIKey != "secret-key" {
		t.Errorf("Store.APIKey: got %q, want secret-key", cfg.Store.APIKey)
	}
}

func TestDurationHelpers(t *testing.T) {
	s := SourcesConfig{FetchTimeoutSec: 7}
	if s.FetchTimeout().Seconds() != 7 {
		t.Errorf("FetchTimeout: got %v", s.FetchTimeout())
	}
	c := ClassifierConfig{TimeoutSec: 30}
	if c.Timeout().Seconds() != 30 {
		t.Errorf("Timeout: got %v", c.Timeout())
	}
}
