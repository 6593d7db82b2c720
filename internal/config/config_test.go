package config

import (
	"strings"
	"testing"
)

func validConfig() Config {
	cfg := Config{
		HTTP:    HTTPConfig{Port: 8080},
		Dataset: DatasetConfig{Path: "data/restaurants.csv"},
	}
	cfg.ApplyDefaults()
	return cfg
}

func TestValidate_OK(t *testing.T) {
	cfg := validConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidate_InvalidPort(t *testing.T) {
	cfg := validConfig()
	cfg.HTTP.Port = 0

	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for invalid port")
	}
}

func TestValidate_PortMessage(t *testing.T) {
	cfg := validConfig()
	cfg.HTTP.Port = 70000

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected error for port above range")
	}
	expected := "http.port must satisfy max=65535, got 70000"
	if err.Error() != expected {
		t.Errorf("unexpected error message:\ngot:  %q\nwant: %q", err.Error(), expected)
	}
}

func TestValidate_MissingDatasetPath(t *testing.T) {
	cfg := validConfig()
	cfg.Dataset.Path = ""

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected error for missing dataset path")
	}
	if err.Error() != "dataset.path is required" {
		t.Errorf("unexpected error message: %q", err.Error())
	}
}

func TestValidate_LoggingLevel(t *testing.T) {
	for _, level := range []string{"", "debug", "info", "warn", "error"} {
		cfg := validConfig()
		cfg.Logging.Level = level
		if err := cfg.Validate(); err != nil {
			t.Errorf("level %q: unexpected error: %v", level, err)
		}
	}

	cfg := validConfig()
	cfg.Logging.Level = "verbose"
	if err := cfg.Validate(); err == nil || !strings.Contains(err.Error(), "logging.level") {
		t.Fatalf("expected logging.level error, got %v", err)
	}
}

func TestValidate_DatasetExtension(t *testing.T) {
	tests := []struct {
		path    string
		wantErr bool
	}{
		{"a.csv", false},
		{"a.CSV", false},
		{"a.parquet", false},
		{"a.json", true},
		{"restaurants", true},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			cfg := validConfig()
			cfg.Dataset.Path = tt.path
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidate_DefaultLimitAboveMax(t *testing.T) {
	cfg := validConfig()
	cfg.Recommend.DefaultLimit = 50
	cfg.Recommend.MaxLimit = 20

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected error")
	}
	expected := "recommend.default_limit (50) must not exceed recommend.max_limit (20)"
	if err.Error() != expected {
		t.Errorf("unexpected error message:\ngot:  %q\nwant: %q", err.Error(), expected)
	}
}

func TestValidate_CacheEnabledWithoutAddrs(t *testing.T) {
	cfg := validConfig()
	cfg.Cache.Enabled = true

	err := cfg.Validate()
	if err == nil || err.Error() != "cache.addrs is required" {
		t.Fatalf("expected cache.addrs error, got %v", err)
	}

	cfg.Cache.Addrs = []string{"localhost:6379"}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestApplyDefaults(t *testing.T) {
	cfg := Config{}
	cfg.ApplyDefaults()

	if cfg.HTTP.ReadTimeoutSec != 10 {
		t.Errorf("expected ReadTimeoutSec=10, got %d", cfg.HTTP.ReadTimeoutSec)
	}
	if cfg.HTTP.WriteTimeoutSec != 10 {
		t.Errorf("expected WriteTimeoutSec=10, got %d", cfg.HTTP.WriteTimeoutSec)
	}
	if cfg.HTTP.ShutdownSec != 10 {
		t.Errorf("expected ShutdownSec=10, got %d", cfg.HTTP.ShutdownSec)
	}
	if cfg.Dataset.Seed != 42 {
		t.Errorf("expected Seed=42, got %d", cfg.Dataset.Seed)
	}
	if cfg.Index.MaxFeatures != 5000 {
		t.Errorf("expected MaxFeatures=5000, got %d", cfg.Index.MaxFeatures)
	}
	if cfg.Index.Neighbors != 6 {
		t.Errorf("expected Neighbors=6, got %d", cfg.Index.Neighbors)
	}
	if cfg.Recommend.DefaultLimit != 10 {
		t.Errorf("expected DefaultLimit=10, got %d", cfg.Recommend.DefaultLimit)
	}
	if cfg.Recommend.MaxLimit != 100 {
		t.Errorf("expected MaxLimit=100, got %d", cfg.Recommend.MaxLimit)
	}
	if cfg.Cache.TTLSec != 300 {
		t.Errorf("expected TTLSec=300, got %d", cfg.Cache.TTLSec)
	}
	if cfg.Cache.ReadinessTimeout != 10 {
		t.Errorf("expected ReadinessTimeout=10, got %d", cfg.Cache.ReadinessTimeout)
	}
	if cfg.Cache.BreakerFailures != 5 || cfg.Cache.BreakerTimeoutSec != 30 {
		t.Errorf("expected breaker 5/30, got %d/%d", cfg.Cache.BreakerFailures, cfg.Cache.BreakerTimeoutSec)
	}
	if cfg.HTTP.RateLimitPerMin != 0 {
		t.Errorf("expected rate limiting disabled by default, got %d", cfg.HTTP.RateLimitPerMin)
	}
}

func TestApplyDefaults_NoOverride(t *testing.T) {
	cfg := Config{
		HTTP:      HTTPConfig{ReadTimeoutSec: 30, WriteTimeoutSec: 60, ShutdownSec: 5},
		Dataset:   DatasetConfig{Seed: 7},
		Index:     IndexConfig{MaxFeatures: 100, Neighbors: 3},
		Recommend: RecommendConfig{DefaultLimit: 5, MaxLimit: 50},
		Cache:     CacheConfig{TTLSec: 60},
	}
	cfg.ApplyDefaults()

	if cfg.HTTP.ReadTimeoutSec != 30 {
		t.Errorf("expected ReadTimeoutSec=30, got %d", cfg.HTTP.ReadTimeoutSec)
	}
	if cfg.Dataset.Seed != 7 {
		t.Errorf("expected Seed=7, got %d", cfg.Dataset.Seed)
	}
	if cfg.Index.MaxFeatures != 100 || cfg.Index.Neighbors != 3 {
		t.Errorf("index overridden: %+v", cfg.Index)
	}
	if cfg.Recommend.DefaultLimit != 5 || cfg.Recommend.MaxLimit != 50 {
		t.Errorf("recommend overridden: %+v", cfg.Recommend)
	}
	if cfg.Cache.TTLSec != 60 {
		t.Errorf("expected TTLSec=60, got %d", cfg.Cache.TTLSec)
	}
}

func TestParse_ExpandsEnv(t *testing.T) {
	t.Setenv("DINEREC_TEST_PORT", "9090")
	yml := `
http:
  port: ${DINEREC_TEST_PORT}
dataset:
  path: ${DINEREC_TEST_UNSET:-data/restaurants.csv}
cache:
  enabled: true
  addrs: ["${DINEREC_TEST_UNSET:-localhost:6379}"]
`
	cfg, err := Parse([]byte(yml))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if cfg.HTTP.Port != 9090 {
		t.Errorf("expected port 9090, got %d", cfg.HTTP.Port)
	}
	if cfg.Dataset.Path != "data/restaurants.csv" {
		t.Errorf("unexpected path %q", cfg.Dataset.Path)
	}
	if len(cfg.Cache.Addrs) != 1 || cfg.Cache.Addrs[0] != "localhost:6379" {
		t.Errorf("unexpected addrs %v", cfg.Cache.Addrs)
	}
}

func TestParse_Invalid(t *testing.T) {
	_, err := Parse([]byte("http:\n  port: 8080\n"))
	if err == nil || !strings.Contains(err.Error(), "dataset.path") {
		t.Fatalf("expected dataset.path error, got %v", err)
	}
}
