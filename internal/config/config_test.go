package config

import (
	"os"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	// Clear any env vars that might affect defaults
	for _, key := range []string{"YAHOO_BASE_URL", "DATABASE_URL", "UNIVERSE_URL", "HTTP_PORT", "YAHOO_RETRY_MAX", "FETCH_CONCURRENCY"} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}

	cfg := Load()

	if cfg.YahooBaseURL != "https://query1.finance.yahoo.com" {
		t.Errorf("YahooBaseURL = %q, want default", cfg.YahooBaseURL)
	}
	if cfg.DatabaseURL != "" {
		t.Errorf("DatabaseURL = %q, want empty", cfg.DatabaseURL)
	}
	if cfg.YahooRetryMax != 5 {
		t.Errorf("YahooRetryMax = %d, want 5", cfg.YahooRetryMax)
	}
	if cfg.YahooRetryBaseDelay != 2*time.Second {
		t.Errorf("YahooRetryBaseDelay = %v, want 2s", cfg.YahooRetryBaseDelay)
	}
	if cfg.FetchConcurrency != 8 {
		t.Errorf("FetchConcurrency = %d, want 8", cfg.FetchConcurrency)
	}
	if cfg.AnalysisWorkerInterval != 24*time.Hour {
		t.Errorf("AnalysisWorkerInterval = %v, want 24h", cfg.AnalysisWorkerInterval)
	}
	if cfg.HTTPPort != "8080" {
		t.Errorf("HTTPPort = %q, want 8080", cfg.HTTPPort)
	}
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("YAHOO_BASE_URL", "https://query2.finance.yahoo.com")
	t.Setenv("DATABASE_URL", "postgres://localhost/testdb")
	t.Setenv("HTTP_PORT", "9090")
	t.Setenv("YAHOO_RETRY_MAX", "10")
	t.Setenv("YAHOO_RETRY_BASE_DELAY", "5s")

	cfg := Load()

	if cfg.YahooBaseURL != "https://query2.finance.yahoo.com" {
		t.Errorf("YahooBaseURL = %q, want override", cfg.YahooBaseURL)
	}
	if cfg.DatabaseURL != "postgres://localhost/testdb" {
		t.Errorf("DatabaseURL = %q, want override", cfg.DatabaseURL)
	}
	if cfg.HTTPPort != "9090" {
		t.Errorf("HTTPPort = %q, want 9090", cfg.HTTPPort)
	}
	if cfg.YahooRetryMax != 10 {
		t.Errorf("YahooRetryMax = %d, want 10", cfg.YahooRetryMax)
	}
	if cfg.YahooRetryBaseDelay != 5*time.Second {
		t.Errorf("YahooRetryBaseDelay = %v, want 5s", cfg.YahooRetryBaseDelay)
	}
}

func TestLoadInvalidEnvFallsBackToDefault(t *testing.T) {
	t.Setenv("YAHOO_RETRY_MAX", "not-a-number")
	t.Setenv("YAHOO_RETRY_BASE_DELAY", "invalid-duration")

	cfg := Load()

	if cfg.YahooRetryMax != 5 {
		t.Errorf("YahooRetryMax = %d, want default 5 on invalid input", cfg.YahooRetryMax)
	}
	if cfg.YahooRetryBaseDelay != 2*time.Second {
		t.Errorf("YahooRetryBaseDelay = %v, want default 2s on invalid input", cfg.YahooRetryBaseDelay)
	}
}
