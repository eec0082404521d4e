package config

import (
	"log/slog"
	"os"
	"strconv"
	"time"
)

// Config holds all application configuration loaded from environment variables.
type Config struct {
	DatabaseURL           string
	YahooBaseURL          string
	YahooRetryMax         int
	YahooRetryBaseDelay   time.Duration
	YahooRequestDelay     time.Duration
	UniverseURL           string
	FundamentalsStale     time.Duration
	UniverseStale         time.Duration
	FetchConcurrency      int
	AnalysisWorkerInterval time.Duration
	UniverseWorkerInterval time.Duration
	HTTPPort              string
	AdminAPIKey           string
	SheetsSpreadsheetID   string
	SheetsCredentialsJSON string
}

// Load reads configuration from environment variables with sensible defaults.
func Load() Config {
	return Config{
		DatabaseURL:           envOrDefaultWarn("DATABASE_URL", ""),
		YahooBaseURL:          envOrDefault("YAHOO_BASE_URL", "https://query1.finance.yahoo.com"),
		YahooRetryMax:         envOrDefaultInt("YAHOO_RETRY_MAX", 5),
		YahooRetryBaseDelay:   envOrDefaultDuration("YAHOO_RETRY_BASE_DELAY", 2*time.Second),
		YahooRequestDelay:     envOrDefaultDuration("YAHOO_REQUEST_DELAY", 500*time.Millisecond),
		UniverseURL:           envOrDefault("UNIVERSE_URL", "https://en.wikipedia.org/wiki/List_of_S%26P_500_companies"),
		FundamentalsStale:     envOrDefaultDuration("FUNDAMENTALS_STALE_THRESHOLD", 24*time.Hour),
		UniverseStale:         envOrDefaultDuration("UNIVERSE_STALE_THRESHOLD", 7*24*time.Hour),
		FetchConcurrency:      envOrDefaultInt("FETCH_CONCURRENCY", 8),
		AnalysisWorkerInterval: envOrDefaultDuration("ANALYSIS_WORKER_INTERVAL", 24*time.Hour),
		UniverseWorkerInterval: envOrDefaultDuration("UNIVERSE_WORKER_INTERVAL", 7*24*time.Hour),
		HTTPPort:              envOrDefault("HTTP_PORT", "8080"),
		AdminAPIKey:           envOrDefault("ADMIN_API_KEY", ""),
		SheetsSpreadsheetID:   envOrDefault("SHEETS_SPREADSHEET_ID", ""),
		SheetsCredentialsJSON: envOrDefault("SHEETS_CREDENTIALS_JSON", ""),
	}
}

func envOrDefault(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func envOrDefaultWarn(key, defaultVal string) string {
	v := envOrDefault(key, defaultVal)
	if v == "" {
		slog.Warn("required env var not set", "key", key)
	}
	return v
}

func envOrDefaultInt(key string, defaultVal int) int {
	if v := os.Getenv(key); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			slog.Warn("invalid integer env var, using default", "key", key, "value", v, "default", defaultVal)
			return defaultVal
		}
		return n
	}
	return defaultVal
}

func envOrDefaultDuration(key string, defaultVal time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			slog.Warn("invalid duration env var, using default", "key", key, "value", v, "default", defaultVal)
			return defaultVal
		}
		return d
	}
	return defaultVal
}
