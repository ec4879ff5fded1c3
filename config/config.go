package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds all application configuration.
type Config struct {
	// Database
	DBPath string

	// Logging
	LogLevel string

	// Sync
	SyncAddr      string // listen address for the sync server
	SyncRemoteURL string // remote endpoint for push/pull; empty disables sync

	// Quotes
	QuotesEnabled bool
	APIKey        string
	SecretKey     string

	// Futures point value overrides, symbol -> currency value per point.
	PointValues map[string]float64

	// Risk policy (advisory, zero disables a check)
	MaxRiskPerTrade float64
	MinRiskReward   float64
	RequireStopLoss bool
}

// LoadConfig loads configuration from environment variables (.env file).
func LoadConfig() (*Config, error) {
	// Load .env file, but don't fail if it doesn't exist (allow pure env vars)
	_ = godotenv.Load()

	cfg := &Config{}
	var errs []string

	cfg.DBPath = getEnv("DB_PATH", "./data/journal.db")
	if cfg.DBPath == "" {
		errs = append(errs, "DB_PATH must be set")
	}

	cfg.LogLevel = getEnv("LOG_LEVEL", "info")

	cfg.SyncAddr = getEnv("SYNC_ADDR", ":8787")
	cfg.SyncRemoteURL = getEnv("SYNC_REMOTE_URL", "")

	cfg.QuotesEnabled = getEnvAsBool("QUOTES_ENABLED", false)
	cfg.APIKey = getEnv("BINANCE_API_KEY", "")
	cfg.SecretKey = getEnv("BINANCE_API_SECRET", "")

	pv, err := parsePointValues(getEnv("POINT_VALUES", ""))
	if err != nil {
		errs = append(errs, fmt.Sprintf("invalid POINT_VALUES: %v", err))
	}
	cfg.PointValues = pv

	cfg.MaxRiskPerTrade = getEnvAsFloat("MAX_RISK_PER_TRADE", 0)
	if cfg.MaxRiskPerTrade < 0 {
		errs = append(errs, "MAX_RISK_PER_TRADE cannot be negative")
	}
	cfg.MinRiskReward = getEnvAsFloat("MIN_RISK_REWARD", 0)
	if cfg.MinRiskReward < 0 {
		errs = append(errs, "MIN_RISK_REWARD cannot be negative")
	}
	cfg.RequireStopLoss = getEnvAsBool("REQUIRE_STOP_LOSS", false)

	if len(errs) > 0 {
		return nil, fmt.Errorf("configuration validation failed: %s", strings.Join(errs, "; "))
	}
	return cfg, nil
}

// parsePointValues parses "ES=50,NQ=20" into a symbol map.
func parsePointValues(raw string) (map[string]float64, error) {
	if raw == "" {
		return nil, nil
	}
	out := make(map[string]float64)
	for _, pair := range strings.Split(raw, ",") {
		parts := strings.SplitN(strings.TrimSpace(pair), "=", 2)
		if len(parts) != 2 {
			return nil, fmt.Errorf("expected SYMBOL=VALUE, got %q", pair)
		}
		v, err := strconv.ParseFloat(parts[1], 64)
		if err != nil || v <= 0 {
			return nil, fmt.Errorf("value for %q must be a positive number", parts[0])
		}
		out[strings.ToUpper(parts[0])] = v
	}
	return out, nil
}

// --- Env Var Helpers ---

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		return defaultValue
	}
	return value
}
