package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "./data/journal.db", cfg.DBPath)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, ":8787", cfg.SyncAddr)
	assert.False(t, cfg.QuotesEnabled)
	assert.False(t, cfg.RequireStopLoss)
	assert.Zero(t, cfg.MaxRiskPerTrade)
}

func TestLoadConfig_FromEnvironment(t *testing.T) {
	t.Setenv("DB_PATH", "/tmp/journal-test.db")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("SYNC_REMOTE_URL", "https://journal.example.com")
	t.Setenv("QUOTES_ENABLED", "true")
	t.Setenv("POINT_VALUES", "ES=50,nq=20")
	t.Setenv("MAX_RISK_PER_TRADE", "250")
	t.Setenv("REQUIRE_STOP_LOSS", "true")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "/tmp/journal-test.db", cfg.DBPath)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "https://journal.example.com", cfg.SyncRemoteURL)
	assert.True(t, cfg.QuotesEnabled)
	assert.Equal(t, map[string]float64{"ES": 50, "NQ": 20}, cfg.PointValues)
	assert.Equal(t, 250.0, cfg.MaxRiskPerTrade)
	assert.True(t, cfg.RequireStopLoss)
}

func TestLoadConfig_InvalidPointValues(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"missing value", "ES"},
		{"non-numeric value", "ES=fifty"},
		{"negative value", "ES=-50"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("POINT_VALUES", tt.raw)
			_, err := LoadConfig()
			assert.Error(t, err)
		})
	}
}

func TestLoadConfig_NegativeRiskLimits(t *testing.T) {
	t.Setenv("MAX_RISK_PER_TRADE", "-1")
	_, err := LoadConfig()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "MAX_RISK_PER_TRADE")
}

func TestParsePointValues_Empty(t *testing.T) {
	pv, err := parsePointValues("")
	require.NoError(t, err)
	assert.Nil(t, pv)
}
