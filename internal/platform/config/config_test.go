package config

import (
	"log/slog"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newViper(values map[string]any) *viper.Viper {
	v := viper.New()
	v.SetDefault("LEDGER_DB_DRIVER", "sqlite")
	v.SetDefault("LEDGER_DB_PATH", "finledger.db")
	v.SetDefault("BASE_CURRENCY", "INR")
	v.SetDefault("BALANCE_TOLERANCE", "0.01")
	v.SetDefault("RATE_LOOKBACK_DAYS", 7)
	v.SetDefault("CACHE_TTL", "10m")
	v.SetDefault("LOG_LEVEL", "info")
	for k, val := range values {
		v.Set(k, val)
	}
	return v
}

func TestFromViper_Defaults(t *testing.T) {
	cfg, err := fromViper(newViper(nil))
	require.NoError(t, err)

	assert.Equal(t, "sqlite", cfg.DBDriver)
	assert.Equal(t, "finledger.db", cfg.DSN())
	assert.Equal(t, "INR", cfg.BaseCurrency)
	assert.Equal(t, "0.01", cfg.BalanceTolerance.String())
	assert.Equal(t, 7, cfg.RateLookbackDays)
	assert.Equal(t, 10*time.Minute, cfg.CacheTTL)
	assert.Equal(t, slog.LevelInfo, cfg.LogLevel)
	assert.NotEmpty(t, cfg.JWTSecret)
}

func TestFromViper_Overrides(t *testing.T) {
	cfg, err := fromViper(newViper(map[string]any{
		"LEDGER_DB_DRIVER":     "postgres",
		"PGSQL_URL":            "postgres://localhost/ledger",
		"BASE_CURRENCY":        "usd",
		"BALANCE_TOLERANCE":    "0.005",
		"RATE_LOOKBACK_DAYS":   3,
		"LOG_LEVEL":            "debug",
		"CORS_ALLOWED_ORIGINS": "https://a.example, https://b.example",
	}))
	require.NoError(t, err)

	assert.Equal(t, "postgres://localhost/ledger", cfg.DSN())
	assert.Equal(t, "USD", cfg.BaseCurrency)
	assert.Equal(t, "0.005", cfg.BalanceTolerance.String())
	assert.Equal(t, 3, cfg.RateLookbackDays)
	assert.Equal(t, slog.LevelDebug, cfg.LogLevel)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSAllowedOrigins)
}

func TestFromViper_Rejects(t *testing.T) {
	cases := map[string]map[string]any{
		"unknown driver":       {"LEDGER_DB_DRIVER": "mysql"},
		"postgres without url": {"LEDGER_DB_DRIVER": "postgres"},
		"bad currency":         {"BASE_CURRENCY": "XYZ"},
		"negative tolerance":   {"BALANCE_TOLERANCE": "-1"},
		"negative lookback":    {"RATE_LOOKBACK_DAYS": -2},
		"prod without secret":  {"IS_PRODUCTION": true},
	}
	for name, values := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := fromViper(newViper(values))
			assert.Error(t, err)
		})
	}
}
