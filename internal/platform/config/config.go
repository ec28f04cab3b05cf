package config

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/Rhymond/go-money"
	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	DBDriver     string // "sqlite" or "postgres"
	DBPath       string // SQLite ledger file
	DatabaseURL  string // PostgreSQL URL
	Port         string
	IsProduction bool
	JWTSecret    string
	LogLevel     slog.Level

	// Ledger behaviour
	BaseCurrency     string
	BalanceTolerance decimal.Decimal
	RateLookbackDays int
	CacheTTL         time.Duration
	SystemActorID    string

	// HTTP surface
	RateLimit          string // ulule/limiter format, e.g. "100-M"
	CORSAllowedOrigins []string
}

// LoadConfig loads configuration from environment variables and a .env file if present.
// Environment variables win over .env values, which win over defaults.
func LoadConfig() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetDefault("LEDGER_DB_DRIVER", "sqlite")
	v.SetDefault("LEDGER_DB_PATH", "finledger.db")
	v.SetDefault("PGSQL_URL", "")
	v.SetDefault("PORT", "8080")
	v.SetDefault("IS_PRODUCTION", false)
	v.SetDefault("JWT_SECRET", "")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("BASE_CURRENCY", "INR")
	v.SetDefault("BALANCE_TOLERANCE", "0.01")
	v.SetDefault("RATE_LOOKBACK_DAYS", 7)
	v.SetDefault("CACHE_TTL", "10m")
	v.SetDefault("SYSTEM_ACTOR_ID", "system")
	v.SetDefault("RATE_LIMIT", "100-M")
	v.SetDefault("CORS_ALLOWED_ORIGINS", "http://localhost:3000")
	v.AutomaticEnv()

	return fromViper(v)
}

func fromViper(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		DBDriver:      strings.ToLower(v.GetString("LEDGER_DB_DRIVER")),
		DBPath:        v.GetString("LEDGER_DB_PATH"),
		DatabaseURL:   v.GetString("PGSQL_URL"),
		Port:          v.GetString("PORT"),
		IsProduction:  v.GetBool("IS_PRODUCTION"),
		JWTSecret:     v.GetString("JWT_SECRET"),
		BaseCurrency:  strings.ToUpper(v.GetString("BASE_CURRENCY")),
		SystemActorID: v.GetString("SYSTEM_ACTOR_ID"),
		RateLimit:     v.GetString("RATE_LIMIT"),
	}

	switch cfg.DBDriver {
	case "sqlite":
		if cfg.DBPath == "" {
			return nil, fmt.Errorf("LEDGER_DB_PATH is required for the sqlite driver")
		}
	case "postgres":
		if cfg.DatabaseURL == "" {
			return nil, fmt.Errorf("PGSQL_URL is required for the postgres driver")
		}
	default:
		return nil, fmt.Errorf("unsupported LEDGER_DB_DRIVER %q", cfg.DBDriver)
	}

	if money.GetCurrency(cfg.BaseCurrency) == nil {
		return nil, fmt.Errorf("BASE_CURRENCY %q is not an ISO 4217 code", cfg.BaseCurrency)
	}

	tolerance, err := decimal.NewFromString(v.GetString("BALANCE_TOLERANCE"))
	if err != nil || tolerance.IsNegative() {
		return nil, fmt.Errorf("invalid BALANCE_TOLERANCE %q", v.GetString("BALANCE_TOLERANCE"))
	}
	cfg.BalanceTolerance = tolerance

	cfg.RateLookbackDays = v.GetInt("RATE_LOOKBACK_DAYS")
	if cfg.RateLookbackDays < 0 {
		return nil, fmt.Errorf("RATE_LOOKBACK_DAYS must not be negative")
	}

	ttl, err := time.ParseDuration(v.GetString("CACHE_TTL"))
	if err != nil {
		ttl = 10 * time.Minute
		slog.Warn("Invalid CACHE_TTL, using default", slog.String("value", v.GetString("CACHE_TTL")), slog.Duration("default", ttl))
	}
	cfg.CacheTTL = ttl

	if err := cfg.LogLevel.UnmarshalText([]byte(v.GetString("LOG_LEVEL"))); err != nil {
		cfg.LogLevel = slog.LevelInfo
	}

	for _, origin := range strings.Split(v.GetString("CORS_ALLOWED_ORIGINS"), ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			cfg.CORSAllowedOrigins = append(cfg.CORSAllowedOrigins, origin)
		}
	}

	if cfg.JWTSecret == "" && cfg.IsProduction {
		return nil, fmt.Errorf("JWT_SECRET must be set in production")
	}
	if cfg.JWTSecret == "" {
		cfg.JWTSecret = "dev-only-insecure-secret"
		slog.Warn("JWT_SECRET not set. Using an insecure development key.")
	}

	return cfg, nil
}

// DSN returns the connection target for the configured driver.
func (c *Config) DSN() string {
	if c.DBDriver == "postgres" {
		return c.DatabaseURL
	}
	return c.DBPath
}
