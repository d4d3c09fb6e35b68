package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Store backends.
const (
	BackendSheets   = "sheets"
	BackendPostgres = "postgres"
	BackendMemory   = "memory"
)

type Config struct {
	Port                  string        `mapstructure:"PORT"`
	Env                   string        `mapstructure:"ENV"`
	StoreBackend          string        `mapstructure:"STORE_BACKEND"`
	SpreadsheetID         string        `mapstructure:"GOOGLE_SHEET_ID"`
	GoogleCredentialsFile string        `mapstructure:"GOOGLE_CREDENTIALS_FILE"`
	DatabaseURL           string        `mapstructure:"DATABASE_URL"`
	DBMaxConns            int32         `mapstructure:"DB_MAX_CONNS"`
	DBMinConns            int32         `mapstructure:"DB_MIN_CONNS"`
	DBSchema              string        `mapstructure:"DB_SCHEMA"`
	RedisURL              string        `mapstructure:"REDIS_URL"`
	InvalidationChannel   string        `mapstructure:"INVALIDATION_CHANNEL"`
	CORSOrigins           []string      `mapstructure:"CORS_ORIGINS"`
	HistoryPageSize       int           `mapstructure:"HISTORY_PAGE_SIZE"`
	StoreTimeout          time.Duration `mapstructure:"STORE_TIMEOUT"`
}

func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigFile(".env")
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("PORT", "8000")
	v.SetDefault("ENV", "development")
	v.SetDefault("STORE_BACKEND", BackendSheets)
	v.SetDefault("DB_MAX_CONNS", 10)
	v.SetDefault("DB_MIN_CONNS", 2)
	v.SetDefault("DB_SCHEMA", "public")
	v.SetDefault("INVALIDATION_CHANNEL", "clinic:invalidate")
	v.SetDefault("CORS_ORIGINS", "http://localhost:3000")
	v.SetDefault("HISTORY_PAGE_SIZE", 15)
	v.SetDefault("STORE_TIMEOUT", "10s")

	// Bind env vars explicitly so Unmarshal picks them up
	v.BindEnv("PORT")
	v.BindEnv("ENV")
	v.BindEnv("STORE_BACKEND")
	v.BindEnv("GOOGLE_SHEET_ID")
	v.BindEnv("GOOGLE_CREDENTIALS_FILE")
	v.BindEnv("DATABASE_URL")
	v.BindEnv("DB_MAX_CONNS")
	v.BindEnv("DB_MIN_CONNS")
	v.BindEnv("DB_SCHEMA")
	v.BindEnv("REDIS_URL")
	v.BindEnv("INVALIDATION_CHANNEL")
	v.BindEnv("CORS_ORIGINS")
	v.BindEnv("HISTORY_PAGE_SIZE")
	v.BindEnv("STORE_TIMEOUT")

	// Try reading .env file, but don't fail if missing
	_ = v.ReadInConfig()

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	origins := v.GetString("CORS_ORIGINS")
	if origins != "" {
		cfg.CORSOrigins = strings.Split(origins, ",")
	}
	cfg.StoreBackend = strings.ToLower(strings.TrimSpace(cfg.StoreBackend))

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) IsDev() bool {
	return c.Env == "development"
}

// IsProduction returns true when the server is configured for production mode.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// Validate checks that the selected store backend has what it needs to start.
// A missing GOOGLE_SHEET_ID is deliberately not an error here: the sheets
// bootstrap reports it as a failed result instead of refusing to start.
func (c *Config) Validate() error {
	switch c.StoreBackend {
	case BackendSheets, BackendMemory:
	case BackendPostgres:
		if c.DatabaseURL == "" {
			return fmt.Errorf("DATABASE_URL is required when STORE_BACKEND is %q", BackendPostgres)
		}
	default:
		return fmt.Errorf("STORE_BACKEND must be %q, %q, or %q, got %q",
			BackendSheets, BackendPostgres, BackendMemory, c.StoreBackend)
	}

	if c.HistoryPageSize <= 0 {
		return fmt.Errorf("HISTORY_PAGE_SIZE must be positive, got %d", c.HistoryPageSize)
	}
	if c.StoreTimeout <= 0 {
		return fmt.Errorf("STORE_TIMEOUT must be positive, got %s", c.StoreTimeout)
	}
	return nil
}
