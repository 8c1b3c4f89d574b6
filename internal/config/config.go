package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Backends the panel can talk to.
const (
	BackendHosted   = "hosted"
	BackendPostgres = "postgres"
	BackendMemory   = "memory"
)

type Config struct {
	Port               string        `mapstructure:"PORT"`
	Env                string        `mapstructure:"ENV"`
	LogLevel           string        `mapstructure:"LOG_LEVEL"`
	LogFile            string        `mapstructure:"LOG_FILE"`
	Backend            string        `mapstructure:"BACKEND"`
	BackendURL         string        `mapstructure:"BACKEND_URL"`
	BackendAnonKey     string        `mapstructure:"BACKEND_ANON_KEY"`
	BackendAccessToken string        `mapstructure:"BACKEND_ACCESS_TOKEN"`
	RecordsTable       string        `mapstructure:"RECORDS_TABLE"`
	DatabaseURL        string        `mapstructure:"DATABASE_URL"`
	DBMaxConns         int32         `mapstructure:"DB_MAX_CONNS"`
	DBMinConns         int32         `mapstructure:"DB_MIN_CONNS"`
	AuthJWTSecret      string        `mapstructure:"AUTH_JWT_SECRET"`
	CORSOrigins        []string      `mapstructure:"CORS_ORIGINS"`
	RequestTimeout     time.Duration `mapstructure:"REQUEST_TIMEOUT"`
}

func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigFile(".env")
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("PORT", "8000")
	v.SetDefault("ENV", "development")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FILE", "records-panel.log")
	v.SetDefault("BACKEND", BackendHosted)
	v.SetDefault("RECORDS_TABLE", "patient_records")
	v.SetDefault("DB_MAX_CONNS", 10)
	v.SetDefault("DB_MIN_CONNS", 2)
	v.SetDefault("CORS_ORIGINS", "http://localhost:3000")
	v.SetDefault("REQUEST_TIMEOUT", "15s")

	// Bind env vars explicitly so Unmarshal picks them up
	v.BindEnv("PORT")
	v.BindEnv("ENV")
	v.BindEnv("LOG_LEVEL")
	v.BindEnv("LOG_FILE")
	v.BindEnv("BACKEND")
	v.BindEnv("BACKEND_URL")
	v.BindEnv("BACKEND_ANON_KEY")
	v.BindEnv("BACKEND_ACCESS_TOKEN")
	v.BindEnv("RECORDS_TABLE")
	v.BindEnv("DATABASE_URL")
	v.BindEnv("DB_MAX_CONNS")
	v.BindEnv("DB_MIN_CONNS")
	v.BindEnv("AUTH_JWT_SECRET")
	v.BindEnv("CORS_ORIGINS")
	v.BindEnv("REQUEST_TIMEOUT")

	// Try reading .env file, but don't fail if missing
	_ = v.ReadInConfig()

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if cfg.CORSOrigins == nil {
		origins := v.GetString("CORS_ORIGINS")
		if origins != "" {
			cfg.CORSOrigins = strings.Split(origins, ",")
		}
	}
	cfg.Backend = strings.ToLower(strings.TrimSpace(cfg.Backend))
	cfg.BackendURL = strings.TrimRight(cfg.BackendURL, "/")

	return cfg, nil
}

func (c *Config) IsDev() bool {
	return c.Env == "development"
}

// Validate checks that the selected backend is fully configured and that the
// HTTP API is protected outside development.
func (c *Config) Validate() error {
	switch c.Backend {
	case BackendHosted:
		if c.BackendURL == "" {
			return fmt.Errorf("BACKEND_URL is required when BACKEND is %q", BackendHosted)
		}
		if c.BackendAnonKey == "" {
			return fmt.Errorf("BACKEND_ANON_KEY is required when BACKEND is %q", BackendHosted)
		}
	case BackendPostgres:
		if c.DatabaseURL == "" {
			return fmt.Errorf("DATABASE_URL is required when BACKEND is %q", BackendPostgres)
		}
	case BackendMemory:
	default:
		return fmt.Errorf("BACKEND must be %q, %q, or %q, got %q", BackendHosted, BackendPostgres, BackendMemory, c.Backend)
	}

	if !c.IsDev() && c.AuthJWTSecret == "" {
		return fmt.Errorf("AUTH_JWT_SECRET is required outside development (current ENV=%q)", c.Env)
	}
	if c.RequestTimeout <= 0 {
		return fmt.Errorf("REQUEST_TIMEOUT must be positive, got %s", c.RequestTimeout)
	}
	if c.DBMinConns > c.DBMaxConns {
		return fmt.Errorf("DB_MIN_CONNS (%d) must not exceed DB_MAX_CONNS (%d)", c.DBMinConns, c.DBMaxConns)
	}
	return nil
}
