package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config holds all configuration for the console.
type Config struct {
	// Server
	Port        string `env:"PORT" envDefault:"8080"`
	BaseURL     string `env:"BASE_URL" envDefault:"http://localhost:8080"`
	Environment string `env:"ENVIRONMENT" envDefault:"development"` // development, staging, production

	// Database: postgres://... or sqlite://path
	DatabaseURL string `env:"DATABASE_URL" envDefault:"sqlite://moufette.db"`

	// Session
	SessionSecret string        `env:"SESSION_SECRET,required"`
	SessionMaxAge time.Duration `env:"SESSION_MAX_AGE" envDefault:"168h"`
	// SessionWait bounds how long a guard waits on the user lookup before
	// answering with the loading placeholder.
	SessionWait time.Duration `env:"SESSION_WAIT" envDefault:"1500ms"`

	// Password reset
	ResetSecret string        `env:"RESET_SECRET,required"`
	ResetTTL    time.Duration `env:"RESET_TTL" envDefault:"1h"`

	// Integrations
	IntegrationKey string `env:"INTEGRATION_KEY,required"`

	// Observability
	OTLPEndpoint   string `env:"OTEL_EXPORTER_OTLP_ENDPOINT"`
	MetricsEnabled bool   `env:"METRICS_ENABLED" envDefault:"true"`
}

// Load reads configuration from environment variables.
// In development, it will also load from a .env file if present.
func Load() (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks secret lengths and durations.
func (c *Config) Validate() error {
	// 32 bytes hash key + 32 bytes block key
	if len(c.SessionSecret) < 64 {
		return fmt.Errorf("SESSION_SECRET must be at least 64 characters, got %d", len(c.SessionSecret))
	}
	if len(c.ResetSecret) < 32 {
		return fmt.Errorf("RESET_SECRET must be at least 32 characters, got %d", len(c.ResetSecret))
	}
	if len(c.IntegrationKey) != 32 {
		return fmt.Errorf("INTEGRATION_KEY must be exactly 32 characters, got %d", len(c.IntegrationKey))
	}
	if c.SessionWait <= 0 {
		return fmt.Errorf("SESSION_WAIT must be positive, got %s", c.SessionWait)
	}
	return nil
}

// IsDevelopment returns true if running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// IsProduction returns true if running in production mode.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}
