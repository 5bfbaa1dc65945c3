package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config represents application configuration
type Config struct {
	Database DatabaseConfig `envconfig:"DATABASE"`
	Telegram TelegramConfig `envconfig:"TELEGRAM"`
	Provider ProviderConfig `envconfig:"PROVIDER"`
	Baseline BaselineConfig `envconfig:"BASELINE"`
	Health   HealthConfig   `envconfig:"HEALTH"`
	Logging  LoggingConfig  `envconfig:"LOGGING"`
}

// DatabaseConfig represents database connection parameters
type DatabaseConfig struct {
	Host     string `envconfig:"DB_HOST" default:"localhost"`
	Port     int    `envconfig:"DB_PORT" default:"5432"`
	Name     string `envconfig:"DB_NAME" default:"vitals"`
	User     string `envconfig:"DB_USER" required:"true"`
	Password string `envconfig:"DB_PASSWORD" required:"true"`
	SSLMode  string `envconfig:"DB_SSLMODE" default:"disable"`
}

// TelegramConfig represents Telegram bot configuration
type TelegramConfig struct {
	BotToken string `envconfig:"TELEGRAM_BOT_TOKEN" required:"true"`
}

// ProviderConfig represents the health telemetry provider connection
type ProviderConfig struct {
	Enabled      bool          `envconfig:"PROVIDER_ENABLED" default:"true"`
	BaseURL      string        `envconfig:"PROVIDER_BASE_URL" default:"https://connectapi.garmin.example"`
	APIKey       string        `envconfig:"PROVIDER_API_KEY" required:"false"`
	SyncInterval time.Duration `envconfig:"PROVIDER_SYNC_INTERVAL" default:"6h"`
	SyncDepth    int           `envconfig:"PROVIDER_SYNC_DEPTH_DAYS" default:"3"`
}

// BaselineConfig carries the z-score boundaries and default trailing window
// used by the threshold engine. Boundaries are sigma multiples shared by all
// metrics unless a metric definition overrides the window.
type BaselineConfig struct {
	OptimalBoundary   float64 `envconfig:"BASELINE_OPTIMAL_BOUNDARY" default:"0.75"`
	WarningBoundary   float64 `envconfig:"BASELINE_WARNING_BOUNDARY" default:"1.5"`
	DefaultWindowDays int     `envconfig:"BASELINE_DEFAULT_WINDOW_DAYS" default:"30"`
}

// HealthConfig represents health check HTTP server configuration
type HealthConfig struct {
	Port string `envconfig:"HEALTH_PORT" default:"8080"`
}

// LoggingConfig represents logging configuration
type LoggingConfig struct {
	Level string `envconfig:"LOG_LEVEL" default:"info"`
	File  string `envconfig:"LOG_FILE" default:""`
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	var cfg Config

	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// Validate checks if configuration is valid
func (c *Config) Validate() error {
	if c.Telegram.BotToken == "" {
		return fmt.Errorf("telegram bot token is required")
	}

	if c.Baseline.OptimalBoundary <= 0 {
		return fmt.Errorf("optimal_boundary must be positive")
	}
	if c.Baseline.WarningBoundary <= c.Baseline.OptimalBoundary {
		return fmt.Errorf("warning_boundary must be greater than optimal_boundary")
	}
	if c.Baseline.DefaultWindowDays < 1 {
		return fmt.Errorf("default_window_days must be at least 1")
	}

	if c.Provider.Enabled {
		if c.Provider.BaseURL == "" {
			return fmt.Errorf("provider base URL is required when sync is enabled")
		}
		if c.Provider.SyncDepth < 1 {
			return fmt.Errorf("provider sync depth must be at least 1 day")
		}
	}

	return nil
}

// GetDSN returns PostgreSQL connection string
func (c *DatabaseConfig) GetDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Name, c.SSLMode,
	)
}
