package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/hashicorp/go-multierror"
	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	DatabaseDriver string
	DatabaseURL    string
	TelegramToken  string
	WebhookURL     string
	LogLevel       string
	Port           string
	PrometheusPort string
	StateCacheSize int
}

// BotEnabled reports whether a Telegram token was supplied.
func (c *Config) BotEnabled() bool {
	return c.TelegramToken != ""
}

// Load loads configuration from environment variables. A .env file in the
// working directory is read first when present; real environment variables
// take precedence over it.
func Load() (*Config, error) {
	_ = godotenv.Load()
	return FromEnv()
}

// FromEnv builds the configuration from the process environment only.
func FromEnv() (*Config, error) {
	cfg := &Config{
		DatabaseDriver: strings.ToLower(getEnvOrDefault("DATABASE_DRIVER", DriverSQLite)),
		DatabaseURL:    os.Getenv("DATABASE_URL"),
		TelegramToken:  os.Getenv("TELEGRAM_TOKEN"),
		WebhookURL:     os.Getenv("WEBHOOK_URL"),
		LogLevel:       getEnvOrDefault("LOG_LEVEL", "info"),
		Port:           getEnvOrDefault("PORT", "8080"),
		PrometheusPort: getEnvOrDefault("PROMETHEUS_PORT", "9090"),
	}

	var result *multierror.Error

	switch cfg.DatabaseDriver {
	case DriverSQLite:
		if cfg.DatabaseURL == "" {
			cfg.DatabaseURL = "shoplist.db"
		}
	case DriverPostgres:
		if cfg.DatabaseURL == "" {
			result = multierror.Append(result, fmt.Errorf("DATABASE_URL environment variable is required for postgres"))
		}
	default:
		result = multierror.Append(result, fmt.Errorf("DATABASE_DRIVER must be %q or %q, got %q", DriverSQLite, DriverPostgres, cfg.DatabaseDriver))
	}

	size, err := strconv.Atoi(getEnvOrDefault("STATE_CACHE_SIZE", "256"))
	switch {
	case err != nil:
		result = multierror.Append(result, fmt.Errorf("STATE_CACHE_SIZE must be an integer: %w", err))
	case size <= 0:
		result = multierror.Append(result, fmt.Errorf("STATE_CACHE_SIZE must be positive, got %d", size))
	default:
		cfg.StateCacheSize = size
	}

	for key, value := range map[string]string{"PORT": cfg.Port, "PROMETHEUS_PORT": cfg.PrometheusPort} {
		if _, err := strconv.ParseUint(value, 10, 16); err != nil {
			result = multierror.Append(result, fmt.Errorf("%s must be a valid port, got %q", key, value))
		}
	}

	if err := result.ErrorOrNil(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// getEnvOrDefault returns environment variable value or default if not set
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
