// Package config loads server configuration from the environment.
package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
)

// Config holds application configuration
type Config struct {
	Port          int
	DatabasePath  string
	LogLevel      string
	LogPretty     bool
	RateTablePath string // empty = built-in commercial table

	// DigestSchedule is a cron spec with seconds; empty disables the digest.
	DigestSchedule string
	DigestWorkers  int
}

// Load reads configuration from environment variables, after loading a
// .env file if one exists.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Port:           getEnvAsInt("PORT", 8080),
		DatabasePath:   getEnv("DATABASE_PATH", "commission.db"),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		LogPretty:      getEnvAsBool("LOG_PRETTY", false),
		RateTablePath:  os.Getenv("RATE_TABLE_PATH"),
		DigestSchedule: getEnvOrEmpty("DIGEST_SCHEDULE", "0 0 7 * * *"),
		DigestWorkers:  getEnvAsInt("DIGEST_WORKERS", 4),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks if required configuration is present
func (c *Config) Validate() error {
	if c.DatabasePath == "" {
		return fmt.Errorf("DATABASE_PATH is required")
	}
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("PORT %d out of range", c.Port)
	}
	if c.DigestWorkers <= 0 {
		return fmt.Errorf("DIGEST_WORKERS must be positive")
	}
	if c.DigestSchedule != "" {
		if _, err := cron.NewParser(cron.Second | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor).Parse(c.DigestSchedule); err != nil {
			return fmt.Errorf("DIGEST_SCHEDULE %q: %w", c.DigestSchedule, err)
		}
	}
	return nil
}

// Helper functions
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvOrEmpty distinguishes an unset variable (default) from one set to
// the empty string (explicitly disabled).
func getEnvOrEmpty(key, defaultValue string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}
