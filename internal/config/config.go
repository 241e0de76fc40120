// Package config provides configuration loading and validation for the server.
package config

import (
	"fmt"
	"os"
	"strconv"
)

// Config holds the server's runtime configuration, loaded from environment
// variables (a .env file is loaded by the CLI entry point before this runs).
type Config struct {
	Port        int
	DatabaseURL string

	// StaleAfterDays is the age in days after which a key result with no
	// progress update is flagged in compliance reports.
	StaleAfterDays int

	// AssignmentInterval controls how often the assignment runner checks
	// recurrence rules, in seconds.
	AssignmentInterval int
}

// Load reads server configuration from the environment.
// DATABASE_URL is required; everything else has a default.
func Load() (*Config, error) {
	databaseURL := os.Getenv("DATABASE_URL")
	if databaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL environment variable is required")
	}

	cfg := &Config{
		Port:               envInt("PORT", 8080),
		DatabaseURL:        databaseURL,
		StaleAfterDays:     envInt("STALE_AFTER_DAYS", 14),
		AssignmentInterval: envInt("ASSIGNMENT_INTERVAL_SECONDS", 300),
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("config error: PORT out of range: %d", c.Port)
	}
	if c.StaleAfterDays < 1 {
		return fmt.Errorf("config error: STALE_AFTER_DAYS must be positive, got %d", c.StaleAfterDays)
	}
	if c.AssignmentInterval < 1 {
		return fmt.Errorf("config error: ASSIGNMENT_INTERVAL_SECONDS must be positive, got %d", c.AssignmentInterval)
	}
	return nil
}

// envInt reads an integer environment variable with a default value.
func envInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}
