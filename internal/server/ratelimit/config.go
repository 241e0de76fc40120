package ratelimit

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// EndpointConfig holds per-endpoint rate limit settings. A Limit of zero
// means the endpoint is unlimited.
type EndpointConfig struct {
	Path   string
	Method string // empty matches any method
	Limit  int
	Window time.Duration
	Burst  int
}

// DefaultEndpointConfigs returns the endpoint limits used when none are
// configured. Write-heavy and expensive endpoints get tighter limits than
// reads.
func DefaultEndpointConfigs() []EndpointConfig {
	return []EndpointConfig{
		// Auth endpoints are brute-force targets
		{Path: "/auth/login", Method: "POST", Limit: 10, Window: time.Minute, Burst: 5},
		{Path: "/auth/register", Method: "POST", Limit: 5, Window: time.Minute, Burst: 3},
		{Path: "/auth/password", Method: "PUT", Limit: 5, Window: time.Minute, Burst: 3},

		// Bulk import and report generation are expensive
		{Path: "/import/okrs", Method: "POST", Limit: 5, Window: time.Minute, Burst: 2},
		{Path: "/reports/", Limit: 10, Window: time.Minute, Burst: 5},

		// Progress check-ins arrive in bursts around review deadlines
		{Path: "/key-results/", Method: "POST", Limit: 60, Window: time.Minute, Burst: 20},

		// Liveness and scrape endpoints are never limited
		{Path: "/health", Limit: 0},
		{Path: "/metrics", Limit: 0},
	}
}

// LoadConfig loads rate limiting configuration from environment variables.
func LoadConfig() *Config {
	config := &Config{
		Enabled:         true,
		DefaultLimit:    300,
		DefaultWindow:   time.Minute,
		CleanupInterval: 5 * time.Minute,
		Whitelist:       make(map[string]bool),
		Blacklist:       make(map[string]bool),
		EndpointConfigs: DefaultEndpointConfigs(),
	}

	if v := os.Getenv("RATE_LIMIT_ENABLED"); v != "" {
		if enabled, err := strconv.ParseBool(v); err == nil {
			config.Enabled = enabled
		}
	}

	if v := os.Getenv("RATE_LIMIT_DEFAULT"); v != "" {
		if limit, err := strconv.Atoi(v); err == nil && limit > 0 {
			config.DefaultLimit = limit
		}
	}

	if v := os.Getenv("RATE_LIMIT_WINDOW_SECONDS"); v != "" {
		if seconds, err := strconv.Atoi(v); err == nil && seconds > 0 {
			config.DefaultWindow = time.Duration(seconds) * time.Second
		}
	}

	for _, id := range splitList(os.Getenv("RATE_LIMIT_WHITELIST")) {
		config.Whitelist[id] = true
	}
	for _, id := range splitList(os.Getenv("RATE_LIMIT_BLACKLIST")) {
		config.Blacklist[id] = true
	}

	return config
}

func splitList(value string) []string {
	if value == "" {
		return nil
	}
	parts := strings.Split(value, ",")
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}
