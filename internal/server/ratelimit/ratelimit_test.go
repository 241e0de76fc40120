package ratelimit

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() *Config {
	return &Config{
		Enabled:       true,
		DefaultLimit:  100,
		DefaultWindow: time.Minute,
		Whitelist:     make(map[string]bool),
		Blacklist:     make(map[string]bool),
		EndpointConfigs: []EndpointConfig{
			{Path: "/auth/login", Method: "POST", Limit: 3, Window: time.Minute, Burst: 3},
			{Path: "/key-results/", Method: "POST", Limit: 60, Window: time.Minute, Burst: 20},
			{Path: "/health", Limit: 0},
		},
	}
}

func TestAllow_WithinLimit(t *testing.T) {
	limiter := NewLimiter(testConfig())
	defer limiter.Stop()

	allowed, info := limiter.Allow("10.0.0.1", "/objectives", "GET")
	assert.True(t, allowed)
	assert.Equal(t, 100, info.Limit)
	assert.Equal(t, 99, info.Remaining)
}

func TestAllow_ExhaustsBurst(t *testing.T) {
	limiter := NewLimiter(testConfig())
	defer limiter.Stop()

	for i := 0; i < 3; i++ {
		allowed, _ := limiter.Allow("10.0.0.1", "/auth/login", "POST")
		require.True(t, allowed, "request %d should be allowed", i)
	}

	allowed, info := limiter.Allow("10.0.0.1", "/auth/login", "POST")
	assert.False(t, allowed)
	assert.Equal(t, 0, info.Remaining)
	assert.Greater(t, info.RetryAfter, time.Duration(0))
}

func TestAllow_ClientsIsolated(t *testing.T) {
	limiter := NewLimiter(testConfig())
	defer limiter.Stop()

	for i := 0; i < 3; i++ {
		limiter.Allow("10.0.0.1", "/auth/login", "POST")
	}

	allowed, _ := limiter.Allow("10.0.0.2", "/auth/login", "POST")
	assert.True(t, allowed, "different client should have its own bucket")
}

func TestAllow_UnlimitedEndpoint(t *testing.T) {
	limiter := NewLimiter(testConfig())
	defer limiter.Stop()

	for i := 0; i < 500; i++ {
		allowed, _ := limiter.Allow("10.0.0.1", "/health", "GET")
		require.True(t, allowed)
	}
}

func TestAllow_Whitelist(t *testing.T) {
	config := testConfig()
	config.Whitelist["10.0.0.9"] = true
	limiter := NewLimiter(config)
	defer limiter.Stop()

	for i := 0; i < 10; i++ {
		allowed, _ := limiter.Allow("10.0.0.9", "/auth/login", "POST")
		require.True(t, allowed)
	}
}

func TestAllow_Blacklist(t *testing.T) {
	config := testConfig()
	config.Blacklist["10.0.0.9"] = true
	limiter := NewLimiter(config)
	defer limiter.Stop()

	allowed, _ := limiter.Allow("10.0.0.9", "/objectives", "GET")
	assert.False(t, allowed)
}

func TestAllow_Disabled(t *testing.T) {
	config := testConfig()
	config.Enabled = false
	limiter := NewLimiter(config)
	defer limiter.Stop()

	for i := 0; i < 10; i++ {
		allowed, _ := limiter.Allow("10.0.0.1", "/auth/login", "POST")
		require.True(t, allowed)
	}
}

func TestTokenBucket_Refills(t *testing.T) {
	// 100 tokens/second so the refill is observable in a short test
	bucket := newTokenBucket(1, 100)

	allowed, _, _ := bucket.take()
	require.True(t, allowed)
	allowed, _, _ = bucket.take()
	require.False(t, allowed)

	time.Sleep(20 * time.Millisecond)

	allowed, _, _ = bucket.take()
	assert.True(t, allowed, "bucket should have refilled")
}

func TestMatchEndpoint(t *testing.T) {
	configs := DefaultEndpointConfigs()

	tests := []struct {
		name     string
		path     string
		method   string
		wantPath string
		wantNil  bool
	}{
		{name: "exact match", path: "/auth/login", method: "POST", wantPath: "/auth/login"},
		{name: "method mismatch", path: "/auth/login", method: "GET", wantNil: true},
		{name: "prefix match", path: "/key-results/abc/progress", method: "POST", wantPath: "/key-results/"},
		{name: "prefix wrong method", path: "/key-results/abc/progress", method: "GET", wantNil: true},
		{name: "reports prefix", path: "/reports/compliance", method: "GET", wantPath: "/reports/"},
		{name: "health unlimited", path: "/health", method: "GET", wantPath: "/health"},
		{name: "no match", path: "/objectives", method: "GET", wantNil: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MatchEndpoint(tt.path, tt.method, configs)
			if tt.wantNil {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.Equal(t, tt.wantPath, got.Path)
		})
	}
}

func TestLoadConfig_Defaults(t *testing.T) {
	config := LoadConfig()

	assert.True(t, config.Enabled)
	assert.Equal(t, 300, config.DefaultLimit)
	assert.Equal(t, time.Minute, config.DefaultWindow)
	assert.NotEmpty(t, config.EndpointConfigs)
}

func TestLoadConfig_Env(t *testing.T) {
	t.Setenv("RATE_LIMIT_ENABLED", "false")
	t.Setenv("RATE_LIMIT_DEFAULT", "42")
	t.Setenv("RATE_LIMIT_WHITELIST", "10.0.0.1, 10.0.0.2")

	config := LoadConfig()

	assert.False(t, config.Enabled)
	assert.Equal(t, 42, config.DefaultLimit)
	assert.True(t, config.Whitelist["10.0.0.1"])
	assert.True(t, config.Whitelist["10.0.0.2"])
}
