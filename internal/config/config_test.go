package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_RequiresDatabaseURL(t *testing.T) {
	t.Setenv("DATABASE_URL", "")

	cfg, err := Load()
	require.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "DATABASE_URL")
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/peakform_test")
	t.Setenv("PORT", "")
	t.Setenv("STALE_AFTER_DAYS", "")
	t.Setenv("ASSIGNMENT_INTERVAL_SECONDS", "")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, 14, cfg.StaleAfterDays)
	assert.Equal(t, 300, cfg.AssignmentInterval)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/peakform_test")
	t.Setenv("PORT", "9090")
	t.Setenv("STALE_AFTER_DAYS", "7")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 9090, cfg.Port)
	assert.Equal(t, 7, cfg.StaleAfterDays)
}

func TestLoad_InvalidPort(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/peakform_test")
	t.Setenv("PORT", "99999")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "PORT out of range")
}

func TestLoad_NonNumericPortUsesDefault(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/peakform_test")
	t.Setenv("PORT", "not-a-port")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 8080, cfg.Port)
}
