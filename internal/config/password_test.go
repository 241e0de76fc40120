package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPasswordConfig_Defaults(t *testing.T) {
	t.Setenv("BCRYPT_COST", "")
	t.Setenv("PASSWORD_PEPPER", "")

	cfg, err := NewPasswordConfig()
	require.NoError(t, err)
	assert.Equal(t, 12, cfg.BcryptCost)
	assert.Empty(t, cfg.Pepper)
}

func TestNewPasswordConfig_CostOutOfRange(t *testing.T) {
	for _, cost := range []string{"9", "15"} {
		t.Setenv("BCRYPT_COST", cost)
		_, err := NewPasswordConfig()
		require.Error(t, err, "cost=%s", cost)
		assert.Contains(t, err.Error(), "bcrypt cost out of range")
	}
}

func TestHashAndVerifyPassword(t *testing.T) {
	t.Setenv("BCRYPT_COST", "10") // minimum cost keeps the test fast
	t.Setenv("PASSWORD_PEPPER", "")

	cfg, err := NewPasswordConfig()
	require.NoError(t, err)

	hash, err := cfg.HashPassword("correct horse battery staple")
	require.NoError(t, err)
	assert.NotEqual(t, "correct horse battery staple", hash)

	assert.True(t, cfg.VerifyPassword("correct horse battery staple", hash))
	assert.False(t, cfg.VerifyPassword("wrong password", hash))
}

func TestVerifyPassword_PepperChangesOutcome(t *testing.T) {
	t.Setenv("BCRYPT_COST", "10")
	t.Setenv("PASSWORD_PEPPER", "pepper-a")

	withPepper, err := NewPasswordConfig()
	require.NoError(t, err)

	hash, err := withPepper.HashPassword("secret")
	require.NoError(t, err)
	assert.True(t, withPepper.VerifyPassword("secret", hash))

	t.Setenv("PASSWORD_PEPPER", "pepper-b")
	otherPepper, err := NewPasswordConfig()
	require.NoError(t, err)
	assert.False(t, otherPepper.VerifyPassword("secret", hash))
}
