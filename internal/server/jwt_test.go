package server

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/peakform/internal/config"
)

func testJWTService(t *testing.T) *JWTService {
	t.Helper()
	return NewJWTService(&config.JWTConfig{
		Secret:          "test-secret-key-for-unit-tests",
		ExpirationHours: 1,
	})
}

func TestGenerateAndValidateToken(t *testing.T) {
	service := testJWTService(t)
	userID := uuid.New()

	token, err := service.GenerateToken(userID, "manager")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := service.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, userID, claims.UserID)
	assert.Equal(t, "manager", claims.Role)
	assert.True(t, claims.ExpiresAt.After(time.Now()))
}

func TestValidateToken_Empty(t *testing.T) {
	service := testJWTService(t)

	_, err := service.ValidateToken("")
	assert.Error(t, err)
}

func TestValidateToken_Malformed(t *testing.T) {
	service := testJWTService(t)

	_, err := service.ValidateToken("not.a.token")
	assert.Error(t, err)
}

func TestValidateToken_WrongSecret(t *testing.T) {
	service := testJWTService(t)
	other := NewJWTService(&config.JWTConfig{
		Secret:          "a-different-secret",
		ExpirationHours: 1,
	})

	token, err := other.GenerateToken(uuid.New(), "member")
	require.NoError(t, err)

	_, err = service.ValidateToken(token)
	assert.Error(t, err)
}

func TestClaimsGetters(t *testing.T) {
	userID := uuid.New()
	claims := &Claims{UserID: userID, Role: "admin"}

	assert.Equal(t, userID, claims.GetUserID())
	assert.Equal(t, "admin", claims.GetRole())
}

func TestAsTokenValidator(t *testing.T) {
	service := testJWTService(t)
	userID := uuid.New()

	token, err := service.GenerateToken(userID, "member")
	require.NoError(t, err)

	validator := service.AsTokenValidator()
	claims, err := validator.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, userID, claims.GetUserID())
	assert.Equal(t, "member", claims.GetRole())
}
