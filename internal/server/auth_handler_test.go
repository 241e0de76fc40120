package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/peakform/internal/types"
)

func testAuthHandler(t *testing.T) (*AuthHandler, *fakeDBClient) {
	t.Helper()
	fake := newFakeDBClient()
	userService := NewUserService(fake, testPasswordConfig())
	return NewAuthHandler(userService, testJWTService(t)), fake
}

func postJSON(t *testing.T, body any) *bytes.Buffer {
	t.Helper()
	data, err := json.Marshal(body)
	require.NoError(t, err)
	return bytes.NewBuffer(data)
}

func TestAuthHandler_Register(t *testing.T) {
	handler, _ := testAuthHandler(t)

	req := httptest.NewRequest("POST", "/auth/register", postJSON(t, types.CreateUserRequest{
		Name:     "Priya Shah",
		Email:    "priya@example.com",
		Password: "s3cure-password",
	}))
	rec := httptest.NewRecorder()
	handler.Register(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)

	var response types.LoginResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&response))
	assert.Equal(t, "priya@example.com", response.User.Email)
	assert.Equal(t, types.RoleMember, response.User.Role)
	assert.NotEmpty(t, response.Token)
}

func TestAuthHandler_Register_InvalidBody(t *testing.T) {
	handler, _ := testAuthHandler(t)

	req := httptest.NewRequest("POST", "/auth/register", strings.NewReader("{not json"))
	rec := httptest.NewRecorder()
	handler.Register(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAuthHandler_Register_ShortPassword(t *testing.T) {
	handler, _ := testAuthHandler(t)

	req := httptest.NewRequest("POST", "/auth/register", postJSON(t, types.CreateUserRequest{
		Name:     "Priya Shah",
		Email:    "priya@example.com",
		Password: "short",
	}))
	rec := httptest.NewRecorder()
	handler.Register(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Password")
}

func TestAuthHandler_Register_DuplicateEmail(t *testing.T) {
	handler, fake := testAuthHandler(t)
	fake.emailExists["priya@example.com"] = true

	req := httptest.NewRequest("POST", "/auth/register", postJSON(t, types.CreateUserRequest{
		Name:     "Priya Shah",
		Email:    "priya@example.com",
		Password: "s3cure-password",
	}))
	rec := httptest.NewRecorder()
	handler.Register(rec, req)

	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestAuthHandler_Login(t *testing.T) {
	handler, _ := testAuthHandler(t)

	registerReq := httptest.NewRequest("POST", "/auth/register", postJSON(t, types.CreateUserRequest{
		Name:     "Priya Shah",
		Email:    "priya@example.com",
		Password: "s3cure-password",
	}))
	handler.Register(httptest.NewRecorder(), registerReq)

	req := httptest.NewRequest("POST", "/auth/login", postJSON(t, types.LoginRequest{
		Email:    "priya@example.com",
		Password: "s3cure-password",
	}))
	rec := httptest.NewRecorder()
	handler.Login(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var response types.LoginResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&response))
	assert.NotEmpty(t, response.Token)
}

func TestAuthHandler_Login_WrongPassword(t *testing.T) {
	handler, _ := testAuthHandler(t)

	registerReq := httptest.NewRequest("POST", "/auth/register", postJSON(t, types.CreateUserRequest{
		Name:     "Priya Shah",
		Email:    "priya@example.com",
		Password: "s3cure-password",
	}))
	handler.Register(httptest.NewRecorder(), registerReq)

	req := httptest.NewRequest("POST", "/auth/login", postJSON(t, types.LoginRequest{
		Email:    "priya@example.com",
		Password: "wrong-password",
	}))
	rec := httptest.NewRecorder()
	handler.Login(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthHandler_UpdatePassword(t *testing.T) {
	handler, fake := testAuthHandler(t)

	registerReq := httptest.NewRequest("POST", "/auth/register", postJSON(t, types.CreateUserRequest{
		Name:     "Priya Shah",
		Email:    "priya@example.com",
		Password: "old-password-1",
	}))
	handler.Register(httptest.NewRecorder(), registerReq)
	userID := fake.emailIndex["priya@example.com"]

	req := httptest.NewRequest("PUT", "/auth/password", postJSON(t, types.UpdatePasswordRequest{
		CurrentPassword: "old-password-1",
		NewPassword:     "new-password-2",
	}))
	rec := httptest.NewRecorder()
	handler.UpdatePasswordWithUserID(rec, req, userID)

	assert.Equal(t, http.StatusOK, rec.Code)

	// Wrong current password is unauthorized
	req = httptest.NewRequest("PUT", "/auth/password", postJSON(t, types.UpdatePasswordRequest{
		CurrentPassword: "old-password-1",
		NewPassword:     "another-password-3",
	}))
	rec = httptest.NewRecorder()
	handler.UpdatePasswordWithUserID(rec, req, userID)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
