package api

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegister_ReturnsTokensAndUser(t *testing.T) {
	ts := setupTestServer(t)

	data := ts.registerUser(t, "ada", "ada@example.com")

	assert.NotEmpty(t, data.AccessToken)
	assert.NotEmpty(t, data.RefreshToken)
	assert.NotEmpty(t, data.SessionID)
	assert.Equal(t, "Bearer", data.TokenType)
	assert.Equal(t, "ada", data.User.Username)
	assert.Equal(t, "ada@example.com", data.User.Email)
	assert.NotZero(t, data.User.AuthorID)
}

func TestRegister_DuplicateEmailConflicts(t *testing.T) {
	ts := setupTestServer(t)

	ts.registerUser(t, "ada", "ada@example.com")

	resp := ts.api.Post("/api/v1/auth/register", map[string]any{
		"username": "other",
		"email":    "ada@example.com",
		"password": "CorrectHorse9!",
	})
	assert.Equal(t, http.StatusConflict, resp.Code)

	var envelope testEnvelope[struct{}]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &envelope))
	assert.False(t, envelope.Success)
	assert.Equal(t, "ALREADY_EXISTS", envelope.Code)
}

func TestRegister_InvalidEmailRejected(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.api.Post("/api/v1/auth/register", map[string]any{
		"username": "ada",
		"email":    "not-an-email",
		"password": "CorrectHorse9!",
	})
	assert.Equal(t, http.StatusBadRequest, resp.Code)

	var envelope testEnvelope[struct{}]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &envelope))
	assert.Equal(t, "VALIDATION", envelope.Code)
}

func TestLogin_ValidCredentials(t *testing.T) {
	ts := setupTestServer(t)

	ts.registerUser(t, "ada", "ada@example.com")

	resp := ts.api.Post("/api/v1/auth/login", map[string]any{
		"email":    "ada@example.com",
		"password": "CorrectHorse9!",
	})
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	var envelope testEnvelope[AuthResponse]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &envelope))
	assert.True(t, envelope.Success)
	assert.NotEmpty(t, envelope.Data.AccessToken)
	assert.Equal(t, "ada", envelope.Data.User.Username)
}

func TestLogin_WrongPasswordUnauthorized(t *testing.T) {
	ts := setupTestServer(t)

	ts.registerUser(t, "ada", "ada@example.com")

	resp := ts.api.Post("/api/v1/auth/login", map[string]any{
		"email":    "ada@example.com",
		"password": "WrongPassword1!",
	})
	assert.Equal(t, http.StatusUnauthorized, resp.Code)

	var envelope testEnvelope[struct{}]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &envelope))
	assert.Equal(t, "INVALID_CREDENTIALS", envelope.Code)
}

func TestRefresh_RotatesTokens(t *testing.T) {
	ts := setupTestServer(t)

	data := ts.registerUser(t, "ada", "ada@example.com")

	resp := ts.api.Post("/api/v1/auth/refresh", map[string]any{
		"refresh_token": data.RefreshToken,
	})
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	var envelope testEnvelope[AuthResponse]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &envelope))
	rotated := envelope.Data

	assert.NotEmpty(t, rotated.RefreshToken)
	assert.NotEqual(t, data.RefreshToken, rotated.RefreshToken)
	assert.Equal(t, data.SessionID, rotated.SessionID)

	// The old refresh token is dead after rotation.
	resp = ts.api.Post("/api/v1/auth/refresh", map[string]any{
		"refresh_token": data.RefreshToken,
	})
	assert.Equal(t, http.StatusUnauthorized, resp.Code)
}

func TestLogout_InvalidatesSession(t *testing.T) {
	ts := setupTestServer(t)

	data := ts.registerUser(t, "ada", "ada@example.com")

	resp := ts.api.Post("/api/v1/auth/logout", map[string]any{
		"session_id": data.SessionID,
	})
	require.Equal(t, http.StatusOK, resp.Code)

	resp = ts.api.Post("/api/v1/auth/refresh", map[string]any{
		"refresh_token": data.RefreshToken,
	})
	assert.Equal(t, http.StatusUnauthorized, resp.Code)
}

func TestGetCurrentUser_RequiresAuth(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.api.Get("/api/v1/users/me")
	assert.Equal(t, http.StatusUnauthorized, resp.Code)
}

func TestGetCurrentUser_ReturnsAccount(t *testing.T) {
	ts := setupTestServer(t)

	data := ts.registerUser(t, "ada", "ada@example.com")

	resp := ts.api.Get("/api/v1/users/me", "Authorization: Bearer "+data.AccessToken)
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	var envelope testEnvelope[UserResponse]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &envelope))
	assert.Equal(t, data.User.ID, envelope.Data.ID)
	assert.Equal(t, "ada", envelope.Data.Username)
	assert.Equal(t, "ada@example.com", envelope.Data.Email)
}

func TestCheckUsername_Availability(t *testing.T) {
	ts := setupTestServer(t)

	ts.registerUser(t, "ada", "ada@example.com")

	resp := ts.api.Get("/api/v1/users/check-username?username=ada")
	require.Equal(t, http.StatusOK, resp.Code)

	var envelope testEnvelope[CheckUsernameResponse]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &envelope))
	assert.False(t, envelope.Data.Available, "claimed pen name must be unavailable")

	resp = ts.api.Get("/api/v1/users/check-username?username=turing")
	require.Equal(t, http.StatusOK, resp.Code)

	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &envelope))
	assert.True(t, envelope.Data.Available)
}

func TestInvalidToken_TreatedAsAnonymous(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.api.Get("/api/v1/users/me", "Authorization: Bearer garbage")
	assert.Equal(t, http.StatusUnauthorized, resp.Code)
}
