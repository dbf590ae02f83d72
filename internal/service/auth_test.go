package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/imyp/QuoteWeave/internal/auth"
	domainerrors "github.com/imyp/QuoteWeave/internal/errors"
	"github.com/imyp/QuoteWeave/internal/validation"
)

func newAuthService(t *testing.T) *AuthService {
	t.Helper()
	st := newTestStore(t)

	tokenService, err := auth.NewTokenService(strings.Repeat("ab", 32), 15*time.Minute, 24*time.Hour)
	require.NoError(t, err)

	logger := testLogger()
	sessions := NewSessionService(st, tokenService, logger)
	return NewAuthService(st, tokenService, sessions, validation.New(), logger)
}

func registerReq(username, email string) RegisterRequest {
	return RegisterRequest{
		Username: username,
		Email:    email,
		Password: "correct horse battery",
	}
}

func TestRegisterAndLogin(t *testing.T) {
	svc := newAuthService(t)
	ctx := context.Background()

	resp, err := svc.Register(ctx, registerReq("ada", "ada@example.com"))
	require.NoError(t, err)
	assert.Equal(t, "ada", resp.AuthorName)
	assert.NotEmpty(t, resp.AccessToken)
	assert.NotEmpty(t, resp.RefreshToken)
	assert.Equal(t, "Bearer", resp.TokenType)
	assert.NotZero(t, resp.User.ID)
	assert.NotZero(t, resp.User.AuthorID)

	login, err := svc.Login(ctx, LoginRequest{Email: "ada@example.com", Password: "correct horse battery"})
	require.NoError(t, err)
	assert.Equal(t, resp.User.ID, login.User.ID)
	assert.Equal(t, "ada", login.AuthorName)
}

func TestRegister_StoresTimestamps(t *testing.T) {
	st := newTestStore(t)
	tokenService, err := auth.NewTokenService(strings.Repeat("ab", 32), 15*time.Minute, 24*time.Hour)
	require.NoError(t, err)
	logger := testLogger()
	svc := NewAuthService(st, tokenService, NewSessionService(st, tokenService, logger), validation.New(), logger)
	ctx := context.Background()

	resp, err := svc.Register(ctx, registerReq("ada", "ada@example.com"))
	require.NoError(t, err)

	user, err := st.GetUserByID(ctx, resp.User.ID)
	require.NoError(t, err)
	assert.False(t, user.CreatedAt.IsZero(), "created_at must be stamped on insert")
	assert.False(t, user.UpdatedAt.IsZero(), "updated_at must be stamped on insert")
}

func TestRegister_DuplicateEmail(t *testing.T) {
	svc := newAuthService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, registerReq("ada", "ada@example.com"))
	require.NoError(t, err)

	_, err = svc.Register(ctx, registerReq("grace", "ada@example.com"))
	require.Error(t, err)
	assert.True(t, domainerrors.Is(err, domainerrors.ErrAlreadyExists))
}

func TestRegister_UsernameTaken(t *testing.T) {
	svc := newAuthService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, registerReq("ada", "ada@example.com"))
	require.NoError(t, err)

	_, err = svc.Register(ctx, registerReq("ada", "other@example.com"))
	require.Error(t, err)
	assert.True(t, domainerrors.Is(err, domainerrors.ErrAlreadyExists))
}

func TestRegister_ClaimsSeededAuthor(t *testing.T) {
	svc := newAuthService(t)
	ctx := context.Background()

	// Seeded quotes create authors without accounts. Registration under
	// the same name claims the existing author row.
	seeded := mustAuthor(t, svc.store, "Mark Twain")

	resp, err := svc.Register(ctx, registerReq("Mark Twain", "twain@example.com"))
	require.NoError(t, err)
	assert.Equal(t, seeded.ID, resp.User.AuthorID)
}

func TestRegister_ValidationFailures(t *testing.T) {
	svc := newAuthService(t)
	ctx := context.Background()

	tests := []struct {
		name string
		req  RegisterRequest
	}{
		{"bad email", RegisterRequest{Username: "ada", Email: "nope", Password: "longenough"}},
		{"short password", RegisterRequest{Username: "ada", Email: "a@b.com", Password: "short"}},
		{"missing username", RegisterRequest{Email: "a@b.com", Password: "longenough"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Register(ctx, tt.req)
			require.Error(t, err)
			assert.True(t, domainerrors.Is(err, domainerrors.ErrValidation))
		})
	}
}

func TestLogin_InvalidCredentials(t *testing.T) {
	svc := newAuthService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, registerReq("ada", "ada@example.com"))
	require.NoError(t, err)

	// Wrong password and unknown email produce the same error code.
	_, err = svc.Login(ctx, LoginRequest{Email: "ada@example.com", Password: "wrong password"})
	assert.True(t, domainerrors.Is(err, domainerrors.ErrInvalidCredentials))

	_, err = svc.Login(ctx, LoginRequest{Email: "nobody@example.com", Password: "wrong password"})
	assert.True(t, domainerrors.Is(err, domainerrors.ErrInvalidCredentials))
}

func TestRefreshTokens_Rotation(t *testing.T) {
	svc := newAuthService(t)
	ctx := context.Background()

	resp, err := svc.Register(ctx, registerReq("ada", "ada@example.com"))
	require.NoError(t, err)

	refreshed, err := svc.RefreshTokens(ctx, RefreshRequest{RefreshToken: resp.RefreshToken})
	require.NoError(t, err)
	assert.NotEqual(t, resp.RefreshToken, refreshed.RefreshToken)
	assert.Equal(t, resp.SessionID, refreshed.SessionID)

	// The old token is dead after rotation.
	_, err = svc.RefreshTokens(ctx, RefreshRequest{RefreshToken: resp.RefreshToken})
	require.Error(t, err)
	assert.True(t, domainerrors.Is(err, domainerrors.ErrTokenExpired))

	// The new one still works.
	_, err = svc.RefreshTokens(ctx, RefreshRequest{RefreshToken: refreshed.RefreshToken})
	require.NoError(t, err)
}

func TestLogoutInvalidatesRefreshToken(t *testing.T) {
	svc := newAuthService(t)
	ctx := context.Background()

	resp, err := svc.Register(ctx, registerReq("ada", "ada@example.com"))
	require.NoError(t, err)

	require.NoError(t, svc.Logout(ctx, resp.SessionID))

	_, err = svc.RefreshTokens(ctx, RefreshRequest{RefreshToken: resp.RefreshToken})
	assert.True(t, domainerrors.Is(err, domainerrors.ErrTokenExpired))
}

func TestVerifyAccessToken(t *testing.T) {
	svc := newAuthService(t)
	ctx := context.Background()

	resp, err := svc.Register(ctx, registerReq("ada", "ada@example.com"))
	require.NoError(t, err)

	user, claims, err := svc.VerifyAccessToken(ctx, resp.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, resp.User.ID, user.ID)
	assert.Equal(t, resp.User.ID, claims.UserID)
	assert.Equal(t, resp.User.AuthorID, claims.AuthorID)

	_, _, err = svc.VerifyAccessToken(ctx, "v4.local.garbage")
	assert.True(t, domainerrors.Is(err, domainerrors.ErrUnauthorized))
}

func TestIsUsernameAvailable(t *testing.T) {
	svc := newAuthService(t)
	ctx := context.Background()

	available, err := svc.IsUsernameAvailable(ctx, "fresh-name")
	require.NoError(t, err)
	assert.True(t, available)

	// Author without an account is still claimable.
	mustAuthor(t, svc.store, "Mark Twain")
	available, err = svc.IsUsernameAvailable(ctx, "Mark Twain")
	require.NoError(t, err)
	assert.True(t, available)

	_, err = svc.Register(ctx, registerReq("ada", "ada@example.com"))
	require.NoError(t, err)
	available, err = svc.IsUsernameAvailable(ctx, "ada")
	require.NoError(t, err)
	assert.False(t, available)
}
