package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Mentor-Ntech/afriDaily/internal/adapters/persistence/repositories/memory"
	"github.com/Mentor-Ntech/afriDaily/internal/config"
	"github.com/Mentor-Ntech/afriDaily/internal/core/domain"
)

func newAuthService(t *testing.T) *AuthService {
	t.Helper()
	store := memory.NewStore()
	cfg := &config.Config{
		AppMode: "dev",
		JWT: config.JWTConfig{
			Secret:           "test-access-secret",
			RefreshSecret:    "test-refresh-secret",
			AccessTokenMins:  15,
			RefreshTokenDays: 7,
		},
	}
	return NewAuthService(store.Users, store.RefreshTokens, cfg)
}

func registerInput(username string) *RegisterInput {
	return &RegisterInput{
		Username: username,
		Email:    username + "@example.com",
		Password: "correct-horse-battery",
	}
}

func TestRegisterGeneratesWalletAddress(t *testing.T) {
	auth := newAuthService(t)
	ctx := context.Background()

	resp, err := auth.Register(ctx, registerInput("amina"))
	require.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)
	assert.NotEmpty(t, resp.RefreshToken)
	require.NotNil(t, resp.User)
	assert.Equal(t, "amina", resp.User.Username)
	assert.Contains(t, resp.User.Address, "0x")
}

func TestRegisterRejectsWeakPassword(t *testing.T) {
	auth := newAuthService(t)
	ctx := context.Background()

	input := registerInput("amina")
	input.Password = "short"
	_, err := auth.Register(ctx, input)
	assert.ErrorIs(t, err, ErrWeakPassword)
}

func TestRegisterRejectsDuplicates(t *testing.T) {
	auth := newAuthService(t)
	ctx := context.Background()

	_, err := auth.Register(ctx, registerInput("amina"))
	require.NoError(t, err)

	_, err = auth.Register(ctx, registerInput("amina"))
	assert.ErrorIs(t, err, domain.ErrUserAlreadyExists)

	other := registerInput("kwame")
	other.Email = "amina@example.com"
	_, err = auth.Register(ctx, other)
	assert.ErrorIs(t, err, domain.ErrUserAlreadyExists)
}

func TestLogin(t *testing.T) {
	auth := newAuthService(t)
	ctx := context.Background()

	_, err := auth.Register(ctx, registerInput("amina"))
	require.NoError(t, err)

	resp, err := auth.Login(ctx, &LoginInput{Username: "amina", Password: "correct-horse-battery"})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)

	_, err = auth.Login(ctx, &LoginInput{Username: "amina", Password: "wrong-password"})
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)

	_, err = auth.Login(ctx, &LoginInput{Username: "nobody", Password: "correct-horse-battery"})
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
}

func TestAccessTokenCarriesIdentity(t *testing.T) {
	auth := newAuthService(t)
	ctx := context.Background()

	resp, err := auth.Register(ctx, registerInput("amina"))
	require.NoError(t, err)

	claims, err := auth.ValidateAccessToken(resp.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, resp.User.ID, claims.UserID)
	assert.Equal(t, resp.User.Address, claims.Address)
	assert.Equal(t, domain.RoleUser, claims.Role)

	_, err = auth.ValidateAccessToken("not-a-token")
	assert.Error(t, err)
}

func TestRefreshTokenRotation(t *testing.T) {
	auth := newAuthService(t)
	ctx := context.Background()

	registered, err := auth.Register(ctx, registerInput("amina"))
	require.NoError(t, err)

	refreshed, err := auth.RefreshToken(ctx, registered.RefreshToken)
	require.NoError(t, err)
	assert.NotEqual(t, registered.RefreshToken, refreshed.RefreshToken)

	// The rotated-out token is dead
	_, err = auth.RefreshToken(ctx, registered.RefreshToken)
	assert.ErrorIs(t, err, ErrTokenRevoked)

	// The fresh one still works
	_, err = auth.RefreshToken(ctx, refreshed.RefreshToken)
	require.NoError(t, err)
}

func TestLogoutRevokesRefreshToken(t *testing.T) {
	auth := newAuthService(t)
	ctx := context.Background()

	resp, err := auth.Register(ctx, registerInput("amina"))
	require.NoError(t, err)

	require.NoError(t, auth.Logout(ctx, resp.RefreshToken))
	_, err = auth.RefreshToken(ctx, resp.RefreshToken)
	assert.ErrorIs(t, err, ErrTokenRevoked)
}

func TestLogoutAllRevokesEverySession(t *testing.T) {
	auth := newAuthService(t)
	ctx := context.Background()

	first, err := auth.Register(ctx, registerInput("amina"))
	require.NoError(t, err)
	second, err := auth.Login(ctx, &LoginInput{Username: "amina", Password: "correct-horse-battery"})
	require.NoError(t, err)

	require.NoError(t, auth.LogoutAll(ctx, first.User.ID))

	_, err = auth.RefreshToken(ctx, first.RefreshToken)
	assert.ErrorIs(t, err, ErrTokenRevoked)
	_, err = auth.RefreshToken(ctx, second.RefreshToken)
	assert.ErrorIs(t, err, ErrTokenRevoked)
}
