package services

import (
	"context"
	"strings"
	"testing"
	"time"

	"takatrack-backend/internal/models"
	"takatrack-backend/internal/store"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func registerRequest(email string) models.RegisterRequest {
	return models.RegisterRequest{
		Email:    email,
		Password: "hunter2",
		Name:     "Test User",
		Phone:    "0700000000",
	}
}

func TestRegisterDefaultsRoleAndHidesHash(t *testing.T) {
	ctx := context.Background()
	s := store.NewMemory()
	auth := NewAuthService(s, testSecret, 0)

	user, err := auth.Register(ctx, registerRequest("new@example.com"))
	require.NoError(t, err)
	assert.Equal(t, models.RoleResident, user.Role)
	assert.Equal(t, "new@example.com", user.Email)

	stored, err := s.GetUserByEmail(ctx, "new@example.com")
	require.NoError(t, err)
	assert.NotEqual(t, "hunter2", stored.PasswordHash)
	assert.NotEmpty(t, stored.PasswordHash)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	ctx := context.Background()
	s := store.NewMemory()
	auth := NewAuthService(s, testSecret, 0)

	_, err := auth.Register(ctx, registerRequest("dup@example.com"))
	require.NoError(t, err)

	_, err = auth.Register(ctx, registerRequest("dup@example.com"))
	assert.ErrorIs(t, err, ErrDuplicateEmail)
	assert.Equal(t, 400, StatusCode(err))

	count, err := s.CountUsers(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestRegisterInvalidInput(t *testing.T) {
	auth := NewAuthService(store.NewMemory(), testSecret, 0)

	tests := []struct {
		name string
		req  models.RegisterRequest
	}{
		{"missing email", models.RegisterRequest{Password: "p", Name: "n"}},
		{"missing password", models.RegisterRequest{Email: "e@example.com", Name: "n"}},
		{"missing name", models.RegisterRequest{Email: "e@example.com", Password: "p"}},
		{"unknown role", models.RegisterRequest{Email: "e@example.com", Password: "p", Name: "n", Role: "superuser"}},
		{"password too long", models.RegisterRequest{Email: "e@example.com", Password: strings.Repeat("a", 80), Name: "n"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := auth.Register(context.Background(), tt.req)
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}
}

func TestRegisterPasswordLengthLimit(t *testing.T) {
	ctx := context.Background()
	auth := NewAuthService(store.NewMemory(), testSecret, 0)

	req := registerRequest("long@example.com")
	req.Password = strings.Repeat("a", 73)
	_, err := auth.Register(ctx, req)
	require.ErrorIs(t, err, ErrInvalidInput)
	assert.Equal(t, "Password must be at most 72 bytes", Message(err))

	req.Password = strings.Repeat("a", 72)
	_, err = auth.Register(ctx, req)
	require.NoError(t, err)
	_, err = auth.Login(ctx, models.LoginRequest{Email: req.Email, Password: req.Password})
	assert.NoError(t, err)
}

func TestLoginTokenResolvesToUser(t *testing.T) {
	ctx := context.Background()
	auth := NewAuthService(store.NewMemory(), testSecret, 0)

	user, err := auth.Register(ctx, registerRequest("login@example.com"))
	require.NoError(t, err)

	resp, err := auth.Login(ctx, models.LoginRequest{Email: "login@example.com", Password: "hunter2"})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Token)
	assert.Equal(t, user.ID, resp.User.ID)

	id, err := auth.Identity(resp.Token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, id)

	me, err := auth.Me(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "login@example.com", me.Email)
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	ctx := context.Background()
	auth := NewAuthService(store.NewMemory(), testSecret, 0)

	_, err := auth.Register(ctx, registerRequest("login@example.com"))
	require.NoError(t, err)

	resp, err := auth.Login(ctx, models.LoginRequest{Email: "login@example.com", Password: "wrong"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	assert.Nil(t, resp)

	_, err = auth.Login(ctx, models.LoginRequest{Email: "nobody@example.com", Password: "hunter2"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	assert.Equal(t, 401, StatusCode(err))

	_, err = auth.Login(ctx, models.LoginRequest{Email: "login@example.com"})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestIdentityRejectsBadTokens(t *testing.T) {
	auth := NewAuthService(store.NewMemory(), testSecret, time.Hour)

	valid, err := auth.IssueToken(5)
	require.NoError(t, err)

	other := NewAuthService(store.NewMemory(), "another-secret", time.Hour)
	foreign, err := other.IssueToken(5)
	require.NoError(t, err)

	expiredAuth := NewAuthService(store.NewMemory(), testSecret, time.Hour)
	expiredAuth.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	expired, err := expiredAuth.IssueToken(5)
	require.NoError(t, err)

	none, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.RegisteredClaims{Subject: "5"}).
		SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	id, err := auth.Identity(valid)
	require.NoError(t, err)
	assert.Equal(t, int64(5), id)

	for name, token := range map[string]string{
		"empty":        "",
		"garbage":      "not-a-token",
		"wrong secret": foreign,
		"expired":      expired,
		"unsigned":     none,
	} {
		t.Run(name, func(t *testing.T) {
			_, err := auth.Identity(token)
			assert.ErrorIs(t, err, ErrUnauthenticated)
		})
	}
}

func TestMeNotFound(t *testing.T) {
	auth := NewAuthService(store.NewMemory(), testSecret, 0)

	_, err := auth.Me(context.Background(), 77)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, 404, StatusCode(err))
}
