package services

import (
	"context"
	"net/http"
	"testing"

	"github.com/kendall-kelly/furniture-store-api/models"
	"github.com/kendall-kelly/furniture-store-api/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func requireAPIError(t *testing.T, err error, status int, code string) {
	t.Helper()
	require.Error(t, err)
	apiErr := utils.AsAPIError(err)
	assert.Equal(t, status, apiErr.Status())
	assert.Equal(t, code, apiErr.Code)
}

func TestRegister(t *testing.T) {
	svc, db := newTestAuthService(t)
	ctx := context.Background()

	result, err := svc.Register(ctx, NewUserInput{
		Username: "alice",
		Email:    "alice@example.com",
		Password: "secret",
		IsAdmin:  true,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, result.Token)
	assert.Equal(t, "alice", result.User.Username)
	assert.False(t, result.User.IsAdmin, "self-registration never grants admin")
	assert.NotEqual(t, "secret", result.User.PasswordHash)
	assert.True(t, CheckPassword(result.User, "secret"))

	user, err := svc.ValidateToken(ctx, result.Token)
	require.NoError(t, err)
	assert.Equal(t, result.User.ID, user.ID)

	var count int64
	db.Model(&models.User{}).Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestRegister_Validation(t *testing.T) {
	svc, db := newTestAuthService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, NewUserInput{Username: "alice", Email: "alice@example.com", Password: "secret"})
	require.NoError(t, err)

	tests := []struct {
		name  string
		input NewUserInput
		code  string
	}{
		{"missing password", NewUserInput{Username: "bob", Email: "bob@example.com"}, "MISSING_FIELDS"},
		{"missing email", NewUserInput{Username: "bob", Password: "x"}, "MISSING_FIELDS"},
		{"blank username", NewUserInput{Username: "  ", Email: "bob@example.com", Password: "x"}, "MISSING_FIELDS"},
		{"duplicate email", NewUserInput{Username: "bob", Email: "alice@example.com", Password: "x"}, "EMAIL_EXISTS"},
		{"duplicate username", NewUserInput{Username: "alice", Email: "bob@example.com", Password: "x"}, "USERNAME_EXISTS"},
		{"email checked first", NewUserInput{Username: "alice", Email: "alice@example.com", Password: "x"}, "EMAIL_EXISTS"},
		{"bad picture", NewUserInput{Username: "bob", Email: "bob@example.com", Password: "x", AccountPic: "%%%"}, "INVALID_IMAGE"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Register(ctx, tt.input)
			requireAPIError(t, err, http.StatusBadRequest, tt.code)
		})
	}

	var count int64
	db.Model(&models.User{}).Count(&count)
	assert.Equal(t, int64(1), count, "failed registrations must not create users")
}

func TestLogin(t *testing.T) {
	svc, _ := newTestAuthService(t)
	ctx := context.Background()

	registered, err := svc.Register(ctx, NewUserInput{Username: "alice", Email: "alice@example.com", Password: "secret"})
	require.NoError(t, err)

	t.Run("by email reuses the live token", func(t *testing.T) {
		result, err := svc.Login(ctx, "alice@example.com", "secret")
		require.NoError(t, err)
		assert.Equal(t, registered.Token, result.Token)
		assert.Equal(t, registered.User.ID, result.User.ID)
	})

	t.Run("by username", func(t *testing.T) {
		result, err := svc.Login(ctx, "alice", "secret")
		require.NoError(t, err)
		assert.Equal(t, registered.User.ID, result.User.ID)
	})

	t.Run("wrong password", func(t *testing.T) {
		_, err := svc.Login(ctx, "alice@example.com", "nope")
		requireAPIError(t, err, http.StatusUnauthorized, "INVALID_CREDENTIALS")
	})

	t.Run("unknown user looks the same as wrong password", func(t *testing.T) {
		_, err := svc.Login(ctx, "nobody@example.com", "secret")
		requireAPIError(t, err, http.StatusUnauthorized, "INVALID_CREDENTIALS")
	})

	t.Run("missing fields", func(t *testing.T) {
		_, err := svc.Login(ctx, "", "secret")
		requireAPIError(t, err, http.StatusUnauthorized, "MISSING_CREDENTIALS")
	})
}

func TestLogoutThenValidate(t *testing.T) {
	svc, _ := newTestAuthService(t)
	ctx := context.Background()

	result, err := svc.Register(ctx, NewUserInput{Username: "alice", Email: "alice@example.com", Password: "secret"})
	require.NoError(t, err)

	require.NoError(t, svc.Logout(ctx, result.Token))

	_, err = svc.ValidateToken(ctx, result.Token)
	requireAPIError(t, err, http.StatusUnauthorized, "INVALID_TOKEN")

	// Idempotent
	assert.NoError(t, svc.Logout(ctx, result.Token))

	relogin, err := svc.Login(ctx, "alice@example.com", "secret")
	require.NoError(t, err)
	assert.NotEqual(t, result.Token, relogin.Token)
}

func TestValidateToken_Errors(t *testing.T) {
	svc, db := newTestAuthService(t)
	ctx := context.Background()

	_, err := svc.ValidateToken(ctx, "")
	requireAPIError(t, err, http.StatusUnauthorized, "MISSING_TOKEN")

	_, err = svc.ValidateToken(ctx, "garbage")
	requireAPIError(t, err, http.StatusUnauthorized, "INVALID_TOKEN")

	// Token whose user is gone
	user := createTestUser(t, db, "ghost")
	token, err := svc.Tokens().Issue(ctx, user.ID)
	require.NoError(t, err)
	require.NoError(t, db.Delete(&user).Error)

	_, err = svc.ValidateToken(ctx, token)
	requireAPIError(t, err, http.StatusUnauthorized, "INVALID_TOKEN")
}

func TestCheckUnique_ExceptSelf(t *testing.T) {
	svc, db := newTestAuthService(t)
	ctx := context.Background()

	alice := createTestUser(t, db, "alice")
	createTestUser(t, db, "bob")

	assert.NoError(t, svc.CheckUnique(ctx, alice.Email, alice.Username, alice.ID))
	requireAPIError(t, svc.CheckUnique(ctx, "bob@example.com", "", alice.ID), http.StatusBadRequest, "EMAIL_EXISTS")
	requireAPIError(t, svc.CheckUnique(ctx, "", "bob", alice.ID), http.StatusBadRequest, "USERNAME_EXISTS")
}
