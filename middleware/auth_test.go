package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/kendall-kelly/furniture-store-api/models"
	"github.com/kendall-kelly/furniture-store-api/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeValidator struct {
	tokens map[string]*models.User
	err    error
}

func (f *fakeValidator) ValidateToken(ctx context.Context, token string) (*models.User, error) {
	if f.err != nil {
		return nil, f.err
	}
	if user, ok := f.tokens[token]; ok {
		return user, nil
	}
	return nil, utils.NewAuthError("INVALID_TOKEN", "Invalid token")
}

func newFakeValidator() *fakeValidator {
	return &fakeValidator{tokens: map[string]*models.User{
		"good-token":  {ID: 7, Username: "alice", Email: "alice@example.com"},
		"admin-token": {ID: 1, Username: "root", Email: "root@example.com", IsAdmin: true},
	}}
}

func setupAuthRouter(auth gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/test", auth, func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"user_id": OptionalUserID(c),
			"token":   GetAuthToken(c),
		})
	})
	return router
}

func doRequest(router *gin.Engine, header string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func errorCode(t *testing.T, w *httptest.ResponseRecorder) string {
	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, false, response["success"])
	return response["error"].(map[string]interface{})["code"].(string)
}

func TestTokenExtractor(t *testing.T) {
	tests := []struct {
		name    string
		header  string
		want    string
		wantErr bool
	}{
		{"no header", "", "", false},
		{"bearer", "Bearer abc123", "abc123", false},
		{"lowercase bearer", "bearer abc123", "abc123", false},
		{"token scheme", "Token abc123", "abc123", false},
		{"unknown scheme", "Basic dXNlcjpwYXNz", "", true},
		{"no scheme", "abc123", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}

			got, err := TokenExtractor(req)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRequireAuth(t *testing.T) {
	router := setupAuthRouter(RequireAuth(newFakeValidator()))

	tests := []struct {
		name       string
		header     string
		wantStatus int
		wantCode   string
	}{
		{"valid bearer token", "Bearer good-token", http.StatusOK, ""},
		{"valid token scheme", "Token good-token", http.StatusOK, ""},
		{"missing header", "", http.StatusUnauthorized, "MISSING_TOKEN"},
		{"unknown token", "Bearer nope", http.StatusUnauthorized, "INVALID_TOKEN"},
		{"malformed header", "Basic xyz", http.StatusUnauthorized, "INVALID_TOKEN"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doRequest(router, tt.header)
			assert.Equal(t, tt.wantStatus, w.Code)

			if tt.wantCode != "" {
				assert.Equal(t, tt.wantCode, errorCode(t, w))
				return
			}

			var response map[string]interface{}
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
			assert.Equal(t, float64(7), response["user_id"])
			assert.Equal(t, "good-token", response["token"])
		})
	}
}

func TestRequireAuth_AbortsChain(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	reached := false
	router.GET("/test", RequireAuth(newFakeValidator()), func(c *gin.Context) {
		reached = true
		c.Status(http.StatusOK)
	})

	w := doRequest(router, "Bearer nope")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.False(t, reached)
}

func TestRequireAuth_ValidatorFailureIsServerError(t *testing.T) {
	validator := &fakeValidator{err: utils.NewServerError("DATABASE_ERROR", "Failed to load user", errors.New("db down"))}
	router := setupAuthRouter(RequireAuth(validator))

	w := doRequest(router, "Bearer good-token")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "DATABASE_ERROR", errorCode(t, w))
}

func TestOptionalAuth(t *testing.T) {
	router := setupAuthRouter(OptionalAuth(newFakeValidator()))

	t.Run("anonymous", func(t *testing.T) {
		w := doRequest(router, "")
		assert.Equal(t, http.StatusOK, w.Code)

		var response map[string]interface{}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		assert.Equal(t, float64(0), response["user_id"])
	})

	t.Run("authenticated", func(t *testing.T) {
		w := doRequest(router, "Bearer good-token")
		assert.Equal(t, http.StatusOK, w.Code)

		var response map[string]interface{}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		assert.Equal(t, float64(7), response["user_id"])
	})

	t.Run("invalid token is still rejected", func(t *testing.T) {
		w := doRequest(router, "Bearer nope")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, "INVALID_TOKEN", errorCode(t, w))
	})
}

func TestGetUserID(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name      string
		setupFunc func(*gin.Context)
		wantID    uint
		wantErr   bool
	}{
		{
			name: "successfully extracts user ID",
			setupFunc: func(c *gin.Context) {
				c.Set(ContextUserIDKey, uint(42))
			},
			wantID: 42,
		},
		{
			name:      "user ID not found in context",
			setupFunc: func(c *gin.Context) {},
			wantErr:   true,
		},
		{
			name: "user ID is the wrong type",
			setupFunc: func(c *gin.Context) {
				c.Set(ContextUserIDKey, "42")
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			tt.setupFunc(c)

			gotID, err := GetUserID(c)

			if tt.wantErr {
				assert.Error(t, err)
				assert.Zero(t, gotID)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.wantID, gotID)
			}
		})
	}
}
