package main

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/kendall-kelly/furniture-store-api/config"
	"github.com/kendall-kelly/furniture-store-api/services"
	"github.com/kendall-kelly/furniture-store-api/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestHealthCheck is a unit test for the healthCheck handler function
func TestHealthCheck(t *testing.T) {
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	healthCheck(c)

	assert.Equal(t, http.StatusOK, w.Code, "Expected status code 200")

	var response map[string]interface{}
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(t, err, "Response should be valid JSON")

	assert.Equal(t, true, response["success"], "Expected success to be true")
	assert.Equal(t, "Furniture Store API is running", response["message"], "Expected correct message")
}

// TestHealthCheckResponseFormat tests the exact JSON format
func TestHealthCheckResponseFormat(t *testing.T) {
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	healthCheck(c)

	assert.Equal(t, "application/json; charset=utf-8", w.Header().Get("Content-Type"))

	var response map[string]interface{}
	json.Unmarshal(w.Body.Bytes(), &response)
	assert.Len(t, response, 2, "Response should have exactly 2 fields")
	assert.Contains(t, response, "success")
	assert.Contains(t, response, "message")
}

func TestDatabaseStatus(t *testing.T) {
	env := testutil.Setup(t)
	router := setupRouter(config.GetConfig(), env.Auth)

	w := testutil.Request(router, "GET", "/api/v1/database/status", nil, "")
	require.Equal(t, http.StatusOK, w.Code)

	body := testutil.Decode(t, w)
	assert.Equal(t, "Database connected", body["message"])
	assert.Contains(t, body["tables"], "furniture")
	assert.Contains(t, body["tables"], "orders")
}

func TestNewTokenStore_Database(t *testing.T) {
	db := testutil.NewTestDB(t)
	cfg := &config.Config{TokenStore: config.TokenStoreDatabase}

	store, cleanup, err := newTokenStore(context.Background(), cfg, db)
	require.NoError(t, err)
	defer cleanup()

	assert.IsType(t, &services.DBTokenStore{}, store)
}

func TestNewTokenStore_Redis(t *testing.T) {
	mr := miniredis.RunT(t)
	db := testutil.NewTestDB(t)
	cfg := &config.Config{
		TokenStore: config.TokenStoreRedis,
		RedisURL:   "redis://" + mr.Addr(),
	}

	store, cleanup, err := newTokenStore(context.Background(), cfg, db)
	require.NoError(t, err)
	defer cleanup()
	assert.IsType(t, &services.RedisTokenStore{}, store)

	token, err := store.Issue(context.Background(), 7)
	require.NoError(t, err)
	userID, err := store.Lookup(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, uint(7), userID)
}

func TestNewTokenStore_RedisUnreachable(t *testing.T) {
	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()

	cfg := &config.Config{
		TokenStore: config.TokenStoreRedis,
		RedisURL:   "redis://" + addr,
	}
	_, _, err := newTokenStore(context.Background(), cfg, testutil.NewTestDB(t))
	assert.Error(t, err)
}

func TestNewFileStorage_Local(t *testing.T) {
	dir := t.TempDir()
	storage, err := newFileStorage(context.Background(), &config.Config{UploadDir: dir})
	require.NoError(t, err)

	local, ok := storage.(*services.LocalFileStorage)
	require.True(t, ok)
	assert.Equal(t, dir, local.Dir())
}

func TestSetupRouter_ReleaseModeInProduction(t *testing.T) {
	defer gin.SetMode(gin.TestMode)

	env := testutil.Setup(t)
	setupRouter(&config.Config{GoEnv: "production", CORSAllowedOrigins: []string{"*"}}, env.Auth)
	assert.Equal(t, gin.ReleaseMode, gin.Mode())
}
