package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/kendall-kelly/furniture-store-api/config"
	"github.com/kendall-kelly/furniture-store-api/testutil"
	"github.com/stretchr/testify/assert"
)

func newTestServer(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	env := testutil.Setup(t)
	return setupRouter(config.GetConfig(), env.Auth)
}

// TestServerStartup verifies the full router can be built
func TestServerStartup(t *testing.T) {
	router := newTestServer(t)
	assert.NotNil(t, router, "Router should be initialized")
}

// TestAPIHealthEndpointAcceptance simulates a real HTTP request against the full router
func TestAPIHealthEndpointAcceptance(t *testing.T) {
	router := newTestServer(t)

	req, err := http.NewRequest("GET", "/api/v1/health", nil)
	assert.NoError(t, err, "Should be able to create request")

	recorder := &testResponseWriter{header: make(http.Header)}
	router.ServeHTTP(recorder, req)

	assert.Equal(t, http.StatusOK, recorder.statusCode, "Health endpoint should return 200 OK")

	var response struct {
		Success bool   `json:"success"`
		Message string `json:"message"`
	}
	err = json.Unmarshal(recorder.body, &response)
	assert.NoError(t, err, "Response should be valid JSON")

	assert.True(t, response.Success, "Success field should be true")
	assert.Equal(t, "Furniture Store API is running", response.Message)
}

// TestAnonymousCatalogBrowsing checks the catalog is readable without a token
func TestAnonymousCatalogBrowsing(t *testing.T) {
	router := newTestServer(t)
	db := config.GetDB()
	category := testutil.CreateCategory(t, db, "Sofas")
	sofa := testutil.CreateFurniture(t, db, "Corner sofa", "899.00", &category.ID)

	w := testutil.Request(router, "GET", "/api/v1/furniture/", nil, "")
	assert.Equal(t, http.StatusOK, w.Code)
	list := testutil.DataList(t, w)
	if assert.Len(t, list, 1) {
		item := list[0].(map[string]interface{})
		assert.Equal(t, "899.00", item["price"])
		assert.Equal(t, false, item["is_liked"])
	}

	w = testutil.Request(router, "GET", fmt.Sprintf("/api/v1/furniture/%d/", sofa.ID), nil, "")
	assert.Equal(t, http.StatusOK, w.Code)

	w = testutil.Request(router, "GET", "/api/v1/categories/", nil, "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, testutil.DataList(t, w), 1)

	w = testutil.Request(router, "GET", "/api/v1/furniture/", nil, "not-a-real-token")
	assert.Equal(t, http.StatusUnauthorized, w.Code, "a bad token is rejected even on public reads")
}

// TestCORSPreflight checks browsers may call the API cross-origin
func TestCORSPreflight(t *testing.T) {
	router := newTestServer(t)

	req, _ := http.NewRequest("OPTIONS", "/api/v1/orders/", nil)
	req.Header.Set("Origin", "https://shop.example.com")
	req.Header.Set("Access-Control-Request-Method", "POST")
	req.Header.Set("Access-Control-Request-Headers", "Authorization")
	recorder := &testResponseWriter{header: make(http.Header)}
	router.ServeHTTP(recorder, req)

	assert.Equal(t, http.StatusNoContent, recorder.statusCode)
	assert.Equal(t, "*", recorder.header.Get("Access-Control-Allow-Origin"))
}

// TestProtectedEndpointsRequireToken checks every authenticated route group rejects anonymous calls
func TestProtectedEndpointsRequireToken(t *testing.T) {
	router := newTestServer(t)

	paths := []struct {
		method string
		path   string
	}{
		{"POST", "/api/v1/logout/"},
		{"GET", "/api/v1/user/"},
		{"GET", "/api/v1/validate-token/"},
		{"GET", "/api/v1/users/me/"},
		{"POST", "/api/v1/furniture/"},
		{"POST", "/api/v1/furniture/1/toggle_like/"},
		{"GET", "/api/v1/orders/"},
		{"POST", "/api/v1/orders/"},
		{"GET", "/api/v1/reviews/"},
	}

	for _, p := range paths {
		t.Run(p.method+" "+p.path, func(t *testing.T) {
			w := testutil.Request(router, p.method, p.path, nil, "")
			assert.Equal(t, http.StatusUnauthorized, w.Code)
			assert.Equal(t, "MISSING_TOKEN", testutil.ErrorCode(t, w))
		})
	}
}

// testResponseWriter is a helper for acceptance testing
type testResponseWriter struct {
	header     http.Header
	body       []byte
	statusCode int
}

func (w *testResponseWriter) Header() http.Header {
	return w.header
}

func (w *testResponseWriter) Write(b []byte) (int, error) {
	if w.statusCode == 0 {
		w.statusCode = http.StatusOK
	}
	w.body = append(w.body, b...)
	return len(b), nil
}

func (w *testResponseWriter) WriteHeader(statusCode int) {
	w.statusCode = statusCode
}
