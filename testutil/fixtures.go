package testutil

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/kendall-kelly/furniture-store-api/models"
	"github.com/kendall-kelly/furniture-store-api/services"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// DefaultPassword is the password given to users created by CreateUser
const DefaultPassword = "password123"

// CreateUser registers a user and returns it with a live token
func (e *Env) CreateUser(t *testing.T, username string) (*models.User, string) {
	t.Helper()

	result, err := e.Auth.Register(context.Background(), services.NewUserInput{
		Username: username,
		Email:    username + "@example.com",
		Password: DefaultPassword,
	})
	require.NoError(t, err)
	return result.User, result.Token
}

// CreateAdmin creates an administrator and returns it with a live token
func (e *Env) CreateAdmin(t *testing.T, username string) (*models.User, string) {
	t.Helper()

	user, err := e.Auth.CreateAdmin(context.Background(), services.NewUserInput{
		Username: username,
		Email:    username + "@example.com",
		Password: DefaultPassword,
	})
	require.NoError(t, err)

	token, err := e.Auth.Tokens().Issue(context.Background(), user.ID)
	require.NoError(t, err)
	return user, token
}

// CreateCategory inserts a furniture category
func CreateCategory(t *testing.T, db *gorm.DB, name string) models.FurnitureCategory {
	t.Helper()

	category := models.FurnitureCategory{Name: name}
	require.NoError(t, db.Create(&category).Error)
	return category
}

// CreateFurniture inserts a furniture item priced at price (e.g. "19.99")
func CreateFurniture(t *testing.T, db *gorm.DB, title, price string, categoryID *uint) models.Furniture {
	t.Helper()

	furniture := models.Furniture{
		Title:      title,
		Price:      decimal.RequireFromString(price),
		CategoryID: categoryID,
	}
	require.NoError(t, db.Create(&furniture).Error)
	return furniture
}

// Request performs a request against handler with an optional JSON body and bearer token
func Request(handler http.Handler, method, path string, body interface{}, token string) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != nil {
		payload, _ := json.Marshal(body)
		reader = bytes.NewBuffer(payload)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	return w
}

// UploadRequest performs a multipart upload of content under field
func UploadRequest(handler http.Handler, method, path, field, filename string, content []byte, token string) *httptest.ResponseRecorder {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, _ := writer.CreateFormFile(field, filename)
	part.Write(content)
	writer.Close()

	req := httptest.NewRequest(method, path, body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	return w
}

// Decode parses a JSON envelope response
func Decode(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()

	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response), "body: %s", w.Body.String())
	return response
}

// Data returns the "data" object of a success envelope
func Data(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()

	data, ok := Decode(t, w)["data"].(map[string]interface{})
	require.True(t, ok, "response has no data object: %s", w.Body.String())
	return data
}

// DataList returns the "data" array of a success envelope
func DataList(t *testing.T, w *httptest.ResponseRecorder) []interface{} {
	t.Helper()

	data, ok := Decode(t, w)["data"].([]interface{})
	require.True(t, ok, "response has no data array: %s", w.Body.String())
	return data
}

// ErrorCode returns error.code of a failure envelope
func ErrorCode(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()

	response := Decode(t, w)
	require.Equal(t, false, response["success"])
	errObj, ok := response["error"].(map[string]interface{})
	require.True(t, ok, "response has no error object: %s", w.Body.String())
	return errObj["code"].(string)
}
