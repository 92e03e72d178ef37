package services

import (
	"bytes"
	"mime/multipart"
	"net/http/httptest"
	"testing"

	"github.com/kendall-kelly/furniture-store-api/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupServiceTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, models.AutoMigrate(db))
	return db
}

func newTestAuthService(t *testing.T) (*AuthService, *gorm.DB) {
	db := setupServiceTestDB(t)
	return NewAuthService(db, NewDBTokenStore(db), bcrypt.MinCost), db
}

func createTestUser(t *testing.T, db *gorm.DB, username string) models.User {
	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	require.NoError(t, err)
	user := models.User{Username: username, Email: username + "@example.com", PasswordHash: string(hash)}
	require.NoError(t, db.Create(&user).Error)
	return user
}

func createTestFurniture(t *testing.T, db *gorm.DB, title, price string) models.Furniture {
	f := models.Furniture{Title: title, Price: decimal.RequireFromString(price)}
	require.NoError(t, db.Create(&f).Error)
	return f
}

// multipartFile builds a FileHeader the way gin receives one from a form upload
func multipartFile(t *testing.T, filename string, content []byte) *multipart.FileHeader {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile("model_3d", filename)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req := httptest.NewRequest("POST", "/upload", body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	require.NoError(t, req.ParseMultipartForm(32<<20))

	files := req.MultipartForm.File["model_3d"]
	require.Len(t, files, 1)
	return files[0]
}
