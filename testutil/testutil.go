// Package testutil holds helpers shared by the package tests and the HTTP suites.
package testutil

import (
	"fmt"
	"os"
	"strings"
	"testing"

	"github.com/kendall-kelly/furniture-store-api/config"
	"github.com/kendall-kelly/furniture-store-api/models"
	"github.com/kendall-kelly/furniture-store-api/services"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// RequireTestEnvironment fails the test unless GO_ENV=test.
// Suites that load configuration from the environment call it so they never run against a real database.
func RequireTestEnvironment(t *testing.T) {
	t.Helper()

	env := os.Getenv("GO_ENV")
	if env != "test" {
		t.Fatalf("SAFETY CHECK FAILED: Tests must run with GO_ENV=test to prevent data loss. Current GO_ENV=%q. Set GO_ENV=test before running tests.", env)
	}
}

// MustSetTestEnvironment sets GO_ENV to test and fails if it cannot be set
func MustSetTestEnvironment(t *testing.T) {
	t.Helper()

	if err := os.Setenv("GO_ENV", "test"); err != nil {
		t.Fatalf("Failed to set GO_ENV=test: %v", err)
	}
	if os.Getenv("GO_ENV") != "test" {
		t.Fatal("Failed to verify GO_ENV=test")
	}
}

// PrintEnvironmentInfo prints the current test environment configuration
func PrintEnvironmentInfo() {
	fmt.Printf("Test Environment Info:\n")
	fmt.Printf("  GO_ENV: %s\n", os.Getenv("GO_ENV"))
	fmt.Printf("  DATABASE_URL: %s\n", MaskDatabaseURL(os.Getenv("DATABASE_URL")))
	fmt.Printf("  TOKEN_STORE: %s\n", os.Getenv("TOKEN_STORE"))
}

// MaskDatabaseURL hides the credentials of a database URL
func MaskDatabaseURL(url string) string {
	if url == "" {
		return "(not set)"
	}
	scheme, rest, ok := strings.Cut(url, "://")
	if !ok {
		return url
	}
	if _, host, hasCreds := strings.Cut(rest, "@"); hasCreds {
		return scheme + "://****@" + host
	}
	return url
}

// NewTestDB opens a migrated in-memory SQLite database.
// A single connection keeps every query on the same in-memory database.
func NewTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err, "Failed to connect to test database")

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, models.AutoMigrate(db), "Failed to migrate test database")
	return db
}

// Env is the process-wide state installed by Setup
type Env struct {
	DB      *gorm.DB
	Auth    *services.AuthService
	Storage *services.MockFileStorage
}

// Setup installs a fresh database, a database token store and mock model storage
// as the process-wide instances used by the handlers
func Setup(t *testing.T) *Env {
	t.Helper()

	db := NewTestDB(t)
	config.SetDB(db)
	config.SetConfig(&config.Config{
		DatabaseURL: ":memory:",
		GoEnv:       "test",
		TokenStore:  config.TokenStoreDatabase,
		BcryptCost:  bcrypt.MinCost,
		UploadDir:   t.TempDir(),
	})

	auth := services.NewAuthService(db, services.NewDBTokenStore(db), bcrypt.MinCost)
	services.SetAuthService(auth)

	storage := services.NewMockFileStorage()
	services.SetModelFileService(services.NewModelFileService(storage))

	return &Env{DB: db, Auth: auth, Storage: storage}
}
