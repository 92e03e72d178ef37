package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/kendall-kelly/furniture-store-api/config"
	"github.com/kendall-kelly/furniture-store-api/models"
	"github.com/kendall-kelly/furniture-store-api/services"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

const shutdownTimeout = 10 * time.Second

var rootCmd = &cobra.Command{
	Use:   "furniture-api",
	Short: "Furniture Store API - catalog, orders and reviews over REST",
	Long: `Furniture Store API serves the furniture catalog, user accounts, likes,
orders and reviews under /api/v1 with token authentication.

Running the binary without a subcommand starts the HTTP server.`,
	SilenceUsage: true,
	RunE:         runServe,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Migrate the schema and start the HTTP server",
	RunE:  runServe,
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the database schema and exit",
	RunE:  runMigrate,
}

var (
	adminUsername string
	adminEmail    string
	adminPassword string
)

var createAdminCmd = &cobra.Command{
	Use:   "create-admin",
	Short: "Create an administrator account",
	RunE:  runCreateAdmin,
}

func init() {
	rootCmd.AddCommand(serveCmd, migrateCmd, createAdminCmd)

	createAdminCmd.Flags().StringVar(&adminUsername, "username", "", "Administrator username")
	createAdminCmd.Flags().StringVar(&adminEmail, "email", "", "Administrator email")
	createAdminCmd.Flags().StringVar(&adminPassword, "password", "", "Administrator password")
	createAdminCmd.MarkFlagRequired("username")
	createAdminCmd.MarkFlagRequired("email")
	createAdminCmd.MarkFlagRequired("password")
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// bootstrap loads configuration, configures logging and opens the migrated database
func bootstrap() (*config.Config, *gorm.DB, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}
	setupLogger(cfg)
	config.SetConfig(cfg)

	if err := config.ConnectDatabase(cfg); err != nil {
		return nil, nil, err
	}
	db := config.GetDB()

	if err := models.AutoMigrate(db); err != nil {
		return nil, nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	slog.Info("Database migration completed successfully")

	return cfg, db, nil
}

func runMigrate(cmd *cobra.Command, args []string) error {
	_, _, err := bootstrap()
	return err
}

func runCreateAdmin(cmd *cobra.Command, args []string) error {
	cfg, db, err := bootstrap()
	if err != nil {
		return err
	}

	auth := services.NewAuthService(db, services.NewDBTokenStore(db), cfg.BcryptCost)
	user, err := auth.CreateAdmin(cmd.Context(), services.NewUserInput{
		Username: adminUsername,
		Email:    adminEmail,
		Password: adminPassword,
	})
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Created admin %q (id %d)\n", user.Username, user.ID)
	return nil
}

// newTokenStore picks the token backend named by TOKEN_STORE.
// The returned cleanup closes any connection it opened.
func newTokenStore(ctx context.Context, cfg *config.Config, db *gorm.DB) (services.TokenStore, func(), error) {
	if cfg.TokenStore != config.TokenStoreRedis {
		return services.NewDBTokenStore(db), func() {}, nil
	}

	client, err := services.NewRedisClient(ctx, cfg.RedisURL)
	if err != nil {
		return nil, nil, err
	}
	slog.Info("Using redis token store")
	return services.NewRedisTokenStore(client), func() { closeRedis(client) }, nil
}

func closeRedis(client *redis.Client) {
	if err := client.Close(); err != nil {
		slog.Warn("Failed to close redis client", "error", err)
	}
}

// newFileStorage stores model files in S3 when a bucket is configured, on local disk otherwise
func newFileStorage(ctx context.Context, cfg *config.Config) (services.FileStorage, error) {
	if cfg.UsesS3() {
		slog.Info("Using S3 model storage", "bucket", cfg.AWSS3Bucket, "region", cfg.AWSRegion)
		return services.NewS3Service(ctx, cfg)
	}
	slog.Info("Using local model storage", "dir", cfg.UploadDir)
	return services.NewLocalFileStorage(cfg.UploadDir), nil
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, db, err := bootstrap()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	tokens, closeTokens, err := newTokenStore(ctx, cfg, db)
	if err != nil {
		return err
	}
	defer closeTokens()
	auth := services.InitAuthService(db, tokens, cfg.BcryptCost)

	storage, err := newFileStorage(ctx, cfg)
	if err != nil {
		return err
	}
	services.InitModelFileService(storage)

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           setupRouter(cfg, auth),
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		slog.Info("Server is running", "addr", "http://localhost:"+cfg.Port, "env", cfg.GoEnv)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case err := <-serverErr:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	slog.Info("Shutting down server gracefully...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}
	slog.Info("Server stopped")
	return nil
}
