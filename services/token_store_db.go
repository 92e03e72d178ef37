package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/kendall-kelly/furniture-store-api/models"
	"github.com/kendall-kelly/furniture-store-api/utils"
	"gorm.io/gorm"
)

// DBTokenStore keeps tokens in the auth_tokens table
type DBTokenStore struct {
	db *gorm.DB
}

// NewDBTokenStore creates a token store backed by the given database
func NewDBTokenStore(db *gorm.DB) *DBTokenStore {
	return &DBTokenStore{db: db}
}

// Issue returns the existing token for userID or creates one.
// Concurrent issuers race on the unique user_id index; the loser re-reads the winner's token.
func (s *DBTokenStore) Issue(ctx context.Context, userID uint) (string, error) {
	db := s.db.WithContext(ctx)

	var existing models.AuthToken
	err := db.Where("user_id = ?", userID).First(&existing).Error
	if err == nil {
		return existing.Key, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return "", fmt.Errorf("failed to look up token: %w", err)
	}

	key, err := GenerateTokenKey()
	if err != nil {
		return "", err
	}

	token := models.AuthToken{Key: key, UserID: userID}
	if err := db.Create(&token).Error; err != nil {
		if !utils.IsDuplicateKeyError(err) {
			return "", fmt.Errorf("failed to create token: %w", err)
		}
		if err := db.Where("user_id = ?", userID).First(&existing).Error; err != nil {
			return "", fmt.Errorf("failed to look up token: %w", err)
		}
		return existing.Key, nil
	}

	return token.Key, nil
}

// Lookup resolves a token to its user id
func (s *DBTokenStore) Lookup(ctx context.Context, token string) (uint, error) {
	if token == "" {
		return 0, ErrTokenNotFound
	}

	var t models.AuthToken
	err := s.db.WithContext(ctx).Where(map[string]interface{}{"key": token}).First(&t).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, ErrTokenNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("failed to look up token: %w", err)
	}
	return t.UserID, nil
}

// Revoke deletes the token row if present
func (s *DBTokenStore) Revoke(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	if err := s.db.WithContext(ctx).Where(map[string]interface{}{"key": token}).Delete(&models.AuthToken{}).Error; err != nil {
		return fmt.Errorf("failed to revoke token: %w", err)
	}
	return nil
}
