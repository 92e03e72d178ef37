package services

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/kendall-kelly/furniture-store-api/models"
	"github.com/kendall-kelly/furniture-store-api/utils"
	"gorm.io/gorm"
)

// UpdateUserInput holds the user fields to change; nil fields are left as they are
type UpdateUserInput struct {
	Username   *string
	Email      *string
	Password   *string
	Phone      *string
	Address    *string
	AccountPic *string
	IsAdmin    *bool
}

// GetUser loads a user by id
func (s *AuthService) GetUser(ctx context.Context, userID uint) (*models.User, error) {
	var user models.User
	err := s.db.WithContext(ctx).First(&user, userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, utils.NewNotFoundError("USER_NOT_FOUND", "User not found")
	}
	if err != nil {
		return nil, utils.NewServerError("DATABASE_ERROR", "Failed to fetch user", err)
	}
	return &user, nil
}

// UpdateUser applies a partial update, re-checking username/email uniqueness and re-hashing the password
func (s *AuthService) UpdateUser(ctx context.Context, userID uint, in UpdateUserInput) (*models.User, error) {
	user, err := s.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	var email, username string
	if in.Email != nil {
		email = strings.TrimSpace(*in.Email)
		if email == "" {
			return nil, utils.NewValidationError("VALIDATION_ERROR", "Email cannot be empty")
		}
	}
	if in.Username != nil {
		username = strings.TrimSpace(*in.Username)
		if username == "" {
			return nil, utils.NewValidationError("VALIDATION_ERROR", "Username cannot be empty")
		}
	}
	if err := s.CheckUnique(ctx, email, username, user.ID); err != nil {
		return nil, err
	}
	if email != "" {
		user.Email = email
	}
	if username != "" {
		user.Username = username
	}

	if in.Password != nil {
		if *in.Password == "" {
			return nil, utils.NewValidationError("VALIDATION_ERROR", "Password cannot be empty")
		}
		hash, err := s.HashPassword(*in.Password)
		if err != nil {
			return nil, err
		}
		user.PasswordHash = hash
	}
	if in.AccountPic != nil {
		if err := utils.ValidateBase64Image("account_pic", *in.AccountPic); err != nil {
			return nil, err
		}
		user.AccountPic = *in.AccountPic
	}
	if in.Phone != nil {
		if len(*in.Phone) > 20 {
			return nil, utils.NewValidationError("VALIDATION_ERROR", "Phone must be at most 20 characters")
		}
		user.Phone = *in.Phone
	}
	if in.Address != nil {
		user.Address = *in.Address
	}
	if in.IsAdmin != nil {
		user.IsAdmin = *in.IsAdmin
	}

	db := s.db.WithContext(ctx)
	if err := db.Save(user).Error; err != nil {
		if utils.IsDuplicateKeyError(err) {
			if uniqueErr := s.CheckUnique(ctx, email, username, user.ID); uniqueErr != nil {
				return nil, uniqueErr
			}
			return nil, utils.NewValidationError("DUPLICATE_USER", "Username or email already exists")
		}
		return nil, utils.NewServerError("DATABASE_ERROR", "Failed to update user", err)
	}

	return user, nil
}

// DeleteUser removes a user together with their token, likes, reviews and orders
func (s *AuthService) DeleteUser(ctx context.Context, userID uint) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var user models.User
		if err := tx.First(&user, userID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return utils.NewNotFoundError("USER_NOT_FOUND", "User not found")
			}
			return err
		}

		orderIDs := tx.Model(&models.Order{}).Select("id").Where("user_id = ?", userID)
		if err := tx.Where("order_id IN (?)", orderIDs).Delete(&models.OrderItem{}).Error; err != nil {
			return err
		}
		for _, model := range []interface{}{&models.Order{}, &models.Review{}, &models.FurnitureLike{}, &models.AuthToken{}} {
			if err := tx.Where("user_id = ?", userID).Delete(model).Error; err != nil {
				return err
			}
		}
		return tx.Delete(&user).Error
	})
	if err != nil {
		var apiErr *utils.APIError
		if errors.As(err, &apiErr) {
			return apiErr
		}
		return utils.NewServerError("DATABASE_ERROR", "Failed to delete user", err)
	}

	slog.Info("User deleted", "user_id", userID)
	return nil
}
