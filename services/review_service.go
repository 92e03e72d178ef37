package services

import (
	"context"
	"errors"

	"github.com/kendall-kelly/furniture-store-api/models"
	"github.com/kendall-kelly/furniture-store-api/utils"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CreateReviewInput is a new review by the caller
type CreateReviewInput struct {
	FurnitureID uint
	Rating      int
	Comment     string
}

// UpdateReviewInput holds the editable review fields; nil fields are unchanged
type UpdateReviewInput struct {
	Rating  *int
	Comment *string
}

// ReviewService manages reviews, each visible only to its author
type ReviewService struct {
	db *gorm.DB
}

// NewReviewService creates a review service on db
func NewReviewService(db *gorm.DB) *ReviewService {
	return &ReviewService{db: db}
}

func validReviewRating(rating int) error {
	if rating < models.MinReviewRating || rating > models.MaxReviewRating {
		return utils.NewValidationError("INVALID_RATING", "Rating must be between 1 and 5")
	}
	return nil
}

// ListReviews returns the user's reviews, newest first
func (s *ReviewService) ListReviews(ctx context.Context, userID uint) ([]models.Review, error) {
	var reviews []models.Review
	err := s.db.WithContext(ctx).Preload("User").
		Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").
		Find(&reviews).Error
	if err != nil {
		return nil, utils.NewServerError("DATABASE_ERROR", "Failed to fetch reviews", err)
	}
	return reviews, nil
}

// GetReview returns one of the user's reviews
func (s *ReviewService) GetReview(ctx context.Context, userID, reviewID uint) (*models.Review, error) {
	var review models.Review
	err := s.db.WithContext(ctx).Preload("User").
		Where("id = ? AND user_id = ?", reviewID, userID).
		First(&review).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, utils.NewNotFoundError("REVIEW_NOT_FOUND", "Review not found")
	}
	if err != nil {
		return nil, utils.NewServerError("DATABASE_ERROR", "Failed to fetch review", err)
	}
	return &review, nil
}

// CreateReview binds a review to userID; a second review of the same furniture is a conflict
func (s *ReviewService) CreateReview(ctx context.Context, userID uint, in CreateReviewInput) (*models.Review, error) {
	if err := validReviewRating(in.Rating); err != nil {
		return nil, err
	}

	db := s.db.WithContext(ctx)

	var count int64
	if err := db.Model(&models.Furniture{}).Where("id = ?", in.FurnitureID).Count(&count).Error; err != nil {
		return nil, utils.NewServerError("DATABASE_ERROR", "Failed to load furniture", err)
	}
	if count == 0 {
		return nil, utils.NewNotFoundError("FURNITURE_NOT_FOUND", "Furniture not found")
	}

	exists := utils.NewConflictError("REVIEW_EXISTS", "You have already reviewed this furniture")
	if err := db.Model(&models.Review{}).Where("user_id = ? AND furniture_id = ?", userID, in.FurnitureID).Count(&count).Error; err != nil {
		return nil, utils.NewServerError("DATABASE_ERROR", "Failed to check reviews", err)
	}
	if count > 0 {
		return nil, exists
	}

	review := &models.Review{
		UserID:      userID,
		FurnitureID: in.FurnitureID,
		Rating:      in.Rating,
		Comment:     in.Comment,
	}
	if err := db.Omit(clause.Associations).Create(review).Error; err != nil {
		if utils.IsDuplicateKeyError(err) {
			return nil, exists
		}
		return nil, utils.NewServerError("DATABASE_ERROR", "Failed to create review", err)
	}

	return s.GetReview(ctx, userID, review.ID)
}

// UpdateReview edits the rating and/or comment of one of the user's reviews
func (s *ReviewService) UpdateReview(ctx context.Context, userID, reviewID uint, in UpdateReviewInput) (*models.Review, error) {
	review, err := s.GetReview(ctx, userID, reviewID)
	if err != nil {
		return nil, err
	}

	if in.Rating != nil {
		if err := validReviewRating(*in.Rating); err != nil {
			return nil, err
		}
		review.Rating = *in.Rating
	}
	if in.Comment != nil {
		review.Comment = *in.Comment
	}

	if err := s.db.WithContext(ctx).Omit(clause.Associations).Save(review).Error; err != nil {
		return nil, utils.NewServerError("DATABASE_ERROR", "Failed to update review", err)
	}
	return review, nil
}

// DeleteReview removes one of the user's reviews
func (s *ReviewService) DeleteReview(ctx context.Context, userID, reviewID uint) error {
	res := s.db.WithContext(ctx).Where("id = ? AND user_id = ?", reviewID, userID).Delete(&models.Review{})
	if res.Error != nil {
		return utils.NewServerError("DATABASE_ERROR", "Failed to delete review", res.Error)
	}
	if res.RowsAffected == 0 {
		return utils.NewNotFoundError("REVIEW_NOT_FOUND", "Review not found")
	}
	return nil
}
