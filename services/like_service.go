package services

import (
	"context"
	"errors"

	"github.com/kendall-kelly/furniture-store-api/models"
	"github.com/kendall-kelly/furniture-store-api/utils"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// LikeService manages furniture like membership
type LikeService struct {
	db *gorm.DB
}

// NewLikeService creates a like service on db
func NewLikeService(db *gorm.DB) *LikeService {
	return &LikeService{db: db}
}

// ToggleLike flips whether userID likes furnitureID and returns the new state
func (s *LikeService) ToggleLike(ctx context.Context, userID, furnitureID uint) (bool, error) {
	var liked bool
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var furniture models.Furniture
		if err := tx.Select("id").First(&furniture, furnitureID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return utils.NewNotFoundError("FURNITURE_NOT_FOUND", "Furniture not found")
			}
			return utils.NewServerError("DATABASE_ERROR", "Failed to load furniture", err)
		}

		res := tx.Where("furniture_id = ? AND user_id = ?", furnitureID, userID).Delete(&models.FurnitureLike{})
		if res.Error != nil {
			return utils.NewServerError("DATABASE_ERROR", "Failed to update like", res.Error)
		}
		if res.RowsAffected > 0 {
			liked = false
			return nil
		}

		like := models.FurnitureLike{FurnitureID: furnitureID, UserID: userID}
		if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&like).Error; err != nil {
			return utils.NewServerError("DATABASE_ERROR", "Failed to update like", err)
		}
		liked = true
		return nil
	})
	return liked, err
}

// LikedSet returns which of furnitureIDs are liked by userID
func (s *LikeService) LikedSet(ctx context.Context, userID uint, furnitureIDs []uint) (map[uint]bool, error) {
	liked := make(map[uint]bool)
	if userID == 0 || len(furnitureIDs) == 0 {
		return liked, nil
	}

	var ids []uint
	err := s.db.WithContext(ctx).Model(&models.FurnitureLike{}).
		Where("user_id = ? AND furniture_id IN ?", userID, furnitureIDs).
		Pluck("furniture_id", &ids).Error
	if err != nil {
		return nil, utils.NewServerError("DATABASE_ERROR", "Failed to load likes", err)
	}
	for _, id := range ids {
		liked[id] = true
	}
	return liked, nil
}

// LikeCounts returns the number of likes for each of furnitureIDs
func (s *LikeService) LikeCounts(ctx context.Context, furnitureIDs []uint) (map[uint]int64, error) {
	counts := make(map[uint]int64)
	if len(furnitureIDs) == 0 {
		return counts, nil
	}

	var rows []struct {
		FurnitureID uint
		Count       int64
	}
	err := s.db.WithContext(ctx).Model(&models.FurnitureLike{}).
		Select("furniture_id, COUNT(*) AS count").
		Where("furniture_id IN ?", furnitureIDs).
		Group("furniture_id").
		Scan(&rows).Error
	if err != nil {
		return nil, utils.NewServerError("DATABASE_ERROR", "Failed to count likes", err)
	}
	for _, row := range rows {
		counts[row.FurnitureID] = row.Count
	}
	return counts, nil
}
