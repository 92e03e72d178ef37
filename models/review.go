package models

import (
	"errors"
	"time"

	"gorm.io/gorm"
)

const (
	MinReviewRating = 1
	MaxReviewRating = 5
)

// ErrInvalidReviewRating is returned when a review rating falls outside 1..5
var ErrInvalidReviewRating = errors.New("review rating must be an integer between 1 and 5")

// Review is a user's rating of a furniture item; one per (user, furniture)
type Review struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	UserID      uint      `gorm:"not null;uniqueIndex:idx_reviews_user_furniture" json:"user_id"`
	User        User      `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	FurnitureID uint      `gorm:"not null;uniqueIndex:idx_reviews_user_furniture;index" json:"furniture_id"`
	Furniture   Furniture `gorm:"foreignKey:FurnitureID;constraint:OnDelete:CASCADE" json:"-"`
	Rating      int       `gorm:"not null;check:rating >= 1 AND rating <= 5" json:"rating"`
	Comment     string    `gorm:"type:text" json:"comment"`
	CreatedAt   time.Time `json:"created_at"`
}

// TableName specifies the table name for the Review model
func (Review) TableName() string {
	return "reviews"
}

// BeforeSave rejects ratings outside 1..5
func (r *Review) BeforeSave(tx *gorm.DB) error {
	if r.Rating < MinReviewRating || r.Rating > MaxReviewRating {
		return ErrInvalidReviewRating
	}
	return nil
}
