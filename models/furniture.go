package models

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	MinFurnitureRating = 0.0
	MaxFurnitureRating = 5.0
)

// MaxMoney is the first amount that no longer fits a decimal(10,2) column
var MaxMoney = decimal.NewFromInt(100_000_000)

// ErrInvalidFurnitureRating is returned when a rating falls outside [0, 5]
var ErrInvalidFurnitureRating = errors.New("furniture rating must be between 0.0 and 5.0")

// Furniture represents a catalog item
type Furniture struct {
	ID          uint               `gorm:"primaryKey" json:"id"`
	Title       string             `gorm:"size:200;not null" json:"title"`
	Description string             `gorm:"type:text" json:"description"`
	Color       string             `gorm:"size:50" json:"color"`
	Price       decimal.Decimal    `gorm:"type:decimal(10,2);not null" json:"price"`
	CreatedAt   time.Time          `json:"created_at"`
	Model3DKey  *string            `gorm:"column:model_3d_key;size:500" json:"model_3d_key"` // storage key of the uploaded 3D model
	Pic         string             `gorm:"type:text" json:"pic"`                             // base64 encoded
	Rating      float64            `gorm:"not null;default:0" json:"rating"`
	CategoryID  *uint              `gorm:"index" json:"category_id"` // set to NULL when the category is deleted
	Category    *FurnitureCategory `gorm:"foreignKey:CategoryID;constraint:OnDelete:SET NULL" json:"category,omitempty"`
}

// TableName specifies the table name for the Furniture model
func (Furniture) TableName() string {
	return "furniture"
}

// BeforeSave rejects ratings outside [0, 5]
func (f *Furniture) BeforeSave(tx *gorm.DB) error {
	if !ValidFurnitureRating(f.Rating) {
		return ErrInvalidFurnitureRating
	}
	return nil
}

// ValidFurnitureRating reports whether r is within [0, 5]
func ValidFurnitureRating(r float64) bool {
	return r >= MinFurnitureRating && r <= MaxFurnitureRating
}

// FurnitureLike records that a user likes a furniture item
type FurnitureLike struct {
	FurnitureID uint      `gorm:"primaryKey" json:"furniture_id"`
	UserID      uint      `gorm:"primaryKey;index" json:"user_id"`
	CreatedAt   time.Time `json:"created_at"`
}

// TableName specifies the table name for the FurnitureLike model
func (FurnitureLike) TableName() string {
	return "furniture_likes"
}
