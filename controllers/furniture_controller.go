package controllers

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/kendall-kelly/furniture-store-api/config"
	"github.com/kendall-kelly/furniture-store-api/middleware"
	"github.com/kendall-kelly/furniture-store-api/models"
	"github.com/kendall-kelly/furniture-store-api/serializers"
	"github.com/kendall-kelly/furniture-store-api/services"
	"github.com/kendall-kelly/furniture-store-api/utils"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// FurnitureRequest represents the body for creating or partially updating furniture.
// Price accepts either a JSON number or a string.
type FurnitureRequest struct {
	Title       *string          `json:"title" binding:"omitempty,max=200"`
	Description *string          `json:"description"`
	Color       *string          `json:"color" binding:"omitempty,max=50"`
	Price       *decimal.Decimal `json:"price"`
	Pic         *string          `json:"pic"`
	Rating      *float64         `json:"rating"`
	CategoryID  categoryRef      `json:"category_id"`
}

// categoryRef tells an explicit null, which clears the category, apart from an absent field
type categoryRef struct {
	Set bool
	ID  *uint
}

// UnmarshalJSON records that the field was present
func (r *categoryRef) UnmarshalJSON(data []byte) error {
	r.Set = true
	if string(data) == "null" {
		r.ID = nil
		return nil
	}
	var id uint
	if err := json.Unmarshal(data, &id); err != nil {
		return err
	}
	r.ID = &id
	return nil
}

// apply copies the provided fields onto f after validating them
func (r FurnitureRequest) apply(ctx context.Context, db *gorm.DB, f *models.Furniture, creating bool) error {
	if creating && (r.Title == nil || r.Price == nil) {
		return utils.NewValidationError("VALIDATION_ERROR", "Title and price are required")
	}

	if r.Title != nil {
		title := strings.TrimSpace(*r.Title)
		if title == "" {
			return utils.NewValidationError("VALIDATION_ERROR", "Title cannot be empty")
		}
		f.Title = title
	}
	if r.Description != nil {
		f.Description = *r.Description
	}
	if r.Color != nil {
		f.Color = *r.Color
	}
	if r.Price != nil {
		price := *r.Price
		if price.IsNegative() || !price.Equal(price.Round(2)) || price.GreaterThanOrEqual(models.MaxMoney) {
			return utils.NewValidationError("INVALID_PRICE", "Price must be a non-negative amount with at most 2 decimal places")
		}
		f.Price = price
	}
	if r.Pic != nil {
		if err := utils.ValidateBase64Image("pic", *r.Pic); err != nil {
			return err
		}
		f.Pic = *r.Pic
	}
	if r.Rating != nil {
		if !models.ValidFurnitureRating(*r.Rating) {
			return utils.NewValidationError("INVALID_RATING", "Rating must be between 0.0 and 5.0")
		}
		f.Rating = *r.Rating
	}
	if r.CategoryID.Set && r.CategoryID.ID != nil {
		var count int64
		if err := db.WithContext(ctx).Model(&models.FurnitureCategory{}).Where("id = ?", *r.CategoryID.ID).Count(&count).Error; err != nil {
			return utils.NewServerError("DATABASE_ERROR", "Failed to check category", err)
		}
		if count == 0 {
			return utils.NewValidationError("INVALID_CATEGORY", "Category does not exist")
		}
	}
	if r.CategoryID.Set {
		f.CategoryID = r.CategoryID.ID
		f.Category = nil
	}
	return nil
}

func saveError(err error, message string) error {
	if errors.Is(err, models.ErrInvalidFurnitureRating) {
		return utils.NewValidationError("INVALID_RATING", "Rating must be between 0.0 and 5.0")
	}
	return utils.NewServerError("DATABASE_ERROR", message, err)
}

func findFurniture(c *gin.Context) (*models.Furniture, error) {
	id, err := idParam(c, "id")
	if err != nil {
		return nil, err
	}

	var furniture models.Furniture
	err = config.GetDB().WithContext(c.Request.Context()).Preload("Category").First(&furniture, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, utils.NewNotFoundError("FURNITURE_NOT_FOUND", "Furniture not found")
	}
	if err != nil {
		return nil, utils.NewServerError("DATABASE_ERROR", "Failed to fetch furniture", err)
	}
	return &furniture, nil
}

// modelURL resolves model keys through the configured storage; failures render as null
func modelURL(ctx context.Context) func(string) string {
	svc := services.GetModelFileService()
	return func(key string) string {
		if svc == nil {
			return ""
		}
		url, err := svc.GetModelURL(ctx, key)
		if err != nil {
			slog.Warn("Failed to resolve model URL", "key", key, "error", err)
			return ""
		}
		return url
	}
}

// furnitureContext loads like state for the given furniture on behalf of the caller
func furnitureContext(c *gin.Context, ids []uint) (serializers.FurnitureContext, error) {
	ctx := c.Request.Context()
	likes := services.NewLikeService(config.GetDB())

	counts, err := likes.LikeCounts(ctx, ids)
	if err != nil {
		return serializers.FurnitureContext{}, err
	}
	liked, err := likes.LikedSet(ctx, middleware.OptionalUserID(c), ids)
	if err != nil {
		return serializers.FurnitureContext{}, err
	}

	return serializers.FurnitureContext{
		Liked:    liked,
		Counts:   counts,
		ModelURL: modelURL(ctx),
	}, nil
}

func renderFurniture(c *gin.Context, status int, f *models.Furniture) {
	fc, err := furnitureContext(c, []uint{f.ID})
	if err != nil {
		respondError(c, err)
		return
	}
	respondSuccess(c, status, serializers.NewFurniture(f, fc))
}

// ListFurniture handles GET /api/v1/furniture/ - optional ?category=<id> filter
func ListFurniture(c *gin.Context) {
	query := config.GetDB().WithContext(c.Request.Context()).Preload("Category").Order("id ASC")

	if raw := c.Query("category"); raw != "" {
		categoryID, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			respondError(c, utils.NewValidationError("INVALID_CATEGORY", "category must be a numeric id"))
			return
		}
		query = query.Where("category_id = ?", categoryID)
	}

	var items []models.Furniture
	if err := query.Find(&items).Error; err != nil {
		respondError(c, utils.NewServerError("DATABASE_ERROR", "Failed to fetch furniture", err))
		return
	}

	ids := make([]uint, len(items))
	for i := range items {
		ids[i] = items[i].ID
	}
	fc, err := furnitureContext(c, ids)
	if err != nil {
		respondError(c, err)
		return
	}

	respondSuccess(c, http.StatusOK, serializers.NewFurnitureList(items, fc))
}

// GetFurniture handles GET /api/v1/furniture/:id/
func GetFurniture(c *gin.Context) {
	furniture, err := findFurniture(c)
	if err != nil {
		respondError(c, err)
		return
	}
	renderFurniture(c, http.StatusOK, furniture)
}

// CreateFurniture handles POST /api/v1/furniture/
func CreateFurniture(c *gin.Context) {
	var req FurnitureRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, bindError(err))
		return
	}

	db := config.GetDB().WithContext(c.Request.Context())
	var furniture models.Furniture
	if err := req.apply(c.Request.Context(), db, &furniture, true); err != nil {
		respondError(c, err)
		return
	}

	if err := db.Omit(clause.Associations).Create(&furniture).Error; err != nil {
		respondError(c, saveError(err, "Failed to create furniture"))
		return
	}
	if err := db.Preload("Category").First(&furniture, furniture.ID).Error; err != nil {
		respondError(c, utils.NewServerError("DATABASE_ERROR", "Failed to load furniture details", err))
		return
	}

	renderFurniture(c, http.StatusCreated, &furniture)
}

// UpdateFurniture handles PUT/PATCH /api/v1/furniture/:id/
func UpdateFurniture(c *gin.Context) {
	furniture, err := findFurniture(c)
	if err != nil {
		respondError(c, err)
		return
	}

	var req FurnitureRequest
	if err := bindJSON(c, &req); err != nil {
		respondError(c, err)
		return
	}

	db := config.GetDB().WithContext(c.Request.Context())
	if err := req.apply(c.Request.Context(), db, furniture, false); err != nil {
		respondError(c, err)
		return
	}

	if err := db.Omit(clause.Associations).Save(furniture).Error; err != nil {
		respondError(c, saveError(err, "Failed to update furniture"))
		return
	}
	if err := db.Preload("Category").First(furniture, furniture.ID).Error; err != nil {
		respondError(c, utils.NewServerError("DATABASE_ERROR", "Failed to load furniture details", err))
		return
	}

	renderFurniture(c, http.StatusOK, furniture)
}

// DeleteFurniture handles DELETE /api/v1/furniture/:id/.
// Furniture that appears in an order cannot be deleted.
func DeleteFurniture(c *gin.Context) {
	furniture, err := findFurniture(c)
	if err != nil {
		respondError(c, err)
		return
	}

	err = config.GetDB().WithContext(c.Request.Context()).Transaction(func(tx *gorm.DB) error {
		var ordered int64
		if err := tx.Model(&models.OrderItem{}).Where("furniture_id = ?", furniture.ID).Count(&ordered).Error; err != nil {
			return utils.NewServerError("DATABASE_ERROR", "Failed to check orders", err)
		}
		if ordered > 0 {
			return utils.NewConflictError("FURNITURE_IN_ORDERS", "Furniture that has been ordered cannot be deleted")
		}

		for _, model := range []interface{}{&models.FurnitureLike{}, &models.Review{}} {
			if err := tx.Where("furniture_id = ?", furniture.ID).Delete(model).Error; err != nil {
				return utils.NewServerError("DATABASE_ERROR", "Failed to delete furniture", err)
			}
		}
		if err := tx.Delete(&models.Furniture{}, furniture.ID).Error; err != nil {
			return utils.NewServerError("DATABASE_ERROR", "Failed to delete furniture", err)
		}
		return nil
	})
	if err != nil {
		respondError(c, err)
		return
	}

	if furniture.Model3DKey != nil {
		deleteModelQuietly(c.Request.Context(), *furniture.Model3DKey)
	}

	c.Status(http.StatusNoContent)
}

// ToggleLike handles POST /api/v1/furniture/:id/toggle_like/
func ToggleLike(c *gin.Context) {
	id, err := idParam(c, "id")
	if err != nil {
		respondError(c, err)
		return
	}

	userID, err := middleware.GetUserID(c)
	if err != nil {
		respondError(c, err)
		return
	}

	liked, err := services.NewLikeService(config.GetDB()).ToggleLike(c.Request.Context(), userID, id)
	if err != nil {
		respondError(c, err)
		return
	}

	respondSuccess(c, http.StatusOK, gin.H{"liked": liked})
}

// UploadModel3D handles PUT /api/v1/furniture/:id/model_3d/ - multipart field "file"
func UploadModel3D(c *gin.Context) {
	furniture, err := findFurniture(c)
	if err != nil {
		respondError(c, err)
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		respondError(c, utils.NewValidationError("NO_FILE", "No model file provided in the \"file\" field"))
		return
	}

	modelService := services.GetModelFileService()
	if modelService == nil {
		respondError(c, utils.NewServerError("STORAGE_NOT_CONFIGURED", "File storage is not configured", nil))
		return
	}

	ctx := c.Request.Context()
	key, err := modelService.UploadModel(ctx, fileHeader)
	if err != nil {
		var uploadErr *utils.FileUploadError
		if errors.As(err, &uploadErr) {
			respondError(c, utils.NewValidationError(uploadErr.Code, uploadErr.Message))
			return
		}
		respondError(c, utils.NewServerError("UPLOAD_ERROR", "Failed to store model file", err))
		return
	}

	previous := furniture.Model3DKey
	furniture.Model3DKey = &key
	if err := config.GetDB().WithContext(ctx).Model(furniture).Update("model_3d_key", key).Error; err != nil {
		deleteModelQuietly(ctx, key)
		respondError(c, saveError(err, "Failed to update furniture"))
		return
	}
	if previous != nil && *previous != key {
		deleteModelQuietly(ctx, *previous)
	}

	renderFurniture(c, http.StatusOK, furniture)
}

func deleteModelQuietly(ctx context.Context, key string) {
	svc := services.GetModelFileService()
	if svc == nil || key == "" {
		return
	}
	if err := svc.DeleteModel(ctx, key); err != nil {
		slog.Warn("Failed to delete model file", "key", key, "error", err)
	}
}
