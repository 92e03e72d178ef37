package controllers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/kendall-kelly/furniture-store-api/config"
	"github.com/kendall-kelly/furniture-store-api/models"
	"github.com/kendall-kelly/furniture-store-api/serializers"
	"github.com/kendall-kelly/furniture-store-api/utils"
	"gorm.io/gorm"
)

// CategoryRequest represents the request body for creating or renaming a category
type CategoryRequest struct {
	Name string `json:"name" binding:"required,max=100"`
}

func findCategory(c *gin.Context) (*models.FurnitureCategory, error) {
	id, err := idParam(c, "id")
	if err != nil {
		return nil, err
	}

	var category models.FurnitureCategory
	err = config.GetDB().WithContext(c.Request.Context()).First(&category, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, utils.NewNotFoundError("CATEGORY_NOT_FOUND", "Category not found")
	}
	if err != nil {
		return nil, utils.NewServerError("DATABASE_ERROR", "Failed to fetch category", err)
	}
	return &category, nil
}

func bindCategory(c *gin.Context) (string, error) {
	var req CategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		return "", bindError(err)
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return "", utils.NewValidationError("VALIDATION_ERROR", "Name is required")
	}
	return name, nil
}

// ListCategories handles GET /api/v1/categories/
func ListCategories(c *gin.Context) {
	var categories []models.FurnitureCategory
	if err := config.GetDB().WithContext(c.Request.Context()).Order("id ASC").Find(&categories).Error; err != nil {
		respondError(c, utils.NewServerError("DATABASE_ERROR", "Failed to fetch categories", err))
		return
	}

	respondSuccess(c, http.StatusOK, serializers.NewCategories(categories))
}

// GetCategory handles GET /api/v1/categories/:id/
func GetCategory(c *gin.Context) {
	category, err := findCategory(c)
	if err != nil {
		respondError(c, err)
		return
	}

	respondSuccess(c, http.StatusOK, serializers.NewCategory(category))
}

// CreateCategory handles POST /api/v1/categories/
func CreateCategory(c *gin.Context) {
	name, err := bindCategory(c)
	if err != nil {
		respondError(c, err)
		return
	}

	category := models.FurnitureCategory{Name: name}
	if err := config.GetDB().WithContext(c.Request.Context()).Create(&category).Error; err != nil {
		respondError(c, utils.NewServerError("DATABASE_ERROR", "Failed to create category", err))
		return
	}

	respondSuccess(c, http.StatusCreated, serializers.NewCategory(&category))
}

// UpdateCategory handles PUT/PATCH /api/v1/categories/:id/
func UpdateCategory(c *gin.Context) {
	category, err := findCategory(c)
	if err != nil {
		respondError(c, err)
		return
	}

	name, err := bindCategory(c)
	if err != nil {
		respondError(c, err)
		return
	}

	category.Name = name
	if err := config.GetDB().WithContext(c.Request.Context()).Save(category).Error; err != nil {
		respondError(c, utils.NewServerError("DATABASE_ERROR", "Failed to update category", err))
		return
	}

	respondSuccess(c, http.StatusOK, serializers.NewCategory(category))
}

// DeleteCategory handles DELETE /api/v1/categories/:id/ - furniture in it becomes uncategorised
func DeleteCategory(c *gin.Context) {
	category, err := findCategory(c)
	if err != nil {
		respondError(c, err)
		return
	}

	err = config.GetDB().WithContext(c.Request.Context()).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Furniture{}).Where("category_id = ?", category.ID).Update("category_id", nil).Error; err != nil {
			return err
		}
		return tx.Delete(category).Error
	})
	if err != nil {
		respondError(c, utils.NewServerError("DATABASE_ERROR", "Failed to delete category", err))
		return
	}

	c.Status(http.StatusNoContent)
}
