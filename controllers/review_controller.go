package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/kendall-kelly/furniture-store-api/config"
	"github.com/kendall-kelly/furniture-store-api/middleware"
	"github.com/kendall-kelly/furniture-store-api/serializers"
	"github.com/kendall-kelly/furniture-store-api/services"
)

// CreateReviewRequest represents the request body for reviewing furniture
type CreateReviewRequest struct {
	Furniture uint   `json:"furniture" binding:"required"`
	Rating    int    `json:"rating" binding:"required"`
	Comment   string `json:"comment"`
}

// UpdateReviewRequest represents a partial update of a review
type UpdateReviewRequest struct {
	Rating  *int    `json:"rating"`
	Comment *string `json:"comment"`
}

// ListReviews handles GET /api/v1/reviews/ - the caller's reviews only
func ListReviews(c *gin.Context) {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		respondError(c, err)
		return
	}

	reviews, err := services.NewReviewService(config.GetDB()).ListReviews(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	respondSuccess(c, http.StatusOK, serializers.NewReviews(reviews))
}

// GetReview handles GET /api/v1/reviews/:id/
func GetReview(c *gin.Context) {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		respondError(c, err)
		return
	}
	id, err := idParam(c, "id")
	if err != nil {
		respondError(c, err)
		return
	}

	review, err := services.NewReviewService(config.GetDB()).GetReview(c.Request.Context(), userID, id)
	if err != nil {
		respondError(c, err)
		return
	}

	respondSuccess(c, http.StatusOK, serializers.NewReview(review))
}

// CreateReview handles POST /api/v1/reviews/ - the review is always bound to the caller
func CreateReview(c *gin.Context) {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		respondError(c, err)
		return
	}

	var req CreateReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, bindError(err))
		return
	}

	review, err := services.NewReviewService(config.GetDB()).CreateReview(c.Request.Context(), userID, services.CreateReviewInput{
		FurnitureID: req.Furniture,
		Rating:      req.Rating,
		Comment:     req.Comment,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	respondSuccess(c, http.StatusCreated, serializers.NewReview(review))
}

// UpdateReview handles PUT/PATCH /api/v1/reviews/:id/
func UpdateReview(c *gin.Context) {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		respondError(c, err)
		return
	}
	id, err := idParam(c, "id")
	if err != nil {
		respondError(c, err)
		return
	}

	var req UpdateReviewRequest
	if err := bindJSON(c, &req); err != nil {
		respondError(c, err)
		return
	}

	review, err := services.NewReviewService(config.GetDB()).UpdateReview(c.Request.Context(), userID, id, services.UpdateReviewInput{
		Rating:  req.Rating,
		Comment: req.Comment,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	respondSuccess(c, http.StatusOK, serializers.NewReview(review))
}

// DeleteReview handles DELETE /api/v1/reviews/:id/
func DeleteReview(c *gin.Context) {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		respondError(c, err)
		return
	}
	id, err := idParam(c, "id")
	if err != nil {
		respondError(c, err)
		return
	}

	if err := services.NewReviewService(config.GetDB()).DeleteReview(c.Request.Context(), userID, id); err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
