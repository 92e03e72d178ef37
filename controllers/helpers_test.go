package controllers

import (
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/kendall-kelly/furniture-store-api/middleware"
	"github.com/kendall-kelly/furniture-store-api/testutil"
)

// setupTestRouter wires every handler under /api/v1 against a fresh test environment
func setupTestRouter(t *testing.T) (*gin.Engine, *testutil.Env) {
	gin.SetMode(gin.TestMode)
	env := testutil.Setup(t)

	router := gin.New()
	required := middleware.RequireAuth(env.Auth)
	optional := middleware.OptionalAuth(env.Auth)

	v1 := router.Group("/api/v1")
	v1.POST("/register/", Register)
	v1.POST("/login/", Login)
	v1.POST("/logout/", required, Logout)
	v1.GET("/user/", required, UserProfile)
	v1.GET("/validate-token/", required, ValidateToken)

	v1.GET("/users/", required, ListUsers)
	v1.POST("/users/", CreateUser)
	v1.GET("/users/me/", required, GetMyProfile)
	v1.PATCH("/users/me/", required, UpdateMyProfile)
	v1.GET("/users/:id/", GetUser)
	v1.PATCH("/users/:id/", required, UpdateUser)
	v1.DELETE("/users/:id/", required, DeleteUser)

	v1.GET("/categories/", optional, ListCategories)
	v1.GET("/categories/:id/", optional, GetCategory)
	v1.POST("/categories/", required, CreateCategory)
	v1.PATCH("/categories/:id/", required, UpdateCategory)
	v1.DELETE("/categories/:id/", required, DeleteCategory)

	v1.GET("/furniture/", optional, ListFurniture)
	v1.GET("/furniture/:id/", optional, GetFurniture)
	v1.POST("/furniture/", required, CreateFurniture)
	v1.PATCH("/furniture/:id/", required, UpdateFurniture)
	v1.DELETE("/furniture/:id/", required, DeleteFurniture)
	v1.POST("/furniture/:id/toggle_like/", required, ToggleLike)
	v1.PUT("/furniture/:id/model_3d/", required, UploadModel3D)

	v1.GET("/orders/", required, ListOrders)
	v1.POST("/orders/", required, CreateOrder)
	v1.GET("/orders/:id/", required, GetOrder)
	v1.PATCH("/orders/:id/", required, UpdateOrder)
	v1.DELETE("/orders/:id/", required, DeleteOrder)

	v1.GET("/reviews/", required, ListReviews)
	v1.POST("/reviews/", required, CreateReview)
	v1.GET("/reviews/:id/", required, GetReview)
	v1.PATCH("/reviews/:id/", required, UpdateReview)
	v1.DELETE("/reviews/:id/", required, DeleteReview)

	v1.GET("/uploads/:filename", GetUploadedModel)

	return router, env
}
