package main

import (
	"log/slog"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/kendall-kelly/furniture-store-api/config"
	"github.com/kendall-kelly/furniture-store-api/controllers"
	"github.com/kendall-kelly/furniture-store-api/middleware"
)

func main() {
	Execute()
}

// setupLogger installs the default slog logger: JSON in production, text otherwise
func setupLogger(cfg *config.Config) {
	opts := &slog.HandlerOptions{Level: cfg.SlogLevel()}

	var handler slog.Handler
	if cfg.IsProduction() {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}
	slog.SetDefault(slog.New(handler))
}

// setupRouter registers every route under /api/v1
func setupRouter(cfg *config.Config, validator middleware.TokenValidator) *gin.Engine {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger())
	router.Use(middleware.CORS(cfg.CORSAllowedOrigins))

	required := middleware.RequireAuth(validator)
	optional := middleware.OptionalAuth(validator)

	v1 := router.Group("/api/v1")
	{
		v1.GET("/health", healthCheck)
		v1.GET("/database/status", databaseStatus)

		// Authentication
		v1.POST("/register/", controllers.Register)
		v1.POST("/login/", controllers.Login)
		v1.POST("/logout/", required, controllers.Logout)
		v1.GET("/user/", required, controllers.UserProfile)
		v1.GET("/validate-token/", required, controllers.ValidateToken)

		users := v1.Group("/users")
		{
			users.GET("/", required, controllers.ListUsers)
			users.POST("/", controllers.CreateUser)
			users.GET("/me/", required, controllers.GetMyProfile)
			users.PUT("/me/", required, controllers.UpdateMyProfile)
			users.PATCH("/me/", required, controllers.UpdateMyProfile)
			users.GET("/:id/", controllers.GetUser)
			users.PUT("/:id/", required, controllers.UpdateUser)
			users.PATCH("/:id/", required, controllers.UpdateUser)
			users.DELETE("/:id/", required, controllers.DeleteUser)
		}

		categories := v1.Group("/categories")
		{
			categories.GET("/", optional, controllers.ListCategories)
			categories.GET("/:id/", optional, controllers.GetCategory)
			categories.POST("/", required, controllers.CreateCategory)
			categories.PUT("/:id/", required, controllers.UpdateCategory)
			categories.PATCH("/:id/", required, controllers.UpdateCategory)
			categories.DELETE("/:id/", required, controllers.DeleteCategory)
		}

		furniture := v1.Group("/furniture")
		{
			furniture.GET("/", optional, controllers.ListFurniture)
			furniture.GET("/:id/", optional, controllers.GetFurniture)
			furniture.POST("/", required, controllers.CreateFurniture)
			furniture.PUT("/:id/", required, controllers.UpdateFurniture)
			furniture.PATCH("/:id/", required, controllers.UpdateFurniture)
			furniture.DELETE("/:id/", required, controllers.DeleteFurniture)
			furniture.POST("/:id/toggle_like/", required, controllers.ToggleLike)
			furniture.PUT("/:id/model_3d/", required, controllers.UploadModel3D)
		}

		orders := v1.Group("/orders", required)
		{
			orders.GET("/", controllers.ListOrders)
			orders.POST("/", controllers.CreateOrder)
			orders.GET("/:id/", controllers.GetOrder)
			orders.PUT("/:id/", controllers.UpdateOrder)
			orders.PATCH("/:id/", controllers.UpdateOrder)
			orders.DELETE("/:id/", controllers.DeleteOrder)
		}

		reviews := v1.Group("/reviews", required)
		{
			reviews.GET("/", controllers.ListReviews)
			reviews.POST("/", controllers.CreateReview)
			reviews.GET("/:id/", controllers.GetReview)
			reviews.PUT("/:id/", controllers.UpdateReview)
			reviews.PATCH("/:id/", controllers.UpdateReview)
			reviews.DELETE("/:id/", controllers.DeleteReview)
		}

		// Locally stored 3D model files
		v1.GET("/uploads/:filename", controllers.GetUploadedModel)
	}

	return router
}

// healthCheck handles the health check endpoint
func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Furniture Store API is running",
	})
}

// databaseStatus checks database connectivity and returns table information
func databaseStatus(c *gin.Context) {
	db := config.GetDB()

	// Get the underlying SQL database to check connection
	sqlDB, err := db.DB()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to get database instance",
			},
		})
		return
	}

	// Ping the database to verify connection
	if err := sqlDB.PingContext(c.Request.Context()); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_CONNECTION_ERROR",
				"message": "Database connection failed",
			},
		})
		return
	}

	tables, err := db.WithContext(c.Request.Context()).Migrator().GetTables()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_QUERY_ERROR",
				"message": "Failed to query tables",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Database connected",
		"tables":  tables,
	})
}
