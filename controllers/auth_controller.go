package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/kendall-kelly/furniture-store-api/middleware"
	"github.com/kendall-kelly/furniture-store-api/serializers"
	"github.com/kendall-kelly/furniture-store-api/services"
)

// RegisterRequest represents the request body for registration
type RegisterRequest struct {
	Username   string `json:"username"`
	Email      string `json:"email"`
	Password   string `json:"password"`
	Phone      string `json:"phone"`
	Address    string `json:"address"`
	AccountPic string `json:"account_pic"`
}

// LoginRequest represents the request body for login; email may also hold a username
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Register handles POST /api/v1/register/ - creates an account and returns its token
func Register(c *gin.Context) {
	var req RegisterRequest
	if err := bindJSON(c, &req); err != nil {
		respondError(c, err)
		return
	}

	result, err := services.GetAuthService().Register(c.Request.Context(), services.NewUserInput{
		Username:   req.Username,
		Email:      req.Email,
		Password:   req.Password,
		Phone:      req.Phone,
		Address:    req.Address,
		AccountPic: req.AccountPic,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	respondSuccess(c, http.StatusCreated, gin.H{
		"token": result.Token,
		"user":  serializers.NewUser(result.User),
	})
}

// Login handles POST /api/v1/login/
func Login(c *gin.Context) {
	var req LoginRequest
	if err := bindJSON(c, &req); err != nil {
		respondError(c, err)
		return
	}

	result, err := services.GetAuthService().Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}

	respondSuccess(c, http.StatusOK, gin.H{
		"token": result.Token,
		"user":  serializers.NewUserSummary(result.User),
	})
}

// Logout handles POST /api/v1/logout/ - revokes the token used for this request
func Logout(c *gin.Context) {
	if err := services.GetAuthService().Logout(c.Request.Context(), middleware.GetAuthToken(c)); err != nil {
		respondError(c, err)
		return
	}

	respondSuccess(c, http.StatusOK, gin.H{"message": "Successfully logged out"})
}

// ValidateToken handles GET /api/v1/validate-token/
func ValidateToken(c *gin.Context) {
	user, err := middleware.GetCurrentUser(c)
	if err != nil {
		respondError(c, err)
		return
	}

	respondSuccess(c, http.StatusOK, gin.H{
		"valid": true,
		"user":  serializers.NewUserSummary(user),
	})
}

// UserProfile handles GET /api/v1/user/ - the caller's full profile
func UserProfile(c *gin.Context) {
	user, err := middleware.GetCurrentUser(c)
	if err != nil {
		respondError(c, err)
		return
	}

	respondSuccess(c, http.StatusOK, serializers.NewUser(user))
}
