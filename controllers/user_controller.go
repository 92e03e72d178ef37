package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/kendall-kelly/furniture-store-api/config"
	"github.com/kendall-kelly/furniture-store-api/middleware"
	"github.com/kendall-kelly/furniture-store-api/models"
	"github.com/kendall-kelly/furniture-store-api/serializers"
	"github.com/kendall-kelly/furniture-store-api/services"
	"github.com/kendall-kelly/furniture-store-api/utils"
)

// CreateUserRequest represents the request body for creating a user
type CreateUserRequest struct {
	Username   string `json:"username"`
	Email      string `json:"email"`
	Password   string `json:"password"`
	Phone      string `json:"phone"`
	Address    string `json:"address"`
	AccountPic string `json:"account_pic"`
}

// UpdateUserRequest represents a partial update of a user; omitted fields are unchanged
type UpdateUserRequest struct {
	Username   *string `json:"username"`
	Email      *string `json:"email" binding:"omitempty,email"`
	Password   *string `json:"password"`
	Phone      *string `json:"phone"`
	Address    *string `json:"address"`
	AccountPic *string `json:"account_pic"`
	IsAdmin    *bool   `json:"is_admin"`
}

func (r UpdateUserRequest) toInput(caller *models.User) services.UpdateUserInput {
	in := services.UpdateUserInput{
		Username:   r.Username,
		Email:      r.Email,
		Password:   r.Password,
		Phone:      r.Phone,
		Address:    r.Address,
		AccountPic: r.AccountPic,
	}
	// Only administrators may grant or revoke admin rights
	if caller.IsAdmin {
		in.IsAdmin = r.IsAdmin
	}
	return in
}

// ListUsers handles GET /api/v1/users/
func ListUsers(c *gin.Context) {
	var users []models.User
	if err := config.GetDB().WithContext(c.Request.Context()).Order("id ASC").Find(&users).Error; err != nil {
		respondError(c, utils.NewServerError("DATABASE_ERROR", "Failed to fetch users", err))
		return
	}

	respondSuccess(c, http.StatusOK, serializers.NewUsers(users))
}

// CreateUser handles POST /api/v1/users/ - creates an account without logging it in
func CreateUser(c *gin.Context) {
	var req CreateUserRequest
	if err := bindJSON(c, &req); err != nil {
		respondError(c, err)
		return
	}

	user, err := services.GetAuthService().CreateUser(c.Request.Context(), services.NewUserInput{
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

	respondSuccess(c, http.StatusCreated, serializers.NewUser(user))
}

// GetUser handles GET /api/v1/users/:id/
func GetUser(c *gin.Context) {
	id, err := idParam(c, "id")
	if err != nil {
		respondError(c, err)
		return
	}

	user, err := services.GetAuthService().GetUser(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	respondSuccess(c, http.StatusOK, serializers.NewUser(user))
}

// UpdateUser handles PUT/PATCH /api/v1/users/:id/ - self or admin only
func UpdateUser(c *gin.Context) {
	id, err := idParam(c, "id")
	if err != nil {
		respondError(c, err)
		return
	}
	updateUser(c, id)
}

// DeleteUser handles DELETE /api/v1/users/:id/ - self or admin only
func DeleteUser(c *gin.Context) {
	id, err := idParam(c, "id")
	if err != nil {
		respondError(c, err)
		return
	}

	caller, err := middleware.GetCurrentUser(c)
	if err != nil {
		respondError(c, err)
		return
	}
	if !caller.CanManage(id) {
		respondError(c, utils.NewForbiddenError("FORBIDDEN", "You can only delete your own account"))
		return
	}

	if err := services.GetAuthService().DeleteUser(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// GetMyProfile handles GET /api/v1/users/me/
func GetMyProfile(c *gin.Context) {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		respondError(c, err)
		return
	}

	// Reload so the response reflects the stored record
	user, err := services.GetAuthService().GetUser(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	respondSuccess(c, http.StatusOK, serializers.NewUser(user))
}

// UpdateMyProfile handles PUT/PATCH /api/v1/users/me/
func UpdateMyProfile(c *gin.Context) {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		respondError(c, err)
		return
	}
	updateUser(c, userID)
}

func updateUser(c *gin.Context, id uint) {
	caller, err := middleware.GetCurrentUser(c)
	if err != nil {
		respondError(c, err)
		return
	}
	if !caller.CanManage(id) {
		respondError(c, utils.NewForbiddenError("FORBIDDEN", "You can only update your own account"))
		return
	}

	var req UpdateUserRequest
	if err := bindJSON(c, &req); err != nil {
		respondError(c, err)
		return
	}

	user, err := services.GetAuthService().UpdateUser(c.Request.Context(), id, req.toInput(caller))
	if err != nil {
		respondError(c, err)
		return
	}

	respondSuccess(c, http.StatusOK, serializers.NewUser(user))
}
