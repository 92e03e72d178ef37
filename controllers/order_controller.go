package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/kendall-kelly/furniture-store-api/config"
	"github.com/kendall-kelly/furniture-store-api/middleware"
	"github.com/kendall-kelly/furniture-store-api/models"
	"github.com/kendall-kelly/furniture-store-api/serializers"
	"github.com/kendall-kelly/furniture-store-api/services"
	"github.com/kendall-kelly/furniture-store-api/utils"
)

// OrderItemRequest is one line of a new order
type OrderItemRequest struct {
	FurnitureID uint `json:"furniture_id" binding:"required"`
	Quantity    int  `json:"quantity" binding:"required,gt=0,lte=10000"`
}

// CreateOrderRequest represents the request body for placing an order
type CreateOrderRequest struct {
	ShippingAddress string             `json:"shipping_address" binding:"required"`
	Items           []OrderItemRequest `json:"items" binding:"required,min=1,dive"`
}

// UpdateOrderRequest represents a partial update of an order
type UpdateOrderRequest struct {
	Status          *models.OrderStatus `json:"status"`
	ShippingAddress *string             `json:"shipping_address"`
}

func orderIDParam(c *gin.Context) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		// Malformed ids cannot name any order
		return uuid.Nil, utils.NewNotFoundError("ORDER_NOT_FOUND", "Order not found")
	}
	return id, nil
}

func renderOrders(c *gin.Context, orders ...*models.Order) ([]serializers.Order, bool) {
	fc, err := furnitureContext(c, serializers.FurnitureIDs(orders...))
	if err != nil {
		respondError(c, err)
		return nil, false
	}
	out := make([]serializers.Order, 0, len(orders))
	for _, o := range orders {
		out = append(out, serializers.NewOrder(o, fc))
	}
	return out, true
}

func respondOrder(c *gin.Context, status int, order *models.Order) {
	out, ok := renderOrders(c, order)
	if !ok {
		return
	}
	respondSuccess(c, status, out[0])
}

// ListOrders handles GET /api/v1/orders/ - the caller's orders only
func ListOrders(c *gin.Context) {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		respondError(c, err)
		return
	}

	orders, err := services.NewOrderService(config.GetDB()).ListOrders(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	ptrs := make([]*models.Order, len(orders))
	for i := range orders {
		ptrs[i] = &orders[i]
	}
	out, ok := renderOrders(c, ptrs...)
	if !ok {
		return
	}
	respondSuccess(c, http.StatusOK, out)
}

// GetOrder handles GET /api/v1/orders/:id/
func GetOrder(c *gin.Context) {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		respondError(c, err)
		return
	}
	orderID, err := orderIDParam(c)
	if err != nil {
		respondError(c, err)
		return
	}

	order, err := services.NewOrderService(config.GetDB()).GetOrder(c.Request.Context(), userID, orderID)
	if err != nil {
		respondError(c, err)
		return
	}

	respondOrder(c, http.StatusOK, order)
}

// CreateOrder handles POST /api/v1/orders/ - prices are taken from the catalog, not the request
func CreateOrder(c *gin.Context) {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		respondError(c, err)
		return
	}

	var req CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, bindError(err))
		return
	}

	items := make([]services.OrderItemInput, 0, len(req.Items))
	for _, item := range req.Items {
		items = append(items, services.OrderItemInput{FurnitureID: item.FurnitureID, Quantity: item.Quantity})
	}

	order, err := services.NewOrderService(config.GetDB()).PlaceOrder(c.Request.Context(), userID, services.PlaceOrderInput{
		ShippingAddress: req.ShippingAddress,
		Items:           items,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	respondOrder(c, http.StatusCreated, order)
}

// UpdateOrder handles PUT/PATCH /api/v1/orders/:id/
func UpdateOrder(c *gin.Context) {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		respondError(c, err)
		return
	}
	orderID, err := orderIDParam(c)
	if err != nil {
		respondError(c, err)
		return
	}

	var req UpdateOrderRequest
	if err := bindJSON(c, &req); err != nil {
		respondError(c, err)
		return
	}

	order, err := services.NewOrderService(config.GetDB()).UpdateOrder(c.Request.Context(), userID, orderID, services.UpdateOrderInput{
		Status:          req.Status,
		ShippingAddress: req.ShippingAddress,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	respondOrder(c, http.StatusOK, order)
}

// DeleteOrder handles DELETE /api/v1/orders/:id/
func DeleteOrder(c *gin.Context) {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		respondError(c, err)
		return
	}
	orderID, err := orderIDParam(c)
	if err != nil {
		respondError(c, err)
		return
	}

	if err := services.NewOrderService(config.GetDB()).DeleteOrder(c.Request.Context(), userID, orderID); err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
