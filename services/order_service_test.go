package services

import (
	"context"
	"math"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/kendall-kelly/furniture-store-api/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlaceOrder(t *testing.T) {
	db := setupServiceTestDB(t)
	svc := NewOrderService(db)
	ctx := context.Background()

	user := createTestUser(t, db, "buyer")
	chair := createTestFurniture(t, db, "Chair", "49.99")
	table := createTestFurniture(t, db, "Table", "120.50")

	order, err := svc.PlaceOrder(ctx, user.ID, PlaceOrderInput{
		ShippingAddress: "  1 Main St  ",
		Items: []OrderItemInput{
			{FurnitureID: chair.ID, Quantity: 2},
			{FurnitureID: table.ID, Quantity: 1},
			{FurnitureID: chair.ID, Quantity: 1},
		},
	})
	require.NoError(t, err)

	assert.NotEqual(t, uuid.Nil, order.ID)
	assert.Equal(t, models.OrderStatusPending, order.Status)
	assert.Equal(t, "1 Main St", order.ShippingAddress)
	assert.Equal(t, "270.47", order.TotalPrice.StringFixed(2))
	require.Len(t, order.Items, 2, "repeated furniture is merged into one line")
	assert.Equal(t, chair.ID, order.Items[0].FurnitureID)
	assert.Equal(t, 3, order.Items[0].Quantity)
	assert.Equal(t, "Chair", order.Items[0].Furniture.Title)

	// Later price changes do not touch the snapshot
	require.NoError(t, db.Model(&chair).Update("price", "99.00").Error)
	reloaded, err := svc.GetOrder(ctx, user.ID, order.ID)
	require.NoError(t, err)
	assert.Equal(t, "49.99", reloaded.Items[0].PriceAtPurchase.StringFixed(2))
	assert.Equal(t, "270.47", reloaded.TotalPrice.StringFixed(2))
}

func TestPlaceOrder_Validation(t *testing.T) {
	db := setupServiceTestDB(t)
	svc := NewOrderService(db)
	ctx := context.Background()

	user := createTestUser(t, db, "buyer")
	chair := createTestFurniture(t, db, "Chair", "10.00")
	yacht := createTestFurniture(t, db, "Yacht", "99999999.99")

	tests := []struct {
		name   string
		input  PlaceOrderInput
		status int
		code   string
	}{
		{"missing address", PlaceOrderInput{Items: []OrderItemInput{{chair.ID, 1}}}, http.StatusBadRequest, "VALIDATION_ERROR"},
		{"no items", PlaceOrderInput{ShippingAddress: "x"}, http.StatusBadRequest, "VALIDATION_ERROR"},
		{"zero quantity", PlaceOrderInput{ShippingAddress: "x", Items: []OrderItemInput{{chair.ID, 0}}}, http.StatusBadRequest, "VALIDATION_ERROR"},
		{"unknown furniture", PlaceOrderInput{ShippingAddress: "x", Items: []OrderItemInput{{chair.ID, 1}, {9999, 1}}}, http.StatusNotFound, "FURNITURE_NOT_FOUND"},
		{"quantity over limit", PlaceOrderInput{ShippingAddress: "x", Items: []OrderItemInput{{chair.ID, models.MaxItemQuantity + 1}}}, http.StatusBadRequest, "INVALID_QUANTITY"},
		{"merged quantity would overflow", PlaceOrderInput{ShippingAddress: "x", Items: []OrderItemInput{{chair.ID, math.MaxInt}, {chair.ID, 2}}}, http.StatusBadRequest, "INVALID_QUANTITY"},
		{"merged quantity over limit", PlaceOrderInput{ShippingAddress: "x", Items: []OrderItemInput{{chair.ID, 6000}, {chair.ID, 6000}}}, http.StatusBadRequest, "INVALID_QUANTITY"},
		{"total does not fit", PlaceOrderInput{ShippingAddress: "x", Items: []OrderItemInput{{yacht.ID, 2}}}, http.StatusBadRequest, "ORDER_TOO_LARGE"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.PlaceOrder(ctx, user.ID, tt.input)
			requireAPIError(t, err, tt.status, tt.code)
		})
	}

	var orders, items int64
	db.Model(&models.Order{}).Count(&orders)
	db.Model(&models.OrderItem{}).Count(&items)
	assert.Zero(t, orders, "rejected orders leave nothing behind")
	assert.Zero(t, items)
}

func TestOrders_ScopedToOwner(t *testing.T) {
	db := setupServiceTestDB(t)
	svc := NewOrderService(db)
	ctx := context.Background()

	alice := createTestUser(t, db, "alice")
	bob := createTestUser(t, db, "bob")
	chair := createTestFurniture(t, db, "Chair", "10.00")

	order, err := svc.PlaceOrder(ctx, alice.ID, PlaceOrderInput{ShippingAddress: "A", Items: []OrderItemInput{{chair.ID, 1}}})
	require.NoError(t, err)

	bobOrders, err := svc.ListOrders(ctx, bob.ID)
	require.NoError(t, err)
	assert.Empty(t, bobOrders)

	_, err = svc.GetOrder(ctx, bob.ID, order.ID)
	requireAPIError(t, err, http.StatusNotFound, "ORDER_NOT_FOUND")

	status := models.OrderStatusShipped
	_, err = svc.UpdateOrder(ctx, bob.ID, order.ID, UpdateOrderInput{Status: &status})
	requireAPIError(t, err, http.StatusNotFound, "ORDER_NOT_FOUND")

	err = svc.DeleteOrder(ctx, bob.ID, order.ID)
	requireAPIError(t, err, http.StatusNotFound, "ORDER_NOT_FOUND")

	aliceOrders, err := svc.ListOrders(ctx, alice.ID)
	require.NoError(t, err)
	require.Len(t, aliceOrders, 1)
	assert.Equal(t, order.ID, aliceOrders[0].ID)
}

func TestUpdateOrder(t *testing.T) {
	db := setupServiceTestDB(t)
	svc := NewOrderService(db)
	ctx := context.Background()

	user := createTestUser(t, db, "buyer")
	chair := createTestFurniture(t, db, "Chair", "10.00")
	order, err := svc.PlaceOrder(ctx, user.ID, PlaceOrderInput{ShippingAddress: "A", Items: []OrderItemInput{{chair.ID, 1}}})
	require.NoError(t, err)

	status := models.OrderStatusShipped
	address := "B"
	updated, err := svc.UpdateOrder(ctx, user.ID, order.ID, UpdateOrderInput{Status: &status, ShippingAddress: &address})
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusShipped, updated.Status)
	assert.Equal(t, "B", updated.ShippingAddress)

	bad := models.OrderStatus("LOST")
	_, err = svc.UpdateOrder(ctx, user.ID, order.ID, UpdateOrderInput{Status: &bad})
	requireAPIError(t, err, http.StatusBadRequest, "INVALID_STATUS")
}

func TestDeleteOrder_RemovesItems(t *testing.T) {
	db := setupServiceTestDB(t)
	svc := NewOrderService(db)
	ctx := context.Background()

	user := createTestUser(t, db, "buyer")
	chair := createTestFurniture(t, db, "Chair", "10.00")
	order, err := svc.PlaceOrder(ctx, user.ID, PlaceOrderInput{ShippingAddress: "A", Items: []OrderItemInput{{chair.ID, 2}}})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteOrder(ctx, user.ID, order.ID))

	var items int64
	db.Model(&models.OrderItem{}).Where("order_id = ?", order.ID).Count(&items)
	assert.Zero(t, items)

	_, err = svc.GetOrder(ctx, user.ID, order.ID)
	requireAPIError(t, err, http.StatusNotFound, "ORDER_NOT_FOUND")
}
