package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/kendall-kelly/furniture-store-api/models"
	"github.com/kendall-kelly/furniture-store-api/utils"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// OrderItemInput is one requested line of a new order
type OrderItemInput struct {
	FurnitureID uint
	Quantity    int
}

// PlaceOrderInput is a new order request
type PlaceOrderInput struct {
	ShippingAddress string
	Items           []OrderItemInput
}

// UpdateOrderInput holds the mutable order fields; nil fields are left unchanged
type UpdateOrderInput struct {
	Status          *models.OrderStatus
	ShippingAddress *string
}

// OrderService places and manages orders scoped to their owner
type OrderService struct {
	db *gorm.DB
}

// NewOrderService creates an order service on db
func NewOrderService(db *gorm.DB) *OrderService {
	return &OrderService{db: db}
}

func (s *OrderService) withDetails(db *gorm.DB) *gorm.DB {
	return db.Preload("User").
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("order_items.id ASC") }).
		Preload("Items.Furniture").
		Preload("Items.Furniture.Category")
}

// PlaceOrder snapshots furniture prices and writes the order with its items in one transaction.
// Repeated furniture ids are merged; any unknown furniture rejects the whole order.
func (s *OrderService) PlaceOrder(ctx context.Context, userID uint, in PlaceOrderInput) (*models.Order, error) {
	address := strings.TrimSpace(in.ShippingAddress)
	if address == "" {
		return nil, utils.NewValidationError("VALIDATION_ERROR", "Shipping address is required")
	}
	if len(in.Items) == 0 {
		return nil, utils.NewValidationError("VALIDATION_ERROR", "An order must contain at least one item")
	}

	quantities := make(map[uint]int)
	var ids []uint
	for _, item := range in.Items {
		if item.Quantity < 1 {
			return nil, utils.NewValidationError("VALIDATION_ERROR", "Quantity must be at least 1")
		}
		if item.Quantity > models.MaxItemQuantity {
			return nil, tooManyItems()
		}
		if _, seen := quantities[item.FurnitureID]; !seen {
			ids = append(ids, item.FurnitureID)
		}
		quantities[item.FurnitureID] += item.Quantity
		if quantities[item.FurnitureID] > models.MaxItemQuantity {
			return nil, tooManyItems()
		}
	}

	order := &models.Order{
		UserID:          userID,
		Status:          models.OrderStatusPending,
		ShippingAddress: address,
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var furniture []models.Furniture
		if err := tx.Where("id IN ?", ids).Find(&furniture).Error; err != nil {
			return utils.NewServerError("DATABASE_ERROR", "Failed to load furniture", err)
		}
		prices := make(map[uint]decimal.Decimal, len(furniture))
		for _, f := range furniture {
			prices[f.ID] = f.Price
		}

		total := decimal.Zero
		items := make([]models.OrderItem, 0, len(ids))
		for _, id := range ids {
			price, ok := prices[id]
			if !ok {
				return utils.NewNotFoundError("FURNITURE_NOT_FOUND", fmt.Sprintf("Furniture %d not found", id))
			}
			item := models.OrderItem{
				FurnitureID:     id,
				Quantity:        quantities[id],
				PriceAtPurchase: price,
			}
			total = total.Add(item.LineTotal())
			items = append(items, item)
		}
		order.TotalPrice = total.Round(2)
		if order.TotalPrice.GreaterThanOrEqual(models.MaxMoney) {
			return utils.NewValidationError("ORDER_TOO_LARGE",
				fmt.Sprintf("Order total must be below %s", models.MaxMoney.StringFixed(2)))
		}

		if err := tx.Omit(clause.Associations).Create(order).Error; err != nil {
			return utils.NewServerError("DATABASE_ERROR", "Failed to create order", err)
		}
		for i := range items {
			items[i].OrderID = order.ID
		}
		if err := tx.Omit(clause.Associations).Create(&items).Error; err != nil {
			return utils.NewServerError("DATABASE_ERROR", "Failed to create order items", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.GetOrder(ctx, userID, order.ID)
}

func tooManyItems() error {
	return utils.NewValidationError("INVALID_QUANTITY",
		fmt.Sprintf("Quantity per furniture cannot exceed %d", models.MaxItemQuantity))
}

// ListOrders returns the user's orders, newest first
func (s *OrderService) ListOrders(ctx context.Context, userID uint) ([]models.Order, error) {
	var orders []models.Order
	err := s.withDetails(s.db.WithContext(ctx)).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&orders).Error
	if err != nil {
		return nil, utils.NewServerError("DATABASE_ERROR", "Failed to fetch orders", err)
	}
	return orders, nil
}

// GetOrder returns one of the user's orders; other users' orders are reported as not found
func (s *OrderService) GetOrder(ctx context.Context, userID uint, orderID uuid.UUID) (*models.Order, error) {
	var order models.Order
	err := s.withDetails(s.db.WithContext(ctx)).
		Where("id = ? AND user_id = ?", orderID, userID).
		First(&order).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, utils.NewNotFoundError("ORDER_NOT_FOUND", "Order not found")
	}
	if err != nil {
		return nil, utils.NewServerError("DATABASE_ERROR", "Failed to fetch order", err)
	}
	return &order, nil
}

// UpdateOrder changes the status and/or shipping address of one of the user's orders
func (s *OrderService) UpdateOrder(ctx context.Context, userID uint, orderID uuid.UUID, in UpdateOrderInput) (*models.Order, error) {
	updates := make(map[string]interface{})
	if in.Status != nil {
		if !in.Status.Valid() {
			return nil, utils.NewValidationError("INVALID_STATUS", fmt.Sprintf("%q is not a valid order status", *in.Status))
		}
		updates["status"] = *in.Status
	}
	if in.ShippingAddress != nil {
		address := strings.TrimSpace(*in.ShippingAddress)
		if address == "" {
			return nil, utils.NewValidationError("VALIDATION_ERROR", "Shipping address cannot be empty")
		}
		updates["shipping_address"] = address
	}

	order, err := s.GetOrder(ctx, userID, orderID)
	if err != nil {
		return nil, err
	}
	if len(updates) == 0 {
		return order, nil
	}

	if err := s.db.WithContext(ctx).Model(&models.Order{}).Where("id = ?", order.ID).Updates(updates).Error; err != nil {
		return nil, utils.NewServerError("DATABASE_ERROR", "Failed to update order", err)
	}
	return s.GetOrder(ctx, userID, orderID)
}

// DeleteOrder removes one of the user's orders together with its items
func (s *OrderService) DeleteOrder(ctx context.Context, userID uint, orderID uuid.UUID) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("id = ? AND user_id = ?", orderID, userID).Delete(&models.Order{})
		if res.Error != nil {
			return utils.NewServerError("DATABASE_ERROR", "Failed to delete order", res.Error)
		}
		if res.RowsAffected == 0 {
			return utils.NewNotFoundError("ORDER_NOT_FOUND", "Order not found")
		}
		if err := tx.Where("order_id = ?", orderID).Delete(&models.OrderItem{}).Error; err != nil {
			return utils.NewServerError("DATABASE_ERROR", "Failed to delete order items", err)
		}
		return nil
	})
}
