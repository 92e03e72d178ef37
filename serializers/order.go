package serializers

import (
	"time"

	"github.com/kendall-kelly/furniture-store-api/models"
)

// OrderItem is one line of an order
type OrderItem struct {
	ID              uint      `json:"id"`
	Furniture       Furniture `json:"furniture"`
	Quantity        int       `json:"quantity"`
	PriceAtPurchase string    `json:"price_at_purchase"`
}

// Order is an order with its owner and items
type Order struct {
	ID              string      `json:"id"`
	User            User        `json:"user"`
	Status          string      `json:"status"`
	TotalPrice      string      `json:"total_price"`
	ShippingAddress string      `json:"shipping_address"`
	CreatedAt       time.Time   `json:"created_at"`
	UpdatedAt       time.Time   `json:"updated_at"`
	Items           []OrderItem `json:"items"`
}

// NewOrder expects the user and the items' furniture to be loaded
func NewOrder(o *models.Order, fc FurnitureContext) Order {
	items := make([]OrderItem, 0, len(o.Items))
	for i := range o.Items {
		item := &o.Items[i]
		items = append(items, OrderItem{
			ID:              item.ID,
			Furniture:       NewFurniture(&item.Furniture, fc),
			Quantity:        item.Quantity,
			PriceAtPurchase: Money(item.PriceAtPurchase),
		})
	}

	return Order{
		ID:              o.ID.String(),
		User:            NewUser(&o.User),
		Status:          string(o.Status),
		TotalPrice:      Money(o.TotalPrice),
		ShippingAddress: o.ShippingAddress,
		CreatedAt:       o.CreatedAt,
		UpdatedAt:       o.UpdatedAt,
		Items:           items,
	}
}

// NewOrders renders a list of orders
func NewOrders(orders []models.Order, fc FurnitureContext) []Order {
	out := make([]Order, 0, len(orders))
	for i := range orders {
		out = append(out, NewOrder(&orders[i], fc))
	}
	return out
}

// FurnitureIDs collects the distinct furniture ids referenced by orders
func FurnitureIDs(orders ...*models.Order) []uint {
	seen := make(map[uint]bool)
	var ids []uint
	for _, o := range orders {
		for _, item := range o.Items {
			if !seen[item.FurnitureID] {
				seen[item.FurnitureID] = true
				ids = append(ids, item.FurnitureID)
			}
		}
	}
	return ids
}
