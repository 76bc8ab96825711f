package domain

import (
	"fmt"
	"time"
)

// Order status values.
const (
	OrderStatusPending   = "pending"
	OrderStatusConfirmed = "confirmed"
	OrderStatusFailed    = "failed"
)

// OrderItem is a snapshot of a cart line at the moment payment was requested.
type OrderItem struct {
	ProductID   string `json:"product_id"`
	ProductName string `json:"product_name"`
	Size        string `json:"size"`
	Color       string `json:"color"`
	Quantity    int    `json:"quantity"`
	UnitPrice   int64  `json:"unit_price"`
	LineTotal   int64  `json:"line_total"`
}

// Order is the conceptual order built from the selected cart subset for
// summary and confirmation display. It is not persisted here; persistence
// belongs to the external order-management collaborator.
type Order struct {
	ID          string      `json:"id"`
	Name        string      `json:"name"`
	Status      string      `json:"status"`
	Items       []OrderItem `json:"items"`
	Subtotal    int64       `json:"subtotal"`
	Shipping    int64       `json:"shipping"`
	TotalAmount int64       `json:"total_amount"`
	CreatedAt   time.Time   `json:"created_at"`
}

// OrderName derives the display name for an order from its items: the first
// item's product name, suffixed with a count when more than one distinct
// product is included (e.g. "Classic White Tee 외 2건").
func OrderName(items []CartItem) string {
	if len(items) == 0 {
		return ""
	}

	distinct := make(map[string]struct{}, len(items))
	for _, item := range items {
		distinct[item.Product.ID] = struct{}{}
	}

	if len(distinct) > 1 {
		return fmt.Sprintf("%s 외 %d건", items[0].Product.Name, len(distinct)-1)
	}
	return items[0].Product.Name
}

// NewOrder snapshots the given cart items into a pending order.
func NewOrder(id string, items []CartItem, summary CartSummary) Order {
	orderItems := make([]OrderItem, 0, len(items))
	for _, item := range items {
		orderItems = append(orderItems, OrderItem{
			ProductID:   item.Product.ID,
			ProductName: item.Product.Name,
			Size:        item.Size,
			Color:       item.Color,
			Quantity:    item.Quantity,
			UnitPrice:   item.Product.Price,
			LineTotal:   item.LineTotal(),
		})
	}

	return Order{
		ID:          id,
		Name:        OrderName(items),
		Status:      OrderStatusPending,
		Items:       orderItems,
		Subtotal:    summary.Subtotal,
		Shipping:    summary.ShippingCost,
		TotalAmount: summary.TotalAmount,
		CreatedAt:   time.Now(),
	}
}
