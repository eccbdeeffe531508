package structs

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const (
	OrderStatusPending   = "PENDING"
	OrderStatusConfirmed = "CONFIRMED"
	OrderStatusShipped   = "SHIPPED"
	OrderStatusDelivered = "DELIVERED"
	OrderStatusCancelled = "CANCELLED"
)

var orderStatusLabels = map[string]string{
	OrderStatusPending:   "Pending",
	OrderStatusConfirmed: "Confirmed",
	OrderStatusShipped:   "Shipped",
	OrderStatusDelivered: "Delivered",
	OrderStatusCancelled: "Cancelled",
}

func NormalizeOrderStatus(v string) (string, error) {
	s := strings.TrimSpace(strings.ToUpper(v))
	if _, ok := orderStatusLabels[s]; !ok {
		return "", ErrInvalidOrderStatus
	}
	return s, nil
}

// OrderStatusLabel returns the human-readable form of a status, falling back
// to the raw value for anything unknown.
func OrderStatusLabel(status string) string {
	if label, ok := orderStatusLabels[status]; ok {
		return label
	}
	return status
}

type Order struct {
	ID         string          `json:"id"`
	UserID     int64           `json:"user_id"`
	CartID     int64           `json:"cart_id"`
	FirstName  string          `json:"first_name"`
	LastName   string          `json:"last_name"`
	Phone      string          `json:"phone"`
	Email      string          `json:"email"`
	Status     string          `json:"status"`
	TotalPrice decimal.Decimal `json:"total_price"`
	Items      []OrderItem     `json:"items"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`
}

// OrderItem is a line item frozen at checkout time. Name and prices are the
// ones the customer actually paid, regardless of later catalog edits.
type OrderItem struct {
	ID          int64           `json:"id"`
	OrderID     string          `json:"order_id"`
	ProductType string          `json:"product_type"`
	ProductID   int64           `json:"product_id"`
	ProductName string          `json:"product_name"`
	Grams       int64           `json:"grams,omitempty"`
	Quantity    int64           `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	TotalPrice  decimal.Decimal `json:"total_price"`
}

type Checkout struct {
	UserID    int64  `json:"user_id" binding:"required"`
	FirstName string `json:"first_name" binding:"required"`
	LastName  string `json:"last_name" binding:"required"`
	Phone     string `json:"phone" binding:"required"`
	Email     string `json:"email" binding:"required,email"`
}

type GetListOrderRequest struct {
	Limit  int64  `json:"limit"`
	Offset int64  `json:"offset"`
	Status string `json:"status"`
	Phone  string `json:"phone"`
}

type GetListOrderResponse struct {
	Count  int64   `json:"count"`
	Orders []Order `json:"orders"`
}

type UpdateOrderStatus struct {
	OrderID string `json:"order_id" binding:"required"`
	Status  string `json:"status" binding:"required"`
}
