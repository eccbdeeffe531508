package structs

import (
	"time"

	"github.com/shopspring/decimal"
)

type Cart struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"user_id"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type CartItem struct {
	ID          int64     `json:"id"`
	CartID      int64     `json:"cart_id"`
	ProductType string    `json:"product_type"`
	ProductID   int64     `json:"product_id"`
	Grams       int64     `json:"grams,omitempty"`
	Quantity    int64     `json:"quantity"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type AddCartItem struct {
	UserID      int64  `json:"user_id" binding:"required"`
	ProductType string `json:"product_type" binding:"required"`
	ProductID   int64  `json:"product_id" binding:"required"`
	Grams       int64  `json:"grams"`
	Quantity    int64  `json:"quantity" binding:"required"`
}

type UpdateCartItem struct {
	UserID   int64 `json:"user_id" binding:"required"`
	ItemID   int64 `json:"item_id" binding:"required"`
	Quantity int64 `json:"quantity"`
}

type DeleteCartItem struct {
	UserID int64 `json:"user_id" binding:"required"`
	ItemID int64 `json:"item_id" binding:"required"`
}

// CartLine is a cart item priced against the current catalog. Prices here are
// live: they move when the product tables move, unlike order line items which
// are frozen at checkout.
type CartLine struct {
	ItemID      int64           `json:"item_id"`
	ProductType string          `json:"product_type"`
	ProductID   int64           `json:"product_id"`
	ProductName string          `json:"product_name"`
	Grams       int64           `json:"grams,omitempty"`
	Quantity    int64           `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	TotalPrice  decimal.Decimal `json:"total_price"`
}

type CartView struct {
	CartID     int64           `json:"cart_id"`
	UserID     int64           `json:"user_id"`
	Lines      []CartLine      `json:"lines"`
	TotalItems int64           `json:"total_items"`
	TotalPrice decimal.Decimal `json:"total_price"`
}
