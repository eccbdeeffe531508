package structs

import "time"

// TelegramUser maps a canonical phone number to a Telegram chat. Both keys
// are unique; a chat may re-enter a new phone and a phone may be re-linked
// to a new chat, last write wins on whichever key matched first.
type TelegramUser struct {
	ID        int64     `json:"id"`
	Phone     string    `json:"phone"`
	ChatID    int64     `json:"chat_id"`
	FirstName string    `json:"first_name,omitempty"`
	LastName  string    `json:"last_name,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type LookupRequest struct {
	Phone     string `json:"phone_number" binding:"required"`
	ChatID    int64  `json:"telegram_chat_id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

type LookupOrderItem struct {
	ProductName string `json:"product_name"`
	Quantity    int64  `json:"quantity"`
	UnitPrice   string `json:"unit_price"`
	TotalPrice  string `json:"total_price"`
}

type LookupOrder struct {
	OrderID    string            `json:"order_id"`
	CreatedAt  string            `json:"created_at"`
	Status     string            `json:"status"`
	TotalPrice string            `json:"total_price"`
	Items      []LookupOrderItem `json:"items"`
}

// LookupResponse is the single canonical wire shape of the customer-orders
// endpoint. Orders are keyed by order_id.
type LookupResponse struct {
	Phone            string        `json:"phone_number"`
	TotalOrdersFound int           `json:"total_orders_found"`
	Message          string        `json:"message,omitempty"`
	Orders           []LookupOrder `json:"orders"`
}
