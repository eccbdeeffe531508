package structs

import "errors"

var (
	ErrBadRequest      = errors.New("bad request")
	ErrNoRowsAffected  = errors.New("no rows affected")
	ErrNotFound        = errors.New("no rows in result set")
	ErrUniqueViolation = errors.New("unique violation error")

	ErrInvalidProductType = errors.New("invalid product type")
	ErrProductUnavailable = errors.New("product is not available")
	ErrInvalidSize        = errors.New("invalid size for product")
	ErrInvalidQuantity    = errors.New("invalid quantity")
	ErrEmptyCart          = errors.New("cart is empty")
	ErrInvalidPhone       = errors.New("invalid phone number")
	ErrInvalidOrderStatus = errors.New("invalid order status")
)
