package structs

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	ProductTypeCoffee = "coffee"
	ProductTypeTea    = "tea"
	ProductTypeSyrup  = "syrup"
)

func NormalizeProductType(v string) (string, error) {
	switch v {
	case ProductTypeCoffee, ProductTypeTea, ProductTypeSyrup:
		return v, nil
	default:
		return "", ErrInvalidProductType
	}
}

// Product is the common view over the three catalog variants. A cart item
// references a product by (type, id) pair, not by a typed relation, so the
// resolver hands back this interface.
type Product interface {
	ProductID() int64
	ProductName() string
	Available() bool
	// PriceFor returns the price for the given weight in grams. Grams 0 means
	// "no size" and is only valid for syrups. The second return is false when
	// the variant has no price for that weight.
	PriceFor(grams int64) (decimal.Decimal, bool)
	// Sizes lists the allowed weights, nil for sizeless variants.
	Sizes() []int64
}

type Coffee struct {
	ID          int64           `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	CoffeeType  string          `json:"coffee_type"`
	Price250g   decimal.Decimal `json:"price_250g"`
	Price500g   decimal.Decimal `json:"price_500g"`
	Price1000g  decimal.Decimal `json:"price_1000g"`
	Acidity     int16           `json:"acidity"`
	Bitterness  int16           `json:"bitterness"`
	Intensity   int16           `json:"intensity"`
	IsAvailable bool            `json:"is_available"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

func (c Coffee) ProductID() int64    { return c.ID }
func (c Coffee) ProductName() string { return c.Name }
func (c Coffee) Available() bool     { return c.IsAvailable }
func (c Coffee) Sizes() []int64      { return []int64{250, 500, 1000} }

func (c Coffee) PriceFor(grams int64) (decimal.Decimal, bool) {
	switch grams {
	case 250:
		return c.Price250g, true
	case 500:
		return c.Price500g, true
	case 1000:
		return c.Price1000g, true
	}
	return decimal.Decimal{}, false
}

type Tea struct {
	ID          int64           `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	TeaType     string          `json:"tea_type"`
	Price100g   decimal.Decimal `json:"price_100g"`
	Price500g   decimal.Decimal `json:"price_500g"`
	IsAvailable bool            `json:"is_available"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

func (t Tea) ProductID() int64    { return t.ID }
func (t Tea) ProductName() string { return t.Name }
func (t Tea) Available() bool     { return t.IsAvailable }
func (t Tea) Sizes() []int64      { return []int64{100, 500} }

func (t Tea) PriceFor(grams int64) (decimal.Decimal, bool) {
	switch grams {
	case 100:
		return t.Price100g, true
	case 500:
		return t.Price500g, true
	}
	return decimal.Decimal{}, false
}

type Syrup struct {
	ID           int64           `json:"id"`
	Name         string          `json:"name"`
	Description  string          `json:"description"`
	Manufacturer string          `json:"manufacturer"`
	Price        decimal.Decimal `json:"price"`
	IsAvailable  bool            `json:"is_available"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

func (s Syrup) ProductID() int64    { return s.ID }
func (s Syrup) ProductName() string { return s.Name }
func (s Syrup) Available() bool     { return s.IsAvailable }
func (s Syrup) Sizes() []int64      { return nil }

func (s Syrup) PriceFor(grams int64) (decimal.Decimal, bool) {
	if grams != 0 {
		return decimal.Decimal{}, false
	}
	return s.Price, true
}

type Menu struct {
	Coffees []Coffee `json:"coffees"`
	Teas    []Tea    `json:"teas"`
	Syrups  []Syrup  `json:"syrups"`
}
