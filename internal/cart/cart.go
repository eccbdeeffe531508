package cart

import (
	"context"
	"errors"
	"slices"

	"brewhouse/internal/catalog"
	"brewhouse/internal/structs"
	"brewhouse/pkg/config"
	"brewhouse/pkg/logger"
	cartRepo "brewhouse/pkg/repository/postgres/cart_repo"

	"github.com/shopspring/decimal"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var (
	Module = fx.Provide(New)
)

// placeholder shown for lines whose product has been deleted from the catalog
const missingProductName = "item not found"

type (
	Params struct {
		fx.In
		CartRepo cartRepo.Repo
		Catalog  catalog.Service
		Config   config.IConfig
		Logger   logger.Logger
	}

	Service interface {
		GetOrCreateActive(ctx context.Context, userID int64) (structs.Cart, error)
		AddItem(ctx context.Context, req structs.AddCartItem) error
		UpdateQuantity(ctx context.Context, req structs.UpdateCartItem) error
		RemoveItem(ctx context.Context, req structs.DeleteCartItem) error
		Clear(ctx context.Context, userID int64) error
		View(ctx context.Context, userID int64) (structs.CartView, error)
	}

	service struct {
		cartRepo    cartRepo.Repo
		catalog     catalog.Service
		logger      logger.Logger
		maxQuantity int64
	}
)

func New(p Params) Service {
	return &service{
		cartRepo:    p.CartRepo,
		catalog:     p.Catalog,
		logger:      p.Logger,
		maxQuantity: p.Config.GetInt64("cart.max_quantity"),
	}
}

// GetOrCreateActive resolves the user's single active cart. Multiple active
// carts can exist after a create race; the newest one is canonical and the
// rest are deactivated here, so the read path self-heals.
func (s *service) GetOrCreateActive(ctx context.Context, userID int64) (structs.Cart, error) {
	carts, err := s.cartRepo.GetActiveByUserID(ctx, userID)
	if err != nil {
		s.logger.Error(ctx, "->cartRepo.GetActiveByUserID", zap.Error(err))
		return structs.Cart{}, err
	}

	if len(carts) == 0 {
		cart, err := s.cartRepo.Create(ctx, userID)
		if err != nil {
			s.logger.Error(ctx, "->cartRepo.Create", zap.Error(err))
			return structs.Cart{}, err
		}
		return cart, nil
	}

	if len(carts) > 1 {
		stale := make([]int64, 0, len(carts)-1)
		for _, c := range carts[1:] {
			stale = append(stale, c.ID)
		}
		s.logger.Warn(ctx, "collapsing duplicate active carts",
			zap.Int64("user_id", userID),
			zap.Int64s("deactivated", stale),
		)
		if err := s.cartRepo.Deactivate(ctx, stale); err != nil {
			s.logger.Error(ctx, "->cartRepo.Deactivate", zap.Error(err))
			return structs.Cart{}, err
		}
	}

	return carts[0], nil
}

func (s *service) AddItem(ctx context.Context, req structs.AddCartItem) error {
	if req.Quantity < 1 || req.Quantity > s.maxQuantity {
		return structs.ErrInvalidQuantity
	}

	product, err := s.catalog.Resolve(ctx, req.ProductType, req.ProductID)
	if err != nil {
		if errors.Is(err, structs.ErrNotFound) || errors.Is(err, structs.ErrInvalidProductType) {
			return err
		}
		s.logger.Error(ctx, "->catalog.Resolve", zap.Error(err))
		return err
	}

	if !product.Available() {
		return structs.ErrProductUnavailable
	}

	if err := validateSize(product, req.Grams); err != nil {
		return err
	}

	cart, err := s.GetOrCreateActive(ctx, req.UserID)
	if err != nil {
		return err
	}

	if err := s.cartRepo.UpsertItem(ctx, cart.ID, req); err != nil {
		// the loser of a duplicate-insert race is harmless: the winner's
		// row is already there and the next read sees it
		if errors.Is(err, structs.ErrUniqueViolation) {
			s.logger.Warn(ctx, "cart item insert lost a race, ignoring", zap.Any("req", req))
			return nil
		}
		s.logger.Error(ctx, "->cartRepo.UpsertItem", zap.Error(err))
		return err
	}

	return nil
}

// validateSize enforces the size rules of the product's variant: sized
// products require one of their discrete weights, sizeless products reject
// any weight.
func validateSize(product structs.Product, grams int64) error {
	sizes := product.Sizes()
	if len(sizes) == 0 {
		if grams != 0 {
			return structs.ErrInvalidSize
		}
		return nil
	}
	if !slices.Contains(sizes, grams) {
		return structs.ErrInvalidSize
	}
	return nil
}

// UpdateQuantity replaces a line item's quantity; zero removes the line.
func (s *service) UpdateQuantity(ctx context.Context, req structs.UpdateCartItem) error {
	if req.Quantity < 0 || req.Quantity > s.maxQuantity {
		return structs.ErrInvalidQuantity
	}

	if req.Quantity == 0 {
		return s.RemoveItem(ctx, structs.DeleteCartItem{UserID: req.UserID, ItemID: req.ItemID})
	}

	affected, err := s.cartRepo.UpdateItemQuantity(ctx, req.UserID, req.ItemID, req.Quantity)
	if err != nil {
		s.logger.Error(ctx, "->cartRepo.UpdateItemQuantity", zap.Error(err))
		return err
	}
	if affected == 0 {
		// absent and not-owned look identical to the caller
		return structs.ErrNotFound
	}
	return nil
}

func (s *service) RemoveItem(ctx context.Context, req structs.DeleteCartItem) error {
	affected, err := s.cartRepo.DeleteItem(ctx, req.UserID, req.ItemID)
	if err != nil {
		s.logger.Error(ctx, "->cartRepo.DeleteItem", zap.Error(err))
		return err
	}
	if affected == 0 {
		return structs.ErrNotFound
	}
	return nil
}

func (s *service) Clear(ctx context.Context, userID int64) error {
	if err := s.cartRepo.ClearActive(ctx, userID); err != nil {
		s.logger.Error(ctx, "->cartRepo.ClearActive", zap.Error(err))
		return err
	}
	return nil
}

// View prices the cart against the current catalog. Totals are always
// derived here, never read from storage.
func (s *service) View(ctx context.Context, userID int64) (structs.CartView, error) {
	cart, err := s.GetOrCreateActive(ctx, userID)
	if err != nil {
		return structs.CartView{}, err
	}

	items, err := s.cartRepo.GetItems(ctx, cart.ID)
	if err != nil {
		s.logger.Error(ctx, "->cartRepo.GetItems", zap.Error(err))
		return structs.CartView{}, err
	}

	view := structs.CartView{
		CartID:     cart.ID,
		UserID:     userID,
		TotalPrice: decimal.Zero,
	}

	for _, it := range items {
		line := structs.CartLine{
			ItemID:      it.ID,
			ProductType: it.ProductType,
			ProductID:   it.ProductID,
			Grams:       it.Grams,
			Quantity:    it.Quantity,
			UnitPrice:   decimal.Zero,
			TotalPrice:  decimal.Zero,
			ProductName: missingProductName,
		}

		product, err := s.catalog.Resolve(ctx, it.ProductType, it.ProductID)
		switch {
		case err == nil:
			line.ProductName = product.ProductName()
			if unit, ok := product.PriceFor(it.Grams); ok {
				line.UnitPrice = unit
				line.TotalPrice = unit.Mul(decimal.NewFromInt(it.Quantity))
			}
		case errors.Is(err, structs.ErrNotFound):
			s.logger.Warn(ctx, "cart references a deleted product",
				zap.String("product_type", it.ProductType),
				zap.Int64("product_id", it.ProductID),
			)
		default:
			s.logger.Error(ctx, "->catalog.Resolve", zap.Error(err))
			return structs.CartView{}, err
		}

		view.Lines = append(view.Lines, line)
		view.TotalItems += it.Quantity
		view.TotalPrice = view.TotalPrice.Add(line.TotalPrice)
	}

	return view, nil
}
