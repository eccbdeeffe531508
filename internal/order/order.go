package order

import (
	"context"
	"errors"
	"time"

	"brewhouse/internal/catalog"
	"brewhouse/internal/notify"
	"brewhouse/internal/phone"
	"brewhouse/internal/structs"
	"brewhouse/pkg/logger"
	cartRepo "brewhouse/pkg/repository/postgres/cart_repo"
	orderRepo "brewhouse/pkg/repository/postgres/order_repo"

	"github.com/shopspring/decimal"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var (
	Module = fx.Provide(New)
)

const notifyTimeout = 30 * time.Second

type (
	Params struct {
		fx.In
		OrderRepo  orderRepo.Repo
		CartRepo   cartRepo.Repo
		Catalog    catalog.Service
		Dispatcher notify.Dispatcher
		Logger     logger.Logger
	}

	Service interface {
		Checkout(ctx context.Context, req structs.Checkout) (structs.Order, error)
		GetByID(ctx context.Context, id string) (structs.Order, error)
		GetList(ctx context.Context, req structs.GetListOrderRequest) (structs.GetListOrderResponse, error)
		UpdateStatus(ctx context.Context, req structs.UpdateOrderStatus) error
		Delete(ctx context.Context, id string) error
	}

	service struct {
		orderRepo  orderRepo.Repo
		cartRepo   cartRepo.Repo
		catalog    catalog.Service
		dispatcher notify.Dispatcher
		logger     logger.Logger
	}
)

func New(p Params) Service {
	return &service{
		orderRepo:  p.OrderRepo,
		cartRepo:   p.CartRepo,
		catalog:    p.Catalog,
		dispatcher: p.Dispatcher,
		logger:     p.Logger,
	}
}

// Checkout snapshots the user's active cart into an immutable order. The
// total and every line item are priced at this instant and frozen; the cart
// is deactivated in the same transaction as the order insert.
func (s *service) Checkout(ctx context.Context, req structs.Checkout) (structs.Order, error) {
	if !phone.HasDigit(req.Phone) {
		return structs.Order{}, structs.ErrInvalidPhone
	}

	carts, err := s.cartRepo.GetActiveByUserID(ctx, req.UserID)
	if err != nil {
		s.logger.Error(ctx, "->cartRepo.GetActiveByUserID", zap.Error(err))
		return structs.Order{}, err
	}
	if len(carts) == 0 {
		return structs.Order{}, structs.ErrEmptyCart
	}
	cart := carts[0]

	items, err := s.cartRepo.GetItems(ctx, cart.ID)
	if err != nil {
		s.logger.Error(ctx, "->cartRepo.GetItems", zap.Error(err))
		return structs.Order{}, err
	}
	if len(items) == 0 {
		return structs.Order{}, structs.ErrEmptyCart
	}

	orderItems, total, err := s.priceItems(ctx, items)
	if err != nil {
		return structs.Order{}, err
	}
	if len(orderItems) == 0 {
		// every line pointed at a product that no longer exists
		return structs.Order{}, structs.ErrEmptyCart
	}

	order := structs.Order{
		UserID:     req.UserID,
		CartID:     cart.ID,
		FirstName:  req.FirstName,
		LastName:   req.LastName,
		Phone:      storedPhone(req.Phone),
		Email:      req.Email,
		TotalPrice: total,
		Items:      orderItems,
	}

	created, err := s.orderRepo.CreateCheckout(ctx, order)
	if err != nil {
		if errors.Is(err, structs.ErrUniqueViolation) {
			// retryable: nothing was written, the caller should just try again
			return structs.Order{}, err
		}
		s.logger.Error(ctx, "->orderRepo.CreateCheckout", zap.Error(err))
		return structs.Order{}, err
	}

	// notification is best-effort and outside the transaction: its outcome
	// is logged and never fails the checkout
	go s.notifyCreated(created)

	return created, nil
}

// priceItems freezes the cart lines at their current catalog prices. Lines
// whose product vanished since they were added are dropped with a warning.
func (s *service) priceItems(ctx context.Context, items []structs.CartItem) ([]structs.OrderItem, decimal.Decimal, error) {
	var (
		orderItems []structs.OrderItem
		total      = decimal.Zero
	)

	for _, it := range items {
		product, err := s.catalog.Resolve(ctx, it.ProductType, it.ProductID)
		if err != nil {
			if errors.Is(err, structs.ErrNotFound) {
				s.logger.Warn(ctx, "skipping cart line with deleted product",
					zap.String("product_type", it.ProductType),
					zap.Int64("product_id", it.ProductID),
				)
				continue
			}
			s.logger.Error(ctx, "->catalog.Resolve", zap.Error(err))
			return nil, decimal.Zero, err
		}

		unit, ok := product.PriceFor(it.Grams)
		if !ok {
			return nil, decimal.Zero, structs.ErrInvalidSize
		}

		lineTotal := unit.Mul(decimal.NewFromInt(it.Quantity))
		orderItems = append(orderItems, structs.OrderItem{
			ProductType: it.ProductType,
			ProductID:   it.ProductID,
			ProductName: product.ProductName(),
			Grams:       it.Grams,
			Quantity:    it.Quantity,
			UnitPrice:   unit,
			TotalPrice:  lineTotal,
		})
		total = total.Add(lineTotal)
	}

	return orderItems, total, nil
}

// storedPhone prefers the canonical form so lookups match across the varied
// formats customers type; raw input is kept when it does not normalize,
// since checkout only requires a digit.
func storedPhone(raw string) string {
	if canonical, err := phone.Normalize(raw); err == nil {
		return canonical
	}
	return raw
}

func (s *service) notifyCreated(order structs.Order) {
	ctx, cancel := context.WithTimeout(context.Background(), notifyTimeout)
	defer cancel()
	ctx = s.logger.Context(ctx)

	res := s.dispatcher.OrderCreated(ctx, order)
	if !res.Ok() {
		s.logger.Warn(ctx, "order notification incomplete",
			zap.String("order_id", order.ID),
			zap.NamedError("customer", res.CustomerErr),
			zap.NamedError("owner", res.OwnerErr),
		)
		return
	}
	s.logger.Info(ctx, "order notifications sent", zap.String("order_id", order.ID))
}

func (s *service) GetByID(ctx context.Context, id string) (structs.Order, error) {
	order, err := s.orderRepo.GetByID(ctx, id)
	if err != nil {
		if !errors.Is(err, structs.ErrNotFound) {
			s.logger.Error(ctx, "->orderRepo.GetByID", zap.Error(err))
		}
		return structs.Order{}, err
	}
	return order, nil
}

func (s *service) GetList(ctx context.Context, req structs.GetListOrderRequest) (structs.GetListOrderResponse, error) {
	if req.Status != "" {
		status, err := structs.NormalizeOrderStatus(req.Status)
		if err != nil {
			return structs.GetListOrderResponse{}, err
		}
		req.Status = status
	}

	resp, err := s.orderRepo.GetList(ctx, req)
	if err != nil {
		s.logger.Error(ctx, "->orderRepo.GetList", zap.Error(err))
		return structs.GetListOrderResponse{}, err
	}
	return resp, nil
}

func (s *service) UpdateStatus(ctx context.Context, req structs.UpdateOrderStatus) error {
	status, err := structs.NormalizeOrderStatus(req.Status)
	if err != nil {
		return err
	}
	req.Status = status

	if err := s.orderRepo.UpdateStatus(ctx, req); err != nil {
		if !errors.Is(err, structs.ErrNotFound) {
			s.logger.Error(ctx, "->orderRepo.UpdateStatus", zap.Error(err))
		}
		return err
	}
	return nil
}

func (s *service) Delete(ctx context.Context, id string) error {
	if err := s.orderRepo.Delete(ctx, id); err != nil {
		if !errors.Is(err, structs.ErrNotFound) {
			s.logger.Error(ctx, "->orderRepo.Delete", zap.Error(err))
		}
		return err
	}
	return nil
}
