package lookup

import (
	"context"
	"errors"
	"fmt"

	"brewhouse/internal/phone"
	"brewhouse/internal/structs"
	"brewhouse/pkg/logger"
	orderRepo "brewhouse/pkg/repository/postgres/order_repo"
	tguserRepo "brewhouse/pkg/repository/postgres/tguser_repo"

	"go.uber.org/fx"
	"go.uber.org/zap"
)

var (
	Module = fx.Provide(New)
)

const (
	recentOrdersLimit = 5
	createdAtLayout   = "02.01.2006 15:04"
)

type (
	Params struct {
		fx.In
		OrderRepo  orderRepo.Repo
		TgUserRepo tguserRepo.Repo
		Logger     logger.Logger
	}

	Service interface {
		FindRecentOrders(ctx context.Context, req structs.LookupRequest) (structs.LookupResponse, error)
	}

	service struct {
		orderRepo  orderRepo.Repo
		tgUserRepo tguserRepo.Repo
		logger     logger.Logger
	}
)

func New(p Params) Service {
	return &service{
		orderRepo:  p.OrderRepo,
		tgUserRepo: p.TgUserRepo,
		logger:     p.Logger,
	}
}

// FindRecentOrders resolves the caller's phone to its canonical form and
// returns up to five newest orders stored under it. Zero matches is a normal
// outcome carried in the response, not an error. When the request carries a
// Telegram chat id the phone-to-chat link is recorded as a side effect.
func (s *service) FindRecentOrders(ctx context.Context, req structs.LookupRequest) (structs.LookupResponse, error) {
	canonical, err := phone.Normalize(req.Phone)
	if err != nil {
		return structs.LookupResponse{}, err
	}

	if req.ChatID != 0 {
		s.rememberUser(ctx, canonical, req)
	}

	orders, err := s.orderRepo.GetRecentByPhone(ctx, canonical, recentOrdersLimit)
	if err != nil {
		s.logger.Error(ctx, "->orderRepo.GetRecentByPhone", zap.Error(err))
		return structs.LookupResponse{}, err
	}

	resp := structs.LookupResponse{
		Phone:            canonical,
		TotalOrdersFound: len(orders),
		Orders:           make([]structs.LookupOrder, 0, len(orders)),
	}
	if len(orders) == 0 {
		resp.Message = fmt.Sprintf("no orders found for %s", canonical)
		return resp, nil
	}

	for _, o := range orders {
		items := make([]structs.LookupOrderItem, 0, len(o.Items))
		for _, it := range o.Items {
			items = append(items, structs.LookupOrderItem{
				ProductName: it.ProductName,
				Quantity:    it.Quantity,
				UnitPrice:   it.UnitPrice.StringFixed(2),
				TotalPrice:  it.TotalPrice.StringFixed(2),
			})
		}
		resp.Orders = append(resp.Orders, structs.LookupOrder{
			OrderID:    o.ID,
			CreatedAt:  o.CreatedAt.Format(createdAtLayout),
			Status:     structs.OrderStatusLabel(o.Status),
			TotalPrice: o.TotalPrice.StringFixed(2),
			Items:      items,
		})
	}

	return resp, nil
}

// rememberUser upserts the chat-to-phone link. Failures here never affect
// the lookup itself; concurrent upserts of the same keys lose the race to a
// unique index and are dropped.
func (s *service) rememberUser(ctx context.Context, canonical string, req structs.LookupRequest) {
	byChat, err := s.tgUserRepo.GetByChatID(ctx, req.ChatID)
	switch {
	case err == nil:
		if byChat.Phone == canonical {
			return
		}
		if err := s.tgUserRepo.UpdatePhone(ctx, req.ChatID, canonical); err != nil {
			s.warnUpsert(ctx, "UpdatePhone", err)
		}
		return
	case !errors.Is(err, structs.ErrNotFound):
		s.logger.Error(ctx, "->tgUserRepo.GetByChatID", zap.Error(err))
		return
	}

	byPhone, err := s.tgUserRepo.GetByPhone(ctx, canonical)
	switch {
	case err == nil:
		if byPhone.ChatID == req.ChatID {
			return
		}
		if err := s.tgUserRepo.UpdateChatID(ctx, canonical, req.ChatID); err != nil {
			s.warnUpsert(ctx, "UpdateChatID", err)
		}
		return
	case !errors.Is(err, structs.ErrNotFound):
		s.logger.Error(ctx, "->tgUserRepo.GetByPhone", zap.Error(err))
		return
	}

	err = s.tgUserRepo.Insert(ctx, structs.TelegramUser{
		Phone:     canonical,
		ChatID:    req.ChatID,
		FirstName: req.FirstName,
		LastName:  req.LastName,
	})
	if err != nil {
		s.warnUpsert(ctx, "Insert", err)
	}
}

func (s *service) warnUpsert(ctx context.Context, op string, err error) {
	if errors.Is(err, structs.ErrUniqueViolation) {
		s.logger.Warn(ctx, "telegram user upsert lost a race", zap.String("op", op))
		return
	}
	s.logger.Error(ctx, "->tgUserRepo."+op, zap.Error(err))
}
