package lookup

import (
	"context"
	"testing"
	"time"

	"brewhouse/internal/structs"
	"brewhouse/pkg/logger"
	orderRepo "brewhouse/pkg/repository/postgres/order_repo"
	tguserRepo "brewhouse/pkg/repository/postgres/tguser_repo"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeOrderRepo struct {
	byPhone map[string][]structs.Order
}

var _ orderRepo.Repo = (*fakeOrderRepo)(nil)

func (f *fakeOrderRepo) GetRecentByPhone(ctx context.Context, phone string, limit int64) ([]structs.Order, error) {
	orders := f.byPhone[phone]
	if int64(len(orders)) > limit {
		orders = orders[:limit]
	}
	return orders, nil
}

func (f *fakeOrderRepo) CreateCheckout(ctx context.Context, order structs.Order) (structs.Order, error) {
	return structs.Order{}, nil
}
func (f *fakeOrderRepo) GetByID(ctx context.Context, id string) (structs.Order, error) {
	return structs.Order{}, structs.ErrNotFound
}
func (f *fakeOrderRepo) GetList(ctx context.Context, req structs.GetListOrderRequest) (structs.GetListOrderResponse, error) {
	return structs.GetListOrderResponse{}, nil
}
func (f *fakeOrderRepo) UpdateStatus(ctx context.Context, req structs.UpdateOrderStatus) error {
	return structs.ErrNotFound
}
func (f *fakeOrderRepo) Delete(ctx context.Context, id string) error { return structs.ErrNotFound }

type fakeTgUserRepo struct {
	users []structs.TelegramUser
}

var _ tguserRepo.Repo = (*fakeTgUserRepo)(nil)

func (f *fakeTgUserRepo) GetByChatID(ctx context.Context, chatID int64) (structs.TelegramUser, error) {
	for _, u := range f.users {
		if u.ChatID == chatID {
			return u, nil
		}
	}
	return structs.TelegramUser{}, structs.ErrNotFound
}

func (f *fakeTgUserRepo) GetByPhone(ctx context.Context, phone string) (structs.TelegramUser, error) {
	for _, u := range f.users {
		if u.Phone == phone {
			return u, nil
		}
	}
	return structs.TelegramUser{}, structs.ErrNotFound
}

func (f *fakeTgUserRepo) UpdatePhone(ctx context.Context, chatID int64, phone string) error {
	for i := range f.users {
		if f.users[i].ChatID == chatID {
			f.users[i].Phone = phone
			return nil
		}
	}
	return structs.ErrNotFound
}

func (f *fakeTgUserRepo) UpdateChatID(ctx context.Context, phone string, chatID int64) error {
	for i := range f.users {
		if f.users[i].Phone == phone {
			f.users[i].ChatID = chatID
			return nil
		}
	}
	return structs.ErrNotFound
}

func (f *fakeTgUserRepo) Insert(ctx context.Context, req structs.TelegramUser) error {
	f.users = append(f.users, req)
	return nil
}

func testOrder(id string, created time.Time, total string) structs.Order {
	return structs.Order{
		ID:         id,
		Status:     structs.OrderStatusPending,
		TotalPrice: decimal.RequireFromString(total),
		CreatedAt:  created,
		Items: []structs.OrderItem{
			{
				ProductName: "Colombia Supremo",
				Quantity:    1,
				UnitPrice:   decimal.RequireFromString(total),
				TotalPrice:  decimal.RequireFromString(total),
			},
		},
	}
}

func newTestService(t *testing.T) (Service, *fakeOrderRepo, *fakeTgUserRepo) {
	t.Helper()

	orders := &fakeOrderRepo{byPhone: map[string][]structs.Order{}}
	users := &fakeTgUserRepo{}
	svc := New(Params{
		OrderRepo:  orders,
		TgUserRepo: users,
		Logger:     logger.New("error"),
	})
	return svc, orders, users
}

func TestFindRecentOrdersFormatsResponse(t *testing.T) {
	svc, orders, _ := newTestService(t)
	ctx := context.Background()

	created := time.Date(2026, 8, 30, 14, 5, 0, 0, time.UTC)
	orders.byPhone["+375291234567"] = []structs.Order{testOrder("ord-1", created, "25.50")}

	resp, err := svc.FindRecentOrders(ctx, structs.LookupRequest{Phone: "80291234567"})
	require.NoError(t, err)

	assert.Equal(t, "+375291234567", resp.Phone)
	assert.Equal(t, 1, resp.TotalOrdersFound)
	assert.Empty(t, resp.Message)
	require.Len(t, resp.Orders, 1)

	got := resp.Orders[0]
	assert.Equal(t, "ord-1", got.OrderID)
	assert.Equal(t, "30.08.2026 14:05", got.CreatedAt)
	assert.Equal(t, "Pending", got.Status)
	assert.Equal(t, "25.50", got.TotalPrice)
	require.Len(t, got.Items, 1)
	assert.Equal(t, "Colombia Supremo", got.Items[0].ProductName)
	assert.Equal(t, "25.50", got.Items[0].UnitPrice)
}

func TestFindRecentOrdersCapsAtFive(t *testing.T) {
	svc, orders, _ := newTestService(t)
	ctx := context.Background()

	now := time.Now()
	for i := 0; i < 8; i++ {
		orders.byPhone["+375291234567"] = append(orders.byPhone["+375291234567"],
			testOrder("ord", now.Add(-time.Duration(i)*time.Hour), "10.00"))
	}

	resp, err := svc.FindRecentOrders(ctx, structs.LookupRequest{Phone: "+375291234567"})
	require.NoError(t, err)
	assert.Equal(t, 5, resp.TotalOrdersFound)
	assert.Len(t, resp.Orders, 5)
}

func TestFindRecentOrdersNoMatchesIsNotAnError(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	resp, err := svc.FindRecentOrders(ctx, structs.LookupRequest{Phone: "+375291234567"})
	require.NoError(t, err)

	assert.Zero(t, resp.TotalOrdersFound)
	assert.NotEmpty(t, resp.Message)
	assert.Empty(t, resp.Orders)
}

func TestFindRecentOrdersRejectsBadPhone(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.FindRecentOrders(ctx, structs.LookupRequest{Phone: "not a phone"})
	assert.ErrorIs(t, err, structs.ErrInvalidPhone)
}

func TestFindRecentOrdersRemembersTelegramUser(t *testing.T) {
	svc, _, users := newTestService(t)
	ctx := context.Background()

	_, err := svc.FindRecentOrders(ctx, structs.LookupRequest{
		Phone:     "80291234567",
		ChatID:    777,
		FirstName: "Anna",
	})
	require.NoError(t, err)

	require.Len(t, users.users, 1)
	assert.Equal(t, "+375291234567", users.users[0].Phone)
	assert.Equal(t, int64(777), users.users[0].ChatID)
}

func TestFindRecentOrdersRelinksPhone(t *testing.T) {
	svc, _, users := newTestService(t)
	ctx := context.Background()

	users.users = []structs.TelegramUser{{Phone: "+79161234567", ChatID: 777}}

	// same chat, new phone: the chat's link moves to the new number
	_, err := svc.FindRecentOrders(ctx, structs.LookupRequest{Phone: "+375291234567", ChatID: 777})
	require.NoError(t, err)

	require.Len(t, users.users, 1)
	assert.Equal(t, "+375291234567", users.users[0].Phone)
}

func TestFindRecentOrdersRelinksChat(t *testing.T) {
	svc, _, users := newTestService(t)
	ctx := context.Background()

	users.users = []structs.TelegramUser{{Phone: "+375291234567", ChatID: 111}}

	// known phone from a new chat: the phone's link moves to the new chat
	_, err := svc.FindRecentOrders(ctx, structs.LookupRequest{Phone: "+375291234567", ChatID: 222})
	require.NoError(t, err)

	require.Len(t, users.users, 1)
	assert.Equal(t, int64(222), users.users[0].ChatID)
}

func TestFindRecentOrdersWithoutChatIDSkipsUpsert(t *testing.T) {
	svc, _, users := newTestService(t)
	ctx := context.Background()

	_, err := svc.FindRecentOrders(ctx, structs.LookupRequest{Phone: "+375291234567"})
	require.NoError(t, err)
	assert.Empty(t, users.users)
}
