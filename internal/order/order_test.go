package order

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"brewhouse/internal/catalog"
	"brewhouse/internal/notify"
	"brewhouse/internal/structs"
	"brewhouse/pkg/logger"
	cartRepo "brewhouse/pkg/repository/postgres/cart_repo"
	orderRepo "brewhouse/pkg/repository/postgres/order_repo"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeOrderRepo struct {
	mu          sync.Mutex
	orders      map[string]structs.Order
	checkoutErr error
	deactivated []int64
}

var _ orderRepo.Repo = (*fakeOrderRepo)(nil)

func newFakeOrderRepo() *fakeOrderRepo {
	return &fakeOrderRepo{orders: map[string]structs.Order{}}
}

func (f *fakeOrderRepo) CreateCheckout(ctx context.Context, order structs.Order) (structs.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.checkoutErr != nil {
		return structs.Order{}, f.checkoutErr
	}
	order.ID = uuid.NewString()
	order.Status = structs.OrderStatusPending
	order.CreatedAt = time.Now()
	order.UpdatedAt = order.CreatedAt
	f.orders[order.ID] = order
	f.deactivated = append(f.deactivated, order.CartID)
	return order, nil
}

func (f *fakeOrderRepo) GetByID(ctx context.Context, id string) (structs.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	o, ok := f.orders[id]
	if !ok {
		return structs.Order{}, structs.ErrNotFound
	}
	return o, nil
}

func (f *fakeOrderRepo) GetList(ctx context.Context, req structs.GetListOrderRequest) (structs.GetListOrderResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var resp structs.GetListOrderResponse
	for _, o := range f.orders {
		if req.Status != "" && o.Status != req.Status {
			continue
		}
		resp.Orders = append(resp.Orders, o)
	}
	resp.Count = int64(len(resp.Orders))
	return resp, nil
}

func (f *fakeOrderRepo) GetRecentByPhone(ctx context.Context, phone string, limit int64) ([]structs.Order, error) {
	return nil, nil
}

func (f *fakeOrderRepo) UpdateStatus(ctx context.Context, req structs.UpdateOrderStatus) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	o, ok := f.orders[req.OrderID]
	if !ok {
		return structs.ErrNotFound
	}
	o.Status = req.Status
	f.orders[req.OrderID] = o
	return nil
}

func (f *fakeOrderRepo) Delete(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.orders[id]; !ok {
		return structs.ErrNotFound
	}
	delete(f.orders, id)
	return nil
}

type fakeCartRepo struct {
	carts []structs.Cart
	items []structs.CartItem
}

var _ cartRepo.Repo = (*fakeCartRepo)(nil)

func (f *fakeCartRepo) GetActiveByUserID(ctx context.Context, userID int64) ([]structs.Cart, error) {
	var res []structs.Cart
	for _, c := range f.carts {
		if c.UserID == userID && c.IsActive {
			res = append(res, c)
		}
	}
	return res, nil
}

func (f *fakeCartRepo) Create(ctx context.Context, userID int64) (structs.Cart, error) {
	c := structs.Cart{ID: int64(len(f.carts) + 1), UserID: userID, IsActive: true}
	f.carts = append(f.carts, c)
	return c, nil
}

func (f *fakeCartRepo) Deactivate(ctx context.Context, cartIDs []int64) error { return nil }

func (f *fakeCartRepo) UpsertItem(ctx context.Context, cartID int64, req structs.AddCartItem) error {
	return nil
}

func (f *fakeCartRepo) GetItems(ctx context.Context, cartID int64) ([]structs.CartItem, error) {
	var res []structs.CartItem
	for _, it := range f.items {
		if it.CartID == cartID {
			res = append(res, it)
		}
	}
	return res, nil
}

func (f *fakeCartRepo) UpdateItemQuantity(ctx context.Context, userID, itemID, quantity int64) (int64, error) {
	return 0, nil
}

func (f *fakeCartRepo) DeleteItem(ctx context.Context, userID, itemID int64) (int64, error) {
	return 0, nil
}

func (f *fakeCartRepo) ClearActive(ctx context.Context, userID int64) error { return nil }

type fakeCatalog struct {
	products map[int64]structs.Product
}

var _ catalog.Service = (*fakeCatalog)(nil)

func (f *fakeCatalog) Resolve(ctx context.Context, productType string, id int64) (structs.Product, error) {
	if _, err := structs.NormalizeProductType(productType); err != nil {
		return nil, err
	}
	p, ok := f.products[id]
	if !ok {
		return nil, structs.ErrNotFound
	}
	return p, nil
}

func (f *fakeCatalog) Menu(ctx context.Context) (structs.Menu, error)           { return structs.Menu{}, nil }
func (f *fakeCatalog) ListCoffee(ctx context.Context) ([]structs.Coffee, error) { return nil, nil }
func (f *fakeCatalog) ListTea(ctx context.Context) ([]structs.Tea, error)       { return nil, nil }
func (f *fakeCatalog) ListSyrup(ctx context.Context) ([]structs.Syrup, error)   { return nil, nil }

type fakeDispatcher struct {
	mu     sync.Mutex
	sent   []structs.Order
	result notify.Result
	done   chan struct{}
}

var _ notify.Dispatcher = (*fakeDispatcher)(nil)

func newFakeDispatcher() *fakeDispatcher {
	return &fakeDispatcher{done: make(chan struct{}, 8)}
}

func (f *fakeDispatcher) OrderCreated(ctx context.Context, order structs.Order) notify.Result {
	f.mu.Lock()
	f.sent = append(f.sent, order)
	f.mu.Unlock()
	f.done <- struct{}{}
	return f.result
}

func (f *fakeDispatcher) waitSent(t *testing.T) structs.Order {
	t.Helper()
	select {
	case <-f.done:
	case <-time.After(2 * time.Second):
		t.Fatal("notification was never dispatched")
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.sent[len(f.sent)-1]
}

func newTestService(t *testing.T) (Service, *fakeOrderRepo, *fakeCartRepo, *fakeCatalog, *fakeDispatcher) {
	t.Helper()

	orders := newFakeOrderRepo()
	carts := &fakeCartRepo{}
	cat := &fakeCatalog{products: map[int64]structs.Product{
		1: structs.Coffee{
			ID:          1,
			Name:        "Colombia Supremo",
			Price250g:   decimal.RequireFromString("8.50"),
			Price500g:   decimal.RequireFromString("15.00"),
			Price1000g:  decimal.RequireFromString("27.90"),
			IsAvailable: true,
		},
	}}
	dispatcher := newFakeDispatcher()

	svc := New(Params{
		OrderRepo:  orders,
		CartRepo:   carts,
		Catalog:    cat,
		Dispatcher: dispatcher,
		Logger:     logger.New("error"),
	})
	return svc, orders, carts, cat, dispatcher
}

func validCheckout() structs.Checkout {
	return structs.Checkout{
		UserID:    7,
		FirstName: "Anna",
		LastName:  "Petrova",
		Phone:     "+375291234567",
		Email:     "anna@example.com",
	}
}

func TestCheckoutSnapshotsCart(t *testing.T) {
	svc, orders, carts, _, dispatcher := newTestService(t)
	ctx := context.Background()

	carts.carts = []structs.Cart{{ID: 1, UserID: 7, IsActive: true}}
	carts.items = []structs.CartItem{
		{ID: 1, CartID: 1, ProductType: structs.ProductTypeCoffee, ProductID: 1, Grams: 250, Quantity: 3},
	}

	created, err := svc.Checkout(ctx, validCheckout())
	require.NoError(t, err)

	assert.NotEmpty(t, created.ID)
	assert.Equal(t, structs.OrderStatusPending, created.Status)
	// 3 x 8.50
	assert.Equal(t, "25.50", created.TotalPrice.StringFixed(2))
	require.Len(t, created.Items, 1)
	assert.Equal(t, "Colombia Supremo", created.Items[0].ProductName)
	assert.Equal(t, "8.50", created.Items[0].UnitPrice.StringFixed(2))

	assert.Equal(t, []int64{1}, orders.deactivated, "cart must be deactivated at checkout")

	sent := dispatcher.waitSent(t)
	assert.Equal(t, created.ID, sent.ID)
}

func TestCheckoutStoresCanonicalPhone(t *testing.T) {
	svc, _, carts, _, _ := newTestService(t)
	ctx := context.Background()

	carts.carts = []structs.Cart{{ID: 1, UserID: 7, IsActive: true}}
	carts.items = []structs.CartItem{
		{ID: 1, CartID: 1, ProductType: structs.ProductTypeCoffee, ProductID: 1, Grams: 250, Quantity: 1},
	}

	req := validCheckout()
	req.Phone = "80291234567"

	created, err := svc.Checkout(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, "+375291234567", created.Phone)
}

func TestCheckoutRejectsEmptyCart(t *testing.T) {
	svc, _, _, _, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.Checkout(ctx, validCheckout())
	assert.ErrorIs(t, err, structs.ErrEmptyCart)
}

func TestCheckoutRejectsPhoneWithoutDigits(t *testing.T) {
	svc, _, _, _, _ := newTestService(t)
	ctx := context.Background()

	req := validCheckout()
	req.Phone = "call me maybe"

	_, err := svc.Checkout(ctx, req)
	assert.ErrorIs(t, err, structs.ErrInvalidPhone)
}

func TestCheckoutSurfacesRetryableConflict(t *testing.T) {
	svc, orders, carts, _, dispatcher := newTestService(t)
	ctx := context.Background()

	carts.carts = []structs.Cart{{ID: 1, UserID: 7, IsActive: true}}
	carts.items = []structs.CartItem{
		{ID: 1, CartID: 1, ProductType: structs.ProductTypeCoffee, ProductID: 1, Grams: 250, Quantity: 1},
	}
	orders.checkoutErr = structs.ErrUniqueViolation

	_, err := svc.Checkout(ctx, validCheckout())
	assert.ErrorIs(t, err, structs.ErrUniqueViolation)
	assert.Empty(t, dispatcher.sent, "failed checkout must not notify")
}

func TestCheckoutSkipsDeletedProducts(t *testing.T) {
	svc, _, carts, _, _ := newTestService(t)
	ctx := context.Background()

	carts.carts = []structs.Cart{{ID: 1, UserID: 7, IsActive: true}}
	carts.items = []structs.CartItem{
		{ID: 1, CartID: 1, ProductType: structs.ProductTypeCoffee, ProductID: 1, Grams: 250, Quantity: 1},
		{ID: 2, CartID: 1, ProductType: structs.ProductTypeCoffee, ProductID: 99, Grams: 250, Quantity: 1},
	}

	created, err := svc.Checkout(ctx, validCheckout())
	require.NoError(t, err)
	require.Len(t, created.Items, 1)
	assert.Equal(t, "8.50", created.TotalPrice.StringFixed(2))
}

func TestCheckoutSucceedsWhenNotificationFails(t *testing.T) {
	svc, _, carts, _, dispatcher := newTestService(t)
	ctx := context.Background()

	carts.carts = []structs.Cart{{ID: 1, UserID: 7, IsActive: true}}
	carts.items = []structs.CartItem{
		{ID: 1, CartID: 1, ProductType: structs.ProductTypeCoffee, ProductID: 1, Grams: 250, Quantity: 1},
	}
	dispatcher.result = notify.Result{CustomerErr: errors.New("smtp down"), OwnerErr: errors.New("smtp down")}

	created, err := svc.Checkout(ctx, validCheckout())
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	dispatcher.waitSent(t)
}

func TestUpdateStatusNormalizes(t *testing.T) {
	svc, _, carts, _, _ := newTestService(t)
	ctx := context.Background()

	carts.carts = []structs.Cart{{ID: 1, UserID: 7, IsActive: true}}
	carts.items = []structs.CartItem{
		{ID: 1, CartID: 1, ProductType: structs.ProductTypeCoffee, ProductID: 1, Grams: 250, Quantity: 1},
	}

	created, err := svc.Checkout(ctx, validCheckout())
	require.NoError(t, err)

	require.NoError(t, svc.UpdateStatus(ctx, structs.UpdateOrderStatus{OrderID: created.ID, Status: "shipped"}))

	got, err := svc.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, structs.OrderStatusShipped, got.Status)

	err = svc.UpdateStatus(ctx, structs.UpdateOrderStatus{OrderID: created.ID, Status: "LOST"})
	assert.ErrorIs(t, err, structs.ErrInvalidOrderStatus)
}

func TestDeleteUnknownOrder(t *testing.T) {
	svc, _, _, _, _ := newTestService(t)
	ctx := context.Background()

	err := svc.Delete(ctx, uuid.NewString())
	assert.ErrorIs(t, err, structs.ErrNotFound)
}
