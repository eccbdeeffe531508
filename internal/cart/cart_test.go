package cart

import (
	"context"
	"strconv"
	"testing"

	"brewhouse/internal/catalog"
	"brewhouse/internal/structs"
	"brewhouse/pkg/config"
	"brewhouse/pkg/logger"
	cartRepo "brewhouse/pkg/repository/postgres/cart_repo"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCartRepo struct {
	carts       []structs.Cart
	items       []structs.CartItem
	nextItemID  int64
	deactivated []int64
}

var _ cartRepo.Repo = (*fakeCartRepo)(nil)

func (f *fakeCartRepo) GetActiveByUserID(ctx context.Context, userID int64) ([]structs.Cart, error) {
	var res []structs.Cart
	for i := len(f.carts) - 1; i >= 0; i-- {
		c := f.carts[i]
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

func (f *fakeCartRepo) Deactivate(ctx context.Context, cartIDs []int64) error {
	f.deactivated = append(f.deactivated, cartIDs...)
	for i := range f.carts {
		for _, id := range cartIDs {
			if f.carts[i].ID == id {
				f.carts[i].IsActive = false
			}
		}
	}
	return nil
}

func (f *fakeCartRepo) UpsertItem(ctx context.Context, cartID int64, req structs.AddCartItem) error {
	for i := range f.items {
		it := &f.items[i]
		if it.CartID == cartID && it.ProductType == req.ProductType &&
			it.ProductID == req.ProductID && it.Grams == req.Grams {
			it.Quantity += req.Quantity
			return nil
		}
	}
	f.nextItemID++
	f.items = append(f.items, structs.CartItem{
		ID:          f.nextItemID,
		CartID:      cartID,
		ProductType: req.ProductType,
		ProductID:   req.ProductID,
		Grams:       req.Grams,
		Quantity:    req.Quantity,
	})
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

func (f *fakeCartRepo) activeCartID(userID int64) int64 {
	for _, c := range f.carts {
		if c.UserID == userID && c.IsActive {
			return c.ID
		}
	}
	return 0
}

func (f *fakeCartRepo) UpdateItemQuantity(ctx context.Context, userID, itemID, quantity int64) (int64, error) {
	cartID := f.activeCartID(userID)
	for i := range f.items {
		if f.items[i].ID == itemID && f.items[i].CartID == cartID {
			f.items[i].Quantity = quantity
			return 1, nil
		}
	}
	return 0, nil
}

func (f *fakeCartRepo) DeleteItem(ctx context.Context, userID, itemID int64) (int64, error) {
	cartID := f.activeCartID(userID)
	for i := range f.items {
		if f.items[i].ID == itemID && f.items[i].CartID == cartID {
			f.items = append(f.items[:i], f.items[i+1:]...)
			return 1, nil
		}
	}
	return 0, nil
}

func (f *fakeCartRepo) ClearActive(ctx context.Context, userID int64) error {
	cartID := f.activeCartID(userID)
	var kept []structs.CartItem
	for _, it := range f.items {
		if it.CartID != cartID {
			kept = append(kept, it)
		}
	}
	f.items = kept
	return nil
}

type fakeCatalog struct {
	products map[string]structs.Product
}

var _ catalog.Service = (*fakeCatalog)(nil)

func key(productType string, id int64) string {
	return productType + "/" + strconv.FormatInt(id, 10)
}

func (f *fakeCatalog) Resolve(ctx context.Context, productType string, id int64) (structs.Product, error) {
	if _, err := structs.NormalizeProductType(productType); err != nil {
		return nil, err
	}
	p, ok := f.products[key(productType, id)]
	if !ok {
		return nil, structs.ErrNotFound
	}
	return p, nil
}

func (f *fakeCatalog) Menu(ctx context.Context) (structs.Menu, error) { return structs.Menu{}, nil }
func (f *fakeCatalog) ListCoffee(ctx context.Context) ([]structs.Coffee, error) {
	return nil, nil
}
func (f *fakeCatalog) ListTea(ctx context.Context) ([]structs.Tea, error)     { return nil, nil }
func (f *fakeCatalog) ListSyrup(ctx context.Context) ([]structs.Syrup, error) { return nil, nil }

func newTestService(t *testing.T) (Service, *fakeCartRepo, *fakeCatalog) {
	t.Helper()

	repo := &fakeCartRepo{}
	cat := &fakeCatalog{products: map[string]structs.Product{
		key(structs.ProductTypeCoffee, 1): structs.Coffee{
			ID:          1,
			Name:        "Colombia Supremo",
			Price250g:   decimal.RequireFromString("8.50"),
			Price500g:   decimal.RequireFromString("15.00"),
			Price1000g:  decimal.RequireFromString("27.90"),
			IsAvailable: true,
		},
		key(structs.ProductTypeCoffee, 2): structs.Coffee{
			ID:          2,
			Name:        "Decaf Blend",
			Price250g:   decimal.RequireFromString("7.00"),
			Price500g:   decimal.RequireFromString("13.00"),
			Price1000g:  decimal.RequireFromString("24.00"),
			IsAvailable: false,
		},
		key(structs.ProductTypeSyrup, 5): structs.Syrup{
			ID:          5,
			Name:        "Vanilla Syrup",
			Price:       decimal.RequireFromString("6.75"),
			IsAvailable: true,
		},
	}}

	svc := New(Params{
		CartRepo: repo,
		Catalog:  cat,
		Config:   config.NewConfig(),
		Logger:   logger.New("error"),
	})
	return svc, repo, cat
}

func TestGetOrCreateActiveIsIdempotent(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	first, err := svc.GetOrCreateActive(ctx, 42)
	require.NoError(t, err)

	second, err := svc.GetOrCreateActive(ctx, 42)
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
}

func TestGetOrCreateActiveCollapsesDuplicates(t *testing.T) {
	svc, repo, _ := newTestService(t)
	ctx := context.Background()

	// two active carts, as left behind by a create race
	repo.carts = []structs.Cart{
		{ID: 1, UserID: 42, IsActive: true},
		{ID: 2, UserID: 42, IsActive: true},
	}

	cart, err := svc.GetOrCreateActive(ctx, 42)
	require.NoError(t, err)

	assert.Equal(t, int64(2), cart.ID, "newest cart wins")
	assert.Equal(t, []int64{1}, repo.deactivated)

	carts, err := repo.GetActiveByUserID(ctx, 42)
	require.NoError(t, err)
	assert.Len(t, carts, 1)
}

func TestAddItemMergesDuplicateLines(t *testing.T) {
	svc, repo, _ := newTestService(t)
	ctx := context.Background()

	req := structs.AddCartItem{UserID: 7, ProductType: structs.ProductTypeCoffee, ProductID: 1, Grams: 250, Quantity: 2}
	require.NoError(t, svc.AddItem(ctx, req))
	require.NoError(t, svc.AddItem(ctx, req))

	require.Len(t, repo.items, 1)
	assert.Equal(t, int64(4), repo.items[0].Quantity)
}

func TestAddItemQuantityBounds(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	base := structs.AddCartItem{UserID: 7, ProductType: structs.ProductTypeCoffee, ProductID: 1, Grams: 250}

	base.Quantity = 0
	assert.ErrorIs(t, svc.AddItem(ctx, base), structs.ErrInvalidQuantity)

	base.Quantity = 11
	assert.ErrorIs(t, svc.AddItem(ctx, base), structs.ErrInvalidQuantity)

	base.Quantity = 10
	assert.NoError(t, svc.AddItem(ctx, base))
}

func TestAddItemRejectsUnavailableProduct(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	err := svc.AddItem(ctx, structs.AddCartItem{
		UserID: 7, ProductType: structs.ProductTypeCoffee, ProductID: 2, Grams: 250, Quantity: 1,
	})
	assert.ErrorIs(t, err, structs.ErrProductUnavailable)
}

func TestAddItemUnknownProduct(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	err := svc.AddItem(ctx, structs.AddCartItem{
		UserID: 7, ProductType: structs.ProductTypeCoffee, ProductID: 999, Grams: 250, Quantity: 1,
	})
	assert.ErrorIs(t, err, structs.ErrNotFound)

	err = svc.AddItem(ctx, structs.AddCartItem{
		UserID: 7, ProductType: "espresso", ProductID: 1, Grams: 250, Quantity: 1,
	})
	assert.ErrorIs(t, err, structs.ErrInvalidProductType)
}

func TestAddItemSizeRules(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	// coffee requires one of its discrete weights
	err := svc.AddItem(ctx, structs.AddCartItem{
		UserID: 7, ProductType: structs.ProductTypeCoffee, ProductID: 1, Grams: 300, Quantity: 1,
	})
	assert.ErrorIs(t, err, structs.ErrInvalidSize)

	// syrup rejects any weight
	err = svc.AddItem(ctx, structs.AddCartItem{
		UserID: 7, ProductType: structs.ProductTypeSyrup, ProductID: 5, Grams: 250, Quantity: 1,
	})
	assert.ErrorIs(t, err, structs.ErrInvalidSize)

	err = svc.AddItem(ctx, structs.AddCartItem{
		UserID: 7, ProductType: structs.ProductTypeSyrup, ProductID: 5, Quantity: 1,
	})
	assert.NoError(t, err)
}

func TestUpdateQuantityZeroRemovesLine(t *testing.T) {
	svc, repo, _ := newTestService(t)
	ctx := context.Background()

	require.NoError(t, svc.AddItem(ctx, structs.AddCartItem{
		UserID: 7, ProductType: structs.ProductTypeCoffee, ProductID: 1, Grams: 250, Quantity: 2,
	}))
	itemID := repo.items[0].ID

	require.NoError(t, svc.UpdateQuantity(ctx, structs.UpdateCartItem{UserID: 7, ItemID: itemID, Quantity: 0}))
	assert.Empty(t, repo.items)
}

func TestUpdateQuantityForeignItem(t *testing.T) {
	svc, repo, _ := newTestService(t)
	ctx := context.Background()

	require.NoError(t, svc.AddItem(ctx, structs.AddCartItem{
		UserID: 7, ProductType: structs.ProductTypeCoffee, ProductID: 1, Grams: 250, Quantity: 2,
	}))
	itemID := repo.items[0].ID

	// another user cannot touch the line, and cannot tell it exists
	err := svc.UpdateQuantity(ctx, structs.UpdateCartItem{UserID: 8, ItemID: itemID, Quantity: 3})
	assert.ErrorIs(t, err, structs.ErrNotFound)

	err = svc.RemoveItem(ctx, structs.DeleteCartItem{UserID: 8, ItemID: itemID})
	assert.ErrorIs(t, err, structs.ErrNotFound)
}

func TestViewComputesTotals(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	require.NoError(t, svc.AddItem(ctx, structs.AddCartItem{
		UserID: 7, ProductType: structs.ProductTypeCoffee, ProductID: 1, Grams: 250, Quantity: 2,
	}))
	require.NoError(t, svc.AddItem(ctx, structs.AddCartItem{
		UserID: 7, ProductType: structs.ProductTypeSyrup, ProductID: 5, Quantity: 1,
	}))

	view, err := svc.View(ctx, 7)
	require.NoError(t, err)

	require.Len(t, view.Lines, 2)
	assert.Equal(t, int64(3), view.TotalItems)
	// 2 x 8.50 + 6.75
	assert.Equal(t, "23.75", view.TotalPrice.StringFixed(2))
}

func TestViewDegradesDeletedProduct(t *testing.T) {
	svc, _, cat := newTestService(t)
	ctx := context.Background()

	require.NoError(t, svc.AddItem(ctx, structs.AddCartItem{
		UserID: 7, ProductType: structs.ProductTypeCoffee, ProductID: 1, Grams: 250, Quantity: 2,
	}))

	delete(cat.products, key(structs.ProductTypeCoffee, 1))

	view, err := svc.View(ctx, 7)
	require.NoError(t, err)

	require.Len(t, view.Lines, 1)
	assert.Equal(t, "item not found", view.Lines[0].ProductName)
	assert.True(t, view.Lines[0].TotalPrice.IsZero())
	assert.True(t, view.TotalPrice.IsZero())
}
