package cartrepo

import (
	"context"
	"errors"
	"fmt"

	"brewhouse/internal/structs"
	"brewhouse/pkg/db"
	"brewhouse/pkg/logger"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var (
	Module = fx.Provide(New)
)

type (
	Params struct {
		fx.In
		Logger logger.Logger
		DB     db.Querier
	}

	Repo interface {
		GetActiveByUserID(ctx context.Context, userID int64) ([]structs.Cart, error)
		Create(ctx context.Context, userID int64) (structs.Cart, error)
		Deactivate(ctx context.Context, cartIDs []int64) error
		UpsertItem(ctx context.Context, cartID int64, req structs.AddCartItem) error
		GetItems(ctx context.Context, cartID int64) ([]structs.CartItem, error)
		UpdateItemQuantity(ctx context.Context, userID, itemID, quantity int64) (int64, error)
		DeleteItem(ctx context.Context, userID, itemID int64) (int64, error)
		ClearActive(ctx context.Context, userID int64) error
	}

	repo struct {
		logger logger.Logger
		db     db.Querier
	}
)

func New(p Params) Repo {
	return &repo{
		logger: p.Logger,
		db:     p.DB,
	}
}

// GetActiveByUserID returns every active cart of the user, newest first.
// More than one row is a concurrency artifact the service collapses.
func (r repo) GetActiveByUserID(ctx context.Context, userID int64) ([]structs.Cart, error) {
	query := `
		SELECT
			id,
			user_id,
			is_active,
			created_at,
			updated_at
		FROM carts
		WHERE user_id = $1 AND is_active
		ORDER BY created_at DESC, id DESC
	`

	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		r.logger.Error(ctx, "failed to get active carts", zap.Error(err))
		return nil, fmt.Errorf("get active carts failed: %w", err)
	}
	defer rows.Close()

	var carts []structs.Cart
	for rows.Next() {
		var c structs.Cart
		if err := rows.Scan(&c.ID, &c.UserID, &c.IsActive, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan cart failed: %w", err)
		}
		carts = append(carts, c)
	}

	return carts, rows.Err()
}

func (r repo) Create(ctx context.Context, userID int64) (structs.Cart, error) {
	r.logger.Info(ctx, "Create cart", zap.Int64("user_id", userID))

	var (
		c     structs.Cart
		query = `
			INSERT INTO carts (user_id)
			VALUES ($1)
			RETURNING id, user_id, is_active, created_at, updated_at
		`
	)

	err := r.db.QueryRow(ctx, query, userID).Scan(&c.ID, &c.UserID, &c.IsActive, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		r.logger.Error(ctx, "failed to create cart", zap.Error(err))
		return structs.Cart{}, fmt.Errorf("create cart failed: %w", err)
	}

	return c, nil
}

func (r repo) Deactivate(ctx context.Context, cartIDs []int64) error {
	if len(cartIDs) == 0 {
		return nil
	}

	query := `
		UPDATE carts SET is_active = FALSE, updated_at = NOW() WHERE id = ANY($1)
	`
	if _, err := r.db.Exec(ctx, query, cartIDs); err != nil {
		r.logger.Error(ctx, "failed to deactivate carts", zap.Error(err))
		return fmt.Errorf("deactivate carts failed: %w", err)
	}
	return nil
}

// UpsertItem inserts a line item or, when the (cart, product, size) key
// already exists, increments its quantity. The unique constraint also settles
// the concurrent double-insert race on the same key.
func (r repo) UpsertItem(ctx context.Context, cartID int64, req structs.AddCartItem) error {
	r.logger.Info(ctx, "Upsert cart item", zap.Int64("cart_id", cartID), zap.Any("req", req))

	query := `
		INSERT INTO cart_items (cart_id, product_type, product_id, grams, quantity)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (cart_id, product_type, product_id, grams)
		DO UPDATE SET quantity = cart_items.quantity + EXCLUDED.quantity, updated_at = NOW()
	`

	if _, err := r.db.Exec(ctx, query, cartID, req.ProductType, req.ProductID, req.Grams, req.Quantity); err != nil {
		pgErr := &pgconn.PgError{}
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return structs.ErrUniqueViolation
		}
		r.logger.Error(ctx, "failed to upsert cart item", zap.Error(err))
		return fmt.Errorf("upsert cart item failed: %w", err)
	}
	return nil
}

func (r repo) GetItems(ctx context.Context, cartID int64) ([]structs.CartItem, error) {
	query := `
		SELECT
			id,
			cart_id,
			product_type,
			product_id,
			grams,
			quantity,
			created_at,
			updated_at
		FROM cart_items
		WHERE cart_id = $1
		ORDER BY id
	`

	rows, err := r.db.Query(ctx, query, cartID)
	if err != nil {
		r.logger.Error(ctx, "failed to get cart items", zap.Error(err))
		return nil, fmt.Errorf("get cart items failed: %w", err)
	}
	defer rows.Close()

	var items []structs.CartItem
	for rows.Next() {
		var it structs.CartItem
		if err := rows.Scan(
			&it.ID,
			&it.CartID,
			&it.ProductType,
			&it.ProductID,
			&it.Grams,
			&it.Quantity,
			&it.CreatedAt,
			&it.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan cart item failed: %w", err)
		}
		items = append(items, it)
	}

	return items, rows.Err()
}

// UpdateItemQuantity replaces an item's quantity, scoped to the caller's
// active cart. Returns affected rows; 0 means the item does not exist or is
// not theirs, indistinguishable on purpose.
func (r repo) UpdateItemQuantity(ctx context.Context, userID, itemID, quantity int64) (int64, error) {
	query := `
		UPDATE cart_items ci
		SET quantity = $3, updated_at = NOW()
		FROM carts c
		WHERE ci.id = $2 AND ci.cart_id = c.id AND c.user_id = $1 AND c.is_active
	`

	tag, err := r.db.Exec(ctx, query, userID, itemID, quantity)
	if err != nil {
		r.logger.Error(ctx, "failed to update cart item quantity", zap.Error(err))
		return 0, fmt.Errorf("update cart item failed: %w", err)
	}
	return tag.RowsAffected(), nil
}

func (r repo) DeleteItem(ctx context.Context, userID, itemID int64) (int64, error) {
	r.logger.Info(ctx, "Delete cart item", zap.Int64("user_id", userID), zap.Int64("item_id", itemID))

	query := `
		DELETE FROM cart_items ci
		USING carts c
		WHERE ci.id = $2 AND ci.cart_id = c.id AND c.user_id = $1 AND c.is_active
	`

	tag, err := r.db.Exec(ctx, query, userID, itemID)
	if err != nil {
		r.logger.Error(ctx, "failed to delete cart item", zap.Error(err))
		return 0, fmt.Errorf("delete cart item failed: %w", err)
	}
	return tag.RowsAffected(), nil
}

func (r repo) ClearActive(ctx context.Context, userID int64) error {
	r.logger.Info(ctx, "Clear cart", zap.Int64("user_id", userID))

	query := `
		DELETE FROM cart_items ci
		USING carts c
		WHERE ci.cart_id = c.id AND c.user_id = $1 AND c.is_active
	`

	if _, err := r.db.Exec(ctx, query, userID); err != nil {
		r.logger.Error(ctx, "failed to clear cart", zap.Error(err))
		return fmt.Errorf("clear cart failed: %w", err)
	}
	return nil
}
