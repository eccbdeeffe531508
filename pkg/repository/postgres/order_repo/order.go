package orderrepo

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"brewhouse/internal/structs"
	"brewhouse/pkg/db"
	"brewhouse/pkg/logger"
	"brewhouse/pkg/utils"

	"github.com/google/uuid"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
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
		CreateCheckout(ctx context.Context, order structs.Order) (structs.Order, error)
		GetByID(ctx context.Context, id string) (structs.Order, error)
		GetList(ctx context.Context, req structs.GetListOrderRequest) (structs.GetListOrderResponse, error)
		GetRecentByPhone(ctx context.Context, phone string, limit int64) ([]structs.Order, error)
		UpdateStatus(ctx context.Context, req structs.UpdateOrderStatus) error
		Delete(ctx context.Context, id string) error
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

// CreateCheckout writes the order row, its frozen line items and the cart
// deactivation in a single transaction. Either all three land or none do.
func (r repo) CreateCheckout(ctx context.Context, order structs.Order) (structs.Order, error) {
	r.logger.Info(ctx, "Create order",
		zap.Int64("user_id", order.UserID),
		zap.Int64("cart_id", order.CartID),
	)

	order.ID = uuid.NewString()
	order.Status = structs.OrderStatusPending

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return structs.Order{}, fmt.Errorf("begin checkout tx failed: %w", err)
	}
	defer tx.Rollback(ctx)

	queryOrder := `
		INSERT INTO orders (id, user_id, cart_id, first_name, last_name, phone, email, status, total_price)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING created_at, updated_at
	`
	err = tx.QueryRow(ctx, queryOrder,
		order.ID,
		order.UserID,
		order.CartID,
		order.FirstName,
		order.LastName,
		order.Phone,
		order.Email,
		order.Status,
		order.TotalPrice,
	).Scan(&order.CreatedAt, &order.UpdatedAt)
	if err != nil {
		return structs.Order{}, r.mapIntegrityErr(ctx, "insert order", err)
	}

	queryItem := `
		INSERT INTO order_items (order_id, product_type, product_id, product_name, grams, quantity, unit_price, total_price)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id
	`
	for i := range order.Items {
		it := &order.Items[i]
		it.OrderID = order.ID
		if err := tx.QueryRow(ctx, queryItem,
			it.OrderID,
			it.ProductType,
			it.ProductID,
			it.ProductName,
			it.Grams,
			it.Quantity,
			it.UnitPrice,
			it.TotalPrice,
		).Scan(&it.ID); err != nil {
			return structs.Order{}, r.mapIntegrityErr(ctx, "insert order item", err)
		}
	}

	queryCart := `
		UPDATE carts SET is_active = FALSE, updated_at = NOW() WHERE id = $1
	`
	if _, err := tx.Exec(ctx, queryCart, order.CartID); err != nil {
		return structs.Order{}, r.mapIntegrityErr(ctx, "deactivate cart", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return structs.Order{}, fmt.Errorf("commit checkout tx failed: %w", err)
	}

	r.logger.Info(ctx, "order created", zap.String("order_id", order.ID))
	return order, nil
}

func (r repo) mapIntegrityErr(ctx context.Context, op string, err error) error {
	pgErr := &pgconn.PgError{}
	if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
		r.logger.Warn(ctx, "checkout lost a uniqueness race", zap.String("op", op), zap.Error(err))
		return structs.ErrUniqueViolation
	}
	r.logger.Error(ctx, "checkout failed", zap.String("op", op), zap.Error(err))
	return fmt.Errorf("%s failed: %w", op, err)
}

const orderColumns = `
	id,
	user_id,
	cart_id,
	first_name,
	last_name,
	phone,
	email,
	status,
	total_price,
	created_at,
	updated_at
`

func scanOrder(row pgx.Row) (structs.Order, error) {
	var o structs.Order
	err := row.Scan(
		&o.ID,
		&o.UserID,
		&o.CartID,
		&o.FirstName,
		&o.LastName,
		&o.Phone,
		&o.Email,
		&o.Status,
		&o.TotalPrice,
		&o.CreatedAt,
		&o.UpdatedAt,
	)
	return o, err
}

func (r repo) GetByID(ctx context.Context, id string) (structs.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE id = $1`

	o, err := scanOrder(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return structs.Order{}, structs.ErrNotFound
		}
		r.logger.Error(ctx, "failed to get order by id", zap.Error(err))
		return structs.Order{}, fmt.Errorf("get order failed: %w", err)
	}

	items, err := r.getItems(ctx, []string{o.ID})
	if err != nil {
		return structs.Order{}, err
	}
	o.Items = items[o.ID]

	return o, nil
}

func (r repo) GetList(ctx context.Context, req structs.GetListOrderRequest) (structs.GetListOrderResponse, error) {
	var (
		resp   structs.GetListOrderResponse
		wheres []string
		params = map[string]interface{}{}
	)

	if req.Status != "" {
		wheres = append(wheres, "status = :status")
		params["status"] = req.Status
	}
	if req.Phone != "" {
		wheres = append(wheres, "phone = :phone")
		params["phone"] = req.Phone
	}

	where := ""
	if len(wheres) > 0 {
		where = " WHERE " + strings.Join(wheres, " AND ")
	}

	limit := req.Limit
	if limit <= 0 {
		limit = 20
	}
	params["limit"] = limit
	params["offset"] = req.Offset

	queryCount := `SELECT COUNT(1) FROM orders` + where
	query := `SELECT ` + orderColumns + ` FROM orders` + where + `
		ORDER BY created_at DESC
		LIMIT :limit OFFSET :offset
	`

	countQuery, countArgs := utils.ReplaceQueryParams(queryCount, params)
	if err := r.db.QueryRow(ctx, countQuery, countArgs...).Scan(&resp.Count); err != nil {
		r.logger.Error(ctx, "failed to count orders", zap.Error(err))
		return resp, fmt.Errorf("count orders failed: %w", err)
	}

	listQuery, listArgs := utils.ReplaceQueryParams(query, params)
	rows, err := r.db.Query(ctx, listQuery, listArgs...)
	if err != nil {
		r.logger.Error(ctx, "failed to list orders", zap.Error(err))
		return resp, fmt.Errorf("list orders failed: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return resp, fmt.Errorf("scan order failed: %w", err)
		}
		ids = append(ids, o.ID)
		resp.Orders = append(resp.Orders, o)
	}
	if err := rows.Err(); err != nil {
		return resp, fmt.Errorf("rows iteration failed: %w", err)
	}

	items, err := r.getItems(ctx, ids)
	if err != nil {
		return resp, err
	}
	for i := range resp.Orders {
		resp.Orders[i].Items = items[resp.Orders[i].ID]
	}

	return resp, nil
}

// GetRecentByPhone returns the newest orders stored under the canonical
// phone form, capped at limit.
func (r repo) GetRecentByPhone(ctx context.Context, phone string, limit int64) ([]structs.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders
		WHERE phone = $1
		ORDER BY created_at DESC
		LIMIT $2
	`

	rows, err := r.db.Query(ctx, query, phone, limit)
	if err != nil {
		r.logger.Error(ctx, "failed to get orders by phone", zap.Error(err))
		return nil, fmt.Errorf("get orders by phone failed: %w", err)
	}
	defer rows.Close()

	var (
		orders []structs.Order
		ids    []string
	)
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("scan order failed: %w", err)
		}
		ids = append(ids, o.ID)
		orders = append(orders, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration failed: %w", err)
	}

	items, err := r.getItems(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range orders {
		orders[i].Items = items[orders[i].ID]
	}

	return orders, nil
}

func (r repo) getItems(ctx context.Context, orderIDs []string) (map[string][]structs.OrderItem, error) {
	res := map[string][]structs.OrderItem{}
	if len(orderIDs) == 0 {
		return res, nil
	}

	query := `
		SELECT
			id,
			order_id,
			product_type,
			product_id,
			product_name,
			grams,
			quantity,
			unit_price,
			total_price
		FROM order_items
		WHERE order_id = ANY($1)
		ORDER BY id
	`

	rows, err := r.db.Query(ctx, query, orderIDs)
	if err != nil {
		r.logger.Error(ctx, "failed to get order items", zap.Error(err))
		return nil, fmt.Errorf("get order items failed: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var it structs.OrderItem
		if err := rows.Scan(
			&it.ID,
			&it.OrderID,
			&it.ProductType,
			&it.ProductID,
			&it.ProductName,
			&it.Grams,
			&it.Quantity,
			&it.UnitPrice,
			&it.TotalPrice,
		); err != nil {
			return nil, fmt.Errorf("scan order item failed: %w", err)
		}
		res[it.OrderID] = append(res[it.OrderID], it)
	}

	return res, rows.Err()
}

func (r repo) UpdateStatus(ctx context.Context, req structs.UpdateOrderStatus) error {
	r.logger.Info(ctx, "Update order status", zap.Any("req", req))

	query := `
		UPDATE orders SET status = $2, updated_at = NOW() WHERE id = $1
	`

	tag, err := r.db.Exec(ctx, query, req.OrderID, req.Status)
	if err != nil {
		r.logger.Error(ctx, "failed to update order status", zap.Error(err))
		return fmt.Errorf("update order status failed: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return structs.ErrNotFound
	}
	return nil
}

func (r repo) Delete(ctx context.Context, id string) error {
	r.logger.Info(ctx, "Delete order", zap.String("order_id", id))

	query := `
		DELETE FROM orders WHERE id = $1
	`

	tag, err := r.db.Exec(ctx, query, id)
	if err != nil {
		r.logger.Error(ctx, "failed to delete order", zap.Error(err))
		return fmt.Errorf("delete order failed: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return structs.ErrNotFound
	}
	return nil
}
