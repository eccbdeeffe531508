package productrepo

import (
	"context"
	"errors"
	"fmt"

	"brewhouse/internal/structs"
	"brewhouse/pkg/db"
	"brewhouse/pkg/logger"

	"github.com/jackc/pgx/v5"
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
		ListCoffee(ctx context.Context) ([]structs.Coffee, error)
		ListTea(ctx context.Context) ([]structs.Tea, error)
		ListSyrup(ctx context.Context) ([]structs.Syrup, error)
		GetCoffeeByID(ctx context.Context, id int64) (structs.Coffee, error)
		GetTeaByID(ctx context.Context, id int64) (structs.Tea, error)
		GetSyrupByID(ctx context.Context, id int64) (structs.Syrup, error)
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

func (r repo) ListCoffee(ctx context.Context) ([]structs.Coffee, error) {
	query := `
		SELECT
			id,
			name,
			description,
			coffee_type,
			price_250g,
			price_500g,
			price_1000g,
			acidity,
			bitterness,
			intensity,
			is_available,
			created_at,
			updated_at
		FROM coffee
		ORDER BY is_available DESC, name
	`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		r.logger.Error(ctx, "failed to list coffee", zap.Error(err))
		return nil, fmt.Errorf("list coffee failed: %w", err)
	}
	defer rows.Close()

	var res []structs.Coffee
	for rows.Next() {
		var c structs.Coffee
		if err := rows.Scan(
			&c.ID,
			&c.Name,
			&c.Description,
			&c.CoffeeType,
			&c.Price250g,
			&c.Price500g,
			&c.Price1000g,
			&c.Acidity,
			&c.Bitterness,
			&c.Intensity,
			&c.IsAvailable,
			&c.CreatedAt,
			&c.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan coffee failed: %w", err)
		}
		res = append(res, c)
	}

	return res, rows.Err()
}

func (r repo) ListTea(ctx context.Context) ([]structs.Tea, error) {
	query := `
		SELECT
			id,
			name,
			description,
			tea_type,
			price_100g,
			price_500g,
			is_available,
			created_at,
			updated_at
		FROM tea
		ORDER BY is_available DESC, name
	`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		r.logger.Error(ctx, "failed to list tea", zap.Error(err))
		return nil, fmt.Errorf("list tea failed: %w", err)
	}
	defer rows.Close()

	var res []structs.Tea
	for rows.Next() {
		var t structs.Tea
		if err := rows.Scan(
			&t.ID,
			&t.Name,
			&t.Description,
			&t.TeaType,
			&t.Price100g,
			&t.Price500g,
			&t.IsAvailable,
			&t.CreatedAt,
			&t.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan tea failed: %w", err)
		}
		res = append(res, t)
	}

	return res, rows.Err()
}

func (r repo) ListSyrup(ctx context.Context) ([]structs.Syrup, error) {
	query := `
		SELECT
			id,
			name,
			description,
			manufacturer,
			price,
			is_available,
			created_at,
			updated_at
		FROM syrup
		ORDER BY is_available DESC, name
	`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		r.logger.Error(ctx, "failed to list syrup", zap.Error(err))
		return nil, fmt.Errorf("list syrup failed: %w", err)
	}
	defer rows.Close()

	var res []structs.Syrup
	for rows.Next() {
		var s structs.Syrup
		if err := rows.Scan(
			&s.ID,
			&s.Name,
			&s.Description,
			&s.Manufacturer,
			&s.Price,
			&s.IsAvailable,
			&s.CreatedAt,
			&s.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan syrup failed: %w", err)
		}
		res = append(res, s)
	}

	return res, rows.Err()
}

func (r repo) GetCoffeeByID(ctx context.Context, id int64) (structs.Coffee, error) {
	var (
		c     structs.Coffee
		query = `
			SELECT
				id,
				name,
				description,
				coffee_type,
				price_250g,
				price_500g,
				price_1000g,
				acidity,
				bitterness,
				intensity,
				is_available,
				created_at,
				updated_at
			FROM coffee
			WHERE id = $1
		`
	)

	err := r.db.QueryRow(ctx, query, id).Scan(
		&c.ID,
		&c.Name,
		&c.Description,
		&c.CoffeeType,
		&c.Price250g,
		&c.Price500g,
		&c.Price1000g,
		&c.Acidity,
		&c.Bitterness,
		&c.Intensity,
		&c.IsAvailable,
		&c.CreatedAt,
		&c.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return structs.Coffee{}, structs.ErrNotFound
		}
		r.logger.Error(ctx, "failed to get coffee by id", zap.Error(err))
		return structs.Coffee{}, fmt.Errorf("get coffee failed: %w", err)
	}

	return c, nil
}

func (r repo) GetTeaByID(ctx context.Context, id int64) (structs.Tea, error) {
	var (
		t     structs.Tea
		query = `
			SELECT
				id,
				name,
				description,
				tea_type,
				price_100g,
				price_500g,
				is_available,
				created_at,
				updated_at
			FROM tea
			WHERE id = $1
		`
	)

	err := r.db.QueryRow(ctx, query, id).Scan(
		&t.ID,
		&t.Name,
		&t.Description,
		&t.TeaType,
		&t.Price100g,
		&t.Price500g,
		&t.IsAvailable,
		&t.CreatedAt,
		&t.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return structs.Tea{}, structs.ErrNotFound
		}
		r.logger.Error(ctx, "failed to get tea by id", zap.Error(err))
		return structs.Tea{}, fmt.Errorf("get tea failed: %w", err)
	}

	return t, nil
}

func (r repo) GetSyrupByID(ctx context.Context, id int64) (structs.Syrup, error) {
	var (
		s     structs.Syrup
		query = `
			SELECT
				id,
				name,
				description,
				manufacturer,
				price,
				is_available,
				created_at,
				updated_at
			FROM syrup
			WHERE id = $1
		`
	)

	err := r.db.QueryRow(ctx, query, id).Scan(
		&s.ID,
		&s.Name,
		&s.Description,
		&s.Manufacturer,
		&s.Price,
		&s.IsAvailable,
		&s.CreatedAt,
		&s.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return structs.Syrup{}, structs.ErrNotFound
		}
		r.logger.Error(ctx, "failed to get syrup by id", zap.Error(err))
		return structs.Syrup{}, fmt.Errorf("get syrup failed: %w", err)
	}

	return s, nil
}
