package tguserrepo

import (
	"context"
	"errors"
	"fmt"

	"brewhouse/internal/structs"
	"brewhouse/pkg/db"
	"brewhouse/pkg/logger"

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
		GetByChatID(ctx context.Context, chatID int64) (structs.TelegramUser, error)
		GetByPhone(ctx context.Context, phone string) (structs.TelegramUser, error)
		UpdatePhone(ctx context.Context, chatID int64, phone string) error
		UpdateChatID(ctx context.Context, phone string, chatID int64) error
		Insert(ctx context.Context, req structs.TelegramUser) error
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

const userColumns = `
	id,
	phone,
	chat_id,
	first_name,
	last_name,
	created_at,
	updated_at
`

func (r repo) scanOne(row pgx.Row) (structs.TelegramUser, error) {
	var u structs.TelegramUser
	err := row.Scan(
		&u.ID,
		&u.Phone,
		&u.ChatID,
		&u.FirstName,
		&u.LastName,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return structs.TelegramUser{}, structs.ErrNotFound
		}
		return structs.TelegramUser{}, fmt.Errorf("scan telegram user failed: %w", err)
	}
	return u, nil
}

func (r repo) GetByChatID(ctx context.Context, chatID int64) (structs.TelegramUser, error) {
	query := `SELECT ` + userColumns + ` FROM telegram_users WHERE chat_id = $1`
	return r.scanOne(r.db.QueryRow(ctx, query, chatID))
}

func (r repo) GetByPhone(ctx context.Context, phone string) (structs.TelegramUser, error) {
	query := `SELECT ` + userColumns + ` FROM telegram_users WHERE phone = $1`
	return r.scanOne(r.db.QueryRow(ctx, query, phone))
}

func (r repo) UpdatePhone(ctx context.Context, chatID int64, phone string) error {
	query := `
		UPDATE telegram_users SET phone = $2, updated_at = NOW() WHERE chat_id = $1
	`
	if _, err := r.db.Exec(ctx, query, chatID, phone); err != nil {
		return r.mapErr(ctx, "update phone", err)
	}
	return nil
}

func (r repo) UpdateChatID(ctx context.Context, phone string, chatID int64) error {
	query := `
		UPDATE telegram_users SET chat_id = $2, updated_at = NOW() WHERE phone = $1
	`
	if _, err := r.db.Exec(ctx, query, phone, chatID); err != nil {
		return r.mapErr(ctx, "update chat id", err)
	}
	return nil
}

func (r repo) Insert(ctx context.Context, req structs.TelegramUser) error {
	r.logger.Info(ctx, "Insert telegram user", zap.Int64("chat_id", req.ChatID))

	query := `
		INSERT INTO telegram_users (phone, chat_id, first_name, last_name)
		VALUES ($1, $2, $3, $4)
	`
	if _, err := r.db.Exec(ctx, query, req.Phone, req.ChatID, req.FirstName, req.LastName); err != nil {
		return r.mapErr(ctx, "insert telegram user", err)
	}
	return nil
}

func (r repo) mapErr(ctx context.Context, op string, err error) error {
	pgErr := &pgconn.PgError{}
	if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
		return structs.ErrUniqueViolation
	}
	r.logger.Error(ctx, "telegram user repo error", zap.String("op", op), zap.Error(err))
	return fmt.Errorf("%s failed: %w", op, err)
}
