package user

import (
	"context"
	"errors"
	"fmt"

	"foodshare/internal/shared/logger"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PgRepository — Postgres реализация Repository
type PgRepository struct {
	pool *pgxpool.Pool
	log  *logger.Logger
}

// NewPgRepository создает новый репозиторий пользователей
func NewPgRepository(pool *pgxpool.Pool, log *logger.Logger) *PgRepository {
	return &PgRepository{
		pool: pool,
		log:  log,
	}
}

// FindByID находит пользователя по ID
func (r *PgRepository) FindByID(ctx context.Context, userID string) (*User, error) {
	query := `
		SELECT id, full_name, email, role, status, created_at, updated_at
		FROM users
		WHERE id = $1
	`

	var u User
	err := r.pool.QueryRow(ctx, query, userID).Scan(
		&u.ID,
		&u.FullName,
		&u.Email,
		&u.Role,
		&u.Status,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("query user by id: %w", err)
	}

	return &u, nil
}

// Exists проверяет существование пользователя
func (r *PgRepository) Exists(ctx context.Context, userID string) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM users WHERE id = $1)`

	var exists bool
	if err := r.pool.QueryRow(ctx, query, userID).Scan(&exists); err != nil {
		return false, fmt.Errorf("check user exists: %w", err)
	}

	return exists, nil
}
