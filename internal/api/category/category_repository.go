package category

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ali-hasan-sss/syria-store-api/internal/types"
)

var _ Repository = (*RepositoryImpl)(nil)

type Repository interface {
	GetAll(ctx context.Context) ([]types.Category, error)
	Create(ctx context.Context, name string) (*types.Category, error)
	Update(ctx context.Context, id uuid.UUID, name string) (*types.Category, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type RepositoryImpl struct {
	logger *slog.Logger
	pgpool *pgxpool.Pool
}

func NewRepository(pgpool *pgxpool.Pool, logger *slog.Logger) *RepositoryImpl {
	return &RepositoryImpl{
		logger: logger,
		pgpool: pgpool,
	}
}

func (r *RepositoryImpl) GetAll(ctx context.Context) ([]types.Category, error) {
	rows, err := r.pgpool.Query(ctx, "SELECT id, name FROM categories ORDER BY name")
	if err != nil {
		return nil, fmt.Errorf("failed to query categories: %w", err)
	}
	defer rows.Close()

	var categories []types.Category
	for rows.Next() {
		var c types.Category
		if err := rows.Scan(&c.ID, &c.Name); err != nil {
			return nil, fmt.Errorf("failed to scan category row: %w", err)
		}
		categories = append(categories, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating category rows: %w", err)
	}
	return categories, nil
}

func (r *RepositoryImpl) Create(ctx context.Context, name string) (*types.Category, error) {
	var c types.Category
	err := r.pgpool.QueryRow(ctx,
		"INSERT INTO categories (name) VALUES ($1) RETURNING id, name", name).
		Scan(&c.ID, &c.Name)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, types.ErrConflict
		}
		return nil, fmt.Errorf("failed to insert category: %w", err)
	}
	return &c, nil
}

func (r *RepositoryImpl) Update(ctx context.Context, id uuid.UUID, name string) (*types.Category, error) {
	var c types.Category
	err := r.pgpool.QueryRow(ctx,
		"UPDATE categories SET name = $1 WHERE id = $2 RETURNING id, name", name, id).
		Scan(&c.ID, &c.Name)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, types.ErrNotFound
		}
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, types.ErrConflict
		}
		return nil, fmt.Errorf("failed to update category: %w", err)
	}
	return &c, nil
}

// Delete refuses to remove a category still referenced by products; the FK
// restriction surfaces as a conflict.
func (r *RepositoryImpl) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pgpool.Exec(ctx, "DELETE FROM categories WHERE id = $1", id)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23503" {
			return types.ErrConflict
		}
		return fmt.Errorf("failed to delete category: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return types.ErrNotFound
	}
	return nil
}
