package content

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ali-hasan-sss/syria-store-api/internal/types"
)

var _ Repository = (*RepositoryImpl)(nil)

// Repository stores the promoted service entries shown on the landing page.
type Repository interface {
	GetAll(ctx context.Context) ([]types.ServiceItem, error)
	GetByID(ctx context.Context, id uuid.UUID) (*types.ServiceItem, error)
	Create(ctx context.Context, params types.ServiceItemParams) (*types.ServiceItem, error)
	Update(ctx context.Context, id uuid.UUID, params types.ServiceItemParams) (*types.ServiceItem, error)
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

const serviceColumns = `id, title, body, image, created_at, updated_at`

func scanServiceItem(row pgx.Row) (*types.ServiceItem, error) {
	var s types.ServiceItem
	err := row.Scan(&s.ID, &s.Title, &s.Body, &s.Image, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, types.ErrNotFound
		}
		return nil, fmt.Errorf("failed to scan service row: %w", err)
	}
	return &s, nil
}

func (r *RepositoryImpl) GetAll(ctx context.Context) ([]types.ServiceItem, error) {
	rows, err := r.pgpool.Query(ctx,
		"SELECT "+serviceColumns+" FROM services ORDER BY created_at DESC")
	if err != nil {
		return nil, fmt.Errorf("failed to query services: %w", err)
	}
	defer rows.Close()

	var items []types.ServiceItem
	for rows.Next() {
		s, err := scanServiceItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating service rows: %w", err)
	}
	return items, nil
}

func (r *RepositoryImpl) GetByID(ctx context.Context, id uuid.UUID) (*types.ServiceItem, error) {
	return scanServiceItem(r.pgpool.QueryRow(ctx,
		"SELECT "+serviceColumns+" FROM services WHERE id = $1", id))
}

func (r *RepositoryImpl) Create(ctx context.Context, params types.ServiceItemParams) (*types.ServiceItem, error) {
	return scanServiceItem(r.pgpool.QueryRow(ctx,
		`INSERT INTO services (title, body, image)
         VALUES ($1, $2, $3)
         RETURNING `+serviceColumns,
		params.Title, params.Body, params.Image))
}

func (r *RepositoryImpl) Update(ctx context.Context, id uuid.UUID, params types.ServiceItemParams) (*types.ServiceItem, error) {
	return scanServiceItem(r.pgpool.QueryRow(ctx,
		`UPDATE services
         SET title = $1, body = $2, image = $3, updated_at = now()
         WHERE id = $4
         RETURNING `+serviceColumns,
		params.Title, params.Body, params.Image, id))
}

func (r *RepositoryImpl) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pgpool.Exec(ctx, "DELETE FROM services WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("failed to delete service: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return types.ErrNotFound
	}
	return nil
}
