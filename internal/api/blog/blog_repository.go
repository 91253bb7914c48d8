package blog

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"

	"github.com/ali-hasan-sss/syria-store-api/internal/types"
)

var _ Repository = (*RepositoryImpl)(nil)

type Repository interface {
	GetAll(ctx context.Context) ([]types.Blog, error)
	GetByID(ctx context.Context, id uuid.UUID) (*types.Blog, error)
	Create(ctx context.Context, params types.BlogParams) (*types.Blog, error)
	Update(ctx context.Context, id uuid.UUID, params types.BlogParams) (*types.Blog, error)
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

const blogColumns = `id, title, image, body, description, created_at, updated_at`

func scanBlog(row pgx.Row) (*types.Blog, error) {
	var b types.Blog
	err := row.Scan(&b.ID, &b.Title, &b.Image, &b.Body, &b.Description, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, types.ErrNotFound
		}
		return nil, fmt.Errorf("failed to scan blog row: %w", err)
	}
	return &b, nil
}

func (r *RepositoryImpl) GetAll(ctx context.Context) ([]types.Blog, error) {
	ctx, span := otel.Tracer("BlogRepo").Start(ctx, "GetAll",
		trace.WithAttributes(semconv.DBSystemPostgreSQL))
	defer span.End()

	rows, err := r.pgpool.Query(ctx,
		"SELECT "+blogColumns+" FROM blogs ORDER BY created_at DESC")
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "query failed")
		return nil, fmt.Errorf("failed to query blogs: %w", err)
	}
	defer rows.Close()

	var blogs []types.Blog
	for rows.Next() {
		b, err := scanBlog(rows)
		if err != nil {
			return nil, err
		}
		blogs = append(blogs, *b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating blog rows: %w", err)
	}
	span.SetAttributes(attribute.Int("blogs.count", len(blogs)))
	return blogs, nil
}

func (r *RepositoryImpl) GetByID(ctx context.Context, id uuid.UUID) (*types.Blog, error) {
	return scanBlog(r.pgpool.QueryRow(ctx,
		"SELECT "+blogColumns+" FROM blogs WHERE id = $1", id))
}

func (r *RepositoryImpl) Create(ctx context.Context, params types.BlogParams) (*types.Blog, error) {
	return scanBlog(r.pgpool.QueryRow(ctx,
		`INSERT INTO blogs (title, image, body, description)
         VALUES ($1, $2, $3, $4)
         RETURNING `+blogColumns,
		params.Title, params.Image, params.Body, params.Description))
}

func (r *RepositoryImpl) Update(ctx context.Context, id uuid.UUID, params types.BlogParams) (*types.Blog, error) {
	return scanBlog(r.pgpool.QueryRow(ctx,
		`UPDATE blogs
         SET title = $1, image = $2, body = $3, description = $4, updated_at = now()
         WHERE id = $5
         RETURNING `+blogColumns,
		params.Title, params.Image, params.Body, params.Description, id))
}

func (r *RepositoryImpl) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pgpool.Exec(ctx, "DELETE FROM blogs WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("failed to delete blog: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return types.ErrNotFound
	}
	return nil
}
