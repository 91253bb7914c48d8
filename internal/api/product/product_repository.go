package product

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/ali-hasan-sss/syria-store-api/internal/types"
)

// PGXPool is the subset of pgxpool.Pool the repository needs. Satisfied by
// *pgxpool.Pool and by pgxmock in tests.
type PGXPool interface {
	Begin(ctx context.Context) (pgx.Tx, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

var _ Repository = (*RepositoryImpl)(nil)

type Repository interface {
	List(ctx context.Context, filter types.ProductFilter, page, pageSize int) ([]types.Product, int, error)
	Latest(ctx context.Context, status *int, limit int) ([]types.Product, error)
	TopRated(ctx context.Context, status *int, limit int) ([]types.Product, error)
	GetByID(ctx context.Context, id uuid.UUID) (*types.Product, error)
	Create(ctx context.Context, params types.ProductParams, status int) (*types.Product, error)
	Update(ctx context.Context, id uuid.UUID, params types.ProductParams) (*types.Product, error)
	SetStatus(ctx context.Context, id uuid.UUID, status int) (*types.Product, error)
	Rate(ctx context.Context, id, userID uuid.UUID, rate float64) (*types.Product, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type RepositoryImpl struct {
	logger *slog.Logger
	pgpool PGXPool
}

func NewRepository(pgpool PGXPool, logger *slog.Logger) *RepositoryImpl {
	return &RepositoryImpl{
		logger: logger,
		pgpool: pgpool,
	}
}

const productColumns = `p.id, p.name, p.price, p.images, p.description, p.phone,
        p.category_id, p.status, p.average_rating, p.created_at, p.updated_at,
        c.name AS category_name`

const productSelect = `
        SELECT ` + productColumns + `
        FROM products p
        JOIN categories c ON c.id = p.category_id`

func scanProduct(row pgx.Row) (*types.Product, error) {
	var p types.Product
	var categoryName string
	err := row.Scan(
		&p.ID, &p.Name, &p.Price, &p.Images, &p.Description, &p.Phone,
		&p.CategoryID, &p.Status, &p.AverageRating, &p.CreatedAt, &p.UpdatedAt,
		&categoryName,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, types.ErrNotFound
		}
		return nil, fmt.Errorf("failed to scan product row: %w", err)
	}
	p.Category = &types.Category{ID: p.CategoryID, Name: categoryName}
	return &p, nil
}

func collectProducts(rows pgx.Rows) ([]types.Product, error) {
	defer rows.Close()
	var products []types.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		products = append(products, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating product rows: %w", err)
	}
	return products, nil
}

// buildFilterClauses turns a ProductFilter into WHERE clauses and args.
func buildFilterClauses(filter types.ProductFilter) ([]string, []any) {
	var clauses []string
	var args []any
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if filter.Status != nil {
		clauses = append(clauses, "p.status = "+arg(*filter.Status))
	}
	if filter.MinPrice != nil {
		clauses = append(clauses, "p.price >= "+arg(*filter.MinPrice))
	}
	if filter.MaxPrice != nil {
		clauses = append(clauses, "p.price <= "+arg(*filter.MaxPrice))
	}
	if filter.CategoryID != nil {
		clauses = append(clauses, "p.category_id = "+arg(*filter.CategoryID))
	}
	return clauses, args
}

func (r *RepositoryImpl) List(ctx context.Context, filter types.ProductFilter, page, pageSize int) ([]types.Product, int, error) {
	ctx, span := otel.Tracer("ProductRepo").Start(ctx, "List", trace.WithAttributes(
		semconv.DBSystemPostgreSQL,
		attribute.String("db.operation", "SELECT"),
		attribute.String("db.sql.table", "products"),
		attribute.Int("page", page),
		attribute.Int("page_size", pageSize),
	))
	defer span.End()

	clauses, args := buildFilterClauses(filter)
	where := ""
	if len(clauses) > 0 {
		where = " WHERE " + strings.Join(clauses, " AND ")
	}

	offset := (page - 1) * pageSize
	query := productSelect + where +
		fmt.Sprintf(" ORDER BY p.created_at DESC LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2)

	rows, err := r.pgpool.Query(ctx, query, append(args, pageSize, offset)...)
	if err != nil {
		span.RecordError(err)
		return nil, 0, fmt.Errorf("failed to query products: %w", err)
	}
	products, err := collectProducts(rows)
	if err != nil {
		span.RecordError(err)
		return nil, 0, err
	}

	countQuery := "SELECT COUNT(*) FROM products p" + where
	var total int
	if err := r.pgpool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		span.RecordError(err)
		return nil, 0, fmt.Errorf("failed to count products: %w", err)
	}

	span.SetAttributes(attribute.Int("total_records", total))
	span.SetStatus(codes.Ok, "Products listed")
	return products, total, nil
}

func (r *RepositoryImpl) Latest(ctx context.Context, status *int, limit int) ([]types.Product, error) {
	ctx, span := otel.Tracer("ProductRepo").Start(ctx, "Latest", trace.WithAttributes(
		semconv.DBSystemPostgreSQL,
		attribute.String("db.sql.table", "products"),
	))
	defer span.End()

	clauses, args := buildFilterClauses(types.ProductFilter{Status: status})
	where := ""
	if len(clauses) > 0 {
		where = " WHERE " + strings.Join(clauses, " AND ")
	}
	query := productSelect + where +
		fmt.Sprintf(" ORDER BY p.created_at DESC LIMIT $%d", len(args)+1)

	rows, err := r.pgpool.Query(ctx, query, append(args, limit)...)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to query latest products: %w", err)
	}
	return collectProducts(rows)
}

func (r *RepositoryImpl) TopRated(ctx context.Context, status *int, limit int) ([]types.Product, error) {
	ctx, span := otel.Tracer("ProductRepo").Start(ctx, "TopRated", trace.WithAttributes(
		semconv.DBSystemPostgreSQL,
		attribute.String("db.sql.table", "products"),
	))
	defer span.End()

	clauses, args := buildFilterClauses(types.ProductFilter{Status: status})
	clauses = append(clauses, "p.average_rating > 0")
	query := productSelect + " WHERE " + strings.Join(clauses, " AND ") +
		fmt.Sprintf(" ORDER BY p.average_rating DESC LIMIT $%d", len(args)+1)

	rows, err := r.pgpool.Query(ctx, query, append(args, limit)...)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to query top rated products: %w", err)
	}
	return collectProducts(rows)
}

func (r *RepositoryImpl) GetByID(ctx context.Context, id uuid.UUID) (*types.Product, error) {
	ctx, span := otel.Tracer("ProductRepo").Start(ctx, "GetByID", trace.WithAttributes(
		semconv.DBSystemPostgreSQL,
		attribute.String("db.sql.table", "products"),
		attribute.String("product.id", id.String()),
	))
	defer span.End()

	p, err := scanProduct(r.pgpool.QueryRow(ctx, productSelect+" WHERE p.id = $1", id))
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	ratings, err := r.loadRatings(ctx, id)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	p.Ratings = ratings
	return p, nil
}

func (r *RepositoryImpl) loadRatings(ctx context.Context, id uuid.UUID) ([]types.Rating, error) {
	rows, err := r.pgpool.Query(ctx,
		"SELECT user_id, rate FROM product_ratings WHERE product_id = $1", id)
	if err != nil {
		return nil, fmt.Errorf("failed to query product ratings: %w", err)
	}
	defer rows.Close()

	var ratings []types.Rating
	for rows.Next() {
		var rating types.Rating
		if err := rows.Scan(&rating.UserID, &rating.Rate); err != nil {
			return nil, fmt.Errorf("failed to scan rating row: %w", err)
		}
		ratings = append(ratings, rating)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rating rows: %w", err)
	}
	return ratings, nil
}

func (r *RepositoryImpl) Create(ctx context.Context, params types.ProductParams, status int) (*types.Product, error) {
	ctx, span := otel.Tracer("ProductRepo").Start(ctx, "Create", trace.WithAttributes(
		semconv.DBSystemPostgreSQL,
		attribute.String("db.operation", "INSERT"),
		attribute.String("db.sql.table", "products"),
	))
	defer span.End()

	var id uuid.UUID
	err := r.pgpool.QueryRow(ctx,
		`INSERT INTO products (name, price, images, description, phone, category_id, status)
         VALUES ($1, $2, $3, $4, $5, $6, $7)
         RETURNING id`,
		params.Name, params.Price, params.Images, params.Description,
		params.Phone, params.CategoryID, status).Scan(&id)
	if err != nil {
		span.RecordError(err)
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23503" {
			return nil, fmt.Errorf("category %s: %w", params.CategoryID, types.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to insert product: %w", err)
	}

	span.SetStatus(codes.Ok, "Product created")
	return r.GetByID(ctx, id)
}

func (r *RepositoryImpl) Update(ctx context.Context, id uuid.UUID, params types.ProductParams) (*types.Product, error) {
	ctx, span := otel.Tracer("ProductRepo").Start(ctx, "Update", trace.WithAttributes(
		semconv.DBSystemPostgreSQL,
		attribute.String("db.operation", "UPDATE"),
		attribute.String("db.sql.table", "products"),
		attribute.String("product.id", id.String()),
	))
	defer span.End()

	tag, err := r.pgpool.Exec(ctx,
		`UPDATE products
         SET name = $1, price = $2, images = $3, description = $4, phone = $5,
             category_id = $6, updated_at = now()
         WHERE id = $7`,
		params.Name, params.Price, params.Images, params.Description,
		params.Phone, params.CategoryID, id)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to update product: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return nil, types.ErrNotFound
	}

	return r.GetByID(ctx, id)
}

func (r *RepositoryImpl) SetStatus(ctx context.Context, id uuid.UUID, status int) (*types.Product, error) {
	ctx, span := otel.Tracer("ProductRepo").Start(ctx, "SetStatus", trace.WithAttributes(
		semconv.DBSystemPostgreSQL,
		attribute.String("db.operation", "UPDATE"),
		attribute.String("db.sql.table", "products"),
		attribute.Int("product.status", status),
	))
	defer span.End()

	tag, err := r.pgpool.Exec(ctx,
		"UPDATE products SET status = $1, updated_at = now() WHERE id = $2",
		status, id)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to update product status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return nil, types.ErrNotFound
	}

	return r.GetByID(ctx, id)
}

// Rate upserts the caller's rating and recomputes the average inside one
// transaction. The row lock serializes concurrent raters of the same
// product, so re-rates and averaging never lose updates.
func (r *RepositoryImpl) Rate(ctx context.Context, id, userID uuid.UUID, rate float64) (*types.Product, error) {
	ctx, span := otel.Tracer("ProductRepo").Start(ctx, "Rate", trace.WithAttributes(
		semconv.DBSystemPostgreSQL,
		attribute.String("db.sql.table", "product_ratings"),
		attribute.String("product.id", id.String()),
		attribute.String("user.id", userID.String()),
	))
	defer span.End()

	tx, err := r.pgpool.Begin(ctx)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to begin rating transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var status int
	err = tx.QueryRow(ctx, "SELECT status FROM products WHERE id = $1 FOR UPDATE", id).Scan(&status)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, types.ErrNotFound
		}
		span.RecordError(err)
		return nil, fmt.Errorf("failed to lock product row: %w", err)
	}

	_, err = tx.Exec(ctx,
		`INSERT INTO product_ratings (product_id, user_id, rate)
         VALUES ($1, $2, $3)
         ON CONFLICT (product_id, user_id) DO UPDATE SET rate = EXCLUDED.rate`,
		id, userID, rate)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to upsert rating: %w", err)
	}

	_, err = tx.Exec(ctx,
		`UPDATE products
         SET average_rating = (SELECT AVG(rate) FROM product_ratings WHERE product_id = $1),
             updated_at = now()
         WHERE id = $1`,
		id)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to recompute average rating: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to commit rating transaction: %w", err)
	}

	span.SetStatus(codes.Ok, "Rating upserted")
	return r.GetByID(ctx, id)
}

func (r *RepositoryImpl) Delete(ctx context.Context, id uuid.UUID) error {
	ctx, span := otel.Tracer("ProductRepo").Start(ctx, "Delete", trace.WithAttributes(
		semconv.DBSystemPostgreSQL,
		attribute.String("db.operation", "DELETE"),
		attribute.String("db.sql.table", "products"),
		attribute.String("product.id", id.String()),
	))
	defer span.End()

	tag, err := r.pgpool.Exec(ctx, "DELETE FROM products WHERE id = $1", id)
	if err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to delete product: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return types.ErrNotFound
	}
	return nil
}
