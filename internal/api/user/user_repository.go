package user

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
	GetAll(ctx context.Context) ([]types.User, error)
	GetByID(ctx context.Context, id uuid.UUID) (*types.User, error)
	Create(ctx context.Context, name, email, phone, passwordHash, role string) (*types.User, error)
	Update(ctx context.Context, id uuid.UUID, params types.UpdateUserParams, passwordHash string) (*types.User, error)
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

const userColumns = `id, name, email, phone_num, password_hash, role, is_active, created_at, updated_at`

func scanUser(row pgx.Row) (*types.User, error) {
	var u types.User
	err := row.Scan(
		&u.ID, &u.Name, &u.Email, &u.PhoneNumber, &u.PasswordHash,
		&u.Role, &u.IsActive, &u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, types.ErrNotFound
		}
		return nil, fmt.Errorf("failed to scan user row: %w", err)
	}
	return &u, nil
}

func (r *RepositoryImpl) GetAll(ctx context.Context) ([]types.User, error) {
	rows, err := r.pgpool.Query(ctx,
		"SELECT "+userColumns+" FROM users ORDER BY created_at DESC")
	if err != nil {
		return nil, fmt.Errorf("failed to query users: %w", err)
	}
	defer rows.Close()

	var users []types.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, *u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating user rows: %w", err)
	}
	return users, nil
}

func (r *RepositoryImpl) GetByID(ctx context.Context, id uuid.UUID) (*types.User, error) {
	return scanUser(r.pgpool.QueryRow(ctx,
		"SELECT "+userColumns+" FROM users WHERE id = $1", id))
}

func (r *RepositoryImpl) Create(ctx context.Context, name, email, phone, passwordHash, role string) (*types.User, error) {
	row := r.pgpool.QueryRow(ctx,
		`INSERT INTO users (name, email, phone_num, password_hash, role)
         VALUES ($1, $2, $3, $4, $5)
         RETURNING `+userColumns,
		name, email, phone, passwordHash, role)

	u, err := scanUser(row)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, types.ErrConflict
		}
		return nil, fmt.Errorf("failed to insert user: %w", err)
	}
	return u, nil
}

// Update replaces the mutable fields. An empty passwordHash keeps the
// stored hash untouched.
func (r *RepositoryImpl) Update(ctx context.Context, id uuid.UUID, params types.UpdateUserParams, passwordHash string) (*types.User, error) {
	row := r.pgpool.QueryRow(ctx,
		`UPDATE users
         SET name = $1, email = $2, phone_num = $3, role = $4, is_active = $5,
             password_hash = COALESCE(NULLIF($6, ''), password_hash),
             updated_at = now()
         WHERE id = $7
         RETURNING `+userColumns,
		params.Name, params.Email, params.PhoneNumber, params.Role,
		params.IsActive, passwordHash, id)

	u, err := scanUser(row)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, types.ErrConflict
		}
		return nil, err
	}
	return u, nil
}

func (r *RepositoryImpl) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pgpool.Exec(ctx, "DELETE FROM users WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return types.ErrNotFound
	}
	return nil
}
