package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ali-hasan-sss/syria-store-api/internal/types"
)

var _ AuthRepo = (*AuthRepoImpl)(nil)

type AuthRepo interface {
	GetUserByEmail(ctx context.Context, email string) (*types.User, error)
	GetUserByPhone(ctx context.Context, phone string) (*types.User, error)
	EmailExists(ctx context.Context, email string) (bool, error)
	PhoneExists(ctx context.Context, phone string) (bool, error)
	CreateUser(ctx context.Context, name, email, phone, passwordHash, role string) (*types.User, error)
}

type AuthRepoImpl struct {
	logger *slog.Logger
	pgpool *pgxpool.Pool
}

func NewAuthRepo(pgpool *pgxpool.Pool, logger *slog.Logger) *AuthRepoImpl {
	return &AuthRepoImpl{
		logger: logger,
		pgpool: pgpool,
	}
}

const userColumns = `id, name, email, phone_num, password_hash, role, is_active, created_at, updated_at`

func scanUser(row pgx.Row) (*types.User, error) {
	var user types.User
	err := row.Scan(
		&user.ID, &user.Name, &user.Email, &user.PhoneNumber, &user.PasswordHash,
		&user.Role, &user.IsActive, &user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, types.ErrNotFound
		}
		return nil, fmt.Errorf("failed to scan user row: %w", err)
	}
	return &user, nil
}

func (r *AuthRepoImpl) GetUserByEmail(ctx context.Context, email string) (*types.User, error) {
	row := r.pgpool.QueryRow(ctx,
		"SELECT "+userColumns+" FROM users WHERE email = $1", email)
	return scanUser(row)
}

func (r *AuthRepoImpl) GetUserByPhone(ctx context.Context, phone string) (*types.User, error) {
	row := r.pgpool.QueryRow(ctx,
		"SELECT "+userColumns+" FROM users WHERE phone_num = $1", phone)
	return scanUser(row)
}

func (r *AuthRepoImpl) EmailExists(ctx context.Context, email string) (bool, error) {
	var exists bool
	err := r.pgpool.QueryRow(ctx,
		"SELECT EXISTS (SELECT 1 FROM users WHERE email = $1)", email).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check email existence: %w", err)
	}
	return exists, nil
}

func (r *AuthRepoImpl) PhoneExists(ctx context.Context, phone string) (bool, error) {
	var exists bool
	err := r.pgpool.QueryRow(ctx,
		"SELECT EXISTS (SELECT 1 FROM users WHERE phone_num = $1)", phone).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check phone existence: %w", err)
	}
	return exists, nil
}

// CreateUser inserts a new user row. The unique constraints on email and
// phone_num are the final arbiter under concurrent registrations.
func (r *AuthRepoImpl) CreateUser(ctx context.Context, name, email, phone, passwordHash, role string) (*types.User, error) {
	row := r.pgpool.QueryRow(ctx,
		`INSERT INTO users (name, email, phone_num, password_hash, role)
         VALUES ($1, $2, $3, $4, $5)
         RETURNING `+userColumns,
		name, email, phone, passwordHash, role)

	user, err := scanUser(row)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			r.logger.WarnContext(ctx, "Unique constraint violation on user insert",
				slog.String("constraint", pgErr.ConstraintName))
			return nil, types.ErrConflict
		}
		return nil, fmt.Errorf("failed to insert user: %w", err)
	}
	return user, nil
}
