package user

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/ali-hasan-sss/syria-store-api/internal/types"
)

var (
	emailPattern = regexp.MustCompile(`^\S+@\S+\.\S+$`)
	phonePattern = regexp.MustCompile(`^09\d{8}$`)
)

var _ Service = (*ServiceImpl)(nil)

type Service interface {
	GetAll(ctx context.Context) ([]types.User, error)
	GetByID(ctx context.Context, id uuid.UUID) (*types.User, error)
	Create(ctx context.Context, params types.CreateUserParams) (*types.User, error)
	Update(ctx context.Context, id uuid.UUID, params types.UpdateUserParams) (*types.User, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type ServiceImpl struct {
	repo   Repository
	logger *slog.Logger
}

func NewService(repo Repository, logger *slog.Logger) *ServiceImpl {
	return &ServiceImpl{
		repo:   repo,
		logger: logger,
	}
}

func (s *ServiceImpl) GetAll(ctx context.Context) ([]types.User, error) {
	return s.repo.GetAll(ctx)
}

func (s *ServiceImpl) GetByID(ctx context.Context, id uuid.UUID) (*types.User, error) {
	return s.repo.GetByID(ctx, id)
}

// validateIdentity applies the same fail-fast rules as registration.
func validateIdentity(name, email, phone string) *types.FieldError {
	if len(strings.TrimSpace(name)) < 2 {
		return types.NewFieldError("name", "Name must be at least 2 characters long")
	}
	if !emailPattern.MatchString(email) {
		return types.NewFieldError("email", "Invalid email address")
	}
	if !phonePattern.MatchString(phone) {
		return types.NewFieldError("phone_num", "Phone number must start with 09 and be 10 digits long")
	}
	return nil
}

func validateRole(role string) *types.FieldError {
	if role != types.RoleUser && role != types.RoleAdmin {
		return types.NewFieldError("role", "Role must be USER or ADMIN")
	}
	return nil
}

func (s *ServiceImpl) Create(ctx context.Context, params types.CreateUserParams) (*types.User, error) {
	if fe := validateIdentity(params.Name, params.Email, params.PhoneNumber); fe != nil {
		return nil, fe
	}
	if len(params.Password) < 6 {
		return nil, types.NewFieldError("password", "Password must be at least 6 characters long")
	}
	role := params.Role
	if role == "" {
		role = types.RoleUser
	}
	if fe := validateRole(role); fe != nil {
		return nil, fe
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(params.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("create user: failed to hash password: %w", err)
	}

	u, err := s.repo.Create(ctx, strings.TrimSpace(params.Name),
		strings.ToLower(params.Email), params.PhoneNumber, string(hashedPassword), role)
	if err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "User created by admin", slog.String("user_id", u.ID.String()))
	return u, nil
}

func (s *ServiceImpl) Update(ctx context.Context, id uuid.UUID, params types.UpdateUserParams) (*types.User, error) {
	if fe := validateIdentity(params.Name, params.Email, params.PhoneNumber); fe != nil {
		return nil, fe
	}
	if fe := validateRole(params.Role); fe != nil {
		return nil, fe
	}

	var passwordHash string
	if params.Password != "" {
		if len(params.Password) < 6 {
			return nil, types.NewFieldError("password", "Password must be at least 6 characters long")
		}
		hashed, err := bcrypt.GenerateFromPassword([]byte(params.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("update user: failed to hash password: %w", err)
		}
		passwordHash = string(hashed)
	}

	params.Name = strings.TrimSpace(params.Name)
	params.Email = strings.ToLower(params.Email)
	return s.repo.Update(ctx, id, params, passwordHash)
}

func (s *ServiceImpl) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}
