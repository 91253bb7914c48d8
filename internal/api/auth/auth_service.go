package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/ali-hasan-sss/syria-store-api/app/observability/metrics"
	"github.com/ali-hasan-sss/syria-store-api/config"
	"github.com/ali-hasan-sss/syria-store-api/internal/types"
)

var (
	emailPattern = regexp.MustCompile(`^\S+@\S+\.\S+$`)
	phonePattern = regexp.MustCompile(`^09\d{8}$`)
)

var _ AuthService = (*AuthServiceImpl)(nil)

type AuthService interface {
	Register(ctx context.Context, name, email, phone, password string) (*SessionData, error)
	Login(ctx context.Context, identifier, password string) (*SessionData, error)
}

type AuthServiceImpl struct {
	repo   AuthRepo
	cfg    *config.Config
	logger *slog.Logger
}

func NewAuthService(repo AuthRepo, cfg *config.Config, logger *slog.Logger) *AuthServiceImpl {
	return &AuthServiceImpl{
		repo:   repo,
		cfg:    cfg,
		logger: logger,
	}
}

// validateRegistration returns the first failing field only.
func validateRegistration(name, email, phone, password string) *types.FieldError {
	if len(strings.TrimSpace(name)) < 2 {
		return types.NewFieldError("name", "Name must be at least 2 characters long")
	}
	if !emailPattern.MatchString(email) {
		return types.NewFieldError("email", "Invalid email address")
	}
	if !phonePattern.MatchString(phone) {
		return types.NewFieldError("phone_num", "Phone number must start with 09 and be 10 digits long")
	}
	if len(password) < 6 {
		return types.NewFieldError("password", "Password must be at least 6 characters long")
	}
	return nil
}

// Register validates input, enforces email/phone uniqueness in that order,
// hashes the password and creates the user. Registering implies logging in:
// a fresh session token is returned alongside the user summary.
func (s *AuthServiceImpl) Register(ctx context.Context, name, email, phone, password string) (*SessionData, error) {
	l := s.logger.With(slog.String("method", "Register"))

	if fe := validateRegistration(name, email, phone, password); fe != nil {
		return nil, fe
	}

	email = strings.ToLower(email)

	taken, err := s.repo.EmailExists(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("register: email uniqueness check failed: %w", err)
	}
	if taken {
		return nil, &types.ConflictError{Field: "email", Message: "Email is already taken."}
	}

	taken, err = s.repo.PhoneExists(ctx, phone)
	if err != nil {
		return nil, fmt.Errorf("register: phone uniqueness check failed: %w", err)
	}
	if taken {
		return nil, &types.ConflictError{Field: "phone_num", Message: "Phone number is already taken."}
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("register: failed to hash password: %w", err)
	}

	user, err := s.repo.CreateUser(ctx, strings.TrimSpace(name), email, phone, string(hashedPassword), types.RoleUser)
	if err != nil {
		if errors.Is(err, types.ErrConflict) {
			// Lost a race with a concurrent registration.
			return nil, &types.ConflictError{Field: "email", Message: "Email is already taken."}
		}
		return nil, fmt.Errorf("register: failed to create user: %w", err)
	}

	token, err := s.generateSessionToken(user)
	if err != nil {
		return nil, fmt.Errorf("register: failed to generate session token: %w", err)
	}

	metrics.Get().RegisterRequestsTotal.Add(ctx, 1)
	l.InfoContext(ctx, "User registered", slog.String("user_id", user.ID.String()))

	return &SessionData{Token: token, User: user.Summary()}, nil
}

// Login classifies the identifier as email or phone before any lookup and
// queries by the matching field only. Not-found and password mismatch are
// distinct client-facing outcomes.
func (s *AuthServiceImpl) Login(ctx context.Context, identifier, password string) (*SessionData, error) {
	l := s.logger.With(slog.String("method", "Login"))

	var user *types.User
	var err error
	switch {
	case emailPattern.MatchString(identifier):
		user, err = s.repo.GetUserByEmail(ctx, strings.ToLower(identifier))
	case phonePattern.MatchString(identifier):
		user, err = s.repo.GetUserByPhone(ctx, identifier)
	default:
		return nil, types.NewFieldError("identifier", "Please enter a valid email or phone number.")
	}

	if err != nil {
		if errors.Is(err, types.ErrNotFound) {
			return nil, types.ErrNotFound
		}
		return nil, fmt.Errorf("login: user lookup failed: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		l.WarnContext(ctx, "Password mismatch", slog.String("user_id", user.ID.String()))
		return nil, types.ErrUnauthenticated
	}

	token, err := s.generateSessionToken(user)
	if err != nil {
		return nil, fmt.Errorf("login: failed to generate session token: %w", err)
	}

	metrics.Get().LoginRequestsTotal.Add(ctx, 1)
	l.InfoContext(ctx, "User logged in", slog.String("user_id", user.ID.String()))

	return &SessionData{Token: token, User: user.Summary()}, nil
}

// generateSessionToken signs the user's identity claims. Tokens are
// stateless: previously issued tokens stay valid until they expire.
func (s *AuthServiceImpl) generateSessionToken(user *types.User) (string, error) {
	now := time.Now()
	ttl := s.cfg.JWT.TokenTTL
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}

	claims := &types.Claims{
		UserID:      user.ID.String(),
		Name:        user.Name,
		Email:       user.Email,
		Role:        user.Role,
		PhoneNumber: user.PhoneNumber,
		IsActive:    user.IsActive,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.cfg.JWT.Issuer,
			Audience:  jwt.ClaimStrings{s.cfg.JWT.Audience},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.cfg.JWT.SecretKey))
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}
