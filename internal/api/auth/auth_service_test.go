package auth

import (
	"context"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/ali-hasan-sss/syria-store-api/app/observability/metrics"
	"github.com/ali-hasan-sss/syria-store-api/config"
	"github.com/ali-hasan-sss/syria-store-api/internal/types"
)

func TestMain(m *testing.M) {
	metrics.InitAppMetrics()
	os.Exit(m.Run())
}

// MockAuthRepo is a mock implementation of the AuthRepo interface
type MockAuthRepo struct {
	mock.Mock
}

func (m *MockAuthRepo) GetUserByEmail(ctx context.Context, email string) (*types.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.User), args.Error(1)
}

func (m *MockAuthRepo) GetUserByPhone(ctx context.Context, phone string) (*types.User, error) {
	args := m.Called(ctx, phone)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.User), args.Error(1)
}

func (m *MockAuthRepo) EmailExists(ctx context.Context, email string) (bool, error) {
	args := m.Called(ctx, email)
	return args.Bool(0), args.Error(1)
}

func (m *MockAuthRepo) PhoneExists(ctx context.Context, phone string) (bool, error) {
	args := m.Called(ctx, phone)
	return args.Bool(0), args.Error(1)
}

func (m *MockAuthRepo) CreateUser(ctx context.Context, name, email, phone, passwordHash, role string) (*types.User, error) {
	args := m.Called(ctx, name, email, phone, passwordHash, role)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.User), args.Error(1)
}

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.JWT = config.JWTConfig{
		SecretKey: "test-secret",
		Issuer:    "test-issuer",
		Audience:  "test-audience",
		TokenTTL:  24 * time.Hour,
	}
	return cfg
}

func testUser(password string) *types.User {
	hashed, _ := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	return &types.User{
		ID:           uuid.New(),
		Name:         "Test User",
		Email:        "test@example.com",
		PhoneNumber:  "0912345678",
		PasswordHash: string(hashed),
		Role:         types.RoleUser,
		IsActive:     true,
	}
}

func TestRegister(t *testing.T) {
	logger := slog.Default()

	t.Run("Success", func(t *testing.T) {
		mockRepo := new(MockAuthRepo)
		service := NewAuthService(mockRepo, testConfig(), logger)
		ctx := context.Background()

		created := testUser("password123")
		mockRepo.On("EmailExists", ctx, "test@example.com").Return(false, nil).Once()
		mockRepo.On("PhoneExists", ctx, "0912345678").Return(false, nil).Once()
		mockRepo.On("CreateUser", ctx, "Test User", "test@example.com", "0912345678",
			mock.AnythingOfType("string"), types.RoleUser).Return(created, nil).Once()

		session, err := service.Register(ctx, "Test User", "Test@Example.com", "0912345678", "password123")

		require.NoError(t, err)
		assert.NotEmpty(t, session.Token)
		assert.Equal(t, created.ID, session.User.ID)
		assert.Equal(t, types.RoleUser, session.User.Role)
		mockRepo.AssertExpectations(t)
	})

	t.Run("FirstInvalidFieldWins", func(t *testing.T) {
		mockRepo := new(MockAuthRepo)
		service := NewAuthService(mockRepo, testConfig(), logger)

		// Name and email are both invalid, only the name is reported.
		_, err := service.Register(context.Background(), "A", "not-an-email", "123", "x")

		var fe *types.FieldError
		require.ErrorAs(t, err, &fe)
		assert.Equal(t, "name", fe.Field)
		mockRepo.AssertNotCalled(t, "EmailExists", mock.Anything, mock.Anything)
	})

	t.Run("InvalidPhone", func(t *testing.T) {
		mockRepo := new(MockAuthRepo)
		service := NewAuthService(mockRepo, testConfig(), logger)

		_, err := service.Register(context.Background(), "Test User", "test@example.com", "0712345678", "password123")

		var fe *types.FieldError
		require.ErrorAs(t, err, &fe)
		assert.Equal(t, "phone_num", fe.Field)
	})

	t.Run("EmailTaken", func(t *testing.T) {
		mockRepo := new(MockAuthRepo)
		service := NewAuthService(mockRepo, testConfig(), logger)
		ctx := context.Background()

		mockRepo.On("EmailExists", ctx, "test@example.com").Return(true, nil).Once()

		_, err := service.Register(ctx, "Test User", "test@example.com", "0912345678", "password123")

		var ce *types.ConflictError
		require.ErrorAs(t, err, &ce)
		assert.Equal(t, "email", ce.Field)
		// Email conflict is reported before the phone is even checked.
		mockRepo.AssertNotCalled(t, "PhoneExists", mock.Anything, mock.Anything)
		mockRepo.AssertExpectations(t)
	})

	t.Run("PhoneTaken", func(t *testing.T) {
		mockRepo := new(MockAuthRepo)
		service := NewAuthService(mockRepo, testConfig(), logger)
		ctx := context.Background()

		mockRepo.On("EmailExists", ctx, "test@example.com").Return(false, nil).Once()
		mockRepo.On("PhoneExists", ctx, "0912345678").Return(true, nil).Once()

		_, err := service.Register(ctx, "Test User", "test@example.com", "0912345678", "password123")

		var ce *types.ConflictError
		require.ErrorAs(t, err, &ce)
		assert.Equal(t, "phone_num", ce.Field)
		mockRepo.AssertExpectations(t)
	})

	t.Run("ConcurrentRegistrationRace", func(t *testing.T) {
		mockRepo := new(MockAuthRepo)
		service := NewAuthService(mockRepo, testConfig(), logger)
		ctx := context.Background()

		mockRepo.On("EmailExists", ctx, "test@example.com").Return(false, nil).Once()
		mockRepo.On("PhoneExists", ctx, "0912345678").Return(false, nil).Once()
		mockRepo.On("CreateUser", ctx, "Test User", "test@example.com", "0912345678",
			mock.AnythingOfType("string"), types.RoleUser).Return(nil, types.ErrConflict).Once()

		_, err := service.Register(ctx, "Test User", "test@example.com", "0912345678", "password123")

		var ce *types.ConflictError
		require.ErrorAs(t, err, &ce)
		assert.Equal(t, "email", ce.Field)
		mockRepo.AssertExpectations(t)
	})
}

func TestLogin(t *testing.T) {
	logger := slog.Default()

	t.Run("SuccessWithEmail", func(t *testing.T) {
		mockRepo := new(MockAuthRepo)
		service := NewAuthService(mockRepo, testConfig(), logger)
		ctx := context.Background()

		user := testUser("password123")
		mockRepo.On("GetUserByEmail", ctx, "test@example.com").Return(user, nil).Once()

		session, err := service.Login(ctx, "Test@Example.com", "password123")

		require.NoError(t, err)
		assert.NotEmpty(t, session.Token)
		assert.Equal(t, user.ID, session.User.ID)
		mockRepo.AssertNotCalled(t, "GetUserByPhone", mock.Anything, mock.Anything)
		mockRepo.AssertExpectations(t)
	})

	t.Run("SuccessWithPhone", func(t *testing.T) {
		mockRepo := new(MockAuthRepo)
		service := NewAuthService(mockRepo, testConfig(), logger)
		ctx := context.Background()

		user := testUser("password123")
		mockRepo.On("GetUserByPhone", ctx, "0912345678").Return(user, nil).Once()

		session, err := service.Login(ctx, "0912345678", "password123")

		require.NoError(t, err)
		assert.NotEmpty(t, session.Token)
		mockRepo.AssertNotCalled(t, "GetUserByEmail", mock.Anything, mock.Anything)
		mockRepo.AssertExpectations(t)
	})

	t.Run("UnclassifiableIdentifier", func(t *testing.T) {
		mockRepo := new(MockAuthRepo)
		service := NewAuthService(mockRepo, testConfig(), logger)

		_, err := service.Login(context.Background(), "not-an-identifier", "password123")

		var fe *types.FieldError
		require.ErrorAs(t, err, &fe)
		assert.Equal(t, "identifier", fe.Field)
		mockRepo.AssertNotCalled(t, "GetUserByEmail", mock.Anything, mock.Anything)
		mockRepo.AssertNotCalled(t, "GetUserByPhone", mock.Anything, mock.Anything)
	})

	t.Run("UserNotFound", func(t *testing.T) {
		mockRepo := new(MockAuthRepo)
		service := NewAuthService(mockRepo, testConfig(), logger)
		ctx := context.Background()

		mockRepo.On("GetUserByEmail", ctx, "nobody@example.com").Return(nil, types.ErrNotFound).Once()

		_, err := service.Login(ctx, "nobody@example.com", "password123")

		assert.ErrorIs(t, err, types.ErrNotFound)
		mockRepo.AssertExpectations(t)
	})

	t.Run("WrongPassword", func(t *testing.T) {
		mockRepo := new(MockAuthRepo)
		service := NewAuthService(mockRepo, testConfig(), logger)
		ctx := context.Background()

		user := testUser("correct-password")
		mockRepo.On("GetUserByEmail", ctx, "test@example.com").Return(user, nil).Once()

		_, err := service.Login(ctx, "test@example.com", "wrong-password")

		assert.ErrorIs(t, err, types.ErrUnauthenticated)
		mockRepo.AssertExpectations(t)
	})
}

func TestSessionTokenClaims(t *testing.T) {
	mockRepo := new(MockAuthRepo)
	cfg := testConfig()
	service := NewAuthService(mockRepo, cfg, slog.Default())
	ctx := context.Background()

	user := testUser("password123")
	mockRepo.On("GetUserByEmail", ctx, user.Email).Return(user, nil).Once()

	session, err := service.Login(ctx, user.Email, "password123")
	require.NoError(t, err)

	claims := &types.Claims{}
	parsed, err := jwt.ParseWithClaims(session.Token, claims, func(token *jwt.Token) (interface{}, error) {
		return []byte(cfg.JWT.SecretKey), nil
	})
	require.NoError(t, err)
	require.True(t, parsed.Valid)

	assert.Equal(t, user.ID.String(), claims.UserID)
	assert.Equal(t, user.Name, claims.Name)
	assert.Equal(t, user.Email, claims.Email)
	assert.Equal(t, user.Role, claims.Role)
	assert.Equal(t, user.PhoneNumber, claims.PhoneNumber)
	assert.True(t, claims.IsActive)
	assert.Equal(t, cfg.JWT.Issuer, claims.Issuer)

	ttl := time.Until(claims.ExpiresAt.Time)
	assert.InDelta(t, (24 * time.Hour).Seconds(), ttl.Seconds(), 60)
}
