package user

import (
	"context"
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/ali-hasan-sss/syria-store-api/internal/types"
)

// MockRepository is a mock implementation of the Repository interface
type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) GetAll(ctx context.Context) ([]types.User, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]types.User), args.Error(1)
}

func (m *MockRepository) GetByID(ctx context.Context, id uuid.UUID) (*types.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.User), args.Error(1)
}

func (m *MockRepository) Create(ctx context.Context, name, email, phone, passwordHash, role string) (*types.User, error) {
	args := m.Called(ctx, name, email, phone, passwordHash, role)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.User), args.Error(1)
}

func (m *MockRepository) Update(ctx context.Context, id uuid.UUID, params types.UpdateUserParams, passwordHash string) (*types.User, error) {
	args := m.Called(ctx, id, params, passwordHash)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.User), args.Error(1)
}

func (m *MockRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func TestUserCreate(t *testing.T) {
	logger := slog.Default()
	ctx := context.Background()

	t.Run("RoleDefaultsToUser", func(t *testing.T) {
		mockRepo := new(MockRepository)
		service := NewService(mockRepo, logger)

		created := &types.User{ID: uuid.New(), Role: types.RoleUser}
		mockRepo.On("Create", ctx, "Test User", "test@example.com", "0912345678",
			mock.AnythingOfType("string"), types.RoleUser).Return(created, nil).Once()

		u, err := service.Create(ctx, types.CreateUserParams{
			Name:        "Test User",
			Email:       "Test@Example.com",
			PhoneNumber: "0912345678",
			Password:    "password123",
		})

		require.NoError(t, err)
		assert.Equal(t, types.RoleUser, u.Role)
		mockRepo.AssertExpectations(t)
	})

	t.Run("PasswordIsHashed", func(t *testing.T) {
		mockRepo := new(MockRepository)
		service := NewService(mockRepo, logger)

		var storedHash string
		mockRepo.On("Create", ctx, "Test User", "test@example.com", "0912345678",
			mock.MatchedBy(func(hash string) bool {
				storedHash = hash
				return hash != "password123"
			}), types.RoleAdmin).Return(&types.User{ID: uuid.New()}, nil).Once()

		_, err := service.Create(ctx, types.CreateUserParams{
			Name:        "Test User",
			Email:       "test@example.com",
			PhoneNumber: "0912345678",
			Password:    "password123",
			Role:        types.RoleAdmin,
		})

		require.NoError(t, err)
		assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(storedHash), []byte("password123")))
		mockRepo.AssertExpectations(t)
	})

	t.Run("UnknownRoleRejected", func(t *testing.T) {
		mockRepo := new(MockRepository)
		service := NewService(mockRepo, logger)

		_, err := service.Create(ctx, types.CreateUserParams{
			Name:        "Test User",
			Email:       "test@example.com",
			PhoneNumber: "0912345678",
			Password:    "password123",
			Role:        "SUPERUSER",
		})

		var fe *types.FieldError
		require.ErrorAs(t, err, &fe)
		assert.Equal(t, "role", fe.Field)
		mockRepo.AssertNotCalled(t, "Create",
			mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("ShortPasswordRejected", func(t *testing.T) {
		mockRepo := new(MockRepository)
		service := NewService(mockRepo, logger)

		_, err := service.Create(ctx, types.CreateUserParams{
			Name:        "Test User",
			Email:       "test@example.com",
			PhoneNumber: "0912345678",
			Password:    "12345",
		})

		var fe *types.FieldError
		require.ErrorAs(t, err, &fe)
		assert.Equal(t, "password", fe.Field)
	})
}

func TestUserUpdate(t *testing.T) {
	logger := slog.Default()
	ctx := context.Background()
	id := uuid.New()

	validUpdate := func() types.UpdateUserParams {
		return types.UpdateUserParams{
			Name:        "Test User",
			Email:       "test@example.com",
			PhoneNumber: "0912345678",
			Role:        types.RoleUser,
			IsActive:    true,
		}
	}

	t.Run("EmptyPasswordKeepsHash", func(t *testing.T) {
		mockRepo := new(MockRepository)
		service := NewService(mockRepo, logger)

		params := validUpdate()
		mockRepo.On("Update", ctx, id, params, "").
			Return(&types.User{ID: id}, nil).Once()

		_, err := service.Update(ctx, id, params)

		require.NoError(t, err)
		mockRepo.AssertExpectations(t)
	})

	t.Run("NewPasswordIsRehashed", func(t *testing.T) {
		mockRepo := new(MockRepository)
		service := NewService(mockRepo, logger)

		params := validUpdate()
		params.Password = "newpassword"
		expectedParams := validUpdate()
		expectedParams.Password = "newpassword"

		mockRepo.On("Update", ctx, id, expectedParams, mock.MatchedBy(func(hash string) bool {
			return bcrypt.CompareHashAndPassword([]byte(hash), []byte("newpassword")) == nil
		})).Return(&types.User{ID: id}, nil).Once()

		_, err := service.Update(ctx, id, params)

		require.NoError(t, err)
		mockRepo.AssertExpectations(t)
	})

	t.Run("InvalidEmailRejected", func(t *testing.T) {
		mockRepo := new(MockRepository)
		service := NewService(mockRepo, logger)

		params := validUpdate()
		params.Email = "not-an-email"
		_, err := service.Update(ctx, id, params)

		var fe *types.FieldError
		require.ErrorAs(t, err, &fe)
		assert.Equal(t, "email", fe.Field)
		mockRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})
}
