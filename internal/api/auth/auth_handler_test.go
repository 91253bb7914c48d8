package auth

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/ali-hasan-sss/syria-store-api/internal/types"
)

// MockAuthService is a mock implementation of the AuthService interface
type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) Register(ctx context.Context, name, email, phone, password string) (*SessionData, error) {
	args := m.Called(ctx, name, email, phone, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*SessionData), args.Error(1)
}

func (m *MockAuthService) Login(ctx context.Context, identifier, password string) (*SessionData, error) {
	args := m.Called(ctx, identifier, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*SessionData), args.Error(1)
}

func postJSON(path, body string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func TestRegisterHandler(t *testing.T) {
	logger := slog.Default()

	t.Run("Created", func(t *testing.T) {
		mockService := new(MockAuthService)
		handler := NewAuthHandler(mockService, logger)

		mockService.On("Register", mock.Anything, "Test User", "test@example.com", "0912345678", "password123").
			Return(&SessionData{Token: "a.b.c"}, nil).Once()

		rec := httptest.NewRecorder()
		handler.Register(rec, postJSON("/auth/register",
			`{"name":"Test User","email":"test@example.com","phone_num":"0912345678","password":"password123"}`))

		assert.Equal(t, http.StatusCreated, rec.Code)

		var resp AuthResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.True(t, resp.Success)
		assert.Equal(t, "a.b.c", resp.Data.Token)
		mockService.AssertExpectations(t)
	})

	t.Run("ValidationErrorReportsField", func(t *testing.T) {
		mockService := new(MockAuthService)
		handler := NewAuthHandler(mockService, logger)

		mockService.On("Register", mock.Anything, "A", "test@example.com", "0912345678", "password123").
			Return(nil, types.NewFieldError("name", "Name must be at least 2 characters long")).Once()

		rec := httptest.NewRecorder()
		handler.Register(rec, postJSON("/auth/register",
			`{"name":"A","email":"test@example.com","phone_num":"0912345678","password":"password123"}`))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), `"field":"name"`)
		mockService.AssertExpectations(t)
	})

	t.Run("ConflictReportsField", func(t *testing.T) {
		mockService := new(MockAuthService)
		handler := NewAuthHandler(mockService, logger)

		mockService.On("Register", mock.Anything, "Test User", "test@example.com", "0912345678", "password123").
			Return(nil, &types.ConflictError{Field: "email", Message: "Email is already taken."}).Once()

		rec := httptest.NewRecorder()
		handler.Register(rec, postJSON("/auth/register",
			`{"name":"Test User","email":"test@example.com","phone_num":"0912345678","password":"password123"}`))

		assert.Equal(t, http.StatusConflict, rec.Code)
		assert.Contains(t, rec.Body.String(), `"field":"email"`)
		mockService.AssertExpectations(t)
	})

	t.Run("MalformedBody", func(t *testing.T) {
		mockService := new(MockAuthService)
		handler := NewAuthHandler(mockService, logger)

		rec := httptest.NewRecorder()
		handler.Register(rec, postJSON("/auth/register", `{not json`))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		mockService.AssertNotCalled(t, "Register",
			mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestLoginHandler(t *testing.T) {
	logger := slog.Default()

	t.Run("UnknownUserIs404", func(t *testing.T) {
		mockService := new(MockAuthService)
		handler := NewAuthHandler(mockService, logger)

		mockService.On("Login", mock.Anything, "nobody@example.com", "password123").
			Return(nil, types.ErrNotFound).Once()

		rec := httptest.NewRecorder()
		handler.Login(rec, postJSON("/auth/login",
			`{"identifier":"nobody@example.com","password":"password123"}`))

		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Contains(t, rec.Body.String(), "User not found.")
		mockService.AssertExpectations(t)
	})

	t.Run("WrongPasswordIs400", func(t *testing.T) {
		mockService := new(MockAuthService)
		handler := NewAuthHandler(mockService, logger)

		mockService.On("Login", mock.Anything, "test@example.com", "wrong").
			Return(nil, types.ErrUnauthenticated).Once()

		rec := httptest.NewRecorder()
		handler.Login(rec, postJSON("/auth/login",
			`{"identifier":"test@example.com","password":"wrong"}`))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "Invalid password.")
		mockService.AssertExpectations(t)
	})

	t.Run("EmptyIdentifierRejectedBeforeService", func(t *testing.T) {
		mockService := new(MockAuthService)
		handler := NewAuthHandler(mockService, logger)

		rec := httptest.NewRecorder()
		handler.Login(rec, postJSON("/auth/login", `{"identifier":"","password":"password123"}`))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		mockService.AssertNotCalled(t, "Login", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("UnexpectedErrorIs500", func(t *testing.T) {
		mockService := new(MockAuthService)
		handler := NewAuthHandler(mockService, logger)

		mockService.On("Login", mock.Anything, "test@example.com", "password123").
			Return(nil, errors.New("connection refused")).Once()

		rec := httptest.NewRecorder()
		handler.Login(rec, postJSON("/auth/login",
			`{"identifier":"test@example.com","password":"password123"}`))

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		mockService.AssertExpectations(t)
	})
}
