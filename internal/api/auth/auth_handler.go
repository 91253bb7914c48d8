package auth

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/ali-hasan-sss/syria-store-api/internal/api"
	"github.com/ali-hasan-sss/syria-store-api/internal/types"
)

type AuthHandler struct {
	authService AuthService
	logger      *slog.Logger
}

func NewAuthHandler(authService AuthService, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		logger:      logger,
	}
}

// Register godoc
// @Summary      Register New User
// @Description  Creates a user account and returns a session token (register implies login).
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Router       /auth/register [post]
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	l := h.logger.With(slog.String("handler", "Register"))

	var req RegisterRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		l.WarnContext(ctx, "Failed to decode request", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}

	session, err := h.authService.Register(ctx, req.Name, req.Email, req.PhoneNumber, req.Password)
	if err != nil {
		h.writeAuthError(w, r, err, "An error occurred during registration.")
		return
	}

	api.WriteJSONResponse(w, r, http.StatusCreated, AuthResponse{
		Success: true,
		Message: "User registered and logged in successfully.",
		Data:    *session,
	})
}

// Login godoc
// @Summary      User Login
// @Description  Authenticates by email or phone number and returns a session token.
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Router       /auth/login [post]
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	l := h.logger.With(slog.String("handler", "Login"))

	var req LoginRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		l.WarnContext(ctx, "Failed to decode request", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}

	if req.Identifier == "" {
		api.ValidationErrorResponse(w, r, types.NewFieldError("identifier", "Identifier is required"))
		return
	}
	if req.Password == "" {
		api.ValidationErrorResponse(w, r, types.NewFieldError("password", "Password is required"))
		return
	}

	session, err := h.authService.Login(ctx, req.Identifier, req.Password)
	if err != nil {
		h.writeAuthError(w, r, err, "An error occurred during login.")
		return
	}

	api.WriteJSONResponse(w, r, http.StatusOK, AuthResponse{
		Success: true,
		Message: "Login successful.",
		Data:    *session,
	})
}

// writeAuthError maps service errors onto the caller-visible taxonomy.
func (h *AuthHandler) writeAuthError(w http.ResponseWriter, r *http.Request, err error, fallback string) {
	var fe *types.FieldError
	var ce *types.ConflictError
	switch {
	case errors.As(err, &fe):
		api.ValidationErrorResponse(w, r, fe)
	case errors.As(err, &ce):
		api.WriteJSONResponse(w, r, http.StatusConflict, map[string]interface{}{
			"success": false,
			"message": ce.Message,
			"field":   ce.Field,
		})
	case errors.Is(err, types.ErrNotFound):
		api.ErrorResponse(w, r, http.StatusNotFound, "User not found.")
	case errors.Is(err, types.ErrUnauthenticated):
		api.ErrorResponse(w, r, http.StatusBadRequest, "Invalid password.")
	default:
		h.logger.ErrorContext(r.Context(), "Auth service failure", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusInternalServerError, fallback)
	}
}
