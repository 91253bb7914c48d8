package user

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/ali-hasan-sss/syria-store-api/internal/api"
	"github.com/ali-hasan-sss/syria-store-api/internal/types"
)

type Handler struct {
	service Service
	logger  *slog.Logger
}

func NewHandler(service Service, logger *slog.Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// GetAll godoc
// @Summary      List users (Admin only)
// @Tags         Users
// @Produce      json
// @Security     BearerAuth
// @Router       /users [get]
func (h *Handler) GetAll(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	users, err := h.service.GetAll(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "Failed to list users", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to list users")
		return
	}
	api.WriteJSONResponse(w, r, http.StatusOK, users)
}

// GetByID godoc
// @Summary      Get user by ID (Admin only)
// @Tags         Users
// @Produce      json
// @Security     BearerAuth
// @Router       /users/{id} [get]
func (h *Handler) GetByID(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, "Invalid user ID format")
		return
	}

	u, err := h.service.GetByID(ctx, id)
	if err != nil {
		h.writeUserError(w, r, err, "Failed to retrieve user")
		return
	}
	api.WriteJSONResponse(w, r, http.StatusOK, u)
}

// Create godoc
// @Summary      Create user (Admin only)
// @Tags         Users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Router       /users [post]
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var params types.CreateUserParams
	if err := api.DecodeJSONBody(w, r, &params); err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}

	u, err := h.service.Create(ctx, params)
	if err != nil {
		h.writeUserError(w, r, err, "Failed to create user")
		return
	}

	api.WriteJSONResponse(w, r, http.StatusCreated, u)
}

// Update godoc
// @Summary      Update user (Admin only)
// @Tags         Users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Router       /users/{id} [put]
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, "Invalid user ID format")
		return
	}

	var params types.UpdateUserParams
	if err := api.DecodeJSONBody(w, r, &params); err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}

	u, err := h.service.Update(ctx, id, params)
	if err != nil {
		h.writeUserError(w, r, err, "Failed to update user")
		return
	}

	api.WriteJSONResponse(w, r, http.StatusOK, u)
}

// Delete godoc
// @Summary      Delete user (Admin only)
// @Tags         Users
// @Produce      json
// @Security     BearerAuth
// @Router       /users/{id} [delete]
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, "Invalid user ID format")
		return
	}

	if err := h.service.Delete(ctx, id); err != nil {
		h.writeUserError(w, r, err, "Failed to delete user")
		return
	}

	api.WriteJSONResponse(w, r, http.StatusOK, types.Response{
		Success: true,
		Message: "User deleted successfully",
	})
}

func (h *Handler) writeUserError(w http.ResponseWriter, r *http.Request, err error, fallback string) {
	var fe *types.FieldError
	switch {
	case errors.As(err, &fe):
		api.ValidationErrorResponse(w, r, fe)
	case errors.Is(err, types.ErrNotFound):
		api.ErrorResponse(w, r, http.StatusNotFound, "User not found")
	case errors.Is(err, types.ErrConflict):
		api.ErrorResponse(w, r, http.StatusConflict, "Email or phone number is already taken")
	default:
		h.logger.ErrorContext(r.Context(), "User service failure", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusInternalServerError, fallback)
	}
}
