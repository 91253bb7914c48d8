package content

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/ali-hasan-sss/syria-store-api/internal/api"
	"github.com/ali-hasan-sss/syria-store-api/internal/types"
)

type Handler struct {
	repo   Repository
	logger *slog.Logger
}

func NewHandler(repo Repository, logger *slog.Logger) *Handler {
	return &Handler{
		repo:   repo,
		logger: logger,
	}
}

// GetAll godoc
// @Summary      List services (Public)
// @Tags         Services
// @Produce      json
// @Router       /services [get]
func (h *Handler) GetAll(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	items, err := h.repo.GetAll(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "Failed to list services", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to list services")
		return
	}
	api.WriteJSONResponse(w, r, http.StatusOK, items)
}

// GetByID godoc
// @Summary      Get service by ID (Public)
// @Tags         Services
// @Produce      json
// @Router       /services/{id} [get]
func (h *Handler) GetByID(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, "Invalid service ID format")
		return
	}

	s, err := h.repo.GetByID(ctx, id)
	if err != nil {
		h.writeServiceError(w, r, err, "Failed to retrieve service")
		return
	}
	api.WriteJSONResponse(w, r, http.StatusOK, s)
}

// Create godoc
// @Summary      Create service (Admin only)
// @Tags         Services
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Router       /services [post]
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var params types.ServiceItemParams
	if err := api.DecodeJSONBody(w, r, &params); err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}
	if strings.TrimSpace(params.Title) == "" {
		api.ValidationErrorResponse(w, r, types.NewFieldError("title", "Service title is required"))
		return
	}

	s, err := h.repo.Create(ctx, params)
	if err != nil {
		h.writeServiceError(w, r, err, "Failed to create service")
		return
	}
	api.WriteJSONResponse(w, r, http.StatusCreated, s)
}

// Update godoc
// @Summary      Edit service (Admin only)
// @Tags         Services
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Router       /services/{id} [put]
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, "Invalid service ID format")
		return
	}

	var params types.ServiceItemParams
	if err := api.DecodeJSONBody(w, r, &params); err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}
	if strings.TrimSpace(params.Title) == "" {
		api.ValidationErrorResponse(w, r, types.NewFieldError("title", "Service title is required"))
		return
	}

	s, err := h.repo.Update(ctx, id, params)
	if err != nil {
		h.writeServiceError(w, r, err, "Failed to update service")
		return
	}
	api.WriteJSONResponse(w, r, http.StatusOK, s)
}

// Delete godoc
// @Summary      Delete service (Admin only)
// @Tags         Services
// @Produce      json
// @Security     BearerAuth
// @Router       /services/{id} [delete]
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, "Invalid service ID format")
		return
	}

	if err := h.repo.Delete(ctx, id); err != nil {
		h.writeServiceError(w, r, err, "Failed to delete service")
		return
	}

	api.WriteJSONResponse(w, r, http.StatusOK, types.Response{
		Success: true,
		Message: "Service deleted successfully",
	})
}

func (h *Handler) writeServiceError(w http.ResponseWriter, r *http.Request, err error, fallback string) {
	if errors.Is(err, types.ErrNotFound) {
		api.ErrorResponse(w, r, http.StatusNotFound, "Service not found")
		return
	}
	h.logger.ErrorContext(r.Context(), "Service repository failure", slog.Any("error", err))
	api.ErrorResponse(w, r, http.StatusInternalServerError, fallback)
}
