package category

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

type categoryRequest struct {
	Name string `json:"name"`
}

// GetAll godoc
// @Summary      Get all categories (Public)
// @Tags         Categories
// @Produce      json
// @Router       /categories [get]
func (h *Handler) GetAll(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	categories, err := h.repo.GetAll(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "Failed to list categories", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to list categories")
		return
	}
	api.WriteJSONResponse(w, r, http.StatusOK, categories)
}

// Create godoc
// @Summary      Add a new category (Admin only)
// @Tags         Categories
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Router       /categories [post]
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	l := h.logger.With(slog.String("handler", "Create"))

	var req categoryRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}
	if strings.TrimSpace(req.Name) == "" {
		api.ValidationErrorResponse(w, r, types.NewFieldError("name", "Category name is required"))
		return
	}

	c, err := h.repo.Create(ctx, strings.TrimSpace(req.Name))
	if err != nil {
		if errors.Is(err, types.ErrConflict) {
			api.ErrorResponse(w, r, http.StatusConflict, "Category already exists")
			return
		}
		l.ErrorContext(ctx, "Failed to create category", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to create category")
		return
	}

	api.WriteJSONResponse(w, r, http.StatusCreated, c)
}

// Update godoc
// @Summary      Edit a category (Admin only)
// @Tags         Categories
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Router       /categories/{id} [put]
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, "Invalid category ID format")
		return
	}

	var req categoryRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}
	if strings.TrimSpace(req.Name) == "" {
		api.ValidationErrorResponse(w, r, types.NewFieldError("name", "Category name is required"))
		return
	}

	c, err := h.repo.Update(ctx, id, strings.TrimSpace(req.Name))
	if err != nil {
		switch {
		case errors.Is(err, types.ErrNotFound):
			api.ErrorResponse(w, r, http.StatusNotFound, "Category not found")
		case errors.Is(err, types.ErrConflict):
			api.ErrorResponse(w, r, http.StatusConflict, "Category already exists")
		default:
			h.logger.ErrorContext(ctx, "Failed to update category", slog.Any("error", err))
			api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to update category")
		}
		return
	}

	api.WriteJSONResponse(w, r, http.StatusOK, c)
}

// Delete godoc
// @Summary      Delete a category (Admin only)
// @Description  Deletion is blocked while products still reference the category.
// @Tags         Categories
// @Produce      json
// @Security     BearerAuth
// @Router       /categories/{id} [delete]
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, "Invalid category ID format")
		return
	}

	if err := h.repo.Delete(ctx, id); err != nil {
		switch {
		case errors.Is(err, types.ErrNotFound):
			api.ErrorResponse(w, r, http.StatusNotFound, "Category not found")
		case errors.Is(err, types.ErrConflict):
			api.ErrorResponse(w, r, http.StatusConflict, "Category is still referenced by products")
		default:
			h.logger.ErrorContext(ctx, "Failed to delete category", slog.Any("error", err))
			api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to delete category")
		}
		return
	}

	api.WriteJSONResponse(w, r, http.StatusOK, types.Response{
		Success: true,
		Message: "Category deleted successfully",
	})
}
