package blog

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
// @Summary      List blog posts (Public)
// @Tags         Blogs
// @Produce      json
// @Router       /blogs [get]
func (h *Handler) GetAll(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	blogs, err := h.repo.GetAll(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "Failed to list blogs", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to list blogs")
		return
	}
	api.WriteJSONResponse(w, r, http.StatusOK, blogs)
}

// GetByID godoc
// @Summary      Get blog post by ID (Public)
// @Tags         Blogs
// @Produce      json
// @Router       /blogs/{id} [get]
func (h *Handler) GetByID(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, "Invalid blog ID format")
		return
	}

	b, err := h.repo.GetByID(ctx, id)
	if err != nil {
		h.writeBlogError(w, r, err, "Failed to retrieve blog")
		return
	}
	api.WriteJSONResponse(w, r, http.StatusOK, b)
}

// Create godoc
// @Summary      Create blog post (Admin only)
// @Tags         Blogs
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Router       /blogs [post]
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var params types.BlogParams
	if err := api.DecodeJSONBody(w, r, &params); err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}
	if strings.TrimSpace(params.Title) == "" {
		api.ValidationErrorResponse(w, r, types.NewFieldError("title", "Blog title is required"))
		return
	}

	b, err := h.repo.Create(ctx, params)
	if err != nil {
		h.writeBlogError(w, r, err, "Failed to create blog")
		return
	}
	api.WriteJSONResponse(w, r, http.StatusCreated, b)
}

// Update godoc
// @Summary      Edit blog post (Admin only)
// @Tags         Blogs
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Router       /blogs/{id} [put]
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, "Invalid blog ID format")
		return
	}

	var params types.BlogParams
	if err := api.DecodeJSONBody(w, r, &params); err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}
	if strings.TrimSpace(params.Title) == "" {
		api.ValidationErrorResponse(w, r, types.NewFieldError("title", "Blog title is required"))
		return
	}

	b, err := h.repo.Update(ctx, id, params)
	if err != nil {
		h.writeBlogError(w, r, err, "Failed to update blog")
		return
	}
	api.WriteJSONResponse(w, r, http.StatusOK, b)
}

// Delete godoc
// @Summary      Delete blog post (Admin only)
// @Tags         Blogs
// @Produce      json
// @Security     BearerAuth
// @Router       /blogs/{id} [delete]
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, "Invalid blog ID format")
		return
	}

	if err := h.repo.Delete(ctx, id); err != nil {
		h.writeBlogError(w, r, err, "Failed to delete blog")
		return
	}

	api.WriteJSONResponse(w, r, http.StatusOK, types.Response{
		Success: true,
		Message: "Blog deleted successfully",
	})
}

func (h *Handler) writeBlogError(w http.ResponseWriter, r *http.Request, err error, fallback string) {
	if errors.Is(err, types.ErrNotFound) {
		api.ErrorResponse(w, r, http.StatusNotFound, "Blog not found")
		return
	}
	h.logger.ErrorContext(r.Context(), "Blog repository failure", slog.Any("error", err))
	api.ErrorResponse(w, r, http.StatusInternalServerError, fallback)
}
