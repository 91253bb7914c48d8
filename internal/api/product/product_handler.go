package product

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/ali-hasan-sss/syria-store-api/internal/api"
	"github.com/ali-hasan-sss/syria-store-api/internal/api/auth"
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

// callerRole returns the caller's role, empty for unauthenticated requests.
func callerRole(r *http.Request) string {
	role, _ := auth.GetUserRoleFromContext(r.Context())
	return role
}

// parsePagination applies the default-on-invalid policy: non-numeric or
// out-of-range values silently fall back, they never error.
func parsePagination(r *http.Request) (int, int) {
	page := defaultPage
	pageSize := defaultPageSize
	if v, err := strconv.Atoi(r.URL.Query().Get("page")); err == nil && v >= 1 {
		page = v
	}
	if v, err := strconv.Atoi(r.URL.Query().Get("pageSize")); err == nil && v >= 1 {
		pageSize = v
	}
	return page, pageSize
}

func parseFilter(r *http.Request) types.ProductFilter {
	var filter types.ProductFilter
	q := r.URL.Query()
	if v, err := strconv.ParseFloat(q.Get("minPrice"), 64); err == nil {
		filter.MinPrice = &v
	}
	if v, err := strconv.ParseFloat(q.Get("maxPrice"), 64); err == nil {
		filter.MaxPrice = &v
	}
	if v, err := uuid.Parse(q.Get("categoryId")); err == nil {
		filter.CategoryID = &v
	}
	return filter
}

// List godoc
// @Summary      List products
// @Description  Paginated product listing with price range and category filters.
// @Tags         Products
// @Produce      json
// @Router       /products [get]
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	l := h.logger.With(slog.String("handler", "List"))

	page, pageSize := parsePagination(r)
	result, err := h.service.List(ctx, parseFilter(r), callerRole(r), page, pageSize)
	if err != nil {
		l.ErrorContext(ctx, "Failed to list products", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to list products")
		return
	}

	api.WriteJSONResponse(w, r, http.StatusOK, result)
}

// Latest godoc
// @Summary      Latest products
// @Tags         Products
// @Produce      json
// @Router       /products/latest [get]
func (h *Handler) Latest(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	items, err := h.service.Latest(ctx, callerRole(r))
	if err != nil {
		h.logger.ErrorContext(ctx, "Failed to list latest products", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to list latest products")
		return
	}
	api.WriteJSONResponse(w, r, http.StatusOK, items)
}

// TopRated godoc
// @Summary      Top rated products
// @Tags         Products
// @Produce      json
// @Router       /products/top-rated [get]
func (h *Handler) TopRated(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	items, err := h.service.TopRated(ctx, callerRole(r))
	if err != nil {
		h.logger.ErrorContext(ctx, "Failed to list top rated products", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to list top rated products")
		return
	}
	api.WriteJSONResponse(w, r, http.StatusOK, items)
}

// GetByID godoc
// @Summary      Get product by ID
// @Tags         Products
// @Produce      json
// @Router       /products/{id} [get]
func (h *Handler) GetByID(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, "Invalid product ID format")
		return
	}

	p, err := h.service.GetByID(ctx, id, callerRole(r))
	if err != nil {
		h.writeProductError(w, r, err, "Failed to retrieve product")
		return
	}

	api.WriteJSONResponse(w, r, http.StatusOK, p)
}

// Create godoc
// @Summary      Create product (Admin only)
// @Tags         Products
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Router       /products [post]
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	l := h.logger.With(slog.String("handler", "Create"))

	var params types.ProductParams
	if err := api.DecodeJSONBody(w, r, &params); err != nil {
		l.WarnContext(ctx, "Failed to decode request", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}

	p, err := h.service.Create(ctx, params)
	if err != nil {
		h.writeProductError(w, r, err, "Failed to create product")
		return
	}

	api.WriteJSONResponse(w, r, http.StatusCreated, p)
}

// Update godoc
// @Summary      Replace product fields (Admin only)
// @Tags         Products
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Router       /products/{id} [put]
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, "Invalid product ID format")
		return
	}

	var params types.ProductParams
	if err := api.DecodeJSONBody(w, r, &params); err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}

	p, err := h.service.Update(ctx, id, params)
	if err != nil {
		h.writeProductError(w, r, err, "Failed to update product")
		return
	}

	api.WriteJSONResponse(w, r, http.StatusOK, p)
}

type setStatusRequest struct {
	Status int `json:"status"`
}

// SetStatus godoc
// @Summary      Change product status (Admin only)
// @Tags         Products
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Router       /products/{id}/status [patch]
func (h *Handler) SetStatus(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, "Invalid product ID format")
		return
	}

	var req setStatusRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}

	p, err := h.service.SetStatus(ctx, id, req.Status)
	if err != nil {
		h.writeProductError(w, r, err, "Failed to update product status")
		return
	}

	api.WriteJSONResponse(w, r, http.StatusOK, p)
}

type rateRequest struct {
	Rate float64 `json:"rate"`
}

// Rate godoc
// @Summary      Rate a product
// @Description  Upserts the authenticated caller's rating and recomputes the average.
// @Tags         Products
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Router       /products/{id}/rate [post]
func (h *Handler) Rate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	l := h.logger.With(slog.String("handler", "Rate"))

	userIDStr, ok := auth.GetUserIDFromContext(ctx)
	if !ok || userIDStr == "" {
		l.ErrorContext(ctx, "User ID not found in context")
		api.ErrorResponse(w, r, http.StatusUnauthorized, "Authentication required")
		return
	}
	userID, err := uuid.Parse(userIDStr)
	if err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, "Invalid user ID format")
		return
	}

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, "Invalid product ID format")
		return
	}

	var req rateRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}

	p, err := h.service.Rate(ctx, id, userID, req.Rate)
	if err != nil {
		h.writeProductError(w, r, err, "Failed to rate product")
		return
	}

	api.WriteJSONResponse(w, r, http.StatusOK, p)
}

// Delete godoc
// @Summary      Delete product (Admin only)
// @Tags         Products
// @Produce      json
// @Security     BearerAuth
// @Router       /products/{id} [delete]
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, "Invalid product ID format")
		return
	}

	if err := h.service.Delete(ctx, id); err != nil {
		h.writeProductError(w, r, err, "Failed to delete product")
		return
	}

	api.WriteJSONResponse(w, r, http.StatusOK, types.Response{
		Success: true,
		Message: "Product deleted successfully",
	})
}

func (h *Handler) writeProductError(w http.ResponseWriter, r *http.Request, err error, fallback string) {
	var fe *types.FieldError
	switch {
	case errors.As(err, &fe):
		api.ValidationErrorResponse(w, r, fe)
	case errors.Is(err, types.ErrNotFound):
		api.ErrorResponse(w, r, http.StatusNotFound, "Product not found")
	case errors.Is(err, types.ErrForbidden):
		api.ErrorResponse(w, r, http.StatusForbidden, "Access Denied")
	default:
		h.logger.ErrorContext(r.Context(), "Product service failure", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusInternalServerError, fallback)
	}
}
