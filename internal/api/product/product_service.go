package product

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	gocache "github.com/patrickmn/go-cache"

	"github.com/ali-hasan-sss/syria-store-api/app/observability/metrics"
	"github.com/ali-hasan-sss/syria-store-api/internal/types"
)

const (
	defaultPage     = 1
	defaultPageSize = 10
	cappedListLimit = 10

	listingCacheTTL = 30 * time.Second
)

var _ Service = (*ServiceImpl)(nil)

type Service interface {
	List(ctx context.Context, filter types.ProductFilter, role string, page, pageSize int) (*types.ProductPage, error)
	Latest(ctx context.Context, role string) ([]types.Product, error)
	TopRated(ctx context.Context, role string) ([]types.Product, error)
	GetByID(ctx context.Context, id uuid.UUID, role string) (*types.Product, error)
	Create(ctx context.Context, params types.ProductParams) (*types.Product, error)
	Update(ctx context.Context, id uuid.UUID, params types.ProductParams) (*types.Product, error)
	SetStatus(ctx context.Context, id uuid.UUID, status int) (*types.Product, error)
	Rate(ctx context.Context, id, userID uuid.UUID, rate float64) (*types.Product, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type ServiceImpl struct {
	repo   Repository
	cache  *gocache.Cache
	logger *slog.Logger
}

func NewService(repo Repository, logger *slog.Logger) *ServiceImpl {
	return &ServiceImpl{
		repo:   repo,
		cache:  gocache.New(listingCacheTTL, 2*listingCacheTTL),
		logger: logger,
	}
}

// visibilityStatus returns the implicit status filter for a caller role.
// Non-admin callers (including unauthenticated) only ever see listed
// products; admins see everything.
func visibilityStatus(role string) *int {
	if role == types.RoleAdmin {
		return nil
	}
	listed := types.ProductStatusListed
	return &listed
}

func normalizePagination(page, pageSize int) (int, int) {
	if page < 1 {
		page = defaultPage
	}
	if pageSize < 1 {
		pageSize = defaultPageSize
	}
	return page, pageSize
}

func (s *ServiceImpl) List(ctx context.Context, filter types.ProductFilter, role string, page, pageSize int) (*types.ProductPage, error) {
	page, pageSize = normalizePagination(page, pageSize)
	filter.Status = visibilityStatus(role)

	items, total, err := s.repo.List(ctx, filter, page, pageSize)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}

	totalPages := (total + pageSize - 1) / pageSize
	return &types.ProductPage{
		Items:      items,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages,
	}, nil
}

func (s *ServiceImpl) Latest(ctx context.Context, role string) ([]types.Product, error) {
	key := "latest:" + cacheScope(role)
	if cached, ok := s.cache.Get(key); ok {
		return cached.([]types.Product), nil
	}

	items, err := s.repo.Latest(ctx, visibilityStatus(role), cappedListLimit)
	if err != nil {
		return nil, fmt.Errorf("latest products: %w", err)
	}
	s.cache.SetDefault(key, items)
	return items, nil
}

func (s *ServiceImpl) TopRated(ctx context.Context, role string) ([]types.Product, error) {
	key := "top-rated:" + cacheScope(role)
	if cached, ok := s.cache.Get(key); ok {
		return cached.([]types.Product), nil
	}

	items, err := s.repo.TopRated(ctx, visibilityStatus(role), cappedListLimit)
	if err != nil {
		return nil, fmt.Errorf("top rated products: %w", err)
	}
	s.cache.SetDefault(key, items)
	return items, nil
}

func cacheScope(role string) string {
	if role == types.RoleAdmin {
		return "admin"
	}
	return "public"
}

// GetByID denies non-admin access to unlisted products as forbidden, so a
// caller cannot distinguish a hidden product from a missing one by probing.
func (s *ServiceImpl) GetByID(ctx context.Context, id uuid.UUID, role string) (*types.Product, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if role != types.RoleAdmin && p.Status != types.ProductStatusListed {
		return nil, types.ErrForbidden
	}
	return p, nil
}

// Create always starts a product as pending, regardless of caller input.
func (s *ServiceImpl) Create(ctx context.Context, params types.ProductParams) (*types.Product, error) {
	if fe := validateProductParams(params); fe != nil {
		return nil, fe
	}
	p, err := s.repo.Create(ctx, params, types.ProductStatusPending)
	if err != nil {
		return nil, fmt.Errorf("create product: %w", err)
	}
	s.cache.Flush()
	return p, nil
}

func (s *ServiceImpl) Update(ctx context.Context, id uuid.UUID, params types.ProductParams) (*types.Product, error) {
	if fe := validateProductParams(params); fe != nil {
		return nil, fe
	}
	p, err := s.repo.Update(ctx, id, params)
	if err != nil {
		return nil, err
	}
	s.cache.Flush()
	return p, nil
}

// SetStatus validates the status value before any store access.
func (s *ServiceImpl) SetStatus(ctx context.Context, id uuid.UUID, status int) (*types.Product, error) {
	if !types.ValidProductStatus(status) {
		return nil, types.NewFieldError("status", "Status must be 0 (pending), 1 (listed) or 2 (sold)")
	}
	p, err := s.repo.SetStatus(ctx, id, status)
	if err != nil {
		return nil, err
	}
	s.cache.Flush()
	return p, nil
}

// Rate is open to any authenticated caller. The rate value itself is not
// bounded.
func (s *ServiceImpl) Rate(ctx context.Context, id, userID uuid.UUID, rate float64) (*types.Product, error) {
	p, err := s.repo.Rate(ctx, id, userID, rate)
	if err != nil {
		return nil, err
	}
	metrics.Get().RatingUpsertsTotal.Add(ctx, 1)
	s.cache.Flush()
	return p, nil
}

func (s *ServiceImpl) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.cache.Flush()
	return nil
}

func validateProductParams(params types.ProductParams) *types.FieldError {
	if params.Name == "" {
		return types.NewFieldError("name", "The product name is required")
	}
	if params.Price < 0 {
		return types.NewFieldError("price", "Price must not be negative")
	}
	if params.Phone == "" {
		return types.NewFieldError("phone", "phone number is required")
	}
	if params.CategoryID == uuid.Nil {
		return types.NewFieldError("category_id", "Category is required")
	}
	return nil
}
