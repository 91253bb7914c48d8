package types

import (
	"time"

	"github.com/google/uuid"
)

// Product listing statuses. Transmitted as integers on the wire.
const (
	ProductStatusPending = 0
	ProductStatusListed  = 1
	ProductStatusSold    = 2
)

// ValidProductStatus reports whether s is one of the known statuses.
func ValidProductStatus(s int) bool {
	return s == ProductStatusPending || s == ProductStatusListed || s == ProductStatusSold
}

type Product struct {
	ID            uuid.UUID `json:"id"`
	Name          string    `json:"name"`
	Price         float64   `json:"price"`
	Images        []string  `json:"images"`
	Description   string    `json:"description"`
	Phone         string    `json:"phone"`
	CategoryID    uuid.UUID `json:"category_id"`
	Category      *Category `json:"category,omitempty"`
	Status        int       `json:"status"`
	Ratings       []Rating  `json:"ratings"`
	AverageRating *float64  `json:"average_rating,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// Rating is a single user's rating of a product. At most one entry per
// user; re-rating overwrites in place.
type Rating struct {
	UserID uuid.UUID `json:"user_id"`
	Rate   float64   `json:"rate"`
}

// ProductFilter narrows List results. Nil bounds are open; bounds are
// inclusive.
type ProductFilter struct {
	MinPrice   *float64
	MaxPrice   *float64
	CategoryID *uuid.UUID
	// Status is set by the service layer, never by the caller.
	Status *int
}

type ProductParams struct {
	Name        string    `json:"name"`
	Price       float64   `json:"price"`
	Images      []string  `json:"images"`
	Description string    `json:"description"`
	Phone       string    `json:"phone"`
	CategoryID  uuid.UUID `json:"category_id"`
}

// ProductPage is a paginated listing result.
type ProductPage struct {
	Items      []Product `json:"items"`
	Total      int       `json:"total"`
	Page       int       `json:"page"`
	PageSize   int       `json:"pageSize"`
	TotalPages int       `json:"totalPages"`
}
