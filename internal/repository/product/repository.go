package product

import (
	"context"

	"storefront/internal/domain"
)

// Sort keys accepted by List.
const (
	SortNewest    = "newest"
	SortPriceAsc  = "price_asc"
	SortPriceDesc = "price_desc"
	SortRating    = "rating"
)

// Filter narrows and pages the catalog listing. Zero values mean "no filter".
type Filter struct {
	Keyword       string
	Category      string
	MinPriceCents *int64
	MaxPriceCents *int64
	MinRating     *float64
	InStock       bool
	Sort          string
	Page          int
	Limit         int
}

// UpdateInput carries a sparse product update; nil fields are left untouched.
type UpdateInput struct {
	Name               *string
	Category           *string
	Description        *string
	Image              *string
	PriceCents         *int64
	OriginalPriceCents *int64
	Rating             *float64
	Reviews            *int
	Stock              *int
	IsFeatured         *bool
}

type Repository interface {
	List(ctx context.Context, f Filter) ([]domain.Product, int, error)
	GetByID(ctx context.Context, id string) (*domain.Product, error)
	Create(ctx context.Context, p domain.Product) (*domain.Product, error)
	Update(ctx context.Context, id string, in UpdateInput) (*domain.Product, error)
	Delete(ctx context.Context, id string) error
	Upsert(ctx context.Context, p domain.Product) (*domain.Product, error)
	Categories(ctx context.Context) ([]string, error)
}
