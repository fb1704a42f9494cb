// Package catalog serves the read-side product listing and the admin CRUD
// surface. Listing never mutates anything; stock changes only through orders.
package catalog

import (
	"context"
	"strings"

	"storefront/internal/domain"
	productrepo "storefront/internal/repository/product"
)

const (
	defaultLimit = 12
	maxLimit     = 100
)

type Service struct {
	repo productrepo.Repository
}

func New(repo productrepo.Repository) *Service {
	return &Service{repo: repo}
}

// ListResult is one page of the catalog plus pagination bookkeeping.
type ListResult struct {
	Products []domain.Product `json:"items"`
	Total    int              `json:"total"`
	Page     int              `json:"page"`
	Limit    int              `json:"limit"`
	Pages    int              `json:"pages"`
}

// List applies filters and pagination. Page defaults to 1, limit to 12 and
// is clamped to [1,100]; unknown sort keys fall back to newest-first.
func (s *Service) List(ctx context.Context, f productrepo.Filter) (*ListResult, error) {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.Limit == 0 {
		f.Limit = defaultLimit
	}
	if f.Limit < 1 {
		f.Limit = 1
	}
	if f.Limit > maxLimit {
		f.Limit = maxLimit
	}
	switch f.Sort {
	case productrepo.SortPriceAsc, productrepo.SortPriceDesc, productrepo.SortRating:
	default:
		f.Sort = productrepo.SortNewest
	}

	products, total, err := s.repo.List(ctx, f)
	if err != nil {
		return nil, err
	}
	if products == nil {
		products = []domain.Product{}
	}

	pages := total / f.Limit
	if total%f.Limit != 0 {
		pages++
	}
	return &ListResult{
		Products: products,
		Total:    total,
		Page:     f.Page,
		Limit:    f.Limit,
		Pages:    pages,
	}, nil
}

func (s *Service) Get(ctx context.Context, id string) (*domain.Product, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) Categories(ctx context.Context) ([]string, error) {
	categories, err := s.repo.Categories(ctx)
	if err != nil {
		return nil, err
	}
	if categories == nil {
		categories = []string{}
	}
	return categories, nil
}

type CreateInput struct {
	Name               string  `json:"name"`
	Category           string  `json:"category"`
	Description        string  `json:"description"`
	Image              string  `json:"image"`
	PriceCents         int64   `json:"priceCents"`
	OriginalPriceCents *int64  `json:"originalPriceCents"`
	Rating             float64 `json:"rating"`
	Reviews            int     `json:"reviews"`
	Stock              int     `json:"stock"`
	IsFeatured         bool    `json:"isFeatured"`
}

// Create adds a product owned by the given admin.
func (s *Service) Create(ctx context.Context, createdBy string, in CreateInput) (*domain.Product, error) {
	if err := validate(in.Name, in.Category, in.PriceCents, in.Rating, in.Stock); err != nil {
		return nil, err
	}
	return s.repo.Create(ctx, domain.Product{
		Name:               strings.TrimSpace(in.Name),
		Category:           strings.TrimSpace(in.Category),
		Description:        in.Description,
		Image:              in.Image,
		PriceCents:         in.PriceCents,
		OriginalPriceCents: in.OriginalPriceCents,
		Rating:             in.Rating,
		Reviews:            in.Reviews,
		Stock:              in.Stock,
		IsFeatured:         in.IsFeatured,
		CreatedBy:          createdBy,
	})
}

// Update applies only the supplied fields.
func (s *Service) Update(ctx context.Context, id string, in productrepo.UpdateInput) (*domain.Product, error) {
	if in.Name != nil && len(strings.TrimSpace(*in.Name)) < 2 {
		return nil, domain.Invalid("name must be at least 2 characters")
	}
	if in.PriceCents != nil && *in.PriceCents < 0 {
		return nil, domain.Invalid("price must not be negative")
	}
	if in.Stock != nil && *in.Stock < 0 {
		return nil, domain.Invalid("stock must not be negative")
	}
	if in.Rating != nil && (*in.Rating < 0 || *in.Rating > 5) {
		return nil, domain.Invalid("rating must be between 0 and 5")
	}
	return s.repo.Update(ctx, id, in)
}

func (s *Service) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}

func validate(name, category string, priceCents int64, rating float64, stock int) error {
	if len(strings.TrimSpace(name)) < 2 {
		return domain.Invalid("name must be at least 2 characters")
	}
	if strings.TrimSpace(category) == "" {
		return domain.Invalid("category required")
	}
	if priceCents < 0 {
		return domain.Invalid("price must not be negative")
	}
	if rating < 0 || rating > 5 {
		return domain.Invalid("rating must be between 0 and 5")
	}
	if stock < 0 {
		return domain.Invalid("stock must not be negative")
	}
	return nil
}
