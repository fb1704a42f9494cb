// Package cart manages one mutable line-item list per user. Cart operations
// validate against live stock but never decrement it; that happens only at
// order creation.
package cart

import (
	"context"
	"errors"

	"storefront/internal/domain"
	cartrepo "storefront/internal/repository/cart"
)

type Service struct {
	repo     cartRepo
	products productRepo
}

type cartRepo interface {
	GetByUser(ctx context.Context, userID string) (*domain.Cart, error)
	Create(ctx context.Context, userID string) (*domain.Cart, error)
	AddItem(ctx context.Context, cartID string, product domain.Product, quantity int) error
	SetItemQuantity(ctx context.Context, cartID, productID string, quantity int) error
	RemoveItem(ctx context.Context, cartID, productID string) error
	Clear(ctx context.Context, cartID string) error
}

type productRepo interface {
	GetByID(ctx context.Context, id string) (*domain.Product, error)
}

func New(repo cartrepo.Repository, products productRepo) *Service {
	return &Service{repo: repo, products: products}
}

// Get returns the user's cart view. Absence of a cart is an empty view,
// never an error.
func (s *Service) Get(ctx context.Context, userID string) (domain.CartView, error) {
	cart, err := s.repo.GetByUser(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return (*domain.Cart)(nil).View(), nil
		}
		return domain.CartView{}, err
	}
	return cart.View(), nil
}

// Add merges quantity into an existing line or appends a new one, snapshotting
// name/image/price at this moment. The merged quantity must fit live stock.
// An omitted quantity defaults to one; a negative one is rejected.
func (s *Service) Add(ctx context.Context, userID, productID string, quantity int) (domain.CartView, error) {
	if quantity < 0 {
		return domain.CartView{}, domain.Invalid("quantity must not be negative")
	}
	if quantity == 0 {
		quantity = 1
	}

	product, err := s.products.GetByID(ctx, productID)
	if err != nil {
		return domain.CartView{}, err
	}
	if product.Stock < quantity {
		return domain.CartView{}, &domain.InsufficientStockError{ProductName: product.Name}
	}

	cart, err := s.repo.GetByUser(ctx, userID)
	if errors.Is(err, domain.ErrNotFound) {
		cart, err = s.repo.Create(ctx, userID)
	}
	if err != nil {
		return domain.CartView{}, err
	}

	existing := 0
	for _, item := range cart.Items {
		if item.ProductID == productID {
			existing = item.Quantity
			break
		}
	}
	if product.Stock < existing+quantity {
		return domain.CartView{}, &domain.InsufficientStockError{ProductName: product.Name}
	}

	if err := s.repo.AddItem(ctx, cart.ID, *product, quantity); err != nil {
		return domain.CartView{}, err
	}
	return s.Get(ctx, userID)
}

// UpdateItem sets a line's quantity against live stock; zero removes the line.
func (s *Service) UpdateItem(ctx context.Context, userID, productID string, quantity int) (domain.CartView, error) {
	if quantity < 0 {
		return domain.CartView{}, domain.Invalid("quantity must not be negative")
	}

	cart, err := s.repo.GetByUser(ctx, userID)
	if err != nil {
		return domain.CartView{}, err
	}

	product, err := s.products.GetByID(ctx, productID)
	if err != nil {
		return domain.CartView{}, err
	}
	if quantity > product.Stock {
		return domain.CartView{}, &domain.InsufficientStockError{ProductName: product.Name}
	}

	if err := s.repo.SetItemQuantity(ctx, cart.ID, productID, quantity); err != nil {
		return domain.CartView{}, err
	}
	return s.Get(ctx, userID)
}

// Remove deletes a line if present. A missing line is not an error.
func (s *Service) Remove(ctx context.Context, userID, productID string) (domain.CartView, error) {
	cart, err := s.repo.GetByUser(ctx, userID)
	if err != nil {
		return domain.CartView{}, err
	}
	if err := s.repo.RemoveItem(ctx, cart.ID, productID); err != nil {
		return domain.CartView{}, err
	}
	return s.Get(ctx, userID)
}

// Clear empties the cart; with no cart at all it is a no-op.
func (s *Service) Clear(ctx context.Context, userID string) (domain.CartView, error) {
	cart, err := s.repo.GetByUser(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return (*domain.Cart)(nil).View(), nil
		}
		return domain.CartView{}, err
	}
	if err := s.repo.Clear(ctx, cart.ID); err != nil {
		return domain.CartView{}, err
	}
	return s.Get(ctx, userID)
}
