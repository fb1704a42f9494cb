package cart

import (
	"context"

	"storefront/internal/domain"
)

type Repository interface {
	GetByUser(ctx context.Context, userID string) (*domain.Cart, error)
	Create(ctx context.Context, userID string) (*domain.Cart, error)
	// AddItem merges quantity into an existing line or appends a new line
	// with a name/image/price snapshot taken from the given product.
	AddItem(ctx context.Context, cartID string, product domain.Product, quantity int) error
	// SetItemQuantity updates a line's quantity; zero deletes the line.
	// Returns domain.ErrNotFound when the line does not exist.
	SetItemQuantity(ctx context.Context, cartID, productID string, quantity int) error
	// RemoveItem deletes a line if present; absent lines are not an error.
	RemoveItem(ctx context.Context, cartID, productID string) error
	Clear(ctx context.Context, cartID string) error
}
