package order

import (
	"context"
	"time"

	"storefront/internal/domain"
)

type Repository interface {
	// Create persists the order and decrements stock for every item inside a
	// single transaction. Each decrement is conditional (stock >= quantity);
	// any shortfall rolls the whole order back, so two concurrent orders for
	// the last unit of a product cannot both succeed.
	Create(ctx context.Context, o domain.Order) (*domain.Order, error)
	GetByID(ctx context.Context, id string) (*domain.Order, error)
	ListByUser(ctx context.Context, userID string) ([]domain.Order, error)
	MarkPaid(ctx context.Context, id string, result domain.PaymentResult, paidAt time.Time) (*domain.Order, error)
	MarkDelivered(ctx context.Context, id string, deliveredAt time.Time) (*domain.Order, error)
}
