// Package order creates order snapshots from the live catalog and drives the
// created -> paid -> delivered lifecycle.
package order

import (
	"context"
	"strings"
	"time"

	"storefront/internal/domain"
	"storefront/internal/metrics"
	orderrepo "storefront/internal/repository/order"
)

type Service struct {
	repo     orderRepo
	products productRepo
}

type orderRepo interface {
	Create(ctx context.Context, o domain.Order) (*domain.Order, error)
	GetByID(ctx context.Context, id string) (*domain.Order, error)
	ListByUser(ctx context.Context, userID string) ([]domain.Order, error)
	MarkPaid(ctx context.Context, id string, result domain.PaymentResult, paidAt time.Time) (*domain.Order, error)
	MarkDelivered(ctx context.Context, id string, deliveredAt time.Time) (*domain.Order, error)
}

type productRepo interface {
	GetByID(ctx context.Context, id string) (*domain.Product, error)
}

func New(repo orderrepo.Repository, products productRepo) *Service {
	return &Service{repo: repo, products: products}
}

type ItemInput struct {
	ProductID string `json:"product"`
	Quantity  int    `json:"quantity"`
}

type CreateInput struct {
	Items           []ItemInput            `json:"items"`
	ShippingAddress domain.ShippingAddress `json:"shippingAddress"`
	PaymentMethod   string                 `json:"paymentMethod"`
}

// Create builds an order from the live catalog: every product is re-resolved
// and re-priced now, regardless of what any cart snapshot said. The stock
// check-and-decrement happens atomically in the repository, so a shortfall
// on any single item fails the whole order with nothing decremented.
func (s *Service) Create(ctx context.Context, user *domain.User, in CreateInput) (*domain.Order, error) {
	if len(in.Items) == 0 {
		return nil, domain.Invalid("no order items provided")
	}
	if strings.TrimSpace(in.PaymentMethod) == "" {
		return nil, domain.Invalid("payment method required")
	}
	if err := validateAddress(in.ShippingAddress); err != nil {
		return nil, err
	}

	items := make([]domain.OrderItem, 0, len(in.Items))
	for _, item := range in.Items {
		if item.Quantity <= 0 {
			return nil, domain.Invalid("quantity must be positive")
		}
		product, err := s.products.GetByID(ctx, item.ProductID)
		if err != nil {
			return nil, err
		}
		if product.Stock < item.Quantity {
			return nil, &domain.InsufficientStockError{ProductName: product.Name}
		}
		items = append(items, domain.OrderItem{
			ProductID:  product.ID,
			Name:       product.Name,
			Image:      product.Image,
			PriceCents: product.PriceCents,
			Quantity:   item.Quantity,
		})
	}

	prices := calculatePrices(items)
	created, err := s.repo.Create(ctx, domain.Order{
		UserID:             user.ID,
		Items:              items,
		ShippingAddress:    in.ShippingAddress,
		PaymentMethod:      in.PaymentMethod,
		ItemsPriceCents:    prices.ItemsCents,
		ShippingPriceCents: prices.ShippingCents,
		TaxPriceCents:      prices.TaxCents,
		TotalPriceCents:    prices.TotalCents,
		Status:             domain.OrderStatusCreated,
	})
	if err != nil {
		return nil, err
	}
	metrics.OrdersTotal.WithLabelValues(domain.OrderStatusCreated).Inc()
	return created, nil
}

// Get returns an order to its owner or to an admin.
func (s *Service) Get(ctx context.Context, user *domain.User, id string) (*domain.Order, error) {
	o, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if o.UserID != user.ID && !user.IsAdmin {
		return nil, domain.ErrForbidden
	}
	return o, nil
}

// ListMine returns the caller's orders, newest first.
func (s *Service) ListMine(ctx context.Context, user *domain.User) ([]domain.Order, error) {
	orders, err := s.repo.ListByUser(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	if orders == nil {
		orders = []domain.Order{}
	}
	return orders, nil
}

// MarkPaid flips the order to paid and stores the payment result. Re-invoking
// overwrites the result; the end state is the same.
func (s *Service) MarkPaid(ctx context.Context, user *domain.User, id string, result domain.PaymentResult) (*domain.Order, error) {
	if _, err := s.Get(ctx, user, id); err != nil {
		return nil, err
	}
	o, err := s.repo.MarkPaid(ctx, id, result, time.Now().UTC())
	if err != nil {
		return nil, err
	}
	metrics.OrdersTotal.WithLabelValues(domain.OrderStatusPaid).Inc()
	return o, nil
}

// MarkDelivered flips the order to delivered. Admin-only at the transport
// layer; here the lifecycle is enforced: an unpaid order cannot be delivered.
func (s *Service) MarkDelivered(ctx context.Context, id string) (*domain.Order, error) {
	o, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !o.IsPaid {
		return nil, domain.ErrNotPaid
	}
	delivered, err := s.repo.MarkDelivered(ctx, id, time.Now().UTC())
	if err != nil {
		return nil, err
	}
	metrics.OrdersTotal.WithLabelValues(domain.OrderStatusDelivered).Inc()
	return delivered, nil
}

func validateAddress(a domain.ShippingAddress) error {
	fields := map[string]string{
		"fullName":   a.FullName,
		"phone":      a.Phone,
		"address":    a.Address,
		"city":       a.City,
		"state":      a.State,
		"postalCode": a.PostalCode,
		"country":    a.Country,
	}
	for name, value := range fields {
		if strings.TrimSpace(value) == "" {
			return domain.Invalid("shipping address " + name + " required")
		}
	}
	return nil
}
