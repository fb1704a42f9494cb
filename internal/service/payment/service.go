// Package payment runs the two-phase gateway round trip: open a remote
// intent for an unpaid order, then verify the signed callback and mark the
// order paid.
package payment

import (
	"context"
	"time"

	"storefront/internal/domain"
	"storefront/internal/gateway"
	"storefront/internal/metrics"
)

type Service struct {
	orders  orderService
	gateway gatewayClient
}

type orderService interface {
	Get(ctx context.Context, user *domain.User, id string) (*domain.Order, error)
	MarkPaid(ctx context.Context, user *domain.User, id string, result domain.PaymentResult) (*domain.Order, error)
}

type gatewayClient interface {
	Configured() bool
	KeyID() string
	CreateIntent(ctx context.Context, amountCents int64, receipt string, notes map[string]string) (*gateway.Intent, error)
	VerifySignature(intentID, paymentID, signature string) bool
}

func New(orders orderService, gateway gatewayClient) *Service {
	return &Service{orders: orders, gateway: gateway}
}

// InitiateResult is what the frontend checkout widget needs to collect the
// payment against the remote intent.
type InitiateResult struct {
	IntentID    string `json:"gatewayOrderId"`
	AmountCents int64  `json:"amount"`
	Currency    string `json:"currency"`
	KeyID       string `json:"keyId"`
	OrderID     string `json:"orderId"`
}

// Initiate opens a remote payment intent for the order's grand total.
func (s *Service) Initiate(ctx context.Context, user *domain.User, orderID string) (*InitiateResult, error) {
	o, err := s.orders.Get(ctx, user, orderID)
	if err != nil {
		return nil, err
	}
	if o.IsPaid {
		return nil, domain.ErrAlreadyPaid
	}
	if !s.gateway.Configured() {
		return nil, domain.ErrGatewayNotConfigured
	}

	intent, err := s.gateway.CreateIntent(ctx, o.TotalPriceCents, "order_"+o.ID, map[string]string{
		"orderId": o.ID,
		"userId":  user.ID,
	})
	if err != nil {
		return nil, err
	}

	return &InitiateResult{
		IntentID:    intent.ID,
		AmountCents: intent.AmountCents,
		Currency:    intent.Currency,
		KeyID:       s.gateway.KeyID(),
		OrderID:     o.ID,
	}, nil
}

type VerifyInput struct {
	OrderID   string
	IntentID  string
	PaymentID string
	Signature string
}

// Verify recomputes the callback signature and, only on a match, marks the
// order paid with a captured payment result. A mismatch leaves the order
// untouched.
func (s *Service) Verify(ctx context.Context, user *domain.User, in VerifyInput) (*domain.Order, error) {
	o, err := s.orders.Get(ctx, user, in.OrderID)
	if err != nil {
		return nil, err
	}
	if !s.gateway.Configured() {
		return nil, domain.ErrGatewayNotConfigured
	}
	if !s.gateway.VerifySignature(in.IntentID, in.PaymentID, in.Signature) {
		return nil, domain.ErrInvalidSignature
	}

	paid, err := s.orders.MarkPaid(ctx, user, o.ID, domain.PaymentResult{
		ID:         in.PaymentID,
		Status:     "captured",
		UpdateTime: time.Now().UTC(),
		Email:      user.Email,
	})
	if err != nil {
		return nil, err
	}
	metrics.PaymentAmount.Observe(float64(paid.TotalPriceCents))
	return paid, nil
}
