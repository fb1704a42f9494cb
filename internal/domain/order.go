package domain

import "time"

// Order status values. Transitions are created -> paid -> delivered and are
// enforced at the mutation boundary.
const (
	OrderStatusCreated   = "created"
	OrderStatusPaid      = "paid"
	OrderStatusDelivered = "delivered"
)

type ShippingAddress struct {
	FullName   string `json:"fullName"`
	Phone      string `json:"phone"`
	Address    string `json:"address"`
	City       string `json:"city"`
	State      string `json:"state"`
	PostalCode string `json:"postalCode"`
	Country    string `json:"country"`
}

// OrderItem is an immutable snapshot taken from the live catalog at order
// creation time, independent of any earlier cart snapshot.
type OrderItem struct {
	ID         string `json:"id"`
	ProductID  string `json:"productId"`
	Name       string `json:"name"`
	Image      string `json:"image,omitempty"`
	PriceCents int64  `json:"priceCents"`
	Quantity   int    `json:"quantity"`
}

// PaymentResult is written once by the payment verify step (or the manual
// mark-paid path), never by the client directly.
type PaymentResult struct {
	ID         string    `json:"id"`
	Status     string    `json:"status"`
	UpdateTime time.Time `json:"updateTime"`
	Email      string    `json:"emailAddress,omitempty"`
}

type Order struct {
	ID                 string          `json:"id"`
	UserID             string          `json:"userId"`
	Items              []OrderItem     `json:"items"`
	ShippingAddress    ShippingAddress `json:"shippingAddress"`
	PaymentMethod      string          `json:"paymentMethod"`
	ItemsPriceCents    int64           `json:"itemsPriceCents"`
	ShippingPriceCents int64           `json:"shippingPriceCents"`
	TaxPriceCents      int64           `json:"taxPriceCents"`
	TotalPriceCents    int64           `json:"totalPriceCents"`
	Status             string          `json:"status"`
	IsPaid             bool            `json:"isPaid"`
	PaidAt             *time.Time      `json:"paidAt,omitempty"`
	PaymentResult      *PaymentResult  `json:"paymentResult,omitempty"`
	IsDelivered        bool            `json:"isDelivered"`
	DeliveredAt        *time.Time      `json:"deliveredAt,omitempty"`
	CreatedAt          time.Time       `json:"createdAt"`
}
