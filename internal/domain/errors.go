package domain

import "errors"

var (
	// ErrNotFound indicates the requested entity was not found.
	ErrNotFound = errors.New("not found")
	// ErrAlreadyExists indicates a uniqueness conflict on insert.
	ErrAlreadyExists = errors.New("already exists")
	// ErrForbidden indicates the caller is not allowed to touch the entity.
	ErrForbidden = errors.New("forbidden")
	// ErrInsufficientStock indicates a requested quantity exceeds live stock.
	ErrInsufficientStock = errors.New("insufficient stock")
	// ErrAlreadyPaid indicates an order that has already been paid for.
	ErrAlreadyPaid = errors.New("order already paid")
	// ErrNotPaid indicates a transition that requires a paid order.
	ErrNotPaid = errors.New("order not paid")
	// ErrInvalidSignature indicates a payment callback signature mismatch.
	ErrInvalidSignature = errors.New("invalid payment signature")
	// ErrEmailTaken indicates the signup email is already registered.
	ErrEmailTaken = errors.New("email already registered")
	// ErrInvalidCredentials is returned when email/password do not match.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrGatewayNotConfigured indicates missing payment gateway credentials.
	ErrGatewayNotConfigured = errors.New("payment gateway not configured")
	// ErrInvalidInput marks structural validation failures.
	ErrInvalidInput = errors.New("invalid input")
)

// ValidationError carries a human-readable validation message.
// errors.Is(err, ErrInvalidInput) matches it.
type ValidationError struct {
	Msg string
}

// Invalid builds a ValidationError.
func Invalid(msg string) error {
	return &ValidationError{Msg: msg}
}

func (e *ValidationError) Error() string {
	return e.Msg
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidInput
}

// InsufficientStockError names the product that could not be fulfilled.
// errors.Is(err, ErrInsufficientStock) matches it.
type InsufficientStockError struct {
	ProductName string
}

func (e *InsufficientStockError) Error() string {
	return "not enough stock for " + e.ProductName
}

func (e *InsufficientStockError) Is(target error) bool {
	return target == ErrInsufficientStock
}
