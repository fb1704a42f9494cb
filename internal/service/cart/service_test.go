package cart

import (
	"context"
	"errors"
	"testing"
	"time"

	"storefront/internal/domain"
)

type stubCartRepo struct {
	cart    *domain.Cart
	created bool
}

func (s *stubCartRepo) GetByUser(_ context.Context, userID string) (*domain.Cart, error) {
	if s.cart == nil || s.cart.UserID != userID {
		return nil, domain.ErrNotFound
	}
	copied := *s.cart
	copied.Items = append([]domain.CartItem(nil), s.cart.Items...)
	return &copied, nil
}

func (s *stubCartRepo) Create(_ context.Context, userID string) (*domain.Cart, error) {
	s.cart = &domain.Cart{ID: "cart-1", UserID: userID}
	s.created = true
	copied := *s.cart
	return &copied, nil
}

func (s *stubCartRepo) AddItem(_ context.Context, cartID string, product domain.Product, quantity int) error {
	for i, item := range s.cart.Items {
		if item.ProductID == product.ID {
			s.cart.Items[i].Quantity += quantity
			return nil
		}
	}
	s.cart.Items = append(s.cart.Items, domain.CartItem{
		ID:         "item-" + product.ID,
		ProductID:  product.ID,
		Name:       product.Name,
		Image:      product.Image,
		PriceCents: product.PriceCents,
		Quantity:   quantity,
		AddedAt:    time.Now(),
	})
	return nil
}

func (s *stubCartRepo) SetItemQuantity(_ context.Context, cartID, productID string, quantity int) error {
	for i, item := range s.cart.Items {
		if item.ProductID == productID {
			if quantity <= 0 {
				s.cart.Items = append(s.cart.Items[:i], s.cart.Items[i+1:]...)
			} else {
				s.cart.Items[i].Quantity = quantity
			}
			return nil
		}
	}
	return domain.ErrNotFound
}

func (s *stubCartRepo) RemoveItem(_ context.Context, cartID, productID string) error {
	for i, item := range s.cart.Items {
		if item.ProductID == productID {
			s.cart.Items = append(s.cart.Items[:i], s.cart.Items[i+1:]...)
			return nil
		}
	}
	return nil
}

func (s *stubCartRepo) Clear(_ context.Context, cartID string) error {
	s.cart.Items = nil
	return nil
}

type stubProductRepo struct {
	products map[string]*domain.Product
}

func (s *stubProductRepo) GetByID(_ context.Context, id string) (*domain.Product, error) {
	p, ok := s.products[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	copied := *p
	return &copied, nil
}

func newTestService(products map[string]*domain.Product) (*Service, *stubCartRepo) {
	repo := &stubCartRepo{}
	return &Service{repo: repo, products: &stubProductRepo{products: products}}, repo
}

func TestGet_NoCartIsEmptyView(t *testing.T) {
	svc, _ := newTestService(nil)
	view, err := svc.Get(context.Background(), "u1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if view.Items == nil || len(view.Items) != 0 || view.ItemsCount != 0 || view.SubtotalCents != 0 {
		t.Fatalf("expected empty view, got %+v", view)
	}
}

func TestAdd_CreatesCartLazilyAndMerges(t *testing.T) {
	svc, repo := newTestService(map[string]*domain.Product{
		"p1": {ID: "p1", Name: "Mug", PriceCents: 1299, Stock: 10},
	})

	view, err := svc.Add(context.Background(), "u1", "p1", 2)
	if err != nil {
		t.Fatalf("first add: %v", err)
	}
	if !repo.created {
		t.Fatalf("expected cart to be created on first add")
	}
	if view.ItemsCount != 2 || view.SubtotalCents != 2598 {
		t.Fatalf("unexpected view after first add: %+v", view)
	}

	view, err = svc.Add(context.Background(), "u1", "p1", 3)
	if err != nil {
		t.Fatalf("second add: %v", err)
	}
	if len(view.Items) != 1 || view.Items[0].Quantity != 5 {
		t.Fatalf("expected merged line of 5, got %+v", view.Items)
	}
}

func TestAdd_MergedQuantityCappedByStock(t *testing.T) {
	svc, _ := newTestService(map[string]*domain.Product{
		"p1": {ID: "p1", Name: "Mug", PriceCents: 1299, Stock: 5},
	})

	if _, err := svc.Add(context.Background(), "u1", "p1", 4); err != nil {
		t.Fatalf("first add: %v", err)
	}
	_, err := svc.Add(context.Background(), "u1", "p1", 2)
	if !errors.Is(err, domain.ErrInsufficientStock) {
		t.Fatalf("expected insufficient stock on merge, got %v", err)
	}
	var stockErr *domain.InsufficientStockError
	if !errors.As(err, &stockErr) || stockErr.ProductName != "Mug" {
		t.Fatalf("expected error to name Mug, got %v", err)
	}
}

func TestAdd_ZeroQuantityDefaultsToOne(t *testing.T) {
	svc, _ := newTestService(map[string]*domain.Product{
		"p1": {ID: "p1", Name: "Mug", PriceCents: 1299, Stock: 5},
	})
	view, err := svc.Add(context.Background(), "u1", "p1", 0)
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if view.ItemsCount != 1 {
		t.Fatalf("expected quantity 1, got %+v", view)
	}
}

func TestAdd_RejectsNegativeQuantity(t *testing.T) {
	svc, repo := newTestService(map[string]*domain.Product{
		"p1": {ID: "p1", Name: "Mug", PriceCents: 1299, Stock: 5},
	})
	if _, err := svc.Add(context.Background(), "u1", "p1", -2); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected invalid input for negative quantity, got %v", err)
	}
	if repo.created {
		t.Fatalf("no cart should be created for a rejected add")
	}
}

func TestAdd_SnapshotSurvivesPriceChange(t *testing.T) {
	products := map[string]*domain.Product{
		"p1": {ID: "p1", Name: "Mug", PriceCents: 1299, Stock: 10},
	}
	svc, repo := newTestService(products)

	if _, err := svc.Add(context.Background(), "u1", "p1", 1); err != nil {
		t.Fatalf("add: %v", err)
	}

	products["p1"].PriceCents = 1999

	view, err := svc.Get(context.Background(), "u1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if view.Items[0].PriceCents != 1299 {
		t.Fatalf("cart line price should keep its snapshot, got %d", view.Items[0].PriceCents)
	}
	if repo.cart.Items[0].PriceCents != 1299 {
		t.Fatalf("stored line should be untouched, got %d", repo.cart.Items[0].PriceCents)
	}
}

func TestUpdateItem_ZeroRemovesLine(t *testing.T) {
	svc, _ := newTestService(map[string]*domain.Product{
		"p1": {ID: "p1", Name: "Mug", PriceCents: 1299, Stock: 10},
	})
	if _, err := svc.Add(context.Background(), "u1", "p1", 2); err != nil {
		t.Fatalf("add: %v", err)
	}

	view, err := svc.UpdateItem(context.Background(), "u1", "p1", 0)
	if err != nil {
		t.Fatalf("update to zero: %v", err)
	}
	if len(view.Items) != 0 {
		t.Fatalf("expected line removed, got %+v", view.Items)
	}
}

func TestUpdateItem_CappedByStockAndRejectsNegative(t *testing.T) {
	svc, _ := newTestService(map[string]*domain.Product{
		"p1": {ID: "p1", Name: "Mug", PriceCents: 1299, Stock: 3},
	})
	if _, err := svc.Add(context.Background(), "u1", "p1", 1); err != nil {
		t.Fatalf("add: %v", err)
	}

	if _, err := svc.UpdateItem(context.Background(), "u1", "p1", 4); !errors.Is(err, domain.ErrInsufficientStock) {
		t.Fatalf("expected insufficient stock, got %v", err)
	}
	if _, err := svc.UpdateItem(context.Background(), "u1", "p1", -1); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected invalid input for negative quantity, got %v", err)
	}
}

func TestRemove_MissingLineIsNotAnError(t *testing.T) {
	svc, _ := newTestService(map[string]*domain.Product{
		"p1": {ID: "p1", Name: "Mug", PriceCents: 1299, Stock: 10},
	})
	if _, err := svc.Add(context.Background(), "u1", "p1", 1); err != nil {
		t.Fatalf("add: %v", err)
	}

	view, err := svc.Remove(context.Background(), "u1", "p-missing")
	if err != nil {
		t.Fatalf("remove missing line: %v", err)
	}
	if len(view.Items) != 1 {
		t.Fatalf("existing line should survive, got %+v", view.Items)
	}
}

func TestClear_NoCartIsNoOp(t *testing.T) {
	svc, _ := newTestService(nil)
	view, err := svc.Clear(context.Background(), "u1")
	if err != nil {
		t.Fatalf("clear without cart: %v", err)
	}
	if len(view.Items) != 0 {
		t.Fatalf("expected empty view, got %+v", view)
	}
}

func TestClear_EmptiesItems(t *testing.T) {
	svc, repo := newTestService(map[string]*domain.Product{
		"p1": {ID: "p1", Name: "Mug", PriceCents: 1299, Stock: 10},
	})
	if _, err := svc.Add(context.Background(), "u1", "p1", 2); err != nil {
		t.Fatalf("add: %v", err)
	}

	view, err := svc.Clear(context.Background(), "u1")
	if err != nil {
		t.Fatalf("clear: %v", err)
	}
	if len(view.Items) != 0 || view.SubtotalCents != 0 {
		t.Fatalf("expected cleared view, got %+v", view)
	}
	if repo.cart == nil {
		t.Fatalf("cart row itself should survive clear")
	}
}
