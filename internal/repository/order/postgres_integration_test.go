package order

import (
	"context"
	"errors"
	"os"
	"sync"
	"testing"

	"storefront/internal/domain"
	"storefront/internal/migrate"
	productrepo "storefront/internal/repository/product"

	"github.com/jackc/pgx/v5/pgxpool"
)

func testPool(ctx context.Context, t *testing.T) *pgxpool.Pool {
	t.Helper()
	dsn := os.Getenv("TEST_DB_DSN")
	if dsn == "" {
		t.Skip("TEST_DB_DSN not set")
	}
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		t.Fatalf("connect test db: %v", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		t.Skipf("test db not reachable: %v", err)
	}
	if err := migrate.Apply(ctx, pool); err != nil {
		pool.Close()
		t.Fatalf("apply migrations: %v", err)
	}
	return pool
}

func seedUser(ctx context.Context, t *testing.T, pool *pgxpool.Pool) string {
	t.Helper()
	var id string
	err := pool.QueryRow(ctx, `
INSERT INTO users (name, email, password_hash)
VALUES ('Test', 'order-it@example.com', 'x')
ON CONFLICT (email) DO UPDATE SET name = EXCLUDED.name
RETURNING id::text
`).Scan(&id)
	if err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return id
}

func seedProduct(ctx context.Context, t *testing.T, pool *pgxpool.Pool, name string, priceCents int64, stock int) *domain.Product {
	t.Helper()
	repo := productrepo.NewPostgres(pool, nil)
	p, err := repo.Upsert(ctx, domain.Product{
		Name:       name,
		Category:   "Test",
		PriceCents: priceCents,
		Stock:      stock,
	})
	if err != nil {
		t.Fatalf("seed product %s: %v", name, err)
	}
	return p
}

func stockOf(ctx context.Context, t *testing.T, pool *pgxpool.Pool, id string) int {
	t.Helper()
	var stock int
	if err := pool.QueryRow(ctx, `SELECT stock FROM products WHERE id = $1`, id).Scan(&stock); err != nil {
		t.Fatalf("read stock: %v", err)
	}
	return stock
}

func TestCreate_IntegrationDecrementsAtomically(t *testing.T) {
	ctx := context.Background()
	pool := testPool(ctx, t)
	defer pool.Close()

	userID := seedUser(ctx, t, pool)
	mug := seedProduct(ctx, t, pool, "IT Mug", 1299, 10)
	shoes := seedProduct(ctx, t, pool, "IT Shoes", 54900, 1)

	repo := NewPostgres(pool, nil)
	addr := domain.ShippingAddress{
		FullName: "Jane Roe", Phone: "555", Address: "1 Main", City: "Town",
		State: "TS", PostalCode: "00000", Country: "US",
	}

	// Second item exceeds stock: nothing may be decremented.
	_, err := repo.Create(ctx, domain.Order{
		UserID:          userID,
		ShippingAddress: addr,
		PaymentMethod:   "gateway",
		Items: []domain.OrderItem{
			{ProductID: mug.ID, Name: mug.Name, PriceCents: mug.PriceCents, Quantity: 2},
			{ProductID: shoes.ID, Name: shoes.Name, PriceCents: shoes.PriceCents, Quantity: 3},
		},
	})
	if !errors.Is(err, domain.ErrInsufficientStock) {
		t.Fatalf("expected insufficient stock, got %v", err)
	}
	if got := stockOf(ctx, t, pool, mug.ID); got != 10 {
		t.Fatalf("mug stock should be untouched after rollback, got %d", got)
	}

	// A fitting order decrements both.
	created, err := repo.Create(ctx, domain.Order{
		UserID:          userID,
		ShippingAddress: addr,
		PaymentMethod:   "gateway",
		Items: []domain.OrderItem{
			{ProductID: mug.ID, Name: mug.Name, PriceCents: mug.PriceCents, Quantity: 2},
			{ProductID: shoes.ID, Name: shoes.Name, PriceCents: shoes.PriceCents, Quantity: 1},
		},
		ItemsPriceCents: 57498,
		TotalPriceCents: 60373,
	})
	if err != nil {
		t.Fatalf("create order: %v", err)
	}
	if created.ID == "" || len(created.Items) != 2 || created.Items[0].ID == "" {
		t.Fatalf("unexpected created order: %+v", created)
	}
	if got := stockOf(ctx, t, pool, mug.ID); got != 8 {
		t.Fatalf("expected mug stock 8, got %d", got)
	}
	if got := stockOf(ctx, t, pool, shoes.ID); got != 0 {
		t.Fatalf("expected shoes stock 0, got %d", got)
	}
}

func TestCreate_IntegrationConcurrentLastUnit(t *testing.T) {
	ctx := context.Background()
	pool := testPool(ctx, t)
	defer pool.Close()

	userID := seedUser(ctx, t, pool)
	p := seedProduct(ctx, t, pool, "IT Last Unit", 9900, 1)

	repo := NewPostgres(pool, nil)
	addr := domain.ShippingAddress{
		FullName: "Jane Roe", Phone: "555", Address: "1 Main", City: "Town",
		State: "TS", PostalCode: "00000", Country: "US",
	}
	order := domain.Order{
		UserID:          userID,
		ShippingAddress: addr,
		PaymentMethod:   "gateway",
		Items:           []domain.OrderItem{{ProductID: p.ID, Name: p.Name, PriceCents: p.PriceCents, Quantity: 1}},
		ItemsPriceCents: 9900,
		TotalPriceCents: 14395,
	}

	// Both goroutines want the single remaining unit; the row lock serializes
	// them and the loser's conditional decrement touches zero rows.
	errs := make(chan error, 2)
	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			o := order
			o.Items = append([]domain.OrderItem(nil), order.Items...)
			_, err := repo.Create(ctx, o)
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	succeeded, short := 0, 0
	for err := range errs {
		switch {
		case err == nil:
			succeeded++
		case errors.Is(err, domain.ErrInsufficientStock):
			short++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if succeeded != 1 || short != 1 {
		t.Fatalf("expected exactly one winner, got succeeded=%d short=%d", succeeded, short)
	}
	if got := stockOf(ctx, t, pool, p.ID); got != 0 {
		t.Fatalf("expected final stock 0, got %d", got)
	}
}

func TestListByUser_IntegrationLoadsItems(t *testing.T) {
	ctx := context.Background()
	pool := testPool(ctx, t)
	defer pool.Close()

	userID := seedUser(ctx, t, pool)
	p := seedProduct(ctx, t, pool, "IT Poster", 1500, 20)

	repo := NewPostgres(pool, nil)
	addr := domain.ShippingAddress{
		FullName: "Jane Roe", Phone: "555", Address: "1 Main", City: "Town",
		State: "TS", PostalCode: "00000", Country: "US",
	}
	for i := 0; i < 2; i++ {
		if _, err := repo.Create(ctx, domain.Order{
			UserID:          userID,
			ShippingAddress: addr,
			PaymentMethod:   "gateway",
			Items:           []domain.OrderItem{{ProductID: p.ID, Name: p.Name, PriceCents: p.PriceCents, Quantity: 1}},
			ItemsPriceCents: 1500,
			TotalPriceCents: 5575,
		}); err != nil {
			t.Fatalf("create order %d: %v", i, err)
		}
	}

	orders, err := repo.ListByUser(ctx, userID)
	if err != nil {
		t.Fatalf("list by user: %v", err)
	}
	if len(orders) < 2 {
		t.Fatalf("expected at least 2 orders, got %d", len(orders))
	}
	for _, o := range orders {
		if len(o.Items) == 0 {
			t.Fatalf("order %s came back without items", o.ID)
		}
	}
}

func TestMarkPaidAndDelivered_Integration(t *testing.T) {
	ctx := context.Background()
	pool := testPool(ctx, t)
	defer pool.Close()

	userID := seedUser(ctx, t, pool)
	p := seedProduct(ctx, t, pool, "IT Lamp", 4999, 5)

	repo := NewPostgres(pool, nil)
	created, err := repo.Create(ctx, domain.Order{
		UserID: userID,
		ShippingAddress: domain.ShippingAddress{
			FullName: "Jane Roe", Phone: "555", Address: "1 Main", City: "Town",
			State: "TS", PostalCode: "00000", Country: "US",
		},
		PaymentMethod:   "gateway",
		Items:           []domain.OrderItem{{ProductID: p.ID, Name: p.Name, PriceCents: p.PriceCents, Quantity: 1}},
		ItemsPriceCents: 4999,
		TotalPriceCents: 9249,
	})
	if err != nil {
		t.Fatalf("create order: %v", err)
	}

	paid, err := repo.MarkPaid(ctx, created.ID, domain.PaymentResult{ID: "pay-1", Status: "captured"}, created.CreatedAt)
	if err != nil {
		t.Fatalf("mark paid: %v", err)
	}
	if !paid.IsPaid || paid.Status != domain.OrderStatusPaid || paid.PaymentResult == nil || paid.PaymentResult.ID != "pay-1" {
		t.Fatalf("unexpected paid order: %+v", paid)
	}

	delivered, err := repo.MarkDelivered(ctx, created.ID, created.CreatedAt)
	if err != nil {
		t.Fatalf("mark delivered: %v", err)
	}
	if !delivered.IsDelivered || delivered.Status != domain.OrderStatusDelivered {
		t.Fatalf("unexpected delivered order: %+v", delivered)
	}
}
