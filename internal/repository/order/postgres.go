package order

import (
	"context"
	"errors"
	"io"
	"log"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"storefront/internal/domain"
)

const orderColumns = `id::text, user_id::text, ship_full_name, ship_phone, ship_address, ship_city, ship_state, ship_postal_code, ship_country, payment_method, items_price_cents, shipping_price_cents, tax_price_cents, total_price_cents, status, is_paid, paid_at, payment_id, payment_status, payment_update_time, payment_email, is_delivered, delivered_at, created_at`

type postgresRepo struct {
	pool   *pgxpool.Pool
	logger *log.Logger
}

func NewPostgres(pool *pgxpool.Pool, logger *log.Logger) Repository {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &postgresRepo{pool: pool, logger: logger}
}

func (r *postgresRepo) Create(ctx context.Context, o domain.Order) (*domain.Order, error) {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	// Conditional decrement per product. Zero rows means the live stock is
	// short (or the product vanished); the rollback undoes every earlier
	// decrement in this order.
	for _, item := range o.Items {
		cmd, err := tx.Exec(ctx, `
UPDATE products
SET stock = stock - $2, updated_at = now()
WHERE id = $1 AND stock >= $2
`, item.ProductID, item.Quantity)
		if err != nil {
			return nil, err
		}
		if cmd.RowsAffected() == 0 {
			var name string
			err := tx.QueryRow(ctx, `SELECT name FROM products WHERE id = $1`, item.ProductID).Scan(&name)
			if errors.Is(err, pgx.ErrNoRows) {
				return nil, domain.ErrNotFound
			}
			if err != nil {
				return nil, err
			}
			return nil, &domain.InsufficientStockError{ProductName: name}
		}
	}

	const insertOrder = `
INSERT INTO orders (user_id, ship_full_name, ship_phone, ship_address, ship_city, ship_state, ship_postal_code, ship_country, payment_method, items_price_cents, shipping_price_cents, tax_price_cents, total_price_cents, status)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
RETURNING id::text, created_at
`
	created := o
	err = tx.QueryRow(ctx, insertOrder,
		o.UserID,
		o.ShippingAddress.FullName,
		o.ShippingAddress.Phone,
		o.ShippingAddress.Address,
		o.ShippingAddress.City,
		o.ShippingAddress.State,
		o.ShippingAddress.PostalCode,
		o.ShippingAddress.Country,
		o.PaymentMethod,
		o.ItemsPriceCents,
		o.ShippingPriceCents,
		o.TaxPriceCents,
		o.TotalPriceCents,
		domain.OrderStatusCreated,
	).Scan(&created.ID, &created.CreatedAt)
	if err != nil {
		r.logger.Printf("order repo: insert user_id=%s error=%v", o.UserID, err)
		return nil, err
	}
	created.Status = domain.OrderStatusCreated

	for i, item := range o.Items {
		err := tx.QueryRow(ctx, `
INSERT INTO order_items (order_id, product_id, name, image, price_cents, quantity)
VALUES ($1, $2, $3, NULLIF($4, ''), $5, $6)
RETURNING id::text
`, created.ID, item.ProductID, item.Name, item.Image, item.PriceCents, item.Quantity).Scan(&created.Items[i].ID)
		if err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	r.logger.Printf("order repo: created id=%s items=%d total_cents=%d", created.ID, len(created.Items), created.TotalPriceCents)
	return &created, nil
}

func (r *postgresRepo) GetByID(ctx context.Context, id string) (*domain.Order, error) {
	q := "SELECT " + orderColumns + " FROM orders WHERE id = $1"
	o, err := scanOrder(r.pool.QueryRow(ctx, q, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	items, err := r.fetchItems(ctx, o.ID)
	if err != nil {
		return nil, err
	}
	o.Items = items
	return o, nil
}

func (r *postgresRepo) ListByUser(ctx context.Context, userID string) ([]domain.Order, error) {
	q := "SELECT " + orderColumns + " FROM orders WHERE user_id = $1 ORDER BY created_at DESC"
	rows, err := r.pool.Query(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var orders []domain.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, *o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	ids := make([]string, len(orders))
	for i := range orders {
		ids[i] = orders[i].ID
	}
	itemsByOrder, err := r.fetchItemsBatch(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range orders {
		orders[i].Items = itemsByOrder[orders[i].ID]
	}
	return orders, nil
}

func (r *postgresRepo) MarkPaid(ctx context.Context, id string, result domain.PaymentResult, paidAt time.Time) (*domain.Order, error) {
	const q = `
UPDATE orders
SET is_paid = true,
    paid_at = $2,
    status = $3,
    payment_id = $4,
    payment_status = $5,
    payment_update_time = $6,
    payment_email = NULLIF($7, '')
WHERE id = $1
RETURNING id::text
`
	var orderID string
	err := r.pool.QueryRow(ctx, q, id, paidAt, domain.OrderStatusPaid, result.ID, result.Status, result.UpdateTime, result.Email).Scan(&orderID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		r.logger.Printf("order repo: mark paid id=%s error=%v", id, err)
		return nil, err
	}
	return r.GetByID(ctx, orderID)
}

func (r *postgresRepo) MarkDelivered(ctx context.Context, id string, deliveredAt time.Time) (*domain.Order, error) {
	const q = `
UPDATE orders
SET is_delivered = true,
    delivered_at = $2,
    status = $3
WHERE id = $1
RETURNING id::text
`
	var orderID string
	err := r.pool.QueryRow(ctx, q, id, deliveredAt, domain.OrderStatusDelivered).Scan(&orderID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		r.logger.Printf("order repo: mark delivered id=%s error=%v", id, err)
		return nil, err
	}
	return r.GetByID(ctx, orderID)
}

func (r *postgresRepo) fetchItems(ctx context.Context, orderID string) ([]domain.OrderItem, error) {
	const q = `
SELECT id::text, product_id::text, name, COALESCE(image, ''), price_cents, quantity
FROM order_items
WHERE order_id = $1
`
	rows, err := r.pool.Query(ctx, q, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []domain.OrderItem
	for rows.Next() {
		var item domain.OrderItem
		if err := rows.Scan(&item.ID, &item.ProductID, &item.Name, &item.Image, &item.PriceCents, &item.Quantity); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

func (r *postgresRepo) fetchItemsBatch(ctx context.Context, orderIDs []string) (map[string][]domain.OrderItem, error) {
	byOrder := make(map[string][]domain.OrderItem, len(orderIDs))
	if len(orderIDs) == 0 {
		return byOrder, nil
	}

	const q = `
SELECT order_id::text, id::text, product_id::text, name, COALESCE(image, ''), price_cents, quantity
FROM order_items
WHERE order_id = ANY($1)
`
	rows, err := r.pool.Query(ctx, q, orderIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var orderID string
		var item domain.OrderItem
		if err := rows.Scan(&orderID, &item.ID, &item.ProductID, &item.Name, &item.Image, &item.PriceCents, &item.Quantity); err != nil {
			return nil, err
		}
		byOrder[orderID] = append(byOrder[orderID], item)
	}
	return byOrder, rows.Err()
}

func scanOrder(row pgx.Row) (*domain.Order, error) {
	var o domain.Order
	var paymentID, paymentStatus, paymentEmail *string
	var paymentUpdate *time.Time
	if err := row.Scan(
		&o.ID,
		&o.UserID,
		&o.ShippingAddress.FullName,
		&o.ShippingAddress.Phone,
		&o.ShippingAddress.Address,
		&o.ShippingAddress.City,
		&o.ShippingAddress.State,
		&o.ShippingAddress.PostalCode,
		&o.ShippingAddress.Country,
		&o.PaymentMethod,
		&o.ItemsPriceCents,
		&o.ShippingPriceCents,
		&o.TaxPriceCents,
		&o.TotalPriceCents,
		&o.Status,
		&o.IsPaid,
		&o.PaidAt,
		&paymentID,
		&paymentStatus,
		&paymentUpdate,
		&paymentEmail,
		&o.IsDelivered,
		&o.DeliveredAt,
		&o.CreatedAt,
	); err != nil {
		return nil, err
	}
	if paymentID != nil || paymentStatus != nil {
		result := domain.PaymentResult{}
		if paymentID != nil {
			result.ID = *paymentID
		}
		if paymentStatus != nil {
			result.Status = *paymentStatus
		}
		if paymentUpdate != nil {
			result.UpdateTime = *paymentUpdate
		}
		if paymentEmail != nil {
			result.Email = *paymentEmail
		}
		o.PaymentResult = &result
	}
	return &o, nil
}
