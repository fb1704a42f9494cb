package product

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"storefront/internal/domain"
)

const productColumns = `id::text, name, category, COALESCE(description, ''), COALESCE(image, ''), price_cents, original_price_cents, rating, reviews, stock, is_featured, COALESCE(created_by::text, ''), created_at, updated_at`

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

func (r *postgresRepo) List(ctx context.Context, f Filter) ([]domain.Product, int, error) {
	where, args := buildWhere(f)

	countQuery := "SELECT COUNT(*) FROM products" + where
	var total int
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		r.logger.Printf("product repo: count error=%v", err)
		return nil, 0, err
	}

	offset := (f.Page - 1) * f.Limit
	listQuery := fmt.Sprintf(
		"SELECT %s FROM products%s ORDER BY %s LIMIT $%d OFFSET $%d",
		productColumns, where, orderClause(f.Sort), len(args)+1, len(args)+2,
	)
	args = append(args, f.Limit, offset)

	rows, err := r.pool.Query(ctx, listQuery, args...)
	if err != nil {
		r.logger.Printf("product repo: list error=%v", err)
		return nil, 0, err
	}
	defer rows.Close()

	var result []domain.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, 0, err
		}
		result = append(result, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return result, total, nil
}

func (r *postgresRepo) GetByID(ctx context.Context, id string) (*domain.Product, error) {
	q := fmt.Sprintf("SELECT %s FROM products WHERE id = $1", productColumns)
	p, err := scanProduct(r.pool.QueryRow(ctx, q, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		r.logger.Printf("product repo: get id=%s error=%v", id, err)
		return nil, err
	}
	return p, nil
}

func (r *postgresRepo) Create(ctx context.Context, p domain.Product) (*domain.Product, error) {
	q := fmt.Sprintf(`
INSERT INTO products (name, category, description, image, price_cents, original_price_cents, rating, reviews, stock, is_featured, created_by)
VALUES ($1, $2, NULLIF($3, ''), NULLIF($4, ''), $5, $6, $7, $8, $9, $10, NULLIF($11, '')::uuid)
RETURNING %s`, productColumns)
	created, err := scanProduct(r.pool.QueryRow(ctx, q,
		p.Name, p.Category, p.Description, p.Image, p.PriceCents, p.OriginalPriceCents,
		p.Rating, p.Reviews, p.Stock, p.IsFeatured, p.CreatedBy,
	))
	if err != nil {
		r.logger.Printf("product repo: create name=%q error=%v", p.Name, err)
		return nil, err
	}
	r.logger.Printf("product repo: created id=%s name=%q", created.ID, created.Name)
	return created, nil
}

func (r *postgresRepo) Update(ctx context.Context, id string, in UpdateInput) (*domain.Product, error) {
	sets := []string{"updated_at = now()"}
	args := []interface{}{id}

	add := func(col string, v interface{}) {
		args = append(args, v)
		sets = append(sets, fmt.Sprintf("%s = $%d", col, len(args)))
	}
	if in.Name != nil {
		add("name", *in.Name)
	}
	if in.Category != nil {
		add("category", *in.Category)
	}
	if in.Description != nil {
		add("description", *in.Description)
	}
	if in.Image != nil {
		add("image", *in.Image)
	}
	if in.PriceCents != nil {
		add("price_cents", *in.PriceCents)
	}
	if in.OriginalPriceCents != nil {
		add("original_price_cents", *in.OriginalPriceCents)
	}
	if in.Rating != nil {
		add("rating", *in.Rating)
	}
	if in.Reviews != nil {
		add("reviews", *in.Reviews)
	}
	if in.Stock != nil {
		add("stock", *in.Stock)
	}
	if in.IsFeatured != nil {
		add("is_featured", *in.IsFeatured)
	}

	q := fmt.Sprintf("UPDATE products SET %s WHERE id = $1 RETURNING %s", strings.Join(sets, ", "), productColumns)
	p, err := scanProduct(r.pool.QueryRow(ctx, q, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		r.logger.Printf("product repo: update id=%s error=%v", id, err)
		return nil, err
	}
	return p, nil
}

func (r *postgresRepo) Delete(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		r.logger.Printf("product repo: delete id=%s error=%v", id, err)
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Upsert inserts or updates a product keyed by name. Used by seed/import tooling.
func (r *postgresRepo) Upsert(ctx context.Context, p domain.Product) (*domain.Product, error) {
	q := fmt.Sprintf(`
INSERT INTO products (name, category, description, image, price_cents, original_price_cents, rating, reviews, stock, is_featured, created_by)
VALUES ($1, $2, NULLIF($3, ''), NULLIF($4, ''), $5, $6, $7, $8, $9, $10, NULLIF($11, '')::uuid)
ON CONFLICT (name) DO UPDATE SET
    category = EXCLUDED.category,
    description = EXCLUDED.description,
    image = EXCLUDED.image,
    price_cents = EXCLUDED.price_cents,
    original_price_cents = EXCLUDED.original_price_cents,
    rating = EXCLUDED.rating,
    reviews = EXCLUDED.reviews,
    stock = EXCLUDED.stock,
    is_featured = EXCLUDED.is_featured,
    updated_at = now()
RETURNING %s`, productColumns)
	out, err := scanProduct(r.pool.QueryRow(ctx, q,
		p.Name, p.Category, p.Description, p.Image, p.PriceCents, p.OriginalPriceCents,
		p.Rating, p.Reviews, p.Stock, p.IsFeatured, p.CreatedBy,
	))
	if err != nil {
		r.logger.Printf("product repo: upsert name=%q error=%v", p.Name, err)
		return nil, err
	}
	return out, nil
}

func (r *postgresRepo) Categories(ctx context.Context) ([]string, error) {
	rows, err := r.pool.Query(ctx, `SELECT DISTINCT category FROM products ORDER BY category ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var categories []string
	for rows.Next() {
		var c string
		if err := rows.Scan(&c); err != nil {
			return nil, err
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

func buildWhere(f Filter) (string, []interface{}) {
	var clauses []string
	var args []interface{}

	arg := func(v interface{}) int {
		args = append(args, v)
		return len(args)
	}
	if f.Keyword != "" {
		n := arg("%" + escapeLike(f.Keyword) + "%")
		clauses = append(clauses, fmt.Sprintf("(name ILIKE $%d OR description ILIKE $%d)", n, n))
	}
	if f.Category != "" {
		clauses = append(clauses, fmt.Sprintf("lower(category) = lower($%d)", arg(f.Category)))
	}
	if f.MinPriceCents != nil {
		clauses = append(clauses, fmt.Sprintf("price_cents >= $%d", arg(*f.MinPriceCents)))
	}
	if f.MaxPriceCents != nil {
		clauses = append(clauses, fmt.Sprintf("price_cents <= $%d", arg(*f.MaxPriceCents)))
	}
	if f.MinRating != nil {
		clauses = append(clauses, fmt.Sprintf("rating >= $%d", arg(*f.MinRating)))
	}
	if f.InStock {
		clauses = append(clauses, "stock > 0")
	}

	if len(clauses) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(clauses, " AND "), args
}

// escapeLike neutralizes LIKE metacharacters so a keyword matches literally.
func escapeLike(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `%`, `\%`)
	s = strings.ReplaceAll(s, `_`, `\_`)
	return s
}

func orderClause(sort string) string {
	switch sort {
	case SortPriceAsc:
		return "price_cents ASC"
	case SortPriceDesc:
		return "price_cents DESC"
	case SortRating:
		return "rating DESC"
	default:
		return "created_at DESC"
	}
}

func scanProduct(row pgx.Row) (*domain.Product, error) {
	var p domain.Product
	if err := row.Scan(
		&p.ID,
		&p.Name,
		&p.Category,
		&p.Description,
		&p.Image,
		&p.PriceCents,
		&p.OriginalPriceCents,
		&p.Rating,
		&p.Reviews,
		&p.Stock,
		&p.IsFeatured,
		&p.CreatedBy,
		&p.CreatedAt,
		&p.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &p, nil
}
