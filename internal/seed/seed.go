// Package seed loads demo data for manual testing: one admin account and a
// small catalog. This is the only path that creates the first admin.
package seed

import (
	"context"
	"fmt"
	"os"

	"storefront/internal/domain"
	productrepo "storefront/internal/repository/product"

	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/crypto/bcrypt"
)

// Apply inserts seed data. It is idempotent via ON CONFLICT upserts.
func Apply(ctx context.Context, pool *pgxpool.Pool) error {
	adminID, err := ensureAdmin(ctx, pool)
	if err != nil {
		return fmt.Errorf("ensure admin: %w", err)
	}

	products := productrepo.NewPostgres(pool, nil)
	for _, p := range demoProducts() {
		p.CreatedBy = adminID
		if _, err := products.Upsert(ctx, p); err != nil {
			return fmt.Errorf("upsert product %q: %w", p.Name, err)
		}
	}

	return nil
}

func ensureAdmin(ctx context.Context, pool *pgxpool.Pool) (string, error) {
	email := envOrDefault("SEED_ADMIN_EMAIL", "admin@example.com")
	password := envOrDefault("SEED_ADMIN_PASSWORD", "admin123")

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}

	const q = `
INSERT INTO users (name, email, password_hash, is_admin)
VALUES ($1, $2, $3, TRUE)
ON CONFLICT (email) DO UPDATE SET is_admin = TRUE
RETURNING id::text
`
	var id string
	if err := pool.QueryRow(ctx, q, "Admin", email, string(hashed)).Scan(&id); err != nil {
		return "", err
	}
	return id, nil
}

func demoProducts() []domain.Product {
	original := int64(89900)
	return []domain.Product{
		{
			Name:               "Wireless Headphones",
			Category:           "Electronics",
			Description:        "Over-ear wireless headphones with active noise cancellation",
			Image:              "/images/headphones.jpg",
			PriceCents:         69900,
			OriginalPriceCents: &original,
			Rating:             4.5,
			Reviews:            128,
			Stock:              25,
			IsFeatured:         true,
		},
		{
			Name:        "Ceramic Mug",
			Category:    "Home",
			Description: "Stoneware mug, 350ml, dishwasher safe",
			Image:       "/images/mug.jpg",
			PriceCents:  1299,
			Rating:      4.2,
			Reviews:     41,
			Stock:       120,
		},
		{
			Name:        "Cotton T-Shirt",
			Category:    "Clothing",
			Description: "Soft cotton tee, unisex fit",
			Image:       "/images/tshirt.jpg",
			PriceCents:  1999,
			Rating:      4.0,
			Reviews:     63,
			Stock:       80,
		},
		{
			Name:        "Running Shoes",
			Category:    "Footwear",
			Description: "Lightweight trainers with cushioned sole",
			Image:       "/images/shoes.jpg",
			PriceCents:  54900,
			Rating:      4.7,
			Reviews:     212,
			Stock:       18,
			IsFeatured:  true,
		},
	}
}

func envOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
