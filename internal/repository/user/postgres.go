package user

import (
	"context"
	"errors"
	"io"
	"log"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"storefront/internal/domain"
)

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

func (r *postgresRepo) Create(ctx context.Context, u domain.User) (*domain.User, error) {
	const q = `
INSERT INTO users (name, email, password_hash, is_admin)
VALUES ($1, $2, $3, $4)
RETURNING id::text, created_at
`
	out := u
	err := r.pool.QueryRow(ctx, q, u.Name, u.Email, u.PasswordHash, u.IsAdmin).Scan(&out.ID, &out.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, domain.ErrEmailTaken
		}
		r.logger.Printf("user repo: create email=%s error=%v", u.Email, err)
		return nil, err
	}
	return &out, nil
}

func (r *postgresRepo) GetByID(ctx context.Context, id string) (*domain.User, error) {
	const q = `
SELECT id::text, name, email, password_hash, is_admin, created_at
FROM users
WHERE id = $1
`
	return r.scanOne(ctx, q, id)
}

func (r *postgresRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	const q = `
SELECT id::text, name, email, password_hash, is_admin, created_at
FROM users
WHERE email = $1
`
	return r.scanOne(ctx, q, email)
}

func (r *postgresRepo) SetAdmin(ctx context.Context, id string, isAdmin bool) (*domain.User, error) {
	const q = `
UPDATE users
SET is_admin = $2
WHERE id = $1
RETURNING id::text, name, email, password_hash, is_admin, created_at
`
	var u domain.User
	err := r.pool.QueryRow(ctx, q, id, isAdmin).Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.IsAdmin, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		r.logger.Printf("user repo: set admin id=%s error=%v", id, err)
		return nil, err
	}
	return &u, nil
}

func (r *postgresRepo) scanOne(ctx context.Context, q string, arg interface{}) (*domain.User, error) {
	var u domain.User
	err := r.pool.QueryRow(ctx, q, arg).Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.IsAdmin, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}
