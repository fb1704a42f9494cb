package user

import (
	"context"

	"storefront/internal/domain"
)

type Repository interface {
	Create(ctx context.Context, u domain.User) (*domain.User, error)
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	SetAdmin(ctx context.Context, id string, isAdmin bool) (*domain.User, error)
}
