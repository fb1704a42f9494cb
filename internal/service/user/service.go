// Package user handles signup/login flows and bearer-token authentication.
//
// Admin status is never granted at signup: admins come from the seed tooling
// or from an existing admin promoting another account.
package user

import (
	"context"
	"errors"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
	"storefront/internal/domain"
	tokenrepo "storefront/internal/repository/token"
	userrepo "storefront/internal/repository/user"
)

// ErrInvalidToken indicates the provided token could not be validated.
var ErrInvalidToken = errors.New("invalid token")

type Service struct {
	repo        userrepo.Repository
	tokens      *tokenManager
	accessTTL   time.Duration
	passwordMin int
}

func New(repo userrepo.Repository, tokens tokenrepo.Repository) *Service {
	return &Service{
		repo:        repo,
		tokens:      newTokenManager(tokens),
		accessTTL:   48 * time.Hour,
		passwordMin: 6,
	}
}

type SignupInput struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Signup registers a new account and returns it with a fresh access token.
func (s *Service) Signup(ctx context.Context, in SignupInput) (*domain.User, string, error) {
	name := strings.TrimSpace(in.Name)
	if len(name) < 2 {
		return nil, "", domain.Invalid("name must be at least 2 characters")
	}
	email := strings.TrimSpace(strings.ToLower(in.Email))
	if email == "" || !strings.Contains(email, "@") {
		return nil, "", domain.Invalid("valid email required")
	}
	password := strings.TrimSpace(in.Password)
	if len(password) < s.passwordMin {
		return nil, "", domain.Invalid("password must be at least 6 characters")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", err
	}

	created, err := s.repo.Create(ctx, domain.User{
		Name:         name,
		Email:        email,
		PasswordHash: string(hashed),
	})
	if err != nil {
		return nil, "", err
	}

	token, err := s.tokens.Issue(ctx, created.ID, "access", s.accessTTL)
	if err != nil {
		return nil, "", err
	}
	return created, token, nil
}

// Login validates credentials and returns the user with an access token.
func (s *Service) Login(ctx context.Context, email, password string) (*domain.User, string, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	u, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, "", domain.ErrInvalidCredentials
		}
		return nil, "", err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(strings.TrimSpace(password))); err != nil {
		return nil, "", domain.ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(ctx, u.ID, "access", s.accessTTL)
	if err != nil {
		return nil, "", err
	}
	return u, token, nil
}

// LookupByToken resolves a bearer token to its user. Drives auth middleware.
func (s *Service) LookupByToken(ctx context.Context, token string) (*domain.User, error) {
	userID, ok := s.tokens.Validate(ctx, token)
	if !ok {
		return nil, ErrInvalidToken
	}
	u, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, ErrInvalidToken
		}
		return nil, err
	}
	return u, nil
}

// Logout revokes the presented token. Unknown tokens are not an error.
func (s *Service) Logout(ctx context.Context, token string) error {
	return s.tokens.Revoke(ctx, token)
}

// PromoteToAdmin grants the admin role. Only admins may call it.
func (s *Service) PromoteToAdmin(ctx context.Context, actor *domain.User, userID string) (*domain.User, error) {
	if actor == nil || !actor.IsAdmin {
		return nil, domain.ErrForbidden
	}
	return s.repo.SetAdmin(ctx, userID, true)
}

// AccessTTLSeconds exposes the token lifetime for login responses.
func (s *Service) AccessTTLSeconds() int {
	return int(s.accessTTL.Seconds())
}
