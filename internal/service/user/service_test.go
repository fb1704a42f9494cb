package user

import (
	"context"
	"errors"
	"testing"
	"time"

	"storefront/internal/domain"
	tokenrepo "storefront/internal/repository/token"
)

type stubUserRepo struct {
	byEmail map[string]*domain.User
	byID    map[string]*domain.User
	admins  map[string]bool
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{
		byEmail: map[string]*domain.User{},
		byID:    map[string]*domain.User{},
		admins:  map[string]bool{},
	}
}

func (s *stubUserRepo) Create(_ context.Context, u domain.User) (*domain.User, error) {
	if _, ok := s.byEmail[u.Email]; ok {
		return nil, domain.ErrEmailTaken
	}
	u.ID = "user-" + u.Email
	s.byEmail[u.Email] = &u
	s.byID[u.ID] = &u
	return &u, nil
}

func (s *stubUserRepo) GetByID(_ context.Context, id string) (*domain.User, error) {
	u, ok := s.byID[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return u, nil
}

func (s *stubUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	u, ok := s.byEmail[email]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return u, nil
}

func (s *stubUserRepo) SetAdmin(_ context.Context, id string, isAdmin bool) (*domain.User, error) {
	u, ok := s.byID[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	u.IsAdmin = isAdmin
	s.admins[id] = isAdmin
	return u, nil
}

type stubTokenRepo struct {
	tokens map[string]tokenrepo.Token
}

func newStubTokenRepo() *stubTokenRepo {
	return &stubTokenRepo{tokens: map[string]tokenrepo.Token{}}
}

func (s *stubTokenRepo) Create(_ context.Context, t tokenrepo.Token) error {
	if _, ok := s.tokens[t.Token]; ok {
		return domain.ErrAlreadyExists
	}
	s.tokens[t.Token] = t
	return nil
}

func (s *stubTokenRepo) Get(_ context.Context, token string) (*tokenrepo.Token, error) {
	t, ok := s.tokens[token]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &t, nil
}

func (s *stubTokenRepo) Delete(_ context.Context, token string) error {
	if _, ok := s.tokens[token]; !ok {
		return domain.ErrNotFound
	}
	delete(s.tokens, token)
	return nil
}

func newTestService() (*Service, *stubUserRepo, *stubTokenRepo) {
	users := newStubUserRepo()
	tokens := newStubTokenRepo()
	return New(users, tokens), users, tokens
}

func TestSignup_Validation(t *testing.T) {
	svc, _, _ := newTestService()

	cases := []struct {
		name string
		in   SignupInput
	}{
		{"short name", SignupInput{Name: "x", Email: "a@b.test", Password: "secret1"}},
		{"bad email", SignupInput{Name: "Jane", Email: "not-an-email", Password: "secret1"}},
		{"short password", SignupInput{Name: "Jane", Email: "a@b.test", Password: "short"}},
	}
	for _, tc := range cases {
		if _, _, err := svc.Signup(context.Background(), tc.in); !errors.Is(err, domain.ErrInvalidInput) {
			t.Fatalf("%s: expected invalid input, got %v", tc.name, err)
		}
	}
}

func TestSignup_NeverGrantsAdmin(t *testing.T) {
	svc, _, _ := newTestService()

	u, token, err := svc.Signup(context.Background(), SignupInput{Name: "Jane", Email: "Jane@Example.com", Password: "secret1"})
	if err != nil {
		t.Fatalf("signup: %v", err)
	}
	if u.IsAdmin {
		t.Fatalf("signup must never grant admin")
	}
	if u.Email != "jane@example.com" {
		t.Fatalf("email should be lowercased, got %q", u.Email)
	}
	if token == "" {
		t.Fatalf("expected an access token")
	}
}

func TestSignup_DuplicateEmail(t *testing.T) {
	svc, _, _ := newTestService()

	in := SignupInput{Name: "Jane", Email: "jane@example.com", Password: "secret1"}
	if _, _, err := svc.Signup(context.Background(), in); err != nil {
		t.Fatalf("first signup: %v", err)
	}
	if _, _, err := svc.Signup(context.Background(), in); !errors.Is(err, domain.ErrEmailTaken) {
		t.Fatalf("expected email taken, got %v", err)
	}
}

func TestLogin_RoundTrip(t *testing.T) {
	svc, _, _ := newTestService()

	if _, _, err := svc.Signup(context.Background(), SignupInput{Name: "Jane", Email: "jane@example.com", Password: "secret1"}); err != nil {
		t.Fatalf("signup: %v", err)
	}

	u, token, err := svc.Login(context.Background(), "jane@example.com", "secret1")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if u.Email != "jane@example.com" || token == "" {
		t.Fatalf("unexpected login result: %+v token=%q", u, token)
	}

	resolved, err := svc.LookupByToken(context.Background(), token)
	if err != nil {
		t.Fatalf("lookup by token: %v", err)
	}
	if resolved.ID != u.ID {
		t.Fatalf("token resolved to wrong user: %+v", resolved)
	}
}

func TestLogin_WrongCredentials(t *testing.T) {
	svc, _, _ := newTestService()

	if _, _, err := svc.Signup(context.Background(), SignupInput{Name: "Jane", Email: "jane@example.com", Password: "secret1"}); err != nil {
		t.Fatalf("signup: %v", err)
	}

	if _, _, err := svc.Login(context.Background(), "jane@example.com", "wrong"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected invalid credentials for bad password, got %v", err)
	}
	if _, _, err := svc.Login(context.Background(), "nobody@example.com", "secret1"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected invalid credentials for unknown email, got %v", err)
	}
}

func TestLogout_RevokesToken(t *testing.T) {
	svc, _, _ := newTestService()

	_, token, err := svc.Signup(context.Background(), SignupInput{Name: "Jane", Email: "jane@example.com", Password: "secret1"})
	if err != nil {
		t.Fatalf("signup: %v", err)
	}
	if err := svc.Logout(context.Background(), token); err != nil {
		t.Fatalf("logout: %v", err)
	}
	if _, err := svc.LookupByToken(context.Background(), token); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected invalid token after logout, got %v", err)
	}
	// Revoking again is fine.
	if err := svc.Logout(context.Background(), token); err != nil {
		t.Fatalf("second logout: %v", err)
	}
}

func TestLookupByToken_Expired(t *testing.T) {
	svc, _, tokens := newTestService()

	_, token, err := svc.Signup(context.Background(), SignupInput{Name: "Jane", Email: "jane@example.com", Password: "secret1"})
	if err != nil {
		t.Fatalf("signup: %v", err)
	}

	meta := tokens.tokens[token]
	meta.ExpiresAt = time.Now().Add(-time.Minute)
	tokens.tokens[token] = meta

	if _, err := svc.LookupByToken(context.Background(), token); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected invalid token when expired, got %v", err)
	}
	if _, ok := tokens.tokens[token]; ok {
		t.Fatalf("expired token should be deleted on lookup")
	}
}

func TestPromoteToAdmin_RequiresAdminActor(t *testing.T) {
	svc, users, _ := newTestService()

	target, _, err := svc.Signup(context.Background(), SignupInput{Name: "Jane", Email: "jane@example.com", Password: "secret1"})
	if err != nil {
		t.Fatalf("signup: %v", err)
	}

	if _, err := svc.PromoteToAdmin(context.Background(), &domain.User{ID: "u2"}, target.ID); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected forbidden for non-admin actor, got %v", err)
	}

	promoted, err := svc.PromoteToAdmin(context.Background(), &domain.User{ID: "root", IsAdmin: true}, target.ID)
	if err != nil {
		t.Fatalf("promote: %v", err)
	}
	if !promoted.IsAdmin || !users.admins[target.ID] {
		t.Fatalf("expected target to become admin: %+v", promoted)
	}
}
