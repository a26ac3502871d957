package staff

import (
	"context"
	"errors"
	"testing"

	"canteen-backend/internal/domain"
	tokenrepo "canteen-backend/internal/repository/token"
)

// memoryRepo is a lightweight in-memory staff repository for tests.
type memoryRepo struct {
	byEmail map[string]domain.Staff
}

type memoryTokenRepo struct {
	tokens map[string]tokenrepo.Token
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{byEmail: make(map[string]domain.Staff)}
}

func newMemoryTokenRepo() *memoryTokenRepo {
	return &memoryTokenRepo{tokens: make(map[string]tokenrepo.Token)}
}

func (r *memoryRepo) Create(_ context.Context, s domain.Staff) (*domain.Staff, error) {
	if _, exists := r.byEmail[s.Email]; exists {
		return nil, domain.ErrAlreadyExists
	}
	clone := s
	if clone.ID == "" {
		clone.ID = "staff-" + s.Email
	}
	r.byEmail[clone.Email] = clone
	return &clone, nil
}

func (r *memoryRepo) GetByEmail(_ context.Context, email string) (*domain.Staff, error) {
	if s, ok := r.byEmail[email]; ok {
		clone := s
		return &clone, nil
	}
	return nil, domain.ErrNotFound
}

func (r *memoryRepo) GetByID(_ context.Context, id string) (*domain.Staff, error) {
	for _, s := range r.byEmail {
		if s.ID == id {
			clone := s
			return &clone, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *memoryTokenRepo) Create(_ context.Context, token tokenrepo.Token) error {
	if _, exists := r.tokens[token.Token]; exists {
		return domain.ErrAlreadyExists
	}
	r.tokens[token.Token] = token
	return nil
}

func (r *memoryTokenRepo) Get(_ context.Context, token string) (*tokenrepo.Token, error) {
	t, ok := r.tokens[token]
	if !ok {
		return nil, domain.ErrNotFound
	}
	clone := t
	return &clone, nil
}

func (r *memoryTokenRepo) Delete(_ context.Context, token string) error {
	if _, ok := r.tokens[token]; !ok {
		return domain.ErrNotFound
	}
	delete(r.tokens, token)
	return nil
}

func TestSignupAndLogin(t *testing.T) {
	svc := New(newMemoryRepo(), newMemoryTokenRepo())
	ctx := context.Background()

	account, err := svc.Signup(ctx, SignupInput{
		Name:     "Head Chef",
		Email:    "Chef@Example.com",
		Password: "kitchen-pass",
		Role:     domain.RoleChef,
	})
	if err != nil {
		t.Fatalf("signup: %v", err)
	}
	if account.Email != "chef@example.com" {
		t.Fatalf("email not lowercased: %s", account.Email)
	}
	if account.Username != "chef" {
		t.Fatalf("username not derived from email: %s", account.Username)
	}
	if account.PasswordHash == "kitchen-pass" {
		t.Fatalf("password stored in the clear")
	}

	got, access, refresh, err := svc.Login(ctx, "chef@example.com", "kitchen-pass")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if got.ID != account.ID || access == "" || refresh == "" {
		t.Fatalf("unexpected login result: %+v access=%q refresh=%q", got, access, refresh)
	}
	if access == refresh {
		t.Fatalf("access and refresh tokens collided")
	}
}

func TestSignupValidation(t *testing.T) {
	svc := New(newMemoryRepo(), newMemoryTokenRepo())
	ctx := context.Background()

	cases := []struct {
		name string
		in   SignupInput
	}{
		{"no email", SignupInput{Password: "kitchen-pass"}},
		{"bad email", SignupInput{Email: "not-an-email", Password: "kitchen-pass"}},
		{"short password", SignupInput{Email: "a@b.com", Password: "short"}},
		{"unknown role", SignupInput{Email: "a@b.com", Password: "kitchen-pass", Role: "janitor"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := svc.Signup(ctx, tc.in); !errors.Is(err, domain.ErrInvalid) {
				t.Fatalf("expected ErrInvalid, got %v", err)
			}
		})
	}
}

func TestLoginInvalidCredentials(t *testing.T) {
	svc := New(newMemoryRepo(), newMemoryTokenRepo())
	ctx := context.Background()

	if _, err := svc.Signup(ctx, SignupInput{Email: "chef@example.com", Password: "kitchen-pass"}); err != nil {
		t.Fatalf("signup: %v", err)
	}

	if _, _, _, err := svc.Login(ctx, "chef@example.com", "wrongpass"); err != ErrInvalidCredentials {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if _, _, _, err := svc.Login(ctx, "missing@example.com", "kitchen-pass"); err != ErrInvalidCredentials {
		t.Fatalf("expected ErrInvalidCredentials for missing account, got %v", err)
	}
}

func TestLookupAndLogout(t *testing.T) {
	svc := New(newMemoryRepo(), newMemoryTokenRepo())
	ctx := context.Background()

	account, err := svc.Signup(ctx, SignupInput{Email: "chef@example.com", Password: "kitchen-pass"})
	if err != nil {
		t.Fatalf("signup: %v", err)
	}
	_, token, refresh, err := svc.Login(ctx, "chef@example.com", "kitchen-pass")
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	// Refresh tokens are not valid for authentication.
	if _, err := svc.LookupByToken(ctx, refresh); err != ErrInvalidToken {
		t.Fatalf("refresh token accepted as access token: %v", err)
	}

	got, err := svc.LookupByToken(ctx, token)
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	if got.ID != account.ID {
		t.Fatalf("lookup returned wrong account: %s", got.ID)
	}

	if err := svc.Logout(ctx, token); err != nil {
		t.Fatalf("logout: %v", err)
	}
	if _, err := svc.LookupByToken(ctx, token); err != ErrInvalidToken {
		t.Fatalf("expected ErrInvalidToken after logout, got %v", err)
	}
	// Revoking again is a no-op.
	if err := svc.Logout(ctx, token); err != nil {
		t.Fatalf("repeat logout: %v", err)
	}
}
