// Package staff handles kitchen and admin account flows.
package staff

import (
	"context"
	"errors"
	"strings"
	"time"

	"canteen-backend/internal/domain"
	staffrepo "canteen-backend/internal/repository/staff"
	tokenrepo "canteen-backend/internal/repository/token"
	"golang.org/x/crypto/bcrypt"
)

var (
	// ErrInvalidCredentials is returned when email/password do not match.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrInvalidToken indicates the provided token could not be validated.
	ErrInvalidToken = errors.New("invalid token")
)

// Service handles staff signup/login flows.
type Service struct {
	repo        staffrepo.Repository
	tokens      *tokenManager
	accessTTL   time.Duration
	refreshTTL  time.Duration
	passwordMin int
}

func New(repo staffrepo.Repository, tokens tokenrepo.Repository) *Service {
	return &Service{
		repo:        repo,
		tokens:      newTokenManager(tokens),
		accessTTL:   24 * time.Hour,
		refreshTTL:  30 * 24 * time.Hour,
		passwordMin: 8,
	}
}

// SignupInput captures fields expected by the staff signup endpoint.
type SignupInput struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

// Signup registers a new staff account. The username defaults to the local
// part of the email address.
func (s *Service) Signup(ctx context.Context, in SignupInput) (*domain.Staff, error) {
	email := strings.TrimSpace(strings.ToLower(in.Email))
	if email == "" || !strings.Contains(email, "@") {
		return nil, domain.Invalidf("valid email required")
	}
	role := in.Role
	if role == "" {
		role = domain.RoleChef
	}
	if role != domain.RoleChef && role != domain.RoleAdmin {
		return nil, domain.Invalidf("unknown role %q", in.Role)
	}
	password := strings.TrimSpace(in.Password)
	if len(password) < s.passwordMin {
		return nil, domain.Invalidf("password must be at least %d characters", s.passwordMin)
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	account := domain.Staff{
		Name:         in.Name,
		Username:     email[:strings.Index(email, "@")],
		Email:        email,
		PasswordHash: string(hashed),
		Role:         role,
	}
	return s.repo.Create(ctx, account)
}

// Login validates credentials and returns issued tokens plus the account.
func (s *Service) Login(ctx context.Context, email, password string) (*domain.Staff, string, string, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	account, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, "", "", ErrInvalidCredentials
		}
		return nil, "", "", err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(strings.TrimSpace(password))); err != nil {
		return nil, "", "", ErrInvalidCredentials
	}

	access, err := s.tokens.Issue(ctx, account.ID, "access", s.accessTTL)
	if err != nil {
		return nil, "", "", err
	}
	refresh, err := s.tokens.Issue(ctx, account.ID, "refresh", s.refreshTTL)
	if err != nil {
		return nil, "", "", err
	}
	return account, access, refresh, nil
}

// LookupByToken returns the staff account bound to a valid access token.
func (s *Service) LookupByToken(ctx context.Context, token string) (*domain.Staff, error) {
	meta, ok := s.tokens.Validate(ctx, token)
	if !ok {
		return nil, ErrInvalidToken
	}
	account, err := s.repo.GetByID(ctx, meta.StaffID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, ErrInvalidToken
		}
		return nil, err
	}
	return account, nil
}

// Logout revokes an access token. Unknown tokens are not an error.
func (s *Service) Logout(ctx context.Context, token string) error {
	return s.tokens.Revoke(ctx, token)
}

// AccessTTLSeconds exposes the access token lifetime in seconds.
func (s *Service) AccessTTLSeconds() int {
	return int(s.accessTTL.Seconds())
}
