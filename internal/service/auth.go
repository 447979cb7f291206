// Package service implements authentication and the listing and account
// use cases on top of the repositories.
package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/manojtanwar99/stayvira/internal/auth"
	"github.com/manojtanwar99/stayvira/internal/models"
	"github.com/manojtanwar99/stayvira/internal/repository"
	"golang.org/x/crypto/bcrypt"
)

var (
	// ErrInvalidCredentials covers both an unknown email and a wrong
	// password so callers cannot tell which one happened.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrMissingCredentials is a request validation failure.
	ErrMissingCredentials = errors.New("email and password are required")
)

// maxPasswordBytes is the longest input bcrypt accepts.
const maxPasswordBytes = 72

// UserSummary is the public view of an account returned on login.
type UserSummary struct {
	ID    string      `json:"id"`
	Name  string      `json:"name"`
	Email string      `json:"email"`
	Role  models.Role `json:"role"`
}

// LoginResponse is returned by a successful login.
type LoginResponse struct {
	Token     string      `json:"token"`
	ExpiresAt time.Time   `json:"expiresAt"`
	User      UserSummary `json:"user"`
}

// AuthService verifies credentials and access tokens.
type AuthService interface {
	Login(ctx context.Context, email, password string) (*LoginResponse, error)
	Logout(ctx context.Context) error
	Authenticate(token string) (*auth.Principal, error)
}

type authService struct {
	userRepo  repository.UserRepository
	tokens    TokenService
	dummyHash []byte
}

// NewAuthService creates a new AuthService instance. bcryptCost is used
// for the decoy hash compared when an email is unknown, so that both
// failure paths cost the same.
func NewAuthService(userRepo repository.UserRepository, tokens TokenService, bcryptCost int) (AuthService, error) {
	dummy, err := bcrypt.GenerateFromPassword([]byte("decoy-password-never-matches"), bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("generate decoy hash: %w", err)
	}
	return &authService{
		userRepo:  userRepo,
		tokens:    tokens,
		dummyHash: dummy,
	}, nil
}

func (s *authService) Login(ctx context.Context, email, password string) (*LoginResponse, error) {
	email = models.NormalizeEmail(email)
	if email == "" || password == "" {
		return nil, ErrMissingCredentials
	}
	// Stored passwords never exceed bcrypt's input limit. The check runs
	// before the lookup so it answers the same for known and unknown emails.
	if len(password) > maxPasswordBytes {
		return nil, ErrInvalidCredentials
	}

	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			_ = bcrypt.CompareHashAndPassword(s.dummyHash, []byte(password))
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("look up account: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("compare password hash: %w", err)
	}

	token, expiresAt, err := s.tokens.Issue(user)
	if err != nil {
		return nil, err
	}

	return &LoginResponse{
		Token:     token,
		ExpiresAt: expiresAt,
		User: UserSummary{
			ID:    user.ID,
			Name:  user.Name(),
			Email: user.Email,
			Role:  user.Role,
		},
	}, nil
}

// Logout is an acknowledgement only. Tokens are stateless and expire on
// their own; the client discards its copy.
func (s *authService) Logout(_ context.Context) error {
	return nil
}

func (s *authService) Authenticate(token string) (*auth.Principal, error) {
	if token == "" {
		return nil, ErrInvalidToken
	}
	claims, err := s.tokens.Verify(token)
	if err != nil {
		return nil, err
	}
	return &auth.Principal{
		Subject:   claims.Subject,
		Email:     claims.Email,
		Role:      claims.Role,
		ExpiresAt: claims.ExpiresAt.Time,
	}, nil
}
