package services

import (
	"context"
	"errors"
	"fmt"

	"lashodia/internal/auth"
	"lashodia/internal/domain"
	"lashodia/internal/repos"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrDuplicateEmail = errors.New("existing user found with same email address")
	ErrUnknownEmail   = errors.New("no user with this email")
	ErrWrongPassword  = errors.New("wrong password")
	ErrUserNotFound   = errors.New("user not found")
)

type AuthService struct {
	Users  UserStore
	Tokens *auth.Tokens
	// Cost is the bcrypt cost; zero means bcrypt.DefaultCost.
	Cost int
}

func NewAuthService(users UserStore, tokens *auth.Tokens) *AuthService {
	return &AuthService{Users: users, Tokens: tokens}
}

// Signup creates a user with an empty cart and returns a token for it.
// email is expected to be normalized already (see validate.Email).
func (s *AuthService) Signup(ctx context.Context, username, email, password string) (string, error) {
	_, err := s.Users.ByEmail(ctx, email)
	switch {
	case err == nil:
		return "", ErrDuplicateEmail
	case !errors.Is(err, repos.ErrNotFound):
		return "", err
	}

	cost := s.Cost
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}

	u := &domain.User{
		ID:       uuid.NewString(),
		Username: username,
		Email:    email,
		Hash:     string(hash),
		Cart:     []domain.CartItem{},
	}
	if err := s.Users.Create(ctx, u); err != nil {
		if errors.Is(err, repos.ErrDuplicate) {
			return "", ErrDuplicateEmail
		}
		return "", err
	}
	return s.Tokens.Issue(u.ID)
}

func (s *AuthService) Login(ctx context.Context, email, password string) (string, error) {
	u, err := s.Users.ByEmail(ctx, email)
	if errors.Is(err, repos.ErrNotFound) {
		return "", ErrUnknownEmail
	}
	if err != nil {
		return "", err
	}
	if bcrypt.CompareHashAndPassword([]byte(u.Hash), []byte(password)) != nil {
		return "", ErrWrongPassword
	}
	return s.Tokens.Issue(u.ID)
}

// UserID resolves a presented token to the user id it was issued for.
func (s *AuthService) UserID(token string) (string, error) {
	return s.Tokens.Verify(token)
}
