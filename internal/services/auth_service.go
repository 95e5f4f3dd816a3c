package services

import (
	"database/sql"
	"errors"
	"fmt"

	"shopdash/internal/auth"
	"shopdash/internal/domain"
	"shopdash/internal/repos"

	"golang.org/x/crypto/bcrypt"
)

type AuthService struct {
	Users  *repos.UserRepo
	Tokens *auth.Tokens
}

func NewAuthService(users *repos.UserRepo, tokens *auth.Tokens) *AuthService {
	return &AuthService{Users: users, Tokens: tokens}
}

// Login checks the credentials and returns the user with a freshly signed
// token. Unknown email and wrong password both yield ErrBadCreds.
func (s *AuthService) Login(email, password string) (*domain.User, string, error) {
	u, err := s.Users.ByEmail(email)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, "", ErrBadCreds
	}
	if err != nil {
		return nil, "", fmt.Errorf("lookup user: %w", err)
	}
	if bcrypt.CompareHashAndPassword([]byte(u.Hash), []byte(password)) != nil {
		return nil, "", ErrBadCreds
	}
	tok, err := s.Tokens.Issue(u)
	if err != nil {
		return nil, "", err
	}
	return u, tok, nil
}

// Identify verifies a token without touching the database.
func (s *AuthService) Identify(token string) (*auth.Claims, error) {
	return s.Tokens.Verify(token)
}

// Me re-reads the token's user. ErrNotFound means the account is gone.
func (s *AuthService) Me(token string) (*domain.User, error) {
	claims, err := s.Tokens.Verify(token)
	if err != nil {
		return nil, err
	}
	u, err := s.Users.ByID(claims.UserID)
	if err != nil {
		return nil, notFound(err)
	}
	return u, nil
}
