package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"shopdash/internal/domain"
)

// CookieName carries the signed token between browser and server.
const CookieName = "auth_token"

var ErrInvalidToken = errors.New("invalid token")

// Claims is what a token proves about its bearer.
type Claims struct {
	UserID int64       `json:"userId"`
	Role   domain.Role `json:"role"`
	jwt.RegisteredClaims
}

type Tokens struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewTokens(secret string, ttl time.Duration) *Tokens {
	return &Tokens{secret: []byte(secret), ttl: ttl, now: time.Now}
}

func (t *Tokens) TTL() time.Duration { return t.ttl }

// Issue signs an HS256 token for the user that expires after the TTL.
func (t *Tokens) Issue(u *domain.User) (string, error) {
	now := t.now()
	claims := Claims{
		UserID: u.ID,
		Role:   u.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   fmt.Sprint(u.ID),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(t.ttl)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Verify checks signature, algorithm and expiry and returns the claims.
// Every failure is reported as ErrInvalidToken.
func (t *Tokens) Verify(raw string) (*Claims, error) {
	if raw == "" {
		return nil, ErrInvalidToken
	}
	claims := &Claims{}
	tok, err := jwt.ParseWithClaims(raw, claims, func(tok *jwt.Token) (any, error) {
		if _, ok := tok.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return t.secret, nil
	}, jwt.WithTimeFunc(t.now), jwt.WithExpirationRequired())
	if err != nil || !tok.Valid {
		return nil, ErrInvalidToken
	}
	if claims.UserID == 0 || claims.Role == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
