// Package auth issues and verifies the bearer tokens protecting the API.
package auth

import (
	"crypto/subtle"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"weekmenu/internal/apperr"
	"weekmenu/internal/config"
)

// Service exchanges the configured password for signed tokens and verifies
// them on later requests.
type Service struct {
	secret   []byte
	password string
	ttl      time.Duration
}

// NewService creates a Service from the auth configuration.
func NewService(cfg config.AuthConfig) *Service {
	return &Service{
		secret:   []byte(cfg.Secret),
		password: cfg.Password,
		ttl:      cfg.TokenTTL,
	}
}

// Login checks the password and returns a signed token.
func (s *Service) Login(password string) (string, error) {
	if subtle.ConstantTimeCompare([]byte(password), []byte(s.password)) != 1 {
		return "", apperr.Unauthorized("wrong password")
	}

	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   "weekmenu",
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// Verify validates a bearer token.
func (s *Service) Verify(tokenString string) error {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil || !token.Valid {
		return apperr.Unauthorized("invalid or expired token")
	}
	return nil
}
