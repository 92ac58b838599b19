package authservice

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// NewAuthService hashes the admin password once so requests never see the
// plain value. An empty password leaves login disabled.
func NewAuthService(adminPassword, secret string) (*AuthService, error) {
	return newAuthService(adminPassword, secret, bcryptCost)
}

func newAuthService(adminPassword, secret string, cost int) (*AuthService, error) {
	if secret == "" {
		return nil, errors.New("token signing secret must not be empty")
	}

	s := &AuthService{secret: []byte(secret), now: time.Now}

	if adminPassword != "" {
		hash, err := hashPassword(adminPassword, cost)
		if err != nil {
			return nil, fmt.Errorf("could not hash admin password: %w", err)
		}
		s.hash = hash
	}

	return s, nil
}

// Login exchanges the admin password for a signed token.
func (s *AuthService) Login(password string) (*Token, error) {
	if s.hash == nil {
		return nil, ErrNotConfigured
	}

	ok, err := comparePassword(s.hash, password)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrInvalidCredentials
	}

	return s.issue()
}

func (s *AuthService) issue() (*Token, error) {
	now := s.now()
	expiresAt := now.Add(TokenTTL)

	claims := Claims{
		Role: AdminRole,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Issuer:    issuer,
			Subject:   AdminRole,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return nil, fmt.Errorf("could not sign token: %w", err)
	}

	return &Token{
		Plain:     signed,
		ExpiresIn: TokenTTL.Milliseconds(),
		ExpiresAt: expiresAt,
	}, nil
}

// Verify checks the signature, issuer, expiry and role of a token.
func (s *AuthService) Verify(token string) (*Claims, error) {
	claims := &Claims{}

	_, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	if claims.Role != AdminRole {
		return nil, ErrInvalidToken
	}

	return claims, nil
}
