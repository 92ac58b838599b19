package authservice

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	TokenTTL   = 24 * time.Hour
	AdminRole  = "admin"
	issuer     = "portfolio"
	bcryptCost = 12
)

var (
	ErrInvalidCredentials = errors.New("invalid authentication credentials")
	ErrInvalidToken       = errors.New("invalid or expired token")
	ErrNotConfigured      = errors.New("admin authentication is not configured")
)

type Claims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

type Token struct {
	Plain string `json:"token"`
	// ExpiresIn is the token lifetime in milliseconds.
	ExpiresIn int64     `json:"expires_in"`
	ExpiresAt time.Time `json:"expires_at"`
}

type AuthService struct {
	hash   []byte
	secret []byte
	now    func() time.Time
}
