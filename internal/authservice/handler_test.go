package authservice

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func setupTestService(t *testing.T, password string) *AuthService {
	t.Helper()

	s, err := newAuthService(password, "test-secret", bcrypt.MinCost)
	require.NoError(t, err)

	return s
}

func TestLogin(t *testing.T) {
	s := setupTestService(t, "correct horse")

	testCases := []struct {
		name        string
		password    string
		expectedErr error
	}{
		{name: "correct password", password: "correct horse"},
		{name: "wrong password", password: "battery staple", expectedErr: ErrInvalidCredentials},
		{name: "empty password", password: "", expectedErr: ErrInvalidCredentials},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			token, err := s.Login(tc.password)
			if tc.expectedErr != nil {
				assert.ErrorIs(t, err, tc.expectedErr)
				assert.Nil(t, token)
				return
			}

			require.NoError(t, err)
			assert.NotEmpty(t, token.Plain)
			assert.Equal(t, int64(24*60*60*1000), token.ExpiresIn)

			claims, err := s.Verify(token.Plain)
			require.NoError(t, err)
			assert.Equal(t, AdminRole, claims.Role)
			assert.NotEmpty(t, claims.ID)
		})
	}
}

func TestLoginNotConfigured(t *testing.T) {
	s := setupTestService(t, "")

	_, err := s.Login("")
	assert.ErrorIs(t, err, ErrNotConfigured)
}

func TestNewAuthServiceRequiresSecret(t *testing.T) {
	_, err := newAuthService("pw", "", bcrypt.MinCost)
	assert.Error(t, err)
}

func TestVerify(t *testing.T) {
	s := setupTestService(t, "pw")

	valid, err := s.Login("pw")
	require.NoError(t, err)

	other, err := newAuthService("pw", "another-secret", bcrypt.MinCost)
	require.NoError(t, err)
	foreign, err := other.Login("pw")
	require.NoError(t, err)

	wrongRole, err := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		Role: "reader",
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}).SignedString([]byte("test-secret"))
	require.NoError(t, err)

	noExpiry, err := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		Role:             AdminRole,
		RegisteredClaims: jwt.RegisteredClaims{Issuer: issuer},
	}).SignedString([]byte("test-secret"))
	require.NoError(t, err)

	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{
		Role: AdminRole,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	testCases := []struct {
		name  string
		token string
		valid bool
	}{
		{name: "valid", token: valid.Plain, valid: true},
		{name: "garbage", token: "not.a.token"},
		{name: "empty", token: ""},
		{name: "other secret", token: foreign.Plain},
		{name: "wrong role", token: wrongRole},
		{name: "no expiry", token: noExpiry},
		{name: "alg none", token: unsigned},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := s.Verify(tc.token)
			if tc.valid {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, ErrInvalidToken)
			}
		})
	}
}

func TestVerifyExpired(t *testing.T) {
	s := setupTestService(t, "pw")

	issuedAt := time.Now().Add(-25 * time.Hour)
	s.now = func() time.Time { return issuedAt }
	token, err := s.Login("pw")
	require.NoError(t, err)

	s.now = time.Now
	_, err = s.Verify(token.Plain)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
