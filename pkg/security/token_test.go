package security

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-at-least-16-chars!!"

func sign(t *testing.T, method jwt.SigningMethod, key any, claims jwt.RegisteredClaims) string {
	t.Helper()
	s, err := jwt.NewWithClaims(method, claims).SignedString(key)
	require.NoError(t, err)
	return s
}

func TestNewTokenVerifier_ShortSecret(t *testing.T) {
	_, err := NewTokenVerifier("short", "")
	assert.Error(t, err)
}

func TestTokenVerifier_Verify(t *testing.T) {
	v, err := NewTokenVerifier(testSecret, "identity-provider")
	require.NoError(t, err)

	now := time.Now()
	valid := jwt.RegisteredClaims{
		Subject:   "user-123",
		Issuer:    "identity-provider",
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
	}

	t.Run("valid token", func(t *testing.T) {
		sub, err := v.Verify(sign(t, jwt.SigningMethodHS256, []byte(testSecret), valid))
		require.NoError(t, err)
		assert.Equal(t, "user-123", sub)
	})

	t.Run("expired token", func(t *testing.T) {
		c := valid
		c.ExpiresAt = jwt.NewNumericDate(now.Add(-time.Minute))
		_, err := v.Verify(sign(t, jwt.SigningMethodHS256, []byte(testSecret), c))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "expired")
	})

	t.Run("missing expiry", func(t *testing.T) {
		c := valid
		c.ExpiresAt = nil
		_, err := v.Verify(sign(t, jwt.SigningMethodHS256, []byte(testSecret), c))
		assert.Error(t, err)
	})

	t.Run("wrong secret", func(t *testing.T) {
		_, err := v.Verify(sign(t, jwt.SigningMethodHS256, []byte("another-secret-of-16+chars"), valid))
		assert.Error(t, err)
	})

	t.Run("wrong issuer", func(t *testing.T) {
		c := valid
		c.Issuer = "someone-else"
		_, err := v.Verify(sign(t, jwt.SigningMethodHS256, []byte(testSecret), c))
		assert.Error(t, err)
	})

	t.Run("no subject", func(t *testing.T) {
		c := valid
		c.Subject = ""
		_, err := v.Verify(sign(t, jwt.SigningMethodHS256, []byte(testSecret), c))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "no subject")
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := v.Verify("not.a.jwt")
		assert.Error(t, err)
	})
}
