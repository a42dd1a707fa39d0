package security

import (
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
)

// TokenVerifier validates HS256 bearer tokens minted by the external identity provider.
// This service never issues credentials; it only checks signature, expiry and issuer.
type TokenVerifier struct {
	secret []byte
	issuer string
}

// NewTokenVerifier creates a verifier for the shared signing secret.
// An empty issuer disables the issuer check.
func NewTokenVerifier(secret, issuer string) (*TokenVerifier, error) {
	if len(secret) < 16 {
		return nil, errors.New("security: JWT secret must be at least 16 characters")
	}
	return &TokenVerifier{secret: []byte(secret), issuer: issuer}, nil
}

// Verify parses the token and returns its subject.
func (v *TokenVerifier) Verify(tokenStr string) (string, error) {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	}
	if v.issuer != "" {
		opts = append(opts, jwt.WithIssuer(v.issuer))
	}

	token, err := jwt.ParseWithClaims(tokenStr, &jwt.RegisteredClaims{}, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return v.secret, nil
	}, opts...)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", errors.New("security: token expired")
		}
		return "", fmt.Errorf("security: invalid token: %w", err)
	}

	claims, ok := token.Claims.(*jwt.RegisteredClaims)
	if !ok || !token.Valid {
		return "", errors.New("security: invalid token claims")
	}
	if claims.Subject == "" {
		return "", errors.New("security: token has no subject")
	}

	return claims.Subject, nil
}
