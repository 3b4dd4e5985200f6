// Package auth issues and verifies the signed access tokens that carry an
// account's identity and role between requests.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"transitdocs/internal/model"
)

var (
	ErrInvalidToken = errors.New("token invalid")
	ErrInvalidRole  = errors.New("token carries an unknown role")
)

// Claims are the JWT claims embedded in every access token. Role is baked in
// at sign-in time; roles are immutable so the claim never goes stale.
type Claims struct {
	Role model.Role `json:"role"`
	jwt.RegisteredClaims
}

// GenerateToken signs an HS256 access token for the given account.
func GenerateToken(secret []byte, userID string, role model.Role, ttl time.Duration) (string, error) {
	claims := Claims{
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(secret)
}

// ParseToken verifies the signature and expiry of tokenString and returns its claims.
func ParseToken(secret []byte, tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return secret, nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, ErrInvalidToken
	}
	if !claims.Role.Valid() {
		return nil, ErrInvalidRole
	}
	return claims, nil
}
