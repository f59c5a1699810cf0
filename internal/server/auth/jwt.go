// Package auth implements session tokens and password hashing for the
// server. Tokens are HS256 JWTs whose id and email claims both carry the
// normalized account email.
package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"studylink/internal/common"
)

// Claims embeds the standard registered claims plus the identity fields the
// API issues: ID and Email both hold the normalized account email.
type Claims struct {
	jwt.RegisteredClaims
	ID    string `json:"id"`
	Email string `json:"email"`
}

// GenerateToken mints a signed session token for email, valid for
// validityDuration from now.
func GenerateToken(email string, secretKey []byte, validityDuration time.Duration) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(validityDuration)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
		ID:    email,
		Email: email,
	})

	tokenString, err := token.SignedString(secretKey)
	if err != nil {
		return "", err
	}

	return tokenString, nil
}

// GetIdentityFromToken verifies the token signature and expiry and returns
// the embedded identity (the email claim). Expired tokens yield
// common.ErrTokenExpired, any other failure common.ErrInvalidToken.
func GetIdentityFromToken(tokenString string, secretKey []byte) (string, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return secretKey, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", common.ErrTokenExpired
		}
		return "", common.ErrInvalidToken
	}

	if !token.Valid || claims.Email == "" {
		return "", common.ErrInvalidToken
	}

	return claims.Email, nil
}
