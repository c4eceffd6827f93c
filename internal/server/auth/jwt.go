// Package auth issues and validates the HS256 session tokens minted after
// a successful login.
package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/dmitrijs2005/facevault/internal/common"
)

// Claims includes the registered claims plus the authenticated username.
type Claims struct {
	jwt.RegisteredClaims
	Username string
}

// GenerateToken mints a signed session token for username.
func GenerateToken(username string, secretKey []byte, validityDuration time.Duration) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(validityDuration)),
		},
		Username: username,
	})

	return token.SignedString(secretKey)
}

// GetUsernameFromToken validates tokenString and returns the username it
// carries. Expired, forged, or malformed tokens yield common.ErrInvalidToken.
func GetUsernameFromToken(tokenString string, secretKey []byte) (string, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return secretKey, nil
	})
	if err != nil {
		return "", common.ErrInvalidToken
	}

	if !token.Valid {
		return "", common.ErrInvalidToken
	}

	return claims.Username, nil
}
