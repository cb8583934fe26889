package middleware

import (
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/warbler-app/backend/internal/models"
)

// TokenTTL is how long an issued API token stays valid.
const TokenTTL = 72 * time.Hour

var errUnexpectedSigningMethod = errors.New("unexpected signing method")

// IssueToken signs an HS256 API token for user.
func IssueToken(user *models.User, secret string) (string, error) {
	now := time.Now()
	claims := &models.JwtCustomClaims{
		UserID:   user.ID,
		Username: user.Username,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(TokenTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// ParseToken validates tokenString and returns its claims.
func ParseToken(tokenString, secret string) (*models.JwtCustomClaims, error) {
	claims := &models.JwtCustomClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errUnexpectedSigningMethod
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, jwt.ErrTokenInvalidClaims
	}
	return claims, nil
}

// bearerUserID returns the user id carried by a valid Bearer token, or 0.
func bearerUserID(c echo.Context, secret string) uint {
	authHeader := c.Request().Header.Get("Authorization")
	if authHeader == "" || secret == "" {
		return 0
	}

	// Expecting "Bearer <token>"
	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
		return 0
	}

	claims, err := ParseToken(parts[1], secret)
	if err != nil {
		return 0
	}
	return claims.UserID
}
