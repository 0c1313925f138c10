// Package middleware provides authentication and authorization middleware for the application.
package middleware

import (
	"strconv"

	"kindling/internal/config"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

var cfg *config.Config

// Token issuer and audience checked on every request.
const (
	TokenIssuer   = "kindling-api"
	TokenAudience = "kindling-client"
)

// InitMiddleware initializes authentication middleware with the given config.
func InitMiddleware(c *config.Config) {
	cfg = c
}

// ParseUserToken validates a signed token and returns the user ID from
// its subject claim plus the full claim set, so callers can apply
// revocation checks on the token ID.
func ParseUserToken(tokenString string) (uint, jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fiber.NewError(fiber.StatusUnauthorized, "Invalid signing method")
		}
		return []byte(cfg.JWTSecret), nil
	}, jwt.WithIssuer(TokenIssuer), jwt.WithAudience(TokenAudience))
	if err != nil || !token.Valid {
		return 0, nil, fiber.NewError(fiber.StatusUnauthorized, "Invalid or expired token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return 0, nil, fiber.NewError(fiber.StatusUnauthorized, "Invalid token claims")
	}

	// Subject claim per RFC 7519 carries the user ID.
	subClaim, ok := claims["sub"]
	if !ok {
		return 0, nil, fiber.NewError(fiber.StatusUnauthorized, "Invalid token structure - missing subject")
	}
	subStr, ok := subClaim.(string)
	if !ok {
		return 0, nil, fiber.NewError(fiber.StatusUnauthorized, "Invalid token subject type")
	}
	userIDVal, err := strconv.ParseUint(subStr, 10, 32)
	if err != nil {
		return 0, nil, fiber.NewError(fiber.StatusUnauthorized, "Invalid user ID in token")
	}
	return uint(userIDVal), claims, nil
}
