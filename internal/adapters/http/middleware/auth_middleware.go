package middleware

import (
	"errors"
	"strings"

	"educycle-api/internal/config"
	"educycle-api/internal/core/domain"
	"educycle-api/internal/pkg/jwt"
	"educycle-api/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

const claimsKey = "claims"

func extractToken(c *fiber.Ctx) string {
	// 1. Authorization header
	authHeader := c.Get("Authorization")
	if strings.HasPrefix(authHeader, "Bearer ") {
		return strings.TrimPrefix(authHeader, "Bearer ")
	}
	// 2. Cookie
	return c.Cookies("access_token")
}

func setIdentity(c *fiber.Ctx, claims *jwt.Claims) {
	c.Locals(claimsKey, claims)
	c.Locals("userID", claims.UserID)
	c.Locals("email", claims.Email)
	c.Locals("roles", claims.Roles)
	c.Locals("primaryRole", claims.PrimaryRole)
}

// AuthMiddleware creates authentication middleware
func AuthMiddleware(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		accessToken := extractToken(c)
		if accessToken == "" {
			return response.Unauthorized(c, "Access token required")
		}

		claims, err := jwt.ValidateAccessToken(accessToken, cfg.JWT.Secret)
		if err != nil {
			if errors.Is(err, jwt.ErrTokenExpired) {
				return response.Unauthorized(c, "Access token expired")
			}
			return response.Unauthorized(c, "Invalid access token")
		}

		setIdentity(c, claims)
		return c.Next()
	}
}

// Claims returns the verified token claims, or nil on unauthenticated routes
func Claims(c *fiber.Ctx) *jwt.Claims {
	claims, _ := c.Locals(claimsKey).(*jwt.Claims)
	return claims
}

// RoleMiddleware allows the request when the token carries any of allowedRoles
func RoleMiddleware(allowedRoles ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		claims := Claims(c)
		if claims == nil {
			return response.Unauthorized(c, "Unauthorized")
		}
		if claims.HasRole(allowedRoles...) {
			return c.Next()
		}
		return response.Forbidden(c, "You don't have permission to access this resource")
	}
}

// AdminOnly middleware allows only the Admin role
func AdminOnly() fiber.Handler {
	return RoleMiddleware(domain.RoleAdmin)
}
