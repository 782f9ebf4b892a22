package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/example/smartwave/internal/config"
	"github.com/example/smartwave/internal/models"
	"github.com/example/smartwave/internal/utils"
)

const claimsContextKey = "currentClaims"

// AuthMiddleware validates JWT bearer tokens and loads the token claims
// into the request context.
func AuthMiddleware(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return fiber.NewError(fiber.StatusUnauthorized, "missing authorization header")
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			return fiber.NewError(fiber.StatusUnauthorized, "invalid authorization header")
		}

		claims, err := utils.ParseToken(cfg.JWTSecret, parts[1])
		if err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, "invalid token")
		}

		c.Locals(claimsContextKey, claims)
		return c.Next()
	}
}

// RequireRole guards a route group behind a minimum role. superadmin
// always passes; admin passes admin-level checks.
func RequireRole(role string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		claims, ok := GetCurrentClaims(c)
		if !ok {
			return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
		}

		if claims.Role == models.RoleSuperAdmin {
			return c.Next()
		}
		if role == models.RoleAdmin && claims.Role == models.RoleAdmin {
			return c.Next()
		}
		if role == models.RoleUser {
			return c.Next()
		}

		return fiber.NewError(fiber.StatusForbidden, "insufficient role")
	}
}

// GetCurrentClaims extracts the authenticated token claims from context.
func GetCurrentClaims(c *fiber.Ctx) (utils.TokenClaims, bool) {
	value := c.Locals(claimsContextKey)
	if value == nil {
		return utils.TokenClaims{}, false
	}

	if claims, ok := value.(utils.TokenClaims); ok {
		return claims, true
	}

	return utils.TokenClaims{}, false
}
