package middleware

import (
	"strings"

	"bakimtrack/internal/logger"
	"bakimtrack/internal/models"

	"github.com/gofiber/fiber/v2"
)

const (
	// PrincipalKeyFiber is the Fiber locals key for the authenticated principal
	PrincipalKeyFiber = "Principal"
)

// RequireAuth validates the bearer token and stores the resulting principal
// on the request. Absence of a principal is always a terminal 401.
func (m *Middleware) RequireAuth() fiber.Handler {
	return func(c *fiber.Ctx) error {
		log := logger.New("middleware").TraceFromContext(c.UserContext()).Function("RequireAuth")

		authHeader := c.Get("Authorization")
		if authHeader == "" {
			log.Info("missing authorization header")
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Authorization header required",
			})
		}

		tokenParts := strings.Split(authHeader, " ")
		if len(tokenParts) != 2 || strings.ToLower(tokenParts[0]) != "bearer" {
			log.Info("invalid authorization header format")
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Invalid authorization header format",
			})
		}

		principal, err := m.session.Validate(c.UserContext(), tokenParts[1])
		if err != nil {
			log.Info("session validation failed", "error", err.Error())
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Invalid or expired session",
			})
		}

		c.Locals(PrincipalKeyFiber, principal)
		return c.Next()
	}
}

// RequireRole gates a route group to an explicit role set. Runs after
// RequireAuth.
func (m *Middleware) RequireRole(roles ...models.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		principal := GetPrincipal(c)
		if principal == nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Authentication required",
			})
		}

		for _, role := range roles {
			if principal.Role == role {
				return c.Next()
			}
		}

		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error": "Insufficient permissions",
		})
	}
}

// GetPrincipal extracts the authenticated principal from Fiber context
func GetPrincipal(c *fiber.Ctx) *models.Principal {
	principal, ok := c.Locals(PrincipalKeyFiber).(models.Principal)
	if !ok {
		return nil
	}
	return &principal
}
