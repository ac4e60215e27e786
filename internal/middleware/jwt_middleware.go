package middleware

import (
	"log/slog"
	"strings"

	"sareehouse/internal/logger"
	"sareehouse/internal/models"
	"sareehouse/internal/services"

	"github.com/gofiber/fiber/v2"
)

// Keys under which AuthRequired stores the caller's identity in c.Locals.
const (
	LocalUserID = "user_id"
	LocalEmail  = "email"
	LocalRole   = "role"
)

// AuthRequired is a Fiber middleware to check for a valid JWT token.
func AuthRequired(authService *services.AuthService, log *slog.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get(fiber.HeaderAuthorization)
		if authHeader == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "Authorization header is required",
			})
		}

		// Expected format: "Bearer <token>"
		parts := strings.SplitN(authHeader, " ", 2)
		if !(len(parts) == 2 && parts[0] == "Bearer") {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "Authorization header format must be 'Bearer <token>'",
			})
		}

		claims, err := authService.ValidateToken(parts[1])
		if err != nil {
			log.Debug("JWT validation failed", "path", c.Path(), "error", err)
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "Invalid or expired token",
				"error":   err.Error(),
			})
		}

		// ValidateToken guarantees user_id is a string.
		userID := claims["user_id"].(string)
		email, _ := claims["email"].(string)
		role, _ := claims["role"].(string)

		c.Locals(LocalUserID, userID)
		c.Locals(LocalEmail, email)
		c.Locals(LocalRole, role)
		c.SetUserContext(logger.WithUserID(c.UserContext(), userID))

		return c.Next()
	}
}

// RequireRole rejects callers whose token does not carry role. It must run
// after AuthRequired.
func RequireRole(role string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if got, _ := c.Locals(LocalRole).(string); got != role {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"message": "Insufficient permissions",
				"error":   "requires role " + role,
			})
		}
		return c.Next()
	}
}

// RequireAdmin is RequireRole for catalog administrators.
func RequireAdmin() fiber.Handler {
	return RequireRole(models.RoleAdmin)
}

// UserID returns the authenticated caller's ID, or "" outside AuthRequired.
func UserID(c *fiber.Ctx) string {
	id, _ := c.Locals(LocalUserID).(string)
	return id
}
