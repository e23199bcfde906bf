package middleware

import (
	"errors"
	"fmt"
	"log"
	"strconv"

	"github.com/gofiber/fiber/v2"
	jwtware "github.com/gofiber/jwt/v3"
	"github.com/golang-jwt/jwt/v4"
	"gorm.io/gorm"

	"github.com/medbook/medbook-server/config"
	"github.com/medbook/medbook-server/models"
)

// Protected validates the bearer token and resolves it to a user row. The
// resolved identity is stored in locals as "userID", "role" and "currentUser".
// Malformed, expired and unknown-user tokens are told apart only in the logs;
// the client always sees the same 401.
func Protected(cfg *config.Config, gdb *gorm.DB) fiber.Handler {
	return jwtware.New(jwtware.Config{
		SigningKey:   []byte(cfg.JWTSecret),
		ErrorHandler: jwtError,
		SuccessHandler: func(c *fiber.Ctx) error {
			token, ok := c.Locals("user").(*jwt.Token)
			if !ok {
				return unauthorized(c)
			}

			claims, ok := token.Claims.(jwt.MapClaims)
			if !ok {
				return unauthorized(c)
			}

			userID, err := extractUserID(claims)
			if err != nil {
				log.Println("auth: bad user ID in token claims:", err)
				return unauthorized(c)
			}

			var user models.User
			if err := gdb.First(&user, userID).Error; err != nil {
				log.Printf("auth: token presented for unknown user %d", userID)
				return unauthorized(c)
			}

			c.Locals("userID", user.ID)
			c.Locals("role", user.Role)
			c.Locals("currentUser", &user)

			return c.Next()
		},
	})
}

// RequireRole gates a route on the resolved role. It must run after Protected.
func RequireRole(role models.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		current, ok := c.Locals("role").(models.Role)
		if !ok || current != role {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error": "You don't have the required role to perform this action",
			})
		}
		return c.Next()
	}
}

// RequireAdmin is shorthand for the admin-only routes.
func RequireAdmin() fiber.Handler {
	return RequireRole(models.RoleAdmin)
}

// extractUserID handles multiple potential formats of user ID in token
func extractUserID(claims jwt.MapClaims) (uint, error) {
	idVal := claims["id"]
	if idVal == nil {
		return 0, fmt.Errorf("no ID found in claims")
	}

	switch v := idVal.(type) {
	case float64:
		return uint(v), nil
	case string:
		parsed, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return 0, fmt.Errorf("could not parse ID string: %v", err)
		}
		return uint(parsed), nil
	default:
		return 0, fmt.Errorf("unsupported ID type: %T", v)
	}
}

// jwtError handles JWT errors
func jwtError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		log.Println("auth: expired token:", err)
	case errors.Is(err, jwt.ErrTokenMalformed):
		log.Println("auth: malformed token:", err)
	default:
		log.Println("auth: token rejected:", err)
	}
	return unauthorized(c)
}

func unauthorized(c *fiber.Ctx) error {
	return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
		"error":   "Unauthorized",
		"message": "Invalid or expired token",
	})
}
