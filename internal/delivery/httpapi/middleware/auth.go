package middleware

import (
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
)

const (
	RoleAdmin   = "admin"
	RoleTrustee = "trustee"

	LocalsUserID = "auth_user_id"
	LocalsRole   = "auth_role"
)

// RequireRoles validates the caller's bearer token and role claim. The token
// secret is the user-session secret, never the gateway signing key.
func RequireRoles(jwtSecret string, roles ...string) fiber.Handler {
	allowed := make(map[string]bool, len(roles))
	for _, role := range roles {
		allowed[role] = true
	}

	return func(c *fiber.Ctx) error {
		header := c.Get("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"success": false,
				"error":   "missing bearer token",
			})
		}

		token, err := jwt.Parse(strings.TrimPrefix(header, "Bearer "), func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
			}
			return []byte(jwtSecret), nil
		})
		if err != nil || !token.Valid {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"success": false,
				"error":   "invalid token",
			})
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"success": false,
				"error":   "invalid token claims",
			})
		}

		role, _ := claims["role"].(string)
		if !allowed[role] {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"success": false,
				"error":   "role is not allowed to access this resource",
			})
		}

		userID, _ := claims["sub"].(string)
		c.Locals(LocalsUserID, userID)
		c.Locals(LocalsRole, role)
		return c.Next()
	}
}

// CallerID returns the authenticated user id stored by RequireRoles.
func CallerID(c *fiber.Ctx) string {
	id, _ := c.Locals(LocalsUserID).(string)
	return id
}

// CallerRole returns the authenticated role stored by RequireRoles.
func CallerRole(c *fiber.Ctx) string {
	role, _ := c.Locals(LocalsRole).(string)
	return role
}
