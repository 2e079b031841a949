package middleware

import (
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

// Context locals keys populated by RequireAuth.
const (
	UserIDLocalKey   = "user_id"
	UsernameLocalKey = "username"
	RoleLocalKey     = "role"
)

// RequireAuth rejects requests without a valid Bearer token signed with the
// given HMAC secret. Claims are exposed to downstream handlers via context
// locals. Errors surface as fiber errors so the central error handler shapes
// the response body.
func RequireAuth(secret string) fiber.Handler {
	key := []byte(secret)

	return func(c *fiber.Ctx) error {
		header := c.Get(fiber.HeaderAuthorization)
		if header == "" {
			return fiber.NewError(fiber.StatusUnauthorized, "missing authorization header")
		}

		tokenStr, ok := strings.CutPrefix(header, "Bearer ")
		if !ok {
			return fiber.NewError(fiber.StatusUnauthorized, "authorization header must use the Bearer scheme")
		}

		token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (any, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
			}
			return key, nil
		})
		if err != nil || !token.Valid {
			return fiber.NewError(fiber.StatusUnauthorized, "invalid or expired token")
		}

		if claims, ok := token.Claims.(jwt.MapClaims); ok {
			if sub, _ := claims["sub"].(string); sub != "" {
				c.Locals(UserIDLocalKey, sub)
			}
			if username, _ := claims["username"].(string); username != "" {
				c.Locals(UsernameLocalKey, username)
			}
			if role, _ := claims["role"].(string); role != "" {
				c.Locals(RoleLocalKey, role)
			}
		}

		return c.Next()
	}
}

// RequireAdmin rejects requests whose token does not carry the admin role.
// It must run after RequireAuth, which populates the role local.
func RequireAdmin() fiber.Handler {
	return func(c *fiber.Ctx) error {
		role, _ := c.Locals(RoleLocalKey).(string)
		if role != "admin" {
			return fiber.NewError(fiber.StatusForbidden, "admin privileges required")
		}
		return c.Next()
	}
}
