package gateway

import (
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"
)

// AuthMiddleware is a JWT authorization middleware. It stores the verified
// claims in locals for handlers to pick up; the role check itself lives in
// RequireRole so issuance and authorization stay separate concerns.
func (j *JWTAuth) AuthMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		header := strings.TrimSpace(c.Get("Authorization"))
		if header == "" {
			return c.Status(http.StatusUnauthorized).JSON(fiber.Map{
				"code": "unauthorized", "message": "empty header was sent",
			})
		}
		token := header
		if parts := strings.SplitN(header, " ", 2); len(parts) == 2 && strings.EqualFold(parts[0], "bearer") {
			token = strings.TrimSpace(parts[1])
		}

		claims, err := j.VerifyJWT(token)
		if err != nil {
			return c.Status(http.StatusUnauthorized).JSON(fiber.Map{
				"code": "jwt_invalid", "message": "invalid or expired token",
			})
		}
		c.Locals("auth_id", claims.ID)
		c.Locals("auth_email", claims.Email)
		c.Locals("auth_role", claims.Role)
		return c.Next()
	}
}

// RequireRole guards a route group to tokens carrying the given role tag.
// It must run after AuthMiddleware.
func RequireRole(role string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if got := AuthRole(c); got != role {
			return c.Status(http.StatusForbidden).JSON(fiber.Map{
				"code": "forbidden", "message": "insufficient role",
			})
		}
		return c.Next()
	}
}

// AuthID returns the authenticated account id set by AuthMiddleware.
func AuthID(c *fiber.Ctx) string {
	if v := c.Locals("auth_id"); v != nil {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

// AuthRole returns the authenticated role tag set by AuthMiddleware.
func AuthRole(c *fiber.Ctx) string {
	if v := c.Locals("auth_role"); v != nil {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}
