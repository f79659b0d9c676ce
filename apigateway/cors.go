package gateway

import (
	"net/http"

	"github.com/gofiber/fiber/v2"
)

// Cors answers preflight requests and attaches the allow headers. An empty
// origin config allows everything, matching the browser-facing deployment.
func Cors(origin string) fiber.Handler {
	if origin == "" {
		origin = "*"
	}
	return func(c *fiber.Ctx) error {
		c.Set("Access-Control-Allow-Origin", origin)
		if c.Method() != fiber.MethodOptions {
			return c.Next()
		}
		c.Set("Access-Control-Allow-Methods", "GET,POST,PUT,PATCH,DELETE,OPTIONS")
		c.Set("Access-Control-Allow-Headers", "authorization, origin, content-type, accept, X-Admin-Key, X-Request-ID")
		c.Set("Allow", "HEAD,GET,POST,PUT,PATCH,DELETE,OPTIONS")
		return c.SendStatus(http.StatusOK)
	}
}
