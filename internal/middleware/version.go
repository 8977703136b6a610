package middleware

import (
	"github.com/gofiber/fiber/v2"
)

// VersionMiddleware resolves the X-Api-Version header the mobile app sends
// and stores it in request locals for handlers that need to branch on it.
func VersionMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		apiVersion := c.Get("X-Api-Version", "1.0.0")

		// Short form sent by older app builds
		if apiVersion == "1.0" {
			apiVersion = "1.0.0"
		}

		c.Locals("apiVersion", apiVersion)

		return c.Next()
	}
}
