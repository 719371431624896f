package middleware

import (
	"usermanagement/internal/services"

	"github.com/gofiber/fiber/v2"
)

// ClientIP stores the caller's address in the request's user context so that
// services can attach it to activity records.
func ClientIP() fiber.Handler {
	return func(c *fiber.Ctx) error {
		c.SetUserContext(services.WithClientIP(c.UserContext(), c.IP()))
		return c.Next()
	}
}
