package middlewares

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"

	helper "englishku_backend/internals/helpers"
)

func newLimiter(max int, window time.Duration, key func(*fiber.Ctx) string, message string) fiber.Handler {
	return limiter.New(limiter.Config{
		Max:          max,
		Expiration:   window,
		KeyGenerator: key,
		LimitReached: func(c *fiber.Ctx) error {
			return helper.JsonError(c, fiber.StatusTooManyRequests, message)
		},
	})
}

func byIP(c *fiber.Ctx) string { return c.IP() }

// byUser keys on the authenticated user, falling back to IP.
func byUser(c *fiber.Ctx) string {
	if id, ok := c.Locals("user_id").(string); ok && id != "" {
		return "u:" + id
	}
	return "ip:" + c.IP()
}

// Global limiter: every regular endpoint
func GlobalRateLimiter() fiber.Handler {
	return newLimiter(100, time.Minute, byIP, "❌ Too many requests. Please try again later.")
}

// Sign-in is stricter
func LoginRateLimiter() fiber.Handler {
	return newLimiter(5, time.Minute, byIP, "❌ Too many login attempts. Please wait a moment.")
}

// AI endpoints hit a paid upstream; limit per user
func AIRateLimiter() fiber.Handler {
	return newLimiter(20, time.Minute, byUser, "❌ Too many AI requests. Slow down a little.")
}
