package route

import (
	"github.com/gofiber/fiber/v2"

	"englishku_backend/internals/features/users/auth/controller"
	"englishku_backend/internals/features/users/auth/service"
	rateLimiter "englishku_backend/internals/middlewares"
)

// AuthRoutes mounts /api/auth. protect is the JWT middleware; logout needs
// the verified token it stores in Locals.
func AuthRoutes(app *fiber.App, auth *service.Service, protect fiber.Handler) {
	authController := controller.NewAuthController(auth)

	baseAuth := app.Group("/api/auth")
	baseAuth.Post("/google", rateLimiter.LoginRateLimiter(), authController.LoginGoogle)
	baseAuth.Post("/logout", protect, authController.Logout)
}
