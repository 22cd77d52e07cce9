package middlewares

import (
	"github.com/gofiber/fiber/v2"

	"englishku_backend/internals/middlewares/logger"
)

// SetupMiddlewares installs the app-wide stack; order matters (recover first).
func SetupMiddlewares(app *fiber.App) {
	app.Use(RecoveryMiddleware())
	app.Use(logger.LoggerMiddleware())
	app.Use(CorsMiddleware())
}
