package routes

import (
	"os"
	"time"

	"github.com/gofiber/fiber/v2"

	routeDetails "englishku_backend/internals/route/details"
)

func BaseRoutes(app *fiber.App, s *routeDetails.Services) {
	app.Get("/", func(c *fiber.Ctx) error {
		return c.SendString("Englishku API is running 🚀")
	})

	// Optional integrations are reported but never fail the check.
	app.Get("/health", func(c *fiber.Ctx) error {
		dbStatus := "Connected"
		serverStatus := "OK"
		httpStatus := fiber.StatusOK

		sqlDB, err := s.DB.DB()
		if err != nil || sqlDB.PingContext(c.UserContext()) != nil {
			dbStatus = "Database connection error"
			serverStatus = "DOWN"
			httpStatus = fiber.StatusServiceUnavailable
		}

		return c.Status(httpStatus).JSON(fiber.Map{
			"status":         serverStatus,
			"database":       dbStatus,
			"integrations":   s.Integrations(),
			"server_time":    time.Now().Format(time.RFC3339),
			"uptime_seconds": int(time.Since(startTime).Seconds()),
			"environment":    os.Getenv("RAILWAY_ENVIRONMENT"),
		})
	})
}
