package details

import (
	"github.com/gofiber/fiber/v2"

	authRoute "englishku_backend/internals/features/users/auth/route"
)

func AuthRoutes(app *fiber.App, s *Services, protect fiber.Handler) {
	authRoute.AuthRoutes(app, s.Auth, protect)
}
