package route

import (
	"github.com/gofiber/fiber/v2"

	xpController "englishku_backend/internals/features/progress/xp/controller"
	"englishku_backend/internals/features/progress/xp/service"
)

func XPUserRoutes(router fiber.Router, ledger *service.Ledger) {
	ctrl := xpController.NewXPController(ledger)

	xp := router.Group("/xp")
	xp.Post("/grants", ctrl.Grant)
	xp.Get("/history", ctrl.History)
}
