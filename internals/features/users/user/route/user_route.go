package routes

import (
	"github.com/gofiber/fiber/v2"

	xp "englishku_backend/internals/features/progress/xp/service"
	userController "englishku_backend/internals/features/users/user/controller"
	"englishku_backend/internals/features/users/user/service"
)

func UserUserRoutes(router fiber.Router, users *service.Service, ledger *xp.Ledger) {
	ctrl := userController.NewUserController(users, ledger)

	me := router.Group("/me")
	me.Get("/", ctrl.GetMe)
	me.Patch("/profile", ctrl.UpdateProfile)
	me.Post("/photo", ctrl.UploadPhoto)
	me.Post("/login-bonus", ctrl.LoginBonus)
	me.Post("/minutes", ctrl.AddMinutes)
	me.Get("/today", ctrl.Today)
	me.Get("/stats", ctrl.Stats)
	me.Get("/achievements", ctrl.Achievements)
	me.Get("/daily-goal", ctrl.GetDailyGoal)
	me.Patch("/daily-goal", ctrl.SetDailyGoal)
}
