package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"englishku_backend/internals/constants"
	levelController "englishku_backend/internals/features/progress/level_rank/controller"
	authMiddleware "englishku_backend/internals/middlewares/auth"
)

func LevelRequirementAdminRoute(router fiber.Router, db *gorm.DB) {
	levelCtrl := levelController.NewLevelRequirementController(db)

	levelRoutes := router.Group("/level-requirements",
		authMiddleware.OnlyRoles(constants.RoleErrorAdmin("level requirements"), constants.AdminOnly...),
	)
	levelRoutes.Post("/", levelCtrl.Create)
	levelRoutes.Put("/:id", levelCtrl.Update)
	levelRoutes.Delete("/:id", levelCtrl.Delete)
}
