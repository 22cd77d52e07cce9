package route

import (
	"github.com/gofiber/fiber/v2"

	"englishku_backend/internals/constants"
	examController "englishku_backend/internals/features/exams/exams/controller"
	"englishku_backend/internals/features/exams/exams/service"
	authMiddleware "englishku_backend/internals/middlewares/auth"
)

func ExamAdminRoutes(router fiber.Router, store *service.GormStore) {
	ctrl := examController.NewExamAdminController(store)

	exams := router.Group("/exams",
		authMiddleware.OnlyRoles(constants.RoleErrorAdmin("exams"), constants.AdminOnly...),
	)
	exams.Post("/", ctrl.Create)
	exams.Put("/:id", ctrl.Update)
	exams.Delete("/:id", ctrl.Delete)
}
