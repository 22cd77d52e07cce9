package route

import (
	"github.com/gofiber/fiber/v2"

	"englishku_backend/internals/constants"
	chapterController "englishku_backend/internals/features/content/chapters/controller"
	"englishku_backend/internals/features/content/chapters/service"
	lessons "englishku_backend/internals/features/progress/lessons/service"
	authMiddleware "englishku_backend/internals/middlewares/auth"
)

func ChapterUserRoutes(router fiber.Router, catalog *service.Catalog, progress *lessons.Service) {
	ctrl := chapterController.NewChapterController(catalog, progress)

	chapters := router.Group("/chapters")
	chapters.Get("/", ctrl.List)
	chapters.Get("/:id", ctrl.Get)
}

func ChapterAdminRoutes(router fiber.Router, catalog *service.Catalog, progress *lessons.Service) {
	ctrl := chapterController.NewChapterController(catalog, progress)

	chapters := router.Group("/chapters",
		authMiddleware.OnlyRoles(constants.RoleErrorAdmin("the chapter catalog"), constants.AdminOnly...),
	)
	chapters.Post("/", ctrl.Create)
	chapters.Put("/:id", ctrl.Update)
	chapters.Delete("/:id", ctrl.Delete)
	chapters.Put("/:id/lessons", ctrl.UpsertLesson)
	chapters.Delete("/:id/lessons/:lesson_id", ctrl.DeleteLesson)
}
