package route

import (
	"github.com/gofiber/fiber/v2"

	practiceController "englishku_backend/internals/features/exams/practice/controller"
	"englishku_backend/internals/features/exams/practice/service"
	storage "englishku_backend/internals/helpers/oss"
)

func PracticeUserRoutes(router fiber.Router, practice *service.Service, tr practiceController.Transcriber, recordings storage.Storage) {
	ctrl := practiceController.NewPracticeController(practice, tr, recordings)

	g := router.Group("/exams/practice")
	g.Get("/:type", ctrl.Get)
	g.Post("/:type/submit", ctrl.Submit)
}
