package route

import (
	"github.com/gofiber/fiber/v2"

	finalController "englishku_backend/internals/features/exams/final/controller"
	"englishku_backend/internals/features/exams/final/service"
	storage "englishku_backend/internals/helpers/oss"
)

func FinalExamUserRoutes(router fiber.Router, final *service.Service, tr finalController.Transcriber, recordings storage.Storage) {
	ctrl := finalController.NewFinalExamController(final, tr, recordings)

	g := router.Group("/exams/final/attempts")
	g.Post("/", ctrl.Start)
	g.Get("/current", ctrl.Current)
	g.Post("/:id/sections/:type", ctrl.Submit)
}
