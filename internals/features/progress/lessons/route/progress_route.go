package route

import (
	"github.com/gofiber/fiber/v2"

	exams "englishku_backend/internals/features/exams/exams/service"
	progressController "englishku_backend/internals/features/progress/lessons/controller"
	"englishku_backend/internals/features/progress/lessons/service"
)

func ProgressUserRoutes(router fiber.Router, progress *service.Service, examStore exams.Store) {
	ctrl := progressController.NewProgressController(progress, examStore)

	g := router.Group("/progress")
	g.Get("/", ctrl.Get)
	g.Post("/lessons", ctrl.MarkLesson)
	g.Get("/chapters/:chapter_id/exam", ctrl.ChapterExam)
	g.Post("/chapters/:chapter_id/exam", ctrl.SubmitChapterExam)
	g.Post("/chapters/:chapter_id/complete", ctrl.CompleteChapter)
}
