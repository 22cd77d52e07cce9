package route

import (
	"github.com/gofiber/fiber/v2"

	evaluationController "englishku_backend/internals/features/ai/evaluation/controller"
	"englishku_backend/internals/features/ai/evaluation/service"
	"englishku_backend/internals/middlewares"
)

func EvaluationUserRoutes(router fiber.Router, eval *service.Evaluator) {
	ctrl := evaluationController.NewEvaluationController(eval)

	ai := router.Group("/ai", middlewares.AIRateLimiter())
	ai.Post("/transcribe", ctrl.Transcribe)
	ai.Post("/evaluate/writing", ctrl.Writing)
	ai.Post("/evaluate/speaking", ctrl.Speaking)
}
