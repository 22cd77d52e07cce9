package details

import (
	"github.com/gofiber/fiber/v2"

	chatRoute "englishku_backend/internals/features/ai/chat/route"
	evaluationRoute "englishku_backend/internals/features/ai/evaluation/route"
)

func AIUserRoutes(user fiber.Router, s *Services) {
	chatRoute.ChatUserRoutes(user, s.Chat, s.Evaluator)
	evaluationRoute.EvaluationUserRoutes(user, s.Evaluator)
}
