package route

import (
	"github.com/gofiber/fiber/v2"

	chatController "englishku_backend/internals/features/ai/chat/controller"
	"englishku_backend/internals/features/ai/chat/service"
	"englishku_backend/internals/middlewares"
)

func ChatUserRoutes(router fiber.Router, chat *service.Service, tr chatController.Transcriber) {
	ctrl := chatController.NewChatController(chat, tr)

	g := router.Group("/ai/chat")
	g.Post("/", middlewares.AIRateLimiter(), ctrl.Send)
	g.Post("/voice", middlewares.AIRateLimiter(), ctrl.Voice)
	g.Post("/sessions", ctrl.Start)
	g.Get("/sessions", ctrl.List)
	g.Get("/sessions/:id", ctrl.Get)
	g.Delete("/sessions/:id", ctrl.Delete)
}
