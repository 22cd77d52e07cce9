package route

import (
	"github.com/gofiber/fiber/v2"

	leaderboardController "englishku_backend/internals/features/progress/leaderboard/controller"
	"englishku_backend/internals/features/progress/leaderboard/service"
)

func LeaderboardUserRoutes(router fiber.Router, board service.Board, names leaderboardController.NameLookup) {
	ctrl := leaderboardController.NewLeaderboardController(board, names)
	router.Get("/leaderboard/:board", ctrl.Get)
}
