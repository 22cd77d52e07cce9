package details

import (
	"github.com/gofiber/fiber/v2"

	leaderboardRoute "englishku_backend/internals/features/progress/leaderboard/route"
	levelRoute "englishku_backend/internals/features/progress/level_rank/route"
	xpRoute "englishku_backend/internals/features/progress/xp/route"
	subscriptionRoute "englishku_backend/internals/features/subscriptions/subscription/route"
	userRoute "englishku_backend/internals/features/users/user/route"
)

// UserRoutes: profile, XP, leaderboard, levels and subscriptions.
func UserRoutes(user fiber.Router, s *Services) {
	userRoute.UserUserRoutes(user, s.Profile, s.Ledger)
	xpRoute.XPUserRoutes(user, s.Ledger)
	leaderboardRoute.LeaderboardUserRoutes(user, s.Board, s.Users)
	levelRoute.LevelRequirementUserRoute(user, s.DB)
	subscriptionRoute.SubscriptionUserRoutes(user, s.Subs)
}

func UserAdminRoutes(admin fiber.Router, s *Services) {
	levelRoute.LevelRequirementAdminRoute(admin, s.DB)
}

// SubscriptionPublicRoutes mounts the plan list and the payment webhook,
// neither of which carries a JWT.
func SubscriptionPublicRoutes(public, api fiber.Router, s *Services) {
	subscriptionRoute.SubscriptionPublicRoutes(public, api, s.Subs)
}
