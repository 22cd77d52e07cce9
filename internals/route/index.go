package routes

import (
	"context"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	rateLimiter "englishku_backend/internals/middlewares"
	authMiddleware "englishku_backend/internals/middlewares/auth"
	routeDetails "englishku_backend/internals/route/details"
)

var startTime time.Time

// SetupRoutes builds the services and mounts every route group. The
// returned Services is used by main to start the background jobs.
func SetupRoutes(ctx context.Context, app *fiber.App, db *gorm.DB) *routeDetails.Services {
	startTime = time.Now()
	s := routeDetails.NewServices(ctx, db)
	protect := authMiddleware.AuthMiddleware(db)

	BaseRoutes(app, s)

	log.Println("[INFO] Setting up AuthRoutes...")
	routeDetails.AuthRoutes(app, s, protect)

	api := app.Group("/api", rateLimiter.GlobalRateLimiter())

	// PUBLIC: no JWT
	log.Println("[INFO] Setting up PUBLIC group...")
	public := api.Group("/public")
	routeDetails.SubscriptionPublicRoutes(public, api, s)

	// PRIVATE (USER)
	log.Println("[INFO] Setting up PRIVATE group...")
	user := api.Group("/u", protect)
	routeDetails.UserRoutes(user, s)
	routeDetails.LearningUserRoutes(user, s)
	routeDetails.AIUserRoutes(user, s)

	// ADMIN: each route group checks the admin role itself
	log.Println("[INFO] Setting up ADMIN group...")
	admin := api.Group("/a", protect)
	routeDetails.UserAdminRoutes(admin, s)
	routeDetails.LearningAdminRoutes(admin, s)

	return s
}
