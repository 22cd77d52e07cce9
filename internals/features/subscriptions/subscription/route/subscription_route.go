package route

import (
	"github.com/gofiber/fiber/v2"

	subscriptionController "englishku_backend/internals/features/subscriptions/subscription/controller"
	"englishku_backend/internals/features/subscriptions/subscription/service"
)

// SubscriptionPublicRoutes mounts the price list and the gateway webhook;
// neither carries a user token.
func SubscriptionPublicRoutes(public fiber.Router, api fiber.Router, subs *service.Service) {
	ctrl := subscriptionController.NewSubscriptionController(subs)

	public.Get("/plans", ctrl.Plans)
	api.Post("/payments/midtrans/notification", ctrl.MidtransNotification)
}

func SubscriptionUserRoutes(router fiber.Router, subs *service.Service) {
	ctrl := subscriptionController.NewSubscriptionController(subs)

	g := router.Group("/subscription")
	g.Get("/", ctrl.Current)
	g.Post("/orders", ctrl.CreateOrder)
	g.Post("/verify", ctrl.Verify)
}
