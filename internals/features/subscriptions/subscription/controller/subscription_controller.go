package controller

import (
	"errors"
	"log"
	"sort"
	"strings"

	"github.com/gofiber/fiber/v2"

	"englishku_backend/internals/constants"
	"englishku_backend/internals/features/subscriptions/payments"
	"englishku_backend/internals/features/subscriptions/subscription/dto"
	"englishku_backend/internals/features/subscriptions/subscription/repository"
	"englishku_backend/internals/features/subscriptions/subscription/service"
	userrepo "englishku_backend/internals/features/users/user/repository"
	helper "englishku_backend/internals/helpers"
)

type SubscriptionController struct {
	Subs *service.Service
}

func NewSubscriptionController(subs *service.Service) *SubscriptionController {
	return &SubscriptionController{Subs: subs}
}

// GET /api/public/plans
func (ctrl *SubscriptionController) Plans(c *fiber.Ctx) error {
	out := make([]dto.PlanResponse, 0, len(constants.Plans))
	for _, p := range constants.Plans {
		out = append(out, dto.PlanResponse{
			PlanPrice:  p,
			PeriodDays: constants.SubscriptionPeriodDays,
			Features:   service.DeriveFeatures(p.ID),
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Price < out[j].Price })
	return helper.JsonOK(c, "ok", out)
}

// GET /api/u/subscription
func (ctrl *SubscriptionController) Current(c *fiber.Ctx) error {
	userID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return err
	}
	sub, err := ctrl.Subs.Current(c.UserContext(), userID)
	if errors.Is(err, repository.ErrSubscriptionNotFound) {
		return helper.JsonOK(c, "No subscription yet", nil)
	}
	if err != nil {
		return MapError(c, err)
	}
	return helper.JsonOK(c, "ok", dto.FromModel(sub, ctrl.Subs.Clock()))
}

// POST /api/u/subscription/orders
func (ctrl *SubscriptionController) CreateOrder(c *fiber.Ctx) error {
	userID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return err
	}
	var req dto.CreateOrderRequest
	if ok, err := helper.BindAndValidate(c, &req); !ok {
		return err
	}
	order, err := ctrl.Subs.CreateOrder(c.UserContext(), userID, req.Plan)
	if err != nil {
		return MapError(c, err)
	}
	return helper.JsonCreated(c, "Order created", order)
}

// POST /api/u/subscription/verify
func (ctrl *SubscriptionController) Verify(c *fiber.Ctx) error {
	userID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return err
	}
	var req dto.VerifyPaymentRequest
	if ok, err := helper.BindAndValidate(c, &req); !ok {
		return err
	}
	sub, err := ctrl.Subs.VerifyAndActivate(c.UserContext(), userID, service.VerifyInput{
		OrderID:   strings.TrimSpace(req.OrderID),
		PaymentID: strings.TrimSpace(req.PaymentID),
		Signature: strings.TrimSpace(req.Signature),
		Plan:      req.Plan,
	})
	if err != nil {
		return MapError(c, err)
	}
	return helper.JsonOK(c, "Subscription activated", dto.FromModel(sub, ctrl.Subs.Clock()))
}

// POST /api/payments/midtrans/notification
//
// Midtrans retries anything that is not 2xx, so orders we do not know are
// acknowledged and ignored.
func (ctrl *SubscriptionController) MidtransNotification(c *fiber.Ctx) error {
	var n payments.Notification
	if err := c.BodyParser(&n); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid payload")
	}
	activated, err := ctrl.Subs.HandleNotification(c.UserContext(), n)
	switch {
	case errors.Is(err, payments.ErrInvalidSignature):
		return helper.JsonError(c, fiber.StatusUnauthorized, "Invalid signature")
	case errors.Is(err, service.ErrPaymentsDisabled):
		return helper.JsonError(c, fiber.StatusNotFound, "Midtrans is not enabled")
	case err != nil:
		log.Printf("[ERROR] midtrans notification order=%s: %v", n.OrderID, err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Notification failed")
	}
	return helper.JsonOK(c, "Notification processed", fiber.Map{
		"order_id":  n.OrderID,
		"activated": activated,
	})
}

func MapError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, service.ErrMissingUser):
		return helper.JsonError(c, fiber.StatusUnauthorized, "Please sign in again")
	case errors.Is(err, payments.ErrMissingFields):
		return helper.JsonError(c, fiber.StatusBadRequest, "Missing payment details")
	case errors.Is(err, payments.ErrInvalidSignature):
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid signature")
	case errors.Is(err, service.ErrPaymentNotCaptured):
		return helper.JsonError(c, fiber.StatusBadRequest, "Payment not captured")
	case errors.Is(err, repository.ErrOrderAlreadyPaid):
		return helper.JsonError(c, fiber.StatusConflict, "Order already paid")
	case errors.Is(err, service.ErrPlanAlreadyActive):
		return helper.JsonError(c, fiber.StatusConflict, "Plan already active")
	case errors.Is(err, service.ErrUnknownPlan), errors.Is(err, service.ErrPlanMismatch):
		return helper.JsonError(c, fiber.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrOrderNotYours):
		return helper.JsonError(c, fiber.StatusForbidden, err.Error())
	case errors.Is(err, repository.ErrOrderNotFound), errors.Is(err, userrepo.ErrUserNotFound):
		return helper.JsonError(c, fiber.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrPaymentsDisabled):
		return helper.JsonError(c, fiber.StatusServiceUnavailable, "Payments are not available right now")
	default:
		log.Println("[ERROR] subscription:", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Payment verification failed")
	}
}
