package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"englishku_backend/internals/constants"
	"englishku_backend/internals/features/subscriptions/payments"
	"englishku_backend/internals/features/subscriptions/subscription/model"
	"englishku_backend/internals/features/subscriptions/subscription/repository"
	usermodel "englishku_backend/internals/features/users/user/model"
	userrepo "englishku_backend/internals/features/users/user/repository"
	"englishku_backend/internals/helpers/dbtime"
)

var (
	ErrMissingUser        = errors.New("missing user")
	ErrUnknownPlan        = errors.New("unknown plan")
	ErrPlanAlreadyActive  = errors.New("plan already active")
	ErrPaymentNotCaptured = errors.New("payment not captured")
	ErrPaymentsDisabled   = errors.New("payments are not configured")
	ErrOrderNotYours      = errors.New("order belongs to another user")
	ErrPlanMismatch       = errors.New("plan does not match the order")
)

// ActivateInput records how the plan was paid for.
type ActivateInput struct {
	Plan      string
	Provider  string
	OrderID   string
	PaymentID string
	Signature string
}

// VerifyInput is what the checkout returned to the client.
type VerifyInput struct {
	OrderID   string
	PaymentID string
	Signature string
	Plan      string
}

type Service struct {
	Repo    repository.Repository
	Users   userrepo.Repository
	Gateway payments.Gateway
	Clock   dbtime.Clock
}

func NewService(repo repository.Repository, users userrepo.Repository, gw payments.Gateway) *Service {
	return &Service{Repo: repo, Users: users, Gateway: gw, Clock: dbtime.SystemClock}
}

// Current returns the stored subscription or ErrSubscriptionNotFound.
func (s *Service) Current(ctx context.Context, userID uuid.UUID) (*model.SubscriptionModel, error) {
	if userID == uuid.Nil {
		return nil, ErrMissingUser
	}
	return s.Repo.Get(ctx, userID)
}

// Activate starts a fresh 30-day period for the plan and copies plan,
// expiry and status onto the user in the same transaction. Renewing the
// plan that is still running is rejected; switching plans is not.
func (s *Service) Activate(ctx context.Context, userID uuid.UUID, in ActivateInput) (*model.SubscriptionModel, error) {
	if userID == uuid.Nil {
		return nil, ErrMissingUser
	}
	price, ok := constants.LookupPlan(in.Plan)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownPlan, in.Plan)
	}
	sub, err := s.Repo.Replace(ctx, userID, s.period(in, price, s.Clock()))
	if err != nil {
		return nil, err
	}
	log.Printf("[SUBSCRIPTION] user=%s plan=%s until=%s", userID, sub.SubscriptionPlan, sub.SubscriptionEndDate.Format(time.RFC3339))
	return sub, nil
}

// period builds the replacement row for a new 30-day period.
func (s *Service) period(in ActivateInput, price constants.PlanPrice, now time.Time) repository.ReplaceFunc {
	return func(cur *model.SubscriptionModel, u *usermodel.UserModel) (*model.SubscriptionModel, error) {
		if cur != nil &&
			cur.SubscriptionStatus == constants.SubscriptionActive &&
			cur.SubscriptionEndDate.After(now) &&
			cur.SubscriptionPlan == in.Plan {
			return nil, ErrPlanAlreadyActive
		}
		next := &model.SubscriptionModel{
			SubscriptionPlan:      in.Plan,
			SubscriptionAmount:    price.Price,
			SubscriptionCurrency:  price.Currency,
			SubscriptionStartDate: now,
			SubscriptionEndDate:   now.AddDate(0, 0, constants.SubscriptionPeriodDays),
			SubscriptionStatus:    constants.SubscriptionActive,
			SubscriptionFeatures:  datatypes.NewJSONType(DeriveFeatures(in.Plan)),
			SubscriptionProvider:  in.Provider,
			SubscriptionOrderID:   in.OrderID,
			SubscriptionPaymentID: in.PaymentID,
			SubscriptionSignature: in.Signature,
		}
		if cur != nil {
			next.CreatedAt = cur.CreatedAt
		}
		plan, status, end := next.SubscriptionPlan, next.SubscriptionStatus, next.SubscriptionEndDate
		u.UserPlan = &plan
		u.UserSubscriptionStatus = &status
		u.UserPlanExpiresAt = &end
		return next, nil
	}
}

// CreateOrder opens a gateway order for the plan and remembers it so the
// verification step can trust the plan and the owner.
func (s *Service) CreateOrder(ctx context.Context, userID uuid.UUID, plan string) (*payments.Order, error) {
	if userID == uuid.Nil {
		return nil, ErrMissingUser
	}
	if s.Gateway == nil {
		return nil, ErrPaymentsDisabled
	}
	price, ok := constants.LookupPlan(plan)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownPlan, plan)
	}
	u, err := s.Users.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	receipt := "sub-" + strings.ReplaceAll(uuid.NewString(), "-", "")[:20]
	order, err := s.Gateway.CreateOrder(ctx, payments.OrderRequest{
		Receipt:  receipt,
		Plan:     plan,
		Amount:   price.Price,
		Currency: price.Currency,
		Email:    u.UserEmail,
		Name:     u.UserDisplayName,
	})
	if err != nil {
		return nil, err
	}

	if err := s.Repo.CreateOrder(ctx, &model.SubscriptionOrderModel{
		SubscriptionOrderID:       order.OrderID,
		SubscriptionOrderUserID:   userID,
		SubscriptionOrderPlan:     plan,
		SubscriptionOrderAmount:   price.Price,
		SubscriptionOrderCurrency: price.Currency,
		SubscriptionOrderProvider: s.Gateway.Provider(),
		SubscriptionOrderStatus:   model.OrderCreated,
	}); err != nil {
		return nil, err
	}
	log.Printf("[SUBSCRIPTION] order=%s user=%s plan=%s provider=%s", order.OrderID, userID, plan, order.Provider)
	return order, nil
}

// VerifyAndActivate checks the checkout callback, confirms with the
// gateway that the payment was captured and then activates the plan.
func (s *Service) VerifyAndActivate(ctx context.Context, userID uuid.UUID, in VerifyInput) (*model.SubscriptionModel, error) {
	if userID == uuid.Nil {
		return nil, ErrMissingUser
	}
	if s.Gateway == nil {
		return nil, ErrPaymentsDisabled
	}
	// Which callback fields are required is up to the gateway.
	if err := s.Gateway.VerifyCallback(in.OrderID, in.PaymentID, in.Signature); err != nil {
		return nil, err
	}

	order, err := s.Repo.GetOrder(ctx, in.OrderID)
	if err != nil {
		return nil, err
	}
	if order.SubscriptionOrderUserID != userID {
		return nil, ErrOrderNotYours
	}
	if in.Plan != "" && in.Plan != order.SubscriptionOrderPlan {
		return nil, ErrPlanMismatch
	}
	if order.SubscriptionOrderStatus == model.OrderPaid {
		return nil, repository.ErrOrderAlreadyPaid
	}

	status, err := s.Gateway.PaymentStatus(ctx, in.OrderID, in.PaymentID)
	if err != nil {
		return nil, err
	}
	if status != payments.StatusCaptured {
		log.Printf("[SUBSCRIPTION] order=%s payment=%s status=%s", in.OrderID, in.PaymentID, status)
		return nil, ErrPaymentNotCaptured
	}

	return s.activateOrder(ctx, order, in.PaymentID, in.Signature)
}

// HandleNotification applies a Midtrans webhook. It reports whether a plan
// was activated; unknown orders and unpaid states are ignored.
func (s *Service) HandleNotification(ctx context.Context, n payments.Notification) (bool, error) {
	mt, ok := s.Gateway.(*payments.MidtransGateway)
	if !ok {
		return false, ErrPaymentsDisabled
	}
	if !mt.VerifyNotification(n) {
		return false, payments.ErrInvalidSignature
	}
	if payments.NormaliseMidtransStatus(n.TransactionStatus, n.FraudStatus) != payments.StatusCaptured {
		return false, nil
	}
	order, err := s.Repo.GetOrder(ctx, n.OrderID)
	if errors.Is(err, repository.ErrOrderNotFound) {
		log.Printf("[SUBSCRIPTION] notification for unknown order=%s", n.OrderID)
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if order.SubscriptionOrderStatus == model.OrderPaid {
		return false, nil
	}
	if _, err := s.activateOrder(ctx, order, n.TransactionID, n.SignatureKey); err != nil {
		if errors.Is(err, ErrPlanAlreadyActive) || errors.Is(err, repository.ErrOrderAlreadyPaid) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// activateOrder starts the ordered plan and marks the order paid in one
// transaction, so an order pays for at most one period.
func (s *Service) activateOrder(ctx context.Context, order *model.SubscriptionOrderModel, paymentID, signature string) (*model.SubscriptionModel, error) {
	in := ActivateInput{
		Plan:      order.SubscriptionOrderPlan,
		Provider:  order.SubscriptionOrderProvider,
		OrderID:   order.SubscriptionOrderID,
		PaymentID: paymentID,
		Signature: signature,
	}
	price, ok := constants.LookupPlan(in.Plan)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownPlan, in.Plan)
	}
	now := s.Clock()
	sub, err := s.Repo.ReplaceForOrder(ctx, order.SubscriptionOrderID, now, s.period(in, price, now))
	if err != nil {
		return nil, err
	}
	log.Printf("[SUBSCRIPTION] order=%s paid user=%s plan=%s until=%s", order.SubscriptionOrderID, order.SubscriptionOrderUserID, sub.SubscriptionPlan, sub.SubscriptionEndDate.Format(time.RFC3339))
	return sub, nil
}

// ExpireDue marks every active subscription past its end date as expired.
func (s *Service) ExpireDue(ctx context.Context) (int, error) {
	ids, err := s.Repo.ExpireDue(ctx, s.Clock())
	if err != nil {
		return 0, err
	}
	return len(ids), nil
}
