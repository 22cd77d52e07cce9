package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"englishku_backend/internals/constants"
	"englishku_backend/internals/features/subscriptions/payments"
	"englishku_backend/internals/features/subscriptions/subscription/model"
	"englishku_backend/internals/features/subscriptions/subscription/repository"
	usermodel "englishku_backend/internals/features/users/user/model"
	userrepo "englishku_backend/internals/features/users/user/repository"
	"englishku_backend/internals/helpers/dbtime"
)

var testNow = time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)

type fixture struct {
	svc   *Service
	users *userrepo.MemoryRepository
	repo  *repository.MemoryRepository
	gw    *payments.FakeGateway
	user  uuid.UUID
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	u := &usermodel.UserModel{UserID: uuid.New(), UserEmail: "learner@example.com", UserDisplayName: "Learner"}
	users := userrepo.NewMemoryRepository(u)
	repo := repository.NewMemoryRepository(users)
	gw := payments.NewFakeGateway("secret")
	svc := NewService(repo, users, gw)
	svc.Clock = dbtime.FixedClock(testNow)
	return &fixture{svc: svc, users: users, repo: repo, gw: gw, user: u.UserID}
}

func TestActivate(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	sub, err := f.svc.Activate(ctx, f.user, ActivateInput{Plan: constants.PlanBasic})
	require.NoError(t, err)
	assert.Equal(t, constants.SubscriptionActive, sub.SubscriptionStatus)
	assert.Equal(t, testNow, sub.SubscriptionStartDate)
	assert.Equal(t, testNow.AddDate(0, 0, 30), sub.SubscriptionEndDate)
	assert.Equal(t, int64(99), sub.SubscriptionAmount)
	require.NotNil(t, sub.SubscriptionFeatures.Data().MaxChapters)
	assert.Equal(t, 5, *sub.SubscriptionFeatures.Data().MaxChapters)

	u, err := f.users.Get(ctx, f.user)
	require.NoError(t, err)
	require.NotNil(t, u.UserPlan)
	assert.Equal(t, constants.PlanBasic, *u.UserPlan)
	assert.Equal(t, constants.PlanBasic, u.ActivePlan(testNow))
	require.NotNil(t, u.UserPlanExpiresAt)
	assert.True(t, u.UserPlanExpiresAt.Equal(testNow.AddDate(0, 0, 30)))

	_, err = f.svc.Activate(ctx, f.user, ActivateInput{Plan: constants.PlanBasic})
	assert.ErrorIs(t, err, ErrPlanAlreadyActive)

	// upgrading is allowed and replaces the row whole
	sub, err = f.svc.Activate(ctx, f.user, ActivateInput{Plan: constants.PlanPro})
	require.NoError(t, err)
	assert.Nil(t, sub.SubscriptionFeatures.Data().MaxChapters)
	assert.Equal(t, int64(999), sub.SubscriptionAmount)

	_, err = f.svc.Activate(ctx, f.user, ActivateInput{Plan: "gold"})
	assert.ErrorIs(t, err, ErrUnknownPlan)
	_, err = f.svc.Activate(ctx, uuid.Nil, ActivateInput{Plan: constants.PlanPro})
	assert.ErrorIs(t, err, ErrMissingUser)
}

func TestActivateAfterExpiry(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	_, err := f.svc.Activate(ctx, f.user, ActivateInput{Plan: constants.PlanBasic})
	require.NoError(t, err)

	f.svc.Clock = dbtime.FixedClock(testNow.AddDate(0, 0, 31))
	sub, err := f.svc.Activate(ctx, f.user, ActivateInput{Plan: constants.PlanBasic})
	require.NoError(t, err, "same plan may be bought again once it has run out")
	assert.Equal(t, testNow.AddDate(0, 0, 61), sub.SubscriptionEndDate)
}

func TestVerifyAndActivate(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	order, err := f.svc.CreateOrder(ctx, f.user, constants.PlanPro)
	require.NoError(t, err)
	require.Len(t, f.gw.Orders, 1)
	assert.Equal(t, int64(999), f.gw.Orders[0].Amount)
	assert.Equal(t, "learner@example.com", f.gw.Orders[0].Email)

	sig := payments.Sign(order.OrderID, "pay_1", "secret")

	_, err = f.svc.VerifyAndActivate(ctx, f.user, VerifyInput{OrderID: order.OrderID, PaymentID: "pay_1"})
	assert.ErrorIs(t, err, payments.ErrMissingFields)

	_, err = f.svc.VerifyAndActivate(ctx, f.user, VerifyInput{OrderID: order.OrderID, PaymentID: "pay_1", Signature: "forged"})
	assert.ErrorIs(t, err, payments.ErrInvalidSignature)

	_, err = f.svc.VerifyAndActivate(ctx, uuid.New(), VerifyInput{OrderID: order.OrderID, PaymentID: "pay_1", Signature: sig})
	assert.ErrorIs(t, err, ErrOrderNotYours)

	_, err = f.svc.VerifyAndActivate(ctx, f.user, VerifyInput{OrderID: order.OrderID, PaymentID: "pay_1", Signature: sig, Plan: constants.PlanBasic})
	assert.ErrorIs(t, err, ErrPlanMismatch)

	f.gw.Statuses["pay_1"] = "authorized"
	_, err = f.svc.VerifyAndActivate(ctx, f.user, VerifyInput{OrderID: order.OrderID, PaymentID: "pay_1", Signature: sig})
	assert.ErrorIs(t, err, ErrPaymentNotCaptured)
	_, err = f.repo.Get(ctx, f.user)
	assert.ErrorIs(t, err, repository.ErrSubscriptionNotFound, "nothing activated yet")

	f.gw.Statuses["pay_1"] = payments.StatusCaptured
	sub, err := f.svc.VerifyAndActivate(ctx, f.user, VerifyInput{OrderID: order.OrderID, PaymentID: "pay_1", Signature: sig})
	require.NoError(t, err)
	assert.Equal(t, constants.PlanPro, sub.SubscriptionPlan)
	assert.Equal(t, "pay_1", sub.SubscriptionPaymentID)
	assert.Equal(t, "fake", sub.SubscriptionProvider)

	stored, err := f.repo.GetOrder(ctx, order.OrderID)
	require.NoError(t, err)
	assert.Equal(t, model.OrderPaid, stored.SubscriptionOrderStatus)

	_, err = f.svc.VerifyAndActivate(ctx, f.user, VerifyInput{OrderID: order.OrderID, PaymentID: "pay_1", Signature: sig})
	assert.ErrorIs(t, err, repository.ErrOrderAlreadyPaid, "replaying the callback does not extend the plan")
}

func TestVerifyReplayAfterExpiry(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	order, err := f.svc.CreateOrder(ctx, f.user, constants.PlanBasic)
	require.NoError(t, err)
	in := VerifyInput{OrderID: order.OrderID, PaymentID: "pay_1", Signature: payments.Sign(order.OrderID, "pay_1", "secret")}
	first, err := f.svc.VerifyAndActivate(ctx, f.user, in)
	require.NoError(t, err)

	f.svc.Clock = dbtime.FixedClock(testNow.AddDate(0, 0, 31))
	_, err = f.svc.VerifyAndActivate(ctx, f.user, in)
	assert.ErrorIs(t, err, repository.ErrOrderAlreadyPaid)

	sub, err := f.svc.Current(ctx, f.user)
	require.NoError(t, err)
	assert.Equal(t, first.SubscriptionEndDate, sub.SubscriptionEndDate)
}

func TestVerifyOldOrderDoesNotDowngrade(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	basic, err := f.svc.CreateOrder(ctx, f.user, constants.PlanBasic)
	require.NoError(t, err)
	basicIn := VerifyInput{OrderID: basic.OrderID, PaymentID: "pay_b", Signature: payments.Sign(basic.OrderID, "pay_b", "secret")}
	_, err = f.svc.VerifyAndActivate(ctx, f.user, basicIn)
	require.NoError(t, err)

	pro, err := f.svc.CreateOrder(ctx, f.user, constants.PlanPro)
	require.NoError(t, err)
	_, err = f.svc.VerifyAndActivate(ctx, f.user, VerifyInput{
		OrderID: pro.OrderID, PaymentID: "pay_p", Signature: payments.Sign(pro.OrderID, "pay_p", "secret"),
	})
	require.NoError(t, err)

	_, err = f.svc.VerifyAndActivate(ctx, f.user, basicIn)
	assert.ErrorIs(t, err, repository.ErrOrderAlreadyPaid)
	sub, err := f.svc.Current(ctx, f.user)
	require.NoError(t, err)
	assert.Equal(t, constants.PlanPro, sub.SubscriptionPlan)
}

// orderOnlyGateway accepts callbacks that carry just the order id, the way
// Midtrans Snap does.
type orderOnlyGateway struct {
	*payments.FakeGateway
}

func (orderOnlyGateway) VerifyCallback(orderID, _, _ string) error {
	if orderID == "" {
		return payments.ErrMissingFields
	}
	return nil
}

func TestVerifyWithOrderIDOnly(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.svc.Gateway = orderOnlyGateway{f.gw}

	order, err := f.svc.CreateOrder(ctx, f.user, constants.PlanBasic)
	require.NoError(t, err)

	_, err = f.svc.VerifyAndActivate(ctx, f.user, VerifyInput{})
	assert.ErrorIs(t, err, payments.ErrMissingFields)

	sub, err := f.svc.VerifyAndActivate(ctx, f.user, VerifyInput{OrderID: order.OrderID})
	require.NoError(t, err)
	assert.Equal(t, constants.PlanBasic, sub.SubscriptionPlan)
}

func newMidtransFixture(t *testing.T) (*fixture, *payments.MidtransGateway) {
	t.Helper()
	f := newFixture(t)
	mt := &payments.MidtransGateway{ServerKey: "server-key"}
	f.svc.Gateway = mt
	require.NoError(t, f.repo.CreateOrder(context.Background(), &model.SubscriptionOrderModel{
		SubscriptionOrderID:       "mt-order-1",
		SubscriptionOrderUserID:   f.user,
		SubscriptionOrderPlan:     constants.PlanPro,
		SubscriptionOrderAmount:   999,
		SubscriptionOrderCurrency: "INR",
		SubscriptionOrderProvider: payments.ProviderMidtrans,
		SubscriptionOrderStatus:   model.OrderCreated,
	}))
	return f, mt
}

func signed(orderID, status string, mt *payments.MidtransGateway) payments.Notification {
	n := payments.Notification{
		OrderID:           orderID,
		StatusCode:        "200",
		GrossAmount:       "999.00",
		TransactionStatus: status,
		TransactionID:     "tx-" + orderID,
	}
	n.SignatureKey = payments.NotificationSignature(n, mt.ServerKey)
	return n
}

func TestHandleNotification(t *testing.T) {
	ctx := context.Background()

	t.Run("bad signature", func(t *testing.T) {
		f, mt := newMidtransFixture(t)
		n := signed("mt-order-1", "settlement", mt)
		n.SignatureKey = "deadbeef"
		_, err := f.svc.HandleNotification(ctx, n)
		assert.ErrorIs(t, err, payments.ErrInvalidSignature)
		_, err = f.repo.Get(ctx, f.user)
		assert.ErrorIs(t, err, repository.ErrSubscriptionNotFound)
	})

	t.Run("pending status is ignored", func(t *testing.T) {
		f, mt := newMidtransFixture(t)
		ok, err := f.svc.HandleNotification(ctx, signed("mt-order-1", "pending", mt))
		require.NoError(t, err)
		assert.False(t, ok)
		_, err = f.repo.Get(ctx, f.user)
		assert.ErrorIs(t, err, repository.ErrSubscriptionNotFound)
	})

	t.Run("unknown order is acknowledged", func(t *testing.T) {
		f, mt := newMidtransFixture(t)
		ok, err := f.svc.HandleNotification(ctx, signed("mt-missing", "settlement", mt))
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("settlement activates once", func(t *testing.T) {
		f, mt := newMidtransFixture(t)
		ok, err := f.svc.HandleNotification(ctx, signed("mt-order-1", "settlement", mt))
		require.NoError(t, err)
		assert.True(t, ok)

		sub, err := f.svc.Current(ctx, f.user)
		require.NoError(t, err)
		assert.Equal(t, constants.PlanPro, sub.SubscriptionPlan)
		assert.Equal(t, payments.ProviderMidtrans, sub.SubscriptionProvider)
		assert.Equal(t, "tx-mt-order-1", sub.SubscriptionPaymentID)
		order, err := f.repo.GetOrder(ctx, "mt-order-1")
		require.NoError(t, err)
		assert.Equal(t, model.OrderPaid, order.SubscriptionOrderStatus)

		f.svc.Clock = dbtime.FixedClock(testNow.AddDate(0, 0, 31))
		ok, err = f.svc.HandleNotification(ctx, signed("mt-order-1", "settlement", mt))
		require.NoError(t, err)
		assert.False(t, ok, "replayed webhook is a no-op")
		again, err := f.svc.Current(ctx, f.user)
		require.NoError(t, err)
		assert.Equal(t, sub.SubscriptionEndDate, again.SubscriptionEndDate)
	})
}

func TestVerifyGatewayFailure(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	order, err := f.svc.CreateOrder(ctx, f.user, constants.PlanBasic)
	require.NoError(t, err)

	f.gw.Err = errors.New("connection reset")
	_, err = f.svc.VerifyAndActivate(ctx, f.user, VerifyInput{
		OrderID: order.OrderID, PaymentID: "pay_9", Signature: payments.Sign(order.OrderID, "pay_9", "secret"),
	})
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrPaymentNotCaptured)
}

func TestCreateOrderValidation(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	_, err := f.svc.CreateOrder(ctx, f.user, "gold")
	assert.ErrorIs(t, err, ErrUnknownPlan)

	f.svc.Gateway = nil
	_, err = f.svc.CreateOrder(ctx, f.user, constants.PlanBasic)
	assert.ErrorIs(t, err, ErrPaymentsDisabled)
}

func TestExpireDue(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	_, err := f.svc.Activate(ctx, f.user, ActivateInput{Plan: constants.PlanBasic})
	require.NoError(t, err)

	n, err := f.svc.ExpireDue(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)

	f.svc.Clock = dbtime.FixedClock(testNow.AddDate(0, 0, 30).Add(time.Minute))
	n, err = f.svc.ExpireDue(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	sub, err := f.svc.Current(ctx, f.user)
	require.NoError(t, err)
	assert.Equal(t, constants.SubscriptionExpired, sub.SubscriptionStatus)

	u, err := f.users.Get(ctx, f.user)
	require.NoError(t, err)
	require.NotNil(t, u.UserSubscriptionStatus)
	assert.Equal(t, constants.SubscriptionExpired, *u.UserSubscriptionStatus)
	assert.Empty(t, u.ActivePlan(f.svc.Clock()))
}
