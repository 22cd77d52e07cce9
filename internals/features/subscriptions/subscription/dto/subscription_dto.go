package dto

import (
	"time"

	"englishku_backend/internals/constants"
	"englishku_backend/internals/features/subscriptions/subscription/model"
)

type CreateOrderRequest struct {
	Plan string `json:"plan" validate:"required,oneof=basic pro"`
}

// VerifyPaymentRequest accepts the checkout callback fields. Required-ness
// is checked by the service so missing fields answer 400, not 422.
type VerifyPaymentRequest struct {
	OrderID   string `json:"order_id"`
	PaymentID string `json:"payment_id"`
	Signature string `json:"signature"`
	Plan      string `json:"plan" validate:"omitempty,oneof=basic pro"`
}

type SubscriptionResponse struct {
	Plan      string         `json:"plan"`
	Status    string         `json:"status"`
	Amount    int64          `json:"amount"`
	Currency  string         `json:"currency"`
	StartDate time.Time      `json:"start_date"`
	EndDate   time.Time      `json:"end_date"`
	Active    bool           `json:"active"`
	Features  model.Features `json:"features"`
	Provider  string         `json:"provider,omitempty"`
	OrderID   string         `json:"order_id,omitempty"`
	PaymentID string         `json:"payment_id,omitempty"`
}

func FromModel(m *model.SubscriptionModel, now time.Time) SubscriptionResponse {
	return SubscriptionResponse{
		Plan:      m.SubscriptionPlan,
		Status:    m.SubscriptionStatus,
		Amount:    m.SubscriptionAmount,
		Currency:  m.SubscriptionCurrency,
		StartDate: m.SubscriptionStartDate,
		EndDate:   m.SubscriptionEndDate,
		Active:    m.SubscriptionStatus == constants.SubscriptionActive && now.Before(m.SubscriptionEndDate),
		Features:  m.SubscriptionFeatures.Data(),
		Provider:  m.SubscriptionProvider,
		OrderID:   m.SubscriptionOrderID,
		PaymentID: m.SubscriptionPaymentID,
	}
}

// PlanResponse is one entry of the public price list.
type PlanResponse struct {
	constants.PlanPrice
	PeriodDays int            `json:"period_days"`
	Features   model.Features `json:"features"`
}
