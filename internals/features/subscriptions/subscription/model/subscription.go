package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Features is derived from the plan; stored so clients can read it as is.
// MaxChapters nil means unlimited.
type Features struct {
	MaxChapters       *int `json:"maxChapters"`
	UnlimitedPractice bool `json:"unlimitedPractice"`
	OfflineAccess     bool `json:"offlineAccess"`
	PrioritySupport   bool `json:"prioritySupport"`
	AITutor           bool `json:"aiTutor"`
}

// SubscriptionModel is one row per user, always written as a whole.
type SubscriptionModel struct {
	SubscriptionUserID    uuid.UUID                    `gorm:"column:subscription_user_id;type:uuid;primaryKey" json:"user_id"`
	SubscriptionPlan      string                       `gorm:"column:subscription_plan;size:20;not null" json:"plan"`
	SubscriptionAmount    int64                        `gorm:"column:subscription_amount;not null" json:"amount"`
	SubscriptionCurrency  string                       `gorm:"column:subscription_currency;size:3;not null;default:'INR'" json:"currency"`
	SubscriptionStartDate time.Time                    `gorm:"column:subscription_start_date;not null" json:"start_date"`
	SubscriptionEndDate   time.Time                    `gorm:"column:subscription_end_date;not null;index" json:"end_date"`
	SubscriptionStatus    string                       `gorm:"column:subscription_status;size:20;not null;index" json:"status"`
	SubscriptionFeatures  datatypes.JSONType[Features] `gorm:"column:subscription_features;type:jsonb" json:"features"`
	SubscriptionProvider  string                       `gorm:"column:subscription_provider;size:20" json:"provider,omitempty"`
	SubscriptionOrderID   string                       `gorm:"column:subscription_order_id;size:100" json:"order_id,omitempty"`
	SubscriptionPaymentID string                       `gorm:"column:subscription_payment_id;size:100" json:"payment_id,omitempty"`
	SubscriptionSignature string                       `gorm:"column:subscription_signature;size:255" json:"-"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (SubscriptionModel) TableName() string {
	return "subscriptions"
}

// SubscriptionOrderModel tracks orders created at the gateway so the
// verification and webhook steps can look up the plan and the user.
type SubscriptionOrderModel struct {
	SubscriptionOrderID       string     `gorm:"column:subscription_order_id;size:100;primaryKey" json:"order_id"`
	SubscriptionOrderUserID   uuid.UUID  `gorm:"column:subscription_order_user_id;type:uuid;not null;index" json:"user_id"`
	SubscriptionOrderPlan     string     `gorm:"column:subscription_order_plan;size:20;not null" json:"plan"`
	SubscriptionOrderAmount   int64      `gorm:"column:subscription_order_amount;not null" json:"amount"`
	SubscriptionOrderCurrency string     `gorm:"column:subscription_order_currency;size:3;not null" json:"currency"`
	SubscriptionOrderProvider string     `gorm:"column:subscription_order_provider;size:20;not null" json:"provider"`
	SubscriptionOrderStatus   string     `gorm:"column:subscription_order_status;size:20;not null;default:'created'" json:"status"`
	SubscriptionOrderPaidAt   *time.Time `gorm:"column:subscription_order_paid_at" json:"paid_at,omitempty"`
	CreatedAt                 time.Time  `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt                 time.Time  `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (SubscriptionOrderModel) TableName() string {
	return "subscription_orders"
}

const (
	OrderCreated = "created"
	OrderPaid    = "paid"
)
