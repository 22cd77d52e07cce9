package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"englishku_backend/internals/constants"
)

// XPDay is one calendar day of the XP history: the total earned that day and
// the amount recorded per activity label. A label present in Source means
// that activity was already rewarded today.
type XPDay struct {
	Earned int            `json:"earned"`
	Source map[string]int `json:"source"`
}

// XPHistory is keyed by YYYY-MM-DD in the app timezone.
type XPHistory map[string]XPDay

// UserModel is the users table: profile, XP ledger, streak and the plan
// fields denormalised from the subscription.
type UserModel struct {
	UserID          uuid.UUID `gorm:"column:user_id;type:uuid;default:gen_random_uuid();primaryKey" json:"user_id"`
	UserEmail       string    `gorm:"column:user_email;size:255;uniqueIndex;not null" json:"user_email"`
	UserDisplayName string    `gorm:"column:user_display_name;size:100" json:"user_display_name"`
	UserPhotoURL    *string   `gorm:"column:user_photo_url" json:"user_photo_url,omitempty"`
	UserGoogleID    *string   `gorm:"column:user_google_id;size:255;uniqueIndex" json:"-"`
	UserRole        string    `gorm:"column:user_role;type:varchar(20);not null;default:'user'" json:"user_role"`
	UserIsActive    bool      `gorm:"column:user_is_active;not null;default:true" json:"user_is_active"`

	// onboarding
	UserNativeLanguage *string `gorm:"column:user_native_language;size:50" json:"user_native_language,omitempty"`
	UserMotivation     *string `gorm:"column:user_motivation;size:255" json:"user_motivation,omitempty"`
	UserEnglishLevel   *string `gorm:"column:user_english_level;size:30" json:"user_english_level,omitempty"`

	// XP ledger
	UserAvailableXP int                           `gorm:"column:user_available_xp;not null;default:0;check:user_available_xp >= 0" json:"user_available_xp"`
	UserTotalXP     int                           `gorm:"column:user_total_xp;not null;default:0;check:user_total_xp >= 0" json:"user_total_xp"`
	UserXPHistory   datatypes.JSONType[XPHistory] `gorm:"column:user_xp_history;type:jsonb" json:"user_xp_history"`
	UserLevel       int                           `gorm:"column:user_level;not null;default:1" json:"user_level"`

	// streak and login bonus (day keys)
	UserStreak           int        `gorm:"column:user_streak;not null;default:0" json:"user_streak"`
	UserLastStreakUpdate string     `gorm:"column:user_last_streak_update;size:10" json:"user_last_streak_update,omitempty"`
	UserLastLoginXPDate  string     `gorm:"column:user_last_login_xp_date;size:10" json:"user_last_login_xp_date,omitempty"`
	UserLastLoginAt      *time.Time `gorm:"column:user_last_login_at" json:"user_last_login_at,omitempty"`

	// minutes studied today
	UserMinutesToday int    `gorm:"column:user_minutes_today;not null;default:0" json:"user_minutes_today"`
	UserMinutesDate  string `gorm:"column:user_minutes_date;size:10" json:"user_minutes_date,omitempty"`
	UserDailyGoal    int    `gorm:"column:user_daily_goal;not null;default:5" json:"user_daily_goal"`

	// copied from subscriptions on activation / expiry
	UserPlan               *string    `gorm:"column:user_plan;size:20" json:"user_plan,omitempty"`
	UserPlanExpiresAt      *time.Time `gorm:"column:user_plan_expires_at" json:"user_plan_expires_at,omitempty"`
	UserSubscriptionStatus *string    `gorm:"column:user_subscription_status;size:20" json:"user_subscription_status,omitempty"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (UserModel) TableName() string {
	return "users"
}

// History returns the XP history, never nil. Mutating the returned map
// mutates the record.
func (u *UserModel) History() XPHistory {
	h := u.UserXPHistory.Data()
	if h == nil {
		h = XPHistory{}
		u.UserXPHistory = datatypes.NewJSONType(h)
	}
	return h
}

// EarnedOn is the XP earned on the given day key.
func (u *UserModel) EarnedOn(day string) int {
	return u.UserXPHistory.Data()[day].Earned
}

// ActivePlan is the user's plan, or "" when none or expired at now.
func (u *UserModel) ActivePlan(now time.Time) string {
	if u.UserPlan == nil || *u.UserPlan == "" {
		return ""
	}
	if u.UserSubscriptionStatus != nil && *u.UserSubscriptionStatus != constants.SubscriptionActive {
		return ""
	}
	if u.UserPlanExpiresAt != nil && !now.Before(*u.UserPlanExpiresAt) {
		return ""
	}
	return *u.UserPlan
}
