package model

import (
	"time"

	"github.com/google/uuid"
)

// UserDailyActivity is one row per (user, calendar day) on which the user
// earned XP. The row count is the "active days" stat.
type UserDailyActivity struct {
	UserDailyActivityID           uint      `gorm:"column:user_daily_activity_id;primaryKey" json:"user_daily_activity_id"`
	UserDailyActivityUserID       uuid.UUID `gorm:"column:user_daily_activity_user_id;type:uuid;not null;uniqueIndex:idx_user_activity_date,priority:1" json:"user_daily_activity_user_id"`
	UserDailyActivityActivityDate string    `gorm:"column:user_daily_activity_activity_date;type:date;not null;uniqueIndex:idx_user_activity_date,priority:2" json:"user_daily_activity_activity_date"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

func (UserDailyActivity) TableName() string {
	return "user_daily_activities"
}
