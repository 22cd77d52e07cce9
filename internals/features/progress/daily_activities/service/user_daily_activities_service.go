package service

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"englishku_backend/internals/features/progress/daily_activities/model"
)

// Recorder logs active days.
type Recorder interface {
	RecordActiveDay(ctx context.Context, userID uuid.UUID, day string) error
	CountActiveDays(ctx context.Context, userID uuid.UUID) (int64, error)
}

type Store struct {
	DB *gorm.DB
}

func NewStore(db *gorm.DB) *Store { return &Store{DB: db} }

// RecordActiveDay inserts (user, day) once; repeats are ignored.
func (s *Store) RecordActiveDay(ctx context.Context, userID uuid.UUID, day string) error {
	row := model.UserDailyActivity{
		UserDailyActivityUserID:       userID,
		UserDailyActivityActivityDate: day,
	}
	return s.DB.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{
				{Name: "user_daily_activity_user_id"},
				{Name: "user_daily_activity_activity_date"},
			},
			DoNothing: true,
		}).
		Create(&row).Error
}

func (s *Store) CountActiveDays(ctx context.Context, userID uuid.UUID) (int64, error) {
	var n int64
	err := s.DB.WithContext(ctx).
		Model(&model.UserDailyActivity{}).
		Where("user_daily_activity_user_id = ?", userID).
		Count(&n).Error
	return n, err
}
