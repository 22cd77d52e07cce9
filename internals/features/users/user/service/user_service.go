package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"englishku_backend/internals/constants"
	achievements "englishku_backend/internals/features/progress/achievements/service"
	lessonmodel "englishku_backend/internals/features/progress/lessons/model"
	lessons "englishku_backend/internals/features/progress/lessons/service"
	xp "englishku_backend/internals/features/progress/xp/service"
	"englishku_backend/internals/features/users/user/dto"
	"englishku_backend/internals/features/users/user/model"
	"englishku_backend/internals/features/users/user/repository"
	"englishku_backend/internals/helpers/dbtime"
	storage "englishku_backend/internals/helpers/oss"
)

var (
	ErrPhotoUploadDisabled = errors.New("photo upload is not configured")
	ErrInvalidImage        = errors.New("unsupported image")
)

type ProgressReader interface {
	Get(ctx context.Context, userID uuid.UUID) (*lessonmodel.UserProgress, error)
}

type ActiveDayCounter interface {
	CountActiveDays(ctx context.Context, userID uuid.UUID) (int64, error)
}

// TodayCard is the dashboard summary for the current day.
type TodayCard struct {
	Date         string `json:"date"`
	MinutesToday int    `json:"minutes_today"`
	MinutesGoal  int    `json:"minutes_goal"`
	MinutesLeft  int    `json:"minutes_left"`
	Percent      int    `json:"percent"`
	XPToday      int    `json:"xp_today"`
	Streak       int    `json:"streak"`
}

type Stats struct {
	AvailableXP      int   `json:"available_xp"`
	TotalXP          int   `json:"total_xp"`
	ActiveDays       int64 `json:"active_days"`
	CompletedLessons int   `json:"completed_lessons"`
	Level            int   `json:"level"`
	Streak           int   `json:"streak"`
}

type Service struct {
	Users    repository.Repository
	Progress ProgressReader
	Activity ActiveDayCounter
	// Photos is nil when object storage is not configured.
	Photos storage.Storage
	Clock  dbtime.Clock
	Loc    *time.Location
}

func NewService(users repository.Repository, progress ProgressReader, activity ActiveDayCounter, photos storage.Storage, loc *time.Location) *Service {
	return &Service{
		Users:    users,
		Progress: progress,
		Activity: activity,
		Photos:   photos,
		Clock:    dbtime.SystemClock,
		Loc:      loc,
	}
}

func (s *Service) today() string {
	return dbtime.DayKey(s.Clock(), s.Loc)
}

func (s *Service) Profile(ctx context.Context, userID uuid.UUID) (*model.UserModel, error) {
	if userID == uuid.Nil {
		return nil, xp.ErrMissingUser
	}
	return s.Users.Get(ctx, userID)
}

func (s *Service) UpdateProfile(ctx context.Context, userID uuid.UUID, req dto.UpdateProfileRequest) (*model.UserModel, error) {
	if userID == uuid.Nil {
		return nil, xp.ErrMissingUser
	}
	req.Normalize()
	return s.Users.Mutate(ctx, userID, func(u *model.UserModel) error {
		req.ApplyToModel(u)
		return nil
	})
}

// UploadPhoto re-encodes the image as a square WebP and stores it under a
// stable key, so a new photo overwrites the old one.
func (s *Service) UploadPhoto(ctx context.Context, userID uuid.UUID, data []byte) (*model.UserModel, error) {
	if userID == uuid.Nil {
		return nil, xp.ErrMissingUser
	}
	if s.Photos == nil {
		return nil, ErrPhotoUploadDisabled
	}
	webp, err := storage.ConvertToWebP(data, storage.AvatarWebPOptions())
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidImage, err)
	}
	url, err := s.Photos.Put(ctx, fmt.Sprintf("profileImages/%s.webp", userID), webp, "image/webp")
	if err != nil {
		return nil, err
	}
	// cache-bust; the key itself never changes
	url = fmt.Sprintf("%s?v=%d", url, s.Clock().Unix())
	return s.Users.Mutate(ctx, userID, func(u *model.UserModel) error {
		u.UserPhotoURL = &url
		return nil
	})
}

// AddMinutes records elapsed study time and returns the refreshed card.
func (s *Service) AddMinutes(ctx context.Context, userID uuid.UUID, elapsed int) (*TodayCard, error) {
	if userID == uuid.Nil {
		return nil, xp.ErrMissingUser
	}
	today := s.today()
	u, err := s.Users.Mutate(ctx, userID, func(u *model.UserModel) error {
		ApplyMinutes(u, today, elapsed)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return buildTodayCard(u, today), nil
}

func (s *Service) Today(ctx context.Context, userID uuid.UUID) (*TodayCard, error) {
	u, err := s.Profile(ctx, userID)
	if err != nil {
		return nil, err
	}
	return buildTodayCard(u, s.today()), nil
}

func buildTodayCard(u *model.UserModel, today string) *TodayCard {
	goal := constants.DailyMinutesGoal
	mins := MinutesOn(u, today)
	left := goal - mins
	if left < 0 {
		left = 0
	}
	pct := mins * 100 / goal
	if pct > 100 {
		pct = 100
	}
	return &TodayCard{
		Date:         today,
		MinutesToday: mins,
		MinutesGoal:  goal,
		MinutesLeft:  left,
		Percent:      pct,
		XPToday:      u.EarnedOn(today),
		Streak:       u.UserStreak,
	}
}

func (s *Service) Stats(ctx context.Context, userID uuid.UUID) (*Stats, error) {
	u, err := s.Profile(ctx, userID)
	if err != nil {
		return nil, err
	}
	st := &Stats{
		AvailableXP: u.UserAvailableXP,
		TotalXP:     u.UserTotalXP,
		Level:       u.UserLevel,
		Streak:      u.UserStreak,
	}
	p, err := s.progress(ctx, userID)
	if err != nil {
		return nil, err
	}
	st.CompletedLessons = len(p.UserProgressCompletedLessons)
	if s.Activity != nil {
		n, err := s.Activity.CountActiveDays(ctx, userID)
		if err != nil {
			log.Printf("[WARN] active days user=%s: %v", userID, err)
		}
		st.ActiveDays = n
	}
	return st, nil
}

func (s *Service) Achievements(ctx context.Context, userID uuid.UUID) ([]achievements.Achievement, error) {
	u, err := s.Profile(ctx, userID)
	if err != nil {
		return nil, err
	}
	p, err := s.progress(ctx, userID)
	if err != nil {
		return nil, err
	}
	return achievements.Achievements(u.UserStreak, len(p.UserProgressCompletedLessons)), nil
}

func (s *Service) DailyGoal(ctx context.Context, userID uuid.UUID) (*achievements.DailyGoal, error) {
	u, err := s.Profile(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.dailyGoal(ctx, u)
}

func (s *Service) SetDailyGoal(ctx context.Context, userID uuid.UUID, goal int) (*achievements.DailyGoal, error) {
	if userID == uuid.Nil {
		return nil, xp.ErrMissingUser
	}
	u, err := s.Users.Mutate(ctx, userID, func(u *model.UserModel) error {
		u.UserDailyGoal = goal
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.dailyGoal(ctx, u)
}

func (s *Service) dailyGoal(ctx context.Context, u *model.UserModel) (*achievements.DailyGoal, error) {
	p, err := s.progress(ctx, u.UserID)
	if err != nil {
		return nil, err
	}
	done := lessons.LessonsCompletedOn(p, s.today(), s.Loc)
	g := achievements.Goal(done, u.UserDailyGoal, constants.DefaultDailyLessonGoal)
	return &g, nil
}

// progress never fails for a user who has not started yet.
func (s *Service) progress(ctx context.Context, userID uuid.UUID) (*lessonmodel.UserProgress, error) {
	if s.Progress == nil {
		return &lessonmodel.UserProgress{UserProgressUserID: userID}, nil
	}
	return s.Progress.Get(ctx, userID)
}
