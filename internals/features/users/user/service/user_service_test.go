package service

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	activity "englishku_backend/internals/features/progress/daily_activities/service"
	lessonmodel "englishku_backend/internals/features/progress/lessons/model"
	lessonrepo "englishku_backend/internals/features/progress/lessons/repository"
	"englishku_backend/internals/features/users/user/dto"
	"englishku_backend/internals/features/users/user/model"
	"englishku_backend/internals/features/users/user/repository"
	"englishku_backend/internals/helpers/dbtime"
	storage "englishku_backend/internals/helpers/oss"
)

var now = time.Date(2024, 6, 2, 15, 0, 0, 0, time.UTC)

func newService(t *testing.T, u *model.UserModel) (*Service, *lessonrepo.MemoryRepository, *storage.MemoryStorage) {
	t.Helper()
	progress := lessonrepo.NewMemoryRepository()
	photos := storage.NewMemoryStorage("https://cdn.test")
	s := NewService(repository.NewMemoryRepository(u), progress, activity.NewMemoryRecorder(), photos, time.UTC)
	s.Clock = dbtime.FixedClock(now)
	return s, progress, photos
}

func TestApplyMinutes(t *testing.T) {
	u := &model.UserModel{UserMinutesToday: 25, UserMinutesDate: "2024-06-01"}

	ApplyMinutes(u, "2024-06-02", 5)
	assert.Equal(t, 5, u.UserMinutesToday, "stale date resets the counter")
	assert.Equal(t, "2024-06-02", u.UserMinutesDate)

	ApplyMinutes(u, "2024-06-02", 10)
	assert.Equal(t, 15, u.UserMinutesToday)

	ApplyMinutes(u, "2024-06-02", 500)
	assert.Equal(t, 75, u.UserMinutesToday, "one tick adds at most 60")

	ApplyMinutes(u, "2024-06-02", -20)
	assert.Equal(t, 75, u.UserMinutesToday)

	assert.Zero(t, MinutesOn(u, "2024-06-03"))
}

func TestTodayCard(t *testing.T) {
	ctx := context.Background()
	u := &model.UserModel{UserID: uuid.New(), UserStreak: 4, UserMinutesToday: 50, UserMinutesDate: "2024-06-01"}
	s, _, _ := newService(t, u)

	card, err := s.Today(ctx, u.UserID)
	require.NoError(t, err)
	assert.Zero(t, card.MinutesToday, "yesterday's minutes do not show today")
	assert.Equal(t, 30, card.MinutesLeft)

	card, err = s.AddMinutes(ctx, u.UserID, 12)
	require.NoError(t, err)
	assert.Equal(t, 12, card.MinutesToday)
	assert.Equal(t, 18, card.MinutesLeft)
	assert.Equal(t, 40, card.Percent)
	assert.Equal(t, 4, card.Streak)

	card, err = s.AddMinutes(ctx, u.UserID, 25)
	require.NoError(t, err)
	assert.Equal(t, 37, card.MinutesToday)
	assert.Zero(t, card.MinutesLeft)
	assert.Equal(t, 100, card.Percent)
}

func TestUpdateProfile(t *testing.T) {
	ctx := context.Background()
	level := "beginner"
	u := &model.UserModel{UserID: uuid.New(), UserDisplayName: "Old", UserEnglishLevel: &level}
	s, _, _ := newService(t, u)

	name, motivation, empty := "  Asha ", "IELTS 7", ""
	got, err := s.UpdateProfile(ctx, u.UserID, dto.UpdateProfileRequest{
		DisplayName:  &name,
		Motivation:   &motivation,
		EnglishLevel: &empty,
	})
	require.NoError(t, err)
	assert.Equal(t, "Asha", got.UserDisplayName)
	require.NotNil(t, got.UserMotivation)
	assert.Equal(t, "IELTS 7", *got.UserMotivation)
	assert.Nil(t, got.UserEnglishLevel)
}

func TestUploadPhoto(t *testing.T) {
	ctx := context.Background()
	u := &model.UserModel{UserID: uuid.New()}
	s, _, photos := newService(t, u)

	img := image.NewRGBA(image.Rect(0, 0, 40, 20))
	img.Set(1, 1, color.RGBA{R: 200, A: 255})
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))

	got, err := s.UploadPhoto(ctx, u.UserID, buf.Bytes())
	require.NoError(t, err)
	require.NotNil(t, got.UserPhotoURL)
	assert.True(t, strings.HasPrefix(*got.UserPhotoURL, "https://cdn.test/profileImages/"+u.UserID.String()+".webp"))

	_, ok := photos.Get("profileImages/" + u.UserID.String() + ".webp")
	assert.True(t, ok)

	_, err = s.UploadPhoto(ctx, u.UserID, []byte("not an image"))
	assert.ErrorIs(t, err, ErrInvalidImage)

	s.Photos = nil
	_, err = s.UploadPhoto(ctx, u.UserID, buf.Bytes())
	assert.ErrorIs(t, err, ErrPhotoUploadDisabled)
}

func TestStatsAchievementsAndGoal(t *testing.T) {
	ctx := context.Background()
	u := &model.UserModel{UserID: uuid.New(), UserAvailableXP: 120, UserTotalXP: 120, UserLevel: 2, UserStreak: 8, UserDailyGoal: 2}
	s, progress, _ := newService(t, u)

	_, err := progress.Mutate(ctx, u.UserID, func(p *lessonmodel.UserProgress) error {
		p.UserProgressCompletedLessons = append(p.UserProgressCompletedLessons,
			lessonmodel.CompletedLesson{Key: "1-a", CompletedAt: now.AddDate(0, 0, -1)},
			lessonmodel.CompletedLesson{Key: "1-b", CompletedAt: now.Add(-time.Hour)},
		)
		return nil
	})
	require.NoError(t, err)

	st, err := s.Stats(ctx, u.UserID)
	require.NoError(t, err)
	assert.Equal(t, 120, st.AvailableXP)
	assert.Equal(t, 2, st.CompletedLessons)
	assert.Equal(t, 2, st.Level)

	badges, err := s.Achievements(ctx, u.UserID)
	require.NoError(t, err)
	assert.True(t, badges[0].Unlocked)
	assert.Equal(t, 2, badges[1].Progress)

	goal, err := s.DailyGoal(ctx, u.UserID)
	require.NoError(t, err)
	assert.Equal(t, 1, goal.Completed, "only today's lessons count")
	assert.Equal(t, 2, goal.Goal)
	assert.False(t, goal.Met)

	goal, err = s.SetDailyGoal(ctx, u.UserID, 1)
	require.NoError(t, err)
	assert.True(t, goal.Met)
}
