package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"

	"englishku_backend/internals/constants"
	activity "englishku_backend/internals/features/progress/daily_activities/service"
	leaderboard "englishku_backend/internals/features/progress/leaderboard/service"
	level "englishku_backend/internals/features/progress/level_rank/service"
	"englishku_backend/internals/features/users/user/model"
	"englishku_backend/internals/features/users/user/repository"
	"englishku_backend/internals/helpers/dbtime"
)

func intPtr(v int) *int { return &v }

var testLevels = level.StaticSource{
	{LevelReqLevel: 1, LevelReqMinXP: 0, LevelReqMaxXP: intPtr(29)},
	{LevelReqLevel: 2, LevelReqMinXP: 30, LevelReqMaxXP: intPtr(199)},
	{LevelReqLevel: 3, LevelReqMinXP: 200},
}

type fixture struct {
	ledger *Ledger
	users  *repository.MemoryRepository
	days   *activity.MemoryRecorder
	userID uuid.UUID
}

func newFixture(t *testing.T, now time.Time, seed func(u *model.UserModel)) *fixture {
	t.Helper()
	u := &model.UserModel{UserID: uuid.New(), UserEmail: "a@example.com", UserLevel: 1}
	if seed != nil {
		seed(u)
	}
	users := repository.NewMemoryRepository(u)
	days := activity.NewMemoryRecorder()
	l := NewLedger(users, testLevels, days, leaderboard.NoopBoard{}, time.UTC)
	l.Clock = dbtime.FixedClock(now)
	return &fixture{ledger: l, users: users, days: days, userID: u.UserID}
}

func TestApplyGrant(t *testing.T) {
	u := &model.UserModel{}
	assert.True(t, ApplyGrant(u, "2024-03-10", "lesson", 25))
	assert.False(t, ApplyGrant(u, "2024-03-10", "lesson", 25), "same label same day")
	assert.True(t, ApplyGrant(u, "2024-03-10", "reading", 15))
	assert.True(t, ApplyGrant(u, "2024-03-11", "lesson", 25), "new day")

	assert.False(t, ApplyGrant(u, "2024-03-11", "", 10))
	assert.False(t, ApplyGrant(u, "2024-03-11", "chat", 0))
	assert.False(t, ApplyGrant(u, "2024-03-11", "chat", -5))

	assert.Equal(t, 65, u.UserTotalXP)
	assert.Equal(t, 65, u.UserAvailableXP)
	assert.Equal(t, 40, u.EarnedOn("2024-03-10"))
	assert.Equal(t, map[string]int{"lesson": 25, "reading": 15}, u.History()["2024-03-10"].Source)
}

func TestGrantIdempotentPerDay(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, time.Date(2024, 3, 10, 9, 0, 0, 0, time.UTC), nil)

	res, err := f.ledger.GrantLabel(ctx, f.userID, constants.XPLabelLesson)
	require.NoError(t, err)
	assert.True(t, res.Granted)
	assert.Equal(t, 25, res.TotalXP)
	assert.Equal(t, 1, res.Streak, "first grant of the day starts the streak")

	res, err = f.ledger.GrantLabel(ctx, f.userID, constants.XPLabelLesson)
	require.NoError(t, err)
	assert.False(t, res.Granted)
	assert.Equal(t, 25, res.TotalXP)

	n, _ := f.days.CountActiveDays(ctx, f.userID)
	assert.Equal(t, int64(1), n)
}

func TestGrantConcurrentSessions(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, time.Date(2024, 3, 10, 9, 0, 0, 0, time.UTC), nil)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.ledger.GrantLabel(ctx, f.userID, constants.XPLabelSpeaking)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	u, err := f.users.Get(ctx, f.userID)
	require.NoError(t, err)
	assert.Equal(t, 15, u.UserTotalXP)
	assert.Equal(t, 15, u.EarnedOn("2024-03-10"))
}

func TestGrantRejectsBadInput(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, time.Now(), nil)

	_, err := f.ledger.GrantLabel(ctx, uuid.Nil, constants.XPLabelLesson)
	assert.ErrorIs(t, err, ErrMissingUser)

	_, err = f.ledger.GrantLabel(ctx, f.userID, "jackpot")
	assert.ErrorIs(t, err, ErrUnknownLabel)

	_, err = f.ledger.GrantLabel(ctx, uuid.New(), constants.XPLabelLesson)
	assert.ErrorIs(t, err, repository.ErrUserNotFound)
}

func TestGrantLevelsUp(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, time.Date(2024, 3, 10, 9, 0, 0, 0, time.UTC), nil)

	res, err := f.ledger.GrantLabel(ctx, f.userID, constants.XPLabelLesson)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Level)

	res, err = f.ledger.GrantLabel(ctx, f.userID, constants.XPLabelReading)
	require.NoError(t, err)
	assert.Equal(t, 2, res.Level)
	assert.True(t, res.LeveledUp)
}

func TestLoginBonus(t *testing.T) {
	ctx := context.Background()
	day1 := time.Date(2024, 3, 9, 8, 0, 0, 0, time.UTC)
	f := newFixture(t, day1, func(u *model.UserModel) {
		u.UserStreak = 4
		u.UserLastStreakUpdate = "2024-03-08"
	})

	res, err := f.ledger.LoginBonus(ctx, f.userID)
	require.NoError(t, err)
	assert.True(t, res.Granted)
	assert.Equal(t, 10, res.TotalXP)
	assert.Equal(t, 5, res.Streak)

	// a second sign-in the same day is a no-op for XP
	res, err = f.ledger.LoginBonus(ctx, f.userID)
	require.NoError(t, err)
	assert.False(t, res.Granted)
	assert.Equal(t, 10, res.TotalXP)

	// skipping a day resets the streak
	f.ledger.Clock = dbtime.FixedClock(day1.AddDate(0, 0, 2))
	res, err = f.ledger.LoginBonus(ctx, f.userID)
	require.NoError(t, err)
	assert.True(t, res.Granted)
	assert.Equal(t, 1, res.Streak)
	assert.Equal(t, 20, res.TotalXP)

	u, _ := f.users.Get(ctx, f.userID)
	assert.Equal(t, "2024-03-11", u.UserLastLoginXPDate)
	require.NotNil(t, u.UserLastLoginAt)
}

func TestLoginBonusUsesAppTimezone(t *testing.T) {
	ctx := context.Background()
	kolkata, err := time.LoadLocation("Asia/Kolkata")
	require.NoError(t, err)

	// 20:00 UTC on the 9th is the 10th in Kolkata
	f := newFixture(t, time.Date(2024, 3, 9, 20, 0, 0, 0, time.UTC), func(u *model.UserModel) {
		u.UserLastLoginXPDate = "2024-03-09"
	})
	f.ledger.Loc = kolkata

	res, err := f.ledger.LoginBonus(ctx, f.userID)
	require.NoError(t, err)
	assert.True(t, res.Granted)
}

func TestHistoryWindow(t *testing.T) {
	h := model.XPHistory{
		"2024-03-10": {Earned: 35, Source: map[string]int{"daily": 10, "lesson": 25}},
		"2024-03-08": {Earned: 10, Source: map[string]int{"daily": 10}},
	}
	got := HistoryWindow(h, "2024-03-10", 3)
	require.Len(t, got, 3)
	assert.Equal(t, "2024-03-10", got[0].Date)
	assert.Equal(t, 35, got[0].Earned)
	assert.Equal(t, 0, got[1].Earned)
	assert.NotNil(t, got[1].Source)
	assert.Equal(t, 10, got[2].Earned)
}

func TestHistoryFromLedger(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, time.Date(2024, 3, 10, 9, 0, 0, 0, time.UTC), func(u *model.UserModel) {
		u.UserXPHistory = datatypes.NewJSONType(model.XPHistory{
			"2024-03-09": {Earned: 10, Source: map[string]int{"daily": 10}},
		})
	})
	days, err := f.ledger.History(ctx, f.userID, 0)
	require.NoError(t, err)
	assert.Len(t, days, 7)
	assert.Equal(t, 10, days[1].Earned)
}
