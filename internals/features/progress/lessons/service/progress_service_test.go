package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"englishku_backend/internals/constants"
	"englishku_backend/internals/features/progress/lessons/repository"
	xp "englishku_backend/internals/features/progress/xp/service"
	"englishku_backend/internals/features/users/user/model"
	userrepo "englishku_backend/internals/features/users/user/repository"
	"englishku_backend/internals/helpers/dbtime"
)

func strPtr(s string) *string { return &s }

func catalog(n int) StaticCatalog {
	out := StaticCatalog{}
	for i := 1; i <= n; i++ {
		out = append(out, ChapterRef{
			ChapterID:   fmt.Sprint(i),
			LessonIDs:   []string{"a", "b"},
			ExamEnabled: true,
		})
	}
	return out
}

func newService(t *testing.T, plan string) (*Service, *userrepo.MemoryRepository, uuid.UUID) {
	t.Helper()
	now := time.Date(2024, 3, 10, 9, 0, 0, 0, time.UTC)
	u := &model.UserModel{UserID: uuid.New(), UserLevel: 1}
	if plan != "" {
		exp := now.AddDate(0, 0, 30)
		u.UserPlan = strPtr(plan)
		u.UserPlanExpiresAt = &exp
		u.UserSubscriptionStatus = strPtr(constants.SubscriptionActive)
	}
	users := userrepo.NewMemoryRepository(u)
	ledger := xp.NewLedger(users, nil, nil, nil, time.UTC)
	ledger.Clock = dbtime.FixedClock(now)

	s := NewService(repository.NewMemoryRepository(), catalog(7), users, ledger)
	s.Clock = dbtime.FixedClock(now)
	return s, users, u.UserID
}

func TestMarkLessonFlow(t *testing.T) {
	ctx := context.Background()
	s, users, id := newService(t, constants.PlanBasic)

	res, err := s.MarkLessonCompleted(ctx, id, "1", "a")
	require.NoError(t, err)
	assert.True(t, res.LessonMarked)
	assert.False(t, res.ChapterCompleted)
	require.Len(t, res.XP, 1)
	assert.True(t, res.XP[0].Granted)

	res, err = s.MarkLessonCompleted(ctx, id, "1", "a")
	require.NoError(t, err)
	assert.False(t, res.LessonMarked)
	assert.Empty(t, res.XP)

	_, err = s.MarkLessonCompleted(ctx, id, "1", "zzz")
	assert.ErrorIs(t, err, ErrLessonNotFound)
	_, err = s.MarkLessonCompleted(ctx, id, "99", "a")
	assert.ErrorIs(t, err, ErrChapterNotFound)

	// exam opens only after the last lesson
	_, err = s.MarkChapterExamCompleted(ctx, id, "1")
	assert.ErrorIs(t, err, ErrChapterExamLocked)

	_, err = s.MarkLessonCompleted(ctx, id, "1", "b")
	require.NoError(t, err)
	require.NoError(t, s.ChapterExamOpen(ctx, id, "1"))

	res, err = s.MarkChapterExamCompleted(ctx, id, "1")
	require.NoError(t, err)
	assert.True(t, res.ExamMarked)
	assert.True(t, res.ChapterCompleted, "exam completion re-evaluates the chapter")
	assert.Equal(t, []string{"1"}, []string(res.Progress.UserProgressCompletedChapters))

	u, _ := users.Get(ctx, id)
	assert.Equal(t, 25+50, u.UserTotalXP, "lesson xp once per day plus chapter exam")
}

func TestChapterCompletesAfterLessonRemoved(t *testing.T) {
	ctx := context.Background()
	s, _, id := newService(t, constants.PlanBasic)
	s.Catalog = StaticCatalog{{ChapterID: "1", LessonIDs: []string{"a", "b", "c"}, ExamEnabled: true}}
	for _, l := range []string{"a", "b", "c"} {
		_, err := s.MarkLessonCompleted(ctx, id, "1", l)
		require.NoError(t, err)
	}

	// lesson "c" is deleted from the catalog after the user finished it
	s.Catalog = StaticCatalog{{ChapterID: "1", LessonIDs: []string{"a", "b"}, ExamEnabled: true}}
	require.NoError(t, s.ChapterExamOpen(ctx, id, "1"))
	res, err := s.MarkChapterExamCompleted(ctx, id, "1")
	require.NoError(t, err)
	assert.True(t, res.ExamMarked)
	assert.True(t, res.ChapterCompleted)

	done, err := s.AllChaptersCompleted(ctx, id)
	require.NoError(t, err)
	assert.True(t, done)
}

func TestLockedChapters(t *testing.T) {
	ctx := context.Background()

	s, _, id := newService(t, "")
	_, err := s.MarkLessonCompleted(ctx, id, "1", "a")
	assert.ErrorIs(t, err, ErrChapterLocked, "no plan locks everything")

	s, _, id = newService(t, constants.PlanBasic)
	_, err = s.MarkLessonCompleted(ctx, id, "5", "a")
	assert.NoError(t, err, "index 4 is open on basic")
	_, err = s.MarkLessonCompleted(ctx, id, "6", "a")
	assert.ErrorIs(t, err, ErrChapterLocked, "index 5 is locked on basic")

	s, _, id = newService(t, constants.PlanPro)
	_, err = s.MarkLessonCompleted(ctx, id, "7", "a")
	assert.NoError(t, err)
}

func TestExpiredPlanCountsAsNone(t *testing.T) {
	ctx := context.Background()
	s, users, id := newService(t, constants.PlanPro)
	u, _ := users.Get(ctx, id)
	past := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	u.UserPlanExpiresAt = &past
	users.Put(u)

	_, err := s.MarkLessonCompleted(ctx, id, "1", "a")
	assert.ErrorIs(t, err, ErrChapterLocked)
}

func TestAllChaptersCompleted(t *testing.T) {
	ctx := context.Background()
	s, _, id := newService(t, constants.PlanPro)
	s.Catalog = catalog(1)

	done, err := s.AllChaptersCompleted(ctx, id)
	require.NoError(t, err)
	assert.False(t, done)

	for _, l := range []string{"a", "b"} {
		_, err := s.MarkLessonCompleted(ctx, id, "1", l)
		require.NoError(t, err)
	}
	_, err = s.MarkChapterExamCompleted(ctx, id, "1")
	require.NoError(t, err)

	done, err = s.AllChaptersCompleted(ctx, id)
	require.NoError(t, err)
	assert.True(t, done)
}

func TestMissingUser(t *testing.T) {
	s, _, _ := newService(t, constants.PlanPro)
	_, err := s.MarkLessonCompleted(context.Background(), uuid.Nil, "1", "a")
	assert.ErrorIs(t, err, xp.ErrMissingUser)
}
