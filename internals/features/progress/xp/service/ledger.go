package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"englishku_backend/internals/constants"
	activity "englishku_backend/internals/features/progress/daily_activities/service"
	leaderboard "englishku_backend/internals/features/progress/leaderboard/service"
	level "englishku_backend/internals/features/progress/level_rank/service"
	streak "englishku_backend/internals/features/progress/streak/service"
	"englishku_backend/internals/features/users/user/model"
	"englishku_backend/internals/features/users/user/repository"
	"englishku_backend/internals/helpers/dbtime"
)

var (
	ErrMissingUser  = errors.New("missing user")
	ErrUnknownLabel = errors.New("unknown xp label")
)

// GrantResult describes what one grant did to the user record.
type GrantResult struct {
	Label       string `json:"label"`
	Amount      int    `json:"amount"`
	Granted     bool   `json:"granted"`
	AvailableXP int    `json:"available_xp"`
	TotalXP     int    `json:"total_xp"`
	EarnedToday int    `json:"earned_today"`
	Streak      int    `json:"streak"`
	Level       int    `json:"level"`
	LeveledUp   bool   `json:"leveled_up"`
}

// Ledger grants XP. All writes go through Users.Mutate.
type Ledger struct {
	Users    repository.Repository
	Levels   level.Source
	Activity activity.Recorder
	Board    leaderboard.Board
	Clock    dbtime.Clock
	Loc      *time.Location
}

func NewLedger(users repository.Repository, levels level.Source, act activity.Recorder, board leaderboard.Board, loc *time.Location) *Ledger {
	if board == nil {
		board = leaderboard.NoopBoard{}
	}
	return &Ledger{
		Users:    users,
		Levels:   levels,
		Activity: act,
		Board:    board,
		Clock:    dbtime.SystemClock,
		Loc:      loc,
	}
}

// Today is the current day key in the app timezone.
func (l *Ledger) Today() string {
	return dbtime.DayKey(l.Clock(), l.Loc)
}

// GrantLabel grants the server-owned amount for label.
func (l *Ledger) GrantLabel(ctx context.Context, userID uuid.UUID, label string) (*GrantResult, error) {
	amount, ok := constants.XPAmount(label)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownLabel, label)
	}
	return l.Grant(ctx, userID, label, amount)
}

// Grant adds amount XP for label at most once per day. The first grant of a
// day also advances the streak; every grant recomputes the level.
func (l *Ledger) Grant(ctx context.Context, userID uuid.UUID, label string, amount int) (*GrantResult, error) {
	if userID == uuid.Nil {
		return nil, ErrMissingUser
	}
	today := l.Today()
	reqs := l.levels(ctx)

	res := &GrantResult{Label: label, Amount: amount}
	u, err := l.Users.Mutate(ctx, userID, func(u *model.UserModel) error {
		firstOfDay := len(u.History()[today].Source) == 0
		res.Granted = ApplyGrant(u, today, label, amount)
		if !res.Granted {
			return nil
		}
		if firstOfDay {
			AdvanceStreak(u, today)
		}
		res.LeveledUp = applyLevel(u, reqs)
		return nil
	})
	if err != nil {
		return nil, err
	}
	l.fill(res, u, today)

	if res.Granted {
		log.Printf("[XP] user=%s label=%s +%d total=%d", userID, label, amount, u.UserTotalXP)
		l.afterCommit(ctx, u, today)
	}
	return res, nil
}

// LoginBonus runs once per session start: records the login time and, the
// first time on a given day, grants the daily bonus and advances the streak.
func (l *Ledger) LoginBonus(ctx context.Context, userID uuid.UUID) (*GrantResult, error) {
	if userID == uuid.Nil {
		return nil, ErrMissingUser
	}
	now := l.Clock()
	today := dbtime.DayKey(now, l.Loc)
	amount, _ := constants.XPAmount(constants.XPLabelDaily)
	reqs := l.levels(ctx)

	res := &GrantResult{Label: constants.XPLabelDaily, Amount: amount}
	u, err := l.Users.Mutate(ctx, userID, func(u *model.UserModel) error {
		loginAt := now
		u.UserLastLoginAt = &loginAt
		if u.UserLastLoginXPDate == today {
			return nil
		}
		u.UserLastLoginXPDate = today
		res.Granted = ApplyGrant(u, today, constants.XPLabelDaily, amount)
		AdvanceStreak(u, today)
		res.LeveledUp = applyLevel(u, reqs)
		return nil
	})
	if err != nil {
		return nil, err
	}
	l.fill(res, u, today)

	if res.Granted {
		log.Printf("[XP] login bonus user=%s +%d streak=%d", userID, amount, u.UserStreak)
		l.afterCommit(ctx, u, today)
	}
	return res, nil
}

// History returns the last days of XP history, newest first, including
// days without XP.
func (l *Ledger) History(ctx context.Context, userID uuid.UUID, days int) ([]HistoryDay, error) {
	if userID == uuid.Nil {
		return nil, ErrMissingUser
	}
	if days <= 0 || days > 90 {
		days = 7
	}
	u, err := l.Users.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	return HistoryWindow(u.UserXPHistory.Data(), l.Today(), days), nil
}

// AdvanceStreak moves the streak to today when it has not been moved yet.
func AdvanceStreak(u *model.UserModel, today string) {
	next, changed := streak.NextStreak(u.UserStreak, u.UserLastStreakUpdate, today)
	if changed {
		u.UserStreak = next
		u.UserLastStreakUpdate = today
	}
}

func applyLevel(u *model.UserModel, reqs levelReqs) bool {
	if reqs == nil {
		return false
	}
	next := level.LevelFor(reqs, u.UserTotalXP)
	if next <= u.UserLevel {
		return false
	}
	u.UserLevel = next
	return true
}

func (l *Ledger) levels(ctx context.Context) levelReqs {
	if l.Levels == nil {
		return nil
	}
	reqs, err := l.Levels.List(ctx)
	if err != nil {
		log.Printf("[WARN] level requirements unavailable: %v", err)
		return nil
	}
	return reqs
}

func (l *Ledger) fill(res *GrantResult, u *model.UserModel, today string) {
	res.AvailableXP = u.UserAvailableXP
	res.TotalXP = u.UserTotalXP
	res.EarnedToday = u.EarnedOn(today)
	res.Streak = u.UserStreak
	res.Level = u.UserLevel
}

// afterCommit updates the derived stores. Failures are logged only; the
// ledger row is already committed.
func (l *Ledger) afterCommit(ctx context.Context, u *model.UserModel, today string) {
	if l.Activity != nil {
		if err := l.Activity.RecordActiveDay(ctx, u.UserID, today); err != nil {
			log.Printf("[WARN] record active day user=%s: %v", u.UserID, err)
		}
	}
	if err := l.Board.Update(ctx, u.UserID, u.UserTotalXP, u.UserStreak); err != nil {
		log.Printf("[WARN] leaderboard update user=%s: %v", u.UserID, err)
	}
}
