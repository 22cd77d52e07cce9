package service

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/google/uuid"

	"englishku_backend/internals/constants"
	"englishku_backend/internals/features/progress/lessons/model"
	"englishku_backend/internals/features/progress/lessons/repository"
	xp "englishku_backend/internals/features/progress/xp/service"
	gate "englishku_backend/internals/features/subscriptions/subscription/service"
	userrepo "englishku_backend/internals/features/users/user/repository"
	"englishku_backend/internals/helpers/dbtime"
)

var (
	ErrChapterNotFound   = errors.New("chapter not found")
	ErrLessonNotFound    = errors.New("lesson not found")
	ErrChapterLocked     = errors.New("chapter is locked for your plan")
	ErrChapterExamLocked = errors.New("complete all lessons to unlock the chapter exam")
	ErrExamDisabled      = errors.New("this chapter has no exam")
)

// ChapterRef is what the tracker needs to know about a chapter.
type ChapterRef struct {
	ChapterID   string
	Index       int // zero-based position in the catalog
	LessonIDs   []string
	ExamEnabled bool
}

func (r *ChapterRef) TotalLessons() int { return distinct(r.LessonIDs) }

func (r *ChapterRef) HasLesson(id string) bool {
	for _, l := range r.LessonIDs {
		if l == id {
			return true
		}
	}
	return false
}

// Catalog resolves chapters. Locate returns ErrChapterNotFound for unknown ids.
type Catalog interface {
	Locate(ctx context.Context, chapterID string) (*ChapterRef, error)
	All(ctx context.Context) ([]ChapterRef, error)
}

type Service struct {
	Progress repository.Repository
	Catalog  Catalog
	Users    userrepo.Repository
	Ledger   *xp.Ledger
	Clock    dbtime.Clock
}

func NewService(progress repository.Repository, catalog Catalog, users userrepo.Repository, ledger *xp.Ledger) *Service {
	return &Service{
		Progress: progress,
		Catalog:  catalog,
		Users:    users,
		Ledger:   ledger,
		Clock:    dbtime.SystemClock,
	}
}

// MarkResult reports the transitions one call caused.
type MarkResult struct {
	LessonMarked     bool                `json:"lesson_marked,omitempty"`
	ExamMarked       bool                `json:"exam_marked,omitempty"`
	ChapterCompleted bool                `json:"chapter_completed"`
	XP               []*xp.GrantResult   `json:"xp,omitempty"`
	Progress         *model.UserProgress `json:"progress"`
}

func (s *Service) Get(ctx context.Context, userID uuid.UUID) (*model.UserProgress, error) {
	return s.Progress.Get(ctx, userID)
}

// MarkLessonCompleted records the lesson, re-checks chapter completion and
// grants lesson XP the first time.
func (s *Service) MarkLessonCompleted(ctx context.Context, userID uuid.UUID, chapterID, lessonID string) (*MarkResult, error) {
	if userID == uuid.Nil {
		return nil, xp.ErrMissingUser
	}
	ref, err := s.unlocked(ctx, userID, chapterID)
	if err != nil {
		return nil, err
	}
	if !ref.HasLesson(lessonID) {
		return nil, ErrLessonNotFound
	}

	res := &MarkResult{}
	now := s.Clock()
	p, err := s.Progress.Mutate(ctx, userID, func(p *model.UserProgress) error {
		res.LessonMarked = MarkLesson(p, chapterID, lessonID, now)
		res.ChapterCompleted = MarkChapterIfEligible(p, chapterID, ref.LessonIDs)
		return nil
	})
	if err != nil {
		return nil, err
	}
	res.Progress = p

	if res.LessonMarked {
		s.grant(ctx, userID, constants.XPLabelLesson, res)
	}
	return res, nil
}

// MarkChapterExamCompleted records a passed chapter exam. The exam opens only
// after every lesson of the chapter is done.
func (s *Service) MarkChapterExamCompleted(ctx context.Context, userID uuid.UUID, chapterID string) (*MarkResult, error) {
	if userID == uuid.Nil {
		return nil, xp.ErrMissingUser
	}
	ref, err := s.unlocked(ctx, userID, chapterID)
	if err != nil {
		return nil, err
	}
	if !ref.ExamEnabled {
		return nil, ErrExamDisabled
	}

	res := &MarkResult{}
	p, err := s.Progress.Mutate(ctx, userID, func(p *model.UserProgress) error {
		if LessonsDone(p, chapterID, ref.LessonIDs) < ref.TotalLessons() {
			return ErrChapterExamLocked
		}
		res.ExamMarked = MarkExam(p, chapterID)
		res.ChapterCompleted = MarkChapterIfEligible(p, chapterID, ref.LessonIDs)
		return nil
	})
	if err != nil {
		return nil, err
	}
	res.Progress = p

	if res.ExamMarked {
		s.grant(ctx, userID, constants.XPLabelChapterExam, res)
	}
	return res, nil
}

// MarkChapterCompletedIfEligible re-evaluates the chapter and reports
// whether it moved to completed on this call.
func (s *Service) MarkChapterCompletedIfEligible(ctx context.Context, userID uuid.UUID, chapterID string) (*MarkResult, error) {
	if userID == uuid.Nil {
		return nil, xp.ErrMissingUser
	}
	ref, err := s.Catalog.Locate(ctx, chapterID)
	if err != nil {
		return nil, err
	}
	res := &MarkResult{}
	p, err := s.Progress.Mutate(ctx, userID, func(p *model.UserProgress) error {
		res.ChapterCompleted = MarkChapterIfEligible(p, chapterID, ref.LessonIDs)
		return nil
	})
	if err != nil {
		return nil, err
	}
	res.Progress = p
	return res, nil
}

// ChapterExamOpen checks the preconditions for taking a chapter exam
// without writing anything.
func (s *Service) ChapterExamOpen(ctx context.Context, userID uuid.UUID, chapterID string) error {
	ref, err := s.unlocked(ctx, userID, chapterID)
	if err != nil {
		return err
	}
	if !ref.ExamEnabled {
		return ErrExamDisabled
	}
	p, err := s.Progress.Get(ctx, userID)
	if err != nil {
		return err
	}
	if LessonsDone(p, chapterID, ref.LessonIDs) < ref.TotalLessons() {
		return ErrChapterExamLocked
	}
	return nil
}

// AllChaptersCompleted gates the final exam. An empty catalog counts as done.
func (s *Service) AllChaptersCompleted(ctx context.Context, userID uuid.UUID) (bool, error) {
	refs, err := s.Catalog.All(ctx)
	if err != nil {
		return false, err
	}
	p, err := s.Progress.Get(ctx, userID)
	if err != nil {
		return false, err
	}
	for _, r := range refs {
		if !IsChapterDone(p, r.ChapterID) {
			return false, nil
		}
	}
	return true, nil
}

// Plan is the user's plan in force now, "" when none.
func (s *Service) Plan(ctx context.Context, userID uuid.UUID) (string, error) {
	u, err := s.Users.Get(ctx, userID)
	if err != nil {
		return "", err
	}
	return u.ActivePlan(s.Clock()), nil
}

func (s *Service) unlocked(ctx context.Context, userID uuid.UUID, chapterID string) (*ChapterRef, error) {
	ref, err := s.Catalog.Locate(ctx, chapterID)
	if err != nil {
		return nil, err
	}
	plan, err := s.Plan(ctx, userID)
	if err != nil {
		return nil, err
	}
	if gate.IsChapterLocked(plan, ref.Index) {
		return nil, ErrChapterLocked
	}
	return ref, nil
}

// grant adds XP after the progress write. A failed grant is logged; the
// progress change stands.
func (s *Service) grant(ctx context.Context, userID uuid.UUID, label string, res *MarkResult) {
	if s.Ledger == nil {
		return
	}
	g, err := s.Ledger.GrantLabel(ctx, userID, label)
	if err != nil {
		log.Printf("[ERROR] grant %s xp user=%s: %v", label, userID, err)
		return
	}
	res.XP = append(res.XP, g)
}

// LessonsToday counts lessons finished today, for the daily goal.
func (s *Service) LessonsToday(ctx context.Context, userID uuid.UUID, loc *time.Location) (int, error) {
	p, err := s.Progress.Get(ctx, userID)
	if err != nil {
		return 0, err
	}
	return LessonsCompletedOn(p, dbtime.DayKey(s.Clock(), loc), loc), nil
}
