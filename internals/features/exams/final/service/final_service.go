package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math"
	"strings"

	"github.com/google/uuid"

	"englishku_backend/internals/constants"
	examDTO "englishku_backend/internals/features/exams/exams/dto"
	examModel "englishku_backend/internals/features/exams/exams/model"
	exams "englishku_backend/internals/features/exams/exams/service"
	"englishku_backend/internals/features/exams/final/dto"
	"englishku_backend/internals/features/exams/final/model"
	"englishku_backend/internals/features/exams/final/repository"
	"englishku_backend/internals/features/exams/scoring"
	xp "englishku_backend/internals/features/progress/xp/service"
	"englishku_backend/internals/helpers/dbtime"
)

var (
	ErrFinalLocked  = errors.New("complete every chapter to unlock the final exam")
	ErrPlanRequired = errors.New("an active plan is required for the final exam")
	ErrEvaluation   = errors.New("answer evaluation failed")
)

// Scorer rates a free-response answer 0..10.
type Scorer interface {
	ScoreFinal(ctx context.Context, section, question, answer string) (int, scoring.Evaluation, error)
}

// Eligibility is the progress view the final exam needs.
type Eligibility interface {
	AllChaptersCompleted(ctx context.Context, userID uuid.UUID) (bool, error)
	Plan(ctx context.Context, userID uuid.UUID) (string, error)
}

type Rewarder interface {
	GrantLabel(ctx context.Context, userID uuid.UUID, label string) (*xp.GrantResult, error)
}

// Answer is a section submission after transport decoding.
type Answer struct {
	Answers    []string
	Transcript string
}

type Service struct {
	Attempts    repository.Repository
	Exams       exams.Store
	Scorer      Scorer
	Eligibility Eligibility
	Rewards     Rewarder
	Clock       dbtime.Clock
}

func NewService(attempts repository.Repository, store exams.Store, scorer Scorer, elig Eligibility, rewards Rewarder) *Service {
	return &Service{
		Attempts:    attempts,
		Exams:       store,
		Scorer:      scorer,
		Eligibility: elig,
		Rewards:     rewards,
		Clock:       dbtime.SystemClock,
	}
}

// Start resumes the open attempt or begins a new one.
func (s *Service) Start(ctx context.Context, userID uuid.UUID) (*dto.AttemptView, error) {
	if userID == uuid.Nil {
		return nil, xp.ErrMissingUser
	}
	if err := s.checkEligible(ctx, userID); err != nil {
		return nil, err
	}
	a, created, err := s.Attempts.StartOrResume(ctx, userID, s.Clock())
	if err != nil {
		return nil, err
	}
	if created {
		log.Printf("[INFO] 📝 final exam started user=%s attempt=%s", userID, a.FinalAttemptID)
	}
	v := dto.NewAttemptView(a)
	v.Resumed = !created
	s.attachExam(ctx, v)
	return v, nil
}

// Current returns the open attempt, or the last finished one.
func (s *Service) Current(ctx context.Context, userID uuid.UUID) (*dto.AttemptView, error) {
	a, err := s.Attempts.Open(ctx, userID)
	if errors.Is(err, repository.ErrAttemptNotFound) {
		a, err = s.Attempts.Latest(ctx, userID)
	}
	if err != nil {
		return nil, err
	}
	v := dto.NewAttemptView(a)
	s.attachExam(ctx, v)
	return v, nil
}

// Submit scores one section and advances the attempt. Scores are persisted
// after every section so a reload resumes where the user left off. An
// evaluator failure leaves the attempt on the same section.
func (s *Service) Submit(ctx context.Context, userID, attemptID uuid.UUID, section string, ans Answer) (*dto.AttemptView, error) {
	if userID == uuid.Nil {
		return nil, xp.ErrMissingUser
	}
	if !constants.IsSection(section) {
		return nil, fmt.Errorf("%w: unknown section %q", ErrWrongSection, section)
	}
	open, err := s.openAttempt(ctx, userID, attemptID)
	if err != nil {
		return nil, err
	}
	if cur := Resume(open.FinalAttemptSectionIndex, nil).Current(); cur != section {
		return nil, fmt.Errorf("%w: expected %s, got %s", ErrWrongSection, cur, section)
	}

	exam, err := s.Exams.Find(ctx, constants.ExamKindFinal, section, "")
	if err != nil {
		return nil, err
	}
	score, feedback, err := s.score(ctx, section, exam, ans)
	if err != nil {
		return nil, err
	}

	now := s.Clock()
	a, err := s.Attempts.Mutate(ctx, userID, attemptID, func(a *model.FinalAttemptModel) error {
		if a.FinalAttemptStatus == model.AttemptCompleted {
			return ErrAttemptCompleted
		}
		m := Resume(a.FinalAttemptSectionIndex, a.Scores())
		if err := m.Submit(section, score); err != nil {
			return err
		}
		a.FinalAttemptSectionIndex = m.Index
		a.SetScores(m.Scores)
		if m.Done() {
			a.FinalAttemptTotal, a.FinalAttemptPassed = m.Result()
			a.FinalAttemptStatus = model.AttemptCompleted
			a.FinalAttemptCompletedAt = &now
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	v := dto.NewAttemptView(a)
	v.Feedback = feedback
	if a.FinalAttemptStatus == model.AttemptCompleted {
		log.Printf("[INFO] 🏁 final exam done user=%s total=%d passed=%v", userID, a.FinalAttemptTotal, a.FinalAttemptPassed)
		if a.FinalAttemptPassed && s.Rewards != nil {
			g, err := s.Rewards.GrantLabel(ctx, userID, constants.XPLabelFinalExam)
			if err != nil {
				log.Printf("[ERROR] final exam xp user=%s: %v", userID, err)
			}
			v.XP = g
		}
	} else {
		s.attachExam(ctx, v)
	}
	return v, nil
}

func (s *Service) checkEligible(ctx context.Context, userID uuid.UUID) error {
	if s.Eligibility == nil {
		return nil
	}
	done, err := s.Eligibility.AllChaptersCompleted(ctx, userID)
	if err != nil {
		return err
	}
	if !done {
		return ErrFinalLocked
	}
	plan, err := s.Eligibility.Plan(ctx, userID)
	if err != nil {
		return err
	}
	if plan == "" {
		return ErrPlanRequired
	}
	return nil
}

func (s *Service) openAttempt(ctx context.Context, userID, attemptID uuid.UUID) (*model.FinalAttemptModel, error) {
	open, err := s.Attempts.Open(ctx, userID)
	if errors.Is(err, repository.ErrAttemptNotFound) {
		if last, lerr := s.Attempts.Latest(ctx, userID); lerr == nil && last.FinalAttemptID == attemptID {
			return nil, ErrAttemptCompleted
		}
		return nil, err
	}
	if err != nil {
		return nil, err
	}
	if open.FinalAttemptID != attemptID {
		return nil, repository.ErrAttemptNotFound
	}
	return open, nil
}

func (s *Service) score(ctx context.Context, section string, exam *examModel.ExamModel, ans Answer) (int, string, error) {
	switch section {
	case constants.SectionReading, constants.SectionListening:
		correct, total := scoring.ScoreObjectiveSet(exam.ExamQuestions, ans.Answers)
		return scoring.SectionScore(correct, total), "", nil
	case constants.SectionSpeaking:
		transcript := ans.Transcript
		if transcript == "" && len(ans.Answers) > 0 {
			transcript = ans.Answers[0]
		}
		return s.scoreFree(ctx, section, []string{questionAt(exam, 0)}, []string{transcript})
	default:
		qs := make([]string, 0, len(exam.ExamQuestions))
		for _, q := range exam.ExamQuestions {
			qs = append(qs, q.Question)
		}
		if len(qs) == 0 {
			qs = []string{exam.ExamTitle}
		}
		return s.scoreFree(ctx, section, qs, ans.Answers)
	}
}

// scoreFree averages the evaluator's 0..10 score over the questions.
func (s *Service) scoreFree(ctx context.Context, section string, questions, answers []string) (int, string, error) {
	if s.Scorer == nil {
		return 0, "", fmt.Errorf("%w: no evaluator configured", ErrEvaluation)
	}
	sum := 0
	var feedback []string
	for i, q := range questions {
		var answer string
		if i < len(answers) {
			answer = answers[i]
		}
		score, ev, err := s.Scorer.ScoreFinal(ctx, section, q, answer)
		if err != nil {
			return 0, "", fmt.Errorf("%w: %w", ErrEvaluation, err)
		}
		sum += score
		if ev.Feedback != "" {
			feedback = append(feedback, ev.Feedback)
		}
	}
	avg := int(math.Round(float64(sum) / float64(len(questions))))
	return avg, strings.Join(feedback, "\n"), nil
}

func questionAt(exam *examModel.ExamModel, i int) string {
	if i < len(exam.ExamQuestions) {
		return exam.ExamQuestions[i].Question
	}
	if len(exam.ExamTopics) > 0 {
		return exam.ExamTopics[0]
	}
	return exam.ExamTitle
}

// attachExam adds the current section's questions, without answer keys.
func (s *Service) attachExam(ctx context.Context, v *dto.AttemptView) {
	if v.CurrentSection == "" || s.Exams == nil {
		return
	}
	exam, err := s.Exams.Find(ctx, constants.ExamKindFinal, v.CurrentSection, "")
	if err != nil {
		log.Printf("[WARN] final exam %s section unavailable: %v", v.CurrentSection, err)
		return
	}
	pub := examDTO.ToPublic(exam)
	v.Exam = &pub
}
