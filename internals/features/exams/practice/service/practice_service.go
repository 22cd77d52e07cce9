package service

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/google/uuid"

	"englishku_backend/internals/constants"
	evaluation "englishku_backend/internals/features/ai/evaluation/service"
	examDTO "englishku_backend/internals/features/exams/exams/dto"
	examModel "englishku_backend/internals/features/exams/exams/model"
	exams "englishku_backend/internals/features/exams/exams/service"
	"englishku_backend/internals/features/exams/practice/dto"
	"englishku_backend/internals/features/exams/scoring"
	xp "englishku_backend/internals/features/progress/xp/service"
)

var (
	ErrPlanRequired = errors.New("practice exams need an active plan")
	ErrUnknownType  = errors.New("unknown practice type")
	ErrEvaluation   = errors.New("answer evaluation failed")
)

type Evaluator interface {
	EvaluateWriting(ctx context.Context, text string) (scoring.Evaluation, error)
	EvaluateSpeaking(ctx context.Context, transcript, topic string) (scoring.Evaluation, error)
}

type PlanSource interface {
	Plan(ctx context.Context, userID uuid.UUID) (string, error)
}

type Rewarder interface {
	GrantLabel(ctx context.Context, userID uuid.UUID, label string) (*xp.GrantResult, error)
}

type Answer struct {
	Answers    []string
	Transcript string
}

type Service struct {
	Exams   exams.Store
	Eval    Evaluator
	Plans   PlanSource
	Rewards Rewarder
}

func NewService(store exams.Store, eval Evaluator, plans PlanSource, rewards Rewarder) *Service {
	return &Service{Exams: store, Eval: eval, Plans: plans, Rewards: rewards}
}

// Exam returns the practice set for section without answer keys.
func (s *Service) Exam(ctx context.Context, userID uuid.UUID, section string) (*examDTO.PublicExam, error) {
	e, err := s.load(ctx, userID, section)
	if err != nil {
		return nil, err
	}
	pub := examDTO.ToPublic(e)
	return &pub, nil
}

// Submit grades a practice attempt. A pass grants the section's XP, once
// per day.
func (s *Service) Submit(ctx context.Context, userID uuid.UUID, section string, ans Answer) (*dto.PracticeResult, error) {
	e, err := s.load(ctx, userID, section)
	if err != nil {
		return nil, err
	}

	res := &dto.PracticeResult{Type: section}
	switch section {
	case constants.SectionReading, constants.SectionListening:
		res.Correct, res.Total = scoring.ScoreObjectiveSet(e.ExamQuestions, ans.Answers)
		res.Passed = scoring.ObjectivePassed(res.Correct, res.Total)
	case constants.SectionWriting:
		if err := s.gradeWriting(ctx, e, ans.Answers, res); err != nil {
			return nil, err
		}
	case constants.SectionSpeaking:
		if err := s.gradeSpeaking(ctx, e, ans, res); err != nil {
			return nil, err
		}
	}

	if res.Passed && s.Rewards != nil {
		g, err := s.Rewards.GrantLabel(ctx, userID, section)
		if err != nil {
			log.Printf("[ERROR] practice xp %s user=%s: %v", section, userID, err)
		}
		res.XP = g
	}
	return res, nil
}

func (s *Service) load(ctx context.Context, userID uuid.UUID, section string) (*examModel.ExamModel, error) {
	if userID == uuid.Nil {
		return nil, xp.ErrMissingUser
	}
	if !constants.IsSection(section) {
		return nil, fmt.Errorf("%w: %q", ErrUnknownType, section)
	}
	if s.Plans != nil {
		plan, err := s.Plans.Plan(ctx, userID)
		if err != nil {
			return nil, err
		}
		if plan == "" {
			return nil, ErrPlanRequired
		}
	}
	return s.Exams.Find(ctx, constants.ExamKindPractice, section, "")
}

// gradeWriting checks word limits first; only answers within limits are
// sent for evaluation. Every answer must be judged PASS.
func (s *Service) gradeWriting(ctx context.Context, e *examModel.ExamModel, answers []string, res *dto.PracticeResult) error {
	for i, q := range e.ExamQuestions {
		n := scoring.WordCount(at(answers, i))
		if (q.MinWords > 0 && n < q.MinWords) || (q.MaxWords > 0 && n > q.MaxWords) {
			res.WordIssues = append(res.WordIssues, dto.WordCountIssue{
				Question: i, Words: n, MinWords: q.MinWords, MaxWords: q.MaxWords,
			})
		}
	}
	if len(res.WordIssues) > 0 || len(e.ExamQuestions) == 0 {
		return nil
	}

	res.Passed = true
	for i := range e.ExamQuestions {
		ev, err := s.Eval.EvaluateWriting(ctx, at(answers, i))
		if errors.Is(err, evaluation.ErrEmptyInput) {
			ev = scoring.Evaluation{Verdict: scoring.VerdictFail}
		} else if err != nil {
			return fmt.Errorf("%w: %w", ErrEvaluation, err)
		}
		res.Verdicts = append(res.Verdicts, ev.Verdict)
		if ev.Feedback != "" {
			res.Feedback = append(res.Feedback, ev.Feedback)
		}
		if ev.Verdict != scoring.VerdictPass {
			res.Passed = false
		}
	}
	return nil
}

func (s *Service) gradeSpeaking(ctx context.Context, e *examModel.ExamModel, ans Answer, res *dto.PracticeResult) error {
	transcript := ans.Transcript
	if transcript == "" {
		transcript = at(ans.Answers, 0)
	}
	res.Transcript = transcript

	topic := e.ExamTitle
	if len(e.ExamTopics) > 0 {
		topic = e.ExamTopics[0]
	} else if len(e.ExamQuestions) > 0 {
		topic = e.ExamQuestions[0].Question
	}
	ev, err := s.Eval.EvaluateSpeaking(ctx, transcript, topic)
	if errors.Is(err, evaluation.ErrEmptyInput) {
		res.Verdicts = []string{scoring.VerdictFail}
		return nil
	}
	if err != nil {
		return fmt.Errorf("%w: %w", ErrEvaluation, err)
	}
	res.Verdicts = []string{ev.Verdict}
	if ev.Feedback != "" {
		res.Feedback = []string{ev.Feedback}
	}
	res.Passed = ev.Verdict == scoring.VerdictPass
	return nil
}

func at(xs []string, i int) string {
	if i < len(xs) {
		return xs[i]
	}
	return ""
}
