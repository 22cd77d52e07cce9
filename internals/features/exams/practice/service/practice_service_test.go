package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"englishku_backend/internals/constants"
	evaluation "englishku_backend/internals/features/ai/evaluation/service"
	examModel "englishku_backend/internals/features/exams/exams/model"
	exams "englishku_backend/internals/features/exams/exams/service"
	"englishku_backend/internals/features/exams/scoring"
	xp "englishku_backend/internals/features/progress/xp/service"
	"englishku_backend/internals/helpers/llm"
)

type planOf string

func (p planOf) Plan(context.Context, uuid.UUID) (string, error) { return string(p), nil }

type rewards struct{ labels []string }

func (r *rewards) GrantLabel(_ context.Context, _ uuid.UUID, label string) (*xp.GrantResult, error) {
	r.labels = append(r.labels, label)
	return &xp.GrantResult{Label: label, Granted: true, Amount: 15}, nil
}

func practiceStore() *exams.MemoryStore {
	return exams.NewMemoryStore(
		examModel.ExamModel{ExamKind: constants.ExamKindPractice, ExamType: constants.SectionReading,
			ExamQuestions: []examModel.Question{
				{Question: "1", Options: []string{"a", "b"}, CorrectAnswer: 0},
				{Question: "2", Options: []string{"a", "b"}, CorrectAnswer: 0},
				{Question: "3", Options: []string{"a", "b"}, CorrectAnswer: 0},
				{Question: "4", Options: []string{"a", "b"}, CorrectAnswer: 0},
			}},
		examModel.ExamModel{ExamKind: constants.ExamKindPractice, ExamType: constants.SectionWriting,
			ExamQuestions: []examModel.Question{
				{Question: "Describe your weekend", MinWords: 5},
				{Question: "Write a short note", MinWords: 3, MaxWords: 10},
			}},
		examModel.ExamModel{ExamKind: constants.ExamKindPractice, ExamType: constants.SectionSpeaking,
			ExamTopics: []string{"Your favourite food"}},
	)
}

func newPractice(plan string, replies ...llm.MockResponse) (*Service, *rewards, *llm.MockProvider) {
	p := llm.NewMockProvider(replies...)
	r := &rewards{}
	return NewService(practiceStore(), evaluation.NewEvaluator(&llm.Client{Provider: p}), planOf(plan), r), r, p
}

func TestReadingPractice(t *testing.T) {
	ctx := context.Background()
	s, r, _ := newPractice(constants.PlanBasic)
	user := uuid.New()

	res, err := s.Submit(ctx, user, constants.SectionReading, Answer{Answers: []string{"a", "a", "b"}})
	require.NoError(t, err)
	assert.Equal(t, 2, res.Correct)
	assert.Equal(t, 4, res.Total)
	assert.True(t, res.Passed)
	assert.Equal(t, []string{constants.XPLabelReading}, r.labels)

	res, err = s.Submit(ctx, user, constants.SectionReading, Answer{Answers: []string{"a"}})
	require.NoError(t, err)
	assert.False(t, res.Passed)
	assert.Nil(t, res.XP)
}

func TestWritingPracticeWordLimits(t *testing.T) {
	ctx := context.Background()
	s, r, p := newPractice(constants.PlanPro)

	res, err := s.Submit(ctx, uuid.New(), constants.SectionWriting, Answer{Answers: []string{"too short", strings.Repeat("word ", 11)}})
	require.NoError(t, err)
	assert.False(t, res.Passed)
	require.Len(t, res.WordIssues, 2)
	assert.Equal(t, 2, res.WordIssues[0].Words)
	assert.Equal(t, 11, res.WordIssues[1].Words)
	assert.Zero(t, p.CallCount(), "word limits are checked before evaluation")
	assert.Empty(t, r.labels)
}

func TestWritingPracticeVerdicts(t *testing.T) {
	ctx := context.Background()
	answers := Answer{Answers: []string{"I went hiking with my family", "Meet me at noon"}}

	s, r, _ := newPractice(constants.PlanPro,
		llm.Text(`{"verdict":"PASS","score":7,"feedback":"good"}`), llm.Text("PASS"))
	res, err := s.Submit(ctx, uuid.New(), constants.SectionWriting, answers)
	require.NoError(t, err)
	assert.True(t, res.Passed)
	assert.Equal(t, []string{scoring.VerdictPass, scoring.VerdictPass}, res.Verdicts)
	assert.Equal(t, []string{constants.XPLabelWriting}, r.labels)

	s, _, _ = newPractice(constants.PlanPro, llm.Text("PASS"), llm.Text("FAIL"))
	res, err = s.Submit(ctx, uuid.New(), constants.SectionWriting, answers)
	require.NoError(t, err)
	assert.False(t, res.Passed)

	s, _, _ = newPractice(constants.PlanPro, llm.MockResponse{Err: &llm.ErrProviderUnavailable{Err: errors.New("x")}})
	_, err = s.Submit(ctx, uuid.New(), constants.SectionWriting, answers)
	assert.ErrorIs(t, err, ErrEvaluation)
}

func TestSpeakingPractice(t *testing.T) {
	ctx := context.Background()
	s, r, p := newPractice(constants.PlanBasic, llm.Text("PASS"))

	res, err := s.Submit(ctx, uuid.New(), constants.SectionSpeaking, Answer{Transcript: "I love biryani because"})
	require.NoError(t, err)
	assert.True(t, res.Passed)
	assert.Contains(t, p.Calls[0].Messages[0].Content, "Your favourite food")
	assert.Equal(t, []string{constants.XPLabelSpeaking}, r.labels)

	res, err = s.Submit(ctx, uuid.New(), constants.SectionSpeaking, Answer{})
	require.NoError(t, err)
	assert.False(t, res.Passed)
}

func TestPracticeRequiresPlan(t *testing.T) {
	ctx := context.Background()
	s, _, _ := newPractice("")

	_, err := s.Exam(ctx, uuid.New(), constants.SectionReading)
	assert.ErrorIs(t, err, ErrPlanRequired)

	s, _, _ = newPractice(constants.PlanBasic)
	_, err = s.Exam(ctx, uuid.New(), "grammar")
	assert.ErrorIs(t, err, ErrUnknownType)
	_, err = s.Exam(ctx, uuid.New(), constants.SectionListening)
	assert.ErrorIs(t, err, exams.ErrExamNotFound)

	pub, err := s.Exam(ctx, uuid.New(), constants.SectionReading)
	require.NoError(t, err)
	assert.Len(t, pub.Questions, 4)
}
