package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"englishku_backend/internals/constants"
	"englishku_backend/internals/features/exams/exams/model"
)

func TestValidateQuestions(t *testing.T) {
	reading := &model.ExamModel{ExamKind: constants.ExamKindPractice, ExamType: constants.SectionReading,
		ExamQuestions: []model.Question{{Question: "q", Options: []string{"A", "B"}, CorrectAnswer: 1}}}
	assert.NoError(t, ValidateQuestions(reading))

	reading.ExamQuestions[0].CorrectAnswer = 2
	assert.Error(t, ValidateQuestions(reading))

	writing := &model.ExamModel{ExamKind: constants.ExamKindPractice, ExamType: constants.SectionWriting,
		ExamQuestions: []model.Question{{Question: "describe", MinWords: 30}}}
	assert.NoError(t, ValidateQuestions(writing))

	writing.ExamQuestions[0].MaxWords = 10
	assert.Error(t, ValidateQuestions(writing))
}

func TestMemoryStoreFind(t *testing.T) {
	ch := "3"
	store := NewMemoryStore(
		model.ExamModel{ExamKind: constants.ExamKindPractice, ExamType: constants.SectionReading, ExamTitle: "old"},
		model.ExamModel{ExamKind: constants.ExamKindPractice, ExamType: constants.SectionReading, ExamTitle: "new"},
		model.ExamModel{ExamKind: constants.ExamKindChapter, ExamType: constants.SectionReading, ExamChapterID: &ch, ExamTitle: "ch3"},
	)
	ctx := context.Background()

	e, err := store.Find(ctx, constants.ExamKindPractice, constants.SectionReading, "")
	require.NoError(t, err)
	assert.Equal(t, "new", e.ExamTitle)

	e, err = store.Find(ctx, constants.ExamKindChapter, "", "3")
	require.NoError(t, err)
	assert.Equal(t, "ch3", e.ExamTitle)

	_, err = store.Find(ctx, constants.ExamKindFinal, constants.SectionReading, "")
	assert.ErrorIs(t, err, ErrExamNotFound)
}
