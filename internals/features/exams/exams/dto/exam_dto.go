package dto

import (
	"strings"

	"github.com/google/uuid"

	"englishku_backend/internals/features/exams/exams/model"
)

type QuestionRequest struct {
	Question      string   `json:"question" validate:"required"`
	Options       []string `json:"options" validate:"omitempty,min=2,dive,required"`
	CorrectAnswer int      `json:"correct_answer" validate:"min=0"`
	MinWords      int      `json:"min_words" validate:"min=0"`
	MaxWords      int      `json:"max_words" validate:"min=0"`
	ImageURL      string   `json:"image_url" validate:"omitempty,url"`
}

type ExamRequest struct {
	Kind      string            `json:"kind" validate:"required,oneof=practice final chapter"`
	Type      string            `json:"type" validate:"required,oneof=reading writing speaking listening"`
	ChapterID *string           `json:"chapter_id" validate:"required_if=Kind chapter"`
	Title     string            `json:"title" validate:"required,max=200"`
	Passage   string            `json:"passage"`
	AudioURL  string            `json:"audio_url" validate:"omitempty,url"`
	Questions []QuestionRequest `json:"questions" validate:"required,min=1,dive"`
	Topics    []string          `json:"topics"`
}

func (r *ExamRequest) ToModel() model.ExamModel {
	qs := make([]model.Question, len(r.Questions))
	for i, q := range r.Questions {
		qs[i] = model.Question{
			Question:      strings.TrimSpace(q.Question),
			Options:       q.Options,
			CorrectAnswer: q.CorrectAnswer,
			MinWords:      q.MinWords,
			MaxWords:      q.MaxWords,
			ImageURL:      q.ImageURL,
		}
	}
	return model.ExamModel{
		ExamKind:      r.Kind,
		ExamType:      r.Type,
		ExamChapterID: r.ChapterID,
		ExamTitle:     strings.TrimSpace(r.Title),
		ExamPassage:   r.Passage,
		ExamAudioURL:  r.AudioURL,
		ExamQuestions: qs,
		ExamTopics:    r.Topics,
	}
}

// PublicQuestion hides the answer key.
type PublicQuestion struct {
	Question string   `json:"question"`
	Options  []string `json:"options,omitempty"`
	MinWords int      `json:"min_words,omitempty"`
	MaxWords int      `json:"max_words,omitempty"`
	ImageURL string   `json:"image_url,omitempty"`
}

type PublicExam struct {
	ExamID    uuid.UUID        `json:"exam_id"`
	Kind      string           `json:"kind"`
	Type      string           `json:"type"`
	Title     string           `json:"title"`
	Passage   string           `json:"passage,omitempty"`
	AudioURL  string           `json:"audio_url,omitempty"`
	Questions []PublicQuestion `json:"questions"`
	Topics    []string         `json:"topics,omitempty"`
}

func ToPublic(e *model.ExamModel) PublicExam {
	qs := make([]PublicQuestion, len(e.ExamQuestions))
	for i, q := range e.ExamQuestions {
		qs[i] = PublicQuestion{
			Question: q.Question,
			Options:  q.Options,
			MinWords: q.MinWords,
			MaxWords: q.MaxWords,
			ImageURL: q.ImageURL,
		}
	}
	return PublicExam{
		ExamID:    e.ExamID,
		Kind:      e.ExamKind,
		Type:      e.ExamType,
		Title:     e.ExamTitle,
		Passage:   e.ExamPassage,
		AudioURL:  e.ExamAudioURL,
		Questions: qs,
		Topics:    e.ExamTopics,
	}
}
