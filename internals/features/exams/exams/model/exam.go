package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Question covers both kinds: objective questions use Options and
// CorrectAnswer (an index into Options); free-response ones use the word
// limits and an optional image prompt.
type Question struct {
	Question      string   `json:"question"`
	Options       []string `json:"options,omitempty"`
	CorrectAnswer int      `json:"correct_answer"`
	MinWords      int      `json:"min_words,omitempty"`
	MaxWords      int      `json:"max_words,omitempty"`
	ImageURL      string   `json:"image_url,omitempty"`
}

type ExamModel struct {
	ExamID        uuid.UUID                     `gorm:"column:exam_id;type:uuid;default:gen_random_uuid();primaryKey" json:"exam_id"`
	ExamKind      string                        `gorm:"column:exam_kind;size:20;not null;index:idx_exam_lookup,priority:1" json:"exam_kind"`
	ExamType      string                        `gorm:"column:exam_type;size:20;not null;index:idx_exam_lookup,priority:2" json:"exam_type"`
	ExamChapterID *string                       `gorm:"column:exam_chapter_id;size:50;index" json:"exam_chapter_id,omitempty"`
	ExamTitle     string                        `gorm:"column:exam_title;size:200;not null" json:"exam_title"`
	ExamPassage   string                        `gorm:"column:exam_passage" json:"exam_passage,omitempty"`
	ExamAudioURL  string                        `gorm:"column:exam_audio_url" json:"exam_audio_url,omitempty"`
	ExamQuestions datatypes.JSONSlice[Question] `gorm:"column:exam_questions;type:jsonb" json:"exam_questions"`
	ExamTopics    datatypes.JSONSlice[string]   `gorm:"column:exam_topics;type:jsonb" json:"exam_topics,omitempty"`
	CreatedAt     time.Time                     `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time                     `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (ExamModel) TableName() string {
	return "exams"
}
