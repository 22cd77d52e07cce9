package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/datatypes"
)

// CompletedLesson is one finished lesson, keyed "<chapterID>-<lessonID>".
type CompletedLesson struct {
	Key         string    `json:"key"`
	CompletedAt time.Time `json:"completed_at"`
}

// UserProgress is one row per user.
type UserProgress struct {
	UserProgressUserID            uuid.UUID                            `gorm:"column:user_progress_user_id;type:uuid;primaryKey" json:"user_progress_user_id"`
	UserProgressCompletedLessons  datatypes.JSONSlice[CompletedLesson] `gorm:"column:user_progress_completed_lessons;type:jsonb" json:"completed_lessons"`
	UserProgressCompletedExams    pq.StringArray                       `gorm:"column:user_progress_completed_exams;type:text[]" json:"completed_exams"`
	UserProgressCompletedChapters pq.StringArray                       `gorm:"column:user_progress_completed_chapters;type:text[]" json:"completed_chapters"`
	LastUpdated                   time.Time                            `gorm:"column:last_updated;autoUpdateTime" json:"last_updated"`
}

func (UserProgress) TableName() string {
	return "user_progress"
}

func LessonKey(chapterID, lessonID string) string {
	return chapterID + "-" + lessonID
}
