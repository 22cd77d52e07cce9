package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

const (
	AttemptInProgress = "in_progress"
	AttemptCompleted  = "completed"
)

// SectionScores maps section type to its 0..10 score.
type SectionScores map[string]int

// FinalAttemptModel is one sitting of the final exam. A user has at most one
// in-progress attempt.
type FinalAttemptModel struct {
	FinalAttemptID           uuid.UUID                         `gorm:"column:final_attempt_id;type:uuid;default:gen_random_uuid();primaryKey" json:"attempt_id"`
	FinalAttemptUserID       uuid.UUID                         `gorm:"column:final_attempt_user_id;type:uuid;not null;index:idx_final_attempt_user;uniqueIndex:uq_final_attempt_open,where:final_attempt_status = 'in_progress'" json:"user_id"`
	FinalAttemptSectionIndex int                               `gorm:"column:final_attempt_section_index;not null;default:0" json:"section_index"`
	FinalAttemptScores       datatypes.JSONType[SectionScores] `gorm:"column:final_attempt_scores;type:jsonb" json:"scores"`
	FinalAttemptStatus       string                            `gorm:"column:final_attempt_status;size:20;not null;default:in_progress" json:"status"`
	FinalAttemptTotal        int                               `gorm:"column:final_attempt_total;not null;default:0" json:"total"`
	FinalAttemptPassed       bool                              `gorm:"column:final_attempt_passed;not null;default:false" json:"passed"`
	FinalAttemptStartedAt    time.Time                         `gorm:"column:final_attempt_started_at;not null" json:"started_at"`
	FinalAttemptCompletedAt  *time.Time                        `gorm:"column:final_attempt_completed_at" json:"completed_at,omitempty"`
	UpdatedAt                time.Time                         `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (FinalAttemptModel) TableName() string {
	return "final_exam_attempts"
}

// Scores returns a writable copy of the stored scores.
func (a *FinalAttemptModel) Scores() SectionScores {
	out := SectionScores{}
	for k, v := range a.FinalAttemptScores.Data() {
		out[k] = v
	}
	return out
}

func (a *FinalAttemptModel) SetScores(s SectionScores) {
	a.FinalAttemptScores = datatypes.NewJSONType(s)
}
