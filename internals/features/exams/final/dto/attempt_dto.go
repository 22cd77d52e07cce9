package dto

import (
	"github.com/google/uuid"

	"englishku_backend/internals/constants"
	examDTO "englishku_backend/internals/features/exams/exams/dto"
	"englishku_backend/internals/features/exams/final/model"
	xp "englishku_backend/internals/features/progress/xp/service"
)

// SectionSubmission is the JSON body for a section. Speaking may send the
// transcript here or upload "audio" as multipart instead.
type SectionSubmission struct {
	Answers    []string `json:"answers" validate:"omitempty,max=50,dive,max=10000"`
	Transcript string   `json:"transcript" validate:"max=10000"`
}

type AttemptView struct {
	AttemptID      uuid.UUID           `json:"attempt_id"`
	Status         string              `json:"status"`
	SectionIndex   int                 `json:"section_index"`
	CurrentSection string              `json:"current_section,omitempty"`
	Sections       []string            `json:"sections"`
	Scores         map[string]int      `json:"scores"`
	MaxTotal       int                 `json:"max_total"`
	PassMark       int                 `json:"pass_mark"`
	Total          *int                `json:"total,omitempty"`
	Passed         *bool               `json:"passed,omitempty"`
	Resumed        bool                `json:"resumed,omitempty"`
	Exam           *examDTO.PublicExam `json:"exam,omitempty"`
	Feedback       string              `json:"feedback,omitempty"`
	XP             *xp.GrantResult     `json:"xp,omitempty"`
	RedirectAfter  int                 `json:"redirect_after_seconds,omitempty"`
}

func NewAttemptView(a *model.FinalAttemptModel) *AttemptView {
	v := &AttemptView{
		AttemptID:    a.FinalAttemptID,
		Status:       a.FinalAttemptStatus,
		SectionIndex: a.FinalAttemptSectionIndex,
		Sections:     constants.SectionOrder,
		Scores:       a.Scores(),
		MaxTotal:     constants.SectionMaxScore * len(constants.SectionOrder),
		PassMark:     constants.FinalExamPassMark,
	}
	if a.FinalAttemptSectionIndex < len(constants.SectionOrder) {
		v.CurrentSection = constants.SectionOrder[a.FinalAttemptSectionIndex]
	}
	if a.FinalAttemptStatus == model.AttemptCompleted {
		total, passed := a.FinalAttemptTotal, a.FinalAttemptPassed
		v.Total, v.Passed = &total, &passed
		v.CurrentSection = ""
		v.RedirectAfter = constants.FinalRedirectSeconds
	}
	return v
}
