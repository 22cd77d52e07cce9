package dto

import (
	xp "englishku_backend/internals/features/progress/xp/service"
)

type PracticeSubmission struct {
	Answers    []string `json:"answers" validate:"omitempty,max=50,dive,max=10000"`
	Transcript string   `json:"transcript" validate:"max=10000"`
}

// WordCountIssue flags a writing answer outside its word limits.
type WordCountIssue struct {
	Question int `json:"question"`
	Words    int `json:"words"`
	MinWords int `json:"min_words,omitempty"`
	MaxWords int `json:"max_words,omitempty"`
}

type PracticeResult struct {
	Type         string           `json:"type"`
	Passed       bool             `json:"passed"`
	Correct      int              `json:"correct"`
	Total        int              `json:"total"`
	Verdicts     []string         `json:"verdicts,omitempty"`
	WordIssues   []WordCountIssue `json:"word_issues,omitempty"`
	Transcript   string           `json:"transcript,omitempty"`
	Feedback     []string         `json:"feedback,omitempty"`
	RecordingURL string           `json:"recording_url,omitempty"`
	XP           *xp.GrantResult  `json:"xp,omitempty"`
}
