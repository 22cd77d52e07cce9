package dto

type MarkLessonRequest struct {
	ChapterID string `json:"chapter_id" validate:"required,max=50"`
	LessonID  string `json:"lesson_id" validate:"required,max=50"`
}

// ChapterExamSubmission carries one selected option text per question.
type ChapterExamSubmission struct {
	Answers []string `json:"answers" validate:"required,min=1"`
}

type ChapterExamResult struct {
	Correct int  `json:"correct"`
	Total   int  `json:"total"`
	Passed  bool `json:"passed"`
	// Mark is set when a passing attempt was recorded.
	Mark any `json:"mark,omitempty"`
}
