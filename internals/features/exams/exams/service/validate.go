package service

import (
	"fmt"

	"englishku_backend/internals/constants"
	"englishku_backend/internals/features/exams/exams/model"
)

// ValidateQuestions checks that objective sections carry a usable answer
// key. Chapter exams are always objective.
func ValidateQuestions(e *model.ExamModel) error {
	objective := e.ExamKind == constants.ExamKindChapter ||
		e.ExamType == constants.SectionReading ||
		e.ExamType == constants.SectionListening
	for i, q := range e.ExamQuestions {
		if objective {
			if len(q.Options) < 2 {
				return fmt.Errorf("question %d needs at least two options", i+1)
			}
			if q.CorrectAnswer < 0 || q.CorrectAnswer >= len(q.Options) {
				return fmt.Errorf("question %d: correct_answer out of range", i+1)
			}
		}
		if q.MaxWords > 0 && q.MinWords > q.MaxWords {
			return fmt.Errorf("question %d: min_words exceeds max_words", i+1)
		}
	}
	return nil
}
