package details

import (
	"github.com/gofiber/fiber/v2"

	chapterRoute "englishku_backend/internals/features/content/chapters/route"
	examRoute "englishku_backend/internals/features/exams/exams/route"
	finalRoute "englishku_backend/internals/features/exams/final/route"
	practiceRoute "englishku_backend/internals/features/exams/practice/route"
	progressRoute "englishku_backend/internals/features/progress/lessons/route"
)

// LearningUserRoutes: catalog, lesson progress, chapter exams, practice and
// the final exam.
func LearningUserRoutes(user fiber.Router, s *Services) {
	chapterRoute.ChapterUserRoutes(user, s.Catalog, s.Progress)
	progressRoute.ProgressUserRoutes(user, s.Progress, s.Exams)
	practiceRoute.PracticeUserRoutes(user, s.Practice, s.Evaluator, s.Recordings)
	finalRoute.FinalExamUserRoutes(user, s.Final, s.Evaluator, s.Recordings)
}

func LearningAdminRoutes(admin fiber.Router, s *Services) {
	chapterRoute.ChapterAdminRoutes(admin, s.Catalog, s.Progress)
	examRoute.ExamAdminRoutes(admin, s.Exams)
}
