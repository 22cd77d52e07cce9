package service

import (
	"englishku_backend/internals/features/content/chapters/dto"
	"englishku_backend/internals/features/content/chapters/model"
	lessonmodel "englishku_backend/internals/features/progress/lessons/model"
	lessons "englishku_backend/internals/features/progress/lessons/service"
	gate "englishku_backend/internals/features/subscriptions/subscription/service"
)

// BuildView decorates the ordered catalog with one user's lock and
// completion state. plan is "" when the user has no active plan.
func BuildView(chapters []model.ChapterModel, p *lessonmodel.UserProgress, plan string) dto.CatalogView {
	out := dto.CatalogView{Plan: plan, Chapters: make([]dto.ChapterView, 0, len(chapters))}
	allDone := true
	for i, ch := range chapters {
		v := dto.ChapterView{
			ChapterID:       ch.ChapterID,
			Title:           ch.ChapterTitle,
			Description:     ch.ChapterDescription,
			Index:           i,
			DurationMinutes: ch.ChapterDurationMinutes,
			ExamEnabled:     ch.ChapterExamEnabled,
			Locked:          gate.IsChapterLocked(plan, i),
			ExamCompleted:   lessons.IsExamDone(p, ch.ChapterID),
			Completed:       lessons.IsChapterDone(p, ch.ChapterID),
			LessonsTotal:    len(ch.Lessons),
			Lessons:         make([]dto.LessonView, 0, len(ch.Lessons)),
		}
		for _, l := range ch.Lessons {
			done := lessons.IsLessonDone(p, ch.ChapterID, l.LessonID)
			if done {
				v.LessonsCompleted++
			}
			v.Lessons = append(v.Lessons, dto.LessonView{
				LessonID:        l.LessonID,
				Title:           l.LessonTitle,
				VideoURL:        l.LessonVideoURL,
				DurationMinutes: l.LessonDurationMinutes,
				Completed:       done,
			})
		}
		if v.Locked {
			// locked chapters do not leak their video links
			for j := range v.Lessons {
				v.Lessons[j].VideoURL = ""
			}
		}
		v.ExamUnlocked = !v.Locked && ch.ChapterExamEnabled && v.LessonsCompleted == v.LessonsTotal
		if !v.Completed {
			allDone = false
		}
		out.Chapters = append(out.Chapters, v)
	}
	out.FinalExamUnlocked = allDone && gate.HasActivePlan(plan)
	return out
}
