package service

import (
	"strings"
	"time"

	"englishku_backend/internals/features/progress/lessons/model"
)

// MarkLesson adds the lesson once. False when already present or when an id
// is missing.
func MarkLesson(p *model.UserProgress, chapterID, lessonID string, at time.Time) bool {
	if p == nil || chapterID == "" || lessonID == "" {
		return false
	}
	key := model.LessonKey(chapterID, lessonID)
	for _, l := range p.UserProgressCompletedLessons {
		if l.Key == key {
			return false
		}
	}
	p.UserProgressCompletedLessons = append(p.UserProgressCompletedLessons, model.CompletedLesson{Key: key, CompletedAt: at})
	return true
}

// MarkExam records the chapter exam as passed.
func MarkExam(p *model.UserProgress, chapterID string) bool {
	if p == nil || chapterID == "" || contains(p.UserProgressCompletedExams, chapterID) {
		return false
	}
	p.UserProgressCompletedExams = append(p.UserProgressCompletedExams, chapterID)
	return true
}

// LessonsDone counts completed lessons of chapterID that are still listed in
// lessonIDs. Keys of lessons removed from the catalog are ignored. The "-"
// suffix keeps chapter "1" from matching lessons of chapter "10".
func LessonsDone(p *model.UserProgress, chapterID string, lessonIDs []string) int {
	if p == nil || chapterID == "" || len(lessonIDs) == 0 {
		return 0
	}
	prefix := chapterID + "-"
	current := make(map[string]struct{}, len(lessonIDs))
	for _, id := range lessonIDs {
		current[id] = struct{}{}
	}
	n := 0
	for _, l := range p.UserProgressCompletedLessons {
		if !strings.HasPrefix(l.Key, prefix) {
			continue
		}
		id := strings.TrimPrefix(l.Key, prefix)
		if _, ok := current[id]; ok {
			delete(current, id)
			n++
		}
	}
	return n
}

// ChapterEligible: every lesson in lessonIDs done and the chapter exam passed.
func ChapterEligible(p *model.UserProgress, chapterID string, lessonIDs []string) bool {
	if p == nil || chapterID == "" || len(lessonIDs) == 0 {
		return false
	}
	return LessonsDone(p, chapterID, lessonIDs) == distinct(lessonIDs) && contains(p.UserProgressCompletedExams, chapterID)
}

// MarkChapterIfEligible reports whether the chapter moved to completed.
func MarkChapterIfEligible(p *model.UserProgress, chapterID string, lessonIDs []string) bool {
	if !ChapterEligible(p, chapterID, lessonIDs) || contains(p.UserProgressCompletedChapters, chapterID) {
		return false
	}
	p.UserProgressCompletedChapters = append(p.UserProgressCompletedChapters, chapterID)
	return true
}

func IsLessonDone(p *model.UserProgress, chapterID, lessonID string) bool {
	if p == nil {
		return false
	}
	key := model.LessonKey(chapterID, lessonID)
	for _, l := range p.UserProgressCompletedLessons {
		if l.Key == key {
			return true
		}
	}
	return false
}

func IsChapterDone(p *model.UserProgress, chapterID string) bool {
	return p != nil && contains(p.UserProgressCompletedChapters, chapterID)
}

func IsExamDone(p *model.UserProgress, chapterID string) bool {
	return p != nil && contains(p.UserProgressCompletedExams, chapterID)
}

// LessonsCompletedOn counts lessons finished on the calendar day of day in loc.
func LessonsCompletedOn(p *model.UserProgress, day string, loc *time.Location) int {
	if p == nil {
		return 0
	}
	if loc == nil {
		loc = time.UTC
	}
	n := 0
	for _, l := range p.UserProgressCompletedLessons {
		if l.CompletedAt.In(loc).Format("2006-01-02") == day {
			n++
		}
	}
	return n
}

func distinct(ids []string) int {
	seen := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		seen[id] = struct{}{}
	}
	return len(seen)
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}
