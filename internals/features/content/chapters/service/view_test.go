package service

import (
	"fmt"
	"testing"
	"time"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"englishku_backend/internals/constants"
	"englishku_backend/internals/features/content/chapters/model"
	lessonmodel "englishku_backend/internals/features/progress/lessons/model"
	lessons "englishku_backend/internals/features/progress/lessons/service"
)

func sampleChapters(n int) []model.ChapterModel {
	out := make([]model.ChapterModel, n)
	for i := range out {
		id := fmt.Sprint(i + 1)
		out[i] = model.ChapterModel{
			ChapterID:          id,
			ChapterTitle:       "Chapter " + id,
			ChapterExamEnabled: true,
			Lessons: []model.LessonModel{
				{LessonChapterID: id, LessonID: "a", LessonTitle: "A", LessonVideoURL: "https://v/" + id + "/a"},
				{LessonChapterID: id, LessonID: "b", LessonTitle: "B", LessonVideoURL: "https://v/" + id + "/b"},
			},
		}
	}
	return out
}

func TestBuildViewLocks(t *testing.T) {
	p := &lessonmodel.UserProgress{}
	v := BuildView(sampleChapters(7), p, constants.PlanBasic)
	require.Len(t, v.Chapters, 7)
	for i, ch := range v.Chapters {
		assert.Equal(t, i >= 5, ch.Locked, "chapter index %d", i)
	}
	assert.Empty(t, v.Chapters[6].Lessons[0].VideoURL)
	assert.NotEmpty(t, v.Chapters[0].Lessons[0].VideoURL)

	none := BuildView(sampleChapters(2), p, "")
	assert.True(t, none.Chapters[0].Locked)
	assert.False(t, none.FinalExamUnlocked)
}

func TestBuildViewCompletion(t *testing.T) {
	p := &lessonmodel.UserProgress{}
	now := time.Now()
	lessons.MarkLesson(p, "1", "a", now)
	lessons.MarkLesson(p, "1", "b", now)
	lessons.MarkLesson(p, "2", "a", now)
	p.UserProgressCompletedExams = pq.StringArray{"1"}
	lessons.MarkChapterIfEligible(p, "1", []string{"a", "b"})

	v := BuildView(sampleChapters(2), p, constants.PlanPro)
	assert.True(t, v.Chapters[0].Completed)
	assert.Equal(t, 2, v.Chapters[0].LessonsCompleted)
	assert.Equal(t, 1, v.Chapters[1].LessonsCompleted)
	assert.False(t, v.Chapters[1].ExamUnlocked)
	assert.True(t, v.Chapters[1].Lessons[0].Completed)
	assert.False(t, v.FinalExamUnlocked)

	lessons.MarkLesson(p, "2", "b", now)
	p.UserProgressCompletedExams = append(p.UserProgressCompletedExams, "2")
	lessons.MarkChapterIfEligible(p, "2", []string{"a", "b"})
	assert.True(t, BuildView(sampleChapters(2), p, constants.PlanPro).FinalExamUnlocked)
}

func TestRefsIndex(t *testing.T) {
	refs := Refs(sampleChapters(3))
	require.Len(t, refs, 3)
	assert.Equal(t, 2, refs[2].Index)
	assert.Equal(t, 2, refs[2].TotalLessons())
	assert.True(t, refs[0].HasLesson("b"))
}
