package dto

import (
	"strings"

	"englishku_backend/internals/features/content/chapters/model"
	helper "englishku_backend/internals/helpers"
)

// Chapter ids join lesson ids with "-" in progress keys, so derived chapter
// ids use "_" instead.

type ChapterRequest struct {
	ChapterID       string `json:"chapter_id" validate:"omitempty,max=50,excludesall=-"`
	Title           string `json:"title" validate:"required,max=200"`
	Description     string `json:"description"`
	Position        int    `json:"position" validate:"min=0"`
	DurationMinutes int    `json:"duration_minutes" validate:"min=0"`
	ExamEnabled     *bool  `json:"exam_enabled"`
}

func (r *ChapterRequest) ToModel() model.ChapterModel {
	id := strings.TrimSpace(r.ChapterID)
	if id == "" {
		id = helper.Slugify(r.Title, "_", 50)
	}
	m := model.ChapterModel{
		ChapterID:              id,
		ChapterTitle:           strings.TrimSpace(r.Title),
		ChapterDescription:     strings.TrimSpace(r.Description),
		ChapterPosition:        r.Position,
		ChapterDurationMinutes: r.DurationMinutes,
		ChapterExamEnabled:     true,
	}
	if r.ExamEnabled != nil {
		m.ChapterExamEnabled = *r.ExamEnabled
	}
	return m
}

type LessonRequest struct {
	LessonID        string `json:"lesson_id" validate:"omitempty,max=50"`
	Title           string `json:"title" validate:"required,max=200"`
	VideoURL        string `json:"video_url" validate:"omitempty,url"`
	DurationMinutes int    `json:"duration_minutes" validate:"min=0"`
	Position        int    `json:"position" validate:"min=0"`
}

func (r *LessonRequest) ToModel(chapterID string) model.LessonModel {
	d := r.DurationMinutes
	if d == 0 {
		d = 15
	}
	id := strings.TrimSpace(r.LessonID)
	if id == "" {
		id = helper.Slugify(r.Title, "-", 50)
	}
	return model.LessonModel{
		LessonChapterID:       chapterID,
		LessonID:              id,
		LessonTitle:           strings.TrimSpace(r.Title),
		LessonVideoURL:        strings.TrimSpace(r.VideoURL),
		LessonDurationMinutes: d,
		LessonPosition:        r.Position,
	}
}

// LessonView is a lesson as seen by one user.
type LessonView struct {
	LessonID        string `json:"lesson_id"`
	Title           string `json:"title"`
	VideoURL        string `json:"video_url,omitempty"`
	DurationMinutes int    `json:"duration_minutes"`
	Completed       bool   `json:"completed"`
}

// ChapterView is a chapter with the user's lock and completion state.
type ChapterView struct {
	ChapterID        string       `json:"chapter_id"`
	Title            string       `json:"title"`
	Description      string       `json:"description,omitempty"`
	Index            int          `json:"index"`
	DurationMinutes  int          `json:"duration_minutes"`
	ExamEnabled      bool         `json:"exam_enabled"`
	Locked           bool         `json:"locked"`
	ExamUnlocked     bool         `json:"exam_unlocked"`
	ExamCompleted    bool         `json:"exam_completed"`
	Completed        bool         `json:"completed"`
	LessonsTotal     int          `json:"lessons_total"`
	LessonsCompleted int          `json:"lessons_completed"`
	Lessons          []LessonView `json:"lessons"`
}

type CatalogView struct {
	Plan              string        `json:"plan,omitempty"`
	Chapters          []ChapterView `json:"chapters"`
	FinalExamUnlocked bool          `json:"final_exam_unlocked"`
}
