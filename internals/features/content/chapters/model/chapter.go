package model

import "time"

type ChapterModel struct {
	ChapterID              string    `gorm:"column:chapter_id;size:50;primaryKey" json:"chapter_id"`
	ChapterTitle           string    `gorm:"column:chapter_title;size:200;not null" json:"chapter_title"`
	ChapterDescription     string    `gorm:"column:chapter_description" json:"chapter_description"`
	ChapterPosition        int       `gorm:"column:chapter_position;not null;default:0;index" json:"chapter_position"`
	ChapterDurationMinutes int       `gorm:"column:chapter_duration_minutes;not null;default:0" json:"chapter_duration_minutes"`
	ChapterExamEnabled     bool      `gorm:"column:chapter_exam_enabled;not null;default:true" json:"chapter_exam_enabled"`
	CreatedAt              time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt              time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`

	Lessons []LessonModel `gorm:"foreignKey:LessonChapterID;references:ChapterID;constraint:OnDelete:CASCADE" json:"lessons,omitempty"`
}

func (ChapterModel) TableName() string {
	return "chapters"
}

type LessonModel struct {
	LessonChapterID       string    `gorm:"column:lesson_chapter_id;size:50;primaryKey" json:"lesson_chapter_id"`
	LessonID              string    `gorm:"column:lesson_id;size:50;primaryKey" json:"lesson_id"`
	LessonTitle           string    `gorm:"column:lesson_title;size:200;not null" json:"lesson_title"`
	LessonVideoURL        string    `gorm:"column:lesson_video_url" json:"lesson_video_url"`
	LessonDurationMinutes int       `gorm:"column:lesson_duration_minutes;not null;default:15" json:"lesson_duration_minutes"`
	LessonPosition        int       `gorm:"column:lesson_position;not null;default:0" json:"lesson_position"`
	CreatedAt             time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt             time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (LessonModel) TableName() string {
	return "lessons"
}
