package service

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"englishku_backend/internals/features/content/chapters/model"
	lessons "englishku_backend/internals/features/progress/lessons/service"
)

// Catalog reads chapters and lessons in display order. It implements the
// lessons tracker's Catalog.
type Catalog struct {
	DB *gorm.DB
}

func NewCatalog(db *gorm.DB) *Catalog {
	return &Catalog{DB: db}
}

// Chapters returns every chapter with its lessons, ordered by position.
func (c *Catalog) Chapters(ctx context.Context) ([]model.ChapterModel, error) {
	var chapters []model.ChapterModel
	err := c.DB.WithContext(ctx).
		Preload("Lessons", func(db *gorm.DB) *gorm.DB {
			return db.Order("lesson_position ASC, lesson_id ASC")
		}).
		Order("chapter_position ASC, chapter_id ASC").
		Find(&chapters).Error
	return chapters, err
}

func (c *Catalog) All(ctx context.Context) ([]lessons.ChapterRef, error) {
	chapters, err := c.Chapters(ctx)
	if err != nil {
		return nil, err
	}
	return Refs(chapters), nil
}

func (c *Catalog) Locate(ctx context.Context, chapterID string) (*lessons.ChapterRef, error) {
	refs, err := c.All(ctx)
	if err != nil {
		return nil, err
	}
	for i := range refs {
		if refs[i].ChapterID == chapterID {
			return &refs[i], nil
		}
	}
	return nil, lessons.ErrChapterNotFound
}

// Refs converts ordered chapters to tracker refs; Index is the slice position.
func Refs(chapters []model.ChapterModel) []lessons.ChapterRef {
	refs := make([]lessons.ChapterRef, len(chapters))
	for i, ch := range chapters {
		ids := make([]string, len(ch.Lessons))
		for j, l := range ch.Lessons {
			ids[j] = l.LessonID
		}
		refs[i] = lessons.ChapterRef{
			ChapterID:   ch.ChapterID,
			Index:       i,
			LessonIDs:   ids,
			ExamEnabled: ch.ChapterExamEnabled,
		}
	}
	return refs
}

/* ===== admin writes ===== */

var ErrNotFound = errors.New("not found")

func (c *Catalog) CreateChapter(ctx context.Context, ch *model.ChapterModel) error {
	return c.DB.WithContext(ctx).Omit("Lessons").Create(ch).Error
}

func (c *Catalog) UpdateChapter(ctx context.Context, ch *model.ChapterModel) error {
	res := c.DB.WithContext(ctx).Model(&model.ChapterModel{}).
		Where("chapter_id = ?", ch.ChapterID).
		Updates(map[string]any{
			"chapter_title":            ch.ChapterTitle,
			"chapter_description":      ch.ChapterDescription,
			"chapter_position":         ch.ChapterPosition,
			"chapter_duration_minutes": ch.ChapterDurationMinutes,
			"chapter_exam_enabled":     ch.ChapterExamEnabled,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (c *Catalog) DeleteChapter(ctx context.Context, chapterID string) error {
	return c.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("lesson_chapter_id = ?", chapterID).Delete(&model.LessonModel{}).Error; err != nil {
			return err
		}
		res := tx.Where("chapter_id = ?", chapterID).Delete(&model.ChapterModel{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
}

// UpsertLesson creates or replaces a lesson of an existing chapter.
func (c *Catalog) UpsertLesson(ctx context.Context, l *model.LessonModel) error {
	return c.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var n int64
		if err := tx.Model(&model.ChapterModel{}).Where("chapter_id = ?", l.LessonChapterID).Count(&n).Error; err != nil {
			return err
		}
		if n == 0 {
			return ErrNotFound
		}
		return tx.Save(l).Error
	})
}

func (c *Catalog) DeleteLesson(ctx context.Context, chapterID, lessonID string) error {
	res := c.DB.WithContext(ctx).
		Where("lesson_chapter_id = ? AND lesson_id = ?", chapterID, lessonID).
		Delete(&model.LessonModel{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
