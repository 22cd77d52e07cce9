package service

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"englishku_backend/internals/constants"
	"englishku_backend/internals/features/exams/exams/model"
)

var ErrExamNotFound = errors.New("exam not found")

// Store looks exams up by kind and section type. For chapter exams,
// chapterID selects the chapter; it is ignored otherwise.
type Store interface {
	Find(ctx context.Context, kind, examType, chapterID string) (*model.ExamModel, error)
}

type GormStore struct {
	DB *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore { return &GormStore{DB: db} }

// Find returns the most recently created match.
func (s *GormStore) Find(ctx context.Context, kind, examType, chapterID string) (*model.ExamModel, error) {
	q := s.DB.WithContext(ctx).Where("exam_kind = ?", kind)
	if kind == constants.ExamKindChapter {
		q = q.Where("exam_chapter_id = ?", chapterID)
	} else {
		q = q.Where("exam_type = ?", examType)
	}
	var e model.ExamModel
	err := q.Order("created_at DESC").Take(&e).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrExamNotFound
	}
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func (s *GormStore) Create(ctx context.Context, e *model.ExamModel) error {
	return s.DB.WithContext(ctx).Create(e).Error
}

func (s *GormStore) Update(ctx context.Context, id uuid.UUID, e *model.ExamModel) error {
	e.ExamID = id
	res := s.DB.WithContext(ctx).Model(&model.ExamModel{}).Where("exam_id = ?", id).
		Select("exam_kind", "exam_type", "exam_chapter_id", "exam_title", "exam_passage",
			"exam_audio_url", "exam_questions", "exam_topics").
		Updates(e)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrExamNotFound
	}
	return nil
}

func (s *GormStore) Delete(ctx context.Context, id uuid.UUID) error {
	res := s.DB.WithContext(ctx).Where("exam_id = ?", id).Delete(&model.ExamModel{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrExamNotFound
	}
	return nil
}

// MemoryStore is used by tests.
type MemoryStore struct {
	mu    sync.Mutex
	exams []model.ExamModel
}

func NewMemoryStore(exams ...model.ExamModel) *MemoryStore {
	return &MemoryStore{exams: exams}
}

func (m *MemoryStore) Find(_ context.Context, kind, examType, chapterID string) (*model.ExamModel, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := len(m.exams) - 1; i >= 0; i-- {
		e := m.exams[i]
		if e.ExamKind != kind {
			continue
		}
		if kind == constants.ExamKindChapter {
			if e.ExamChapterID != nil && *e.ExamChapterID == chapterID {
				return &e, nil
			}
			continue
		}
		if e.ExamType == examType {
			return &e, nil
		}
	}
	return nil, ErrExamNotFound
}
