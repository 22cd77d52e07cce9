package repository

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"englishku_backend/internals/features/progress/lessons/model"
)

type Repository interface {
	// Get returns an empty record for users without progress yet.
	Get(ctx context.Context, userID uuid.UUID) (*model.UserProgress, error)
	Mutate(ctx context.Context, userID uuid.UUID, fn func(p *model.UserProgress) error) (*model.UserProgress, error)
}

type GormRepository struct {
	DB *gorm.DB
}

func NewGormRepository(db *gorm.DB) *GormRepository {
	return &GormRepository{DB: db}
}

func (r *GormRepository) Get(ctx context.Context, userID uuid.UUID) (*model.UserProgress, error) {
	var p model.UserProgress
	err := r.DB.WithContext(ctx).Where("user_progress_user_id = ?", userID).Take(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return &model.UserProgress{UserProgressUserID: userID}, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// Mutate creates the row if needed, then locks it for fn.
func (r *GormRepository) Mutate(ctx context.Context, userID uuid.UUID, fn func(p *model.UserProgress) error) (*model.UserProgress, error) {
	var out model.UserProgress
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		seed := model.UserProgress{UserProgressUserID: userID}
		if err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_progress_user_id"}},
			DoNothing: true,
		}).Create(&seed).Error; err != nil {
			return err
		}
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("user_progress_user_id = ?", userID).
			Take(&out).Error; err != nil {
			return err
		}
		if err := fn(&out); err != nil {
			return err
		}
		return tx.Save(&out).Error
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// MemoryRepository is used by tests.
type MemoryRepository struct {
	mu   sync.Mutex
	rows map[uuid.UUID]model.UserProgress
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{rows: map[uuid.UUID]model.UserProgress{}}
}

func (m *MemoryRepository) Get(_ context.Context, userID uuid.UUID) (*model.UserProgress, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p := copyProgress(m.rows[userID])
	p.UserProgressUserID = userID
	return &p, nil
}

func (m *MemoryRepository) Mutate(_ context.Context, userID uuid.UUID, fn func(p *model.UserProgress) error) (*model.UserProgress, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p := copyProgress(m.rows[userID])
	p.UserProgressUserID = userID
	if err := fn(&p); err != nil {
		return nil, err
	}
	m.rows[userID] = copyProgress(p)
	return &p, nil
}

func copyProgress(p model.UserProgress) model.UserProgress {
	p.UserProgressCompletedLessons = append([]model.CompletedLesson(nil), p.UserProgressCompletedLessons...)
	p.UserProgressCompletedExams = append([]string(nil), p.UserProgressCompletedExams...)
	p.UserProgressCompletedChapters = append([]string(nil), p.UserProgressCompletedChapters...)
	return p
}
