package repository

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"englishku_backend/internals/features/exams/final/model"
	helper "englishku_backend/internals/helpers"
)

var ErrAttemptNotFound = errors.New("final exam attempt not found")

type Repository interface {
	// Open returns the user's in-progress attempt or ErrAttemptNotFound.
	Open(ctx context.Context, userID uuid.UUID) (*model.FinalAttemptModel, error)
	// Latest returns the most recently started attempt in any state.
	Latest(ctx context.Context, userID uuid.UUID) (*model.FinalAttemptModel, error)
	// StartOrResume returns the open attempt, creating one when none exists.
	StartOrResume(ctx context.Context, userID uuid.UUID, now time.Time) (a *model.FinalAttemptModel, created bool, err error)
	// Mutate locks the user's attempt and saves it after fn.
	Mutate(ctx context.Context, userID, attemptID uuid.UUID, fn func(a *model.FinalAttemptModel) error) (*model.FinalAttemptModel, error)
}

type GormRepository struct {
	DB *gorm.DB
}

func NewGormRepository(db *gorm.DB) *GormRepository {
	return &GormRepository{DB: db}
}

func (r *GormRepository) Open(ctx context.Context, userID uuid.UUID) (*model.FinalAttemptModel, error) {
	return r.take(r.DB.WithContext(ctx).
		Where("final_attempt_user_id = ? AND final_attempt_status = ?", userID, model.AttemptInProgress))
}

func (r *GormRepository) Latest(ctx context.Context, userID uuid.UUID) (*model.FinalAttemptModel, error) {
	return r.take(r.DB.WithContext(ctx).
		Where("final_attempt_user_id = ?", userID).
		Order("final_attempt_started_at DESC"))
}

func (r *GormRepository) take(q *gorm.DB) (*model.FinalAttemptModel, error) {
	var a model.FinalAttemptModel
	err := q.Take(&a).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrAttemptNotFound
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *GormRepository) StartOrResume(ctx context.Context, userID uuid.UUID, now time.Time) (*model.FinalAttemptModel, bool, error) {
	if a, err := r.Open(ctx, userID); err == nil {
		return a, false, nil
	} else if !errors.Is(err, ErrAttemptNotFound) {
		return nil, false, err
	}

	a := &model.FinalAttemptModel{
		FinalAttemptID:        uuid.New(),
		FinalAttemptUserID:    userID,
		FinalAttemptStatus:    model.AttemptInProgress,
		FinalAttemptStartedAt: now,
	}
	a.SetScores(model.SectionScores{})
	if err := r.DB.WithContext(ctx).Create(a).Error; err != nil {
		// a concurrent start won the partial unique index
		if helper.IsUniqueViolation(err) {
			open, openErr := r.Open(ctx, userID)
			return open, false, openErr
		}
		return nil, false, err
	}
	return a, true, nil
}

func (r *GormRepository) Mutate(ctx context.Context, userID, attemptID uuid.UUID, fn func(a *model.FinalAttemptModel) error) (*model.FinalAttemptModel, error) {
	var out model.FinalAttemptModel
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("final_attempt_id = ? AND final_attempt_user_id = ?", attemptID, userID).
			Take(&out).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrAttemptNotFound
		}
		if err != nil {
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
	mu       sync.Mutex
	attempts []model.FinalAttemptModel
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{}
}

func (m *MemoryRepository) Open(_ context.Context, userID uuid.UUID) (*model.FinalAttemptModel, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.open(userID)
}

func (m *MemoryRepository) open(userID uuid.UUID) (*model.FinalAttemptModel, error) {
	for i := range m.attempts {
		a := m.attempts[i]
		if a.FinalAttemptUserID == userID && a.FinalAttemptStatus == model.AttemptInProgress {
			return clone(a), nil
		}
	}
	return nil, ErrAttemptNotFound
}

func (m *MemoryRepository) Latest(_ context.Context, userID uuid.UUID) (*model.FinalAttemptModel, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := len(m.attempts) - 1; i >= 0; i-- {
		if m.attempts[i].FinalAttemptUserID == userID {
			return clone(m.attempts[i]), nil
		}
	}
	return nil, ErrAttemptNotFound
}

func (m *MemoryRepository) StartOrResume(_ context.Context, userID uuid.UUID, now time.Time) (*model.FinalAttemptModel, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if a, err := m.open(userID); err == nil {
		return a, false, nil
	}
	a := model.FinalAttemptModel{
		FinalAttemptID:        uuid.New(),
		FinalAttemptUserID:    userID,
		FinalAttemptStatus:    model.AttemptInProgress,
		FinalAttemptStartedAt: now,
	}
	a.SetScores(model.SectionScores{})
	m.attempts = append(m.attempts, a)
	return clone(a), true, nil
}

func (m *MemoryRepository) Mutate(_ context.Context, userID, attemptID uuid.UUID, fn func(a *model.FinalAttemptModel) error) (*model.FinalAttemptModel, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.attempts {
		if m.attempts[i].FinalAttemptID != attemptID || m.attempts[i].FinalAttemptUserID != userID {
			continue
		}
		a := clone(m.attempts[i])
		if err := fn(a); err != nil {
			return nil, err
		}
		m.attempts[i] = *clone(*a)
		return a, nil
	}
	return nil, ErrAttemptNotFound
}

func clone(a model.FinalAttemptModel) *model.FinalAttemptModel {
	a.SetScores(a.Scores())
	return &a
}
