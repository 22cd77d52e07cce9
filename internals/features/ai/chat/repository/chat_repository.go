package repository

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"englishku_backend/internals/features/ai/chat/model"
)

var ErrSessionNotFound = errors.New("chat session not found")

type Repository interface {
	Create(ctx context.Context, s *model.ChatSessionModel) error
	Get(ctx context.Context, userID, sessionID uuid.UUID) (*model.ChatSessionModel, error)
	// List returns one page of the user's sessions for mode, newest first,
	// and the total before paging. Empty mode lists all.
	List(ctx context.Context, userID uuid.UUID, mode string, offset, limit int) ([]model.ChatSessionModel, int64, error)
	Append(ctx context.Context, userID, sessionID uuid.UUID, at time.Time, msgs ...model.ChatMessage) (*model.ChatSessionModel, error)
	Delete(ctx context.Context, userID, sessionID uuid.UUID) error
}

type GormRepository struct {
	DB *gorm.DB
}

func NewGormRepository(db *gorm.DB) *GormRepository {
	return &GormRepository{DB: db}
}

func (r *GormRepository) Create(ctx context.Context, s *model.ChatSessionModel) error {
	return r.DB.WithContext(ctx).Create(s).Error
}

func (r *GormRepository) Get(ctx context.Context, userID, sessionID uuid.UUID) (*model.ChatSessionModel, error) {
	var s model.ChatSessionModel
	err := r.DB.WithContext(ctx).
		Where("chat_session_id = ? AND chat_session_user_id = ?", sessionID, userID).
		Take(&s).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *GormRepository) List(ctx context.Context, userID uuid.UUID, mode string, offset, limit int) ([]model.ChatSessionModel, int64, error) {
	q := r.DB.WithContext(ctx).Model(&model.ChatSessionModel{}).Where("chat_session_user_id = ?", userID)
	if mode != "" {
		q = q.Where("chat_session_mode = ?", mode)
	}
	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var out []model.ChatSessionModel
	err := q.Order("chat_session_start_time DESC").Offset(offset).Limit(limit).Find(&out).Error
	return out, total, err
}

// Append locks the session row so concurrent turns do not drop messages.
func (r *GormRepository) Append(ctx context.Context, userID, sessionID uuid.UUID, at time.Time, msgs ...model.ChatMessage) (*model.ChatSessionModel, error) {
	var s model.ChatSessionModel
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("chat_session_id = ? AND chat_session_user_id = ?", sessionID, userID).
			Take(&s).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrSessionNotFound
		}
		if err != nil {
			return err
		}
		s.ChatSessionMessages = append(s.ChatSessionMessages, msgs...)
		s.ChatSessionLastUpdated = at
		return tx.Model(&s).Select("chat_session_messages", "chat_session_last_updated").Updates(&s).Error
	})
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *GormRepository) Delete(ctx context.Context, userID, sessionID uuid.UUID) error {
	res := r.DB.WithContext(ctx).
		Where("chat_session_id = ? AND chat_session_user_id = ?", sessionID, userID).
		Delete(&model.ChatSessionModel{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrSessionNotFound
	}
	return nil
}

// MemoryRepository is used by tests.
type MemoryRepository struct {
	mu       sync.Mutex
	sessions map[uuid.UUID]model.ChatSessionModel
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{sessions: map[uuid.UUID]model.ChatSessionModel{}}
}

func (m *MemoryRepository) Create(_ context.Context, s *model.ChatSessionModel) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if s.ChatSessionID == uuid.Nil {
		s.ChatSessionID = uuid.New()
	}
	m.sessions[s.ChatSessionID] = copySession(*s)
	return nil
}

func (m *MemoryRepository) Get(_ context.Context, userID, sessionID uuid.UUID) (*model.ChatSessionModel, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[sessionID]
	if !ok || s.ChatSessionUserID != userID {
		return nil, ErrSessionNotFound
	}
	out := copySession(s)
	return &out, nil
}

func (m *MemoryRepository) List(_ context.Context, userID uuid.UUID, mode string, offset, limit int) ([]model.ChatSessionModel, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []model.ChatSessionModel
	for _, s := range m.sessions {
		if s.ChatSessionUserID == userID && (mode == "" || s.ChatSessionMode == mode) {
			out = append(out, copySession(s))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].ChatSessionStartTime.After(out[j].ChatSessionStartTime)
	})
	total := int64(len(out))
	if offset > 0 {
		if offset >= len(out) {
			return nil, total, nil
		}
		out = out[offset:]
	}
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, total, nil
}

func (m *MemoryRepository) Append(_ context.Context, userID, sessionID uuid.UUID, at time.Time, msgs ...model.ChatMessage) (*model.ChatSessionModel, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[sessionID]
	if !ok || s.ChatSessionUserID != userID {
		return nil, ErrSessionNotFound
	}
	s = copySession(s)
	s.ChatSessionMessages = append(s.ChatSessionMessages, msgs...)
	s.ChatSessionLastUpdated = at
	m.sessions[sessionID] = s
	out := copySession(s)
	return &out, nil
}

func (m *MemoryRepository) Delete(_ context.Context, userID, sessionID uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[sessionID]
	if !ok || s.ChatSessionUserID != userID {
		return ErrSessionNotFound
	}
	delete(m.sessions, sessionID)
	return nil
}

func copySession(s model.ChatSessionModel) model.ChatSessionModel {
	s.ChatSessionMessages = append([]model.ChatMessage(nil), s.ChatSessionMessages...)
	return s
}
