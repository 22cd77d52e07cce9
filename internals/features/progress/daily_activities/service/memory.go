package service

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

// MemoryRecorder keeps active days in a set; used in tests.
type MemoryRecorder struct {
	mu   sync.Mutex
	days map[uuid.UUID]map[string]struct{}
}

func NewMemoryRecorder() *MemoryRecorder {
	return &MemoryRecorder{days: map[uuid.UUID]map[string]struct{}{}}
}

func (m *MemoryRecorder) RecordActiveDay(_ context.Context, userID uuid.UUID, day string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.days[userID] == nil {
		m.days[userID] = map[string]struct{}{}
	}
	m.days[userID][day] = struct{}{}
	return nil
}

func (m *MemoryRecorder) CountActiveDays(_ context.Context, userID uuid.UUID) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return int64(len(m.days[userID])), nil
}
