package repository

import (
	"context"
	"encoding/json"
	"strings"
	"sync"

	"github.com/google/uuid"

	"englishku_backend/internals/features/users/user/model"
)

// MemoryRepository is an in-process Repository used by service tests. It
// serialises Mutate calls the way the row lock does in Postgres.
type MemoryRepository struct {
	mu    sync.Mutex
	users map[uuid.UUID]*model.UserModel
}

func NewMemoryRepository(users ...*model.UserModel) *MemoryRepository {
	r := &MemoryRepository{users: map[uuid.UUID]*model.UserModel{}}
	for _, u := range users {
		r.users[u.UserID] = clone(u)
	}
	return r
}

func (r *MemoryRepository) Put(u *model.UserModel) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.users[u.UserID] = clone(u)
}

func (r *MemoryRepository) Get(_ context.Context, userID uuid.UUID) (*model.UserModel, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[userID]
	if !ok {
		return nil, ErrUserNotFound
	}
	return clone(u), nil
}

func (r *MemoryRepository) Mutate(_ context.Context, userID uuid.UUID, fn func(u *model.UserModel) error) (*model.UserModel, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[userID]
	if !ok {
		return nil, ErrUserNotFound
	}
	work := clone(u)
	if err := fn(work); err != nil {
		return nil, err
	}
	r.users[userID] = clone(work)
	return work, nil
}

// clone deep-copies through JSON so callers never share the history map.
func clone(u *model.UserModel) *model.UserModel {
	b, err := json.Marshal(u)
	if err != nil {
		panic(err)
	}
	var out model.UserModel
	if err := json.Unmarshal(b, &out); err != nil {
		panic(err)
	}
	out.UserGoogleID = u.UserGoogleID
	return &out
}

func (r *MemoryRepository) DisplayNames(_ context.Context, ids []uuid.UUID) (map[uuid.UUID]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make(map[uuid.UUID]string, len(ids))
	for _, id := range ids {
		if u, ok := r.users[id]; ok {
			out[id] = u.UserDisplayName
		}
	}
	return out, nil
}

func (r *MemoryRepository) FindByGoogleID(_ context.Context, googleID string) (*model.UserModel, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.UserGoogleID != nil && *u.UserGoogleID == googleID {
			return clone(u), nil
		}
	}
	return nil, ErrUserNotFound
}

func (r *MemoryRepository) FindByEmail(_ context.Context, email string) (*model.UserModel, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if strings.EqualFold(u.UserEmail, email) {
			return clone(u), nil
		}
	}
	return nil, ErrUserNotFound
}

func (r *MemoryRepository) Create(_ context.Context, u *model.UserModel) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u.UserID == uuid.Nil {
		u.UserID = uuid.New()
	}
	r.users[u.UserID] = clone(u)
	return nil
}
