package repository

import (
	"context"
	"sync"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"englishku_backend/internals/features/users/auth/model"
)

// Blacklist records revoked access tokens.
type Blacklist interface {
	Add(ctx context.Context, token string, expiresAt time.Time) error
}

type GormBlacklist struct {
	DB *gorm.DB
}

func NewGormBlacklist(db *gorm.DB) *GormBlacklist {
	return &GormBlacklist{DB: db}
}

// Add is idempotent: signing out twice refreshes the expiry and revives a
// soft-deleted row.
func (b *GormBlacklist) Add(ctx context.Context, token string, expiresAt time.Time) error {
	row := model.TokenBlacklist{Token: token, ExpiredAt: expiresAt}
	return b.DB.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "token"}},
		DoUpdates: clause.Assignments(map[string]any{
			"expired_at": expiresAt,
			"deleted_at": nil,
		}),
	}).Create(&row).Error
}

// PurgeBefore hard-deletes rows whose token expired before cutoff.
func (b *GormBlacklist) PurgeBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	res := b.DB.WithContext(ctx).Unscoped().
		Where("expired_at < ?", cutoff).
		Delete(&model.TokenBlacklist{})
	return res.RowsAffected, res.Error
}

// MemoryBlacklist backs tests.
type MemoryBlacklist struct {
	mu     sync.Mutex
	tokens map[string]time.Time
}

func NewMemoryBlacklist() *MemoryBlacklist {
	return &MemoryBlacklist{tokens: map[string]time.Time{}}
}

func (b *MemoryBlacklist) Add(_ context.Context, token string, expiresAt time.Time) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.tokens[token] = expiresAt
	return nil
}

func (b *MemoryBlacklist) Contains(token string) (time.Time, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	exp, ok := b.tokens[token]
	return exp, ok
}
