package service

import (
	"context"

	"gorm.io/gorm"

	"englishku_backend/internals/features/progress/level_rank/model"
)

// LevelFor returns the highest level whose range contains totalXP, or 1 when
// no requirement matches (including an empty table).
func LevelFor(reqs []model.LevelRequirement, totalXP int) int {
	level := 0
	for _, r := range reqs {
		if r.Contains(totalXP) && r.LevelReqLevel > level {
			level = r.LevelReqLevel
		}
	}
	if level == 0 {
		return 1
	}
	return level
}

// Source lists the level table.
type Source interface {
	List(ctx context.Context) ([]model.LevelRequirement, error)
}

type Store struct {
	DB *gorm.DB
}

func NewStore(db *gorm.DB) *Store { return &Store{DB: db} }

func (s *Store) List(ctx context.Context) ([]model.LevelRequirement, error) {
	var reqs []model.LevelRequirement
	err := s.DB.WithContext(ctx).Order("level_req_level ASC").Find(&reqs).Error
	return reqs, err
}

// StaticSource serves a fixed table; tests and installs without a seeded
// table use it.
type StaticSource []model.LevelRequirement

func (s StaticSource) List(context.Context) ([]model.LevelRequirement, error) {
	return s, nil
}
