package service

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"englishku_backend/internals/features/progress/level_rank/model"
)

func intPtr(v int) *int { return &v }

func TestLevelFor(t *testing.T) {
	reqs := []model.LevelRequirement{
		{LevelReqLevel: 1, LevelReqMinXP: 0, LevelReqMaxXP: intPtr(99)},
		{LevelReqLevel: 2, LevelReqMinXP: 100, LevelReqMaxXP: intPtr(299)},
		{LevelReqLevel: 3, LevelReqMinXP: 300},
	}
	cases := map[int]int{0: 1, 99: 1, 100: 2, 299: 2, 300: 3, 10_000: 3}
	for xp, want := range cases {
		assert.Equal(t, want, LevelFor(reqs, xp), "xp=%d", xp)
	}
	assert.Equal(t, 1, LevelFor(nil, 500))
}
