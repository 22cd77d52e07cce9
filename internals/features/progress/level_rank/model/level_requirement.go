package model

import (
	"time"
)

// LevelRequirement maps a totalXP range to a level. MaxXP nil means open-ended.
type LevelRequirement struct {
	LevelReqID    uint      `gorm:"column:level_req_id;primaryKey" json:"level_req_id"`
	LevelReqLevel int       `gorm:"column:level_req_level;unique;not null" json:"level_req_level" validate:"required,min=1"`
	LevelReqName  string    `gorm:"column:level_req_name;size:100" json:"level_req_name" validate:"max=100"`
	LevelReqMinXP int       `gorm:"column:level_req_min_xp;not null" json:"level_req_min_xp" validate:"min=0"`
	LevelReqMaxXP *int      `gorm:"column:level_req_max_xp" json:"level_req_max_xp,omitempty"`
	CreatedAt     time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (LevelRequirement) TableName() string {
	return "level_requirements"
}

// Contains reports whether xp falls in the requirement's range.
func (l LevelRequirement) Contains(xp int) bool {
	if xp < l.LevelReqMinXP {
		return false
	}
	return l.LevelReqMaxXP == nil || xp <= *l.LevelReqMaxXP
}
