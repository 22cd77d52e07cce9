package levels

import (
	"log"
	"os"

	"github.com/bytedance/sonic"
	"gorm.io/gorm"

	"englishku_backend/internals/features/progress/level_rank/model"
)

type LevelSeed struct {
	Level int    `json:"level"`
	Name  string `json:"name"`
	MinXP int    `json:"min_xp"`
	MaxXP *int   `json:"max_xp"` // null for the top level
}

// SeedLevelRequirementsFromJSON inserts levels that are not present yet.
func SeedLevelRequirementsFromJSON(db *gorm.DB, filePath string) {
	log.Println("📥 Reading", filePath)

	content, err := os.ReadFile(filePath)
	if err != nil {
		log.Printf("❌ read %s: %v", filePath, err)
		return
	}
	var data []LevelSeed
	if err := sonic.Unmarshal(content, &data); err != nil {
		log.Printf("❌ decode %s: %v", filePath, err)
		return
	}

	for _, item := range data {
		var n int64
		db.Model(&model.LevelRequirement{}).Where("level_req_level = ?", item.Level).Count(&n)
		if n > 0 {
			continue
		}
		record := model.LevelRequirement{
			LevelReqLevel: item.Level,
			LevelReqName:  item.Name,
			LevelReqMinXP: item.MinXP,
			LevelReqMaxXP: item.MaxXP,
		}
		if err := db.Create(&record).Error; err != nil {
			log.Printf("❌ level %d: %v", item.Level, err)
			continue
		}
		log.Printf("✅ level %d seeded", item.Level)
	}
}
