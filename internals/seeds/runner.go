package seeds

import (
	"gorm.io/gorm"

	levels "englishku_backend/internals/seeds/progress/levels"
	users "englishku_backend/internals/seeds/users/auth"
)

// RunAllSeeds is idempotent; paths are relative to the repo root.
func RunAllSeeds(db *gorm.DB) {
	//* Progress
	levels.SeedLevelRequirementsFromJSON(db, "internals/seeds/progress/levels/data_levels_requirements.json")

	//* Users
	users.SeedUsersFromJSON(db, "internals/seeds/users/auth/data_users.json")
}
