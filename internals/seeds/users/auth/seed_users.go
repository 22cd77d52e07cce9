package user

import (
	"log"
	"os"
	"strings"

	"github.com/bytedance/sonic"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"englishku_backend/internals/constants"
	"englishku_backend/internals/features/users/user/model"
)

type UserSeed struct {
	DisplayName string `json:"display_name"`
	Email       string `json:"email"`
	Role        string `json:"role"`
}

// SeedUsersFromJSON pre-creates accounts (usually admins) by email. The
// Google account with the same address is linked on first sign-in.
func SeedUsersFromJSON(db *gorm.DB, filePath string) {
	log.Println("📥 Reading", filePath)

	file, err := os.ReadFile(filePath)
	if err != nil {
		log.Printf("❌ read %s: %v", filePath, err)
		return
	}
	var inputs []UserSeed
	if err := sonic.Unmarshal(file, &inputs); err != nil {
		log.Printf("❌ decode %s: %v", filePath, err)
		return
	}

	for _, data := range inputs {
		email := strings.ToLower(strings.TrimSpace(data.Email))
		var n int64
		db.Model(&model.UserModel{}).Where("LOWER(user_email) = ?", email).Count(&n)
		if n > 0 {
			log.Printf("ℹ️ %s already exists, skipped", email)
			continue
		}
		role := data.Role
		if role != constants.RoleAdmin {
			role = constants.RoleUser
		}
		u := model.UserModel{
			UserID:          uuid.New(),
			UserEmail:       email,
			UserDisplayName: data.DisplayName,
			UserRole:        role,
			UserIsActive:    true,
			UserLevel:       1,
			UserDailyGoal:   constants.DefaultDailyLessonGoal,
		}
		if err := db.Create(&u).Error; err != nil {
			log.Printf("❌ seed user %s: %v", email, err)
			continue
		}
		log.Printf("✅ seeded %s (%s)", email, role)
	}
}
