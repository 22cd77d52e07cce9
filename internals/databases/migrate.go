package database

import (
	"log"

	chatModel "englishku_backend/internals/features/ai/chat/model"
	chapterModel "englishku_backend/internals/features/content/chapters/model"
	examModel "englishku_backend/internals/features/exams/exams/model"
	finalModel "englishku_backend/internals/features/exams/final/model"
	activityModel "englishku_backend/internals/features/progress/daily_activities/model"
	lessonModel "englishku_backend/internals/features/progress/lessons/model"
	levelModel "englishku_backend/internals/features/progress/level_rank/model"
	subscriptionModel "englishku_backend/internals/features/subscriptions/subscription/model"
	authModel "englishku_backend/internals/features/users/auth/model"
	userModel "englishku_backend/internals/features/users/user/model"
)

// AutoMigrate creates or alters every table the app owns. Order follows
// the foreign keys: users and the catalog first.
func AutoMigrate() error {
	log.Println("🛠  Running AutoMigrate...")
	err := DB.AutoMigrate(
		&userModel.UserModel{},
		&authModel.TokenBlacklist{},
		&levelModel.LevelRequirement{},
		&chapterModel.ChapterModel{},
		&chapterModel.LessonModel{},
		&examModel.ExamModel{},
		&lessonModel.UserProgress{},
		&activityModel.UserDailyActivity{},
		&finalModel.FinalAttemptModel{},
		&chatModel.ChatSessionModel{},
		&subscriptionModel.SubscriptionModel{},
		&subscriptionModel.SubscriptionOrderModel{},
	)
	if err != nil {
		return err
	}
	log.Println("✅ AutoMigrate done.")
	return nil
}
