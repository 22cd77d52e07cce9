package details

import (
	"context"
	"log"
	"time"

	"gorm.io/gorm"

	"englishku_backend/internals/configs"
	chatRepo "englishku_backend/internals/features/ai/chat/repository"
	chatService "englishku_backend/internals/features/ai/chat/service"
	evaluation "englishku_backend/internals/features/ai/evaluation/service"
	chapters "englishku_backend/internals/features/content/chapters/service"
	exams "englishku_backend/internals/features/exams/exams/service"
	finalRepo "englishku_backend/internals/features/exams/final/repository"
	final "englishku_backend/internals/features/exams/final/service"
	practice "englishku_backend/internals/features/exams/practice/service"
	activity "englishku_backend/internals/features/progress/daily_activities/service"
	leaderboard "englishku_backend/internals/features/progress/leaderboard/service"
	lessonRepo "englishku_backend/internals/features/progress/lessons/repository"
	lessons "englishku_backend/internals/features/progress/lessons/service"
	level "englishku_backend/internals/features/progress/level_rank/service"
	xp "englishku_backend/internals/features/progress/xp/service"
	"englishku_backend/internals/features/subscriptions/payments"
	subRepo "englishku_backend/internals/features/subscriptions/subscription/repository"
	subscription "englishku_backend/internals/features/subscriptions/subscription/service"
	authRepo "englishku_backend/internals/features/users/auth/repository"
	auth "englishku_backend/internals/features/users/auth/service"
	userRepo "englishku_backend/internals/features/users/user/repository"
	user "englishku_backend/internals/features/users/user/service"
	"englishku_backend/internals/helpers/llm"
	storage "englishku_backend/internals/helpers/oss"
)

// Services holds every feature service, built once at startup and shared by
// the route groups.
type Services struct {
	DB *gorm.DB

	Users       *userRepo.GormRepository
	Ledger      *xp.Ledger
	Board       leaderboard.Board
	Levels      *level.Store
	Catalog     *chapters.Catalog
	Progress    *lessons.Service
	Exams       *exams.GormStore
	Evaluator   *evaluation.Evaluator
	Final       *final.Service
	Practice    *practice.Service
	Chat        *chatService.Service
	Subs        *subscription.Service
	Profile     *user.Service
	Auth        *auth.Service
	OSS         *storage.OSSService
	Recordings  storage.Storage
	ProfilePics storage.Storage

	aiEnabled bool
}

func NewServices(ctx context.Context, db *gorm.DB) *Services {
	loc := configs.AppLocation()
	s := &Services{DB: db}

	s.Users = userRepo.NewGormRepository(db)
	s.Board = leaderboard.NewBoardFromEnv(ctx)
	s.Levels = level.NewStore(db)
	days := activity.NewStore(db)
	s.Ledger = xp.NewLedger(s.Users, s.Levels, days, s.Board, loc)

	s.Catalog = chapters.NewCatalog(db)
	s.Progress = lessons.NewService(lessonRepo.NewGormRepository(db), s.Catalog, s.Users, s.Ledger)
	s.Exams = exams.NewGormStore(db)

	client := llm.NewClientFromEnv()
	s.aiEnabled = client != nil
	s.Evaluator = evaluation.NewEvaluator(client)
	s.Final = final.NewService(finalRepo.NewGormRepository(db), s.Exams, s.Evaluator, s.Progress, s.Ledger)
	s.Practice = practice.NewService(s.Exams, s.Evaluator, s.Progress, s.Ledger)
	s.Chat = chatService.NewService(chatRepo.NewGormRepository(db), client, s.Ledger)

	s.Subs = subscription.NewService(subRepo.NewGormRepository(db), s.Users, payments.NewGatewayFromEnv())

	// Storage fields stay nil interfaces when OSS is not configured.
	if svc, err := storage.NewOSSServiceFromEnv(configs.GetEnv("ALI_OSS_PREFIX", "englishku/")); err != nil {
		log.Printf("[WARN] OSS disabled: %v", err)
	} else {
		s.OSS = svc
		s.Recordings = svc
		s.ProfilePics = svc
	}
	s.Profile = user.NewService(s.Users, s.Progress.Progress, days, s.ProfilePics, loc)

	s.Auth = auth.NewService(
		s.Users,
		auth.GoogleVerifier{ClientID: configs.GoogleClientID},
		authRepo.NewGormBlacklist(db),
		s.Ledger,
		configs.JWTSecret,
		time.Duration(configs.GetEnvInt("JWT_TTL_HOURS", 72))*time.Hour,
	)
	return s
}

// Integrations reports which optional backends were configured at startup.
func (s *Services) Integrations() map[string]bool {
	_, noBoard := s.Board.(leaderboard.NoopBoard)
	return map[string]bool{
		"leaderboard": !noBoard,
		"llm":         s.aiEnabled,
		"payments":    s.Subs.Gateway != nil,
		"storage":     s.OSS != nil,
	}
}
