package scheduler

import (
	"context"
	"log"
	"time"

	"github.com/robfig/cron/v3"
	"gorm.io/gorm"

	"englishku_backend/internals/configs"
	"englishku_backend/internals/features/users/auth/repository"
)

// StartBlacklistCleanupScheduler purges blacklisted tokens that expired more
// than TOKEN_BLACKLIST_TTL_DAYS ago. Runs daily by default.
func StartBlacklistCleanupScheduler(db *gorm.DB) *cron.Cron {
	ttlDays := configs.GetEnvInt("TOKEN_BLACKLIST_TTL_DAYS", 1)
	spec := configs.GetEnv("TOKEN_BLACKLIST_CLEANUP_CRON", "@daily")
	blacklist := repository.NewGormBlacklist(db)

	c := cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DefaultLogger)))
	_, err := c.AddFunc(spec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()
		cutoff := time.Now().Add(-time.Duration(ttlDays) * 24 * time.Hour)
		n, err := blacklist.PurgeBefore(ctx, cutoff)
		if err != nil {
			log.Printf("[CLEANUP ERROR] token_blacklist: %v", err)
			return
		}
		if n > 0 {
			log.Printf("[CLEANUP] %d expired tokens removed", n)
		}
	})
	if err != nil {
		log.Printf("[CLEANUP] invalid schedule %q: %v", spec, err)
		return nil
	}
	c.Start()
	log.Printf("[CLEANUP] token_blacklist cleanup scheduled (%s)", spec)
	return c
}
