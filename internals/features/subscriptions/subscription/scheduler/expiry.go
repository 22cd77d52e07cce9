package scheduler

import (
	"context"
	"log"
	"time"

	"github.com/robfig/cron/v3"

	"englishku_backend/internals/configs"
	"englishku_backend/internals/features/subscriptions/subscription/service"
)

// StartExpirySweep flips subscriptions past their end date to expired.
// Access checks already compare the end date, so the sweep only keeps the
// stored status honest.
func StartExpirySweep(subs *service.Service) *cron.Cron {
	schedule := configs.GetEnv("SUBSCRIPTION_SWEEP_CRON", "@hourly")

	c := cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DefaultLogger)))
	_, err := c.AddFunc(schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		defer cancel()
		n, err := subs.ExpireDue(ctx)
		if err != nil {
			log.Printf("[SUBSCRIPTION] expiry sweep failed: %v", err)
			return
		}
		if n > 0 {
			log.Printf("[SUBSCRIPTION] expired %d subscriptions", n)
		}
	})
	if err != nil {
		log.Printf("[SUBSCRIPTION] invalid schedule %q: %v", schedule, err)
		return nil
	}
	c.Start()
	log.Printf("[SUBSCRIPTION] expiry sweep scheduled %q", schedule)
	return c
}
