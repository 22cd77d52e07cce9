package helper

import (
	"context"
	"log"
	"time"

	"github.com/aliyun/aliyun-oss-go-sdk/oss"
	"github.com/robfig/cron/v3"
	"gorm.io/gorm"

	"englishku_backend/internals/configs"
)

type ReaperConfig struct {
	Prefix        string
	RetentionDays int
	CronSchedule  string
	DryRun        bool
}

func reaperConfigFromEnv() ReaperConfig {
	return ReaperConfig{
		Prefix:        configs.GetEnv("REAPER_PREFIX", "recordings/"),
		RetentionDays: configs.GetEnvInt("RETENTION_DAYS", 30),
		CronSchedule:  configs.GetEnv("REAPER_CRON", "15 2 * * *"),
		DryRun:        configs.GetEnvBool("DRY_RUN", false),
	}
}

// StartRecordingReaperCron removes old speaking recordings from OSS and
// hard-deletes chat sessions the user removed more than RETENTION_DAYS ago.
// svc may be nil (OSS not configured); the DB part still runs.
func StartRecordingReaperCron(db *gorm.DB, svc *OSSService) *cron.Cron {
	cfg := reaperConfigFromEnv()

	c := cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DefaultLogger)))
	_, err := c.AddFunc(cfg.CronSchedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 4*time.Minute)
		defer cancel()
		retention := time.Duration(cfg.RetentionDays) * 24 * time.Hour

		if svc != nil {
			if err := runOSSReaper(ctx, svc.Bucket, svc.objectKey(cfg.Prefix), retention, cfg.DryRun); err != nil {
				log.Printf("[REAPER] OSS error: %v", err)
			}
		}
		if err := runDBReaper(ctx, db, retention); err != nil {
			log.Printf("[REAPER] DB error: %v", err)
		}
	})
	if err != nil {
		log.Printf("[REAPER] invalid schedule %q: %v", cfg.CronSchedule, err)
		return nil
	}
	log.Printf("[REAPER] started schedule=%q prefix=%q retention=%dd dryRun=%v",
		cfg.CronSchedule, cfg.Prefix, cfg.RetentionDays, cfg.DryRun)
	c.Start()
	return c
}

func runOSSReaper(ctx context.Context, bucket *oss.Bucket, prefix string, retention time.Duration, dryRun bool) error {
	threshold := time.Now().Add(-retention)
	marker := oss.Marker("")
	var stale []string
	total := 0

	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		lor, err := bucket.ListObjects(oss.Prefix(prefix), marker, oss.MaxKeys(1000))
		if err != nil {
			return err
		}
		for _, obj := range lor.Objects {
			total++
			if obj.Key != "" && obj.LastModified.Before(threshold) {
				stale = append(stale, obj.Key)
			}
		}
		if !lor.IsTruncated {
			break
		}
		marker = oss.Marker(lor.NextMarker)
	}

	if len(stale) == 0 {
		log.Printf("[OSS-REAPER] nothing to delete; scanned=%d under %q", total, prefix)
		return nil
	}
	if dryRun {
		log.Printf("[OSS-REAPER] DRY-RUN would delete %d/%d objects under %q", len(stale), total, prefix)
		return nil
	}

	deleted := 0
	for i := 0; i < len(stale); i += 1000 {
		end := min(i+1000, len(stale))
		if _, err := bucket.DeleteObjects(stale[i:end], oss.DeleteObjectsQuiet(true)); err != nil {
			log.Printf("[OSS-REAPER] delete batch %d-%d failed: %v", i, end, err)
			continue
		}
		deleted += end - i
	}
	log.Printf("[OSS-REAPER] deleted %d objects (scanned=%d) under %q", deleted, total, prefix)
	return nil
}

func runDBReaper(ctx context.Context, db *gorm.DB, retention time.Duration) error {
	if db == nil {
		return nil
	}
	cutoff := time.Now().Add(-retention)
	res := db.WithContext(ctx).Exec(
		`DELETE FROM chat_sessions WHERE deleted_at IS NOT NULL AND deleted_at < ?`, cutoff)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected > 0 {
		log.Printf("[DB-REAPER] chat_sessions: hard-deleted %d rows older than %s", res.RowsAffected, cutoff.Format(time.RFC3339))
	}
	return nil
}
