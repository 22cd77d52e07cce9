package service

import (
	"context"
	"log"
	"time"

	"github.com/redis/go-redis/v9"

	"englishku_backend/internals/configs"
)

// NewBoardFromEnv connects to REDIS_ADDR. Without it, or when the server
// does not answer, leaderboards are disabled and a NoopBoard is returned.
func NewBoardFromEnv(ctx context.Context) Board {
	addr := configs.GetEnv("REDIS_ADDR")
	if addr == "" {
		log.Println("[WARN] REDIS_ADDR not set, leaderboards disabled")
		return NoopBoard{}
	}
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: configs.GetEnv("REDIS_PASSWORD"),
		DB:       configs.GetEnvInt("REDIS_DB", 0),
	})

	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		log.Printf("[WARN] redis ping %s failed, leaderboards disabled: %v", addr, err)
		_ = client.Close()
		return NoopBoard{}
	}
	log.Println("✅ Redis connected:", addr)
	return NewRedisBoard(client)
}
