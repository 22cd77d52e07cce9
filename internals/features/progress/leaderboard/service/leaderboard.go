package service

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	BoardXP     = "xp"
	BoardStreak = "streak"

	keyPrefix = "leaderboard:"
)

var ErrUnknownBoard = errors.New("unknown leaderboard")

type Entry struct {
	UserID uuid.UUID `json:"user_id"`
	Score  int64     `json:"score"`
	Rank   int64     `json:"rank"`
}

// Board keeps per-user totals for the XP and streak rankings.
type Board interface {
	Update(ctx context.Context, userID uuid.UUID, totalXP, streak int) error
	Top(ctx context.Context, board string, limit int64) ([]Entry, error)
	// Rank is 1-based; 0 means the user is not ranked yet.
	Rank(ctx context.Context, board string, userID uuid.UUID) (rank int64, score int64, err error)
}

func boardKey(board string) (string, error) {
	switch board {
	case BoardXP, BoardStreak:
		return keyPrefix + board, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownBoard, board)
	}
}

// RedisBoard stores each board as a sorted set scored by the value.
type RedisBoard struct {
	client *redis.Client
}

func NewRedisBoard(client *redis.Client) *RedisBoard {
	return &RedisBoard{client: client}
}

func (b *RedisBoard) Update(ctx context.Context, userID uuid.UUID, totalXP, streak int) error {
	member := userID.String()
	_, err := b.client.TxPipelined(ctx, func(p redis.Pipeliner) error {
		p.ZAdd(ctx, keyPrefix+BoardXP, redis.Z{Score: float64(totalXP), Member: member})
		p.ZAdd(ctx, keyPrefix+BoardStreak, redis.Z{Score: float64(streak), Member: member})
		return nil
	})
	return err
}

func (b *RedisBoard) Top(ctx context.Context, board string, limit int64) ([]Entry, error) {
	key, err := boardKey(board)
	if err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = 10
	}
	results, err := b.client.ZRevRangeWithScores(ctx, key, 0, limit-1).Result()
	if err != nil {
		return nil, err
	}
	entries := make([]Entry, 0, len(results))
	for i, z := range results {
		member, _ := z.Member.(string)
		id, err := uuid.Parse(member)
		if err != nil {
			log.Printf("[WARN] leaderboard %s: skipping member %q", board, member)
			continue
		}
		entries = append(entries, Entry{UserID: id, Score: int64(z.Score), Rank: int64(i) + 1})
	}
	return entries, nil
}

func (b *RedisBoard) Rank(ctx context.Context, board string, userID uuid.UUID) (int64, int64, error) {
	key, err := boardKey(board)
	if err != nil {
		return 0, 0, err
	}
	member := userID.String()
	rank, err := b.client.ZRevRank(ctx, key, member).Result()
	if errors.Is(err, redis.Nil) {
		return 0, 0, nil
	}
	if err != nil {
		return 0, 0, err
	}
	score, err := b.client.ZScore(ctx, key, member).Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		return 0, 0, err
	}
	return rank + 1, int64(score), nil
}

// NoopBoard is used when Redis is not configured: updates are dropped and
// reads are empty.
type NoopBoard struct{}

func (NoopBoard) Update(context.Context, uuid.UUID, int, int) error { return nil }

func (NoopBoard) Top(_ context.Context, board string, _ int64) ([]Entry, error) {
	if _, err := boardKey(board); err != nil {
		return nil, err
	}
	return []Entry{}, nil
}

func (NoopBoard) Rank(_ context.Context, board string, _ uuid.UUID) (int64, int64, error) {
	_, err := boardKey(board)
	return 0, 0, err
}
