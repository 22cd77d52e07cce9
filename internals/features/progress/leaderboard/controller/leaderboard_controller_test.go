package controller

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"englishku_backend/internals/features/progress/leaderboard/service"
	"englishku_backend/internals/features/users/user/model"
	"englishku_backend/internals/features/users/user/repository"
	helper "englishku_backend/internals/helpers"
)

func get(t *testing.T, app *fiber.App, path, user string) (int, map[string]any) {
	t.Helper()
	req := httptest.NewRequest(fiber.MethodGet, path, nil)
	if user != "" {
		req.Header.Set("X-User", user)
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	var out map[string]any
	_ = json.NewDecoder(resp.Body).Decode(&out)
	return resp.StatusCode, out
}

func TestLeaderboardTopAndOwnRank(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	board := service.NewRedisBoard(client)

	me, rival := uuid.New(), uuid.New()
	ctx := context.Background()
	require.NoError(t, board.Update(ctx, me, 40, 2))
	require.NoError(t, board.Update(ctx, rival, 90, 1))

	names := repository.NewMemoryRepository(
		&model.UserModel{UserID: me, UserDisplayName: "Me"},
		&model.UserModel{UserID: rival, UserDisplayName: "Rival"},
	)

	app := fiber.New(fiber.Config{ErrorHandler: helper.ErrorHandler})
	app.Use(func(c *fiber.Ctx) error {
		if v := c.Get("X-User"); v != "" {
			c.Locals("user_id", v)
		}
		return c.Next()
	})
	app.Get("/leaderboard/:board", NewLeaderboardController(board, names).Get)

	code, body := get(t, app, "/leaderboard/xp?limit=5", me.String())
	require.Equal(t, fiber.StatusOK, code)
	data := body["data"].(map[string]any)
	entries := data["entries"].([]any)
	require.Len(t, entries, 2)
	first := entries[0].(map[string]any)
	assert.Equal(t, "Rival", first["display_name"])
	assert.Equal(t, float64(90), first["score"])
	assert.Equal(t, float64(2), data["my_rank"])
	assert.Equal(t, float64(40), data["my_score"])

	code, _ = get(t, app, "/leaderboard/coins", me.String())
	assert.Equal(t, fiber.StatusNotFound, code)

	code, _ = get(t, app, "/leaderboard/xp", "")
	assert.Equal(t, fiber.StatusUnauthorized, code)
}
