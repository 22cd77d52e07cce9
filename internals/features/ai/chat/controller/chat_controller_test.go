package controller

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"englishku_backend/internals/features/ai/chat/model"
	"englishku_backend/internals/features/ai/chat/repository"
	"englishku_backend/internals/features/ai/chat/service"
	helper "englishku_backend/internals/helpers"
)

type listBody struct {
	Data       []service.SessionSummary `json:"data"`
	Pagination helper.Pagination        `json:"pagination"`
}

func TestListSessionsPaging(t *testing.T) {
	user := uuid.New()
	repo := repository.NewMemoryRepository()
	start := time.Date(2024, 2, 1, 9, 0, 0, 0, time.UTC)
	var ids []uuid.UUID
	for i := 0; i < 5; i++ {
		s := &model.ChatSessionModel{
			ChatSessionID:        uuid.New(),
			ChatSessionUserID:    user,
			ChatSessionMode:      model.ModeChat,
			ChatSessionStartTime: start.Add(time.Duration(i) * time.Minute),
		}
		require.NoError(t, repo.Create(context.Background(), s))
		ids = append(ids, s.ChatSessionID)
	}

	app := fiber.New(fiber.Config{ErrorHandler: helper.ErrorHandler})
	app.Use(func(c *fiber.Ctx) error {
		c.Locals("user_id", user)
		return c.Next()
	})
	app.Get("/sessions", NewChatController(service.NewService(repo, nil, nil), nil).List)

	get := func(query string) listBody {
		resp, err := app.Test(httptest.NewRequest("GET", "/sessions"+query, nil))
		require.NoError(t, err)
		require.Equal(t, fiber.StatusOK, resp.StatusCode)
		var out listBody
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
		return out
	}

	first := get("?mode=chat&page=1&per_page=2")
	require.Len(t, first.Data, 2)
	assert.Equal(t, ids[4], first.Data[0].SessionID, "newest first")
	assert.Equal(t, helper.Pagination{Page: 1, PerPage: 2, Total: 5, TotalPages: 3, HasNext: true}, first.Pagination)

	last := get("?mode=chat&page=3&per_page=2")
	require.Len(t, last.Data, 1)
	assert.Equal(t, ids[0], last.Data[0].SessionID)
	assert.False(t, last.Pagination.HasNext)
	assert.True(t, last.Pagination.HasPrev)

	// the older ?limit= spelling still works
	legacy := get("?limit=3")
	assert.Len(t, legacy.Data, 3)
	assert.Equal(t, 3, legacy.Pagination.PerPage)
}
