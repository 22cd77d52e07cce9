package controller

import (
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"englishku_backend/internals/features/progress/xp/service"
	"englishku_backend/internals/features/users/user/model"
	"englishku_backend/internals/features/users/user/repository"
	helper "englishku_backend/internals/helpers"
	"englishku_backend/internals/helpers/dbtime"
)

func newApp(t *testing.T) (*fiber.App, uuid.UUID) {
	t.Helper()
	id := uuid.New()
	users := repository.NewMemoryRepository(&model.UserModel{UserID: id, UserLevel: 1})
	ledger := service.NewLedger(users, nil, nil, nil, time.UTC)
	ledger.Clock = dbtime.FixedClock(time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC))

	app := fiber.New(fiber.Config{ErrorHandler: helper.ErrorHandler})
	app.Use(func(c *fiber.Ctx) error {
		if v := c.Get("X-User"); v != "" {
			c.Locals("user_id", v)
		}
		return c.Next()
	})
	ctrl := NewXPController(ledger)
	app.Post("/xp/grants", ctrl.Grant)
	app.Get("/xp/history", ctrl.History)
	return app, id
}

func grant(t *testing.T, app *fiber.App, user, body string) (int, map[string]any) {
	t.Helper()
	req := httptest.NewRequest(fiber.MethodPost, "/xp/grants", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if user != "" {
		req.Header.Set("X-User", user)
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	var out map[string]any
	_ = json.NewDecoder(resp.Body).Decode(&out)
	return resp.StatusCode, out
}

func TestGrantEndpoint(t *testing.T) {
	app, id := newApp(t)

	code, body := grant(t, app, id.String(), `{"label":"speaking"}`)
	assert.Equal(t, fiber.StatusOK, code)
	data := body["data"].(map[string]any)
	assert.Equal(t, true, data["granted"])
	assert.Equal(t, float64(15), data["total_xp"])

	code, body = grant(t, app, id.String(), `{"label":"speaking"}`)
	assert.Equal(t, fiber.StatusOK, code)
	assert.Equal(t, false, body["data"].(map[string]any)["granted"])

	code, _ = grant(t, app, id.String(), `{"label":"final-exam"}`)
	assert.Equal(t, fiber.StatusBadRequest, code)

	code, _ = grant(t, app, id.String(), `{}`)
	assert.Equal(t, fiber.StatusUnprocessableEntity, code)

	code, _ = grant(t, app, "", `{"label":"chat"}`)
	assert.Equal(t, fiber.StatusUnauthorized, code)
}

func TestHistoryEndpoint(t *testing.T) {
	app, id := newApp(t)
	grant(t, app, id.String(), `{"label":"chat"}`)

	req := httptest.NewRequest(fiber.MethodGet, "/xp/history?days=3", nil)
	req.Header.Set("X-User", id.String())
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var out struct {
		Data []service.HistoryDay `json:"data"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	require.Len(t, out.Data, 3)
	assert.Equal(t, "2024-03-10", out.Data[0].Date)
	assert.Equal(t, 10, out.Data[0].Earned)
}
