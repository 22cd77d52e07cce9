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

	lessonrepo "englishku_backend/internals/features/progress/lessons/repository"
	xp "englishku_backend/internals/features/progress/xp/service"
	"englishku_backend/internals/features/users/user/model"
	"englishku_backend/internals/features/users/user/repository"
	"englishku_backend/internals/features/users/user/service"
	helper "englishku_backend/internals/helpers"
	"englishku_backend/internals/helpers/dbtime"
)

func newApp(t *testing.T) (*fiber.App, uuid.UUID) {
	t.Helper()
	id := uuid.New()
	clock := dbtime.FixedClock(time.Date(2024, 6, 2, 9, 0, 0, 0, time.UTC))
	users := repository.NewMemoryRepository(&model.UserModel{UserID: id, UserEmail: "me@example.com", UserDisplayName: "Me", UserLevel: 1, UserDailyGoal: 5})

	svc := service.NewService(users, lessonrepo.NewMemoryRepository(), nil, nil, time.UTC)
	svc.Clock = clock
	ledger := xp.NewLedger(users, nil, nil, nil, time.UTC)
	ledger.Clock = clock

	app := fiber.New(fiber.Config{ErrorHandler: helper.ErrorHandler})
	app.Use(func(c *fiber.Ctx) error {
		if v := c.Get("X-User"); v != "" {
			c.Locals("user_id", v)
		}
		return c.Next()
	})
	ctrl := NewUserController(svc, ledger)
	app.Get("/me", ctrl.GetMe)
	app.Patch("/me/profile", ctrl.UpdateProfile)
	app.Post("/me/photo", ctrl.UploadPhoto)
	app.Post("/me/login-bonus", ctrl.LoginBonus)
	app.Post("/me/minutes", ctrl.AddMinutes)
	app.Patch("/me/daily-goal", ctrl.SetDailyGoal)
	return app, id
}

func do(t *testing.T, app *fiber.App, method, path, user, body string) (int, map[string]any) {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
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

func TestMeRequiresLogin(t *testing.T) {
	app, _ := newApp(t)
	code, _ := do(t, app, fiber.MethodGet, "/me", "", "")
	assert.Equal(t, fiber.StatusUnauthorized, code)
}

func TestProfileAndBonus(t *testing.T) {
	app, id := newApp(t)
	user := id.String()

	code, body := do(t, app, fiber.MethodPatch, "/me/profile", user, `{"display_name":"Asha","native_language":"Hindi"}`)
	require.Equal(t, fiber.StatusOK, code)
	assert.Equal(t, "Asha", body["data"].(map[string]any)["display_name"])

	code, body = do(t, app, fiber.MethodPost, "/me/login-bonus", user, "")
	require.Equal(t, fiber.StatusOK, code)
	data := body["data"].(map[string]any)
	assert.Equal(t, true, data["granted"])
	assert.Equal(t, float64(10), data["total_xp"])
	assert.Equal(t, float64(1), data["streak"])

	code, body = do(t, app, fiber.MethodPost, "/me/login-bonus", user, "")
	require.Equal(t, fiber.StatusOK, code)
	assert.Equal(t, false, body["data"].(map[string]any)["granted"])
}

func TestMinutesAndGoal(t *testing.T) {
	app, id := newApp(t)
	user := id.String()

	code, body := do(t, app, fiber.MethodPost, "/me/minutes", user, `{"minutes":90}`)
	require.Equal(t, fiber.StatusOK, code)
	assert.Equal(t, float64(60), body["data"].(map[string]any)["minutes_today"])

	code, _ = do(t, app, fiber.MethodPost, "/me/minutes", user, `{"minutes":-4}`)
	assert.Equal(t, fiber.StatusUnprocessableEntity, code)

	code, _ = do(t, app, fiber.MethodPatch, "/me/daily-goal", user, `{"goal":0}`)
	assert.Equal(t, fiber.StatusUnprocessableEntity, code)

	code, body = do(t, app, fiber.MethodPatch, "/me/daily-goal", user, `{"goal":3}`)
	require.Equal(t, fiber.StatusOK, code)
	assert.Equal(t, float64(3), body["data"].(map[string]any)["goal"])
}

func TestPhotoUploadDisabled(t *testing.T) {
	app, id := newApp(t)
	code, _ := do(t, app, fiber.MethodPost, "/me/photo", id.String(), "")
	assert.Equal(t, fiber.StatusBadRequest, code, "no multipart file")
}
