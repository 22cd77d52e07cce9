package controller

import (
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"

	xpController "englishku_backend/internals/features/progress/xp/controller"
	xp "englishku_backend/internals/features/progress/xp/service"
	"englishku_backend/internals/features/users/user/dto"
	"englishku_backend/internals/features/users/user/repository"
	"englishku_backend/internals/features/users/user/service"
	helper "englishku_backend/internals/helpers"
)

type UserController struct {
	Users  *service.Service
	Ledger *xp.Ledger
}

func NewUserController(users *service.Service, ledger *xp.Ledger) *UserController {
	return &UserController{Users: users, Ledger: ledger}
}

// GET /api/u/me
func (uc *UserController) GetMe(c *fiber.Ctx) error {
	userID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return err
	}
	u, err := uc.Users.Profile(c.UserContext(), userID)
	if err != nil {
		return MapError(c, err)
	}
	return helper.JsonOK(c, "User profile fetched successfully", dto.FromModel(u, uc.Users.Clock()))
}

// PATCH /api/u/me/profile
func (uc *UserController) UpdateProfile(c *fiber.Ctx) error {
	userID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return err
	}
	var req dto.UpdateProfileRequest
	if ok, err := helper.BindAndValidate(c, &req); !ok {
		return err
	}
	u, err := uc.Users.UpdateProfile(c.UserContext(), userID, req)
	if err != nil {
		return MapError(c, err)
	}
	return helper.JsonUpdated(c, "Profile updated", dto.FromModel(u, uc.Users.Clock()))
}

// POST /api/u/me/photo (multipart "photo")
func (uc *UserController) UploadPhoto(c *fiber.Ctx) error {
	userID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return err
	}
	file, err := helper.ReadFormFile(c, "photo", helper.MaxImageBytes)
	if err != nil {
		return err
	}
	u, err := uc.Users.UploadPhoto(c.UserContext(), userID, file.Data)
	if err != nil {
		return MapError(c, err)
	}
	return helper.JsonUpdated(c, "Photo updated", dto.FromModel(u, uc.Users.Clock()))
}

// POST /api/u/me/login-bonus
func (uc *UserController) LoginBonus(c *fiber.Ctx) error {
	userID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return err
	}
	res, err := uc.Ledger.LoginBonus(c.UserContext(), userID)
	if err != nil {
		return xpController.MapError(c, err)
	}
	msg := "Daily bonus granted"
	if !res.Granted {
		msg = "Daily bonus already claimed"
	}
	return helper.JsonOK(c, msg, res)
}

// POST /api/u/me/minutes
func (uc *UserController) AddMinutes(c *fiber.Ctx) error {
	userID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return err
	}
	var req dto.MinutesRequest
	if ok, err := helper.BindAndValidate(c, &req); !ok {
		return err
	}
	card, err := uc.Users.AddMinutes(c.UserContext(), userID, req.Minutes)
	if err != nil {
		return MapError(c, err)
	}
	return helper.JsonOK(c, "Minutes recorded", card)
}

// GET /api/u/me/today
func (uc *UserController) Today(c *fiber.Ctx) error {
	userID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return err
	}
	card, err := uc.Users.Today(c.UserContext(), userID)
	if err != nil {
		return MapError(c, err)
	}
	return helper.JsonOK(c, "ok", card)
}

// GET /api/u/me/stats
func (uc *UserController) Stats(c *fiber.Ctx) error {
	userID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return err
	}
	st, err := uc.Users.Stats(c.UserContext(), userID)
	if err != nil {
		return MapError(c, err)
	}
	return helper.JsonOK(c, "ok", st)
}

// GET /api/u/me/achievements
func (uc *UserController) Achievements(c *fiber.Ctx) error {
	userID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return err
	}
	list, err := uc.Users.Achievements(c.UserContext(), userID)
	if err != nil {
		return MapError(c, err)
	}
	return helper.JsonOK(c, "ok", list)
}

// GET /api/u/me/daily-goal
func (uc *UserController) GetDailyGoal(c *fiber.Ctx) error {
	userID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return err
	}
	g, err := uc.Users.DailyGoal(c.UserContext(), userID)
	if err != nil {
		return MapError(c, err)
	}
	return helper.JsonOK(c, "ok", g)
}

// PATCH /api/u/me/daily-goal
func (uc *UserController) SetDailyGoal(c *fiber.Ctx) error {
	userID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return err
	}
	var req dto.DailyGoalRequest
	if ok, err := helper.BindAndValidate(c, &req); !ok {
		return err
	}
	g, err := uc.Users.SetDailyGoal(c.UserContext(), userID, req.Goal)
	if err != nil {
		return MapError(c, err)
	}
	return helper.JsonUpdated(c, "Daily goal updated", g)
}

func MapError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, xp.ErrMissingUser):
		return helper.JsonError(c, fiber.StatusUnauthorized, "Please sign in again")
	case errors.Is(err, repository.ErrUserNotFound):
		return helper.JsonError(c, fiber.StatusNotFound, "User not found")
	case errors.Is(err, service.ErrInvalidImage):
		return helper.JsonError(c, fiber.StatusBadRequest, "Please upload a JPEG, PNG, GIF or WebP image")
	case errors.Is(err, service.ErrPhotoUploadDisabled):
		return helper.JsonError(c, fiber.StatusServiceUnavailable, "Photo upload is not available right now")
	default:
		log.Println("[ERROR] user:", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to process request")
	}
}
