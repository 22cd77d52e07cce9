package controller

import (
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"

	"englishku_backend/internals/constants"
	"englishku_backend/internals/features/progress/xp/dto"
	"englishku_backend/internals/features/progress/xp/service"
	"englishku_backend/internals/features/users/user/repository"
	helper "englishku_backend/internals/helpers"
)

type XPController struct {
	Ledger *service.Ledger
}

func NewXPController(ledger *service.Ledger) *XPController {
	return &XPController{Ledger: ledger}
}

// POST /api/u/xp/grants
func (ctrl *XPController) Grant(c *fiber.Ctx) error {
	userID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return err
	}
	var req dto.GrantRequest
	if ok, err := helper.BindAndValidate(c, &req); !ok {
		return err
	}
	if !constants.ClientGrantable[req.Label] {
		return helper.JsonError(c, fiber.StatusBadRequest, "Unknown or server-only XP label")
	}

	res, err := ctrl.Ledger.GrantLabel(c.UserContext(), userID, req.Label)
	if err != nil {
		return MapError(c, err)
	}
	msg := "XP granted"
	if !res.Granted {
		msg = "Already rewarded today"
	}
	return helper.JsonOK(c, msg, res)
}

// GET /api/u/xp/history?days=7
func (ctrl *XPController) History(c *fiber.Ctx) error {
	userID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return err
	}
	days, err := ctrl.Ledger.History(c.UserContext(), userID, c.QueryInt("days", 7))
	if err != nil {
		return MapError(c, err)
	}
	return helper.JsonOK(c, "ok", days)
}

// MapError converts ledger errors into HTTP responses.
func MapError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, service.ErrMissingUser):
		return helper.JsonError(c, fiber.StatusUnauthorized, "Please sign in again")
	case errors.Is(err, service.ErrUnknownLabel):
		return helper.JsonError(c, fiber.StatusBadRequest, err.Error())
	case errors.Is(err, repository.ErrUserNotFound):
		return helper.JsonError(c, fiber.StatusNotFound, "User not found")
	default:
		log.Println("[ERROR] xp:", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to update XP")
	}
}
