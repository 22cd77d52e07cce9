package controller

import (
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"

	"englishku_backend/internals/features/users/auth/dto"
	"englishku_backend/internals/features/users/auth/service"
	userDTO "englishku_backend/internals/features/users/user/dto"
	helper "englishku_backend/internals/helpers"
)

type AuthController struct {
	Auth *service.Service
}

func NewAuthController(auth *service.Service) *AuthController {
	return &AuthController{Auth: auth}
}

// POST /api/auth/google
func (ac *AuthController) LoginGoogle(c *fiber.Ctx) error {
	var req dto.GoogleLoginRequest
	if ok, err := helper.BindAndValidate(c, &req); !ok {
		return err
	}
	req.Normalize()

	res, err := ac.Auth.SignInWithGoogle(c.UserContext(), req)
	if err != nil {
		return mapError(c, err)
	}

	c.Cookie(&fiber.Cookie{
		Name:     "access_token",
		Value:    res.Token,
		HTTPOnly: true,
		Secure:   true,
		SameSite: "None",
		Path:     "/",
		Expires:  res.ExpiresAt,
	})

	out := dto.LoginResponse{
		AccessToken: res.Token,
		TokenType:   "Bearer",
		ExpiresAt:   res.ExpiresAt,
		IsNewUser:   res.IsNew,
		User:        userDTO.FromModel(res.User, ac.Auth.Clock()),
		LoginBonus:  res.Bonus,
	}
	if res.IsNew {
		return helper.JsonCreated(c, "Welcome aboard", out)
	}
	return helper.JsonOK(c, "Login successful", out)
}

// POST /api/auth/logout
func (ac *AuthController) Logout(c *fiber.Ctx) error {
	token, _ := c.Locals("access_token").(string)
	if err := ac.Auth.Logout(c.UserContext(), token); err != nil {
		return mapError(c, err)
	}
	c.ClearCookie("access_token")
	return helper.JsonOK(c, "Logged out", nil)
}

func mapError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, service.ErrInvalidIDToken):
		return helper.JsonError(c, fiber.StatusUnauthorized, "Invalid Google ID Token")
	case errors.Is(err, service.ErrMissingToken):
		return helper.JsonError(c, fiber.StatusUnauthorized, "No token provided")
	case errors.Is(err, service.ErrUserInactive):
		return helper.JsonError(c, fiber.StatusForbidden, "Your account has been deactivated")
	case errors.Is(err, service.ErrEmailTaken):
		return helper.JsonError(c, fiber.StatusConflict, "Email already registered")
	default:
		log.Println("[ERROR] auth:", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to sign in")
	}
}
