package dto

import (
	"strings"
	"time"

	xp "englishku_backend/internals/features/progress/xp/service"
	userDTO "englishku_backend/internals/features/users/user/dto"
)

type GoogleLoginRequest struct {
	IDToken        string  `json:"id_token" validate:"required"`
	NativeLanguage *string `json:"native_language" validate:"omitempty,max=50"`
	Motivation     *string `json:"motivation" validate:"omitempty,max=255"`
	EnglishLevel   *string `json:"english_level" validate:"omitempty,max=30"`
}

func (r *GoogleLoginRequest) Normalize() {
	r.IDToken = strings.TrimSpace(r.IDToken)
	for _, p := range []*string{r.NativeLanguage, r.Motivation, r.EnglishLevel} {
		if p != nil {
			*p = strings.TrimSpace(*p)
		}
	}
}

type LoginResponse struct {
	AccessToken string                `json:"access_token"`
	TokenType   string                `json:"token_type"`
	ExpiresAt   time.Time             `json:"expires_at"`
	IsNewUser   bool                  `json:"is_new_user"`
	User        *userDTO.UserResponse `json:"user"`
	LoginBonus  *xp.GrantResult       `json:"login_bonus,omitempty"`
}
