package dto

import (
	"strings"
	"time"

	"github.com/google/uuid"

	uModel "englishku_backend/internals/features/users/user/model"
)

// UpdateProfileRequest is a partial update; nil fields are left alone.
type UpdateProfileRequest struct {
	DisplayName    *string `json:"display_name,omitempty" validate:"omitempty,min=1,max=100"`
	NativeLanguage *string `json:"native_language,omitempty" validate:"omitempty,max=50"`
	Motivation     *string `json:"motivation,omitempty" validate:"omitempty,max=255"`
	EnglishLevel   *string `json:"english_level,omitempty" validate:"omitempty,max=30"`
}

func (r *UpdateProfileRequest) Normalize() {
	for _, p := range []*string{r.DisplayName, r.NativeLanguage, r.Motivation, r.EnglishLevel} {
		if p != nil {
			*p = strings.TrimSpace(*p)
		}
	}
}

// ApplyToModel copies the present fields. Empty optional strings clear the
// column; the display name is never cleared.
func (r *UpdateProfileRequest) ApplyToModel(m *uModel.UserModel) {
	if r.DisplayName != nil && *r.DisplayName != "" {
		m.UserDisplayName = *r.DisplayName
	}
	m.UserNativeLanguage = optional(r.NativeLanguage, m.UserNativeLanguage)
	m.UserMotivation = optional(r.Motivation, m.UserMotivation)
	m.UserEnglishLevel = optional(r.EnglishLevel, m.UserEnglishLevel)
}

func optional(in, cur *string) *string {
	if in == nil {
		return cur
	}
	if *in == "" {
		return nil
	}
	v := *in
	return &v
}

type MinutesRequest struct {
	Minutes int `json:"minutes" validate:"min=0"`
}

type DailyGoalRequest struct {
	Goal int `json:"goal" validate:"required,min=1,max=50"`
}

// UserResponse is the profile as the client sees it.
type UserResponse struct {
	ID             uuid.UUID  `json:"id"`
	Email          string     `json:"email"`
	DisplayName    string     `json:"display_name"`
	PhotoURL       *string    `json:"photo_url,omitempty"`
	Role           string     `json:"role"`
	NativeLanguage *string    `json:"native_language,omitempty"`
	Motivation     *string    `json:"motivation,omitempty"`
	EnglishLevel   *string    `json:"english_level,omitempty"`
	AvailableXP    int        `json:"available_xp"`
	TotalXP        int        `json:"total_xp"`
	Level          int        `json:"level"`
	Streak         int        `json:"streak"`
	DailyGoal      int        `json:"daily_goal"`
	Plan           string     `json:"plan,omitempty"`
	PlanExpiresAt  *time.Time `json:"plan_expires_at,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
}

// FromModel maps the user; Plan is the plan active at now.
func FromModel(m *uModel.UserModel, now time.Time) *UserResponse {
	if m == nil {
		return nil
	}
	return &UserResponse{
		ID:             m.UserID,
		Email:          m.UserEmail,
		DisplayName:    m.UserDisplayName,
		PhotoURL:       m.UserPhotoURL,
		Role:           m.UserRole,
		NativeLanguage: m.UserNativeLanguage,
		Motivation:     m.UserMotivation,
		EnglishLevel:   m.UserEnglishLevel,
		AvailableXP:    m.UserAvailableXP,
		TotalXP:        m.UserTotalXP,
		Level:          m.UserLevel,
		Streak:         m.UserStreak,
		DailyGoal:      m.UserDailyGoal,
		Plan:           m.ActivePlan(now),
		PlanExpiresAt:  m.UserPlanExpiresAt,
		CreatedAt:      m.CreatedAt,
	}
}
