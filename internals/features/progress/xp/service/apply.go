package service

import (
	"strings"

	"englishku_backend/internals/features/users/user/model"
)

// ApplyGrant credits amount XP to u under label for the day key today.
// It is a no-op (false) when the label was already rewarded that day, the
// label is empty or the amount is not positive.
func ApplyGrant(u *model.UserModel, today, label string, amount int) bool {
	label = strings.TrimSpace(label)
	if u == nil || today == "" || label == "" || amount <= 0 {
		return false
	}
	history := u.History()
	day := history[today]
	if _, done := day.Source[label]; done {
		return false
	}
	if day.Source == nil {
		day.Source = map[string]int{}
	}
	day.Source[label] = amount
	day.Earned += amount
	history[today] = day

	u.UserAvailableXP += amount
	u.UserTotalXP += amount
	return true
}
