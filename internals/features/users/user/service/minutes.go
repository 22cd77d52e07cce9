package service

import (
	"englishku_backend/internals/constants"
	"englishku_backend/internals/features/users/user/model"
)

// ApplyMinutes adds elapsed study minutes for today. elapsed is clamped to
// [0, MaxMinutesPerTick]; a counter left over from another day restarts.
func ApplyMinutes(u *model.UserModel, today string, elapsed int) {
	if elapsed < 0 {
		elapsed = 0
	}
	if elapsed > constants.MaxMinutesPerTick {
		elapsed = constants.MaxMinutesPerTick
	}
	if u.UserMinutesDate != today {
		u.UserMinutesToday = elapsed
		u.UserMinutesDate = today
		return
	}
	u.UserMinutesToday += elapsed
}

// MinutesOn is the stored counter when it belongs to day, else 0.
func MinutesOn(u *model.UserModel, day string) int {
	if u.UserMinutesDate != day {
		return 0
	}
	return u.UserMinutesToday
}
