package service

import (
	"englishku_backend/internals/helpers/dbtime"
)

// NextStreak computes the streak after activity on today.
//
//	same day as lastUpdate     -> unchanged
//	exactly the next day       -> streak + 1
//	never set, a gap, or a lastUpdate in the future -> 1
//
// changed reports whether lastUpdate should be moved to today.
func NextStreak(streak int, lastUpdate, today string) (next int, changed bool) {
	if lastUpdate == "" {
		return 1, true
	}
	days, err := dbtime.DaysBetween(lastUpdate, today)
	if err != nil {
		return 1, true
	}
	switch days {
	case 0:
		if streak < 1 {
			return 1, true
		}
		return streak, false
	case 1:
		return streak + 1, true
	default:
		return 1, true
	}
}
