// file: internals/helpers/dbtime/time_helper.go
package dbtime

import (
	"time"
)

// DayLayout is the calendar-day key format used across XP history,
// streaks, login bonus and the minutes counter.
const DayLayout = "2006-01-02"

// Clock returns "now". Services hold one so tests can pin the date.
type Clock func() time.Time

func SystemClock() time.Time { return time.Now() }

// FixedClock always returns t.
func FixedClock(t time.Time) Clock {
	return func() time.Time { return t }
}

// DayKey formats t as YYYY-MM-DD in loc (UTC when loc is nil).
func DayKey(t time.Time, loc *time.Location) string {
	if loc == nil {
		loc = time.UTC
	}
	return t.In(loc).Format(DayLayout)
}

// ParseDay parses a YYYY-MM-DD key as midnight UTC.
func ParseDay(key string) (time.Time, error) {
	return time.Parse(DayLayout, key)
}

// DaysBetween returns the number of calendar days from "from" to "to".
// Negative when "to" is before "from".
func DaysBetween(from, to string) (int, error) {
	f, err := ParseDay(from)
	if err != nil {
		return 0, err
	}
	t, err := ParseDay(to)
	if err != nil {
		return 0, err
	}
	return int(t.Sub(f).Hours() / 24), nil
}

// AddDays shifts a day key by n days.
func AddDays(key string, n int) (string, error) {
	d, err := ParseDay(key)
	if err != nil {
		return "", err
	}
	return d.AddDate(0, 0, n).Format(DayLayout), nil
}
