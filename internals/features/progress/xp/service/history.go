package service

import (
	levelmodel "englishku_backend/internals/features/progress/level_rank/model"
	"englishku_backend/internals/features/users/user/model"
	"englishku_backend/internals/helpers/dbtime"
)

type levelReqs = []levelmodel.LevelRequirement

type HistoryDay struct {
	Date   string         `json:"date"`
	Earned int            `json:"earned"`
	Source map[string]int `json:"source"`
}

// HistoryWindow lists `days` day keys ending at today, newest first.
func HistoryWindow(h model.XPHistory, today string, days int) []HistoryDay {
	out := make([]HistoryDay, 0, days)
	for i := 0; i < days; i++ {
		key, err := dbtime.AddDays(today, -i)
		if err != nil {
			break
		}
		d := h[key]
		src := d.Source
		if src == nil {
			src = map[string]int{}
		}
		out = append(out, HistoryDay{Date: key, Earned: d.Earned, Source: src})
	}
	return out
}
