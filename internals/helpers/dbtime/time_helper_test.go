package dbtime

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDayKeyUsesLocation(t *testing.T) {
	kolkata, err := time.LoadLocation("Asia/Kolkata")
	require.NoError(t, err)

	// 20:00 UTC is already the next day in Kolkata (+05:30)
	ts := time.Date(2024, 3, 9, 20, 0, 0, 0, time.UTC)
	assert.Equal(t, "2024-03-09", DayKey(ts, time.UTC))
	assert.Equal(t, "2024-03-10", DayKey(ts, kolkata))
	assert.Equal(t, "2024-03-09", DayKey(ts, nil))
}

func TestDaysBetween(t *testing.T) {
	tests := []struct {
		from, to string
		want     int
	}{
		{"2024-03-09", "2024-03-09", 0},
		{"2024-03-09", "2024-03-10", 1},
		{"2024-02-28", "2024-03-01", 2},
		{"2024-03-10", "2024-03-09", -1},
		{"2023-12-31", "2024-01-01", 1},
	}
	for _, tt := range tests {
		got, err := DaysBetween(tt.from, tt.to)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got, "%s -> %s", tt.from, tt.to)
	}

	_, err := DaysBetween("", "2024-01-01")
	assert.Error(t, err)
}

func TestAddDays(t *testing.T) {
	got, err := AddDays("2024-02-28", 2)
	require.NoError(t, err)
	assert.Equal(t, "2024-03-01", got)
}
