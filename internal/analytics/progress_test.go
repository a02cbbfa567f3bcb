package analytics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWeeklyProgressPercent(t *testing.T) {
	tests := []struct {
		minutes int
		goal    float64
		want    int
	}{
		{0, 20, 0},
		{120, 20, 10},
		{1200, 20, 100},
		{1800, 20, 150},
		{90, 1, 150},
		{25, 20, 2},  // 2.08
		{54, 1.2, 75},
	}
	for _, tt := range tests {
		got, err := WeeklyProgressPercent(tt.minutes, tt.goal)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got, "WeeklyProgressPercent(%d, %v)", tt.minutes, tt.goal)
	}
}

func TestWeeklyProgressPercentInvalidGoal(t *testing.T) {
	for _, goal := range []float64{0, -5} {
		_, err := WeeklyProgressPercent(120, goal)
		assert.ErrorIs(t, err, ErrInvalidGoal)
	}
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		minutes int
		want    string
	}{
		{0, "0m"},
		{45, "45m"},
		{60, "1h 0m"},
		{65, "1h 5m"},
		{125, "2h 5m"},
		{-3, "0m"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatDuration(tt.minutes), "FormatDuration(%d)", tt.minutes)
	}
}

func TestResolveGoal(t *testing.T) {
	hours, err := ResolveGoal(nil)
	require.NoError(t, err)
	assert.Equal(t, DefaultGoalHours, hours)

	hours, err = ResolveGoal(&WeeklyGoal{OwnerID: "me", TargetHours: 12.5})
	require.NoError(t, err)
	assert.Equal(t, 12.5, hours)

	_, err = ResolveGoal(&WeeklyGoal{OwnerID: "me", TargetHours: 0})
	assert.ErrorIs(t, err, ErrInvalidGoal)
}
