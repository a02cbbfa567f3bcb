package analytics

import (
	"fmt"
	"math"
)

// DefaultGoalHours applies when no weekly goal has been set.
const DefaultGoalHours = 20.0

// WeeklyProgressPercent returns focusMinutes as a rounded percentage of
// goalHours. Values above 100 mean the goal was exceeded.
func WeeklyProgressPercent(focusMinutes int, goalHours float64) (int, error) {
	if goalHours <= 0 || math.IsNaN(goalHours) {
		return 0, fmt.Errorf("%w: %v hours", ErrInvalidGoal, goalHours)
	}
	return int(math.Round(float64(focusMinutes) / 60 / goalHours * 100)), nil
}

// FormatDuration renders minutes as "1h 5m" or "45m".
func FormatDuration(minutes int) string {
	if minutes < 0 {
		minutes = 0
	}
	h, m := minutes/60, minutes%60
	if h > 0 {
		return fmt.Sprintf("%dh %dm", h, m)
	}
	return fmt.Sprintf("%dm", m)
}

// ResolveGoal substitutes the default for an absent goal. A goal that is
// present but not positive is an error, not a fallback.
func ResolveGoal(goal *WeeklyGoal) (float64, error) {
	if goal == nil {
		return DefaultGoalHours, nil
	}
	if goal.TargetHours <= 0 || math.IsNaN(goal.TargetHours) {
		return 0, fmt.Errorf("%w: %v hours for owner %q", ErrInvalidGoal, goal.TargetHours, goal.OwnerID)
	}
	return goal.TargetHours, nil
}
