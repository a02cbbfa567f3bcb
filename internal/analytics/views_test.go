package analytics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixture() ([]HabitMeta, []CompletionEvent, []FocusSessionEvent) {
	// today is Wednesday 2024-03-13, week starts Sunday 2024-03-10
	habits := []HabitMeta{{ID: "read", Title: "Read"}, {ID: "run", Title: "Run"}, {ID: "sleep", Title: "Sleep"}}
	completions := []CompletionEvent{
		{EntityID: "read", OccurredOn: today},
		{EntityID: "read", OccurredOn: today},
		{EntityID: "read", OccurredOn: today.AddDays(-1)},
		{EntityID: "run", OccurredOn: today},
		{EntityID: "sleep", OccurredOn: today.AddDays(-1)},
		{EntityID: "read", OccurredOn: today.AddDays(-5)}, // last week
	}
	sessions := []FocusSessionEvent{
		{OccurredAt: at(today, 9), DurationMinutes: 25, Kind: KindWork},
		{OccurredAt: at(today, 11), DurationMinutes: 25, Kind: KindWork},
		{OccurredAt: at(today.AddDays(-2), 10), DurationMinutes: 70, Kind: KindWork},
		{OccurredAt: at(today.AddDays(-4), 10), DurationMinutes: 500, Kind: KindWork}, // last week
	}
	return habits, completions, sessions
}

func TestBuildDashboardView(t *testing.T) {
	habits, completions, sessions := fixture()

	v, err := BuildDashboardView(habits, completions, sessions, &WeeklyGoal{OwnerID: "me", TargetHours: 2}, today)
	require.NoError(t, err)

	assert.Equal(t, DashboardView{
		StudyStreakDays:       3, // today, -1 (habits), -2 (session)
		TodayFocusMinutes:     50,
		WeeklyFocusMinutes:    120,
		WeeklyProgressPercent: 100,
		WeeklyGoalHours:       2,
		CompletedTodayCount:   2,
		TotalHabits:           3,
	}, v)
}

func TestBuildDashboardViewDefaultGoal(t *testing.T) {
	habits, completions, sessions := fixture()

	v, err := BuildDashboardView(habits, completions, sessions, nil, today)
	require.NoError(t, err)
	assert.Equal(t, DefaultGoalHours, v.WeeklyGoalHours)
	assert.Equal(t, 10, v.WeeklyProgressPercent)
}

func TestBuildDashboardViewInvalidGoal(t *testing.T) {
	habits, completions, sessions := fixture()

	_, err := BuildDashboardView(habits, completions, sessions, &WeeklyGoal{TargetHours: -1}, today)
	assert.ErrorIs(t, err, ErrInvalidGoal)
}

func TestBuildDashboardViewEmpty(t *testing.T) {
	v, err := BuildDashboardView(nil, nil, nil, nil, today)
	require.NoError(t, err)
	assert.Equal(t, DashboardView{WeeklyGoalHours: DefaultGoalHours}, v)
}

func TestBuildDashboardViewMissingToday(t *testing.T) {
	habits, completions, _ := fixture()
	// nothing today means no streak, even with yesterday filled in
	v, err := BuildDashboardView(habits, completions, nil, nil, today.AddDays(1))
	require.NoError(t, err)
	assert.Zero(t, v.StudyStreakDays)
	assert.Zero(t, v.CompletedTodayCount)
}

func TestBuildAnalyticsView(t *testing.T) {
	habits, completions, sessions := fixture()

	v, err := BuildAnalyticsView(completions, sessions, habits, today)
	require.NoError(t, err)

	require.Len(t, v.DailyBuckets, 7)
	assert.Equal(t, time.Sunday, v.DailyBuckets[0].Label)
	assert.Equal(t, WeekStart(today), v.DailyBuckets[0].Date)

	// Mon: 70 min; Tue: read + sleep; Wed: read + run, 50 min
	assert.Equal(t, 1, v.DailyBuckets[1].FocusSessions)
	assert.Equal(t, 2, v.DailyBuckets[2].HabitsCompleted)
	assert.Equal(t, 2, v.DailyBuckets[3].HabitsCompleted)
	assert.Equal(t, 50, v.DailyBuckets[3].FocusMinutes)

	assert.Equal(t, 4, v.TotalWeeklyHabits)
	assert.Equal(t, 3, v.TotalWeeklyFocusSessions)
	assert.Equal(t, 120, v.TotalWeeklyFocusMinutes)

	assert.Equal(t, []StreakResult{
		{EntityID: "read", Title: "Read", CurrentStreakDays: 2},
		{EntityID: "run", Title: "Run", CurrentStreakDays: 1},
		{EntityID: "sleep", Title: "Sleep", CurrentStreakDays: 0},
	}, v.PerHabitStreaks)
}

func TestBuildAnalyticsViewMalformed(t *testing.T) {
	_, err := BuildAnalyticsView([]CompletionEvent{{EntityID: "x"}}, nil, nil, today)
	assert.ErrorIs(t, err, ErrMalformedDate)
}
