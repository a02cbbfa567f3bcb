package analytics

import "fmt"

// BuildDashboardView assembles the dashboard figures for today. habits are
// the active habits; goal may be nil.
func BuildDashboardView(habits []HabitMeta, completions []CompletionEvent, sessions []FocusSessionEvent, goal *WeeklyGoal, today Date) (DashboardView, error) {
	goalHours, err := ResolveGoal(goal)
	if err != nil {
		return DashboardView{}, fmt.Errorf("dashboard: %w", err)
	}

	buckets, err := AggregateWeek(nil, sessions, WeekStart(today))
	if err != nil {
		return DashboardView{}, fmt.Errorf("dashboard: %w", err)
	}
	var todayMinutes, weekMinutes int
	for _, b := range buckets {
		weekMinutes += b.FocusMinutes
		if b.Date == today {
			todayMinutes = b.FocusMinutes
		}
	}

	percent, err := WeeklyProgressPercent(weekMinutes, goalHours)
	if err != nil {
		return DashboardView{}, fmt.Errorf("dashboard: %w", err)
	}

	doneToday := make(map[string]struct{})
	for _, c := range completions {
		if c.OccurredOn.IsZero() {
			return DashboardView{}, fmt.Errorf("dashboard: completion of %q: %w", c.EntityID, ErrMalformedDate)
		}
		if c.OccurredOn == today {
			doneToday[c.EntityID] = struct{}{}
		}
	}

	return DashboardView{
		StudyStreakDays:       StudyStreak(completions, sessions, today),
		TodayFocusMinutes:     todayMinutes,
		WeeklyFocusMinutes:    weekMinutes,
		WeeklyProgressPercent: percent,
		WeeklyGoalHours:       goalHours,
		CompletedTodayCount:   len(doneToday),
		TotalHabits:           len(habits),
	}, nil
}

// BuildAnalyticsView assembles the week containing today plus the current
// streak of every habit.
func BuildAnalyticsView(completions []CompletionEvent, sessions []FocusSessionEvent, habits []HabitMeta, today Date) (AnalyticsView, error) {
	buckets, err := AggregateWeek(completions, sessions, WeekStart(today))
	if err != nil {
		return AnalyticsView{}, fmt.Errorf("analytics: %w", err)
	}

	v := AnalyticsView{
		DailyBuckets:    buckets,
		PerHabitStreaks: HabitStreaks(habits, completions, today),
	}
	for _, b := range buckets {
		v.TotalWeeklyHabits += b.HabitsCompleted
		v.TotalWeeklyFocusSessions += b.FocusSessions
		v.TotalWeeklyFocusMinutes += b.FocusMinutes
	}
	return v, nil
}
