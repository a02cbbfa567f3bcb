package store

import (
	"fmt"

	"github.com/sadopc/studytrack/internal/analytics"
)

// DashboardView recomputes the dashboard figures from the stored history.
func (s *Store) DashboardView(today analytics.Date) (analytics.DashboardView, error) {
	habits, err := s.ListHabits(false)
	if err != nil {
		return analytics.DashboardView{}, err
	}
	completions, err := s.CompletionEvents()
	if err != nil {
		return analytics.DashboardView{}, err
	}
	sessions, err := s.FocusSessionEvents()
	if err != nil {
		return analytics.DashboardView{}, err
	}
	goal, err := s.WeeklyGoal()
	if err != nil {
		return analytics.DashboardView{}, err
	}
	view, err := analytics.BuildDashboardView(
		HabitMetas(habits),
		ActiveCompletions(completions, habits),
		sessions, goal, today,
	)
	if err != nil {
		return analytics.DashboardView{}, fmt.Errorf("dashboard: %w", err)
	}
	return view, nil
}

// AnalyticsView builds the report for the week weeksBack weeks before the
// one containing today, and returns that week's first day. Streaks always
// end today.
func (s *Store) AnalyticsView(today analytics.Date, weeksBack int) (analytics.AnalyticsView, analytics.Date, error) {
	weekStart := analytics.WeekStart(today)
	habits, err := s.ListHabits(false)
	if err != nil {
		return analytics.AnalyticsView{}, weekStart, err
	}
	completions, err := s.CompletionEvents()
	if err != nil {
		return analytics.AnalyticsView{}, weekStart, err
	}
	completions = ActiveCompletions(completions, habits)
	sessions, err := s.FocusSessionEvents()
	if err != nil {
		return analytics.AnalyticsView{}, weekStart, err
	}

	report, err := analytics.BuildAnalyticsView(completions, sessions, HabitMetas(habits), today)
	if err != nil {
		return analytics.AnalyticsView{}, weekStart, fmt.Errorf("analytics: %w", err)
	}
	if weeksBack <= 0 {
		return report, weekStart, nil
	}

	weekStart = weekStart.AddDays(-7 * weeksBack)
	buckets, err := analytics.AggregateWeek(completions, sessions, weekStart)
	if err != nil {
		return analytics.AnalyticsView{}, weekStart, fmt.Errorf("analytics week %s: %w", weekStart, err)
	}
	report.DailyBuckets = buckets
	report.TotalWeeklyHabits, report.TotalWeeklyFocusSessions, report.TotalWeeklyFocusMinutes = 0, 0, 0
	for _, b := range buckets {
		report.TotalWeeklyHabits += b.HabitsCompleted
		report.TotalWeeklyFocusSessions += b.FocusSessions
		report.TotalWeeklyFocusMinutes += b.FocusMinutes
	}
	return report, weekStart, nil
}
