// Package analytics derives streaks, weekly buckets and progress figures from
// habit completions and focus sessions. Every function is a pure recompute
// over the records it is handed; nothing is cached between calls.
package analytics

import "time"

type SessionKind string

const (
	KindWork  SessionKind = "work"
	KindBreak SessionKind = "break"
)

// CompletionEvent marks a habit done on a calendar day.
type CompletionEvent struct {
	EntityID   string
	OccurredOn Date
}

// FocusSessionEvent is a completed Pomodoro interval.
type FocusSessionEvent struct {
	OccurredAt      time.Time
	DurationMinutes int
	Kind            SessionKind
}

type WeeklyGoal struct {
	OwnerID     string
	TargetHours float64
}

// HabitMeta identifies a habit for per-habit views.
type HabitMeta struct {
	ID    string
	Title string
}

// DailyBucket summarises one day of a week.
type DailyBucket struct {
	Label           time.Weekday
	Date            Date
	HabitsCompleted int
	FocusSessions   int
	FocusMinutes    int
}

// ShortLabel returns "Sun", "Mon", ...
func (b DailyBucket) ShortLabel() string {
	return b.Label.String()[:3]
}

type StreakResult struct {
	EntityID          string
	Title             string
	CurrentStreakDays int
}

type DashboardView struct {
	StudyStreakDays       int
	TodayFocusMinutes     int
	WeeklyFocusMinutes    int
	WeeklyProgressPercent int
	WeeklyGoalHours       float64
	CompletedTodayCount   int
	TotalHabits           int
}

type AnalyticsView struct {
	DailyBuckets             []DailyBucket
	PerHabitStreaks          []StreakResult
	TotalWeeklyHabits        int
	TotalWeeklyFocusSessions int
	TotalWeeklyFocusMinutes  int
}
