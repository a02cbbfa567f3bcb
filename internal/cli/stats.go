package cli

import (
	"fmt"
	"io"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/sadopc/studytrack/internal/analytics"
	"github.com/spf13/cobra"
)

// StatsOptions holds flags for the stats command.
type StatsOptions struct {
	*RootOptions
	Format    string
	WeeksBack int
}

type statsReport struct {
	Date      string        `json:"date"`
	Dashboard dashboardJSON `json:"dashboard"`
	WeekStart string        `json:"week_start"`
	Days      []dayJSON     `json:"days"`
	Streaks   []streakJSON  `json:"habit_streaks"`
}

type dashboardJSON struct {
	StudyStreakDays       int     `json:"study_streak_days"`
	TodayFocusMinutes     int     `json:"today_focus_minutes"`
	WeeklyFocusMinutes    int     `json:"weekly_focus_minutes"`
	WeeklyGoalHours       float64 `json:"weekly_goal_hours"`
	WeeklyProgressPercent int     `json:"weekly_progress_percent"`
	CompletedToday        int     `json:"habits_completed_today"`
	TotalHabits           int     `json:"total_habits"`
}

type dayJSON struct {
	Day             string `json:"day"`
	Date            string `json:"date"`
	HabitsCompleted int    `json:"habits_completed"`
	FocusSessions   int    `json:"focus_sessions"`
	FocusMinutes    int    `json:"focus_minutes"`
}

type streakJSON struct {
	HabitID string `json:"habit_id"`
	Title   string `json:"title"`
	Days    int    `json:"days"`
}

func NewStatsCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &StatsOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Print streaks, weekly focus and goal progress",
		Long: `Print the dashboard figures and a per-day breakdown of one week.

Examples:
  studytrack stats
  studytrack stats --weeks-back 1
  studytrack stats --format json`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStats(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Format, "format", "text", "output format (json|text)")
	cmd.Flags().IntVar(&opts.WeeksBack, "weeks-back", 0, "report the week this many weeks before the current one")

	return cmd
}

func runStats(opts *StatsOptions, cmd *cobra.Command) error {
	if !isValidFormat(opts.Format) {
		return NewExitError(ExitCommandError, fmt.Sprintf("invalid format %q: must be one of %v", opts.Format, ValidFormats))
	}
	if opts.WeeksBack < 0 {
		return NewExitError(ExitCommandError, "--weeks-back must not be negative")
	}

	e, err := opts.open()
	if err != nil {
		return err
	}
	defer e.Close()

	today := analytics.Today()
	dash, err := e.store.DashboardView(today)
	if err != nil {
		e.log.Error("stats dashboard", "err", err)
		return fmt.Errorf("dashboard: %w", err)
	}
	week, start, err := e.store.AnalyticsView(today, opts.WeeksBack)
	if err != nil {
		e.log.Error("stats analytics", "err", err)
		return fmt.Errorf("analytics: %w", err)
	}

	report := buildStatsReport(today, dash, week, start)
	if opts.Format == "json" {
		return writeJSON(cmd.OutOrStdout(), report)
	}
	return writeStatsText(cmd.OutOrStdout(), report)
}

func buildStatsReport(today analytics.Date, dash analytics.DashboardView, week analytics.AnalyticsView, start analytics.Date) statsReport {
	r := statsReport{
		Date: today.String(),
		Dashboard: dashboardJSON{
			StudyStreakDays:       dash.StudyStreakDays,
			TodayFocusMinutes:     dash.TodayFocusMinutes,
			WeeklyFocusMinutes:    dash.WeeklyFocusMinutes,
			WeeklyGoalHours:       dash.WeeklyGoalHours,
			WeeklyProgressPercent: dash.WeeklyProgressPercent,
			CompletedToday:        dash.CompletedTodayCount,
			TotalHabits:           dash.TotalHabits,
		},
		WeekStart: start.String(),
		Days:      make([]dayJSON, 0, len(week.DailyBuckets)),
		Streaks:   make([]streakJSON, 0, len(week.PerHabitStreaks)),
	}
	for _, b := range week.DailyBuckets {
		r.Days = append(r.Days, dayJSON{
			Day:             b.ShortLabel(),
			Date:            b.Date.String(),
			HabitsCompleted: b.HabitsCompleted,
			FocusSessions:   b.FocusSessions,
			FocusMinutes:    b.FocusMinutes,
		})
	}
	for _, s := range week.PerHabitStreaks {
		r.Streaks = append(r.Streaks, streakJSON{HabitID: s.EntityID, Title: s.Title, Days: s.CurrentStreakDays})
	}
	return r
}

func writeStatsText(w io.Writer, r statsReport) error {
	d := r.Dashboard
	fmt.Fprintf(w, "Study streak:     %s\n", days(d.StudyStreakDays))
	fmt.Fprintf(w, "Focus today:      %s\n", analytics.FormatDuration(d.TodayFocusMinutes))
	fmt.Fprintf(w, "Focus this week:  %s of %gh goal (%d%%)\n",
		analytics.FormatDuration(d.WeeklyFocusMinutes), d.WeeklyGoalHours, d.WeeklyProgressPercent)
	fmt.Fprintf(w, "Habits today:     %d/%d\n\n", d.CompletedToday, d.TotalHabits)

	week := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("Day", "Date", "Habits", "Sessions", "Focus")
	for _, day := range r.Days {
		week.Row(day.Day, day.Date, strconv.Itoa(day.HabitsCompleted), strconv.Itoa(day.FocusSessions),
			analytics.FormatDuration(day.FocusMinutes))
	}
	fmt.Fprintf(w, "Week of %s\n%s\n", r.WeekStart, week.String())

	if len(r.Streaks) == 0 {
		_, err := fmt.Fprintln(w, "\nNo active habits.")
		return err
	}
	streaks := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("Habit", "Streak")
	for _, s := range r.Streaks {
		streaks.Row(s.Title, days(s.Days))
	}
	_, err := fmt.Fprintf(w, "\n%s\n", streaks.String())
	return err
}

func days(n int) string {
	if n == 1 {
		return "1 day"
	}
	return fmt.Sprintf("%d days", n)
}
