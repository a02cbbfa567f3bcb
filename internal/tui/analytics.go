package tui

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/NimbleMarkets/ntcharts/barchart"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sadopc/studytrack/internal/analytics"
	"github.com/sadopc/studytrack/internal/store"
)

type analyticsModel struct {
	store  *store.Store
	log    *slog.Logger
	width  int
	height int

	report    analytics.AnalyticsView
	weekStart analytics.Date
	offset    int // weeks back from the current one

	chart barchart.Model
}

func newAnalyticsModel(s *store.Store, log *slog.Logger) analyticsModel {
	return analyticsModel{
		store: s,
		log:   log,
		chart: barchart.New(60, 12),
	}
}

func (r *analyticsModel) setSize(w, h int) {
	r.width = w
	r.height = h
}

type analyticsDataMsg struct {
	report    analytics.AnalyticsView
	weekStart analytics.Date
}

func loadAnalytics(s *store.Store, today analytics.Date, offset int) (analyticsDataMsg, error) {
	report, weekStart, err := s.AnalyticsView(today, offset)
	if err != nil {
		return analyticsDataMsg{}, err
	}
	return analyticsDataMsg{report: report, weekStart: weekStart}, nil
}

func (r analyticsModel) refresh() tea.Cmd {
	offset := r.offset
	return func() tea.Msg {
		msg, err := loadAnalytics(r.store, analytics.Today(), offset)
		if err != nil {
			r.log.Error("load analytics", "err", err)
			return errStatus("Analytics", err)
		}
		return msg
	}
}

func (r analyticsModel) update(msg tea.Msg) (analyticsModel, tea.Cmd) {
	switch msg := msg.(type) {
	case analyticsDataMsg:
		r.report = msg.report
		r.weekStart = msg.weekStart
		r.buildChart()
		return r, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Left):
			r.offset++
			return r, r.refresh()
		case key.Matches(msg, keys.Right):
			if r.offset > 0 {
				r.offset--
			}
			return r, r.refresh()
		}
	}
	return r, nil
}

func (r *analyticsModel) buildChart() {
	chartWidth := r.width - 8
	if chartWidth < 20 {
		chartWidth = 20
	}
	chartHeight := 10
	if r.height > 34 {
		chartHeight = 14
	}

	r.chart = barchart.New(chartWidth, chartHeight)

	focus := lipgloss.NewStyle().Foreground(colorFocus)
	var bars []barchart.BarData
	for _, b := range r.report.DailyBuckets {
		bars = append(bars, barchart.BarData{
			Label: b.ShortLabel(),
			Values: []barchart.BarValue{{
				Name:  "Focus minutes",
				Value: float64(b.FocusMinutes),
				Style: focus,
			}},
		})
	}

	r.chart.PushAll(bars)
	r.chart.Draw()
}

func (r analyticsModel) view() string {
	w := r.width - 4

	dateLabel := ""
	if !r.weekStart.IsZero() {
		dateLabel = mutedStyle.Render(fmt.Sprintf("%s to %s", r.weekStart, r.weekStart.AddDays(6)))
	}
	header := lipgloss.JoinHorizontal(lipgloss.Bottom,
		titleStyle.Render("Analytics"), "  ", dateLabel,
	)

	totals := fmt.Sprintf("  %s focus  %s  %s",
		statValueStyle.Render(analytics.FormatDuration(r.report.TotalWeeklyFocusMinutes)),
		highlightStyle.Render(plural(r.report.TotalWeeklyFocusSessions, "session")),
		highlightStyle.Render(plural(r.report.TotalWeeklyHabits, "habit check")),
	)

	nav := mutedStyle.Render("  ←/→: previous/next week")

	return panelStyle.Width(w).Render(
		lipgloss.JoinVertical(lipgloss.Left,
			header, "", r.chart.View(), "", totals, "",
			r.renderDayTable(w), "", r.renderStreaks(), "", nav,
		),
	)
}

func (r analyticsModel) renderDayTable(w int) string {
	var rows []string
	rows = append(rows, mutedStyle.Render(fmt.Sprintf("  %-5s %-11s %8s %9s %10s", "Day", "Date", "Habits", "Sessions", "Focus")))
	rows = append(rows, mutedStyle.Render("  "+strings.Repeat("─", max(0, min(w-6, 47)))))
	for _, b := range r.report.DailyBuckets {
		rows = append(rows, fmt.Sprintf("  %-5s %-11s %8d %9d %10s",
			b.ShortLabel(), b.Date, b.HabitsCompleted, b.FocusSessions, analytics.FormatDuration(b.FocusMinutes),
		))
	}
	return strings.Join(rows, "\n")
}

func (r analyticsModel) renderStreaks() string {
	title := titleStyle.Render("Streaks")
	if len(r.report.PerHabitStreaks) == 0 {
		return lipgloss.JoinVertical(lipgloss.Left, title, mutedStyle.Render("  No habits to track"))
	}

	rows := []string{title}
	for _, s := range r.report.PerHabitStreaks {
		days := mutedStyle.Render(plural(s.CurrentStreakDays, "day"))
		if s.CurrentStreakDays > 0 {
			days = successStyle.Render(plural(s.CurrentStreakDays, "day"))
		}
		rows = append(rows, fmt.Sprintf("  %-28s %s", truncate(s.Title, 28), days))
	}
	return strings.Join(rows, "\n")
}
