package tui

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sadopc/studytrack/internal/analytics"
	"github.com/sadopc/studytrack/internal/store"
)

type dashboardModel struct {
	store  *store.Store
	log    *slog.Logger
	width  int
	height int

	stats  analytics.DashboardView
	habits []store.Habit
	done   map[string]bool
	cursor int

	goalBar progress.Model
}

func newDashboardModel(s *store.Store, log *slog.Logger) dashboardModel {
	return dashboardModel{
		store:   s,
		log:     log,
		done:    map[string]bool{},
		goalBar: progress.New(progress.WithDefaultGradient(), progress.WithoutPercentage()),
	}
}

func (d dashboardModel) Init() tea.Cmd {
	return d.loadData()
}

func (d *dashboardModel) setSize(w, h int) {
	d.width = w
	d.height = h
	d.goalBar.Width = max(10, w-30)
}

type dashboardDataMsg struct {
	stats  analytics.DashboardView
	habits []store.Habit
	done   map[string]bool
}

// loadDashboard recomputes every dashboard figure from the stored history.
func loadDashboard(s *store.Store, today analytics.Date) (dashboardDataMsg, error) {
	stats, err := s.DashboardView(today)
	if err != nil {
		return dashboardDataMsg{}, err
	}
	habits, err := s.ListHabits(false)
	if err != nil {
		return dashboardDataMsg{}, err
	}
	done, err := s.CompletedOn(today)
	if err != nil {
		return dashboardDataMsg{}, err
	}
	return dashboardDataMsg{stats: stats, habits: habits, done: done}, nil
}

func (d dashboardModel) loadData() tea.Cmd {
	return func() tea.Msg {
		msg, err := loadDashboard(d.store, analytics.Today())
		if err != nil {
			d.log.Error("load dashboard", "err", err)
			return errStatus("Dashboard", err)
		}
		return msg
	}
}

func (d dashboardModel) update(msg tea.Msg) (dashboardModel, tea.Cmd) {
	switch msg := msg.(type) {
	case dashboardDataMsg:
		d.stats = msg.stats
		d.habits = msg.habits
		d.done = msg.done
		if d.cursor >= len(d.habits) {
			d.cursor = max(0, len(d.habits)-1)
		}
		return d, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Up):
			if d.cursor > 0 {
				d.cursor--
			}
		case key.Matches(msg, keys.Down):
			if d.cursor < len(d.habits)-1 {
				d.cursor++
			}
		case key.Matches(msg, keys.Toggle):
			if len(d.habits) == 0 {
				return d, func() tea.Msg {
					return statusMsg{text: "No habits yet. Press 2 to go to Habits and create one.", isError: true}
				}
			}
			return d, d.toggleHabit(d.habits[d.cursor])
		}
	}
	return d, nil
}

func (d dashboardModel) toggleHabit(h store.Habit) tea.Cmd {
	toggle := func() tea.Msg {
		done, err := d.store.ToggleCompletion(h.ID, analytics.Today())
		if err != nil {
			d.log.Error("toggle completion", "habit", h.ID, "err", err)
			return errStatus("Toggle habit", err)
		}
		d.log.Debug("completion toggled", "habit", h.ID, "done", done)
		return completionToggledMsg{title: h.Title, done: done}
	}
	return tea.Sequence(toggle, d.loadData())
}

func (d dashboardModel) view() string {
	if d.width < 20 {
		return "Terminal too small"
	}

	contentWidth := d.width - 4
	return lipgloss.JoinVertical(lipgloss.Left,
		d.renderStatsPanel(contentWidth),
		d.renderGoalPanel(contentWidth),
		d.renderHabitsPanel(contentWidth),
	)
}

func (d dashboardModel) renderStatsPanel(w int) string {
	cell := func(label, value string) string {
		return lipgloss.JoinVertical(lipgloss.Left,
			mutedStyle.Render(label),
			statValueStyle.Render(value),
		)
	}
	cellWidth := max(14, (w-6)/4)
	cellStyle := lipgloss.NewStyle().Width(cellWidth)

	row := lipgloss.JoinHorizontal(lipgloss.Top,
		cellStyle.Render(cell("Study streak", plural(d.stats.StudyStreakDays, "day"))),
		cellStyle.Render(cell("Focus today", analytics.FormatDuration(d.stats.TodayFocusMinutes))),
		cellStyle.Render(cell("Focus this week", analytics.FormatDuration(d.stats.WeeklyFocusMinutes))),
		cellStyle.Render(cell("Habits today", fmt.Sprintf("%d/%d", d.stats.CompletedTodayCount, d.stats.TotalHabits))),
	)
	return panelStyle.Width(w).Render(row)
}

func (d dashboardModel) renderGoalPanel(w int) string {
	title := titleStyle.Render("Weekly goal")
	figures := fmt.Sprintf("%s of %.0fh  %d%%",
		formatHours(d.stats.WeeklyFocusMinutes), d.stats.WeeklyGoalHours, d.stats.WeeklyProgressPercent)

	// The percentage is unclamped; only the bar stops at full.
	fill := float64(d.stats.WeeklyProgressPercent) / 100
	if fill > 1 {
		fill = 1
	}
	bar := d.goalBar.ViewAs(fill)

	label := highlightStyle.Render(figures)
	if d.stats.WeeklyProgressPercent >= 100 {
		label = successStyle.Render(figures + "  goal reached")
	}
	return panelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left, title, bar, label))
}

func (d dashboardModel) renderHabitsPanel(w int) string {
	title := titleStyle.Render("Today's habits")
	if len(d.habits) == 0 {
		content := lipgloss.JoinVertical(lipgloss.Left,
			title,
			mutedStyle.Render("No habits yet"),
		)
		return panelStyle.Width(w).Render(content)
	}

	var rows []string
	rows = append(rows, title)
	for i, h := range d.habits {
		cursor := "  "
		style := normalItemStyle
		if i == d.cursor {
			cursor = "> "
			style = selectedItemStyle
		}
		check := mutedStyle.Render("[ ]")
		if d.done[h.ID] {
			check = successStyle.Render("[✓]")
		}
		rows = append(rows, fmt.Sprintf("%s%s %s %s", cursor, check, categoryDot(h.Category), style.Render(h.Title)))
	}
	rows = append(rows, "")
	rows = append(rows, mutedStyle.Render("  space: mark done / undo"))

	return panelStyle.Width(w).Render(strings.Join(rows, "\n"))
}
