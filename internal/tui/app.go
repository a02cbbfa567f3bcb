package tui

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sadopc/studytrack/internal/export"
	"github.com/sadopc/studytrack/internal/pomodoro"
	"github.com/sadopc/studytrack/internal/store"
)

// App is the root Bubble Tea model.
type App struct {
	store  *store.Store
	log    *slog.Logger
	width  int
	height int

	activeView    viewState
	showHelp      bool
	exportPicking bool
	exportCursor  int

	dashboard dashboardModel
	habits    habitsModel
	insights  analyticsModel
	pomodoro  pomodoroModel
	settings  settingsModel

	help        help.Model
	status      string
	statusError bool
}

func NewApp(s *store.Store, log *slog.Logger) App {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	h := help.New()
	h.ShowAll = false

	return App{
		store:      s,
		log:        log,
		activeView: viewDashboard,
		dashboard:  newDashboardModel(s, log),
		habits:     newHabitsModel(s, log),
		insights:   newAnalyticsModel(s, log),
		pomodoro:   newPomodoroModel(s, log),
		settings:   newSettingsModel(s, log),
		help:       h,
	}
}

func (a App) Init() tea.Cmd {
	return tea.Batch(
		a.dashboard.Init(),
		a.settings.refresh(),
		tickCmd(),
	)
}

func tickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.help.Width = msg.Width
		contentHeight := a.height - 4 // header + footer
		a.dashboard.setSize(a.width, contentHeight)
		a.habits.setSize(a.width, contentHeight)
		a.insights.setSize(a.width, contentHeight)
		a.pomodoro.setSize(a.width, contentHeight)
		a.settings.setSize(a.width, contentHeight)
		return a, nil

	case tea.KeyMsg:
		if a.exportPicking {
			return a.updateExportPicker(msg)
		}

		// If a child view is capturing input (e.g. form), delegate first.
		if a.isFormActive() {
			return a.updateActiveView(msg)
		}

		switch {
		case key.Matches(msg, keys.Export):
			a.exportPicking = true
			a.exportCursor = 0
			return a, nil
		case key.Matches(msg, keys.Quit):
			return a, tea.Quit
		case key.Matches(msg, keys.Help):
			a.showHelp = !a.showHelp
			a.help.ShowAll = a.showHelp
			return a, nil
		case key.Matches(msg, keys.Tab1):
			return a.switchTo(viewDashboard)
		case key.Matches(msg, keys.Tab2):
			return a.switchTo(viewHabits)
		case key.Matches(msg, keys.Tab3):
			return a.switchTo(viewAnalytics)
		case key.Matches(msg, keys.Tab4):
			return a.switchTo(viewPomodoro)
		case key.Matches(msg, keys.Tab5):
			return a.switchTo(viewSettings)
		case key.Matches(msg, keys.Tab):
			return a.switchTo((a.activeView + 1) % viewState(len(viewNames)))
		}

	case tickMsg:
		cmds = append(cmds, tickCmd())
		// The pomodoro counts down whichever view is showing.
		var cmd tea.Cmd
		a.pomodoro, cmd = a.pomodoro.update(msg)
		if cmd != nil {
			cmds = append(cmds, cmd)
		}
		return a, tea.Batch(cmds...)

	// Data messages go to their owner even when another view is active.
	case dashboardDataMsg:
		a.dashboard, _ = a.dashboard.update(msg)
		return a, nil
	case habitsDataMsg:
		a.habits, _ = a.habits.update(msg)
		return a, nil
	case analyticsDataMsg:
		a.insights, _ = a.insights.update(msg)
		return a, nil
	case settingsDataMsg:
		a.settings, _ = a.settings.update(msg)
		return a, nil

	case statusMsg:
		a.setStatus(msg)
		return a, nil

	case completionToggledMsg:
		if msg.done {
			a.setStatus(statusMsg{text: "Completed " + msg.title + " for today"})
		} else {
			a.setStatus(statusMsg{text: "Unmarked " + msg.title})
		}
		return a, a.insights.refresh()

	case sessionRecordedMsg:
		a.setStatus(statusMsg{text: fmt.Sprintf("Logged %d min on %s", msg.session.DurationMinutes, msg.session.Subject)})
		return a, tea.Batch(a.dashboard.loadData(), a.insights.refresh())

	case settingsSavedMsg:
		a.pomodoro = a.pomodoro.applySettings(msg.cfg, msg.sound)
		a.setStatus(statusMsg{text: "Settings saved"})
		return a, a.dashboard.loadData()

	case exportDoneMsg:
		a.setStatus(statusMsg{text: "Exported to " + msg.path})
		a.exportPicking = false
		return a, nil
	}

	return a.updateActiveView(msg)
}

func (a *App) setStatus(msg statusMsg) {
	a.status = msg.text
	a.statusError = msg.isError
	if msg.isError {
		a.log.Warn("status", "text", msg.text)
	}
}

func (a App) switchTo(v viewState) (tea.Model, tea.Cmd) {
	a.activeView = v
	return a, a.refreshCurrentView()
}

func (a App) updateActiveView(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch a.activeView {
	case viewDashboard:
		a.dashboard, cmd = a.dashboard.update(msg)
	case viewHabits:
		a.habits, cmd = a.habits.update(msg)
	case viewAnalytics:
		a.insights, cmd = a.insights.update(msg)
	case viewPomodoro:
		a.pomodoro, cmd = a.pomodoro.update(msg)
	case viewSettings:
		a.settings, cmd = a.settings.update(msg)
	}
	return a, cmd
}

func (a App) isFormActive() bool {
	switch a.activeView {
	case viewHabits:
		return a.habits.formActive
	case viewSettings:
		return a.settings.formActive
	case viewPomodoro:
		return a.pomodoro.formActive
	}
	return false
}

func (a App) refreshCurrentView() tea.Cmd {
	switch a.activeView {
	case viewDashboard:
		return a.dashboard.loadData()
	case viewHabits:
		return a.habits.refresh()
	case viewAnalytics:
		return a.insights.refresh()
	case viewSettings:
		return a.settings.refresh()
	}
	return nil
}

func (a App) View() string {
	if a.width == 0 {
		return "Loading..."
	}

	header := a.renderHeader()
	footer := a.renderFooter()

	var content string
	switch a.activeView {
	case viewDashboard:
		content = a.dashboard.view()
	case viewHabits:
		content = a.habits.view()
	case viewAnalytics:
		content = a.insights.view()
	case viewPomodoro:
		content = a.pomodoro.view()
	case viewSettings:
		content = a.settings.view()
	}

	contentHeight := max(1, a.height-lipgloss.Height(header)-lipgloss.Height(footer))

	if a.exportPicking {
		content = a.renderExportPicker()
	}

	content = lipgloss.NewStyle().
		Width(a.width).
		Height(contentHeight).
		Render(content)

	return lipgloss.JoinVertical(lipgloss.Left, header, content, footer)
}

func (a App) renderHeader() string {
	var tabs []string
	for i, name := range viewNames {
		label := fmt.Sprintf("%d %s", i+1, name)
		if viewState(i) == a.activeView {
			tabs = append(tabs, activeTabStyle.Render(label))
		} else {
			tabs = append(tabs, inactiveTabStyle.Render(label))
		}
	}

	tabRow := lipgloss.JoinHorizontal(lipgloss.Bottom, tabs...)

	title := lipgloss.NewStyle().Bold(true).Foreground(colorPrimary).Render("studytrack")
	gap := max(1, a.width-lipgloss.Width(title)-lipgloss.Width(tabRow)-4)
	spacer := lipgloss.NewStyle().Width(gap).Render("")

	return headerStyle.Render(
		lipgloss.JoinHorizontal(lipgloss.Bottom, title, spacer, tabRow),
	)
}

func (a App) renderFooter() string {
	helpView := a.help.View(keys)

	status := ""
	if a.status != "" {
		style := mutedStyle
		if a.statusError {
			style = errorStyle
		}
		status = style.Render(" " + a.status)
	}

	// Pomodoro indicator, visible from every view.
	timerInfo := ""
	switch t := a.pomodoro.timer; t.Status() {
	case pomodoro.Running:
		timerInfo = successStyle.Render(fmt.Sprintf(" ● %s %s", t.Phase(), formatClock(t.Remaining())))
	case pomodoro.Paused:
		timerInfo = warningStyle.Render(fmt.Sprintf(" ⏸ %s %s", t.Phase(), formatClock(t.Remaining())))
	}

	left := footerStyle.Render(helpView)
	right := timerInfo + status

	gap := max(1, a.width-lipgloss.Width(left)-lipgloss.Width(right)-2)
	spacer := lipgloss.NewStyle().Width(gap).Render("")

	return lipgloss.JoinHorizontal(lipgloss.Bottom, left, spacer, right)
}

func (a App) renderExportPicker() string {
	title := titleStyle.Render("Export Format")
	var rows []string
	rows = append(rows, title)
	rows = append(rows, "")
	for i, f := range export.Formats {
		cursor := "  "
		style := normalItemStyle
		if i == a.exportCursor {
			cursor = "> "
			style = selectedItemStyle
		}
		rows = append(rows, style.Render(cursor+string(f)))
	}
	rows = append(rows, "")
	rows = append(rows, mutedStyle.Render("  enter: export  esc: cancel"))

	w := a.width - 4
	return activePanelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func (a App) updateExportPicker(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Up):
		if a.exportCursor > 0 {
			a.exportCursor--
		}
	case key.Matches(msg, keys.Down):
		if a.exportCursor < len(export.Formats)-1 {
			a.exportCursor++
		}
	case key.Matches(msg, keys.Enter):
		a.exportPicking = false
		return a, a.doExport(export.Formats[a.exportCursor])
	case key.Matches(msg, keys.Back):
		a.exportPicking = false
	}
	return a, nil
}

func (a App) doExport(format export.Format) tea.Cmd {
	return func() tea.Msg {
		data, err := export.Gather(a.store)
		if err != nil {
			a.log.Error("gather export data", "err", err)
			return errStatus("Export", err)
		}
		path := export.DefaultPath(format, time.Now())
		if err := export.ToFile(path, format, data); err != nil {
			a.log.Error("write export", "format", format, "path", path, "err", err)
			return errStatus("Export", err)
		}
		a.log.Info("exported", "format", format, "path", path, "sessions", len(data.Sessions))
		return exportDoneMsg{path: path}
	}
}
