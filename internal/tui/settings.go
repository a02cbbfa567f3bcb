package tui

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/sadopc/studytrack/internal/analytics"
	"github.com/sadopc/studytrack/internal/pomodoro"
	"github.com/sadopc/studytrack/internal/store"
)

type settingsModel struct {
	store  *store.Store
	log    *slog.Logger
	width  int
	height int

	cfg       pomodoro.Config
	goalHours float64
	sound     bool

	formActive bool
	form       *huh.Form

	// Form values as pointers (survive value copies)
	workMinutes  *string
	breakMinutes *string
	weeklyGoal   *string
	soundOn      *bool
}

func newSettingsModel(s *store.Store, log *slog.Logger) settingsModel {
	wm, bm, wg, so := "", "", "", true
	return settingsModel{
		store:        s,
		log:          log,
		cfg:          pomodoro.DefaultConfig(),
		goalHours:    analytics.DefaultGoalHours,
		sound:        true,
		workMinutes:  &wm,
		breakMinutes: &bm,
		weeklyGoal:   &wg,
		soundOn:      &so,
	}
}

func (s *settingsModel) setSize(w, h int) {
	s.width = w
	s.height = h
}

type settingsDataMsg struct {
	cfg       pomodoro.Config
	goalHours float64
	sound     bool
}

func (s settingsModel) refresh() tea.Cmd {
	return func() tea.Msg {
		cfg, err := s.store.TimerConfig()
		if err != nil {
			s.log.Error("load timer config", "err", err)
			return errStatus("Settings", err)
		}
		goal, err := s.store.WeeklyGoal()
		if err != nil {
			s.log.Error("load weekly goal", "err", err)
			return errStatus("Settings", err)
		}
		hours, err := analytics.ResolveGoal(goal)
		if err != nil {
			hours = analytics.DefaultGoalHours
		}
		sound, err := s.store.SoundEnabled()
		if err != nil {
			s.log.Error("load sound setting", "err", err)
			return errStatus("Settings", err)
		}
		return settingsDataMsg{cfg: cfg, goalHours: hours, sound: sound}
	}
}

func (s settingsModel) update(msg tea.Msg) (settingsModel, tea.Cmd) {
	if s.formActive && s.form != nil {
		return s.updateForm(msg)
	}

	switch msg := msg.(type) {
	case settingsDataMsg:
		s.cfg = msg.cfg
		s.goalHours = msg.goalHours
		s.sound = msg.sound
		return s, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Enter), key.Matches(msg, keys.Edit):
			return s.showForm()
		}
	}
	return s, nil
}

func (s settingsModel) showForm() (settingsModel, tea.Cmd) {
	*s.workMinutes = strconv.Itoa(s.cfg.WorkMinutes)
	*s.breakMinutes = strconv.Itoa(s.cfg.BreakMinutes)
	*s.weeklyGoal = strconv.FormatFloat(s.goalHours, 'f', -1, 64)
	*s.soundOn = s.sound

	s.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Focus length (min)").Value(s.workMinutes).
				Validate(intRange(pomodoro.MinWorkMinutes, pomodoro.MaxWorkMinutes)),
			huh.NewInput().Title("Break length (min)").Value(s.breakMinutes).
				Validate(intRange(pomodoro.MinBreakMinutes, pomodoro.MaxBreakMinutes)),
			huh.NewConfirm().Title("Alert when a phase ends").Value(s.soundOn),
		).Title("Pomodoro"),
		huh.NewGroup(
			huh.NewInput().Title("Weekly focus goal (hours)").Value(s.weeklyGoal).
				Validate(validateGoal),
		).Title("Goals"),
	).WithShowHelp(true).WithShowErrors(true)

	s.formActive = true
	return s, s.form.Init()
}

func intRange(lo, hi int) func(string) error {
	return func(v string) error {
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil || n < lo || n > hi {
			return fmt.Errorf("enter a whole number between %d and %d", lo, hi)
		}
		return nil
	}
}

func validateGoal(v string) error {
	h, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
	if err != nil || h < store.MinGoalHours || h > store.MaxGoalHours {
		return fmt.Errorf("enter hours between %d and %d", store.MinGoalHours, store.MaxGoalHours)
	}
	return nil
}

func (s settingsModel) updateForm(msg tea.Msg) (settingsModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		if msg.String() == "esc" {
			s.formActive = false
			s.form = nil
			return s, nil
		}
	}

	form, cmd := s.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		s.form = f
	}

	if s.form.State == huh.StateCompleted {
		s.formActive = false
		return s, tea.Sequence(s.save(), s.refresh())
	}

	return s, cmd
}

func (s settingsModel) save() tea.Cmd {
	work, _ := strconv.Atoi(strings.TrimSpace(*s.workMinutes))
	brk, _ := strconv.Atoi(strings.TrimSpace(*s.breakMinutes))
	goal, _ := strconv.ParseFloat(strings.TrimSpace(*s.weeklyGoal), 64)
	sound := *s.soundOn
	cfg := pomodoro.Config{WorkMinutes: work, BreakMinutes: brk}

	return func() tea.Msg {
		if err := s.store.SetTimerConfig(cfg); err != nil {
			s.log.Error("save timer config", "err", err)
			return errStatus("Save settings", err)
		}
		if err := s.store.SetWeeklyGoal(goal); err != nil {
			s.log.Error("save weekly goal", "err", err)
			return errStatus("Save settings", err)
		}
		if err := s.store.SetSoundEnabled(sound); err != nil {
			s.log.Error("save sound setting", "err", err)
			return errStatus("Save settings", err)
		}
		s.log.Info("settings saved", "work", cfg.WorkMinutes, "break", cfg.BreakMinutes, "goal_hours", goal, "sound", sound)
		return settingsSavedMsg{cfg: cfg, sound: sound}
	}
}

func (s settingsModel) view() string {
	w := s.width - 4
	title := titleStyle.Render("Settings")

	if s.formActive && s.form != nil {
		return panelStyle.Width(w).Render(
			lipgloss.JoinVertical(lipgloss.Left, title, "", s.form.View()),
		)
	}

	soundLabel := "off"
	if s.sound {
		soundLabel = "on"
	}
	settings := []struct{ label, value string }{
		{"Focus length", fmt.Sprintf("%d min", s.cfg.WorkMinutes)},
		{"Break length", fmt.Sprintf("%d min", s.cfg.BreakMinutes)},
		{"Phase alert", soundLabel},
		{"Weekly focus goal", fmt.Sprintf("%g hours", s.goalHours)},
	}

	var rows []string
	rows = append(rows, title)
	rows = append(rows, "")
	for _, setting := range settings {
		label := lipgloss.NewStyle().Width(24).Render(setting.label)
		rows = append(rows, fmt.Sprintf("  %s %s", label, highlightStyle.Render(setting.value)))
	}
	rows = append(rows, "")
	rows = append(rows, mutedStyle.Render("Press enter to edit settings"))

	return panelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}
