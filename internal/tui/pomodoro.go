package tui

import (
	"fmt"
	"log/slog"
	"math/rand/v2"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/gen2brain/beeep"
	"github.com/sadopc/studytrack/internal/analytics"
	"github.com/sadopc/studytrack/internal/pomodoro"
	"github.com/sadopc/studytrack/internal/store"
)

var quotes = []string{
	"Focus is not about doing one thing. It's about not doing thousands of other things.",
	"The successful warrior is the average person with laser-like focus.",
	"Concentrate all your thoughts upon the work at hand. The sun's rays do not burn until brought to a focus.",
	"It is during our darkest moments that we must focus to see the light.",
	"The art of being wise is knowing what to overlook.",
}

// notify raises the desktop alert at the end of a phase.
var notify = func(title, message string) error {
	return beeep.Alert(title, message, "")
}

type pomodoroModel struct {
	store  *store.Store
	log    *slog.Logger
	width  int
	height int

	timer   pomodoro.State
	pending *pomodoro.Config // saved while running, applied once stopped
	sound   bool
	quote string
	bar   progress.Model

	formActive bool
	form       *huh.Form
	subject    *string // survives value copies
}

func newPomodoroModel(s *store.Store, log *slog.Logger) pomodoroModel {
	cfg, err := s.TimerConfig()
	if err != nil {
		log.Warn("load timer config, using defaults", "err", err)
		cfg = pomodoro.DefaultConfig()
	}
	timer, err := pomodoro.New(cfg)
	if err != nil {
		timer, _ = pomodoro.New(pomodoro.DefaultConfig())
	}
	sound, err := s.SoundEnabled()
	if err != nil {
		log.Warn("load sound setting", "err", err)
		sound = true
	}

	subject := ""
	return pomodoroModel{
		store:   s,
		log:     log,
		timer:   timer,
		sound:   sound,
		quote:   quotes[rand.IntN(len(quotes))],
		bar:     progress.New(progress.WithSolidFill(string(colorFocus)), progress.WithoutPercentage()),
		subject: &subject,
	}
}

func (p *pomodoroModel) setSize(w, h int) {
	p.width = w
	p.height = h
	p.bar.Width = max(10, min(60, w-16))
}

// applySettings takes new durations now, or once the running countdown stops.
func (p pomodoroModel) applySettings(cfg pomodoro.Config, sound bool) pomodoroModel {
	p.sound = sound
	if err := cfg.Validate(); err != nil {
		p.log.Warn("ignore timer config", "err", err)
		return p
	}
	p.pending = &cfg
	return p.applyPending()
}

func (p pomodoroModel) applyPending() pomodoroModel {
	if p.pending == nil || p.timer.Running() {
		return p
	}
	next, err := p.timer.UpdateDurations(*p.pending)
	if err != nil {
		p.log.Warn("ignore timer config", "err", err)
	} else {
		p.timer = next
	}
	p.pending = nil
	return p
}

func (p pomodoroModel) update(msg tea.Msg) (pomodoroModel, tea.Cmd) {
	// The countdown keeps going while the subject form is open.
	if t, ok := msg.(tickMsg); ok {
		return p.tick(time.Time(t))
	}
	if p.formActive && p.form != nil {
		return p.updateForm(msg)
	}

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Start):
			p.timer = p.timer.Start()
		case key.Matches(msg, keys.Pause):
			p.timer = p.timer.Toggle()
			p = p.applyPending()
		case key.Matches(msg, keys.Reset):
			p.timer = p.timer.Reset()
			p = p.applyPending()
			return p, func() tea.Msg { return statusMsg{text: "Timer reset"} }
		case key.Matches(msg, keys.New):
			return p.showSubjectForm()
		}
	}
	return p, nil
}

func (p pomodoroModel) tick(now time.Time) (pomodoroModel, tea.Cmd) {
	if !p.timer.Running() {
		return p, nil
	}
	prev := p.timer.Phase()
	next, done := p.timer.Tick()
	p.timer = next
	p = p.applyPending()
	if done != nil {
		return p, p.workCompleted(*done, now)
	}
	if p.timer.Phase() != prev {
		return p, p.breakCompleted()
	}
	return p, nil
}

func (p pomodoroModel) workCompleted(done pomodoro.SessionCompleted, at time.Time) tea.Cmd {
	subject := *p.subject
	record := func() tea.Msg {
		fs, err := p.store.RecordFocusSession(subject, done.DurationMinutes, analytics.KindWork, at)
		if err != nil {
			p.log.Error("record focus session", "minutes", done.DurationMinutes, "err", err)
			return errStatus("Save session", err)
		}
		p.log.Info("focus session recorded", "id", fs.ID, "subject", fs.Subject, "minutes", fs.DurationMinutes)
		return sessionRecordedMsg{session: fs}
	}
	breakLen := p.timer.Config().BreakMinutes
	return tea.Batch(record, p.alert("Work session completed!",
		fmt.Sprintf("Great job! Time for a %d minute break.", breakLen)))
}

func (p pomodoroModel) breakCompleted() tea.Cmd {
	return tea.Batch(
		func() tea.Msg { return statusMsg{text: "Break finished. Press s to focus."} },
		p.alert("Break finished!", "Ready for another focus session?"),
	)
}

func (p pomodoroModel) alert(title, message string) tea.Cmd {
	if !p.sound {
		return nil
	}
	return func() tea.Msg {
		if err := notify(title, message); err != nil {
			p.log.Warn("desktop alert", "err", err)
		}
		return nil
	}
}

func (p pomodoroModel) showSubjectForm() (pomodoroModel, tea.Cmd) {
	p.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("What are you studying?").
				Placeholder("Untitled Session").
				CharLimit(80).
				Value(p.subject),
		),
	).WithShowHelp(true)

	p.formActive = true
	return p, p.form.Init()
}

func (p pomodoroModel) updateForm(msg tea.Msg) (pomodoroModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		if msg.String() == "esc" {
			p.formActive = false
			p.form = nil
			return p, nil
		}
	}

	form, cmd := p.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		p.form = f
	}
	if p.form.State == huh.StateCompleted {
		p.formActive = false
		p.form = nil
		return p, nil
	}
	return p, cmd
}

func (p pomodoroModel) subjectLabel() string {
	if *p.subject == "" {
		return "Untitled Session"
	}
	return *p.subject
}

func (p pomodoroModel) view() string {
	w := p.width - 4

	if p.formActive && p.form != nil {
		return panelStyle.Width(w).Render(
			lipgloss.JoinVertical(lipgloss.Left, titleStyle.Render("Session subject"), "", p.form.View()),
		)
	}

	clock := formatClock(p.timer.Remaining())
	var timeDisplay, phaseLabel, indicator string

	phaseStyle, label := clockWorkStyle, "FOCUS"
	if p.timer.Phase() == pomodoro.Break {
		phaseStyle, label = clockBreakStyle, "BREAK"
	}
	phaseLabel = phaseStyle.Render(label)

	switch p.timer.Status() {
	case pomodoro.Running:
		timeDisplay = phaseStyle.Width(w - 6).Render(clock)
		indicator = successStyle.Render("●  RUNNING")
	case pomodoro.Paused:
		timeDisplay = clockPausedStyle.Width(w - 6).Render(clock)
		indicator = warningStyle.Render("⏸  PAUSED")
	default:
		timeDisplay = clockIdleStyle.Width(w - 6).Render(clock)
		indicator = mutedStyle.Render("Ready. Press s to begin")
	}

	cfg := p.timer.Config()
	details := mutedStyle.Render(fmt.Sprintf("%s  ·  %dm focus / %dm break", p.subjectLabel(), cfg.WorkMinutes, cfg.BreakMinutes))

	content := lipgloss.JoinVertical(lipgloss.Center,
		titleStyle.Render("Pomodoro Timer"),
		"",
		phaseLabel,
		timeDisplay,
		p.bar.ViewAs(p.timer.Progress()),
		indicator,
		"",
		details,
	)

	quote := quoteStyle.Width(max(20, w-10)).Render(p.quote)
	controls := mutedStyle.Render("s: start  space: pause/resume  r: reset  n: subject")

	return panelStyle.Width(w).Render(
		lipgloss.JoinVertical(lipgloss.Center, content, "", quote, "", controls),
	)
}
