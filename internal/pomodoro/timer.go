// Package pomodoro implements the work/break countdown as an explicit state
// value. Every transition takes a State and returns the next one, so the
// driver owns the clock and the machine never touches time itself.
package pomodoro

import (
	"errors"
	"fmt"
)

// ErrInvalidDuration is returned for work or break durations out of range.
var ErrInvalidDuration = errors.New("invalid timer duration")

const (
	MinWorkMinutes  = 1
	MaxWorkMinutes  = 60
	MinBreakMinutes = 1
	MaxBreakMinutes = 30
)

type Phase int

const (
	Work Phase = iota
	Break
)

func (p Phase) String() string {
	if p == Break {
		return "break"
	}
	return "work"
}

type Status int

const (
	Idle Status = iota
	Running
	Paused
)

var statusNames = map[Status]string{
	Idle:    "idle",
	Running: "running",
	Paused:  "paused",
}

func (s Status) String() string { return statusNames[s] }

type Config struct {
	WorkMinutes  int
	BreakMinutes int
}

func DefaultConfig() Config {
	return Config{WorkMinutes: 25, BreakMinutes: 5}
}

func (c Config) Validate() error {
	if c.WorkMinutes < MinWorkMinutes || c.WorkMinutes > MaxWorkMinutes {
		return fmt.Errorf("%w: work %d min (want %d-%d)", ErrInvalidDuration, c.WorkMinutes, MinWorkMinutes, MaxWorkMinutes)
	}
	if c.BreakMinutes < MinBreakMinutes || c.BreakMinutes > MaxBreakMinutes {
		return fmt.Errorf("%w: break %d min (want %d-%d)", ErrInvalidDuration, c.BreakMinutes, MinBreakMinutes, MaxBreakMinutes)
	}
	return nil
}

// PhaseSeconds returns the configured length of phase p.
func (c Config) PhaseSeconds(p Phase) int {
	if p == Break {
		return c.BreakMinutes * 60
	}
	return c.WorkMinutes * 60
}

// SessionCompleted is emitted when a work phase counts down to zero.
type SessionCompleted struct {
	Phase           Phase
	DurationMinutes int
}

// TimerState is a read-only snapshot for display.
type TimerState struct {
	Phase            Phase
	RemainingSeconds int
	Running          bool
}

// State is the timer. The zero value is not usable; call New.
type State struct {
	cfg       Config
	phase     Phase
	status    Status
	remaining int
}

func New(cfg Config) (State, error) {
	if err := cfg.Validate(); err != nil {
		return State{}, err
	}
	return State{cfg: cfg, phase: Work, status: Idle, remaining: cfg.PhaseSeconds(Work)}, nil
}

func (s State) Config() Config    { return s.cfg }
func (s State) Phase() Phase      { return s.phase }
func (s State) Status() Status    { return s.status }
func (s State) Remaining() int    { return s.remaining }
func (s State) Running() bool     { return s.status == Running }
func (s State) PhaseSeconds() int { return s.cfg.PhaseSeconds(s.phase) }

func (s State) Snapshot() TimerState {
	return TimerState{Phase: s.phase, RemainingSeconds: s.remaining, Running: s.status == Running}
}

// Progress is the elapsed fraction of the current phase, in [0, 1].
func (s State) Progress() float64 {
	total := s.PhaseSeconds()
	if total == 0 {
		return 0
	}
	return float64(total-s.remaining) / float64(total)
}

func (s State) Start() State {
	if s.status == Idle || s.status == Paused {
		s.status = Running
	}
	return s
}

func (s State) Pause() State {
	if s.status == Running {
		s.status = Paused
	}
	return s
}

// Toggle starts an idle or paused timer and pauses a running one.
func (s State) Toggle() State {
	if s.status == Running {
		return s.Pause()
	}
	return s.Start()
}

// Tick advances a running timer by one second. When the phase reaches zero
// the phase flips and the timer stops; a completed work phase also returns
// the event to persist. Ticks while not running change nothing.
func (s State) Tick() (State, *SessionCompleted) {
	if s.status != Running {
		return s, nil
	}
	if s.remaining > 0 {
		s.remaining--
	}
	if s.remaining > 0 {
		return s, nil
	}
	return s.completePhase()
}

func (s State) completePhase() (State, *SessionCompleted) {
	var ev *SessionCompleted
	if s.phase == Work {
		ev = &SessionCompleted{Phase: Work, DurationMinutes: s.cfg.WorkMinutes}
		s.phase = Break
	} else {
		s.phase = Work
	}
	s.remaining = s.cfg.PhaseSeconds(s.phase)
	s.status = Idle
	return s, ev
}

// Reset discards progress and returns to an idle work phase.
func (s State) Reset() State {
	s.phase = Work
	s.status = Idle
	s.remaining = s.cfg.PhaseSeconds(Work)
	return s
}

// UpdateDurations replaces the configuration. A running timer is returned
// unchanged; otherwise the current phase restarts at its new length.
func (s State) UpdateDurations(cfg Config) (State, error) {
	if err := cfg.Validate(); err != nil {
		return s, err
	}
	if s.status == Running {
		return s, nil
	}
	s.cfg = cfg
	s.remaining = cfg.PhaseSeconds(s.phase)
	return s, nil
}
