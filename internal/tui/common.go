package tui

import (
	"fmt"
	"time"

	"github.com/sadopc/studytrack/internal/pomodoro"
	"github.com/sadopc/studytrack/internal/store"
)

// viewState represents the currently active view.
type viewState int

const (
	viewDashboard viewState = iota
	viewHabits
	viewAnalytics
	viewPomodoro
	viewSettings
)

var viewNames = []string{"Dashboard", "Habits", "Analytics", "Pomodoro", "Settings"}

// --- Messages ---

type statusMsg struct {
	text    string
	isError bool
}

type tickMsg time.Time

type completionToggledMsg struct {
	title string
	done  bool
}

type sessionRecordedMsg struct {
	session *store.FocusSession
}

type settingsSavedMsg struct {
	cfg   pomodoro.Config
	sound bool
}

type exportDoneMsg struct {
	path string
}

func errStatus(op string, err error) statusMsg {
	return statusMsg{text: fmt.Sprintf("%s: %v", op, err), isError: true}
}

// --- Helpers ---

// formatClock renders seconds as MM:SS.
func formatClock(secs int) string {
	if secs < 0 {
		secs = 0
	}
	return fmt.Sprintf("%02d:%02d", secs/60, secs%60)
}

func formatHours(minutes int) string {
	return fmt.Sprintf("%.1fh", float64(minutes)/60)
}

func plural(n int, word string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, word)
	}
	return fmt.Sprintf("%d %ss", n, word)
}
