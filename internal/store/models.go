package store

import (
	"time"

	"github.com/sadopc/studytrack/internal/analytics"
)

// Habit categories offered by the habit form.
var Categories = []string{"Academic", "Health", "Sleep"}

type Habit struct {
	ID            string
	Title         string
	Description   string
	Category      string
	GoalFrequency int
	Archived      bool
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

type Completion struct {
	ID          int64
	HabitID     string
	CompletedOn analytics.Date
	CreatedAt   time.Time
}

type FocusSession struct {
	ID              int64
	Subject         string
	DurationMinutes int
	Kind            analytics.SessionKind
	CompletedAt     time.Time
}

type Setting struct {
	Key   string
	Value string
}

// SessionFilter is used to filter focus sessions in queries.
type SessionFilter struct {
	From  *time.Time
	To    *time.Time
	Kind  analytics.SessionKind
	Limit int
}
