package export

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/sadopc/studytrack/internal/analytics"
	"github.com/sadopc/studytrack/internal/store"
)

type jsonExport struct {
	ExportedAt      string           `json:"exported_at"`
	SessionCount    int              `json:"session_count"`
	FocusMinutes    int              `json:"focus_minutes"`
	Sessions        []jsonSession    `json:"sessions"`
	CompletionCount int              `json:"completion_count"`
	Completions     []jsonCompletion `json:"completions"`
}

type jsonSession struct {
	ID              int64  `json:"id"`
	Subject         string `json:"subject"`
	Kind            string `json:"kind"`
	CompletedAt     string `json:"completed_at"`
	Date            string `json:"date"`
	DurationMinutes int    `json:"duration_minutes"`
	Duration        string `json:"duration"`
}

type jsonCompletion struct {
	HabitID string `json:"habit_id"`
	Habit   string `json:"habit"`
	Date    string `json:"date"`
}

func ToJSON(sessions []store.FocusSession, completions []store.Completion, habits map[string]*store.Habit, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("write json file: %w", err)
	}
	defer f.Close()
	return WriteJSON(f, sessions, completions, habits)
}

// WriteJSON writes an indented document of sessions and completions.
// Completions of habits missing from habits are labelled "Unknown".
func WriteJSON(w io.Writer, sessions []store.FocusSession, completions []store.Completion, habits map[string]*store.Habit) error {
	export := jsonExport{
		ExportedAt:      time.Now().UTC().Format(time.RFC3339),
		SessionCount:    len(sessions),
		CompletionCount: len(completions),
	}

	for _, fs := range sessions {
		if fs.Kind == analytics.KindWork {
			export.FocusMinutes += fs.DurationMinutes
		}
		export.Sessions = append(export.Sessions, jsonSession{
			ID:              fs.ID,
			Subject:         fs.Subject,
			Kind:            string(fs.Kind),
			CompletedAt:     fs.CompletedAt.Local().Format(time.RFC3339),
			Date:            analytics.DateOf(fs.CompletedAt).String(),
			DurationMinutes: fs.DurationMinutes,
			Duration:        analytics.FormatDuration(fs.DurationMinutes),
		})
	}

	for _, c := range completions {
		title := "Unknown"
		if h, ok := habits[c.HabitID]; ok {
			title = h.Title
		}
		export.Completions = append(export.Completions, jsonCompletion{
			HabitID: c.HabitID,
			Habit:   title,
			Date:    c.CompletedOn.String(),
		})
	}

	data, err := json.MarshalIndent(export, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal json: %w", err)
	}
	data = append(data, '\n')

	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("write json: %w", err)
	}
	return nil
}
