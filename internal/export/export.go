package export

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/sadopc/studytrack/internal/analytics"
	"github.com/sadopc/studytrack/internal/store"
)

// Format selects the export encoding.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatJSON Format = "json"
)

var Formats = []Format{FormatCSV, FormatJSON}

func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatCSV, FormatJSON:
		return f, nil
	}
	return "", fmt.Errorf("unknown export format %q (want csv or json)", s)
}

// Data is everything an export can contain.
type Data struct {
	Sessions    []store.FocusSession
	Completions []store.Completion
	Habits      map[string]*store.Habit
}

// Gather loads all sessions, completions and habits, archived ones included
// so old completions keep their titles.
func Gather(s *store.Store) (Data, error) {
	sessions, err := s.ListFocusSessions(store.SessionFilter{})
	if err != nil {
		return Data{}, err
	}
	completions, err := s.ListCompletions(analytics.Date{})
	if err != nil {
		return Data{}, err
	}
	list, err := s.ListHabits(true)
	if err != nil {
		return Data{}, err
	}
	habits := make(map[string]*store.Habit, len(list))
	for i := range list {
		habits[list[i].ID] = &list[i]
	}
	return Data{Sessions: sessions, Completions: completions, Habits: habits}, nil
}

// DefaultPath is ~/studytrack-export-YYYY-MM-DD.<format>.
func DefaultPath(f Format, now time.Time) string {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return filepath.Join(home, fmt.Sprintf("studytrack-export-%s.%s", now.Format("2006-01-02"), f))
}

// Write encodes d to w in format f.
func Write(w io.Writer, f Format, d Data) error {
	switch f {
	case FormatCSV:
		return WriteCSV(w, d.Sessions)
	case FormatJSON:
		return WriteJSON(w, d.Sessions, d.Completions, d.Habits)
	}
	return fmt.Errorf("unknown export format %q", f)
}

// ToFile writes d to path in format f.
func ToFile(path string, f Format, d Data) error {
	switch f {
	case FormatCSV:
		return ToCSV(d.Sessions, path)
	case FormatJSON:
		return ToJSON(d.Sessions, d.Completions, d.Habits, path)
	}
	return fmt.Errorf("unknown export format %q", f)
}
