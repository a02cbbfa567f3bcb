package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/sadopc/studytrack/internal/analytics"
	"github.com/sadopc/studytrack/internal/store"
)

var csvHeader = []string{"ID", "Subject", "Kind", "Completed", "Date", "Duration (min)", "Duration"}

func ToCSV(sessions []store.FocusSession, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create csv file: %w", err)
	}
	defer f.Close()
	return WriteCSV(f, sessions)
}

// WriteCSV writes one row per focus session with local timestamps.
func WriteCSV(out io.Writer, sessions []store.FocusSession) error {
	w := csv.NewWriter(out)

	if err := w.Write(csvHeader); err != nil {
		return err
	}

	for _, fs := range sessions {
		row := []string{
			strconv.FormatInt(fs.ID, 10),
			fs.Subject,
			string(fs.Kind),
			fs.CompletedAt.Local().Format(time.RFC3339),
			analytics.DateOf(fs.CompletedAt).String(),
			strconv.Itoa(fs.DurationMinutes),
			analytics.FormatDuration(fs.DurationMinutes),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	w.Flush()
	return w.Error()
}
