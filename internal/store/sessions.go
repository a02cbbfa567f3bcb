package store

import (
	"fmt"
	"strings"
	"time"

	"github.com/sadopc/studytrack/internal/analytics"
)

const defaultSubject = "Untitled Session"

// RecordFocusSession stores a completed interval. An empty subject is
// stored as "Untitled Session".
func (s *Store) RecordFocusSession(subject string, durationMinutes int, kind analytics.SessionKind, completedAt time.Time) (*FocusSession, error) {
	if durationMinutes < 1 {
		return nil, fmt.Errorf("record focus session: duration %d min must be at least 1", durationMinutes)
	}
	subject = strings.TrimSpace(subject)
	if subject == "" {
		subject = defaultSubject
	}
	if kind == "" {
		kind = analytics.KindWork
	}
	res, err := s.db.Exec(
		`INSERT INTO focus_sessions (subject, duration_minutes, kind, completed_at) VALUES (?, ?, ?, ?)`,
		subject, durationMinutes, string(kind), completedAt.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return nil, fmt.Errorf("record focus session: %w", err)
	}
	id, _ := res.LastInsertId()
	return s.GetFocusSession(id)
}

func (s *Store) GetFocusSession(id int64) (*FocusSession, error) {
	fs := &FocusSession{}
	var kind, completedAt string
	err := s.db.QueryRow(
		`SELECT id, subject, duration_minutes, kind, completed_at FROM focus_sessions WHERE id = ?`, id,
	).Scan(&fs.ID, &fs.Subject, &fs.DurationMinutes, &kind, &completedAt)
	if err != nil {
		return nil, fmt.Errorf("get focus session %d: %w", id, err)
	}
	fs.Kind = analytics.SessionKind(kind)
	fs.CompletedAt, err = analytics.ParseTimestamp(completedAt)
	if err != nil {
		return nil, fmt.Errorf("focus session %d: %w", id, err)
	}
	return fs, nil
}

// ListFocusSessions returns sessions newest first.
func (s *Store) ListFocusSessions(f SessionFilter) ([]FocusSession, error) {
	query := `SELECT id, subject, duration_minutes, kind, completed_at FROM focus_sessions WHERE 1=1`
	var args []any

	if f.From != nil {
		query += ` AND completed_at >= ?`
		args = append(args, f.From.UTC().Format(time.RFC3339))
	}
	if f.To != nil {
		query += ` AND completed_at < ?`
		args = append(args, f.To.UTC().Format(time.RFC3339))
	}
	if f.Kind != "" {
		query += ` AND kind = ?`
		args = append(args, string(f.Kind))
	}
	query += ` ORDER BY completed_at DESC, id DESC`
	if f.Limit > 0 {
		query += fmt.Sprintf(` LIMIT %d`, f.Limit)
	}

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("list focus sessions: %w", err)
	}
	defer rows.Close()

	var sessions []FocusSession
	for rows.Next() {
		var fs FocusSession
		var kind, completedAt string
		if err := rows.Scan(&fs.ID, &fs.Subject, &fs.DurationMinutes, &kind, &completedAt); err != nil {
			return nil, err
		}
		fs.Kind = analytics.SessionKind(kind)
		fs.CompletedAt, err = analytics.ParseTimestamp(completedAt)
		if err != nil {
			return nil, fmt.Errorf("focus session %d: %w", fs.ID, err)
		}
		sessions = append(sessions, fs)
	}
	return sessions, rows.Err()
}

// FocusSessionEvents loads every work session for the analytics views.
// Break rows are not focus time.
func (s *Store) FocusSessionEvents() ([]analytics.FocusSessionEvent, error) {
	sessions, err := s.ListFocusSessions(SessionFilter{Kind: analytics.KindWork})
	if err != nil {
		return nil, err
	}
	events := make([]analytics.FocusSessionEvent, 0, len(sessions))
	for _, fs := range sessions {
		events = append(events, analytics.FocusSessionEvent{
			OccurredAt:      fs.CompletedAt,
			DurationMinutes: fs.DurationMinutes,
			Kind:            fs.Kind,
		})
	}
	return events, nil
}
