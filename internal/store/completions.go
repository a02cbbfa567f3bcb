package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/sadopc/studytrack/internal/analytics"
)

// ToggleCompletion marks habitID done on day, or removes the mark if it is
// already there. It reports whether the habit is now completed.
func (s *Store) ToggleCompletion(habitID string, day analytics.Date) (bool, error) {
	var id int64
	err := s.db.QueryRow(
		`SELECT id FROM habit_completions WHERE habit_id = ? AND completed_on = ?`,
		habitID, day.String(),
	).Scan(&id)
	switch {
	case err == sql.ErrNoRows:
		now := time.Now().UTC().Format(time.RFC3339)
		if _, err := s.db.Exec(
			`INSERT INTO habit_completions (habit_id, completed_on, created_at) VALUES (?, ?, ?)`,
			habitID, day.String(), now,
		); err != nil {
			return false, fmt.Errorf("insert completion: %w", err)
		}
		return true, nil
	case err != nil:
		return false, fmt.Errorf("find completion: %w", err)
	}

	if _, err := s.db.Exec(`DELETE FROM habit_completions WHERE id = ?`, id); err != nil {
		return false, fmt.Errorf("delete completion %d: %w", id, err)
	}
	return false, nil
}

// ListCompletions returns completions on or after from (all when from is
// zero), oldest first.
func (s *Store) ListCompletions(from analytics.Date) ([]Completion, error) {
	query := `SELECT id, habit_id, completed_on, created_at FROM habit_completions`
	var args []any
	if !from.IsZero() {
		query += ` WHERE completed_on >= ?`
		args = append(args, from.String())
	}
	query += ` ORDER BY completed_on, id`

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("list completions: %w", err)
	}
	defer rows.Close()

	var completions []Completion
	for rows.Next() {
		var c Completion
		var day, createdAt string
		if err := rows.Scan(&c.ID, &c.HabitID, &day, &createdAt); err != nil {
			return nil, err
		}
		c.CompletedOn, err = analytics.ParseDate(day)
		if err != nil {
			return nil, fmt.Errorf("completion %d: %w", c.ID, err)
		}
		c.CreatedAt, err = analytics.ParseTimestamp(createdAt)
		if err != nil {
			return nil, fmt.Errorf("completion %d created_at: %w", c.ID, err)
		}
		completions = append(completions, c)
	}
	return completions, rows.Err()
}

// CompletionEvents loads the full completion history for streak computation.
func (s *Store) CompletionEvents() ([]analytics.CompletionEvent, error) {
	completions, err := s.ListCompletions(analytics.Date{})
	if err != nil {
		return nil, err
	}
	events := make([]analytics.CompletionEvent, 0, len(completions))
	for _, c := range completions {
		events = append(events, analytics.CompletionEvent{EntityID: c.HabitID, OccurredOn: c.CompletedOn})
	}
	return events, nil
}

// CompletedOn returns the set of habit IDs completed on day.
func (s *Store) CompletedOn(day analytics.Date) (map[string]bool, error) {
	rows, err := s.db.Query(`SELECT habit_id FROM habit_completions WHERE completed_on = ?`, day.String())
	if err != nil {
		return nil, fmt.Errorf("completions on %s: %w", day, err)
	}
	defer rows.Close()

	done := make(map[string]bool)
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		done[id] = true
	}
	return done, rows.Err()
}
