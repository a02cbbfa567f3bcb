package store

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sadopc/studytrack/internal/analytics"
)

// ErrHabitNotFound is returned when an update targets a missing habit id.
var ErrHabitNotFound = errors.New("habit not found")

func (s *Store) CreateHabit(title, description, category string, goalFrequency int) (*Habit, error) {
	if goalFrequency < 1 {
		goalFrequency = 1
	}
	id := uuid.NewString()
	now := time.Now().UTC().Format(time.RFC3339)
	_, err := s.db.Exec(
		`INSERT INTO habits (id, title, description, category, goal_frequency, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		id, title, description, category, goalFrequency, now, now,
	)
	if err != nil {
		return nil, fmt.Errorf("insert habit: %w", err)
	}
	return s.GetHabit(id)
}

func (s *Store) GetHabit(id string) (*Habit, error) {
	h := &Habit{}
	var createdAt, updatedAt string
	var archived int
	err := s.db.QueryRow(
		`SELECT id, title, description, category, goal_frequency, archived, created_at, updated_at
		 FROM habits WHERE id = ?`, id,
	).Scan(&h.ID, &h.Title, &h.Description, &h.Category, &h.GoalFrequency, &archived, &createdAt, &updatedAt)
	if err != nil {
		return nil, fmt.Errorf("get habit %s: %w", id, err)
	}
	h.Archived = archived == 1
	if err := h.parseTimes(createdAt, updatedAt); err != nil {
		return nil, err
	}
	return h, nil
}

// ListHabits returns habits newest first.
func (s *Store) ListHabits(includeArchived bool) ([]Habit, error) {
	query := `SELECT id, title, description, category, goal_frequency, archived, created_at, updated_at FROM habits`
	if !includeArchived {
		query += ` WHERE archived = 0`
	}
	query += ` ORDER BY created_at DESC, rowid DESC`

	rows, err := s.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("list habits: %w", err)
	}
	defer rows.Close()

	var habits []Habit
	for rows.Next() {
		var h Habit
		var createdAt, updatedAt string
		var archived int
		if err := rows.Scan(&h.ID, &h.Title, &h.Description, &h.Category, &h.GoalFrequency, &archived, &createdAt, &updatedAt); err != nil {
			return nil, err
		}
		h.Archived = archived == 1
		if err := h.parseTimes(createdAt, updatedAt); err != nil {
			return nil, err
		}
		habits = append(habits, h)
	}
	return habits, rows.Err()
}

func (s *Store) UpdateHabit(id, title, description, category string, goalFrequency int) error {
	if goalFrequency < 1 {
		goalFrequency = 1
	}
	now := time.Now().UTC().Format(time.RFC3339)
	res, err := s.db.Exec(
		`UPDATE habits SET title = ?, description = ?, category = ?, goal_frequency = ?, updated_at = ? WHERE id = ?`,
		title, description, category, goalFrequency, now, id,
	)
	if err != nil {
		return fmt.Errorf("update habit %s: %w", id, err)
	}
	return requireRow(res, "update habit", id)
}

// ArchiveHabit hides a habit; its completions are kept.
func (s *Store) ArchiveHabit(id string) error {
	now := time.Now().UTC().Format(time.RFC3339)
	res, err := s.db.Exec(
		`UPDATE habits SET archived = 1, updated_at = ? WHERE id = ?`, now, id,
	)
	if err != nil {
		return fmt.Errorf("archive habit %s: %w", id, err)
	}
	return requireRow(res, "archive habit", id)
}

func requireRow(res sql.Result, op, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s %s: %w", op, id, err)
	}
	if n == 0 {
		return fmt.Errorf("%s %s: %w", op, id, ErrHabitNotFound)
	}
	return nil
}

func (h *Habit) parseTimes(createdAt, updatedAt string) error {
	var err error
	if h.CreatedAt, err = analytics.ParseTimestamp(createdAt); err != nil {
		return fmt.Errorf("habit %s created_at: %w", h.ID, err)
	}
	if h.UpdatedAt, err = analytics.ParseTimestamp(updatedAt); err != nil {
		return fmt.Errorf("habit %s updated_at: %w", h.ID, err)
	}
	return nil
}

// HabitMetas projects active habits for the analytics views.
func HabitMetas(habits []Habit) []analytics.HabitMeta {
	metas := make([]analytics.HabitMeta, 0, len(habits))
	for _, h := range habits {
		metas = append(metas, analytics.HabitMeta{ID: h.ID, Title: h.Title})
	}
	return metas
}

// ActiveCompletions drops completions of habits not in habits, so archived
// habits stop counting the way a deleted habit would.
func ActiveCompletions(events []analytics.CompletionEvent, habits []Habit) []analytics.CompletionEvent {
	active := make(map[string]bool, len(habits))
	for _, h := range habits {
		active[h.ID] = true
	}
	kept := events[:0:0]
	for _, e := range events {
		if active[e.EntityID] {
			kept = append(kept, e)
		}
	}
	return kept
}
