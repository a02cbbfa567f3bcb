package store

import (
	"database/sql"
	"errors"
	"fmt"
	"strconv"

	"github.com/sadopc/studytrack/internal/analytics"
	"github.com/sadopc/studytrack/internal/pomodoro"
)

const (
	keyOwnerID      = "owner_id"
	keyWeeklyGoal   = "weekly_goal_hours"
	keyWorkMinutes  = "pomodoro_work_minutes"
	keyBreakMinutes = "pomodoro_break_minutes"
	keySound        = "sound_enabled"

	MinGoalHours = 1
	MaxGoalHours = 100
)

func (s *Store) GetSetting(key string) (string, error) {
	var value string
	err := s.db.QueryRow(`SELECT value FROM settings WHERE key = ?`, key).Scan(&value)
	if err != nil {
		return "", fmt.Errorf("get setting %q: %w", key, err)
	}
	return value, nil
}

func (s *Store) SetSetting(key, value string) error {
	_, err := s.db.Exec(
		`INSERT INTO settings (key, value) VALUES (?, ?) ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		key, value,
	)
	return err
}

func (s *Store) GetAllSettings() ([]Setting, error) {
	rows, err := s.db.Query(`SELECT key, value FROM settings ORDER BY key`)
	if err != nil {
		return nil, fmt.Errorf("list settings: %w", err)
	}
	defer rows.Close()

	var settings []Setting
	for rows.Next() {
		var s Setting
		if err := rows.Scan(&s.Key, &s.Value); err != nil {
			return nil, err
		}
		settings = append(settings, s)
	}
	return settings, rows.Err()
}

func (s *Store) OwnerID() (string, error) {
	return s.GetSetting(keyOwnerID)
}

// WeeklyGoal returns nil when no goal has been saved yet.
func (s *Store) WeeklyGoal() (*analytics.WeeklyGoal, error) {
	v, err := s.GetSetting(keyWeeklyGoal)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	hours, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return nil, fmt.Errorf("weekly goal %q: %w", v, analytics.ErrInvalidGoal)
	}
	owner, err := s.OwnerID()
	if err != nil {
		return nil, err
	}
	return &analytics.WeeklyGoal{OwnerID: owner, TargetHours: hours}, nil
}

func (s *Store) SetWeeklyGoal(hours float64) error {
	if hours < MinGoalHours || hours > MaxGoalHours {
		return fmt.Errorf("weekly goal %g h outside %d..%d: %w", hours, MinGoalHours, MaxGoalHours, analytics.ErrInvalidGoal)
	}
	return s.SetSetting(keyWeeklyGoal, strconv.FormatFloat(hours, 'f', -1, 64))
}

// TimerConfig falls back to the defaults when the stored values are unusable.
func (s *Store) TimerConfig() (pomodoro.Config, error) {
	cfg := pomodoro.DefaultConfig()
	work, err := s.intSetting(keyWorkMinutes)
	if err != nil {
		return cfg, err
	}
	brk, err := s.intSetting(keyBreakMinutes)
	if err != nil {
		return cfg, err
	}
	stored := pomodoro.Config{WorkMinutes: work, BreakMinutes: brk}
	if stored.Validate() != nil {
		return cfg, nil
	}
	return stored, nil
}

func (s *Store) SetTimerConfig(cfg pomodoro.Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	if err := s.SetSetting(keyWorkMinutes, strconv.Itoa(cfg.WorkMinutes)); err != nil {
		return fmt.Errorf("save work minutes: %w", err)
	}
	if err := s.SetSetting(keyBreakMinutes, strconv.Itoa(cfg.BreakMinutes)); err != nil {
		return fmt.Errorf("save break minutes: %w", err)
	}
	return nil
}

func (s *Store) SoundEnabled() (bool, error) {
	v, err := s.GetSetting(keySound)
	if errors.Is(err, sql.ErrNoRows) {
		return true, nil
	}
	if err != nil {
		return false, err
	}
	return v == "true", nil
}

func (s *Store) SetSoundEnabled(on bool) error {
	return s.SetSetting(keySound, strconv.FormatBool(on))
}

func (s *Store) intSetting(key string) (int, error) {
	v, err := s.GetSetting(key)
	if err != nil {
		return 0, err
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("setting %q: %w", key, err)
	}
	return n, nil
}
