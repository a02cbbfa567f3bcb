package store

import (
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/sadopc/studytrack/internal/analytics"
	"github.com/sadopc/studytrack/internal/pomodoro"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewMemory()
	if err != nil {
		t.Fatalf("new memory store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func newTestHabit(t *testing.T, s *Store, title string) *Habit {
	t.Helper()
	h, err := s.CreateHabit(title, "", "Academic", 1)
	if err != nil {
		t.Fatalf("create habit %q: %v", title, err)
	}
	return h
}

// insertSession writes a raw focus session row, bypassing validation.
func insertSession(t *testing.T, s *Store, minutes int, kind string, completedAt string) {
	t.Helper()
	_, err := s.db.Exec(
		`INSERT INTO focus_sessions (subject, duration_minutes, kind, completed_at) VALUES ('raw', ?, ?, ?)`,
		minutes, kind, completedAt,
	)
	if err != nil {
		t.Fatalf("insert session: %v", err)
	}
}

var day = analytics.NewDate(2024, time.March, 13)

// ============================================================
// Store initialization
// ============================================================

func TestNewMemory(t *testing.T) {
	s, err := NewMemory()
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()

	var version int
	s.db.QueryRow("PRAGMA user_version").Scan(&version)
	if version != currentVersion {
		t.Fatalf("expected user_version %d, got %d", currentVersion, version)
	}
}

func TestNewWithPath(t *testing.T) {
	dir := t.TempDir()
	path := dir + "/sub/studytrack.db"
	s, err := New(path)
	if err != nil {
		t.Fatal(err)
	}
	owner, _ := s.OwnerID()
	s.Close()

	// Reopen: no re-migration, owner id is stable.
	s2, err := New(path)
	if err != nil {
		t.Fatal(err)
	}
	defer s2.Close()
	owner2, _ := s2.OwnerID()
	if owner == "" || owner != owner2 {
		t.Fatalf("owner id should survive reopen: %q vs %q", owner, owner2)
	}
}

func TestDefaultDBPath(t *testing.T) {
	path, err := DefaultDBPath()
	if err != nil {
		t.Fatal(err)
	}
	if path == "" {
		t.Fatal("empty path")
	}
}

func TestPragmasConfigured(t *testing.T) {
	s := newTestStore(t)
	var fk int
	s.db.QueryRow("PRAGMA foreign_keys").Scan(&fk)
	if fk != 1 {
		t.Fatalf("expected foreign_keys=1, got %d", fk)
	}
}

func TestMigrationIdempotent(t *testing.T) {
	s := newTestStore(t)
	if err := s.migrate(); err != nil {
		t.Fatalf("second migration failed: %v", err)
	}
}

// ============================================================
// Habits
// ============================================================

func TestCreateAndGetHabit(t *testing.T) {
	s := newTestStore(t)
	h, err := s.CreateHabit("Read", "20 pages", "Academic", 1)
	if err != nil {
		t.Fatal(err)
	}
	if h.Title != "Read" || h.Description != "20 pages" || h.Category != "Academic" {
		t.Fatalf("unexpected habit: %+v", h)
	}
	if len(h.ID) != 36 {
		t.Fatalf("expected uuid id, got %q", h.ID)
	}
	if h.Archived {
		t.Fatal("new habit should not be archived")
	}
	if h.CreatedAt.IsZero() {
		t.Fatal("CreatedAt should be set")
	}
}

func TestCreateHabitClampsFrequency(t *testing.T) {
	s := newTestStore(t)
	h, err := s.CreateHabit("Sleep 8h", "", "Sleep", 0)
	if err != nil {
		t.Fatal(err)
	}
	if h.GoalFrequency != 1 {
		t.Fatalf("expected goal frequency 1, got %d", h.GoalFrequency)
	}
}

func TestHabitIDsUnique(t *testing.T) {
	s := newTestStore(t)
	a := newTestHabit(t, s, "Same")
	b := newTestHabit(t, s, "Same")
	if a.ID == b.ID {
		t.Fatal("habits with the same title should get distinct ids")
	}
}

func TestGetHabitNotFound(t *testing.T) {
	s := newTestStore(t)
	_, err := s.GetHabit("missing")
	if !errors.Is(err, sql.ErrNoRows) {
		t.Fatalf("expected sql.ErrNoRows, got %v", err)
	}
}

func TestListHabitsEmpty(t *testing.T) {
	s := newTestStore(t)
	habits, err := s.ListHabits(false)
	if err != nil {
		t.Fatal(err)
	}
	if habits != nil {
		t.Fatalf("expected nil slice, got %d items", len(habits))
	}
}

func TestListHabitsNewestFirst(t *testing.T) {
	s := newTestStore(t)
	first := newTestHabit(t, s, "First")
	second := newTestHabit(t, s, "Second")

	habits, err := s.ListHabits(false)
	if err != nil {
		t.Fatal(err)
	}
	if len(habits) != 2 {
		t.Fatalf("expected 2 habits, got %d", len(habits))
	}
	if habits[0].ID != second.ID || habits[1].ID != first.ID {
		t.Fatalf("expected newest first: got %s, %s", habits[0].Title, habits[1].Title)
	}
}

func TestArchiveHabit(t *testing.T) {
	s := newTestStore(t)
	h := newTestHabit(t, s, "Old")
	if _, err := s.ToggleCompletion(h.ID, day); err != nil {
		t.Fatal(err)
	}
	if err := s.ArchiveHabit(h.ID); err != nil {
		t.Fatal(err)
	}

	habits, _ := s.ListHabits(false)
	if len(habits) != 0 {
		t.Fatal("archived habit should be hidden")
	}
	habits, _ = s.ListHabits(true)
	if len(habits) != 1 || !habits[0].Archived {
		t.Fatal("archived habit should appear with includeArchived")
	}
	completions, _ := s.ListCompletions(analytics.Date{})
	if len(completions) != 1 {
		t.Fatal("archiving should keep completions")
	}
}

func TestUpdateHabit(t *testing.T) {
	s := newTestStore(t)
	h := newTestHabit(t, s, "Old")
	if err := s.UpdateHabit(h.ID, "New", "desc", "Health", 3); err != nil {
		t.Fatal(err)
	}
	updated, _ := s.GetHabit(h.ID)
	if updated.Title != "New" || updated.Description != "desc" || updated.Category != "Health" || updated.GoalFrequency != 3 {
		t.Fatalf("update failed: %+v", updated)
	}
}

func TestUpdateAndArchiveUnknownHabit(t *testing.T) {
	s := newTestStore(t)
	if err := s.UpdateHabit("missing", "New", "", "Health", 1); !errors.Is(err, ErrHabitNotFound) {
		t.Fatalf("update: expected ErrHabitNotFound, got %v", err)
	}
	if err := s.ArchiveHabit("missing"); !errors.Is(err, ErrHabitNotFound) {
		t.Fatalf("archive: expected ErrHabitNotFound, got %v", err)
	}
}

func TestHabitMalformedTimestamps(t *testing.T) {
	s := newTestStore(t)
	h := newTestHabit(t, s, "Read")
	if _, err := s.db.Exec(`UPDATE habits SET updated_at = 'last week' WHERE id = ?`, h.ID); err != nil {
		t.Fatal(err)
	}

	if _, err := s.GetHabit(h.ID); !errors.Is(err, analytics.ErrMalformedDate) {
		t.Fatalf("get: expected ErrMalformedDate, got %v", err)
	}
	if _, err := s.ListHabits(true); !errors.Is(err, analytics.ErrMalformedDate) {
		t.Fatalf("list: expected ErrMalformedDate, got %v", err)
	}
}

func TestHabitMetas(t *testing.T) {
	habits := []Habit{{ID: "a", Title: "A"}, {ID: "b", Title: "B"}}
	metas := HabitMetas(habits)
	if len(metas) != 2 || metas[0] != (analytics.HabitMeta{ID: "a", Title: "A"}) {
		t.Fatalf("unexpected metas: %+v", metas)
	}
}

// ============================================================
// Completions
// ============================================================

func TestToggleCompletion(t *testing.T) {
	s := newTestStore(t)
	h := newTestHabit(t, s, "Read")

	done, err := s.ToggleCompletion(h.ID, day)
	if err != nil {
		t.Fatal(err)
	}
	if !done {
		t.Fatal("first toggle should complete the habit")
	}
	set, _ := s.CompletedOn(day)
	if !set[h.ID] {
		t.Fatal("habit should be completed on day")
	}

	done, err = s.ToggleCompletion(h.ID, day)
	if err != nil {
		t.Fatal(err)
	}
	if done {
		t.Fatal("second toggle should remove the completion")
	}
	set, _ = s.CompletedOn(day)
	if set[h.ID] {
		t.Fatal("habit should no longer be completed")
	}
}

func TestToggleCompletionUnknownHabit(t *testing.T) {
	s := newTestStore(t)
	if _, err := s.ToggleCompletion("missing", day); err == nil {
		t.Fatal("expected foreign key error")
	}
}

func TestListCompletionsFrom(t *testing.T) {
	s := newTestStore(t)
	h := newTestHabit(t, s, "Read")
	for _, d := range []analytics.Date{day.AddDays(-3), day.AddDays(-1), day} {
		if _, err := s.ToggleCompletion(h.ID, d); err != nil {
			t.Fatal(err)
		}
	}

	all, _ := s.ListCompletions(analytics.Date{})
	if len(all) != 3 {
		t.Fatalf("expected 3 completions, got %d", len(all))
	}
	if all[0].CompletedOn != day.AddDays(-3) {
		t.Fatalf("expected oldest first, got %s", all[0].CompletedOn)
	}

	recent, _ := s.ListCompletions(day.AddDays(-1))
	if len(recent) != 2 {
		t.Fatalf("expected 2 completions since yesterday, got %d", len(recent))
	}
}

func TestCompletionEvents(t *testing.T) {
	s := newTestStore(t)
	h := newTestHabit(t, s, "Read")
	s.ToggleCompletion(h.ID, day)

	events, err := s.CompletionEvents()
	if err != nil {
		t.Fatal(err)
	}
	want := analytics.CompletionEvent{EntityID: h.ID, OccurredOn: day}
	if len(events) != 1 || events[0] != want {
		t.Fatalf("unexpected events: %+v", events)
	}
}

func TestCompletionEventsMalformedDate(t *testing.T) {
	s := newTestStore(t)
	h := newTestHabit(t, s, "Read")
	if _, err := s.db.Exec(
		`INSERT INTO habit_completions (habit_id, completed_on) VALUES (?, 'yesterday')`, h.ID,
	); err != nil {
		t.Fatal(err)
	}

	_, err := s.CompletionEvents()
	if !errors.Is(err, analytics.ErrMalformedDate) {
		t.Fatalf("expected ErrMalformedDate, got %v", err)
	}
}

func TestListCompletionsMalformedCreatedAt(t *testing.T) {
	s := newTestStore(t)
	h := newTestHabit(t, s, "Read")
	if _, err := s.db.Exec(
		`INSERT INTO habit_completions (habit_id, completed_on, created_at) VALUES (?, ?, 'noon')`, h.ID, day.String(),
	); err != nil {
		t.Fatal(err)
	}

	_, err := s.ListCompletions(analytics.Date{})
	if !errors.Is(err, analytics.ErrMalformedDate) {
		t.Fatalf("expected ErrMalformedDate, got %v", err)
	}
}

// ============================================================
// Focus sessions
// ============================================================

func TestRecordFocusSession(t *testing.T) {
	s := newTestStore(t)
	at := time.Date(2024, 3, 13, 9, 30, 0, 0, time.UTC)

	fs, err := s.RecordFocusSession("Calculus", 25, analytics.KindWork, at)
	if err != nil {
		t.Fatal(err)
	}
	if fs.ID == 0 || fs.Subject != "Calculus" || fs.DurationMinutes != 25 || fs.Kind != analytics.KindWork {
		t.Fatalf("unexpected session: %+v", fs)
	}
	if !fs.CompletedAt.Equal(at) {
		t.Fatalf("expected %v, got %v", at, fs.CompletedAt)
	}
}

func TestRecordFocusSessionDefaults(t *testing.T) {
	s := newTestStore(t)
	fs, err := s.RecordFocusSession("   ", 5, "", time.Now())
	if err != nil {
		t.Fatal(err)
	}
	if fs.Subject != "Untitled Session" {
		t.Fatalf("expected default subject, got %q", fs.Subject)
	}
	if fs.Kind != analytics.KindWork {
		t.Fatalf("expected work kind, got %q", fs.Kind)
	}
}

func TestRecordFocusSessionRejectsZeroDuration(t *testing.T) {
	s := newTestStore(t)
	if _, err := s.RecordFocusSession("x", 0, analytics.KindWork, time.Now()); err == nil {
		t.Fatal("expected error for zero duration")
	}
}

func TestGetFocusSessionNotFound(t *testing.T) {
	s := newTestStore(t)
	if _, err := s.GetFocusSession(999); err == nil {
		t.Fatal("expected error for missing session")
	}
}

func TestListFocusSessionsFilters(t *testing.T) {
	s := newTestStore(t)
	base := time.Date(2024, 3, 13, 8, 0, 0, 0, time.UTC)
	s.RecordFocusSession("a", 25, analytics.KindWork, base.Add(-48*time.Hour))
	s.RecordFocusSession("b", 25, analytics.KindWork, base)
	s.RecordFocusSession("c", 5, analytics.KindBreak, base.Add(30*time.Minute))

	tests := []struct {
		name string
		f    func() SessionFilter
		want []string
	}{
		{"all newest first", func() SessionFilter { return SessionFilter{} }, []string{"c", "b", "a"}},
		{"from", func() SessionFilter {
			from := base.Add(-time.Hour)
			return SessionFilter{From: &from}
		}, []string{"c", "b"}},
		{"to exclusive", func() SessionFilter {
			to := base
			return SessionFilter{To: &to}
		}, []string{"a"}},
		{"kind", func() SessionFilter { return SessionFilter{Kind: analytics.KindWork} }, []string{"b", "a"}},
		{"limit", func() SessionFilter { return SessionFilter{Limit: 1} }, []string{"c"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sessions, err := s.ListFocusSessions(tt.f())
			if err != nil {
				t.Fatal(err)
			}
			if len(sessions) != len(tt.want) {
				t.Fatalf("expected %d sessions, got %d", len(tt.want), len(sessions))
			}
			for i, fs := range sessions {
				if fs.Subject != tt.want[i] {
					t.Fatalf("session %d: expected %q, got %q", i, tt.want[i], fs.Subject)
				}
			}
		})
	}
}

func TestFocusSessionEvents(t *testing.T) {
	s := newTestStore(t)
	at := time.Date(2024, 3, 13, 9, 0, 0, 0, time.UTC)
	s.RecordFocusSession("a", 25, analytics.KindWork, at)

	events, err := s.FocusSessionEvents()
	if err != nil {
		t.Fatal(err)
	}
	if len(events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(events))
	}
	if !events[0].OccurredAt.Equal(at) || events[0].DurationMinutes != 25 || events[0].Kind != analytics.KindWork {
		t.Fatalf("unexpected event: %+v", events[0])
	}
}

func TestFocusSessionEventsSkipsBreaks(t *testing.T) {
	s := newTestStore(t)
	at := time.Date(2024, 3, 13, 9, 0, 0, 0, time.UTC)
	s.RecordFocusSession("a", 25, analytics.KindWork, at)
	s.RecordFocusSession("a", 5, analytics.KindBreak, at.Add(25*time.Minute))

	events, _ := s.FocusSessionEvents()
	if len(events) != 1 || events[0].Kind != analytics.KindWork {
		t.Fatalf("expected only the work session, got %+v", events)
	}
}

func TestFocusSessionEventsMalformedTimestamp(t *testing.T) {
	s := newTestStore(t)
	insertSession(t, s, 25, "work", "13/03/2024 09:00")

	_, err := s.FocusSessionEvents()
	if !errors.Is(err, analytics.ErrMalformedDate) {
		t.Fatalf("expected ErrMalformedDate, got %v", err)
	}
}

// ============================================================
// Settings
// ============================================================

func TestSettingsDefaults(t *testing.T) {
	s := newTestStore(t)

	defaults := map[string]string{
		"pomodoro_work_minutes":  "25",
		"pomodoro_break_minutes": "5",
		"sound_enabled":          "true",
	}
	for k, expected := range defaults {
		val, err := s.GetSetting(k)
		if err != nil {
			t.Fatalf("GetSetting(%q): %v", k, err)
		}
		if val != expected {
			t.Fatalf("GetSetting(%q) = %q, want %q", k, val, expected)
		}
	}
}

func TestSetSettingOverwrite(t *testing.T) {
	s := newTestStore(t)
	s.SetSetting("key", "v1")
	s.SetSetting("key", "v2")
	val, _ := s.GetSetting("key")
	if val != "v2" {
		t.Fatalf("expected v2, got %s", val)
	}
}

func TestGetSettingNotFound(t *testing.T) {
	s := newTestStore(t)
	if _, err := s.GetSetting("nonexistent"); err == nil {
		t.Fatal("expected error for missing setting")
	}
}

func TestGetAllSettingsSorted(t *testing.T) {
	s := newTestStore(t)
	all, err := s.GetAllSettings()
	if err != nil {
		t.Fatal(err)
	}
	if len(all) < 4 {
		t.Fatalf("expected at least 4 default settings, got %d", len(all))
	}
	for i := 1; i < len(all); i++ {
		if all[i-1].Key >= all[i].Key {
			t.Fatalf("settings not sorted: %s >= %s", all[i-1].Key, all[i].Key)
		}
	}
}

func TestWeeklyGoal(t *testing.T) {
	s := newTestStore(t)

	goal, err := s.WeeklyGoal()
	if err != nil {
		t.Fatal(err)
	}
	if goal != nil {
		t.Fatalf("expected no goal before it is set, got %+v", goal)
	}

	if err := s.SetWeeklyGoal(12.5); err != nil {
		t.Fatal(err)
	}
	goal, err = s.WeeklyGoal()
	if err != nil {
		t.Fatal(err)
	}
	owner, _ := s.OwnerID()
	if goal == nil || goal.TargetHours != 12.5 || goal.OwnerID != owner {
		t.Fatalf("unexpected goal: %+v", goal)
	}
}

func TestSetWeeklyGoalRange(t *testing.T) {
	s := newTestStore(t)
	tests := []struct {
		hours float64
		ok    bool
	}{
		{0, false},
		{0.5, false},
		{1, true},
		{100, true},
		{101, false},
		{-3, false},
	}
	for _, tt := range tests {
		err := s.SetWeeklyGoal(tt.hours)
		if tt.ok && err != nil {
			t.Fatalf("SetWeeklyGoal(%g): %v", tt.hours, err)
		}
		if !tt.ok && !errors.Is(err, analytics.ErrInvalidGoal) {
			t.Fatalf("SetWeeklyGoal(%g): expected ErrInvalidGoal, got %v", tt.hours, err)
		}
	}
}

func TestTimerConfig(t *testing.T) {
	s := newTestStore(t)

	cfg, err := s.TimerConfig()
	if err != nil {
		t.Fatal(err)
	}
	if cfg != pomodoro.DefaultConfig() {
		t.Fatalf("expected defaults, got %+v", cfg)
	}

	if err := s.SetTimerConfig(pomodoro.Config{WorkMinutes: 50, BreakMinutes: 10}); err != nil {
		t.Fatal(err)
	}
	cfg, _ = s.TimerConfig()
	if cfg.WorkMinutes != 50 || cfg.BreakMinutes != 10 {
		t.Fatalf("unexpected config: %+v", cfg)
	}
}

func TestSetTimerConfigInvalid(t *testing.T) {
	s := newTestStore(t)
	err := s.SetTimerConfig(pomodoro.Config{WorkMinutes: 61, BreakMinutes: 5})
	if !errors.Is(err, pomodoro.ErrInvalidDuration) {
		t.Fatalf("expected ErrInvalidDuration, got %v", err)
	}
	cfg, _ := s.TimerConfig()
	if cfg != pomodoro.DefaultConfig() {
		t.Fatal("invalid config should not be saved")
	}
}

func TestTimerConfigFallsBackOnBadValues(t *testing.T) {
	s := newTestStore(t)
	s.SetSetting("pomodoro_work_minutes", "500")
	cfg, err := s.TimerConfig()
	if err != nil {
		t.Fatal(err)
	}
	if cfg != pomodoro.DefaultConfig() {
		t.Fatalf("expected defaults for out-of-range value, got %+v", cfg)
	}
}

func TestSoundEnabled(t *testing.T) {
	s := newTestStore(t)
	on, err := s.SoundEnabled()
	if err != nil || !on {
		t.Fatalf("expected sound on by default, got %v (%v)", on, err)
	}
	s.SetSoundEnabled(false)
	on, _ = s.SoundEnabled()
	if on {
		t.Fatal("expected sound off")
	}
}

// ============================================================
// Close
// ============================================================

func TestCloseStore(t *testing.T) {
	s, _ := NewMemory()
	if err := s.Close(); err != nil {
		t.Fatalf("first close: %v", err)
	}
}

func TestActiveCompletions(t *testing.T) {
	habits := []Habit{{ID: "a"}}
	events := []analytics.CompletionEvent{
		{EntityID: "a", OccurredOn: day},
		{EntityID: "archived", OccurredOn: day},
	}
	kept := ActiveCompletions(events, habits)
	if len(kept) != 1 || kept[0].EntityID != "a" {
		t.Fatalf("expected only active habit completions, got %+v", kept)
	}
	if len(events) != 2 {
		t.Fatal("input slice should be untouched")
	}
}

// ============================================================
// Derived views
// ============================================================

func TestDashboardViewIgnoresArchivedHabits(t *testing.T) {
	s := newTestStore(t)
	kept := newTestHabit(t, s, "Read")
	gone := newTestHabit(t, s, "Old")
	s.ToggleCompletion(kept.ID, day)
	s.ToggleCompletion(gone.ID, day.AddDays(-1))
	s.ArchiveHabit(gone.ID)

	view, err := s.DashboardView(day)
	if err != nil {
		t.Fatal(err)
	}
	if view.TotalHabits != 1 || view.CompletedTodayCount != 1 {
		t.Fatalf("unexpected habit counts %+v", view)
	}
	if view.StudyStreakDays != 1 {
		t.Fatalf("archived completion should not extend the streak, got %d", view.StudyStreakDays)
	}
}

func TestDashboardViewUsesSavedGoal(t *testing.T) {
	s := newTestStore(t)
	s.SetWeeklyGoal(5)
	s.RecordFocusSession("Math", 150, analytics.KindWork, day.Start().Add(10*time.Hour))

	view, err := s.DashboardView(day)
	if err != nil {
		t.Fatal(err)
	}
	if view.WeeklyGoalHours != 5 || view.WeeklyProgressPercent != 50 {
		t.Fatalf("unexpected goal figures %+v", view)
	}
}

func TestAnalyticsViewWeeksBack(t *testing.T) {
	s := newTestStore(t)
	h := newTestHabit(t, s, "Read")
	s.ToggleCompletion(h.ID, day)
	s.ToggleCompletion(h.ID, day.AddDays(-7))
	s.RecordFocusSession("Math", 40, analytics.KindWork, day.AddDays(-7).Start().Add(9*time.Hour))

	current, start, err := s.AnalyticsView(day, 0)
	if err != nil {
		t.Fatal(err)
	}
	if start != analytics.WeekStart(day) || current.TotalWeeklyFocusMinutes != 0 || current.TotalWeeklyHabits != 1 {
		t.Fatalf("current week: start %s, %+v", start, current)
	}

	prev, start, err := s.AnalyticsView(day, 1)
	if err != nil {
		t.Fatal(err)
	}
	if start != analytics.WeekStart(day).AddDays(-7) {
		t.Fatalf("previous week start %s", start)
	}
	if prev.TotalWeeklyHabits != 1 || prev.TotalWeeklyFocusMinutes != 40 || prev.TotalWeeklyFocusSessions != 1 {
		t.Fatalf("previous week totals %+v", prev)
	}
	if prev.PerHabitStreaks[0].CurrentStreakDays != 1 {
		t.Fatal("streaks should still end today")
	}
}
