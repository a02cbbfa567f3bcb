package tui

import (
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/sadopc/studytrack/internal/store"
)

const maxGoalFrequency = 24

type habitsModel struct {
	store  *store.Store
	log    *slog.Logger
	width  int
	height int

	habits []store.Habit
	cursor int

	formActive bool
	form       *huh.Form
	editingID  string // empty when creating

	// Form field pointers (survive value copies)
	formTitle       *string
	formDescription *string
	formCategory    *string
	formFrequency   *string
}

func newHabitsModel(s *store.Store, log *slog.Logger) habitsModel {
	title, desc, cat, freq := "", "", store.Categories[0], "1"
	return habitsModel{
		store:           s,
		log:             log,
		formTitle:       &title,
		formDescription: &desc,
		formCategory:    &cat,
		formFrequency:   &freq,
	}
}

func (h *habitsModel) setSize(w, ht int) {
	h.width = w
	h.height = ht
}

type habitsDataMsg struct {
	habits []store.Habit
}

func (h habitsModel) refresh() tea.Cmd {
	return func() tea.Msg {
		habits, err := h.store.ListHabits(false)
		if err != nil {
			h.log.Error("list habits", "err", err)
			return errStatus("Habits", err)
		}
		return habitsDataMsg{habits: habits}
	}
}

func (h habitsModel) update(msg tea.Msg) (habitsModel, tea.Cmd) {
	if h.formActive && h.form != nil {
		return h.updateForm(msg)
	}

	switch msg := msg.(type) {
	case habitsDataMsg:
		h.habits = msg.habits
		if h.cursor >= len(h.habits) {
			h.cursor = max(0, len(h.habits)-1)
		}
		return h, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Up):
			if h.cursor > 0 {
				h.cursor--
			}
		case key.Matches(msg, keys.Down):
			if h.cursor < len(h.habits)-1 {
				h.cursor++
			}
		case key.Matches(msg, keys.New):
			return h.showForm(nil)
		case key.Matches(msg, keys.Edit), key.Matches(msg, keys.Enter):
			if len(h.habits) > 0 {
				return h.showForm(&h.habits[h.cursor])
			}
		case key.Matches(msg, keys.Delete):
			if len(h.habits) > 0 {
				return h, h.archive(h.habits[h.cursor])
			}
		}
	}
	return h, nil
}

func (h habitsModel) archive(habit store.Habit) tea.Cmd {
	return tea.Sequence(func() tea.Msg {
		if err := h.store.ArchiveHabit(habit.ID); err != nil {
			h.log.Error("archive habit", "habit", habit.ID, "err", err)
			return errStatus("Archive habit", err)
		}
		return statusMsg{text: "Archived " + habit.Title}
	}, h.refresh())
}

// showForm opens the habit form, prefilled when editing an existing habit.
func (h habitsModel) showForm(existing *store.Habit) (habitsModel, tea.Cmd) {
	*h.formTitle = ""
	*h.formDescription = ""
	*h.formCategory = store.Categories[0]
	*h.formFrequency = "1"
	h.editingID = ""
	if existing != nil {
		*h.formTitle = existing.Title
		*h.formDescription = existing.Description
		*h.formCategory = existing.Category
		*h.formFrequency = strconv.Itoa(existing.GoalFrequency)
		h.editingID = existing.ID
	}

	catOptions := make([]huh.Option[string], len(store.Categories))
	for i, c := range store.Categories {
		catOptions[i] = huh.NewOption(c, c)
	}

	h.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Habit").Value(h.formTitle).Validate(validateTitle),
			huh.NewText().Title("Description").Lines(2).Value(h.formDescription),
			huh.NewSelect[string]().Title("Category").Options(catOptions...).Value(h.formCategory),
			huh.NewInput().Title("Daily goal (times)").Value(h.formFrequency).Validate(validateFrequency),
		),
	).WithShowHelp(true).WithShowErrors(true)

	h.formActive = true
	return h, h.form.Init()
}

func validateTitle(s string) error {
	if strings.TrimSpace(s) == "" {
		return errors.New("title is required")
	}
	return nil
}

func validateFrequency(s string) error {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 1 || n > maxGoalFrequency {
		return fmt.Errorf("enter a whole number between 1 and %d", maxGoalFrequency)
	}
	return nil
}

func (h habitsModel) updateForm(msg tea.Msg) (habitsModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		if msg.String() == "esc" {
			h.formActive = false
			h.form = nil
			return h, nil
		}
	}

	form, cmd := h.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		h.form = f
	}

	if h.form.State == huh.StateCompleted {
		h.formActive = false
		return h, tea.Sequence(h.save(), h.refresh())
	}

	return h, cmd
}

func (h habitsModel) save() tea.Cmd {
	title := strings.TrimSpace(*h.formTitle)
	desc := strings.TrimSpace(*h.formDescription)
	category := *h.formCategory
	freq, _ := strconv.Atoi(strings.TrimSpace(*h.formFrequency))
	id := h.editingID

	return func() tea.Msg {
		if title == "" {
			return nil
		}
		if id == "" {
			habit, err := h.store.CreateHabit(title, desc, category, freq)
			if err != nil {
				h.log.Error("create habit", "err", err)
				return errStatus("Create habit", err)
			}
			h.log.Info("habit created", "habit", habit.ID)
			return statusMsg{text: "Created " + habit.Title}
		}
		if err := h.store.UpdateHabit(id, title, desc, category, freq); err != nil {
			h.log.Error("update habit", "habit", id, "err", err)
			return errStatus("Update habit", err)
		}
		return statusMsg{text: "Updated " + title}
	}
}

func (h habitsModel) view() string {
	if h.formActive && h.form != nil {
		title := titleStyle.Render("New Habit")
		if h.editingID != "" {
			title = titleStyle.Render("Edit Habit")
		}
		content := lipgloss.JoinVertical(lipgloss.Left, title, "", h.form.View())
		return panelStyle.Width(h.width - 4).Render(content)
	}
	return h.renderList()
}

func (h habitsModel) renderList() string {
	w := h.width - 4
	title := titleStyle.Render("Habits")

	if len(h.habits) == 0 {
		content := lipgloss.JoinVertical(lipgloss.Left,
			title,
			"",
			mutedStyle.Render("No habits yet. Press n to create one."),
		)
		return panelStyle.Width(w).Render(content)
	}

	var rows []string
	rows = append(rows, title)
	rows = append(rows, "")

	header := mutedStyle.Render(fmt.Sprintf("    %-28s %-10s %s", "Habit", "Category", "Goal"))
	rows = append(rows, header)

	for i, habit := range h.habits {
		cursor := "  "
		style := normalItemStyle
		if i == h.cursor {
			cursor = "> "
			style = selectedItemStyle
		}
		row := style.Render(fmt.Sprintf("%-28s %-10s %dx/day", truncate(habit.Title, 28), habit.Category, habit.GoalFrequency))
		rows = append(rows, cursor+categoryDot(habit.Category)+" "+row)
		if habit.Description != "" && i == h.cursor {
			rows = append(rows, mutedStyle.Render("    "+truncate(habit.Description, max(10, w-10))))
		}
	}

	rows = append(rows, "")
	rows = append(rows, mutedStyle.Render("  n: new  e: edit  d: archive"))

	return panelStyle.Width(w).Render(strings.Join(rows, "\n"))
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	if n <= 1 {
		return string(r[:n])
	}
	return string(r[:n-1]) + "…"
}
