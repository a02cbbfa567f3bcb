package analytics

// ComputeStreak counts consecutive days ending at and including today that
// appear in dates. A missing entry for today yields 0 regardless of how long
// the chain through yesterday is.
func ComputeStreak(dates []Date, today Date) int {
	if len(dates) == 0 {
		return 0
	}
	set := make(map[Date]struct{}, len(dates))
	for _, d := range dates {
		set[d] = struct{}{}
	}
	return streakFrom(set, today)
}

func streakFrom(set map[Date]struct{}, today Date) int {
	offset := 0
	for {
		if _, ok := set[today.AddDays(-offset)]; !ok {
			return offset
		}
		offset++
	}
}

// StudyStreak is the streak over every day that has either a habit
// completion or a focus session.
func StudyStreak(completions []CompletionEvent, sessions []FocusSessionEvent, today Date) int {
	set := make(map[Date]struct{}, len(completions)+len(sessions))
	for _, c := range completions {
		set[c.OccurredOn] = struct{}{}
	}
	for _, s := range sessions {
		set[DateOf(s.OccurredAt)] = struct{}{}
	}
	return streakFrom(set, today)
}

// HabitStreaks computes the current streak of each habit, preserving the
// order of habits.
func HabitStreaks(habits []HabitMeta, completions []CompletionEvent, today Date) []StreakResult {
	index := make(map[string]map[Date]struct{})
	for _, c := range completions {
		days, ok := index[c.EntityID]
		if !ok {
			days = make(map[Date]struct{})
			index[c.EntityID] = days
		}
		days[c.OccurredOn] = struct{}{}
	}

	results := make([]StreakResult, 0, len(habits))
	for _, h := range habits {
		streak := 0
		if days, ok := index[h.ID]; ok {
			streak = streakFrom(days, today)
		}
		results = append(results, StreakResult{
			EntityID:          h.ID,
			Title:             h.Title,
			CurrentStreakDays: streak,
		})
	}
	return results
}
