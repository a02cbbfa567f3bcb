package analytics

import "fmt"

type completionKey struct {
	entity string
	day    Date
}

// AggregateWeek buckets completions and sessions into seven daily summaries
// starting at weekStart. Duplicate (entity, day) completions count once and
// events outside the week are ignored.
func AggregateWeek(completions []CompletionEvent, sessions []FocusSessionEvent, weekStart Date) ([]DailyBucket, error) {
	if weekStart.IsZero() {
		return nil, fmt.Errorf("aggregate week: %w: zero week start", ErrMalformedDate)
	}

	buckets := make([]DailyBucket, 7)
	for i, d := range WeekDays(weekStart) {
		buckets[i] = DailyBucket{Label: d.Weekday(), Date: d}
	}

	seen := make(map[completionKey]struct{}, len(completions))
	for _, c := range completions {
		if c.OccurredOn.IsZero() {
			return nil, fmt.Errorf("aggregate week: completion of %q: %w", c.EntityID, ErrMalformedDate)
		}
		if !inWeek(c.OccurredOn, weekStart) {
			continue
		}
		k := completionKey{entity: c.EntityID, day: c.OccurredOn}
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		buckets[dayIndex(c.OccurredOn, weekStart)].HabitsCompleted++
	}

	for _, s := range sessions {
		if s.OccurredAt.IsZero() {
			return nil, fmt.Errorf("aggregate week: focus session: %w", ErrMalformedDate)
		}
		day := DateOf(s.OccurredAt)
		if !inWeek(day, weekStart) {
			continue
		}
		b := &buckets[dayIndex(day, weekStart)]
		b.FocusSessions++
		b.FocusMinutes += s.DurationMinutes
	}

	return buckets, nil
}

func dayIndex(d, weekStart Date) int {
	for i := 0; i < 7; i++ {
		if weekStart.AddDays(i) == d {
			return i
		}
	}
	return -1
}
