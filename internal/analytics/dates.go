package analytics

import (
	"fmt"
	"time"
)

const dateLayout = "2006-01-02"

// Date is a calendar day with no time-of-day component.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

func NewDate(year int, month time.Month, day int) Date {
	// Normalise overflow such as Feb 30 through time.Date.
	return fromTime(time.Date(year, month, day, 12, 0, 0, 0, time.UTC))
}

// DateOf truncates t to its calendar day in the local zone.
func DateOf(t time.Time) Date {
	l := t.In(time.Local)
	return Date{Year: l.Year(), Month: l.Month(), Day: l.Day()}
}

func Today() Date {
	return DateOf(time.Now())
}

// ParseDate parses a YYYY-MM-DD string.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return Date{}, fmt.Errorf("%w: %q", ErrMalformedDate, s)
	}
	return fromTime(t), nil
}

// ParseTimestamp parses an RFC3339 timestamp, keeping the instant.
func ParseTimestamp(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrMalformedDate, s)
	}
	return t, nil
}

func fromTime(t time.Time) Date {
	return Date{Year: t.Year(), Month: t.Month(), Day: t.Day()}
}

// noon UTC keeps day arithmetic clear of DST shifts.
func (d Date) noon() time.Time {
	return time.Date(d.Year, d.Month, d.Day, 12, 0, 0, 0, time.UTC)
}

func (d Date) AddDays(n int) Date {
	return fromTime(d.noon().AddDate(0, 0, n))
}

func (d Date) Weekday() time.Weekday {
	return d.noon().Weekday()
}

func (d Date) Before(o Date) bool {
	return d.noon().Before(o.noon())
}

func (d Date) After(o Date) bool {
	return d.noon().After(o.noon())
}

func (d Date) IsZero() bool {
	return d == Date{}
}

func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.noon().Format(dateLayout)
}

// Start returns local midnight of d.
func (d Date) Start() time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.Local)
}

// WeekStart returns the most recent Sunday on or before d.
func WeekStart(d Date) Date {
	return d.AddDays(-int(d.Weekday()))
}

// WeekDays returns the seven days of the week beginning at start.
func WeekDays(start Date) [7]Date {
	var days [7]Date
	for i := range days {
		days[i] = start.AddDays(i)
	}
	return days
}

// inWeek reports whether d falls within the 7-day span beginning at start.
func inWeek(d, start Date) bool {
	return !d.Before(start) && d.Before(start.AddDays(7))
}
