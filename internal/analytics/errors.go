package analytics

import "errors"

var (
	// ErrInvalidGoal is returned when a weekly goal is not strictly positive.
	ErrInvalidGoal = errors.New("invalid weekly goal")

	// ErrMalformedDate is returned when an event date cannot be parsed or is missing.
	ErrMalformedDate = errors.New("malformed date")
)
