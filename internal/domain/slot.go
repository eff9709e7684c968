package domain

import "time"

// Slot represents a bookable candidate window of SlotDuration starting at
// StartTime. A slot is offered to callers only when at least one table of
// sufficient capacity is free for its whole range.
type Slot struct {
	StartTime time.Time
}

// EndTime returns the instant the slot's range ends (exclusive).
func (s Slot) EndTime() time.Time {
	return s.StartTime.Add(SlotDuration)
}

// Label returns the human-readable start time shown in the booking form.
func (s Slot) Label() string {
	return s.StartTime.Format(TimeFormat)
}
