package get_available_slots

import (
	"time"

	"github.com/gregp1985/gregorys-bistro/internal/domain"
)

// generateCandidates enumerates the candidate start times for one day:
// from opening time up to the last start that still finishes by closing
// time, stepping at domain.SlotInterval. Candidates at or before now are
// skipped when the requested date is today, so nothing in the past is ever
// offered. If the opening window is shorter than one slot the result is
// empty.
func generateCandidates(
	hours *domain.OpeningHours,
	date time.Time,
	now time.Time,
	loc *time.Location,
) ([]time.Time, error) {
	open, close, err := hours.Window(date, loc)
	if err != nil {
		return nil, err
	}

	windowEnd := close.Add(-domain.SlotDuration)
	if windowEnd.Before(open) {
		return []time.Time{}, nil
	}

	today := isSameDay(date, now.In(loc))

	candidates := make([]time.Time, 0)
	for current := open; !current.After(windowEnd); current = current.Add(domain.SlotInterval) {
		if today && !current.After(now) {
			continue
		}
		candidates = append(candidates, current)
	}

	return candidates, nil
}

// hasEligibleTable reports whether at least one of the tables is free for
// the whole of [start, start+SlotDuration). Tables are pre-filtered by
// capacity, so only overlap remains to be checked. Overlap uses half-open
// semantics: a booking ending exactly at start does not conflict.
func hasEligibleTable(start time.Time, tables []*domain.Table, bookings []*domain.Booking) bool {
	end := start.Add(domain.SlotDuration)

	for _, t := range tables {
		if tableIsFree(t.ID, start, end, bookings) {
			return true
		}
	}
	return false
}

func tableIsFree(tableID int64, start, end time.Time, bookings []*domain.Booking) bool {
	for _, b := range bookings {
		if !b.IsActive() || b.TableID != tableID {
			continue
		}
		if b.Overlaps(start, end) {
			return false
		}
	}
	return true
}

// isSameDay reports whether two instants fall on the same calendar date.
func isSameDay(date1, date2 time.Time) bool {
	y1, m1, d1 := date1.Date()
	y2, m2, d2 := date2.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}

// isDateInPast reports whether the date is before today's date.
func isDateInPast(date, now time.Time) bool {
	dateOnly := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, now.Location())
	nowOnly := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	return dateOnly.Before(nowOnly)
}
