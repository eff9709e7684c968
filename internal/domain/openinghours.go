package domain

import (
	"time"

	"github.com/gregp1985/gregorys-bistro/pkg/types"
)

// OpeningHours holds the open/close times for one weekday.
// At most one record exists per weekday; a missing record means the
// restaurant is closed all day.
type OpeningHours struct {
	ID        int64
	Weekday   time.Weekday
	OpenTime  types.TimeString
	CloseTime types.TimeString
}

// Window anchors the opening window onto a calendar date in the given
// location, returning the opening instant and the closing instant.
func (h *OpeningHours) Window(date time.Time, loc *time.Location) (time.Time, time.Time, error) {
	open, err := h.OpenTime.Combine(date, loc)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	close, err := h.CloseTime.Combine(date, loc)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	return open, close, nil
}

// Contains reports whether a booking of [start, end) fits entirely inside
// the opening window for start's date. The start bound is inclusive and the
// booking must finish by closing time.
func (h *OpeningHours) Contains(start, end time.Time, loc *time.Location) (bool, error) {
	open, close, err := h.Window(start.In(loc), loc)
	if err != nil {
		return false, err
	}
	return !start.Before(open) && !end.After(close), nil
}
