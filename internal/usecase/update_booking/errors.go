package update_booking

import "errors"

var (
	// ErrInvalidInput is returned for malformed requests.
	ErrInvalidInput = errors.New("update_booking: invalid input data")

	// ErrBookingNotFound is returned when no booking has the requested id.
	ErrBookingNotFound = errors.New("update_booking: booking not found")

	// ErrAccessDenied is returned when the caller neither owns the
	// booking nor holds the staff role.
	ErrAccessDenied = errors.New("update_booking: access denied")

	// ErrCannotModify is returned for bookings past the point of editing:
	// cancelled, completed, or already started.
	ErrCannotModify = errors.New("update_booking: booking can no longer be modified")

	// ErrOutsideOpeningHours is returned when the new slot does not fit
	// the opening window of its weekday (or the day is closed).
	ErrOutsideOpeningHours = errors.New("update_booking: booking time is outside opening hours")

	// ErrSlotUnavailable is returned when no eligible table exists for
	// the new slot at commit time.
	ErrSlotUnavailable = errors.New("update_booking: slot is no longer available")

	// ErrConflictOnCommit is returned when the storage layer rejects the
	// commit after assignment succeeded locally: a concurrent commit won
	// the race.
	ErrConflictOnCommit = errors.New("update_booking: lost race committing the booking")

	// ErrInternal is returned on repository or infrastructure failures.
	ErrInternal = errors.New("update_booking: internal error")
)
