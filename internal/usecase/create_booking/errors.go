package create_booking

import "errors"

var (
	// ErrInvalidInput is returned for malformed requests. Unlike
	// availability queries, a booking submission fails loud on bad input.
	ErrInvalidInput = errors.New("create_booking: invalid input data")

	// ErrOutsideOpeningHours is returned when the requested slot does not
	// fit the opening window of its weekday (or the day is closed).
	ErrOutsideOpeningHours = errors.New("create_booking: booking time is outside opening hours")

	// ErrSlotUnavailable is returned when no eligible table exists at
	// commit time. An expected outcome, not a fault.
	ErrSlotUnavailable = errors.New("create_booking: slot is no longer available")

	// ErrConflictOnCommit is returned when the storage layer rejects the
	// commit after assignment succeeded locally: a concurrent commit won
	// the race. Callers handle it like ErrSlotUnavailable; it exists
	// separately so race frequency can be diagnosed.
	ErrConflictOnCommit = errors.New("create_booking: lost race committing the booking")

	// ErrInternal is returned on repository or infrastructure failures.
	ErrInternal = errors.New("create_booking: internal error")
)
