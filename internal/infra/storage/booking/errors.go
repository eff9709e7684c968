package booking

import "errors"

var (
	// ErrBookingNotFound is returned when a booking does not exist.
	ErrBookingNotFound = errors.New("booking.repository: booking not found")

	// ErrTimeRangeConflict is returned when the exclusion constraint rejects
	// a write that would double-book a table for overlapping time ranges.
	// This is the conflict guard firing after a lost race.
	ErrTimeRangeConflict = errors.New("booking.repository: table already booked for overlapping time range")

	// ErrDuplicateReference is returned when the generated reference code
	// collides with an existing one.
	ErrDuplicateReference = errors.New("booking.repository: duplicate booking reference")

	// ErrBuildQuery is returned when building the SQL query fails.
	ErrBuildQuery = errors.New("booking.repository: failed to build query")

	// ErrExecQuery is returned when executing the SQL query fails.
	ErrExecQuery = errors.New("booking.repository: failed to execute query")

	// ErrScanRow is returned when scanning a result row fails.
	ErrScanRow = errors.New("booking.repository: failed to scan row")
)
