package bookings

import "errors"

var (
	// ErrBookingNotFound is returned when no booking has the requested id.
	ErrBookingNotFound = errors.New("booking not found")

	// ErrAccessDenied is returned when the caller neither owns the
	// booking nor holds the staff role.
	ErrAccessDenied = errors.New("access denied")

	// ErrInvalidInput is returned for malformed requests.
	ErrInvalidInput = errors.New("invalid input data")

	// ErrInternal is returned on repository or infrastructure failures.
	ErrInternal = errors.New("internal error")
)
