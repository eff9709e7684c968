package openinghours

import "errors"

var (
	// ErrHoursNotFound is returned when no opening hours exist for a weekday.
	// Callers treat this as "closed all day", not as a failure.
	ErrHoursNotFound = errors.New("openinghours.repository: no opening hours for weekday")

	// ErrBuildQuery is returned when building the SQL query fails.
	ErrBuildQuery = errors.New("openinghours.repository: failed to build query")

	// ErrExecQuery is returned when executing the SQL query fails.
	ErrExecQuery = errors.New("openinghours.repository: failed to execute query")

	// ErrScanRow is returned when scanning a result row fails.
	ErrScanRow = errors.New("openinghours.repository: failed to scan row")
)
