package table

import "errors"

var (
	// ErrTableNotFound is returned when a table does not exist.
	ErrTableNotFound = errors.New("table.repository: table not found")

	// ErrBuildQuery is returned when building the SQL query fails.
	ErrBuildQuery = errors.New("table.repository: failed to build query")

	// ErrExecQuery is returned when executing the SQL query fails.
	ErrExecQuery = errors.New("table.repository: failed to execute query")

	// ErrScanRow is returned when scanning a result row fails.
	ErrScanRow = errors.New("table.repository: failed to scan row")
)
