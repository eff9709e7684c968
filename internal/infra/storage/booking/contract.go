package booking

import (
	"github.com/gregp1985/gregorys-bistro/pkg/dbmetrics"
)

// Reuse the dbmetrics executor interfaces so the repository works over
// *sql.DB, *sql.Tx and the instrumented wrapper alike.
type DBExecutor = dbmetrics.DBExecutor
type TxExecutor = dbmetrics.TxExecutor
