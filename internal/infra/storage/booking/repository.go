package booking

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"github.com/gregp1985/gregorys-bistro/internal/domain"
	"github.com/gregp1985/gregorys-bistro/pkg/dbmetrics"
	"github.com/gregp1985/gregorys-bistro/pkg/psqlbuilder"
)

// PostgreSQL SQLSTATE codes the repository maps to sentinel errors.
const (
	pgExclusionViolation = "23P01"
	pgUniqueViolation    = "23505"
)

var bookingColumns = []string{
	"id",
	"table_id",
	"user_id",
	"party_size",
	"start_time",
	"status",
	"reference",
	"allergies",
	"cancellation_reason",
	"cancelled_at",
	"created_at",
	"updated_at",
}

// Repository persists bookings. The time_range column is always written as
// tstzrange(start_time, start_time + slot duration) and never accepted from
// callers; it exists so the exclusion constraint can enforce the
// no-double-booking invariant at the storage layer.
type Repository struct {
	db DBExecutor
}

// NewRepository creates a booking repository.
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create inserts a new active booking. The caller supplies StartTime and
// EndTime; the stored range is derived from them.
//
// Returns ErrTimeRangeConflict when the exclusion constraint rejects the
// write because another active booking holds the table for an overlapping
// range. Under the serializable commit protocol this means the caller lost
// a race after local checks passed.
func (r *Repository) Create(ctx context.Context, b *domain.Booking) (*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("bookings").
		Columns(
			"table_id",
			"user_id",
			"party_size",
			"start_time",
			"time_range",
			"status",
			"reference",
			"allergies",
		).
		Values(
			b.TableID,
			b.UserID,
			b.PartySize,
			b.StartTime,
			squirrel.Expr("tstzrange(?, ?, '[)')", b.StartTime, b.EndTime),
			b.Status,
			b.Reference,
			b.Allergies,
		).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&b.ID,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		if mapped := mapConstraintError(err); mapped != nil {
			return nil, mapped
		}
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	b.CreatedAt = createdAt.Time
	b.UpdatedAt = updatedAt.Time

	return b, nil
}

// Update rewrites the mutable fields of a booking in place, re-deriving the
// stored time range. The exclusion constraint re-checks the updated range,
// so the same conflict guard covers edits.
func (r *Repository) Update(ctx context.Context, b *domain.Booking) (*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("bookings").
		Set("table_id", b.TableID).
		Set("party_size", b.PartySize).
		Set("start_time", b.StartTime).
		Set("time_range", squirrel.Expr("tstzrange(?, ?, '[)')", b.StartTime, b.EndTime)).
		Set("allergies", b.Allergies).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": b.ID}).
		Suffix("RETURNING updated_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Update - build update query: %v", ErrBuildQuery, err)
	}

	var updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(&updatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrBookingNotFound
	}
	if err != nil {
		if mapped := mapConstraintError(err); mapped != nil {
			return nil, mapped
		}
		return nil, fmt.Errorf("%w: Update - execute update: %v", ErrExecQuery, err)
	}

	b.UpdatedAt = updatedAt.Time

	return b, nil
}

// GetByID returns one booking.
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(bookingColumns...).
		From("bookings").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	b, err := scanBooking(executor.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, ErrBookingNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan booking: %v", ErrScanRow, err)
	}

	return b, nil
}

// GetWithFilter returns bookings matching the filter.
//
// When both OverlapStart and OverlapEnd are set and the call runs inside a
// transaction, the matched rows are locked FOR UPDATE: the commit protocol
// reads the day's bookings this way before assigning a table.
func (r *Repository) GetWithFilter(ctx context.Context, filter domain.BookingsFilter) ([]*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(bookingColumns...).From("bookings")

	if filter.UserID != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"user_id": *filter.UserID})
	}

	overlapQuery := filter.OverlapStart != nil && filter.OverlapEnd != nil
	if overlapQuery {
		selectBuilder = selectBuilder.Where(
			squirrel.Expr("time_range && tstzrange(?, ?, '[)')", *filter.OverlapStart, *filter.OverlapEnd),
		)
	}

	if filter.StartsFrom != nil {
		selectBuilder = selectBuilder.Where(squirrel.GtOrEq{"start_time": *filter.StartsFrom})
	}
	if filter.StartsBefore != nil {
		selectBuilder = selectBuilder.Where(squirrel.Lt{"start_time": *filter.StartsBefore})
	}

	if filter.Status != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"status": *filter.Status})
	} else if !filter.IncludeCancelled {
		selectBuilder = selectBuilder.Where(squirrel.NotEq{"status": domain.StatusCancelled})
	}

	if filter.ExcludeID != nil {
		selectBuilder = selectBuilder.Where(squirrel.NotEq{"id": *filter.ExcludeID})
	}

	if overlapQuery || filter.StartsFrom != nil {
		selectBuilder = selectBuilder.OrderBy("start_time ASC")
	} else {
		selectBuilder = selectBuilder.OrderBy("start_time DESC")
	}

	if dbmetrics.IsInTransaction(ctx) && overlapQuery {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetWithFilter - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetWithFilter - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return scanBookings(rows)
}

// Cancel marks a booking cancelled with an optional reason. The status
// transition is terminal; idempotence is handled by the service, which
// checks the current status first.
func (r *Repository) Cancel(ctx context.Context, id int64, reason *string) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("bookings").
		Set("status", domain.StatusCancelled).
		Set("cancellation_reason", reason).
		Set("cancelled_at", squirrel.Expr("NOW()")).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: Cancel - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: Cancel - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: Cancel - get rows affected: %v", ErrExecQuery, err)
	}
	if rowsAffected == 0 {
		return ErrBookingNotFound
	}

	return nil
}

// mapConstraintError translates constraint violations into sentinel errors.
// Returns nil for errors that are not recognised constraint violations.
func mapConstraintError(err error) error {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return nil
	}
	switch string(pqErr.Code) {
	case pgExclusionViolation:
		return fmt.Errorf("%w: %v", ErrTimeRangeConflict, pqErr.Message)
	case pgUniqueViolation:
		if pqErr.Constraint == "bookings_reference_key" {
			return fmt.Errorf("%w: %v", ErrDuplicateReference, pqErr.Message)
		}
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanBooking(row rowScanner) (*domain.Booking, error) {
	var b domain.Booking
	var createdAt, updatedAt sql.NullTime

	err := row.Scan(
		&b.ID,
		&b.TableID,
		&b.UserID,
		&b.PartySize,
		&b.StartTime,
		&b.Status,
		&b.Reference,
		&b.Allergies,
		&b.CancellationReason,
		&b.CancelledAt,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	b.EndTime = b.StartTime.Add(domain.SlotDuration)
	b.CreatedAt = createdAt.Time
	b.UpdatedAt = updatedAt.Time

	return &b, nil
}

func scanBookings(rows *sql.Rows) ([]*domain.Booking, error) {
	bookings := make([]*domain.Booking, 0)
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: scanBookings - scan row: %v", ErrScanRow, err)
		}
		bookings = append(bookings, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: scanBookings - rows error: %v", ErrScanRow, err)
	}
	return bookings, nil
}
