package openinghours

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/gregp1985/gregorys-bistro/internal/domain"
	"github.com/gregp1985/gregorys-bistro/pkg/dbmetrics"
	"github.com/gregp1985/gregorys-bistro/pkg/psqlbuilder"
)

// Repository reads the per-weekday opening hours. Pure lookup; the table is
// maintained by admin SQL and never written by the service.
type Repository struct {
	db dbmetrics.DBExecutor
}

// NewRepository creates an opening hours repository.
func NewRepository(db dbmetrics.DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetByWeekday returns the opening hours for one weekday.
// Returns ErrHoursNotFound when the restaurant is closed that day.
func (r *Repository) GetByWeekday(ctx context.Context, weekday time.Weekday) (*domain.OpeningHours, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("id", "weekday", "open_time", "close_time").
		From("opening_hours").
		Where(squirrel.Eq{"weekday": int(weekday)}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByWeekday - build select query: %v", ErrBuildQuery, err)
	}

	var hours domain.OpeningHours
	var weekdayInt int
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&hours.ID,
		&weekdayInt,
		&hours.OpenTime,
		&hours.CloseTime,
	)
	if err == sql.ErrNoRows {
		return nil, ErrHoursNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByWeekday - scan opening hours: %v", ErrScanRow, err)
	}

	hours.Weekday = time.Weekday(weekdayInt)
	return &hours, nil
}

// GetAll returns every configured weekday, ordered Sunday first.
func (r *Repository) GetAll(ctx context.Context) ([]*domain.OpeningHours, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("id", "weekday", "open_time", "close_time").
		From("opening_hours").
		OrderBy("weekday ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetAll - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetAll - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	result := make([]*domain.OpeningHours, 0)
	for rows.Next() {
		var hours domain.OpeningHours
		var weekdayInt int
		if err := rows.Scan(&hours.ID, &weekdayInt, &hours.OpenTime, &hours.CloseTime); err != nil {
			return nil, fmt.Errorf("%w: GetAll - scan row: %v", ErrScanRow, err)
		}
		hours.Weekday = time.Weekday(weekdayInt)
		result = append(result, &hours)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: GetAll - rows error: %v", ErrScanRow, err)
	}

	return result, nil
}
