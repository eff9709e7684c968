package table

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/gregp1985/gregorys-bistro/internal/domain"
	"github.com/gregp1985/gregorys-bistro/pkg/dbmetrics"
	"github.com/gregp1985/gregorys-bistro/pkg/psqlbuilder"
)

// Repository reads the dining room tables. Tables are seeded by admin SQL
// and immutable at runtime.
type Repository struct {
	db dbmetrics.DBExecutor
}

// NewRepository creates a table repository.
func NewRepository(db dbmetrics.DBExecutor) *Repository {
	return &Repository{db: db}
}

// FindWithCapacity returns tables seating at least partySize guests,
// smallest first with ties broken by lowest id. This is the assignment
// order: the first free table in the result is the one a booking gets.
func (r *Repository) FindWithCapacity(ctx context.Context, partySize int) ([]*domain.Table, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("id", "number", "seats").
		From("tables").
		Where(squirrel.GtOrEq{"seats": partySize}).
		OrderBy("seats ASC", "id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: FindWithCapacity - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: FindWithCapacity - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return scanTables(rows)
}

// GetByID returns one table.
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Table, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("id", "number", "seats").
		From("tables").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	var t domain.Table
	err = executor.QueryRowContext(ctx, query, args...).Scan(&t.ID, &t.Number, &t.Seats)
	if err == sql.ErrNoRows {
		return nil, ErrTableNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan table: %v", ErrScanRow, err)
	}

	return &t, nil
}

// List returns every table, ordered by number.
func (r *Repository) List(ctx context.Context) ([]*domain.Table, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("id", "number", "seats").
		From("tables").
		OrderBy("number ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: List - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: List - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return scanTables(rows)
}

func scanTables(rows *sql.Rows) ([]*domain.Table, error) {
	tables := make([]*domain.Table, 0)
	for rows.Next() {
		var t domain.Table
		if err := rows.Scan(&t.ID, &t.Number, &t.Seats); err != nil {
			return nil, fmt.Errorf("%w: scanTables - scan row: %v", ErrScanRow, err)
		}
		tables = append(tables, &t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: scanTables - rows error: %v", ErrScanRow, err)
	}
	return tables, nil
}
