package migrate

import (
	"context"
	"database/sql"
	"fmt"
)

// schemaSQL creates the booking schema. The exclusion constraint on
// (table_id, time_range) for active bookings is the storage-level conflict
// guard: it is the only mechanism the commit protocol relies on to prevent
// double-booking a table under concurrent commits.
//
// Weekdays use Go's time.Weekday numbering (Sunday = 0).
const schemaSQL = `
CREATE EXTENSION IF NOT EXISTS btree_gist;

CREATE TABLE IF NOT EXISTS opening_hours (
	id BIGSERIAL PRIMARY KEY,
	weekday SMALLINT NOT NULL UNIQUE CHECK (weekday BETWEEN 0 AND 6),
	open_time TIME NOT NULL,
	close_time TIME NOT NULL,
	CHECK (open_time < close_time)
);

CREATE TABLE IF NOT EXISTS tables (
	id BIGSERIAL PRIMARY KEY,
	number INTEGER NOT NULL UNIQUE,
	seats INTEGER NOT NULL CHECK (seats > 0)
);

CREATE TABLE IF NOT EXISTS bookings (
	id BIGSERIAL PRIMARY KEY,
	table_id BIGINT NOT NULL REFERENCES tables(id),
	user_id BIGINT NOT NULL,
	party_size INTEGER NOT NULL CHECK (party_size > 0),
	start_time TIMESTAMPTZ NOT NULL,
	time_range TSTZRANGE NOT NULL,
	status TEXT NOT NULL DEFAULT 'active',
	reference VARCHAR(20) NOT NULL UNIQUE,
	allergies TEXT,
	cancellation_reason TEXT,
	cancelled_at TIMESTAMPTZ,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	CONSTRAINT prevent_table_double_booking EXCLUDE USING gist (
		table_id WITH =,
		time_range WITH &&
	) WHERE (status = 'active')
);

CREATE INDEX IF NOT EXISTS idx_bookings_user_id ON bookings (user_id);
CREATE INDEX IF NOT EXISTS idx_bookings_time_range ON bookings USING gist (time_range);
`

// Run applies the schema. Statements are idempotent, so Run is safe to call
// on every startup.
func Run(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, schemaSQL); err != nil {
		return fmt.Errorf("migrate: apply schema: %w", err)
	}
	return nil
}
