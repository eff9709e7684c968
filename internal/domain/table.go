package domain

import "fmt"

// Table represents a physical table in the dining room.
// Tables are seeded by the schema and treated as immutable at runtime.
type Table struct {
	ID     int64
	Number int
	Seats  int
}

// Fits returns true if the table seats at least partySize guests.
func (t *Table) Fits(partySize int) bool {
	return t.Seats >= partySize
}

// Label returns the human-readable name used on the staff calendar.
func (t *Table) Label() string {
	return fmt.Sprintf("Table %d", t.Number)
}
