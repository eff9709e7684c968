package get_available_slots

import "time"

// Request asks for the bookable slots on one date.
type Request struct {
	UserID    int64     // authenticated caller
	IsStaff   bool      // staff may exclude bookings they do not own
	Date      time.Time // date to query (no time component)
	PartySize int       // number of guests

	// ExcludeBookingID makes availability ignore one booking: the edit flow
	// passes the booking being modified here so its own slot stays visible.
	ExcludeBookingID *int64
}

// Response carries the ordered candidate slots for the date.
type Response struct {
	Date  time.Time
	Slots []Slot
}

// Slot is one bookable candidate start time.
type Slot struct {
	StartTime time.Time
	Label     string // "HH:MM" in the operating timezone
}
