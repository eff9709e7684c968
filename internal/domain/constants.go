package domain

import "time"

// Slot arithmetic constants. Every booking occupies exactly SlotDuration,
// and candidate start times are generated at SlotInterval steps.
const (
	SlotDuration = 90 * time.Minute
	SlotInterval = 15 * time.Minute
)

// Business validation constants
const (
	MinPartySize           = 1
	MaxPartySize           = 50
	MaxAllergiesLength     = 500
	MaxCancelReasonLength  = 500
	BookingReferenceLength = 8
)

// Time format constants
const (
	TimeFormat = "15:04"      // HH:MM
	DateFormat = "2006-01-02" // YYYY-MM-DD
)
