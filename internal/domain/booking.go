package domain

import "time"

// BookingStatus represents the status of a booking
type BookingStatus string

const (
	StatusActive    BookingStatus = "active"
	StatusCancelled BookingStatus = "cancelled"
)

// Booking represents a table reservation in the system.
// EndTime is always StartTime + SlotDuration; the repository derives the
// stored time_range from it and never accepts one from callers.
type Booking struct {
	ID        int64
	TableID   int64
	UserID    int64
	PartySize int
	StartTime time.Time
	EndTime   time.Time
	Status    BookingStatus

	// Reference is a short unique code handed to the guest at creation.
	Reference string

	Allergies *string

	CancellationReason *string
	CancelledAt        *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsActive returns true if the booking still occupies its table.
func (b *Booking) IsActive() bool {
	return b.Status == StatusActive
}

// IsCancelled returns true if the booking has been cancelled.
func (b *Booking) IsCancelled() bool {
	return b.Status == StatusCancelled
}

// CanBeModified returns true if the booking can still be edited by its
// holder: it must be active and its slot must not have started yet.
func (b *Booking) CanBeModified(now time.Time) bool {
	return b.Status == StatusActive && b.StartTime.After(now)
}

// Overlaps reports whether the booking's time range shares at least one
// instant with [start, end) under half-open interval semantics. Adjacent
// ranges that touch at a boundary do not overlap.
func (b *Booking) Overlaps(start, end time.Time) bool {
	return b.StartTime.Before(end) && b.EndTime.After(start)
}

// BookingsFilter narrows booking queries.
type BookingsFilter struct {
	UserID *int64 // only this holder's bookings

	// OverlapStart/OverlapEnd select bookings whose time range intersects
	// the half-open window [OverlapStart, OverlapEnd). Used by the
	// availability resolver and the commit protocol.
	OverlapStart *time.Time
	OverlapEnd   *time.Time

	StartsFrom   *time.Time // start_time >= StartsFrom
	StartsBefore *time.Time // start_time < StartsBefore

	Status           *BookingStatus // only this status
	IncludeCancelled bool           // keep cancelled bookings in the result
	ExcludeID        *int64         // drop one booking, used by the edit flow
}
