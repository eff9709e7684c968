package create_booking

import (
	"time"

	"github.com/gregp1985/gregorys-bistro/internal/domain"
	"github.com/gregp1985/gregorys-bistro/pkg/types"
)

// Request asks to book a table.
type Request struct {
	UserID    int64            // authenticated holder
	Date      time.Time        // booking date (no time component)
	StartTime types.TimeString // slot start, e.g. "13:00"
	PartySize int              // number of guests
	Allergies *string          // optional notes for the kitchen
}

// Response carries the committed booking.
type Response struct {
	ID          int64
	TableID     int64
	TableNumber int
	UserID      int64
	PartySize   int
	StartTime   time.Time
	EndTime     time.Time
	Status      string
	Reference   string
	Allergies   *string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func toResponse(b *domain.Booking, t *domain.Table) *Response {
	return &Response{
		ID:          b.ID,
		TableID:     b.TableID,
		TableNumber: t.Number,
		UserID:      b.UserID,
		PartySize:   b.PartySize,
		StartTime:   b.StartTime,
		EndTime:     b.EndTime,
		Status:      string(b.Status),
		Reference:   b.Reference,
		Allergies:   b.Allergies,
		CreatedAt:   b.CreatedAt,
		UpdatedAt:   b.UpdatedAt,
	}
}
