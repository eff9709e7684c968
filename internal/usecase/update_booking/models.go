package update_booking

import (
	"time"

	"github.com/gregp1985/gregorys-bistro/internal/domain"
	"github.com/gregp1985/gregorys-bistro/pkg/types"
)

type Request struct {
	BookingID int64
	UserID    int64
	IsStaff   bool
	Date      time.Time
	StartTime types.TimeString
	PartySize int
	// Allergies left nil keeps the stored value.
	Allergies *string
}

type Response struct {
	ID          int64
	TableID     int64
	TableNumber int
	UserID      int64
	PartySize   int
	StartTime   time.Time
	EndTime     time.Time
	Status      domain.BookingStatus
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
		Status:      b.Status,
		Reference:   b.Reference,
		Allergies:   b.Allergies,
		CreatedAt:   b.CreatedAt,
		UpdatedAt:   b.UpdatedAt,
	}
}
