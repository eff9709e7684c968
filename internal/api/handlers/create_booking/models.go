package create_booking

import (
	"time"

	"github.com/gregp1985/gregorys-bistro/internal/domain"
	createBooking "github.com/gregp1985/gregorys-bistro/internal/usecase/create_booking"
	"github.com/gregp1985/gregorys-bistro/pkg/types"
)

// CreateBookingRequest HTTP request model
type CreateBookingRequest struct {
	Date      string  `json:"date"`      // "2026-03-14"
	StartTime string  `json:"startTime"` // "18:45"
	PartySize int     `json:"partySize"`
	Allergies *string `json:"allergies,omitempty"`
}

// BookingResponse HTTP response model
type BookingResponse struct {
	ID          int64   `json:"id"`
	TableID     int64   `json:"tableId"`
	TableNumber int     `json:"tableNumber"`
	UserID      int64   `json:"userId"`
	PartySize   int     `json:"partySize"`
	Date        string  `json:"date"`
	StartTime   string  `json:"startTime"` // RFC 3339
	EndTime     string  `json:"endTime"`   // RFC 3339
	Status      string  `json:"status"`
	Reference   string  `json:"reference"`
	Allergies   *string `json:"allergies,omitempty"`
	CreatedAt   string  `json:"createdAt"`
	UpdatedAt   string  `json:"updatedAt"`
}

// ToUseCaseRequest parses the date and time fields and attaches the
// authenticated caller.
func (r *CreateBookingRequest) ToUseCaseRequest(userID int64) (*createBooking.Request, error) {
	date, err := time.Parse(domain.DateFormat, r.Date)
	if err != nil {
		return nil, err
	}

	startTime, err := types.NewTimeStringFromString(r.StartTime)
	if err != nil {
		return nil, err
	}

	return &createBooking.Request{
		UserID:    userID,
		Date:      date,
		StartTime: startTime,
		PartySize: r.PartySize,
		Allergies: r.Allergies,
	}, nil
}

func FromUseCaseResponse(resp *createBooking.Response) *BookingResponse {
	return &BookingResponse{
		ID:          resp.ID,
		TableID:     resp.TableID,
		TableNumber: resp.TableNumber,
		UserID:      resp.UserID,
		PartySize:   resp.PartySize,
		Date:        resp.StartTime.Format(domain.DateFormat),
		StartTime:   resp.StartTime.Format(time.RFC3339),
		EndTime:     resp.EndTime.Format(time.RFC3339),
		Status:      resp.Status,
		Reference:   resp.Reference,
		Allergies:   resp.Allergies,
		CreatedAt:   resp.CreatedAt.Format(time.RFC3339),
		UpdatedAt:   resp.UpdatedAt.Format(time.RFC3339),
	}
}
