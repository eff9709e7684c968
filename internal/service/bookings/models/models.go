package models

import (
	"errors"
	"fmt"
	"time"

	"github.com/gregp1985/gregorys-bistro/internal/domain"
)

var ErrInvalidScope = errors.New("invalid bookings scope")

// Listing scopes for a guest's booking history.
const (
	ScopeUpcoming = "upcoming"
	ScopePast     = "past"
	ScopeAll      = "all"
)

// Request models

type GetUserBookingsRequest struct {
	UserID int64
	// Scope is one of upcoming, past or all; empty defaults to upcoming.
	Scope string
}

// Validate normalises the scope, rejecting unknown values.
func (r *GetUserBookingsRequest) Validate() error {
	switch r.Scope {
	case "":
		r.Scope = ScopeUpcoming
	case ScopeUpcoming, ScopePast, ScopeAll:
	default:
		return fmt.Errorf("%w: %q", ErrInvalidScope, r.Scope)
	}
	return nil
}

type CancelBookingRequest struct {
	UserID  int64
	IsStaff bool
	Reason  *string
}

type CalendarEventsRequest struct {
	Start time.Time
	End   time.Time
	// Status filters events; empty means active bookings only.
	Status *string
}

// Response models

type BookingResponse struct {
	ID                 int64   `json:"id"`
	TableID            int64   `json:"tableId"`
	TableNumber        int     `json:"tableNumber"`
	UserID             int64   `json:"userId"`
	PartySize          int     `json:"partySize"`
	Date               string  `json:"date"`      // "2026-03-14"
	StartTime          string  `json:"startTime"` // RFC 3339
	EndTime            string  `json:"endTime"`   // RFC 3339
	Status             string  `json:"status"`
	Reference          string  `json:"reference"`
	Allergies          *string `json:"allergies,omitempty"`
	CancellationReason *string `json:"cancellationReason,omitempty"`
	CancelledAt        *string `json:"cancelledAt,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type BookingListResponse struct {
	Bookings []BookingResponse `json:"bookings"`
}

// CalendarEvent matches the shape the staff calendar widget consumes.
type CalendarEvent struct {
	ID            int64              `json:"id"`
	Title         string             `json:"title"`
	Start         string             `json:"start"` // RFC 3339
	End           string             `json:"end"`   // RFC 3339
	ExtendedProps CalendarEventProps `json:"extendedProps"`
}

type CalendarEventProps struct {
	Reference string  `json:"reference"`
	Status    string  `json:"status"`
	Allergies *string `json:"allergies,omitempty"`
}

type CalendarEventsResponse struct {
	Events []CalendarEvent `json:"events"`
}

type OpeningHoursItem struct {
	Weekday     int    `json:"weekday"`
	WeekdayName string `json:"weekdayName"`
	OpenTime    string `json:"openTime"`  // "11:00"
	CloseTime   string `json:"closeTime"` // "23:00"
}

type OpeningHoursResponse struct {
	Days []OpeningHoursItem `json:"days"`
}

// Conversion helpers

func FromDomainBooking(b *domain.Booking, loc *time.Location, tables map[int64]*domain.Table) *BookingResponse {
	if b == nil {
		return nil
	}

	resp := &BookingResponse{
		ID:                 b.ID,
		TableID:            b.TableID,
		UserID:             b.UserID,
		PartySize:          b.PartySize,
		Date:               b.StartTime.In(loc).Format(domain.DateFormat),
		StartTime:          b.StartTime.In(loc).Format(time.RFC3339),
		EndTime:            b.EndTime.In(loc).Format(time.RFC3339),
		Status:             string(b.Status),
		Reference:          b.Reference,
		Allergies:          b.Allergies,
		CancellationReason: b.CancellationReason,
		CreatedAt:          b.CreatedAt,
		UpdatedAt:          b.UpdatedAt,
	}

	if t, ok := tables[b.TableID]; ok {
		resp.TableNumber = t.Number
	}

	if b.CancelledAt != nil {
		cancelledStr := b.CancelledAt.In(loc).Format(time.RFC3339)
		resp.CancelledAt = &cancelledStr
	}

	return resp
}

func FromDomainBookingList(bookings []*domain.Booking, loc *time.Location, tables map[int64]*domain.Table) *BookingListResponse {
	resp := &BookingListResponse{
		Bookings: make([]BookingResponse, 0, len(bookings)),
	}

	for _, booking := range bookings {
		if bookingResp := FromDomainBooking(booking, loc, tables); bookingResp != nil {
			resp.Bookings = append(resp.Bookings, *bookingResp)
		}
	}

	return resp
}

func FromDomainOpeningHours(hours []*domain.OpeningHours) *OpeningHoursResponse {
	resp := &OpeningHoursResponse{
		Days: make([]OpeningHoursItem, 0, len(hours)),
	}

	for _, h := range hours {
		resp.Days = append(resp.Days, OpeningHoursItem{
			Weekday:     int(h.Weekday),
			WeekdayName: h.Weekday.String(),
			OpenTime:    h.OpenTime.String(),
			CloseTime:   h.CloseTime.String(),
		})
	}

	return resp
}
