package get_available_slots

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gregp1985/gregorys-bistro/internal/domain"
	bookingRepo "github.com/gregp1985/gregorys-bistro/internal/infra/storage/booking"
	hoursRepo "github.com/gregp1985/gregorys-bistro/internal/infra/storage/openinghours"
	"github.com/gregp1985/gregorys-bistro/pkg/ptr"
)

// UseCase computes the bookable slots for a date and party size.
type UseCase struct {
	bookingRepo  BookingRepository
	tableRepo    TableRepository
	hoursRepo    OpeningHoursRepository
	loc          *time.Location
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase creates the use case. loc is the restaurant's operating
// timezone; all slot arithmetic happens in it.
func NewUseCase(
	bookingRepo BookingRepository,
	tableRepo TableRepository,
	hoursRepo OpeningHoursRepository,
	loc *time.Location,
	logger Logger,
) *UseCase {
	return &UseCase{
		bookingRepo:  bookingRepo,
		tableRepo:    tableRepo,
		hoursRepo:    hoursRepo,
		loc:          loc,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// Execute returns the available slots in ascending time order.
//
// Invalid input (zero date, past date, non-positive party size) resolves to
// an empty slot list rather than an error: browsing availability must never
// fail on bad query parameters. Only infrastructure failures return an error.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("GetAvailableSlots: user=%d, date=%s, party_size=%d",
		req.UserID, req.Date.Format(domain.DateFormat), req.PartySize)

	now := uc.timeProvider.Now().In(uc.loc)

	if reason := rejectRequest(req, now); reason != "" {
		uc.logger.Warn("GetAvailableSlots: %s, resolving to no slots", reason)
		return emptyResponse(req.Date), nil
	}

	// Closed day: no opening hours record means zero availability.
	hours, err := uc.hoursRepo.GetByWeekday(ctx, req.Date.Weekday())
	if err != nil {
		if errors.Is(err, hoursRepo.ErrHoursNotFound) {
			uc.logger.Info("GetAvailableSlots: closed on %s", req.Date.Weekday())
			return emptyResponse(req.Date), nil
		}
		uc.logger.Error("GetAvailableSlots: failed to get opening hours: %v", err)
		return nil, fmt.Errorf("%w: failed to get opening hours: %v", ErrInternal, err)
	}

	tables, err := uc.tableRepo.FindWithCapacity(ctx, req.PartySize)
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to find tables: %v", err)
		return nil, fmt.Errorf("%w: failed to find tables: %v", ErrInternal, err)
	}
	if len(tables) == 0 {
		uc.logger.Info("GetAvailableSlots: no table seats %d guests", req.PartySize)
		return emptyResponse(req.Date), nil
	}

	candidates, err := generateCandidates(hours, req.Date, now, uc.loc)
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to generate candidates: %v", err)
		return nil, fmt.Errorf("%w: failed to generate candidates: %v", ErrInternal, err)
	}
	if len(candidates) == 0 {
		return emptyResponse(req.Date), nil
	}

	excludeID, err := uc.resolveExclusion(ctx, req)
	if err != nil {
		return nil, err
	}

	// One query covers every candidate: any active booking overlapping the
	// day's opening window.
	open, close, err := hours.Window(req.Date, uc.loc)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to compute opening window: %v", ErrInternal, err)
	}

	bookings, err := uc.bookingRepo.GetWithFilter(ctx, domain.BookingsFilter{
		OverlapStart: ptr.Ptr(open),
		OverlapEnd:   ptr.Ptr(close),
		ExcludeID:    excludeID,
	})
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to get bookings: %v", err)
		return nil, fmt.Errorf("%w: failed to get bookings: %v", ErrInternal, err)
	}

	slots := make([]Slot, 0, len(candidates))
	for _, candidate := range candidates {
		if hasEligibleTable(candidate, tables, bookings) {
			slots = append(slots, Slot{
				StartTime: candidate,
				Label:     candidate.Format(domain.TimeFormat),
			})
		}
	}

	uc.logger.Info("GetAvailableSlots: %d of %d candidates available for date=%s, party_size=%d",
		len(slots), len(candidates), req.Date.Format(domain.DateFormat), req.PartySize)

	return &Response{Date: req.Date, Slots: slots}, nil
}

// resolveExclusion validates the optional exclude parameter. The exclusion
// is honored only when the booking exists and belongs to the caller (or the
// caller is staff); otherwise it is silently ignored, so a guest cannot
// free up slots held by someone else's booking.
func (uc *UseCase) resolveExclusion(ctx context.Context, req *Request) (*int64, error) {
	if req.ExcludeBookingID == nil {
		return nil, nil
	}

	b, err := uc.bookingRepo.GetByID(ctx, *req.ExcludeBookingID)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			uc.logger.Warn("GetAvailableSlots: exclude booking id=%d not found, ignoring", *req.ExcludeBookingID)
			return nil, nil
		}
		uc.logger.Error("GetAvailableSlots: failed to get exclude booking id=%d: %v", *req.ExcludeBookingID, err)
		return nil, fmt.Errorf("%w: failed to get exclude booking: %v", ErrInternal, err)
	}

	if b.UserID != req.UserID && !req.IsStaff {
		uc.logger.Warn("GetAvailableSlots: user=%d does not own exclude booking id=%d, ignoring",
			req.UserID, *req.ExcludeBookingID)
		return nil, nil
	}

	return req.ExcludeBookingID, nil
}

// rejectRequest returns a non-empty reason when the request cannot yield
// slots. Callers resolve these to an empty slot list, not an error.
func rejectRequest(req *Request, now time.Time) string {
	if req.Date.IsZero() {
		return "date is required"
	}
	if isDateInPast(req.Date, now) {
		return "date is in the past"
	}
	if req.PartySize < domain.MinPartySize || req.PartySize > domain.MaxPartySize {
		return fmt.Sprintf("party size %d out of range", req.PartySize)
	}
	return ""
}

func emptyResponse(date time.Time) *Response {
	return &Response{Date: date, Slots: []Slot{}}
}
