package bookings

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gregp1985/gregorys-bistro/internal/domain"
	bookingRepo "github.com/gregp1985/gregorys-bistro/internal/infra/storage/booking"
	"github.com/gregp1985/gregorys-bistro/internal/integrations/notify"
	"github.com/gregp1985/gregorys-bistro/internal/service/bookings/models"
	"github.com/gregp1985/gregorys-bistro/pkg/ptr"
)

// Service handles reads, listings and cancellation of bookings. Creating
// and rescheduling live in their own use cases because they carry the
// transactional commit protocol; everything here is a plain read or a
// single-row status change.
type Service struct {
	bookingRepo  BookingRepository
	tableRepo    TableRepository
	hoursRepo    OpeningHoursRepository
	notifier     Notifier
	loc          *time.Location
	timeProvider TimeProvider
	logger       Logger
}

func NewService(
	bookingRepo BookingRepository,
	tableRepo TableRepository,
	hoursRepo OpeningHoursRepository,
	notifier Notifier,
	loc *time.Location,
	logger Logger,
) *Service {
	return &Service{
		bookingRepo:  bookingRepo,
		tableRepo:    tableRepo,
		hoursRepo:    hoursRepo,
		notifier:     notifier,
		loc:          loc,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// GetByID fetches a booking. Guests see only their own bookings; staff
// see everything.
func (s *Service) GetByID(ctx context.Context, id int64, userID int64, isStaff bool) (*models.BookingResponse, error) {
	s.logger.Info("GetByID: fetching booking id=%d for user=%d", id, userID)

	booking, err := s.bookingRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			s.logger.Warn("GetByID: booking id=%d not found", id)
			return nil, ErrBookingNotFound
		}
		s.logger.Error("GetByID: repository error for booking id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: GetByID - repository error: %v", ErrInternal, err)
	}

	if booking.UserID != userID && !isStaff {
		s.logger.Warn("GetByID: access denied for user=%d to booking id=%d", userID, id)
		return nil, ErrAccessDenied
	}

	tables, err := s.tableMap(ctx)
	if err != nil {
		return nil, err
	}

	return models.FromDomainBooking(booking, s.loc, tables), nil
}

// GetUserBookings lists a guest's bookings. Upcoming bookings come
// soonest first, past ones most recent first; cancelled bookings are
// included in every scope so the history stays complete.
func (s *Service) GetUserBookings(ctx context.Context, req *models.GetUserBookingsRequest) (*models.BookingListResponse, error) {
	s.logger.Info("GetUserBookings: fetching bookings for user=%d, scope=%s", req.UserID, req.Scope)

	if err := req.Validate(); err != nil {
		s.logger.Warn("GetUserBookings: invalid request for user=%d: %v", req.UserID, err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	now := s.timeProvider.Now()
	filter := domain.BookingsFilter{
		UserID:           ptr.Ptr(req.UserID),
		IncludeCancelled: true,
	}
	switch req.Scope {
	case models.ScopeUpcoming:
		filter.StartsFrom = ptr.Ptr(now)
	case models.ScopePast:
		filter.StartsBefore = ptr.Ptr(now)
	}

	bookings, err := s.bookingRepo.GetWithFilter(ctx, filter)
	if err != nil {
		s.logger.Error("GetUserBookings: repository error for user=%d: %v", req.UserID, err)
		return nil, fmt.Errorf("%w: GetUserBookings - repository error: %v", ErrInternal, err)
	}

	tables, err := s.tableMap(ctx)
	if err != nil {
		return nil, err
	}

	s.logger.Info("GetUserBookings: fetched %d bookings for user=%d", len(bookings), req.UserID)
	return models.FromDomainBookingList(bookings, s.loc, tables), nil
}

// Cancel cancels a booking and notifies the guest. Cancelling an
// already-cancelled booking is a no-op: same outcome, no second notice.
func (s *Service) Cancel(ctx context.Context, bookingID int64, req *models.CancelBookingRequest) error {
	s.logger.Info("Cancel: cancelling booking id=%d by user=%d", bookingID, req.UserID)

	if req.Reason != nil && len(*req.Reason) > domain.MaxCancelReasonLength {
		return fmt.Errorf("%w: cancellation reason must not exceed %d characters",
			ErrInvalidInput, domain.MaxCancelReasonLength)
	}

	booking, err := s.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			s.logger.Warn("Cancel: booking id=%d not found", bookingID)
			return ErrBookingNotFound
		}
		s.logger.Error("Cancel: repository error for booking id=%d: %v", bookingID, err)
		return fmt.Errorf("%w: Cancel - repository error: %v", ErrInternal, err)
	}

	if booking.UserID != req.UserID && !req.IsStaff {
		s.logger.Warn("Cancel: access denied for user=%d to booking id=%d", req.UserID, bookingID)
		return ErrAccessDenied
	}

	if booking.IsCancelled() {
		s.logger.Info("Cancel: booking id=%d already cancelled, nothing to do", bookingID)
		return nil
	}

	if err := s.bookingRepo.Cancel(ctx, bookingID, req.Reason); err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			s.logger.Warn("Cancel: booking id=%d not found during cancellation", bookingID)
			return ErrBookingNotFound
		}
		s.logger.Error("Cancel: repository error for booking id=%d: %v", bookingID, err)
		return fmt.Errorf("%w: Cancel - repository error: %v", ErrInternal, err)
	}

	s.sendCancellationNotice(booking, req.Reason)

	s.logger.Info("Cancel: successfully cancelled booking id=%d", bookingID)
	return nil
}

// GetCalendarEvents returns bookings overlapping [start, end) in the
// shape the staff calendar renders. Cancelled bookings are hidden unless
// asked for.
func (s *Service) GetCalendarEvents(ctx context.Context, req *models.CalendarEventsRequest) (*models.CalendarEventsResponse, error) {
	s.logger.Info("GetCalendarEvents: window %s to %s", req.Start, req.End)

	if req.Start.IsZero() || req.End.IsZero() || !req.Start.Before(req.End) {
		return nil, fmt.Errorf("%w: calendar window must satisfy start < end", ErrInvalidInput)
	}

	filter := domain.BookingsFilter{
		OverlapStart: ptr.Ptr(req.Start),
		OverlapEnd:   ptr.Ptr(req.End),
	}
	if req.Status != nil {
		switch *req.Status {
		case "active":
			// Default behaviour.
		case "cancelled":
			filter.Status = ptr.Ptr(domain.StatusCancelled)
			filter.IncludeCancelled = true
		case "all":
			filter.IncludeCancelled = true
		default:
			return nil, fmt.Errorf("%w: unknown status %q", ErrInvalidInput, *req.Status)
		}
	}

	bookings, err := s.bookingRepo.GetWithFilter(ctx, filter)
	if err != nil {
		s.logger.Error("GetCalendarEvents: repository error: %v", err)
		return nil, fmt.Errorf("%w: GetCalendarEvents - repository error: %v", ErrInternal, err)
	}

	tables, err := s.tableMap(ctx)
	if err != nil {
		return nil, err
	}

	resp := &models.CalendarEventsResponse{
		Events: make([]models.CalendarEvent, 0, len(bookings)),
	}
	for _, b := range bookings {
		title := fmt.Sprintf("Guest %d (party of %d)", b.UserID, b.PartySize)
		if t, ok := tables[b.TableID]; ok {
			title = fmt.Sprintf("%s: Guest %d (party of %d)", t.Label(), b.UserID, b.PartySize)
		}
		resp.Events = append(resp.Events, models.CalendarEvent{
			ID:    b.ID,
			Title: title,
			Start: b.StartTime.In(s.loc).Format(time.RFC3339),
			End:   b.EndTime.In(s.loc).Format(time.RFC3339),
			ExtendedProps: models.CalendarEventProps{
				Reference: b.Reference,
				Status:    string(b.Status),
				Allergies: b.Allergies,
			},
		})
	}

	s.logger.Info("GetCalendarEvents: %d events in window", len(resp.Events))
	return resp, nil
}

// GetOpeningHours lists the weekly schedule. Days without a row are
// closed and simply absent from the response.
func (s *Service) GetOpeningHours(ctx context.Context) (*models.OpeningHoursResponse, error) {
	hours, err := s.hoursRepo.GetAll(ctx)
	if err != nil {
		s.logger.Error("GetOpeningHours: repository error: %v", err)
		return nil, fmt.Errorf("%w: GetOpeningHours - repository error: %v", ErrInternal, err)
	}

	return models.FromDomainOpeningHours(hours), nil
}

// sendCancellationNotice delivers the notice in the background. The
// cancellation is already committed, so delivery failure only gets
// logged.
func (s *Service) sendCancellationNotice(booking *domain.Booking, reason *string) {
	if s.notifier == nil {
		return
	}

	notice := notify.CancellationNotice{
		UserID:    booking.UserID,
		Reference: booking.Reference,
		Reason:    reason,
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := s.notifier.SendCancellation(ctx, notice); err != nil {
			s.logger.Error("Cancel: failed to send cancellation notice for booking reference=%s: %v",
				booking.Reference, err)
		}
	}()
}

func (s *Service) tableMap(ctx context.Context) (map[int64]*domain.Table, error) {
	tables, err := s.tableRepo.List(ctx)
	if err != nil {
		s.logger.Error("tableMap: failed to list tables: %v", err)
		return nil, fmt.Errorf("%w: failed to list tables: %v", ErrInternal, err)
	}

	byID := make(map[int64]*domain.Table, len(tables))
	for _, t := range tables {
		byID[t.ID] = t
	}
	return byID, nil
}
