package update_booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gregp1985/gregorys-bistro/internal/domain"
	bookingRepo "github.com/gregp1985/gregorys-bistro/internal/infra/storage/booking"
	"github.com/gregp1985/gregorys-bistro/pkg/ptr"
	"github.com/gregp1985/gregorys-bistro/pkg/txmanager"
)

// UseCase reschedules an existing booking. The whole request is
// re-validated even when nothing changed, and the booking's own row is
// excluded from the availability read so a guest can always re-save
// their current slot.
type UseCase struct {
	bookingRepo     BookingRepository
	tableRepo       TableRepository
	hoursRepo       OpeningHoursRepository
	txManager       TransactionManager
	conflictMetrics ConflictMetrics
	loc             *time.Location
	timeProvider    TimeProvider
	logger          Logger
}

// NewUseCase creates the use case. conflictMetrics may be nil.
func NewUseCase(
	bookingRepo BookingRepository,
	tableRepo TableRepository,
	hoursRepo OpeningHoursRepository,
	txManager TransactionManager,
	conflictMetrics ConflictMetrics,
	loc *time.Location,
	logger Logger,
) *UseCase {
	return &UseCase{
		bookingRepo:     bookingRepo,
		tableRepo:       tableRepo,
		hoursRepo:       hoursRepo,
		txManager:       txManager,
		conflictMetrics: conflictMetrics,
		loc:             loc,
		timeProvider:    &RealTimeProvider{},
		logger:          logger,
	}
}

// Execute moves a booking to the requested slot.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("UpdateBooking: booking=%d, user=%d, date=%s, time=%s, party_size=%d",
		req.BookingID, req.UserID, req.Date.Format(domain.DateFormat), req.StartTime, req.PartySize)

	if err := validateRequest(req); err != nil {
		uc.logger.Warn("UpdateBooking: validation failed: %v", err)
		return nil, err
	}

	now := uc.timeProvider.Now().In(uc.loc)

	start, err := req.StartTime.Combine(req.Date, uc.loc)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if !start.After(now) {
		uc.logger.Warn("UpdateBooking: start %s is in the past", start)
		return nil, fmt.Errorf("%w: booking start is in the past", ErrInvalidInput)
	}
	end := start.Add(domain.SlotDuration)

	var (
		updated       *domain.Booking
		assignedTable *domain.Table
	)

	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		booking, err := uc.loadModifiable(txCtx, req, now)
		if err != nil {
			return err
		}

		if err := validateOpeningHours(txCtx, uc.hoursRepo, start, uc.loc); err != nil {
			uc.logger.Warn("UpdateBooking: opening hours validation failed: %v", err)
			return err
		}

		table, err := uc.assignTable(txCtx, start, end, req.PartySize, booking.ID)
		if err != nil {
			return err
		}

		booking.TableID = table.ID
		booking.PartySize = req.PartySize
		booking.StartTime = start
		booking.EndTime = end
		if req.Allergies != nil {
			booking.Allergies = req.Allergies
		}

		result, err := uc.bookingRepo.Update(txCtx, booking)
		if err != nil {
			switch {
			case errors.Is(err, bookingRepo.ErrTimeRangeConflict):
				return fmt.Errorf("%w: %v", ErrConflictOnCommit, err)
			case errors.Is(err, bookingRepo.ErrBookingNotFound):
				return fmt.Errorf("%w: booking %d", ErrBookingNotFound, req.BookingID)
			}
			uc.logger.Error("UpdateBooking: failed to update booking: %v", err)
			return fmt.Errorf("%w: failed to update booking: %v", ErrInternal, err)
		}

		updated = result
		assignedTable = table
		return nil
	})

	if err != nil {
		if errors.Is(err, txmanager.ErrSerialization) {
			err = fmt.Errorf("%w: %v", ErrConflictOnCommit, err)
		}
		if errors.Is(err, ErrConflictOnCommit) {
			uc.logger.Warn("UpdateBooking: conflict on commit for booking=%d, start=%s: %v",
				req.BookingID, start, err)
			if uc.conflictMetrics != nil {
				uc.conflictMetrics.IncBookingConflict("update")
			}
		}
		return nil, err
	}

	uc.logger.Info("UpdateBooking: booking id=%d moved to table=%d start=%s",
		updated.ID, assignedTable.Number, updated.StartTime)

	return toResponse(updated, assignedTable), nil
}

// loadModifiable fetches the booking and checks the caller may change it:
// owner or staff only, and only active bookings that have not started yet.
func (uc *UseCase) loadModifiable(ctx context.Context, req *Request, now time.Time) (*domain.Booking, error) {
	booking, err := uc.bookingRepo.GetByID(ctx, req.BookingID)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			return nil, fmt.Errorf("%w: booking %d", ErrBookingNotFound, req.BookingID)
		}
		uc.logger.Error("UpdateBooking: failed to get booking %d: %v", req.BookingID, err)
		return nil, fmt.Errorf("%w: failed to get booking: %v", ErrInternal, err)
	}

	if booking.UserID != req.UserID && !req.IsStaff {
		uc.logger.Warn("UpdateBooking: user=%d denied access to booking=%d", req.UserID, req.BookingID)
		return nil, fmt.Errorf("%w: booking %d belongs to another guest", ErrAccessDenied, req.BookingID)
	}

	if !booking.CanBeModified(now) {
		uc.logger.Warn("UpdateBooking: booking=%d is %s and starts %s, refusing edit",
			req.BookingID, booking.Status, booking.StartTime)
		return nil, fmt.Errorf("%w: booking %d is %s", ErrCannotModify, req.BookingID, booking.Status)
	}

	return booking, nil
}

// assignTable picks the smallest adequate free table for [start, end),
// ignoring the booking being edited so it can keep its current slot.
func (uc *UseCase) assignTable(
	ctx context.Context,
	start, end time.Time,
	partySize int,
	excludeBookingID int64,
) (*domain.Table, error) {
	tables, err := uc.tableRepo.FindWithCapacity(ctx, partySize)
	if err != nil {
		uc.logger.Error("UpdateBooking: failed to find tables: %v", err)
		return nil, fmt.Errorf("%w: failed to find tables: %v", ErrInternal, err)
	}
	if len(tables) == 0 {
		uc.logger.Warn("UpdateBooking: no table seats %d guests", partySize)
		return nil, ErrSlotUnavailable
	}

	bookings, err := uc.bookingRepo.GetWithFilter(ctx, domain.BookingsFilter{
		OverlapStart: ptr.Ptr(start),
		OverlapEnd:   ptr.Ptr(end),
		ExcludeID:    ptr.Ptr(excludeBookingID),
	})
	if err != nil {
		uc.logger.Error("UpdateBooking: failed to get overlapping bookings: %v", err)
		return nil, fmt.Errorf("%w: failed to get overlapping bookings: %v", ErrInternal, err)
	}

	for _, t := range tables {
		if tableIsFree(t.ID, start, end, bookings) {
			return t, nil
		}
	}

	uc.logger.Warn("UpdateBooking: no free table for start=%s, party_size=%d", start, partySize)
	return nil, ErrSlotUnavailable
}

func tableIsFree(tableID int64, start, end time.Time, bookings []*domain.Booking) bool {
	for _, b := range bookings {
		if !b.IsActive() || b.TableID != tableID {
			continue
		}
		if b.Overlaps(start, end) {
			return false
		}
	}
	return true
}
