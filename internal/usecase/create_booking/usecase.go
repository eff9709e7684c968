package create_booking

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/gregp1985/gregorys-bistro/internal/domain"
	bookingRepo "github.com/gregp1985/gregorys-bistro/internal/infra/storage/booking"
	"github.com/gregp1985/gregorys-bistro/pkg/ptr"
	"github.com/gregp1985/gregorys-bistro/pkg/txmanager"
)

// UseCase books a table. The commit protocol runs inside a SERIALIZABLE
// transaction and re-assigns the table at commit time rather than trusting
// the slot the caller saw at request time; the storage exclusion constraint
// is the final authority on double-booking.
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

// Execute books a table for the requested slot.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CreateBooking: user=%d, date=%s, time=%s, party_size=%d",
		req.UserID, req.Date.Format(domain.DateFormat), req.StartTime, req.PartySize)

	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CreateBooking: validation failed: %v", err)
		return nil, err
	}

	now := uc.timeProvider.Now().In(uc.loc)

	start, err := req.StartTime.Combine(req.Date, uc.loc)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if !start.After(now) {
		uc.logger.Warn("CreateBooking: start %s is in the past", start)
		return nil, fmt.Errorf("%w: booking start is in the past", ErrInvalidInput)
	}
	end := start.Add(domain.SlotDuration)

	var (
		created       *domain.Booking
		assignedTable *domain.Table
	)

	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// Opening hours are re-validated at commit time from the start
		// instant's own weekday; rules may have changed since the slot
		// was displayed.
		if err := validateOpeningHours(txCtx, uc.hoursRepo, start, uc.loc); err != nil {
			uc.logger.Warn("CreateBooking: opening hours validation failed: %v", err)
			return err
		}

		table, err := uc.assignTable(txCtx, start, end, req.PartySize, nil)
		if err != nil {
			return err
		}

		booking := &domain.Booking{
			TableID:   table.ID,
			UserID:    req.UserID,
			PartySize: req.PartySize,
			StartTime: start,
			EndTime:   end,
			Status:    domain.StatusActive,
			Reference: generateReference(),
			Allergies: req.Allergies,
		}

		result, err := uc.bookingRepo.Create(txCtx, booking)
		if err != nil {
			if errors.Is(err, bookingRepo.ErrTimeRangeConflict) {
				return fmt.Errorf("%w: %v", ErrConflictOnCommit, err)
			}
			uc.logger.Error("CreateBooking: failed to create booking: %v", err)
			return fmt.Errorf("%w: failed to create booking: %v", ErrInternal, err)
		}

		created = result
		assignedTable = table
		return nil
	})

	if err != nil {
		if errors.Is(err, txmanager.ErrSerialization) {
			err = fmt.Errorf("%w: %v", ErrConflictOnCommit, err)
		}
		if errors.Is(err, ErrConflictOnCommit) {
			// Logged apart from ordinary unavailability so race frequency
			// stays visible in diagnostics.
			uc.logger.Warn("CreateBooking: conflict on commit for user=%d, start=%s: %v",
				req.UserID, start, err)
			if uc.conflictMetrics != nil {
				uc.conflictMetrics.IncBookingConflict("create")
			}
		}
		return nil, err
	}

	uc.logger.Info("CreateBooking: booking id=%d reference=%s assigned table=%d for user=%d",
		created.ID, created.Reference, assignedTable.Number, req.UserID)

	return toResponse(created, assignedTable), nil
}

// assignTable picks the smallest adequate free table for [start, end),
// ties broken by lowest id. The capacity query already orders candidates
// that way, so the first free table wins. Returns ErrSlotUnavailable when
// every candidate is taken.
func (uc *UseCase) assignTable(
	ctx context.Context,
	start, end time.Time,
	partySize int,
	excludeBookingID *int64,
) (*domain.Table, error) {
	tables, err := uc.tableRepo.FindWithCapacity(ctx, partySize)
	if err != nil {
		uc.logger.Error("CreateBooking: failed to find tables: %v", err)
		return nil, fmt.Errorf("%w: failed to find tables: %v", ErrInternal, err)
	}
	if len(tables) == 0 {
		uc.logger.Warn("CreateBooking: no table seats %d guests", partySize)
		return nil, ErrSlotUnavailable
	}

	// Inside the serializable transaction this read locks the overlapping
	// rows; it is still only an optimization, the exclusion constraint
	// remains the correctness boundary.
	bookings, err := uc.bookingRepo.GetWithFilter(ctx, domain.BookingsFilter{
		OverlapStart: ptr.Ptr(start),
		OverlapEnd:   ptr.Ptr(end),
		ExcludeID:    excludeBookingID,
	})
	if err != nil {
		uc.logger.Error("CreateBooking: failed to get overlapping bookings: %v", err)
		return nil, fmt.Errorf("%w: failed to get overlapping bookings: %v", ErrInternal, err)
	}

	for _, t := range tables {
		if tableIsFree(t.ID, start, end, bookings) {
			return t, nil
		}
	}

	uc.logger.Warn("CreateBooking: no free table for start=%s, party_size=%d", start, partySize)
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

// generateReference produces the short unique code handed to the guest.
// The reference column's unique constraint backs up the negligible
// collision chance.
func generateReference() string {
	return strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:domain.BookingReferenceLength])
}
