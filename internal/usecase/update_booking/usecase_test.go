package update_booking

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gregp1985/gregorys-bistro/internal/domain"
	bookingRepository "github.com/gregp1985/gregorys-bistro/internal/infra/storage/booking"
	openingHoursRepository "github.com/gregp1985/gregorys-bistro/internal/infra/storage/openinghours"
	"github.com/gregp1985/gregorys-bistro/pkg/ptr"
	"github.com/gregp1985/gregorys-bistro/pkg/types"
)

var (
	testDate = time.Date(2026, time.March, 16, 0, 0, 0, 0, time.UTC) // Monday
	testNow  = time.Date(2026, time.March, 10, 9, 0, 0, 0, time.UTC)
)

type fakeBookingRepo struct {
	bookings map[int64]*domain.Booking
}

func (f *fakeBookingRepo) GetByID(_ context.Context, id int64) (*domain.Booking, error) {
	b, ok := f.bookings[id]
	if !ok {
		return nil, bookingRepository.ErrBookingNotFound
	}
	copied := *b
	return &copied, nil
}

func (f *fakeBookingRepo) GetWithFilter(_ context.Context, filter domain.BookingsFilter) ([]*domain.Booking, error) {
	out := make([]*domain.Booking, 0)
	for _, b := range f.bookings {
		if filter.ExcludeID != nil && b.ID == *filter.ExcludeID {
			continue
		}
		if !filter.IncludeCancelled && b.IsCancelled() {
			continue
		}
		if filter.OverlapStart != nil && filter.OverlapEnd != nil {
			if !b.Overlaps(*filter.OverlapStart, *filter.OverlapEnd) {
				continue
			}
		}
		out = append(out, b)
	}
	return out, nil
}

func (f *fakeBookingRepo) Update(_ context.Context, booking *domain.Booking) (*domain.Booking, error) {
	if _, ok := f.bookings[booking.ID]; !ok {
		return nil, bookingRepository.ErrBookingNotFound
	}
	copied := *booking
	copied.UpdatedAt = time.Now()
	f.bookings[booking.ID] = &copied
	result := copied
	return &result, nil
}

type fakeTableRepo struct {
	tables []*domain.Table
}

func (f *fakeTableRepo) FindWithCapacity(_ context.Context, partySize int) ([]*domain.Table, error) {
	out := make([]*domain.Table, 0)
	for _, t := range f.tables {
		if t.Fits(partySize) {
			out = append(out, t)
		}
	}
	return out, nil
}

type fakeHoursRepo struct{}

func (fakeHoursRepo) GetByWeekday(_ context.Context, weekday time.Weekday) (*domain.OpeningHours, error) {
	if weekday != time.Monday {
		return nil, openingHoursRepository.ErrHoursNotFound
	}
	open, _ := types.NewTimeStringFromString("11:00")
	close, _ := types.NewTimeStringFromString("23:00")
	return &domain.OpeningHours{Weekday: time.Monday, OpenTime: open, CloseTime: close}, nil
}

type passthroughTx struct{}

func (passthroughTx) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fixedTime struct{ now time.Time }

func (f *fixedTime) Now() time.Time { return f.now }

type noopLogger struct{}

func (noopLogger) Info(string, ...interface{})  {}
func (noopLogger) Warn(string, ...interface{})  {}
func (noopLogger) Error(string, ...interface{}) {}

func at(hour, min int) time.Time {
	return time.Date(2026, time.March, 16, hour, min, 0, 0, time.UTC)
}

// ownedBooking is booking 1: user 1, table 1, Monday 18:00.
func ownedBooking() *domain.Booking {
	return &domain.Booking{
		ID:        1,
		TableID:   1,
		UserID:    1,
		PartySize: 2,
		StartTime: at(18, 0),
		EndTime:   at(19, 30),
		Status:    domain.StatusActive,
		Reference: "AB12CD34",
		Allergies: ptr.Ptr("peanuts"),
	}
}

func newTestUseCase(bookings ...*domain.Booking) (*UseCase, *fakeBookingRepo) {
	repo := &fakeBookingRepo{bookings: make(map[int64]*domain.Booking)}
	for _, b := range bookings {
		repo.bookings[b.ID] = b
	}

	uc := NewUseCase(
		repo,
		&fakeTableRepo{tables: []*domain.Table{
			{ID: 1, Number: 1, Seats: 2},
			{ID: 2, Number: 2, Seats: 4},
		}},
		fakeHoursRepo{},
		passthroughTx{},
		nil,
		time.UTC,
		noopLogger{},
	)
	uc.timeProvider = &fixedTime{now: testNow}
	return uc, repo
}

func request(startTime string, partySize int) *Request {
	ts, _ := types.NewTimeStringFromString(startTime)
	return &Request{
		BookingID: 1,
		UserID:    1,
		Date:      testDate,
		StartTime: ts,
		PartySize: partySize,
	}
}

func TestExecute_ResaveSameSlotSucceeds(t *testing.T) {
	uc, _ := newTestUseCase(ownedBooking())

	resp, err := uc.Execute(context.Background(), request("18:00", 2))
	require.NoError(t, err)

	assert.Equal(t, int64(1), resp.TableID, "own booking never blocks its own slot")
	assert.Equal(t, at(18, 0), resp.StartTime)
}

func TestExecute_MoveToNewTime(t *testing.T) {
	uc, repo := newTestUseCase(ownedBooking())

	resp, err := uc.Execute(context.Background(), request("20:00", 2))
	require.NoError(t, err)

	assert.Equal(t, at(20, 0), resp.StartTime)
	assert.Equal(t, at(21, 30), resp.EndTime)
	assert.Equal(t, at(20, 0), repo.bookings[1].StartTime)
}

func TestExecute_GrowingPartyMovesToBiggerTable(t *testing.T) {
	uc, _ := newTestUseCase(ownedBooking())

	resp, err := uc.Execute(context.Background(), request("18:00", 4))
	require.NoError(t, err)
	assert.Equal(t, int64(2), resp.TableID)
}

func TestExecute_AllergiesKeptWhenOmitted(t *testing.T) {
	uc, repo := newTestUseCase(ownedBooking())

	resp, err := uc.Execute(context.Background(), request("20:00", 2))
	require.NoError(t, err)

	require.NotNil(t, resp.Allergies)
	assert.Equal(t, "peanuts", *resp.Allergies)
	assert.Equal(t, "peanuts", *repo.bookings[1].Allergies)
}

func TestExecute_AllergiesReplacedWhenProvided(t *testing.T) {
	uc, _ := newTestUseCase(ownedBooking())

	req := request("20:00", 2)
	req.Allergies = ptr.Ptr("shellfish")

	resp, err := uc.Execute(context.Background(), req)
	require.NoError(t, err)
	require.NotNil(t, resp.Allergies)
	assert.Equal(t, "shellfish", *resp.Allergies)
}

func TestExecute_ForeignBookingDenied(t *testing.T) {
	uc, _ := newTestUseCase(ownedBooking())

	req := request("20:00", 2)
	req.UserID = 99

	_, err := uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrAccessDenied)
}

func TestExecute_StaffMayEditAnyBooking(t *testing.T) {
	uc, _ := newTestUseCase(ownedBooking())

	req := request("20:00", 2)
	req.UserID = 99
	req.IsStaff = true

	resp, err := uc.Execute(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, at(20, 0), resp.StartTime)
}

func TestExecute_CancelledBookingCannotBeModified(t *testing.T) {
	b := ownedBooking()
	b.Status = domain.StatusCancelled
	uc, _ := newTestUseCase(b)

	_, err := uc.Execute(context.Background(), request("20:00", 2))
	assert.ErrorIs(t, err, ErrCannotModify)
}

func TestExecute_StartedBookingCannotBeModified(t *testing.T) {
	b := ownedBooking()
	b.StartTime = testNow.Add(-time.Hour)
	b.EndTime = b.StartTime.Add(domain.SlotDuration)
	uc, _ := newTestUseCase(b)

	_, err := uc.Execute(context.Background(), request("20:00", 2))
	assert.ErrorIs(t, err, ErrCannotModify)
}

func TestExecute_UnknownBookingNotFound(t *testing.T) {
	uc, _ := newTestUseCase()

	_, err := uc.Execute(context.Background(), request("20:00", 2))
	assert.ErrorIs(t, err, ErrBookingNotFound)
}

func TestExecute_SlotUnavailableWhenOtherBookingHoldsIt(t *testing.T) {
	other := &domain.Booking{
		ID:        2,
		TableID:   1,
		UserID:    7,
		PartySize: 2,
		StartTime: at(20, 0),
		EndTime:   at(21, 30),
		Status:    domain.StatusActive,
	}
	big := &domain.Booking{
		ID:        3,
		TableID:   2,
		UserID:    8,
		PartySize: 4,
		StartTime: at(20, 0),
		EndTime:   at(21, 30),
		Status:    domain.StatusActive,
	}
	uc, _ := newTestUseCase(ownedBooking(), other, big)

	_, err := uc.Execute(context.Background(), request("20:00", 2))
	assert.ErrorIs(t, err, ErrSlotUnavailable)
}

func TestExecute_OutsideOpeningHours(t *testing.T) {
	uc, _ := newTestUseCase(ownedBooking())

	_, err := uc.Execute(context.Background(), request("22:30", 2))
	assert.ErrorIs(t, err, ErrOutsideOpeningHours)
}
