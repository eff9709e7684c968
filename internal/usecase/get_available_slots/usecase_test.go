package get_available_slots

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gregp1985/gregorys-bistro/internal/domain"
	bookingRepo "github.com/gregp1985/gregorys-bistro/internal/infra/storage/booking"
	hoursRepo "github.com/gregp1985/gregorys-bistro/internal/infra/storage/openinghours"
	"github.com/gregp1985/gregorys-bistro/pkg/ptr"
	"github.com/gregp1985/gregorys-bistro/pkg/types"
)

// Test fixtures: a Monday with an 11:00-23:00 window, one two-seat table
// and one four-seat table.

var testDate = time.Date(2026, time.March, 16, 0, 0, 0, 0, time.UTC) // Monday

type fakeBookingRepo struct {
	bookings []*domain.Booking
}

func (f *fakeBookingRepo) GetByID(_ context.Context, id int64) (*domain.Booking, error) {
	for _, b := range f.bookings {
		if b.ID == id {
			return b, nil
		}
	}
	return nil, bookingRepo.ErrBookingNotFound
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
	// The fixture tables are already in seats-then-id order.
	return out, nil
}

type fakeHoursRepo struct {
	byWeekday map[time.Weekday]*domain.OpeningHours
}

func (f *fakeHoursRepo) GetByWeekday(_ context.Context, weekday time.Weekday) (*domain.OpeningHours, error) {
	h, ok := f.byWeekday[weekday]
	if !ok {
		return nil, hoursRepo.ErrHoursNotFound
	}
	return h, nil
}

type fixedTime struct{ now time.Time }

func (f *fixedTime) Now() time.Time { return f.now }

type noopLogger struct{}

func (noopLogger) Info(string, ...interface{})  {}
func (noopLogger) Warn(string, ...interface{})  {}
func (noopLogger) Error(string, ...interface{}) {}

func newTestUseCase(bookings []*domain.Booking, now time.Time) *UseCase {
	open, _ := types.NewTimeStringFromString("11:00")
	close, _ := types.NewTimeStringFromString("23:00")

	uc := NewUseCase(
		&fakeBookingRepo{bookings: bookings},
		&fakeTableRepo{tables: []*domain.Table{
			{ID: 1, Number: 1, Seats: 2},
			{ID: 2, Number: 2, Seats: 4},
		}},
		&fakeHoursRepo{byWeekday: map[time.Weekday]*domain.OpeningHours{
			time.Monday: {Weekday: time.Monday, OpenTime: open, CloseTime: close},
		}},
		time.UTC,
		noopLogger{},
	)
	uc.timeProvider = &fixedTime{now: now}
	return uc
}

func slotAt(t *testing.T, resp *Response, label string) bool {
	t.Helper()
	for _, s := range resp.Slots {
		if s.Label == label {
			return true
		}
	}
	return false
}

func TestExecute_FullOpenDay(t *testing.T) {
	now := time.Date(2026, time.March, 10, 9, 0, 0, 0, time.UTC)
	uc := newTestUseCase(nil, now)

	resp, err := uc.Execute(context.Background(), &Request{UserID: 1, Date: testDate, PartySize: 2})
	require.NoError(t, err)

	// 11:00 through 21:30 at 15 minute steps.
	require.Len(t, resp.Slots, 43)
	assert.Equal(t, "11:00", resp.Slots[0].Label)
	assert.Equal(t, "21:30", resp.Slots[len(resp.Slots)-1].Label)

	for i := 1; i < len(resp.Slots); i++ {
		assert.True(t, resp.Slots[i].StartTime.After(resp.Slots[i-1].StartTime),
			"slots must be in ascending order")
	}
}

func TestExecute_LastSlotFinishesByClosing(t *testing.T) {
	now := time.Date(2026, time.March, 10, 9, 0, 0, 0, time.UTC)
	uc := newTestUseCase(nil, now)

	resp, err := uc.Execute(context.Background(), &Request{UserID: 1, Date: testDate, PartySize: 2})
	require.NoError(t, err)

	assert.False(t, slotAt(t, resp, "21:45"))
	assert.False(t, slotAt(t, resp, "22:00"))
}

func TestExecute_SlotHiddenWhenAllTablesTaken(t *testing.T) {
	now := time.Date(2026, time.March, 10, 9, 0, 0, 0, time.UTC)
	start := time.Date(2026, time.March, 16, 13, 0, 0, 0, time.UTC)

	bookings := []*domain.Booking{
		{ID: 1, TableID: 1, UserID: 7, StartTime: start, EndTime: start.Add(domain.SlotDuration), Status: domain.StatusActive},
		{ID: 2, TableID: 2, UserID: 8, StartTime: start, EndTime: start.Add(domain.SlotDuration), Status: domain.StatusActive},
	}
	uc := newTestUseCase(bookings, now)

	resp, err := uc.Execute(context.Background(), &Request{UserID: 1, Date: testDate, PartySize: 2})
	require.NoError(t, err)

	// The whole neighbourhood overlapping [13:00, 14:30) disappears,
	// touching slots stay.
	assert.False(t, slotAt(t, resp, "13:00"))
	assert.False(t, slotAt(t, resp, "11:45"))
	assert.False(t, slotAt(t, resp, "14:15"))
	assert.True(t, slotAt(t, resp, "11:30"))
	assert.True(t, slotAt(t, resp, "14:30"))
}

func TestExecute_SlotKeptWhenAnotherTableIsFree(t *testing.T) {
	now := time.Date(2026, time.March, 10, 9, 0, 0, 0, time.UTC)
	start := time.Date(2026, time.March, 16, 13, 0, 0, 0, time.UTC)

	bookings := []*domain.Booking{
		{ID: 1, TableID: 1, UserID: 7, StartTime: start, EndTime: start.Add(domain.SlotDuration), Status: domain.StatusActive},
	}
	uc := newTestUseCase(bookings, now)

	resp, err := uc.Execute(context.Background(), &Request{UserID: 1, Date: testDate, PartySize: 2})
	require.NoError(t, err)

	assert.True(t, slotAt(t, resp, "13:00"))
}

func TestExecute_CancelledBookingDoesNotBlock(t *testing.T) {
	now := time.Date(2026, time.March, 10, 9, 0, 0, 0, time.UTC)
	start := time.Date(2026, time.March, 16, 13, 0, 0, 0, time.UTC)

	bookings := []*domain.Booking{
		{ID: 1, TableID: 1, UserID: 7, StartTime: start, EndTime: start.Add(domain.SlotDuration), Status: domain.StatusCancelled},
		{ID: 2, TableID: 2, UserID: 8, StartTime: start, EndTime: start.Add(domain.SlotDuration), Status: domain.StatusCancelled},
	}
	uc := newTestUseCase(bookings, now)

	resp, err := uc.Execute(context.Background(), &Request{UserID: 1, Date: testDate, PartySize: 2})
	require.NoError(t, err)

	assert.True(t, slotAt(t, resp, "13:00"))
}

func TestExecute_TodaySkipsElapsedSlots(t *testing.T) {
	now := time.Date(2026, time.March, 16, 14, 5, 0, 0, time.UTC)
	uc := newTestUseCase(nil, now)

	resp, err := uc.Execute(context.Background(), &Request{UserID: 1, Date: testDate, PartySize: 2})
	require.NoError(t, err)

	require.NotEmpty(t, resp.Slots)
	assert.Equal(t, "14:15", resp.Slots[0].Label)
}

func TestExecute_SoftFailures(t *testing.T) {
	now := time.Date(2026, time.March, 10, 9, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		req  *Request
	}{
		{name: "zero date", req: &Request{UserID: 1, PartySize: 2}},
		{name: "past date", req: &Request{UserID: 1, Date: now.AddDate(0, 0, -1), PartySize: 2}},
		{name: "party size zero", req: &Request{UserID: 1, Date: testDate, PartySize: 0}},
		{name: "party size negative", req: &Request{UserID: 1, Date: testDate, PartySize: -3}},
		{name: "party size above maximum", req: &Request{UserID: 1, Date: testDate, PartySize: domain.MaxPartySize + 1}},
		{name: "party too large for any table", req: &Request{UserID: 1, Date: testDate, PartySize: 20}},
		{name: "closed day", req: &Request{UserID: 1, Date: testDate.AddDate(0, 0, 1), PartySize: 2}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc := newTestUseCase(nil, now)
			resp, err := uc.Execute(context.Background(), tt.req)
			require.NoError(t, err)
			assert.Empty(t, resp.Slots)
		})
	}
}

func TestExecute_ExcludeOwnBooking(t *testing.T) {
	now := time.Date(2026, time.March, 10, 9, 0, 0, 0, time.UTC)
	start := time.Date(2026, time.March, 16, 13, 0, 0, 0, time.UTC)

	// Both tables taken at 13:00; booking 1 belongs to the caller.
	bookings := []*domain.Booking{
		{ID: 1, TableID: 1, UserID: 1, StartTime: start, EndTime: start.Add(domain.SlotDuration), Status: domain.StatusActive},
		{ID: 2, TableID: 2, UserID: 8, StartTime: start, EndTime: start.Add(domain.SlotDuration), Status: domain.StatusActive},
	}
	uc := newTestUseCase(bookings, now)

	resp, err := uc.Execute(context.Background(), &Request{
		UserID: 1, Date: testDate, PartySize: 2, ExcludeBookingID: ptr.Ptr(int64(1)),
	})
	require.NoError(t, err)
	assert.True(t, slotAt(t, resp, "13:00"), "excluding own booking frees its table")
}

func TestExecute_ExcludeForeignBookingIgnored(t *testing.T) {
	now := time.Date(2026, time.March, 10, 9, 0, 0, 0, time.UTC)
	start := time.Date(2026, time.March, 16, 13, 0, 0, 0, time.UTC)

	bookings := []*domain.Booking{
		{ID: 1, TableID: 1, UserID: 7, StartTime: start, EndTime: start.Add(domain.SlotDuration), Status: domain.StatusActive},
		{ID: 2, TableID: 2, UserID: 8, StartTime: start, EndTime: start.Add(domain.SlotDuration), Status: domain.StatusActive},
	}
	uc := newTestUseCase(bookings, now)

	resp, err := uc.Execute(context.Background(), &Request{
		UserID: 1, Date: testDate, PartySize: 2, ExcludeBookingID: ptr.Ptr(int64(1)),
	})
	require.NoError(t, err)
	assert.False(t, slotAt(t, resp, "13:00"), "a guest cannot exclude someone else's booking")
}

func TestExecute_StaffMayExcludeAnyBooking(t *testing.T) {
	now := time.Date(2026, time.March, 10, 9, 0, 0, 0, time.UTC)
	start := time.Date(2026, time.March, 16, 13, 0, 0, 0, time.UTC)

	bookings := []*domain.Booking{
		{ID: 1, TableID: 1, UserID: 7, StartTime: start, EndTime: start.Add(domain.SlotDuration), Status: domain.StatusActive},
		{ID: 2, TableID: 2, UserID: 8, StartTime: start, EndTime: start.Add(domain.SlotDuration), Status: domain.StatusActive},
	}
	uc := newTestUseCase(bookings, now)

	resp, err := uc.Execute(context.Background(), &Request{
		UserID: 99, IsStaff: true, Date: testDate, PartySize: 2, ExcludeBookingID: ptr.Ptr(int64(1)),
	})
	require.NoError(t, err)
	assert.True(t, slotAt(t, resp, "13:00"))
}
