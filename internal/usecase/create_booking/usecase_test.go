package create_booking

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gregp1985/gregorys-bistro/internal/domain"
	bookingRepository "github.com/gregp1985/gregorys-bistro/internal/infra/storage/booking"
	openingHoursRepository "github.com/gregp1985/gregorys-bistro/internal/infra/storage/openinghours"
	"github.com/gregp1985/gregorys-bistro/pkg/txmanager"
	"github.com/gregp1985/gregorys-bistro/pkg/types"
)

var testDate = time.Date(2026, time.March, 16, 0, 0, 0, 0, time.UTC) // Monday

// fakeBookingRepo mimics the storage contract, including the exclusion
// guard: Create atomically rejects a second active booking that overlaps
// the same table, the way the constraint does in Postgres.
type fakeBookingRepo struct {
	mu        sync.Mutex
	bookings  []*domain.Booking
	createErr error
	nextID    int64
}

func (f *fakeBookingRepo) Create(_ context.Context, b *domain.Booking) (*domain.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.createErr != nil {
		return nil, f.createErr
	}
	for _, existing := range f.bookings {
		if existing.TableID == b.TableID && !existing.IsCancelled() &&
			existing.Overlaps(b.StartTime, b.EndTime) {
			return nil, fmt.Errorf("%w: bookings_prevent_table_double_booking", bookingRepository.ErrTimeRangeConflict)
		}
	}
	f.nextID++
	created := *b
	created.ID = f.nextID
	created.CreatedAt = time.Now()
	created.UpdatedAt = created.CreatedAt
	f.bookings = append(f.bookings, &created)
	return &created, nil
}

func (f *fakeBookingRepo) GetWithFilter(_ context.Context, filter domain.BookingsFilter) ([]*domain.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

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

func (f *fakeBookingRepo) all() []*domain.Booking {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]*domain.Booking(nil), f.bookings...)
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

type fakeHoursRepo struct {
	byWeekday map[time.Weekday]*domain.OpeningHours
}

func (f *fakeHoursRepo) GetByWeekday(_ context.Context, weekday time.Weekday) (*domain.OpeningHours, error) {
	h, ok := f.byWeekday[weekday]
	if !ok {
		return nil, openingHoursRepository.ErrHoursNotFound
	}
	return h, nil
}

type fakeTxManager struct {
	commitErr error // returned after fn succeeds, simulating a failed COMMIT
}

func (f *fakeTxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	if err := fn(ctx); err != nil {
		return err
	}
	return f.commitErr
}

type conflictCounter struct {
	mu         sync.Mutex
	operations []string
}

func (c *conflictCounter) IncBookingConflict(operation string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.operations = append(c.operations, operation)
}

type fixedTime struct{ now time.Time }

func (f *fixedTime) Now() time.Time { return f.now }

type noopLogger struct{}

func (noopLogger) Info(string, ...interface{})  {}
func (noopLogger) Warn(string, ...interface{})  {}
func (noopLogger) Error(string, ...interface{}) {}

type fixture struct {
	uc        *UseCase
	bookings  *fakeBookingRepo
	tx        *fakeTxManager
	conflicts *conflictCounter
}

func newFixture(tables []*domain.Table) *fixture {
	open, _ := types.NewTimeStringFromString("11:00")
	close, _ := types.NewTimeStringFromString("23:00")

	f := &fixture{
		bookings:  &fakeBookingRepo{},
		tx:        &fakeTxManager{},
		conflicts: &conflictCounter{},
	}
	f.uc = NewUseCase(
		f.bookings,
		&fakeTableRepo{tables: tables},
		&fakeHoursRepo{byWeekday: map[time.Weekday]*domain.OpeningHours{
			time.Monday: {Weekday: time.Monday, OpenTime: open, CloseTime: close},
		}},
		f.tx,
		f.conflicts,
		time.UTC,
		noopLogger{},
	)
	f.uc.timeProvider = &fixedTime{now: time.Date(2026, time.March, 10, 9, 0, 0, 0, time.UTC)}
	return f
}

func defaultTables() []*domain.Table {
	return []*domain.Table{
		{ID: 1, Number: 1, Seats: 2},
		{ID: 2, Number: 2, Seats: 4},
		{ID: 3, Number: 3, Seats: 4},
	}
}

func request(startTime string, partySize int) *Request {
	ts, _ := types.NewTimeStringFromString(startTime)
	return &Request{
		UserID:    1,
		Date:      testDate,
		StartTime: ts,
		PartySize: partySize,
	}
}

func TestExecute_AssignsSmallestAdequateTable(t *testing.T) {
	f := newFixture(defaultTables())

	resp, err := f.uc.Execute(context.Background(), request("18:00", 2))
	require.NoError(t, err)

	assert.Equal(t, int64(1), resp.TableID, "two guests fit the two-seat table")
	assert.Equal(t, string(domain.StatusActive), resp.Status)
	assert.Len(t, resp.Reference, domain.BookingReferenceLength)
	assert.Equal(t, resp.StartTime.Add(domain.SlotDuration), resp.EndTime)
}

func TestExecute_TiesBreakOnLowestID(t *testing.T) {
	f := newFixture(defaultTables())

	// Party of four skips the two-seater; tables 2 and 3 both seat four.
	resp, err := f.uc.Execute(context.Background(), request("18:00", 4))
	require.NoError(t, err)
	assert.Equal(t, int64(2), resp.TableID)
}

func TestExecute_SkipsBusyTables(t *testing.T) {
	f := newFixture(defaultTables())

	first, err := f.uc.Execute(context.Background(), request("18:00", 2))
	require.NoError(t, err)
	require.Equal(t, int64(1), first.TableID)

	second, err := f.uc.Execute(context.Background(), request("18:00", 2))
	require.NoError(t, err)
	assert.Equal(t, int64(2), second.TableID, "the two-seater is taken, next smallest wins")
}

func TestExecute_SlotUnavailableWhenAllTablesBusy(t *testing.T) {
	f := newFixture([]*domain.Table{{ID: 1, Number: 1, Seats: 2}})

	_, err := f.uc.Execute(context.Background(), request("18:00", 2))
	require.NoError(t, err)

	_, err = f.uc.Execute(context.Background(), request("18:00", 2))
	assert.ErrorIs(t, err, ErrSlotUnavailable)
}

func TestExecute_TouchingBookingsDoNotConflict(t *testing.T) {
	f := newFixture([]*domain.Table{{ID: 1, Number: 1, Seats: 2}})

	_, err := f.uc.Execute(context.Background(), request("18:00", 2))
	require.NoError(t, err)

	// [19:30, 21:00) starts exactly where [18:00, 19:30) ends.
	resp, err := f.uc.Execute(context.Background(), request("19:30", 2))
	require.NoError(t, err)
	assert.Equal(t, int64(1), resp.TableID)
}

func TestExecute_NoTableSeatsTheParty(t *testing.T) {
	f := newFixture(defaultTables())

	_, err := f.uc.Execute(context.Background(), request("18:00", 10))
	assert.ErrorIs(t, err, ErrSlotUnavailable)
}

func TestExecute_OutsideOpeningHours(t *testing.T) {
	f := newFixture(defaultTables())

	tests := []struct {
		name      string
		startTime string
		date      time.Time
	}{
		{name: "would run past closing", startTime: "21:45", date: testDate},
		{name: "before opening", startTime: "10:00", date: testDate},
		{name: "closed day", startTime: "18:00", date: testDate.AddDate(0, 0, 1)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := request(tt.startTime, 2)
			req.Date = tt.date
			_, err := f.uc.Execute(context.Background(), req)
			assert.ErrorIs(t, err, ErrOutsideOpeningHours)
		})
	}
}

func TestExecute_InvalidInput(t *testing.T) {
	f := newFixture(defaultTables())

	pastDate := request("18:00", 2)
	pastDate.Date = time.Date(2026, time.March, 9, 0, 0, 0, 0, time.UTC) // Monday before "now"

	zeroParty := request("18:00", 0)
	hugeParty := request("18:00", domain.MaxPartySize+1)

	for name, req := range map[string]*Request{
		"start in the past":      pastDate,
		"party size zero":        zeroParty,
		"party size above limit": hugeParty,
	} {
		t.Run(name, func(t *testing.T) {
			_, err := f.uc.Execute(context.Background(), req)
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}
}

func TestExecute_StorageConflictBecomesConflictOnCommit(t *testing.T) {
	f := newFixture(defaultTables())
	f.bookings.createErr = fmt.Errorf("%w: bookings_prevent_table_double_booking", bookingRepository.ErrTimeRangeConflict)

	_, err := f.uc.Execute(context.Background(), request("18:00", 2))
	assert.ErrorIs(t, err, ErrConflictOnCommit)
	assert.Equal(t, []string{"create"}, f.conflicts.operations)
}

func TestExecute_ConcurrentSubmissionsBookSlotOnce(t *testing.T) {
	// One table, many simultaneous submissions for the same slot. The
	// storage-level exclusion guard decides the winner; everyone else
	// resolves to a conflict outcome, never a second booking.
	f := newFixture([]*domain.Table{{ID: 1, Number: 1, Seats: 2}})

	const attempts = 16
	results := make(chan error, attempts)

	var start sync.WaitGroup
	start.Add(1)
	var done sync.WaitGroup
	for i := 0; i < attempts; i++ {
		done.Add(1)
		go func() {
			defer done.Done()
			start.Wait()
			_, err := f.uc.Execute(context.Background(), request("18:00", 2))
			results <- err
		}()
	}
	start.Done()
	done.Wait()
	close(results)

	var successes int
	for err := range results {
		if err == nil {
			successes++
			continue
		}
		if !errors.Is(err, ErrSlotUnavailable) && !errors.Is(err, ErrConflictOnCommit) {
			t.Fatalf("unexpected loser error: %v", err)
		}
	}
	assert.Equal(t, 1, successes, "exactly one submission wins the slot")
	assert.Len(t, f.bookings.all(), 1, "the table is booked once")
}

func TestExecute_SerializationFailureBecomesConflictOnCommit(t *testing.T) {
	f := newFixture(defaultTables())
	f.tx.commitErr = fmt.Errorf("%w: could not serialize access", txmanager.ErrSerialization)

	_, err := f.uc.Execute(context.Background(), request("18:00", 2))
	assert.ErrorIs(t, err, ErrConflictOnCommit)
	assert.Equal(t, []string{"create"}, f.conflicts.operations)
}
