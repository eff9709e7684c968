package update_booking

import (
	"context"
	"time"

	"github.com/gregp1985/gregorys-bistro/internal/domain"
)

type BookingRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
	GetWithFilter(ctx context.Context, filter domain.BookingsFilter) ([]*domain.Booking, error)
	Update(ctx context.Context, booking *domain.Booking) (*domain.Booking, error)
}

type TableRepository interface {
	FindWithCapacity(ctx context.Context, partySize int) ([]*domain.Table, error)
}

type OpeningHoursRepository interface {
	GetByWeekday(ctx context.Context, weekday time.Weekday) (*domain.OpeningHours, error)
}

type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

type ConflictMetrics interface {
	IncBookingConflict(operation string)
}

type TimeProvider interface {
	Now() time.Time
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

type RealTimeProvider struct{}

func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
