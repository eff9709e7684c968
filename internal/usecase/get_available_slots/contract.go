package get_available_slots

import (
	"context"
	"time"

	"github.com/gregp1985/gregorys-bistro/internal/domain"
)

// BookingRepository is the booking repository surface this use case needs.
type BookingRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
	GetWithFilter(ctx context.Context, filter domain.BookingsFilter) ([]*domain.Booking, error)
}

// TableRepository finds tables by capacity, smallest first.
type TableRepository interface {
	FindWithCapacity(ctx context.Context, partySize int) ([]*domain.Table, error)
}

// OpeningHoursRepository looks up the opening window per weekday.
type OpeningHoursRepository interface {
	GetByWeekday(ctx context.Context, weekday time.Weekday) (*domain.OpeningHours, error)
}

// TimeProvider supplies the current time (swappable in tests).
type TimeProvider interface {
	Now() time.Time
}

// Logger is the logging interface the use case needs.
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider is the production time provider.
type RealTimeProvider struct{}

// Now returns the current time.
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
