package bookings

import (
	"context"
	"time"

	"github.com/gregp1985/gregorys-bistro/internal/domain"
	"github.com/gregp1985/gregorys-bistro/internal/integrations/notify"
)

type BookingRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
	GetWithFilter(ctx context.Context, filter domain.BookingsFilter) ([]*domain.Booking, error)
	Cancel(ctx context.Context, id int64, reason *string) error
}

type TableRepository interface {
	List(ctx context.Context) ([]*domain.Table, error)
}

type OpeningHoursRepository interface {
	GetAll(ctx context.Context) ([]*domain.OpeningHours, error)
}

// Notifier delivers the cancellation notice to the guest. Failures are
// logged and never surfaced to the caller.
type Notifier interface {
	SendCancellation(ctx context.Context, notice notify.CancellationNotice) error
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
