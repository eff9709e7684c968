package get_opening_hours

import (
	"context"

	"github.com/gregp1985/gregorys-bistro/internal/service/bookings/models"
)

type BookingService interface {
	GetOpeningHours(ctx context.Context) (*models.OpeningHoursResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
