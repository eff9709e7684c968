package get_calendar_events

import (
	"context"

	"github.com/gregp1985/gregorys-bistro/internal/service/bookings/models"
)

type BookingService interface {
	GetCalendarEvents(ctx context.Context, req *models.CalendarEventsRequest) (*models.CalendarEventsResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
