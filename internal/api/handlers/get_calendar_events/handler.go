package get_calendar_events

import (
	"errors"
	"net/http"
	"time"

	"github.com/gregp1985/gregorys-bistro/internal/api/handlers"
	"github.com/gregp1985/gregorys-bistro/internal/domain"
	"github.com/gregp1985/gregorys-bistro/internal/service/bookings"
	"github.com/gregp1985/gregorys-bistro/internal/service/bookings/models"
)

const (
	msgInvalidWindow = "invalid calendar window, expected start and end as RFC 3339 or YYYY-MM-DD"
)

type Handler struct {
	service BookingService
	loc     *time.Location
	logger  Logger
}

func NewHandler(service BookingService, loc *time.Location, logger Logger) *Handler {
	return &Handler{
		service: service,
		loc:     loc,
		logger:  logger,
	}
}

// Handle GET /api/v1/admin/calendar-events?start=...&end=...[&status=...]
//
// The calendar widget sends its visible window; start and end accept
// either full RFC 3339 timestamps or bare dates.
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	start, err := h.parseWindowBound(query.Get("start"))
	if err != nil {
		h.logger.Warn("GET /admin/calendar-events - Invalid start %q: %v", query.Get("start"), err)
		handlers.RespondBadRequest(w, msgInvalidWindow)
		return
	}
	end, err := h.parseWindowBound(query.Get("end"))
	if err != nil {
		h.logger.Warn("GET /admin/calendar-events - Invalid end %q: %v", query.Get("end"), err)
		handlers.RespondBadRequest(w, msgInvalidWindow)
		return
	}

	req := &models.CalendarEventsRequest{
		Start: start,
		End:   end,
	}
	if raw := query.Get("status"); raw != "" {
		req.Status = &raw
	}

	result, err := h.service.GetCalendarEvents(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, bookings.ErrInvalidInput):
			h.logger.Warn("GET /admin/calendar-events - Invalid request: %v", err)
			handlers.RespondBadRequest(w, err.Error())

		default:
			h.logger.Error("GET /admin/calendar-events - Failed to list events: %v", err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /admin/calendar-events - %d events between %s and %s",
		len(result.Events), query.Get("start"), query.Get("end"))
	handlers.RespondJSON(w, http.StatusOK, result)
}

func (h *Handler) parseWindowBound(raw string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, nil
	}
	return time.ParseInLocation(domain.DateFormat, raw, h.loc)
}
