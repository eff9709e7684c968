package get_user_bookings

import (
	"errors"
	"net/http"

	"github.com/gregp1985/gregorys-bistro/internal/api/handlers"
	"github.com/gregp1985/gregorys-bistro/internal/api/middleware"
	"github.com/gregp1985/gregorys-bistro/internal/service/bookings"
	"github.com/gregp1985/gregorys-bistro/internal/service/bookings/models"
)

const (
	msgMissingUserID = "missing caller identity"
	msgInvalidScope  = "invalid scope, expected upcoming, past or all"
)

type Handler struct {
	service BookingService
	logger  Logger
}

func NewHandler(service BookingService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/bookings?scope=upcoming|past|all
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		h.logger.Warn("GET /bookings - Missing caller identity")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	req := &models.GetUserBookingsRequest{
		UserID: identity.UserID,
		Scope:  r.URL.Query().Get("scope"),
	}

	result, err := h.service.GetUserBookings(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, bookings.ErrInvalidInput):
			h.logger.Warn("GET /bookings - Invalid scope: user_id=%d, scope=%q",
				identity.UserID, req.Scope)
			handlers.RespondBadRequest(w, msgInvalidScope)

		default:
			h.logger.Error("GET /bookings - Failed to list bookings: user_id=%d, error=%v",
				identity.UserID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /bookings - %d bookings for user_id=%d, scope=%s",
		len(result.Bookings), identity.UserID, req.Scope)
	handlers.RespondJSON(w, http.StatusOK, result)
}
