package update_booking

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/gregp1985/gregorys-bistro/internal/api/handlers"
	"github.com/gregp1985/gregorys-bistro/internal/api/middleware"
	updateBooking "github.com/gregp1985/gregorys-bistro/internal/usecase/update_booking"
)

const (
	msgInvalidBookingID   = "invalid booking id"
	msgInvalidRequestBody = "invalid request body"
	msgInvalidDateOrTime  = "invalid date or time, expected YYYY-MM-DD and HH:MM"
	msgMissingUserID      = "missing caller identity"
	msgNotFound           = "booking not found"
	msgForbidden          = "access denied"
	msgCannotModify       = "booking can no longer be modified"
	msgOutsideHours       = "requested time is outside opening hours"
	msgSlotUnavailable    = "no table is available for the requested slot"
	msgConflictOnCommit   = "the slot was taken while rebooking, please pick another"
)

type Handler struct {
	useCase UpdateBookingUseCase
	logger  Logger
}

func NewHandler(useCase UpdateBookingUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle PUT /api/v1/bookings/{bookingId}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	bookingID, err := strconv.ParseInt(mux.Vars(r)["bookingId"], 10, 64)
	if err != nil {
		h.logger.Warn("PUT /bookings/{id} - Invalid booking ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBookingID)
		return
	}

	identity, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		h.logger.Warn("PUT /bookings/{id} - Missing caller identity")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	var req UpdateBookingRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PUT /bookings/{id} - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	useCaseReq, err := req.ToUseCaseRequest(bookingID, identity.UserID, identity.IsStaff)
	if err != nil {
		h.logger.Warn("PUT /bookings/{id} - Failed to parse request: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDateOrTime)
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, updateBooking.ErrInvalidInput):
			h.logger.Warn("PUT /bookings/{id} - Invalid input: booking_id=%d, error=%v", bookingID, err)
			handlers.RespondBadRequest(w, err.Error())

		case errors.Is(err, updateBooking.ErrBookingNotFound):
			h.logger.Warn("PUT /bookings/{id} - Booking not found: booking_id=%d", bookingID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, updateBooking.ErrAccessDenied):
			h.logger.Warn("PUT /bookings/{id} - Access denied: booking_id=%d, user_id=%d",
				bookingID, identity.UserID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, updateBooking.ErrCannotModify):
			h.logger.Warn("PUT /bookings/{id} - Cannot modify: booking_id=%d", bookingID)
			handlers.RespondConflict(w, msgCannotModify)

		case errors.Is(err, updateBooking.ErrOutsideOpeningHours):
			h.logger.Warn("PUT /bookings/{id} - Outside opening hours: booking_id=%d, date=%s, time=%s",
				bookingID, req.Date, req.StartTime)
			handlers.RespondBadRequest(w, msgOutsideHours)

		case errors.Is(err, updateBooking.ErrSlotUnavailable):
			h.logger.Warn("PUT /bookings/{id} - Slot unavailable: booking_id=%d, date=%s, time=%s",
				bookingID, req.Date, req.StartTime)
			handlers.RespondConflict(w, msgSlotUnavailable)

		case errors.Is(err, updateBooking.ErrConflictOnCommit):
			h.logger.Warn("PUT /bookings/{id} - Conflict on commit: booking_id=%d, date=%s, time=%s",
				bookingID, req.Date, req.StartTime)
			handlers.RespondConflict(w, msgConflictOnCommit)

		default:
			h.logger.Error("PUT /bookings/{id} - Failed to update booking: booking_id=%d, error=%v",
				bookingID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PUT /bookings/{id} - Booking updated: booking_id=%d, user_id=%d",
		result.ID, identity.UserID)
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
