package create_booking

import (
	"errors"
	"net/http"

	"github.com/gregp1985/gregorys-bistro/internal/api/handlers"
	"github.com/gregp1985/gregorys-bistro/internal/api/middleware"
	createBooking "github.com/gregp1985/gregorys-bistro/internal/usecase/create_booking"
)

const (
	msgInvalidRequestBody = "invalid request body"
	msgInvalidDateOrTime  = "invalid date or time, expected YYYY-MM-DD and HH:MM"
	msgMissingUserID      = "missing caller identity"
	msgOutsideHours       = "requested time is outside opening hours"
	msgSlotUnavailable    = "no table is available for the requested slot"
	msgConflictOnCommit   = "the slot was taken while booking, please pick another"
)

type Handler struct {
	useCase CreateBookingUseCase
	logger  Logger
}

func NewHandler(useCase CreateBookingUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/bookings
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		h.logger.Warn("POST /bookings - Missing caller identity")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	var req CreateBookingRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /bookings - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	useCaseReq, err := req.ToUseCaseRequest(identity.UserID)
	if err != nil {
		h.logger.Warn("POST /bookings - Failed to parse request: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDateOrTime)
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, createBooking.ErrInvalidInput):
			h.logger.Warn("POST /bookings - Invalid input: user_id=%d, error=%v", identity.UserID, err)
			handlers.RespondBadRequest(w, err.Error())

		case errors.Is(err, createBooking.ErrOutsideOpeningHours):
			h.logger.Warn("POST /bookings - Outside opening hours: user_id=%d, date=%s, time=%s",
				identity.UserID, req.Date, req.StartTime)
			handlers.RespondBadRequest(w, msgOutsideHours)

		case errors.Is(err, createBooking.ErrSlotUnavailable):
			h.logger.Warn("POST /bookings - Slot unavailable: user_id=%d, date=%s, time=%s, party_size=%d",
				identity.UserID, req.Date, req.StartTime, req.PartySize)
			handlers.RespondConflict(w, msgSlotUnavailable)

		case errors.Is(err, createBooking.ErrConflictOnCommit):
			h.logger.Warn("POST /bookings - Conflict on commit: user_id=%d, date=%s, time=%s",
				identity.UserID, req.Date, req.StartTime)
			handlers.RespondConflict(w, msgConflictOnCommit)

		default:
			h.logger.Error("POST /bookings - Failed to create booking: user_id=%d, error=%v",
				identity.UserID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /bookings - Booking created: booking_id=%d, reference=%s, user_id=%d",
		result.ID, result.Reference, identity.UserID)
	handlers.RespondJSON(w, http.StatusCreated, FromUseCaseResponse(result))
}
