package get_available_slots

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gregp1985/gregorys-bistro/internal/api/handlers"
	"github.com/gregp1985/gregorys-bistro/internal/api/middleware"
	"github.com/gregp1985/gregorys-bistro/internal/domain"
	getAvailableSlots "github.com/gregp1985/gregorys-bistro/internal/usecase/get_available_slots"
)

const msgMissingUserID = "missing caller identity"

type Handler struct {
	useCase GetAvailableSlotsUseCase
	logger  Logger
}

func NewHandler(useCase GetAvailableSlotsUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle GET /api/v1/available-slots?date=YYYY-MM-DD&partySize=N[&excludeBookingId=M]
//
// Malformed query parameters do not error: the widget polling this
// endpoint gets an empty slot list and stays usable.
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		h.logger.Warn("GET /available-slots - Missing caller identity")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	query := r.URL.Query()
	rawDate := query.Get("date")

	date, err := time.Parse(domain.DateFormat, rawDate)
	if err != nil {
		h.logger.Warn("GET /available-slots - Invalid date %q: %v", rawDate, err)
		handlers.RespondJSON(w, http.StatusOK, EmptyResponse(rawDate))
		return
	}

	partySize, err := strconv.Atoi(query.Get("partySize"))
	if err != nil {
		h.logger.Warn("GET /available-slots - Invalid party size %q: %v", query.Get("partySize"), err)
		handlers.RespondJSON(w, http.StatusOK, EmptyResponse(rawDate))
		return
	}

	req := &getAvailableSlots.Request{
		UserID:    identity.UserID,
		IsStaff:   identity.IsStaff,
		Date:      date,
		PartySize: partySize,
	}

	if raw := query.Get("excludeBookingId"); raw != "" {
		excludeID, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			h.logger.Warn("GET /available-slots - Invalid excludeBookingId %q: %v", raw, err)
			handlers.RespondJSON(w, http.StatusOK, EmptyResponse(rawDate))
			return
		}
		req.ExcludeBookingID = &excludeID
	}

	result, err := h.useCase.Execute(r.Context(), req)
	if err != nil {
		h.logger.Error("GET /available-slots - Failed to get slots: user_id=%d, date=%s, error=%v",
			identity.UserID, rawDate, err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("GET /available-slots - %d slots for user_id=%d, date=%s, party_size=%d",
		len(result.Slots), identity.UserID, rawDate, partySize)
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
