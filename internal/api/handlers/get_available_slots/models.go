package get_available_slots

import (
	"time"

	"github.com/gregp1985/gregorys-bistro/internal/domain"
	getAvailableSlots "github.com/gregp1985/gregorys-bistro/internal/usecase/get_available_slots"
)

// SlotsResponse HTTP response model
type SlotsResponse struct {
	Date  string         `json:"date"`
	Slots []SlotResponse `json:"slots"`
}

type SlotResponse struct {
	StartTime string `json:"startTime"` // RFC 3339
	Label     string `json:"label"`     // "18:45"
}

func FromUseCaseResponse(resp *getAvailableSlots.Response) *SlotsResponse {
	out := &SlotsResponse{
		Date:  resp.Date.Format(domain.DateFormat),
		Slots: make([]SlotResponse, 0, len(resp.Slots)),
	}

	for _, s := range resp.Slots {
		out.Slots = append(out.Slots, SlotResponse{
			StartTime: s.StartTime.Format(time.RFC3339),
			Label:     s.Label,
		})
	}

	return out
}

// EmptyResponse is what malformed queries get: availability never errors
// to the caller, it just has nothing to offer.
func EmptyResponse(rawDate string) *SlotsResponse {
	return &SlotsResponse{
		Date:  rawDate,
		Slots: []SlotResponse{},
	}
}
