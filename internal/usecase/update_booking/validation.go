package update_booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gregp1985/gregorys-bistro/internal/domain"
	hoursRepo "github.com/gregp1985/gregorys-bistro/internal/infra/storage/openinghours"
)

func validateRequest(req *Request) error {
	if req.BookingID <= 0 {
		return fmt.Errorf("%w: booking id must be positive", ErrInvalidInput)
	}
	if req.UserID <= 0 {
		return fmt.Errorf("%w: user id must be positive", ErrInvalidInput)
	}
	if req.Date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrInvalidInput)
	}
	if req.StartTime.IsZero() {
		return fmt.Errorf("%w: start time is required", ErrInvalidInput)
	}
	if err := req.StartTime.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if req.PartySize < domain.MinPartySize || req.PartySize > domain.MaxPartySize {
		return fmt.Errorf("%w: party size must be between %d and %d",
			ErrInvalidInput, domain.MinPartySize, domain.MaxPartySize)
	}
	if req.Allergies != nil && len(*req.Allergies) > domain.MaxAllergiesLength {
		return fmt.Errorf("%w: allergies must not exceed %d characters",
			ErrInvalidInput, domain.MaxAllergiesLength)
	}

	return nil
}

func validateOpeningHours(
	ctx context.Context,
	repo OpeningHoursRepository,
	start time.Time,
	loc *time.Location,
) error {
	hours, err := repo.GetByWeekday(ctx, start.In(loc).Weekday())
	if err != nil {
		if errors.Is(err, hoursRepo.ErrHoursNotFound) {
			return fmt.Errorf("%w: closed on %s", ErrOutsideOpeningHours, start.In(loc).Weekday())
		}
		return fmt.Errorf("%w: failed to get opening hours: %v", ErrInternal, err)
	}

	end := start.Add(domain.SlotDuration)
	ok, err := hours.Contains(start, end, loc)
	if err != nil {
		return fmt.Errorf("%w: failed to check opening window: %v", ErrInternal, err)
	}
	if !ok {
		return fmt.Errorf("%w: %s-%s does not fit within %s-%s",
			ErrOutsideOpeningHours,
			start.In(loc).Format(domain.TimeFormat), end.In(loc).Format(domain.TimeFormat),
			hours.OpenTime, hours.CloseTime)
	}

	return nil
}
