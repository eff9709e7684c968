package create_booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gregp1985/gregorys-bistro/internal/domain"
	hoursRepo "github.com/gregp1985/gregorys-bistro/internal/infra/storage/openinghours"
)

// validateRequest checks the request shape. Party size zero or negative is
// invalid input, per the booking submission contract.
func validateRequest(req *Request) error {
	if req.UserID <= 0 {
		return fmt.Errorf("%w: userID must be positive", ErrInvalidInput)
	}
	if req.Date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrInvalidInput)
	}
	if req.StartTime.IsZero() {
		return fmt.Errorf("%w: startTime is required", ErrInvalidInput)
	}
	if err := req.StartTime.Validate(); err != nil {
		return fmt.Errorf("%w: invalid startTime format: %v", ErrInvalidInput, err)
	}
	if req.PartySize < domain.MinPartySize || req.PartySize > domain.MaxPartySize {
		return fmt.Errorf("%w: partySize must be between %d and %d",
			ErrInvalidInput, domain.MinPartySize, domain.MaxPartySize)
	}
	if req.Allergies != nil && len(*req.Allergies) > domain.MaxAllergiesLength {
		return fmt.Errorf("%w: allergies notes too long", ErrInvalidInput)
	}
	return nil
}

// validateOpeningHours re-derives the weekday from the start instant itself
// (never from a separately supplied date) and checks the whole slot fits
// the opening window: start at or after opening, end at or before closing.
//
// A closed day and a slot outside the window are the same error: the
// booking does not fit this restaurant's hours.
func validateOpeningHours(
	ctx context.Context,
	repo OpeningHoursRepository,
	start time.Time,
	loc *time.Location,
) error {
	localStart := start.In(loc)

	hours, err := repo.GetByWeekday(ctx, localStart.Weekday())
	if err != nil {
		if errors.Is(err, hoursRepo.ErrHoursNotFound) {
			return fmt.Errorf("%w: closed on %s", ErrOutsideOpeningHours, localStart.Weekday())
		}
		return fmt.Errorf("%w: failed to get opening hours: %v", ErrInternal, err)
	}

	ok, err := hours.Contains(localStart, localStart.Add(domain.SlotDuration), loc)
	if err != nil {
		return fmt.Errorf("%w: failed to check opening window: %v", ErrInternal, err)
	}
	if !ok {
		return fmt.Errorf("%w: slot %s does not fit the %s-%s window",
			ErrOutsideOpeningHours, localStart.Format(domain.TimeFormat), hours.OpenTime, hours.CloseTime)
	}

	return nil
}
