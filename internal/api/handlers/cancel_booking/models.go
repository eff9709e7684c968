package cancel_booking

// CancelBookingRequest HTTP request model. The body is optional; an
// absent body cancels without a reason.
type CancelBookingRequest struct {
	Reason *string `json:"cancellationReason,omitempty"`
}
