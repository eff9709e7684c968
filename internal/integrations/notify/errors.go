package notify

import "errors"

var (
	// ErrInvalidResponse is returned when the notifier answers with an
	// unexpected status code.
	ErrInvalidResponse = errors.New("notify.client: invalid response from notifier")

	// ErrInternal is returned on request construction or transport failures.
	ErrInternal = errors.New("notify.client: internal error")
)
