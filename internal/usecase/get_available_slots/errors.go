package get_available_slots

import "errors"

var (
	// ErrInternal is returned on repository or infrastructure failures.
	// Bad input never produces an error here: availability queries fail
	// soft and resolve to an empty slot list instead.
	ErrInternal = errors.New("get_available_slots: internal error")
)
