package booking

import "errors"

var (
	// ErrInvalidInput means the request payload failed validation.
	ErrInvalidInput = errors.New("invalid booking input")
	// ErrNotPayable means the booking is not in a state where a payment may
	// be initiated.
	ErrNotPayable = errors.New("booking is not in a payable state")
)
