package webhook

import "errors"

var (
	// ErrInvalidToken means the shared-secret callback token did not match.
	ErrInvalidToken = errors.New("invalid callback token")
	// ErrMalformedEvent means the payload is missing the event name, the
	// gateway transaction id or the external correlation id.
	ErrMalformedEvent = errors.New("malformed gateway event")
	// ErrMalformedExternalID means the correlation id could not be parsed
	// into a booking and payment id.
	ErrMalformedExternalID = errors.New("malformed external correlation id")
)
