package reconcile

import "errors"

// Typed rejection reasons surfaced at the request boundary. All of them are
// recoverable; none should crash the process.
var (
	// ErrUnauthorized means the actor is not permitted to act on this booking.
	ErrUnauthorized = errors.New("actor is not permitted to act on this booking")
	// ErrNotFound means a referenced booking or payment does not exist.
	ErrNotFound = errors.New("referenced entity not found")
	// ErrInvalidTransition means the requested status is not reachable from
	// the current one.
	ErrInvalidTransition = errors.New("invalid status transition")
	// ErrInconsistentJointState means the request would leave the booking and
	// payment statuses in a combination outside the allowed joint-state set.
	ErrInconsistentJointState = errors.New("booking and payment statuses would be inconsistent")
	// ErrConflict means the transition lost a concurrency race and the caller
	// should re-read state before retrying.
	ErrConflict = errors.New("booking state changed concurrently")
	// ErrRefundNotAllowed means the payment is not in a refundable state.
	ErrRefundNotAllowed = errors.New("payment is not refundable")
	// ErrInvalidRefundAmount means the requested refund amount is not positive
	// or exceeds the original payment amount.
	ErrInvalidRefundAmount = errors.New("invalid refund amount")
)
