package reconcile

import (
	"fmt"

	"jasaku/database/repository"
	"jasaku/models"
)

// TransitionRequest is one proposed state change against a booking/payment
// pair. Nil target statuses leave that side untouched. Requests originate
// either from an authenticated human actor or from the webhook gateway.
type TransitionRequest struct {
	BookingID     string
	PaymentID     string // optional; must match the booking's linked payment when set
	BookingStatus *models.BookingStatus
	PaymentStatus *models.PaymentStatus
	Actor         models.Actor
	Cause         string

	// GatewayTransactionID is recorded on the payment when a webhook-origin
	// transition is applied; it backs the idempotency check on replays.
	GatewayTransactionID string

	// refund marks the privileged compensating path that may leave the
	// terminal COMPLETED states. Only set by the refund workflow.
	refund       bool
	refundAmount *float64
	refundReason string
}

// bookingTransitions is the reachability table for booking statuses.
// COMPLETED and CANCELLED are terminal, except the refund-triggered
// COMPLETED -> CANCELLED path.
var bookingTransitions = map[models.BookingStatus][]models.BookingStatus{
	models.BookingPending:    {models.BookingConfirmed, models.BookingCancelled},
	models.BookingConfirmed:  {models.BookingInProgress, models.BookingCancelled},
	models.BookingInProgress: {models.BookingCompleted, models.BookingCancelled},
	models.BookingCompleted:  {},
	models.BookingCancelled:  {},
}

// paymentTransitions keeps payment statuses monotonic. REFUNDED is reachable
// only through the refund workflow.
var paymentTransitions = map[models.PaymentStatus][]models.PaymentStatus{
	models.PaymentPending:   {models.PaymentCompleted, models.PaymentFailed, models.PaymentCancelled},
	models.PaymentCompleted: {},
	models.PaymentFailed:    {},
	models.PaymentCancelled: {},
	models.PaymentRefunded:  {},
}

// CanTransitionBooking reports whether a booking may move from one status to
// another. The refund flag unlocks the compensating COMPLETED -> CANCELLED path.
func CanTransitionBooking(from, to models.BookingStatus, refund bool) bool {
	if refund && from == models.BookingCompleted && to == models.BookingCancelled {
		return true
	}
	for _, next := range bookingTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// CanTransitionPayment reports whether a payment may move from one status to
// another.
func CanTransitionPayment(from, to models.PaymentStatus, refund bool) bool {
	if to == models.PaymentRefunded {
		return refund && from == models.PaymentCompleted
	}
	for _, next := range paymentTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// JointStateAllowed reports whether a (booking, payment) status pair is a
// member of the allowed joint-state set. A nil payment status means no payment
// has been initiated for the booking.
func JointStateAllowed(b models.BookingStatus, p *models.PaymentStatus) bool {
	if p == nil {
		// A payment exists only once the booking passed the payment-initiated
		// threshold; a completed service always has one.
		return b != models.BookingCompleted
	}
	switch b {
	case models.BookingPending:
		return *p == models.PaymentPending
	case models.BookingConfirmed, models.BookingInProgress:
		return *p == models.PaymentPending || *p == models.PaymentCompleted
	case models.BookingCompleted:
		return *p == models.PaymentCompleted
	case models.BookingCancelled:
		return *p != models.PaymentPending
	}
	return false
}

// Validate is the transition authority: a pure decision on whether the
// request is authorization-wise and structurally legal against the given
// snapshot. It performs no writes.
func Validate(snap repository.JointSnapshot, req TransitionRequest) error {
	if err := authorize(req.Actor, snap.Booking); err != nil {
		return err
	}

	targetBooking := snap.Booking.Status
	if req.BookingStatus != nil && *req.BookingStatus != snap.Booking.Status {
		if !CanTransitionBooking(snap.Booking.Status, *req.BookingStatus, req.refund) {
			return fmt.Errorf("%w: booking %s -> %s", ErrInvalidTransition, snap.Booking.Status, *req.BookingStatus)
		}
		targetBooking = *req.BookingStatus
	}

	var targetPayment *models.PaymentStatus
	if snap.Payment != nil {
		current := snap.Payment.Status
		targetPayment = &current
	}
	if req.PaymentStatus != nil {
		if snap.Payment == nil {
			return fmt.Errorf("%w: booking %s has no payment", ErrNotFound, snap.Booking.ID)
		}
		if *req.PaymentStatus != snap.Payment.Status {
			if !CanTransitionPayment(snap.Payment.Status, *req.PaymentStatus, req.refund) {
				return fmt.Errorf("%w: payment %s -> %s", ErrInvalidTransition, snap.Payment.Status, *req.PaymentStatus)
			}
			targetPayment = req.PaymentStatus
		}
	}

	if !JointStateAllowed(targetBooking, targetPayment) {
		if targetPayment != nil {
			return fmt.Errorf("%w: booking %s with payment %s", ErrInconsistentJointState, targetBooking, *targetPayment)
		}
		return fmt.Errorf("%w: booking %s without payment", ErrInconsistentJointState, targetBooking)
	}
	return nil
}

// authorize checks that the actor may act on this booking. Gateway-origin
// requests bypass human authorization; the webhook signature is verified
// upstream before the gateway actor is minted.
func authorize(actor models.Actor, booking models.Booking) error {
	switch actor.Role {
	case models.RoleGateway, models.RoleAdmin:
		return nil
	case models.RoleCustomer:
		if actor.ID == booking.CustomerID {
			return nil
		}
	case models.RoleProvider:
		if actor.ID == booking.ProviderID {
			return nil
		}
	}
	return fmt.Errorf("%w: %s %q on booking %s", ErrUnauthorized, actor.Role, actor.ID, booking.ID)
}
