package reconcile

import (
	"context"
	"errors"
	"fmt"

	"jasaku/database/repository"
	"jasaku/models"
)

// RefundRequest is the compensating transaction that reverses a completed
// payment. Admin only.
type RefundRequest struct {
	BookingID string
	PaymentID string
	Amount    float64
	Reason    string
	Actor     models.Actor
}

// Refund atomically sets the payment to REFUNDED and the booking to
// CANCELLED. This is the only path permitted to leave the terminal COMPLETED
// state. The requested amount and reason are recorded for audit; partial
// refunds are not tracked against a cumulative ledger.
func (e *DefaultReconciler) Refund(ctx context.Context, req RefundRequest) (*Result, error) {
	if req.Actor.Role != models.RoleAdmin {
		return nil, fmt.Errorf("%w: refunds require admin role", ErrUnauthorized)
	}
	if req.BookingID == "" {
		return nil, fmt.Errorf("%w: missing booking id", ErrNotFound)
	}

	lock := e.locks.get(req.BookingID)
	lock.Lock()
	defer lock.Unlock()

	snap, err := e.store.GetJoint(ctx, req.BookingID)
	if err != nil {
		if errors.Is(err, repository.ErrBookingNotFound) || errors.Is(err, repository.ErrPaymentNotFound) {
			return nil, fmt.Errorf("%w: %v", ErrNotFound, err)
		}
		return nil, fmt.Errorf("failed to load booking state: %w", err)
	}
	if snap.Payment == nil {
		return nil, fmt.Errorf("%w: booking %s has no payment", ErrNotFound, req.BookingID)
	}
	if req.PaymentID != "" && snap.Payment.ID != req.PaymentID {
		return nil, fmt.Errorf("%w: payment %s is not linked to booking %s", ErrNotFound, req.PaymentID, req.BookingID)
	}

	if snap.Payment.Status != models.PaymentCompleted {
		return nil, fmt.Errorf("%w: payment is %s", ErrRefundNotAllowed, snap.Payment.Status)
	}
	if req.Amount <= 0 || req.Amount > snap.Payment.Amount {
		return nil, fmt.Errorf("%w: %.2f against payment of %.2f", ErrInvalidRefundAmount, req.Amount, snap.Payment.Amount)
	}

	cancelled := models.BookingCancelled
	refunded := models.PaymentRefunded
	return e.applyLocked(ctx, TransitionRequest{
		BookingID:     req.BookingID,
		PaymentID:     snap.Payment.ID,
		BookingStatus: &cancelled,
		PaymentStatus: &refunded,
		Actor:         req.Actor,
		Cause:         "refund",
		refund:        true,
		refundAmount:  &req.Amount,
		refundReason:  req.Reason,
	})
}
