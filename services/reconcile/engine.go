package reconcile

import (
	"context"
	"errors"
	"fmt"
	"time"

	"jasaku/database/repository"
	"jasaku/models"

	"go.uber.org/zap"
)

// Result is the committed joint state after a transition request.
type Result struct {
	Booking models.Booking
	Payment *models.Payment
	// Changed is false when the request was an idempotent no-op: the target
	// statuses already matched the stored ones and nothing was written.
	Changed bool
}

// EventPublisher receives BookingStateChanged events for downstream
// notification. Publishing is fire-and-forget; failures never roll back a
// committed transition.
type EventPublisher interface {
	Publish(ctx context.Context, evt models.BookingStateChanged) error
}

// Reconciler applies transition requests to exactly one booking/payment pair
// as an atomic unit. Both human and gateway paths converge here so the
// invariants are enforced uniformly.
type Reconciler interface {
	Apply(ctx context.Context, req TransitionRequest) (*Result, error)
	Refund(ctx context.Context, req RefundRequest) (*Result, error)
}

// DefaultReconciler is the production implementation.
type DefaultReconciler struct {
	store  repository.ReconciliationStore
	events EventPublisher
	logger *zap.Logger
	locks  *bookingLocks
}

// NewReconciler wires a reconciler over a store and an optional event publisher.
func NewReconciler(store repository.ReconciliationStore, events EventPublisher, logger *zap.Logger) *DefaultReconciler {
	return &DefaultReconciler{
		store:  store,
		events: events,
		logger: logger,
		locks:  newBookingLocks(),
	}
}

// Apply validates and commits one transition request. Requests for the same
// booking are linearized: a request arriving while another is in flight waits
// and then re-evaluates its preconditions against fresh state.
func (e *DefaultReconciler) Apply(ctx context.Context, req TransitionRequest) (*Result, error) {
	if req.BookingID == "" {
		return nil, fmt.Errorf("%w: missing booking id", ErrNotFound)
	}

	lock := e.locks.get(req.BookingID)
	lock.Lock()
	defer lock.Unlock()

	return e.applyLocked(ctx, req)
}

// applyLocked runs the read-validate-write cycle. Callers must hold the
// booking's lock.
func (e *DefaultReconciler) applyLocked(ctx context.Context, req TransitionRequest) (*Result, error) {
	snap, err := e.store.GetJoint(ctx, req.BookingID)
	if err != nil {
		if errors.Is(err, repository.ErrBookingNotFound) || errors.Is(err, repository.ErrPaymentNotFound) {
			return nil, fmt.Errorf("%w: %v", ErrNotFound, err)
		}
		return nil, fmt.Errorf("failed to load booking state: %w", err)
	}
	if req.PaymentID != "" && (snap.Payment == nil || snap.Payment.ID != req.PaymentID) {
		return nil, fmt.Errorf("%w: payment %s is not linked to booking %s", ErrNotFound, req.PaymentID, req.BookingID)
	}

	// Authorization holds even when the request turns out to be a no-op;
	// a replay acknowledgement still discloses the joint state.
	if err := authorize(req.Actor, snap.Booking); err != nil {
		return nil, err
	}

	// Idempotent replay: if every requested target already matches the stored
	// state, acknowledge without re-mutating or re-firing side effects.
	if isNoOp(snap, req) {
		return &Result{Booking: snap.Booking, Payment: snap.Payment, Changed: false}, nil
	}

	if err := Validate(*snap, req); err != nil {
		return nil, err
	}

	update := repository.JointUpdate{
		BookingID:   snap.Booking.ID,
		FromBooking: snap.Booking.Status,
	}

	now := time.Now()
	result := Result{Booking: snap.Booking, Payment: snap.Payment, Changed: true}

	if req.BookingStatus != nil && *req.BookingStatus != snap.Booking.Status {
		update.ToBooking = req.BookingStatus
		result.Booking.Status = *req.BookingStatus
		if *req.BookingStatus == models.BookingCompleted {
			update.CompletedAt = &now
			result.Booking.CompletedAt = &now
		}
	}
	if req.PaymentStatus != nil && snap.Payment != nil && *req.PaymentStatus != snap.Payment.Status {
		payment := *snap.Payment
		update.PaymentID = payment.ID
		update.FromPayment = payment.Status
		update.ToPayment = req.PaymentStatus
		update.GatewayTransactionID = req.GatewayTransactionID
		payment.Status = *req.PaymentStatus
		if req.GatewayTransactionID != "" {
			payment.GatewayTransactionID = req.GatewayTransactionID
		}
		if *req.PaymentStatus == models.PaymentCompleted {
			update.PaidAt = &now
			payment.PaidAt = &now
		}
		if req.refundAmount != nil {
			update.RefundAmount = req.refundAmount
			update.RefundReason = req.refundReason
			payment.RefundAmount = *req.refundAmount
			payment.RefundReason = req.refundReason
		}
		result.Payment = &payment
	}

	if err := e.store.ApplyJointUpdate(ctx, update); err != nil {
		if errors.Is(err, repository.ErrStaleState) {
			return nil, fmt.Errorf("%w: booking %s", ErrConflict, req.BookingID)
		}
		return nil, fmt.Errorf("failed to commit transition: %w", err)
	}

	e.logger.Info("transition applied",
		zap.String("bookingId", snap.Booking.ID),
		zap.String("bookingStatus", string(result.Booking.Status)),
		zap.String("cause", req.Cause),
		zap.String("actorRole", string(req.Actor.Role)),
	)

	if update.ToBooking != nil {
		e.publish(ctx, models.BookingStateChanged{
			BookingID:  snap.Booking.ID,
			CustomerID: snap.Booking.CustomerID,
			ProviderID: snap.Booking.ProviderID,
			From:       snap.Booking.Status,
			To:         *update.ToBooking,
			Cause:      req.Cause,
			OccurredAt: now,
		})
	}

	return &result, nil
}

func (e *DefaultReconciler) publish(ctx context.Context, evt models.BookingStateChanged) {
	if e.events == nil {
		return
	}
	if err := e.events.Publish(ctx, evt); err != nil {
		e.logger.Warn("failed to publish booking state change",
			zap.String("bookingId", evt.BookingID), zap.Error(err))
	}
}

// isNoOp reports whether every requested target status already holds.
func isNoOp(snap *repository.JointSnapshot, req TransitionRequest) bool {
	if req.BookingStatus == nil && req.PaymentStatus == nil {
		return true
	}
	if req.BookingStatus != nil && *req.BookingStatus != snap.Booking.Status {
		return false
	}
	if req.PaymentStatus != nil {
		if snap.Payment == nil || *req.PaymentStatus != snap.Payment.Status {
			return false
		}
	}
	return true
}
