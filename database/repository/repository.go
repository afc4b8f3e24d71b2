package repository

import (
	"context"
	"errors"
	"time"

	"jasaku/models"
)

// Sentinel errors shared by all repository implementations.
var (
	ErrBookingNotFound      = errors.New("booking not found")
	ErrPaymentNotFound      = errors.New("payment not found")
	ErrPaymentAlreadyExists = errors.New("booking already has a payment")
	// ErrStaleState signals that a conditional write matched no document
	// because the expected statuses no longer hold.
	ErrStaleState = errors.New("state changed since it was read")
)

// BookingRepository provides booking persistence.
type BookingRepository interface {
	CreateBooking(ctx context.Context, booking *models.Booking) error
	GetBookingByID(ctx context.Context, id string) (*models.Booking, error)
}

// PaymentRepository provides payment persistence. CreateForBooking atomically
// inserts the payment and links it to its booking; it fails with
// ErrPaymentAlreadyExists if the booking is already linked to one.
type PaymentRepository interface {
	CreateForBooking(ctx context.Context, payment *models.Payment) error
	GetPaymentByID(ctx context.Context, id string) (*models.Payment, error)
}

// JointSnapshot is a consistent read of a booking and its payment, if any.
type JointSnapshot struct {
	Booking models.Booking
	Payment *models.Payment
}

// JointUpdate describes one atomic status write against a booking/payment
// pair. Nil target statuses leave that side untouched. From* statuses are
// write preconditions: the update must fail with ErrStaleState if the stored
// statuses differ.
type JointUpdate struct {
	BookingID   string
	FromBooking models.BookingStatus
	ToBooking   *models.BookingStatus

	PaymentID   string
	FromPayment models.PaymentStatus
	ToPayment   *models.PaymentStatus

	// Side fields set together with the status write.
	GatewayTransactionID string
	PaidAt               *time.Time
	CompletedAt          *time.Time
	RefundAmount         *float64
	RefundReason         string
}

// ReconciliationStore is the atomic read-then-conditional-write collaborator
// required by the reconciliation engine.
type ReconciliationStore interface {
	// GetJoint loads a booking together with its linked payment.
	GetJoint(ctx context.Context, bookingID string) (*JointSnapshot, error)
	// ApplyJointUpdate commits both status writes as one unit.
	ApplyJointUpdate(ctx context.Context, update JointUpdate) error
}
