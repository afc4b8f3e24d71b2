package booking

import (
	"context"

	"jasaku/models"
	"jasaku/services/reconcile"
)

// CreateBookingInput is the customer's service request.
type CreateBookingInput struct {
	ServiceID   string  `json:"service_id" binding:"required"`
	ProviderID  string  `json:"provider_id" binding:"required"`
	ScheduledAt string  `json:"scheduled_at" binding:"required"` // RFC 3339
	TotalAmount float64 `json:"total_amount" binding:"required"`
}

// JointView is the booking/payment projection returned by the human endpoints.
type JointView struct {
	Booking models.Booking  `json:"booking"`
	Payment *models.Payment `json:"payment,omitempty"`
}

// BookingService covers the minimal marketplace operations around the
// reconciliation core: creating a booking, initiating its payment, reading the
// joint projection and requesting a status change on behalf of a human actor.
type BookingService interface {
	CreateBooking(ctx context.Context, input CreateBookingInput, actor models.Actor) (*models.Booking, error)
	InitiatePayment(ctx context.Context, bookingID, method string, actor models.Actor) (*models.Payment, error)
	GetBooking(ctx context.Context, bookingID string, actor models.Actor) (*JointView, error)
	ChangeStatus(ctx context.Context, bookingID string, target models.BookingStatus, actor models.Actor) (*reconcile.Result, error)
}
