package booking

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"jasaku/database/repository"
	"jasaku/models"
	"jasaku/services/reconcile"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// DefaultBookingService implements BookingService.
type DefaultBookingService struct {
	Bookings   repository.BookingRepository
	Payments   repository.PaymentRepository
	Reconciler reconcile.Reconciler
	// Prefix is the external correlation id prefix handed to the gateway.
	Prefix string
	Logger *zap.Logger
}

// CreateBooking records a customer's service request in PENDING state. No
// payment exists yet; it is created separately once the customer initiates it.
func (s *DefaultBookingService) CreateBooking(ctx context.Context, input CreateBookingInput, actor models.Actor) (*models.Booking, error) {
	if actor.Role != models.RoleCustomer && actor.Role != models.RoleAdmin {
		return nil, reconcile.ErrUnauthorized
	}
	scheduledAt, err := time.Parse(time.RFC3339, input.ScheduledAt)
	if err != nil {
		return nil, fmt.Errorf("%w: scheduled_at must be RFC 3339: %v", ErrInvalidInput, err)
	}
	if input.TotalAmount <= 0 {
		return nil, fmt.Errorf("%w: total_amount must be positive", ErrInvalidInput)
	}

	booking := &models.Booking{
		ID:          uuid.New().String(),
		ServiceID:   input.ServiceID,
		CustomerID:  actor.ID,
		ProviderID:  input.ProviderID,
		ScheduledAt: scheduledAt,
		TotalAmount: input.TotalAmount,
		Status:      models.BookingPending,
	}
	if err := s.Bookings.CreateBooking(ctx, booking); err != nil {
		return nil, fmt.Errorf("failed to create booking: %w", err)
	}

	s.Logger.Info("booking created",
		zap.String("bookingId", booking.ID),
		zap.String("customerId", booking.CustomerID),
		zap.String("providerId", booking.ProviderID),
	)
	return booking, nil
}

// InitiatePayment creates the booking's single payment in PENDING state and
// mints the external correlation identifier the gateway will echo back in
// webhook deliveries.
func (s *DefaultBookingService) InitiatePayment(ctx context.Context, bookingID, method string, actor models.Actor) (*models.Payment, error) {
	booking, err := s.Bookings.GetBookingByID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, repository.ErrBookingNotFound) {
			return nil, fmt.Errorf("%w: booking %s", reconcile.ErrNotFound, bookingID)
		}
		return nil, err
	}
	if actor.Role != models.RoleAdmin && !(actor.Role == models.RoleCustomer && actor.ID == booking.CustomerID) {
		return nil, reconcile.ErrUnauthorized
	}
	if booking.Status != models.BookingPending && booking.Status != models.BookingConfirmed {
		return nil, fmt.Errorf("%w: booking is %s", ErrNotPayable, booking.Status)
	}
	if method == "" {
		method = "invoice"
	}

	// The correlation id codec anchors the payment id on the last separator,
	// so the payment id itself must not contain one.
	paymentID := strings.ReplaceAll(uuid.New().String(), "-", "")
	payment := &models.Payment{
		ID:         paymentID,
		BookingID:  booking.ID,
		Amount:     booking.TotalAmount,
		Method:     method,
		Status:     models.PaymentPending,
		ExternalID: models.BuildExternalID(s.Prefix, booking.ID, paymentID),
	}
	if err := s.Payments.CreateForBooking(ctx, payment); err != nil {
		if errors.Is(err, repository.ErrPaymentAlreadyExists) {
			return nil, fmt.Errorf("%w: booking %s already has a payment", reconcile.ErrConflict, booking.ID)
		}
		return nil, fmt.Errorf("failed to initiate payment: %w", err)
	}

	s.Logger.Info("payment initiated",
		zap.String("bookingId", booking.ID),
		zap.String("paymentId", payment.ID),
		zap.String("externalId", payment.ExternalID),
	)
	return payment, nil
}

// GetBooking returns the joint projection, visible only to the booking's
// parties and admins.
func (s *DefaultBookingService) GetBooking(ctx context.Context, bookingID string, actor models.Actor) (*JointView, error) {
	booking, err := s.Bookings.GetBookingByID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, repository.ErrBookingNotFound) {
			return nil, fmt.Errorf("%w: booking %s", reconcile.ErrNotFound, bookingID)
		}
		return nil, err
	}

	authorized := actor.Role == models.RoleAdmin ||
		(actor.Role == models.RoleCustomer && actor.ID == booking.CustomerID) ||
		(actor.Role == models.RoleProvider && actor.ID == booking.ProviderID)
	if !authorized {
		return nil, reconcile.ErrUnauthorized
	}

	view := &JointView{Booking: *booking}
	if booking.PaymentID != "" {
		payment, err := s.Payments.GetPaymentByID(ctx, booking.PaymentID)
		if err != nil {
			return nil, fmt.Errorf("failed to load payment for booking %s: %w", bookingID, err)
		}
		view.Payment = payment
	}
	return view, nil
}

// ChangeStatus submits a human transition request to the reconciliation
// engine. Cancelling a booking cascades a pending payment to CANCELLED in the
// same atomic unit so the joint state stays consistent; the engine re-reads
// state under its lock, so a lost race surfaces as a typed rejection rather
// than a partial write.
func (s *DefaultBookingService) ChangeStatus(ctx context.Context, bookingID string, target models.BookingStatus, actor models.Actor) (*reconcile.Result, error) {
	req := reconcile.TransitionRequest{
		BookingID:     bookingID,
		BookingStatus: &target,
		Actor:         actor,
		Cause:         "actor:" + string(actor.Role),
	}

	if target == models.BookingCancelled {
		booking, err := s.Bookings.GetBookingByID(ctx, bookingID)
		if err == nil && booking.PaymentID != "" {
			payment, perr := s.Payments.GetPaymentByID(ctx, booking.PaymentID)
			if perr == nil && payment.Status == models.PaymentPending {
				cancelled := models.PaymentCancelled
				req.PaymentID = payment.ID
				req.PaymentStatus = &cancelled
			}
		}
	}

	return s.Reconciler.Apply(ctx, req)
}
