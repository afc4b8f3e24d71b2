package reconcile

import (
	"errors"
	"testing"

	"jasaku/database/repository"
	"jasaku/models"
)

func bookingStatusPtr(s models.BookingStatus) *models.BookingStatus { return &s }
func paymentStatusPtr(s models.PaymentStatus) *models.PaymentStatus { return &s }

func TestCanTransitionBooking(t *testing.T) {
	tests := []struct {
		from, to models.BookingStatus
		refund   bool
		want     bool
	}{
		{models.BookingPending, models.BookingConfirmed, false, true},
		{models.BookingPending, models.BookingCancelled, false, true},
		{models.BookingPending, models.BookingInProgress, false, false},
		{models.BookingPending, models.BookingCompleted, false, false},
		{models.BookingConfirmed, models.BookingInProgress, false, true},
		{models.BookingConfirmed, models.BookingCancelled, false, true},
		{models.BookingConfirmed, models.BookingCompleted, false, false},
		{models.BookingInProgress, models.BookingCompleted, false, true},
		{models.BookingInProgress, models.BookingCancelled, false, true},
		{models.BookingInProgress, models.BookingConfirmed, false, false},
		{models.BookingCompleted, models.BookingCancelled, false, false},
		{models.BookingCompleted, models.BookingCancelled, true, true},
		{models.BookingCompleted, models.BookingInProgress, true, false},
		{models.BookingCancelled, models.BookingPending, false, false},
		{models.BookingCancelled, models.BookingConfirmed, true, false},
	}

	for _, tt := range tests {
		if got := CanTransitionBooking(tt.from, tt.to, tt.refund); got != tt.want {
			t.Errorf("CanTransitionBooking(%s, %s, refund=%v) = %v, want %v",
				tt.from, tt.to, tt.refund, got, tt.want)
		}
	}
}

func TestCanTransitionPayment(t *testing.T) {
	tests := []struct {
		from, to models.PaymentStatus
		refund   bool
		want     bool
	}{
		{models.PaymentPending, models.PaymentCompleted, false, true},
		{models.PaymentPending, models.PaymentFailed, false, true},
		{models.PaymentPending, models.PaymentCancelled, false, true},
		{models.PaymentPending, models.PaymentRefunded, false, false},
		{models.PaymentPending, models.PaymentRefunded, true, false},
		{models.PaymentCompleted, models.PaymentPending, false, false},
		{models.PaymentCompleted, models.PaymentRefunded, false, false},
		{models.PaymentCompleted, models.PaymentRefunded, true, true},
		{models.PaymentFailed, models.PaymentCompleted, false, false},
		{models.PaymentCancelled, models.PaymentCompleted, false, false},
		{models.PaymentRefunded, models.PaymentCompleted, false, false},
	}

	for _, tt := range tests {
		if got := CanTransitionPayment(tt.from, tt.to, tt.refund); got != tt.want {
			t.Errorf("CanTransitionPayment(%s, %s, refund=%v) = %v, want %v",
				tt.from, tt.to, tt.refund, got, tt.want)
		}
	}
}

func TestJointStateAllowed(t *testing.T) {
	tests := []struct {
		booking models.BookingStatus
		payment *models.PaymentStatus
		want    bool
	}{
		{models.BookingPending, nil, true},
		{models.BookingPending, paymentStatusPtr(models.PaymentPending), true},
		{models.BookingPending, paymentStatusPtr(models.PaymentCompleted), false},
		{models.BookingConfirmed, paymentStatusPtr(models.PaymentPending), true},
		{models.BookingConfirmed, paymentStatusPtr(models.PaymentCompleted), true},
		{models.BookingConfirmed, paymentStatusPtr(models.PaymentFailed), false},
		{models.BookingInProgress, paymentStatusPtr(models.PaymentCompleted), true},
		{models.BookingCompleted, paymentStatusPtr(models.PaymentCompleted), true},
		{models.BookingCompleted, paymentStatusPtr(models.PaymentPending), false},
		{models.BookingCompleted, nil, false},
		{models.BookingCancelled, nil, true},
		{models.BookingCancelled, paymentStatusPtr(models.PaymentCancelled), true},
		{models.BookingCancelled, paymentStatusPtr(models.PaymentFailed), true},
		{models.BookingCancelled, paymentStatusPtr(models.PaymentRefunded), true},
		{models.BookingCancelled, paymentStatusPtr(models.PaymentCompleted), true},
		{models.BookingCancelled, paymentStatusPtr(models.PaymentPending), false},
	}

	for _, tt := range tests {
		if got := JointStateAllowed(tt.booking, tt.payment); got != tt.want {
			t.Errorf("JointStateAllowed(%s, %v) = %v, want %v", tt.booking, tt.payment, got, tt.want)
		}
	}
}

func TestValidateAuthorization(t *testing.T) {
	snap := repository.JointSnapshot{
		Booking: models.Booking{
			ID:         "bkg1",
			CustomerID: "cust1",
			ProviderID: "prov1",
			Status:     models.BookingPending,
		},
	}
	target := bookingStatusPtr(models.BookingCancelled)

	tests := []struct {
		name    string
		actor   models.Actor
		wantErr error
	}{
		{"owning customer", models.Actor{ID: "cust1", Role: models.RoleCustomer}, nil},
		{"owning provider", models.Actor{ID: "prov1", Role: models.RoleProvider}, nil},
		{"admin", models.Actor{ID: "admin1", Role: models.RoleAdmin}, nil},
		{"gateway", models.GatewayActor(), nil},
		{"other customer", models.Actor{ID: "cust2", Role: models.RoleCustomer}, ErrUnauthorized},
		{"other provider", models.Actor{ID: "prov2", Role: models.RoleProvider}, ErrUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(snap, TransitionRequest{
				BookingID:     "bkg1",
				BookingStatus: target,
				Actor:         tt.actor,
			})
			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("Validate failed: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Validate error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidateRejectsInconsistentJointState(t *testing.T) {
	pending := models.PaymentPending
	snap := repository.JointSnapshot{
		Booking: models.Booking{
			ID:         "bkg1",
			CustomerID: "cust1",
			ProviderID: "prov1",
			Status:     models.BookingInProgress,
			PaymentID:  "pay1",
		},
		Payment: &models.Payment{ID: "pay1", BookingID: "bkg1", Status: pending},
	}

	// Completing the booking while its payment is still pending must be refused.
	err := Validate(snap, TransitionRequest{
		BookingID:     "bkg1",
		BookingStatus: bookingStatusPtr(models.BookingCompleted),
		Actor:         models.Actor{ID: "prov1", Role: models.RoleProvider},
	})
	if !errors.Is(err, ErrInconsistentJointState) {
		t.Fatalf("Validate error = %v, want ErrInconsistentJointState", err)
	}
}

func TestValidateRejectsUnreachableTransition(t *testing.T) {
	snap := repository.JointSnapshot{
		Booking: models.Booking{
			ID:         "bkg1",
			CustomerID: "cust1",
			Status:     models.BookingCancelled,
		},
	}

	err := Validate(snap, TransitionRequest{
		BookingID:     "bkg1",
		BookingStatus: bookingStatusPtr(models.BookingConfirmed),
		Actor:         models.Actor{ID: "cust1", Role: models.RoleCustomer},
	})
	if !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("Validate error = %v, want ErrInvalidTransition", err)
	}
}
