package booking

import (
	"context"
	"testing"
	"time"

	"jasaku/database/repository"
	"jasaku/models"
	"jasaku/services/reconcile"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestService(store *repository.MemoryStore) *DefaultBookingService {
	return &DefaultBookingService{
		Bookings:   store,
		Payments:   store,
		Reconciler: reconcile.NewReconciler(store, nil, zap.NewNop()),
		Prefix:     "JASAKU",
		Logger:     zap.NewNop(),
	}
}

func validInput() CreateBookingInput {
	return CreateBookingInput{
		ServiceID:   "svc1",
		ProviderID:  "prov1",
		ScheduledAt: time.Now().Add(24 * time.Hour).Format(time.RFC3339),
		TotalAmount: 250000,
	}
}

func TestCreateBooking(t *testing.T) {
	store := repository.NewMemoryStore()
	svc := newTestService(store)
	customer := models.Actor{ID: "cust1", Role: models.RoleCustomer}

	booking, err := svc.CreateBooking(context.Background(), validInput(), customer)
	require.NoError(t, err)
	assert.NotEmpty(t, booking.ID)
	assert.Equal(t, "cust1", booking.CustomerID)
	assert.Equal(t, "prov1", booking.ProviderID)
	assert.Equal(t, models.BookingPending, booking.Status)
	assert.Empty(t, booking.PaymentID)
}

func TestCreateBookingValidation(t *testing.T) {
	store := repository.NewMemoryStore()
	svc := newTestService(store)
	customer := models.Actor{ID: "cust1", Role: models.RoleCustomer}

	bad := validInput()
	bad.ScheduledAt = "tomorrow at noon"
	_, err := svc.CreateBooking(context.Background(), bad, customer)
	require.ErrorIs(t, err, ErrInvalidInput)

	bad = validInput()
	bad.TotalAmount = 0
	_, err = svc.CreateBooking(context.Background(), bad, customer)
	require.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.CreateBooking(context.Background(), validInput(), models.Actor{ID: "prov1", Role: models.RoleProvider})
	require.ErrorIs(t, err, reconcile.ErrUnauthorized)
}

func TestInitiatePayment(t *testing.T) {
	store := repository.NewMemoryStore()
	svc := newTestService(store)
	customer := models.Actor{ID: "cust1", Role: models.RoleCustomer}

	booking, err := svc.CreateBooking(context.Background(), validInput(), customer)
	require.NoError(t, err)

	payment, err := svc.InitiatePayment(context.Background(), booking.ID, "", customer)
	require.NoError(t, err)
	assert.Equal(t, models.PaymentPending, payment.Status)
	assert.Equal(t, booking.TotalAmount, payment.Amount)
	assert.Equal(t, "invoice", payment.Method)

	// The codec anchors the payment id on the last separator, so the minted
	// payment id must not contain one.
	assert.NotContains(t, payment.ID, "-")

	// The correlation id round-trips through the webhook parser.
	gotBooking, gotPayment, err := models.ParseExternalID("JASAKU", payment.ExternalID)
	require.NoError(t, err)
	assert.Equal(t, booking.ID, gotBooking)
	assert.Equal(t, payment.ID, gotPayment)

	// One payment per booking.
	_, err = svc.InitiatePayment(context.Background(), booking.ID, "", customer)
	require.ErrorIs(t, err, reconcile.ErrConflict)
}

func TestInitiatePaymentAuthorization(t *testing.T) {
	store := repository.NewMemoryStore()
	svc := newTestService(store)
	customer := models.Actor{ID: "cust1", Role: models.RoleCustomer}

	booking, err := svc.CreateBooking(context.Background(), validInput(), customer)
	require.NoError(t, err)

	for _, actor := range []models.Actor{
		{ID: "cust2", Role: models.RoleCustomer},
		{ID: "prov1", Role: models.RoleProvider},
	} {
		_, err := svc.InitiatePayment(context.Background(), booking.ID, "", actor)
		require.ErrorIs(t, err, reconcile.ErrUnauthorized, "role %s must not pay for this booking", actor.Role)
	}

	_, err = svc.InitiatePayment(context.Background(), "missing", "", customer)
	require.ErrorIs(t, err, reconcile.ErrNotFound)
}

func TestInitiatePaymentRequiresPayableState(t *testing.T) {
	store := repository.NewMemoryStore()
	svc := newTestService(store)
	customer := models.Actor{ID: "cust1", Role: models.RoleCustomer}

	booking, err := svc.CreateBooking(context.Background(), validInput(), customer)
	require.NoError(t, err)

	_, err = svc.ChangeStatus(context.Background(), booking.ID, models.BookingCancelled, customer)
	require.NoError(t, err)

	_, err = svc.InitiatePayment(context.Background(), booking.ID, "", customer)
	require.ErrorIs(t, err, ErrNotPayable)
}

func TestGetBookingVisibility(t *testing.T) {
	store := repository.NewMemoryStore()
	svc := newTestService(store)
	customer := models.Actor{ID: "cust1", Role: models.RoleCustomer}

	booking, err := svc.CreateBooking(context.Background(), validInput(), customer)
	require.NoError(t, err)
	payment, err := svc.InitiatePayment(context.Background(), booking.ID, "", customer)
	require.NoError(t, err)

	for _, actor := range []models.Actor{
		customer,
		{ID: "prov1", Role: models.RoleProvider},
		{ID: "admin1", Role: models.RoleAdmin},
	} {
		view, err := svc.GetBooking(context.Background(), booking.ID, actor)
		require.NoError(t, err, "role %s must see the booking", actor.Role)
		assert.Equal(t, booking.ID, view.Booking.ID)
		require.NotNil(t, view.Payment)
		assert.Equal(t, payment.ID, view.Payment.ID)
	}

	_, err = svc.GetBooking(context.Background(), booking.ID, models.Actor{ID: "cust2", Role: models.RoleCustomer})
	require.ErrorIs(t, err, reconcile.ErrUnauthorized)
}

func TestChangeStatusCancelCascadesPendingPayment(t *testing.T) {
	store := repository.NewMemoryStore()
	svc := newTestService(store)
	customer := models.Actor{ID: "cust1", Role: models.RoleCustomer}

	booking, err := svc.CreateBooking(context.Background(), validInput(), customer)
	require.NoError(t, err)
	_, err = svc.InitiatePayment(context.Background(), booking.ID, "", customer)
	require.NoError(t, err)

	result, err := svc.ChangeStatus(context.Background(), booking.ID, models.BookingCancelled, customer)
	require.NoError(t, err)
	assert.Equal(t, models.BookingCancelled, result.Booking.Status)
	require.NotNil(t, result.Payment)
	assert.Equal(t, models.PaymentCancelled, result.Payment.Status)

	snap, err := store.GetJoint(context.Background(), booking.ID)
	require.NoError(t, err)
	assert.Equal(t, models.BookingCancelled, snap.Booking.Status)
	assert.Equal(t, models.PaymentCancelled, snap.Payment.Status)
}

func TestChangeStatusLifecycle(t *testing.T) {
	store := repository.NewMemoryStore()
	svc := newTestService(store)
	customer := models.Actor{ID: "cust1", Role: models.RoleCustomer}
	provider := models.Actor{ID: "prov1", Role: models.RoleProvider}

	booking, err := svc.CreateBooking(context.Background(), validInput(), customer)
	require.NoError(t, err)
	payment, err := svc.InitiatePayment(context.Background(), booking.ID, "", customer)
	require.NoError(t, err)

	// Gateway confirms payment, moving the pair to CONFIRMED/COMPLETED.
	confirmed := models.BookingConfirmed
	completed := models.PaymentCompleted
	_, err = svc.Reconciler.Apply(context.Background(), reconcile.TransitionRequest{
		BookingID:            booking.ID,
		PaymentID:            payment.ID,
		BookingStatus:        &confirmed,
		PaymentStatus:        &completed,
		Actor:                models.GatewayActor(),
		Cause:                "webhook:invoice.paid",
		GatewayTransactionID: "tx1",
	})
	require.NoError(t, err)

	// The provider works the booking to completion.
	_, err = svc.ChangeStatus(context.Background(), booking.ID, models.BookingInProgress, provider)
	require.NoError(t, err)
	result, err := svc.ChangeStatus(context.Background(), booking.ID, models.BookingCompleted, provider)
	require.NoError(t, err)
	assert.Equal(t, models.BookingCompleted, result.Booking.Status)
	assert.NotNil(t, result.Booking.CompletedAt)

	// Terminal: no further human transition is accepted.
	_, err = svc.ChangeStatus(context.Background(), booking.ID, models.BookingCancelled, customer)
	require.ErrorIs(t, err, reconcile.ErrInvalidTransition)
}
