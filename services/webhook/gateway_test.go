package webhook

import (
	"context"
	"testing"

	"jasaku/database/repository"
	"jasaku/models"
	"jasaku/services/reconcile"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestGateway(t *testing.T, token string) (*DefaultService, *repository.MemoryStore) {
	t.Helper()
	store := repository.NewMemoryStore()
	engine := reconcile.NewReconciler(store, nil, zap.NewNop())
	svc := &DefaultService{
		CallbackToken: token,
		Prefix:        "JASAKU",
		Engine:        engine,
		Logger:        zap.NewNop(),
	}
	return svc, store
}

func seedPayableBooking(t *testing.T, store *repository.MemoryStore, bookingID, paymentID string) {
	t.Helper()
	ctx := context.Background()

	booking := models.Booking{
		ID:          bookingID,
		ServiceID:   "svc1",
		CustomerID:  "cust1",
		ProviderID:  "prov1",
		TotalAmount: 150000,
		Status:      models.BookingPending,
	}
	require.NoError(t, store.CreateBooking(ctx, &booking))

	payment := models.Payment{
		ID:         paymentID,
		BookingID:  bookingID,
		Amount:     booking.TotalAmount,
		Method:     "invoice",
		Status:     models.PaymentPending,
		ExternalID: models.BuildExternalID("JASAKU", bookingID, paymentID),
	}
	require.NoError(t, store.CreateForBooking(ctx, &payment))
}

func paidEvent(txnID, externalID string) models.GatewayEvent {
	return models.GatewayEvent{
		ID:    "evt1",
		Event: "invoice.paid",
		Data:  models.GatewayEventData{ID: txnID, ExternalID: externalID},
	}
}

func TestProcessInvoicePaid(t *testing.T) {
	svc, store := newTestGateway(t, "")
	seedPayableBooking(t, store, "bkg123", "pay456")

	result, err := svc.Process(context.Background(), "", paidEvent("tx789", "JASAKU-bkg123-pay456"))
	require.NoError(t, err)
	assert.Equal(t, models.PaymentCompleted, result.PaymentStatus)
	assert.Equal(t, models.BookingConfirmed, result.BookingStatus)
	assert.Equal(t, "JASAKU-bkg123-pay456", result.ExternalID)
	assert.Equal(t, "invoice.paid", result.Event)

	snap, err := store.GetJoint(context.Background(), "bkg123")
	require.NoError(t, err)
	assert.Equal(t, models.BookingConfirmed, snap.Booking.Status)
	assert.Equal(t, models.PaymentCompleted, snap.Payment.Status)
	assert.Equal(t, "tx789", snap.Payment.GatewayTransactionID)
}

func TestProcessEventTable(t *testing.T) {
	tests := []struct {
		event       string
		wantPayment models.PaymentStatus
		wantBooking models.BookingStatus
	}{
		{"invoice.paid", models.PaymentCompleted, models.BookingConfirmed},
		{"invoice.expired", models.PaymentCancelled, models.BookingCancelled},
		{"invoice.failed", models.PaymentFailed, models.BookingCancelled},
	}

	for _, tt := range tests {
		t.Run(tt.event, func(t *testing.T) {
			svc, store := newTestGateway(t, "")
			seedPayableBooking(t, store, "bkg1", "pay1")

			evt := paidEvent("tx1", "JASAKU-bkg1-pay1")
			evt.Event = tt.event
			result, err := svc.Process(context.Background(), "", evt)
			require.NoError(t, err)
			assert.Equal(t, tt.wantPayment, result.PaymentStatus)
			assert.Equal(t, tt.wantBooking, result.BookingStatus)
		})
	}
}

func TestProcessReplayIsNoOp(t *testing.T) {
	svc, store := newTestGateway(t, "")
	seedPayableBooking(t, store, "bkg1", "pay1")

	evt := paidEvent("tx1", "JASAKU-bkg1-pay1")
	first, err := svc.Process(context.Background(), "", evt)
	require.NoError(t, err)
	assert.Equal(t, "event processed", first.Message)

	for i := 0; i < 3; i++ {
		replay, err := svc.Process(context.Background(), "", evt)
		require.NoError(t, err)
		assert.Equal(t, "event already applied", replay.Message)
		assert.Equal(t, models.PaymentCompleted, replay.PaymentStatus)
		assert.Equal(t, models.BookingConfirmed, replay.BookingStatus)
	}
}

func TestProcessRejectsBadToken(t *testing.T) {
	svc, store := newTestGateway(t, "secret")
	seedPayableBooking(t, store, "bkg1", "pay1")

	_, err := svc.Process(context.Background(), "wrong", paidEvent("tx1", "JASAKU-bkg1-pay1"))
	require.ErrorIs(t, err, ErrInvalidToken)

	// Nothing was touched.
	snap, err := store.GetJoint(context.Background(), "bkg1")
	require.NoError(t, err)
	assert.Equal(t, models.BookingPending, snap.Booking.Status)
	assert.Equal(t, models.PaymentPending, snap.Payment.Status)
}

func TestProcessTokenCheckDisabledWhenUnconfigured(t *testing.T) {
	svc, store := newTestGateway(t, "")
	seedPayableBooking(t, store, "bkg1", "pay1")

	_, err := svc.Process(context.Background(), "anything", paidEvent("tx1", "JASAKU-bkg1-pay1"))
	require.NoError(t, err)

	snap, err := store.GetJoint(context.Background(), "bkg1")
	require.NoError(t, err)
	assert.Equal(t, models.BookingConfirmed, snap.Booking.Status)
}

func TestProcessRejectsMalformedEvent(t *testing.T) {
	svc, _ := newTestGateway(t, "")

	tests := []models.GatewayEvent{
		{Event: "", Data: models.GatewayEventData{ID: "tx1", ExternalID: "JASAKU-b-p"}},
		{Event: "invoice.paid", Data: models.GatewayEventData{ID: "", ExternalID: "JASAKU-b-p"}},
		{Event: "invoice.paid", Data: models.GatewayEventData{ID: "tx1", ExternalID: ""}},
	}
	for _, evt := range tests {
		_, err := svc.Process(context.Background(), "", evt)
		require.ErrorIs(t, err, ErrMalformedEvent)
	}
}

func TestProcessRejectsMalformedExternalID(t *testing.T) {
	svc, store := newTestGateway(t, "")
	seedPayableBooking(t, store, "bkg1", "pay1")

	_, err := svc.Process(context.Background(), "", paidEvent("tx1", "JASAKU-bkg1pay1"))
	require.ErrorIs(t, err, ErrMalformedExternalID)

	// Zero mutation on rejection.
	snap, err := store.GetJoint(context.Background(), "bkg1")
	require.NoError(t, err)
	assert.Equal(t, models.BookingPending, snap.Booking.Status)
	assert.Equal(t, models.PaymentPending, snap.Payment.Status)
}

func TestProcessMalformedExternalIDBeatsUnknownEvent(t *testing.T) {
	svc, _ := newTestGateway(t, "")

	// Correlation parsing happens before the event map lookup, so a bad
	// external id is rejected even on an event this service does not map.
	evt := paidEvent("tx1", "garbage")
	evt.Event = "invoice.something_else"
	_, err := svc.Process(context.Background(), "", evt)
	require.ErrorIs(t, err, ErrMalformedExternalID)
}

func TestProcessAcknowledgesUnknownEvent(t *testing.T) {
	svc, store := newTestGateway(t, "")
	seedPayableBooking(t, store, "bkg1", "pay1")

	evt := paidEvent("tx1", "JASAKU-bkg1-pay1")
	evt.Event = "invoice.something_else"
	result, err := svc.Process(context.Background(), "", evt)
	require.NoError(t, err)
	assert.Contains(t, result.Message, "invoice.something_else")
	assert.Empty(t, result.PaymentStatus)

	snap, err := store.GetJoint(context.Background(), "bkg1")
	require.NoError(t, err)
	assert.Equal(t, models.BookingPending, snap.Booking.Status)
	assert.Equal(t, models.PaymentPending, snap.Payment.Status)
}

func TestProcessUnknownBooking(t *testing.T) {
	svc, _ := newTestGateway(t, "")

	_, err := svc.Process(context.Background(), "", paidEvent("tx1", "JASAKU-ghost-pay1"))
	require.ErrorIs(t, err, reconcile.ErrNotFound)
}
