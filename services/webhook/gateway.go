package webhook

import (
	"context"
	"fmt"
	"time"

	"jasaku/models"
	"jasaku/services/reconcile"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// jointTarget is the joint state a gateway event maps to.
type jointTarget struct {
	payment models.PaymentStatus
	booking models.BookingStatus
}

// eventTargets is the fixed mapping from gateway event names to target joint
// states. Events absent from this table are acknowledged no-ops so the
// gateway does not retry them indefinitely.
var eventTargets = map[string]jointTarget{
	"invoice.paid":    {payment: models.PaymentCompleted, booking: models.BookingConfirmed},
	"invoice.expired": {payment: models.PaymentCancelled, booking: models.BookingCancelled},
	"invoice.failed":  {payment: models.PaymentFailed, booking: models.BookingCancelled},
}

// Result is what the webhook endpoint returns for an accepted delivery.
type Result struct {
	Message       string               `json:"message"`
	ExternalID    string               `json:"external_id,omitempty"`
	Event         string               `json:"event"`
	PaymentStatus models.PaymentStatus `json:"payment_status,omitempty"`
	BookingStatus models.BookingStatus `json:"booking_status,omitempty"`
}

// Service converts inbound gateway notifications into reconciliation
// requests. Deliveries are at-least-once; processing must be idempotent.
type Service interface {
	Process(ctx context.Context, token string, event models.GatewayEvent) (*Result, error)
}

// DefaultService is the production ingestion gateway. The callback token and
// external id prefix are injected at construction, not read ambiently.
type DefaultService struct {
	CallbackToken string
	Prefix        string
	Engine        reconcile.Reconciler
	Dedupe        *redis.Client // optional fast-path dedupe; state compare stays authoritative
	Logger        *zap.Logger
}

const dedupeTTL = 24 * time.Hour

// Process runs authentication, shape validation, correlation parsing, event
// mapping and idempotent delegation to the reconciliation engine.
func (s *DefaultService) Process(ctx context.Context, token string, event models.GatewayEvent) (*Result, error) {
	if s.CallbackToken != "" && token != s.CallbackToken {
		return nil, ErrInvalidToken
	}

	if event.Event == "" || event.Data.ID == "" || event.Data.ExternalID == "" {
		return nil, fmt.Errorf("%w: event name, transaction id and external id are required", ErrMalformedEvent)
	}

	bookingID, paymentID, err := models.ParseExternalID(s.Prefix, event.Data.ExternalID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedExternalID, err)
	}

	target, mapped := eventTargets[event.Event]
	if !mapped {
		s.Logger.Info("ignoring unmapped gateway event",
			zap.String("event", event.Event), zap.String("transactionId", event.Data.ID))
		return &Result{
			Message:    fmt.Sprintf("event %s acknowledged without processing", event.Event),
			ExternalID: event.Data.ExternalID,
			Event:      event.Event,
		}, nil
	}

	if res := s.replayFastPath(ctx, event, bookingID, paymentID); res != nil {
		return res, nil
	}

	result, err := s.Engine.Apply(ctx, reconcile.TransitionRequest{
		BookingID:            bookingID,
		PaymentID:            paymentID,
		BookingStatus:        &target.booking,
		PaymentStatus:        &target.payment,
		Actor:                models.GatewayActor(),
		Cause:                "webhook:" + event.Event,
		GatewayTransactionID: event.Data.ID,
	})
	if err != nil {
		return nil, err
	}

	s.markSeen(ctx, event.Data.ID)

	message := "event processed"
	if !result.Changed {
		message = "event already applied"
	}
	out := &Result{
		Message:       message,
		ExternalID:    event.Data.ExternalID,
		Event:         event.Event,
		BookingStatus: result.Booking.Status,
	}
	if result.Payment != nil {
		out.PaymentStatus = result.Payment.Status
	}
	return out, nil
}

// replayFastPath short-circuits deliveries whose transaction id was already
// processed, without taking the booking lock. Redis errors degrade to a miss.
func (s *DefaultService) replayFastPath(ctx context.Context, event models.GatewayEvent, bookingID, paymentID string) *Result {
	if s.Dedupe == nil {
		return nil
	}
	seen, err := s.Dedupe.Exists(ctx, dedupeKey(event.Data.ID)).Result()
	if err != nil {
		s.Logger.Warn("webhook dedupe lookup failed", zap.Error(err))
		return nil
	}
	if seen == 0 {
		return nil
	}

	// Replay confirmed: report current state without re-applying.
	result, err := s.Engine.Apply(ctx, reconcile.TransitionRequest{
		BookingID: bookingID,
		PaymentID: paymentID,
		Actor:     models.GatewayActor(),
		Cause:     "webhook:" + event.Event,
	})
	if err != nil {
		s.Logger.Warn("webhook replay readback failed", zap.Error(err))
		return nil
	}
	out := &Result{
		Message:       "event already applied",
		ExternalID:    event.Data.ExternalID,
		Event:         event.Event,
		BookingStatus: result.Booking.Status,
	}
	if result.Payment != nil {
		out.PaymentStatus = result.Payment.Status
	}
	return out
}

func (s *DefaultService) markSeen(ctx context.Context, transactionID string) {
	if s.Dedupe == nil {
		return
	}
	if err := s.Dedupe.Set(ctx, dedupeKey(transactionID), 1, dedupeTTL).Err(); err != nil {
		s.Logger.Warn("webhook dedupe store failed", zap.Error(err))
	}
}

func dedupeKey(transactionID string) string {
	return "webhook:txn:" + transactionID
}
