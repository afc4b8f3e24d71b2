package events

import (
	"context"
	"encoding/json"
	"fmt"

	"jasaku/config"
	"jasaku/models"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

const TypeBookingStateChanged = "booking:state_changed"

// AsynqPublisher enqueues BookingStateChanged events for the notification
// worker. Implements reconcile.EventPublisher.
type AsynqPublisher struct {
	client *asynq.Client
	logger *zap.Logger
}

// NewAsynqPublisher creates a publisher over the events Redis DB.
func NewAsynqPublisher(logger *zap.Logger) *AsynqPublisher {
	client := asynq.NewClient(asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisEventsDB,
	})
	return &AsynqPublisher{client: client, logger: logger}
}

// Publish enqueues the event. The reconciliation engine treats failures as
// log-only; a lost event never rolls back a committed transition.
func (p *AsynqPublisher) Publish(ctx context.Context, evt models.BookingStateChanged) error {
	payload, err := json.Marshal(evt)
	if err != nil {
		return fmt.Errorf("failed to marshal booking state change: %w", err)
	}

	task := asynq.NewTask(TypeBookingStateChanged, payload)
	if _, err := p.client.EnqueueContext(ctx, task, asynq.MaxRetry(5)); err != nil {
		return fmt.Errorf("failed to enqueue booking state change: %w", err)
	}

	p.logger.Debug("booking state change enqueued",
		zap.String("bookingId", evt.BookingID),
		zap.String("to", string(evt.To)),
	)
	return nil
}

// Close releases the underlying asynq client.
func (p *AsynqPublisher) Close() error {
	return p.client.Close()
}
