package notification

import (
	"context"
	"fmt"

	"jasaku/models"
	"jasaku/utils"

	"firebase.google.com/go/v4/messaging"
	"go.uber.org/zap"
)

// FCMNotificationService pushes booking state changes over Firebase Cloud
// Messaging. Recipients subscribe to their per-account topic on sign-in, so
// no token storage is needed here.
type FCMNotificationService struct {
	Logger *zap.Logger
}

// NotifyBookingStateChanged sends a push to the customer and the provider of
// the booking. When FCM is not configured the event is logged and dropped.
func (s *FCMNotificationService) NotifyBookingStateChanged(ctx context.Context, evt models.BookingStateChanged) error {
	if utils.FCMClient == nil {
		s.Logger.Info("push notifications disabled, dropping event",
			zap.String("bookingId", evt.BookingID),
			zap.String("to", string(evt.To)),
		)
		return nil
	}

	title := "Booking update"
	body := fmt.Sprintf("Your booking is now %s", evt.To)
	data := map[string]string{
		"bookingId": evt.BookingID,
		"from":      string(evt.From),
		"to":        string(evt.To),
		"cause":     evt.Cause,
	}

	for _, recipient := range []struct{ role, id string }{
		{"user", evt.CustomerID},
		{"provider", evt.ProviderID},
	} {
		msg := &messaging.Message{
			Topic: fmt.Sprintf("%s-%s", recipient.role, recipient.id),
			Notification: &messaging.Notification{
				Title: title,
				Body:  body,
			},
			Data: data,
		}
		if _, err := utils.FCMClient.Send(ctx, msg); err != nil {
			s.Logger.Warn("failed to send booking push",
				zap.String("bookingId", evt.BookingID),
				zap.String("recipient", recipient.id),
				zap.Error(err),
			)
		}
	}
	return nil
}
