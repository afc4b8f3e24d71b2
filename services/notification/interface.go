package notification

import (
	"context"

	"jasaku/models"
)

// NotificationService delivers booking state changes to the parties involved.
// Delivery is best effort; a failed push never affects the committed state.
type NotificationService interface {
	NotifyBookingStateChanged(ctx context.Context, evt models.BookingStateChanged) error
}
