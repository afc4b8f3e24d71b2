package models

import "time"

// BookingStateChanged is emitted after every committed booking transition.
// Consumed by the notification worker; delivery is fire-and-forget.
type BookingStateChanged struct {
	BookingID  string        `json:"booking_id"`
	CustomerID string        `json:"customer_id"`
	ProviderID string        `json:"provider_id"`
	From       BookingStatus `json:"from"`
	To         BookingStatus `json:"to"`
	Cause      string        `json:"cause"` // e.g. "actor:CUSTOMER", "webhook:invoice.paid", "refund"
	OccurredAt time.Time     `json:"occurred_at"`
}
