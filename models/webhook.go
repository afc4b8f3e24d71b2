package models

// GatewayEvent is the JSON body of an inbound payment gateway notification.
// Deliveries are at-least-once and may arrive duplicated or out of order.
type GatewayEvent struct {
	ID      string           `json:"id"`
	Event   string           `json:"event"`
	Created string           `json:"created"`
	Data    GatewayEventData `json:"data"`
}

// GatewayEventData carries the gateway transaction and its correlation id.
type GatewayEventData struct {
	ID         string  `json:"id"`          // Gateway-assigned transaction id
	ExternalID string  `json:"external_id"` // "PREFIX-{bookingId}-{paymentId}"
	Amount     float64 `json:"amount,omitempty"`
	Status     string  `json:"status,omitempty"`
}
