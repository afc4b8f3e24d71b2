package models

import "time"

// PaymentStatus is the lifecycle state of a payment. Transitions are
// monotonic: PENDING -> {COMPLETED, FAILED, CANCELLED}, and COMPLETED ->
// REFUNDED through the refund workflow only.
type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "PENDING"
	PaymentCompleted PaymentStatus = "COMPLETED"
	PaymentFailed    PaymentStatus = "FAILED"
	PaymentCancelled PaymentStatus = "CANCELLED"
	PaymentRefunded  PaymentStatus = "REFUNDED"
)

// Payment is the monetary transaction record for a booking (1:1). Its status
// is the authoritative signal for whether money has moved.
type Payment struct {
	ID                   string        `bson:"id" json:"id"`
	BookingID            string        `bson:"booking_id" json:"booking_id"`
	Amount               float64       `bson:"amount" json:"amount"`
	Method               string        `bson:"method" json:"method"` // e.g. "invoice", "card"
	Status               PaymentStatus `bson:"status" json:"status"`
	ExternalID           string        `bson:"external_id" json:"external_id"`                                         // Correlation id handed to the gateway
	GatewayTransactionID string        `bson:"gateway_transaction_id,omitempty" json:"gateway_transaction_id,omitempty"` // Gateway-assigned, unique per transaction
	PaidAt               *time.Time    `bson:"paid_at,omitempty" json:"paid_at,omitempty"`
	RefundAmount         float64       `bson:"refund_amount,omitempty" json:"refund_amount,omitempty"` // Requested refund amount, recorded for audit
	RefundReason         string        `bson:"refund_reason,omitempty" json:"refund_reason,omitempty"`
	CreatedAt            time.Time     `bson:"created_at" json:"created_at"`
	UpdatedAt            time.Time     `bson:"updated_at" json:"updated_at"`
}
