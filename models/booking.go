package models

import "time"

// BookingStatus is the lifecycle state of a booking.
type BookingStatus string

const (
	BookingPending    BookingStatus = "PENDING"
	BookingConfirmed  BookingStatus = "CONFIRMED"
	BookingInProgress BookingStatus = "IN_PROGRESS"
	BookingCompleted  BookingStatus = "COMPLETED"
	BookingCancelled  BookingStatus = "CANCELLED"
)

// Booking represents a scheduled engagement between a customer and a provider.
type Booking struct {
	ID          string        `bson:"id" json:"id"`                                         // Unique booking identifier (UUID)
	ServiceID   string        `bson:"service_id" json:"service_id"`                         // Service being booked
	CustomerID  string        `bson:"customer_id" json:"customer_id"`                       // Customer who made the booking
	ProviderID  string        `bson:"provider_id" json:"provider_id"`                       // Provider who was booked
	ScheduledAt time.Time     `bson:"scheduled_at" json:"scheduled_at"`                     // When the service is scheduled
	TotalAmount float64       `bson:"total_amount" json:"total_amount"`                     // Agreed total price
	Status      BookingStatus `bson:"status" json:"status"`                                 // Current lifecycle state
	PaymentID   string        `bson:"payment_id,omitempty" json:"payment_id,omitempty"`     // Linked payment, set once payment is initiated
	ReviewID    string        `bson:"review_id,omitempty" json:"review_id,omitempty"`       // Linked review, set after completion
	CompletedAt *time.Time    `bson:"completed_at,omitempty" json:"completed_at,omitempty"` // When the service was completed
	CreatedAt   time.Time     `bson:"created_at" json:"created_at"`
	UpdatedAt   time.Time     `bson:"updated_at" json:"updated_at"`
}
