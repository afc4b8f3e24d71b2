package repository

import (
	"context"
	"sync"
	"time"

	"jasaku/models"
)

// MemoryStore is an in-memory implementation of BookingRepository,
// PaymentRepository and ReconciliationStore. Used by tests and local
// development without a MongoDB instance.
type MemoryStore struct {
	mu       sync.Mutex
	bookings map[string]models.Booking
	payments map[string]models.Payment
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		bookings: make(map[string]models.Booking),
		payments: make(map[string]models.Payment),
	}
}

func (m *MemoryStore) CreateBooking(_ context.Context, booking *models.Booking) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := time.Now()
	booking.CreatedAt = now
	booking.UpdatedAt = now
	m.bookings[booking.ID] = *booking
	return nil
}

func (m *MemoryStore) GetBookingByID(_ context.Context, id string) (*models.Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	b, ok := m.bookings[id]
	if !ok {
		return nil, ErrBookingNotFound
	}
	return &b, nil
}

func (m *MemoryStore) CreateForBooking(_ context.Context, payment *models.Payment) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	b, ok := m.bookings[payment.BookingID]
	if !ok {
		return ErrBookingNotFound
	}
	if b.PaymentID != "" {
		return ErrPaymentAlreadyExists
	}

	now := time.Now()
	payment.CreatedAt = now
	payment.UpdatedAt = now
	m.payments[payment.ID] = *payment

	b.PaymentID = payment.ID
	b.UpdatedAt = now
	m.bookings[b.ID] = b
	return nil
}

func (m *MemoryStore) GetPaymentByID(_ context.Context, id string) (*models.Payment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	p, ok := m.payments[id]
	if !ok {
		return nil, ErrPaymentNotFound
	}
	return &p, nil
}

func (m *MemoryStore) GetJoint(_ context.Context, bookingID string) (*JointSnapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	b, ok := m.bookings[bookingID]
	if !ok {
		return nil, ErrBookingNotFound
	}
	snap := &JointSnapshot{Booking: b}
	if b.PaymentID != "" {
		p, ok := m.payments[b.PaymentID]
		if !ok {
			return nil, ErrPaymentNotFound
		}
		snap.Payment = &p
	}
	return snap, nil
}

func (m *MemoryStore) ApplyJointUpdate(_ context.Context, update JointUpdate) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := time.Now()

	// Validate both preconditions before touching either record so the
	// update stays all-or-nothing.
	var booking models.Booking
	if update.ToBooking != nil {
		b, ok := m.bookings[update.BookingID]
		if !ok || b.Status != update.FromBooking {
			return ErrStaleState
		}
		booking = b
	}
	var payment models.Payment
	if update.ToPayment != nil {
		p, ok := m.payments[update.PaymentID]
		if !ok || p.Status != update.FromPayment {
			return ErrStaleState
		}
		payment = p
	}

	if update.ToBooking != nil {
		booking.Status = *update.ToBooking
		booking.UpdatedAt = now
		if update.CompletedAt != nil {
			booking.CompletedAt = update.CompletedAt
		}
		m.bookings[booking.ID] = booking
	}

	if update.ToPayment != nil {
		payment.Status = *update.ToPayment
		payment.UpdatedAt = now
		if update.GatewayTransactionID != "" {
			payment.GatewayTransactionID = update.GatewayTransactionID
		}
		if update.PaidAt != nil {
			payment.PaidAt = update.PaidAt
		}
		if update.RefundAmount != nil {
			payment.RefundAmount = *update.RefundAmount
			payment.RefundReason = update.RefundReason
		}
		m.payments[payment.ID] = payment
	}

	return nil
}
