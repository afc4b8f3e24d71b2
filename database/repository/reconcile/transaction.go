package reconcileRepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"jasaku/database/repository"
	"jasaku/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// GetJoint loads a booking together with its linked payment, if any.
func (s *MongoReconciliationStore) GetJoint(ctx context.Context, bookingID string) (*repository.JointSnapshot, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var booking models.Booking
	err := s.bookingColl.FindOne(ctx, bson.M{"id": bookingID}).Decode(&booking)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, repository.ErrBookingNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch booking %s: %w", bookingID, err)
	}

	snap := &repository.JointSnapshot{Booking: booking}
	if booking.PaymentID == "" {
		return snap, nil
	}

	var payment models.Payment
	err = s.paymentColl.FindOne(ctx, bson.M{"id": booking.PaymentID}).Decode(&payment)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, repository.ErrPaymentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch payment %s: %w", booking.PaymentID, err)
	}
	snap.Payment = &payment
	return snap, nil
}

// ApplyJointUpdate commits the booking and payment status writes inside one
// transaction. Each write is conditional on the status the caller read; a
// MatchedCount of zero on either side aborts with ErrStaleState so the engine
// can surface a conflict instead of committing against stale preconditions.
func (s *MongoReconciliationStore) ApplyJointUpdate(ctx context.Context, update repository.JointUpdate) error {
	client := s.bookingColl.Database().Client()
	sess, err := client.StartSession()
	if err != nil {
		return fmt.Errorf("could not start mongo session: %w", err)
	}
	defer sess.EndSession(ctx)

	now := time.Now()

	txnFn := func(sc mongo.SessionContext) error {
		if update.ToBooking != nil {
			filter := bson.M{"id": update.BookingID, "status": update.FromBooking}
			set := bson.M{"status": *update.ToBooking, "updated_at": now}
			if update.CompletedAt != nil {
				set["completed_at"] = *update.CompletedAt
			}

			res, err := s.bookingColl.UpdateOne(sc, filter, bson.M{"$set": set})
			if err != nil {
				return fmt.Errorf("booking status update failed: %w", err)
			}
			if res.MatchedCount == 0 {
				return repository.ErrStaleState
			}
		}

		if update.ToPayment != nil {
			filter := bson.M{"id": update.PaymentID, "status": update.FromPayment}
			set := bson.M{"status": *update.ToPayment, "updated_at": now}
			if update.GatewayTransactionID != "" {
				set["gateway_transaction_id"] = update.GatewayTransactionID
			}
			if update.PaidAt != nil {
				set["paid_at"] = *update.PaidAt
			}
			if update.RefundAmount != nil {
				set["refund_amount"] = *update.RefundAmount
				set["refund_reason"] = update.RefundReason
			}

			res, err := s.paymentColl.UpdateOne(sc, filter, bson.M{"$set": set})
			if err != nil {
				return fmt.Errorf("payment status update failed: %w", err)
			}
			if res.MatchedCount == 0 {
				return repository.ErrStaleState
			}
		}

		return nil
	}

	if err := mongo.WithSession(ctx, sess, func(sc mongo.SessionContext) error {
		if err := sc.StartTransaction(); err != nil {
			return err
		}
		if err := txnFn(sc); err != nil {
			_ = sc.AbortTransaction(sc)
			return err
		}
		return sc.CommitTransaction(sc)
	}); err != nil {
		if errors.Is(err, repository.ErrStaleState) {
			return repository.ErrStaleState
		}
		return fmt.Errorf("joint status transaction failed: %w", err)
	}

	return nil
}
