package paymentRepo

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

// CreateForBooking inserts the payment and links it to its booking inside one
// transaction. The booking update is conditional on payment_id being unset,
// which enforces the 1:1 booking/payment invariant under concurrent initiation.
func (r *MongoPaymentRepo) CreateForBooking(ctx context.Context, payment *models.Payment) error {
	client := r.coll.Database().Client()
	sess, err := client.StartSession()
	if err != nil {
		return fmt.Errorf("could not start mongo session: %w", err)
	}
	defer sess.EndSession(ctx)

	now := time.Now()
	payment.CreatedAt = now
	payment.UpdatedAt = now

	txnFn := func(sc mongo.SessionContext) error {
		if _, err := r.coll.InsertOne(sc, payment); err != nil {
			return fmt.Errorf("insert payment failed: %w", err)
		}

		filter := bson.M{
			"id": payment.BookingID,
			"$or": bson.A{
				bson.M{"payment_id": bson.M{"$exists": false}},
				bson.M{"payment_id": ""},
			},
		}
		update := bson.M{"$set": bson.M{"payment_id": payment.ID, "updated_at": now}}

		res, err := r.bookingColl.UpdateOne(sc, filter, update)
		if err != nil {
			return fmt.Errorf("link payment to booking failed: %w", err)
		}
		if res.MatchedCount == 0 {
			return repository.ErrPaymentAlreadyExists
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
		if errors.Is(err, repository.ErrPaymentAlreadyExists) {
			return repository.ErrPaymentAlreadyExists
		}
		return fmt.Errorf("payment creation transaction failed: %w", err)
	}

	return nil
}

// GetPaymentByID fetches a payment by its ID.
func (r *MongoPaymentRepo) GetPaymentByID(ctx context.Context, id string) (*models.Payment, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var payment models.Payment
	err := r.coll.FindOne(ctx, bson.M{"id": id}).Decode(&payment)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, repository.ErrPaymentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch payment with id %s: %w", id, err)
	}
	return &payment, nil
}
