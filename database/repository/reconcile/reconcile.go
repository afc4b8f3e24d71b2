package reconcileRepo

import (
	"go.mongodb.org/mongo-driver/mongo"

	"jasaku/database"
)

// MongoReconciliationStore implements the atomic read-then-conditional-write
// contract of the reconciliation engine on top of MongoDB sessions.
type MongoReconciliationStore struct {
	bookingColl *mongo.Collection
	paymentColl *mongo.Collection
}

// NewMongoReconciliationStore returns a store over the bookings and payments
// collections.
func NewMongoReconciliationStore() *MongoReconciliationStore {
	db := database.MongoClient.Database(database.DatabaseName)
	return &MongoReconciliationStore{
		bookingColl: db.Collection("bookings"),
		paymentColl: db.Collection("payments"),
	}
}
