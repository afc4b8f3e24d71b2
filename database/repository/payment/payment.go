package paymentRepo

import (
	"go.mongodb.org/mongo-driver/mongo"

	"jasaku/database"
)

// MongoPaymentRepo is the MongoDB-backed payment repository.
type MongoPaymentRepo struct {
	coll        *mongo.Collection
	bookingColl *mongo.Collection
}

// NewMongoPaymentRepo returns a repository bound to the payments collection.
func NewMongoPaymentRepo() *MongoPaymentRepo {
	db := database.MongoClient.Database(database.DatabaseName)
	return &MongoPaymentRepo{
		coll:        db.Collection("payments"),
		bookingColl: db.Collection("bookings"),
	}
}
