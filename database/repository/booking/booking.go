package bookingRepo

import (
	"jasaku/database"

	"go.mongodb.org/mongo-driver/mongo"
)

// MongoBookingRepo is the MongoDB-backed booking repository.
type MongoBookingRepo struct {
	coll *mongo.Collection
}

// NewMongoBookingRepo returns a repository bound to the bookings collection.
func NewMongoBookingRepo() *MongoBookingRepo {
	coll := database.MongoClient.Database(database.DatabaseName).Collection("bookings")
	return &MongoBookingRepo{coll: coll}
}
