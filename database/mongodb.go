package database

import (
	"context"
	"log"
	"time"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// MongoClient backs the prescription store.
var MongoClient *mongo.Client

const mongoDatabaseName = "clinicdesk"

// InitMongo connects to MongoDB and verifies the connection.
func InitMongo(ctx context.Context, uri string) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return errors.Wrap(err, "failed to connect to MongoDB")
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		return errors.Wrap(err, "failed to ping MongoDB")
	}

	MongoClient = client
	log.Println("MongoDB connection initialized successfully.")
	return nil
}

// MongoCollection returns a handle in the application database.
func MongoCollection(name string) *mongo.Collection {
	return MongoClient.Database(mongoDatabaseName).Collection(name)
}

// CloseMongo disconnects the client during shutdown.
func CloseMongo(ctx context.Context) {
	if MongoClient == nil {
		return
	}
	if err := MongoClient.Disconnect(ctx); err != nil {
		log.Printf("Failed to disconnect MongoDB client: %v", err)
	}
}
