package database

import (
	"context"
	"fmt"
	"time"

	"github.com/Dias221467/Language_Exchange/internal/config"
	"github.com/Dias221467/Language_Exchange/internal/repository"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const connectTimeout = 10 * time.Second

// ConnectDB opens a client, pings the primary and returns the configured
// database. Callers disconnect the returned client on shutdown.
func ConnectDB(ctx context.Context, cfg *config.Config) (*mongo.Client, *mongo.Database, error) {
	ctx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}

	logrus.WithField("database", cfg.DBName).Info("Connected to MongoDB")
	return client, client.Database(cfg.DBName), nil
}

// EnsureIndexes creates the indexes the repositories rely on for uniqueness.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection(repository.UsersCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true).SetName("uniq_email"),
	})
	if err != nil {
		return fmt.Errorf("failed to create users index: %w", err)
	}

	_, err = db.Collection(repository.FriendRequestsCollection).Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "pairKey", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("uniq_pair"),
		},
		{
			Keys:    bson.D{{Key: "recipient", Value: 1}, {Key: "status", Value: 1}},
			Options: options.Index().SetName("recipient_status"),
		},
		{
			Keys:    bson.D{{Key: "sender", Value: 1}, {Key: "status", Value: 1}},
			Options: options.Index().SetName("sender_status"),
		},
	})
	if err != nil {
		return fmt.Errorf("failed to create friend request indexes: %w", err)
	}

	logrus.Info("MongoDB indexes ensured")
	return nil
}
