package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// Collection names.
const (
	UsersCollection = "users"
	PostsCollection = "posts"
)

// connectTimeout bounds the initial connect and ping.
const connectTimeout = 10 * time.Second

// Connect opens a client for uri, verifies it with a ping and returns the
// named database. The caller owns the client and must Disconnect it.
func Connect(ctx context.Context, uri, dbName string) (*mongo.Client, *mongo.Database, error) {
	ctx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}

	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, nil, fmt.Errorf("failed to ping mongodb: %w", err)
	}

	return client, client.Database(dbName), nil
}

// EnsureIndexes creates the unique email index on users and the createdAt
// index on posts. Existing identical indexes are left alone.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection(UsersCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true).SetName("users_email_key"),
	})
	if err != nil {
		return fmt.Errorf("failed to create users email index: %w", err)
	}

	_, err = db.Collection(PostsCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "createdAt", Value: -1}},
		Options: options.Index().SetName("posts_created_at_idx"),
	})
	if err != nil {
		return fmt.Errorf("failed to create posts createdAt index: %w", err)
	}

	return nil
}
