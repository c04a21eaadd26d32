package repositories

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// EnsureIndexes creates the indexes the repositories rely on. Unique email and
// phone indexes back the registration conflict check under concurrent sign-ups.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	if _, err := db.Collection(usersCollection).Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "phone", Value: 1}}, Options: options.Index().SetUnique(true)},
	}); err != nil {
		return fmt.Errorf("user indexes: %w", err)
	}
	if _, err := db.Collection(ordersCollection).Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "created_at", Value: -1}}},
		{Keys: bson.D{{Key: "created_at", Value: -1}}},
	}); err != nil {
		return fmt.Errorf("order indexes: %w", err)
	}
	if _, err := db.Collection(productsCollection).Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "category", Value: 1}}},
		{Keys: bson.D{{Key: "created_at", Value: -1}}},
	}); err != nil {
		return fmt.Errorf("product indexes: %w", err)
	}
	return nil
}
