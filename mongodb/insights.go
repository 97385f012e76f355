package mongodb

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"goalwise/api/models"
)

// GetInsightRecord returns the user's cached insight record, or nil when
// none has been generated yet.
func GetInsightRecord(ctx context.Context, userID string) (*models.InsightRecord, error) {
	collection := MongoClient.Database(MongoDatabase).Collection(InsightCollection)
	filter := bson.M{"user_id": userID}

	var rec models.InsightRecord
	err := collection.FindOne(ctx, filter).Decode(&rec)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, fmt.Errorf("error getting insight record: %w", err)
	}

	return &rec, nil
}

// UpsertInsightRecord replaces the user's record wholesale. There is no
// optimistic concurrency check; last write wins.
func UpsertInsightRecord(ctx context.Context, rec *models.InsightRecord) error {
	collection := MongoClient.Database(MongoDatabase).Collection(InsightCollection)

	filter := bson.M{"user_id": rec.UserID}
	_, err := collection.ReplaceOne(ctx, filter, rec, options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("error upserting insight record: %w", err)
	}

	return nil
}

// DeleteInsightRecord drops the user's cached insights.
func DeleteInsightRecord(ctx context.Context, userID string) error {
	collection := MongoClient.Database(MongoDatabase).Collection(InsightCollection)

	_, err := collection.DeleteMany(ctx, bson.M{"user_id": userID})
	if err != nil {
		return fmt.Errorf("error deleting insight record: %w", err)
	}
	return nil
}
