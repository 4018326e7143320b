// internal/repository/notifications_mongo.go
package repository

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"lostfound/internal/models"
)

type MongoNotificationRepository struct {
	collection *mongo.Collection
}

func NewMongoNotificationRepository(collection *mongo.Collection) *MongoNotificationRepository {
	return &MongoNotificationRepository{collection: collection}
}

// InsertUnique relies on the partial unique index over (user_id, item_id).
// A duplicate-key error means the recipient was already notified about this
// item, which is the expected outcome of a retried fan-out, not a failure.
func (r *MongoNotificationRepository) InsertUnique(ctx context.Context, n *models.Notification) (bool, error) {
	if n.CreatedAt.IsZero() {
		n.CreatedAt = time.Now()
	}

	result, err := r.collection.InsertOne(ctx, n)
	if mongo.IsDuplicateKeyError(err) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to insert notification: %w", err)
	}
	n.ID = result.InsertedID.(primitive.ObjectID)
	return true, nil
}

func (r *MongoNotificationRepository) ListFor(ctx context.Context, user primitive.ObjectID, listOpts NotificationListOptions) ([]models.Notification, error) {
	filter := bson.M{"user_id": user}
	if listOpts.UnreadOnly {
		filter["is_read"] = false
	}
	if !listOpts.Since.IsZero() {
		filter["created_at"] = bson.M{"$gte": listOpts.Since}
	}

	page := listOpts.Page
	if page < 1 {
		page = 1
	}
	limit := listOpts.Limit
	if limit < 1 || limit > 100 {
		limit = 20
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetSkip(int64((page - 1) * limit)).
		SetLimit(int64(limit))

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query notifications: %w", err)
	}
	defer cursor.Close(ctx)

	var list []models.Notification
	if err := cursor.All(ctx, &list); err != nil {
		return nil, fmt.Errorf("failed to decode notifications: %w", err)
	}
	return list, nil
}

func (r *MongoNotificationRepository) UnreadCount(ctx context.Context, user primitive.ObjectID) (int64, error) {
	count, err := r.collection.CountDocuments(ctx, bson.M{"user_id": user, "is_read": false})
	if err != nil {
		return 0, fmt.Errorf("failed to count notifications: %w", err)
	}
	return count, nil
}

func (r *MongoNotificationRepository) MarkRead(ctx context.Context, id, user primitive.ObjectID) error {
	now := time.Now()
	result, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": id, "user_id": user},
		bson.M{"$set": bson.M{"is_read": true, "is_viewed": true, "read_at": now}},
	)
	if err != nil {
		return fmt.Errorf("failed to mark notification read: %w", err)
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *MongoNotificationRepository) MarkAllRead(ctx context.Context, user primitive.ObjectID) (int64, error) {
	now := time.Now()
	result, err := r.collection.UpdateMany(ctx,
		bson.M{"user_id": user, "is_read": false},
		bson.M{"$set": bson.M{"is_read": true, "is_viewed": true, "read_at": now}},
	)
	if err != nil {
		return 0, fmt.Errorf("failed to mark notifications read: %w", err)
	}
	return result.ModifiedCount, nil
}

func (r *MongoNotificationRepository) ListAll(ctx context.Context) ([]models.Notification, error) {
	cursor, err := r.collection.Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("failed to query notifications: %w", err)
	}
	defer cursor.Close(ctx)

	var list []models.Notification
	if err := cursor.All(ctx, &list); err != nil {
		return nil, fmt.Errorf("failed to decode notifications: %w", err)
	}
	return list, nil
}
