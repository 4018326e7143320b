// internal/repository/items_mongo.go
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

type MongoItemRepository struct {
	collection *mongo.Collection
}

func NewMongoItemRepository(collection *mongo.Collection) *MongoItemRepository {
	return &MongoItemRepository{collection: collection}
}

func (r *MongoItemRepository) Insert(ctx context.Context, item *models.Item) error {
	if item.Status == "" {
		item.Status = models.ItemStatusActive
	}
	if item.CreatedAt.IsZero() {
		item.CreatedAt = time.Now()
	}

	result, err := r.collection.InsertOne(ctx, item)
	if err != nil {
		return fmt.Errorf("failed to insert item: %w", err)
	}
	item.ID = result.InsertedID.(primitive.ObjectID)
	return nil
}

func (r *MongoItemRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Item, error) {
	var item models.Item
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&item)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load item: %w", err)
	}
	return &item, nil
}

func (r *MongoItemRepository) ListActive(ctx context.Context, exclude primitive.ObjectID) ([]models.Item, error) {
	filter := bson.M{"status": models.ItemStatusActive}
	if exclude != primitive.NilObjectID {
		filter["_id"] = bson.M{"$ne": exclude}
	}
	return r.list(ctx, filter)
}

func (r *MongoItemRepository) ListAll(ctx context.Context) ([]models.Item, error) {
	return r.list(ctx, bson.M{})
}

func (r *MongoItemRepository) ListByOwner(ctx context.Context, owner primitive.ObjectID) ([]models.Item, error) {
	return r.list(ctx, bson.M{"owner_id": owner})
}

func (r *MongoItemRepository) list(ctx context.Context, filter bson.M) ([]models.Item, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query items: %w", err)
	}
	defer cursor.Close(ctx)

	var items []models.Item
	if err := cursor.All(ctx, &items); err != nil {
		return nil, fmt.Errorf("failed to decode items: %w", err)
	}
	return items, nil
}

func (r *MongoItemRepository) Resolve(ctx context.Context, id, owner primitive.ObjectID) error {
	var item models.Item
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&item)
	if err == mongo.ErrNoDocuments {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to load item: %w", err)
	}
	if item.OwnerID != owner {
		return ErrForbidden
	}

	_, err = r.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{
		"$set": bson.M{"status": models.ItemStatusResolved},
	})
	if err != nil {
		return fmt.Errorf("failed to resolve item: %w", err)
	}
	return nil
}
