package storage

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/grocerybot/backend/internal/domain"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// DefaultCollection matches the collection name the list viewer reads from
const DefaultCollection = "grocery-list"

// MongoStore writes each grocery list as one document
type MongoStore struct {
	client     *mongo.Client
	collection *mongo.Collection
}

// NewMongoStore connects to MongoDB and returns a store bound to database/collection
func NewMongoStore(ctx context.Context, uri, database, collection string) (*MongoStore, error) {
	if collection == "" {
		collection = DefaultCollection
	}

	connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}

	if err := client.Ping(connectCtx, nil); err != nil {
		client.Disconnect(context.Background())
		return nil, fmt.Errorf("ping mongo: %w", err)
	}

	log.Printf("[MONGO] Connected, writing to %s.%s", database, collection)

	return &MongoStore{
		client:     client,
		collection: client.Database(database).Collection(collection),
	}, nil
}

// Save inserts list as a single document
func (s *MongoStore) Save(ctx context.Context, list *domain.GroceryList) (string, error) {
	if list == nil {
		return "", domain.ErrInvalidRequest
	}

	res, err := s.collection.InsertOne(ctx, toDocument(list))
	if err != nil {
		return "", fmt.Errorf("insert grocery list: %w", err)
	}

	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		return oid.Hex(), nil
	}
	return fmt.Sprint(res.InsertedID), nil
}

// Close disconnects the client
func (s *MongoStore) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.client.Disconnect(ctx)
}

// toDocument builds the stored document. Field names follow the original list
// document so existing readers keep working.
func toDocument(list *domain.GroceryList) bson.D {
	items := make(bson.A, 0, len(list.Items))
	for _, item := range list.Items {
		var quantity interface{}
		if item.Quantity != nil {
			quantity = *item.Quantity
		}
		var file interface{}
		if item.File != nil {
			file = *item.File
		}

		items = append(items, bson.D{
			{Key: "name", Value: item.Name},
			{Key: "category", Value: item.Category},
			{Key: "quantity", Value: quantity},
			{Key: "note", Value: item.Note},
			{Key: "taken", Value: item.Taken},
			{Key: "file", Value: file},
			{Key: "pic", Value: item.Pic},
		})
	}

	return bson.D{
		{Key: "grocery_items", Value: items},
		{Key: "grocery_date", Value: primitive.NewDateTimeFromTime(list.Date)},
		{Key: "grocery_amount", Value: list.Amount},
		{Key: "grocery_invoice", Value: list.Invoice},
	}
}
