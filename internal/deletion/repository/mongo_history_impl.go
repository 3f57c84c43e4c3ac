package repository

import (
	"context"
	"time"

	"so4tdelete/internal/deletion/model"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoHistoryRepository implements HistoryRepository using MongoDB
type MongoHistoryRepository struct {
	Collection *mongo.Collection
	client     *mongo.Client
}

// NewMongoHistoryRepository creates a new MongoHistoryRepository
func NewMongoHistoryRepository(db *mongo.Database, collectionName string) *MongoHistoryRepository {
	return &MongoHistoryRepository{
		Collection: db.Collection(collectionName),
		client:     db.Client(),
	}
}

// ConnectMongoHistoryRepository dials uri and opens the history collection.
func ConnectMongoHistoryRepository(ctx context.Context, uri, dbName, collectionName string) (*MongoHistoryRepository, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, err
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}
	return NewMongoHistoryRepository(client.Database(dbName), collectionName), nil
}

// EnsureHistoryIndexes creates indexes for efficient querying
func (r *MongoHistoryRepository) EnsureHistoryIndexes(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		// One run, in batch order
		{
			Keys: bson.D{
				{Key: "run_id", Value: 1},
				{Key: "batch_index", Value: 1},
			},
			Options: options.Index().SetName("idx_run_batch"),
		},
		// Per site, newest first
		{
			Keys: bson.D{
				{Key: "base_url", Value: 1},
				{Key: "created_at", Value: -1},
			},
			Options: options.Index().SetName("idx_site_created_at"),
		},
		{
			Keys:    bson.D{{Key: "created_at", Value: -1}},
			Options: options.Index().SetName("idx_created_at"),
		},
	}

	_, err := r.Collection.Indexes().CreateMany(ctx, indexes)
	return err
}

// CreateHistory creates a new history record (append-only)
func (r *MongoHistoryRepository) CreateHistory(ctx context.Context, history *model.DeletionHistory) error {
	if history.ID == "" {
		history.ID = uuid.NewString()
	}
	if history.CreatedAt.IsZero() {
		history.CreatedAt = time.Now()
	}
	_, err := r.Collection.InsertOne(ctx, history)
	return err
}

// FindHistory finds history records, newest first
func (r *MongoHistoryRepository) FindHistory(ctx context.Context, filter model.HistoryFilter) ([]*model.DeletionHistory, error) {
	if err := filter.Validate(); err != nil {
		return nil, err
	}

	query := bson.M{}
	if filter.RunID != "" {
		query["run_id"] = filter.RunID
	}
	if filter.BaseURL != "" {
		query["base_url"] = filter.BaseURL
	}

	findOptions := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "batch_index", Value: -1}}).
		SetLimit(int64(filter.Limit))

	cursor, err := r.Collection.Find(ctx, query, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var results []*model.DeletionHistory
	if err := cursor.All(ctx, &results); err != nil {
		return nil, err
	}
	return results, nil
}

func (r *MongoHistoryRepository) Close(ctx context.Context) error {
	if r.client == nil {
		return nil
	}
	return r.client.Disconnect(ctx)
}
