package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	overrideerrors "slotsmith/internal/overrides/errors"
	"slotsmith/pkg/config"
	mongotx "slotsmith/pkg/db/mongo"
	"slotsmith/pkg/model"
)

const (
	CollectionName = "Overrides"
)

type OverrideRepository interface {
	Create(ctx context.Context, override *model.Override) (*model.Override, error)
	FindByID(ctx context.Context, id string) (*model.Override, error)
	// FindIntersecting returns every override whose interval overlaps
	// [from, to), ordered by start time.
	FindIntersecting(ctx context.Context, from, to time.Time) ([]*model.Override, error)
	FindAll(ctx context.Context, limit int, offset int64) ([]*model.Override, int64, error)
	Delete(ctx context.Context, id string) error
	DeleteMany(ctx mongo.SessionContext, ids []string) (int64, error)
	InsertMany(ctx mongo.SessionContext, overrides []*model.Override) error
	ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error
}

type mongoOverrideRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
	txManager  mongotx.TransactionManager
}

func NewMongoOverrideRepository(cfg *config.Config) OverrideRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoOverrideRepository{
		cfg:        cfg,
		collection: db.Collection(CollectionName),
		txManager:  mongotx.NewTransactionManager(cfg.Client.Mongo),
	}
}

func (r *mongoOverrideRepository) withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if _, ok := ctx.(mongo.SessionContext); ok {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, timeout)
}

func (r *mongoOverrideRepository) Create(ctx context.Context, override *model.Override) (*model.Override, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	override.CreatedAt = time.Now().UTC().Truncate(time.Millisecond)

	result, err := r.collection.InsertOne(ctx, override)
	if err != nil {
		return nil, fmt.Errorf("failed to insert override: %w", err)
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		override.ID = oid.Hex()
	}
	return override, nil
}

func (r *mongoOverrideRepository) FindByID(ctx context.Context, id string) (*model.Override, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, overrideerrors.ErrInvalidID
	}

	var override model.Override
	err = r.collection.FindOne(ctx, bson.M{"_id": oid}).Decode(&override)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, overrideerrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find override %s: %w", id, err)
	}

	return &override, nil
}

func (r *mongoOverrideRepository) FindIntersecting(ctx context.Context, from, to time.Time) ([]*model.Override, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	// Half-open intervals overlap iff start < to && end > from.
	filter := bson.M{
		"start_time": bson.M{"$lt": to},
		"end_time":   bson.M{"$gt": from},
	}
	opts := options.Find().SetSort(bson.D{{Key: "start_time", Value: 1}})

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find overrides: %w", err)
	}
	defer cursor.Close(ctx)

	var overrides []*model.Override
	if err = cursor.All(ctx, &overrides); err != nil {
		return nil, fmt.Errorf("failed to decode overrides: %w", err)
	}

	return overrides, nil
}

func (r *mongoOverrideRepository) FindAll(ctx context.Context, limit int, offset int64) ([]*model.Override, int64, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	totalCount, err := r.collection.CountDocuments(ctx, bson.M{})
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count overrides: %w", err)
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "start_time", Value: 1}}).
		SetLimit(int64(limit)).
		SetSkip(offset)

	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to find overrides: %w", err)
	}
	defer cursor.Close(ctx)

	var overrides []*model.Override
	if err = cursor.All(ctx, &overrides); err != nil {
		return nil, 0, fmt.Errorf("failed to decode overrides: %w", err)
	}

	return overrides, totalCount, nil
}

func (r *mongoOverrideRepository) Delete(ctx context.Context, id string) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return overrideerrors.ErrInvalidID
	}

	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("failed to delete override %s: %w", id, err)
	}
	if result.DeletedCount == 0 {
		return overrideerrors.ErrNotFound
	}
	return nil
}

func (r *mongoOverrideRepository) DeleteMany(ctx mongo.SessionContext, ids []string) (int64, error) {
	oids := make([]primitive.ObjectID, 0, len(ids))
	for _, id := range ids {
		oid, err := primitive.ObjectIDFromHex(id)
		if err != nil {
			return 0, overrideerrors.ErrInvalidID
		}
		oids = append(oids, oid)
	}

	result, err := r.collection.DeleteMany(ctx, bson.M{"_id": bson.M{"$in": oids}})
	if err != nil {
		return 0, fmt.Errorf("failed to delete overrides: %w", err)
	}
	return result.DeletedCount, nil
}

func (r *mongoOverrideRepository) InsertMany(ctx mongo.SessionContext, overrides []*model.Override) error {
	docs := make([]any, 0, len(overrides))
	now := time.Now().UTC().Truncate(time.Millisecond)
	for _, override := range overrides {
		override.CreatedAt = now
		docs = append(docs, override)
	}

	result, err := r.collection.InsertMany(ctx, docs)
	if err != nil {
		return fmt.Errorf("failed to insert overrides: %w", err)
	}

	for i, insertedID := range result.InsertedIDs {
		if oid, ok := insertedID.(primitive.ObjectID); ok {
			overrides[i].ID = oid.Hex()
		}
	}
	return nil
}

func (r *mongoOverrideRepository) ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error {
	return r.txManager.ExecuteTransaction(ctx, fn)
}
