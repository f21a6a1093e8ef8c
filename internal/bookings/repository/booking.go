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

	bookingerrors "slotsmith/internal/bookings/errors"
	"slotsmith/pkg/config"
	mongotx "slotsmith/pkg/db/mongo"
	"slotsmith/pkg/model"
)

const (
	CollectionName = "Bookings"
)

type BookingRepository interface {
	// Create inserts the booking. A partial unique index on slot_time over
	// non-cancelled bookings turns concurrent inserts for the same instant
	// into ErrSlotTaken.
	Create(ctx context.Context, booking *model.Booking) (*model.Booking, error)
	FindByID(ctx context.Context, id string) (*model.Booking, error)
	// FindActiveInWindow returns pending and confirmed bookings with
	// slot_time in [from, to), ordered by slot_time.
	FindActiveInWindow(ctx context.Context, from, to time.Time) ([]*model.Booking, error)
	// FindAll lists bookings, optionally filtered by status and a
	// [from, to) slot-time window (zero times mean unbounded).
	FindAll(ctx context.Context, filter ListFilter, limit int, offset int64) ([]*model.Booking, int64, error)
	UpdateStatus(ctx context.Context, id, status string) (*model.Booking, error)
	UpdateSlot(ctx context.Context, id string, slotTime time.Time) (*model.Booking, error)
	ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error
}

type mongoBookingRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
	txManager  mongotx.TransactionManager
}

func NewMongoBookingRepository(cfg *config.Config) BookingRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoBookingRepository{
		cfg:        cfg,
		collection: db.Collection(CollectionName),
		txManager:  mongotx.NewTransactionManager(cfg.Client.Mongo),
	}
}

func (r *mongoBookingRepository) withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if _, ok := ctx.(mongo.SessionContext); ok {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, timeout)
}

func (r *mongoBookingRepository) Create(ctx context.Context, booking *model.Booking) (*model.Booking, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	now := time.Now().UTC().Truncate(time.Millisecond)
	booking.CreatedAt = now
	booking.UpdatedAt = now

	result, err := r.collection.InsertOne(ctx, booking)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, bookingerrors.ErrSlotTaken
		}
		return nil, fmt.Errorf("failed to insert booking: %w", err)
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		booking.ID = oid.Hex()
	}
	return booking, nil
}

func (r *mongoBookingRepository) FindByID(ctx context.Context, id string) (*model.Booking, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, bookingerrors.ErrInvalidID
	}

	var booking model.Booking
	err = r.collection.FindOne(ctx, bson.M{"_id": oid}).Decode(&booking)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, bookingerrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find booking %s: %w", id, err)
	}

	return &booking, nil
}

func (r *mongoBookingRepository) FindActiveInWindow(ctx context.Context, from, to time.Time) ([]*model.Booking, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	filter := bson.M{
		"slot_time": bson.M{"$gte": from, "$lt": to},
		"status":    bson.M{"$in": []string{config.Pending, config.Confirmed}},
	}
	opts := options.Find().SetSort(bson.D{{Key: "slot_time", Value: 1}})

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find bookings in window: %w", err)
	}
	defer cursor.Close(ctx)

	var bookings []*model.Booking
	if err = cursor.All(ctx, &bookings); err != nil {
		return nil, fmt.Errorf("failed to decode bookings: %w", err)
	}

	return bookings, nil
}

// ListFilter narrows FindAll results.
type ListFilter struct {
	Status string
	From   time.Time
	To     time.Time
}

func (f ListFilter) toBSON() bson.M {
	filter := bson.M{}
	if f.Status != "" {
		filter["status"] = f.Status
	}
	window := bson.M{}
	if !f.From.IsZero() {
		window["$gte"] = f.From
	}
	if !f.To.IsZero() {
		window["$lt"] = f.To
	}
	if len(window) > 0 {
		filter["slot_time"] = window
	}
	return filter
}

func (r *mongoBookingRepository) FindAll(ctx context.Context, listFilter ListFilter, limit int, offset int64) ([]*model.Booking, int64, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	filter := listFilter.toBSON()

	totalCount, err := r.collection.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count bookings: %w", err)
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "slot_time", Value: 1}}).
		SetLimit(int64(limit)).
		SetSkip(offset)

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to find bookings: %w", err)
	}
	defer cursor.Close(ctx)

	var bookings []*model.Booking
	if err = cursor.All(ctx, &bookings); err != nil {
		return nil, 0, fmt.Errorf("failed to decode bookings: %w", err)
	}

	return bookings, totalCount, nil
}

func (r *mongoBookingRepository) UpdateStatus(ctx context.Context, id, status string) (*model.Booking, error) {
	return r.findOneAndUpdate(ctx, id, bson.M{
		"$set": bson.M{
			"status":     status,
			"updated_at": time.Now().UTC().Truncate(time.Millisecond),
		},
	})
}

func (r *mongoBookingRepository) UpdateSlot(ctx context.Context, id string, slotTime time.Time) (*model.Booking, error) {
	return r.findOneAndUpdate(ctx, id, bson.M{
		"$set": bson.M{
			"slot_time":  slotTime,
			"updated_at": time.Now().UTC().Truncate(time.Millisecond),
		},
	})
}

func (r *mongoBookingRepository) findOneAndUpdate(ctx context.Context, id string, update bson.M) (*model.Booking, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, bookingerrors.ErrInvalidID
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var booking model.Booking
	err = r.collection.FindOneAndUpdate(ctx, bson.M{"_id": oid}, update, opts).Decode(&booking)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, bookingerrors.ErrNotFound
		}
		if mongo.IsDuplicateKeyError(err) {
			return nil, bookingerrors.ErrSlotTaken
		}
		return nil, fmt.Errorf("failed to update booking %s: %w", id, err)
	}

	return &booking, nil
}

func (r *mongoBookingRepository) ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error {
	return r.txManager.ExecuteTransaction(ctx, fn)
}
