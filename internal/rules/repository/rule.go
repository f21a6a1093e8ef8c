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

	ruleerrors "slotsmith/internal/rules/errors"
	"slotsmith/pkg/config"
	mongotx "slotsmith/pkg/db/mongo"
	"slotsmith/pkg/model"
)

const (
	CollectionName = "Recurring_rules"
)

type RuleRepository interface {
	FindByWeekday(ctx context.Context, weekday config.Weekday) (*model.RecurringRule, error)
	FindAll(ctx context.Context) ([]*model.RecurringRule, error)
	ReplaceAll(ctx mongo.SessionContext, rules []*model.RecurringRule) error
	ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error
}

type mongoRuleRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
	txManager  mongotx.TransactionManager
}

func NewMongoRuleRepository(cfg *config.Config) RuleRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoRuleRepository{
		cfg:        cfg,
		collection: db.Collection(CollectionName),
		txManager:  mongotx.NewTransactionManager(cfg.Client.Mongo),
	}
}

// withTimeout wraps the context with a timeout unless already inside a
// transaction, where wrapping a SessionContext would break txn semantics.
func (r *mongoRuleRepository) withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if _, ok := ctx.(mongo.SessionContext); ok {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, timeout)
}

func (r *mongoRuleRepository) FindByWeekday(ctx context.Context, weekday config.Weekday) (*model.RecurringRule, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	var rule model.RecurringRule
	err := r.collection.FindOne(ctx, bson.M{"weekday": weekday}).Decode(&rule)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ruleerrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find rule for %s: %w", weekday, err)
	}

	return &rule, nil
}

func (r *mongoRuleRepository) FindAll(ctx context.Context) ([]*model.RecurringRule, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "weekday", Value: 1}})
	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find rules: %w", err)
	}
	defer cursor.Close(ctx)

	var rules []*model.RecurringRule
	if err = cursor.All(ctx, &rules); err != nil {
		return nil, fmt.Errorf("failed to decode rules: %w", err)
	}

	return rules, nil
}

// ReplaceAll swaps the entire weekly template: delete everything, then bulk
// insert. Must run inside a transaction so readers never observe a partial
// template.
func (r *mongoRuleRepository) ReplaceAll(ctx mongo.SessionContext, rules []*model.RecurringRule) error {
	if _, err := r.collection.DeleteMany(ctx, bson.M{}); err != nil {
		return fmt.Errorf("failed to clear recurring rules: %w", err)
	}

	if len(rules) == 0 {
		return nil
	}

	docs := make([]any, 0, len(rules))
	now := time.Now().UTC().Truncate(time.Millisecond)
	for _, rule := range rules {
		rule.CreatedAt = now
		docs = append(docs, rule)
	}

	result, err := r.collection.InsertMany(ctx, docs)
	if err != nil {
		return fmt.Errorf("failed to insert recurring rules: %w", err)
	}

	for i, insertedID := range result.InsertedIDs {
		if oid, ok := insertedID.(primitive.ObjectID); ok {
			rules[i].ID = oid.Hex()
		}
	}
	return nil
}

func (r *mongoRuleRepository) ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error {
	return r.txManager.ExecuteTransaction(ctx, fn)
}
