package repository

import (
	"context"
	"errors"

	"transaction_api/internal/domain"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const TransactionCollectionName = "transactions"

// FindOptions is the read path of a listing: fixed sort, skip and limit.
type FindOptions struct {
	Sort  bson.D
	Skip  int64
	Limit int64
}

// Collection is the persistence port of the transaction repository. It speaks
// the Mongo filter dialect; FindByID returns nil, nil when nothing matches.
type Collection interface {
	Find(ctx context.Context, filter bson.M, opts FindOptions) ([]*domain.Transaction, error)
	CountDocuments(ctx context.Context, filter bson.M) (int64, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (*domain.Transaction, error)
	InsertOne(ctx context.Context, tx *domain.Transaction) error
	UpdateByID(ctx context.Context, id primitive.ObjectID, set bson.M) error
	DeleteByID(ctx context.Context, id primitive.ObjectID) error
}

// TransactionIndexes returns the index set of the transactions collection.
// The compound unique index is what rejects duplicate transactions.
func TransactionIndexes() []mongo.IndexModel {
	return []mongo.IndexModel{
		{
			Keys: bson.D{
				{Key: "companyId", Value: 1},
				{Key: "userId", Value: 1},
				{Key: "walletId", Value: 1},
				{Key: "status", Value: 1},
				{Key: "asset", Value: 1},
				{Key: "assetType", Value: 1},
				{Key: "type", Value: 1},
				{Key: "subType", Value: 1},
				{Key: "externalId", Value: 1},
				{Key: "timestamp", Value: 1},
			},
			Options: options.Index().SetUnique(true).SetName("transaction_composite_unique"),
		},
	}
}

// EnsureTransactionIndexes creates the transaction indexes if they are missing.
func EnsureTransactionIndexes(ctx context.Context, coll *mongo.Collection) error {
	_, err := coll.Indexes().CreateMany(ctx, TransactionIndexes())
	return err
}

type MongoCollection struct {
	coll *mongo.Collection
}

func NewMongoCollection(coll *mongo.Collection) *MongoCollection {
	return &MongoCollection{coll: coll}
}

func (c *MongoCollection) Find(ctx context.Context, filter bson.M, opts FindOptions) ([]*domain.Transaction, error) {
	findOpts := options.Find().
		SetSort(opts.Sort).
		SetSkip(opts.Skip).
		SetLimit(opts.Limit)

	cur, err := c.coll.Find(ctx, filter, findOpts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	items := make([]*domain.Transaction, 0)
	for cur.Next(ctx) {
		var tx domain.Transaction
		if err := cur.Decode(&tx); err != nil {
			return nil, err
		}
		items = append(items, &tx)
	}

	return items, cur.Err()
}

func (c *MongoCollection) CountDocuments(ctx context.Context, filter bson.M) (int64, error) {
	return c.coll.CountDocuments(ctx, filter)
}

func (c *MongoCollection) FindByID(ctx context.Context, id primitive.ObjectID) (*domain.Transaction, error) {
	var tx domain.Transaction
	err := c.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&tx)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, err
	}
	return &tx, nil
}

func (c *MongoCollection) InsertOne(ctx context.Context, tx *domain.Transaction) error {
	_, err := c.coll.InsertOne(ctx, tx)
	return err
}

func (c *MongoCollection) UpdateByID(ctx context.Context, id primitive.ObjectID, set bson.M) error {
	_, err := c.coll.UpdateByID(ctx, id, bson.M{"$set": set})
	return err
}

func (c *MongoCollection) DeleteByID(ctx context.Context, id primitive.ObjectID) error {
	_, err := c.coll.DeleteOne(ctx, bson.M{"_id": id})
	return err
}
