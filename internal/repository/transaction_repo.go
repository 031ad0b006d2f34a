package repository

import (
	"context"
	"log/slog"
	"time"

	"transaction_api/internal/broker"
	"transaction_api/internal/cache"
	"transaction_api/internal/domain"
	"transaction_api/internal/logger"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/sync/errgroup"
)

// Routing designations of the events published on every mutation.
const (
	RoutingKeyTransactionCreated = "transaction-api.transaction.created"
	RoutingKeyTransactionUpdated = "transaction-api.transaction.updated"
	RoutingKeyTransactionDeleted = "transaction-api.transaction.deleted"
)

// TransactionRepository is the only reader and writer of transactions. Every
// mutation publishes the persisted document and is logged.
type TransactionRepository struct {
	coll      Collection
	cache     cache.Cache
	publisher broker.Publisher
	logger    *slog.Logger
	now       func() time.Time
}

type Option func(*TransactionRepository)

// WithClock replaces time.Now for createdAt/updatedAt stamps.
func WithClock(now func() time.Time) Option {
	return func(r *TransactionRepository) { r.now = now }
}

func NewTransactionRepository(coll Collection, c cache.Cache, publisher broker.Publisher, log *slog.Logger, opts ...Option) *TransactionRepository {
	if c == nil {
		c = cache.Noop{}
	}
	r := &TransactionRepository{
		coll:      coll,
		cache:     c,
		publisher: publisher,
		logger:    log,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// stamp returns the current time at the precision the store keeps.
func (r *TransactionRepository) stamp() time.Time {
	return r.now().UTC().Truncate(time.Millisecond)
}

// nextUpdatedAt is the current stamp, or one millisecond past prev when two
// writes land in the same millisecond.
func (r *TransactionRepository) nextUpdatedAt(prev time.Time) time.Time {
	now := r.stamp()
	if floor := prev.UTC().Add(time.Millisecond); now.Before(floor) {
		return floor
	}
	return now
}

// List returns one page of the transactions matching filter, most recent
// first, with the size of the whole match set. Count and page use the same
// predicate.
func (r *TransactionRepository) List(ctx context.Context, filter *domain.TransactionsFilter, skip, limit *int32) (*domain.TransactionPage, error) {
	query := BuildFilter(filter)
	s, l := Paginate(skip, limit)

	var (
		total int64
		items []*domain.Transaction
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		n, err := r.coll.CountDocuments(gctx, query)
		total = n
		return err
	})
	g.Go(func() error {
		found, err := r.coll.Find(gctx, query, FindOptions{Sort: transactionSort, Skip: s, Limit: l})
		items = found
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &domain.TransactionPage{TotalCount: total, Items: items}, nil
}

// FindByID returns the transaction or nil when there is none. Ids that are
// not valid ObjectIDs can never match and are reported as absent.
func (r *TransactionRepository) FindByID(ctx context.Context, id string) (*domain.Transaction, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, nil
	}

	if tx, ok := r.cache.Get(ctx, id); ok {
		return tx, nil
	}

	tx, err := r.coll.FindByID(ctx, oid)
	if err != nil {
		return nil, err
	}
	if tx != nil {
		r.cache.Set(ctx, tx)
	}
	return tx, nil
}

// Create inserts a new transaction. A duplicate of the compound unique key
// fails with the store's duplicate key error.
func (r *TransactionRepository) Create(ctx context.Context, in *domain.CreateTransactionInput) (*domain.Transaction, error) {
	now := r.stamp()
	doc := &domain.Transaction{
		ID:                    primitive.NewObjectID(),
		CompanyID:             in.CompanyID,
		UserID:                in.UserID,
		WalletID:              in.WalletID,
		Status:                in.Status,
		Timestamp:             in.Timestamp.UTC(),
		Asset:                 in.Asset,
		AssetType:             in.AssetType,
		Type:                  in.Type,
		SubType:               in.SubType,
		Amount:                in.Amount,
		EuroAmount:            in.EuroAmount,
		ExternalID:            in.ExternalID,
		Fee:                   in.Fee,
		Destination:           in.Destination,
		Comment:               in.Comment,
		AnnualPercentageYield: in.AnnualPercentageYield,
		SourceAddress:         in.SourceAddress,
		CreatedAt:             now,
		UpdatedAt:             now,
	}

	if err := r.coll.InsertOne(ctx, doc); err != nil {
		return nil, err
	}

	tx, err := r.coll.FindByID(ctx, doc.ID)
	if err != nil {
		return nil, err
	}

	if err := r.publisher.Publish(ctx, broker.Message{RoutingKey: RoutingKeyTransactionCreated, Payload: tx}); err != nil {
		return nil, err
	}

	logger.WithContext(ctx, r.logger).Info("transaction created", "transaction", tx)
	return tx, nil
}

// Update applies the fields set in in and advances updatedAt past its stored
// value. A transaction that is gone before or during the write is reported
// as missing and publishes nothing.
func (r *TransactionRepository) Update(ctx context.Context, id string, in *domain.UpdateTransactionInput) (*domain.Transaction, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrTransactionMissing
	}

	current, err := r.coll.FindByID(ctx, oid)
	if err != nil {
		return nil, err
	}
	if current == nil {
		return nil, domain.ErrTransactionMissing
	}

	set := updateSet(in)
	set["updatedAt"] = r.nextUpdatedAt(current.UpdatedAt)

	if err := r.coll.UpdateByID(ctx, oid, set); err != nil {
		return nil, err
	}

	r.cache.Invalidate(ctx, id)

	tx, err := r.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if tx == nil {
		return nil, domain.ErrTransactionMissing
	}

	if err := r.publisher.Publish(ctx, broker.Message{RoutingKey: RoutingKeyTransactionUpdated, Payload: tx}); err != nil {
		return nil, err
	}

	logger.WithContext(ctx, r.logger).Info("transaction updated", "transaction", tx)
	return tx, nil
}

// Delete removes the transaction and publishes the snapshot read just before
// the delete. It does not check existence; a missing transaction produces an
// event with a null payload.
func (r *TransactionRepository) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.ErrTransactionMissing
	}

	tx, err := r.FindByID(ctx, id)
	if err != nil {
		return err
	}

	if err := r.coll.DeleteByID(ctx, oid); err != nil {
		return err
	}

	r.cache.Invalidate(ctx, id)

	if err := r.publisher.Publish(ctx, broker.Message{RoutingKey: RoutingKeyTransactionDeleted, Payload: tx}); err != nil {
		return err
	}

	logger.WithContext(ctx, r.logger).Info("transaction deleted", "transaction", tx)
	return nil
}

func updateSet(in *domain.UpdateTransactionInput) bson.M {
	set := bson.M{}
	if in == nil {
		return set
	}
	if in.CompanyID != nil {
		set["companyId"] = *in.CompanyID
	}
	if in.UserID != nil {
		set["userId"] = *in.UserID
	}
	if in.WalletID != nil {
		set["walletId"] = *in.WalletID
	}
	if in.Status != nil {
		set["status"] = *in.Status
	}
	if in.Timestamp != nil {
		set["timestamp"] = in.Timestamp.UTC()
	}
	if in.Asset != nil {
		set["asset"] = *in.Asset
	}
	if in.AssetType != nil {
		set["assetType"] = *in.AssetType
	}
	if in.Type != nil {
		set["type"] = *in.Type
	}
	if in.SubType != nil {
		set["subType"] = *in.SubType
	}
	if in.Amount != nil {
		set["amount"] = *in.Amount
	}
	if in.EuroAmount != nil {
		set["euroAmount"] = *in.EuroAmount
	}
	if in.ExternalID != nil {
		set["externalId"] = *in.ExternalID
	}
	if in.Fee != nil {
		set["fee"] = *in.Fee
	}
	if in.Destination != nil {
		set["destination"] = *in.Destination
	}
	if in.Comment != nil {
		set["comment"] = *in.Comment
	}
	if in.AnnualPercentageYield != nil {
		set["annualPercentageYield"] = *in.AnnualPercentageYield
	}
	if in.SourceAddress != nil {
		set["sourceAddress"] = *in.SourceAddress
	}
	return set
}
