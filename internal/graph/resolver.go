// Package graph is the resolver layer: every root field checks its
// authorization rule and then makes exactly one repository call.
package graph

import (
	"context"
	_ "embed"
	"log/slog"

	"transaction_api/internal/auth"
	"transaction_api/internal/domain"
	"transaction_api/internal/logger"
	"transaction_api/internal/metrics"

	graphql "github.com/graph-gophers/graphql-go"
)

//go:embed schema.graphql
var schemaSDL string

// TransactionStore is the repository surface the resolvers use.
type TransactionStore interface {
	List(ctx context.Context, filter *domain.TransactionsFilter, skip, limit *int32) (*domain.TransactionPage, error)
	FindByID(ctx context.Context, id string) (*domain.Transaction, error)
	Create(ctx context.Context, in *domain.CreateTransactionInput) (*domain.Transaction, error)
	Update(ctx context.Context, id string, in *domain.UpdateTransactionInput) (*domain.Transaction, error)
	Delete(ctx context.Context, id string) error
}

type Authorizer interface {
	Check(ctx context.Context, req auth.Request) error
}

type Resolver struct {
	store  TransactionStore
	shield Authorizer
	logger *slog.Logger
}

func NewResolver(store TransactionStore, shield Authorizer, log *slog.Logger) *Resolver {
	return &Resolver{store: store, shield: shield, logger: log}
}

// NewSchema parses the embedded SDL against r. It panics on a mismatch
// between the SDL and the resolver types.
func NewSchema(r *Resolver) *graphql.Schema {
	return graphql.MustParseSchema(schemaSDL, r, graphql.MaxDepth(12))
}

// SDL returns the schema definition served by this subgraph.
func SDL() string {
	return schemaSDL
}

// done records the outcome of op and logs unexpected failures.
func (r *Resolver) done(ctx context.Context, op string, err error) error {
	outcome := "ok"
	if err != nil {
		switch domain.CodeOf(err) {
		case domain.Forbidden:
			outcome = "denied"
		case domain.NotFound:
			outcome = "not_found"
		default:
			outcome = "error"
			logger.WithContext(ctx, r.logger).Error("operation failed", "operation", op, "error", err)
		}
	}
	metrics.Operations.WithLabelValues(op, outcome).Inc()
	return err
}

func (r *Resolver) Transactions(ctx context.Context, args struct {
	Skip  *NonNegativeInt
	Limit *NonNegativeInt
	Input *transactionsInput
}) (*pageResolver, error) {
	if err := r.shield.Check(ctx, auth.Request{Operation: auth.OpTransactions}); err != nil {
		return nil, r.done(ctx, auth.OpTransactions, err)
	}

	page, err := r.store.List(ctx, args.Input.toFilter(), args.Skip.int32Ptr(), args.Limit.int32Ptr())
	if err != nil {
		return nil, r.done(ctx, auth.OpTransactions, err)
	}
	r.done(ctx, auth.OpTransactions, nil)
	return &pageResolver{page: page}, nil
}

func (r *Resolver) TransactionByID(ctx context.Context, args struct{ ID graphql.ID }) (*transactionResolver, error) {
	req := auth.Request{Operation: auth.OpTransactionByID, ID: string(args.ID)}
	if err := r.shield.Check(ctx, req); err != nil {
		return nil, r.done(ctx, req.Operation, err)
	}

	tx, err := r.store.FindByID(ctx, string(args.ID))
	if err != nil {
		return nil, r.done(ctx, req.Operation, err)
	}
	r.done(ctx, req.Operation, nil)
	return newTransactionResolver(tx), nil
}

// MyTransactions lists the caller's transactions. The ownership fields of the
// filter always come from the caller identity; without one nothing is listed.
func (r *Resolver) MyTransactions(ctx context.Context, args struct {
	Skip  *NonNegativeInt
	Limit *NonNegativeInt
	Input *myTransactionsInput
}) (*pageResolver, error) {
	if err := r.shield.Check(ctx, auth.Request{Operation: auth.OpMyTransactions}); err != nil {
		return nil, r.done(ctx, auth.OpMyTransactions, err)
	}

	caller := domain.IdentityFromContext(ctx)
	if caller == nil {
		return nil, r.done(ctx, auth.OpMyTransactions, domain.ErrNotAuthorized)
	}
	filter := scopeToCaller(args.Input.toFilter(), caller)

	page, err := r.store.List(ctx, filter, args.Skip.int32Ptr(), args.Limit.int32Ptr())
	if err != nil {
		return nil, r.done(ctx, auth.OpMyTransactions, err)
	}
	r.done(ctx, auth.OpMyTransactions, nil)
	return &pageResolver{page: page}, nil
}

func (r *Resolver) MyTransactionByID(ctx context.Context, args struct{ ID graphql.ID }) (*transactionResolver, error) {
	req := auth.Request{Operation: auth.OpMyTransactionByID, ID: string(args.ID)}
	if err := r.shield.Check(ctx, req); err != nil {
		return nil, r.done(ctx, req.Operation, err)
	}

	tx, err := r.store.FindByID(ctx, string(args.ID))
	if err != nil {
		return nil, r.done(ctx, req.Operation, err)
	}
	r.done(ctx, req.Operation, nil)
	return newTransactionResolver(tx), nil
}

func (r *Resolver) CreateTransaction(ctx context.Context, args struct{ Input createTransactionInput }) (*transactionPayloadResolver, error) {
	if err := r.shield.Check(ctx, auth.Request{Operation: auth.OpCreateTransaction}); err != nil {
		return nil, r.done(ctx, auth.OpCreateTransaction, err)
	}

	tx, err := r.store.Create(ctx, args.Input.toDomain())
	if err != nil {
		return nil, r.done(ctx, auth.OpCreateTransaction, err)
	}
	r.done(ctx, auth.OpCreateTransaction, nil)
	return &transactionPayloadResolver{tx: tx}, nil
}

func (r *Resolver) UpdateTransaction(ctx context.Context, args struct {
	ID    graphql.ID
	Input updateTransactionInput
}) (*transactionPayloadResolver, error) {
	req := auth.Request{Operation: auth.OpUpdateTransaction, ID: string(args.ID)}
	if err := r.shield.Check(ctx, req); err != nil {
		return nil, r.done(ctx, req.Operation, err)
	}

	existing, err := r.store.FindByID(ctx, string(args.ID))
	if err != nil {
		return nil, r.done(ctx, req.Operation, err)
	}
	if existing == nil {
		return nil, r.done(ctx, req.Operation, domain.ErrTransactionMissing)
	}

	tx, err := r.store.Update(ctx, string(args.ID), args.Input.toDomain())
	if err != nil {
		return nil, r.done(ctx, req.Operation, err)
	}
	r.done(ctx, req.Operation, nil)
	return &transactionPayloadResolver{tx: tx}, nil
}

func (r *Resolver) DeleteTransaction(ctx context.Context, args struct{ ID graphql.ID }) (*deletePayloadResolver, error) {
	req := auth.Request{Operation: auth.OpDeleteTransaction, ID: string(args.ID)}
	if err := r.shield.Check(ctx, req); err != nil {
		return nil, r.done(ctx, req.Operation, err)
	}

	existing, err := r.store.FindByID(ctx, string(args.ID))
	if err != nil {
		return nil, r.done(ctx, req.Operation, err)
	}
	if existing == nil {
		return nil, r.done(ctx, req.Operation, domain.ErrTransactionMissing)
	}

	if err := r.store.Delete(ctx, string(args.ID)); err != nil {
		return nil, r.done(ctx, req.Operation, err)
	}
	r.done(ctx, req.Operation, nil)
	return &deletePayloadResolver{id: args.ID}, nil
}

func scopeToCaller(filter *domain.TransactionsFilter, caller *domain.Identity) *domain.TransactionsFilter {
	scoped := filter.Clone()
	companyID, userID := caller.CompanyID, caller.UserID
	scoped.CompanyID = &companyID
	scoped.UserID = &userID
	return scoped
}
