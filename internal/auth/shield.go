package auth

import (
	"context"
	"log/slog"

	"transaction_api/internal/domain"
	"transaction_api/internal/logger"
	"transaction_api/internal/metrics"
)

// Operation names of the GraphQL surface.
const (
	OpTransactions      = "transactions"
	OpTransactionByID   = "transactionById"
	OpMyTransactions    = "myTransactions"
	OpMyTransactionByID = "myTransactionById"
	OpCreateTransaction = "createTransaction"
	OpUpdateTransaction = "updateTransaction"
	OpDeleteTransaction = "deleteTransaction"
)

// Shield maps operations to rules.
type Shield struct {
	rules    map[string]Rule
	fallback Rule
	logger   *slog.Logger
}

// NewTransactionShield returns the rule set of the transaction operations.
func NewTransactionShield(finder TransactionFinder, log *slog.Logger) *Shield {
	privileged := And(IsAuthenticated, Or(IsAdmin, IsService))

	return &Shield{
		rules: map[string]Rule{
			OpTransactions:      privileged,
			OpTransactionByID:   privileged,
			OpMyTransactions:    IsAuthenticated,
			OpMyTransactionByID: And(IsAuthenticated, IsTransactionOwner(finder)),
			OpCreateTransaction: privileged,
			OpUpdateTransaction: privileged,
			OpDeleteTransaction: privileged,
		},
		fallback: DenyAll,
		logger:   log,
	}
}

// Check evaluates the rule of req.Operation. A deny becomes ErrNotAuthorized
// whatever the reason; errors raised by a rule are returned as is.
func (s *Shield) Check(ctx context.Context, req Request) error {
	rule, ok := s.rules[req.Operation]
	if !ok {
		rule = s.fallback
	}

	d, err := rule(ctx, req)
	if err != nil {
		return err
	}
	if !d.Allowed {
		metrics.AuthorizationDenied.WithLabelValues(req.Operation).Inc()
		logger.WithContext(ctx, s.logger).Debug("operation denied", "operation", req.Operation, "reason", d.Reason)
		return domain.ErrNotAuthorized
	}
	return nil
}
