// Package auth evaluates the authorization rules that gate every operation.
// Rules are plain functions composed with short-circuiting And/Or, so a rule
// placed after IsAuthenticated never runs for anonymous callers.
package auth

import (
	"context"

	"transaction_api/internal/domain"
)

// Decision is the outcome of a rule. Reason is internal and never shown to
// the caller.
type Decision struct {
	Allowed bool
	Reason  string
}

func Allow() Decision { return Decision{Allowed: true} }

func Deny(reason string) Decision { return Decision{Reason: reason} }

// Request is what a rule sees of the operation besides the caller identity,
// which is read from the context.
type Request struct {
	Operation string
	ID        string
}

type Rule func(ctx context.Context, req Request) (Decision, error)

// And allows when every rule allows, stopping at the first deny or error.
func And(rules ...Rule) Rule {
	return func(ctx context.Context, req Request) (Decision, error) {
		for _, rule := range rules {
			d, err := rule(ctx, req)
			if err != nil || !d.Allowed {
				return d, err
			}
		}
		return Allow(), nil
	}
}

// Or allows on the first allowing rule. Errors stop the evaluation.
func Or(rules ...Rule) Rule {
	return func(ctx context.Context, req Request) (Decision, error) {
		last := Deny("no rule allowed")
		for _, rule := range rules {
			d, err := rule(ctx, req)
			if err != nil {
				return d, err
			}
			if d.Allowed {
				return d, nil
			}
			last = d
		}
		return last, nil
	}
}

// DenyAll is the fallback for operations without a rule.
func DenyAll(context.Context, Request) (Decision, error) {
	return Deny("no rule for operation"), nil
}

func IsAuthenticated(ctx context.Context, _ Request) (Decision, error) {
	if domain.IdentityFromContext(ctx) == nil {
		return Deny("not authenticated"), nil
	}
	return Allow(), nil
}

func hasRole(role string) Rule {
	return func(ctx context.Context, _ Request) (Decision, error) {
		id := domain.IdentityFromContext(ctx)
		if id == nil || id.Role != role {
			return Deny("role is not " + role), nil
		}
		return Allow(), nil
	}
}

var (
	IsAdmin   = hasRole(domain.RoleAdmin)
	IsService = hasRole(domain.RoleService)
)

// TransactionFinder is the lookup the ownership rule needs.
type TransactionFinder interface {
	FindByID(ctx context.Context, id string) (*domain.Transaction, error)
}

// IsTransactionOwner allows when the requested transaction belongs to the
// caller: both userId and companyId must match. Anonymous callers and
// requests without an id are denied before any lookup.
func IsTransactionOwner(finder TransactionFinder) Rule {
	return func(ctx context.Context, req Request) (Decision, error) {
		id := domain.IdentityFromContext(ctx)
		if id == nil || req.ID == "" {
			return Deny("no caller or no id"), nil
		}

		tx, err := finder.FindByID(ctx, req.ID)
		if err != nil {
			return Deny("lookup failed"), err
		}
		if tx == nil {
			return Deny("transaction not found"), nil
		}

		if tx.UserID == id.UserID && tx.CompanyID == id.CompanyID {
			return Allow(), nil
		}
		return Deny("caller does not own transaction"), nil
	}
}
