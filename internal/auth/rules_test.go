package auth

import (
	"context"
	"errors"
	"testing"

	"transaction_api/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingFinder struct {
	tx    *domain.Transaction
	err   error
	calls int
}

func (f *countingFinder) FindByID(context.Context, string) (*domain.Transaction, error) {
	f.calls++
	return f.tx, f.err
}

func as(userID, companyID, role string) context.Context {
	return domain.WithIdentity(context.Background(), &domain.Identity{UserID: userID, CompanyID: companyID, Role: role})
}

func owned(userID, companyID string) *domain.Transaction {
	return &domain.Transaction{UserID: userID, CompanyID: companyID}
}

func TestIsTransactionOwner(t *testing.T) {
	cases := []struct {
		name    string
		ctx     context.Context
		id      string
		tx      *domain.Transaction
		allowed bool
		lookups int
	}{
		{"anonymous", context.Background(), "abc", owned("u1", "c1"), false, 0},
		{"no id", as("u1", "c1", domain.RoleUser), "", owned("u1", "c1"), false, 0},
		{"exact match", as("u1", "c1", domain.RoleUser), "abc", owned("u1", "c1"), true, 1},
		{"other user", as("u1", "c1", domain.RoleUser), "abc", owned("u2", "c1"), false, 1},
		{"other company", as("u1", "c1", domain.RoleUser), "abc", owned("u1", "c2"), false, 1},
		{"missing transaction", as("u1", "c1", domain.RoleUser), "abc", nil, false, 1},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			finder := &countingFinder{tx: tc.tx}
			d, err := IsTransactionOwner(finder)(tc.ctx, Request{Operation: OpMyTransactionByID, ID: tc.id})
			require.NoError(t, err)
			assert.Equal(t, tc.allowed, d.Allowed)
			assert.Equal(t, tc.lookups, finder.calls)
		})
	}
}

func TestIsTransactionOwnerLookupError(t *testing.T) {
	finder := &countingFinder{err: errors.New("store down")}

	d, err := IsTransactionOwner(finder)(as("u1", "c1", domain.RoleUser), Request{ID: "abc"})

	assert.EqualError(t, err, "store down")
	assert.False(t, d.Allowed)
}

func TestAndShortCircuits(t *testing.T) {
	finder := &countingFinder{tx: owned("u1", "c1")}
	rule := And(IsAuthenticated, IsTransactionOwner(finder))

	d, err := rule(context.Background(), Request{ID: "abc"})

	require.NoError(t, err)
	assert.False(t, d.Allowed)
	assert.Zero(t, finder.calls)
}

func TestOrStopsAtFirstAllow(t *testing.T) {
	called := false
	never := func(context.Context, Request) (Decision, error) {
		called = true
		return Deny("unreachable"), nil
	}

	d, err := Or(IsAdmin, never)(as("u1", "c1", domain.RoleAdmin), Request{})

	require.NoError(t, err)
	assert.True(t, d.Allowed)
	assert.False(t, called)
}

func TestRoles(t *testing.T) {
	privileged := And(IsAuthenticated, Or(IsAdmin, IsService))

	cases := []struct {
		ctx  context.Context
		want bool
	}{
		{context.Background(), false},
		{as("u1", "c1", domain.RoleUser), false},
		{as("u1", "c1", domain.RoleAdmin), true},
		{as("svc", "", domain.RoleService), true},
	}

	for _, tc := range cases {
		d, err := privileged(tc.ctx, Request{})
		require.NoError(t, err)
		assert.Equal(t, tc.want, d.Allowed)
	}
}
