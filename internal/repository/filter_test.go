package repository

import (
	"testing"
	"time"

	"transaction_api/internal/domain"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson"
)

func strPtr(s string) *string { return &s }

func int32Ptr(n int32) *int32 { return &n }

func TestBuildFilterEmpty(t *testing.T) {
	assert.Equal(t, bson.M{}, BuildFilter(nil))
	assert.Equal(t, bson.M{}, BuildFilter(&domain.TransactionsFilter{}))
}

func TestBuildFilterScalarsSkipEmptyValues(t *testing.T) {
	typ := domain.TransactionTypeDeposit
	empty := domain.TransactionStatus("")
	in := &domain.TransactionsFilter{
		Type:       &typ,
		Status:     &empty,
		Asset:      strPtr(""),
		ExternalID: strPtr("ext-1"),
	}

	assert.Equal(t, bson.M{
		"type":       domain.TransactionTypeDeposit,
		"externalId": "ext-1",
	}, BuildFilter(in))
}

func TestBuildFilterOwnershipAppliesWhenSet(t *testing.T) {
	in := &domain.TransactionsFilter{
		CompanyID: strPtr(""),
		UserID:    strPtr("u1"),
		WalletID:  strPtr("w1"),
	}

	assert.Equal(t, bson.M{
		"companyId": "",
		"userId":    "u1",
		"walletId":  "w1",
	}, BuildFilter(in))
}

func TestBuildFilterTimestampRange(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC)

	got := BuildFilter(&domain.TransactionsFilter{StartDate: &start, EndDate: &end})

	assert.Equal(t, bson.M{"timestamp": bson.M{"$gte": start, "$lte": end}}, got)
}

func TestBuildFilterExactTimestamp(t *testing.T) {
	ts := int64(1700000000)
	start := time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)

	got := BuildFilter(&domain.TransactionsFilter{Timestamp: &ts, StartDate: &start})

	assert.Equal(t, bson.M{"timestamp": bson.M{
		"$eq":  time.Unix(ts, 0).UTC(),
		"$gte": start,
	}}, got)
}

func TestBuildFilterZeroTimestampIgnored(t *testing.T) {
	zero := int64(0)
	var zeroTime time.Time

	got := BuildFilter(&domain.TransactionsFilter{Timestamp: &zero, StartDate: &zeroTime})

	assert.NotContains(t, got, "timestamp")
}

func TestPaginate(t *testing.T) {
	cases := []struct {
		name              string
		skip, limit       *int32
		wantSkip, wantLim int64
	}{
		{"defaults", nil, nil, 0, MaxTransactionsLimit},
		{"zero limit means max", int32Ptr(0), int32Ptr(0), 0, MaxTransactionsLimit},
		{"below cap", int32Ptr(20), int32Ptr(10), 20, 10},
		{"at cap", nil, int32Ptr(1000), 0, 1000},
		{"above cap", nil, int32Ptr(5000), 0, MaxTransactionsLimit},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s, l := Paginate(tc.skip, tc.limit)
			assert.Equal(t, tc.wantSkip, s)
			assert.Equal(t, tc.wantLim, l)
			assert.LessOrEqual(t, l, int64(MaxTransactionsLimit))
		})
	}
}
