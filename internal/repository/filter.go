package repository

import (
	"time"

	"transaction_api/internal/domain"

	"go.mongodb.org/mongo-driver/bson"
)

// MaxTransactionsLimit caps every listing page.
const MaxTransactionsLimit = 1000

// transactionSort is the fixed listing order: most recent business timestamp first.
var transactionSort = bson.D{{Key: "timestamp", Value: -1}}

// filterField describes one optional filter field: when present reports whether
// the input carries it, clause produces the value stored under name.
type filterField struct {
	name    string
	present func(in *domain.TransactionsFilter) bool
	clause  func(in *domain.TransactionsFilter) any
}

// Scalar fields apply only when set to a non-empty value. Ownership fields
// apply whenever they are set, including the empty string.
var filterFields = []filterField{
	{
		name:    "type",
		present: func(in *domain.TransactionsFilter) bool { return in.Type != nil && *in.Type != "" },
		clause:  func(in *domain.TransactionsFilter) any { return *in.Type },
	},
	{
		name:    "subType",
		present: func(in *domain.TransactionsFilter) bool { return in.SubType != nil && *in.SubType != "" },
		clause:  func(in *domain.TransactionsFilter) any { return *in.SubType },
	},
	{
		name:    "status",
		present: func(in *domain.TransactionsFilter) bool { return in.Status != nil && *in.Status != "" },
		clause:  func(in *domain.TransactionsFilter) any { return *in.Status },
	},
	{
		name:    "asset",
		present: func(in *domain.TransactionsFilter) bool { return in.Asset != nil && *in.Asset != "" },
		clause:  func(in *domain.TransactionsFilter) any { return *in.Asset },
	},
	{
		name:    "assetType",
		present: func(in *domain.TransactionsFilter) bool { return in.AssetType != nil && *in.AssetType != "" },
		clause:  func(in *domain.TransactionsFilter) any { return *in.AssetType },
	},
	{
		name:    "externalId",
		present: func(in *domain.TransactionsFilter) bool { return in.ExternalID != nil && *in.ExternalID != "" },
		clause:  func(in *domain.TransactionsFilter) any { return *in.ExternalID },
	},
	{
		name:    "timestamp",
		present: hasTimestampRange,
		clause:  timestampClause,
	},
	{
		name:    "companyId",
		present: func(in *domain.TransactionsFilter) bool { return in.CompanyID != nil },
		clause:  func(in *domain.TransactionsFilter) any { return *in.CompanyID },
	},
	{
		name:    "userId",
		present: func(in *domain.TransactionsFilter) bool { return in.UserID != nil },
		clause:  func(in *domain.TransactionsFilter) any { return *in.UserID },
	},
	{
		name:    "walletId",
		present: func(in *domain.TransactionsFilter) bool { return in.WalletID != nil },
		clause:  func(in *domain.TransactionsFilter) any { return *in.WalletID },
	},
}

func hasExactTimestamp(in *domain.TransactionsFilter) bool {
	return in.Timestamp != nil && *in.Timestamp != 0
}

func hasStartDate(in *domain.TransactionsFilter) bool {
	return in.StartDate != nil && !in.StartDate.IsZero()
}

func hasEndDate(in *domain.TransactionsFilter) bool {
	return in.EndDate != nil && !in.EndDate.IsZero()
}

func hasTimestampRange(in *domain.TransactionsFilter) bool {
	return hasExactTimestamp(in) || hasStartDate(in) || hasEndDate(in)
}

func timestampClause(in *domain.TransactionsFilter) any {
	clause := bson.M{}
	if hasExactTimestamp(in) {
		clause["$eq"] = time.Unix(*in.Timestamp, 0).UTC()
	}
	if hasStartDate(in) {
		clause["$gte"] = in.StartDate.UTC()
	}
	if hasEndDate(in) {
		clause["$lte"] = in.EndDate.UTC()
	}
	return clause
}

// BuildFilter translates a sparse listing filter into a Mongo filter document.
// A nil filter matches everything.
func BuildFilter(in *domain.TransactionsFilter) bson.M {
	filter := bson.M{}
	if in == nil {
		return filter
	}
	for _, f := range filterFields {
		if f.present(in) {
			filter[f.name] = f.clause(in)
		}
	}
	return filter
}

// Paginate resolves the skip and limit of a listing page. A missing or zero
// limit means the maximum page size.
func Paginate(skip, limit *int32) (int64, int64) {
	var s int64
	if skip != nil && *skip > 0 {
		s = int64(*skip)
	}

	l := int64(MaxTransactionsLimit)
	if limit != nil && *limit > 0 && int64(*limit) < l {
		l = int64(*limit)
	}

	return s, l
}
