package graph

import (
	"time"

	"transaction_api/internal/domain"

	graphql "github.com/graph-gophers/graphql-go"
)

type transactionsInput struct {
	Timestamp  *int32
	StartDate  *Date
	EndDate    *Date
	Type       *string
	SubType    *string
	Status     *string
	Asset      *string
	AssetType  *string
	CompanyID  *graphql.ID
	UserID     *graphql.ID
	WalletID   *graphql.ID
	ExternalID *string
}

func (in *transactionsInput) toFilter() *domain.TransactionsFilter {
	if in == nil {
		return nil
	}
	return &domain.TransactionsFilter{
		Type:       enumPtr[domain.TransactionType](in.Type),
		SubType:    enumPtr[domain.TransactionSubType](in.SubType),
		Status:     enumPtr[domain.TransactionStatus](in.Status),
		Asset:      in.Asset,
		AssetType:  enumPtr[domain.TransactionAssetType](in.AssetType),
		ExternalID: in.ExternalID,
		Timestamp:  int64Ptr(in.Timestamp),
		StartDate:  datePtr(in.StartDate),
		EndDate:    datePtr(in.EndDate),
		CompanyID:  idPtr(in.CompanyID),
		UserID:     idPtr(in.UserID),
		WalletID:   idPtr(in.WalletID),
	}
}

// myTransactionsInput has no ownership fields: the caller's own are used.
type myTransactionsInput struct {
	Timestamp  *int32
	StartDate  *Date
	EndDate    *Date
	Type       *string
	SubType    *string
	Status     *string
	Asset      *string
	AssetType  *string
	ExternalID *string
}

func (in *myTransactionsInput) toFilter() *domain.TransactionsFilter {
	if in == nil {
		return &domain.TransactionsFilter{}
	}
	return &domain.TransactionsFilter{
		Type:       enumPtr[domain.TransactionType](in.Type),
		SubType:    enumPtr[domain.TransactionSubType](in.SubType),
		Status:     enumPtr[domain.TransactionStatus](in.Status),
		Asset:      in.Asset,
		AssetType:  enumPtr[domain.TransactionAssetType](in.AssetType),
		ExternalID: in.ExternalID,
		Timestamp:  int64Ptr(in.Timestamp),
		StartDate:  datePtr(in.StartDate),
		EndDate:    datePtr(in.EndDate),
	}
}

type createTransactionInput struct {
	CompanyID             graphql.ID
	UserID                graphql.ID
	WalletID              graphql.ID
	Status                string
	Timestamp             DateTime
	Asset                 string
	AssetType             string
	Type                  string
	SubType               *string
	Amount                float64
	EuroAmount            float64
	ExternalID            string
	Fee                   float64
	Destination           string
	Comment               *string
	AnnualPercentageYield *int32
	SourceAddress         *string
}

func (in *createTransactionInput) toDomain() *domain.CreateTransactionInput {
	return &domain.CreateTransactionInput{
		CompanyID:             string(in.CompanyID),
		UserID:                string(in.UserID),
		WalletID:              string(in.WalletID),
		Status:                domain.TransactionStatus(in.Status),
		Timestamp:             in.Timestamp.Time,
		Asset:                 in.Asset,
		AssetType:             domain.TransactionAssetType(in.AssetType),
		Type:                  domain.TransactionType(in.Type),
		SubType:               enumPtr[domain.TransactionSubType](in.SubType),
		Amount:                in.Amount,
		EuroAmount:            in.EuroAmount,
		ExternalID:            in.ExternalID,
		Fee:                   in.Fee,
		Destination:           in.Destination,
		Comment:               in.Comment,
		AnnualPercentageYield: in.AnnualPercentageYield,
		SourceAddress:         in.SourceAddress,
	}
}

type updateTransactionInput struct {
	CompanyID             *graphql.ID
	UserID                *graphql.ID
	WalletID              graphql.ID
	Status                *string
	Timestamp             *DateTime
	Asset                 *string
	AssetType             *string
	Type                  *string
	SubType               *string
	Amount                *float64
	EuroAmount            *float64
	ExternalID            *string
	Fee                   *float64
	Destination           *string
	Comment               *string
	AnnualPercentageYield *int32
	SourceAddress         *string
}

func (in *updateTransactionInput) toDomain() *domain.UpdateTransactionInput {
	walletID := string(in.WalletID)
	out := &domain.UpdateTransactionInput{
		CompanyID:             idPtr(in.CompanyID),
		UserID:                idPtr(in.UserID),
		WalletID:              &walletID,
		Status:                enumPtr[domain.TransactionStatus](in.Status),
		Asset:                 in.Asset,
		AssetType:             enumPtr[domain.TransactionAssetType](in.AssetType),
		Type:                  enumPtr[domain.TransactionType](in.Type),
		SubType:               enumPtr[domain.TransactionSubType](in.SubType),
		Amount:                in.Amount,
		EuroAmount:            in.EuroAmount,
		ExternalID:            in.ExternalID,
		Fee:                   in.Fee,
		Destination:           in.Destination,
		Comment:               in.Comment,
		AnnualPercentageYield: in.AnnualPercentageYield,
		SourceAddress:         in.SourceAddress,
	}
	if in.Timestamp != nil {
		ts := in.Timestamp.Time
		out.Timestamp = &ts
	}
	return out
}

func enumPtr[T ~string](s *string) *T {
	if s == nil {
		return nil
	}
	v := T(*s)
	return &v
}

func idPtr(id *graphql.ID) *string {
	if id == nil {
		return nil
	}
	s := string(*id)
	return &s
}

func int64Ptr(n *int32) *int64 {
	if n == nil {
		return nil
	}
	v := int64(*n)
	return &v
}

func datePtr(d *Date) *time.Time {
	if d == nil {
		return nil
	}
	t := d.Time
	return &t
}
