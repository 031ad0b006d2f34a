package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type TransactionStatus string

const (
	TransactionStatusCompleted TransactionStatus = "COMPLETED"
	TransactionStatusPending   TransactionStatus = "PENDING"
	TransactionStatusCancelled TransactionStatus = "CANCELLED"
	TransactionStatusFailed    TransactionStatus = "FAILED"
)

type TransactionType string

const (
	TransactionTypeDeposit  TransactionType = "DEPOSIT"
	TransactionTypeWithdraw TransactionType = "WITHDRAW"
	TransactionTypeExchange TransactionType = "EXCHANGE"
	TransactionTypeFee      TransactionType = "FEE"
	TransactionTypeReward   TransactionType = "REWARD"
	TransactionTypeManual   TransactionType = "MANUAL"
)

type TransactionSubType string

const (
	TransactionSubTypeStaking      TransactionSubType = "STAKING"
	TransactionSubTypeCashback     TransactionSubType = "CASHBACK"
	TransactionSubTypeMining       TransactionSubType = "MINING"
	TransactionSubTypeSubscription TransactionSubType = "SUBSCRIPTION"
	TransactionSubTypeExchange     TransactionSubType = "EXCHANGE"
	TransactionSubTypeWithdraw     TransactionSubType = "WITHDRAW"
	TransactionSubTypeBuy          TransactionSubType = "BUY"
	TransactionSubTypeSell         TransactionSubType = "SELL"
	TransactionSubTypeAdd          TransactionSubType = "ADD"
	TransactionSubTypeSubtract     TransactionSubType = "SUBTRACT"
)

type TransactionAssetType string

const (
	TransactionAssetTypeCrypto TransactionAssetType = "CRYPTO"
	TransactionAssetTypeFiat   TransactionAssetType = "FIAT"
)

// Transaction is the stored document. The json names match the bson names so
// event consumers see the same shape as the collection.
type Transaction struct {
	ID                    primitive.ObjectID   `bson:"_id" json:"_id"`
	CompanyID             string               `bson:"companyId" json:"companyId"`
	UserID                string               `bson:"userId" json:"userId"`
	WalletID              string               `bson:"walletId" json:"walletId"`
	Status                TransactionStatus    `bson:"status" json:"status"`
	Timestamp             time.Time            `bson:"timestamp" json:"timestamp"`
	Asset                 string               `bson:"asset" json:"asset"`
	AssetType             TransactionAssetType `bson:"assetType" json:"assetType"`
	Type                  TransactionType      `bson:"type" json:"type"`
	SubType               *TransactionSubType  `bson:"subType,omitempty" json:"subType,omitempty"`
	Amount                float64              `bson:"amount" json:"amount"`
	EuroAmount            float64              `bson:"euroAmount" json:"euroAmount"`
	ExternalID            string               `bson:"externalId" json:"externalId"`
	Fee                   float64              `bson:"fee" json:"fee"`
	Destination           string               `bson:"destination" json:"destination"`
	Comment               *string              `bson:"comment,omitempty" json:"comment,omitempty"`
	AnnualPercentageYield *int32               `bson:"annualPercentageYield,omitempty" json:"annualPercentageYield,omitempty"`
	SourceAddress         *string              `bson:"sourceAddress,omitempty" json:"sourceAddress,omitempty"`
	CreatedAt             time.Time            `bson:"createdAt" json:"createdAt"`
	UpdatedAt             time.Time            `bson:"updatedAt" json:"updatedAt"`
}

// TransactionPage is one page of a filtered listing together with the size of
// the whole result set.
type TransactionPage struct {
	TotalCount int64
	Items      []*Transaction
}

type CreateTransactionInput struct {
	CompanyID             string
	UserID                string
	WalletID              string
	Status                TransactionStatus
	Timestamp             time.Time
	Asset                 string
	AssetType             TransactionAssetType
	Type                  TransactionType
	SubType               *TransactionSubType
	Amount                float64
	EuroAmount            float64
	ExternalID            string
	Fee                   float64
	Destination           string
	Comment               *string
	AnnualPercentageYield *int32
	SourceAddress         *string
}

// UpdateTransactionInput is a partial update: nil fields are left untouched.
type UpdateTransactionInput struct {
	CompanyID             *string
	UserID                *string
	WalletID              *string
	Status                *TransactionStatus
	Timestamp             *time.Time
	Asset                 *string
	AssetType             *TransactionAssetType
	Type                  *TransactionType
	SubType               *TransactionSubType
	Amount                *float64
	EuroAmount            *float64
	ExternalID            *string
	Fee                   *float64
	Destination           *string
	Comment               *string
	AnnualPercentageYield *int32
	SourceAddress         *string
}

// TransactionsFilter is the sparse listing filter. Timestamp is in seconds
// since epoch. CompanyID, UserID and WalletID are only reachable from the
// unscoped listing; the "my" listing overrides CompanyID and UserID.
type TransactionsFilter struct {
	Type       *TransactionType
	SubType    *TransactionSubType
	Status     *TransactionStatus
	Asset      *string
	AssetType  *TransactionAssetType
	ExternalID *string
	Timestamp  *int64
	StartDate  *time.Time
	EndDate    *time.Time
	CompanyID  *string
	UserID     *string
	WalletID   *string
}

// Clone returns a shallow copy that can be modified without touching the
// caller's filter.
func (f *TransactionsFilter) Clone() *TransactionsFilter {
	if f == nil {
		return &TransactionsFilter{}
	}
	c := *f
	return &c
}
