package graph

import (
	"transaction_api/internal/domain"

	graphql "github.com/graph-gophers/graphql-go"
)

type transactionResolver struct {
	tx *domain.Transaction
}

func newTransactionResolver(tx *domain.Transaction) *transactionResolver {
	if tx == nil {
		return nil
	}
	return &transactionResolver{tx: tx}
}

func (r *transactionResolver) ID() graphql.ID {
	return graphql.ID(r.tx.ID.Hex())
}

// User and Wallet are references owned by other subgraphs; they are built
// from the transaction's own fields without any lookup.
func (r *transactionResolver) User() *userResolver {
	return &userResolver{id: r.tx.UserID, companyID: r.tx.CompanyID}
}

func (r *transactionResolver) Wallet() *walletResolver {
	return &walletResolver{
		id:        r.tx.WalletID,
		user:      r.User(),
		assetCode: r.tx.Asset,
	}
}

func (r *transactionResolver) Status() string      { return string(r.tx.Status) }
func (r *transactionResolver) Timestamp() DateTime { return DateTime{r.tx.Timestamp} }
func (r *transactionResolver) Asset() string       { return r.tx.Asset }
func (r *transactionResolver) AssetType() string   { return string(r.tx.AssetType) }
func (r *transactionResolver) Type() string        { return string(r.tx.Type) }
func (r *transactionResolver) Amount() float64     { return r.tx.Amount }
func (r *transactionResolver) EuroAmount() float64 { return r.tx.EuroAmount }
func (r *transactionResolver) ExternalID() string  { return r.tx.ExternalID }
func (r *transactionResolver) Fee() float64        { return r.tx.Fee }
func (r *transactionResolver) Destination() string { return r.tx.Destination }
func (r *transactionResolver) CreatedAt() DateTime { return DateTime{r.tx.CreatedAt} }
func (r *transactionResolver) UpdatedAt() DateTime { return DateTime{r.tx.UpdatedAt} }
func (r *transactionResolver) Comment() *string    { return r.tx.Comment }

func (r *transactionResolver) SourceAddress() *string {
	return r.tx.SourceAddress
}

func (r *transactionResolver) SubType() *string {
	if r.tx.SubType == nil {
		return nil
	}
	s := string(*r.tx.SubType)
	return &s
}

func (r *transactionResolver) AnnualPercentageYield() *int32 {
	return r.tx.AnnualPercentageYield
}

type userResolver struct {
	id        string
	companyID string
}

func (r *userResolver) ID() graphql.ID        { return graphql.ID(r.id) }
func (r *userResolver) CompanyID() graphql.ID { return graphql.ID(r.companyID) }

type walletResolver struct {
	id        string
	user      *userResolver
	assetCode string
}

func (r *walletResolver) ID() graphql.ID      { return graphql.ID(r.id) }
func (r *walletResolver) User() *userResolver { return r.user }
func (r *walletResolver) AssetCode() string   { return r.assetCode }

type pageResolver struct {
	page *domain.TransactionPage
}

func (r *pageResolver) TotalCount() int32 {
	return int32(r.page.TotalCount)
}

func (r *pageResolver) Items() []*transactionResolver {
	items := make([]*transactionResolver, 0, len(r.page.Items))
	for _, tx := range r.page.Items {
		items = append(items, newTransactionResolver(tx))
	}
	return items
}

type transactionPayloadResolver struct {
	tx *domain.Transaction
}

func (r *transactionPayloadResolver) Transaction() *transactionResolver {
	return newTransactionResolver(r.tx)
}

type deletedTransactionResolver struct {
	id graphql.ID
}

func (r *deletedTransactionResolver) ID() graphql.ID { return r.id }

type deletePayloadResolver struct {
	id graphql.ID
}

func (r *deletePayloadResolver) Transaction() *deletedTransactionResolver {
	return &deletedTransactionResolver{id: r.id}
}
