package domain

import "time"

// AuditLog is one row of the mutation audit trail.
type AuditLog struct {
	ID             int64                  `db:"id" json:"id"`
	Action         string                 `db:"action" json:"action"`
	Category       string                 `db:"category" json:"category"`
	EntityID       string                 `db:"entity_id" json:"entity_id"`
	ActorUserID    string                 `db:"actor_user_id" json:"actor_user_id,omitempty"`
	ActorCompanyID string                 `db:"actor_company_id" json:"actor_company_id,omitempty"`
	ActorRole      string                 `db:"actor_role" json:"actor_role,omitempty"`
	RequestID      string                 `db:"request_id" json:"request_id,omitempty"`
	Details        map[string]interface{} `db:"details" json:"details"`
	CreatedAt      time.Time              `db:"created_at" json:"created_at"`
}

const AuditCategoryTransaction = "transaction"

// Audit actions mirror the event routing designations.
const (
	AuditActionTransactionCreated = "transaction.created"
	AuditActionTransactionUpdated = "transaction.updated"
	AuditActionTransactionDeleted = "transaction.deleted"
)
