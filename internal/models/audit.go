package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// LedgerAuditReport records one integrity check of a wallet against its
// transaction log: the stored balance must equal the sum of all committed
// signed amounts, and the before/after snapshots must chain.
type LedgerAuditReport struct {
	ID                uint            `json:"id" gorm:"primarykey"`
	CreatedAt         time.Time       `json:"created_at"`
	TenantID          uint            `json:"tenant_id" gorm:"not null;index"`
	WalletID          uint            `json:"wallet_id" gorm:"not null;index"`
	StoredBalance     decimal.Decimal `json:"stored_balance" gorm:"type:decimal(15,2);not null"`
	CalculatedBalance decimal.Decimal `json:"calculated_balance" gorm:"type:decimal(15,2);not null"`
	Difference        decimal.Decimal `json:"difference" gorm:"type:decimal(15,2);not null"`
	Status            AuditStatus     `json:"status" gorm:"type:varchar(16);not null"`
	Notes             string          `json:"notes" gorm:"type:text"`

	Wallet Wallet `json:"wallet,omitempty" gorm:"foreignKey:WalletID"`
}

// AuditStatus represents the outcome of a ledger audit
type AuditStatus string

const (
	AuditStatusMatch       AuditStatus = "MATCH"
	AuditStatusMismatch    AuditStatus = "MISMATCH"
	AuditStatusBrokenChain AuditStatus = "BROKEN_CHAIN"
)

// TableName overrides the table name used by LedgerAuditReport
func (LedgerAuditReport) TableName() string {
	return "ledger_audit_reports"
}

// HasIssue checks if the audit found any inconsistency
func (r *LedgerAuditReport) HasIssue() bool {
	return r.Status != AuditStatusMatch
}
