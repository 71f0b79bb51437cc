package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType classifies what a ledger entry paid for.
type TransactionType string

const (
	TransactionTypeTopUp      TransactionType = "TOPUP"
	TransactionTypePurchase   TransactionType = "PURCHASE"
	TransactionTypeRefund     TransactionType = "REFUND"
	TransactionTypeBonus      TransactionType = "BONUS"
	TransactionTypeAdjustment TransactionType = "ADJUSTMENT"
)

// TransactionStatus represents the status of a transaction
type TransactionStatus string

const (
	TransactionStatusCompleted TransactionStatus = "COMPLETED"
	TransactionStatusReversed  TransactionStatus = "REVERSED"
)

// WalletTransaction is one immutable ledger entry. Amount is signed: positive
// for credits, negative for debits. Rows are append-only; the invariant
// BalanceAfter = BalanceBefore + Amount holds for every committed row, and each
// entry's BalanceAfter equals the next entry's BalanceBefore in commit order.
type WalletTransaction struct {
	ID              uint              `json:"id" gorm:"primarykey"`
	CreatedAt       time.Time         `json:"created_at" gorm:"index"`
	WalletID        uint              `json:"wallet_id" gorm:"not null;index"`
	Type            TransactionType   `json:"type" gorm:"type:varchar(16);not null;index"`
	Amount          decimal.Decimal   `json:"amount" gorm:"type:decimal(15,2);not null"`
	BalanceBefore   decimal.Decimal   `json:"balance_before" gorm:"type:decimal(15,2);not null"`
	BalanceAfter    decimal.Decimal   `json:"balance_after" gorm:"type:decimal(15,2);not null"`
	Currency        string            `json:"currency" gorm:"type:varchar(3);not null"`
	Description     string            `json:"description" gorm:"type:text"`
	Reference       string            `json:"reference" gorm:"type:varchar(255);uniqueIndex;not null"`
	Status          TransactionStatus `json:"status" gorm:"type:varchar(16);not null;default:'COMPLETED'"`
	TopUpRequestID  *uint             `json:"top_up_request_id,omitempty" gorm:"index"`

	Wallet Wallet `json:"wallet,omitempty" gorm:"foreignKey:WalletID"`
}

// TableName overrides the table name used by WalletTransaction
func (WalletTransaction) TableName() string {
	return "wallet_transactions"
}

// IsCredit reports whether the entry increased the balance.
func (t *WalletTransaction) IsCredit() bool {
	return t.Amount.IsPositive()
}
