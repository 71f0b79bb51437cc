package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// TopUpStatus represents the lifecycle state of a top-up request. PENDING is
// the initial state; the other three are terminal.
type TopUpStatus string

const (
	TopUpStatusPending   TopUpStatus = "PENDING"
	TopUpStatusApproved  TopUpStatus = "APPROVED"
	TopUpStatusRejected  TopUpStatus = "REJECTED"
	TopUpStatusCancelled TopUpStatus = "CANCELLED"
)

// PaymentMethod identifies how the user claims to have paid.
type PaymentMethod string

const (
	PaymentMethodBankTransfer PaymentMethod = "BANK_TRANSFER"
	PaymentMethodCashDeposit  PaymentMethod = "CASH_DEPOSIT"
)

// WalletTopUpRequest is a user-initiated recharge awaiting manual review.
// Approval credits the requester's wallet in the same transaction that flips
// the status, so a request leaves PENDING exactly once.
type WalletTopUpRequest struct {
	ID                uint            `json:"id" gorm:"primarykey"`
	CreatedAt         time.Time       `json:"created_at"`
	UpdatedAt         time.Time       `json:"updated_at"`
	TenantID          uint            `json:"tenant_id" gorm:"not null;index"`
	UserID            uint            `json:"user_id" gorm:"not null;index"`
	Amount            decimal.Decimal `json:"amount" gorm:"type:decimal(15,2);not null;check:amount > 0"`
	Currency          string          `json:"currency" gorm:"type:varchar(3);not null;default:'USD'"`
	PaymentMethod     PaymentMethod   `json:"payment_method" gorm:"type:varchar(24);not null"`
	BankID            *uint           `json:"bank_id,omitempty" gorm:"index"`
	ReceiptImage      string          `json:"receipt_image,omitempty" gorm:"type:varchar(512)"`
	Status            TopUpStatus     `json:"status" gorm:"type:varchar(16);not null;default:'PENDING';index"`
	ProcessedAt       *time.Time      `json:"processed_at,omitempty"`
	ProcessedByUserID *uint           `json:"processed_by_user_id,omitempty"`
	RejectionReason   string          `json:"rejection_reason,omitempty" gorm:"type:text"`

	Bank *Bank `json:"bank,omitempty" gorm:"foreignKey:BankID"`
}

// TableName overrides the table name used by WalletTopUpRequest
func (WalletTopUpRequest) TableName() string {
	return "wallet_top_up_requests"
}

// IsPending reports whether the request can still be processed.
func (r *WalletTopUpRequest) IsPending() bool {
	return r.Status == TopUpStatusPending
}

// Bank is a tenant-configured deposit destination shown to users when they
// create a bank-transfer top-up request.
type Bank struct {
	ID            uint           `json:"id" gorm:"primarykey"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	DeletedAt     gorm.DeletedAt `json:"deleted_at,omitempty" gorm:"index"`
	TenantID      uint           `json:"tenant_id" gorm:"not null;uniqueIndex:idx_banks_tenant_code"`
	Code          string         `json:"code" gorm:"type:varchar(32);not null;uniqueIndex:idx_banks_tenant_code"`
	Name          string         `json:"name" gorm:"type:varchar(255);not null"`
	AccountName   string         `json:"account_name" gorm:"type:varchar(255)"`
	AccountNumber string         `json:"account_number" gorm:"type:varchar(64)"`
	IsActive      bool           `json:"is_active" gorm:"not null;default:true"`
}

// TableName overrides the table name used by Bank
func (Bank) TableName() string {
	return "banks"
}
