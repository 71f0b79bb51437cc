package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Wallet holds a single user's balance within one tenant. One wallet per user;
// it is created lazily with a zero balance on first access.
type Wallet struct {
	ID        uint            `json:"id" gorm:"primarykey"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
	DeletedAt gorm.DeletedAt  `json:"deleted_at,omitempty" gorm:"index"`
	TenantID  uint            `json:"tenant_id" gorm:"not null;uniqueIndex:idx_wallets_tenant_user"`
	UserID    uint            `json:"user_id" gorm:"not null;uniqueIndex:idx_wallets_tenant_user"`
	Balance   decimal.Decimal `json:"balance" gorm:"type:decimal(15,2);not null;default:0.00;check:balance >= 0"`
	Currency  string          `json:"currency" gorm:"type:varchar(3);not null;default:'USD'"`
	IsActive  bool            `json:"is_active" gorm:"not null;default:true"`
	Version   uint            `json:"version" gorm:"not null;default:0"` // For optimistic locking

	// Relationships
	User         User                `json:"user,omitempty" gorm:"foreignKey:UserID"`
	Transactions []WalletTransaction `json:"transactions,omitempty" gorm:"foreignKey:WalletID"`
}

// TableName overrides the table name used by Wallet
func (Wallet) TableName() string {
	return "wallets"
}

// CanDebit checks if the wallet can be debited by the specified amount
func (w *Wallet) CanDebit(amount decimal.Decimal) bool {
	return w.IsActive && w.Balance.GreaterThanOrEqual(amount)
}
