package models

import (
	"time"
)

// CardStatus is the state of a single inventory card.
//
// Legal transitions:
//
//	AVAILABLE -> RESERVED -> SOLD
//	RESERVED  -> AVAILABLE (release)
//	AVAILABLE <-> INVALID  (quarantine / recover)
//	AVAILABLE -> EXPIRED   (one-way, time based)
//	SOLD      -> REFUNDED
//
// SOLD cards can never be quarantined or re-reserved.
type CardStatus string

const (
	CardStatusAvailable CardStatus = "AVAILABLE"
	CardStatusReserved  CardStatus = "RESERVED"
	CardStatusSold      CardStatus = "SOLD"
	CardStatusExpired   CardStatus = "EXPIRED"
	CardStatusInvalid   CardStatus = "INVALID"
	CardStatusRefunded  CardStatus = "REFUNDED"
)

// CardInventory is one uniquely coded, single-use digital voucher belonging to
// a product. CardCode uniqueness per tenant is the identity invariant. OrderID
// is an opaque correlation tag owned by the order-lifecycle service.
type CardInventory struct {
	ID           uint       `json:"id" gorm:"primarykey"`
	CreatedAt    time.Time  `json:"created_at" gorm:"index"`
	UpdatedAt    time.Time  `json:"updated_at"`
	TenantID     uint       `json:"tenant_id" gorm:"not null;uniqueIndex:idx_cards_tenant_code;index:idx_cards_pick,priority:1"`
	ProductID    uint       `json:"product_id" gorm:"not null;index:idx_cards_pick,priority:2"`
	CardCode     string     `json:"card_code" gorm:"type:varchar(128);not null;uniqueIndex:idx_cards_tenant_code"`
	CardPin      string     `json:"card_pin,omitempty" gorm:"type:varchar(128)"`
	ExpiryDate   *time.Time `json:"expiry_date,omitempty" gorm:"index"`
	Status       CardStatus `json:"status" gorm:"type:varchar(16);not null;default:'AVAILABLE';index:idx_cards_pick,priority:3"`
	BatchID      uint       `json:"batch_id" gorm:"not null;index"`
	OrderID      *string    `json:"order_id,omitempty" gorm:"type:varchar(64);index"`
	SoldAt       *time.Time `json:"sold_at,omitempty"`
	SoldToUserID *uint      `json:"sold_to_user_id,omitempty" gorm:"index"`

	Batch CardBatch `json:"batch,omitempty" gorm:"foreignKey:BatchID"`
}

// TableName overrides the table name used by CardInventory
func (CardInventory) TableName() string {
	return "card_inventories"
}

// IsExpired reports whether the card is past its expiry date at the given time.
func (c *CardInventory) IsExpired(now time.Time) bool {
	return c.ExpiryDate != nil && c.ExpiryDate.Before(now)
}

// CardBatch is the immutable audit record of one import run.
type CardBatch struct {
	ID           uint      `json:"id" gorm:"primarykey"`
	CreatedAt    time.Time `json:"created_at"`
	TenantID     uint      `json:"tenant_id" gorm:"not null;index"`
	ProductID    uint      `json:"product_id" gorm:"not null;index"`
	BatchNumber  string    `json:"batch_number" gorm:"type:varchar(64);uniqueIndex;not null"`
	TotalCards   int       `json:"total_cards" gorm:"not null"`
	ValidCards   int       `json:"valid_cards" gorm:"not null"`
	InvalidCards int       `json:"invalid_cards" gorm:"not null"`
	ImportedByID uint      `json:"imported_by_id" gorm:"not null"`
}

// TableName overrides the table name used by CardBatch
func (CardBatch) TableName() string {
	return "card_batches"
}
