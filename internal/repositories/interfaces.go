package repositories

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/shoplite/commerce-core/internal/models"
)

// Every repository exposes WithTx so a usecase can bind the same interface to
// an open transaction. Implementations return a copy bound to tx; passing nil
// returns the receiver unchanged, which lets unit tests run the transactional
// code path against in-memory fakes.

// UserRepository defines the interface for user data operations
type UserRepository interface {
	Create(user *models.User) error
	GetByID(tenantID, id uint) (*models.User, error)
	GetByEmail(tenantID uint, email string) (*models.User, error)
	Update(user *models.User) error
	WithTx(tx *gorm.DB) UserRepository
}

// WalletRepository defines the interface for wallet data operations
type WalletRepository interface {
	Create(wallet *models.Wallet) error
	GetByID(id uint) (*models.Wallet, error)
	GetByUserID(tenantID, userID uint) (*models.Wallet, error)
	// GetByIDForUpdate loads the wallet row under an exclusive row lock. Only
	// meaningful inside a transaction.
	GetByIDForUpdate(id uint) (*models.Wallet, error)
	// UpdateBalance applies a compare-and-swap on (id, version). It returns
	// gorm.ErrRecordNotFound when the version no longer matches.
	UpdateBalance(walletID uint, newBalance decimal.Decimal, version uint) error
	ListByTenant(tenantID uint, offset, limit int) ([]models.Wallet, int64, error)
	WithTx(tx *gorm.DB) WalletRepository
}

// TransactionRepository defines the interface for ledger entry operations.
// Ledger rows are append-only; there is deliberately no Update or Delete.
type TransactionRepository interface {
	Create(txn *models.WalletTransaction) error
	GetByID(id uint) (*models.WalletTransaction, error)
	GetByReference(reference string) (*models.WalletTransaction, error)
	GetByWalletIDWithCursor(walletID uint, cursor *time.Time, cursorID *uint, limit int) ([]models.WalletTransaction, error)
	// SumAmounts totals the signed amounts of all committed entries, used by
	// the ledger audit.
	SumAmounts(walletID uint) (decimal.Decimal, error)
	ListByWalletAsc(walletID uint) ([]models.WalletTransaction, error)
	WithTx(tx *gorm.DB) TransactionRepository
}

// TopUpRepository defines the interface for top-up request operations
type TopUpRepository interface {
	Create(req *models.WalletTopUpRequest) error
	GetByID(tenantID, id uint) (*models.WalletTopUpRequest, error)
	List(tenantID uint, userID *uint, status *models.TopUpStatus, offset, limit int) ([]models.WalletTopUpRequest, int64, error)
	// Transition flips status only when the row is still in `from`, returning
	// the number of rows affected. Zero means the request was already
	// processed by a racing caller (or never existed).
	Transition(id uint, from, to models.TopUpStatus, processedBy uint, processedAt time.Time, reason string) (int64, error)
	WithTx(tx *gorm.DB) TopUpRepository
}

// BankRepository defines the interface for tenant bank account operations
type BankRepository interface {
	Create(bank *models.Bank) error
	GetByID(tenantID, id uint) (*models.Bank, error)
	GetByCode(tenantID uint, code string) (*models.Bank, error)
	List(tenantID uint, offset, limit int) ([]models.Bank, int64, error)
	WithTx(tx *gorm.DB) BankRepository
}

// CardRepository defines the interface for card inventory operations
type CardRepository interface {
	CreateBatch(batch *models.CardBatch) error
	CreateCard(card *models.CardInventory) error
	GetByID(tenantID, id uint) (*models.CardInventory, error)
	CodeExists(tenantID uint, code string) (bool, error)
	// LockAvailable selects up to `limit` oldest-imported AVAILABLE,
	// non-expired cards of the product under FOR UPDATE SKIP LOCKED, so
	// sibling reservations skip rows already claimed in flight instead of
	// queueing behind them. Only meaningful inside a transaction.
	LockAvailable(tenantID, productID uint, limit int, now time.Time) ([]models.CardInventory, error)
	// UpdateStatus moves the given cards from one status to another with a
	// status guard, applying extra column updates, and reports how many rows
	// actually transitioned.
	UpdateStatus(tenantID uint, ids []uint, from, to models.CardStatus, extra map[string]interface{}) (int64, error)
	MarkExpired(tenantID uint, now time.Time) (int64, error)
	ListInventory(tenantID, productID uint, status *models.CardStatus, offset, limit int) ([]models.CardInventory, int64, error)
	ListBatches(tenantID, productID uint, offset, limit int) ([]models.CardBatch, int64, error)
	CountByStatus(tenantID, productID uint) (map[models.CardStatus]int64, error)
	WithTx(tx *gorm.DB) CardRepository
}

// AuditRepository defines the interface for ledger audit reports
type AuditRepository interface {
	Create(report *models.LedgerAuditReport) error
	ListByWalletID(walletID uint, offset, limit int) ([]models.LedgerAuditReport, error)
}

// Repositories holds all repository interfaces
type Repositories struct {
	User        UserRepository
	Wallet      WalletRepository
	Transaction TransactionRepository
	TopUp       TopUpRepository
	Bank        BankRepository
	Card        CardRepository
	Audit       AuditRepository
	DB          *gorm.DB
}

// NewRepositories creates a new instance of all repositories
func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		User:        NewUserRepository(db),
		Wallet:      NewWalletRepository(db),
		Transaction: NewTransactionRepository(db),
		TopUp:       NewTopUpRepository(db),
		Bank:        NewBankRepository(db),
		Card:        NewCardRepository(db),
		Audit:       NewAuditRepository(db),
		DB:          db,
	}
}

// InTransaction runs fn inside one database transaction. With no database
// bound (unit tests against fakes) fn runs directly with a nil handle; every
// repository treats a nil tx as "stay on the current binding".
func (r *Repositories) InTransaction(fn func(tx *gorm.DB) error) error {
	if r.DB == nil {
		return fn(nil)
	}
	return r.DB.Transaction(fn)
}
