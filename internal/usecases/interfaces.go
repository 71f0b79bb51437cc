package usecases

import (
	"io"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/shoplite/commerce-core/internal/auth"
	"github.com/shoplite/commerce-core/internal/config"
	"github.com/shoplite/commerce-core/internal/models"
	"github.com/shoplite/commerce-core/internal/notifications"
	"github.com/shoplite/commerce-core/internal/repositories"
)

// ProfileHint carries the optional profile fields used when a user record is
// materialized lazily on first wallet access.
type ProfileHint struct {
	Email string
	Name  string
	Phone string
}

// WalletUseCase defines the interface for wallet ledger business logic
type WalletUseCase interface {
	GetOrCreateWallet(ctx auth.Context, hint ProfileHint) (*models.Wallet, error)
	Credit(ctx auth.Context, userID uint, amount decimal.Decimal, txnType models.TransactionType, description, reference string) (*models.Wallet, *models.WalletTransaction, error)
	Debit(ctx auth.Context, userID uint, amount decimal.Decimal, description, reference string) (*models.Wallet, *models.WalletTransaction, error)
	HasSufficientBalance(ctx auth.Context, userID uint, amount decimal.Decimal) (bool, error)
	GetBalance(ctx auth.Context, userID uint) (decimal.Decimal, error)
	GetTransactionHistory(ctx auth.Context, userID uint, cursor *string, limit int) ([]models.WalletTransaction, *string, error)

	// Transaction-scoped primitives used by the top-up and transfer
	// coordinators to compose a ledger write with their own state changes in
	// one atomic unit.
	GetOrCreateWalletTx(tx *gorm.DB, tenantID, userID uint, hint ProfileHint) (*models.Wallet, error)
	// ApplyTx writes one ledger entry against a row-locked wallet. Amount is
	// signed; the non-negative balance invariant is re-verified after the
	// delta is applied.
	ApplyTx(tx *gorm.DB, wallet *models.Wallet, amount decimal.Decimal, txnType models.TransactionType, description, reference string, topUpRequestID *uint) (*models.WalletTransaction, error)
}

// CreateTopUpInput is the payload for a new top-up request.
type CreateTopUpInput struct {
	Amount        decimal.Decimal
	PaymentMethod models.PaymentMethod
	BankID        *uint
	ReceiptImage  string
}

// CreateBankInput is the payload for a new tenant bank account.
type CreateBankInput struct {
	Code          string
	Name          string
	AccountName   string
	AccountNumber string
}

// TopUpUseCase defines the interface for the top-up approval workflow
type TopUpUseCase interface {
	Create(ctx auth.Context, input CreateTopUpInput) (*models.WalletTopUpRequest, error)
	Approve(ctx auth.Context, requestID uint) (*models.WalletTopUpRequest, error)
	Reject(ctx auth.Context, requestID uint, reason string) (*models.WalletTopUpRequest, error)
	Cancel(ctx auth.Context, requestID uint) (*models.WalletTopUpRequest, error)
	Get(ctx auth.Context, requestID uint) (*models.WalletTopUpRequest, error)
	List(ctx auth.Context, userID *uint, status *models.TopUpStatus, page, pageSize int) ([]models.WalletTopUpRequest, int64, error)
	CreateBank(ctx auth.Context, input CreateBankInput) (*models.Bank, error)
	ListBanks(ctx auth.Context, page, pageSize int) ([]models.Bank, int64, error)
}

// CardImportRow is one card in an import payload.
type CardImportRow struct {
	Code   string
	Pin    string
	Expiry *time.Time
}

// ImportReport summarizes one import run. Bad rows are recorded here, never
// fatal to the batch.
type ImportReport struct {
	BatchNumber  string   `json:"batch_number"`
	TotalCards   int      `json:"total_cards"`
	ValidCards   int      `json:"valid_cards"`
	InvalidCards int      `json:"invalid_cards"`
	Errors       []string `json:"errors,omitempty"`
}

// CardUseCase defines the interface for the card inventory reservoir
type CardUseCase interface {
	ImportFromArray(ctx auth.Context, productID uint, rows []CardImportRow) (*models.CardBatch, *ImportReport, error)
	ImportFromFile(ctx auth.Context, productID uint, r io.Reader) (*models.CardBatch, *ImportReport, error)
	ReserveCards(ctx auth.Context, productID uint, quantity int, orderID string) ([]uint, error)
	MarkAsSold(ctx auth.Context, cardIDs []uint, userID uint, orderID string) error
	ReleaseCards(ctx auth.Context, cardIDs []uint) error
	MarkExpiredCards(ctx auth.Context) (int64, error)
	MoveToEmergency(ctx auth.Context, cardIDs []uint) error
	RecoverFromEmergency(ctx auth.Context, cardIDs []uint) error
	GetInventory(ctx auth.Context, productID uint, status *models.CardStatus, page, pageSize int) ([]models.CardInventory, int64, error)
	GetBatches(ctx auth.Context, productID uint, page, pageSize int) ([]models.CardBatch, int64, error)
	GetInventorySummary(ctx auth.Context, productID uint) (map[models.CardStatus]int64, error)
}

// TransferUseCase composes one debit and one credit into a single atomic
// wallet-to-wallet move.
type TransferUseCase interface {
	Transfer(ctx auth.Context, fromUserID, toUserID uint, amount decimal.Decimal, description string) (*models.WalletTransaction, *models.WalletTransaction, error)
}

// AuditUseCase verifies wallet balances against the transaction log.
type AuditUseCase interface {
	VerifyWallet(ctx auth.Context, userID uint) (*models.LedgerAuditReport, error)
}

// UseCases holds all use case interfaces
type UseCases struct {
	Wallet   WalletUseCase
	TopUp    TopUpUseCase
	Card     CardUseCase
	Transfer TransferUseCase
	Audit    AuditUseCase
}

// NewUseCases creates a new instance of all use cases
func NewUseCases(repos *repositories.Repositories, cfg *config.WalletConfig, notifier notifications.Notifier, log *logrus.Logger) *UseCases {
	walletUC := newWalletUseCase(repos, cfg, log)

	return &UseCases{
		Wallet:   walletUC,
		TopUp:    newTopUpUseCase(repos, walletUC, cfg, notifier, log),
		Card:     newCardUseCase(repos, log),
		Transfer: newTransferUseCase(repos, walletUC, cfg, log),
		Audit:    newAuditUseCase(repos),
	}
}
