package repositories

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/shoplite/commerce-core/internal/models"
)

type transactionRepository struct {
	db *gorm.DB
}

// NewTransactionRepository creates a new transaction repository
func NewTransactionRepository(db *gorm.DB) TransactionRepository {
	return &transactionRepository{db: db}
}

func (r *transactionRepository) WithTx(tx *gorm.DB) TransactionRepository {
	if tx == nil {
		return r
	}
	return &transactionRepository{db: tx}
}

func (r *transactionRepository) Create(txn *models.WalletTransaction) error {
	return r.db.Create(txn).Error
}

func (r *transactionRepository) GetByID(id uint) (*models.WalletTransaction, error) {
	var txn models.WalletTransaction
	err := r.db.First(&txn, id).Error
	if err != nil {
		return nil, err
	}
	return &txn, nil
}

func (r *transactionRepository) GetByReference(reference string) (*models.WalletTransaction, error) {
	var txn models.WalletTransaction
	err := r.db.Where("reference = ?", reference).First(&txn).Error
	if err != nil {
		return nil, err
	}
	return &txn, nil
}

// GetByWalletIDWithCursor pages newest-first. It fetches limit+1 rows so the
// caller can detect whether another page exists.
func (r *transactionRepository) GetByWalletIDWithCursor(walletID uint, cursor *time.Time, cursorID *uint, limit int) ([]models.WalletTransaction, error) {
	var transactions []models.WalletTransaction

	query := r.db.Where("wallet_id = ?", walletID)
	if cursor != nil && cursorID != nil {
		query = query.Where("(created_at < ?) OR (created_at = ? AND id < ?)", *cursor, *cursor, *cursorID)
	}

	err := query.Order("created_at DESC, id DESC").Limit(limit + 1).Find(&transactions).Error
	return transactions, err
}

func (r *transactionRepository) SumAmounts(walletID uint) (decimal.Decimal, error) {
	var sum decimal.Decimal
	err := r.db.Model(&models.WalletTransaction{}).
		Where("wallet_id = ? AND status = ?", walletID, models.TransactionStatusCompleted).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&sum).Error
	if err != nil {
		return decimal.Zero, err
	}
	return sum, nil
}

func (r *transactionRepository) ListByWalletAsc(walletID uint) ([]models.WalletTransaction, error) {
	var transactions []models.WalletTransaction
	err := r.db.Where("wallet_id = ?", walletID).
		Order("created_at ASC, id ASC").
		Find(&transactions).Error
	return transactions, err
}
