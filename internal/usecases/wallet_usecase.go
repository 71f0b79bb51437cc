package usecases

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/shoplite/commerce-core/internal/apperrors"
	"github.com/shoplite/commerce-core/internal/auth"
	"github.com/shoplite/commerce-core/internal/config"
	"github.com/shoplite/commerce-core/internal/models"
	"github.com/shoplite/commerce-core/internal/repositories"
)

// errVersionConflict signals that the wallet row changed under us between the
// read and the compare-and-swap. The enclosing atomic unit is retried whole.
var errVersionConflict = errors.New("wallet version conflict")

type walletUseCase struct {
	repos *repositories.Repositories
	cfg   *config.WalletConfig
	log   *logrus.Logger
}

// TransactionCursor represents a cursor for pagination
type TransactionCursor struct {
	ID        uint      `json:"id"`
	CreatedAt time.Time `json:"created_at"`
}

// NewWalletUseCase creates a new wallet use case
func NewWalletUseCase(repos *repositories.Repositories, cfg *config.WalletConfig, log *logrus.Logger) WalletUseCase {
	return newWalletUseCase(repos, cfg, log)
}

func newWalletUseCase(repos *repositories.Repositories, cfg *config.WalletConfig, log *logrus.Logger) *walletUseCase {
	return &walletUseCase{repos: repos, cfg: cfg, log: log}
}

func (uc *walletUseCase) maxRetries() int {
	if uc.cfg != nil && uc.cfg.MaxRetries > 0 {
		return uc.cfg.MaxRetries
	}
	return 3
}

func (uc *walletUseCase) defaultCurrency() string {
	if uc.cfg != nil && uc.cfg.DefaultCurrency != "" {
		return uc.cfg.DefaultCurrency
	}
	return "USD"
}

// retryOnConflict reruns fn while it fails with errVersionConflict, up to the
// configured attempt budget. Each attempt is one full database transaction.
func (uc *walletUseCase) retryOnConflict(fn func() error) error {
	var err error
	for attempt := 0; attempt < uc.maxRetries(); attempt++ {
		err = fn()
		if !errors.Is(err, errVersionConflict) {
			return err
		}
	}
	return err
}

func (uc *walletUseCase) GetOrCreateWallet(ctx auth.Context, hint ProfileHint) (*models.Wallet, error) {
	var wallet *models.Wallet
	err := uc.repos.InTransaction(func(tx *gorm.DB) error {
		var err error
		wallet, err = uc.GetOrCreateWalletTx(tx, ctx.TenantID, ctx.UserID, hint)
		return err
	})
	if err != nil {
		return nil, err
	}
	return wallet, nil
}

// GetOrCreateWalletTx is idempotent: a lost creation race falls back to
// re-reading the row the winner inserted.
func (uc *walletUseCase) GetOrCreateWalletTx(tx *gorm.DB, tenantID, userID uint, hint ProfileHint) (*models.Wallet, error) {
	users := uc.repos.User.WithTx(tx)
	wallets := uc.repos.Wallet.WithTx(tx)

	if _, err := users.GetByID(tenantID, userID); err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		user := &models.User{
			ID:       userID,
			TenantID: tenantID,
			Email:    hint.Email,
			Name:     hint.Name,
			Phone:    hint.Phone,
			IsActive: true,
		}
		if user.Email == "" {
			// Email is the tenant-scoped natural key; synthesize one until the
			// auth service syncs the real profile.
			user.Email = fmt.Sprintf("user-%d@tenant-%d.invalid", userID, tenantID)
		}
		if err := users.Create(user); err != nil {
			if _, readErr := users.GetByID(tenantID, userID); readErr != nil {
				return nil, err
			}
		}
	}

	wallet, err := wallets.GetByUserID(tenantID, userID)
	if err == nil {
		return wallet, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	wallet = &models.Wallet{
		TenantID: tenantID,
		UserID:   userID,
		Balance:  decimal.Zero,
		Currency: uc.defaultCurrency(),
		IsActive: true,
	}
	if err := wallets.Create(wallet); err != nil {
		// Lost a creation race; the winner's row is the wallet.
		if existing, readErr := wallets.GetByUserID(tenantID, userID); readErr == nil {
			return existing, nil
		}
		return nil, err
	}
	return wallet, nil
}

// ApplyTx performs one ledger write against a wallet the caller has already
// locked inside tx: compute the after-balance, re-verify it is non-negative
// after the delta (check-then-act alone is insufficient under concurrency),
// append the immutable entry, then CAS the wallet balance on its version.
func (uc *walletUseCase) ApplyTx(tx *gorm.DB, wallet *models.Wallet, amount decimal.Decimal, txnType models.TransactionType, description, reference string, topUpRequestID *uint) (*models.WalletTransaction, error) {
	if !wallet.IsActive {
		return nil, apperrors.InvalidState("wallet %d is not active", wallet.ID)
	}

	balanceBefore := wallet.Balance
	balanceAfter := balanceBefore.Add(amount)

	if balanceAfter.IsNegative() {
		return nil, &apperrors.InsufficientBalanceError{
			Balance:   balanceBefore,
			Requested: amount.Neg(),
		}
	}

	txn := &models.WalletTransaction{
		WalletID:       wallet.ID,
		Type:           txnType,
		Amount:         amount,
		BalanceBefore:  balanceBefore,
		BalanceAfter:   balanceAfter,
		Currency:       wallet.Currency,
		Description:    description,
		Reference:      reference,
		Status:         models.TransactionStatusCompleted,
		TopUpRequestID: topUpRequestID,
	}
	if err := uc.repos.Transaction.WithTx(tx).Create(txn); err != nil {
		return nil, fmt.Errorf("failed to create ledger entry: %w", err)
	}

	if err := uc.repos.Wallet.WithTx(tx).UpdateBalance(wallet.ID, balanceAfter, wallet.Version); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errVersionConflict
		}
		return nil, fmt.Errorf("failed to update wallet balance: %w", err)
	}

	wallet.Balance = balanceAfter
	wallet.Version++
	return txn, nil
}

// mutate runs one credit or debit as a single atomic unit, retrying the whole
// unit on version conflicts.
func (uc *walletUseCase) mutate(ctx auth.Context, userID uint, amount decimal.Decimal, txnType models.TransactionType, description, reference string) (*models.Wallet, *models.WalletTransaction, error) {
	if reference == "" {
		reference = uuid.NewString()
	}

	if _, err := uc.repos.Transaction.GetByReference(reference); err == nil {
		return nil, nil, apperrors.Conflict("duplicate transaction reference %q", reference)
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil, fmt.Errorf("error checking reference: %w", err)
	}

	var wallet *models.Wallet
	var txn *models.WalletTransaction

	err := uc.retryOnConflict(func() error {
		return uc.repos.InTransaction(func(tx *gorm.DB) error {
			wallets := uc.repos.Wallet.WithTx(tx)

			found, err := wallets.GetByUserID(ctx.TenantID, userID)
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return apperrors.NotFound("wallet for user", userID)
				}
				return err
			}

			wallet, err = wallets.GetByIDForUpdate(found.ID)
			if err != nil {
				return err
			}

			txn, err = uc.ApplyTx(tx, wallet, amount, txnType, description, reference, nil)
			return err
		})
	})
	if err != nil {
		return nil, nil, err
	}

	uc.log.WithFields(logrus.Fields{
		"tenant_id": ctx.TenantID,
		"wallet_id": wallet.ID,
		"type":      txnType,
		"amount":    amount.StringFixed(2),
		"balance":   wallet.Balance.StringFixed(2),
		"reference": reference,
	}).Info("wallet mutation committed")

	return wallet, txn, nil
}

func (uc *walletUseCase) Credit(ctx auth.Context, userID uint, amount decimal.Decimal, txnType models.TransactionType, description, reference string) (*models.Wallet, *models.WalletTransaction, error) {
	if amount.LessThanOrEqual(decimal.Zero) {
		return nil, nil, apperrors.Validation("amount", "must be greater than zero")
	}
	if !isCreditType(txnType) {
		return nil, nil, apperrors.Validation("type", fmt.Sprintf("unsupported credit type %q", txnType))
	}
	return uc.mutate(ctx, userID, amount, txnType, description, reference)
}

func (uc *walletUseCase) Debit(ctx auth.Context, userID uint, amount decimal.Decimal, description, reference string) (*models.Wallet, *models.WalletTransaction, error) {
	if amount.LessThanOrEqual(decimal.Zero) {
		return nil, nil, apperrors.Validation("amount", "must be greater than zero")
	}
	return uc.mutate(ctx, userID, amount.Neg(), models.TransactionTypePurchase, description, reference)
}

func isCreditType(t models.TransactionType) bool {
	switch t {
	case models.TransactionTypeTopUp, models.TransactionTypeRefund,
		models.TransactionTypeBonus, models.TransactionTypeAdjustment:
		return true
	}
	return false
}

func (uc *walletUseCase) HasSufficientBalance(ctx auth.Context, userID uint, amount decimal.Decimal) (bool, error) {
	wallet, err := uc.repos.Wallet.GetByUserID(ctx.TenantID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, apperrors.NotFound("wallet for user", userID)
		}
		return false, err
	}
	return wallet.CanDebit(amount), nil
}

func (uc *walletUseCase) GetBalance(ctx auth.Context, userID uint) (decimal.Decimal, error) {
	wallet, err := uc.repos.Wallet.GetByUserID(ctx.TenantID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return decimal.Zero, apperrors.NotFound("wallet for user", userID)
		}
		return decimal.Zero, err
	}
	return wallet.Balance, nil
}

func (uc *walletUseCase) GetTransactionHistory(ctx auth.Context, userID uint, cursor *string, limit int) ([]models.WalletTransaction, *string, error) {
	wallet, err := uc.repos.Wallet.GetByUserID(ctx.TenantID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, apperrors.NotFound("wallet for user", userID)
		}
		return nil, nil, err
	}

	if limit <= 0 {
		limit = 20
	}

	var cursorTime *time.Time
	var cursorID *uint

	if cursor != nil && strings.TrimSpace(*cursor) != "" {
		decoded, err := decodeCursor(*cursor)
		if err != nil {
			return nil, nil, apperrors.Validation("cursor", "malformed pagination cursor")
		}
		cursorTime = &decoded.CreatedAt
		cursorID = &decoded.ID
	}

	transactions, err := uc.repos.Transaction.GetByWalletIDWithCursor(wallet.ID, cursorTime, cursorID, limit)
	if err != nil {
		return nil, nil, err
	}

	hasMore := len(transactions) > limit
	if hasMore {
		transactions = transactions[:limit]
	}

	var nextCursor *string
	if hasMore && len(transactions) > 0 {
		last := transactions[len(transactions)-1]
		nextCursor = encodeCursor(TransactionCursor{ID: last.ID, CreatedAt: last.CreatedAt})
	}
	return transactions, nextCursor, nil
}

// encodeCursor encodes a cursor to a base64 string
func encodeCursor(cursor TransactionCursor) *string {
	cursorJSON, err := json.Marshal(cursor)
	if err != nil {
		return nil
	}
	encoded := base64.StdEncoding.EncodeToString(cursorJSON)
	return &encoded
}

// decodeCursor decodes a base64 cursor string
func decodeCursor(cursor string) (*TransactionCursor, error) {
	decodedBytes, err := base64.StdEncoding.DecodeString(cursor)
	if err != nil {
		return nil, err
	}

	var transactionCursor TransactionCursor
	if err := json.Unmarshal(decodedBytes, &transactionCursor); err != nil {
		return nil, err
	}
	return &transactionCursor, nil
}
