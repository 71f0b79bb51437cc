package usecases

import (
	"errors"
	"fmt"

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

type transferUseCase struct {
	repos  *repositories.Repositories
	wallet *walletUseCase
	log    *logrus.Logger
}

// NewTransferUseCase creates a new transfer coordinator
func NewTransferUseCase(repos *repositories.Repositories, wallet WalletUseCase, cfg *config.WalletConfig, log *logrus.Logger) TransferUseCase {
	concrete, ok := wallet.(*walletUseCase)
	if !ok {
		concrete = newWalletUseCase(repos, cfg, log)
	}
	return newTransferUseCase(repos, concrete, cfg, log)
}

func newTransferUseCase(repos *repositories.Repositories, wallet *walletUseCase, _ *config.WalletConfig, log *logrus.Logger) *transferUseCase {
	return &transferUseCase{repos: repos, wallet: wallet, log: log}
}

// Transfer debits the sender and credits the receiver as one atomic unit.
// Both wallets must exist in the caller's tenant before either is touched; a
// debit is never persisted without its paired credit. Wallet rows are locked
// in ascending ID order so two opposing transfers cannot deadlock.
func (uc *transferUseCase) Transfer(ctx auth.Context, fromUserID, toUserID uint, amount decimal.Decimal, description string) (*models.WalletTransaction, *models.WalletTransaction, error) {
	if amount.LessThanOrEqual(decimal.Zero) {
		return nil, nil, apperrors.Validation("amount", "must be greater than zero")
	}
	if fromUserID == toUserID {
		return nil, nil, apperrors.Validation("to_user_id", "cannot transfer to the same user")
	}

	fromWallet, err := uc.repos.Wallet.GetByUserID(ctx.TenantID, fromUserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, apperrors.NotFound("wallet for user", fromUserID)
		}
		return nil, nil, err
	}
	toWallet, err := uc.repos.Wallet.GetByUserID(ctx.TenantID, toUserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, apperrors.NotFound("wallet for user", toUserID)
		}
		return nil, nil, err
	}
	if fromWallet.TenantID != ctx.TenantID || toWallet.TenantID != ctx.TenantID {
		return nil, nil, apperrors.NotFound("wallet in tenant", ctx.TenantID)
	}

	reference := fmt.Sprintf("TRF-%s", uuid.NewString())
	var debitTxn, creditTxn *models.WalletTransaction

	err = uc.wallet.retryOnConflict(func() error {
		return uc.repos.InTransaction(func(tx *gorm.DB) error {
			wallets := uc.repos.Wallet.WithTx(tx)

			// Fixed, deterministic lock order regardless of direction.
			firstID, secondID := fromWallet.ID, toWallet.ID
			if secondID < firstID {
				firstID, secondID = secondID, firstID
			}
			locked := make(map[uint]*models.Wallet, 2)
			for _, id := range []uint{firstID, secondID} {
				w, err := wallets.GetByIDForUpdate(id)
				if err != nil {
					return err
				}
				locked[id] = w
			}

			from := locked[fromWallet.ID]
			to := locked[toWallet.ID]

			var err error
			debitTxn, err = uc.wallet.ApplyTx(tx, from, amount.Neg(), models.TransactionTypeAdjustment,
				fmt.Sprintf("Transfer to user %d: %s", toUserID, description), reference+"-OUT", nil)
			if err != nil {
				return err
			}

			creditTxn, err = uc.wallet.ApplyTx(tx, to, amount, models.TransactionTypeAdjustment,
				fmt.Sprintf("Transfer from user %d: %s", fromUserID, description), reference+"-IN", nil)
			return err
		})
	})
	if err != nil {
		return nil, nil, err
	}

	uc.log.WithFields(logrus.Fields{
		"tenant_id": ctx.TenantID,
		"from_user": fromUserID,
		"to_user":   toUserID,
		"amount":    amount.StringFixed(2),
		"reference": reference,
	}).Info("wallet transfer committed")

	return debitTxn, creditTxn, nil
}
