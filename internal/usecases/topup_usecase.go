package usecases

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/shoplite/commerce-core/internal/apperrors"
	"github.com/shoplite/commerce-core/internal/auth"
	"github.com/shoplite/commerce-core/internal/config"
	"github.com/shoplite/commerce-core/internal/models"
	"github.com/shoplite/commerce-core/internal/notifications"
	"github.com/shoplite/commerce-core/internal/repositories"
)

type topUpUseCase struct {
	repos    *repositories.Repositories
	wallet   *walletUseCase
	cfg      *config.WalletConfig
	notifier notifications.Notifier
	log      *logrus.Logger
}

// NewTopUpUseCase creates a new top-up workflow use case
func NewTopUpUseCase(repos *repositories.Repositories, wallet WalletUseCase, cfg *config.WalletConfig, notifier notifications.Notifier, log *logrus.Logger) TopUpUseCase {
	concrete, ok := wallet.(*walletUseCase)
	if !ok {
		concrete = newWalletUseCase(repos, cfg, log)
	}
	return newTopUpUseCase(repos, concrete, cfg, notifier, log)
}

func newTopUpUseCase(repos *repositories.Repositories, wallet *walletUseCase, cfg *config.WalletConfig, notifier notifications.Notifier, log *logrus.Logger) *topUpUseCase {
	return &topUpUseCase{repos: repos, wallet: wallet, cfg: cfg, notifier: notifier, log: log}
}

func (uc *topUpUseCase) Create(ctx auth.Context, input CreateTopUpInput) (*models.WalletTopUpRequest, error) {
	if input.Amount.LessThanOrEqual(decimal.Zero) {
		return nil, apperrors.Validation("amount", "must be greater than zero")
	}
	if input.PaymentMethod == "" {
		return nil, apperrors.Validation("payment_method", "is required")
	}

	// An invalid or foreign bank reference is dropped to nil rather than
	// failing the whole request.
	bankID := input.BankID
	if bankID != nil {
		bank, err := uc.repos.Bank.GetByID(ctx.TenantID, *bankID)
		if err != nil || !bank.IsActive {
			bankID = nil
		}
	}

	req := &models.WalletTopUpRequest{
		TenantID:      ctx.TenantID,
		UserID:        ctx.UserID,
		Amount:        input.Amount,
		Currency:      uc.wallet.defaultCurrency(),
		PaymentMethod: input.PaymentMethod,
		BankID:        bankID,
		ReceiptImage:  input.ReceiptImage,
		Status:        models.TopUpStatusPending,
	}
	if err := uc.repos.TopUp.Create(req); err != nil {
		return nil, err
	}

	uc.log.WithFields(logrus.Fields{
		"tenant_id":  ctx.TenantID,
		"user_id":    ctx.UserID,
		"request_id": req.ID,
		"amount":     req.Amount.StringFixed(2),
	}).Info("top-up request created")

	return req, nil
}

// Approve flips PENDING to APPROVED and credits the requester's wallet in one
// transaction. The guarded update decides the race between two approvers; the
// loser gets InvalidState. A credit failure rolls the status flip back too.
func (uc *topUpUseCase) Approve(ctx auth.Context, requestID uint) (*models.WalletTopUpRequest, error) {
	req, err := uc.repos.TopUp.GetByID(ctx.TenantID, requestID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("top-up request", requestID)
		}
		return nil, err
	}
	if !req.IsPending() {
		return nil, apperrors.InvalidState("top-up request %d is %s, not PENDING", requestID, req.Status)
	}

	now := time.Now().UTC()
	err = uc.wallet.retryOnConflict(func() error {
		return uc.repos.InTransaction(func(tx *gorm.DB) error {
			affected, err := uc.repos.TopUp.WithTx(tx).Transition(
				requestID, models.TopUpStatusPending, models.TopUpStatusApproved, ctx.UserID, now, "")
			if err != nil {
				return err
			}
			if affected == 0 {
				// A racing approver got here first.
				return apperrors.InvalidState("top-up request %d already processed", requestID)
			}

			wallet, err := uc.wallet.GetOrCreateWalletTx(tx, req.TenantID, req.UserID, ProfileHint{})
			if err != nil {
				return err
			}
			locked, err := uc.repos.Wallet.WithTx(tx).GetByIDForUpdate(wallet.ID)
			if err != nil {
				return err
			}

			reference := fmt.Sprintf("TOPUP-%d", requestID)
			description := fmt.Sprintf("Wallet top-up via %s", req.PaymentMethod)
			_, err = uc.wallet.ApplyTx(tx, locked, req.Amount, models.TransactionTypeTopUp, description, reference, &req.ID)
			return err
		})
	})
	if err != nil {
		return nil, err
	}

	req.Status = models.TopUpStatusApproved
	req.ProcessedAt = &now
	req.ProcessedByUserID = &ctx.UserID

	uc.log.WithFields(logrus.Fields{
		"tenant_id":   ctx.TenantID,
		"request_id":  requestID,
		"approved_by": ctx.UserID,
		"amount":      req.Amount.StringFixed(2),
	}).Info("top-up request approved")

	// Best-effort, after commit. Delivery failure never affects the ledger.
	go func(r models.WalletTopUpRequest) {
		if err := uc.notifier.TopUpApproved(&r); err != nil {
			uc.log.WithError(err).WithField("request_id", r.ID).Warn("top-up approval notification failed")
		}
	}(*req)

	return req, nil
}

func (uc *topUpUseCase) Reject(ctx auth.Context, requestID uint, reason string) (*models.WalletTopUpRequest, error) {
	req, err := uc.repos.TopUp.GetByID(ctx.TenantID, requestID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("top-up request", requestID)
		}
		return nil, err
	}
	if !req.IsPending() {
		return nil, apperrors.InvalidState("top-up request %d is %s, not PENDING", requestID, req.Status)
	}

	now := time.Now().UTC()
	affected, err := uc.repos.TopUp.Transition(
		requestID, models.TopUpStatusPending, models.TopUpStatusRejected, ctx.UserID, now, reason)
	if err != nil {
		return nil, err
	}
	if affected == 0 {
		return nil, apperrors.InvalidState("top-up request %d already processed", requestID)
	}

	req.Status = models.TopUpStatusRejected
	req.ProcessedAt = &now
	req.ProcessedByUserID = &ctx.UserID
	req.RejectionReason = reason

	go func(r models.WalletTopUpRequest) {
		if err := uc.notifier.TopUpRejected(&r, reason); err != nil {
			uc.log.WithError(err).WithField("request_id", r.ID).Warn("top-up rejection notification failed")
		}
	}(*req)

	return req, nil
}

func (uc *topUpUseCase) Cancel(ctx auth.Context, requestID uint) (*models.WalletTopUpRequest, error) {
	req, err := uc.repos.TopUp.GetByID(ctx.TenantID, requestID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("top-up request", requestID)
		}
		return nil, err
	}
	if req.UserID != ctx.UserID {
		return nil, apperrors.NotFound("top-up request", requestID)
	}
	if !req.IsPending() {
		return nil, apperrors.InvalidState("top-up request %d is %s, not PENDING", requestID, req.Status)
	}

	now := time.Now().UTC()
	affected, err := uc.repos.TopUp.Transition(
		requestID, models.TopUpStatusPending, models.TopUpStatusCancelled, ctx.UserID, now, "")
	if err != nil {
		return nil, err
	}
	if affected == 0 {
		return nil, apperrors.InvalidState("top-up request %d already processed", requestID)
	}

	req.Status = models.TopUpStatusCancelled
	req.ProcessedAt = &now
	req.ProcessedByUserID = &ctx.UserID
	return req, nil
}

func (uc *topUpUseCase) Get(ctx auth.Context, requestID uint) (*models.WalletTopUpRequest, error) {
	req, err := uc.repos.TopUp.GetByID(ctx.TenantID, requestID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("top-up request", requestID)
		}
		return nil, err
	}
	return req, nil
}

func (uc *topUpUseCase) List(ctx auth.Context, userID *uint, status *models.TopUpStatus, page, pageSize int) ([]models.WalletTopUpRequest, int64, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 20
	}
	return uc.repos.TopUp.List(ctx.TenantID, userID, status, (page-1)*pageSize, pageSize)
}

func (uc *topUpUseCase) CreateBank(ctx auth.Context, input CreateBankInput) (*models.Bank, error) {
	if input.Code == "" {
		return nil, apperrors.Validation("code", "is required")
	}
	if input.Name == "" {
		return nil, apperrors.Validation("name", "is required")
	}

	if _, err := uc.repos.Bank.GetByCode(ctx.TenantID, input.Code); err == nil {
		return nil, apperrors.Conflict("bank code %q already exists", input.Code)
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	bank := &models.Bank{
		TenantID:      ctx.TenantID,
		Code:          input.Code,
		Name:          input.Name,
		AccountName:   input.AccountName,
		AccountNumber: input.AccountNumber,
		IsActive:      true,
	}
	if err := uc.repos.Bank.Create(bank); err != nil {
		return nil, err
	}
	return bank, nil
}

func (uc *topUpUseCase) ListBanks(ctx auth.Context, page, pageSize int) ([]models.Bank, int64, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 20
	}
	return uc.repos.Bank.List(ctx.TenantID, (page-1)*pageSize, pageSize)
}
