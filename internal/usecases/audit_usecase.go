package usecases

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/shoplite/commerce-core/internal/apperrors"
	"github.com/shoplite/commerce-core/internal/auth"
	"github.com/shoplite/commerce-core/internal/models"
	"github.com/shoplite/commerce-core/internal/repositories"
)

type auditUseCase struct {
	repos *repositories.Repositories
}

// NewAuditUseCase creates a new ledger audit use case
func NewAuditUseCase(repos *repositories.Repositories) AuditUseCase {
	return newAuditUseCase(repos)
}

func newAuditUseCase(repos *repositories.Repositories) *auditUseCase {
	return &auditUseCase{repos: repos}
}

// VerifyWallet checks the two ledger invariants for one wallet: the stored
// balance equals the sum of committed signed amounts, and consecutive entries
// chain (each balanceAfter is the next balanceBefore).
func (uc *auditUseCase) VerifyWallet(ctx auth.Context, userID uint) (*models.LedgerAuditReport, error) {
	wallet, err := uc.repos.Wallet.GetByUserID(ctx.TenantID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("wallet for user", userID)
		}
		return nil, err
	}

	calculated, err := uc.repos.Transaction.SumAmounts(wallet.ID)
	if err != nil {
		return nil, err
	}

	report := &models.LedgerAuditReport{
		TenantID:          ctx.TenantID,
		WalletID:          wallet.ID,
		StoredBalance:     wallet.Balance,
		CalculatedBalance: calculated,
		Difference:        wallet.Balance.Sub(calculated),
		Status:            models.AuditStatusMatch,
	}

	if !wallet.Balance.Equal(calculated) {
		report.Status = models.AuditStatusMismatch
		report.Notes = fmt.Sprintf("stored balance %s does not match ledger sum %s",
			wallet.Balance.StringFixed(2), calculated.StringFixed(2))
	} else {
		entries, err := uc.repos.Transaction.ListByWalletAsc(wallet.ID)
		if err != nil {
			return nil, err
		}
		for i := 1; i < len(entries); i++ {
			if !entries[i].BalanceBefore.Equal(entries[i-1].BalanceAfter) {
				report.Status = models.AuditStatusBrokenChain
				report.Notes = fmt.Sprintf("entry %d balanceBefore %s does not chain from entry %d balanceAfter %s",
					entries[i].ID, entries[i].BalanceBefore.StringFixed(2),
					entries[i-1].ID, entries[i-1].BalanceAfter.StringFixed(2))
				break
			}
		}
	}

	if err := uc.repos.Audit.Create(report); err != nil {
		return nil, err
	}
	return report, nil
}
