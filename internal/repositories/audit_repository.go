package repositories

import (
	"gorm.io/gorm"

	"github.com/shoplite/commerce-core/internal/models"
)

type auditRepository struct {
	db *gorm.DB
}

// NewAuditRepository creates a new ledger audit repository
func NewAuditRepository(db *gorm.DB) AuditRepository {
	return &auditRepository{db: db}
}

func (r *auditRepository) Create(report *models.LedgerAuditReport) error {
	return r.db.Create(report).Error
}

func (r *auditRepository) ListByWalletID(walletID uint, offset, limit int) ([]models.LedgerAuditReport, error) {
	var reports []models.LedgerAuditReport
	err := r.db.Where("wallet_id = ?", walletID).
		Order("created_at DESC").
		Offset(offset).Limit(limit).
		Find(&reports).Error
	return reports, err
}
