package repositories

import (
	"gorm.io/gorm"

	"github.com/shoplite/commerce-core/internal/models"
)

type bankRepository struct {
	db *gorm.DB
}

// NewBankRepository creates a new bank repository
func NewBankRepository(db *gorm.DB) BankRepository {
	return &bankRepository{db: db}
}

func (r *bankRepository) WithTx(tx *gorm.DB) BankRepository {
	if tx == nil {
		return r
	}
	return &bankRepository{db: tx}
}

func (r *bankRepository) Create(bank *models.Bank) error {
	return r.db.Create(bank).Error
}

func (r *bankRepository) GetByID(tenantID, id uint) (*models.Bank, error) {
	var bank models.Bank
	err := r.db.Where("tenant_id = ?", tenantID).First(&bank, id).Error
	if err != nil {
		return nil, err
	}
	return &bank, nil
}

func (r *bankRepository) GetByCode(tenantID uint, code string) (*models.Bank, error) {
	var bank models.Bank
	err := r.db.Where("tenant_id = ? AND code = ?", tenantID, code).First(&bank).Error
	if err != nil {
		return nil, err
	}
	return &bank, nil
}

func (r *bankRepository) List(tenantID uint, offset, limit int) ([]models.Bank, int64, error) {
	var banks []models.Bank
	var total int64

	query := r.db.Model(&models.Bank{}).Where("tenant_id = ?", tenantID)
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.Order("id ASC").Offset(offset).Limit(limit).Find(&banks).Error
	return banks, total, err
}
