package repositories

import (
	"time"

	"gorm.io/gorm"

	"github.com/shoplite/commerce-core/internal/models"
)

type topUpRepository struct {
	db *gorm.DB
}

// NewTopUpRepository creates a new top-up request repository
func NewTopUpRepository(db *gorm.DB) TopUpRepository {
	return &topUpRepository{db: db}
}

func (r *topUpRepository) WithTx(tx *gorm.DB) TopUpRepository {
	if tx == nil {
		return r
	}
	return &topUpRepository{db: tx}
}

func (r *topUpRepository) Create(req *models.WalletTopUpRequest) error {
	return r.db.Create(req).Error
}

func (r *topUpRepository) GetByID(tenantID, id uint) (*models.WalletTopUpRequest, error) {
	var req models.WalletTopUpRequest
	err := r.db.Preload("Bank").Where("tenant_id = ?", tenantID).First(&req, id).Error
	if err != nil {
		return nil, err
	}
	return &req, nil
}

func (r *topUpRepository) List(tenantID uint, userID *uint, status *models.TopUpStatus, offset, limit int) ([]models.WalletTopUpRequest, int64, error) {
	var requests []models.WalletTopUpRequest
	var total int64

	query := r.db.Model(&models.WalletTopUpRequest{}).Where("tenant_id = ?", tenantID)
	if userID != nil {
		query = query.Where("user_id = ?", *userID)
	}
	if status != nil {
		query = query.Where("status = ?", *status)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.Preload("Bank").Order("created_at DESC").Offset(offset).Limit(limit).Find(&requests).Error
	return requests, total, err
}

// Transition is the status-guarded update that makes "leaves PENDING exactly
// once" hold: of two racing processors only one sees RowsAffected == 1.
func (r *topUpRepository) Transition(id uint, from, to models.TopUpStatus, processedBy uint, processedAt time.Time, reason string) (int64, error) {
	updates := map[string]interface{}{
		"status":               to,
		"processed_at":         processedAt,
		"processed_by_user_id": processedBy,
	}
	if reason != "" {
		updates["rejection_reason"] = reason
	}

	result := r.db.Model(&models.WalletTopUpRequest{}).
		Where("id = ? AND status = ?", id, from).
		Updates(updates)
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}
