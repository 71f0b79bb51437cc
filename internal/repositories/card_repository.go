package repositories

import (
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/shoplite/commerce-core/internal/models"
)

type cardRepository struct {
	db *gorm.DB
}

// NewCardRepository creates a new card inventory repository
func NewCardRepository(db *gorm.DB) CardRepository {
	return &cardRepository{db: db}
}

func (r *cardRepository) WithTx(tx *gorm.DB) CardRepository {
	if tx == nil {
		return r
	}
	return &cardRepository{db: tx}
}

func (r *cardRepository) CreateBatch(batch *models.CardBatch) error {
	return r.db.Create(batch).Error
}

func (r *cardRepository) CreateCard(card *models.CardInventory) error {
	return r.db.Create(card).Error
}

func (r *cardRepository) GetByID(tenantID, id uint) (*models.CardInventory, error) {
	var card models.CardInventory
	err := r.db.Where("tenant_id = ?", tenantID).First(&card, id).Error
	if err != nil {
		return nil, err
	}
	return &card, nil
}

func (r *cardRepository) CodeExists(tenantID uint, code string) (bool, error) {
	var card models.CardInventory
	err := r.db.Select("id").Where("tenant_id = ? AND card_code = ?", tenantID, code).First(&card).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// LockAvailable claims candidate rows with FOR UPDATE SKIP LOCKED so that
// sibling reservations for the same product degrade to reduced availability
// instead of queueing behind each other's locks.
func (r *cardRepository) LockAvailable(tenantID, productID uint, limit int, now time.Time) ([]models.CardInventory, error) {
	var cards []models.CardInventory
	err := r.db.
		Clauses(clause.Locking{Strength: "UPDATE", Options: "SKIP LOCKED"}).
		Where("tenant_id = ? AND product_id = ? AND status = ?", tenantID, productID, models.CardStatusAvailable).
		Where("expiry_date IS NULL OR expiry_date > ?", now).
		Order("created_at ASC, id ASC").
		Limit(limit).
		Find(&cards).Error
	return cards, err
}

func (r *cardRepository) UpdateStatus(tenantID uint, ids []uint, from, to models.CardStatus, extra map[string]interface{}) (int64, error) {
	updates := map[string]interface{}{"status": to}
	for k, v := range extra {
		updates[k] = v
	}

	result := r.db.Model(&models.CardInventory{}).
		Where("tenant_id = ? AND id IN ? AND status = ?", tenantID, ids, from).
		Updates(updates)
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

func (r *cardRepository) MarkExpired(tenantID uint, now time.Time) (int64, error) {
	result := r.db.Model(&models.CardInventory{}).
		Where("tenant_id = ? AND status = ? AND expiry_date IS NOT NULL AND expiry_date <= ?",
			tenantID, models.CardStatusAvailable, now).
		Update("status", models.CardStatusExpired)
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

func (r *cardRepository) ListInventory(tenantID, productID uint, status *models.CardStatus, offset, limit int) ([]models.CardInventory, int64, error) {
	var cards []models.CardInventory
	var total int64

	query := r.db.Model(&models.CardInventory{}).
		Where("tenant_id = ? AND product_id = ?", tenantID, productID)
	if status != nil {
		query = query.Where("status = ?", *status)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.Order("created_at ASC, id ASC").Offset(offset).Limit(limit).Find(&cards).Error
	return cards, total, err
}

func (r *cardRepository) ListBatches(tenantID, productID uint, offset, limit int) ([]models.CardBatch, int64, error) {
	var batches []models.CardBatch
	var total int64

	query := r.db.Model(&models.CardBatch{}).
		Where("tenant_id = ? AND product_id = ?", tenantID, productID)
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.Order("created_at DESC").Offset(offset).Limit(limit).Find(&batches).Error
	return batches, total, err
}

func (r *cardRepository) CountByStatus(tenantID, productID uint) (map[models.CardStatus]int64, error) {
	type row struct {
		Status models.CardStatus
		Count  int64
	}
	var rows []row

	err := r.db.Model(&models.CardInventory{}).
		Select("status, COUNT(*) as count").
		Where("tenant_id = ? AND product_id = ?", tenantID, productID).
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[models.CardStatus]int64, len(rows))
	for _, r := range rows {
		counts[r.Status] = r.Count
	}
	return counts, nil
}
