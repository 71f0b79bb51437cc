package usecases

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/shoplite/commerce-core/internal/apperrors"
	"github.com/shoplite/commerce-core/internal/auth"
	"github.com/shoplite/commerce-core/internal/models"
	"github.com/shoplite/commerce-core/internal/repositories"
)

// expiryLayout is the date format accepted in card import files.
const expiryLayout = "2006-01-02"

type cardUseCase struct {
	repos *repositories.Repositories
	log   *logrus.Logger
}

// NewCardUseCase creates a new card inventory use case
func NewCardUseCase(repos *repositories.Repositories, log *logrus.Logger) CardUseCase {
	return newCardUseCase(repos, log)
}

func newCardUseCase(repos *repositories.Repositories, log *logrus.Logger) *cardUseCase {
	return &cardUseCase{repos: repos, log: log}
}

func (uc *cardUseCase) ImportFromArray(ctx auth.Context, productID uint, rows []CardImportRow) (*models.CardBatch, *ImportReport, error) {
	if productID == 0 {
		return nil, nil, apperrors.Validation("product_id", "is required")
	}
	if len(rows) == 0 {
		return nil, nil, apperrors.Validation("cards", "at least one card is required")
	}

	report := &ImportReport{
		BatchNumber: uuid.NewString(),
		TotalCards:  len(rows),
	}

	// Validate every row up front; a bad row lands in the report, it never
	// fails the batch.
	seen := make(map[string]bool, len(rows))
	valid := make([]CardImportRow, 0, len(rows))
	for i, row := range rows {
		code := strings.TrimSpace(row.Code)
		switch {
		case code == "":
			report.Errors = append(report.Errors, fmt.Sprintf("row %d: empty card code", i+1))
		case seen[code]:
			report.Errors = append(report.Errors, fmt.Sprintf("row %d: duplicate code %q in batch", i+1, code))
		default:
			exists, err := uc.repos.Card.CodeExists(ctx.TenantID, code)
			if err != nil {
				return nil, nil, err
			}
			if exists {
				report.Errors = append(report.Errors, fmt.Sprintf("row %d: code %q already imported", i+1, code))
			} else {
				seen[code] = true
				row.Code = code
				valid = append(valid, row)
				continue
			}
		}
	}

	report.ValidCards = len(valid)
	report.InvalidCards = report.TotalCards - report.ValidCards

	batch := &models.CardBatch{
		TenantID:     ctx.TenantID,
		ProductID:    productID,
		BatchNumber:  report.BatchNumber,
		TotalCards:   report.TotalCards,
		ValidCards:   report.ValidCards,
		InvalidCards: report.InvalidCards,
		ImportedByID: ctx.UserID,
	}

	err := uc.repos.InTransaction(func(tx *gorm.DB) error {
		cards := uc.repos.Card.WithTx(tx)
		if err := cards.CreateBatch(batch); err != nil {
			return err
		}
		for _, row := range valid {
			card := &models.CardInventory{
				TenantID:   ctx.TenantID,
				ProductID:  productID,
				CardCode:   row.Code,
				CardPin:    row.Pin,
				ExpiryDate: row.Expiry,
				Status:     models.CardStatusAvailable,
				BatchID:    batch.ID,
			}
			if err := cards.CreateCard(card); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	uc.log.WithFields(logrus.Fields{
		"tenant_id":  ctx.TenantID,
		"product_id": productID,
		"batch":      batch.BatchNumber,
		"valid":      report.ValidCards,
		"invalid":    report.InvalidCards,
	}).Info("card batch imported")

	return batch, report, nil
}

// ImportFromFile streams a CSV of card_code,card_pin,expiry_date rows. Parse
// failures are recorded per row, like any other bad row.
func (uc *cardUseCase) ImportFromFile(ctx auth.Context, productID uint, r io.Reader) (*models.CardBatch, *ImportReport, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	var rows []CardImportRow
	var parseErrors []string
	line := 0
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			parseErrors = append(parseErrors, fmt.Sprintf("row %d: %v", line, err))
			continue
		}
		if line == 1 && strings.EqualFold(strings.TrimSpace(record[0]), "card_code") {
			continue // header
		}
		row := CardImportRow{Code: strings.TrimSpace(record[0])}
		if len(record) > 1 {
			row.Pin = strings.TrimSpace(record[1])
		}
		if len(record) > 2 && strings.TrimSpace(record[2]) != "" {
			expiry, err := time.Parse(expiryLayout, strings.TrimSpace(record[2]))
			if err != nil {
				parseErrors = append(parseErrors, fmt.Sprintf("row %d: bad expiry date %q", line, record[2]))
				row.Code = "" // counts as invalid
			} else {
				row.Expiry = &expiry
			}
		}
		rows = append(rows, row)
	}

	batch, report, err := uc.ImportFromArray(ctx, productID, rows)
	if err != nil {
		return nil, nil, err
	}
	report.Errors = append(parseErrors, report.Errors...)
	return batch, report, nil
}

// ReserveCards claims the `quantity` oldest-imported eligible cards inside
// one transaction. The lock-and-skip select guarantees two concurrent
// reservations never pick the same row; a shortfall aborts with the actual
// availability and mutates nothing.
func (uc *cardUseCase) ReserveCards(ctx auth.Context, productID uint, quantity int, orderID string) ([]uint, error) {
	if quantity <= 0 {
		return nil, apperrors.Validation("quantity", "must be greater than zero")
	}
	if strings.TrimSpace(orderID) == "" {
		return nil, apperrors.Validation("order_id", "is required")
	}

	var reserved []uint
	now := time.Now().UTC()

	err := uc.repos.InTransaction(func(tx *gorm.DB) error {
		cards := uc.repos.Card.WithTx(tx)

		candidates, err := cards.LockAvailable(ctx.TenantID, productID, quantity, now)
		if err != nil {
			return err
		}
		if len(candidates) < quantity {
			return &apperrors.InsufficientInventoryError{
				Requested: quantity,
				Available: len(candidates),
			}
		}

		ids := make([]uint, len(candidates))
		for i, c := range candidates {
			ids[i] = c.ID
		}

		affected, err := cards.UpdateStatus(ctx.TenantID, ids, models.CardStatusAvailable, models.CardStatusReserved,
			map[string]interface{}{"order_id": orderID})
		if err != nil {
			return err
		}
		if affected != int64(len(ids)) {
			return fmt.Errorf("reserved %d of %d locked cards", affected, len(ids))
		}

		reserved = ids
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.log.WithFields(logrus.Fields{
		"tenant_id":  ctx.TenantID,
		"product_id": productID,
		"order_id":   orderID,
		"quantity":   quantity,
	}).Info("cards reserved")

	return reserved, nil
}

// transition moves a set of cards between statuses with an all-or-nothing
// guard: if any card is not in the expected origin state the whole unit rolls
// back.
func (uc *cardUseCase) transition(ctx auth.Context, cardIDs []uint, from, to models.CardStatus, extra map[string]interface{}) error {
	if len(cardIDs) == 0 {
		return apperrors.Validation("card_ids", "at least one card is required")
	}
	ids := dedupeIDs(cardIDs)

	return uc.repos.InTransaction(func(tx *gorm.DB) error {
		affected, err := uc.repos.Card.WithTx(tx).UpdateStatus(ctx.TenantID, ids, from, to, extra)
		if err != nil {
			return err
		}
		if affected != int64(len(ids)) {
			return apperrors.InvalidState("%d of %d cards are not %s", int64(len(ids))-affected, len(ids), from)
		}
		return nil
	})
}

func (uc *cardUseCase) MarkAsSold(ctx auth.Context, cardIDs []uint, userID uint, orderID string) error {
	if strings.TrimSpace(orderID) == "" {
		return apperrors.Validation("order_id", "is required")
	}
	now := time.Now().UTC()
	return uc.transition(ctx, cardIDs, models.CardStatusReserved, models.CardStatusSold, map[string]interface{}{
		"sold_at":         now,
		"sold_to_user_id": userID,
		"order_id":        orderID,
	})
}

func (uc *cardUseCase) ReleaseCards(ctx auth.Context, cardIDs []uint) error {
	return uc.transition(ctx, cardIDs, models.CardStatusReserved, models.CardStatusAvailable, map[string]interface{}{
		"order_id": nil,
	})
}

func (uc *cardUseCase) MarkExpiredCards(ctx auth.Context) (int64, error) {
	affected, err := uc.repos.Card.MarkExpired(ctx.TenantID, time.Now().UTC())
	if err != nil {
		return 0, err
	}
	if affected > 0 {
		uc.log.WithFields(logrus.Fields{
			"tenant_id": ctx.TenantID,
			"expired":   affected,
		}).Info("expired cards swept")
	}
	return affected, nil
}

func (uc *cardUseCase) MoveToEmergency(ctx auth.Context, cardIDs []uint) error {
	return uc.transition(ctx, cardIDs, models.CardStatusAvailable, models.CardStatusInvalid, nil)
}

func (uc *cardUseCase) RecoverFromEmergency(ctx auth.Context, cardIDs []uint) error {
	return uc.transition(ctx, cardIDs, models.CardStatusInvalid, models.CardStatusAvailable, nil)
}

func (uc *cardUseCase) GetInventory(ctx auth.Context, productID uint, status *models.CardStatus, page, pageSize int) ([]models.CardInventory, int64, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 20
	}
	return uc.repos.Card.ListInventory(ctx.TenantID, productID, status, (page-1)*pageSize, pageSize)
}

func (uc *cardUseCase) GetBatches(ctx auth.Context, productID uint, page, pageSize int) ([]models.CardBatch, int64, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 20
	}
	return uc.repos.Card.ListBatches(ctx.TenantID, productID, (page-1)*pageSize, pageSize)
}

func (uc *cardUseCase) GetInventorySummary(ctx auth.Context, productID uint) (map[models.CardStatus]int64, error) {
	return uc.repos.Card.CountByStatus(ctx.TenantID, productID)
}

func dedupeIDs(ids []uint) []uint {
	seen := make(map[uint]bool, len(ids))
	out := make([]uint, 0, len(ids))
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	return out
}
