package handlers

import (
	"io"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"

	"github.com/shoplite/commerce-core/internal/auth"
	"github.com/shoplite/commerce-core/internal/models"
	"github.com/shoplite/commerce-core/internal/usecases"
)

type MockWalletUseCase struct {
	mock.Mock
}

func (m *MockWalletUseCase) GetOrCreateWallet(ctx auth.Context, hint usecases.ProfileHint) (*models.Wallet, error) {
	args := m.Called(ctx, hint)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Wallet), args.Error(1)
}

func (m *MockWalletUseCase) Credit(ctx auth.Context, userID uint, amount decimal.Decimal, txnType models.TransactionType, description, reference string) (*models.Wallet, *models.WalletTransaction, error) {
	args := m.Called(ctx, userID, amount, txnType, description, reference)
	var wallet *models.Wallet
	var txn *models.WalletTransaction
	if args.Get(0) != nil {
		wallet = args.Get(0).(*models.Wallet)
	}
	if args.Get(1) != nil {
		txn = args.Get(1).(*models.WalletTransaction)
	}
	return wallet, txn, args.Error(2)
}

func (m *MockWalletUseCase) Debit(ctx auth.Context, userID uint, amount decimal.Decimal, description, reference string) (*models.Wallet, *models.WalletTransaction, error) {
	args := m.Called(ctx, userID, amount, description, reference)
	var wallet *models.Wallet
	var txn *models.WalletTransaction
	if args.Get(0) != nil {
		wallet = args.Get(0).(*models.Wallet)
	}
	if args.Get(1) != nil {
		txn = args.Get(1).(*models.WalletTransaction)
	}
	return wallet, txn, args.Error(2)
}

func (m *MockWalletUseCase) HasSufficientBalance(ctx auth.Context, userID uint, amount decimal.Decimal) (bool, error) {
	args := m.Called(ctx, userID, amount)
	return args.Bool(0), args.Error(1)
}

func (m *MockWalletUseCase) GetBalance(ctx auth.Context, userID uint) (decimal.Decimal, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func (m *MockWalletUseCase) GetTransactionHistory(ctx auth.Context, userID uint, cursor *string, limit int) ([]models.WalletTransaction, *string, error) {
	args := m.Called(ctx, userID, cursor, limit)
	var txns []models.WalletTransaction
	var next *string
	if args.Get(0) != nil {
		txns = args.Get(0).([]models.WalletTransaction)
	}
	if args.Get(1) != nil {
		next = args.Get(1).(*string)
	}
	return txns, next, args.Error(2)
}

func (m *MockWalletUseCase) GetOrCreateWalletTx(tx *gorm.DB, tenantID, userID uint, hint usecases.ProfileHint) (*models.Wallet, error) {
	args := m.Called(tx, tenantID, userID, hint)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Wallet), args.Error(1)
}

func (m *MockWalletUseCase) ApplyTx(tx *gorm.DB, wallet *models.Wallet, amount decimal.Decimal, txnType models.TransactionType, description, reference string, topUpRequestID *uint) (*models.WalletTransaction, error) {
	args := m.Called(tx, wallet, amount, txnType, description, reference, topUpRequestID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.WalletTransaction), args.Error(1)
}

type MockTransferUseCase struct {
	mock.Mock
}

func (m *MockTransferUseCase) Transfer(ctx auth.Context, fromUserID, toUserID uint, amount decimal.Decimal, description string) (*models.WalletTransaction, *models.WalletTransaction, error) {
	args := m.Called(ctx, fromUserID, toUserID, amount, description)
	var debit, credit *models.WalletTransaction
	if args.Get(0) != nil {
		debit = args.Get(0).(*models.WalletTransaction)
	}
	if args.Get(1) != nil {
		credit = args.Get(1).(*models.WalletTransaction)
	}
	return debit, credit, args.Error(2)
}

type MockAuditUseCase struct {
	mock.Mock
}

func (m *MockAuditUseCase) VerifyWallet(ctx auth.Context, userID uint) (*models.LedgerAuditReport, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.LedgerAuditReport), args.Error(1)
}

type MockTopUpUseCase struct {
	mock.Mock
}

func (m *MockTopUpUseCase) Create(ctx auth.Context, input usecases.CreateTopUpInput) (*models.WalletTopUpRequest, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.WalletTopUpRequest), args.Error(1)
}

func (m *MockTopUpUseCase) Approve(ctx auth.Context, requestID uint) (*models.WalletTopUpRequest, error) {
	args := m.Called(ctx, requestID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.WalletTopUpRequest), args.Error(1)
}

func (m *MockTopUpUseCase) Reject(ctx auth.Context, requestID uint, reason string) (*models.WalletTopUpRequest, error) {
	args := m.Called(ctx, requestID, reason)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.WalletTopUpRequest), args.Error(1)
}

func (m *MockTopUpUseCase) Cancel(ctx auth.Context, requestID uint) (*models.WalletTopUpRequest, error) {
	args := m.Called(ctx, requestID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.WalletTopUpRequest), args.Error(1)
}

func (m *MockTopUpUseCase) Get(ctx auth.Context, requestID uint) (*models.WalletTopUpRequest, error) {
	args := m.Called(ctx, requestID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.WalletTopUpRequest), args.Error(1)
}

func (m *MockTopUpUseCase) List(ctx auth.Context, userID *uint, status *models.TopUpStatus, page, pageSize int) ([]models.WalletTopUpRequest, int64, error) {
	args := m.Called(ctx, userID, status, page, pageSize)
	var reqs []models.WalletTopUpRequest
	if args.Get(0) != nil {
		reqs = args.Get(0).([]models.WalletTopUpRequest)
	}
	return reqs, args.Get(1).(int64), args.Error(2)
}

func (m *MockTopUpUseCase) CreateBank(ctx auth.Context, input usecases.CreateBankInput) (*models.Bank, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Bank), args.Error(1)
}

func (m *MockTopUpUseCase) ListBanks(ctx auth.Context, page, pageSize int) ([]models.Bank, int64, error) {
	args := m.Called(ctx, page, pageSize)
	var banks []models.Bank
	if args.Get(0) != nil {
		banks = args.Get(0).([]models.Bank)
	}
	return banks, args.Get(1).(int64), args.Error(2)
}

type MockCardUseCase struct {
	mock.Mock
}

func (m *MockCardUseCase) ImportFromArray(ctx auth.Context, productID uint, rows []usecases.CardImportRow) (*models.CardBatch, *usecases.ImportReport, error) {
	args := m.Called(ctx, productID, rows)
	var batch *models.CardBatch
	var report *usecases.ImportReport
	if args.Get(0) != nil {
		batch = args.Get(0).(*models.CardBatch)
	}
	if args.Get(1) != nil {
		report = args.Get(1).(*usecases.ImportReport)
	}
	return batch, report, args.Error(2)
}

func (m *MockCardUseCase) ImportFromFile(ctx auth.Context, productID uint, r io.Reader) (*models.CardBatch, *usecases.ImportReport, error) {
	args := m.Called(ctx, productID, r)
	var batch *models.CardBatch
	var report *usecases.ImportReport
	if args.Get(0) != nil {
		batch = args.Get(0).(*models.CardBatch)
	}
	if args.Get(1) != nil {
		report = args.Get(1).(*usecases.ImportReport)
	}
	return batch, report, args.Error(2)
}

func (m *MockCardUseCase) ReserveCards(ctx auth.Context, productID uint, quantity int, orderID string) ([]uint, error) {
	args := m.Called(ctx, productID, quantity, orderID)
	var ids []uint
	if args.Get(0) != nil {
		ids = args.Get(0).([]uint)
	}
	return ids, args.Error(1)
}

func (m *MockCardUseCase) MarkAsSold(ctx auth.Context, cardIDs []uint, userID uint, orderID string) error {
	args := m.Called(ctx, cardIDs, userID, orderID)
	return args.Error(0)
}

func (m *MockCardUseCase) ReleaseCards(ctx auth.Context, cardIDs []uint) error {
	args := m.Called(ctx, cardIDs)
	return args.Error(0)
}

func (m *MockCardUseCase) MarkExpiredCards(ctx auth.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockCardUseCase) MoveToEmergency(ctx auth.Context, cardIDs []uint) error {
	args := m.Called(ctx, cardIDs)
	return args.Error(0)
}

func (m *MockCardUseCase) RecoverFromEmergency(ctx auth.Context, cardIDs []uint) error {
	args := m.Called(ctx, cardIDs)
	return args.Error(0)
}

func (m *MockCardUseCase) GetInventory(ctx auth.Context, productID uint, status *models.CardStatus, page, pageSize int) ([]models.CardInventory, int64, error) {
	args := m.Called(ctx, productID, status, page, pageSize)
	var cards []models.CardInventory
	if args.Get(0) != nil {
		cards = args.Get(0).([]models.CardInventory)
	}
	return cards, args.Get(1).(int64), args.Error(2)
}

func (m *MockCardUseCase) GetBatches(ctx auth.Context, productID uint, page, pageSize int) ([]models.CardBatch, int64, error) {
	args := m.Called(ctx, productID, page, pageSize)
	var batches []models.CardBatch
	if args.Get(0) != nil {
		batches = args.Get(0).([]models.CardBatch)
	}
	return batches, args.Get(1).(int64), args.Error(2)
}

func (m *MockCardUseCase) GetInventorySummary(ctx auth.Context, productID uint) (map[models.CardStatus]int64, error) {
	args := m.Called(ctx, productID)
	var summary map[models.CardStatus]int64
	if args.Get(0) != nil {
		summary = args.Get(0).(map[models.CardStatus]int64)
	}
	return summary, args.Error(1)
}
