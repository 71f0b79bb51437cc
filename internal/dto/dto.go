package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/shoplite/commerce-core/internal/models"
	"github.com/shoplite/commerce-core/internal/utils"
)

// WalletResponse represents wallet response data
type WalletResponse struct {
	ID       uint            `json:"id" example:"1"`
	TenantID uint            `json:"tenant_id" example:"1"`
	UserID   uint            `json:"user_id" example:"1"`
	Balance  decimal.Decimal `json:"balance" example:"1000.50"`
	Currency string          `json:"currency" example:"USD"`
	IsActive bool            `json:"is_active" example:"true"`
} //@name WalletResponse

// BalanceResponse represents wallet balance response
type BalanceResponse struct {
	UserID  uint            `json:"user_id" example:"1"`
	Balance decimal.Decimal `json:"balance" example:"1000.50"`
} //@name BalanceResponse

// GetOrCreateWalletRequest carries the optional profile hint for lazy user
// materialization.
type GetOrCreateWalletRequest struct {
	Email string `json:"email" example:"jane@example.com"`
	Name  string `json:"name" example:"Jane Doe"`
	Phone string `json:"phone" example:"+15550100"`
} //@name GetOrCreateWalletRequest

// CreditRequest represents an administrative wallet credit
type CreditRequest struct {
	UserID      uint            `json:"user_id" binding:"required" example:"1"`
	Amount      decimal.Decimal `json:"amount" binding:"required" example:"100.50"`
	Type        string          `json:"type" binding:"required" example:"BONUS"`
	Description string          `json:"description" example:"Loyalty bonus"`
	Reference   string          `json:"reference" example:"BON123456"`
} //@name CreditRequest

// DebitRequest represents a wallet debit
type DebitRequest struct {
	Amount      decimal.Decimal `json:"amount" binding:"required" example:"50.25"`
	Description string          `json:"description" example:"Order payment"`
	Reference   string          `json:"reference" example:"ORD123456"`
} //@name DebitRequest

// TransferRequest represents a wallet-to-wallet transfer
type TransferRequest struct {
	ToUserID    uint            `json:"to_user_id" binding:"required" example:"2"`
	Amount      decimal.Decimal `json:"amount" binding:"required" example:"75.00"`
	Description string          `json:"description" example:"Payment to friend"`
} //@name TransferRequest

// TransactionResponse represents one ledger entry
type TransactionResponse struct {
	ID             uint            `json:"id" example:"1"`
	CreatedAt      time.Time       `json:"created_at" example:"2023-01-01T00:00:00Z"`
	WalletID       uint            `json:"wallet_id" example:"1"`
	Type           string          `json:"type" example:"TOPUP"`
	Amount         decimal.Decimal `json:"amount" example:"100.50"`
	BalanceBefore  decimal.Decimal `json:"balance_before" example:"900.00"`
	BalanceAfter   decimal.Decimal `json:"balance_after" example:"1000.50"`
	Currency       string          `json:"currency" example:"USD"`
	Description    string          `json:"description" example:"Wallet top-up"`
	Reference      string          `json:"reference" example:"TOPUP-12"`
	Status         string          `json:"status" example:"COMPLETED"`
	TopUpRequestID *uint           `json:"top_up_request_id,omitempty" example:"12"`
} //@name TransactionResponse

// TransactionHistoryResponse represents cursor-paginated transaction history
type TransactionHistoryResponse struct {
	Transactions []TransactionResponse `json:"transactions"`
	Pagination   CursorPaginationMeta  `json:"pagination"`
} //@name TransactionHistoryResponse

// CursorPaginationMeta represents cursor-based pagination metadata
type CursorPaginationMeta struct {
	PageSize    int     `json:"page_size" example:"20"`
	NextCursor  *string `json:"next_cursor,omitempty"`
	HasNextPage bool    `json:"has_next_page" example:"true"`
} //@name CursorPaginationMeta

// CreateTopUpRequest represents a new top-up request payload
type CreateTopUpRequest struct {
	Amount        decimal.Decimal `json:"amount" binding:"required" example:"50.00"`
	PaymentMethod string          `json:"payment_method" binding:"required" example:"BANK_TRANSFER"`
	BankID        *uint           `json:"bank_id,omitempty" example:"3"`
	ReceiptImage  string          `json:"receipt_image,omitempty" example:"receipts/abc.jpg"`
} //@name CreateTopUpRequest

// RejectTopUpRequest carries the rejection reason
type RejectTopUpRequest struct {
	Reason string `json:"reason" binding:"required" example:"Receipt unreadable"`
} //@name RejectTopUpRequest

// TopUpResponse represents a top-up request
type TopUpResponse struct {
	ID                uint            `json:"id" example:"12"`
	CreatedAt         time.Time       `json:"created_at" example:"2023-01-01T00:00:00Z"`
	UserID            uint            `json:"user_id" example:"1"`
	Amount            decimal.Decimal `json:"amount" example:"50.00"`
	Currency          string          `json:"currency" example:"USD"`
	PaymentMethod     string          `json:"payment_method" example:"BANK_TRANSFER"`
	BankID            *uint           `json:"bank_id,omitempty" example:"3"`
	ReceiptImage      string          `json:"receipt_image,omitempty"`
	Status            string          `json:"status" example:"PENDING"`
	ProcessedAt       *time.Time      `json:"processed_at,omitempty"`
	ProcessedByUserID *uint           `json:"processed_by_user_id,omitempty"`
	RejectionReason   string          `json:"rejection_reason,omitempty"`
} //@name TopUpResponse

// CreateBankRequest represents a new tenant bank account payload
type CreateBankRequest struct {
	Code          string `json:"code" binding:"required" example:"BOA-01"`
	Name          string `json:"name" binding:"required" example:"Bank of America"`
	AccountName   string `json:"account_name" example:"Shoplite Inc"`
	AccountNumber string `json:"account_number" example:"000123456789"`
} //@name CreateBankRequest

// BankResponse represents a tenant bank account
type BankResponse struct {
	ID            uint   `json:"id" example:"3"`
	Code          string `json:"code" example:"BOA-01"`
	Name          string `json:"name" example:"Bank of America"`
	AccountName   string `json:"account_name,omitempty"`
	AccountNumber string `json:"account_number,omitempty"`
	IsActive      bool   `json:"is_active" example:"true"`
} //@name BankResponse

// ImportCardsRequest represents an inline card import payload
type ImportCardsRequest struct {
	ProductID uint            `json:"product_id" binding:"required" example:"7"`
	Cards     []ImportCardRow `json:"cards" binding:"required"`
} //@name ImportCardsRequest

// ImportCardRow is one card in an inline import payload
type ImportCardRow struct {
	Code   string `json:"code" binding:"required" example:"GC-AAAA-0001"`
	Pin    string `json:"pin,omitempty" example:"9912"`
	Expiry string `json:"expiry,omitempty" example:"2027-12-31"`
} //@name ImportCardRow

// ReserveCardsRequest represents a reservation payload
type ReserveCardsRequest struct {
	ProductID uint   `json:"product_id" binding:"required" example:"7"`
	Quantity  int    `json:"quantity" binding:"required" example:"2"`
	OrderID   string `json:"order_id" binding:"required" example:"ORD-2024-0001"`
} //@name ReserveCardsRequest

// MarkSoldRequest finalizes a reservation
type MarkSoldRequest struct {
	CardIDs []uint `json:"card_ids" binding:"required"`
	UserID  uint   `json:"user_id" binding:"required" example:"1"`
	OrderID string `json:"order_id" binding:"required" example:"ORD-2024-0001"`
} //@name MarkSoldRequest

// CardIDsRequest carries a set of card ids for release/quarantine operations
type CardIDsRequest struct {
	CardIDs []uint `json:"card_ids" binding:"required"`
} //@name CardIDsRequest

// CardResponse represents one inventory card
type CardResponse struct {
	ID           uint       `json:"id" example:"100"`
	ProductID    uint       `json:"product_id" example:"7"`
	CardCode     string     `json:"card_code" example:"GC-AAAA-0001"`
	Status       string     `json:"status" example:"AVAILABLE"`
	ExpiryDate   *time.Time `json:"expiry_date,omitempty"`
	BatchID      uint       `json:"batch_id" example:"4"`
	OrderID      *string    `json:"order_id,omitempty"`
	SoldAt       *time.Time `json:"sold_at,omitempty"`
	SoldToUserID *uint      `json:"sold_to_user_id,omitempty"`
} //@name CardResponse

// BatchResponse represents one import batch audit record
type BatchResponse struct {
	ID           uint      `json:"id" example:"4"`
	CreatedAt    time.Time `json:"created_at"`
	ProductID    uint      `json:"product_id" example:"7"`
	BatchNumber  string    `json:"batch_number"`
	TotalCards   int       `json:"total_cards" example:"100"`
	ValidCards   int       `json:"valid_cards" example:"98"`
	InvalidCards int       `json:"invalid_cards" example:"2"`
	ImportedByID uint      `json:"imported_by_id" example:"9"`
} //@name BatchResponse

// APIResponse represents a standard API response
type APIResponse struct {
	Success bool        `json:"success" example:"true"`
	Message string      `json:"message" example:"Operation successful"`
	Data    interface{} `json:"data,omitempty"`
} //@name APIResponse

// ErrorResponse represents an error response
type ErrorResponse struct {
	Success bool        `json:"success" example:"false"`
	Message string      `json:"message" example:"Operation failed"`
	Error   string      `json:"error" example:"Validation error"`
	Detail  interface{} `json:"detail,omitempty"`
} //@name ErrorResponse

// PaginatedResponse wraps a list with offset pagination metadata
type PaginatedResponse struct {
	Data       interface{}      `json:"data"`
	Pagination utils.Pagination `json:"pagination"`
} //@name PaginatedResponse

// Helper functions to convert models to DTOs

func ToWalletResponse(wallet *models.Wallet) WalletResponse {
	return WalletResponse{
		ID:       wallet.ID,
		TenantID: wallet.TenantID,
		UserID:   wallet.UserID,
		Balance:  wallet.Balance,
		Currency: wallet.Currency,
		IsActive: wallet.IsActive,
	}
}

func ToTransactionResponse(txn *models.WalletTransaction) TransactionResponse {
	return TransactionResponse{
		ID:             txn.ID,
		CreatedAt:      txn.CreatedAt,
		WalletID:       txn.WalletID,
		Type:           string(txn.Type),
		Amount:         txn.Amount,
		BalanceBefore:  txn.BalanceBefore,
		BalanceAfter:   txn.BalanceAfter,
		Currency:       txn.Currency,
		Description:    txn.Description,
		Reference:      txn.Reference,
		Status:         string(txn.Status),
		TopUpRequestID: txn.TopUpRequestID,
	}
}

func ToTransactionResponses(txns []models.WalletTransaction) []TransactionResponse {
	out := make([]TransactionResponse, len(txns))
	for i := range txns {
		out[i] = ToTransactionResponse(&txns[i])
	}
	return out
}

func ToTopUpResponse(req *models.WalletTopUpRequest) TopUpResponse {
	return TopUpResponse{
		ID:                req.ID,
		CreatedAt:         req.CreatedAt,
		UserID:            req.UserID,
		Amount:            req.Amount,
		Currency:          req.Currency,
		PaymentMethod:     string(req.PaymentMethod),
		BankID:            req.BankID,
		ReceiptImage:      req.ReceiptImage,
		Status:            string(req.Status),
		ProcessedAt:       req.ProcessedAt,
		ProcessedByUserID: req.ProcessedByUserID,
		RejectionReason:   req.RejectionReason,
	}
}

func ToTopUpResponses(reqs []models.WalletTopUpRequest) []TopUpResponse {
	out := make([]TopUpResponse, len(reqs))
	for i := range reqs {
		out[i] = ToTopUpResponse(&reqs[i])
	}
	return out
}

func ToBankResponse(bank *models.Bank) BankResponse {
	return BankResponse{
		ID:            bank.ID,
		Code:          bank.Code,
		Name:          bank.Name,
		AccountName:   bank.AccountName,
		AccountNumber: bank.AccountNumber,
		IsActive:      bank.IsActive,
	}
}

func ToBankResponses(banks []models.Bank) []BankResponse {
	out := make([]BankResponse, len(banks))
	for i := range banks {
		out[i] = ToBankResponse(&banks[i])
	}
	return out
}

func ToCardResponse(card *models.CardInventory) CardResponse {
	return CardResponse{
		ID:           card.ID,
		ProductID:    card.ProductID,
		CardCode:     card.CardCode,
		Status:       string(card.Status),
		ExpiryDate:   card.ExpiryDate,
		BatchID:      card.BatchID,
		OrderID:      card.OrderID,
		SoldAt:       card.SoldAt,
		SoldToUserID: card.SoldToUserID,
	}
}

func ToCardResponses(cards []models.CardInventory) []CardResponse {
	out := make([]CardResponse, len(cards))
	for i := range cards {
		out[i] = ToCardResponse(&cards[i])
	}
	return out
}

func ToBatchResponse(batch *models.CardBatch) BatchResponse {
	return BatchResponse{
		ID:           batch.ID,
		CreatedAt:    batch.CreatedAt,
		ProductID:    batch.ProductID,
		BatchNumber:  batch.BatchNumber,
		TotalCards:   batch.TotalCards,
		ValidCards:   batch.ValidCards,
		InvalidCards: batch.InvalidCards,
		ImportedByID: batch.ImportedByID,
	}
}

func ToBatchResponses(batches []models.CardBatch) []BatchResponse {
	out := make([]BatchResponse, len(batches))
	for i := range batches {
		out[i] = ToBatchResponse(&batches[i])
	}
	return out
}
