package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/shoplite/commerce-core/internal/dto"
	"github.com/shoplite/commerce-core/internal/middleware"
	"github.com/shoplite/commerce-core/internal/models"
	"github.com/shoplite/commerce-core/internal/usecases"
)

type WalletHandler struct {
	walletUseCase   usecases.WalletUseCase
	transferUseCase usecases.TransferUseCase
	auditUseCase    usecases.AuditUseCase
}

func NewWalletHandler(walletUseCase usecases.WalletUseCase, transferUseCase usecases.TransferUseCase, auditUseCase usecases.AuditUseCase) *WalletHandler {
	return &WalletHandler{
		walletUseCase:   walletUseCase,
		transferUseCase: transferUseCase,
		auditUseCase:    auditUseCase,
	}
}

// GetOrCreateWallet godoc
//
//	@Summary		Get or lazily create the caller's wallet
//	@Description	Returns the caller's wallet, materializing the user and a zero-balance wallet on first access
//	@Tags			wallets
//	@Accept			json
//	@Produce		json
//	@Param			request	body	dto.GetOrCreateWalletRequest	false	"Optional profile hint"
//	@Success		200	{object}	dto.APIResponse{data=dto.WalletResponse}
//	@Failure		401	{object}	dto.ErrorResponse
//	@Router			/wallets/me [post]
func (h *WalletHandler) GetOrCreateWallet(c *gin.Context) {
	authCtx, ok := middleware.GetAuthContext(c)
	if !ok {
		respondUnauthenticated(c)
		return
	}

	var req dto.GetOrCreateWalletRequest
	_ = c.ShouldBindJSON(&req) // hint is optional; an empty body is fine

	wallet, err := h.walletUseCase.GetOrCreateWallet(authCtx, usecases.ProfileHint{
		Email: req.Email,
		Name:  req.Name,
		Phone: req.Phone,
	})
	if err != nil {
		respondError(c, "Failed to resolve wallet", err)
		return
	}

	c.JSON(http.StatusOK, dto.APIResponse{
		Success: true,
		Message: "Wallet resolved successfully",
		Data:    dto.ToWalletResponse(wallet),
	})
}

// GetBalance godoc
//
//	@Summary		Get the caller's wallet balance
//	@Tags			wallets
//	@Produce		json
//	@Success		200	{object}	dto.APIResponse{data=dto.BalanceResponse}
//	@Failure		404	{object}	dto.ErrorResponse
//	@Router			/wallets/me/balance [get]
func (h *WalletHandler) GetBalance(c *gin.Context) {
	authCtx, ok := middleware.GetAuthContext(c)
	if !ok {
		respondUnauthenticated(c)
		return
	}

	balance, err := h.walletUseCase.GetBalance(authCtx, authCtx.UserID)
	if err != nil {
		respondError(c, "Failed to get balance", err)
		return
	}

	c.JSON(http.StatusOK, dto.APIResponse{
		Success: true,
		Message: "Balance retrieved successfully",
		Data: dto.BalanceResponse{
			UserID:  authCtx.UserID,
			Balance: balance,
		},
	})
}

// GetTransactionHistory godoc
//
//	@Summary		Get the caller's transaction history
//	@Description	Cursor-paginated, newest first
//	@Tags			wallets
//	@Produce		json
//	@Param			cursor	query	string	false	"Opaque pagination cursor"
//	@Param			limit	query	int		false	"Page size (default 20)"
//	@Success		200	{object}	dto.APIResponse{data=dto.TransactionHistoryResponse}
//	@Failure		404	{object}	dto.ErrorResponse
//	@Router			/wallets/me/transactions [get]
func (h *WalletHandler) GetTransactionHistory(c *gin.Context) {
	authCtx, ok := middleware.GetAuthContext(c)
	if !ok {
		respondUnauthenticated(c)
		return
	}

	limit := 20
	if v, err := strconv.Atoi(c.DefaultQuery("limit", "20")); err == nil && v > 0 && v <= 100 {
		limit = v
	}

	var cursor *string
	if v := c.Query("cursor"); v != "" {
		cursor = &v
	}

	transactions, nextCursor, err := h.walletUseCase.GetTransactionHistory(authCtx, authCtx.UserID, cursor, limit)
	if err != nil {
		respondError(c, "Failed to get transaction history", err)
		return
	}

	c.JSON(http.StatusOK, dto.APIResponse{
		Success: true,
		Message: "Transaction history retrieved successfully",
		Data: dto.TransactionHistoryResponse{
			Transactions: dto.ToTransactionResponses(transactions),
			Pagination: dto.CursorPaginationMeta{
				PageSize:    limit,
				NextCursor:  nextCursor,
				HasNextPage: nextCursor != nil,
			},
		},
	})
}

// Debit godoc
//
//	@Summary		Debit the caller's wallet
//	@Tags			wallets
//	@Accept			json
//	@Produce		json
//	@Param			request	body	dto.DebitRequest	true	"Debit payload"
//	@Success		200	{object}	dto.APIResponse{data=dto.TransactionResponse}
//	@Failure		400	{object}	dto.ErrorResponse
//	@Router			/wallets/me/debit [post]
func (h *WalletHandler) Debit(c *gin.Context) {
	authCtx, ok := middleware.GetAuthContext(c)
	if !ok {
		respondUnauthenticated(c)
		return
	}

	var req dto.DebitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Success: false,
			Message: "Invalid request payload",
			Error:   err.Error(),
		})
		return
	}

	_, txn, err := h.walletUseCase.Debit(authCtx, authCtx.UserID, req.Amount, req.Description, req.Reference)
	if err != nil {
		respondError(c, "Debit failed", err)
		return
	}

	c.JSON(http.StatusOK, dto.APIResponse{
		Success: true,
		Message: "Wallet debited successfully",
		Data:    dto.ToTransactionResponse(txn),
	})
}

// Credit godoc
//
//	@Summary		Credit a user's wallet (admin)
//	@Tags			wallets
//	@Accept			json
//	@Produce		json
//	@Param			request	body	dto.CreditRequest	true	"Credit payload"
//	@Success		200	{object}	dto.APIResponse{data=dto.TransactionResponse}
//	@Failure		400	{object}	dto.ErrorResponse
//	@Router			/admin/wallets/credit [post]
func (h *WalletHandler) Credit(c *gin.Context) {
	authCtx, ok := middleware.GetAuthContext(c)
	if !ok {
		respondUnauthenticated(c)
		return
	}

	var req dto.CreditRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Success: false,
			Message: "Invalid request payload",
			Error:   err.Error(),
		})
		return
	}

	_, txn, err := h.walletUseCase.Credit(authCtx, req.UserID, req.Amount,
		models.TransactionType(req.Type), req.Description, req.Reference)
	if err != nil {
		respondError(c, "Credit failed", err)
		return
	}

	c.JSON(http.StatusOK, dto.APIResponse{
		Success: true,
		Message: "Wallet credited successfully",
		Data:    dto.ToTransactionResponse(txn),
	})
}

// Transfer godoc
//
//	@Summary		Transfer funds to another user's wallet
//	@Tags			wallets
//	@Accept			json
//	@Produce		json
//	@Param			request	body	dto.TransferRequest	true	"Transfer payload"
//	@Success		200	{object}	dto.APIResponse
//	@Failure		400	{object}	dto.ErrorResponse
//	@Failure		404	{object}	dto.ErrorResponse
//	@Router			/wallets/me/transfer [post]
func (h *WalletHandler) Transfer(c *gin.Context) {
	authCtx, ok := middleware.GetAuthContext(c)
	if !ok {
		respondUnauthenticated(c)
		return
	}

	var req dto.TransferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Success: false,
			Message: "Invalid request payload",
			Error:   err.Error(),
		})
		return
	}

	debitTxn, creditTxn, err := h.transferUseCase.Transfer(authCtx, authCtx.UserID, req.ToUserID, req.Amount, req.Description)
	if err != nil {
		respondError(c, "Transfer failed", err)
		return
	}

	c.JSON(http.StatusOK, dto.APIResponse{
		Success: true,
		Message: "Transfer completed successfully",
		Data: gin.H{
			"debit":  dto.ToTransactionResponse(debitTxn),
			"credit": dto.ToTransactionResponse(creditTxn),
		},
	})
}

// VerifyWallet godoc
//
//	@Summary		Audit a user's wallet against its transaction log (admin)
//	@Tags			wallets
//	@Produce		json
//	@Param			user_id	path	int	true	"User ID"
//	@Success		200	{object}	dto.APIResponse
//	@Failure		404	{object}	dto.ErrorResponse
//	@Router			/admin/wallets/{user_id}/audit [post]
func (h *WalletHandler) VerifyWallet(c *gin.Context) {
	authCtx, ok := middleware.GetAuthContext(c)
	if !ok {
		respondUnauthenticated(c)
		return
	}

	userID, err := strconv.ParseUint(c.Param("user_id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Success: false,
			Message: "Invalid user id",
			Error:   err.Error(),
		})
		return
	}

	report, err := h.auditUseCase.VerifyWallet(authCtx, uint(userID))
	if err != nil {
		respondError(c, "Wallet audit failed", err)
		return
	}

	c.JSON(http.StatusOK, dto.APIResponse{
		Success: true,
		Message: "Wallet audit completed",
		Data:    report,
	})
}
