package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/shoplite/commerce-core/internal/apperrors"
	"github.com/shoplite/commerce-core/internal/middleware"
	"github.com/shoplite/commerce-core/internal/models"
)

func setupWalletRouter(walletUC *MockWalletUseCase, transferUC *MockTransferUseCase, auditUC *MockAuditUseCase) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	handler := NewWalletHandler(walletUC, transferUC, auditUC)

	v1 := router.Group("/api/v1")
	v1.Use(middleware.IdentityMiddleware())
	v1.POST("/wallets/me", handler.GetOrCreateWallet)
	v1.GET("/wallets/me/balance", handler.GetBalance)
	v1.GET("/wallets/me/transactions", handler.GetTransactionHistory)
	v1.POST("/wallets/me/debit", handler.Debit)
	v1.POST("/wallets/me/transfer", handler.Transfer)

	admin := v1.Group("/admin")
	admin.Use(middleware.RequireAdmin())
	admin.POST("/wallets/credit", handler.Credit)
	return router
}

func doJSON(router *gin.Engine, method, path string, body interface{}, headers map[string]string) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func userHeaders() map[string]string {
	return map[string]string{
		middleware.HeaderTenantID: "1",
		middleware.HeaderUserID:   "7",
		middleware.HeaderUserRole: "user",
	}
}

func adminHeaders() map[string]string {
	return map[string]string{
		middleware.HeaderTenantID: "1",
		middleware.HeaderUserID:   "2",
		middleware.HeaderUserRole: "admin",
	}
}

func TestWalletHandler_GetBalance(t *testing.T) {
	t.Run("returns the balance", func(t *testing.T) {
		walletUC := new(MockWalletUseCase)
		walletUC.On("GetBalance", mock.Anything, uint(7)).
			Return(decimal.NewFromInt(80), nil)
		router := setupWalletRouter(walletUC, new(MockTransferUseCase), new(MockAuditUseCase))

		w := doJSON(router, http.MethodGet, "/api/v1/wallets/me/balance", nil, userHeaders())

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"balance":"80"`)
		walletUC.AssertExpectations(t)
	})

	t.Run("maps missing wallet to 404", func(t *testing.T) {
		walletUC := new(MockWalletUseCase)
		walletUC.On("GetBalance", mock.Anything, uint(7)).
			Return(decimal.Zero, apperrors.NotFound("wallet for user", 7))
		router := setupWalletRouter(walletUC, new(MockTransferUseCase), new(MockAuditUseCase))

		w := doJSON(router, http.MethodGet, "/api/v1/wallets/me/balance", nil, userHeaders())

		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("rejects requests without identity headers", func(t *testing.T) {
		router := setupWalletRouter(new(MockWalletUseCase), new(MockTransferUseCase), new(MockAuditUseCase))
		w := doJSON(router, http.MethodGet, "/api/v1/wallets/me/balance", nil, nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestWalletHandler_Debit(t *testing.T) {
	t.Run("debits and returns the ledger entry", func(t *testing.T) {
		walletUC := new(MockWalletUseCase)
		wallet := &models.Wallet{ID: 1, TenantID: 1, UserID: 7, Balance: decimal.NewFromInt(50)}
		txn := &models.WalletTransaction{
			ID:       10,
			WalletID: 1,
			Type:     models.TransactionTypePurchase,
			Amount:   decimal.NewFromInt(-50),
		}
		walletUC.On("Debit", mock.Anything, uint(7), decimal.NewFromInt(50), "order", "ORD-1").
			Return(wallet, txn, nil)
		router := setupWalletRouter(walletUC, new(MockTransferUseCase), new(MockAuditUseCase))

		w := doJSON(router, http.MethodPost, "/api/v1/wallets/me/debit", gin.H{
			"amount":      "50",
			"description": "order",
			"reference":   "ORD-1",
		}, userHeaders())

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"type":"PURCHASE"`)
		walletUC.AssertExpectations(t)
	})

	t.Run("maps insufficient balance to 400 with figures", func(t *testing.T) {
		walletUC := new(MockWalletUseCase)
		walletUC.On("Debit", mock.Anything, uint(7), mock.Anything, mock.Anything, mock.Anything).
			Return(nil, nil, &apperrors.InsufficientBalanceError{
				Balance:   decimal.NewFromInt(10),
				Requested: decimal.NewFromInt(50),
			})
		router := setupWalletRouter(walletUC, new(MockTransferUseCase), new(MockAuditUseCase))

		w := doJSON(router, http.MethodPost, "/api/v1/wallets/me/debit", gin.H{
			"amount": "50",
		}, userHeaders())

		assert.Equal(t, http.StatusBadRequest, w.Code)

		var resp struct {
			Detail map[string]interface{} `json:"detail"`
		}
		assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "10", resp.Detail["balance"])
		assert.Equal(t, "50", resp.Detail["requested"])
	})

	t.Run("rejects malformed payload", func(t *testing.T) {
		router := setupWalletRouter(new(MockWalletUseCase), new(MockTransferUseCase), new(MockAuditUseCase))
		w := doJSON(router, http.MethodPost, "/api/v1/wallets/me/debit", gin.H{}, userHeaders())
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestWalletHandler_Credit(t *testing.T) {
	t.Run("admin credits any user", func(t *testing.T) {
		walletUC := new(MockWalletUseCase)
		wallet := &models.Wallet{ID: 1, TenantID: 1, UserID: 7, Balance: decimal.NewFromInt(150)}
		txn := &models.WalletTransaction{ID: 11, WalletID: 1, Type: models.TransactionTypeBonus, Amount: decimal.NewFromInt(100)}
		walletUC.On("Credit", mock.Anything, uint(7), decimal.NewFromInt(100), models.TransactionTypeBonus, "loyalty", "").
			Return(wallet, txn, nil)
		router := setupWalletRouter(walletUC, new(MockTransferUseCase), new(MockAuditUseCase))

		w := doJSON(router, http.MethodPost, "/api/v1/admin/wallets/credit", gin.H{
			"user_id":     7,
			"amount":      "100",
			"type":        "BONUS",
			"description": "loyalty",
		}, adminHeaders())

		assert.Equal(t, http.StatusOK, w.Code)
		walletUC.AssertExpectations(t)
	})

	t.Run("non-admin is forbidden", func(t *testing.T) {
		router := setupWalletRouter(new(MockWalletUseCase), new(MockTransferUseCase), new(MockAuditUseCase))
		w := doJSON(router, http.MethodPost, "/api/v1/admin/wallets/credit", gin.H{
			"user_id": 7,
			"amount":  "100",
			"type":    "BONUS",
		}, userHeaders())
		assert.Equal(t, http.StatusForbidden, w.Code)
	})
}

func TestWalletHandler_Transfer(t *testing.T) {
	t.Run("returns both legs", func(t *testing.T) {
		transferUC := new(MockTransferUseCase)
		debit := &models.WalletTransaction{ID: 1, Amount: decimal.NewFromInt(-40), Reference: "TRF-X-OUT"}
		credit := &models.WalletTransaction{ID: 2, Amount: decimal.NewFromInt(40), Reference: "TRF-X-IN"}
		transferUC.On("Transfer", mock.Anything, uint(7), uint(8), decimal.NewFromInt(40), "rent").
			Return(debit, credit, nil)
		router := setupWalletRouter(new(MockWalletUseCase), transferUC, new(MockAuditUseCase))

		w := doJSON(router, http.MethodPost, "/api/v1/wallets/me/transfer", gin.H{
			"to_user_id":  8,
			"amount":      "40",
			"description": "rent",
		}, userHeaders())

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "TRF-X-OUT")
		assert.Contains(t, w.Body.String(), "TRF-X-IN")
		transferUC.AssertExpectations(t)
	})

	t.Run("maps missing receiver to 404", func(t *testing.T) {
		transferUC := new(MockTransferUseCase)
		transferUC.On("Transfer", mock.Anything, uint(7), uint(999), mock.Anything, mock.Anything).
			Return(nil, nil, apperrors.NotFound("wallet for user", 999))
		router := setupWalletRouter(new(MockWalletUseCase), transferUC, new(MockAuditUseCase))

		w := doJSON(router, http.MethodPost, "/api/v1/wallets/me/transfer", gin.H{
			"to_user_id": 999,
			"amount":     "40",
		}, userHeaders())

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestWalletHandler_GetTransactionHistory(t *testing.T) {
	walletUC := new(MockWalletUseCase)
	next := "b3BhcXVl"
	txns := []models.WalletTransaction{
		{ID: 2, WalletID: 1, Type: models.TransactionTypePurchase, Amount: decimal.NewFromInt(-10)},
		{ID: 1, WalletID: 1, Type: models.TransactionTypeTopUp, Amount: decimal.NewFromInt(100)},
	}
	walletUC.On("GetTransactionHistory", mock.Anything, uint(7), (*string)(nil), 2).
		Return(txns, &next, nil)
	router := setupWalletRouter(walletUC, new(MockTransferUseCase), new(MockAuditUseCase))

	w := doJSON(router, http.MethodGet, "/api/v1/wallets/me/transactions?limit=2", nil, userHeaders())

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"next_cursor":"b3BhcXVl"`)
	assert.Contains(t, w.Body.String(), `"has_next_page":true`)
	walletUC.AssertExpectations(t)
}
