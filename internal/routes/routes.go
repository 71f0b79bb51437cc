package routes

import (
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"

	"github.com/shoplite/commerce-core/internal/handlers"
	"github.com/shoplite/commerce-core/internal/middleware"
	"github.com/shoplite/commerce-core/internal/usecases"
)

// SetupRoutes wires all HTTP routes. Everything under /api/v1 requires the
// gateway identity headers; the admin subtree additionally requires the admin
// role.
func SetupRoutes(router *gin.Engine, useCases *usecases.UseCases, db *gorm.DB) {
	healthHandler := handlers.NewHealthHandler(db)
	walletHandler := handlers.NewWalletHandler(useCases.Wallet, useCases.Transfer, useCases.Audit)
	topUpHandler := handlers.NewTopUpHandler(useCases.TopUp)
	cardHandler := handlers.NewCardHandler(useCases.Card)

	router.GET("/health", healthHandler.Check)
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	v1 := router.Group("/api/v1")
	v1.Use(middleware.IdentityMiddleware())
	{
		wallets := v1.Group("/wallets")
		{
			wallets.POST("/me", walletHandler.GetOrCreateWallet)
			wallets.GET("/me/balance", walletHandler.GetBalance)
			wallets.GET("/me/transactions", walletHandler.GetTransactionHistory)
			wallets.POST("/me/debit", walletHandler.Debit)
			wallets.POST("/me/transfer", walletHandler.Transfer)
		}

		topups := v1.Group("/topups")
		{
			topups.POST("", topUpHandler.Create)
			topups.GET("", topUpHandler.List)
			topups.GET("/:id", topUpHandler.Get)
			topups.POST("/:id/cancel", topUpHandler.Cancel)
		}

		v1.GET("/banks", topUpHandler.ListBanks)

		cards := v1.Group("/cards")
		{
			cards.POST("/reserve", cardHandler.Reserve)
			cards.POST("/mark-sold", cardHandler.MarkSold)
			cards.POST("/release", cardHandler.Release)
			cards.GET("/summary", cardHandler.Summary)
		}

		admin := v1.Group("/admin")
		admin.Use(middleware.RequireAdmin())
		{
			admin.POST("/wallets/credit", walletHandler.Credit)
			admin.POST("/wallets/:user_id/audit", walletHandler.VerifyWallet)

			admin.POST("/topups/:id/approve", topUpHandler.Approve)
			admin.POST("/topups/:id/reject", topUpHandler.Reject)

			admin.POST("/banks", topUpHandler.CreateBank)

			admin.POST("/cards/import", cardHandler.Import)
			admin.POST("/cards/import-file", cardHandler.ImportFile)
			admin.POST("/cards/expire-sweep", cardHandler.ExpireSweep)
			admin.POST("/cards/quarantine", cardHandler.Quarantine)
			admin.POST("/cards/recover", cardHandler.Recover)
			admin.GET("/cards", cardHandler.ListInventory)
			admin.GET("/cards/batches", cardHandler.ListBatches)
		}
	}
}
