package main

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/shoplite/commerce-core/internal/config"
	"github.com/shoplite/commerce-core/internal/database"
	"github.com/shoplite/commerce-core/internal/logging"
	"github.com/shoplite/commerce-core/internal/notifications"
	"github.com/shoplite/commerce-core/internal/repositories"
	"github.com/shoplite/commerce-core/internal/routes"
	"github.com/shoplite/commerce-core/internal/usecases"
)

//	@title			Commerce Core API
//	@version		1.0
//	@description	Multi-tenant wallet ledger, top-up workflow, and card inventory service
//	@BasePath		/api/v1
func main() {
	// .env is optional; real deployments set environment variables directly
	_ = godotenv.Load()

	cfg := config.LoadConfig()
	log := logging.Setup(&cfg.App)

	db, err := database.Initialize(cfg)
	if err != nil {
		log.WithError(err).Fatal("Failed to initialize database")
	}

	repos := repositories.NewRepositories(db)
	notifier := notifications.NewLogNotifier(log)
	useCases := usecases.NewUseCases(repos, &cfg.Wallet, notifier, log)

	if cfg.App.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.Default()

	routes.SetupRoutes(router, useCases, db)

	addr := fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port)
	server := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	log.WithField("addr", addr).Info("Starting server")
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.WithError(err).Fatal("Server failed")
	}
}
