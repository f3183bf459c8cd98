package routes

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"payment-advice-backend/internal/config"
	handler "payment-advice-backend/internal/handlers"
	"payment-advice-backend/internal/repository"
	"payment-advice-backend/internal/services/batchrun"
	"payment-advice-backend/internal/services/ingestion"
	"payment-advice-backend/internal/services/reconciliation"
	"payment-advice-backend/internal/services/registrar"
	"payment-advice-backend/internal/services/sapsync"
	"payment-advice-backend/internal/services/status"
)

func RegisterRoutes(r *gin.Engine, db *gorm.DB, cfg *config.Config, logger *zap.Logger) {
	runRepo := repository.NewBatchRunRepository(db)
	emailRepo := repository.NewEmailLogRepository(db)
	logRepo := repository.NewProcessingLogRepository(db)
	ledgerRepo := repository.NewLedgerRepository(db)
	reservationRepo := repository.NewReservationRepository(db)

	reg := registrar.New(reservationRepo, logger)
	tracker := ingestion.NewTracker(emailRepo, logger)
	engine := reconciliation.NewEngine(db, reg, logger)
	aggregator := status.NewAggregator(db, runRepo, logRepo, logger)
	coordinator := batchrun.NewCoordinator(
		runRepo, logRepo, tracker, engine, aggregator,
		batchrun.DraftPassthroughExtractor{},
		cfg.Worker.PoolSize, cfg.Worker.GatewayTimeout, logger,
	)
	sapService := sapsync.New(ledgerRepo, logger)

	runHandler := handler.NewBatchRunHandler(coordinator, runRepo, logRepo, logger)
	adviceHandler := handler.NewPaymentAdviceHandler(ledgerRepo)
	sapHandler := handler.NewSapHandler(sapService)

	api := r.Group("/api")

	api.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	runs := api.Group("/batch-runs")
	runs.POST("", runHandler.StartRun)
	runs.GET("/:runId", runHandler.GetRun)
	runs.GET("/:runId/emails", runHandler.ListRunEmails)
	runs.POST("/:runId/cancel", runHandler.CancelRun)

	advices := api.Group("/payment-advices")
	advices.GET("/:adviceId", adviceHandler.GetAdvice)

	api.GET("/emails/:emailLogId/payment-advices", adviceHandler.ListByEmail)

	sap := api.Group("/sap")
	sap.POST("/mark-synced", sapHandler.MarkSynced)
}
