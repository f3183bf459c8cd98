package main

import (
	"log"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"payment-advice-backend/internal/config"
	"payment-advice-backend/internal/logger"
	"payment-advice-backend/internal/models"
	"payment-advice-backend/internal/routes"
)

func main() {
	// Load .env
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, relying on system env")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	zlog := logger.New(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	defer zlog.Sync()

	db, err := config.InitDB(cfg)
	if err != nil {
		zlog.Fatal("database connection failed", zap.Error(err))
	}

	if err := db.AutoMigrate(
		&models.BatchRun{},
		&models.EmailLog{},
		&models.EmailProcessingLog{},
		&models.PaymentAdvice{},
		&models.Invoice{},
		&models.OtherDoc{},
		&models.Settlement{},
		&models.DocNumberReservation{},
	); err != nil {
		zlog.Fatal("migration failed", zap.Error(err))
	}

	r := gin.Default()
	// CORS config
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:3000"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE"},
		AllowHeaders:     []string{"Origin", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	routes.RegisterRoutes(r, db, cfg, zlog)

	zlog.Info("server listening", zap.String("port", cfg.App.Port))
	if err := r.Run(":" + cfg.App.Port); err != nil {
		zlog.Fatal("server stopped", zap.Error(err))
	}
}
