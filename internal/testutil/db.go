package testutil

import (
	"fmt"
	"testing"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"payment-advice-backend/internal/models"
)

// NewTestDB opens an isolated in-memory sqlite database with the full schema
// migrated. Each call gets its own database.
func NewTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("open test database: %v", err)
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
		t.Fatalf("migrate test database: %v", err)
	}
	return db
}
