package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Invoice is one invoice line reconciled under a payment advice.
// InvoiceNumber is globally unique, enforced by the uniqueness registrar
// rather than a storage constraint.
type Invoice struct {
	InvoiceUUID       uuid.UUID `gorm:"type:uuid;primaryKey"`
	PaymentAdviceUUID uuid.UUID `gorm:"type:uuid;index"`
	CustomerUUID      uuid.UUID `gorm:"type:uuid;index"`
	InvoiceNumber     string    `gorm:"index"`
	InvoiceDate       time.Time
	BookingAmount     decimal.Decimal `gorm:"type:numeric"`
	InvoiceStatus     InvoiceStatus
	SapTransactionID  *string
	CreatedAt         time.Time
	UpdatedAt         time.Time
}
