package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PaymentAdvice is the remittance header extracted from one attachment.
// AmountMismatch is set when the settled total differs from the advice
// amount; the mismatch is recorded, never fatal.
type PaymentAdvice struct {
	PaymentAdviceUUID   uuid.UUID `gorm:"type:uuid;primaryKey"`
	EmailLogUUID        uuid.UUID `gorm:"type:uuid;index"`
	LegalEntityUUID     uuid.UUID `gorm:"type:uuid"`
	PaymentAdviceNumber string    `gorm:"index"`
	PaymentAdviceDate   time.Time
	PaymentAdviceAmount decimal.Decimal `gorm:"type:numeric"`
	PaymentAdviceStatus PaymentAdviceStatus
	PayerName           *string
	PayeeName           *string
	SettledAmount       decimal.Decimal `gorm:"type:numeric"`
	AmountMismatch      bool
	CreatedAt           time.Time
	UpdatedAt           time.Time
}
