package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OtherDoc is a non-invoice financial document (credit/debit note) settled
// under a payment advice. OtherDocNumber shares the registrar-enforced
// global uniqueness rule with invoice numbers, in its own number space.
type OtherDoc struct {
	OtherDocUUID      uuid.UUID `gorm:"type:uuid;primaryKey"`
	PaymentAdviceUUID uuid.UUID `gorm:"type:uuid;index"`
	CustomerUUID      uuid.UUID `gorm:"type:uuid;index"`
	OtherDocNumber    string    `gorm:"index"`
	OtherDocDate      time.Time
	OtherDocType      OtherDocType
	OtherDocAmount    decimal.Decimal `gorm:"type:numeric"`
	SapTransactionID  *string
	CreatedAt         time.Time
	UpdatedAt         time.Time
}
