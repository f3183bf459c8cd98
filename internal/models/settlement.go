package models

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SettlementTarget is the tagged either/or reference a settlement applies
// to. Building settlements only through NewSettlement keeps the
// exactly-one-of invariant structural.
type SettlementTarget struct {
	Kind DocKind
	UUID uuid.UUID
}

func InvoiceTarget(invoiceUUID uuid.UUID) SettlementTarget {
	return SettlementTarget{Kind: DocKindInvoice, UUID: invoiceUUID}
}

func OtherDocTarget(otherDocUUID uuid.UUID) SettlementTarget {
	return SettlementTarget{Kind: DocKindOtherDoc, UUID: otherDocUUID}
}

// Settlement applies part or all of a payment advice's amount against one
// invoice or one other doc, never both.
type Settlement struct {
	SettlementUUID    uuid.UUID  `gorm:"type:uuid;primaryKey"`
	PaymentAdviceUUID uuid.UUID  `gorm:"type:uuid;index"`
	CustomerUUID      uuid.UUID  `gorm:"type:uuid;index"`
	InvoiceUUID       *uuid.UUID `gorm:"type:uuid"`
	OtherDocUUID      *uuid.UUID `gorm:"type:uuid"`
	SettlementDate    time.Time
	SettlementAmount  decimal.Decimal `gorm:"type:numeric"`
	SettlementStatus  SettlementStatus
	SapTransactionID  *string
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// NewSettlement binds a settlement to its target, setting exactly one of the
// two foreign keys.
func NewSettlement(adviceUUID, customerUUID uuid.UUID, target SettlementTarget, date time.Time, amount decimal.Decimal) (*Settlement, error) {
	s := &Settlement{
		SettlementUUID:    uuid.New(),
		PaymentAdviceUUID: adviceUUID,
		CustomerUUID:      customerUUID,
		SettlementDate:    date,
		SettlementAmount:  amount,
		SettlementStatus:  SettlementReady,
	}
	switch target.Kind {
	case DocKindInvoice:
		u := target.UUID
		s.InvoiceUUID = &u
	case DocKindOtherDoc:
		u := target.UUID
		s.OtherDocUUID = &u
	default:
		return nil, errors.New("settlement target kind must be INVOICE or OTHER_DOC")
	}
	return s, nil
}

// Target reconstructs the tagged reference from the persisted row.
func (s *Settlement) Target() (SettlementTarget, error) {
	switch {
	case s.InvoiceUUID != nil && s.OtherDocUUID == nil:
		return InvoiceTarget(*s.InvoiceUUID), nil
	case s.OtherDocUUID != nil && s.InvoiceUUID == nil:
		return OtherDocTarget(*s.OtherDocUUID), nil
	}
	return SettlementTarget{}, errors.New("settlement must reference exactly one of invoice or other doc")
}
