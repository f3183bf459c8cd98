package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Draft is the extractor's structured output for one attachment: a payment
// advice header plus the line tables to reconcile under it.
type Draft struct {
	Header          DraftHeader           `json:"header"`
	InvoiceLines    []DraftInvoiceLine    `json:"invoice_lines"`
	OtherDocLines   []DraftOtherDocLine   `json:"other_doc_lines"`
	SettlementLines []DraftSettlementLine `json:"settlement_lines"`
}

type DraftHeader struct {
	LegalEntityUUID     uuid.UUID       `json:"legal_entity_uuid"`
	PaymentAdviceNumber string          `json:"payment_advice_number"`
	PaymentAdviceDate   time.Time       `json:"payment_advice_date"`
	PaymentAdviceAmount decimal.Decimal `json:"payment_advice_amount"`
	PayerName           *string         `json:"payer_name,omitempty"`
	PayeeName           *string         `json:"payee_name,omitempty"`
}

// Validate checks the required header fields. A failure aborts the whole
// draft before anything is persisted.
func (h DraftHeader) Validate() error {
	if h.LegalEntityUUID == uuid.Nil {
		return &ValidationError{Field: "legal_entity_uuid", Reason: "required"}
	}
	if h.PaymentAdviceNumber == "" {
		return &ValidationError{Field: "payment_advice_number", Reason: "required"}
	}
	if h.PaymentAdviceDate.IsZero() {
		return &ValidationError{Field: "payment_advice_date", Reason: "required"}
	}
	if !h.PaymentAdviceAmount.IsPositive() {
		return &ValidationError{Field: "payment_advice_amount", Reason: "must be a positive amount"}
	}
	return nil
}

type DraftInvoiceLine struct {
	CustomerUUID  uuid.UUID       `json:"customer_uuid"`
	InvoiceNumber string          `json:"invoice_number"`
	InvoiceDate   time.Time       `json:"invoice_date"`
	BookingAmount decimal.Decimal `json:"booking_amount"`
}

type DraftOtherDocLine struct {
	CustomerUUID   uuid.UUID       `json:"customer_uuid"`
	OtherDocNumber string          `json:"other_doc_number"`
	OtherDocDate   time.Time       `json:"other_doc_date"`
	OtherDocType   OtherDocType    `json:"other_doc_type"`
	OtherDocAmount decimal.Decimal `json:"other_doc_amount"`
}

// DraftSettlementLine references its target by document number within the
// same draft.
type DraftSettlementLine struct {
	CustomerUUID     uuid.UUID       `json:"customer_uuid"`
	TargetKind       DocKind         `json:"target_kind"`
	TargetNumber     string          `json:"target_number"`
	SettlementDate   time.Time       `json:"settlement_date"`
	SettlementAmount decimal.Decimal `json:"settlement_amount"`
}

// RawEmailMeta is what the ingestion tracker needs to know about an inbound
// email before any extraction happens.
type RawEmailMeta struct {
	EmailID        string    `json:"email_id"`
	EmailSource    string    `json:"email_source"`
	ReceivedDate   time.Time `json:"received_date"`
	Subject        string    `json:"subject"`
	Sender         string    `json:"sender"`
	OriginalSender *string   `json:"original_sender,omitempty"`
	MailboxID      string    `json:"mailbox_id"`
	GroupUUIDs     []string  `json:"group_uuids,omitempty"`
}
