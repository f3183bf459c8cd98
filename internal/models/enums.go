package models

import "fmt"

// BatchRunStatus is the lifecycle state of a batch run.
type BatchRunStatus string

const (
	BatchRunNew        BatchRunStatus = "NEW"
	BatchRunInProgress BatchRunStatus = "IN_PROGRESS"
	BatchRunSuccess    BatchRunStatus = "SUCCESS"
	BatchRunFailed     BatchRunStatus = "FAILED"
	BatchRunPartial    BatchRunStatus = "PARTIAL"
)

func (s BatchRunStatus) IsValid() bool {
	switch s {
	case BatchRunNew, BatchRunInProgress, BatchRunSuccess, BatchRunFailed, BatchRunPartial:
		return true
	}
	return false
}

// IsTerminal reports whether the run can no longer change state.
func (s BatchRunStatus) IsTerminal() bool {
	switch s {
	case BatchRunSuccess, BatchRunFailed, BatchRunPartial:
		return true
	}
	return false
}

// ProcessingStatus is the per-email outcome recorded for one run attempt.
type ProcessingStatus string

const (
	ProcessingSuccess ProcessingStatus = "SUCCESS"
	ProcessingFailed  ProcessingStatus = "FAILED"
	ProcessingPartial ProcessingStatus = "PARTIAL"
)

func (s ProcessingStatus) IsValid() bool {
	switch s {
	case ProcessingSuccess, ProcessingFailed, ProcessingPartial:
		return true
	}
	return false
}

type PaymentAdviceStatus string

const (
	AdviceNew        PaymentAdviceStatus = "NEW"
	AdviceProcessing PaymentAdviceStatus = "PROCESSING"
	AdviceCompleted  PaymentAdviceStatus = "COMPLETED"
	AdviceFailed     PaymentAdviceStatus = "FAILED"
)

func (s PaymentAdviceStatus) IsValid() bool {
	switch s {
	case AdviceNew, AdviceProcessing, AdviceCompleted, AdviceFailed:
		return true
	}
	return false
}

type InvoiceStatus string

const (
	InvoiceOpen          InvoiceStatus = "OPEN"
	InvoiceClosed        InvoiceStatus = "CLOSED"
	InvoicePartiallyPaid InvoiceStatus = "PARTIALLY_PAID"
)

func (s InvoiceStatus) IsValid() bool {
	switch s {
	case InvoiceOpen, InvoiceClosed, InvoicePartiallyPaid:
		return true
	}
	return false
}

type OtherDocType string

const (
	OtherDocCreditNote OtherDocType = "CREDIT_NOTE"
	OtherDocDebitNote  OtherDocType = "DEBIT_NOTE"
	OtherDocOther      OtherDocType = "OTHER"
)

func (t OtherDocType) IsValid() bool {
	switch t {
	case OtherDocCreditNote, OtherDocDebitNote, OtherDocOther:
		return true
	}
	return false
}

// ParseOtherDocType rejects values outside the closed set.
func ParseOtherDocType(raw string) (OtherDocType, error) {
	t := OtherDocType(raw)
	if !t.IsValid() {
		return "", fmt.Errorf("unknown other doc type %q", raw)
	}
	return t, nil
}

type SettlementStatus string

const (
	SettlementReady      SettlementStatus = "READY"
	SettlementProcessing SettlementStatus = "PROCESSING"
	SettlementCompleted  SettlementStatus = "COMPLETED"
	SettlementFailed     SettlementStatus = "FAILED"
)

func (s SettlementStatus) IsValid() bool {
	switch s {
	case SettlementReady, SettlementProcessing, SettlementCompleted, SettlementFailed:
		return true
	}
	return false
}

// DocKind distinguishes the two globally unique document number spaces.
type DocKind string

const (
	DocKindInvoice  DocKind = "INVOICE"
	DocKindOtherDoc DocKind = "OTHER_DOC"
)

func (k DocKind) IsValid() bool {
	return k == DocKindInvoice || k == DocKindOtherDoc
}

// SapEntityKind names the entities an external reconciliation job may stamp.
type SapEntityKind string

const (
	SapEntityInvoice    SapEntityKind = "INVOICE"
	SapEntityOtherDoc   SapEntityKind = "OTHER_DOC"
	SapEntitySettlement SapEntityKind = "SETTLEMENT"
)

func (k SapEntityKind) IsValid() bool {
	switch k {
	case SapEntityInvoice, SapEntityOtherDoc, SapEntitySettlement:
		return true
	}
	return false
}

// RunMode selects how much mailbox history a run covers.
type RunMode string

const (
	RunModeIncremental RunMode = "incremental"
	RunModeFullRefresh RunMode = "full_refresh"
)

func (m RunMode) IsValid() bool {
	return m == RunModeIncremental || m == RunModeFullRefresh
}
