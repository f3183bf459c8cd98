package reconciliation

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"payment-advice-backend/internal/models"
	"payment-advice-backend/internal/services/registrar"
)

// LineIssue is one line-level problem found while reconciling a draft. Line
// issues reduce completeness; they never abort the draft on their own.
type LineIssue struct {
	Number string `json:"number"`
	Error  error  `json:"-"`
	Detail string `json:"detail"`
}

// Outcome is the result of reconciling one draft: the persisted advice, its
// children, and the line-level issues that were skipped over.
type Outcome struct {
	Advice      *models.PaymentAdvice
	Invoices    []models.Invoice
	OtherDocs   []models.OtherDoc
	Settlements []models.Settlement
	Issues      []LineIssue
	Status      models.ProcessingStatus
}

// Engine maps one extractor draft into a PaymentAdvice with child invoices,
// other docs, and settlements, consulting the uniqueness registrar per line.
type Engine struct {
	db        *gorm.DB
	registrar *registrar.Registrar
	logger    *zap.Logger
}

func NewEngine(db *gorm.DB, reg *registrar.Registrar, logger *zap.Logger) *Engine {
	return &Engine{db: db, registrar: reg, logger: logger}
}

// Reconcile validates and persists one draft. A header validation failure
// returns *models.ValidationError and persists nothing. Line-level conflicts
// and referential errors skip only the offending line; a syntactically valid
// header always yields a persisted PaymentAdvice. The whole draft is written
// in one transaction.
func (e *Engine) Reconcile(ctx context.Context, emailLog *models.EmailLog, draft *models.Draft) (*Outcome, error) {
	if err := draft.Header.Validate(); err != nil {
		return nil, err
	}

	advice := &models.PaymentAdvice{
		PaymentAdviceUUID:   uuid.New(),
		EmailLogUUID:        emailLog.EmailLogUUID,
		LegalEntityUUID:     draft.Header.LegalEntityUUID,
		PaymentAdviceNumber: draft.Header.PaymentAdviceNumber,
		PaymentAdviceDate:   draft.Header.PaymentAdviceDate,
		PaymentAdviceAmount: draft.Header.PaymentAdviceAmount,
		PaymentAdviceStatus: models.AdviceNew,
		PayerName:           draft.Header.PayerName,
		PayeeName:           draft.Header.PayeeName,
	}

	out := &Outcome{Advice: advice}

	type reconciledDoc struct {
		kind         models.DocKind
		uuid         uuid.UUID
		customerUUID uuid.UUID
	}
	byNumber := make(map[models.DocKind]map[string]reconciledDoc)
	byNumber[models.DocKindInvoice] = make(map[string]reconciledDoc)
	byNumber[models.DocKindOtherDoc] = make(map[string]reconciledDoc)

	// Numbers are reserved as lines are processed, ahead of the draft
	// commit. Reservations are never released, so a failed commit leaves
	// them standing and a later conflict can name an owner UUID that was
	// never persisted.
	for _, line := range draft.InvoiceLines {
		if line.InvoiceNumber == "" {
			out.addIssue("", &models.ValidationError{Field: "invoice_number", Reason: "required"})
			continue
		}
		invoiceUUID := uuid.New()
		if err := e.registrar.Reserve(ctx, models.DocKindInvoice, line.InvoiceNumber, invoiceUUID); err != nil {
			var conflict *models.UniquenessConflict
			if !errors.As(err, &conflict) {
				// Only a held number may be skipped; a registrar storage
				// failure aborts the draft.
				return nil, err
			}
			out.addIssue(line.InvoiceNumber, err)
			e.logger.Warn("invoice line skipped",
				zap.String("invoice_number", line.InvoiceNumber),
				zap.Error(err))
			continue
		}
		out.Invoices = append(out.Invoices, models.Invoice{
			InvoiceUUID:       invoiceUUID,
			PaymentAdviceUUID: advice.PaymentAdviceUUID,
			CustomerUUID:      line.CustomerUUID,
			InvoiceNumber:     line.InvoiceNumber,
			InvoiceDate:       line.InvoiceDate,
			BookingAmount:     line.BookingAmount,
			InvoiceStatus:     models.InvoiceOpen,
		})
		byNumber[models.DocKindInvoice][line.InvoiceNumber] = reconciledDoc{
			kind:         models.DocKindInvoice,
			uuid:         invoiceUUID,
			customerUUID: line.CustomerUUID,
		}
	}

	for _, line := range draft.OtherDocLines {
		if line.OtherDocNumber == "" {
			out.addIssue("", &models.ValidationError{Field: "other_doc_number", Reason: "required"})
			continue
		}
		if !line.OtherDocType.IsValid() {
			out.addIssue(line.OtherDocNumber, &models.ValidationError{Field: "other_doc_type", Reason: "unknown value"})
			continue
		}
		otherDocUUID := uuid.New()
		if err := e.registrar.Reserve(ctx, models.DocKindOtherDoc, line.OtherDocNumber, otherDocUUID); err != nil {
			var conflict *models.UniquenessConflict
			if !errors.As(err, &conflict) {
				return nil, err
			}
			out.addIssue(line.OtherDocNumber, err)
			e.logger.Warn("other doc line skipped",
				zap.String("other_doc_number", line.OtherDocNumber),
				zap.Error(err))
			continue
		}
		out.OtherDocs = append(out.OtherDocs, models.OtherDoc{
			OtherDocUUID:      otherDocUUID,
			PaymentAdviceUUID: advice.PaymentAdviceUUID,
			CustomerUUID:      line.CustomerUUID,
			OtherDocNumber:    line.OtherDocNumber,
			OtherDocDate:      line.OtherDocDate,
			OtherDocType:      line.OtherDocType,
			OtherDocAmount:    line.OtherDocAmount,
		})
		byNumber[models.DocKindOtherDoc][line.OtherDocNumber] = reconciledDoc{
			kind:         models.DocKindOtherDoc,
			uuid:         otherDocUUID,
			customerUUID: line.CustomerUUID,
		}
	}

	settled := decimal.Zero
	for _, line := range draft.SettlementLines {
		if !line.TargetKind.IsValid() {
			out.addIssue(line.TargetNumber, &models.ValidationError{Field: "target_kind", Reason: "unknown value"})
			continue
		}
		target, ok := byNumber[line.TargetKind][line.TargetNumber]
		if !ok {
			out.addIssue(line.TargetNumber, &models.ReferentialError{
				TargetNumber: line.TargetNumber,
				Reason:       "target not reconciled in this draft",
			})
			continue
		}
		if target.customerUUID != line.CustomerUUID {
			out.addIssue(line.TargetNumber, &models.ReferentialError{
				TargetNumber: line.TargetNumber,
				Reason:       "customer mismatch with settlement target",
			})
			continue
		}
		settlement, err := models.NewSettlement(
			advice.PaymentAdviceUUID,
			line.CustomerUUID,
			models.SettlementTarget{Kind: target.kind, UUID: target.uuid},
			line.SettlementDate,
			line.SettlementAmount,
		)
		if err != nil {
			out.addIssue(line.TargetNumber, err)
			continue
		}
		out.Settlements = append(out.Settlements, *settlement)
		settled = settled.Add(line.SettlementAmount)
	}

	advice.SettledAmount = settled
	if !settled.Equal(advice.PaymentAdviceAmount) {
		advice.AmountMismatch = true
		e.logger.Warn("settled total differs from advice amount",
			zap.String("payment_advice_uuid", advice.PaymentAdviceUUID.String()),
			zap.String("advice_amount", advice.PaymentAdviceAmount.String()),
			zap.String("settled_amount", settled.String()))
	}

	out.Status = classify(out)
	if out.Status == models.ProcessingFailed {
		advice.PaymentAdviceStatus = models.AdviceFailed
	}

	err := e.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		now := time.Now().UTC()
		advice.CreatedAt, advice.UpdatedAt = now, now
		if err := tx.Create(advice).Error; err != nil {
			return err
		}
		if len(out.Invoices) > 0 {
			if err := tx.Create(&out.Invoices).Error; err != nil {
				return err
			}
		}
		if len(out.OtherDocs) > 0 {
			if err := tx.Create(&out.OtherDocs).Error; err != nil {
				return err
			}
		}
		if len(out.Settlements) > 0 {
			if err := tx.Create(&out.Settlements).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	e.logger.Info("reconciled payment advice",
		zap.String("payment_advice_uuid", advice.PaymentAdviceUUID.String()),
		zap.Int("invoices", len(out.Invoices)),
		zap.Int("other_docs", len(out.OtherDocs)),
		zap.Int("settlements", len(out.Settlements)),
		zap.Int("line_issues", len(out.Issues)),
		zap.String("status", string(out.Status)))
	return out, nil
}

// classify applies the outcome rule: no line issues means SUCCESS, issues
// with at least one reconciled line means PARTIAL, and a draft where every
// line failed escalates to FAILED for the email.
func classify(out *Outcome) models.ProcessingStatus {
	if len(out.Issues) == 0 {
		return models.ProcessingSuccess
	}
	reconciled := len(out.Invoices) + len(out.OtherDocs) + len(out.Settlements)
	if reconciled == 0 {
		return models.ProcessingFailed
	}
	return models.ProcessingPartial
}

func (o *Outcome) addIssue(number string, err error) {
	o.Issues = append(o.Issues, LineIssue{Number: number, Error: err, Detail: err.Error()})
}
