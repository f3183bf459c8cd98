package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"payment-advice-backend/internal/models"
)

// LedgerRepository covers the reconciled entities: payment advices and their
// invoices, other docs, and settlements.
type LedgerRepository struct {
	db *gorm.DB
}

func NewLedgerRepository(db *gorm.DB) *LedgerRepository {
	return &LedgerRepository{db: db}
}

func (r *LedgerRepository) DB() *gorm.DB {
	return r.db
}

func (r *LedgerRepository) GetPaymentAdvice(ctx context.Context, adviceUUID uuid.UUID) (*models.PaymentAdvice, error) {
	var advice models.PaymentAdvice
	if err := r.db.WithContext(ctx).First(&advice, "payment_advice_uuid = ?", adviceUUID).Error; err != nil {
		return nil, err
	}
	return &advice, nil
}

func (r *LedgerRepository) GetInvoice(ctx context.Context, invoiceUUID uuid.UUID) (*models.Invoice, error) {
	var invoice models.Invoice
	if err := r.db.WithContext(ctx).First(&invoice, "invoice_uuid = ?", invoiceUUID).Error; err != nil {
		return nil, err
	}
	return &invoice, nil
}

func (r *LedgerRepository) GetOtherDoc(ctx context.Context, otherDocUUID uuid.UUID) (*models.OtherDoc, error) {
	var doc models.OtherDoc
	if err := r.db.WithContext(ctx).First(&doc, "other_doc_uuid = ?", otherDocUUID).Error; err != nil {
		return nil, err
	}
	return &doc, nil
}

func (r *LedgerRepository) GetSettlement(ctx context.Context, settlementUUID uuid.UUID) (*models.Settlement, error) {
	var settlement models.Settlement
	if err := r.db.WithContext(ctx).First(&settlement, "settlement_uuid = ?", settlementUUID).Error; err != nil {
		return nil, err
	}
	return &settlement, nil
}

func (r *LedgerRepository) SaveInvoice(ctx context.Context, invoice *models.Invoice) error {
	return r.db.WithContext(ctx).Save(invoice).Error
}

func (r *LedgerRepository) SaveOtherDoc(ctx context.Context, doc *models.OtherDoc) error {
	return r.db.WithContext(ctx).Save(doc).Error
}

func (r *LedgerRepository) SaveSettlement(ctx context.Context, settlement *models.Settlement) error {
	return r.db.WithContext(ctx).Save(settlement).Error
}

func (r *LedgerRepository) ListInvoicesByAdvice(ctx context.Context, adviceUUID uuid.UUID) ([]models.Invoice, error) {
	var invoices []models.Invoice
	err := r.db.WithContext(ctx).Where("payment_advice_uuid = ?", adviceUUID).Find(&invoices).Error
	return invoices, err
}

func (r *LedgerRepository) ListOtherDocsByAdvice(ctx context.Context, adviceUUID uuid.UUID) ([]models.OtherDoc, error) {
	var docs []models.OtherDoc
	err := r.db.WithContext(ctx).Where("payment_advice_uuid = ?", adviceUUID).Find(&docs).Error
	return docs, err
}

func (r *LedgerRepository) ListSettlementsByAdvice(ctx context.Context, adviceUUID uuid.UUID) ([]models.Settlement, error) {
	var settlements []models.Settlement
	err := r.db.WithContext(ctx).Where("payment_advice_uuid = ?", adviceUUID).Find(&settlements).Error
	return settlements, err
}

func (r *LedgerRepository) ListAdvicesByEmail(ctx context.Context, emailLogUUID uuid.UUID) ([]models.PaymentAdvice, error) {
	var advices []models.PaymentAdvice
	err := r.db.WithContext(ctx).Where("email_log_uuid = ?", emailLogUUID).Find(&advices).Error
	return advices, err
}
