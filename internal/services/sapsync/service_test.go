package sapsync

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"payment-advice-backend/internal/models"
	"payment-advice-backend/internal/repository"
	"payment-advice-backend/internal/testutil"
)

func setupService(t *testing.T) (*Service, *gorm.DB) {
	db := testutil.NewTestDB(t)
	return New(repository.NewLedgerRepository(db), zap.NewNop()), db
}

func seedInvoice(t *testing.T, db *gorm.DB) *models.Invoice {
	invoice := &models.Invoice{
		InvoiceUUID:       uuid.New(),
		PaymentAdviceUUID: uuid.New(),
		CustomerUUID:      uuid.New(),
		InvoiceNumber:     "INV-" + uuid.NewString()[:8],
		InvoiceDate:       time.Now().UTC(),
		BookingAmount:     decimal.RequireFromString("120.50"),
		InvoiceStatus:     models.InvoiceOpen,
	}
	require.NoError(t, db.Create(invoice).Error)
	return invoice
}

func seedOtherDoc(t *testing.T, db *gorm.DB) *models.OtherDoc {
	doc := &models.OtherDoc{
		OtherDocUUID:      uuid.New(),
		PaymentAdviceUUID: uuid.New(),
		CustomerUUID:      uuid.New(),
		OtherDocNumber:    "CN-" + uuid.NewString()[:8],
		OtherDocDate:      time.Now().UTC(),
		OtherDocType:      models.OtherDocCreditNote,
		OtherDocAmount:    decimal.RequireFromString("-15.00"),
	}
	require.NoError(t, db.Create(doc).Error)
	return doc
}

func seedSettlement(t *testing.T, db *gorm.DB, target models.SettlementTarget) *models.Settlement {
	settlement, err := models.NewSettlement(uuid.New(), uuid.New(), target,
		time.Now().UTC(), decimal.RequireFromString("120.50"))
	require.NoError(t, err)
	require.NoError(t, db.Create(settlement).Error)
	return settlement
}

func TestMarkSapSynced(t *testing.T) {
	ctx := context.Background()

	t.Run("stamps an invoice", func(t *testing.T) {
		svc, db := setupService(t)
		invoice := seedInvoice(t, db)

		require.NoError(t, svc.MarkSapSynced(ctx, models.SapEntityInvoice, invoice.InvoiceUUID, "SAP-1001"))

		var stored models.Invoice
		require.NoError(t, db.First(&stored, "invoice_uuid = ?", invoice.InvoiceUUID).Error)
		require.NotNil(t, stored.SapTransactionID)
		assert.Equal(t, "SAP-1001", *stored.SapTransactionID)
	})

	t.Run("stamps an other doc", func(t *testing.T) {
		svc, db := setupService(t)
		doc := seedOtherDoc(t, db)

		require.NoError(t, svc.MarkSapSynced(ctx, models.SapEntityOtherDoc, doc.OtherDocUUID, "SAP-1002"))

		var stored models.OtherDoc
		require.NoError(t, db.First(&stored, "other_doc_uuid = ?", doc.OtherDocUUID).Error)
		require.NotNil(t, stored.SapTransactionID)
		assert.Equal(t, "SAP-1002", *stored.SapTransactionID)
	})

	t.Run("stamping a settlement also completes it", func(t *testing.T) {
		svc, db := setupService(t)
		invoice := seedInvoice(t, db)
		settlement := seedSettlement(t, db, models.InvoiceTarget(invoice.InvoiceUUID))

		require.NoError(t, svc.MarkSapSynced(ctx, models.SapEntitySettlement, settlement.SettlementUUID, "SAP-1003"))

		var stored models.Settlement
		require.NoError(t, db.First(&stored, "settlement_uuid = ?", settlement.SettlementUUID).Error)
		require.NotNil(t, stored.SapTransactionID)
		assert.Equal(t, "SAP-1003", *stored.SapTransactionID)
		assert.Equal(t, models.SettlementCompleted, stored.SettlementStatus)
	})

	t.Run("re-stamping the same id is a no-op", func(t *testing.T) {
		svc, db := setupService(t)
		invoice := seedInvoice(t, db)

		require.NoError(t, svc.MarkSapSynced(ctx, models.SapEntityInvoice, invoice.InvoiceUUID, "SAP-2000"))
		require.NoError(t, svc.MarkSapSynced(ctx, models.SapEntityInvoice, invoice.InvoiceUUID, "SAP-2000"))

		var stored models.Invoice
		require.NoError(t, db.First(&stored, "invoice_uuid = ?", invoice.InvoiceUUID).Error)
		assert.Equal(t, "SAP-2000", *stored.SapTransactionID)
	})

	t.Run("stamping a different id is rejected", func(t *testing.T) {
		svc, db := setupService(t)
		invoice := seedInvoice(t, db)

		require.NoError(t, svc.MarkSapSynced(ctx, models.SapEntityInvoice, invoice.InvoiceUUID, "SAP-3000"))
		err := svc.MarkSapSynced(ctx, models.SapEntityInvoice, invoice.InvoiceUUID, "SAP-3001")
		assert.True(t, errors.Is(err, models.ErrInvalidState))

		var stored models.Invoice
		require.NoError(t, db.First(&stored, "invoice_uuid = ?", invoice.InvoiceUUID).Error)
		assert.Equal(t, "SAP-3000", *stored.SapTransactionID, "original stamp must stand")
	})

	t.Run("rejects unknown kind and empty id", func(t *testing.T) {
		svc, db := setupService(t)
		invoice := seedInvoice(t, db)

		assert.Error(t, svc.MarkSapSynced(ctx, models.SapEntityKind("LEDGER"), invoice.InvoiceUUID, "SAP-1"))
		assert.Error(t, svc.MarkSapSynced(ctx, models.SapEntityInvoice, invoice.InvoiceUUID, ""))
	})

	t.Run("unknown entity uuid", func(t *testing.T) {
		svc, _ := setupService(t)
		err := svc.MarkSapSynced(ctx, models.SapEntityInvoice, uuid.New(), "SAP-1")
		assert.Error(t, err)
	})
}
