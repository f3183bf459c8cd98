package sapsync

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"payment-advice-backend/internal/models"
	"payment-advice-backend/internal/repository"
)

// Service is the single mutation path by which the external SAP
// reconciliation job stamps sap_transaction_id onto ledger entities after
// the fact. The core never calls into SAP itself.
type Service struct {
	ledgerRepo *repository.LedgerRepository
	logger     *zap.Logger
}

func New(ledgerRepo *repository.LedgerRepository, logger *zap.Logger) *Service {
	return &Service{ledgerRepo: ledgerRepo, logger: logger}
}

// MarkSapSynced stamps the transaction id on an invoice, other doc, or
// settlement. Re-stamping the same id is a no-op; stamping a different id
// over an existing one is an invalid-state error.
func (s *Service) MarkSapSynced(ctx context.Context, kind models.SapEntityKind, entityUUID uuid.UUID, sapTransactionID string) error {
	if !kind.IsValid() {
		return fmt.Errorf("unknown entity kind %q", kind)
	}
	if sapTransactionID == "" {
		return &models.ValidationError{Field: "sap_transaction_id", Reason: "required"}
	}

	switch kind {
	case models.SapEntityInvoice:
		invoice, err := s.ledgerRepo.GetInvoice(ctx, entityUUID)
		if err != nil {
			return err
		}
		if done, err := checkStamp(invoice.SapTransactionID, sapTransactionID); done || err != nil {
			return err
		}
		invoice.SapTransactionID = &sapTransactionID
		if err := s.ledgerRepo.SaveInvoice(ctx, invoice); err != nil {
			return err
		}
	case models.SapEntityOtherDoc:
		doc, err := s.ledgerRepo.GetOtherDoc(ctx, entityUUID)
		if err != nil {
			return err
		}
		if done, err := checkStamp(doc.SapTransactionID, sapTransactionID); done || err != nil {
			return err
		}
		doc.SapTransactionID = &sapTransactionID
		if err := s.ledgerRepo.SaveOtherDoc(ctx, doc); err != nil {
			return err
		}
	case models.SapEntitySettlement:
		settlement, err := s.ledgerRepo.GetSettlement(ctx, entityUUID)
		if err != nil {
			return err
		}
		if done, err := checkStamp(settlement.SapTransactionID, sapTransactionID); done || err != nil {
			return err
		}
		settlement.SapTransactionID = &sapTransactionID
		settlement.SettlementStatus = models.SettlementCompleted
		if err := s.ledgerRepo.SaveSettlement(ctx, settlement); err != nil {
			return err
		}
	}

	s.logger.Info("stamped sap transaction id",
		zap.String("entity_kind", string(kind)),
		zap.String("entity_uuid", entityUUID.String()),
		zap.String("sap_transaction_id", sapTransactionID))
	return nil
}

// checkStamp reports (true, nil) when the id is already stamped and the call
// is an idempotent replay, and an error when a different id is present.
func checkStamp(existing *string, incoming string) (bool, error) {
	if existing == nil {
		return false, nil
	}
	if *existing == incoming {
		return true, nil
	}
	return false, fmt.Errorf("sap transaction id already set to %q: %w", *existing, models.ErrInvalidState)
}
