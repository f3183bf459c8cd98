package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"payment-advice-backend/internal/repository"
)

type PaymentAdviceHandler struct {
	ledgerRepo *repository.LedgerRepository
}

func NewPaymentAdviceHandler(ledgerRepo *repository.LedgerRepository) *PaymentAdviceHandler {
	return &PaymentAdviceHandler{ledgerRepo: ledgerRepo}
}

// GetAdvice returns one payment advice with its reconciled invoices, other
// docs, and settlements.
func (h *PaymentAdviceHandler) GetAdvice(c *gin.Context) {
	adviceUUID, err := uuid.Parse(c.Param("adviceId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid advice ID"})
		return
	}
	ctx := c.Request.Context()

	advice, err := h.ledgerRepo.GetPaymentAdvice(ctx, adviceUUID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "payment advice not found"})
		return
	}
	invoices, err := h.ledgerRepo.ListInvoicesByAdvice(ctx, adviceUUID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	otherDocs, err := h.ledgerRepo.ListOtherDocsByAdvice(ctx, adviceUUID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	settlements, err := h.ledgerRepo.ListSettlementsByAdvice(ctx, adviceUUID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"advice":      advice,
		"invoices":    invoices,
		"other_docs":  otherDocs,
		"settlements": settlements,
	})
}

// ListByEmail returns every payment advice reconciled from one email.
func (h *PaymentAdviceHandler) ListByEmail(c *gin.Context) {
	emailLogUUID, err := uuid.Parse(c.Param("emailLogId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid email log ID"})
		return
	}
	advices, err := h.ledgerRepo.ListAdvicesByEmail(c.Request.Context(), emailLogUUID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": advices})
}
