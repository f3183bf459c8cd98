package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"payment-advice-backend/internal/models"
	"payment-advice-backend/internal/services/sapsync"
)

type SapHandler struct {
	service *sapsync.Service
}

func NewSapHandler(service *sapsync.Service) *SapHandler {
	return &SapHandler{service: service}
}

// MarkSynced is the endpoint the external SAP reconciliation job calls to
// stamp transaction ids after the fact.
func (h *SapHandler) MarkSynced(c *gin.Context) {
	var payload struct {
		EntityKind       models.SapEntityKind `json:"entity_kind"`
		EntityUUID       string               `json:"entity_uuid"`
		SapTransactionID string               `json:"sap_transaction_id"`
	}
	if err := c.BindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}
	if !payload.EntityKind.IsValid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "entity_kind must be INVOICE, OTHER_DOC or SETTLEMENT"})
		return
	}
	entityUUID, err := uuid.Parse(payload.EntityUUID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid entity UUID"})
		return
	}

	err = h.service.MarkSapSynced(c.Request.Context(), payload.EntityKind, entityUUID, payload.SapTransactionID)
	if err != nil {
		if errors.Is(err, models.ErrInvalidState) {
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "sap transaction id recorded"})
}
