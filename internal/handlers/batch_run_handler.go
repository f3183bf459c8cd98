package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"payment-advice-backend/internal/models"
	"payment-advice-backend/internal/repository"
	"payment-advice-backend/internal/services/batchrun"
)

type BatchRunHandler struct {
	coordinator *batchrun.Coordinator
	runRepo     *repository.BatchRunRepository
	logRepo     *repository.ProcessingLogRepository
	logger      *zap.Logger
}

func NewBatchRunHandler(coordinator *batchrun.Coordinator, runRepo *repository.BatchRunRepository, logRepo *repository.ProcessingLogRepository, logger *zap.Logger) *BatchRunHandler {
	return &BatchRunHandler{coordinator: coordinator, runRepo: runRepo, logRepo: logRepo, logger: logger}
}

type submitEmailPayload struct {
	Meta   models.RawEmailMeta `json:"meta" binding:"required"`
	Drafts []models.Draft      `json:"drafts"`
}

type startRunPayload struct {
	MailboxID string               `json:"mailbox_id"`
	RunMode   models.RunMode       `json:"run_mode"`
	Emails    []submitEmailPayload `json:"emails" binding:"required"`
}

// StartRun creates a run and processes the submitted emails in the
// background, answering 202 with the run id.
func (h *BatchRunHandler) StartRun(c *gin.Context) {
	var payload startRunPayload
	if err := c.BindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}
	if payload.RunMode != "" && !payload.RunMode.IsValid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "run_mode must be incremental or full_refresh"})
		return
	}

	run, err := h.coordinator.StartRun(c.Request.Context(), payload.MailboxID, payload.RunMode)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	jobs := make([]batchrun.EmailJob, 0, len(payload.Emails))
	for _, email := range payload.Emails {
		body, err := json.Marshal(email.Drafts)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid drafts"})
			return
		}
		jobs = append(jobs, batchrun.EmailJob{Meta: email.Meta, Payload: body})
	}

	// Process in the background; callers poll the run status.
	go func() {
		if err := h.coordinator.Run(context.Background(), run, jobs); err != nil {
			h.logger.Error("batch run processing failed",
				zap.String("run_id", run.RunID.String()),
				zap.Error(err))
		}
	}()

	c.JSON(http.StatusAccepted, gin.H{
		"run_id": run.RunID.String(),
		"status": run.Status,
	})
}

func (h *BatchRunHandler) GetRun(c *gin.Context) {
	runID, err := uuid.Parse(c.Param("runId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid run ID"})
		return
	}
	run, err := h.runRepo.GetByID(c.Request.Context(), runID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "run not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"run_id":           run.RunID.String(),
		"status":           run.Status,
		"start_ts":         run.StartTS,
		"end_ts":           run.EndTS,
		"emails_processed": run.EmailsProcessed,
		"errors":           run.Errors,
	})
}

func (h *BatchRunHandler) ListRunEmails(c *gin.Context) {
	runID, err := uuid.Parse(c.Param("runId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid run ID"})
		return
	}
	logs, err := h.logRepo.ListByRun(c.Request.Context(), runID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": logs})
}

func (h *BatchRunHandler) CancelRun(c *gin.Context) {
	runID, err := uuid.Parse(c.Param("runId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid run ID"})
		return
	}
	run, err := h.runRepo.GetByID(c.Request.Context(), runID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "run not found"})
		return
	}
	if err := h.coordinator.Cancel(c.Request.Context(), run); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"run_id": run.RunID.String(), "status": run.Status})
}
