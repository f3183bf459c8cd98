package status

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"payment-advice-backend/internal/models"
	"payment-advice-backend/internal/repository"
)

// Aggregator records per-email outcomes and keeps the owning batch run's
// counters consistent with the processing log rows. The log write and the
// counter update happen in one transaction.
type Aggregator struct {
	db      *gorm.DB
	runRepo *repository.BatchRunRepository
	logRepo *repository.ProcessingLogRepository
	logger  *zap.Logger
}

func NewAggregator(db *gorm.DB, runRepo *repository.BatchRunRepository, logRepo *repository.ProcessingLogRepository, logger *zap.Logger) *Aggregator {
	return &Aggregator{db: db, runRepo: runRepo, logRepo: logRepo, logger: logger}
}

// Record writes exactly one EmailProcessingLog per (run, email) pair. A
// second call for the same pair overwrites the previous outcome and adjusts
// the error counter delta; emails_processed is never double-counted.
func (a *Aggregator) Record(ctx context.Context, run *models.BatchRun, emailLog *models.EmailLog, outcome models.ProcessingStatus, errorMessage *string) (*models.EmailProcessingLog, error) {
	if !outcome.IsValid() {
		return nil, fmt.Errorf("unknown processing status %q", outcome)
	}

	var result *models.EmailProcessingLog
	err := a.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Insert-first against the unique (run_id, email_log_uuid) index:
		// zero rows affected means another write holds the pair, so this
		// call overwrites instead. Avoids the lookup-then-insert window.
		log := &models.EmailProcessingLog{
			EmailProcessingUUID: uuid.New(),
			EmailLogUUID:        emailLog.EmailLogUUID,
			RunID:               run.RunID,
			ProcessingStatus:    outcome,
			ErrorMessage:        errorMessage,
		}
		res := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(log)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected > 0 {
			result = log
			return a.runRepo.IncrementCounters(tx, run.RunID, 1, errorDelta(outcome, ""))
		}

		var existing models.EmailProcessingLog
		if err := tx.Where("run_id = ? AND email_log_uuid = ?", run.RunID, emailLog.EmailLogUUID).
			First(&existing).Error; err != nil {
			return err
		}
		previous := existing.ProcessingStatus
		existing.ProcessingStatus = outcome
		existing.ErrorMessage = errorMessage
		existing.UpdatedAt = time.Now().UTC()
		if err := tx.Save(&existing).Error; err != nil {
			return err
		}
		result = &existing
		return a.runRepo.IncrementCounters(tx, run.RunID, 0, errorDelta(outcome, previous))
	})
	if err != nil {
		return nil, err
	}

	a.logger.Info("recorded email outcome",
		zap.String("run_id", run.RunID.String()),
		zap.String("email_log_uuid", emailLog.EmailLogUUID.String()),
		zap.String("status", string(outcome)))
	return result, nil
}

// errorDelta computes how the run's error counter moves when the outcome for
// a pair changes from previous to next. An empty previous means first write.
func errorDelta(next, previous models.ProcessingStatus) int {
	delta := 0
	if next == models.ProcessingFailed {
		delta++
	}
	if previous == models.ProcessingFailed {
		delta--
	}
	return delta
}
