package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"payment-advice-backend/internal/models"
)

type BatchRunRepository struct {
	db *gorm.DB
}

func NewBatchRunRepository(db *gorm.DB) *BatchRunRepository {
	return &BatchRunRepository{db: db}
}

func (r *BatchRunRepository) DB() *gorm.DB {
	return r.db
}

func (r *BatchRunRepository) Create(ctx context.Context, run *models.BatchRun) error {
	return r.db.WithContext(ctx).Create(run).Error
}

func (r *BatchRunRepository) GetByID(ctx context.Context, runID uuid.UUID) (*models.BatchRun, error) {
	var run models.BatchRun
	if err := r.db.WithContext(ctx).First(&run, "run_id = ?", runID).Error; err != nil {
		return nil, err
	}
	return &run, nil
}

func (r *BatchRunRepository) Save(ctx context.Context, run *models.BatchRun) error {
	return r.db.WithContext(ctx).Save(run).Error
}

// MarkInProgress moves a NEW run to IN_PROGRESS. Calling it again is a no-op,
// so the first email dispatch wins and later dispatches leave the row alone.
func (r *BatchRunRepository) MarkInProgress(ctx context.Context, runID uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&models.BatchRun{}).
		Where("run_id = ? AND status = ?", runID, models.BatchRunNew).
		Update("status", models.BatchRunInProgress).Error
}

// IncrementCounters applies counter deltas with atomic SQL adds so concurrent
// workers never lose updates.
func (r *BatchRunRepository) IncrementCounters(tx *gorm.DB, runID uuid.UUID, processedDelta, errorDelta int) error {
	updates := map[string]interface{}{}
	if processedDelta != 0 {
		updates["emails_processed"] = gorm.Expr("emails_processed + ?", processedDelta)
	}
	if errorDelta != 0 {
		updates["errors"] = gorm.Expr("errors + ?", errorDelta)
	}
	if len(updates) == 0 {
		return nil
	}
	return tx.Model(&models.BatchRun{}).Where("run_id = ?", runID).Updates(updates).Error
}
